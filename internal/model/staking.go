package model

import (
	"staking_backend/internal/engine"
	"time"

	"github.com/google/uuid"
)

// StakingSession - сессия прогрессивных ставок одного игрока.
// Config и Strategy фиксируются при старте, State меняется на каждой ставке
type StakingSession struct {
	ID           uuid.UUID
	UserID       int
	Preset       string
	DecisionMode engine.DecisionMode
	Config       engine.SessionConfig
	Strategy     engine.Strategy
	State        engine.SessionState
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// StartSession - запрос на открытие сессии.
// Указатели - переопределения полей пресета, nil означает "взять из пресета"
type StartSession struct {
	Preset       string
	DecisionMode engine.DecisionMode
	Config       engine.SessionConfig

	BridgingPolicy    *engine.BridgingPolicy
	RecoveryTargetPct *float64
	CrossoverOffset   *int
}

// BetOutcome - результат обработки исхода одной ставки.
// Settled == false, когда ставка не применялась (терминальная пре-проверка)
type BetOutcome struct {
	Session *StakingSession
	Settled bool
	Record  engine.BetRecord
}

// PresetInfo - описание пресета стратегии для каталога
type PresetInfo struct {
	Name              string
	BridgingPolicy    string
	RecoveryTargetPct float64
	CrossoverOffset   int
}

// PresetStats - агрегаты по завершенным сессиям одного пресета
type PresetStats struct {
	Sessions          int
	Wins              int
	StopLoss          int
	MaxRounds         int
	TableLimit        int
	BankrollExhausted int
	UserStopped       int
	TotalPnL          float64
	TotalRounds       int
	TotalWagered      float64
}
