package engine

import (
	"errors"
	"fmt"
)

// ErrInvalidSessionConfig - ошибка валидации конфигурации сессии
var ErrInvalidSessionConfig = errors.New("invalid session config")

// StopReason - причина завершения сессии
type StopReason string

const (
	StopNone              StopReason = ""
	StopProfitTarget      StopReason = "profit_target"
	StopLoss              StopReason = "stop_loss"
	StopMaxRounds         StopReason = "max_rounds"
	StopTableLimit        StopReason = "table_limit"
	StopBankrollExhausted StopReason = "bankroll_exhausted"
	StopUserStopped       StopReason = "user_stopped"
)

// Label - человекочитаемая подпись причины остановки
func (r StopReason) Label() string {
	switch r {
	case StopProfitTarget:
		return "Profit target reached"
	case StopLoss:
		return "Stop loss hit"
	case StopMaxRounds:
		return "Round limit reached"
	case StopTableLimit:
		return "Table limit reached"
	case StopBankrollExhausted:
		return "Bankroll exhausted"
	case StopUserStopped:
		return "Stopped by player"
	default:
		return "Session active"
	}
}

// DecisionType - тип ожидаемого от игрока решения
type DecisionType string

const (
	DecisionTypeNone     DecisionType = ""
	DecisionTypeBridging DecisionType = "bridging"
	DecisionTypeEveryBet DecisionType = "every_bet"
)

// DecisionMode - режим подтверждения ставок
type DecisionMode string

const (
	// ModeAtBridgingOnly - решение требуется только при бриджинге
	ModeAtBridgingOnly DecisionMode = "at_bridging_only"
	// ModeEveryBet - подтверждение требуется после каждой ставки
	ModeEveryBet DecisionMode = "every_bet"
)

// Decision - решение игрока в паузе сессии
type Decision string

const (
	DecisionStopSession Decision = "stop_session"
	DecisionWriteOff    Decision = "write_off"
	DecisionCarryOver   Decision = "carry_over"
)

// SessionConfig - параметры одной сессии. Задаются один раз при старте,
// неизменны до конца сессии. TableMax == 0 означает отсутствие лимита стола
type SessionConfig struct {
	Bankroll       float64
	ProfitTarget   float64
	StopLossAbs    float64
	MaxRounds      int
	TableMax       float64
	StartingLadder int
}

// Validate - громкая проверка конфигурации при старте сессии
func (c SessionConfig) Validate() error {
	if c.Bankroll <= 0 {
		return fmt.Errorf("%w: bankroll must be positive, got %v", ErrInvalidSessionConfig, c.Bankroll)
	}
	if c.ProfitTarget <= 0 {
		return fmt.Errorf("%w: profit_target must be positive, got %v", ErrInvalidSessionConfig, c.ProfitTarget)
	}
	if c.StopLossAbs <= 0 {
		return fmt.Errorf("%w: stop_loss_abs must be positive, got %v", ErrInvalidSessionConfig, c.StopLossAbs)
	}
	if c.MaxRounds <= 0 {
		return fmt.Errorf("%w: max_rounds must be positive, got %d", ErrInvalidSessionConfig, c.MaxRounds)
	}
	if c.TableMax < 0 {
		return fmt.Errorf("%w: table_max must be positive if specified, got %v", ErrInvalidSessionConfig, c.TableMax)
	}
	return nil
}

// SessionState - текущее положение сессии. Никогда не мутируется на месте:
// каждый переход возвращает новое значение целиком, поэтому старые снапшоты
// можно безопасно хранить для undo/replay
type SessionState struct {
	// Позиция
	CurrentLadder int
	CurrentIndex  int

	// Накопленные показатели
	PnL          float64
	Rounds       int
	TotalWagered float64
	MaxStake     float64
	PeakPnL      float64
	MaxDrawdown  float64

	// Статистика по лестницам
	LadderTouches []int
	TopTouches    int

	// Управление сессией
	Stopped    bool
	StopReason StopReason

	// Режим восстановления (carry_over)
	InRecovery        bool
	RecoveryTargetPnL float64

	// Пауза в ожидании решения игрока
	AwaitingDecision bool
	PendingDecision  DecisionType
}

// NewSessionState - начальное состояние сессии.
// Запрошенная стартовая лестница зажимается в допустимый диапазон
func NewSessionState(strat Strategy, startingLadder int) SessionState {
	if startingLadder < 0 {
		startingLadder = 0
	}
	if startingLadder > len(strat.Ladders)-1 {
		startingLadder = len(strat.Ladders) - 1
	}
	return SessionState{
		CurrentLadder: startingLadder,
		LadderTouches: make([]int, len(strat.Ladders)),
	}
}

// clone - копия состояния с собственным слайсом LadderTouches.
// Все переходы работают с копией, чтобы значения-снапшоты оставались валидными
func (s SessionState) clone() SessionState {
	next := s
	next.LadderTouches = make([]int, len(s.LadderTouches))
	copy(next.LadderTouches, s.LadderTouches)
	return next
}

// CurrentStake - ставка для текущей позиции
func (s SessionState) CurrentStake(strat Strategy) float64 {
	return strat.Ladders[s.CurrentLadder].StakeAt(s.CurrentIndex)
}

// Bankroll - текущий банкролл с учетом накопленного PnL
func (s SessionState) Bankroll(cfg SessionConfig) float64 {
	return cfg.Bankroll + s.PnL
}

// CanAffordStake - хватает ли банкролла на текущую ставку
func (s SessionState) CanAffordStake(cfg SessionConfig, strat Strategy) bool {
	return s.Bankroll(cfg) >= s.CurrentStake(strat)
}

// ExceedsTableMax - превышает ли текущая ставка лимит стола
func (s SessionState) ExceedsTableMax(cfg SessionConfig, strat Strategy) bool {
	return cfg.TableMax > 0 && s.CurrentStake(strat) > cfg.TableMax
}

// LadderName - отображаемое имя текущей лестницы
func (s SessionState) LadderName(strat Strategy) string {
	return strat.Ladders[s.CurrentLadder].Name()
}

// IsWin - считается ли завершенная сессия выигранной.
// Выигрыш - это ровно достижение profit target, ничего больше
func (s SessionState) IsWin() bool {
	return s.StopReason == StopProfitTarget
}
