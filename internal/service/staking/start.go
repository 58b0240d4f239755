package staking

import (
	"context"
	"errors"
	"log"
	"staking_backend/internal/engine"
	"staking_backend/internal/middleware"
	"staking_backend/internal/model"
	"time"

	"github.com/google/uuid"
)

// StartSession открывает новую сессию для игрока из контекста.
// Стратегия собирается из пресета с учетом переопределений запроса,
// конфигурация и стратегия после старта неизменны
func (s *serv) StartSession(ctx context.Context, req model.StartSession) (*model.StakingSession, error) {
	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user id not found in context")
	}

	if err := req.Config.Validate(); err != nil {
		return nil, err
	}

	presetName := req.Preset
	if presetName == "" {
		presetName = "default"
	}
	preset, err := engine.PresetByName(presetName)
	if err != nil {
		return nil, err
	}

	// Переопределения пресета из запроса
	if req.BridgingPolicy != nil {
		preset.BridgingPolicy = *req.BridgingPolicy
	}
	if req.RecoveryTargetPct != nil {
		preset.RecoveryTargetPct = *req.RecoveryTargetPct
	}
	if req.CrossoverOffset != nil {
		preset.CrossoverOffset = *req.CrossoverOffset
	}

	strat, err := engine.NewStrategyFromPreset(preset, s.stakingCfg.Ladders())
	if err != nil {
		return nil, err
	}

	mode := req.DecisionMode
	if mode == "" {
		mode = engine.ModeAtBridgingOnly
	}
	if mode != engine.ModeAtBridgingOnly && mode != engine.ModeEveryBet {
		return nil, errors.New("unknown decision mode")
	}

	now := time.Now()
	session := &model.StakingSession{
		ID:           uuid.New(),
		UserID:       userID,
		Preset:       presetName,
		DecisionMode: mode,
		Config:       req.Config,
		Strategy:     strat,
		State:        engine.NewSessionState(strat, req.Config.StartingLadder),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.sessionRepo.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	log.Printf("session %s started: user=%d preset=%s mode=%s bankroll=%.2f",
		session.ID, userID, presetName, mode, req.Config.Bankroll)

	return session, nil
}
