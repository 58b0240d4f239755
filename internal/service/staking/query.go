package staking

import (
	"context"
	"staking_backend/internal/engine"
	"staking_backend/internal/model"

	"github.com/google/uuid"
)

// Session - текущее состояние сессии игрока
func (s *serv) Session(ctx context.Context, sessionID uuid.UUID) (*model.StakingSession, error) {
	return s.ownedSession(ctx, sessionID)
}

// History - полная история ставок сессии
func (s *serv) History(ctx context.Context, sessionID uuid.UUID) ([]engine.BetRecord, error) {
	if _, err := s.ownedSession(ctx, sessionID); err != nil {
		return nil, err
	}
	return s.betRepo.ListBets(ctx, sessionID)
}

// Summary - сводка по сессии с полной историей ставок.
// Доступна и для активной сессии: stop-флаги тогда все false
func (s *serv) Summary(ctx context.Context, sessionID uuid.UUID) (*engine.SessionResult, error) {
	session, err := s.ownedSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	history, err := s.betRepo.ListBets(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	result := engine.Summarize(session.State, session.Config, session.Strategy, history)
	return &result, nil
}

// Presets - каталог пресетов стратегий
func (s *serv) Presets() []model.PresetInfo {
	names := engine.PresetNames()
	infos := make([]model.PresetInfo, 0, len(names))
	for _, name := range names {
		preset, err := engine.PresetByName(name)
		if err != nil {
			continue
		}
		infos = append(infos, model.PresetInfo{
			Name:              preset.Name,
			BridgingPolicy:    string(preset.BridgingPolicy),
			RecoveryTargetPct: preset.RecoveryTargetPct,
			CrossoverOffset:   preset.CrossoverOffset,
		})
	}
	return infos
}

// Stats - агрегаты по завершенным сессиям, сгруппированные по пресетам
func (s *serv) Stats() map[string]model.PresetStats {
	return s.statsRepo.Snapshot()
}
