package service

import (
	"context"
	"staking_backend/internal/engine"
	"staking_backend/internal/model"

	"github.com/google/uuid"
)

type StakingService interface {
	StartSession(ctx context.Context, req model.StartSession) (*model.StakingSession, error)
	PlaceBet(ctx context.Context, sessionID uuid.UUID, won bool) (*model.BetOutcome, error)
	Decide(ctx context.Context, sessionID uuid.UUID, decision engine.Decision) (*model.StakingSession, error)
	Session(ctx context.Context, sessionID uuid.UUID) (*model.StakingSession, error)
	History(ctx context.Context, sessionID uuid.UUID) ([]engine.BetRecord, error)
	Summary(ctx context.Context, sessionID uuid.UUID) (*engine.SessionResult, error)
	Presets() []model.PresetInfo
	Stats() map[string]model.PresetStats
}

type AuthService interface {
	Register(ctx context.Context, user *model.User) (*model.AuthData, error)
	Login(ctx context.Context, user *model.User) (*model.AuthData, error)
	Refresh(ctx context.Context, data *model.AuthData) (newAccessToken string, err error)
	Logout(ctx context.Context, sessionID string) error
}
