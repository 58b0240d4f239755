package repository

import (
	"context"
	"staking_backend/internal/engine"
	"staking_backend/internal/model"

	"github.com/google/uuid"
)

type StakingSessionRepository interface {
	CreateSession(ctx context.Context, session *model.StakingSession) error
	GetSession(ctx context.Context, id uuid.UUID) (*model.StakingSession, error)
	UpdateSession(ctx context.Context, session *model.StakingSession) error
}

type BetRepository interface {
	AddBet(ctx context.Context, sessionID uuid.UUID, record engine.BetRecord) error
	ListBets(ctx context.Context, sessionID uuid.UUID) ([]engine.BetRecord, error)
}

type StakingStatsRepository interface {
	RecordSession(preset string, result engine.SessionResult)
	Snapshot() map[string]model.PresetStats
}

type AuthRepository interface {
	CreateSession(ctx context.Context, session *model.Session) error
	GetRefreshTokenBySessionID(ctx context.Context, sessionID string) (refreshToken string, err error)
	DeleteSession(ctx context.Context, sessionID string) error
	GetUserBySessionID(ctx context.Context, sessionID string) (*model.User, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) (id int, err error)
	GetUserByLogin(ctx context.Context, login string) (*model.User, error)
}
