package staking

import (
	"staking_backend/internal/config"
	"staking_backend/internal/repository"
	"staking_backend/internal/service"

	"github.com/avito-tech/go-transaction-manager/trm/v2"
)

type serv struct {
	sessionRepo repository.StakingSessionRepository
	betRepo     repository.BetRepository
	statsRepo   repository.StakingStatsRepository
	stakingCfg  config.StakingConfig
	txManager   trm.Manager
}

// NewStakingService - сервис игровых сессий прогрессивных ставок
func NewStakingService(
	sessionRepo repository.StakingSessionRepository,
	betRepo repository.BetRepository,
	statsRepo repository.StakingStatsRepository,
	stakingCfg config.StakingConfig,
	txManager trm.Manager,
) service.StakingService {
	return &serv{
		sessionRepo: sessionRepo,
		betRepo:     betRepo,
		statsRepo:   statsRepo,
		stakingCfg:  stakingCfg,
		txManager:   txManager,
	}
}
