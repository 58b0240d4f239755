package app

import (
	"context"
	authAPI "staking_backend/internal/api/auth"
	stakingAPI "staking_backend/internal/api/staking"
	"staking_backend/internal/config"
	"staking_backend/internal/config/env"
	"staking_backend/internal/middleware"
	"staking_backend/internal/repository"
	"staking_backend/internal/repository/auth_repo"
	"staking_backend/internal/repository/bet_repo"
	"staking_backend/internal/repository/session_repo"
	"staking_backend/internal/repository/staking_stats_repo"
	"staking_backend/internal/repository/user_repo"
	"staking_backend/internal/service"
	authServ "staking_backend/internal/service/auth"
	stakingServ "staking_backend/internal/service/staking"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ServiceProvider struct {
	//TXManager
	txManager trm.Manager

	// Database
	pgConfig config.PGConfig
	dbClient *pgxpool.Pool

	// Auth bits
	jwtConfig config.JWTConfig
	authRepo  repository.AuthRepository
	userRepo  repository.UserRepository
	authServ  service.AuthService
	authHand  *authAPI.Handler

	// Staking bits
	stakingCfg       config.StakingConfig
	sessionRepo      repository.StakingSessionRepository
	betRepo          repository.BetRepository
	stakingStatsRepo repository.StakingStatsRepository
	stakingServ      service.StakingService
	stakingHand      *stakingAPI.Handler

	// Router and HTTP config
	httpCfg config.HTTPConfig
	router  chi.Router
}

func newServiceProvider() *ServiceProvider {
	return &ServiceProvider{}
}

func (sp *ServiceProvider) PgConfig() config.PGConfig {
	if sp.pgConfig == nil {
		cfg, err := env.NewPGConfig()
		if err != nil {
			panic("failed to get database config: " + err.Error())
		}
		sp.pgConfig = cfg
	}
	return sp.pgConfig
}

func (sp *ServiceProvider) DBClient(ctx context.Context) *pgxpool.Pool {
	if sp.dbClient == nil {
		dbc, err := pgxpool.New(ctx, sp.PgConfig().DSN())
		if err != nil {
			panic("failed to create db pool: " + err.Error())
		}
		err = dbc.Ping(ctx)
		if err != nil {
			panic("failed to ping db: " + err.Error())
		}
		sp.dbClient = dbc
	}
	return sp.dbClient
}

func (sp *ServiceProvider) TXManager(ctx context.Context) trm.Manager {
	if sp.txManager == nil {
		m, err := manager.New(trmpgx.NewDefaultFactory(sp.DBClient(ctx)))
		if err != nil {
			panic("failed to create tx manager: " + err.Error())
		}

		sp.txManager = m
	}

	return sp.txManager
}

func (sp *ServiceProvider) JWTCfg() config.JWTConfig {
	if sp.jwtConfig == nil {
		cfg, err := env.NewJWTConfig()
		if err != nil {
			panic("failed to get jwt config: " + err.Error())
		}
		sp.jwtConfig = cfg
	}
	return sp.jwtConfig
}

func (sp *ServiceProvider) AuthRepo(ctx context.Context) repository.AuthRepository {
	if sp.authRepo == nil {
		sp.authRepo = auth_repo.NewAuthRepository(sp.DBClient(ctx))
	}
	return sp.authRepo
}

func (sp *ServiceProvider) UserRepo(ctx context.Context) repository.UserRepository {
	if sp.userRepo == nil {
		sp.userRepo = user_repo.NewUserRepository(sp.DBClient(ctx))
	}
	return sp.userRepo
}

func (sp *ServiceProvider) AuthService(ctx context.Context) service.AuthService {
	if sp.authServ == nil {
		sp.authServ = authServ.NewAuthService(
			sp.TXManager(ctx),
			sp.UserRepo(ctx),
			sp.AuthRepo(ctx),
			sp.JWTCfg(),
		)
	}
	return sp.authServ
}

func (sp *ServiceProvider) AuthHandler(ctx context.Context) *authAPI.Handler {
	if sp.authHand == nil {
		sp.authHand = authAPI.NewHandler(authAPI.HandlerDeps{
			Serv: sp.AuthService(ctx),
		})
	}
	return sp.authHand
}

func (sp *ServiceProvider) StakingCfg() config.StakingConfig {
	if sp.stakingCfg == nil {
		cfg, err := env.NewStakingConfigFromYAML("config.yaml")
		if err != nil {
			panic("failed to get staking config: " + err.Error())
		}
		sp.stakingCfg = cfg
	}
	return sp.stakingCfg
}

func (sp *ServiceProvider) SessionRepo(ctx context.Context) repository.StakingSessionRepository {
	if sp.sessionRepo == nil {
		sp.sessionRepo = session_repo.NewStakingSessionRepository(sp.DBClient(ctx))
	}
	return sp.sessionRepo
}

func (sp *ServiceProvider) BetRepo(ctx context.Context) repository.BetRepository {
	if sp.betRepo == nil {
		sp.betRepo = bet_repo.NewBetRepository(sp.DBClient(ctx))
	}
	return sp.betRepo
}

func (sp *ServiceProvider) StakingStatsRepo() repository.StakingStatsRepository {
	if sp.stakingStatsRepo == nil {
		sp.stakingStatsRepo = staking_stats_repo.NewStakingStatsRepository()
	}
	return sp.stakingStatsRepo
}

func (sp *ServiceProvider) StakingService(ctx context.Context) service.StakingService {
	if sp.stakingServ == nil {
		sp.stakingServ = stakingServ.NewStakingService(
			sp.SessionRepo(ctx),
			sp.BetRepo(ctx),
			sp.StakingStatsRepo(),
			sp.StakingCfg(),
			sp.TXManager(ctx),
		)
	}
	return sp.stakingServ
}

func (sp *ServiceProvider) StakingHandler(ctx context.Context) *stakingAPI.Handler {
	if sp.stakingHand == nil {
		sp.stakingHand = stakingAPI.NewHandler(stakingAPI.HandlerDeps{
			Serv: sp.StakingService(ctx),
		})
	}
	return sp.stakingHand
}

func (sp *ServiceProvider) HTTPCfg() config.HTTPConfig {
	if sp.httpCfg == nil {
		cfg, err := env.NewHTTPConfig()
		if err != nil {
			panic("failed to get http config: " + err.Error())
		}
		sp.httpCfg = cfg
	}

	return sp.httpCfg
}

func (sp *ServiceProvider) Router(ctx context.Context) chi.Router {
	if sp.router == nil {
		r := chi.NewRouter()

		// CORS middleware
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
			ExposedHeaders:   []string{"Link"},
			AllowCredentials: false,
			MaxAge:           60 * 15,
		}))

		// Auth endpoints
		authHandler := sp.AuthHandler(ctx)
		r.Route("/auth", func(rr chi.Router) {
			rr.Post("/register", authHandler.Register)
			rr.Post("/login", authHandler.Login)
			rr.Post("/refresh", authHandler.Refresh)
			rr.Post("/logout", authHandler.Logout)
		})

		// Staking endpoints (требуют access токен)
		stakingHandler := sp.StakingHandler(ctx)
		r.Route("/staking", func(rr chi.Router) {
			rr.Use(middleware.Auth(sp.JWTCfg()))
			rr.Post("/sessions", stakingHandler.Start)
			rr.Get("/sessions/{id}", stakingHandler.Get)
			rr.Post("/sessions/{id}/bet", stakingHandler.Bet)
			rr.Post("/sessions/{id}/decision", stakingHandler.Decide)
			rr.Get("/sessions/{id}/summary", stakingHandler.Summary)
			rr.Get("/sessions/{id}/history", stakingHandler.History)
			rr.Get("/presets", stakingHandler.Presets)
			rr.Get("/stats", stakingHandler.Stats)
		})

		sp.router = r
	}

	return sp.router
}
