package config

import (
	"staking_backend/internal/engine"
	"time"

	"github.com/joho/godotenv"
)

func Load(path string) error {
	err := godotenv.Load(path)
	if err != nil {
		return err
	}
	return nil
}

type HTTPConfig interface {
	Address() string
}

type PGConfig interface {
	DSN() string
}

type JWTConfig interface {
	AccessTokenSecretKey() []byte
	AccessTokenDuration() time.Duration
	RefreshTokenDuration() time.Duration
}

// StakingConfig - таблицы лестниц, общие для всех сессий сервера
type StakingConfig interface {
	Ladders() []engine.Ladder
}
