package env

import (
	"fmt"
	"os"
	"staking_backend/internal/config"
	"staking_backend/internal/engine"

	"gopkg.in/yaml.v3"
)

// Структура YAML файла с таблицами лестниц
type stakingYAML struct {
	Ladders []ladderYAML `yaml:"ladders"`
}

type ladderYAML struct {
	Name   string    `yaml:"name"`
	Stakes []float64 `yaml:"stakes"`
}

type stakingConfig struct {
	ladders []engine.Ladder
}

// NewStakingConfigFromYAML - загрузка таблиц лестниц из YAML файла.
// При отсутствии файла используются встроенные лестницы по умолчанию
func NewStakingConfigFromYAML(path string) (config.StakingConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &stakingConfig{ladders: engine.DefaultLadders()}, nil
		}
		return nil, err
	}

	var parsed stakingYAML
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("invalid staking config: %w", err)
	}

	if len(parsed.Ladders) == 0 {
		return &stakingConfig{ladders: engine.DefaultLadders()}, nil
	}

	ladders := make([]engine.Ladder, 0, len(parsed.Ladders))
	for _, l := range parsed.Ladders {
		ladder, err := engine.NewLadder(l.Name, l.Stakes)
		if err != nil {
			return nil, fmt.Errorf("invalid ladder %q: %w", l.Name, err)
		}
		ladders = append(ladders, ladder)
	}

	return &stakingConfig{ladders: ladders}, nil
}

// Ladders - лестницы неизменяемы, общий слайс безопасен
func (cfg *stakingConfig) Ladders() []engine.Ladder {
	return cfg.ladders
}
