package engine

import (
	"errors"
	"fmt"
	"sort"
)

// BridgingPolicy - политика поведения при проигрыше на верхней ступени лестницы
type BridgingPolicy string

const (
	// PolicyAdvanceToNextLadderStart - переход на следующую лестницу с нулевой ступени,
	// без режима восстановления
	PolicyAdvanceToNextLadderStart BridgingPolicy = "advance_to_next_ladder_start"
	// PolicyCarryOverIndexDelta - перенос на следующую лестницу со смещением
	// crossover_offset и входом в режим восстановления
	PolicyCarryOverIndexDelta BridgingPolicy = "carry_over_index_delta"
	// PolicyStopAtTableLimit - проигрыш на вершине трактуется как достижение лимита стола
	PolicyStopAtTableLimit BridgingPolicy = "stop_at_table_limit"
)

var (
	// ErrInvalidStrategy - ошибка конструирования стратегии
	ErrInvalidStrategy = errors.New("invalid strategy")
	// ErrUnknownPreset - запрошен несуществующий пресет
	ErrUnknownPreset = errors.New("unknown preset")
)

// Strategy - конфигурация стратегии: лестницы + параметры бриджинга.
// Неизменяема на все время жизни сессии
type Strategy struct {
	Ladders           []Ladder
	BridgingPolicy    BridgingPolicy
	RecoveryTargetPct float64
	CrossoverOffset   int
}

// NewStrategy - создает стратегию с валидацией параметров.
// RecoveryTargetPct должен лежать в (0, 1], CrossoverOffset быть неотрицательным.
// CrossoverOffset НЕ зажимается здесь - он зажимается в точке применения
// относительно максимального индекса СЛЕДУЮЩЕЙ лестницы
func NewStrategy(policy BridgingPolicy, recoveryTargetPct float64, crossoverOffset int, ladders []Ladder) (Strategy, error) {
	switch policy {
	case PolicyAdvanceToNextLadderStart, PolicyCarryOverIndexDelta, PolicyStopAtTableLimit:
	default:
		return Strategy{}, fmt.Errorf("%w: unknown bridging policy %q", ErrInvalidStrategy, policy)
	}
	if len(ladders) == 0 {
		return Strategy{}, fmt.Errorf("%w: strategy must have at least one ladder", ErrInvalidStrategy)
	}
	if recoveryTargetPct <= 0 || recoveryTargetPct > 1 {
		return Strategy{}, fmt.Errorf("%w: recovery_target_pct must be in (0, 1], got %v", ErrInvalidStrategy, recoveryTargetPct)
	}
	if crossoverOffset < 0 {
		return Strategy{}, fmt.Errorf("%w: crossover_offset must be non-negative, got %d", ErrInvalidStrategy, crossoverOffset)
	}

	cp := make([]Ladder, len(ladders))
	copy(cp, ladders)

	return Strategy{
		Ladders:           cp,
		BridgingPolicy:    policy,
		RecoveryTargetPct: recoveryTargetPct,
		CrossoverOffset:   crossoverOffset,
	}, nil
}

// Preset - именованная комбинация параметров стратегии
type Preset struct {
	Name              string
	BridgingPolicy    BridgingPolicy
	RecoveryTargetPct float64
	CrossoverOffset   int
}

// Фиксированный каталог пресетов
var presets = map[string]Preset{
	"default": {
		Name:              "default",
		BridgingPolicy:    PolicyCarryOverIndexDelta,
		RecoveryTargetPct: 0.5,
		CrossoverOffset:   0,
	},
	"aggressive": {
		Name:              "aggressive",
		BridgingPolicy:    PolicyCarryOverIndexDelta,
		RecoveryTargetPct: 0.75,
		CrossoverOffset:   2,
	},
	"conservative": {
		Name:              "conservative",
		BridgingPolicy:    PolicyStopAtTableLimit,
		RecoveryTargetPct: 0.5,
		CrossoverOffset:   0,
	},
	"full_recovery": {
		Name:              "full_recovery",
		BridgingPolicy:    PolicyCarryOverIndexDelta,
		RecoveryTargetPct: 1.0,
		CrossoverOffset:   0,
	},
	"quick_reset": {
		Name:              "quick_reset",
		BridgingPolicy:    PolicyAdvanceToNextLadderStart,
		RecoveryTargetPct: 0.5,
		CrossoverOffset:   0,
	},
}

// PresetByName - поиск пресета по имени
func PresetByName(name string) (Preset, error) {
	p, ok := presets[name]
	if !ok {
		return Preset{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return p, nil
}

// PresetNames - отсортированный список имен доступных пресетов
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewStrategyFromPreset - собирает стратегию из пресета и лестниц
func NewStrategyFromPreset(p Preset, ladders []Ladder) (Strategy, error) {
	return NewStrategy(p.BridgingPolicy, p.RecoveryTargetPct, p.CrossoverOffset, ladders)
}

// DefaultLadders - лестницы по умолчанию (три уровня с нарастающими ставками)
func DefaultLadders() []Ladder {
	l1, _ := NewLadder("L1", []float64{5, 10, 15, 25, 40, 65, 105, 170, 275})
	l2, _ := NewLadder("L2", []float64{50, 100, 150, 250, 400, 650, 1050, 1750})
	l3, _ := NewLadder("L3", []float64{500, 1000, 1500, 2500, 4000, 6500, 10500, 17000, 27500, 44500})
	return []Ladder{l1, l2, l3}
}
