package model

// Снапшот стратегии для хранения в колонке strategy (JSONB)
type Strategy struct {
	BridgingPolicy    string   `json:"bridging_policy"`
	RecoveryTargetPct float64  `json:"recovery_target_pct"`
	CrossoverOffset   int      `json:"crossover_offset"`
	Ladders           []Ladder `json:"ladders"`
}

type Ladder struct {
	Name   string    `json:"name"`
	Stakes []float64 `json:"stakes"`
}
