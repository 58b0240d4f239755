package staking_stats_repo

import (
	"staking_backend/internal/engine"
	"staking_backend/internal/model"
	"sync"
)

// Агрегаты по завершенным сессиям, сгруппированные по пресетам.
// Хранятся в памяти процесса: это операционная сводка, а не исторические данные
type StatsRepo struct {
	mtx      sync.RWMutex
	byPreset map[string]*model.PresetStats
}

func NewStakingStatsRepository() *StatsRepo {
	return &StatsRepo{
		byPreset: make(map[string]*model.PresetStats),
	}
}

// RecordSession - учет завершенной сессии в агрегатах пресета.
// Незавершенные сессии не учитываются
func (r *StatsRepo) RecordSession(preset string, result engine.SessionResult) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	stats, ok := r.byPreset[preset]
	if !ok {
		stats = &model.PresetStats{}
		r.byPreset[preset] = stats
	}

	stats.Sessions++
	switch {
	case result.HitTarget:
		stats.Wins++
	case result.HitStopLoss:
		stats.StopLoss++
	case result.HitMaxRounds:
		stats.MaxRounds++
	case result.HitTableLimit:
		stats.TableLimit++
	case result.BankrollExhausted:
		stats.BankrollExhausted++
	case result.UserStopped:
		stats.UserStopped++
	}

	stats.TotalPnL += result.FinalPnL
	stats.TotalRounds += result.RoundsPlayed
	stats.TotalWagered += result.TotalWagered
}

// Snapshot - копия агрегатов по всем пресетам
func (r *StatsRepo) Snapshot() map[string]model.PresetStats {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	snapshot := make(map[string]model.PresetStats, len(r.byPreset))
	for preset, stats := range r.byPreset {
		snapshot[preset] = *stats
	}
	return snapshot
}
