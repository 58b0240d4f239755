package engine

// ProfitProgress - прогресс к profit target в процентах [0, 100].
// При PnL не в плюсе прогресс нулевой
func ProfitProgress(state SessionState, cfg SessionConfig) float64 {
	if state.PnL <= 0 {
		return 0
	}
	pct := state.PnL / cfg.ProfitTarget * 100
	if pct > 100 {
		pct = 100
	}
	return pct
}

// StopLossProgress - насколько близко сессия к стоп-лоссу, в процентах [0, 100].
// При PnL не в минусе прогресс нулевой
func StopLossProgress(state SessionState, cfg SessionConfig) float64 {
	if state.PnL >= 0 {
		return 0
	}
	pct := -state.PnL / cfg.StopLossAbs * 100
	if pct > 100 {
		pct = 100
	}
	return pct
}

// BetRecord - запись об одной рассчитанной ставке (для истории сессии)
type BetRecord struct {
	Round    int
	Stake    float64
	Won      bool
	PnLAfter float64
	Ladder   int
	Index    int
}

// SessionResult - итог завершенной сессии
type SessionResult struct {
	// Причина остановки, разложенная по булевым флагам
	HitTarget         bool
	HitStopLoss       bool
	HitMaxRounds      bool
	HitTableLimit     bool
	BankrollExhausted bool
	UserStopped       bool

	// Показатели
	FinalPnL     float64
	RoundsPlayed int
	TotalWagered float64
	MaxStakeSeen float64
	MaxDrawdown  float64

	// Лестницы
	LadderTouches []int
	TopTouches    int
	FinalLadder   int
	FinalIndex    int

	// Снапшот использованной конфигурации
	Config   SessionConfig
	Strategy Strategy

	// Полная история ставок (опционально)
	History []BetRecord
}

// Summarize - сводка по сессии. history может быть nil
func Summarize(state SessionState, cfg SessionConfig, strat Strategy, history []BetRecord) SessionResult {
	touches := make([]int, len(state.LadderTouches))
	copy(touches, state.LadderTouches)

	return SessionResult{
		HitTarget:         state.StopReason == StopProfitTarget,
		HitStopLoss:       state.StopReason == StopLoss,
		HitMaxRounds:      state.StopReason == StopMaxRounds,
		HitTableLimit:     state.StopReason == StopTableLimit,
		BankrollExhausted: state.StopReason == StopBankrollExhausted,
		UserStopped:       state.StopReason == StopUserStopped,
		FinalPnL:          state.PnL,
		RoundsPlayed:      state.Rounds,
		TotalWagered:      state.TotalWagered,
		MaxStakeSeen:      state.MaxStake,
		MaxDrawdown:       state.MaxDrawdown,
		LadderTouches:     touches,
		TopTouches:        state.TopTouches,
		FinalLadder:       state.CurrentLadder,
		FinalIndex:        state.CurrentIndex,
		Config:            cfg,
		Strategy:          strat,
		History:           history,
	}
}
