package staking

type StartSessionRequest struct {
	Preset       string `json:"preset"`        // Имя пресета, пусто = default
	DecisionMode string `json:"decision_mode"` // at_bridging_only | every_bet

	// Конфигурация сессии
	Bankroll       float64 `json:"bankroll"`
	ProfitTarget   float64 `json:"profit_target"`
	StopLossAbs    float64 `json:"stop_loss_abs"`
	MaxRounds      int     `json:"max_rounds"`
	TableMax       float64 `json:"table_max"`       // 0 = без лимита стола
	StartingLadder int     `json:"starting_ladder"` // По умолчанию 0

	// Переопределения пресета (опциональные)
	BridgingPolicy    *string  `json:"bridging_policy,omitempty"`
	RecoveryTargetPct *float64 `json:"recovery_target_pct,omitempty"`
	CrossoverOffset   *int     `json:"crossover_offset,omitempty"`
}

type SessionResponse struct {
	ID           string `json:"id"`
	Preset       string `json:"preset"`
	DecisionMode string `json:"decision_mode"`

	State StateResponse `json:"state"`

	// Производные значения для клиента
	NextStake        float64 `json:"next_stake"`
	Bankroll         float64 `json:"bankroll"`
	LadderName       string  `json:"ladder_name"`
	ProfitProgress   float64 `json:"profit_progress"`    // 0-100
	StopLossProgress float64 `json:"stop_loss_progress"` // 0-100
}

type StateResponse struct {
	CurrentLadder     int     `json:"current_ladder"`
	CurrentIndex      int     `json:"current_index"`
	PnL               float64 `json:"pnl"`
	Rounds            int     `json:"rounds"`
	TotalWagered      float64 `json:"total_wagered"`
	MaxStake          float64 `json:"max_stake"`
	PeakPnL           float64 `json:"peak_pnl"`
	MaxDrawdown       float64 `json:"max_drawdown"`
	LadderTouches     []int   `json:"ladder_touches"`
	TopTouches        int     `json:"top_touches"`
	Stopped           bool    `json:"stopped"`
	StopReason        string  `json:"stop_reason,omitempty"`
	StopLabel         string  `json:"stop_label"`
	InRecovery        bool    `json:"in_recovery"`
	RecoveryTargetPnL float64 `json:"recovery_target_pnl"`
	AwaitingDecision  bool    `json:"awaiting_decision"`
	PendingDecision   string  `json:"pending_decision,omitempty"`
}

type BetRequest struct {
	Won bool `json:"won"` // Исход ставки, который сообщает клиент
}

type BetResponse struct {
	Settled bool               `json:"settled"` // false - ставка не применялась
	Record  *BetRecordResponse `json:"record,omitempty"`
	Session SessionResponse    `json:"session"`
}

type BetRecordResponse struct {
	Round    int     `json:"round"`
	Stake    float64 `json:"stake"`
	Won      bool    `json:"won"`
	PnLAfter float64 `json:"pnl_after"`
	Ladder   int     `json:"ladder"`
	Index    int     `json:"index"`
}

type DecisionRequest struct {
	Decision string `json:"decision"` // stop_session | write_off | carry_over
}

type HistoryResponse struct {
	Bets []BetRecordResponse `json:"bets"`
}

type SummaryResponse struct {
	HitTarget         bool `json:"hit_target"`
	HitStopLoss       bool `json:"hit_stop_loss"`
	HitMaxRounds      bool `json:"hit_max_rounds"`
	HitTableLimit     bool `json:"hit_table_limit"`
	BankrollExhausted bool `json:"bankroll_exhausted"`
	UserStopped       bool `json:"user_stopped"`

	FinalPnL     float64 `json:"final_pnl"`
	RoundsPlayed int     `json:"rounds_played"`
	TotalWagered float64 `json:"total_wagered"`
	MaxStakeSeen float64 `json:"max_stake_seen"`
	MaxDrawdown  float64 `json:"max_drawdown"`

	LadderTouches []int `json:"ladder_touches"`
	TopTouches    int   `json:"top_touches"`
	FinalLadder   int   `json:"final_ladder"`
	FinalIndex    int   `json:"final_index"`

	History []BetRecordResponse `json:"history"`
}

type PresetResponse struct {
	Name              string  `json:"name"`
	BridgingPolicy    string  `json:"bridging_policy"`
	RecoveryTargetPct float64 `json:"recovery_target_pct"`
	CrossoverOffset   int     `json:"crossover_offset"`
}

type PresetStatsResponse struct {
	Sessions          int     `json:"sessions"`
	Wins              int     `json:"wins"`
	StopLoss          int     `json:"stop_loss"`
	MaxRounds         int     `json:"max_rounds"`
	TableLimit        int     `json:"table_limit"`
	BankrollExhausted int     `json:"bankroll_exhausted"`
	UserStopped       int     `json:"user_stopped"`
	TotalPnL          float64 `json:"total_pnl"`
	TotalRounds       int     `json:"total_rounds"`
	TotalWagered      float64 `json:"total_wagered"`
}
