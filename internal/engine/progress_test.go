package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressPercentages(t *testing.T) {
	strat := recoveryStrategy(t)
	cfg := basicConfig() // target 1000, stop loss 1000

	st := NewSessionState(strat, 0)
	assert.Equal(t, 0.0, ProfitProgress(st, cfg))
	assert.Equal(t, 0.0, StopLossProgress(st, cfg))

	st.PnL = 250
	assert.Equal(t, 25.0, ProfitProgress(st, cfg))
	assert.Equal(t, 0.0, StopLossProgress(st, cfg))

	st.PnL = -250
	assert.Equal(t, 0.0, ProfitProgress(st, cfg))
	assert.Equal(t, 25.0, StopLossProgress(st, cfg))

	// Выход за 100% зажимается
	st.PnL = 1500
	assert.Equal(t, 100.0, ProfitProgress(st, cfg))
	st.PnL = -1500
	assert.Equal(t, 100.0, StopLossProgress(st, cfg))
}

func TestStopReasonLabels(t *testing.T) {
	assert.Equal(t, "Profit target reached", StopProfitTarget.Label())
	assert.Equal(t, "Stopped by player", StopUserStopped.Label())
	assert.Equal(t, "Session active", StopNone.Label())
}

func TestSummarize(t *testing.T) {
	strat := recoveryStrategy(t)
	cfg := basicConfig()

	st := NewSessionState(strat, 0)
	st.Stopped = true
	st.StopReason = StopProfitTarget
	st.PnL = 1010
	st.Rounds = 37
	st.TotalWagered = 4200
	st.MaxStake = 300
	st.MaxDrawdown = 150
	st.LadderTouches = []int{30, 7}
	st.TopTouches = 1
	st.CurrentLadder = 1
	st.CurrentIndex = 2

	history := []BetRecord{{Round: 1, Stake: 10, Won: true, PnLAfter: 10}}
	res := Summarize(st, cfg, strat, history)

	assert.True(t, res.HitTarget)
	assert.False(t, res.HitStopLoss)
	assert.False(t, res.UserStopped)
	assert.Equal(t, 1010.0, res.FinalPnL)
	assert.Equal(t, 37, res.RoundsPlayed)
	assert.Equal(t, 300.0, res.MaxStakeSeen)
	assert.Equal(t, []int{30, 7}, res.LadderTouches)
	assert.Equal(t, 1, res.FinalLadder)
	assert.Equal(t, 2, res.FinalIndex)
	assert.Len(t, res.History, 1)

	// Сводка держит собственную копию счетчиков
	st.LadderTouches[0] = 999
	assert.Equal(t, 30, res.LadderTouches[0])

	assert.True(t, st.IsWin())
}

func TestSessionConfigValidate(t *testing.T) {
	valid := basicConfig()
	assert.NoError(t, valid.Validate())

	cases := []struct {
		name   string
		mutate func(*SessionConfig)
	}{
		{"zero bankroll", func(c *SessionConfig) { c.Bankroll = 0 }},
		{"negative profit target", func(c *SessionConfig) { c.ProfitTarget = -5 }},
		{"zero stop loss", func(c *SessionConfig) { c.StopLossAbs = 0 }},
		{"zero max rounds", func(c *SessionConfig) { c.MaxRounds = 0 }},
		{"negative table max", func(c *SessionConfig) { c.TableMax = -1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := basicConfig()
			tc.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidSessionConfig)
		})
	}
}
