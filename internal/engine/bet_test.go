package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recoveryStrategy(t *testing.T) Strategy {
	t.Helper()
	s, err := NewStrategy(PolicyCarryOverIndexDelta, 0.5, 1, basicLadders(t))
	require.NoError(t, err)
	return s
}

func basicConfig() SessionConfig {
	return SessionConfig{
		Bankroll:     10000,
		ProfitTarget: 1000,
		StopLossAbs:  1000,
		MaxRounds:    5000,
	}
}

func TestNewSessionStateClampsStartingLadder(t *testing.T) {
	strat := recoveryStrategy(t)

	st := NewSessionState(strat, -3)
	assert.Equal(t, 0, st.CurrentLadder)

	st = NewSessionState(strat, 99)
	assert.Equal(t, len(strat.Ladders)-1, st.CurrentLadder)

	st = NewSessionState(strat, 1)
	assert.Equal(t, 1, st.CurrentLadder)
	assert.Equal(t, 0, st.CurrentIndex)
	assert.Len(t, st.LadderTouches, 2)
}

// Сценарий A: выигрыш на нулевой ступени рассчитывается и оставляет индекс на нуле
func TestProcessBetWinAtBottom(t *testing.T) {
	l1 := mustLadder(t, "L1", []float64{10, 20, 30, 40, 50})
	strat, err := NewStrategy(PolicyCarryOverIndexDelta, 0.5, 0, []Ladder{l1})
	require.NoError(t, err)

	st := NewSessionState(strat, 0)
	next := ProcessBet(st, basicConfig(), strat, true, ModeAtBridgingOnly)

	assert.Equal(t, 10.0, next.PnL)
	assert.Equal(t, 1, next.Rounds)
	assert.Equal(t, 10.0, next.TotalWagered)
	assert.Equal(t, 0, next.CurrentIndex)
	assert.Equal(t, 10.0, next.MaxStake)
	assert.Equal(t, 1, next.LadderTouches[0])

	// Вход не мутирован
	assert.Equal(t, 0.0, st.PnL)
	assert.Equal(t, 0, st.Rounds)
	assert.Equal(t, 0, st.LadderTouches[0])
}

// Сценарий B: выигрыш на ступени 3 спускает на ступень 1
func TestProcessBetWinMovesDownTwo(t *testing.T) {
	l1 := mustLadder(t, "L1", []float64{10, 20, 30, 40, 50})
	strat, err := NewStrategy(PolicyCarryOverIndexDelta, 0.5, 0, []Ladder{l1})
	require.NoError(t, err)

	st := NewSessionState(strat, 0)
	st.CurrentIndex = 3

	next := ProcessBet(st, basicConfig(), strat, true, ModeAtBridgingOnly)
	assert.Equal(t, 1, next.CurrentIndex)
}

func TestProcessBetLossMovesUpOne(t *testing.T) {
	strat := recoveryStrategy(t)
	st := NewSessionState(strat, 0)

	next := ProcessBet(st, basicConfig(), strat, false, ModeAtBridgingOnly)
	assert.Equal(t, 1, next.CurrentIndex)
	assert.Equal(t, -10.0, next.PnL)
}

// Шаг всегда остается в границах лестницы
func TestStepStaysWithinBounds(t *testing.T) {
	strat := recoveryStrategy(t)
	cfg := basicConfig()
	maxIdx := strat.Ladders[0].MaxIndex()

	for k := 0; k <= maxIdx; k++ {
		st := NewSessionState(strat, 0)
		st.CurrentIndex = k

		won := ProcessBet(st, cfg, strat, true, ModeAtBridgingOnly)
		assert.GreaterOrEqual(t, won.CurrentIndex, 0)
		assert.LessOrEqual(t, won.CurrentIndex, maxIdx)
		expected := k - 2
		if expected < 0 {
			expected = 0
		}
		assert.Equal(t, expected, won.CurrentIndex, "win at %d", k)

		if k < maxIdx {
			lost := ProcessBet(st, cfg, strat, false, ModeAtBridgingOnly)
			assert.Equal(t, k+1, lost.CurrentIndex, "loss at %d", k)
		}
	}
}

// Остановленная или ожидающая решения сессия не меняется от ProcessBet
func TestProcessBetIdentityOnGuards(t *testing.T) {
	strat := recoveryStrategy(t)
	cfg := basicConfig()

	stopped := NewSessionState(strat, 0)
	stopped.Stopped = true
	stopped.StopReason = StopLoss
	assert.Equal(t, stopped, ProcessBet(stopped, cfg, strat, true, ModeAtBridgingOnly))
	assert.Equal(t, stopped, ProcessBet(stopped, cfg, strat, false, ModeEveryBet))

	awaiting := NewSessionState(strat, 0)
	awaiting.AwaitingDecision = true
	awaiting.PendingDecision = DecisionTypeBridging
	assert.Equal(t, awaiting, ProcessBet(awaiting, cfg, strat, true, ModeAtBridgingOnly))
}

// Сценарий E: нехватка банкролла завершает сессию без расчета ставки
func TestProcessBetBankrollExhausted(t *testing.T) {
	strat := recoveryStrategy(t)
	cfg := basicConfig()
	cfg.Bankroll = 1000

	st := NewSessionState(strat, 0)
	st.PnL = -995
	st.Rounds = 42

	// Ставка 10 при доступных 5 - терминальный переход любым исходом
	for _, won := range []bool{true, false} {
		next := ProcessBet(st, cfg, strat, won, ModeAtBridgingOnly)
		assert.True(t, next.Stopped)
		assert.Equal(t, StopBankrollExhausted, next.StopReason)
		assert.Equal(t, -995.0, next.PnL)
		assert.Equal(t, 42, next.Rounds)
	}
}

func TestProcessBetTableLimit(t *testing.T) {
	strat := recoveryStrategy(t)
	cfg := basicConfig()
	cfg.TableMax = 150

	// Ставка L2[1] = 200 выше лимита стола 150
	st := NewSessionState(strat, 1)
	st.CurrentIndex = 1

	next := ProcessBet(st, cfg, strat, true, ModeAtBridgingOnly)
	assert.True(t, next.Stopped)
	assert.Equal(t, StopTableLimit, next.StopReason)
	assert.Equal(t, 0.0, next.PnL)
}

// Приоритет стоп-условий: profit target раньше max rounds
func TestStopConditionPrecedence(t *testing.T) {
	strat := recoveryStrategy(t)
	cfg := basicConfig()
	cfg.MaxRounds = 5

	st := NewSessionState(strat, 0)
	st.PnL = 995
	st.Rounds = 4

	next := ProcessBet(st, cfg, strat, true, ModeAtBridgingOnly)
	assert.True(t, next.Stopped)
	assert.Equal(t, StopProfitTarget, next.StopReason)

	// Тот же раунд с проигрышем добивает до лимита раундов
	st.PnL = 0
	next = ProcessBet(st, cfg, strat, false, ModeAtBridgingOnly)
	assert.True(t, next.Stopped)
	assert.Equal(t, StopMaxRounds, next.StopReason)
}

func TestStopLossTriggered(t *testing.T) {
	strat := recoveryStrategy(t)
	cfg := basicConfig()

	st := NewSessionState(strat, 0)
	st.PnL = -995

	cfg.Bankroll = 100000 // банкролл не мешает
	next := ProcessBet(st, cfg, strat, false, ModeAtBridgingOnly)
	assert.True(t, next.Stopped)
	assert.Equal(t, StopLoss, next.StopReason)
	assert.Equal(t, -1005.0, next.PnL)
}

// Проигрыш ровно на вершине не последней лестницы ставит сессию на паузу
func TestLossAtTopPausesForBridging(t *testing.T) {
	strat := recoveryStrategy(t)
	st := NewSessionState(strat, 0)
	st.CurrentIndex = 2 // вершина L1

	next := ProcessBet(st, basicConfig(), strat, false, ModeAtBridgingOnly)

	assert.True(t, next.AwaitingDecision)
	assert.Equal(t, DecisionTypeBridging, next.PendingDecision)
	assert.Equal(t, 1, next.TopTouches)
	assert.Equal(t, 2, next.CurrentIndex) // позиция не менялась
	assert.Equal(t, 0, next.CurrentLadder)
	assert.False(t, next.Stopped)
	assert.Equal(t, -30.0, next.PnL) // ставка рассчитана до паузы
}

// Выигрыш на вершине бриджинг не запускает
func TestWinAtTopStaysInLadder(t *testing.T) {
	strat := recoveryStrategy(t)
	st := NewSessionState(strat, 0)
	st.CurrentIndex = 2

	next := ProcessBet(st, basicConfig(), strat, true, ModeAtBridgingOnly)
	assert.False(t, next.AwaitingDecision)
	assert.Equal(t, 0, next.CurrentIndex)
	assert.Equal(t, 0, next.TopTouches)
}

// Вершина последней лестницы: проигрыш завершает сессию лимитом стола
func TestLossAtTopOfLastLadderStops(t *testing.T) {
	strat := recoveryStrategy(t)
	st := NewSessionState(strat, 1)
	st.CurrentIndex = 2

	next := ProcessBet(st, basicConfig(), strat, false, ModeAtBridgingOnly)
	assert.True(t, next.Stopped)
	assert.Equal(t, StopTableLimit, next.StopReason)
	assert.Equal(t, 1, next.TopTouches)
	assert.False(t, next.AwaitingDecision)
}

// Политика stop_at_table_limit завершает сессию на первом же бриджинге
func TestStopAtTableLimitPolicy(t *testing.T) {
	strat, err := NewStrategy(PolicyStopAtTableLimit, 0.5, 0, basicLadders(t))
	require.NoError(t, err)

	st := NewSessionState(strat, 0)
	st.CurrentIndex = 2

	next := ProcessBet(st, basicConfig(), strat, false, ModeAtBridgingOnly)
	assert.True(t, next.Stopped)
	assert.Equal(t, StopTableLimit, next.StopReason)
}

// Достижение цели восстановления сбрасывает на базовую лестницу
func TestRecoveryExitResetsToBase(t *testing.T) {
	strat := recoveryStrategy(t)

	st := NewSessionState(strat, 0)
	st.CurrentLadder = 1
	st.CurrentIndex = 1
	st.InRecovery = true
	st.RecoveryTargetPnL = -25
	st.PnL = -35

	// Выигрыш L2[1] = 200 поднимает PnL до 165 >= -25
	next := ProcessBet(st, basicConfig(), strat, true, ModeAtBridgingOnly)
	assert.False(t, next.InRecovery)
	assert.Equal(t, 0.0, next.RecoveryTargetPnL)
	assert.Equal(t, 0, next.CurrentLadder)
	assert.Equal(t, 0, next.CurrentIndex)
}

// Ниже цели восстановление продолжается
func TestRecoveryContinuesBelowTarget(t *testing.T) {
	strat := recoveryStrategy(t)

	st := NewSessionState(strat, 0)
	st.CurrentLadder = 1
	st.CurrentIndex = 2
	st.InRecovery = true
	st.RecoveryTargetPnL = -25
	st.PnL = -400

	// Выигрыш 300 дает -100 < -25: остаемся в восстановлении, шаг обычный
	next := ProcessBet(st, basicConfig(), strat, true, ModeAtBridgingOnly)
	assert.True(t, next.InRecovery)
	assert.Equal(t, 1, next.CurrentLadder)
	assert.Equal(t, 0, next.CurrentIndex) // 2-2
}

// Режим every_bet требует подтверждения после каждой нетерминальной ставки
func TestEveryBetModePauses(t *testing.T) {
	strat := recoveryStrategy(t)
	st := NewSessionState(strat, 0)

	next := ProcessBet(st, basicConfig(), strat, true, ModeEveryBet)
	assert.True(t, next.AwaitingDecision)
	assert.Equal(t, DecisionTypeEveryBet, next.PendingDecision)

	// Терминальная ставка паузы не оставляет
	st2 := NewSessionState(strat, 0)
	st2.PnL = 995
	next = ProcessBet(st2, basicConfig(), strat, true, ModeEveryBet)
	assert.True(t, next.Stopped)
	assert.False(t, next.AwaitingDecision)

	// Бриджинговая пауза не перетирается паузой every_bet
	st3 := NewSessionState(strat, 0)
	st3.CurrentIndex = 2
	next = ProcessBet(st3, basicConfig(), strat, false, ModeEveryBet)
	assert.Equal(t, DecisionTypeBridging, next.PendingDecision)
}

func TestDrawdownTracking(t *testing.T) {
	strat := recoveryStrategy(t)
	cfg := basicConfig()

	st := NewSessionState(strat, 0)

	// Выигрыш 10, затем два проигрыша: пик 10, дно 10-10-20=-20
	st = ProcessBet(st, cfg, strat, true, ModeAtBridgingOnly)
	st = ProcessBet(st, cfg, strat, false, ModeAtBridgingOnly)
	st = ProcessBet(st, cfg, strat, false, ModeAtBridgingOnly)

	assert.Equal(t, 10.0, st.PeakPnL)
	assert.Equal(t, -20.0, st.PnL)
	assert.Equal(t, 30.0, st.MaxDrawdown)
	assert.Equal(t, 40.0, st.TotalWagered)
	assert.Equal(t, 3, st.LadderTouches[0])
}
