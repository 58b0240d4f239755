package staking

import (
	"context"
	"staking_backend/internal/engine"
	"staking_backend/internal/middleware"
	"staking_backend/internal/model"
	"staking_backend/internal/repository"
	"staking_backend/internal/repository/staking_stats_repo"
	"staking_backend/internal/service"
	"testing"

	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Менеджер транзакций для тестов: выполняет функцию без транзакции
type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (fakeTxManager) DoWithSettings(ctx context.Context, _ trm.Settings, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeSessionRepo struct {
	sessions map[uuid.UUID]model.StakingSession
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[uuid.UUID]model.StakingSession)}
}

func (r *fakeSessionRepo) CreateSession(_ context.Context, session *model.StakingSession) error {
	r.sessions[session.ID] = *session
	return nil
}

func (r *fakeSessionRepo) GetSession(_ context.Context, id uuid.UUID) (*model.StakingSession, error) {
	session, ok := r.sessions[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &session, nil
}

func (r *fakeSessionRepo) UpdateSession(_ context.Context, session *model.StakingSession) error {
	r.sessions[session.ID] = *session
	return nil
}

type fakeBetRepo struct {
	bets map[uuid.UUID][]engine.BetRecord
}

func newFakeBetRepo() *fakeBetRepo {
	return &fakeBetRepo{bets: make(map[uuid.UUID][]engine.BetRecord)}
}

func (r *fakeBetRepo) AddBet(_ context.Context, sessionID uuid.UUID, record engine.BetRecord) error {
	r.bets[sessionID] = append(r.bets[sessionID], record)
	return nil
}

func (r *fakeBetRepo) ListBets(_ context.Context, sessionID uuid.UUID) ([]engine.BetRecord, error) {
	return r.bets[sessionID], nil
}

type fakeStakingConfig struct {
	ladders []engine.Ladder
}

func (c *fakeStakingConfig) Ladders() []engine.Ladder {
	return c.ladders
}

func newTestService(t *testing.T) (service.StakingService, repository.StakingStatsRepository) {
	t.Helper()

	l1, err := engine.NewLadder("L1", []float64{10, 20, 30})
	require.NoError(t, err)
	l2, err := engine.NewLadder("L2", []float64{100, 200, 300})
	require.NoError(t, err)

	statsRepo := staking_stats_repo.NewStakingStatsRepository()
	serv := NewStakingService(
		newFakeSessionRepo(),
		newFakeBetRepo(),
		statsRepo,
		&fakeStakingConfig{ladders: []engine.Ladder{l1, l2}},
		fakeTxManager{},
	)
	return serv, statsRepo
}

func playerCtx(userID int) context.Context {
	return middleware.WithUserID(context.Background(), userID)
}

func startRequest() model.StartSession {
	return model.StartSession{
		Preset: "default",
		Config: engine.SessionConfig{
			Bankroll:     10000,
			ProfitTarget: 1000,
			StopLossAbs:  1000,
			MaxRounds:    100,
		},
	}
}

func TestStartSession(t *testing.T) {
	serv, _ := newTestService(t)
	ctx := playerCtx(7)

	session, err := serv.StartSession(ctx, startRequest())
	require.NoError(t, err)

	assert.Equal(t, 7, session.UserID)
	assert.Equal(t, "default", session.Preset)
	assert.Equal(t, engine.ModeAtBridgingOnly, session.DecisionMode)
	assert.Equal(t, 0, session.State.CurrentLadder)
	assert.Equal(t, 0, session.State.CurrentIndex)
	assert.Equal(t, 10.0, session.State.CurrentStake(session.Strategy))

	// Сессия читается обратно
	got, err := serv.Session(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, got.ID)
}

func TestStartSessionValidation(t *testing.T) {
	serv, _ := newTestService(t)
	ctx := playerCtx(7)

	req := startRequest()
	req.Preset = "martingale_turbo"
	_, err := serv.StartSession(ctx, req)
	assert.ErrorIs(t, err, engine.ErrUnknownPreset)

	req = startRequest()
	req.Config.Bankroll = 0
	_, err = serv.StartSession(ctx, req)
	assert.ErrorIs(t, err, engine.ErrInvalidSessionConfig)

	// Переопределение пресета не должно обходить валидацию стратегии
	req = startRequest()
	bad := 1.7
	req.RecoveryTargetPct = &bad
	_, err = serv.StartSession(ctx, req)
	assert.ErrorIs(t, err, engine.ErrInvalidStrategy)
}

func TestStartSessionPresetOverrides(t *testing.T) {
	serv, _ := newTestService(t)
	ctx := playerCtx(7)

	policy := engine.PolicyAdvanceToNextLadderStart
	offset := 2
	req := startRequest()
	req.BridgingPolicy = &policy
	req.CrossoverOffset = &offset

	session, err := serv.StartSession(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, engine.PolicyAdvanceToNextLadderStart, session.Strategy.BridgingPolicy)
	assert.Equal(t, 2, session.Strategy.CrossoverOffset)
	// Непереопределенные поля остаются из пресета
	assert.Equal(t, 0.5, session.Strategy.RecoveryTargetPct)
}

func TestPlaceBetWin(t *testing.T) {
	serv, _ := newTestService(t)
	ctx := playerCtx(7)

	session, err := serv.StartSession(ctx, startRequest())
	require.NoError(t, err)

	outcome, err := serv.PlaceBet(ctx, session.ID, true)
	require.NoError(t, err)

	assert.True(t, outcome.Settled)
	assert.Equal(t, 1, outcome.Record.Round)
	assert.Equal(t, 10.0, outcome.Record.Stake)
	assert.Equal(t, 10.0, outcome.Record.PnLAfter)
	assert.Equal(t, 10.0, outcome.Session.State.PnL)

	// Обновленное состояние сохранено
	got, err := serv.Session(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.State.Rounds)
}

// Полный цикл: проигрыши до бриджинга, перенос, восстановление, сброс
func TestBridgeAndRecoverFlow(t *testing.T) {
	serv, _ := newTestService(t)
	ctx := playerCtx(7)

	session, err := serv.StartSession(ctx, startRequest())
	require.NoError(t, err)

	// Три проигрыша: 10+20+30, пауза бриджинга
	for i := 0; i < 3; i++ {
		_, err = serv.PlaceBet(ctx, session.ID, false)
		require.NoError(t, err)
	}

	got, err := serv.Session(ctx, session.ID)
	require.NoError(t, err)
	require.True(t, got.State.AwaitingDecision)
	require.Equal(t, -60.0, got.State.PnL)

	// Ставка на паузе отвергается
	_, err = serv.PlaceBet(ctx, session.ID, true)
	assert.ErrorIs(t, err, service.ErrAwaitingDecision)

	// Перенос убытка
	got, err = serv.Decide(ctx, session.ID, engine.DecisionCarryOver)
	require.NoError(t, err)
	assert.True(t, got.State.InRecovery)
	assert.Equal(t, -30.0, got.State.RecoveryTargetPnL)
	assert.Equal(t, 1, got.State.CurrentLadder)

	// Повторное решение без паузы отвергается
	_, err = serv.Decide(ctx, session.ID, engine.DecisionCarryOver)
	assert.ErrorIs(t, err, service.ErrNoPendingDecision)

	// Выигрыш 100 достигает цели: полный сброс на базовую лестницу
	outcome, err := serv.PlaceBet(ctx, session.ID, true)
	require.NoError(t, err)
	assert.False(t, outcome.Session.State.InRecovery)
	assert.Equal(t, 0, outcome.Session.State.CurrentLadder)
	assert.Equal(t, 40.0, outcome.Session.State.PnL)

	// Вся история на месте
	history, err := serv.History(ctx, session.ID)
	require.NoError(t, err)
	assert.Len(t, history, 4)
}

func TestUnknownDecisionRejected(t *testing.T) {
	serv, _ := newTestService(t)
	ctx := playerCtx(7)

	session, err := serv.StartSession(ctx, startRequest())
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = serv.PlaceBet(ctx, session.ID, false)
		require.NoError(t, err)
	}

	_, err = serv.Decide(ctx, session.ID, engine.Decision("double_down"))
	assert.ErrorIs(t, err, service.ErrUnknownDecision)

	// Пауза осталась на месте
	got, err := serv.Session(ctx, session.ID)
	require.NoError(t, err)
	assert.True(t, got.State.AwaitingDecision)
}

func TestFinishedSessionRecordedInStats(t *testing.T) {
	serv, statsRepo := newTestService(t)
	ctx := playerCtx(7)

	req := startRequest()
	req.Config.ProfitTarget = 10 // Первый же выигрыш закрывает сессию

	session, err := serv.StartSession(ctx, req)
	require.NoError(t, err)

	outcome, err := serv.PlaceBet(ctx, session.ID, true)
	require.NoError(t, err)
	require.True(t, outcome.Session.State.Stopped)
	assert.Equal(t, engine.StopProfitTarget, outcome.Session.State.StopReason)

	stats := statsRepo.Snapshot()
	require.Contains(t, stats, "default")
	assert.Equal(t, 1, stats["default"].Sessions)
	assert.Equal(t, 1, stats["default"].Wins)
	assert.Equal(t, 10.0, stats["default"].TotalPnL)

	// Ставки в завершенной сессии отвергаются
	_, err = serv.PlaceBet(ctx, session.ID, true)
	assert.ErrorIs(t, err, service.ErrSessionStopped)
}

func TestSessionOwnership(t *testing.T) {
	serv, _ := newTestService(t)

	session, err := serv.StartSession(playerCtx(7), startRequest())
	require.NoError(t, err)

	// Чужая сессия неотличима от несуществующей
	_, err = serv.Session(playerCtx(8), session.ID)
	assert.ErrorIs(t, err, service.ErrSessionNotFound)

	_, err = serv.PlaceBet(playerCtx(8), session.ID, true)
	assert.ErrorIs(t, err, service.ErrSessionNotFound)

	_, err = serv.Session(playerCtx(7), uuid.New())
	assert.ErrorIs(t, err, service.ErrSessionNotFound)
}

func TestEveryBetMode(t *testing.T) {
	serv, _ := newTestService(t)
	ctx := playerCtx(7)

	req := startRequest()
	req.DecisionMode = engine.ModeEveryBet

	session, err := serv.StartSession(ctx, req)
	require.NoError(t, err)

	outcome, err := serv.PlaceBet(ctx, session.ID, true)
	require.NoError(t, err)
	assert.True(t, outcome.Session.State.AwaitingDecision)
	assert.Equal(t, engine.DecisionTypeEveryBet, outcome.Session.State.PendingDecision)

	// Подтверждение снимает паузу
	got, err := serv.Decide(ctx, session.ID, engine.DecisionCarryOver)
	require.NoError(t, err)
	assert.False(t, got.State.AwaitingDecision)

	// Остановка по запросу учитывается в агрегатах
	_, err = serv.PlaceBet(ctx, session.ID, false)
	require.NoError(t, err)
	got, err = serv.Decide(ctx, session.ID, engine.DecisionStopSession)
	require.NoError(t, err)
	assert.True(t, got.State.Stopped)
	assert.Equal(t, engine.StopUserStopped, got.State.StopReason)
}

func TestSummary(t *testing.T) {
	serv, _ := newTestService(t)
	ctx := playerCtx(7)

	session, err := serv.StartSession(ctx, startRequest())
	require.NoError(t, err)

	_, err = serv.PlaceBet(ctx, session.ID, true)
	require.NoError(t, err)
	_, err = serv.PlaceBet(ctx, session.ID, false)
	require.NoError(t, err)

	summary, err := serv.Summary(ctx, session.ID)
	require.NoError(t, err)

	// Сессия активна: стоп-флаги не выставлены
	assert.False(t, summary.HitTarget)
	assert.False(t, summary.HitStopLoss)
	assert.Equal(t, 2, summary.RoundsPlayed)
	assert.Equal(t, 0.0, summary.FinalPnL)
	assert.Len(t, summary.History, 2)
}

func TestPresetsCatalogue(t *testing.T) {
	serv, _ := newTestService(t)

	presets := serv.Presets()
	require.Len(t, presets, 5)

	names := make([]string, 0, len(presets))
	for _, p := range presets {
		names = append(names, p.Name)
	}
	assert.Contains(t, names, "default")
	assert.Contains(t, names, "quick_reset")
}
