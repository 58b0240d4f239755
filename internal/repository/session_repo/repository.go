package session_repo

import (
	"context"
	"encoding/json"
	"fmt"
	"staking_backend/internal/engine"
	"staking_backend/internal/model"
	"staking_backend/internal/repository"
	repoModel "staking_backend/internal/repository/session_repo/model"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	table = "staking_sessions"

	colID           = "id"
	colUserID       = "user_id"
	colPreset       = "preset"
	colDecisionMode = "decision_mode"

	// Конфигурация сессии
	colBankroll       = "bankroll"
	colProfitTarget   = "profit_target"
	colStopLossAbs    = "stop_loss_abs"
	colMaxRounds      = "max_rounds"
	colTableMax       = "table_max"
	colStartingLadder = "starting_ladder"

	// Снапшот стратегии
	colStrategy = "strategy"

	// Снапшот состояния
	colCurrentLadder     = "current_ladder"
	colCurrentIndex      = "current_index"
	colPnL               = "pnl"
	colRounds            = "rounds"
	colTotalWagered      = "total_wagered"
	colMaxStake          = "max_stake"
	colPeakPnL           = "peak_pnl"
	colMaxDrawdown       = "max_drawdown"
	colLadderTouches     = "ladder_touches"
	colTopTouches        = "top_touches"
	colStopped           = "stopped"
	colStopReason        = "stop_reason"
	colInRecovery        = "in_recovery"
	colRecoveryTargetPnL = "recovery_target_pnl"
	colAwaitingDecision  = "awaiting_decision"
	colPendingDecision   = "pending_decision"

	colCreatedAt = "created_at"
	colUpdatedAt = "updated_at"
)

type repo struct {
	dbc    *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

func NewStakingSessionRepository(dbc *pgxpool.Pool) repository.StakingSessionRepository {
	return &repo{
		dbc:    dbc,
		getter: trmpgx.DefaultCtxGetter,
	}
}

// CreateSession - создает новую сессию со всеми снапшотами
func (r *repo) CreateSession(ctx context.Context, session *model.StakingSession) error {
	strategyJSON, err := marshalStrategy(session.Strategy)
	if err != nil {
		return err
	}
	touchesJSON, err := json.Marshal(session.State.LadderTouches)
	if err != nil {
		return err
	}

	// Формируем запрос
	query := sq.Insert(table).
		Columns(
			colID, colUserID, colPreset, colDecisionMode,
			colBankroll, colProfitTarget, colStopLossAbs, colMaxRounds, colTableMax, colStartingLadder,
			colStrategy,
			colCurrentLadder, colCurrentIndex, colPnL, colRounds, colTotalWagered,
			colMaxStake, colPeakPnL, colMaxDrawdown, colLadderTouches, colTopTouches,
			colStopped, colStopReason, colInRecovery, colRecoveryTargetPnL,
			colAwaitingDecision, colPendingDecision,
			colCreatedAt, colUpdatedAt,
		).
		Values(
			session.ID, session.UserID, session.Preset, string(session.DecisionMode),
			session.Config.Bankroll, session.Config.ProfitTarget, session.Config.StopLossAbs,
			session.Config.MaxRounds, session.Config.TableMax, session.Config.StartingLadder,
			strategyJSON,
			session.State.CurrentLadder, session.State.CurrentIndex, session.State.PnL,
			session.State.Rounds, session.State.TotalWagered,
			session.State.MaxStake, session.State.PeakPnL, session.State.MaxDrawdown,
			touchesJSON, session.State.TopTouches,
			session.State.Stopped, string(session.State.StopReason),
			session.State.InRecovery, session.State.RecoveryTargetPnL,
			session.State.AwaitingDecision, string(session.State.PendingDecision),
			session.CreatedAt, session.UpdatedAt,
		).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.getter.DefaultTrOrDB(ctx, r.dbc).Exec(ctx, sqlStr, args...)
	if err != nil {
		return err
	}

	return nil
}

// GetSession - возвращает сессию со всеми снапшотами по ее ID
func (r *repo) GetSession(ctx context.Context, id uuid.UUID) (*model.StakingSession, error) {
	// Формируем запрос
	query := sq.Select(
		colID, colUserID, colPreset, colDecisionMode,
		colBankroll, colProfitTarget, colStopLossAbs, colMaxRounds, colTableMax, colStartingLadder,
		colStrategy,
		colCurrentLadder, colCurrentIndex, colPnL, colRounds, colTotalWagered,
		colMaxStake, colPeakPnL, colMaxDrawdown, colLadderTouches, colTopTouches,
		colStopped, colStopReason, colInRecovery, colRecoveryTargetPnL,
		colAwaitingDecision, colPendingDecision,
		colCreatedAt, colUpdatedAt,
	).
		From(table).
		Where(sq.Eq{colID: id}).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var (
		session         model.StakingSession
		decisionMode    string
		strategyJSON    []byte
		touchesJSON     []byte
		stopReason      string
		pendingDecision string
	)

	err = r.getter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...).Scan(
		&session.ID, &session.UserID, &session.Preset, &decisionMode,
		&session.Config.Bankroll, &session.Config.ProfitTarget, &session.Config.StopLossAbs,
		&session.Config.MaxRounds, &session.Config.TableMax, &session.Config.StartingLadder,
		&strategyJSON,
		&session.State.CurrentLadder, &session.State.CurrentIndex, &session.State.PnL,
		&session.State.Rounds, &session.State.TotalWagered,
		&session.State.MaxStake, &session.State.PeakPnL, &session.State.MaxDrawdown,
		&touchesJSON, &session.State.TopTouches,
		&session.State.Stopped, &stopReason,
		&session.State.InRecovery, &session.State.RecoveryTargetPnL,
		&session.State.AwaitingDecision, &pendingDecision,
		&session.CreatedAt, &session.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	session.DecisionMode = engine.DecisionMode(decisionMode)
	session.State.StopReason = engine.StopReason(stopReason)
	session.State.PendingDecision = engine.DecisionType(pendingDecision)

	session.Strategy, err = unmarshalStrategy(strategyJSON)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(touchesJSON, &session.State.LadderTouches); err != nil {
		return nil, err
	}

	return &session, nil
}

// UpdateSession - перезаписывает снапшот состояния сессии.
// Конфигурация и стратегия неизменны после старта и не обновляются
func (r *repo) UpdateSession(ctx context.Context, session *model.StakingSession) error {
	touchesJSON, err := json.Marshal(session.State.LadderTouches)
	if err != nil {
		return err
	}

	// Формируем запрос
	query := sq.Update(table).
		Set(colCurrentLadder, session.State.CurrentLadder).
		Set(colCurrentIndex, session.State.CurrentIndex).
		Set(colPnL, session.State.PnL).
		Set(colRounds, session.State.Rounds).
		Set(colTotalWagered, session.State.TotalWagered).
		Set(colMaxStake, session.State.MaxStake).
		Set(colPeakPnL, session.State.PeakPnL).
		Set(colMaxDrawdown, session.State.MaxDrawdown).
		Set(colLadderTouches, touchesJSON).
		Set(colTopTouches, session.State.TopTouches).
		Set(colStopped, session.State.Stopped).
		Set(colStopReason, string(session.State.StopReason)).
		Set(colInRecovery, session.State.InRecovery).
		Set(colRecoveryTargetPnL, session.State.RecoveryTargetPnL).
		Set(colAwaitingDecision, session.State.AwaitingDecision).
		Set(colPendingDecision, string(session.State.PendingDecision)).
		Set(colUpdatedAt, session.UpdatedAt).
		Where(sq.Eq{colID: session.ID}).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.getter.DefaultTrOrDB(ctx, r.dbc).Exec(ctx, sqlStr, args...)
	if err != nil {
		return err
	}

	return nil
}

// marshalStrategy - упаковка стратегии в JSON для колонки strategy
func marshalStrategy(strat engine.Strategy) ([]byte, error) {
	snapshot := repoModel.Strategy{
		BridgingPolicy:    string(strat.BridgingPolicy),
		RecoveryTargetPct: strat.RecoveryTargetPct,
		CrossoverOffset:   strat.CrossoverOffset,
		Ladders:           make([]repoModel.Ladder, 0, len(strat.Ladders)),
	}
	for _, l := range strat.Ladders {
		snapshot.Ladders = append(snapshot.Ladders, repoModel.Ladder{
			Name:   l.Name(),
			Stakes: l.Stakes(),
		})
	}
	return json.Marshal(snapshot)
}

// unmarshalStrategy - восстановление стратегии из JSON.
// Снапшот писали мы же, поэтому ошибка валидации означает испорченные данные
func unmarshalStrategy(raw []byte) (engine.Strategy, error) {
	var snapshot repoModel.Strategy
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return engine.Strategy{}, err
	}

	ladders := make([]engine.Ladder, 0, len(snapshot.Ladders))
	for _, l := range snapshot.Ladders {
		ladder, err := engine.NewLadder(l.Name, l.Stakes)
		if err != nil {
			return engine.Strategy{}, fmt.Errorf("corrupted strategy snapshot: %w", err)
		}
		ladders = append(ladders, ladder)
	}

	strat, err := engine.NewStrategy(
		engine.BridgingPolicy(snapshot.BridgingPolicy),
		snapshot.RecoveryTargetPct,
		snapshot.CrossoverOffset,
		ladders,
	)
	if err != nil {
		return engine.Strategy{}, fmt.Errorf("corrupted strategy snapshot: %w", err)
	}

	return strat, nil
}
