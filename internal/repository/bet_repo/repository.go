package bet_repo

import (
	"context"
	"staking_backend/internal/engine"
	"staking_backend/internal/repository"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	table          = "bet_records"
	colSessionID   = "session_id"
	colRound       = "round"
	colStake       = "stake"
	colWon         = "won"
	colPnLAfter    = "pnl_after"
	colLadder      = "ladder"
	colLadderIndex = "ladder_index"
)

type repo struct {
	dbc    *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

func NewBetRepository(dbc *pgxpool.Pool) repository.BetRepository {
	return &repo{
		dbc:    dbc,
		getter: trmpgx.DefaultCtxGetter,
	}
}

// AddBet - дописывает запись о рассчитанной ставке в историю сессии.
// История append-only: записи никогда не обновляются и не удаляются
func (r *repo) AddBet(ctx context.Context, sessionID uuid.UUID, record engine.BetRecord) error {
	// Формируем запрос
	query := sq.Insert(table).
		Columns(colSessionID, colRound, colStake, colWon, colPnLAfter, colLadder, colLadderIndex).
		Values(sessionID, record.Round, record.Stake, record.Won, record.PnLAfter, record.Ladder, record.Index).
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

// ListBets - полная история ставок сессии в порядке раундов
func (r *repo) ListBets(ctx context.Context, sessionID uuid.UUID) ([]engine.BetRecord, error) {
	// Формируем запрос
	query := sq.Select(colRound, colStake, colWon, colPnLAfter, colLadder, colLadderIndex).
		From(table).
		Where(sq.Eq{colSessionID: sessionID}).
		OrderBy(colRound).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.getter.DefaultTrOrDB(ctx, r.dbc).Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []engine.BetRecord
	for rows.Next() {
		var rec engine.BetRecord
		err = rows.Scan(&rec.Round, &rec.Stake, &rec.Won, &rec.PnLAfter, &rec.Ladder, &rec.Index)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}
