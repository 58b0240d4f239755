package staking

import (
	"context"
	"errors"
	"log"
	"staking_backend/internal/engine"
	"staking_backend/internal/middleware"
	"staking_backend/internal/model"
	"staking_backend/internal/service"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PlaceBet обрабатывает исход одной ставки игрока.
// Чтение сессии, переход движка и запись результата выполняются в одной
// транзакции; агрегаты пресета обновляются после ее фиксации
func (s *serv) PlaceBet(ctx context.Context, sessionID uuid.UUID, won bool) (*model.BetOutcome, error) {
	var outcome *model.BetOutcome

	// Начало транзакции где обрабатывается ставка
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		session, err := s.ownedSession(txCtx, sessionID)
		if err != nil {
			return err
		}

		// Устаревшие вызовы отсекаются до движка, с внятной ошибкой для API
		if session.State.Stopped {
			return service.ErrSessionStopped
		}
		if session.State.AwaitingDecision {
			return service.ErrAwaitingDecision
		}

		prev := session.State
		stake := prev.CurrentStake(session.Strategy)

		next := engine.ProcessBet(prev, session.Config, session.Strategy, won, session.DecisionMode)

		outcome = &model.BetOutcome{
			Session: session,
			// Терминальные пре-проверки завершают сессию без расчета ставки
			Settled: next.Rounds > prev.Rounds,
		}

		if outcome.Settled {
			outcome.Record = engine.BetRecord{
				Round:    next.Rounds,
				Stake:    stake,
				Won:      won,
				PnLAfter: next.PnL,
				Ladder:   prev.CurrentLadder,
				Index:    prev.CurrentIndex,
			}
			if err := s.betRepo.AddBet(txCtx, sessionID, outcome.Record); err != nil {
				return err
			}
		}

		s.logBetTransitions(session, prev, next)

		session.State = next
		session.UpdatedAt = time.Now()

		return s.sessionRepo.UpdateSession(txCtx, session)
	})
	if err != nil {
		return nil, err
	}

	if outcome.Session.State.Stopped {
		s.recordFinished(outcome.Session)
	}

	return outcome, nil
}

// logBetTransitions - журнал переходов движка после ставки
func (s *serv) logBetTransitions(session *model.StakingSession, prev, next engine.SessionState) {
	if next.AwaitingDecision && next.PendingDecision == engine.DecisionTypeBridging {
		log.Printf("[LADDER_BRIDGE] session=%s ladder=%s index=%d pnl=%.2f policy=%s",
			session.ID, prev.LadderName(session.Strategy), prev.CurrentIndex,
			next.PnL, session.Strategy.BridgingPolicy)
	}

	if prev.InRecovery && !next.InRecovery && !next.Stopped {
		log.Printf("[RECOVERY_EXIT] session=%s pnl=%.2f target=%.2f rounds=%d",
			session.ID, next.PnL, prev.RecoveryTargetPnL, next.Rounds)
	}

	if next.Stopped {
		log.Printf("session %s stopped: %s (pnl=%.2f rounds=%d)",
			session.ID, next.StopReason.Label(), next.PnL, next.Rounds)
	}
}

// recordFinished - учет завершенной сессии в агрегатах пресета
func (s *serv) recordFinished(session *model.StakingSession) {
	result := engine.Summarize(session.State, session.Config, session.Strategy, nil)
	s.statsRepo.RecordSession(session.Preset, result)
}

// ownedSession - сессия по ID с проверкой принадлежности игроку из контекста.
// Чужие и несуществующие сессии неразличимы для вызывающего
func (s *serv) ownedSession(ctx context.Context, sessionID uuid.UUID) (*model.StakingSession, error) {
	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user id not found in context")
	}

	session, err := s.sessionRepo.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrSessionNotFound
		}
		return nil, err
	}

	if session.UserID != userID {
		return nil, service.ErrSessionNotFound
	}

	return session, nil
}
