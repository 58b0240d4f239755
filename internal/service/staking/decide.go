package staking

import (
	"context"
	"log"
	"staking_backend/internal/engine"
	"staking_backend/internal/model"
	"staking_backend/internal/service"
	"time"

	"github.com/google/uuid"
)

// Decide обрабатывает решение игрока на паузе сессии
// (бриджинг либо подтверждение в режиме every_bet)
func (s *serv) Decide(ctx context.Context, sessionID uuid.UUID, decision engine.Decision) (*model.StakingSession, error) {
	var result *model.StakingSession

	// Начало транзакции где применяется решение
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		session, err := s.ownedSession(txCtx, sessionID)
		if err != nil {
			return err
		}

		if session.State.Stopped {
			return service.ErrSessionStopped
		}
		if !session.State.AwaitingDecision {
			return service.ErrNoPendingDecision
		}

		prev := session.State
		next := engine.ProcessBridgingDecision(prev, session.Strategy, decision)

		// Неопознанное решение движок игнорирует, пауза остается
		if next.AwaitingDecision {
			return service.ErrUnknownDecision
		}

		if !prev.InRecovery && next.InRecovery {
			log.Printf("[RECOVERY_ENTER] session=%s ladder=%s pnl=%.2f target=%.2f",
				sessionID, next.LadderName(session.Strategy), next.PnL, next.RecoveryTargetPnL)
		}
		if next.Stopped {
			log.Printf("session %s stopped: %s (pnl=%.2f rounds=%d)",
				sessionID, next.StopReason.Label(), next.PnL, next.Rounds)
		}

		session.State = next
		session.UpdatedAt = time.Now()
		result = session

		return s.sessionRepo.UpdateSession(txCtx, session)
	})
	if err != nil {
		return nil, err
	}

	if result.State.Stopped {
		s.recordFinished(result)
	}

	return result, nil
}
