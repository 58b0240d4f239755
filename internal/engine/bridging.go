package engine

// ProcessBridgingDecision - обработка решения игрока на паузе сессии.
// Вызов без ожидаемого решения и неизвестное значение решения - no-op:
// это программная ошибка вызывающего слоя, а не игровая ситуация
func ProcessBridgingDecision(state SessionState, strat Strategy, decision Decision) SessionState {
	if !state.AwaitingDecision {
		return state
	}

	next := state.clone()

	// Пауза режима every_bet: остановка по запросу либо продолжение.
	// Бриджинговые решения здесь трактуются как "продолжить"
	if next.PendingDecision == DecisionTypeEveryBet {
		next.AwaitingDecision = false
		next.PendingDecision = DecisionTypeNone
		if decision == DecisionStopSession {
			next.Stopped = true
			next.StopReason = StopUserStopped
		}
		return next
	}

	// Пауза бриджинга
	switch decision {
	case DecisionStopSession:
		next.AwaitingDecision = false
		next.PendingDecision = DecisionTypeNone
		next.Stopped = true
		next.StopReason = StopUserStopped
		return next

	case DecisionWriteOff:
		// Принять убыток: сброс позиции на базовую лестницу, PnL не трогаем
		next.AwaitingDecision = false
		next.PendingDecision = DecisionTypeNone
		next.CurrentLadder = 0
		next.CurrentIndex = 0
		next.InRecovery = false
		next.RecoveryTargetPnL = 0
		return next

	case DecisionCarryOver:
		return carryOver(next, strat)

	default:
		// Неопознанное решение - возвращаем вход без изменений
		return state
	}
}

// carryOver - перенос на следующую лестницу.
//
// Политика advance_to_next_ladder_start переносит на нулевую ступень без
// режима восстановления. Остальные политики входят (или остаются) в режим
// восстановления: цель - точка между текущим убытком и нулем, масштаб
// задает recovery_target_pct. Цель фиксируется при первом переносе и не
// пересчитывается на последующих
func carryOver(next SessionState, strat Strategy) SessionState {
	next.AwaitingDecision = false
	next.PendingDecision = DecisionTypeNone

	// Переносить некуда - завершаем как лимит стола.
	// При штатной работе сюда не попадаем: бриджинг на последней лестнице
	// завершает сессию еще в ProcessBet
	if next.CurrentLadder >= len(strat.Ladders)-1 {
		next.Stopped = true
		next.StopReason = StopTableLimit
		return next
	}

	if strat.BridgingPolicy == PolicyAdvanceToNextLadderStart {
		next.CurrentLadder++
		next.CurrentIndex = 0
		return next
	}

	if !next.InRecovery {
		next.InRecovery = true
		if next.PnL < 0 {
			// Например: pnl=-100 и пятидесятипроцентное восстановление дают цель -50
			next.RecoveryTargetPnL = next.PnL + (-next.PnL)*strat.RecoveryTargetPct
		} else {
			// Перенос при неотрицательном PnL: восстанавливать нечего,
			// цель равна текущему PnL и будет достигнута следующей ставкой
			next.RecoveryTargetPnL = next.PnL
		}
	}

	next.CurrentLadder++

	// Смещение зажимается по максимальному индексу НОВОЙ лестницы
	offset := strat.CrossoverOffset
	if maxIdx := strat.Ladders[next.CurrentLadder].MaxIndex(); offset > maxIdx {
		offset = maxIdx
	}
	next.CurrentIndex = offset

	return next
}
