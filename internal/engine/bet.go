package engine

// ProcessBet - главная функция перехода: принимает текущее состояние и исход
// ставки, возвращает следующее состояние. Чистая функция без побочных
// эффектов: вход не мутируется, все проверки детерминированы.
//
// Порядок шагов фиксирован:
//  1. Остановленная или ожидающая решения сессия - no-op.
//  2. Проверка банкролла (ставка НЕ применяется при нехватке).
//  3. Проверка лимита стола.
//  4. Расчет ставки: pnl, счетчики, просадка.
//  5. Стоп-условия по приоритету: profit target > stop loss > max rounds.
//  6. Шаг по лестнице (с возможным бриджингом).
//  7. В режиме every_bet - пауза до подтверждения игрока.
func ProcessBet(state SessionState, cfg SessionConfig, strat Strategy, won bool, mode DecisionMode) SessionState {
	// Защита от устаревших вызовов: движок никогда не падает во время игры
	if state.Stopped || state.AwaitingDecision {
		return state
	}

	next := state.clone()
	stake := strat.Ladders[next.CurrentLadder].StakeAt(next.CurrentIndex)

	// Не хватает банкролла - терминальный переход без применения ставки
	if cfg.Bankroll+next.PnL < stake {
		next.Stopped = true
		next.StopReason = StopBankrollExhausted
		return next
	}

	// Ставка выше лимита стола - терминальный переход
	if cfg.TableMax > 0 && stake > cfg.TableMax {
		next.Stopped = true
		next.StopReason = StopTableLimit
		return next
	}

	// Расчет ставки
	if won {
		next.PnL += stake
	} else {
		next.PnL -= stake
	}
	next.Rounds++
	next.TotalWagered += stake
	if stake > next.MaxStake {
		next.MaxStake = stake
	}
	next.LadderTouches[next.CurrentLadder]++

	// Просадка считается от пикового PnL
	if next.PnL > next.PeakPnL {
		next.PeakPnL = next.PnL
	}
	if dd := next.PeakPnL - next.PnL; dd > next.MaxDrawdown {
		next.MaxDrawdown = dd
	}

	// Стоп-условия по post-settlement значениям, первый сработавший побеждает
	switch {
	case next.PnL >= cfg.ProfitTarget:
		next.Stopped = true
		next.StopReason = StopProfitTarget
		return next
	case -next.PnL >= cfg.StopLossAbs:
		next.Stopped = true
		next.StopReason = StopLoss
		return next
	case next.Rounds >= cfg.MaxRounds:
		next.Stopped = true
		next.StopReason = StopMaxRounds
		return next
	}

	next = stepLadder(next, strat, won)

	// В строгом режиме каждая несостоявшаяся остановка требует подтверждения
	if mode == ModeEveryBet && !next.Stopped && !next.AwaitingDecision {
		next.AwaitingDecision = true
		next.PendingDecision = DecisionTypeEveryBet
	}

	return next
}

// stepLadder - шаг по лестнице после расчета ставки.
// Выигрыш: индекс -2, проигрыш: индекс +1, результат зажимается в
// [0, maxIndex]. Проигрыш НА вершине уходит в бриджинг вместо зажима
func stepLadder(next SessionState, strat Strategy, won bool) SessionState {
	ladder := strat.Ladders[next.CurrentLadder]
	atTop := ladder.IsAtTop(next.CurrentIndex)

	if !won && atTop {
		return triggerBridging(next, strat)
	}

	idx := next.CurrentIndex
	if won {
		idx -= 2
	} else {
		idx++
	}
	if idx < 0 {
		idx = 0
	}
	if idx > ladder.MaxIndex() {
		idx = ladder.MaxIndex()
	}
	next.CurrentIndex = idx

	// Выход из режима восстановления: полный сброс на базовую лестницу,
	// перекрывает только что вычисленный индекс
	if next.InRecovery && next.PnL >= next.RecoveryTargetPnL {
		next.InRecovery = false
		next.RecoveryTargetPnL = 0
		next.CurrentLadder = 0
		next.CurrentIndex = 0
	}

	return next
}

// triggerBridging - проигрыш на верхней ступени.
// Политика stop_at_table_limit и вершина последней лестницы завершают
// сессию, иначе сессия ставится на паузу до решения игрока
func triggerBridging(next SessionState, strat Strategy) SessionState {
	next.TopTouches++

	atLastLadder := next.CurrentLadder == len(strat.Ladders)-1

	if strat.BridgingPolicy == PolicyStopAtTableLimit || atLastLadder {
		next.Stopped = true
		next.StopReason = StopTableLimit
		return next
	}

	next.AwaitingDecision = true
	next.PendingDecision = DecisionTypeBridging
	return next
}
