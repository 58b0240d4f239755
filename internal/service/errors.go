package service

import "errors"

// Ошибки игровых сценариев, по которым API слой выбирает статус ответа
var (
	ErrSessionNotFound   = errors.New("staking session not found")
	ErrSessionStopped    = errors.New("staking session already stopped")
	ErrAwaitingDecision  = errors.New("staking session awaits a decision")
	ErrNoPendingDecision = errors.New("staking session has no pending decision")
	ErrUnknownDecision   = errors.New("unknown decision")
)
