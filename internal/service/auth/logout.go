package auth

import (
	"context"
)

func (s *serv) Logout(ctx context.Context, sessionID string) error {
	// Удаление сессии из хранилища делает refresh токен бесполезным
	return s.authRepo.DeleteSession(ctx, sessionID)
}
