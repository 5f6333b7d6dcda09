package auth

import (
	"context"

	"maxelo/attendance/internal/entity"
)

type User interface {
	GetByEmail(ctx context.Context, email string) (entity.User, error)
	VerifyReset(ctx context.Context, userID int, email string) error
	UpdatePassword(ctx context.Context, userID int, newPassword string) error
}
