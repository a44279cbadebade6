package ports

import (
	"context"
	"time"

	"tribunal/domain/trial"

	"github.com/google/uuid"
)

// UserRepository defines persistence operations for users
type UserRepository interface {
	Create(ctx context.Context, u *trial.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*trial.User, error)
	GetByPhoneHash(ctx context.Context, phoneHash string) (*trial.User, error)

	// Touch updates last-login and any provided profile fields.
	Touch(ctx context.Context, id uuid.UUID, at time.Time, fullName, email *string) error
}
