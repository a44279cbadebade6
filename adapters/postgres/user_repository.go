package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"tribunal/domain/core"
	"tribunal/domain/trial"
	"tribunal/ports"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// UserRepositoryImpl implements UserRepository for PostgreSQL
type UserRepositoryImpl struct {
	db *sqlx.DB
}

// NewUserRepository creates a new PostgreSQL user repository
func NewUserRepository(db *sqlx.DB) ports.UserRepository {
	return &UserRepositoryImpl{db: db}
}

// Create persists a new user
func (r *UserRepositoryImpl) Create(ctx context.Context, u *trial.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, phone_hash, full_name, email, created_at, last_login)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, u.ID, u.PhoneHash, u.FullName, u.Email, u.CreatedAt, u.LastLogin)

	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by identifier
func (r *UserRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*trial.User, error) {
	var u trial.User
	err := r.db.GetContext(ctx, &u, `
		SELECT id, phone_hash, full_name, email, created_at, last_login
		FROM users WHERE id = $1
	`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, core.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

// GetByPhoneHash retrieves a user by hashed phone number
func (r *UserRepositoryImpl) GetByPhoneHash(ctx context.Context, phoneHash string) (*trial.User, error) {
	var u trial.User
	err := r.db.GetContext(ctx, &u, `
		SELECT id, phone_hash, full_name, email, created_at, last_login
		FROM users WHERE phone_hash = $1
	`, phoneHash)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, core.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by phone: %w", err)
	}
	return &u, nil
}

// Touch updates last-login and any provided profile fields
func (r *UserRepositoryImpl) Touch(ctx context.Context, id uuid.UUID, at time.Time, fullName, email *string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET last_login = $2,
			full_name = COALESCE($3, full_name),
			email = COALESCE($4, email)
		WHERE id = $1
	`, id, at, fullName, email)
	if err != nil {
		return fmt.Errorf("failed to touch user: %w", err)
	}
	return nil
}
