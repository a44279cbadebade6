package app

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"tribunal/domain/core"
	"tribunal/domain/trial"
	"tribunal/internal/config"
	"tribunal/ports"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AuthService handles phone-based login. Phone numbers are never stored;
// only their SHA-256 hash is persisted.
type AuthService struct {
	users     ports.UserRepository
	secretKey []byte
	tokenTTL  time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(users ports.UserRepository, cfg *config.AuthConfig) *AuthService {
	return &AuthService{
		users:     users,
		secretKey: []byte(cfg.SecretKey),
		tokenTTL:  cfg.TokenTTL,
	}
}

// LoginResult carries the issued token and the authenticated user.
type LoginResult struct {
	Token     string     `json:"access_token"`
	TokenType string     `json:"token_type"`
	User      trial.User `json:"user"`
}

// Login authenticates by phone number, registering the user on first
// contact. Existing users get their last-login and profile touched.
func (s *AuthService) Login(ctx context.Context, phone string, fullName, email *string) (*LoginResult, error) {
	normalized, err := normalizePhone(phone)
	if err != nil {
		return nil, err
	}
	phoneHash := HashPhone(normalized)
	now := time.Now().UTC()

	user, err := s.users.GetByPhoneHash(ctx, phoneHash)
	switch {
	case err == nil:
		if err := s.users.Touch(ctx, user.ID, now, fullName, email); err != nil {
			return nil, err
		}
		user.LastLogin = &now
		if fullName != nil {
			user.FullName = fullName
		}
		if email != nil {
			user.Email = email
		}
	case errors.Is(err, core.ErrUserNotFound):
		user = &trial.User{
			ID:        uuid.New(),
			PhoneHash: phoneHash,
			FullName:  fullName,
			Email:     email,
			CreatedAt: now,
			LastLogin: &now,
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, TokenType: "bearer", User: *user}, nil
}

// CurrentUser resolves the user a token subject refers to.
func (s *AuthService) CurrentUser(ctx context.Context, userID uuid.UUID) (*trial.User, error) {
	return s.users.GetByID(ctx, userID)
}

// ParseToken validates a bearer token and returns the user ID it carries.
func (s *AuthService) ParseToken(tokenString string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secretKey, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, core.ErrAccessDenied
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, core.ErrAccessDenied
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return uuid.Nil, core.ErrAccessDenied
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, core.ErrAccessDenied
	}
	return userID, nil
}

func (s *AuthService) issueToken(userID uuid.UUID) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub": userID.String(),
		"iat": now.Unix(),
		"exp": now.Add(s.tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secretKey)
}

// HashPhone returns the hex SHA-256 digest of a normalized phone number.
func HashPhone(phone string) string {
	sum := sha256.Sum256([]byte(phone))
	return hex.EncodeToString(sum[:])
}

// normalizePhone strips formatting characters and validates digit length.
func normalizePhone(phone string) (string, error) {
	var b strings.Builder
	for _, r := range phone {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) < 10 || len(digits) > 15 {
		return "", core.NewValidationError("phone number must contain 10-15 digits")
	}
	return digits, nil
}
