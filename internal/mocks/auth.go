package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"

	"taskward/internal/service/auth"
)

// MockJWTService is a configurable mock implementation of auth.JWTService.
type MockJWTService struct {
	GenerateTokenFn func(ctx context.Context, userID uuid.UUID) (string, error)
	ValidateTokenFn func(ctx context.Context, tokenString string) (*auth.Claims, error)
}

var _ auth.JWTService = (*MockJWTService)(nil)

func (m *MockJWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	if m.GenerateTokenFn != nil {
		return m.GenerateTokenFn(ctx, userID)
	}
	return "test-token-" + userID.String(), nil
}

func (m *MockJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, tokenString)
	}
	return nil, auth.ErrInvalidToken
}

// StaticClaimsValidator returns a ValidateTokenFn that accepts any token and
// yields claims for the given user. Handy for handler tests that only need an
// authenticated request.
func StaticClaimsValidator(userID uuid.UUID) func(ctx context.Context, tokenString string) (*auth.Claims, error) {
	return func(_ context.Context, _ string) (*auth.Claims, error) {
		now := time.Now()
		return &auth.Claims{
			UserID:    userID,
			Subject:   userID.String(),
			IssuedAt:  now,
			ExpiresAt: now.Add(time.Hour),
		}, nil
	}
}

// MockPasswordVerifier is a configurable mock implementation of
// auth.PasswordVerifier.
type MockPasswordVerifier struct {
	CompareFn func(hashedPassword, password string) error
}

var _ auth.PasswordVerifier = (*MockPasswordVerifier)(nil)

func (m *MockPasswordVerifier) Compare(hashedPassword, password string) error {
	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}
	return nil
}
