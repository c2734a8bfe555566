package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskward/internal/api"
	"taskward/internal/domain"
	"taskward/internal/mocks"
	"taskward/internal/store"
)

func postJSON(t *testing.T, handler http.HandlerFunc, body any) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRegister(t *testing.T) {
	t.Parallel()

	validRequest := api.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "correct-horse-battery",
	}

	t.Run("creates user and returns token", func(t *testing.T) {
		t.Parallel()

		var created *domain.User
		users := &mocks.MockUserStore{
			CreateFn: func(_ context.Context, user *domain.User) error {
				created = user
				return nil
			},
		}
		handler := api.NewAuthHandler(users, &mocks.MockJWTService{}, &mocks.MockPasswordVerifier{}, nil)

		rec := postJSON(t, handler.Register, validRequest)

		require.Equal(t, http.StatusCreated, rec.Code)
		require.NotNil(t, created)
		assert.Equal(t, "alice", created.Username)

		var resp api.TokenResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Token)
	})

	t.Run("duplicate email is a validation failure", func(t *testing.T) {
		t.Parallel()

		users := &mocks.MockUserStore{
			CreateFn: func(_ context.Context, _ *domain.User) error {
				return store.ErrEmailExists
			},
		}
		handler := api.NewAuthHandler(users, &mocks.MockJWTService{}, &mocks.MockPasswordVerifier{}, nil)

		rec := postJSON(t, handler.Register, validRequest)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Email already exists", decodeError(t, rec)["message"])
	})

	t.Run("duplicate username is a validation failure", func(t *testing.T) {
		t.Parallel()

		users := &mocks.MockUserStore{
			CreateFn: func(_ context.Context, _ *domain.User) error {
				return store.ErrUsernameExists
			},
		}
		handler := api.NewAuthHandler(users, &mocks.MockJWTService{}, &mocks.MockPasswordVerifier{}, nil)

		rec := postJSON(t, handler.Register, validRequest)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Username already exists", decodeError(t, rec)["message"])
	})

	t.Run("rejects short password", func(t *testing.T) {
		t.Parallel()

		handler := api.NewAuthHandler(&mocks.MockUserStore{}, &mocks.MockJWTService{}, &mocks.MockPasswordVerifier{}, nil)

		rec := postJSON(t, handler.Register, api.RegisterRequest{
			Username: "alice",
			Email:    "alice@example.com",
			Password: "short",
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects malformed email", func(t *testing.T) {
		t.Parallel()

		handler := api.NewAuthHandler(&mocks.MockUserStore{}, &mocks.MockJWTService{}, &mocks.MockPasswordVerifier{}, nil)

		rec := postJSON(t, handler.Register, api.RegisterRequest{
			Username: "alice",
			Email:    "not-an-email",
			Password: "correct-horse-battery",
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("store failure is a server error", func(t *testing.T) {
		t.Parallel()

		users := &mocks.MockUserStore{
			CreateFn: func(_ context.Context, _ *domain.User) error {
				return errors.New("db unavailable")
			},
		}
		handler := api.NewAuthHandler(users, &mocks.MockJWTService{}, &mocks.MockPasswordVerifier{}, nil)

		rec := postJSON(t, handler.Register, validRequest)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestLogin(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	existing := &domain.User{
		ID:             userID,
		Username:       "alice",
		Email:          "alice@example.com",
		HashedPassword: "$2a$10$fakehash",
	}

	validRequest := api.LoginRequest{
		Email:    "alice@example.com",
		Password: "correct-horse-battery",
	}

	t.Run("returns token for valid credentials", func(t *testing.T) {
		t.Parallel()

		users := &mocks.MockUserStore{
			GetByEmailFn: func(_ context.Context, _ string) (*domain.User, error) {
				return existing, nil
			},
		}
		jwt := &mocks.MockJWTService{
			GenerateTokenFn: func(_ context.Context, id uuid.UUID) (string, error) {
				assert.Equal(t, userID, id)
				return "signed-token", nil
			},
		}
		handler := api.NewAuthHandler(users, jwt, &mocks.MockPasswordVerifier{}, nil)

		rec := postJSON(t, handler.Login, validRequest)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp api.TokenResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "signed-token", resp.Token)
	})

	t.Run("unknown email yields generic unauthorized", func(t *testing.T) {
		t.Parallel()

		handler := api.NewAuthHandler(&mocks.MockUserStore{}, &mocks.MockJWTService{}, &mocks.MockPasswordVerifier{}, nil)

		rec := postJSON(t, handler.Login, validRequest)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Invalid credentials", decodeError(t, rec)["message"])
	})

	t.Run("wrong password yields the same generic message", func(t *testing.T) {
		t.Parallel()

		users := &mocks.MockUserStore{
			GetByEmailFn: func(_ context.Context, _ string) (*domain.User, error) {
				return existing, nil
			},
		}
		verifier := &mocks.MockPasswordVerifier{
			CompareFn: func(_, _ string) error {
				return errors.New("mismatch")
			},
		}
		handler := api.NewAuthHandler(users, &mocks.MockJWTService{}, verifier, nil)

		rec := postJSON(t, handler.Login, validRequest)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Invalid credentials", decodeError(t, rec)["message"])
	})
}
