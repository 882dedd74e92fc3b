package service

import (
	"context"
	"testing"
	"time"

	"gym-coach-app/internal/domain"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret"

func newTestAuthService(userRepo *fakeUserRepo, policy *AccessPolicy, enableRegistration bool) AuthService {
	if policy == nil {
		policy = NewAccessPolicy(nil)
	}
	return NewAuthService(userRepo, policy, enableRegistration, testJWTSecret, time.Hour)
}

func TestAuthService_Register(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := newTestAuthService(userRepo, nil, true)

	user, err := svc.Register(context.Background(), "Alice", "alice@example.com", "password123", nil)
	require.NoError(t, err)
	require.NotNil(t, user)

	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, []domain.Role{domain.RoleTrainee}, user.Roles, "default role set is trainee")
	assert.Empty(t, user.PasswordHash, "hash must not be returned")

	// The stored hash must verify against the original password.
	stored, err := userRepo.GetByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.True(t, VerifyPassword("password123", stored.PasswordHash))
	assert.NotEqual(t, "password123", stored.PasswordHash)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := newTestAuthService(userRepo, nil, true)

	_, err := svc.Register(context.Background(), "Alice", "alice@example.com", "password123", nil)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "Imposter", "alice@example.com", "different", nil)
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
	assert.Len(t, userRepo.users, 1, "conflicting registration must not create a second account")
}

func TestAuthService_Register_Disabled(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := newTestAuthService(userRepo, nil, false)

	_, err := svc.Register(context.Background(), "Alice", "alice@example.com", "password123", nil)
	assert.ErrorIs(t, err, ErrRegistrationDisabled)
	assert.Empty(t, userRepo.users)
}

func TestAuthService_Register_AllowList(t *testing.T) {
	userRepo := newFakeUserRepo()
	policy := NewAccessPolicy([]string{"alice@example.com"})
	svc := newTestAuthService(userRepo, policy, true)

	_, err := svc.Register(context.Background(), "Mallory", "mallory@example.com", "password123", nil)
	assert.ErrorIs(t, err, ErrEmailNotAllowed)

	_, err = svc.Register(context.Background(), "Alice", "alice@example.com", "password123", nil)
	assert.NoError(t, err)
}

func TestAuthService_Login(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := newTestAuthService(userRepo, nil, true)

	registered, err := svc.Register(context.Background(), "Alice", "alice@example.com", "password123", []domain.Role{domain.RoleTrainer})
	require.NoError(t, err)

	token, user, err := svc.Login(context.Background(), "alice@example.com", "password123")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, registered.ID, user.ID)
	assert.Empty(t, user.PasswordHash)

	// The token must parse with the same secret and carry the role set.
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)
	assert.Equal(t, registered.ID.Hex(), claims.UserID)
	assert.Equal(t, []domain.Role{domain.RoleTrainer}, claims.Roles)
}

func TestAuthService_Login_FailuresAreUndifferentiated(t *testing.T) {
	userRepo := newFakeUserRepo()
	policy := NewAccessPolicy([]string{"alice@example.com"})
	svc := newTestAuthService(userRepo, policy, true)

	_, err := svc.Register(context.Background(), "Alice", "alice@example.com", "password123", nil)
	require.NoError(t, err)

	// Bob exists with valid credentials but is not on the allow-list.
	bobHash, err := HashPassword("password123")
	require.NoError(t, err)
	userRepo.seed(domain.User{
		Name:         "Bob",
		Email:        "bob@example.com",
		PasswordHash: bobHash,
		Roles:        []domain.Role{domain.RoleTrainee},
	})

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"unknown user", "nobody@example.com", "password123"},
		{"wrong password", "alice@example.com", "wrong"},
		{"empty password", "alice@example.com", ""},
		{"allow-list rejection with correct password", "bob@example.com", "password123"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			token, user, err := svc.Login(context.Background(), tc.email, tc.password)
			assert.ErrorIs(t, err, ErrAuthenticationFailed)
			assert.Empty(t, token)
			assert.Nil(t, user)
		})
	}
}
