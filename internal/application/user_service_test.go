package application

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvenegas/tasks-api/internal/domain/entity"
	"github.com/kvenegas/tasks-api/pkg/helpers"
)

func newUserService(t *testing.T) (*UserService, *fakeUserRepo) {
	t.Helper()
	r := newFakeUserRepo()
	logger := logrus.New()
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	return NewUserService(r, jwt, nil, logger, "tasks-api"), r
}

func TestUserService_Register(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	u, token, err := svc.Register(ctx, RegisterInput{
		Name:     "Karla",
		Email:    "Karla@Example.COM",
		Password: "secret123",
	})
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "karla@example.com", u.Email, "email must be normalized to lowercase")
	assert.Equal(t, entity.RoleUser, u.Role, "role defaults to user")
	assert.NotEqual(t, "secret123", u.Password, "password must be stored hashed")
	assert.True(t, helpers.CompareHashAndPassword(u.Password, "secret123"))

	claims, err := svc.JWT.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, "user", claims.Role)
}

func TestUserService_RegisterDuplicateEmail(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "a@example.com", Password: "secret123"})
	require.NoError(t, err)

	// Exact duplicate and case-variant duplicate both conflict.
	_, _, err = svc.Register(ctx, RegisterInput{Name: "B", Email: "a@example.com", Password: "other456"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, _, err = svc.Register(ctx, RegisterInput{Name: "C", Email: "A@EXAMPLE.com", Password: "other456"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestUserService_Login(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	reg, _, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "a@example.com", Password: "secret123"})
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		u, token, err := svc.Login(ctx, "a@example.com", "secret123")
		require.NoError(t, err)
		assert.Equal(t, reg.ID, u.ID)
		claims, err := svc.JWT.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, reg.ID, claims.UserID)
	})

	t.Run("case-insensitive email", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "A@Example.COM", "secret123")
		assert.NoError(t, err)
	})

	// Unknown email and wrong password produce the exact same error.
	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "a@example.com", "wrongpass")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
	t.Run("unknown email", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "nobody@example.com", "secret123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestUserService_UpdateProfile(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	u, _, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "a@example.com", Password: "secret123"})
	require.NoError(t, err)
	_, _, err = svc.Register(ctx, RegisterInput{Name: "B", Email: "b@example.com", Password: "secret123"})
	require.NoError(t, err)

	t.Run("empty payload rejected", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, u.ID, UpdateProfileInput{})
		assert.ErrorIs(t, err, ErrEmptyUpdate)
	})

	t.Run("partial update keeps other fields", func(t *testing.T) {
		name := "Alice"
		got, err := svc.UpdateProfile(ctx, u.ID, UpdateProfileInput{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, "Alice", got.Name)
		assert.Equal(t, "a@example.com", got.Email)
		// Old password still works.
		_, _, err = svc.Login(ctx, "a@example.com", "secret123")
		assert.NoError(t, err)
	})

	t.Run("email conflict", func(t *testing.T) {
		email := "b@example.com"
		_, err := svc.UpdateProfile(ctx, u.ID, UpdateProfileInput{Email: &email})
		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("password change re-hashes", func(t *testing.T) {
		pw := "newsecret"
		got, err := svc.UpdateProfile(ctx, u.ID, UpdateProfileInput{Password: &pw})
		require.NoError(t, err)
		assert.NotEqual(t, "newsecret", got.Password)
		_, _, err = svc.Login(ctx, "a@example.com", "newsecret")
		assert.NoError(t, err)
		_, _, err = svc.Login(ctx, "a@example.com", "secret123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		name := "X"
		_, err := svc.UpdateProfile(ctx, "missing", UpdateProfileInput{Name: &name})
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestUserService_GetProfile(t *testing.T) {
	svc, _ := newUserService(t)
	ctx := context.Background()

	u, _, err := svc.Register(ctx, RegisterInput{Name: "A", Email: "a@example.com", Password: "secret123"})
	require.NoError(t, err)

	got, err := svc.GetProfile(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, got.Email)

	_, err = svc.GetProfile(ctx, "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
