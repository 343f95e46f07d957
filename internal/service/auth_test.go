package service

import (
	"context"
	"testing"

	"mamba-store/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) AuthService {
	t.Helper()
	return NewAuthService(repository.NewUserRepository(newTestDB(t)), "test-secret")
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Admin@X.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "admin@x.com", user.Email)
	assert.NotEqual(t, "hunter22", user.Password)

	token, err := svc.Login(ctx, "admin@x.com", "hunter22")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	email, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin@x.com", email)
}

func TestRegisterValidation(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "bad-email", "hunter22")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Register(ctx, "a@x.com", "short")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "a@x.com", "hunter22")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "a@x.com", "different")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginFailures(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "a@x.com", "hunter22")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "a@x.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@x.com", "hunter22")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.VerifyToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// token minted under a different secret must not verify here
	other := NewAuthService(repository.NewUserRepository(newTestDB(t)), "other-secret")
	_, err = other.Register(ctx, "a@x.com", "hunter22")
	require.NoError(t, err)
	token, err := other.Login(ctx, "a@x.com", "hunter22")
	require.NoError(t, err)

	_, err = svc.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
