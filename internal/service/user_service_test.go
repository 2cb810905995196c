package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"pocket-notes/internal/domain"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	user, err := env.users.Register(ctx, "  alice  ", "Alice@Example.COM ", "hunter22")
	require.NoError(t, err)
	require.Equal(t, "alice", user.Username)
	require.Equal(t, "alice@example.com", user.Email)
	require.Empty(t, user.PasswordHash, "hash must never leave the service")

	stored, err := env.userRepo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotEmpty(t, stored.PasswordHash)
	require.NotEqual(t, "hunter22", stored.PasswordHash, "plaintext is never persisted")

	got, err := env.users.Authenticate(ctx, "alice", "hunter22")
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)

	// email works as identifier, any case
	got, err = env.users.Authenticate(ctx, "ALICE@example.com", "hunter22")
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)
}

func TestAuthenticateUniformFailure(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	env.registerUser(t, "bob")

	_, err := env.users.Authenticate(ctx, "bob", "not-the-password")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = env.users.Authenticate(ctx, "nobody", "whatever")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.users.Register(ctx, "carol", "carol@example.com", "password1")
	require.NoError(t, err)

	_, err = env.users.Register(ctx, "carol", "other@example.com", "password1")
	require.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestRegisterDuplicateEmailAnyCase(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.users.Register(ctx, "dave", "dave@example.com", "password1")
	require.NoError(t, err)

	_, err = env.users.Register(ctx, "dave2", "DAVE@EXAMPLE.COM", "password1")
	require.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.users.Register(ctx, "", "x@example.com", "password1")
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = env.users.Register(ctx, "eve", "not-an-email", "password1")
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = env.users.Register(ctx, "eve", "eve@example.com", "short")
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestGetByIDSanitized(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	id := env.registerUser(t, "frank")

	user, err := env.users.GetByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "frank", user.Username)
	require.Empty(t, user.PasswordHash)

	_, err = env.users.GetByID(ctx, 9999)
	require.ErrorIs(t, err, domain.ErrNotFound)
}
