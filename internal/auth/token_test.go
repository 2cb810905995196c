package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"pocket-notes/internal/domain"
)

func TestIssueAndVerify(t *testing.T) {
	t.Parallel()

	m := NewTokenManager([]byte("super-secret"), time.Hour)

	tok, err := m.Issue(42)
	require.NoError(t, err)

	userID, err := m.Verify(tok)
	require.NoError(t, err)
	require.Equal(t, int64(42), userID)
}

func TestVerifyExpired(t *testing.T) {
	t.Parallel()

	m := NewTokenManager([]byte("secret"), time.Hour)
	tok, err := m.Issue(1)
	require.NoError(t, err)

	// move the verifier's clock past the validity window
	m.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	_, err = m.Verify(tok)
	require.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestVerifyWrongSecret(t *testing.T) {
	t.Parallel()

	issuer := NewTokenManager([]byte("right-secret"), time.Hour)
	tok, err := issuer.Issue(7)
	require.NoError(t, err)

	verifier := NewTokenManager([]byte("wrong-secret"), time.Hour)
	_, err = verifier.Verify(tok)
	require.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestVerifyMalformed(t *testing.T) {
	t.Parallel()

	m := NewTokenManager([]byte("k"), time.Hour)
	_, err := m.Verify("not.a.jwt")
	require.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestVerifyTampered(t *testing.T) {
	t.Parallel()

	m := NewTokenManager([]byte("shared"), time.Hour)
	tok, err := m.Issue(3)
	require.NoError(t, err)

	_, err = m.Verify(tok + "x")
	require.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestDefaultTTLApplied(t *testing.T) {
	t.Parallel()

	m := NewTokenManager([]byte("s"), 0)
	require.Equal(t, DefaultTTL, m.ttl)
}
