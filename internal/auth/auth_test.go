package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestSignVerify(t *testing.T) {
	s := NewSigner(testSecret, "", 7)
	assert.Equal(t, DefaultTokenName, s.TokenName())

	token, err := s.Sign("alice")
	require.NoError(t, err)

	user, err := s.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", user)
}

func TestVerifyExpired(t *testing.T) {
	s := NewSigner(testSecret, "tok", 1)
	start := time.Now()
	s.now = func() time.Time { return start }

	token, err := s.Sign("alice")
	require.NoError(t, err)

	s.now = func() time.Time { return start.Add(25 * time.Hour) }
	_, err = s.Verify(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestVerifyRejects(t *testing.T) {
	s := NewSigner(testSecret, "tok", 7)
	token, err := s.Sign("alice")
	require.NoError(t, err)

	other := NewSigner("another-secret-value-000", "tok", 7)
	_, err = other.Verify(token)
	assert.Error(t, err)

	renamed := NewSigner(testSecret, "other_tok", 7)
	_, err = renamed.Verify(token)
	assert.ErrorIs(t, err, ErrTokenName)

	_, err = s.Verify("")
	assert.Error(t, err)
	_, err = s.Verify("not.a.token")
	assert.Error(t, err)
}

func TestPasswords(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "s3cret"))
	assert.False(t, CheckPassword(hash, "wrong"))

	_, err = HashPassword("")
	assert.Error(t, err)

	users := Users{"admin": hash}
	assert.True(t, users.Verify("admin", "s3cret"))
	assert.False(t, users.Verify("admin", "nope"))
	assert.False(t, users.Verify("ghost", "s3cret"))
}
