package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2-but-longer")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2-but-longer", hash)

	assert.True(t, CheckPassword(hash, "hunter2-but-longer"))
	assert.False(t, CheckPassword(hash, "wrong password"))
	assert.False(t, CheckPassword("not even a hash", "hunter2-but-longer"))
}

func TestSessions_RoundTrip(t *testing.T) {
	sessions := NewSessions("test-secret", time.Hour)

	token, err := sessions.Issue("user-123", time.Now())
	require.NoError(t, err)

	userID, err := sessions.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
}

func TestSessions_Expired(t *testing.T) {
	sessions := NewSessions("test-secret", time.Hour)

	token, err := sessions.Issue("user-123", time.Now().Add(-2*time.Hour))
	require.NoError(t, err)

	_, err = sessions.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessions_WrongSecret(t *testing.T) {
	minted := NewSessions("secret-a", time.Hour)
	verifier := NewSessions("secret-b", time.Hour)

	token, err := minted.Issue("user-123", time.Now())
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSessions_Garbage(t *testing.T) {
	sessions := NewSessions("test-secret", time.Hour)

	for _, tok := range []string{"", "garbage", "a.b.c"} {
		_, err := sessions.Verify(tok)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", tok)
	}
}
