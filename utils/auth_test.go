package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct-horse")
	require.NoError(t, err)
	require.NotEqual(t, "correct-horse", hash)

	assert.True(t, CheckPassword(hash, "correct-horse"))
	assert.False(t, CheckPassword(hash, "wrong-password"))
}

func TestCheckPasswordArgumentOrder(t *testing.T) {
	hash, err := HashPassword("correct-horse")
	require.NoError(t, err)

	// The hash goes first. Swapping the arguments treats the plaintext
	// as the hash and rejects every login, even with correct credentials.
	assert.True(t, CheckPassword(hash, "correct-horse"))
	assert.False(t, CheckPassword("correct-horse", hash))
}
