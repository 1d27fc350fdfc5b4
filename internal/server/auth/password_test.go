package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, []byte("correct horse"), hash)

	ok, err := CheckPassword(hash, "correct horse")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = CheckPassword(hash, "battery staple")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPassword_TooShort(t *testing.T) {
	_, err := HashPassword("short")
	assert.ErrorIs(t, err, ErrWeakPassword)
}

func TestCheckPassword_MalformedHash(t *testing.T) {
	_, err := CheckPassword([]byte("nope"), "whatever1")
	assert.Error(t, err)
}
