package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple", bcrypt.MinCost)
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	assert.True(t, CheckPassword("correct horse battery staple", hash))
	assert.False(t, CheckPassword("wrong password", hash))
}

func TestHashNeverEqualsPlaintext(t *testing.T) {
	hash, err := HashPassword("secret-password", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "secret-password", hash)
}

func TestInvalidCostFallsBack(t *testing.T) {
	hash, err := HashPassword("pw", 99)
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, DefaultBcryptCost, cost)
}

func TestCheckPasswordRejectsBadHash(t *testing.T) {
	assert.False(t, CheckPassword("pw", "not-a-bcrypt-hash"))
}
