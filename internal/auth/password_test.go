package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	hash, salt, err := HashPassword("admin123")
	require.NoError(t, err)
	assert.Len(t, salt, 32)
	assert.Len(t, hash, 64)

	assert.True(t, VerifyPassword(hash, salt, "admin123"))
	assert.False(t, VerifyPassword(hash, salt, "admin124"))
	assert.False(t, VerifyPassword(hash, salt, ""))
}

func TestSaltIsUnique(t *testing.T) {
	hash1, salt1, err := HashPassword("same password")
	require.NoError(t, err)
	hash2, salt2, err := HashPassword("same password")
	require.NoError(t, err)

	assert.NotEqual(t, salt1, salt2)
	assert.NotEqual(t, hash1, hash2)
}

func TestVerifyRejectsMalformedMaterial(t *testing.T) {
	assert.False(t, VerifyPassword("not hex", "also not hex", "whatever"))
}
