package auth

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBcryptHasher(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	salt, err := hasher.GenerateSalt()
	require.NoError(t, err)
	assert.Len(t, salt, 64)

	otherSalt, err := hasher.GenerateSalt()
	require.NoError(t, err)
	assert.NotEqual(t, salt, otherSalt)

	hash, err := hasher.Hash(salt, "correct horse battery staple")
	require.NoError(t, err)
	require.NoError(t, hasher.Compare(hash, salt, "correct horse battery staple"))
	require.Error(t, hasher.Compare(hash, salt, "wrong password"))
	require.Error(t, hasher.Compare(hash, otherSalt, "correct horse battery staple"))
}

func TestBcryptHasher_LongPassword(t *testing.T) {
	// The pre-hash keeps bcrypt's 72-byte input limit out of play, so
	// passwords longer than the limit still round-trip.
	hasher := NewBcryptHasher(bcrypt.MinCost)
	long := strings.Repeat("a", 200)

	salt, err := hasher.GenerateSalt()
	require.NoError(t, err)
	hash, err := hasher.Hash(salt, long)
	require.NoError(t, err)
	require.NoError(t, hasher.Compare(hash, salt, long))
}
