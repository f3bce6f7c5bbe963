package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	passwordHash, err := HashPassword("fitpass")
	require.NoError(t, err)
	assert.NotEmpty(t, passwordHash)
	assert.True(t, CheckPasswordHash("fitpass", passwordHash))
	assert.False(t, CheckPasswordHash("not-fitpass", passwordHash))

	otherHash, err := HashPassword("fitpass")
	require.NoError(t, err)
	// bcrypt salts, so two hashes of the same password differ
	assert.NotEqual(t, passwordHash, otherHash)
	assert.True(t, CheckPasswordHash("fitpass", otherHash))
}
