package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	t.Run("produces a bcrypt digest", func(t *testing.T) {
		digest, err := HashPassword("pw1")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(digest, "$2"))
		assert.NotContains(t, digest, "pw1")
	})

	t.Run("same password hashes differently each time", func(t *testing.T) {
		first, err := HashPassword("samepassword")
		require.NoError(t, err)
		second, err := HashPassword("samepassword")
		require.NoError(t, err)
		assert.NotEqual(t, first, second)
	})
}

func TestVerifyPassword(t *testing.T) {
	digest, err := HashPassword("correct horse")
	require.NoError(t, err)

	t.Run("matches the original plaintext", func(t *testing.T) {
		ok, err := VerifyPassword("correct horse", digest)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("rejects a different plaintext without error", func(t *testing.T) {
		ok, err := VerifyPassword("wrong horse", digest)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("malformed digest is a corrupt-hash error, not a mismatch", func(t *testing.T) {
		ok, err := VerifyPassword("anything", "not-a-bcrypt-digest")
		assert.False(t, ok)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrCorruptHash)
	})

	t.Run("empty digest is corrupt", func(t *testing.T) {
		_, err := VerifyPassword("anything", "")
		assert.ErrorIs(t, err, ErrCorruptHash)
	})
}
