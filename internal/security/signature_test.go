package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateBodySignature(t *testing.T) {
	secret := "app-secret"
	body := []byte(`{"object":"page","entry":[]}`)

	t.Run("accepts the signature it computes", func(t *testing.T) {
		presented := ComputeBodySignature(secret, body)
		assert.True(t, strings.HasPrefix(presented, "sha256="))
		assert.True(t, ValidateBodySignature(secret, presented, body))
	})

	t.Run("rejects wrong secret", func(t *testing.T) {
		presented := ComputeBodySignature("other-secret", body)
		assert.False(t, ValidateBodySignature(secret, presented, body))
	})

	t.Run("rejects altered body", func(t *testing.T) {
		presented := ComputeBodySignature(secret, body)
		assert.False(t, ValidateBodySignature(secret, presented, []byte(`{"object":"page"}`)))
	})

	t.Run("rejects missing prefix", func(t *testing.T) {
		presented := strings.TrimPrefix(ComputeBodySignature(secret, body), "sha256=")
		assert.False(t, ValidateBodySignature(secret, presented, body))
	})
}

func TestTokensMatch(t *testing.T) {
	assert.True(t, TokensMatch("hunter2", "hunter2"))
	assert.False(t, TokensMatch("hunter2", "hunter3"))
	assert.False(t, TokensMatch("", "hunter2"))
}
