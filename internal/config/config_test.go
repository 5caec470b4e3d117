package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad(t *testing.T) {
	t.Run("fails without an access token secret", func(t *testing.T) {
		chdir(t, t.TempDir())

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "accesstokensecret")
	})

	t.Run("applies defaults around the config file", func(t *testing.T) {
		dir := t.TempDir()
		content := `
environment: production
auth:
  accesstokensecret: file-secret
webhook:
  verifytoken: shared-token
`
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o600))
		chdir(t, dir)

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "production", cfg.Environment)
		assert.False(t, cfg.IsDevelopment())
		assert.Equal(t, "file-secret", cfg.Auth.AccessTokenSecret)
		assert.Equal(t, "shared-token", cfg.Webhook.VerifyToken)

		assert.Equal(t, 3000, cfg.HTTP.Port)
		assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTokenTTL)
		assert.Equal(t, 720*time.Hour, cfg.Auth.RefreshTokenTTL)
		assert.Equal(t, "webhooks:events", cfg.Webhook.Stream)
		assert.Equal(t, "https://graph.facebook.com/v23.0", cfg.Graph.BaseURL)
		assert.False(t, cfg.Archive.Enabled)
	})

	t.Run("environment variables win over the file", func(t *testing.T) {
		dir := t.TempDir()
		content := `
auth:
  accesstokensecret: file-secret
`
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o600))
		chdir(t, dir)
		t.Setenv("METARELAY_AUTH_ACCESSTOKENSECRET", "env-secret")
		t.Setenv("METARELAY_HTTP_PORT", "8080")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "env-secret", cfg.Auth.AccessTokenSecret)
		assert.Equal(t, 8080, cfg.HTTP.Port)
	})
}
