package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserJSONHidesSecrets(t *testing.T) {
	user := User{
		ID:           "user-1",
		FullName:     "Alice",
		Email:        "a@example.com",
		PasswordHash: "$2a$10$secret",
		Plan:         PlanFree,
		VerifyToken:  "verify-token",
	}

	encoded, err := json.Marshal(user)
	require.NoError(t, err)

	assert.NotContains(t, string(encoded), "secret")
	assert.NotContains(t, string(encoded), "verify-token")
	assert.Contains(t, string(encoded), `"email":"a@example.com"`)
}

func TestSessionExpired(t *testing.T) {
	now := time.Now()
	session := Session{ExpiresAt: now}

	assert.False(t, session.Expired(now), "exact expiry instant is still valid")
	assert.False(t, session.Expired(now.Add(-time.Second)))
	assert.True(t, session.Expired(now.Add(time.Second)))
}
