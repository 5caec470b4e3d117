package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	err := New(KindConflict, "User already exists.")
	assert.Equal(t, KindConflict, KindOf(err))

	wrapped := fmt.Errorf("handler: %w", err)
	assert.Equal(t, KindConflict, KindOf(wrapped))

	assert.Equal(t, KindUnexpected, KindOf(errors.New("plain")))
	assert.Equal(t, KindUnexpected, KindOf(nil))
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "Invalid credentials.", Message(New(KindInvalidCredentials, "Invalid credentials.")))

	// Unclassified errors must not leak internals.
	assert.Equal(t, "Internal server error.", Message(errors.New("pq: connection refused")))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindConflict, http.StatusBadRequest},
		{KindInvalidCredentials, http.StatusUnauthorized},
		{KindInvalidRefreshToken, http.StatusUnauthorized},
		{KindRefreshExpired, http.StatusUnauthorized},
		{KindAuthRequired, http.StatusUnauthorized},
		{KindTokenExpired, http.StatusUnauthorized},
		{KindTokenMalformed, http.StatusUnauthorized},
		{KindCorruptCredential, http.StatusInternalServerError},
		{KindStoreUnavailable, http.StatusInternalServerError},
		{KindUnexpected, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.HTTPStatus())
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("unique violation")
	err := Wrap(KindConflict, "User already exists.", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "conflict")
}
