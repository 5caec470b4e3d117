package security

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost balances brute-force resistance against login latency.
const bcryptCost = 10

// ErrCorruptHash marks a stored digest that bcrypt cannot parse. Callers
// must treat it as an authentication failure, not a crash.
var ErrCorruptHash = errors.New("corrupt password hash")

func HashPassword(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(digest), nil
}

// VerifyPassword returns (false, nil) on a clean mismatch and an
// ErrCorruptHash-wrapped error when the digest itself is malformed.
func VerifyPassword(password, digest string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, fmt.Errorf("%w: %v", ErrCorruptHash, err)
}
