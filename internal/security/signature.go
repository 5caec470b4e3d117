package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"
)

// SignatureHeader carries the provider's HMAC over the raw POST body.
const SignatureHeader = "X-Hub-Signature-256"

// ComputeBodySignature returns the header value Meta would send for the
// given body: "sha256=" followed by the hex HMAC-SHA256 under the app secret.
func ComputeBodySignature(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

// ValidateBodySignature checks a presented signature header against the raw
// body in constant time.
func ValidateBodySignature(secret string, presented string, body []byte) bool {
	if !strings.HasPrefix(presented, "sha256=") {
		return false
	}
	expected := ComputeBodySignature(secret, body)
	return hmac.Equal([]byte(presented), []byte(expected))
}

// TokensMatch compares the presented webhook verify token against the
// configured secret. Constant time as a hardening measure.
func TokensMatch(presented, secret string) bool {
	return subtle.ConstantTimeCompare([]byte(presented), []byte(secret)) == 1
}
