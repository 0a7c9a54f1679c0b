// Package auth guards mutating operations with a single shared admin secret.
package auth

import (
	"crypto/sha256"
	"crypto/subtle"
)

// DefaultAdminPassword is used when no secret is configured. It is publicly
// known; the server warns at startup while it is active.
const DefaultAdminPassword = "admin123"

// Gate compares candidates against the configured admin secret.
type Gate struct {
	digest       [sha256.Size]byte
	usingDefault bool
}

// NewGate returns a gate for secret. An empty secret selects DefaultAdminPassword.
func NewGate(secret string) *Gate {
	if secret == "" {
		secret = DefaultAdminPassword
	}
	return &Gate{
		digest:       sha256.Sum256([]byte(secret)),
		usingDefault: secret == DefaultAdminPassword,
	}
}

// Verify reports whether candidate equals the secret. Both sides are hashed
// first so the comparison time does not depend on the candidate's length.
func (g *Gate) Verify(candidate string) bool {
	if g == nil || candidate == "" {
		return false
	}
	sum := sha256.Sum256([]byte(candidate))
	return subtle.ConstantTimeCompare(sum[:], g.digest[:]) == 1
}

// UsingDefault reports whether the gate accepts DefaultAdminPassword.
func (g *Gate) UsingDefault() bool {
	return g != nil && g.usingDefault
}
