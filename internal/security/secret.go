package security

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// SecretChecker verifies the shared admin secret. The configured value may
// be either a bcrypt hash (prefixed "$2") or a plaintext secret; plaintext
// comparison is constant-time.
type SecretChecker struct {
	configured string
	hashed     bool
}

func NewSecretChecker(configured string) *SecretChecker {
	return &SecretChecker{
		configured: configured,
		hashed:     strings.HasPrefix(configured, "$2"),
	}
}

// Check reports whether the presented secret matches the configured one
func (c *SecretChecker) Check(presented string) bool {
	if presented == "" || c.configured == "" {
		return false
	}
	if c.hashed {
		return bcrypt.CompareHashAndPassword([]byte(c.configured), []byte(presented)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(c.configured), []byte(presented)) == 1
}
