package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateStateToken returns a random token used as the OIDC state parameter
// to bind the login redirect to the session that initiated it.
func GenerateStateToken() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}
