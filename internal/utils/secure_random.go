package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

// IntegrationKeyPrefix marks keys issued by the engine.
const IntegrationKeyPrefix = "gde_"

// GenerateSecureRandomString returns lengthInBytes random bytes, hex encoded.
func GenerateSecureRandomString(lengthInBytes int) (string, error) {
	if lengthInBytes <= 0 {
		return "", fmt.Errorf("lengthInBytes must be positive")
	}
	b := make([]byte, lengthInBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// NewIntegrationKey builds a gde_<tokenID>_<secret> key with a fresh secret.
// The caller stores only a hash of the returned secret.
func NewIntegrationKey(tokenID string, secretBytes int) (key, secret string, err error) {
	if tokenID == "" || strings.Contains(tokenID, "_") {
		return "", "", fmt.Errorf("invalid token id %q", tokenID)
	}
	secret, err = GenerateSecureRandomString(secretBytes)
	if err != nil {
		return "", "", err
	}
	return IntegrationKeyPrefix + tokenID + "_" + secret, secret, nil
}

// SplitIntegrationKey returns the token id and secret of a presented key.
func SplitIntegrationKey(raw string) (tokenID, secret string, ok bool) {
	rest, ok := strings.CutPrefix(raw, IntegrationKeyPrefix)
	if !ok {
		return "", "", false
	}
	tokenID, secret, ok = strings.Cut(rest, "_")
	if !ok || tokenID == "" || secret == "" {
		return "", "", false
	}
	return tokenID, secret, true
}
