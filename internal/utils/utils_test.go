package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecretHash(t *testing.T) {
	hash, err := HashSecret("s3cret")
	require.NoError(t, err)
	assert.True(t, CheckSecretHash("s3cret", hash))
	assert.False(t, CheckSecretHash("other", hash))
}

func TestGenerateSecureRandomString(t *testing.T) {
	s, err := GenerateSecureRandomString(16)
	require.NoError(t, err)
	assert.Len(t, s, 32)

	_, err = GenerateSecureRandomString(0)
	assert.Error(t, err)
}

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT("user-1", "secret", time.Hour, "gym")
	require.NoError(t, err)

	claims, err := ParseAndValidateJWT(token, "secret", "gym")
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)

	_, err = ParseAndValidateJWT(token, "wrong", "gym")
	assert.Error(t, err)

	_, err = ParseAndValidateJWT(token, "secret", "other-issuer")
	assert.Error(t, err)

	expired, err := GenerateJWT("user-1", "secret", -time.Minute, "gym")
	require.NoError(t, err)
	_, err = ParseAndValidateJWT(expired, "secret", "")
	assert.Error(t, err)
}

func TestIntegrationKey(t *testing.T) {
	key, secret, err := NewIntegrationKey("tok-1", 8)
	require.NoError(t, err)
	assert.Equal(t, "gde_tok-1_"+secret, key)
	assert.Len(t, secret, 16)

	tokenID, gotSecret, ok := SplitIntegrationKey(key)
	require.True(t, ok)
	assert.Equal(t, "tok-1", tokenID)
	assert.Equal(t, secret, gotSecret)

	for _, raw := range []string{"", "tok-1_abc", "gde_", "gde_tok-1", "gde__abc", "gde_tok-1_"} {
		_, _, ok := SplitIntegrationKey(raw)
		assert.False(t, ok, raw)
	}

	_, _, err = NewIntegrationKey("bad_id", 8)
	assert.Error(t, err)
}
