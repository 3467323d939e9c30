package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setKeys(t *testing.T) {
	t.Setenv("JWT_ACCESS_KEY", "access-secret")
	t.Setenv("JWT_REFRESH_KEY", "refresh-secret")
	t.Setenv("JWT_ACCESS_EXPIRE", "15")
	t.Setenv("JWT_REFRESH_EXPIRE", "60")
}

func TestGenerateTokens_RoundTrip(t *testing.T) {
	setKeys(t)

	tokens, err := GenerateTokens("7", false)
	require.NoError(t, err)

	claims, err := CheckAndExtractTokenMetadata(tokens.Access, "JWT_ACCESS_KEY")
	require.NoError(t, err)
	assert.Equal(t, "7", claims.Id)
	assert.False(t, claims.Otp)

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint(7), id)

	_, err = CheckAndExtractTokenMetadata(tokens.Refresh, "JWT_ACCESS_KEY")
	assert.Error(t, err, "refresh token must not validate with the access key")
}

func TestUserIDFromAccessToken(t *testing.T) {
	setKeys(t)

	full, err := GenerateTokens("3", false)
	require.NoError(t, err)
	id, err := UserIDFromAccessToken(full.Access)
	require.NoError(t, err)
	assert.Equal(t, uint(3), id)

	pending, err := GenerateTokens("3", true)
	require.NoError(t, err)
	_, err = UserIDFromAccessToken(pending.Access)
	assert.Error(t, err)

	_, err = UserIDFromAccessToken("not-a-token")
	assert.Error(t, err)
}

func TestGenerateTokens_MissingKey(t *testing.T) {
	setKeys(t)
	t.Setenv("JWT_ACCESS_KEY", "")

	_, err := GenerateTokens("1", false)
	assert.Error(t, err)
}
