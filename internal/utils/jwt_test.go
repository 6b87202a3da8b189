package utils

import (
	"testing"

	"coursa/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseTokens(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	claims := &models.UserClaims{
		UserID:       7,
		Email:        "jo@example.com",
		Role:         models.RoleInstructor,
		Permissions:  models.GetDefaultPermissions(models.RoleInstructor),
		TokenVersion: 2,
	}

	access, refresh, err := GenerateTokens(claims)
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)

	_, parsed, err := ParseToken(access)
	require.NoError(t, err)
	assert.Equal(t, uint(7), parsed.UserID)
	assert.Equal(t, models.RoleInstructor, parsed.Role)
	assert.Equal(t, 2, parsed.TokenVersion)
	assert.Equal(t, "coursa-api", parsed.Issuer)

	_, parsedRefresh, err := ParseToken(refresh)
	require.NoError(t, err)
	assert.Empty(t, parsedRefresh.Permissions)
}

func TestGenerateTokensIssuerFromEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_ISSUER", "coursa-staging")

	access, _, err := GenerateTokens(&models.UserClaims{UserID: 1})
	require.NoError(t, err)

	_, parsed, err := ParseToken(access)
	require.NoError(t, err)
	assert.Equal(t, "coursa-staging", parsed.Issuer)
}

func TestGenerateTokensRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, _, err := GenerateTokens(&models.UserClaims{UserID: 1})
	assert.Error(t, err)
}
