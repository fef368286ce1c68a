package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/convenia/convenia-backend/internal/app/models"
)

func newTestJWTService(accessExp time.Duration) *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  accessExp,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "convenia.test",
	})
}

func testUser() *models.User {
	return &models.User{
		ID:       7,
		Email:    "marie.curie@convenia.edu",
		RoleType: models.RoleTeacher,
	}
}

func TestGenerateAndValidateTokenPair(t *testing.T) {
	service := newTestJWTService(time.Hour)

	accessToken, refreshToken, expiresIn, refreshExpiresIn, err := service.GenerateTokenPair(testUser())
	require.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)
	assert.Equal(t, 3600, expiresIn)
	assert.Equal(t, 86400, refreshExpiresIn)

	claims, err := service.ValidateToken(accessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "marie.curie@convenia.edu", claims.Email)
	assert.Equal(t, "TEACHER", claims.RoleType)
	assert.Equal(t, "convenia.test", claims.Issuer)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	service := newTestJWTService(-time.Minute)

	accessToken, _, _, _, err := service.GenerateTokenPair(testUser())
	require.NoError(t, err)

	_, err = service.ValidateToken(accessToken)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	accessToken, _, _, _, err := newTestJWTService(time.Hour).GenerateTokenPair(testUser())
	require.NoError(t, err)

	other := NewJWTService(JWTConfig{
		SecretKey:       "different-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: 24 * time.Hour,
	})

	_, err = other.ValidateToken(accessToken)
	assert.Error(t, err)
}

func TestRefreshTokensAreUnique(t *testing.T) {
	service := newTestJWTService(time.Hour)

	_, first, _, _, err := service.GenerateTokenPair(testUser())
	require.NoError(t, err)
	_, second, _, _, err := service.GenerateTokenPair(testUser())
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestExtractBearerToken(t *testing.T) {
	token, err := ExtractBearerToken("Bearer abc123")
	require.NoError(t, err)
	assert.Equal(t, "abc123", token)

	token, err = ExtractBearerToken("abc123")
	require.NoError(t, err)
	assert.Equal(t, "abc123", token)

	_, err = ExtractBearerToken("")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestValidateAndExtractClaimsRejectsEmpty(t *testing.T) {
	service := newTestJWTService(time.Hour)

	_, err := service.ValidateAndExtractClaims("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
