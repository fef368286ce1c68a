package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/convenia/convenia-backend/internal/app/models"
	"github.com/convenia/convenia-backend/internal/pkg/auth"
)

func newJWTService() *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "convenia.test",
	})
}

func newProtectedRouter(jwtService *auth.JWTService, roles ...models.RoleType) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	group := router.Group("/protected")
	group.Use(JWTAuth(jwtService))
	if len(roles) > 0 {
		group.Use(RoleRequired(roles...))
	}
	group.GET("", func(c *gin.Context) {
		principal, ok := GetPrincipal(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no principal"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"userId": principal.UserID})
	})
	return router
}

func tokenFor(t *testing.T, jwtService *auth.JWTService, role models.RoleType) string {
	t.Helper()
	accessToken, _, _, _, err := jwtService.GenerateTokenPair(&models.User{
		ID:       7,
		Email:    "user@convenia.edu",
		RoleType: role,
	})
	require.NoError(t, err)
	return accessToken
}

func get(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestJWTAuthAcceptsValidToken(t *testing.T) {
	jwtService := newJWTService()
	router := newProtectedRouter(jwtService)

	recorder := get(router, "Bearer "+tokenFor(t, jwtService, models.RoleTeacher))

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"userId":7`)
}

func TestJWTAuthRejectsMissingToken(t *testing.T) {
	router := newProtectedRouter(newJWTService())

	recorder := get(router, "")
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestJWTAuthRejectsGarbageToken(t *testing.T) {
	router := newProtectedRouter(newJWTService())

	recorder := get(router, "Bearer not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestJWTAuthRejectsTokenFromOtherSecret(t *testing.T) {
	other := auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "different-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: 24 * time.Hour,
	})
	router := newProtectedRouter(newJWTService())

	recorder := get(router, "Bearer "+tokenFor(t, other, models.RoleTeacher))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestRoleRequiredBlocksWrongRole(t *testing.T) {
	jwtService := newJWTService()
	router := newProtectedRouter(jwtService, models.RoleAdmin)

	recorder := get(router, "Bearer "+tokenFor(t, jwtService, models.RoleTeacher))
	assert.Equal(t, http.StatusForbidden, recorder.Code)
}

func TestRoleRequiredAllowsMatchingRole(t *testing.T) {
	jwtService := newJWTService()
	router := newProtectedRouter(jwtService, models.RoleAdmin)

	recorder := get(router, "Bearer "+tokenFor(t, jwtService, models.RoleAdmin))
	assert.Equal(t, http.StatusOK, recorder.Code)
}
