package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	appauth "github.com/convenia/convenia-backend/internal/app/auth"
	"github.com/convenia/convenia-backend/internal/app/models"
	"github.com/convenia/convenia-backend/internal/app/models/dto"
	"github.com/convenia/convenia-backend/internal/pkg/auth"
)

// Context keys set by JWTAuth
const (
	ContextUserID    = "userID"
	ContextUserEmail = "userEmail"
	ContextUserRole  = "userRole"
)

// JWTAuth validates the Authorization header and loads the caller identity
// into the request context. Requests without a valid access token get 401.
func JWTAuth(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := auth.ExtractBearerToken(c.GetHeader("Authorization"))
		if err != nil || tokenString == "" {
			abortUnauthorized(c, dto.ErrorCodeTokenNotFound, "Authorization token is required")
			return
		}

		claims, err := jwtService.ValidateAndExtractClaims(tokenString)
		if err != nil {
			if errors.Is(err, auth.ErrExpiredToken) {
				abortUnauthorized(c, dto.ErrorCodeExpiredToken, "Token has expired")
				return
			}
			abortUnauthorized(c, dto.ErrorCodeInvalidToken, "Token is not valid")
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUserEmail, claims.Email)
		c.Set(ContextUserRole, claims.RoleType)
		c.Next()
	}
}

// RoleRequired allows only callers holding one of the given roles. It must
// run after JWTAuth.
func RoleRequired(roles ...models.RoleType) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleValue, exists := c.Get(ContextUserRole)
		if !exists {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "Authentication required")
			return
		}

		callerRole := models.RoleType(roleValue.(string))
		for _, role := range roles {
			if callerRole == role {
				c.Next()
				return
			}
		}

		detail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "You do not have permission to perform this action")
		c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(detail))
	}
}

// GetPrincipal rebuilds the caller identity from the request context
func GetPrincipal(c *gin.Context) (appauth.Principal, bool) {
	userID, ok := c.Get(ContextUserID)
	if !ok {
		return appauth.Principal{}, false
	}
	email, _ := c.Get(ContextUserEmail)
	role, _ := c.Get(ContextUserRole)

	return appauth.Principal{
		UserID: userID.(int64),
		Email:  email.(string),
		Role:   models.RoleType(role.(string)),
	}, true
}

func abortUnauthorized(c *gin.Context, code dto.ErrorCode, message string) {
	detail := dto.NewErrorDetail(code, message)
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(detail))
}
