package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/convenia/convenia-backend/internal/app/models"
	"github.com/convenia/convenia-backend/internal/app/models/dto"
	"github.com/convenia/convenia-backend/internal/pkg/apperrors"
)

// fakeAuthService scripts the auth service behavior per test
type fakeAuthService struct {
	loginFn    func(req *dto.LoginRequest) (*dto.TokenResponse, error)
	registerFn func(req *dto.RegisterRequest) (*dto.UserResponse, error)
	refreshFn  func(token string) (*dto.TokenResponse, error)
	logoutFn   func(token string) error
	byEmailFn  func(email string) (*dto.UserResponse, error)
}

func (f *fakeAuthService) Login(_ context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	return f.loginFn(req)
}

func (f *fakeAuthService) Register(_ context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	return f.registerFn(req)
}

func (f *fakeAuthService) RefreshToken(_ context.Context, token string) (*dto.TokenResponse, error) {
	return f.refreshFn(token)
}

func (f *fakeAuthService) Logout(_ context.Context, token string) error {
	return f.logoutFn(token)
}

func (f *fakeAuthService) GetUserByEmail(_ context.Context, email string) (*dto.UserResponse, error) {
	return f.byEmailFn(email)
}

func newAuthRouter(service *fakeAuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	controller := NewAuthController(service)
	router.POST("/api/auth/login", controller.Login)
	router.POST("/api/auth/register", controller.Register)
	router.POST("/api/auth/refresh", controller.RefreshToken)
	router.GET("/api/auth/user", controller.GetUserByEmail)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestLoginReturnsTokens(t *testing.T) {
	service := &fakeAuthService{
		loginFn: func(req *dto.LoginRequest) (*dto.TokenResponse, error) {
			assert.Equal(t, "marie.curie@convenia.edu", req.Email)
			return &dto.TokenResponse{
				AccessToken:  "access",
				RefreshToken: "refresh",
				ExpiresIn:    3600,
				User:         dto.UserResponse{ID: 7, RoleType: models.RoleTeacher},
			}, nil
		},
	}
	router := newAuthRouter(service)

	recorder := postJSON(t, router, "/api/auth/login", gin.H{
		"email":    "marie.curie@convenia.edu",
		"password": "Secret123",
	})

	require.Equal(t, http.StatusOK, recorder.Code)

	var resp struct {
		Success bool              `json:"success"`
		Data    dto.TokenResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "access", resp.Data.AccessToken)
	assert.Equal(t, int64(7), resp.Data.User.ID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	service := &fakeAuthService{
		loginFn: func(*dto.LoginRequest) (*dto.TokenResponse, error) {
			return nil, apperrors.ErrInvalidCredentials
		},
	}
	router := newAuthRouter(service)

	recorder := postJSON(t, router, "/api/auth/login", gin.H{
		"email":    "marie.curie@convenia.edu",
		"password": "wrong",
	})

	require.Equal(t, http.StatusUnauthorized, recorder.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, dto.ErrorCodeInvalidCredentials, resp.Error.Code)
}

func TestLoginRejectsInvalidPayload(t *testing.T) {
	router := newAuthRouter(&fakeAuthService{})

	recorder := postJSON(t, router, "/api/auth/login", gin.H{
		"email": "not-an-email",
	})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestRegisterReturnsCreated(t *testing.T) {
	service := &fakeAuthService{
		registerFn: func(req *dto.RegisterRequest) (*dto.UserResponse, error) {
			return &dto.UserResponse{ID: 3, Email: req.Email, RoleType: models.RoleTeacher}, nil
		},
	}
	router := newAuthRouter(service)

	recorder := postJSON(t, router, "/api/auth/register", gin.H{
		"email":     "new.teacher@convenia.edu",
		"password":  "Secret123",
		"firstName": "Niels",
		"lastName":  "Bohr",
	})

	assert.Equal(t, http.StatusCreated, recorder.Code)
}

func TestRegisterMapsDuplicateEmailToConflict(t *testing.T) {
	service := &fakeAuthService{
		registerFn: func(*dto.RegisterRequest) (*dto.UserResponse, error) {
			return nil, apperrors.ErrEmailAlreadyExists
		},
	}
	router := newAuthRouter(service)

	recorder := postJSON(t, router, "/api/auth/register", gin.H{
		"email":     "taken@convenia.edu",
		"password":  "Secret123",
		"firstName": "Niels",
		"lastName":  "Bohr",
	})

	assert.Equal(t, http.StatusConflict, recorder.Code)
}

func TestGetUserByEmail(t *testing.T) {
	service := &fakeAuthService{
		byEmailFn: func(email string) (*dto.UserResponse, error) {
			assert.Equal(t, "marie.curie@convenia.edu", email)
			return &dto.UserResponse{ID: 7, Email: email}, nil
		},
	}
	router := newAuthRouter(service)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/user?email=marie.curie@convenia.edu", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "marie.curie@convenia.edu")
}

func TestGetUserByEmailRequiresParam(t *testing.T) {
	router := newAuthRouter(&fakeAuthService{})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/user", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestGetUserByEmailMapsNotFound(t *testing.T) {
	service := &fakeAuthService{
		byEmailFn: func(string) (*dto.UserResponse, error) {
			return nil, apperrors.ErrUserNotFound
		},
	}
	router := newAuthRouter(service)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/user?email=nobody@convenia.edu", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestRefreshMapsRevokedTokenToUnauthorized(t *testing.T) {
	service := &fakeAuthService{
		refreshFn: func(string) (*dto.TokenResponse, error) {
			return nil, apperrors.ErrTokenRevoked
		},
	}
	router := newAuthRouter(service)

	recorder := postJSON(t, router, "/api/auth/refresh", gin.H{
		"refreshToken": "revoked-token",
	})

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}
