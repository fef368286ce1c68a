package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/convenia/convenia-backend/internal/app/models"
	"github.com/convenia/convenia-backend/internal/app/models/dto"
	"github.com/convenia/convenia-backend/internal/pkg/apperrors"
	"github.com/convenia/convenia-backend/internal/pkg/auth"
)

func newTestAuthService(t *testing.T) (*AuthService, *fakeUserRepo, *fakeTokenRepo) {
	t.Helper()
	userRepo := newFakeUserRepo()
	tokenRepo := newFakeTokenRepo()
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "convenia.test",
	})
	return NewAuthService(userRepo, tokenRepo, jwtService), userRepo, tokenRepo
}

func seedUser(t *testing.T, repo *fakeUserRepo, email, password string, role models.RoleType, active bool) *models.User {
	t.Helper()
	hashed, err := auth.HashPassword(password)
	require.NoError(t, err)
	return repo.add(&models.User{
		Email:     email,
		Password:  hashed,
		FirstName: "Marie",
		LastName:  "Curie",
		RoleType:  role,
		IsActive:  active,
	})
}

func TestLoginSuccess(t *testing.T) {
	service, userRepo, _ := newTestAuthService(t)
	user := seedUser(t, userRepo, "marie.curie@convenia.edu", "Secret123", models.RoleTeacher, true)

	tokens, err := service.Login(context.Background(), &dto.LoginRequest{
		Email:    "marie.curie@convenia.edu",
		Password: "Secret123",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.Equal(t, user.ID, tokens.User.ID)
	assert.NotNil(t, user.LastLoginAt)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	service, userRepo, _ := newTestAuthService(t)
	seedUser(t, userRepo, "marie.curie@convenia.edu", "Secret123", models.RoleTeacher, true)
	seedUser(t, userRepo, "inactive@convenia.edu", "Secret123", models.RoleTeacher, false)

	cases := []struct {
		name  string
		email string
		pass  string
	}{
		{"unknown email", "nobody@convenia.edu", "Secret123"},
		{"wrong password", "marie.curie@convenia.edu", "WrongPass1"},
		{"deactivated account", "inactive@convenia.edu", "Secret123"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.Login(context.Background(), &dto.LoginRequest{
				Email:    tc.email,
				Password: tc.pass,
			})
			assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
		})
	}
}

func TestRegisterAlwaysCreatesTeacher(t *testing.T) {
	service, _, _ := newTestAuthService(t)

	user, err := service.Register(context.Background(), &dto.RegisterRequest{
		Email:      "new.teacher@convenia.edu",
		Password:   "Secret123",
		FirstName:  "Niels",
		LastName:   "Bohr",
		Department: "Physics",
	})
	require.NoError(t, err)

	assert.Equal(t, models.RoleTeacher, user.RoleType)
	assert.True(t, user.IsActive)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	service, userRepo, _ := newTestAuthService(t)
	seedUser(t, userRepo, "taken@convenia.edu", "Secret123", models.RoleTeacher, true)

	_, err := service.Register(context.Background(), &dto.RegisterRequest{
		Email:     "Taken@convenia.edu",
		Password:  "Secret123",
		FirstName: "Niels",
		LastName:  "Bohr",
	})
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
}

func TestRefreshTokenRotates(t *testing.T) {
	service, userRepo, tokenRepo := newTestAuthService(t)
	seedUser(t, userRepo, "marie.curie@convenia.edu", "Secret123", models.RoleTeacher, true)

	tokens, err := service.Login(context.Background(), &dto.LoginRequest{
		Email:    "marie.curie@convenia.edu",
		Password: "Secret123",
	})
	require.NoError(t, err)

	refreshed, err := service.RefreshToken(context.Background(), tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, tokens.RefreshToken, refreshed.RefreshToken)

	// The old token is revoked and cannot be used again
	old, err := tokenRepo.FindByToken(context.Background(), tokens.RefreshToken)
	require.NoError(t, err)
	assert.True(t, old.IsRevoked)

	_, err = service.RefreshToken(context.Background(), tokens.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenRevoked)
}

func TestRefreshTokenRejectsExpired(t *testing.T) {
	service, userRepo, tokenRepo := newTestAuthService(t)
	user := seedUser(t, userRepo, "marie.curie@convenia.edu", "Secret123", models.RoleTeacher, true)

	require.NoError(t, tokenRepo.Store(context.Background(), "expired-token", user.ID, time.Now().Add(-time.Hour)))

	_, err := service.RefreshToken(context.Background(), "expired-token")
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestRefreshTokenRejectsUnknown(t *testing.T) {
	service, _, _ := newTestAuthService(t)

	_, err := service.RefreshToken(context.Background(), "never-issued")
	assert.ErrorIs(t, err, apperrors.ErrTokenNotFound)
}

func TestRefreshTokenRejectsDeactivatedUser(t *testing.T) {
	service, userRepo, _ := newTestAuthService(t)
	user := seedUser(t, userRepo, "marie.curie@convenia.edu", "Secret123", models.RoleTeacher, true)

	tokens, err := service.Login(context.Background(), &dto.LoginRequest{
		Email:    "marie.curie@convenia.edu",
		Password: "Secret123",
	})
	require.NoError(t, err)

	user.IsActive = false

	_, err = service.RefreshToken(context.Background(), tokens.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenRevoked)
}

func TestGetUserByEmailIsCaseInsensitive(t *testing.T) {
	service, userRepo, _ := newTestAuthService(t)
	seedUser(t, userRepo, "marie.curie@convenia.edu", "Secret123", models.RoleTeacher, true)

	user, err := service.GetUserByEmail(context.Background(), "Marie.Curie@Convenia.edu")
	require.NoError(t, err)
	assert.Equal(t, "marie.curie@convenia.edu", user.Email)

	_, err = service.GetUserByEmail(context.Background(), "nobody@convenia.edu")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestLogoutRevokesToken(t *testing.T) {
	service, userRepo, tokenRepo := newTestAuthService(t)
	seedUser(t, userRepo, "marie.curie@convenia.edu", "Secret123", models.RoleTeacher, true)

	tokens, err := service.Login(context.Background(), &dto.LoginRequest{
		Email:    "marie.curie@convenia.edu",
		Password: "Secret123",
	})
	require.NoError(t, err)

	require.NoError(t, service.Logout(context.Background(), tokens.RefreshToken))

	stored, err := tokenRepo.FindByToken(context.Background(), tokens.RefreshToken)
	require.NoError(t, err)
	assert.True(t, stored.IsRevoked)

	// Logging out an unknown token is not an error
	assert.NoError(t, service.Logout(context.Background(), "never-issued"))
}
