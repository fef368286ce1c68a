package services

import (
	"context"
	"errors"
	"strings"

	"github.com/convenia/convenia-backend/internal/app/models"
	"github.com/convenia/convenia-backend/internal/app/models/dto"
	"github.com/convenia/convenia-backend/internal/app/repositories"
	"github.com/convenia/convenia-backend/internal/pkg/apperrors"
	"github.com/convenia/convenia-backend/internal/pkg/auth"
	"github.com/convenia/convenia-backend/internal/pkg/logger"
)

// IAuthService defines authentication operations
type IAuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	GetUserByEmail(ctx context.Context, email string) (*dto.UserResponse, error)
}

// AuthService implements IAuthService
type AuthService struct {
	userRepo   repositories.IUserRepository
	tokenRepo  repositories.ITokenRepository
	jwtService *auth.JWTService
}

// NewAuthService creates an authentication service
func NewAuthService(userRepo repositories.IUserRepository, tokenRepo repositories.ITokenRepository, jwtService *auth.JWTService) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		tokenRepo:  tokenRepo,
		jwtService: jwtService,
	}
}

// Login verifies credentials and issues a token pair. Unknown emails, wrong
// passwords and deactivated accounts all produce the same error so callers
// cannot probe which accounts exist.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if !user.IsActive {
		logger.Warn().Int64("userId", user.ID).Msg("Login attempt on deactivated account")
		return nil, apperrors.ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		// Login still succeeds; the timestamp is informational
		logger.Error().Err(err).Int64("userId", user.ID).Msg("Failed to update last login")
	}

	return tokens, nil
}

// Register creates a new teacher account. The role is fixed server-side;
// admin accounts are only created through the admin user management API.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:      strings.TrimSpace(req.Email),
		Password:   hashed,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		RoleType:   models.RoleTeacher,
		Department: req.Department,
		IsActive:   true,
	}

	id, err := s.userRepo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	created, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	logger.Info().Int64("userId", id).Str("email", created.Email).Msg("User registered")
	resp := dto.NewUserResponse(created)
	return &resp, nil
}

// RefreshToken rotates a refresh token: the presented token is revoked and a
// new pair is issued. Expired, revoked, or unknown tokens are rejected.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	stored, err := s.tokenRepo.FindByToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	if stored.IsRevoked {
		return nil, apperrors.ErrTokenRevoked
	}
	if stored.IsExpired() {
		return nil, apperrors.ErrTokenExpired
	}

	user, err := s.userRepo.FindByID(ctx, stored.UserID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.ErrTokenRevoked
	}

	if err := s.tokenRepo.Revoke(ctx, refreshToken); err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, user)
}

// Logout revokes the presented refresh token. The access token simply runs
// out; it is short-lived and not tracked server-side.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	err := s.tokenRepo.Revoke(ctx, refreshToken)
	if err != nil && !errors.Is(err, apperrors.ErrTokenNotFound) {
		return err
	}
	return nil
}

// GetUserByEmail resolves an account by email, case-insensitively
func (s *AuthService) GetUserByEmail(ctx context.Context, email string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, err
	}
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*dto.TokenResponse, error) {
	accessToken, refreshToken, expiresIn, refreshExpiresIn, err := s.jwtService.GenerateTokenPair(user)
	if err != nil {
		return nil, err
	}

	if err := s.tokenRepo.Store(ctx, refreshToken, user.ID, s.jwtService.GetRefreshTokenExpiry()); err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		ExpiresIn:        expiresIn,
		RefreshExpiresIn: refreshExpiresIn,
		User:             dto.NewUserResponse(user),
	}, nil
}
