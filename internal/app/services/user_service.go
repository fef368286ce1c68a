package services

import (
	"context"

	"github.com/convenia/convenia-backend/internal/app/models"
	"github.com/convenia/convenia-backend/internal/app/models/dto"
	"github.com/convenia/convenia-backend/internal/app/repositories"
	"github.com/convenia/convenia-backend/internal/pkg/apperrors"
	"github.com/convenia/convenia-backend/internal/pkg/auth"
	"github.com/convenia/convenia-backend/internal/pkg/logger"
)

// IUserService defines user management operations
type IUserService interface {
	ListUsers(ctx context.Context) ([]dto.UserResponse, error)
	ListTeachers(ctx context.Context) ([]dto.UserResponse, error)
	GetUser(ctx context.Context, id int64) (*dto.UserResponse, error)
	CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error)
	UpdateUserRole(ctx context.Context, id int64, role models.RoleType) (*dto.UserResponse, error)
	UpdateUserActive(ctx context.Context, id int64, isActive bool) (*dto.UserResponse, error)
	DeleteUser(ctx context.Context, id int64) error
}

// UserService implements IUserService
type UserService struct {
	userRepo  repositories.IUserRepository
	tokenRepo repositories.ITokenRepository
}

// NewUserService creates a user management service
func NewUserService(userRepo repositories.IUserRepository, tokenRepo repositories.ITokenRepository) *UserService {
	return &UserService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
	}
}

// ListUsers returns all accounts
func (s *UserService) ListUsers(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return toUserResponses(users), nil
}

// ListTeachers returns the active teacher accounts, used to resolve request
// owners when filing on someone's behalf.
func (s *UserService) ListTeachers(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.userRepo.FindByRole(ctx, models.RoleTeacher)
	if err != nil {
		return nil, err
	}

	active := make([]*models.User, 0, len(users))
	for _, user := range users {
		if user.IsActive {
			active = append(active, user)
		}
	}
	return toUserResponses(active), nil
}

// GetUser fetches a single account
func (s *UserService) GetUser(ctx context.Context, id int64) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// CreateUser creates an account with an explicit role, admin-only
func (s *UserService) CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	role := models.RoleType(req.RoleType)
	if !role.IsValid() {
		return nil, apperrors.NewValidationError("invalid role type")
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:      req.Email,
		Password:   hashed,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		RoleType:   role,
		Department: req.Department,
		IsActive:   true,
	}

	id, err := s.userRepo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	logger.Info().Int64("userId", id).Str("role", string(role)).Msg("User created by admin")
	return s.GetUser(ctx, id)
}

// UpdateUserRole changes an account's role. The last admin cannot be
// demoted, otherwise the system would lock itself out.
func (s *UserService) UpdateUserRole(ctx context.Context, id int64, role models.RoleType) (*dto.UserResponse, error) {
	if !role.IsValid() {
		return nil, apperrors.NewValidationError("invalid role type")
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if user.RoleType == models.RoleAdmin && role != models.RoleAdmin {
		admins, err := s.userRepo.CountByRole(ctx, models.RoleAdmin)
		if err != nil {
			return nil, err
		}
		if admins <= 1 {
			return nil, apperrors.NewConflictError("cannot demote the last admin")
		}
	}

	if err := s.userRepo.UpdateRole(ctx, id, role); err != nil {
		return nil, err
	}
	return s.GetUser(ctx, id)
}

// UpdateUserActive toggles whether an account may log in. Deactivation also
// revokes the account's refresh tokens so open sessions cannot be renewed.
func (s *UserService) UpdateUserActive(ctx context.Context, id int64, isActive bool) (*dto.UserResponse, error) {
	if err := s.userRepo.UpdateActive(ctx, id, isActive); err != nil {
		return nil, err
	}

	if !isActive {
		if err := s.tokenRepo.RevokeAllForUser(ctx, id); err != nil {
			logger.Error().Err(err).Int64("userId", id).Msg("Failed to revoke tokens on deactivation")
		}
	}

	return s.GetUser(ctx, id)
}

// DeleteUser removes an account and revokes its tokens. The last admin
// cannot be deleted.
func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if user.RoleType == models.RoleAdmin {
		admins, err := s.userRepo.CountByRole(ctx, models.RoleAdmin)
		if err != nil {
			return err
		}
		if admins <= 1 {
			return apperrors.NewConflictError("cannot delete the last admin")
		}
	}

	if err := s.tokenRepo.RevokeAllForUser(ctx, id); err != nil {
		logger.Error().Err(err).Int64("userId", id).Msg("Failed to revoke tokens on deletion")
	}

	return s.userRepo.Delete(ctx, id)
}

func toUserResponses(users []*models.User) []dto.UserResponse {
	responses := make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, dto.NewUserResponse(user))
	}
	return responses
}
