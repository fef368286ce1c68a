// Package seed creates the initial admin account on first start
package seed

import (
	"context"
	"errors"

	"github.com/convenia/convenia-backend/internal/app/models"
	"github.com/convenia/convenia-backend/internal/app/repositories"
	"github.com/convenia/convenia-backend/internal/config"
	"github.com/convenia/convenia-backend/internal/pkg/apperrors"
	"github.com/convenia/convenia-backend/internal/pkg/auth"
	"github.com/convenia/convenia-backend/internal/pkg/logger"
)

// EnsureAdmin creates the default admin account if it does not exist yet.
// Without at least one admin nobody can approve requests or manage users.
// The password comes from configuration and is never logged.
func EnsureAdmin(ctx context.Context, userRepo repositories.IUserRepository, cfg *config.Config) error {
	if cfg.Admin.Email == "" || cfg.Admin.Password == "" {
		logger.Warn().Msg("Admin seed skipped: no admin credentials configured")
		return nil
	}

	_, err := userRepo.FindByEmail(ctx, cfg.Admin.Email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return err
	}

	hashed, err := auth.HashPassword(cfg.Admin.Password)
	if err != nil {
		return err
	}

	admin := &models.User{
		Email:     cfg.Admin.Email,
		Password:  hashed,
		FirstName: "System",
		LastName:  "Administrator",
		RoleType:  models.RoleAdmin,
		IsActive:  true,
	}

	id, err := userRepo.Create(ctx, admin)
	if err != nil {
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return nil
		}
		return err
	}

	logger.Info().Int64("userId", id).Str("email", cfg.Admin.Email).Msg("Seeded admin account")
	return nil
}
