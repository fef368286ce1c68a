// Package services contains the business logic layer. Services validate
// input, enforce authorization, and orchestrate repositories and storage.
package services

import (
	"github.com/convenia/convenia-backend/internal/app/repositories"
	"github.com/convenia/convenia-backend/internal/pkg/auth"
	"github.com/convenia/convenia-backend/internal/pkg/filestorage"
)

// Services bundles every service behind one constructor
type Services struct {
	Auth    IAuthService
	Users   IUserService
	Request IRequestService
}

// NewServices wires all services to their dependencies
func NewServices(repos *repositories.Repositories, jwtService *auth.JWTService, storage filestorage.FileStorage) *Services {
	return &Services{
		Auth:    NewAuthService(repos.Users, repos.Tokens, jwtService),
		Users:   NewUserService(repos.Users, repos.Tokens),
		Request: NewRequestService(repos.Requests, repos.Users, storage),
	}
}
