package dto

import (
	"time"

	"github.com/convenia/convenia-backend/internal/app/models"
)

// LoginRequest is the login payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"marie.curie@convenia.edu"`
	Password string `json:"password" binding:"required" example:"Secret123"`
}

// RegisterRequest is the self-service registration payload. Accounts
// created this way always get the TEACHER role; admins are created by
// other admins.
type RegisterRequest struct {
	Email      string `json:"email" binding:"required,email" example:"marie.curie@convenia.edu"`
	Password   string `json:"password" binding:"required,min=8" example:"Secret123"`
	FirstName  string `json:"firstName" binding:"required" example:"Marie"`
	LastName   string `json:"lastName" binding:"required" example:"Curie"`
	Department string `json:"department" example:"Physics"`
}

// RefreshTokenRequest carries the opaque refresh token
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// TokenResponse is returned on successful login/refresh
type TokenResponse struct {
	AccessToken      string       `json:"accessToken"`
	RefreshToken     string       `json:"refreshToken"`
	ExpiresIn        int          `json:"expiresIn" example:"3600"`
	RefreshExpiresIn int          `json:"refreshExpiresIn" example:"2592000"`
	User             UserResponse `json:"user"`
}

// UserResponse is a user record with the password stripped
type UserResponse struct {
	ID          int64           `json:"id" example:"1"`
	Email       string          `json:"email" example:"marie.curie@convenia.edu"`
	FirstName   string          `json:"firstName" example:"Marie"`
	LastName    string          `json:"lastName" example:"Curie"`
	RoleType    models.RoleType `json:"roleType" example:"TEACHER"`
	Department  string          `json:"department" example:"Physics"`
	IsActive    bool            `json:"isActive" example:"true"`
	LastLoginAt *time.Time      `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// NewUserResponse builds a UserResponse from a user model
func NewUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		RoleType:    user.RoleType,
		Department:  user.Department,
		IsActive:    user.IsActive,
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	}
}
