package models

import (
	"time"
)

// RoleType defines the user role type
type RoleType string

const (
	RoleTeacher RoleType = "TEACHER"
	RoleAdmin   RoleType = "ADMIN"
)

// IsValid reports whether the role is one of the known roles
func (r RoleType) IsValid() bool {
	return r == RoleTeacher || r == RoleAdmin
}

// User defines the user model based on the 'users' table
type User struct {
	ID          int64      `json:"id" db:"id" example:"1"`                                                  // Unique identifier for the user
	Email       string     `json:"email" db:"email" example:"marie.curie@convenia.edu"`                     // User's email address (unique, case-insensitive)
	Password    string     `json:"-" db:"password"`                                                         // Bcrypt password hash (excluded from JSON)
	FirstName   string     `json:"firstName" db:"first_name" example:"Marie"`                               // User's first name
	LastName    string     `json:"lastName" db:"last_name" example:"Curie"`                                 // User's last name
	RoleType    RoleType   `json:"roleType" db:"role_type" example:"TEACHER"`                               // User's role (TEACHER or ADMIN)
	Department  string     `json:"department" db:"department" example:"Physics"`                            // Free-text department name
	IsActive    bool       `json:"isActive" db:"is_active" example:"true"`                                  // Whether the account may log in
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty" db:"last_login_at" example:"2024-04-20T18:00:00Z"` // Timestamp of the last login (nullable)
	CreatedAt   time.Time  `json:"createdAt" db:"created_at" example:"2024-01-01T10:00:00Z"`                // Timestamp when the user was created
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at" example:"2024-01-02T15:30:00Z"`                // Timestamp when the user was last updated
}
