// Package auth carries the caller identity through the service layer and
// answers authorization questions about it.
package auth

import "github.com/convenia/convenia-backend/internal/app/models"

// Principal is the authenticated caller, extracted from the access token
type Principal struct {
	UserID int64
	Email  string
	Role   models.RoleType
}

// IsAdmin reports whether the caller holds the admin role
func (p Principal) IsAdmin() bool {
	return p.Role == models.RoleAdmin
}

// CanActForTeacher reports whether the caller may file or view requests on
// behalf of the given teacher. Admins may act for anyone; teachers only for
// themselves.
func (p Principal) CanActForTeacher(teacherID int64) bool {
	return p.IsAdmin() || p.UserID == teacherID
}
