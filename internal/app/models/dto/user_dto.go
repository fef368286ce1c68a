package dto

// CreateUserRequest is the admin "Add User" payload
type CreateUserRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=8"`
	FirstName  string `json:"firstName" binding:"required"`
	LastName   string `json:"lastName" binding:"required"`
	RoleType   string `json:"roleType" binding:"required,oneof=TEACHER ADMIN"`
	Department string `json:"department"`
}

// UpdateUserRoleRequest changes a user's role
type UpdateUserRoleRequest struct {
	RoleType string `json:"roleType" binding:"required,oneof=TEACHER ADMIN"`
}

// UpdateUserActiveRequest toggles whether an account may log in
type UpdateUserActiveRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}
