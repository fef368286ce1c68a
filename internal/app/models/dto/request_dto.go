package dto

// CreateRequestForm is the multipart form payload for filing a request.
// Files arrive separately under the "documents" field. Any client-supplied
// status is ignored; new requests always start In Progress.
type CreateRequestForm struct {
	Title       string `form:"title" binding:"required"`
	Type        string `form:"type" binding:"required"`
	Description string `form:"description" binding:"required"`
	TeacherID   int64  `form:"teacherId" binding:"required"`
}

// UpdateStatusRequest changes a request's status. The value is checked
// against the status enum in the service layer.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required" example:"Approved"`
}

// SearchRequestQuery captures the /requests/search query parameters.
// Omitted filters impose no constraint.
type SearchRequestQuery struct {
	Query  string `form:"query"`
	Status string `form:"status"`
	Type   string `form:"type"`
}
