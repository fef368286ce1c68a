package models

import (
	"time"
)

// RequestStatus is the approval state of a partnership request
type RequestStatus string

const (
	StatusInProgress RequestStatus = "In Progress"
	StatusApproved   RequestStatus = "Approved"
	StatusRejected   RequestStatus = "Rejected"
	StatusToModify   RequestStatus = "To Modify"
)

// RequestStatuses lists every valid status value
var RequestStatuses = []RequestStatus{
	StatusInProgress,
	StatusApproved,
	StatusRejected,
	StatusToModify,
}

// IsValid reports whether the status is one of the enumerated values
func (s RequestStatus) IsValid() bool {
	for _, v := range RequestStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// RequestType classifies a partnership request
type RequestType string

const (
	TypeStudentExchange RequestType = "Student Exchange"
	TypeDoubleDegree    RequestType = "Double Degree"
	TypeResearch        RequestType = "Research"
	TypeTraining        RequestType = "Training"
	TypeInternship      RequestType = "Internship"
	TypeRelocation      RequestType = "Relocation"
)

// RequestTypes lists every valid request type
var RequestTypes = []RequestType{
	TypeStudentExchange,
	TypeDoubleDegree,
	TypeResearch,
	TypeTraining,
	TypeInternship,
	TypeRelocation,
}

// IsValid reports whether the type is one of the enumerated values
func (t RequestType) IsValid() bool {
	for _, v := range RequestTypes {
		if t == v {
			return true
		}
	}
	return false
}

// Request defines the partnership request model based on the 'requests' table
type Request struct {
	ID          int64         `json:"id" db:"id" example:"42"`
	Title       string        `json:"title" db:"title" example:"Exchange Agreement - KTH Stockholm"`
	Type        RequestType   `json:"type" db:"type" example:"Student Exchange"`
	Description string        `json:"description" db:"description" example:"Nordic exchange program"`
	TeacherID   int64         `json:"teacherId" db:"teacher_id" example:"7"`
	Status      RequestStatus `json:"status" db:"status" example:"In Progress"`
	Documents   []Document    `json:"documents"` // Attached documents, never nil in API responses
	CreatedAt   time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time     `json:"updatedAt" db:"updated_at"`
}

// Document defines an uploaded file attached to a request, based on the
// 'request_documents' table. The file bytes live on disk; only metadata
// is stored here.
type Document struct {
	ID         int64     `json:"id" db:"id"`
	RequestID  int64     `json:"requestId" db:"request_id"`
	FileName   string    `json:"fileName" db:"file_name"`   // Original filename as uploaded
	FilePath   string    `json:"filePath" db:"file_path"`   // Stored path relative to the uploads root
	FileSize   int64     `json:"fileSize" db:"file_size"`   // Size in bytes
	FileType   string    `json:"fileType" db:"file_type"`   // MIME type
	UploadedAt time.Time `json:"uploadedAt" db:"uploaded_at"`
}
