package services

import (
	"context"
	"mime/multipart"
	"path/filepath"
	"strings"

	appauth "github.com/convenia/convenia-backend/internal/app/auth"
	"github.com/convenia/convenia-backend/internal/app/models"
	"github.com/convenia/convenia-backend/internal/app/models/dto"
	"github.com/convenia/convenia-backend/internal/app/repositories"
	"github.com/convenia/convenia-backend/internal/pkg/apperrors"
	"github.com/convenia/convenia-backend/internal/pkg/filestorage"
	"github.com/convenia/convenia-backend/internal/pkg/logger"
)

// MaxDocumentsPerRequest caps how many files one request may carry
const MaxDocumentsPerRequest = 5

// allowedDocumentTypes is the upload MIME allow-list
var allowedDocumentTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
	"text/plain": true,
	"image/jpeg": true,
	"image/png":  true,
}

// IRequestService defines partnership request operations
type IRequestService interface {
	CreateRequest(ctx context.Context, caller appauth.Principal, form *dto.CreateRequestForm, files []*multipart.FileHeader) (*models.Request, error)
	ListRequests(ctx context.Context) ([]*models.Request, error)
	ListRequestsByTeacher(ctx context.Context, caller appauth.Principal, teacherID int64) ([]*models.Request, error)
	GetRequest(ctx context.Context, caller appauth.Principal, id int64) (*models.Request, error)
	SearchRequests(ctx context.Context, query *dto.SearchRequestQuery) ([]*models.Request, error)
	UpdateRequestStatus(ctx context.Context, id int64, status string) (*models.Request, error)
	DeleteRequest(ctx context.Context, caller appauth.Principal, id int64) error
}

// RequestService implements IRequestService
type RequestService struct {
	requestRepo repositories.IRequestRepository
	userRepo    repositories.IUserRepository
	storage     filestorage.FileStorage
}

// NewRequestService creates a request service
func NewRequestService(requestRepo repositories.IRequestRepository, userRepo repositories.IUserRepository, storage filestorage.FileStorage) *RequestService {
	return &RequestService{
		requestRepo: requestRepo,
		userRepo:    userRepo,
		storage:     storage,
	}
}

// CreateRequest validates the form and attachments, stores the files, and
// persists the request with its documents in one transaction. New requests
// always start In Progress regardless of what the client sends. Teachers may
// only file requests for themselves.
func (s *RequestService) CreateRequest(ctx context.Context, caller appauth.Principal, form *dto.CreateRequestForm, files []*multipart.FileHeader) (*models.Request, error) {
	if !caller.CanActForTeacher(form.TeacherID) {
		return nil, apperrors.NewForbiddenError("cannot create a request for another teacher")
	}

	requestType := models.RequestType(form.Type)
	if !requestType.IsValid() {
		return nil, apperrors.ErrInvalidRequestType
	}

	if len(files) > MaxDocumentsPerRequest {
		return nil, apperrors.ErrTooManyFiles
	}
	for _, file := range files {
		if err := validateDocumentType(file); err != nil {
			return nil, err
		}
	}

	if _, err := s.userRepo.FindByID(ctx, form.TeacherID); err != nil {
		return nil, err
	}

	// Files go to disk first; on a DB failure they are removed again
	documents := make([]models.Document, 0, len(files))
	stored := make([]string, 0, len(files))
	for _, file := range files {
		fileName, err := s.storage.SaveFile(file)
		if err != nil {
			s.removeFiles(stored)
			return nil, err
		}
		stored = append(stored, fileName)

		documents = append(documents, models.Document{
			FileName: file.Filename,
			FilePath: s.storage.GetFileURL(fileName),
			FileSize: file.Size,
			FileType: documentContentType(file),
		})
	}

	request := &models.Request{
		Title:       form.Title,
		Type:        requestType,
		Description: form.Description,
		TeacherID:   form.TeacherID,
		Status:      models.StatusInProgress,
		Documents:   documents,
	}

	if err := s.requestRepo.CreateWithDocuments(ctx, request); err != nil {
		s.removeFiles(stored)
		return nil, err
	}

	logger.Info().
		Int64("requestId", request.ID).
		Int64("teacherId", request.TeacherID).
		Int("documents", len(documents)).
		Msg("Request created")

	return request, nil
}

// ListRequests returns every request, newest first
func (s *RequestService) ListRequests(ctx context.Context) ([]*models.Request, error) {
	return s.requestRepo.FindAll(ctx)
}

// ListRequestsByTeacher returns one teacher's requests. Teachers may only
// list their own; admins may list anyone's.
func (s *RequestService) ListRequestsByTeacher(ctx context.Context, caller appauth.Principal, teacherID int64) ([]*models.Request, error) {
	if !caller.CanActForTeacher(teacherID) {
		return nil, apperrors.NewForbiddenError("cannot view another teacher's requests")
	}
	return s.requestRepo.FindByTeacher(ctx, teacherID)
}

// GetRequest fetches a single request. Teachers may only see their own.
func (s *RequestService) GetRequest(ctx context.Context, caller appauth.Principal, id int64) (*models.Request, error) {
	request, err := s.requestRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.CanActForTeacher(request.TeacherID) {
		return nil, apperrors.NewForbiddenError("cannot view another teacher's request")
	}
	return request, nil
}

// SearchRequests filters requests by free text, status, and type. Supplied
// status and type values must be members of their enums.
func (s *RequestService) SearchRequests(ctx context.Context, query *dto.SearchRequestQuery) ([]*models.Request, error) {
	filter := repositories.RequestFilter{Query: strings.TrimSpace(query.Query)}

	if query.Status != "" {
		status := models.RequestStatus(query.Status)
		if !status.IsValid() {
			return nil, apperrors.ErrInvalidStatus
		}
		filter.Status = status
	}
	if query.Type != "" {
		requestType := models.RequestType(query.Type)
		if !requestType.IsValid() {
			return nil, apperrors.ErrInvalidRequestType
		}
		filter.Type = requestType
	}

	return s.requestRepo.Search(ctx, filter)
}

// UpdateRequestStatus moves a request to a new status, admin-only. The value
// must be a member of the status enum.
func (s *RequestService) UpdateRequestStatus(ctx context.Context, id int64, status string) (*models.Request, error) {
	newStatus := models.RequestStatus(status)
	if !newStatus.IsValid() {
		return nil, apperrors.ErrInvalidStatus
	}

	if err := s.requestRepo.UpdateStatus(ctx, id, newStatus); err != nil {
		return nil, err
	}

	logger.Info().Int64("requestId", id).Str("status", status).Msg("Request status updated")
	return s.requestRepo.FindByID(ctx, id)
}

// DeleteRequest removes a request and its stored files. Teachers may only
// delete their own requests. File removal is best-effort; the database row
// is authoritative.
func (s *RequestService) DeleteRequest(ctx context.Context, caller appauth.Principal, id int64) error {
	request, err := s.requestRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !caller.CanActForTeacher(request.TeacherID) {
		return apperrors.NewForbiddenError("cannot delete another teacher's request")
	}

	if err := s.requestRepo.Delete(ctx, id); err != nil {
		return err
	}

	for _, doc := range request.Documents {
		if err := s.storage.DeleteFile(filepath.Base(doc.FilePath)); err != nil {
			logger.Error().Err(err).Str("file", doc.FilePath).Msg("Failed to delete request document")
		}
	}

	logger.Info().Int64("requestId", id).Msg("Request deleted")
	return nil
}

func (s *RequestService) removeFiles(fileNames []string) {
	for _, name := range fileNames {
		if err := s.storage.DeleteFile(name); err != nil {
			logger.Error().Err(err).Str("file", name).Msg("Failed to clean up stored file")
		}
	}
}

// validateDocumentType checks an upload against the MIME allow-list
func validateDocumentType(file *multipart.FileHeader) error {
	contentType := documentContentType(file)
	if !allowedDocumentTypes[contentType] {
		return apperrors.ErrFileTypeNotAllowed
	}
	return nil
}

// documentContentType returns the declared content type without parameters
func documentContentType(file *multipart.FileHeader) string {
	contentType := file.Header.Get("Content-Type")
	if idx := strings.Index(contentType, ";"); idx >= 0 {
		contentType = contentType[:idx]
	}
	return strings.TrimSpace(contentType)
}
