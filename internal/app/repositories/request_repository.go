package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/convenia/convenia-backend/internal/app/models"
	"github.com/convenia/convenia-backend/internal/db"
	"github.com/convenia/convenia-backend/internal/pkg/apperrors"
	"github.com/convenia/convenia-backend/internal/pkg/dberrors"
)

// RequestFilter narrows a request search. Zero-valued fields are ignored.
type RequestFilter struct {
	Query  string
	Status models.RequestStatus
	Type   models.RequestType
}

// IRequestRepository defines the data access contract for partnership requests
type IRequestRepository interface {
	CreateWithDocuments(ctx context.Context, request *models.Request) error
	FindAll(ctx context.Context) ([]*models.Request, error)
	FindByTeacher(ctx context.Context, teacherID int64) ([]*models.Request, error)
	FindByID(ctx context.Context, id int64) (*models.Request, error)
	Search(ctx context.Context, filter RequestFilter) ([]*models.Request, error)
	UpdateStatus(ctx context.Context, id int64, status models.RequestStatus) error
	Delete(ctx context.Context, id int64) error
}

// RequestRepository implements IRequestRepository on PostgreSQL
type RequestRepository struct {
	pool *pgxpool.Pool
}

// NewRequestRepository creates a request repository
func NewRequestRepository(pool *pgxpool.Pool) *RequestRepository {
	return &RequestRepository{pool: pool}
}

var requestColumns = []string{
	"id", "title", "type", "description", "teacher_id", "status",
	"created_at", "updated_at",
}

// CreateWithDocuments inserts the request row and its document rows in a
// single transaction, so a request never appears without its attachments.
// The request and document IDs are filled in on success.
func (r *RequestRepository) CreateWithDocuments(ctx context.Context, request *models.Request) error {
	return db.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		query, args, err := psql.Insert("requests").
			Columns("title", "type", "description", "teacher_id", "status").
			Values(request.Title, request.Type, request.Description, request.TeacherID, request.Status).
			Suffix("RETURNING id, created_at, updated_at").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build insert query: %w", err)
		}

		if err := tx.QueryRow(ctx, query, args...).
			Scan(&request.ID, &request.CreatedAt, &request.UpdatedAt); err != nil {
			if dberrors.IsForeignKeyViolation(err) {
				return apperrors.ErrUserNotFound
			}
			return fmt.Errorf("failed to insert request: %w", err)
		}

		for i := range request.Documents {
			doc := &request.Documents[i]
			doc.RequestID = request.ID

			query, args, err := psql.Insert("request_documents").
				Columns("request_id", "file_name", "file_path", "file_size", "file_type").
				Values(doc.RequestID, doc.FileName, doc.FilePath, doc.FileSize, doc.FileType).
				Suffix("RETURNING id, uploaded_at").
				ToSql()
			if err != nil {
				return fmt.Errorf("failed to build document insert query: %w", err)
			}

			if err := tx.QueryRow(ctx, query, args...).Scan(&doc.ID, &doc.UploadedAt); err != nil {
				return fmt.Errorf("failed to insert request document: %w", err)
			}
		}

		return nil
	})
}

// FindAll returns all requests, newest first, with documents attached
func (r *RequestRepository) FindAll(ctx context.Context) ([]*models.Request, error) {
	builder := psql.Select(requestColumns...).
		From("requests").
		OrderBy("created_at DESC")

	return r.queryRequests(ctx, builder)
}

// FindByTeacher returns the requests filed by one teacher, newest first
func (r *RequestRepository) FindByTeacher(ctx context.Context, teacherID int64) ([]*models.Request, error) {
	builder := psql.Select(requestColumns...).
		From("requests").
		Where(sq.Eq{"teacher_id": teacherID}).
		OrderBy("created_at DESC")

	return r.queryRequests(ctx, builder)
}

// FindByID fetches a single request with its documents
func (r *RequestRepository) FindByID(ctx context.Context, id int64) (*models.Request, error) {
	query, args, err := psql.Select(requestColumns...).
		From("requests").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	request := &models.Request{}
	err = r.pool.QueryRow(ctx, query, args...).Scan(
		&request.ID, &request.Title, &request.Type, &request.Description,
		&request.TeacherID, &request.Status, &request.CreatedAt, &request.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to query request: %w", err)
	}

	if err := r.attachDocuments(ctx, []*models.Request{request}); err != nil {
		return nil, err
	}
	return request, nil
}

// Search filters requests by free text and exact status/type. All supplied
// filters must match; the text matches title or description case-insensitively.
func (r *RequestRepository) Search(ctx context.Context, filter RequestFilter) ([]*models.Request, error) {
	builder := psql.Select(requestColumns...).
		From("requests").
		OrderBy("created_at DESC")

	if filter.Query != "" {
		pattern := "%" + filter.Query + "%"
		builder = builder.Where(sq.Or{
			sq.ILike{"title": pattern},
			sq.ILike{"description": pattern},
		})
	}
	if filter.Status != "" {
		builder = builder.Where(sq.Eq{"status": filter.Status})
	}
	if filter.Type != "" {
		builder = builder.Where(sq.Eq{"type": filter.Type})
	}

	return r.queryRequests(ctx, builder)
}

// UpdateStatus moves a request to a new status
func (r *RequestRepository) UpdateStatus(ctx context.Context, id int64, status models.RequestStatus) error {
	query, args, err := psql.Update("requests").
		Set("status", status).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update request status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrRequestNotFound
	}
	return nil
}

// Delete removes a request. Document rows go with it via ON DELETE CASCADE.
func (r *RequestRepository) Delete(ctx context.Context, id int64) error {
	query, args, err := psql.Delete("requests").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete query: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrRequestNotFound
	}
	return nil
}

func (r *RequestRepository) queryRequests(ctx context.Context, builder sq.SelectBuilder) ([]*models.Request, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query requests: %w", err)
	}
	defer rows.Close()

	requests := make([]*models.Request, 0)
	for rows.Next() {
		request := &models.Request{}
		if err := rows.Scan(
			&request.ID, &request.Title, &request.Type, &request.Description,
			&request.TeacherID, &request.Status, &request.CreatedAt, &request.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		requests = append(requests, request)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachDocuments(ctx, requests); err != nil {
		return nil, err
	}
	return requests, nil
}

// attachDocuments loads the documents for a batch of requests with one query
func (r *RequestRepository) attachDocuments(ctx context.Context, requests []*models.Request) error {
	byID := make(map[int64]*models.Request, len(requests))
	ids := make([]int64, 0, len(requests))
	for _, req := range requests {
		// Responses always carry a documents array, even when empty
		req.Documents = make([]models.Document, 0)
		byID[req.ID] = req
		ids = append(ids, req.ID)
	}
	if len(ids) == 0 {
		return nil
	}

	query, args, err := psql.Select("id", "request_id", "file_name", "file_path", "file_size", "file_type", "uploaded_at").
		From("request_documents").
		Where(sq.Eq{"request_id": ids}).
		OrderBy("uploaded_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build document query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to query request documents: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		doc := models.Document{}
		if err := rows.Scan(
			&doc.ID, &doc.RequestID, &doc.FileName, &doc.FilePath,
			&doc.FileSize, &doc.FileType, &doc.UploadedAt,
		); err != nil {
			return fmt.Errorf("failed to scan request document: %w", err)
		}
		if req, ok := byID[doc.RequestID]; ok {
			req.Documents = append(req.Documents, doc)
		}
	}

	return rows.Err()
}
