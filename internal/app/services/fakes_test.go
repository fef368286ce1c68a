package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"
	"sync"
	"time"

	"github.com/convenia/convenia-backend/internal/app/models"
	"github.com/convenia/convenia-backend/internal/app/repositories"
	"github.com/convenia/convenia-backend/internal/pkg/apperrors"
)

// fakeUserRepo is an in-memory IUserRepository
type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: make(map[int64]*models.User)}
}

func (r *fakeUserRepo) add(user *models.User) *models.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == 0 {
		user.ID = r.nextID
		r.nextID++
	} else if user.ID >= r.nextID {
		r.nextID = user.ID + 1
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	r.users[user.ID] = user
	return user
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) (int64, error) {
	for _, existing := range r.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return 0, apperrors.ErrEmailAlreadyExists
		}
	}
	return r.add(user).ID, nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id int64) (*models.User, error) {
	if user, ok := r.users[id]; ok {
		return user, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range r.users {
		if strings.EqualFold(user.Email, email) {
			return user, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *fakeUserRepo) FindAll(_ context.Context) ([]*models.User, error) {
	users := make([]*models.User, 0, len(r.users))
	for _, user := range r.users {
		users = append(users, user)
	}
	return users, nil
}

func (r *fakeUserRepo) FindByRole(_ context.Context, role models.RoleType) ([]*models.User, error) {
	users := make([]*models.User, 0)
	for _, user := range r.users {
		if user.RoleType == role {
			users = append(users, user)
		}
	}
	return users, nil
}

func (r *fakeUserRepo) UpdateRole(_ context.Context, id int64, role models.RoleType) error {
	user, ok := r.users[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	user.RoleType = role
	return nil
}

func (r *fakeUserRepo) UpdateActive(_ context.Context, id int64, isActive bool) error {
	user, ok := r.users[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	user.IsActive = isActive
	return nil
}

func (r *fakeUserRepo) UpdateLastLogin(_ context.Context, id int64) error {
	user, ok := r.users[id]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	now := time.Now()
	user.LastLoginAt = &now
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.users[id]; !ok {
		return apperrors.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) CountByRole(_ context.Context, role models.RoleType) (int64, error) {
	var count int64
	for _, user := range r.users {
		if user.RoleType == role {
			count++
		}
	}
	return count, nil
}

// fakeTokenRepo is an in-memory ITokenRepository
type fakeTokenRepo struct {
	nextID int64
	tokens map[string]*models.RefreshToken
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{nextID: 1, tokens: make(map[string]*models.RefreshToken)}
}

func (r *fakeTokenRepo) Store(_ context.Context, token string, userID int64, expiry time.Time) error {
	r.tokens[token] = &models.RefreshToken{
		ID:         r.nextID,
		Token:      token,
		UserID:     userID,
		ExpiryDate: expiry,
		CreatedAt:  time.Now(),
	}
	r.nextID++
	return nil
}

func (r *fakeTokenRepo) FindByToken(_ context.Context, token string) (*models.RefreshToken, error) {
	if stored, ok := r.tokens[token]; ok {
		return stored, nil
	}
	return nil, apperrors.ErrTokenNotFound
}

func (r *fakeTokenRepo) Revoke(_ context.Context, token string) error {
	stored, ok := r.tokens[token]
	if !ok {
		return apperrors.ErrTokenNotFound
	}
	stored.IsRevoked = true
	return nil
}

func (r *fakeTokenRepo) RevokeAllForUser(_ context.Context, userID int64) error {
	for _, stored := range r.tokens {
		if stored.UserID == userID {
			stored.IsRevoked = true
		}
	}
	return nil
}

func (r *fakeTokenRepo) DeleteExpired(_ context.Context) (int64, error) {
	var removed int64
	for token, stored := range r.tokens {
		if stored.IsExpired() {
			delete(r.tokens, token)
			removed++
		}
	}
	return removed, nil
}

// fakeRequestRepo is an in-memory IRequestRepository
type fakeRequestRepo struct {
	nextID   int64
	requests map[int64]*models.Request
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{nextID: 1, requests: make(map[int64]*models.Request)}
}

func (r *fakeRequestRepo) CreateWithDocuments(_ context.Context, request *models.Request) error {
	request.ID = r.nextID
	r.nextID++
	request.CreatedAt = time.Now()
	request.UpdatedAt = time.Now()
	for i := range request.Documents {
		request.Documents[i].ID = int64(i + 1)
		request.Documents[i].RequestID = request.ID
		request.Documents[i].UploadedAt = time.Now()
	}
	r.requests[request.ID] = request
	return nil
}

func (r *fakeRequestRepo) FindAll(_ context.Context) ([]*models.Request, error) {
	requests := make([]*models.Request, 0, len(r.requests))
	for _, request := range r.requests {
		requests = append(requests, request)
	}
	return requests, nil
}

func (r *fakeRequestRepo) FindByTeacher(_ context.Context, teacherID int64) ([]*models.Request, error) {
	requests := make([]*models.Request, 0)
	for _, request := range r.requests {
		if request.TeacherID == teacherID {
			requests = append(requests, request)
		}
	}
	return requests, nil
}

func (r *fakeRequestRepo) FindByID(_ context.Context, id int64) (*models.Request, error) {
	if request, ok := r.requests[id]; ok {
		return request, nil
	}
	return nil, apperrors.ErrRequestNotFound
}

func (r *fakeRequestRepo) Search(_ context.Context, filter repositories.RequestFilter) ([]*models.Request, error) {
	requests := make([]*models.Request, 0)
	for _, request := range r.requests {
		if filter.Status != "" && request.Status != filter.Status {
			continue
		}
		if filter.Type != "" && request.Type != filter.Type {
			continue
		}
		if filter.Query != "" {
			needle := strings.ToLower(filter.Query)
			if !strings.Contains(strings.ToLower(request.Title), needle) &&
				!strings.Contains(strings.ToLower(request.Description), needle) {
				continue
			}
		}
		requests = append(requests, request)
	}
	return requests, nil
}

func (r *fakeRequestRepo) UpdateStatus(_ context.Context, id int64, status models.RequestStatus) error {
	request, ok := r.requests[id]
	if !ok {
		return apperrors.ErrRequestNotFound
	}
	request.Status = status
	return nil
}

func (r *fakeRequestRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.requests[id]; !ok {
		return apperrors.ErrRequestNotFound
	}
	delete(r.requests, id)
	return nil
}

// fakeStorage records stored and deleted files without touching disk
type fakeStorage struct {
	nextID  int
	saved   []string
	deleted []string
	saveErr error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{}
}

func (s *fakeStorage) SaveFile(file *multipart.FileHeader) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	s.nextID++
	name := fmt.Sprintf("stored-%d-%s", s.nextID, file.Filename)
	s.saved = append(s.saved, name)
	return name, nil
}

func (s *fakeStorage) DeleteFile(fileName string) error {
	s.deleted = append(s.deleted, fileName)
	return nil
}

func (s *fakeStorage) GetFileURL(fileName string) string {
	return "/uploads/" + fileName
}

func (s *fakeStorage) GetFullPath(fileName string) string {
	return "/tmp/uploads/" + fileName
}
