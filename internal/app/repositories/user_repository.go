package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/convenia/convenia-backend/internal/app/models"
	"github.com/convenia/convenia-backend/internal/pkg/apperrors"
	"github.com/convenia/convenia-backend/internal/pkg/dberrors"
)

// IUserRepository defines the data access contract for user accounts
type IUserRepository interface {
	Create(ctx context.Context, user *models.User) (int64, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindAll(ctx context.Context) ([]*models.User, error)
	FindByRole(ctx context.Context, role models.RoleType) ([]*models.User, error)
	UpdateRole(ctx context.Context, id int64, role models.RoleType) error
	UpdateActive(ctx context.Context, id int64, isActive bool) error
	UpdateLastLogin(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
	CountByRole(ctx context.Context, role models.RoleType) (int64, error)
}

// UserRepository implements IUserRepository on PostgreSQL
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a user repository
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

var userColumns = []string{
	"id", "email", "password", "first_name", "last_name",
	"role_type", "department", "is_active", "last_login_at",
	"created_at", "updated_at",
}

// Create inserts a new user and returns its ID
func (r *UserRepository) Create(ctx context.Context, user *models.User) (int64, error) {
	query, args, err := psql.Insert("users").
		Columns("email", "password", "first_name", "last_name", "role_type", "department", "is_active").
		Values(user.Email, user.Password, user.FirstName, user.LastName, user.RoleType, user.Department, user.IsActive).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build insert query: %w", err)
	}

	var id int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "users_email_lower_idx") {
			return 0, apperrors.ErrEmailAlreadyExists
		}
		return 0, fmt.Errorf("failed to insert user: %w", err)
	}

	return id, nil
}

// FindByID fetches a user by primary key
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	query, args, err := psql.Select(userColumns...).
		From("users").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	return r.scanOne(ctx, query, args)
}

// FindByEmail fetches a user by email, case-insensitively
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query, args, err := psql.Select(userColumns...).
		From("users").
		Where(sq.Expr("LOWER(email) = LOWER(?)", email)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	return r.scanOne(ctx, query, args)
}

// FindAll returns every user ordered by creation time
func (r *UserRepository) FindAll(ctx context.Context) ([]*models.User, error) {
	query, args, err := psql.Select(userColumns...).
		From("users").
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	return r.scanMany(ctx, query, args)
}

// FindByRole returns users holding the given role
func (r *UserRepository) FindByRole(ctx context.Context, role models.RoleType) ([]*models.User, error) {
	query, args, err := psql.Select(userColumns...).
		From("users").
		Where(sq.Eq{"role_type": role}).
		OrderBy("last_name ASC", "first_name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	return r.scanMany(ctx, query, args)
}

// UpdateRole changes a user's role
func (r *UserRepository) UpdateRole(ctx context.Context, id int64, role models.RoleType) error {
	return r.updateField(ctx, id, "role_type", role)
}

// UpdateActive toggles whether the account may authenticate
func (r *UserRepository) UpdateActive(ctx context.Context, id int64, isActive bool) error {
	return r.updateField(ctx, id, "is_active", isActive)
}

// UpdateLastLogin stamps the account with the current time
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id int64) error {
	query, args, err := psql.Update("users").
		Set("last_login_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}

// Delete removes a user account
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	query, args, err := psql.Delete("users").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete query: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// CountByRole counts users holding the given role
func (r *UserRepository) CountByRole(ctx context.Context, role models.RoleType) (int64, error) {
	query, args, err := psql.Select("COUNT(*)").
		From("users").
		Where(sq.Eq{"role_type": role}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var count int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

func (r *UserRepository) updateField(ctx context.Context, id int64, column string, value interface{}) error {
	query, args, err := psql.Update("users").
		Set(column, value).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) scanOne(ctx context.Context, query string, args []interface{}) (*models.User, error) {
	user := &models.User{}
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&user.ID, &user.Email, &user.Password, &user.FirstName, &user.LastName,
		&user.RoleType, &user.Department, &user.IsActive, &user.LastLoginAt,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return user, nil
}

func (r *UserRepository) scanMany(ctx context.Context, query string, args []interface{}) ([]*models.User, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := make([]*models.User, 0)
	for rows.Next() {
		user := &models.User{}
		if err := rows.Scan(
			&user.ID, &user.Email, &user.Password, &user.FirstName, &user.LastName,
			&user.RoleType, &user.Department, &user.IsActive, &user.LastLoginAt,
			&user.CreatedAt, &user.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	return users, rows.Err()
}
