package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/convenia/convenia-backend/internal/app/models"
	"github.com/convenia/convenia-backend/internal/pkg/apperrors"
)

// ITokenRepository defines the data access contract for refresh tokens
type ITokenRepository interface {
	Store(ctx context.Context, token string, userID int64, expiry time.Time) error
	FindByToken(ctx context.Context, token string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, token string) error
	RevokeAllForUser(ctx context.Context, userID int64) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// TokenRepository implements ITokenRepository on PostgreSQL
type TokenRepository struct {
	pool *pgxpool.Pool
}

// NewTokenRepository creates a token repository
func NewTokenRepository(pool *pgxpool.Pool) *TokenRepository {
	return &TokenRepository{pool: pool}
}

// Store persists a freshly issued refresh token
func (r *TokenRepository) Store(ctx context.Context, token string, userID int64, expiry time.Time) error {
	query, args, err := psql.Insert("refresh_tokens").
		Columns("token", "user_id", "expiry_date").
		Values(token, userID, expiry).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	return nil
}

// FindByToken looks up a refresh token by its value
func (r *TokenRepository) FindByToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	query, args, err := psql.Select("id", "token", "user_id", "expiry_date", "is_revoked", "created_at").
		From("refresh_tokens").
		Where(sq.Eq{"token": token}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	stored := &models.RefreshToken{}
	err = r.pool.QueryRow(ctx, query, args...).Scan(
		&stored.ID, &stored.Token, &stored.UserID,
		&stored.ExpiryDate, &stored.IsRevoked, &stored.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to query refresh token: %w", err)
	}
	return stored, nil
}

// Revoke marks a single token as no longer usable
func (r *TokenRepository) Revoke(ctx context.Context, token string) error {
	query, args, err := psql.Update("refresh_tokens").
		Set("is_revoked", true).
		Where(sq.Eq{"token": token}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrTokenNotFound
	}
	return nil
}

// RevokeAllForUser invalidates every outstanding token of a user, used when
// an account is deactivated or deleted.
func (r *TokenRepository) RevokeAllForUser(ctx context.Context, userID int64) error {
	query, args, err := psql.Update("refresh_tokens").
		Set("is_revoked", true).
		Where(sq.Eq{"user_id": userID, "is_revoked": false}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to revoke user tokens: %w", err)
	}
	return nil
}

// DeleteExpired purges tokens past their expiry date and returns how many
// rows were removed.
func (r *TokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	query, args, err := psql.Delete("refresh_tokens").
		Where(sq.Lt{"expiry_date": time.Now()}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build delete query: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}
