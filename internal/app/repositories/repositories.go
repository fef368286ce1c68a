// Package repositories contains the data access layer. Repositories build
// their SQL with squirrel and talk to PostgreSQL through a pgx pool.
package repositories

import (
	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
)

// psql is the shared statement builder configured for PostgreSQL placeholders
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Repositories bundles every repository behind one constructor
type Repositories struct {
	Users    IUserRepository
	Requests IRequestRepository
	Tokens   ITokenRepository
}

// NewRepositories wires all repositories to the given pool
func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Users:    NewUserRepository(pool),
		Requests: NewRequestRepository(pool),
		Tokens:   NewTokenRepository(pool),
	}
}
