package users

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

func (r *PostgresRepo) FindByEmail(ctx context.Context, email string) (User, error) {
	const q = `
SELECT id, email, name, password, role, created_at, updated_at
FROM users
WHERE LOWER(email) = $1
`
	return r.scanOne(r.db.QueryRowContext(ctx, q, strings.ToLower(email)))
}

func (r *PostgresRepo) FindByID(ctx context.Context, id string) (User, error) {
	const q = `
SELECT id, email, name, password, role, created_at, updated_at
FROM users
WHERE id = $1
`
	return r.scanOne(r.db.QueryRowContext(ctx, q, id))
}

func (r *PostgresRepo) scanOne(row *sql.Row) (User, error) {
	var u User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Name,
		&u.PasswordHash,
		&u.Role,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return u, nil
}
