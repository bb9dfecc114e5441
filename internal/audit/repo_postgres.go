package audit

import (
	"context"
	"database/sql"
)

// PostgresRepo persists audit events in the audit_logs table.
// The table is INSERT-only; no UPDATE/DELETE statements exist here.
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

func (r *PostgresRepo) Append(ctx context.Context, e Event) error {
	const q = `
INSERT INTO audit_logs (id, user_id, action, resource, created_at)
VALUES ($1, $2, $3, $4, $5)
`
	_, err := r.db.ExecContext(ctx, q, e.ID, e.UserID, e.Action, e.Resource, e.CreatedAt)
	return err
}

func (r *PostgresRepo) ListRecent(ctx context.Context, limit int) ([]EventWithUser, error) {
	const q = `
SELECT a.id, a.user_id, a.action, a.resource, a.created_at, u.name, u.email
FROM audit_logs a
JOIN users u ON u.id = a.user_id
ORDER BY a.created_at DESC
LIMIT $1
`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]EventWithUser, 0, limit)
	for rows.Next() {
		var e EventWithUser
		if err := rows.Scan(&e.ID, &e.UserID, &e.Action, &e.Resource, &e.CreatedAt, &e.User.Name, &e.User.Email); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
