package backups

import (
	"context"
	"database/sql"
	"errors"

	"itam-platform/pkg/utils"
)

type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

const routineColumns = `id, name, type, frequency, responsible, status, last_run, created_at, updated_at`

func (r *PostgresRepo) ListRoutines(ctx context.Context) ([]BackupRoutine, error) {
	const q = `
SELECT ` + routineColumns + `
FROM backup_routines
ORDER BY updated_at DESC
`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BackupRoutine
	for rows.Next() {
		b, err := scanRoutine(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) GetRoutine(ctx context.Context, id string) (BackupRoutine, error) {
	const q = `
SELECT ` + routineColumns + `
FROM backup_routines
WHERE id = $1
`
	b, err := scanRoutine(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return BackupRoutine{}, ErrNotFound
		}
		return BackupRoutine{}, err
	}
	return b, nil
}

func (r *PostgresRepo) CreateRoutine(ctx context.Context, b BackupRoutine) error {
	const q = `
INSERT INTO backup_routines (id, name, type, frequency, responsible, status, last_run, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
`
	_, err := r.db.ExecContext(ctx, q,
		b.ID, b.Name, b.Type, b.Frequency, b.Responsible, b.Status, b.LastRun, b.CreatedAt, b.UpdatedAt,
	)
	return err
}

func (r *PostgresRepo) UpdateRoutine(ctx context.Context, b BackupRoutine) error {
	const q = `
UPDATE backup_routines
SET name = $2, type = $3, frequency = $4, responsible = $5, updated_at = $6
WHERE id = $1
`
	res, err := r.db.ExecContext(ctx, q,
		b.ID, b.Name, b.Type, b.Frequency, b.Responsible, b.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// AppendExecution inserts the log row and mirrors the routine in one
// transaction.
func (r *PostgresRepo) AppendExecution(ctx context.Context, l BackupLog, b BackupRoutine) error {
	return utils.WithTx(ctx, r.db, &sql.TxOptions{}, func(ctx context.Context, tx *sql.Tx) error {
		const insLog = `
INSERT INTO backup_logs (id, routine_id, status, evidence, log_output, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
`
		if _, err := tx.ExecContext(ctx, insLog,
			l.ID, l.RoutineID, l.Status, l.Evidence, l.LogOutput, l.Timestamp,
		); err != nil {
			return err
		}

		const updRoutine = `
UPDATE backup_routines
SET status = $2, last_run = $3, updated_at = $4
WHERE id = $1
`
		res, err := tx.ExecContext(ctx, updRoutine, b.ID, b.Status, b.LastRun, b.UpdatedAt)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *PostgresRepo) ListLogs(ctx context.Context, routineID string, limit int) ([]BackupLog, error) {
	q := `
SELECT id, routine_id, status, evidence, log_output, created_at
FROM backup_logs
`
	args := []any{limit}
	if routineID != "" {
		args = append(args, routineID)
		q += "WHERE routine_id = $2\n"
	}
	q += "ORDER BY created_at DESC\nLIMIT $1"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BackupLog
	for rows.Next() {
		var l BackupLog
		if err := rows.Scan(&l.ID, &l.RoutineID, &l.Status, &l.Evidence, &l.LogOutput, &l.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRoutine(row rowScanner) (BackupRoutine, error) {
	var b BackupRoutine
	err := row.Scan(
		&b.ID,
		&b.Name,
		&b.Type,
		&b.Frequency,
		&b.Responsible,
		&b.Status,
		&b.LastRun,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	return b, err
}
