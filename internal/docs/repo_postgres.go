package docs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

const documentColumns = `
d.id, d.title, d.category_id, d.type, d.description, d.tags, d.content,
d.file_url, d.file_type, d.cred_user, d.cred_pass, d.responsible,
d.created_by, d.created_at, d.updated_at,
c.id, c.name, c.icon`

const documentFrom = `
FROM documents d
JOIN doc_categories c ON c.id = d.category_id`

func (r *PostgresRepo) ListDocuments(ctx context.Context, f Filter) ([]Document, error) {
	var conds []string
	var args []any

	if f.CategoryID != "" {
		args = append(args, f.CategoryID)
		conds = append(conds, fmt.Sprintf("d.category_id = $%d", len(args)))
	}
	if f.Type != "" {
		args = append(args, f.Type)
		conds = append(conds, fmt.Sprintf("d.type = $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(d.title ILIKE $%d OR d.description ILIKE $%d OR d.tags ILIKE $%d)", n, n, n))
	}

	q := "SELECT " + documentColumns + documentFrom
	if len(conds) > 0 {
		q += "\nWHERE " + strings.Join(conds, " AND ")
	}
	q += "\nORDER BY d.updated_at DESC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) GetDocument(ctx context.Context, id string) (Document, error) {
	q := "SELECT " + documentColumns + documentFrom + "\nWHERE d.id = $1"
	d, err := scanDocument(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return d, nil
}

func (r *PostgresRepo) CreateDocument(ctx context.Context, d Document) error {
	const q = `
INSERT INTO documents (
  id, title, category_id, type, description, tags, content,
  file_url, file_type, cred_user, cred_pass, responsible,
  created_by, created_at, updated_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15
)
`
	_, err := r.db.ExecContext(ctx, q,
		d.ID, d.Title, d.CategoryID, d.Type, d.Description, d.Tags, d.Content,
		d.FileURL, d.FileType, d.CredUser, d.CredPass, d.Responsible,
		d.CreatedBy, d.CreatedAt, d.UpdatedAt,
	)
	return err
}

func (r *PostgresRepo) UpdateDocument(ctx context.Context, id string, upd DocumentUpdate) (Document, error) {
	// COALESCE keeps the stored secret when no replacement hash is supplied.
	const q = `
UPDATE documents
SET title = $2, category_id = $3, type = $4, description = $5, tags = $6,
    content = $7, file_url = $8, file_type = $9, cred_user = $10,
    cred_pass = COALESCE($11, cred_pass), responsible = $12, updated_at = $13
WHERE id = $1
RETURNING id
`
	var updated string
	err := r.db.QueryRowContext(ctx, q,
		id, upd.Title, upd.CategoryID, upd.Type, upd.Description, upd.Tags,
		upd.Content, upd.FileURL, upd.FileType, upd.CredUser,
		upd.CredPass, upd.Responsible, upd.UpdatedAt,
	).Scan(&updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return r.GetDocument(ctx, id)
}

func (r *PostgresRepo) DeleteDocument(ctx context.Context, id string) error {
	const q = `DELETE FROM documents WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
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

func (r *PostgresRepo) AppendAccessLog(ctx context.Context, l DocAccessLog) error {
	const q = `
INSERT INTO doc_access_logs (id, document_id, user_id, action, created_at)
VALUES ($1,$2,$3,$4,$5)
`
	_, err := r.db.ExecContext(ctx, q, l.ID, l.DocumentID, l.UserID, l.Action, l.Timestamp)
	return err
}

func (r *PostgresRepo) RecentAccessLogs(ctx context.Context, documentID string, limit int) ([]DocAccessLog, error) {
	const q = `
SELECT id, document_id, user_id, action, created_at
FROM doc_access_logs
WHERE document_id = $1
ORDER BY created_at DESC
LIMIT $2
`
	rows, err := r.db.QueryContext(ctx, q, documentID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DocAccessLog
	for rows.Next() {
		var l DocAccessLog
		if err := rows.Scan(&l.ID, &l.DocumentID, &l.UserID, &l.Action, &l.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) ListCategories(ctx context.Context) ([]DocCategory, error) {
	const q = `
SELECT id, name, icon
FROM doc_categories
ORDER BY name ASC
`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DocCategory
	for rows.Next() {
		var c DocCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.Icon); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) CreateCategory(ctx context.Context, c DocCategory) error {
	const q = `INSERT INTO doc_categories (id, name, icon) VALUES ($1,$2,$3)`
	_, err := r.db.ExecContext(ctx, q, c.ID, c.Name, c.Icon)
	return err
}

func (r *PostgresRepo) UpdateCategory(ctx context.Context, c DocCategory) (DocCategory, error) {
	const q = `
UPDATE doc_categories
SET name = $2, icon = $3
WHERE id = $1
RETURNING id, name, icon
`
	var out DocCategory
	err := r.db.QueryRowContext(ctx, q, c.ID, c.Name, c.Icon).Scan(&out.ID, &out.Name, &out.Icon)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return DocCategory{}, ErrNotFound
		}
		return DocCategory{}, err
	}
	return out, nil
}

func (r *PostgresRepo) DeleteCategory(ctx context.Context, id string) error {
	const q = `DELETE FROM doc_categories WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (Document, error) {
	var d Document
	var c DocCategory
	err := row.Scan(
		&d.ID, &d.Title, &d.CategoryID, &d.Type, &d.Description, &d.Tags, &d.Content,
		&d.FileURL, &d.FileType, &d.CredUser, &d.CredPass, &d.Responsible,
		&d.CreatedBy, &d.CreatedAt, &d.UpdatedAt,
		&c.ID, &c.Name, &c.Icon,
	)
	if err != nil {
		return Document{}, err
	}
	d.Category = &c
	return d, nil
}
