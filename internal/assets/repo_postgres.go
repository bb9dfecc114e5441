package assets

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

const assetColumns = `id, name, type, location, status, ip, created_at, updated_at`

func (r *PostgresRepo) List(ctx context.Context) ([]Asset, error) {
	const q = `
SELECT ` + assetColumns + `
FROM assets
ORDER BY updated_at DESC
`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) Get(ctx context.Context, id string) (Asset, error) {
	const q = `
SELECT ` + assetColumns + `
FROM assets
WHERE id = $1
`
	a, err := scanAsset(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Asset{}, ErrNotFound
		}
		return Asset{}, err
	}
	return a, nil
}

// Create inserts the asset and its initial history row in one transaction.
func (r *PostgresRepo) Create(ctx context.Context, a Asset, h AssetHistory) error {
	return utils.WithTx(ctx, r.db, &sql.TxOptions{}, func(ctx context.Context, tx *sql.Tx) error {
		const insAsset = `
INSERT INTO assets (id, name, type, location, status, ip, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
`
		if _, err := tx.ExecContext(ctx, insAsset,
			a.ID, a.Name, a.Type, a.Location, a.Status, a.IP, a.CreatedAt, a.UpdatedAt,
		); err != nil {
			return err
		}
		return insertHistory(ctx, tx, h)
	})
}

// Update rewrites the mutable columns and appends a history row atomically.
func (r *PostgresRepo) Update(ctx context.Context, a Asset, h AssetHistory) (Asset, error) {
	var out Asset
	err := utils.WithTx(ctx, r.db, &sql.TxOptions{}, func(ctx context.Context, tx *sql.Tx) error {
		const upd = `
UPDATE assets
SET name = $2, type = $3, location = $4, status = $5, ip = $6, updated_at = $7
WHERE id = $1
RETURNING ` + assetColumns + `
`
		got, err := scanAsset(tx.QueryRowContext(ctx, upd,
			a.ID, a.Name, a.Type, a.Location, a.Status, a.IP, a.UpdatedAt,
		))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
		out = got
		return insertHistory(ctx, tx, h)
	})
	if err != nil {
		return Asset{}, err
	}
	return out, nil
}

func (r *PostgresRepo) History(ctx context.Context, assetID string) ([]AssetHistory, error) {
	const q = `
SELECT id, asset_id, action, details, created_at
FROM asset_history
WHERE asset_id = $1
ORDER BY created_at DESC
`
	rows, err := r.db.QueryContext(ctx, q, assetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AssetHistory
	for rows.Next() {
		var h AssetHistory
		if err := rows.Scan(&h.ID, &h.AssetID, &h.Action, &h.Details, &h.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func insertHistory(ctx context.Context, tx *sql.Tx, h AssetHistory) error {
	const q = `
INSERT INTO asset_history (id, asset_id, action, details, created_at)
VALUES ($1,$2,$3,$4,$5)
`
	_, err := tx.ExecContext(ctx, q, h.ID, h.AssetID, h.Action, h.Details, h.Timestamp)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAsset(row rowScanner) (Asset, error) {
	var a Asset
	err := row.Scan(
		&a.ID,
		&a.Name,
		&a.Type,
		&a.Location,
		&a.Status,
		&a.IP,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	return a, err
}
