package assets

import (
	"context"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
)

func newPostgresRepoForTest(t *testing.T) (*PostgresRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepo(db), mock
}

func TestPostgresRepo_CreateIsOneTransaction(t *testing.T) {
	repo, mock := newPostgresRepoForTest(t)
	now := time.Unix(1700000000, 0).UTC()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO assets").
		WithArgs("PAT-001", "Servidor", "Servidor", "DC", string(StatusActive), "10.0.0.5", now, now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO asset_history").
		WithArgs("h1", "PAT-001", HistoryActionCreated, "Ativo cadastrado no sistema", now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Create(context.Background(),
		Asset{ID: "PAT-001", Name: "Servidor", Type: "Servidor", Location: "DC", Status: StatusActive, IP: "10.0.0.5", CreatedAt: now, UpdatedAt: now},
		AssetHistory{ID: "h1", AssetID: "PAT-001", Action: HistoryActionCreated, Details: "Ativo cadastrado no sistema", Timestamp: now},
	)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPostgresRepo_CreateRollsBackOnHistoryFailure(t *testing.T) {
	repo, mock := newPostgresRepoForTest(t)
	now := time.Unix(1700000000, 0).UTC()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO assets").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO asset_history").
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := repo.Create(context.Background(),
		Asset{ID: "PAT-001", Name: "x", Status: StatusActive, CreatedAt: now, UpdatedAt: now},
		AssetHistory{ID: "h1", AssetID: "PAT-001", Action: HistoryActionCreated, Timestamp: now},
	)
	if err == nil {
		t.Fatalf("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestPostgresRepo_GetMapsNoRowsToNotFound(t *testing.T) {
	repo, mock := newPostgresRepoForTest(t)

	mock.ExpectQuery("SELECT (.+) FROM assets").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "type", "location", "status", "ip", "created_at", "updated_at"}))

	_, err := repo.Get(context.Background(), "ghost")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
