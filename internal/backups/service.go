package backups

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// DefaultLogLimit bounds history listings when the caller does not ask
// for a specific window.
const DefaultLogLimit = 50

var (
	ErrNotFound        = errors.New("backups: not found")
	ErrInvalidArgument = errors.New("backups: invalid argument")
)

// Repository is the persistence contract for routines and their
// execution logs.
type Repository interface {
	ListRoutines(ctx context.Context) ([]BackupRoutine, error)
	GetRoutine(ctx context.Context, id string) (BackupRoutine, error)
	CreateRoutine(ctx context.Context, r BackupRoutine) error
	UpdateRoutine(ctx context.Context, r BackupRoutine) error

	// AppendExecution atomically inserts the log entry and moves the
	// routine to the log's status and timestamp. Partial writes are not
	// allowed: either both land or neither does.
	AppendExecution(ctx context.Context, l BackupLog, r BackupRoutine) error

	// ListLogs returns the newest entries first. An empty routineID
	// means logs across all routines.
	ListLogs(ctx context.Context, routineID string, limit int) ([]BackupLog, error)
}

type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

// RoutineInput is the client-supplied shape for creating or updating a
// routine.
type RoutineInput struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Frequency   string `json:"frequency"`
	Responsible string `json:"responsible"`
}

// ExecutionInput records one run of a routine.
type ExecutionInput struct {
	Status    BackupStatus `json:"status"`
	Evidence  string       `json:"evidence"`
	LogOutput string       `json:"logOutput"`
}

func (s *Service) ListRoutines(ctx context.Context) ([]BackupRoutine, error) {
	return s.repo.ListRoutines(ctx)
}

func (s *Service) GetRoutine(ctx context.Context, id string) (BackupRoutine, error) {
	if id == "" {
		return BackupRoutine{}, ErrNotFound
	}
	return s.repo.GetRoutine(ctx, id)
}

// CreateRoutine registers a routine that has not run yet. It starts
// Pendente with no lastRun until the first execution is recorded.
func (s *Service) CreateRoutine(ctx context.Context, in RoutineInput) (BackupRoutine, error) {
	if in.Name == "" || in.Type == "" || in.Frequency == "" {
		return BackupRoutine{}, ErrInvalidArgument
	}

	now := s.clock().UTC()
	r := BackupRoutine{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Type:        in.Type,
		Frequency:   in.Frequency,
		Responsible: in.Responsible,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.CreateRoutine(ctx, r); err != nil {
		return BackupRoutine{}, err
	}
	return r, nil
}

// UpdateRoutine rewrites the descriptive fields. Status and lastRun are
// owned by Execute and cannot be set directly.
func (s *Service) UpdateRoutine(ctx context.Context, id string, in RoutineInput) (BackupRoutine, error) {
	if id == "" {
		return BackupRoutine{}, ErrNotFound
	}
	if in.Name == "" || in.Type == "" || in.Frequency == "" {
		return BackupRoutine{}, ErrInvalidArgument
	}

	r, err := s.repo.GetRoutine(ctx, id)
	if err != nil {
		return BackupRoutine{}, err
	}
	r.Name = in.Name
	r.Type = in.Type
	r.Frequency = in.Frequency
	r.Responsible = in.Responsible
	r.UpdatedAt = s.clock().UTC()

	if err := s.repo.UpdateRoutine(ctx, r); err != nil {
		return BackupRoutine{}, err
	}
	return r, nil
}

// Execute records one run: a new log entry plus the routine mirroring
// the run's status and time, committed together.
func (s *Service) Execute(ctx context.Context, routineID string, in ExecutionInput) (BackupLog, error) {
	if routineID == "" {
		return BackupLog{}, ErrNotFound
	}
	if !in.Status.Valid() {
		return BackupLog{}, ErrInvalidArgument
	}

	r, err := s.repo.GetRoutine(ctx, routineID)
	if err != nil {
		return BackupLog{}, err
	}

	now := s.clock().UTC()
	l := BackupLog{
		ID:        uuid.NewString(),
		RoutineID: r.ID,
		Status:    in.Status,
		Evidence:  in.Evidence,
		LogOutput: in.LogOutput,
		Timestamp: now,
	}

	r.Status = in.Status
	r.LastRun = &now
	r.UpdatedAt = now

	if err := s.repo.AppendExecution(ctx, l, r); err != nil {
		return BackupLog{}, err
	}
	return l, nil
}

// Logs returns recent executions, newest first. routineID narrows to one
// routine; limit <= 0 applies DefaultLogLimit.
func (s *Service) Logs(ctx context.Context, routineID string, limit int) ([]BackupLog, error) {
	if limit <= 0 || limit > DefaultLogLimit {
		limit = DefaultLogLimit
	}
	if routineID != "" {
		if _, err := s.repo.GetRoutine(ctx, routineID); err != nil {
			return nil, err
		}
	}
	return s.repo.ListLogs(ctx, routineID, limit)
}
