package audit

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Repository is the persistence contract for audit events.
//
// It is append-only: no Update or Delete methods exist.
type Repository interface {
	Append(ctx context.Context, e Event) error
	ListRecent(ctx context.Context, limit int) ([]EventWithUser, error)
}

// DefaultListLimit caps admin listings; newest first.
const DefaultListLimit = 100

var ErrInvalidEvent = errors.New("audit: invalid event")

// Service records privileged actions and serves the admin review listing.
//
// Record is best-effort: a failed audit write is logged for operators and
// never surfaced to the caller, so an audit gap is an accepted (not fatal)
// failure mode. The primary operation has already committed by the time
// Record runs.
type Service struct {
	repo  Repository
	log   *slog.Logger
	clock func() time.Time
}

func NewService(repo Repository, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{repo: repo, log: log, clock: time.Now}
}

func (s *Service) Append(ctx context.Context, e Event) error {
	if s.repo == nil {
		return errors.New("audit: repository not configured")
	}
	if e.UserID == "" || e.Action == "" || e.Resource == "" {
		return ErrInvalidEvent
	}

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.clock().UTC()
	}
	return s.repo.Append(ctx, e)
}

// Record appends an event after the guarded operation has committed.
// Failures are swallowed after logging.
func (s *Service) Record(ctx context.Context, userID, action, resource string) {
	if err := s.Append(ctx, Event{UserID: userID, Action: action, Resource: resource}); err != nil {
		s.log.Warn("audit write failed", "action", action, "resource", resource, "err", err)
	}
}

// ListRecent returns up to limit events, newest first, joined with the
// acting user's name and email. limit <= 0 falls back to DefaultListLimit.
func (s *Service) ListRecent(ctx context.Context, limit int) ([]EventWithUser, error) {
	if s.repo == nil {
		return nil, errors.New("audit: repository not configured")
	}
	if limit <= 0 || limit > DefaultListLimit {
		limit = DefaultListLimit
	}
	return s.repo.ListRecent(ctx, limit)
}
