package backups

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory store for tests. Ordering mirrors the
// Postgres repository.
type MemoryRepo struct {
	mu       sync.Mutex
	routines map[string]BackupRoutine
	logs     []BackupLog
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{routines: map[string]BackupRoutine{}}
}

func (r *MemoryRepo) ListRoutines(ctx context.Context) ([]BackupRoutine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]BackupRoutine, 0, len(r.routines))
	for _, b := range r.routines {
		out = append(out, b)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

func (r *MemoryRepo) GetRoutine(ctx context.Context, id string) (BackupRoutine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.routines[id]; ok {
		return b, nil
	}
	return BackupRoutine{}, ErrNotFound
}

func (r *MemoryRepo) CreateRoutine(ctx context.Context, b BackupRoutine) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routines[b.ID] = b
	return nil
}

func (r *MemoryRepo) UpdateRoutine(ctx context.Context, b BackupRoutine) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.routines[b.ID]
	if !ok {
		return ErrNotFound
	}
	cur.Name = b.Name
	cur.Type = b.Type
	cur.Frequency = b.Frequency
	cur.Responsible = b.Responsible
	cur.UpdatedAt = b.UpdatedAt
	r.routines[b.ID] = cur
	return nil
}

func (r *MemoryRepo) AppendExecution(ctx context.Context, l BackupLog, b BackupRoutine) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.routines[b.ID]
	if !ok {
		return ErrNotFound
	}
	r.logs = append(r.logs, l)
	cur.Status = b.Status
	cur.LastRun = b.LastRun
	cur.UpdatedAt = b.UpdatedAt
	r.routines[b.ID] = cur
	return nil
}

func (r *MemoryRepo) ListLogs(ctx context.Context, routineID string, limit int) ([]BackupLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []BackupLog
	for _, l := range r.logs {
		if routineID != "" && l.RoutineID != routineID {
			continue
		}
		out = append(out, l)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Logs returns every appended log in insertion order, for assertions.
func (r *MemoryRepo) Logs() []BackupLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]BackupLog, len(r.logs))
	copy(out, r.logs)
	return out
}
