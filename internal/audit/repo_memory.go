package audit

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is a simple in-memory append-only repository useful for tests.
// It is not intended for production use.
type MemoryRepo struct {
	mu     sync.Mutex
	events []Event

	// Users maps user id to (name, email) for the admin listing join.
	users map[string]UserRef
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{users: map[string]UserRef{}}
}

// SetUser registers user details for ListRecent joins.
func (r *MemoryRepo) SetUser(id, name, email string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[id] = UserRef{Name: name, Email: email}
}

func (r *MemoryRepo) Append(ctx context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *MemoryRepo) ListRecent(ctx context.Context, limit int) ([]EventWithUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]EventWithUser, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, EventWithUser{Event: e, User: r.users[e.UserID]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Events returns a copy of everything appended, in insertion order.
func (r *MemoryRepo) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}
