package assets

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory asset store for tests. Create/Update apply the
// asset row and its history row under one lock, mirroring the transactional
// guarantee of the Postgres repository.
type MemoryRepo struct {
	mu      sync.Mutex
	assets  map[string]Asset
	history []AssetHistory
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{assets: map[string]Asset{}}
}

func (r *MemoryRepo) List(ctx context.Context) ([]Asset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Asset, 0, len(r.assets))
	for _, a := range r.assets {
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

func (r *MemoryRepo) Get(ctx context.Context, id string) (Asset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.assets[id]; ok {
		return a, nil
	}
	return Asset{}, ErrNotFound
}

func (r *MemoryRepo) Create(ctx context.Context, a Asset, h AssetHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.assets[a.ID] = a
	r.history = append(r.history, h)
	return nil
}

func (r *MemoryRepo) Update(ctx context.Context, a Asset, h AssetHistory) (Asset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.assets[a.ID]
	if !ok {
		return Asset{}, ErrNotFound
	}
	a.CreatedAt = cur.CreatedAt
	r.assets[a.ID] = a
	r.history = append(r.history, h)
	return a, nil
}

func (r *MemoryRepo) History(ctx context.Context, assetID string) ([]AssetHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []AssetHistory
	for _, h := range r.history {
		if h.AssetID == assetID {
			out = append(out, h)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}
