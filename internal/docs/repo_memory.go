package docs

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryRepo is an in-memory document store for tests. Filtering and
// ordering mirror the Postgres repository.
type MemoryRepo struct {
	mu         sync.Mutex
	documents  map[string]Document
	categories map[string]DocCategory
	accessLogs []DocAccessLog
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		documents:  map[string]Document{},
		categories: map[string]DocCategory{},
	}
}

func (r *MemoryRepo) ListDocuments(ctx context.Context, f Filter) ([]Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	needle := strings.ToLower(f.Search)
	var out []Document
	for _, d := range r.documents {
		if f.CategoryID != "" && d.CategoryID != f.CategoryID {
			continue
		}
		if f.Type != "" && d.Type != f.Type {
			continue
		}
		if needle != "" && !containsFold(d.Title, needle) &&
			!containsFold(d.Description, needle) && !containsFold(d.Tags, needle) {
			continue
		}
		out = append(out, r.withCategory(d))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

func (r *MemoryRepo) GetDocument(ctx context.Context, id string) (Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.documents[id]; ok {
		return r.withCategory(d), nil
	}
	return Document{}, ErrNotFound
}

func (r *MemoryRepo) CreateDocument(ctx context.Context, d Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.documents[d.ID] = d
	return nil
}

func (r *MemoryRepo) UpdateDocument(ctx context.Context, id string, upd DocumentUpdate) (Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.documents[id]
	if !ok {
		return Document{}, ErrNotFound
	}
	d.Title = upd.Title
	d.CategoryID = upd.CategoryID
	d.Type = upd.Type
	d.Description = upd.Description
	d.Tags = upd.Tags
	d.Content = upd.Content
	d.FileURL = upd.FileURL
	d.FileType = upd.FileType
	d.CredUser = upd.CredUser
	if upd.CredPass != nil {
		d.CredPass = upd.CredPass
	}
	d.Responsible = upd.Responsible
	d.UpdatedAt = upd.UpdatedAt
	r.documents[id] = d
	return r.withCategory(d), nil
}

func (r *MemoryRepo) DeleteDocument(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.documents[id]; !ok {
		return ErrNotFound
	}
	delete(r.documents, id)
	return nil
}

func (r *MemoryRepo) AppendAccessLog(ctx context.Context, l DocAccessLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accessLogs = append(r.accessLogs, l)
	return nil
}

func (r *MemoryRepo) RecentAccessLogs(ctx context.Context, documentID string, limit int) ([]DocAccessLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []DocAccessLog
	for _, l := range r.accessLogs {
		if l.DocumentID == documentID {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// AccessLogs returns every appended log in insertion order, for assertions.
func (r *MemoryRepo) AccessLogs() []DocAccessLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]DocAccessLog, len(r.accessLogs))
	copy(out, r.accessLogs)
	return out
}

// StoredDocument bypasses masking for assertions on persisted state.
func (r *MemoryRepo) StoredDocument(id string) (Document, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.documents[id]
	return d, ok
}

func (r *MemoryRepo) ListCategories(ctx context.Context) ([]DocCategory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]DocCategory, 0, len(r.categories))
	for _, c := range r.categories {
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *MemoryRepo) CreateCategory(ctx context.Context, c DocCategory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.categories[c.ID] = c
	return nil
}

func (r *MemoryRepo) UpdateCategory(ctx context.Context, c DocCategory) (DocCategory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[c.ID]; !ok {
		return DocCategory{}, ErrNotFound
	}
	r.categories[c.ID] = c
	return c, nil
}

func (r *MemoryRepo) DeleteCategory(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[id]; !ok {
		return ErrNotFound
	}
	delete(r.categories, id)
	return nil
}

func (r *MemoryRepo) withCategory(d Document) Document {
	if c, ok := r.categories[d.CategoryID]; ok {
		d.Category = &c
	}
	return d
}

func containsFold(haystack, lowerNeedle string) bool {
	return strings.Contains(strings.ToLower(haystack), lowerNeedle)
}
