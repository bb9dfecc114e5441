package assets

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestCreate_WritesAssetAndCreationHistory(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)
	now := time.Unix(1700000000, 0).UTC()
	svc.clock = fixedClock(now)

	a, err := svc.Create(context.Background(), CreateInput{
		ID: "PAT-001", Name: "Servidor Arquivos", Type: "Servidor",
		Location: "Datacenter", Status: StatusActive, IP: "10.0.0.5",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if a.CreatedAt != now || a.UpdatedAt != now {
		t.Fatalf("expected clock timestamps, got %+v", a)
	}

	hist, err := svc.History(context.Background(), "PAT-001")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(hist) != 1 {
		t.Fatalf("expected exactly one history row, got %d", len(hist))
	}
	if hist[0].Action != HistoryActionCreated {
		t.Fatalf("expected %q, got %q", HistoryActionCreated, hist[0].Action)
	}
}

func TestCreate_RejectsInvalidInput(t *testing.T) {
	svc := NewService(NewMemoryRepo())

	cases := []CreateInput{
		{Name: "sem id", Status: StatusActive},
		{ID: "PAT-002", Status: StatusActive},
		{ID: "PAT-003", Name: "status inválido", Status: "Quebrado"},
	}
	for _, in := range cases {
		if _, err := svc.Create(context.Background(), in); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("input %+v: expected ErrInvalidArgument, got %v", in, err)
		}
	}
}

func TestUpdate_AppendsHistoryAndKeepsCreatedAt(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)
	created := time.Unix(1700000000, 0).UTC()
	svc.clock = fixedClock(created)

	if _, err := svc.Create(context.Background(), CreateInput{
		ID: "PAT-010", Name: "Switch Core", Type: "Rede", Status: StatusActive,
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	later := created.Add(time.Hour)
	svc.clock = fixedClock(later)
	a, err := svc.Update(context.Background(), "PAT-010", UpdateInput{
		Name: "Switch Core", Type: "Rede", Status: StatusMaintenance,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if a.Status != StatusMaintenance {
		t.Fatalf("expected status update, got %q", a.Status)
	}
	if a.CreatedAt != created || a.UpdatedAt != later {
		t.Fatalf("expected createdAt preserved and updatedAt bumped, got %+v", a)
	}

	hist, _ := svc.History(context.Background(), "PAT-010")
	if len(hist) != 2 || hist[0].Action != HistoryActionUpdated {
		t.Fatalf("expected update history first (newest), got %+v", hist)
	}
}

func TestUpdate_MissingAssetIsNotFound(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	_, err := svc.Update(context.Background(), "ghost", UpdateInput{Name: "x", Status: StatusActive})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestList_MostRecentlyUpdatedFirst(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)
	base := time.Unix(1700000000, 0).UTC()

	svc.clock = fixedClock(base)
	_, _ = svc.Create(context.Background(), CreateInput{ID: "A", Name: "a", Status: StatusActive})
	svc.clock = fixedClock(base.Add(time.Minute))
	_, _ = svc.Create(context.Background(), CreateInput{ID: "B", Name: "b", Status: StatusActive})

	got, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].ID != "B" {
		t.Fatalf("expected B first, got %+v", got)
	}
}
