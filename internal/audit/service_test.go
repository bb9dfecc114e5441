package audit

import (
	"context"
	"testing"
	"time"
)

func TestService_AppendRequiresUserActionResource(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo, nil)

	if err := svc.Append(context.Background(), Event{Action: ActionCreateAsset, Resource: "a1"}); err == nil {
		t.Fatalf("expected error for missing user")
	}
	if err := svc.Append(context.Background(), Event{UserID: "u", Resource: "a1"}); err == nil {
		t.Fatalf("expected error for missing action")
	}
	if err := svc.Append(context.Background(), Event{UserID: "u", Action: ActionCreateAsset}); err == nil {
		t.Fatalf("expected error for missing resource")
	}
}

func TestService_RecordIsBestEffort(t *testing.T) {
	// A nil repository makes every append fail; Record must not panic or
	// propagate anything.
	svc := NewService(nil, nil)
	svc.Record(context.Background(), "u", ActionCreateAsset, "a1")
}

func TestService_ListRecentNewestFirstCapped(t *testing.T) {
	repo := NewMemoryRepo()
	repo.SetUser("u1", "Alice", "alice@corp.example")
	svc := NewService(repo, nil)

	base := time.Unix(1700000000, 0).UTC()
	for i := 0; i < 5; i++ {
		err := svc.Append(context.Background(), Event{
			UserID:    "u1",
			Action:    ActionCreateAsset,
			Resource:  "asset-x",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := svc.ListRecent(context.Background(), 3)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 events, got %d", len(got))
	}
	if !got[0].CreatedAt.After(got[1].CreatedAt) {
		t.Fatalf("expected newest first")
	}
	if got[0].User.Email != "alice@corp.example" {
		t.Fatalf("expected user join, got %+v", got[0].User)
	}
}

func TestService_ListRecentDefaultsLimit(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo, nil)
	if _, err := svc.ListRecent(context.Background(), 0); err != nil {
		t.Fatalf("list: %v", err)
	}
	if _, err := svc.ListRecent(context.Background(), 10_000); err != nil {
		t.Fatalf("list: %v", err)
	}
}
