package users

import (
	"context"
	"errors"
	"testing"
)

func seedUser(t *testing.T, repo *MemoryRepo, email, password, role string) User {
	t.Helper()
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u := User{ID: "u-" + email, Email: email, Name: "Test User", PasswordHash: hash, Role: role}
	repo.Add(u)
	return u
}

func TestAuthenticate_Succeeds(t *testing.T) {
	repo := NewMemoryRepo()
	seedUser(t, repo, "admin@corp.example", "s3cret", "ADMIN")
	svc := NewService(repo)

	u, err := svc.Authenticate(context.Background(), "admin@corp.example", "s3cret")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if u.Role != "ADMIN" {
		t.Fatalf("unexpected role %q", u.Role)
	}
}

func TestAuthenticate_EmailIsCaseInsensitive(t *testing.T) {
	repo := NewMemoryRepo()
	seedUser(t, repo, "Admin@Corp.Example", "s3cret", "ADMIN")
	svc := NewService(repo)

	if _, err := svc.Authenticate(context.Background(), "admin@corp.example", "s3cret"); err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), "  ADMIN@CORP.EXAMPLE ", "s3cret"); err != nil {
		t.Fatalf("authenticate trimmed/upper: %v", err)
	}
}

func TestAuthenticate_WrongPasswordAndUnknownUserLookAlike(t *testing.T) {
	repo := NewMemoryRepo()
	seedUser(t, repo, "ti@corp.example", "right", "TI")
	svc := NewService(repo)

	_, errWrong := svc.Authenticate(context.Background(), "ti@corp.example", "wrong")
	_, errUnknown := svc.Authenticate(context.Background(), "ghost@corp.example", "whatever")

	if !errors.Is(errWrong, ErrInvalidCredentials) || !errors.Is(errUnknown, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for both, got %v / %v", errWrong, errUnknown)
	}
}

func TestHashPassword_SaltedButVerifiable(t *testing.T) {
	h1, err := HashPassword("hunter2")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	h2, err := HashPassword("hunter2")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if h1 == h2 {
		t.Fatalf("expected different hashes for same input (salted)")
	}

	repo := NewMemoryRepo()
	repo.Add(User{ID: "u1", Email: "x@corp.example", PasswordHash: h1, Role: "VIEWER"})
	svc := NewService(repo)
	if _, err := svc.Authenticate(context.Background(), "x@corp.example", "hunter2"); err != nil {
		t.Fatalf("verify against first hash: %v", err)
	}
}
