package users

import "time"

// User is an operator account.
//
// Invariants:
// - email is unique case-insensitively; lookups lowercase the input
// - PasswordHash is a bcrypt hash and is never serialized to clients
type User struct {
	ID    string `json:"id" db:"id"`
	Email string `json:"email" db:"email"`
	Name  string `json:"name" db:"name"`

	PasswordHash string `json:"-" db:"password"`

	// Role is one of the rbac role literals (ADMIN, TI, VIEWER).
	Role string `json:"role" db:"role"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
