package audit

import "time"

// Event is an immutable, append-only audit record of a privileged action.
//
// Invariants:
// - Events are never updated or deleted; there are no Update/Delete paths.
// - user_id is required: anonymous requests never reach audited operations.
// - Recording is best-effort; do not block primary flows on audit failures.
type Event struct {
	ID     string `json:"id" db:"id"`
	UserID string `json:"userId" db:"user_id"`

	// Action is the business operation, e.g. CREATE_ASSET.
	Action string `json:"action" db:"action"`

	// Resource identifies the affected entity (usually its id).
	Resource string `json:"resource" db:"resource"`

	CreatedAt time.Time `json:"timestamp" db:"created_at"`
}

// Known actions. Keep stable; admins filter on these.
const (
	ActionCreateAsset = "CREATE_ASSET"
	ActionUpdateAsset = "UPDATE_ASSET"
)

// UserRef is the subset of the user row exposed on admin listings.
type UserRef struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// EventWithUser is the admin-review shape: the event joined with the acting
// user's name and email.
type EventWithUser struct {
	Event
	User UserRef `json:"user"`
}
