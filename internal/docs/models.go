package docs

import "time"

// TypeCredential marks documents that carry a stored login credential.
// Only this type ever has a non-null credPass.
const TypeCredential = "Credencial"

// MaskSecret is the fixed placeholder returned instead of a stored secret.
// It signals "a secret exists" without revealing it, and is also the write
// sentinel: a client echoing the mask back on update means "keep the stored
// value".
const MaskSecret = "••••••••"

// Document is a knowledge-base entry: runbook, contract, network diagram or
// stored credential.
//
// Invariants:
// - CredPass holds a bcrypt hash, never plaintext, and only when
//   Type == TypeCredential.
// - Read paths replace CredPass with MaskSecret (or null when absent); the
//   hash never reaches clients.
type Document struct {
	ID         string `json:"id" db:"id"`
	Title      string `json:"title" db:"title"`
	CategoryID string `json:"categoryId" db:"category_id"`
	Type       string `json:"type" db:"type"`

	Description string `json:"description" db:"description"`
	Tags        string `json:"tags" db:"tags"`
	Content     string `json:"content" db:"content"`
	FileURL     string `json:"fileUrl" db:"file_url"`
	FileType    string `json:"fileType" db:"file_type"`

	CredUser string  `json:"credUser" db:"cred_user"`
	CredPass *string `json:"credPass" db:"cred_pass"`

	Responsible string `json:"responsible" db:"responsible"`
	CreatedBy   string `json:"createdBy" db:"created_by"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	Category *DocCategory `json:"category,omitempty"`
}

// Masked returns a copy safe to serialize: credPass becomes the mask when a
// secret is stored and stays null otherwise.
func (d Document) Masked() Document {
	if d.CredPass != nil {
		m := MaskSecret
		d.CredPass = &m
	}
	return d
}

// DocCategory groups documents in the UI sidebar.
type DocCategory struct {
	ID   string `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
	Icon string `json:"icon" db:"icon"`
}

// DefaultCategoryIcon is applied when a category is created without one.
const DefaultCategoryIcon = "folder"

// AccessAction categorizes document touches.
type AccessAction string

const (
	AccessView           AccessAction = "VIEW"
	AccessEdit           AccessAction = "EDIT"
	AccessCreate         AccessAction = "CREATE"
	AccessViewCredential AccessAction = "VIEW_CREDENTIAL"
)

// DocAccessLog is an append-only record of any touch on a document,
// including passive views by anonymous readers (nil UserID).
type DocAccessLog struct {
	ID         string       `json:"id" db:"id"`
	DocumentID string       `json:"documentId" db:"document_id"`
	UserID     *string      `json:"userId" db:"user_id"`
	Action     AccessAction `json:"action" db:"action"`

	Timestamp time.Time `json:"timestamp" db:"created_at"`
}
