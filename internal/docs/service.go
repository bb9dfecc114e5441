package docs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the cost factor for stored credential hashes.
const BcryptCost = 12

// RecentAccessLogLimit bounds the access trail embedded in a document read.
const RecentAccessLogLimit = 10

// Filter narrows document listings. CategoryID and Type are exact matches;
// Search is a case-insensitive substring matched against title OR
// description OR tags. All present filters are AND-combined.
type Filter struct {
	CategoryID string
	Type       string
	Search     string
}

// Repository is the persistence contract for documents, categories and the
// append-only access log.
type Repository interface {
	ListDocuments(ctx context.Context, f Filter) ([]Document, error)
	GetDocument(ctx context.Context, id string) (Document, error)
	CreateDocument(ctx context.Context, d Document) error
	UpdateDocument(ctx context.Context, id string, upd DocumentUpdate) (Document, error)
	DeleteDocument(ctx context.Context, id string) error

	AppendAccessLog(ctx context.Context, l DocAccessLog) error
	RecentAccessLogs(ctx context.Context, documentID string, limit int) ([]DocAccessLog, error)

	ListCategories(ctx context.Context) ([]DocCategory, error)
	CreateCategory(ctx context.Context, c DocCategory) error
	UpdateCategory(ctx context.Context, c DocCategory) (DocCategory, error)
	DeleteCategory(ctx context.Context, id string) error
}

// DocumentUpdate rewrites the mutable document fields. CredPass nil means
// "keep the stored secret"; non-nil replaces it (already hashed).
type DocumentUpdate struct {
	Title       string
	CategoryID  string
	Type        string
	Description string
	Tags        string
	Content     string
	FileURL     string
	FileType    string
	CredUser    string
	CredPass    *string
	Responsible string
	UpdatedAt   time.Time
}

var (
	ErrNotFound        = errors.New("docs: not found")
	ErrInvalidArgument = errors.New("docs: invalid argument")
	// ErrNotCredential is returned by Reveal for documents that are not of
	// type Credencial.
	ErrNotCredential = errors.New("docs: document is not a credential")
)

type Service struct {
	repo  Repository
	log   *slog.Logger
	clock func() time.Time
}

func NewService(repo Repository, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{repo: repo, log: log, clock: time.Now}
}

// DocumentInput is the client-supplied shape for create and update.
type DocumentInput struct {
	Title       string `json:"title"`
	CategoryID  string `json:"categoryId"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Tags        string `json:"tags"`
	Content     string `json:"content"`
	FileURL     string `json:"fileUrl"`
	FileType    string `json:"fileType"`
	CredUser    string `json:"credUser"`
	CredPass    string `json:"credPass"`
	Responsible string `json:"responsible"`
}

// DocumentWithLogs is the single-document read shape.
type DocumentWithLogs struct {
	Document
	AccessLogs []DocAccessLog `json:"accessLogs"`
}

// RevealResult confirms a stored credential without disclosing it. The
// stored value is a one-way hash, so there is no plaintext to return; the
// reveal contract is "access was checked and logged".
type RevealResult struct {
	CredUser  string `json:"credUser"`
	HasSecret bool   `json:"hasSecret"`
}

// List returns matching documents, most recently updated first, masked.
func (s *Service) List(ctx context.Context, f Filter) ([]Document, error) {
	rows, err := s.repo.ListDocuments(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]Document, 0, len(rows))
	for _, d := range rows {
		out = append(out, d.Masked())
	}
	return out, nil
}

// Get returns one document with its recent access trail and records a VIEW
// touch, attributed to userID when present (nil for anonymous readers).
func (s *Service) Get(ctx context.Context, id string, userID *string) (DocumentWithLogs, error) {
	if id == "" {
		return DocumentWithLogs{}, ErrNotFound
	}
	d, err := s.repo.GetDocument(ctx, id)
	if err != nil {
		return DocumentWithLogs{}, err
	}

	logs, err := s.repo.RecentAccessLogs(ctx, id, RecentAccessLogLimit)
	if err != nil {
		return DocumentWithLogs{}, err
	}

	s.logAccess(ctx, d.ID, userID, AccessView)

	return DocumentWithLogs{Document: d.Masked(), AccessLogs: logs}, nil
}

// Create stores a document. A non-empty credPass on a Credencial document is
// bcrypt-hashed before it touches storage; the plaintext is never persisted.
func (s *Service) Create(ctx context.Context, in DocumentInput, createdBy string) (Document, error) {
	if in.Title == "" || in.CategoryID == "" || in.Type == "" {
		return Document{}, ErrInvalidArgument
	}

	now := s.clock().UTC()
	d := Document{
		ID:          uuid.NewString(),
		Title:       in.Title,
		CategoryID:  in.CategoryID,
		Type:        in.Type,
		Description: in.Description,
		Tags:        in.Tags,
		Content:     in.Content,
		FileURL:     in.FileURL,
		FileType:    in.FileType,
		CredUser:    in.CredUser,
		Responsible: in.Responsible,
		CreatedBy:   createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if hash, ok, err := hashCredential(in.Type, in.CredPass); err != nil {
		return Document{}, err
	} else if ok {
		d.CredPass = &hash
	}

	if err := s.repo.CreateDocument(ctx, d); err != nil {
		return Document{}, err
	}

	s.logAccess(ctx, d.ID, &createdBy, AccessCreate)

	return d.Masked(), nil
}

// Update rewrites the mutable fields. A credPass equal to the mask sentinel
// (or empty) keeps the stored secret untouched.
func (s *Service) Update(ctx context.Context, id string, in DocumentInput, editedBy string) (Document, error) {
	if id == "" {
		return Document{}, ErrNotFound
	}
	if in.Title == "" || in.CategoryID == "" || in.Type == "" {
		return Document{}, ErrInvalidArgument
	}

	upd := DocumentUpdate{
		Title:       in.Title,
		CategoryID:  in.CategoryID,
		Type:        in.Type,
		Description: in.Description,
		Tags:        in.Tags,
		Content:     in.Content,
		FileURL:     in.FileURL,
		FileType:    in.FileType,
		CredUser:    in.CredUser,
		Responsible: in.Responsible,
		UpdatedAt:   s.clock().UTC(),
	}

	if hash, ok, err := hashCredential(in.Type, in.CredPass); err != nil {
		return Document{}, err
	} else if ok {
		upd.CredPass = &hash
	}

	d, err := s.repo.UpdateDocument(ctx, id, upd)
	if err != nil {
		return Document{}, err
	}

	s.logAccess(ctx, d.ID, &editedBy, AccessEdit)

	return d.Masked(), nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrNotFound
	}
	return s.repo.DeleteDocument(ctx, id)
}

// Reveal checks that the document is a credential, records the privileged
// VIEW_CREDENTIAL touch, and confirms whether a secret is on file. The
// stored value is a one-way hash and is never returned.
func (s *Service) Reveal(ctx context.Context, id string, userID string) (RevealResult, error) {
	if id == "" {
		return RevealResult{}, ErrNotCredential
	}
	d, err := s.repo.GetDocument(ctx, id)
	if err != nil {
		// A missing document is answered the same as a non-credential.
		if errors.Is(err, ErrNotFound) {
			return RevealResult{}, ErrNotCredential
		}
		return RevealResult{}, err
	}
	if d.Type != TypeCredential {
		return RevealResult{}, ErrNotCredential
	}

	s.logAccess(ctx, d.ID, &userID, AccessViewCredential)

	return RevealResult{CredUser: d.CredUser, HasSecret: d.CredPass != nil}, nil
}

// VerifyCredential checks a plaintext against the stored hash. Exposed for
// integrations that validate a credential without revealing it.
func (s *Service) VerifyCredential(ctx context.Context, id, plaintext string) (bool, error) {
	d, err := s.repo.GetDocument(ctx, id)
	if err != nil {
		return false, err
	}
	if d.Type != TypeCredential || d.CredPass == nil {
		return false, ErrNotCredential
	}
	return bcrypt.CompareHashAndPassword([]byte(*d.CredPass), []byte(plaintext)) == nil, nil
}

/* ===================== CATEGORIES ===================== */

// Categories returns all categories sorted by name.
func (s *Service) Categories(ctx context.Context) ([]DocCategory, error) {
	return s.repo.ListCategories(ctx)
}

func (s *Service) CreateCategory(ctx context.Context, name, icon string) (DocCategory, error) {
	if name == "" {
		return DocCategory{}, ErrInvalidArgument
	}
	if icon == "" {
		icon = DefaultCategoryIcon
	}
	c := DocCategory{ID: uuid.NewString(), Name: name, Icon: icon}
	if err := s.repo.CreateCategory(ctx, c); err != nil {
		return DocCategory{}, err
	}
	return c, nil
}

func (s *Service) UpdateCategory(ctx context.Context, id, name, icon string) (DocCategory, error) {
	if id == "" {
		return DocCategory{}, ErrNotFound
	}
	if name == "" {
		return DocCategory{}, ErrInvalidArgument
	}
	return s.repo.UpdateCategory(ctx, DocCategory{ID: id, Name: name, Icon: icon})
}

func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	if id == "" {
		return ErrNotFound
	}
	return s.repo.DeleteCategory(ctx, id)
}

/* ===================== INTERNAL ===================== */

// hashCredential returns the bcrypt hash for a new credential secret.
// ok is false when the input should not change the stored value: wrong
// document type, empty secret, or the client echoing the mask back.
func hashCredential(docType, credPass string) (string, bool, error) {
	if docType != TypeCredential || credPass == "" || credPass == MaskSecret {
		return "", false, nil
	}
	b, err := bcrypt.GenerateFromPassword([]byte(credPass), BcryptCost)
	if err != nil {
		return "", false, err
	}
	return string(b), true, nil
}

// logAccess appends to the document access trail. Best-effort: a failed
// trail write is logged for operators, never surfaced to the reader.
func (s *Service) logAccess(ctx context.Context, documentID string, userID *string, action AccessAction) {
	l := DocAccessLog{
		ID:         uuid.NewString(),
		DocumentID: documentID,
		UserID:     userID,
		Action:     action,
		Timestamp:  s.clock().UTC(),
	}
	if err := s.repo.AppendAccessLog(ctx, l); err != nil {
		s.log.Warn("doc access log write failed", "document_id", documentID, "action", action, "err", err)
	}
}
