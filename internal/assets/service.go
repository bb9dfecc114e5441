package assets

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Repository is the persistence contract for assets.
//
// Create and Update are semantic multi-write operations: the asset row and
// its history row must land in one transaction, so partial writes can never
// leave an asset without its trail.
type Repository interface {
	List(ctx context.Context) ([]Asset, error)
	Get(ctx context.Context, id string) (Asset, error)
	Create(ctx context.Context, a Asset, h AssetHistory) error
	Update(ctx context.Context, a Asset, h AssetHistory) (Asset, error)
	History(ctx context.Context, assetID string) ([]AssetHistory, error)
}

var (
	ErrNotFound        = errors.New("assets: not found")
	ErrInvalidArgument = errors.New("assets: invalid argument")
)

type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

type CreateInput struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Type     string      `json:"type"`
	Location string      `json:"location"`
	Status   AssetStatus `json:"status"`
	IP       string      `json:"ip"`
}

type UpdateInput struct {
	Name     string      `json:"name"`
	Type     string      `json:"type"`
	Location string      `json:"location"`
	Status   AssetStatus `json:"status"`
	IP       string      `json:"ip"`
}

// Create persists the asset together with its initial history row.
// The caller records the CREATE_ASSET audit event after commit.
func (s *Service) Create(ctx context.Context, in CreateInput) (Asset, error) {
	if in.ID == "" || in.Name == "" {
		return Asset{}, ErrInvalidArgument
	}
	if !in.Status.Valid() {
		return Asset{}, ErrInvalidArgument
	}

	now := s.clock().UTC()
	a := Asset{
		ID:        in.ID,
		Name:      in.Name,
		Type:      in.Type,
		Location:  in.Location,
		Status:    in.Status,
		IP:        in.IP,
		CreatedAt: now,
		UpdatedAt: now,
	}
	h := AssetHistory{
		ID:        uuid.NewString(),
		AssetID:   in.ID,
		Action:    HistoryActionCreated,
		Details:   "Ativo cadastrado no sistema",
		Timestamp: now,
	}

	if err := s.repo.Create(ctx, a, h); err != nil {
		return Asset{}, err
	}
	return a, nil
}

// Update replaces the mutable fields and appends an update history row.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Asset, error) {
	if id == "" || in.Name == "" {
		return Asset{}, ErrInvalidArgument
	}
	if !in.Status.Valid() {
		return Asset{}, ErrInvalidArgument
	}

	now := s.clock().UTC()
	a := Asset{
		ID:        id,
		Name:      in.Name,
		Type:      in.Type,
		Location:  in.Location,
		Status:    in.Status,
		IP:        in.IP,
		UpdatedAt: now,
	}
	h := AssetHistory{
		ID:        uuid.NewString(),
		AssetID:   id,
		Action:    HistoryActionUpdated,
		Details:   "Dados do ativo atualizados",
		Timestamp: now,
	}
	return s.repo.Update(ctx, a, h)
}

// List returns all assets, most recently updated first.
func (s *Service) List(ctx context.Context) ([]Asset, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (Asset, error) {
	if id == "" {
		return Asset{}, ErrNotFound
	}
	return s.repo.Get(ctx, id)
}

// History returns the asset's trail, newest first.
func (s *Service) History(ctx context.Context, assetID string) ([]AssetHistory, error) {
	if assetID == "" {
		return nil, ErrNotFound
	}
	if _, err := s.repo.Get(ctx, assetID); err != nil {
		return nil, err
	}
	return s.repo.History(ctx, assetID)
}
