package reporting

import (
	"context"
	"errors"

	"itam-platform/internal/assets"
	"itam-platform/internal/backups"
	"itam-platform/internal/docs"
)

// Repository abstracts data access for the dashboard. Implementations
// read current rows; all aggregation happens here.
type Repository interface {
	ListAssets(ctx context.Context) ([]assets.Asset, error)
	ListRoutines(ctx context.Context) ([]backups.BackupRoutine, error)
	ListDocuments(ctx context.Context) ([]docs.Document, error)
	ListCategories(ctx context.Context) ([]docs.DocCategory, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service { return &Service{repo: repo} }

func (s *Service) Summary(ctx context.Context) (Summary, error) {
	if s.repo == nil {
		return Summary{}, errors.New("reporting: repository not configured")
	}

	var out Summary

	assetRows, err := s.repo.ListAssets(ctx)
	if err != nil {
		return Summary{}, err
	}
	out.Assets.Total = len(assetRows)
	for _, a := range assetRows {
		switch a.Status {
		case assets.StatusActive:
			out.Assets.Active++
		case assets.StatusMaintenance:
			out.Assets.Maintenance++
		case assets.StatusRetired:
			out.Assets.Retired++
		}
	}

	docRows, err := s.repo.ListDocuments(ctx)
	if err != nil {
		return Summary{}, err
	}
	out.Documents.Total = len(docRows)
	for _, d := range docRows {
		if d.Type == docs.TypeCredential {
			out.Documents.Credentials++
		}
	}
	cats, err := s.repo.ListCategories(ctx)
	if err != nil {
		return Summary{}, err
	}
	out.Documents.Categories = len(cats)

	routines, err := s.repo.ListRoutines(ctx)
	if err != nil {
		return Summary{}, err
	}
	out.Backups.Routines = len(routines)
	for _, r := range routines {
		switch r.Status {
		case backups.StatusSuccess:
			out.Backups.Success++
		case backups.StatusError:
			out.Backups.Error++
		case backups.StatusPending:
			out.Backups.Pending++
		}
	}
	if ran := out.Backups.Success + out.Backups.Error; ran > 0 {
		out.Backups.SuccessRate = float64(out.Backups.Success) / float64(ran)
	}

	return out, nil
}

// RepoAdapter satisfies Repository on top of the domain repositories, so
// the dashboard reuses their filtering and ordering as-is.
type RepoAdapter struct {
	Assets  assets.Repository
	Backups backups.Repository
	Docs    docs.Repository
}

func (a RepoAdapter) ListAssets(ctx context.Context) ([]assets.Asset, error) {
	return a.Assets.List(ctx)
}

func (a RepoAdapter) ListRoutines(ctx context.Context) ([]backups.BackupRoutine, error) {
	return a.Backups.ListRoutines(ctx)
}

func (a RepoAdapter) ListDocuments(ctx context.Context) ([]docs.Document, error) {
	return a.Docs.ListDocuments(ctx, docs.Filter{})
}

func (a RepoAdapter) ListCategories(ctx context.Context) ([]docs.DocCategory, error) {
	return a.Docs.ListCategories(ctx)
}
