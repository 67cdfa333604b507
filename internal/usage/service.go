package usage

import (
	"context"

	"github.com/abduss/storeit/internal/filetype"
	"github.com/google/uuid"
)

type totalsStore interface {
	Totals(ctx context.Context, ownerID uuid.UUID) (map[filetype.Type]Bucket, error)
}

// Service builds usage reports for signed-in users.
type Service struct {
	repo  totalsStore
	quota int64
}

// NewService constructs a usage service. quota is the per-user storage
// allowance reported as the dashboard total.
func NewService(repo totalsStore, quota int64) *Service {
	return &Service{repo: repo, quota: quota}
}

// Totals loads the owner's per-type usage.
func (s *Service) Totals(ctx context.Context, ownerID uuid.UUID) (Totals, error) {
	byType, err := s.repo.Totals(ctx, ownerID)
	if err != nil {
		return Totals{}, err
	}
	return NewTotals(byType, s.quota), nil
}

// Report loads the owner's usage and projects it for the dashboard.
func (s *Service) Report(ctx context.Context, ownerID uuid.UUID) (Report, error) {
	totals, err := s.Totals(ctx, ownerID)
	if err != nil {
		return Report{}, err
	}
	return BuildReport(totals), nil
}

// Quota returns the per-user storage allowance in bytes.
func (s *Service) Quota() int64 {
	return s.quota
}
