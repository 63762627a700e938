// Package store persists job drives. Moderated drives are retained; listing
// filters them at read time.
//
// Error Contract:
//   - ErrNotFound when the drive does not exist
//   - validate callback errors from Execute are returned unchanged
package store

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"placement/internal/drive/models"
	id "placement/pkg/domain"
	"placement/pkg/platform/sentinel"
)

type InMemory struct {
	mu     sync.RWMutex
	drives map[id.DriveID]*models.Drive
}

func NewInMemory() *InMemory {
	return &InMemory{drives: make(map[id.DriveID]*models.Drive)}
}

func clone(d *models.Drive) *models.Drive {
	c := *d
	if d.BlockedBy != nil {
		b := *d.BlockedBy
		c.BlockedBy = &b
	}
	if d.DeletedBy != nil {
		b := *d.DeletedBy
		c.DeletedBy = &b
	}
	return &c
}

func (s *InMemory) Create(_ context.Context, d *models.Drive) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.drives[d.ID]; ok {
		return fmt.Errorf("drive %s: %w", d.ID, sentinel.ErrAlreadyUsed)
	}
	s.drives[d.ID] = clone(d)
	return nil
}

func (s *InMemory) FindByID(_ context.Context, driveID id.DriveID) (*models.Drive, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.drives[driveID]
	if !ok {
		return nil, fmt.Errorf("drive %s: %w", driveID, sentinel.ErrNotFound)
	}
	return clone(d), nil
}

func (s *InMemory) ListVisible(_ context.Context) ([]*models.Drive, error) {
	return s.list(func(d *models.Drive) bool { return d.IsVisible() }), nil
}

func (s *InMemory) ListByRecruiter(_ context.Context, recruiterID id.RecruiterID) ([]*models.Drive, error) {
	return s.list(func(d *models.Drive) bool { return d.RecruiterID == recruiterID }), nil
}

func (s *InMemory) list(keep func(*models.Drive) bool) []*models.Drive {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Drive, 0)
	for _, d := range s.drives {
		if keep(d) {
			out = append(out, clone(d))
		}
	}
	slices.SortFunc(out, func(a, b *models.Drive) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out
}

func (s *InMemory) Execute(_ context.Context, driveID id.DriveID, validate func(*models.Drive) error, mutate func(*models.Drive)) (*models.Drive, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drives[driveID]
	if !ok {
		return nil, fmt.Errorf("drive %s: %w", driveID, sentinel.ErrNotFound)
	}
	working := clone(d)
	if err := validate(working); err != nil {
		return nil, err
	}
	mutate(working)
	s.drives[driveID] = working
	return clone(working), nil
}
