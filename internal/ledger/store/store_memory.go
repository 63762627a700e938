// Package store persists the application ledger.
//
// Error Contract:
//   - ErrNotFound when no application exists for the (student, drive) pair
//   - GetOrCreate never fails on the (student, drive) uniqueness rule; the
//     existing entry is returned instead
package store

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"placement/internal/ledger/models"
	id "placement/pkg/domain"
	"placement/pkg/platform/sentinel"
)

type key struct {
	student id.StudentID
	drive   id.DriveID
}

// InMemory enforces the (student, drive) uniqueness rule under its mutex,
// mirroring the UNIQUE constraint of the Postgres table.
type InMemory struct {
	mu           sync.RWMutex
	applications map[key]*models.Application
	byDrive      map[id.DriveID]map[id.StudentID]struct{}
}

func NewInMemory() *InMemory {
	return &InMemory{
		applications: make(map[key]*models.Application),
		byDrive:      make(map[id.DriveID]map[id.StudentID]struct{}),
	}
}

func clone(a *models.Application) *models.Application {
	c := *a
	return &c
}

func (s *InMemory) insertLocked(a *models.Application) {
	s.applications[key{a.StudentID, a.DriveID}] = clone(a)
	students, ok := s.byDrive[a.DriveID]
	if !ok {
		students = make(map[id.StudentID]struct{})
		s.byDrive[a.DriveID] = students
	}
	students[a.StudentID] = struct{}{}
}

// GetOrCreate returns the existing entry for the pair, or stores a.
func (s *InMemory) GetOrCreate(_ context.Context, a *models.Application) (*models.Application, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.applications[key{a.StudentID, a.DriveID}]; ok {
		return clone(existing), false, nil
	}
	s.insertLocked(a)
	return clone(a), true, nil
}

func (s *InMemory) Find(_ context.Context, studentID id.StudentID, driveID id.DriveID) (*models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.applications[key{studentID, driveID}]
	if !ok {
		return nil, fmt.Errorf("application %s/%s: %w", studentID, driveID, sentinel.ErrNotFound)
	}
	return clone(a), nil
}

func (s *InMemory) ListByStudent(_ context.Context, studentID id.StudentID) ([]*models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Application, 0)
	for k, a := range s.applications {
		if k.student == studentID {
			out = append(out, clone(a))
		}
	}
	sortByAppliedAt(out)
	return out, nil
}

func (s *InMemory) ListByDrive(_ context.Context, driveID id.DriveID) ([]*models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Application, 0, len(s.byDrive[driveID]))
	for studentID := range s.byDrive[driveID] {
		out = append(out, clone(s.applications[key{studentID, driveID}]))
	}
	sortByAppliedAt(out)
	return out, nil
}

func (s *InMemory) Execute(_ context.Context, studentID id.StudentID, driveID id.DriveID, validate func(*models.Application) error, mutate func(*models.Application)) (*models.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key{studentID, driveID}
	a, ok := s.applications[k]
	if !ok {
		return nil, fmt.Errorf("application %s/%s: %w", studentID, driveID, sentinel.ErrNotFound)
	}
	working := clone(a)
	if err := validate(working); err != nil {
		return nil, err
	}
	mutate(working)
	s.applications[k] = working
	return clone(working), nil
}

func (s *InMemory) Delete(_ context.Context, studentID id.StudentID, driveID id.DriveID) (*models.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key{studentID, driveID}
	a, ok := s.applications[k]
	if !ok {
		return nil, fmt.Errorf("application %s/%s: %w", studentID, driveID, sentinel.ErrNotFound)
	}
	delete(s.applications, k)
	delete(s.byDrive[driveID], studentID)
	return a, nil
}

func sortByAppliedAt(apps []*models.Application) {
	slices.SortFunc(apps, func(a, b *models.Application) int {
		return cmp.Or(
			a.AppliedAt.Compare(b.AppliedAt),
			cmp.Compare(a.StudentID, b.StudentID),
			cmp.Compare(a.DriveID, b.DriveID),
		)
	})
}
