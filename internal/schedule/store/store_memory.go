// Package store persists interview schedules together with their candidate
// rosters.
//
// Error Contract:
//   - ErrNotFound when the schedule does not exist
//   - ErrAlreadyUsed when creating a schedule whose id is taken
//   - validate callback errors from Execute are returned unchanged
package store

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"placement/internal/schedule/models"
	id "placement/pkg/domain"
	"placement/pkg/platform/sentinel"
)

type InMemory struct {
	mu        sync.RWMutex
	schedules map[id.ScheduleID]*models.Schedule
}

func NewInMemory() *InMemory {
	return &InMemory{schedules: make(map[id.ScheduleID]*models.Schedule)}
}

func (s *InMemory) Create(_ context.Context, sch *models.Schedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.schedules[sch.ID]; ok {
		return fmt.Errorf("schedule %s: %w", sch.ID, sentinel.ErrAlreadyUsed)
	}
	s.schedules[sch.ID] = sch.Clone()
	return nil
}

func (s *InMemory) FindByID(_ context.Context, scheduleID id.ScheduleID) (*models.Schedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sch, ok := s.schedules[scheduleID]
	if !ok {
		return nil, fmt.Errorf("schedule %s: %w", scheduleID, sentinel.ErrNotFound)
	}
	return sch.Clone(), nil
}

func (s *InMemory) ListByDrive(_ context.Context, driveID id.DriveID) ([]*models.Schedule, error) {
	return s.list(func(sch *models.Schedule) bool { return sch.DriveID == driveID }), nil
}

// ListActiveByCandidate returns every schedule on which the student is still
// scheduled or ongoing, blocked schedules included.
func (s *InMemory) ListActiveByCandidate(_ context.Context, studentID id.StudentID) ([]*models.Schedule, error) {
	return s.list(func(sch *models.Schedule) bool { return sch.HasActiveCandidate(studentID) }), nil
}

func (s *InMemory) list(keep func(*models.Schedule) bool) []*models.Schedule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Schedule, 0)
	for _, sch := range s.schedules {
		if keep(sch) {
			out = append(out, sch.Clone())
		}
	}
	slices.SortFunc(out, func(a, b *models.Schedule) int {
		return a.Date.Compare(b.Date)
	})
	return out
}

func (s *InMemory) Execute(_ context.Context, scheduleID id.ScheduleID, validate func(*models.Schedule) error, mutate func(*models.Schedule)) (*models.Schedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sch, ok := s.schedules[scheduleID]
	if !ok {
		return nil, fmt.Errorf("schedule %s: %w", scheduleID, sentinel.ErrNotFound)
	}
	working := sch.Clone()
	if err := validate(working); err != nil {
		return nil, err
	}
	mutate(working)
	s.schedules[scheduleID] = working
	return working.Clone(), nil
}
