// Package store persists students and recruiters.
//
// Error Contract:
//   - ErrNotFound when the account does not exist
//   - ErrAlreadyUsed when registering an id that is taken
//   - validate callback errors from Execute are returned unchanged
package store

import (
	"context"
	"fmt"
	"sync"

	"placement/internal/account/models"
	id "placement/pkg/domain"
	"placement/pkg/platform/sentinel"
)

// InMemory stores accounts in maps for tests and local runs.
type InMemory struct {
	mu         sync.RWMutex
	students   map[id.StudentID]*models.Student
	recruiters map[id.RecruiterID]*models.Recruiter
}

func NewInMemory() *InMemory {
	return &InMemory{
		students:   make(map[id.StudentID]*models.Student),
		recruiters: make(map[id.RecruiterID]*models.Recruiter),
	}
}

func cloneStudent(s *models.Student) *models.Student {
	c := *s
	if s.BlockedBy != nil {
		b := *s.BlockedBy
		c.BlockedBy = &b
	}
	if s.UnblockedAt != nil {
		t := *s.UnblockedAt
		c.UnblockedAt = &t
	}
	return &c
}

func (s *InMemory) CreateStudent(_ context.Context, student *models.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.students[student.ID]; ok {
		return fmt.Errorf("student %s: %w", student.ID, sentinel.ErrAlreadyUsed)
	}
	s.students[student.ID] = cloneStudent(student)
	return nil
}

func (s *InMemory) FindStudent(_ context.Context, studentID id.StudentID) (*models.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	student, ok := s.students[studentID]
	if !ok {
		return nil, fmt.Errorf("student %s: %w", studentID, sentinel.ErrNotFound)
	}
	return cloneStudent(student), nil
}

// ExecuteStudent runs validate then mutate under the write lock.
func (s *InMemory) ExecuteStudent(_ context.Context, studentID id.StudentID, validate func(*models.Student) error, mutate func(*models.Student)) (*models.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	student, ok := s.students[studentID]
	if !ok {
		return nil, fmt.Errorf("student %s: %w", studentID, sentinel.ErrNotFound)
	}
	working := cloneStudent(student)
	if err := validate(working); err != nil {
		return nil, err
	}
	mutate(working)
	s.students[studentID] = working
	return cloneStudent(working), nil
}

func (s *InMemory) CreateRecruiter(_ context.Context, recruiter *models.Recruiter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.recruiters[recruiter.ID]; ok {
		return fmt.Errorf("recruiter %s: %w", recruiter.ID, sentinel.ErrAlreadyUsed)
	}
	c := *recruiter
	s.recruiters[recruiter.ID] = &c
	return nil
}

func (s *InMemory) FindRecruiter(_ context.Context, recruiterID id.RecruiterID) (*models.Recruiter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	recruiter, ok := s.recruiters[recruiterID]
	if !ok {
		return nil, fmt.Errorf("recruiter %s: %w", recruiterID, sentinel.ErrNotFound)
	}
	c := *recruiter
	return &c, nil
}
