package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/MandarKelkarOfficial/talent-sync/internal/common"
	"github.com/MandarKelkarOfficial/talent-sync/internal/entity"
)

// InMemoryJobStore keeps jobs in a process-local map. This is the default
// backend: jobs do not survive a restart, which the design accepts.
type InMemoryJobStore struct {
	mu   sync.RWMutex
	jobs map[string]*entity.Job
}

// NewInMemory constructs an empty in-memory job store.
func NewInMemory() *InMemoryJobStore {
	return &InMemoryJobStore{jobs: make(map[string]*entity.Job)}
}

func (s *InMemoryJobStore) Create(_ context.Context, job *entity.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[job.ID]; ok {
		return fmt.Errorf("job %s already exists: %w", job.ID, common.ErrInvalidInput)
	}
	s.jobs[job.ID] = job.Clone()
	return nil
}

func (s *InMemoryJobStore) Get(_ context.Context, id string) (*entity.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, fmt.Errorf("job %s: %w", id, common.ErrNotFound)
	}
	return job.Clone(), nil
}

func (s *InMemoryJobStore) Update(_ context.Context, job *entity.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[job.ID]; !ok {
		return fmt.Errorf("job %s: %w", job.ID, common.ErrNotFound)
	}
	s.jobs[job.ID] = job.Clone()
	return nil
}

func (s *InMemoryJobStore) Snapshot(_ context.Context, id string) (*entity.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, fmt.Errorf("job %s: %w", id, common.ErrNotFound)
	}
	return job.Sanitized(), nil
}

func (s *InMemoryJobStore) List(_ context.Context) ([]*entity.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*entity.Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		out = append(out, job.Sanitized())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
