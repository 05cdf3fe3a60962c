package store

import (
	"context"
	"errors"
	"sync"

	"github.com/traindesk/api/internal/model"
)

// ErrJobNotFound is returned for unknown job ids.
var ErrJobNotFound = errors.New("job not found")

// JobStore is the keyed store of import-job state. The background worker
// is the only writer for a given job id; the status endpoint reads.
type JobStore interface {
	Create(ctx context.Context, job *model.ImportJob) error
	Get(ctx context.Context, jobID string) (*model.ImportJob, error)
	Update(ctx context.Context, job *model.ImportJob) error
}

// MemoryJobStore keeps jobs in a process-local map. State does not survive
// a restart.
type MemoryJobStore struct {
	mu   sync.RWMutex
	jobs map[string]model.ImportJob
}

func NewMemoryJobStore() *MemoryJobStore {
	return &MemoryJobStore{jobs: make(map[string]model.ImportJob)}
}

func (s *MemoryJobStore) Create(ctx context.Context, job *model.ImportJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = *job
	return nil
}

func (s *MemoryJobStore) Get(ctx context.Context, jobID string) (*model.ImportJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[jobID]
	if !ok {
		return nil, ErrJobNotFound
	}
	return &job, nil
}

func (s *MemoryJobStore) Update(ctx context.Context, job *model.ImportJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[job.ID]; !ok {
		return ErrJobNotFound
	}
	s.jobs[job.ID] = *job
	return nil
}
