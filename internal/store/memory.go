// Package store provides the in-memory JobStore. It is the default backend
// and the one tests run against; the pgx-backed store in internal/adapter/repo
// replaces it when a DATABASE_URL is configured.
package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/cseifert512/Drafted/internal/domain"
)

// Memory is a mutex-guarded job map. Every job crossing the boundary is
// deep-copied, so a snapshot handed to a status reader can never observe a
// later mutation: state and payload always belong together.
type Memory struct {
	mu   sync.RWMutex
	jobs map[string]*domain.Job
}

func NewMemory() *Memory {
	return &Memory{jobs: make(map[string]*domain.Job)}
}

func (m *Memory) Create(_ context.Context, job *domain.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.jobs[job.ID]; exists {
		return fmt.Errorf("job %s already exists", job.ID)
	}
	m.jobs[job.ID] = job.Clone()
	return nil
}

func (m *Memory) GetByID(_ context.Context, jobID string) (*domain.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	job, ok := m.jobs[jobID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return job.Clone(), nil
}

func (m *Memory) Update(_ context.Context, job *domain.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.jobs[job.ID]; !ok {
		return domain.ErrNotFound
	}
	m.jobs[job.ID] = job.Clone()
	return nil
}

func (m *Memory) DeleteByOpening(_ context.Context, planID, openingID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, job := range m.jobs {
		if job.PlanID == planID && job.Opening.ID == openingID {
			delete(m.jobs, id)
			return nil
		}
	}
	return domain.ErrNotFound
}

var _ domain.JobStore = (*Memory)(nil)
