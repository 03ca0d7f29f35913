package storage

import (
	"context"
	"sync"

	"github.com/use-agent/ragforge/models"
)

// MemoryRepository is an in-memory Repository, safe for concurrent use. It
// is the default backend: a single-process deployment needs nothing more.
type MemoryRepository struct {
	mu       sync.RWMutex
	projects map[int64]*models.Project
	nextID   int64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		projects: make(map[int64]*models.Project),
	}
}

func (r *MemoryRepository) Create(ctx context.Context, p *models.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	p.ID = r.nextID
	cp := *p
	r.projects[p.ID] = &cp
	return nil
}

func (r *MemoryRepository) Get(ctx context.Context, id int64) (*models.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.projects[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *MemoryRepository) List(ctx context.Context) ([]models.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Project, 0, len(r.projects))
	for _, p := range r.projects {
		out = append(out, *p)
	}
	return out, nil
}

func (r *MemoryRepository) Update(ctx context.Context, p *models.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.projects[p.ID]; !ok {
		return ErrNotFound
	}
	cp := *p
	r.projects[p.ID] = &cp
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.projects[id]; !ok {
		return ErrNotFound
	}
	delete(r.projects, id)
	return nil
}

func (r *MemoryRepository) SaveChunks(ctx context.Context, projectID int64, chunks []models.Chunk) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[projectID]
	if !ok {
		return ErrNotFound
	}
	p.Chunks = chunks
	return nil
}

func (r *MemoryRepository) GetChunks(ctx context.Context, projectID int64) ([]models.Chunk, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.projects[projectID]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]models.Chunk, len(p.Chunks))
	copy(out, p.Chunks)
	return out, nil
}
