// Package storage holds project/chunk persistence. The default
// implementation is in-memory; ProjectPostgresRepository is the optional
// durable backend for deployments that embed or enrich at scale.
package storage

import (
	"context"
	"errors"

	"github.com/use-agent/ragforge/models"
)

// ErrNotFound is returned when a lookup finds no matching project.
var ErrNotFound = errors.New("storage: project not found")

// Repository is the persistence boundary the API handlers and orchestrator
// depend on. Both the in-memory and Postgres-backed implementations satisfy
// it identically.
type Repository interface {
	Create(ctx context.Context, p *models.Project) error
	Get(ctx context.Context, id int64) (*models.Project, error)
	List(ctx context.Context) ([]models.Project, error)
	Update(ctx context.Context, p *models.Project) error
	Delete(ctx context.Context, id int64) error

	SaveChunks(ctx context.Context, projectID int64, chunks []models.Chunk) error
	GetChunks(ctx context.Context, projectID int64) ([]models.Chunk, error)
}
