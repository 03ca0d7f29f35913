package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/use-agent/ragforge/models"
)

// ProjectPostgresRepository persists projects and chunks to Postgres, with
// chunk embeddings stored as a pgvector column for downstream similarity
// search. EnsureSchema creates the tables from schemaSQL if they are missing.
type ProjectPostgresRepository struct {
	pool *pgxpool.Pool
}

func NewProjectPostgresRepository(pool *pgxpool.Pool) *ProjectPostgresRepository {
	return &ProjectPostgresRepository{pool: pool}
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS projects (
	id BIGSERIAL PRIMARY KEY,
	domain TEXT NOT NULL,
	display_name TEXT NOT NULL,
	status TEXT NOT NULL,
	settings JSONB NOT NULL,
	stats JSONB NOT NULL,
	queue JSONB NOT NULL DEFAULT '[]',
	processed JSONB NOT NULL DEFAULT '[]',
	errors JSONB NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS chunks (
	chunk_id TEXT PRIMARY KEY,
	project_id BIGINT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
	doc_id TEXT NOT NULL,
	chunk_index INT NOT NULL,
	text TEXT NOT NULL,
	record JSONB NOT NULL,
	embedding vector(1536)
);

CREATE INDEX IF NOT EXISTS chunks_project_id_idx ON chunks (project_id);
`

// EnsureSchema creates the projects/chunks tables if they don't exist.
func (r *ProjectPostgresRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, schemaSQL)
	return err
}

func (r *ProjectPostgresRepository) Create(ctx context.Context, p *models.Project) error {
	settings, err := json.Marshal(p.Settings)
	if err != nil {
		return err
	}
	stats, err := json.Marshal(p.Stats)
	if err != nil {
		return err
	}
	row := r.pool.QueryRow(ctx,
		`INSERT INTO projects (domain, display_name, status, settings, stats) VALUES ($1,$2,$3,$4,$5) RETURNING id`,
		p.Domain, p.DisplayName, p.Status, settings, stats)
	return row.Scan(&p.ID)
}

func (r *ProjectPostgresRepository) Get(ctx context.Context, id int64) (*models.Project, error) {
	var p models.Project
	var settings, stats []byte
	err := r.pool.QueryRow(ctx,
		`SELECT id, domain, display_name, status, settings, stats FROM projects WHERE id=$1`, id).
		Scan(&p.ID, &p.Domain, &p.DisplayName, &p.Status, &settings, &stats)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(settings, &p.Settings); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(stats, &p.Stats); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProjectPostgresRepository) List(ctx context.Context) ([]models.Project, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, domain, display_name, status, settings, stats FROM projects ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Project
	for rows.Next() {
		var p models.Project
		var settings, stats []byte
		if err := rows.Scan(&p.ID, &p.Domain, &p.DisplayName, &p.Status, &settings, &stats); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(settings, &p.Settings); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(stats, &p.Stats); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *ProjectPostgresRepository) Update(ctx context.Context, p *models.Project) error {
	settings, err := json.Marshal(p.Settings)
	if err != nil {
		return err
	}
	stats, err := json.Marshal(p.Stats)
	if err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE projects SET domain=$1, display_name=$2, status=$3, settings=$4, stats=$5 WHERE id=$6`,
		p.Domain, p.DisplayName, p.Status, settings, stats, p.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ProjectPostgresRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SaveChunks upserts every chunk for a project, storing embeddings as a
// pgvector column when present so downstream nearest-neighbor queries don't
// need a separate vector store.
func (r *ProjectPostgresRepository) SaveChunks(ctx context.Context, projectID int64, chunks []models.Chunk) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, c := range chunks {
		record, err := json.Marshal(c)
		if err != nil {
			return err
		}
		var emb *pgvector.Vector
		if len(c.Embedding) > 0 {
			v := pgvector.NewVector(c.Embedding)
			emb = &v
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO chunks (chunk_id, project_id, doc_id, chunk_index, text, record, embedding)
			VALUES ($1,$2,$3,$4,$5,$6,$7)
			ON CONFLICT (chunk_id) DO UPDATE SET
				doc_id=$3, chunk_index=$4, text=$5, record=$6, embedding=$7`,
			c.ChunkID, projectID, c.DocID, c.ChunkIndex, c.Text, record, emb)
		if err != nil {
			return fmt.Errorf("save chunk %s: %w", c.ChunkID, err)
		}
	}
	return tx.Commit(ctx)
}

func (r *ProjectPostgresRepository) GetChunks(ctx context.Context, projectID int64) ([]models.Chunk, error) {
	rows, err := r.pool.Query(ctx, `SELECT record FROM chunks WHERE project_id=$1 ORDER BY chunk_index`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Chunk
	for rows.Next() {
		var record []byte
		if err := rows.Scan(&record); err != nil {
			return nil, err
		}
		var c models.Chunk
		if err := json.Unmarshal(record, &c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
