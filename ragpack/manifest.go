// Package ragpack writes and diffs the portable RAG pack archive: a
// manifest plus newline-delimited document and chunk records.
package ragpack

import (
	"time"

	"github.com/use-agent/ragforge/models"
)

const generatorName = "ragforge"
const manifestVersion = "1"

// Manifest describes one archive's contents and provenance.
type Manifest struct {
	Version        string            `json:"version"`
	CreatedAt      time.Time         `json:"created_at"`
	Generator      string            `json:"generator"`
	Domain         string            `json:"domain"`
	ProjectID      int64             `json:"project_id"`
	ChunkingConfig models.ChunkingSettings `json:"chunking_config"`
	Counts         Counts            `json:"counts"`
	Checksums      map[string]string `json:"checksums"`
}

// Counts summarizes the archive's record counts.
type Counts struct {
	Documents int `json:"documents"`
	Chunks    int `json:"chunks"`
	Unique    int `json:"unique_chunks"`
}

// DocumentRecord is one line of documents.jsonl.
type DocumentRecord struct {
	DocID       string `json:"doc_id"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Language    string `json:"language"`
	Source      string `json:"source"`
	FetchedAt   string `json:"fetched_at"`
	ContentHash string `json:"content_hash"`
}
