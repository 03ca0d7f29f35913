package ragpack

import (
	"archive/zip"
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/use-agent/ragforge/chunker"
	"github.com/use-agent/ragforge/models"
)

// Pack builds the full archive for a project: manifest.json,
// documents.jsonl, chunks.jsonl, and schema/*.schema.json, zipped together.
// Embeddings are elided from chunks.jsonl unless includeEmbeddings is set.
func Pack(project *models.Project, includeEmbeddings bool, now time.Time) ([]byte, error) {
	documents := buildDocuments(project)
	documentsJSONL, err := writeJSONL(documents)
	if err != nil {
		return nil, fmt.Errorf("ragpack: encode documents: %w", err)
	}

	chunksJSONL, err := writeChunksJSONL(project.Chunks, includeEmbeddings)
	if err != nil {
		return nil, fmt.Errorf("ragpack: encode chunks: %w", err)
	}

	unique := 0
	for _, c := range project.Chunks {
		if !c.IsDuplicate {
			unique++
		}
	}

	manifest := Manifest{
		Version:        manifestVersion,
		CreatedAt:      now,
		Generator:      generatorName,
		Domain:         project.Domain,
		ProjectID:      project.ID,
		ChunkingConfig: project.Settings.Chunking,
		Counts: Counts{
			Documents: len(documents),
			Chunks:    len(project.Chunks),
			Unique:    unique,
		},
		Checksums: map[string]string{
			"documents.jsonl": "sha256:" + sha256Hex(documentsJSONL),
			"chunks.jsonl":    "sha256:" + sha256Hex(chunksJSONL),
		},
	}
	manifestJSON, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("ragpack: encode manifest: %w", err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	files := map[string][]byte{
		"manifest.json":              manifestJSON,
		"documents.jsonl":            documentsJSONL,
		"chunks.jsonl":               chunksJSONL,
		"schema/manifest.schema.json": manifestSchema,
		"schema/documents.schema.json": documentSchema,
		"schema/chunks.schema.json":   chunkSchema,
	}
	for name, data := range files {
		w, err := zw.Create(name)
		if err != nil {
			return nil, fmt.Errorf("ragpack: create archive entry %s: %w", name, err)
		}
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("ragpack: write archive entry %s: %w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("ragpack: close archive: %w", err)
	}
	return buf.Bytes(), nil
}

func buildDocuments(project *models.Project) []DocumentRecord {
	byDoc := make(map[string][]models.Chunk)
	for _, c := range project.Chunks {
		byDoc[c.DocID] = append(byDoc[c.DocID], c)
	}

	docs := make([]DocumentRecord, 0, len(project.Results))
	for _, page := range project.Results {
		docID := chunker.DocID(page.URL)
		chunks := byDoc[docID]
		sort.Slice(chunks, func(i, j int) bool { return chunks[i].ChunkIndex < chunks[j].ChunkIndex })

		var content string
		for _, c := range chunks {
			content += c.Text
		}

		docs = append(docs, DocumentRecord{
			DocID:       docID,
			Title:       page.Title,
			URL:         page.URL,
			Language:    firstNonEmpty(chunks),
			Source:      page.URL,
			FetchedAt:   page.Timestamp,
			ContentHash: chunker.ContentHash(content),
		})
	}
	return docs
}

func firstNonEmpty(chunks []models.Chunk) string {
	for _, c := range chunks {
		if c.Language != "" {
			return c.Language
		}
	}
	return ""
}

func writeJSONL(docs []DocumentRecord) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, d := range docs {
		if err := enc.Encode(d); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func writeChunksJSONL(chunks []models.Chunk, includeEmbeddings bool) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, c := range chunks {
		if !includeEmbeddings {
			c.Embedding = nil
		}
		if err := enc.Encode(c); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
