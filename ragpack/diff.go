package ragpack

import (
	"time"

	"github.com/use-agent/ragforge/models"
)

// IncrementalDiff is the result of comparing a project's current chunks
// against the snapshot recorded at its last export.
type IncrementalDiff struct {
	New        []models.Chunk `json:"new"`
	Updated    []models.Chunk `json:"updated"`
	DeletedIDs []string       `json:"deleted_ids"`
	ExportedAt time.Time      `json:"exported_at"`
}

// Diff compares project.Chunks against project.ExportedChunkHashes (the
// snapshot from the last export) and returns the three-way delta. It does
// not mutate the project; callers persist the new snapshot themselves,
// atomically, alongside whatever export they just produced.
func Diff(project *models.Project, now time.Time) IncrementalDiff {
	prev := project.ExportedChunkHashes
	current := make(map[string]string, len(project.Chunks))

	var result IncrementalDiff
	result.ExportedAt = now

	for _, c := range project.Chunks {
		current[c.ChunkID] = c.ContentHash
		oldHash, known := prev[c.ChunkID]
		switch {
		case !known:
			result.New = append(result.New, c)
		case oldHash != c.ContentHash:
			result.Updated = append(result.Updated, c)
		}
	}

	for id := range prev {
		if _, stillPresent := current[id]; !stillPresent {
			result.DeletedIDs = append(result.DeletedIDs, id)
		}
	}

	return result
}

// Snapshot computes the {chunk_id: content_hash} map to persist after an
// export, so the next incremental diff has something to compare against.
func Snapshot(project *models.Project) map[string]string {
	snap := make(map[string]string, len(project.Chunks))
	for _, c := range project.Chunks {
		snap[c.ChunkID] = c.ContentHash
	}
	return snap
}
