package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/use-agent/ragforge/models"
)

// validCategories is the fixed vocabulary AI-derived categories are
// validated against; anything else is dropped.
var validCategories = map[string]bool{
	"tutorial": true, "reference": true, "api-docs": true, "conceptual": true,
	"troubleshooting": true, "changelog": true, "marketing": true, "other": true,
}

type enrichmentResponse struct {
	Keywords []string `json:"keywords"`
	Summary  string   `json:"summary"`
	Category string   `json:"category"`
	Entities []string `json:"entities"`
}

// Features toggles which enrichment sub-tasks run.
type Features struct {
	ExtractKeywords bool
	GenerateSummary bool
	DetectCategory  bool
	ExtractEntities bool
}

const enrichSystemPrompt = `You are a metadata extraction assistant for a retrieval system. Given a text chunk, return a JSON object with:
- "keywords": an array of up to 8 salient keywords/phrases (omit if not requested)
- "summary": a one-sentence summary (omit if not requested)
- "category": one of tutorial, reference, api-docs, conceptual, troubleshooting, changelog, marketing, other (omit if not requested)
- "entities": named entities mentioned in the text (omit if not requested)

Return ONLY valid JSON, no markdown fences or explanation. Omit fields that were not requested rather than guessing.`

// EnrichChunk runs the enrichment sub-tasks for one chunk and returns
// its metadata. A category outside validCategories is dropped rather than
// failing the whole call; entities are passed through as returned, without
// validation.
func (c *Client) EnrichChunk(ctx context.Context, model string, text string, feat Features) (*models.AIMetadata, error) {
	raw, err := c.Chat(ctx, model, enrichSystemPrompt, text)
	if err != nil {
		return nil, err
	}

	var parsed enrichmentResponse
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, models.NewPipelineError("enrichment", models.ErrCodeLLMFailure, "malformed enrichment response", err)
	}

	meta := &models.AIMetadata{}
	if feat.ExtractKeywords {
		meta.Keywords = parsed.Keywords
	}
	if feat.GenerateSummary {
		meta.Summary = parsed.Summary
	}
	if feat.DetectCategory && validCategories[parsed.Category] {
		meta.Category = parsed.Category
	}
	if feat.ExtractEntities {
		meta.Entities = parsed.Entities
	}
	return meta, nil
}

// EnrichBatch runs EnrichChunk over a batch of chunk indices in parallel,
// writing results back into chunks in place. Errors are collected per
// index; a single chunk's failure does not abort the batch.
func EnrichBatch(ctx context.Context, client *Client, chunks []models.Chunk, indices []int, model string, feat Features) map[int]error {
	var wg sync.WaitGroup
	var mu sync.Mutex
	errs := make(map[int]error)

	for _, idx := range indices {
		idx := idx
		wg.Add(1)
		go func() {
			defer wg.Done()
			meta, err := client.EnrichChunk(ctx, model, chunks[idx].Text, feat)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs[idx] = fmt.Errorf("chunk %s: %w", chunks[idx].ChunkID, err)
				return
			}
			chunks[idx].AIMetadata = meta
		}()
	}
	wg.Wait()
	return errs
}
