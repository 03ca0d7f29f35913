package ai

import (
	"context"
	"time"

	"github.com/use-agent/ragforge/models"
)

// EmbedBatchSize and EnrichBatchSizeLimit are the fixed batch sizes the
// orchestrator uses when driving the embeddings and enrichment phases.
const (
	EmbedBatchSize       = 20
	EnrichBatchSizeLimit = 5
	EmbedBatchDelay      = 100 * time.Millisecond
	EnrichBatchDelay     = 200 * time.Millisecond
)

// EmbedChunks embeds the given chunk indices in fixed-size batches with an
// inter-batch delay, writing vectors back into chunks in place. Indices
// that already carry an embedding should be filtered out by the caller
// before calling this (skip semantics live in the orchestrator).
func EmbedChunks(ctx context.Context, client *Client, chunks []models.Chunk, indices []int, model string) error {
	for start := 0; start < len(indices); start += EmbedBatchSize {
		end := start + EmbedBatchSize
		if end > len(indices) {
			end = len(indices)
		}
		batch := indices[start:end]

		texts := make([]string, len(batch))
		for i, idx := range batch {
			texts[i] = chunks[idx].Text
		}

		vectors, err := client.Embed(ctx, model, texts)
		if err != nil {
			return err
		}
		for i, idx := range batch {
			if i < len(vectors) {
				chunks[idx].Embedding = vectors[i]
			}
		}

		if end < len(indices) {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(EmbedBatchDelay):
			}
		}
	}
	return nil
}
