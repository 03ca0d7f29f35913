package orchestrator

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/use-agent/ragforge/ai"
	"github.com/use-agent/ragforge/chunker"
	"github.com/use-agent/ragforge/dedup"
	"github.com/use-agent/ragforge/metrics"
	"github.com/use-agent/ragforge/models"
	"github.com/use-agent/ragforge/quality"
	"github.com/use-agent/ragforge/section"
	"github.com/use-agent/ragforge/storage"
	"github.com/use-agent/ragforge/webhook"
)

// ErrJobAlreadyRunning is returned by StartChunkingJob when the project
// already has a live job; the caller should attach to the existing job's
// stream instead of starting a new one (the HTTP layer's 409-in-spirit
// behavior).
var ErrJobAlreadyRunning = errors.New("orchestrator: chunking job already running for this project")

// Orchestrator drives chunking jobs, one at a time per project.
type Orchestrator struct {
	jobs     sync.Map // int64 -> *JobHandle
	repo     storage.Repository
	aiClient *ai.Client
}

func New(repo storage.Repository, aiClient *ai.Client) *Orchestrator {
	return &Orchestrator{repo: repo, aiClient: aiClient}
}

// StartChunkingJob launches a new chunking job for a project, or returns
// the project's already-running job with ErrJobAlreadyRunning.
func (o *Orchestrator) StartChunkingJob(ctx context.Context, projectID int64) (*JobHandle, error) {
	handle := newJobHandle(projectID)
	actual, loaded := o.jobs.LoadOrStore(projectID, handle)
	h := actual.(*JobHandle)
	if loaded {
		return h, ErrJobAlreadyRunning
	}
	go o.run(context.WithoutCancel(ctx), h)
	return h, nil
}

// GetJob returns the project's currently running (or just-finished, until
// cleanup) job, if any.
func (o *Orchestrator) GetJob(projectID int64) (*JobHandle, bool) {
	v, ok := o.jobs.Load(projectID)
	if !ok {
		return nil, false
	}
	return v.(*JobHandle), true
}

// Cancel flips the project's running job's cancel flag, if one exists.
func (o *Orchestrator) Cancel(projectID int64) bool {
	v, ok := o.jobs.Load(projectID)
	if !ok {
		return false
	}
	v.(*JobHandle).Cancel()
	return true
}

func (o *Orchestrator) run(ctx context.Context, h *JobHandle) {
	metrics.ActiveChunkingJobs.Inc()
	started := time.Now()
	defer func() {
		metrics.ActiveChunkingJobs.Dec()
		metrics.ChunkingJobDuration.Observe(time.Since(started).Seconds())
		o.jobs.Delete(h.ProjectID)
	}()

	project, err := o.repo.Get(ctx, h.ProjectID)
	if err != nil {
		h.finish(Event{Type: EventError, Message: err.Error()})
		return
	}
	cfg := project.Settings

	allChunks, pagesProcessed := o.chunkPages(ctx, h, project, cfg)
	if h.Cancelled() {
		project.Chunks = allChunks
		o.repo.Update(ctx, project)
		o.finishAndNotify(h, project, Event{Type: EventCancelled, ChunksGenerated: len(allChunks), PagesProcessed: pagesProcessed})
		return
	}
	for _, c := range allChunks {
		metrics.ChunksGenerated.WithLabelValues(string(c.ChunkType)).Inc()
	}

	var dedupStats dedup.Stats
	if cfg.Chunking.Deduplication.Enabled {
		dedupStats = dedup.Dedup(allChunks, cfg.Chunking.Deduplication.SimilarityThreshold)
		if dedupStats.Total > 0 {
			metrics.DeduplicationRatio.Observe(float64(dedupStats.ExactDups+dedupStats.NearDups) / float64(dedupStats.Total))
		}
	}
	if cfg.Chunking.QualityChecks.Enabled {
		quality.ScoreAll(allChunks, quality.Config{
			MinWordCount:    cfg.Chunking.QualityChecks.MinWordCount,
			WarnOnShort:     cfg.Chunking.QualityChecks.WarnOnShortChunks,
			WarnOnNoContent: cfg.Chunking.QualityChecks.WarnOnNoContent,
			TargetTokens:    cfg.Chunking.TargetTokens,
		})
	}

	project.Chunks = allChunks
	if err := o.repo.Update(ctx, project); err != nil {
		h.finish(Event{Type: EventError, Message: err.Error()})
		return
	}

	if h.Cancelled() {
		o.finishAndNotify(h, project, Event{Type: EventCancelled, ChunksGenerated: len(allChunks), PagesProcessed: pagesProcessed})
		return
	}

	var embedProgress, enrichProgress BatchProgress

	if cfg.AI.Enabled && cfg.AI.Embeddings.Enabled {
		if o.aiClient == nil {
			h.publish(Event{Type: EventWarning, Message: "AI disabled for this job: no API key configured"})
		} else {
			embedProgress = o.runEmbeddings(ctx, h, allChunks, cfg)
			project.Chunks = allChunks
			o.repo.Update(ctx, project)
		}
	}

	if h.Cancelled() {
		o.finishAndNotify(h, project, Event{Type: EventCancelled, ChunksGenerated: len(allChunks), PagesProcessed: pagesProcessed})
		return
	}

	if cfg.AI.Enabled && anyEnrichmentFeature(cfg.AI.MetadataEnrichment) {
		if o.aiClient == nil {
			h.publish(Event{Type: EventWarning, Message: "AI disabled for this job: no API key configured"})
		} else {
			enrichProgress = o.runEnrichment(ctx, h, allChunks, cfg)
			project.Chunks = allChunks
			o.repo.Update(ctx, project)
		}
	}

	o.finishAndNotify(h, project, Event{
		Type:            EventComplete,
		ChunksGenerated: len(allChunks),
		PagesProcessed:  pagesProcessed,
		Total:           len(project.Results),
		Deduplication:   &dedupStats,
		Embeddings:      &embedProgress,
		Enrichment:      &enrichProgress,
	})
}

// finishAndNotify finishes the job's event stream and, if the project has a
// webhook configured, delivers the terminal event to it asynchronously.
func (o *Orchestrator) finishAndNotify(h *JobHandle, project *models.Project, e Event) {
	h.finish(e)
	if project.Settings.Webhook.URL == "" {
		return
	}
	webhook.DeliverAsync(project.Settings.Webhook.URL, project.Settings.Webhook.Secret, &webhook.Event{
		Type:      "project.chunking." + string(e.Type),
		JobID:     strconv.FormatInt(project.ID, 10),
		Timestamp: time.Now().Unix(),
		Data:      e,
	})
}

func anyEnrichmentFeature(f models.AIFeatureSettings) bool {
	return f.ExtractKeywords || f.GenerateSummary || f.DetectCategory || f.ExtractEntities
}

// chunkPages sectionizes and chunks every already-extracted page, fanning
// out up to parallelRequests workers, but returns chunks in original page
// insertion order so chunk IDs stay stable across runs.
func (o *Orchestrator) chunkPages(ctx context.Context, h *JobHandle, project *models.Project, cfg models.ProjectSettings) ([]models.Chunk, int) {
	pages := project.Results
	total := len(pages)
	if total == 0 {
		return nil, 0
	}

	parallelism := cfg.Scraping.ParallelRequests
	if parallelism <= 0 {
		parallelism = 1
	}

	perPage := make([][]models.Chunk, total)
	sem := make(chan struct{}, parallelism)
	var wg sync.WaitGroup
	var pagesProcessed int32
	var chunksGenerated int32

	now := time.Now()

	for i, page := range pages {
		if h.Cancelled() {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, page models.ScrapedPage) {
			defer wg.Done()
			defer func() { <-sem }()
			if h.Cancelled() {
				return
			}

			sections := section.Sectionize(page.Elements, section.Options{
				PreserveTables: cfg.Chunking.PreserveTables,
				PreserveCode:   cfg.Chunking.PreserveCodeBlocks,
			})
			seeds := chunker.Chunk(sections, chunker.Config{
				TargetTokens:  cfg.Chunking.TargetTokens,
				OverlapTokens: cfg.Chunking.OverlapTokens,
				MinTokens:     cfg.Chunking.MinChunkTokens,
				MultiLanguage: cfg.Chunking.MultiLanguageTokenization,
			})
			chunks := chunker.Assign(seeds, page.URL, page.Title, "", 0, now)
			perPage[i] = chunks

			done := atomic.AddInt32(&pagesProcessed, 1)
			gen := atomic.AddInt32(&chunksGenerated, int32(len(chunks)))
			h.publish(Event{
				Type:            EventProgress,
				Current:         int(done),
				Total:           total,
				ChunksGenerated: int(gen),
				CurrentURL:      page.URL,
				Phase:           "chunking",
			})
		}(i, page)
	}
	wg.Wait()

	var all []models.Chunk
	idx := 0
	for _, c := range perPage {
		for _, chunk := range c {
			chunk.ChunkIndex = idx
			idx++
			all = append(all, chunk)
		}
	}
	return all, int(pagesProcessed)
}

// runEmbeddings embeds non-duplicate chunks lacking an embedding, in fixed
// batches with an inter-batch delay, skipping chunks already embedded on a
// prior run (resumption).
func (o *Orchestrator) runEmbeddings(ctx context.Context, h *JobHandle, chunks []models.Chunk, cfg models.ProjectSettings) BatchProgress {
	var indices []int
	for i, c := range chunks {
		if c.IsDuplicate || len(c.Embedding) > 0 {
			continue
		}
		indices = append(indices, i)
	}
	total := len(indices)
	prog := BatchProgress{Total: total}
	if total == 0 {
		return prog
	}

	for start := 0; start < len(indices); start += ai.EmbedBatchSize {
		if h.Cancelled() {
			return prog
		}
		end := start + ai.EmbedBatchSize
		if end > len(indices) {
			end = len(indices)
		}
		batch := indices[start:end]
		if err := ai.EmbedChunks(ctx, o.aiClient, chunks, batch, cfg.AI.Embeddings.Model); err != nil {
			h.publish(Event{Type: EventWarning, Message: "embedding batch failed: " + err.Error()})
			if pe, ok := err.(*models.PipelineError); ok && pe.Code == models.ErrCodeLLMAuthFailure {
				return prog
			}
		}
		prog.Done = end
		h.publish(Event{Type: EventProgress, Phase: "embeddings", EmbeddingsProgress: &BatchProgress{Done: prog.Done, Total: total}})
		if end < len(indices) {
			select {
			case <-ctx.Done():
				return prog
			case <-time.After(ai.EmbedBatchDelay):
			}
		}
	}
	return prog
}

// runEnrichment enriches non-duplicate chunks lacking AI metadata, in
// batches of 5 with a 200ms inter-batch delay.
func (o *Orchestrator) runEnrichment(ctx context.Context, h *JobHandle, chunks []models.Chunk, cfg models.ProjectSettings) BatchProgress {
	var indices []int
	for i, c := range chunks {
		if c.IsDuplicate || (c.AIMetadata != nil && c.UpdatedAt != nil) {
			continue
		}
		indices = append(indices, i)
	}
	total := len(indices)
	prog := BatchProgress{Total: total}
	if total == 0 {
		return prog
	}

	feat := ai.Features{
		ExtractKeywords: cfg.AI.MetadataEnrichment.ExtractKeywords,
		GenerateSummary: cfg.AI.MetadataEnrichment.GenerateSummary,
		DetectCategory:  cfg.AI.MetadataEnrichment.DetectCategory,
		ExtractEntities: cfg.AI.MetadataEnrichment.ExtractEntities,
	}

	for start := 0; start < len(indices); start += ai.EnrichBatchSizeLimit {
		if h.Cancelled() {
			return prog
		}
		end := start + ai.EnrichBatchSizeLimit
		if end > len(indices) {
			end = len(indices)
		}
		batch := indices[start:end]
		errs := ai.EnrichBatch(ctx, o.aiClient, chunks, batch, cfg.AI.Model, feat)
		for idx, err := range errs {
			h.publish(Event{Type: EventWarning, Message: "enrichment failed for chunk " + chunks[idx].ChunkID + ": " + err.Error()})
		}
		now := time.Now()
		for _, idx := range batch {
			if chunks[idx].AIMetadata != nil {
				chunks[idx].UpdatedAt = &now
			}
		}
		prog.Done = end
		h.publish(Event{Type: EventProgress, Phase: "enrichment", EnrichmentProgress: &BatchProgress{Done: prog.Done, Total: total}})
		if end < len(indices) {
			select {
			case <-ctx.Done():
				return prog
			case <-time.After(ai.EnrichBatchDelay):
			}
		}
	}
	return prog
}
