package models

import "time"

// ProjectStatus is the project's lifecycle state.
type ProjectStatus string

const (
	StatusIdle            ProjectStatus = "idle"
	StatusScraping        ProjectStatus = "scraping"
	StatusContentScraping ProjectStatus = "content_scraping"
)

// ScrapeErrorEntry records a single failed fetch/parse against a project.
type ScrapeErrorEntry struct {
	URL       string    `json:"url"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// ProjectStats summarizes counters shown on project listings.
type ProjectStats struct {
	PagesQueued    int `json:"pagesQueued"`
	PagesProcessed int `json:"pagesProcessed"`
	PagesFailed    int `json:"pagesFailed"`
	ChunksTotal    int `json:"chunksTotal"`
	ExactDuplicates int `json:"exactDuplicates"`
	NearDuplicates  int `json:"nearDuplicates"`
}

// RateLimitingSettings configures the fetcher's adaptive per-project delay.
type RateLimitingSettings struct {
	Enabled           bool    `json:"enabled"`
	BaseDelayMs       int     `json:"baseDelayMs"`
	MaxDelayMs        int     `json:"maxDelayMs"`
	BackoffMultiplier float64 `json:"backoffMultiplier"`
}

// ScrapingSettings configures discovery and fetch behavior for a project.
type ScrapingSettings struct {
	ParallelRequests     int                  `json:"parallelRequests"`
	DelayMs              int                  `json:"delayMs"`
	ContentSelectors     []string             `json:"contentSelectors,omitempty"`
	ExcludeSelectors     []string             `json:"excludeSelectors,omitempty"`
	MaxDepth             int                  `json:"maxDepth"`
	RateLimiting         RateLimitingSettings `json:"rateLimiting"`
	Proxies              []string             `json:"proxies,omitempty"`
	RotateProxies        bool                 `json:"rotateProxies"`
	ExtractStructuredData bool                `json:"extractStructuredData"`
}

// QualityCheckSettings configures the quality scorer.
type QualityCheckSettings struct {
	Enabled          bool `json:"enabled"`
	MinWordCount     int  `json:"minWordCount"`
	WarnOnShortChunks bool `json:"warnOnShortChunks"`
	WarnOnNoContent  bool `json:"warnOnNoContent"`
}

// DeduplicationSettings configures the deduplicator's near-duplicate pass.
type DeduplicationSettings struct {
	Enabled             bool    `json:"enabled"`
	SimilarityThreshold float64 `json:"similarityThreshold"`
}

// ChunkingSettings configures the section builder and chunker.
type ChunkingSettings struct {
	TargetTokens              int                  `json:"targetTokens"`
	OverlapTokens             int                  `json:"overlapTokens"`
	MinChunkTokens            int                  `json:"minChunkTokens"`
	BoundaryRules             []string             `json:"boundaryRules,omitempty"`
	PreserveHeadingHierarchy  bool                 `json:"preserveHeadingHierarchy"`
	PreserveTables            bool                 `json:"preserveTables"`
	PreserveCodeBlocks        bool                 `json:"preserveCodeBlocks"`
	MultiLanguageTokenization bool                 `json:"multiLanguageTokenization"`
	QualityChecks             QualityCheckSettings `json:"qualityChecks"`
	Deduplication             DeduplicationSettings `json:"deduplication"`
}

// AIFeatureSettings toggles which enrichment sub-tasks run per chunk.
type AIFeatureSettings struct {
	ExtractKeywords  bool `json:"extractKeywords"`
	GenerateSummary  bool `json:"generateSummary"`
	DetectCategory   bool `json:"detectCategory"`
	ExtractEntities  bool `json:"extractEntities"`
}

// AIEmbeddingSettings configures the embedder.
type AIEmbeddingSettings struct {
	Enabled    bool   `json:"enabled"`
	Model      string `json:"model"`
	Dimensions int    `json:"dimensions"`
}

// AISettings configures the optional enrichment/embedding phases.
type AISettings struct {
	Enabled             bool                `json:"enabled"`
	Model               string              `json:"model"`
	Features            AIFeatureSettings   `json:"features"`
	Embeddings          AIEmbeddingSettings `json:"embeddings"`
	MetadataEnrichment  AIFeatureSettings   `json:"metadataEnrichment"`
}

// ExportSettings configures the RAG pack writer.
type ExportSettings struct {
	Formats             []string `json:"formats"`
	IncludeEmbeddings   bool     `json:"includeEmbeddings"`
	IncrementalUpdates  bool     `json:"incrementalUpdates"`
}

// WebhookSettings configures the optional delivery of chunking job
// lifecycle events to an external endpoint.
type WebhookSettings struct {
	URL    string `json:"url,omitempty"`
	Secret string `json:"secret,omitempty"`
}

// ProjectSettings bundles every configurable knob for a project, with
// defaults matching the documented configuration table.
type ProjectSettings struct {
	Scraping  ScrapingSettings  `json:"scraping"`
	Chunking  ChunkingSettings  `json:"chunking"`
	AI        AISettings        `json:"ai"`
	Export    ExportSettings    `json:"export"`
	Webhook   WebhookSettings   `json:"webhook"`
}

// DefaultProjectSettings returns the documented default configuration.
func DefaultProjectSettings() ProjectSettings {
	return ProjectSettings{
		Scraping: ScrapingSettings{
			ParallelRequests: 10,
			DelayMs:          500,
			MaxDepth:         5,
			RateLimiting: RateLimitingSettings{
				Enabled:           true,
				BaseDelayMs:       500,
				MaxDelayMs:        30000,
				BackoffMultiplier: 2,
			},
			ExtractStructuredData: true,
		},
		Chunking: ChunkingSettings{
			TargetTokens:             350,
			OverlapTokens:            55,
			MinChunkTokens:           50,
			BoundaryRules:            []string{"paragraph", "heading"},
			PreserveHeadingHierarchy: true,
			PreserveTables:           true,
			PreserveCodeBlocks:       true,
			MultiLanguageTokenization: true,
			QualityChecks: QualityCheckSettings{
				Enabled:           true,
				MinWordCount:      10,
				WarnOnShortChunks: true,
				WarnOnNoContent:   true,
			},
			Deduplication: DeduplicationSettings{
				Enabled:             true,
				SimilarityThreshold: 0.95,
			},
		},
		AI: AISettings{
			Enabled: false,
			Model:   "gpt-4o-mini",
			Embeddings: AIEmbeddingSettings{
				Enabled:    false,
				Model:      "text-embedding-3-small",
				Dimensions: 1536,
			},
			MetadataEnrichment: AIFeatureSettings{
				ExtractKeywords: true,
				GenerateSummary: true,
			},
		},
		Export: ExportSettings{
			Formats:            []string{"json"},
			IncludeEmbeddings:  false,
			IncrementalUpdates: true,
		},
	}
}

// Project is the top-level unit of work: a domain's queue, fetched pages,
// and derived chunks, plus the settings governing every pipeline stage.
type Project struct {
	ID                   int64              `json:"id"`
	Domain               string             `json:"domain"`
	DisplayName          string             `json:"displayName"`
	Status               ProjectStatus      `json:"status"`
	Queue                []string           `json:"queue"`
	Processed            []string           `json:"processed"`
	Results              []ScrapedPage      `json:"results"`
	Errors               []ScrapeErrorEntry `json:"errors"`
	Stats                ProjectStats       `json:"stats"`
	Settings             ProjectSettings    `json:"settings"`
	Chunks               []Chunk            `json:"chunks"`
	LastExportedAt       *time.Time         `json:"lastExportedAt,omitempty"`
	ExportedChunkHashes  map[string]string  `json:"exportedChunkHashes,omitempty"`
}

// Summary trims Results for the project-listing endpoint.
type ProjectSummary struct {
	ID             int64         `json:"id"`
	Domain         string        `json:"domain"`
	DisplayName    string        `json:"displayName"`
	Status         ProjectStatus `json:"status"`
	Results        []ScrapedPage `json:"results"`
	ResultsCount   int           `json:"_resultsCount"`
	ScrapedCount   int           `json:"_scrapedCount"`
	ChunksCount    int           `json:"_chunksCount"`
}

// ToSummary trims a project's results list to at most 20 entries once it
// exceeds 100, annotating the true counts alongside.
func (p *Project) ToSummary() ProjectSummary {
	results := p.Results
	if len(results) > 100 {
		results = results[:20]
	}
	return ProjectSummary{
		ID:           p.ID,
		Domain:       p.Domain,
		DisplayName:  p.DisplayName,
		Status:       p.Status,
		Results:      results,
		ResultsCount: len(p.Results),
		ScrapedCount: len(p.Processed),
		ChunksCount:  len(p.Chunks),
	}
}
