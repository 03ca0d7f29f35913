package models

import "time"

// ChunkType mirrors SectionType: a chunk inherits its type from the section
// it was built from, except that text sections may be split across chunks
// while table/code sections never are.
type ChunkType string

const (
	ChunkText  ChunkType = "text"
	ChunkTable ChunkType = "table"
	ChunkCode  ChunkType = "code"
)

// QualityGrade is the coarse verdict the quality scorer assigns a chunk.
type QualityGrade string

const (
	QualityGood    QualityGrade = "good"
	QualityWarning QualityGrade = "warning"
	QualityPoor    QualityGrade = "poor"
)

// Location pins a chunk back to its source page and position within it.
type Location struct {
	URL         string   `json:"url"`
	HeadingPath []string `json:"heading_path,omitempty"`
}

// Structure carries the human-readable heading breadcrumb for a chunk.
type Structure struct {
	SectionPath string `json:"section_path"`
	Heading     string `json:"heading,omitempty"`
}

// Source is the provenance envelope recorded on every chunk.
type Source struct {
	SourceURL string `json:"source_url"`
}

// Hashes bundles the content-identity hashes carried on a chunk.
type Hashes struct {
	TextSHA256 string `json:"text_sha256"`
}

// Quality is the optional per-chunk scoring result.
type Quality struct {
	TokenCount    int          `json:"token_count"`
	WordCount     int          `json:"word_count"`
	SentenceCount int          `json:"sentence_count"`
	HasContent    bool         `json:"has_content"`
	Grade         QualityGrade `json:"grade"`
	Warnings      []string     `json:"warnings,omitempty"`
}

// AIMetadata is the optional AI-enrichment result attached to a chunk.
type AIMetadata struct {
	Keywords []string `json:"keywords,omitempty"`
	Summary  string   `json:"summary,omitempty"`
	Category string   `json:"category,omitempty"`
	Entities []string `json:"entities,omitempty"`
}

// Chunk is one retrieval unit: bounded token count, stable identity,
// provenance, and optional enrichment.
type Chunk struct {
	ChunkID    string    `json:"chunk_id"`
	DocID      string    `json:"doc_id"`
	ChunkIndex int       `json:"chunk_index"`
	Text       string    `json:"text"`
	Location   Location  `json:"location"`
	Structure  Structure `json:"structure"`
	Language   string    `json:"language"`
	Source     Source    `json:"source"`
	Hashes     Hashes    `json:"hashes"`

	TokensEstimate int    `json:"tokens_estimate"`
	Citation       string `json:"citation"`
	ChunkType      ChunkType `json:"chunk_type"`

	TableData *TableData `json:"table_data,omitempty"`
	CodeBlock *CodeBlock `json:"code_block,omitempty"`

	Quality *Quality `json:"quality,omitempty"`

	ContentHash  string `json:"content_hash"`
	IsDuplicate  bool   `json:"is_duplicate"`
	DuplicateOf  string `json:"duplicate_of,omitempty"`

	Embedding  []float32   `json:"embedding,omitempty"`
	AIMetadata *AIMetadata `json:"ai_metadata,omitempty"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}
