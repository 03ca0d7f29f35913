package ragpack

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/use-agent/ragforge/models"
)

// chunkRow is the flat columnar projection written to the Parquet export,
// matching the CSV export's column set.
type chunkRow struct {
	ChunkID   string `parquet:"chunk_id"`
	DocID     string `parquet:"doc_id"`
	Text      string `parquet:"text"`
	URL       string `parquet:"url"`
	Heading   string `parquet:"heading"`
	Tokens    int64  `parquet:"tokens"`
	Grade     string `parquet:"grade"`
	Keywords  string `parquet:"keywords"`
	Embedding string `parquet:"embedding,optional"`
}

// WriteParquet streams the same flat chunk projection as WriteCSV into a
// columnar Parquet file.
func WriteParquet(w io.Writer, chunks []models.Chunk, includeEmbeddings bool) error {
	rows := make([]chunkRow, 0, len(chunks))
	for _, c := range chunks {
		grade := ""
		if c.Quality != nil {
			grade = string(c.Quality.Grade)
		}
		var keywords string
		if c.AIMetadata != nil {
			keywords = strings.Join(c.AIMetadata.Keywords, "; ")
		}
		embedding := ""
		if includeEmbeddings && len(c.Embedding) > 0 {
			b, err := json.Marshal(c.Embedding)
			if err != nil {
				return err
			}
			embedding = string(b)
		}

		rows = append(rows, chunkRow{
			ChunkID:   c.ChunkID,
			DocID:     c.DocID,
			Text:      c.Text,
			URL:       c.Location.URL,
			Heading:   c.Structure.Heading,
			Tokens:    int64(c.TokensEstimate),
			Grade:     grade,
			Keywords:  keywords,
			Embedding: embedding,
		})
	}

	return parquet.Write(w, rows)
}
