package ragpack

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/use-agent/ragforge/models"
)

var csvHeader = []string{"chunk_id", "doc_id", "text", "url", "heading", "tokens", "grade", "keywords", "embedding"}

// WriteCSV streams a flat projection of every chunk to w: chunk_id, doc_id,
// text, url, heading, tokens, quality grade, keywords joined by "; ", and
// the embedding as a JSON array when includeEmbeddings is set.
func WriteCSV(w io.Writer, chunks []models.Chunk, includeEmbeddings bool) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, c := range chunks {
		grade := ""
		var keywords string
		if c.Quality != nil {
			grade = string(c.Quality.Grade)
		}
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

		row := []string{
			c.ChunkID,
			c.DocID,
			c.Text,
			c.Location.URL,
			c.Structure.Heading,
			strconv.Itoa(c.TokensEstimate),
			grade,
			keywords,
			embedding,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
