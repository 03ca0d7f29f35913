package chunker

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/use-agent/ragforge/models"
)

// DocID derives the stable per-page document id from its URL.
func DocID(url string) string {
	sum := sha256.Sum256([]byte(url))
	return "doc_" + hex.EncodeToString(sum[:])[:12]
}

// ContentHash is the canonical content-identity hash used for both
// deduplication and incremental export.
func ContentHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// Assign converts chunk seeds for one page into full Chunk records,
// assigning chunk_id/doc_id/chunk_index starting at startIndex and filling
// location/structure/source/hashes/citation.
func Assign(seeds []Seed, pageURL, pageTitle, language string, startIndex int, now time.Time) []models.Chunk {
	docID := DocID(pageURL)
	out := make([]models.Chunk, 0, len(seeds))
	for i, seed := range seeds {
		idx := startIndex + i
		hash := ContentHash(seed.Text)
		chunk := models.Chunk{
			ChunkID:    fmt.Sprintf("%s::c%04d", docID, idx),
			DocID:      docID,
			ChunkIndex: idx,
			Text:       seed.Text,
			Location: models.Location{
				URL:         pageURL,
				HeadingPath: seed.HeadingPath,
			},
			Structure: models.Structure{
				SectionPath: sectionPath(seed.HeadingPath),
				Heading:     seed.Heading,
			},
			Language: language,
			Source:   models.Source{SourceURL: pageURL},
			Hashes:   models.Hashes{TextSHA256: hash},

			TokensEstimate: seed.TokensEstimate,
			Citation:       citation(pageTitle, seed.Heading),
			ChunkType:      seed.ChunkType,

			TableData: seed.TableData,
			CodeBlock: seed.CodeBlock,

			ContentHash: hash,
			CreatedAt:   now,
		}
		out = append(out, chunk)
	}
	return out
}

func sectionPath(headingPath []string) string {
	if len(headingPath) == 0 {
		return ""
	}
	return strings.Join(headingPath, " > ")
}

func citation(pageTitle, heading string) string {
	label := heading
	if label == "" {
		label = "content"
	}
	if pageTitle == "" {
		return label
	}
	return pageTitle + ", " + label
}
