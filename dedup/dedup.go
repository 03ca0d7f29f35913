// Package dedup marks exact and near-duplicate chunks within a project.
package dedup

import (
	"regexp"
	"strings"

	"github.com/use-agent/ragforge/models"
)

// Stats summarizes one Dedup run's outcome.
type Stats struct {
	Total       int `json:"total"`
	ExactDups   int `json:"exact_duplicates"`
	NearDups    int `json:"near_duplicates"`
	Uniques     int `json:"unique_chunks"`
}

// Dedup marks chunks in place: pass 1 is exact SHA-256 match on chunk text
// (first occurrence wins), pass 2 is Jaccard near-duplicate matching over
// non-exact-duplicate chunks. Returns summary stats.
func Dedup(chunks []models.Chunk, threshold float64) Stats {
	stats := Stats{Total: len(chunks)}

	seen := make(map[string]string) // content_hash -> chunk_id of first occurrence
	for i := range chunks {
		c := &chunks[i]
		c.IsDuplicate = false
		c.DuplicateOf = ""
		if first, ok := seen[c.ContentHash]; ok {
			c.IsDuplicate = true
			c.DuplicateOf = first
			stats.ExactDups++
			continue
		}
		seen[c.ContentHash] = c.ChunkID
	}

	// Pass 2: near-duplicate matching over non-exact-duplicate chunks only.
	type candidate struct {
		idx   int
		words map[string]bool
		size  int
	}
	var nonDupes []candidate
	for i := range chunks {
		if chunks[i].IsDuplicate {
			continue
		}
		ws := wordSet(chunks[i].Text)
		nonDupes = append(nonDupes, candidate{idx: i, words: ws, size: len(ws)})
	}

	for ci, cand := range nonDupes {
		if chunks[cand.idx].IsDuplicate {
			continue
		}
		for pj := 0; pj < ci; pj++ {
			prior := nonDupes[pj]
			if chunks[prior.idx].IsDuplicate {
				continue
			}
			if !ratioReachable(cand.size, prior.size, threshold) {
				continue
			}
			sim := jaccard(cand.words, prior.words)
			if sim >= threshold {
				chunks[cand.idx].IsDuplicate = true
				chunks[cand.idx].DuplicateOf = chunks[prior.idx].ChunkID
				stats.NearDups++
				break
			}
		}
	}

	stats.Uniques = stats.Total - stats.ExactDups - stats.NearDups
	return stats
}

var wordSplitRe = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// wordSet computes the lowercased, punctuation-stripped word set used for
// Jaccard comparison, keeping only tokens of length >= 2.
func wordSet(text string) map[string]bool {
	words := wordSplitRe.Split(strings.ToLower(text), -1)
	set := make(map[string]bool, len(words))
	for _, w := range words {
		if len(w) >= 2 {
			set[w] = true
		}
	}
	return set
}

func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	inter := 0
	for w := range a {
		if b[w] {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// ratioReachable short-circuits the Jaccard comparison when the size ratio
// between the two word sets alone makes the threshold unreachable: Jaccard
// is bounded above by min(size)/max(size) when one set is a subset of the
// other's superset span, so a smaller ratio than threshold rules out a match.
func ratioReachable(a, b int, threshold float64) bool {
	if a == 0 || b == 0 {
		return threshold <= 0
	}
	small, big := a, b
	if small > big {
		small, big = big, small
	}
	return float64(small)/float64(big) >= threshold
}
