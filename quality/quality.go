// Package quality grades chunks by size and content signal.
package quality

import (
	"regexp"
	"strings"

	"github.com/use-agent/ragforge/models"
)

// Config controls which warnings the scorer emits.
type Config struct {
	MinWordCount    int
	WarnOnShort     bool
	WarnOnNoContent bool
	TargetTokens    int
}

var alphanumericRe = regexp.MustCompile(`[\p{L}\p{N}]`)
var sentenceSplitRe = regexp.MustCompile(`[.!?]+`)

// Score computes quality metrics and warnings for one chunk's text.
func Score(text string, tokens int, cfg Config) models.Quality {
	words := strings.Fields(text)
	wordCount := len(words)
	sentenceCount := countSentences(text)
	hasContent := alphanumericRe.MatchString(text)

	var warnings []string
	noContent := false

	if cfg.WarnOnNoContent && !hasContent {
		warnings = append(warnings, "no meaningful content")
		noContent = true
	}
	if cfg.WarnOnShort && wordCount < cfg.MinWordCount {
		warnings = append(warnings, "too short")
	}
	if cfg.TargetTokens > 0 && float64(tokens) > 1.5*float64(cfg.TargetTokens) {
		warnings = append(warnings, "exceeds target size")
	}

	grade := models.QualityGood
	switch {
	case noContent || len(warnings) >= 2:
		grade = models.QualityPoor
	case len(warnings) == 1:
		grade = models.QualityWarning
	}

	return models.Quality{
		TokenCount:    tokens,
		WordCount:     wordCount,
		SentenceCount: sentenceCount,
		HasContent:    hasContent,
		Grade:         grade,
		Warnings:      warnings,
	}
}

func countSentences(text string) int {
	parts := sentenceSplitRe.Split(text, -1)
	n := 0
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			n++
		}
	}
	return n
}

// ScoreAll scores every chunk in place using its own TokensEstimate.
func ScoreAll(chunks []models.Chunk, cfg Config) {
	for i := range chunks {
		q := Score(chunks[i].Text, chunks[i].TokensEstimate, cfg)
		chunks[i].Quality = &q
	}
}
