package chunker

import (
	"math"
	"regexp"
	"strings"

	"github.com/use-agent/ragforge/tokenizer"
)

// sentenceBoundaryRe splits on a sentence terminator followed by whitespace,
// keeping the terminator attached to the preceding sentence.
var sentenceBoundaryRe = regexp.MustCompile(`([.!?])\s+`)

// splitSentences splits text into sentence-like pieces on [.!?] followed by
// whitespace. CJK punctuation is not a boundary: text with no Latin
// terminator followed by whitespace comes back as one "sentence".
func splitSentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	idxs := sentenceBoundaryRe.FindAllStringSubmatchIndex(text, -1)
	if len(idxs) == 0 {
		return []string{text}
	}
	var out []string
	start := 0
	for _, m := range idxs {
		// m[2]:m[3] is the terminator group; cut right after it.
		end := m[3]
		out = append(out, strings.TrimSpace(text[start:end]))
		start = m[1] // after the trailing whitespace
	}
	if start < len(text) {
		out = append(out, strings.TrimSpace(text[start:]))
	}
	return filterEmpty(out)
}

func filterEmpty(in []string) []string {
	out := in[:0]
	for _, s := range in {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// splitParagraphs splits text on runs of blank lines.
var paragraphBoundaryRe = regexp.MustCompile(`\n\n+`)

func splitParagraphs(text string) []string {
	parts := paragraphBoundaryRe.Split(strings.TrimSpace(text), -1)
	return filterEmpty(parts)
}

// extractOverlap takes the trailing sentences of text, in order, until
// their combined token count reaches overlapTokens, allowing up to 1.5x
// slack on the final sentence included.
func extractOverlap(text string, overlapTokens int, multiLanguage bool) string {
	if overlapTokens <= 0 || strings.TrimSpace(text) == "" {
		return ""
	}
	sentences := splitSentences(text)
	maxAllowed := int(math.Ceil(float64(overlapTokens) * 1.5))

	var collected []string
	cum := 0
	for i := len(sentences) - 1; i >= 0; i-- {
		if cum >= overlapTokens {
			break
		}
		t := tokenizer.Count(sentences[i], multiLanguage)
		if cum+t > maxAllowed {
			break
		}
		collected = append([]string{sentences[i]}, collected...)
		cum += t
	}
	return strings.Join(collected, " ")
}
