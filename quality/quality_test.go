package quality

import (
	"testing"

	"github.com/use-agent/ragforge/models"
)

func defaultCfg() Config {
	return Config{MinWordCount: 10, WarnOnShort: true, WarnOnNoContent: true, TargetTokens: 50}
}

func TestScoreGoodChunk(t *testing.T) {
	text := "Title\n\nTitle\n\nAAA BBB."
	cfg := defaultCfg()
	cfg.MinWordCount = 4 // the chunk has four words
	q := Score(text, 8, cfg)
	if q.Grade != models.QualityGood {
		t.Errorf("expected good grade, got %s (warnings %v)", q.Grade, q.Warnings)
	}
}

func TestScoreTooShort(t *testing.T) {
	q := Score("one two three", 4, defaultCfg())
	if q.Grade != models.QualityWarning {
		t.Fatalf("expected warning grade, got %s", q.Grade)
	}
	if len(q.Warnings) != 1 || q.Warnings[0] != "too short" {
		t.Errorf("expected single 'too short' warning, got %v", q.Warnings)
	}
}

func TestScoreNoContentIsPoor(t *testing.T) {
	q := Score("... !!! ???", 5, defaultCfg())
	if q.Grade != models.QualityPoor {
		t.Fatalf("expected poor grade for no-content chunk, got %s", q.Grade)
	}
	if q.HasContent {
		t.Errorf("expected HasContent false")
	}
}

func TestScoreExceedsTargetSize(t *testing.T) {
	cfg := defaultCfg()
	text := repeatWords(20)
	q := Score(text, 100, cfg) // 100 > 1.5*50
	found := false
	for _, w := range q.Warnings {
		if w == "exceeds target size" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected 'exceeds target size' warning, got %v", q.Warnings)
	}
}

func TestScoreTwoWarningsIsPoor(t *testing.T) {
	cfg := defaultCfg()
	q := Score("a b", 100, cfg) // too short AND exceeds target
	if q.Grade != models.QualityPoor {
		t.Errorf("expected poor grade with 2 warnings, got %s (%v)", q.Grade, q.Warnings)
	}
}

func TestSentenceCounting(t *testing.T) {
	q := Score("One. Two! Three?", 10, defaultCfg())
	if q.SentenceCount != 3 {
		t.Errorf("expected 3 sentences, got %d", q.SentenceCount)
	}
}

func repeatWords(n int) string {
	s := ""
	for i := 0; i < n; i++ {
		s += "word "
	}
	return s
}
