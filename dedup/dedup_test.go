package dedup

import (
	"testing"

	"github.com/use-agent/ragforge/chunker"
	"github.com/use-agent/ragforge/models"
)

func mkChunk(id, text string) models.Chunk {
	return models.Chunk{
		ChunkID:     id,
		Text:        text,
		ContentHash: chunker.ContentHash(text),
		ChunkType:   models.ChunkText,
	}
}

func TestDedupExactDuplicate(t *testing.T) {
	chunks := []models.Chunk{
		mkChunk("a", "Foo bar baz."),
		mkChunk("b", "Foo bar baz."),
	}
	stats := Dedup(chunks, 0.95)
	if stats.ExactDups != 1 || stats.NearDups != 0 || stats.Uniques != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if chunks[0].IsDuplicate {
		t.Errorf("first occurrence should not be marked duplicate")
	}
	if !chunks[1].IsDuplicate || chunks[1].DuplicateOf != "a" {
		t.Errorf("second occurrence should be marked duplicate of a: %+v", chunks[1])
	}
}

func TestDedupNearDuplicateJaccard(t *testing.T) {
	chunks := []models.Chunk{
		mkChunk("a", "The quick brown fox jumps over the lazy dog today"),
		mkChunk("b", "The quick brown fox jumps over the lazy dog yesterday"),
	}
	stats := Dedup(chunks, 0.7)
	if stats.NearDups != 1 {
		t.Fatalf("expected 1 near-duplicate, got stats %+v", stats)
	}
	if !chunks[1].IsDuplicate || chunks[1].DuplicateOf != "a" {
		t.Errorf("expected chunk b marked duplicate of a: %+v", chunks[1])
	}
}

func TestDedupAtMostOneNonDuplicatePerHashGroup(t *testing.T) {
	chunks := []models.Chunk{
		mkChunk("a", "same text here"),
		mkChunk("b", "same text here"),
		mkChunk("c", "same text here"),
	}
	stats := Dedup(chunks, 0.95)
	nonDupCount := 0
	for _, c := range chunks {
		if !c.IsDuplicate {
			nonDupCount++
		}
	}
	if nonDupCount != 1 {
		t.Errorf("expected exactly 1 non-duplicate among identical-hash chunks, got %d", nonDupCount)
	}
	if stats.Uniques != 1 {
		t.Errorf("expected 1 unique, got %d", stats.Uniques)
	}
}

func TestDedupUnrelatedTextsNotMarked(t *testing.T) {
	chunks := []models.Chunk{
		mkChunk("a", "Completely different content about astronomy and stars"),
		mkChunk("b", "A totally unrelated paragraph discussing cooking recipes"),
	}
	stats := Dedup(chunks, 0.8)
	if stats.NearDups != 0 || stats.ExactDups != 0 {
		t.Fatalf("expected no duplicates, got %+v", stats)
	}
}

func TestRawPageDedup(t *testing.T) {
	a := "<html><body><div><p>one</p><p>two</p></div></body></html>"
	b := "<html><body><div><p>one</p><p>two</p></div></body></html>"
	c := "<html><body><article><h1>x</h1><ul><li>a</li></ul></article></body></html>"
	fps := map[string]uint64{
		"https://x.com/a": RawPageFingerprint(a),
		"https://x.com/b": RawPageFingerprint(b),
		"https://x.com/c": RawPageFingerprint(c),
	}
	skip := RawPageDedup([]string{"https://x.com/a", "https://x.com/b", "https://x.com/c"}, fps)
	if _, ok := skip["https://x.com/b"]; !ok {
		t.Errorf("expected b to be flagged as a structural duplicate of a")
	}
	if _, ok := skip["https://x.com/c"]; ok {
		t.Errorf("c should not be flagged, structurally distinct")
	}
}
