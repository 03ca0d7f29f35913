package chunker

import (
	"strings"
	"testing"

	"github.com/use-agent/ragforge/models"
	"github.com/use-agent/ragforge/tokenizer"
)

func repeatWords(n int) string {
	words := make([]string, n)
	for i := range words {
		words[i] = "word"
	}
	return strings.Join(words, " ") + "."
}

func TestChunkTrivialSinglePage(t *testing.T) {
	sections := []models.Section{
		{Text: "Title\n\nAAA BBB.", Type: models.SectionText, Heading: "Title", HeadingPath: []string{"Title"}},
	}
	seeds := Chunk(sections, Config{TargetTokens: 50, MinTokens: 5, OverlapTokens: 0})
	if len(seeds) != 1 {
		t.Fatalf("expected 1 chunk, got %d: %+v", len(seeds), seeds)
	}
	want := "Title\n\nTitle\n\nAAA BBB."
	if seeds[0].Text != want {
		t.Errorf("got %q, want %q", seeds[0].Text, want)
	}
	if seeds[0].ChunkType != models.ChunkText {
		t.Errorf("expected text chunk type")
	}
}

func TestChunkOversizedParagraphSplit(t *testing.T) {
	// ~4500 tokens of paragraph text (rough estimate via the same heuristic
	// the chunker itself uses, so the token math lines up).
	para := repeatWords(2700) // 13500 runes incl separators, ~4500 tokens at 3 runes/token
	sections := []models.Section{
		{Text: para, Type: models.SectionText},
	}
	cfg := Config{TargetTokens: 300, OverlapTokens: 30, MinTokens: 10}
	seeds := Chunk(sections, cfg)

	if len(seeds) < 2 {
		t.Fatalf("expected multiple chunks for oversized paragraph, got %d", len(seeds))
	}
	for _, s := range seeds {
		if s.TokensEstimate > 450 {
			t.Errorf("chunk exceeds hard envelope: %d tokens", s.TokensEstimate)
		}
	}
}

func TestChunkTablePreservedAsOwnChunk(t *testing.T) {
	sections := []models.Section{
		{Text: "| A | B |\n| --- | --- |\n| 1 | 2 |\n| 3 | 4 |\n| 5 | 6 |", Type: models.SectionTable,
			TableData: &models.TableData{Headers: []string{"A", "B"}, Rows: [][]string{{"1", "2"}, {"3", "4"}, {"5", "6"}}}},
		{Text: "A trailing paragraph of real prose content.", Type: models.SectionText},
	}
	seeds := Chunk(sections, Config{TargetTokens: 300, MinTokens: 5})
	if len(seeds) != 2 {
		t.Fatalf("expected exactly 2 chunks, got %d", len(seeds))
	}
	if seeds[0].ChunkType != models.ChunkTable || len(seeds[0].TableData.Rows) != 3 {
		t.Fatalf("expected table chunk with 3 rows, got %+v", seeds[0])
	}
	if seeds[1].ChunkType != models.ChunkText {
		t.Fatalf("expected trailing text chunk")
	}
}

func TestChunkMinResidueMergesIntoPrevious(t *testing.T) {
	sections := []models.Section{
		{Text: repeatWords(90), Type: models.SectionText}, // large enough first chunk
		{Text: "tiny.", Type: models.SectionText},
	}
	cfg := Config{TargetTokens: 150, MinTokens: 20}
	seeds := Chunk(sections, cfg)
	if len(seeds) != 1 {
		t.Fatalf("expected residue to merge into previous chunk, got %d chunks", len(seeds))
	}
}

func TestChunkOnlyChunkEmittedEvenBelowMin(t *testing.T) {
	sections := []models.Section{
		{Text: "tiny.", Type: models.SectionText},
	}
	seeds := Chunk(sections, Config{TargetTokens: 300, MinTokens: 50})
	if len(seeds) != 1 {
		t.Fatalf("expected exactly one chunk even though below min, got %d", len(seeds))
	}
}

func TestExtractOverlapRespectsSlack(t *testing.T) {
	text := "One sentence here. Two sentence here. Three sentence here. Four sentence here."
	overlap := extractOverlap(text, 5, false)
	tokens := tokenizer.Count(overlap, false)
	if tokens > 8 { // 1.5x of 5, rounded up
		t.Errorf("overlap token count %d exceeds 1.5x slack", tokens)
	}
	if overlap == "" {
		t.Fatalf("expected non-empty overlap")
	}
}

func TestDocIDAndContentHashDeterministic(t *testing.T) {
	a := DocID("https://example.com/page")
	b := DocID("https://example.com/page")
	if a != b {
		t.Errorf("DocID not deterministic: %s vs %s", a, b)
	}
	if ContentHash("hello") != ContentHash("hello") {
		t.Errorf("ContentHash not deterministic")
	}
}
