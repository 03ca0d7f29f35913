package ragpack

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/use-agent/ragforge/chunker"
	"github.com/use-agent/ragforge/models"
)

func testProject() *models.Project {
	docID := chunker.DocID("https://example.com/a")
	return &models.Project{
		ID:     1,
		Domain: "example.com",
		Results: []models.ScrapedPage{
			{URL: "https://example.com/a", Title: "Page A", Timestamp: "2026-01-01T00:00:00Z"},
		},
		Settings: models.DefaultProjectSettings(),
		Chunks: []models.Chunk{
			{
				ChunkID:     docID + "::c0000",
				DocID:       docID,
				ChunkIndex:  0,
				Text:        "Hello world.",
				Location:    models.Location{URL: "https://example.com/a"},
				ContentHash: chunker.ContentHash("Hello world."),
				ChunkType:   models.ChunkText,
			},
		},
	}
}

func TestPackProducesValidZipWithExpectedEntries(t *testing.T) {
	project := testProject()
	data, err := Pack(project, false, time.Unix(0, 0).UTC())
	if err != nil {
		t.Fatalf("pack failed: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("not a valid zip: %v", err)
	}

	want := map[string]bool{
		"manifest.json": false, "documents.jsonl": false, "chunks.jsonl": false,
		"schema/manifest.schema.json": false, "schema/documents.schema.json": false, "schema/chunks.schema.json": false,
	}
	for _, f := range zr.File {
		if _, ok := want[f.Name]; ok {
			want[f.Name] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("missing archive entry: %s", name)
		}
	}
}

func TestPackElidesEmbeddingsByDefault(t *testing.T) {
	project := testProject()
	project.Chunks[0].Embedding = []float32{0.1, 0.2}

	data, err := Pack(project, false, time.Now())
	if err != nil {
		t.Fatalf("pack failed: %v", err)
	}
	zr, _ := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	for _, f := range zr.File {
		if f.Name != "chunks.jsonl" {
			continue
		}
		rc, _ := f.Open()
		var buf bytes.Buffer
		buf.ReadFrom(rc)
		rc.Close()
		if strings.Contains(buf.String(), "embedding") {
			t.Errorf("expected embeddings elided from chunks.jsonl, got: %s", buf.String())
		}
	}
}

func TestDiffDetectsNewUpdatedDeleted(t *testing.T) {
	project := testProject()
	project.ExportedChunkHashes = map[string]string{
		project.Chunks[0].ChunkID: "stale-hash",
		"doc_gone::c0000":         "gone-hash",
	}

	d := Diff(project, time.Now())
	if len(d.Updated) != 1 || d.Updated[0].ChunkID != project.Chunks[0].ChunkID {
		t.Errorf("expected 1 updated chunk, got %+v", d.Updated)
	}
	if len(d.DeletedIDs) != 1 || d.DeletedIDs[0] != "doc_gone::c0000" {
		t.Errorf("expected 1 deleted id, got %+v", d.DeletedIDs)
	}
	if len(d.New) != 0 {
		t.Errorf("expected no new chunks, got %+v", d.New)
	}
}

func TestDiffAllNewWhenNoSnapshot(t *testing.T) {
	project := testProject()
	d := Diff(project, time.Now())
	if len(d.New) != 1 {
		t.Fatalf("expected 1 new chunk with no prior snapshot, got %+v", d.New)
	}
}

func TestWriteCSVIncludesHeaderAndRows(t *testing.T) {
	project := testProject()
	var buf bytes.Buffer
	if err := WriteCSV(&buf, project.Chunks, false); err != nil {
		t.Fatalf("csv write failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "chunk_id") || !strings.Contains(out, "Hello world.") {
		t.Errorf("unexpected csv output: %s", out)
	}
}

func TestRenderChunkMarkdownTablePassesThroughStructure(t *testing.T) {
	conv := newMarkdownConverter()
	c := models.Chunk{
		ChunkType: models.ChunkTable,
		TableData: &models.TableData{Headers: []string{"A", "B"}, Rows: [][]string{{"1", "2"}}},
	}
	out, err := RenderChunkMarkdown(conv, c)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(out, "A") || !strings.Contains(out, "1") {
		t.Errorf("expected table content in markdown output: %q", out)
	}
}
