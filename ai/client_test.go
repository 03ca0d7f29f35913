package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/use-agent/ragforge/models"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*Client, func()) {
	t.Helper()
	srv := httptest.NewServer(handler)
	client := NewClient(Params{APIKey: "test-key", BaseURL: srv.URL})
	return client, srv.Close
}

func TestChatSuccess(t *testing.T) {
	client, closeFn := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": `{"keywords":["a","b"]}`}},
			},
		})
	})
	defer closeFn()

	out, err := client.Chat(context.Background(), "gpt-4o-mini", "sys", "user")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != `{"keywords":["a","b"]}` {
		t.Errorf("unexpected content: %s", out)
	}
}

func TestChatUnauthorizedAbortsImmediately(t *testing.T) {
	attempts := 0
	client, closeFn := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"message": "bad key"}})
	})
	defer closeFn()

	_, err := client.Chat(context.Background(), "gpt-4o-mini", "sys", "user")
	if err == nil {
		t.Fatal("expected error")
	}
	pe, ok := err.(*models.PipelineError)
	if !ok || pe.Code != models.ErrCodeLLMAuthFailure {
		t.Fatalf("expected auth failure error, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("expected exactly 1 attempt on 401, got %d", attempts)
	}
}

func TestChatRetriesOnServerError(t *testing.T) {
	attempts := 0
	client, closeFn := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]any{"content": `{}`}}},
		})
	})
	defer closeFn()

	_, err := client.Chat(context.Background(), "gpt-4o-mini", "sys", "user")
	if err != nil {
		t.Fatalf("expected eventual success, got %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

func TestEmbedReturnsVectorsInOrder(t *testing.T) {
	client, closeFn := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"embedding": []float32{0.3, 0.4}, "index": 1},
				{"embedding": []float32{0.1, 0.2}, "index": 0},
			},
		})
	})
	defer closeFn()

	vecs, err := client.Embed(context.Background(), "text-embedding-3-small", []string{"a", "b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vecs[0][0] != 0.1 || vecs[1][0] != 0.3 {
		t.Errorf("vectors not reordered by index: %+v", vecs)
	}
}

func TestEnrichChunkValidatesCategory(t *testing.T) {
	client, closeFn := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": `{"category":"bogus-category","keywords":["x"]}`}},
			},
		})
	})
	defer closeFn()

	meta, err := client.EnrichChunk(context.Background(), "gpt-4o-mini", "some text", Features{ExtractKeywords: true, DetectCategory: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta.Category != "" {
		t.Errorf("expected invalid category to be dropped, got %q", meta.Category)
	}
	if len(meta.Keywords) != 1 {
		t.Errorf("expected keywords to be preserved, got %+v", meta.Keywords)
	}
}

func TestEmbedChunksBatchesAndAssigns(t *testing.T) {
	client, closeFn := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		var req embedRequest
		json.NewDecoder(r.Body).Decode(&req)
		data := make([]map[string]any, len(req.Input))
		for i := range req.Input {
			data[i] = map[string]any{"embedding": []float32{float32(i)}, "index": i}
		}
		json.NewEncoder(w).Encode(map[string]any{"data": data})
	})
	defer closeFn()

	chunks := make([]models.Chunk, 3)
	for i := range chunks {
		chunks[i].Text = "chunk text"
	}
	err := EmbedChunks(context.Background(), client, chunks, []int{0, 1, 2}, "text-embedding-3-small")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, c := range chunks {
		if len(c.Embedding) == 0 {
			t.Errorf("chunk %d missing embedding", i)
		}
	}
}
