package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/use-agent/ragforge/api/handler"
	"github.com/use-agent/ragforge/cache"
	"github.com/use-agent/ragforge/config"
	"github.com/use-agent/ragforge/orchestrator"
	"github.com/use-agent/ragforge/storage"
)

func newTestDeps() *handler.Deps {
	repo := storage.NewMemoryRepository()
	return &handler.Deps{
		Repo:      repo,
		Orch:      orchestrator.New(repo, nil),
		Config:    &config.Config{Server: config.ServerConfig{Mode: "test"}, RateLimit: config.RateLimitConfig{RequestsPerSecond: 100, Burst: 100}},
		Cache:     cache.New(100),
		StartTime: time.Now(),
	}
}

func TestHealthEndpointIsUnauthenticated(t *testing.T) {
	r := NewRouter(newTestDeps())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestCreateAndGetProject(t *testing.T) {
	r := NewRouter(newTestDeps())

	body, _ := json.Marshal(map[string]string{"domain": "example.com"})
	req := httptest.NewRequest(http.MethodPost, "/api/projects", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var created map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	id := int(created["id"].(float64))

	getReq := httptest.NewRequest(http.MethodGet, "/api/projects/"+strconv.Itoa(id), nil)
	getW := httptest.NewRecorder()
	r.ServeHTTP(getW, getReq)
	if getW.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", getW.Code)
	}
}

func TestCreateProjectMissingDomainIsBadRequest(t *testing.T) {
	r := NewRouter(newTestDeps())
	req := httptest.NewRequest(http.MethodPost, "/api/projects", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestChunksStartWithoutScrapedContentIsBadRequest(t *testing.T) {
	d := newTestDeps()
	r := NewRouter(d)

	body, _ := json.Marshal(map[string]string{"domain": "example.com"})
	req := httptest.NewRequest(http.MethodPost, "/api/projects", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var created map[string]any
	json.Unmarshal(w.Body.Bytes(), &created)
	id := int(created["id"].(float64))

	chunkReq := httptest.NewRequest(http.MethodPost, "/api/projects/"+strconv.Itoa(id)+"/chunks", nil)
	chunkW := httptest.NewRecorder()
	r.ServeHTTP(chunkW, chunkReq)
	if chunkW.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", chunkW.Code)
	}
}
