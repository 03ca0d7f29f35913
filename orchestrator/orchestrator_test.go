package orchestrator

import (
	"context"
	"testing"
	"time"

	"github.com/use-agent/ragforge/models"
	"github.com/use-agent/ragforge/storage"
)

func newTestProject(t *testing.T, repo storage.Repository) int64 {
	t.Helper()
	p := &models.Project{
		Domain:   "example.com",
		Settings: models.DefaultProjectSettings(),
		Results: []models.ScrapedPage{
			{
				URL:   "https://example.com/a",
				Title: "Page A",
				Elements: []models.Element{
					{Kind: models.ElementHeading, Level: 1, Text: "Title"},
					{Kind: models.ElementParagraph, Text: "AAA BBB."},
				},
			},
		},
	}
	if err := repo.Create(context.Background(), p); err != nil {
		t.Fatalf("create project: %v", err)
	}
	return p.ID
}

func drain(t *testing.T, h *JobHandle, timeout time.Duration) []Event {
	t.Helper()
	ch, unsub := h.Subscribe()
	defer unsub()
	var events []Event
	deadline := time.After(timeout)
	for {
		select {
		case e, ok := <-ch:
			if !ok {
				return events
			}
			events = append(events, e)
		case <-deadline:
			t.Fatal("timed out waiting for job events")
		}
	}
}

func TestOrchestratorRunsChunkingAndCompletes(t *testing.T) {
	repo := storage.NewMemoryRepository()
	projectID := newTestProject(t, repo)
	orch := New(repo, nil)

	h, err := orch.StartChunkingJob(context.Background(), projectID)
	if err != nil {
		t.Fatalf("unexpected error starting job: %v", err)
	}
	events := drain(t, h, 5*time.Second)

	last := events[len(events)-1]
	if last.Type != EventComplete {
		t.Fatalf("expected terminal complete event, got %+v", last)
	}
	if last.ChunksGenerated == 0 {
		t.Errorf("expected at least one chunk generated")
	}

	project, err := repo.Get(context.Background(), projectID)
	if err != nil {
		t.Fatalf("get project: %v", err)
	}
	if len(project.Chunks) == 0 {
		t.Errorf("expected chunks persisted on project")
	}
}

func TestOrchestratorRejectsConcurrentJob(t *testing.T) {
	repo := storage.NewMemoryRepository()
	projectID := newTestProject(t, repo)
	orch := New(repo, nil)

	h1, err := orch.StartChunkingJob(context.Background(), projectID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	h2, err := orch.StartChunkingJob(context.Background(), projectID)
	if err != ErrJobAlreadyRunning {
		t.Fatalf("expected ErrJobAlreadyRunning, got %v", err)
	}
	if h1 != h2 {
		t.Errorf("expected the same job handle to be returned")
	}

	drain(t, h1, 5*time.Second)
}

func TestOrchestratorCancellation(t *testing.T) {
	repo := storage.NewMemoryRepository()
	projectID := newTestProject(t, repo)
	orch := New(repo, nil)

	h, err := orch.StartChunkingJob(context.Background(), projectID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h.Cancel()
	events := drain(t, h, 5*time.Second)
	last := events[len(events)-1]
	if last.Type != EventCancelled && last.Type != EventComplete {
		t.Fatalf("expected cancelled or already-complete terminal event, got %+v", last)
	}
}
