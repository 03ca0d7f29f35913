package storage

import (
	"context"
	"testing"

	"github.com/use-agent/ragforge/models"
)

func TestMemoryRepositoryCRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	p := &models.Project{Domain: "example.com", DisplayName: "Example", Settings: models.DefaultProjectSettings()}
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.ID == 0 {
		t.Fatalf("expected assigned ID")
	}

	got, err := repo.Get(ctx, p.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Domain != "example.com" {
		t.Errorf("unexpected domain: %s", got.Domain)
	}

	got.DisplayName = "Renamed"
	if err := repo.Update(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}
	again, _ := repo.Get(ctx, p.ID)
	if again.DisplayName != "Renamed" {
		t.Errorf("update did not persist")
	}

	list, err := repo.List(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("expected 1 project in list, got %d err %v", len(list), err)
	}

	if err := repo.Delete(ctx, p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.Get(ctx, p.ID); err != ErrNotFound {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestMemoryRepositoryChunks(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	p := &models.Project{Domain: "example.com"}
	repo.Create(ctx, p)

	chunks := []models.Chunk{{ChunkID: "doc_abc::c0000", Text: "hello"}}
	if err := repo.SaveChunks(ctx, p.ID, chunks); err != nil {
		t.Fatalf("save chunks: %v", err)
	}
	got, err := repo.GetChunks(ctx, p.ID)
	if err != nil {
		t.Fatalf("get chunks: %v", err)
	}
	if len(got) != 1 || got[0].ChunkID != "doc_abc::c0000" {
		t.Errorf("unexpected chunks: %+v", got)
	}
}

func TestMemoryRepositoryGetMissingReturnsNotFound(t *testing.T) {
	repo := NewMemoryRepository()
	if _, err := repo.Get(context.Background(), 999); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
