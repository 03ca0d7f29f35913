// Package orchestrator drives the chunking job: chunking, deduplication,
// and the optional embeddings/enrichment phases, one job per project at a
// time, with cancellation and a server-pushed progress stream.
package orchestrator

import (
	"sync"
	"sync/atomic"

	"github.com/use-agent/ragforge/dedup"
)

// EventType enumerates the progress-stream message kinds.
type EventType string

const (
	EventProgress  EventType = "progress"
	EventWarning   EventType = "warning"
	EventError     EventType = "error"
	EventCancelled EventType = "cancelled"
	EventComplete  EventType = "complete"
)

// BatchProgress reports how far a batched phase (embeddings/enrichment) has
// gotten.
type BatchProgress struct {
	Done  int `json:"done"`
	Total int `json:"total"`
}

// Event is one message on a job's progress stream.
type Event struct {
	Type               EventType      `json:"type"`
	Current            int            `json:"current,omitempty"`
	Total              int            `json:"total,omitempty"`
	ChunksGenerated    int            `json:"chunksGenerated,omitempty"`
	CurrentURL         string         `json:"currentUrl,omitempty"`
	Phase              string         `json:"phase,omitempty"`
	EmbeddingsProgress *BatchProgress `json:"embeddingsProgress,omitempty"`
	EnrichmentProgress *BatchProgress `json:"enrichmentProgress,omitempty"`

	Message string `json:"message,omitempty"`

	PagesProcessed int           `json:"pagesProcessed,omitempty"`
	Deduplication  *dedup.Stats  `json:"deduplication,omitempty"`
	Embeddings     *BatchProgress `json:"embeddings,omitempty"`
	Enrichment     *BatchProgress `json:"enrichment,omitempty"`
}

// JobHandle is one in-flight (or just-finished) chunking job for a project.
// Subscribers attach to its event stream; at most one job runs per project
// at a time, matching the projectId -> JobHandle sharing policy.
type JobHandle struct {
	ProjectID int64

	cancelled int32

	mu     sync.Mutex
	subs   map[int]chan Event
	nextID int
	closed bool

	done chan struct{}
}

func newJobHandle(projectID int64) *JobHandle {
	return &JobHandle{
		ProjectID: projectID,
		subs:      make(map[int]chan Event),
		done:      make(chan struct{}),
	}
}

// Cancel flips the job's cooperative cancellation flag. It does not abort
// in-flight HTTP calls; the job's own loops check it between iterations.
func (h *JobHandle) Cancel() {
	atomic.StoreInt32(&h.cancelled, 1)
}

// Cancelled reports whether Cancel has been called.
func (h *JobHandle) Cancelled() bool {
	return atomic.LoadInt32(&h.cancelled) == 1
}

// Subscribe attaches a new listener to the job's event stream. The
// returned channel is closed once the job finishes. Call unsubscribe (the
// returned func) to detach early.
func (h *JobHandle) Subscribe() (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, 32)
	id := h.nextID
	h.nextID++
	if h.closed {
		close(ch)
		return ch, func() {}
	}
	h.subs[id] = ch

	return ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if sub, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(sub)
		}
	}
}

func (h *JobHandle) publish(e Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	for _, ch := range h.subs {
		select {
		case ch <- e:
		default:
			// Slow consumer: drop rather than block the job.
		}
	}
}

// finish publishes the terminal event and closes every subscriber channel.
func (h *JobHandle) finish(e Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	for _, ch := range h.subs {
		select {
		case ch <- e:
		default:
		}
		close(ch)
	}
	h.subs = nil
	h.closed = true
	close(h.done)
}

// Done reports when the job has finished (completed, cancelled, or failed).
func (h *JobHandle) Done() <-chan struct{} {
	return h.done
}
