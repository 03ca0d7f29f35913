package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/ragforge/models"
	"github.com/use-agent/ragforge/orchestrator"
)

// StartChunking returns a handler for POST /api/projects/{id}/chunks.
func StartChunking(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		project, err := d.Repo.Get(c.Request.Context(), id)
		if err != nil {
			respondNotFoundOrInternal(c, err)
			return
		}
		if len(project.Results) == 0 {
			c.JSON(http.StatusBadRequest, models.FieldError{Message: "project has no scraped content to chunk"})
			return
		}

		_, err = d.Orch.StartChunkingJob(c.Request.Context(), id)
		if err != nil && err != orchestrator.ErrJobAlreadyRunning {
			respondInternal(c, err)
			return
		}
		c.JSON(http.StatusAccepted, models.ChunksStartResponse{Started: true})
	}
}

// StreamChunking returns a handler for GET /api/projects/{id}/chunks/stream.
// If a job is already running for the project, the caller attaches to its
// existing event stream instead of starting a new one.
func StreamChunking(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		handle, ok := d.Orch.GetJob(id)
		if !ok {
			c.JSON(http.StatusNotFound, models.ErrorDetail{Code: models.ErrCodeNotFound, Message: "no running chunking job for this project"})
			return
		}

		events, unsubscribe := handle.Subscribe()
		defer unsubscribe()

		c.Header("Content-Type", "text/event-stream")
		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")

		ctx := c.Request.Context()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, open := <-events:
				if !open {
					return
				}
				payload, err := json.Marshal(ev)
				if err != nil {
					return
				}
				fmt.Fprintf(c.Writer, "data: %s\n\n", payload)
				c.Writer.Flush()
				if ev.Type == orchestrator.EventComplete || ev.Type == orchestrator.EventCancelled || ev.Type == orchestrator.EventError {
					return
				}
			}
		}
	}
}

// CancelChunking returns a handler for POST /api/projects/{id}/chunks/cancel.
func CancelChunking(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		if !d.Orch.Cancel(id) {
			c.JSON(http.StatusNotFound, models.ErrorDetail{Code: models.ErrCodeNotFound, Message: "no running chunking job for this project"})
			return
		}
		c.Status(http.StatusAccepted)
	}
}
