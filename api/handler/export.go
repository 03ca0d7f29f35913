package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/ragforge/models"
	"github.com/use-agent/ragforge/ragpack"
)

// RAGPack returns a handler for GET /api/projects/{id}/rag-pack.
func RAGPack(d *Deps) gin.HandlerFunc {
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

		zipBytes, err := ragpack.Pack(project, project.Settings.Export.IncludeEmbeddings, time.Now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.ErrorDetail{Code: models.ErrCodePack, Message: err.Error()})
			return
		}

		filename := fmt.Sprintf("rag-pack-%d.zip", project.ID)
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		c.Data(http.StatusOK, "application/zip", zipBytes)
	}
}

// ExportCSV returns a handler for GET /api/projects/{id}/export/csv.
func ExportCSV(d *Deps) gin.HandlerFunc {
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

		filename := fmt.Sprintf("chunks-%d.csv", project.ID)
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		c.Header("Content-Type", "text/csv")
		c.Status(http.StatusOK)
		if err := ragpack.WriteCSV(c.Writer, project.Chunks, project.Settings.Export.IncludeEmbeddings); err != nil {
			return
		}
	}
}

// ExportParquet returns a handler for GET /api/projects/{id}/export/parquet.
func ExportParquet(d *Deps) gin.HandlerFunc {
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

		filename := fmt.Sprintf("chunks-%d.parquet", project.ID)
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		c.Header("Content-Type", "application/octet-stream")
		c.Status(http.StatusOK)
		if err := ragpack.WriteParquet(c.Writer, project.Chunks, project.Settings.Export.IncludeEmbeddings); err != nil {
			return
		}
	}
}

// ExportIncremental returns a handler for GET /api/projects/{id}/export/incremental.
func ExportIncremental(d *Deps) gin.HandlerFunc {
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

		now := time.Now()
		diff := ragpack.Diff(project, now)

		project.LastExportedAt = &now
		project.ExportedChunkHashes = ragpack.Snapshot(project)
		if err := d.Repo.Update(c.Request.Context(), project); err != nil {
			respondInternal(c, err)
			return
		}

		c.JSON(http.StatusOK, models.IncrementalExport{
			New:        diff.New,
			Updated:    diff.Updated,
			DeletedIDs: diff.DeletedIDs,
			ExportedAt: diff.ExportedAt,
		})
	}
}
