package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/ragforge/models"
	"github.com/use-agent/ragforge/storage"
)

// ListProjects returns a handler for GET /api/projects.
func ListProjects(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		projects, err := d.Repo.List(c.Request.Context())
		if err != nil {
			respondInternal(c, err)
			return
		}
		summaries := make([]models.ProjectSummary, len(projects))
		for i := range projects {
			summaries[i] = projects[i].ToSummary()
		}
		c.JSON(http.StatusOK, summaries)
	}
}

// GetProject returns a handler for GET /api/projects/{id}.
func GetProject(d *Deps) gin.HandlerFunc {
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
		c.JSON(http.StatusOK, project)
	}
}

// CreateProject returns a handler for POST /api/projects.
func CreateProject(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ProjectCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.FieldError{Message: err.Error()})
			return
		}
		if req.Domain == "" {
			c.JSON(http.StatusBadRequest, models.FieldError{Message: "domain is required", Field: "domain"})
			return
		}

		status := req.Status
		if status == "" {
			status = models.StatusIdle
		}
		project := &models.Project{
			Domain:      req.Domain,
			DisplayName: req.DisplayName,
			Status:      status,
			Queue:       req.Queue,
			Processed:   req.Processed,
			Results:     req.Results,
			Errors:      req.Errors,
			Stats:       req.Stats,
			Settings:    models.DefaultProjectSettings(),
		}
		if err := d.Repo.Create(c.Request.Context(), project); err != nil {
			respondInternal(c, err)
			return
		}
		c.JSON(http.StatusCreated, project)
	}
}

// UpdateProject returns a handler for PUT /api/projects/{id}.
func UpdateProject(d *Deps) gin.HandlerFunc {
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

		var req models.ProjectUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.FieldError{Message: err.Error()})
			return
		}
		applyProjectUpdate(project, &req)

		if err := d.Repo.Update(c.Request.Context(), project); err != nil {
			respondInternal(c, err)
			return
		}
		c.JSON(http.StatusOK, project)
	}
}

func applyProjectUpdate(p *models.Project, req *models.ProjectUpdateRequest) {
	if req.DisplayName != nil {
		p.DisplayName = *req.DisplayName
	}
	if req.Status != nil {
		p.Status = *req.Status
	}
	if req.Queue != nil {
		p.Queue = *req.Queue
	}
	if req.Processed != nil {
		p.Processed = *req.Processed
	}
	if req.Results != nil {
		p.Results = *req.Results
	}
	if req.Errors != nil {
		p.Errors = *req.Errors
	}
	if req.Stats != nil {
		p.Stats = *req.Stats
	}
	if req.Settings != nil {
		p.Settings = *req.Settings
	}
}

// DeleteProject returns a handler for DELETE /api/projects/{id}.
func DeleteProject(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		if err := d.Repo.Delete(c.Request.Context(), id); err != nil {
			respondNotFoundOrInternal(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.FieldError{Message: "invalid project id", Field: "id"})
		return 0, false
	}
	return id, true
}

func respondNotFoundOrInternal(c *gin.Context, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorDetail{Code: models.ErrCodeNotFound, Message: "project not found"})
		return
	}
	respondInternal(c, err)
}

func respondInternal(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, models.ErrorDetail{Code: models.ErrCodeInternal, Message: err.Error()})
}
