// Package api wires the HTTP surface: health, project CRUD, scraping
// operations, chunking jobs, and RAG pack export.
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/use-agent/ragforge/api/handler"
	"github.com/use-agent/ragforge/api/middleware"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → RequestID → Logger
//	API:     Auth (if enabled) → RateLimit
//
// Health endpoint is intentionally outside auth so monitoring probes always work.
func NewRouter(d *handler.Deps) *gin.Engine {
	gin.SetMode(d.Config.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(gin.Logger())

	v1 := r.Group("/api/v1")
	v1.GET("/health", handler.Health(d))

	protected := r.Group("/api")
	if d.Config.Auth.Enabled {
		protected.Use(middleware.Auth(d.Config.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(d.Config.RateLimit))

	protected.GET("/projects", handler.ListProjects(d))
	protected.GET("/projects/:id", handler.GetProject(d))
	protected.POST("/projects", handler.CreateProject(d))
	protected.PUT("/projects/:id", handler.UpdateProject(d))
	protected.DELETE("/projects/:id", handler.DeleteProject(d))

	protected.GET("/settings/:key", handler.GetSetting(d))
	protected.PUT("/settings/:key", handler.PutSetting(d))

	protected.POST("/scrape/discover", handler.Discover(d))
	protected.POST("/scrape/sitemap", handler.Sitemap(d))
	protected.POST("/scrape/content", handler.Content(d))
	protected.POST("/scrape/crawl", handler.Crawl(d))

	protected.POST("/projects/:id/chunks", handler.StartChunking(d))
	protected.GET("/projects/:id/chunks/stream", handler.StreamChunking(d))
	protected.POST("/projects/:id/chunks/cancel", handler.CancelChunking(d))

	protected.GET("/projects/:id/rag-pack", handler.RAGPack(d))
	protected.GET("/projects/:id/export/csv", handler.ExportCSV(d))
	protected.GET("/projects/:id/export/parquet", handler.ExportParquet(d))
	protected.GET("/projects/:id/export/incremental", handler.ExportIncremental(d))

	return r
}
