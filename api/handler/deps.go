// Package handler implements the HTTP handlers wired by api.NewRouter.
package handler

import (
	"time"

	"github.com/use-agent/ragforge/ai"
	"github.com/use-agent/ragforge/cache"
	"github.com/use-agent/ragforge/config"
	"github.com/use-agent/ragforge/orchestrator"
	"github.com/use-agent/ragforge/storage"
)

// Deps bundles every dependency a handler needs, built once at startup and
// closed over by each handler constructor.
type Deps struct {
	Repo      storage.Repository
	Orch      *orchestrator.Orchestrator
	AIClient  *ai.Client
	Config    *config.Config
	Cache     *cache.Cache
	StartTime time.Time
}
