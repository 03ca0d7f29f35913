package models

import "time"

// HealthResponse is returned by GET /api/v1/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime"`
	Version string `json:"version"`
}

// FieldError is the structured 400 body for request validation failures.
type FieldError struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// ProjectCreateRequest is the body of POST /api/projects.
type ProjectCreateRequest struct {
	Domain      string             `json:"domain"`
	DisplayName string             `json:"displayName,omitempty"`
	Status      ProjectStatus      `json:"status,omitempty"`
	Queue       []string           `json:"queue,omitempty"`
	Processed   []string           `json:"processed,omitempty"`
	Results     []ScrapedPage      `json:"results,omitempty"`
	Errors      []ScrapeErrorEntry `json:"errors,omitempty"`
	Stats       ProjectStats       `json:"stats,omitempty"`
}

// ProjectUpdateRequest is the body of PUT /api/projects/{id}; every field is
// optional and only present fields are applied.
type ProjectUpdateRequest struct {
	DisplayName *string             `json:"displayName,omitempty"`
	Status      *ProjectStatus      `json:"status,omitempty"`
	Queue       *[]string           `json:"queue,omitempty"`
	Processed   *[]string           `json:"processed,omitempty"`
	Results     *[]ScrapedPage      `json:"results,omitempty"`
	Errors      *[]ScrapeErrorEntry `json:"errors,omitempty"`
	Stats       *ProjectStats       `json:"stats,omitempty"`
	Settings    *ProjectSettings    `json:"settings,omitempty"`
}

// DiscoverRequest is the body of POST /api/scrape/discover.
type DiscoverRequest struct {
	Domain string `json:"domain"`
}

// DiscoverResponse reports sitemap URLs found for a domain, plus a best-effort
// Wiki.js detection (Wiki.js exposes its page tree through a predictable
// GraphQL-free sitemap path the probe already covers).
type DiscoverResponse struct {
	Sitemaps    []string `json:"sitemaps"`
	IsWikiJS    bool     `json:"isWikiJs"`
	WikiJSPages []string `json:"wikiJsPages,omitempty"`
}

// SitemapRequest is the body of POST /api/scrape/sitemap.
type SitemapRequest struct {
	URL string `json:"url"`
}

// SitemapResponse is the parsed result of one sitemap document.
type SitemapResponse struct {
	URLs        []SitemapEntry `json:"urls"`
	SubSitemaps []string       `json:"subSitemaps,omitempty"`
}

// ContentRequest is the body of POST /api/scrape/content. URLs beyond the
// first 10 are rejected with a 400.
type ContentRequest struct {
	URLs      []string `json:"urls"`
	ProjectID int64    `json:"projectId,omitempty"`
}

// ContentResult is one URL's outcome within a ContentResponse.
type ContentResult struct {
	URL       string       `json:"url"`
	Data      *ScrapedPage `json:"data,omitempty"`
	Error     string       `json:"error,omitempty"`
	UsedProxy string       `json:"usedProxy,omitempty"`
}

// RateLimitState reports a project's adaptive fetch delay for diagnostics.
type RateLimitState struct {
	CurrentDelayMs int64 `json:"currentDelayMs"`
}

// ProxyInfo reports a project's proxy rotation configuration.
type ProxyInfo struct {
	Enabled bool `json:"enabled"`
	Count   int  `json:"count"`
}

// ContentResponse is the result of POST /api/scrape/content.
type ContentResponse struct {
	Results        []ContentResult `json:"results"`
	RateLimitState *RateLimitState `json:"rateLimitState,omitempty"`
	ProxyInfo      *ProxyInfo      `json:"proxyInfo,omitempty"`
}

// CrawlRequest is the body of POST /api/scrape/crawl: a fixed list of seed
// URLs fetched and link-extracted in one pass (breadth expansion is the
// caller's responsibility across repeated calls).
type CrawlRequest struct {
	URLs   []string `json:"urls"`
	Domain string   `json:"domain"`
}

// CrawlPageData is the link/media summary harvested from one crawled page.
type CrawlPageData struct {
	Title  string   `json:"title"`
	Images []string `json:"images,omitempty"`
	Videos []string `json:"videos,omitempty"`
}

// CrawlResult is one URL's outcome within a CrawlResponse.
type CrawlResult struct {
	URL   string         `json:"url"`
	Links []string       `json:"links"`
	Data  *CrawlPageData `json:"data,omitempty"`
	Error string         `json:"error,omitempty"`
}

// CrawlResponse is the result of POST /api/scrape/crawl.
type CrawlResponse struct {
	Results []CrawlResult `json:"results"`
}

// SettingValue wraps a scalar settings-store value for GET/PUT /api/settings/{key}.
type SettingValue struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// ChunksStartResponse acknowledges POST /api/projects/{id}/chunks.
type ChunksStartResponse struct {
	Started bool `json:"started"`
}

// IncrementalExport is the body of GET /api/projects/{id}/export/incremental.
type IncrementalExport struct {
	New        []Chunk   `json:"new"`
	Updated    []Chunk   `json:"updated"`
	DeletedIDs []string  `json:"deletedIds"`
	ExportedAt time.Time `json:"exportedAt"`
}
