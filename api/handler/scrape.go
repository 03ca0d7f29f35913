package handler

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gin-gonic/gin"

	"github.com/use-agent/ragforge/cache"
	"github.com/use-agent/ragforge/dedup"
	"github.com/use-agent/ragforge/extractor"
	"github.com/use-agent/ragforge/fetcher"
	"github.com/use-agent/ragforge/models"
	"github.com/use-agent/ragforge/sitemap"
)

const maxContentURLsPerCall = 10

// contentCacheTTL bounds how long a fetched-and-extracted page is served
// from cache before a content-scrape call re-fetches it.
const contentCacheTTL = 10 * time.Minute

// Discover returns a handler for POST /api/scrape/discover.
func Discover(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.DiscoverRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Domain == "" {
			c.JSON(http.StatusBadRequest, models.FieldError{Message: "domain is required", Field: "domain"})
			return
		}

		svc := sitemap.NewService(fetcher.New())
		sitemaps := svc.Discover(c.Request.Context(), req.Domain)

		resp := models.DiscoverResponse{Sitemaps: sitemaps}
		for _, sm := range sitemaps {
			if strings.Contains(sm, "wiki") {
				resp.IsWikiJS = true
				break
			}
		}
		c.JSON(http.StatusOK, resp)
	}
}

// Sitemap returns a handler for POST /api/scrape/sitemap.
func Sitemap(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.SitemapRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.URL == "" {
			c.JSON(http.StatusBadRequest, models.FieldError{Message: "url is required", Field: "url"})
			return
		}

		domain := req.URL
		if u, err := url.Parse(req.URL); err == nil {
			domain = u.Hostname()
		}

		svc := sitemap.NewService(fetcher.New())
		result := svc.FetchAndParse(c.Request.Context(), req.URL, domain)
		c.JSON(http.StatusOK, models.SitemapResponse{URLs: result.URLs, SubSitemaps: result.SubSitemaps})
	}
}

// Content returns a handler for POST /api/scrape/content: fetches and
// extracts up to 10 URLs, optionally appending the results to a project's
// Results list.
func Content(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ContentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.FieldError{Message: err.Error()})
			return
		}
		if len(req.URLs) == 0 {
			c.JSON(http.StatusBadRequest, models.FieldError{Message: "urls must be non-empty", Field: "urls"})
			return
		}
		if len(req.URLs) > maxContentURLsPerCall {
			c.JSON(http.StatusBadRequest, models.FieldError{Message: "at most 10 urls per call", Field: "urls"})
			return
		}

		var project *models.Project
		settings := models.DefaultProjectSettings()
		if req.ProjectID != 0 {
			p, err := d.Repo.Get(c.Request.Context(), req.ProjectID)
			if err != nil {
				respondNotFoundOrInternal(c, err)
				return
			}
			project = p
			settings = p.Settings
		}

		svc := serviceFromScraping(settings.Scraping)
		results := fetchAndExtractAll(c.Request.Context(), svc, d.Cache, req.URLs, settings.Scraping.ExtractStructuredData)

		if project != nil {
			for _, r := range results {
				if r.Data != nil {
					project.Results = append(project.Results, *r.Data)
					project.Processed = append(project.Processed, r.URL)
				} else {
					project.Errors = append(project.Errors, models.ScrapeErrorEntry{URL: r.URL, Message: r.Error})
				}
			}
			project.Stats.PagesProcessed = len(project.Processed)
			project.Stats.PagesFailed = len(project.Errors)
			if err := d.Repo.Update(c.Request.Context(), project); err != nil {
				respondInternal(c, err)
				return
			}
		}

		c.JSON(http.StatusOK, models.ContentResponse{
			Results: results,
			RateLimitState: &models.RateLimitState{
				CurrentDelayMs: svc.CurrentDelay().Milliseconds(),
			},
			ProxyInfo: &models.ProxyInfo{
				Enabled: len(settings.Scraping.Proxies) > 0,
				Count:   len(settings.Scraping.Proxies),
			},
		})
	}
}

func serviceFromScraping(s models.ScrapingSettings) *fetcher.Service {
	rl := s.RateLimiting
	return fetcher.NewService(
		msDuration(rl.BaseDelayMs),
		msDuration(rl.MaxDelayMs),
		rl.BackoffMultiplier,
		s.Proxies,
	)
}

// fetchAndExtractAll fetches every URL in parallel, skips pages that are
// structural duplicates of an earlier page in the same batch (same DOM
// fingerprint — e.g. the same content reached via two sitemap entries or a
// tracking-parameter variant URL), and extracts the rest.
func fetchAndExtractAll(ctx context.Context, svc *fetcher.Service, pageCache *cache.Cache, urls []string, extractStructured bool) []models.ContentResult {
	fetched := make([]fetchOutcome, len(urls))
	var wg sync.WaitGroup
	for i, u := range urls {
		wg.Add(1)
		go func(i int, u string) {
			defer wg.Done()
			fetched[i] = fetchOne(ctx, svc, pageCache, u)
		}(i, u)
	}
	wg.Wait()

	fingerprints := make(map[string]uint64, len(urls))
	var order []string
	for _, f := range fetched {
		if f.err == nil && f.cached == nil {
			fingerprints[f.url] = dedup.RawPageFingerprint(f.result.Body)
			order = append(order, f.url)
		}
	}
	skip := dedup.RawPageDedup(order, fingerprints)

	results := make([]models.ContentResult, len(urls))
	var extractWg sync.WaitGroup
	for i, f := range fetched {
		if f.cached != nil {
			results[i] = models.ContentResult{URL: f.url, Data: f.cached}
			continue
		}
		if f.err != nil {
			results[i] = models.ContentResult{URL: f.url, Error: f.err.Error()}
			continue
		}
		if dupOf, ok := skip[f.url]; ok {
			results[i] = models.ContentResult{URL: f.url, Error: "skipped: structural duplicate of " + dupOf}
			continue
		}
		extractWg.Add(1)
		go func(i int, f fetchOutcome) {
			defer extractWg.Done()
			results[i] = extractOne(f, pageCache, extractStructured)
		}(i, f)
	}
	extractWg.Wait()
	return results
}

// fetchOutcome carries one URL's fetch result (or cache hit / error)
// through to the dedup-then-extract stage.
type fetchOutcome struct {
	url    string
	result *fetcher.Result
	cached *models.ScrapedPage
	err    error
}

func fetchOne(ctx context.Context, svc *fetcher.Service, pageCache *cache.Cache, target string) fetchOutcome {
	if pageCache != nil {
		if page, ok := pageCache.Get(target, contentCacheTTL); ok {
			return fetchOutcome{url: target, cached: &page}
		}
	}
	result, err := svc.Fetch(ctx, &fetcher.Request{URL: target})
	if err != nil {
		return fetchOutcome{url: target, err: err}
	}
	return fetchOutcome{url: target, result: result}
}

func extractOne(f fetchOutcome, pageCache *cache.Cache, extractStructured bool) models.ContentResult {
	page, perr := extractor.Extract(f.result.Body, f.url, extractor.Options{ExtractStructuredData: extractStructured})
	if perr != nil {
		return models.ContentResult{URL: f.url, Error: perr.Error(), UsedProxy: f.result.UsedProxy}
	}
	if pageCache != nil {
		pageCache.Set(f.url, *page)
	}
	return models.ContentResult{URL: f.url, Data: page, UsedProxy: f.result.UsedProxy}
}

// Crawl returns a handler for POST /api/scrape/crawl: fetches each seed URL
// directly and reports the links found on it, alongside basic page data.
// Breadth expansion across discovered links is left to the caller, which
// re-invokes this endpoint with the next frontier.
func Crawl(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CrawlRequest
		if err := c.ShouldBindJSON(&req); err != nil || len(req.URLs) == 0 {
			c.JSON(http.StatusBadRequest, models.FieldError{Message: "urls must be non-empty", Field: "urls"})
			return
		}

		svc := serviceFromScraping(models.DefaultProjectSettings().Scraping)
		results := make([]models.CrawlResult, len(req.URLs))
		var wg sync.WaitGroup
		for i, u := range req.URLs {
			wg.Add(1)
			go func(i int, u string) {
				defer wg.Done()
				results[i] = crawlOne(c.Request.Context(), svc, u, req.Domain)
			}(i, u)
		}
		wg.Wait()
		c.JSON(http.StatusOK, models.CrawlResponse{Results: results})
	}
}

func crawlOne(ctx context.Context, svc *fetcher.Service, target, domain string) models.CrawlResult {
	result, err := svc.Fetch(ctx, &fetcher.Request{URL: target})
	if err != nil {
		return models.CrawlResult{URL: target, Error: err.Error()}
	}

	doc, perr := goquery.NewDocumentFromReader(strings.NewReader(result.Body))
	if perr != nil {
		return models.CrawlResult{URL: target, Error: perr.Error()}
	}

	base, _ := url.Parse(target)
	var links []string
	seen := map[string]bool{}
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		resolved := resolveLink(href, base)
		if resolved == "" || seen[resolved] {
			return
		}
		if domain != "" && !sitemap.SameRegistrableDomain(resolved, domain) {
			return
		}
		seen[resolved] = true
		links = append(links, resolved)
	})

	var images, videos []string
	doc.Find("img[src]").Each(func(_ int, s *goquery.Selection) {
		if src, ok := s.Attr("src"); ok {
			images = append(images, resolveLink(src, base))
		}
	})
	doc.Find("video source[src]").Each(func(_ int, s *goquery.Selection) {
		if src, ok := s.Attr("src"); ok {
			videos = append(videos, resolveLink(src, base))
		}
	})

	return models.CrawlResult{
		URL:   target,
		Links: links,
		Data: &models.CrawlPageData{
			Title:  result.Title,
			Images: images,
			Videos: videos,
		},
	}
}

func resolveLink(href string, base *url.URL) string {
	u, err := url.Parse(strings.TrimSpace(href))
	if err != nil || base == nil {
		return ""
	}
	resolved := base.ResolveReference(u)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	return resolved.String()
}
