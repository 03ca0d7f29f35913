// Package sitemap discovers and parses sitemap.xml/sitemapindex documents
// and robots.txt Sitemap: directives for a target domain.
package sitemap

import (
	"context"
	"encoding/xml"
	"net/url"
	"strings"
	"sync"

	"github.com/use-agent/ragforge/fetcher"
	"github.com/use-agent/ragforge/models"
)

var probePaths = []string{
	"/robots.txt",
	"/sitemap.xml",
	"/sitemap_index.xml",
	"/sitemap-index.xml",
	"/sitemap1.xml",
}

// urlsetXML and sitemapIndexXML mirror the two sitemap protocol documents.
type urlsetXML struct {
	XMLName xml.Name   `xml:"urlset"`
	URLs    []entryXML `xml:"url"`
}

type sitemapIndexXML struct {
	XMLName  xml.Name `xml:"sitemapindex"`
	Sitemaps []struct {
		Loc string `xml:"loc"`
	} `xml:"sitemap"`
}

type entryXML struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
	Images     []struct {
		Loc   string `xml:"loc"`
		Title string `xml:"title"`
	} `xml:"image"`
	Videos []struct {
		Title        string `xml:"title"`
		ThumbnailLoc string `xml:"thumbnail_loc"`
	} `xml:"video"`
}

// ParseResult is the outcome of parsing one sitemap document.
type ParseResult struct {
	URLs        []models.SitemapEntry
	SubSitemaps []string
}

// Service discovers and parses sitemaps for a domain using a Fetcher.
type Service struct {
	fetch *fetcher.Fetcher
}

// NewService creates a sitemap Service.
func NewService(f *fetcher.Fetcher) *Service {
	return &Service{fetch: f}
}

// fetchBody performs a best-effort GET, returning "" on any failure.
func (s *Service) fetchBody(ctx context.Context, target string) string {
	result, _, err := s.fetch.FetchVia(ctx, &fetcher.Request{URL: target}, nil)
	if err != nil || result == nil {
		return ""
	}
	return result.Body
}

// Discover probes, in parallel, the well-known sitemap paths and robots.txt
// for a domain, returning every distinct sitemap URL found. Individual probe
// failures are swallowed; discovery is best-effort.
func (s *Service) Discover(ctx context.Context, domain string) []string {
	base := NormalizeBase(domain)

	type probeResult struct {
		path string
		body string
	}
	results := make(chan probeResult, len(probePaths))
	var wg sync.WaitGroup
	for _, p := range probePaths {
		p := p
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- probeResult{path: p, body: s.fetchBody(ctx, base+p)}
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	found := make(map[string]bool)
	for r := range results {
		if r.path == "/robots.txt" {
			for _, u := range extractRobotsSitemaps(r.body) {
				found[u] = true
			}
			continue
		}
		if looksLikeSitemap(r.body) {
			found[base+r.path] = true
		}
	}

	out := make([]string, 0, len(found))
	for u := range found {
		out = append(out, u)
	}
	return out
}

// extractRobotsSitemaps scrapes every "Sitemap:" directive from a robots.txt
// body.
func extractRobotsSitemaps(body string) []string {
	var out []string
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if len(line) < 9 {
			continue
		}
		lower := strings.ToLower(line)
		if strings.HasPrefix(lower, "sitemap:") {
			u := strings.TrimSpace(line[len("sitemap:"):])
			if u != "" {
				out = append(out, u)
			}
		}
	}
	return out
}

// looksLikeSitemap accepts any body containing a urlset or sitemapindex
// opening tag, and rejects anything carrying a parsererror marker.
func looksLikeSitemap(body string) bool {
	if body == "" {
		return false
	}
	if strings.Contains(body, "<parsererror") {
		return false
	}
	return strings.Contains(body, "<urlset") || strings.Contains(body, "<sitemapindex")
}

// FetchAndParse fetches one sitemap URL and recursively resolves
// sitemapindex references (single level of recursion per sub-sitemap,
// same-domain filtered), returning the flattened set of page URLs found.
func (s *Service) FetchAndParse(ctx context.Context, sitemapURL, domain string) ParseResult {
	body := s.fetchBody(ctx, sitemapURL)
	result := Parse(body, domain)

	for _, sub := range result.SubSitemaps {
		subBody := s.fetchBody(ctx, sub)
		subResult := Parse(subBody, domain)
		result.URLs = append(result.URLs, subResult.URLs...)
	}
	return result
}

// Parse parses one sitemap document (either a urlset or a sitemapindex),
// filtering emitted URLs to the same registrable domain. Malformed XML
// yields an empty result.
func Parse(body, domain string) ParseResult {
	if strings.Contains(body, "<sitemapindex") {
		var idx sitemapIndexXML
		if err := xml.Unmarshal([]byte(body), &idx); err != nil {
			return ParseResult{}
		}
		var subs []string
		for _, sm := range idx.Sitemaps {
			if SameRegistrableDomain(sm.Loc, domain) {
				subs = append(subs, sm.Loc)
			}
		}
		return ParseResult{SubSitemaps: subs}
	}

	var set urlsetXML
	if err := xml.Unmarshal([]byte(body), &set); err != nil {
		return ParseResult{}
	}

	var entries []models.SitemapEntry
	for _, u := range set.URLs {
		if !SameRegistrableDomain(u.Loc, domain) {
			continue
		}
		entry := models.SitemapEntry{
			Loc:        u.Loc,
			LastMod:    u.LastMod,
			ChangeFreq: u.ChangeFreq,
			Priority:   u.Priority,
		}
		for _, img := range u.Images {
			entry.Images = append(entry.Images, models.SitemapImage{Loc: img.Loc, Title: img.Title})
		}
		for _, v := range u.Videos {
			entry.Videos = append(entry.Videos, models.SitemapVideo{Title: v.Title, ThumbnailLoc: v.ThumbnailLoc})
		}
		entries = append(entries, entry)
	}
	return ParseResult{URLs: entries}
}

// NormalizeBase ensures a domain has an https:// scheme and no trailing
// slash, for sitemap-path probing.
func NormalizeBase(domain string) string {
	d := strings.TrimSuffix(strings.TrimSpace(domain), "/")
	if !strings.HasPrefix(d, "http://") && !strings.HasPrefix(d, "https://") {
		d = "https://" + d
	}
	return d
}

// baseDomain strips a leading "www." from a host.
func baseDomain(host string) string {
	return strings.TrimPrefix(strings.ToLower(host), "www.")
}

// SameRegistrableDomain reports whether candidateURL's host equals target
// (after stripping www.) or is a subdomain of it.
func SameRegistrableDomain(candidateURL, target string) bool {
	u, err := url.Parse(candidateURL)
	if err != nil {
		return false
	}
	host := baseDomain(u.Hostname())
	t := baseDomain(strings.TrimPrefix(strings.TrimPrefix(target, "https://"), "http://"))
	t = strings.SplitN(t, "/", 2)[0]
	return host == t || strings.HasSuffix(host, "."+t)
}
