package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// discoverResponse mirrors the Ragforge API's /api/scrape/discover response.
type discoverResponse struct {
	Sitemaps []string `json:"sitemaps"`
	IsWikiJS bool     `json:"isWikiJs"`
}

// contentResult mirrors one entry of /api/scrape/content's results array.
type contentResult struct {
	URL   string `json:"url"`
	Data  *struct {
		Title     string `json:"title"`
		WordCount int    `json:"word_count"`
	} `json:"data"`
	Error string `json:"error"`
}

type contentResponse struct {
	Results []contentResult `json:"results"`
}

// chunksStartResponse mirrors /api/projects/{id}/chunks's response.
type chunksStartResponse struct {
	Started bool `json:"started"`
}

func main() {
	apiURL := os.Getenv("RAGFORGE_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:8080"
	}
	apiKey := os.Getenv("RAGFORGE_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(os.Stderr, "RAGFORGE_API_KEY is required")
		os.Exit(1)
	}

	s := server.NewMCPServer(
		"ragforge",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	discoverTool := mcp.NewTool("discover_sitemaps",
		mcp.WithDescription("Probe a domain's well-known paths and robots.txt for sitemap URLs."),
		mcp.WithString("domain",
			mcp.Required(),
			mcp.Description("The domain to probe, e.g. docs.example.com"),
		),
	)
	s.AddTool(discoverTool, handleDiscover(apiURL, apiKey))

	scrapeContentTool := mcp.NewTool("scrape_content",
		mcp.WithDescription("Fetch and extract up to 10 URLs into the RAG pipeline's element stream, optionally appending them to an existing project."),
		mcp.WithArray("urls",
			mcp.Required(),
			mcp.Description("Up to 10 URLs to fetch and extract"),
		),
		mcp.WithNumber("project_id",
			mcp.Description("Project to append the scraped pages to (optional)"),
		),
	)
	s.AddTool(scrapeContentTool, handleScrapeContent(apiURL, apiKey))

	startChunkingTool := mcp.NewTool("start_chunking",
		mcp.WithDescription("Start the chunking job for a project's scraped pages: sectioning, token-aware chunking, deduplication, and optional AI enrichment/embedding."),
		mcp.WithNumber("project_id",
			mcp.Required(),
			mcp.Description("The project to chunk"),
		),
	)
	s.AddTool(startChunkingTool, handleStartChunking(apiURL, apiKey))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func apiPost(ctx context.Context, client *http.Client, apiURL, apiKey, path string, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", apiKey)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

func handleDiscover(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 30 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		domain, err := request.RequireString("domain")
		if err != nil {
			return mcp.NewToolResultError("domain is required"), nil
		}

		respBody, err := apiPost(ctx, client, apiURL, apiKey, "/api/scrape/discover", map[string]string{"domain": domain})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("discover request failed: %v", err)), nil
		}

		var resp discoverResponse
		if err := json.Unmarshal(respBody, &resp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse discover response: %v", err)), nil
		}

		result := fmt.Sprintf("Found %d sitemap(s)", len(resp.Sitemaps))
		if resp.IsWikiJS {
			result += " (Wiki.js detected)"
		}
		result += ":\n"
		for _, sm := range resp.Sitemaps {
			result += sm + "\n"
		}
		return mcp.NewToolResultText(result), nil
	}
}

func handleScrapeContent(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 120 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		urls, err := request.RequireStringSlice("urls")
		if err != nil {
			return mcp.NewToolResultError("urls is required and must be an array of strings"), nil
		}

		payload := map[string]interface{}{"urls": urls}
		if pid, ok := request.GetArguments()["project_id"]; ok {
			payload["projectId"] = pid
		}

		respBody, err := apiPost(ctx, client, apiURL, apiKey, "/api/scrape/content", payload)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("content request failed: %v", err)), nil
		}

		var resp contentResponse
		if err := json.Unmarshal(respBody, &resp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse content response: %v", err)), nil
		}

		result := fmt.Sprintf("Scraped %d URL(s):\n\n", len(resp.Results))
		for _, r := range resp.Results {
			if r.Error != "" {
				result += fmt.Sprintf("--- %s: FAILED: %s ---\n", r.URL, r.Error)
				continue
			}
			title := ""
			words := 0
			if r.Data != nil {
				title = r.Data.Title
				words = r.Data.WordCount
			}
			result += fmt.Sprintf("--- %s: %s (%d words) ---\n", r.URL, title, words)
		}
		return mcp.NewToolResultText(result), nil
	}
}

func handleStartChunking(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 30 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		raw, ok := request.GetArguments()["project_id"]
		if !ok {
			return mcp.NewToolResultError("project_id is required"), nil
		}
		projectID, ok := raw.(float64)
		if !ok {
			return mcp.NewToolResultError("project_id must be a number"), nil
		}

		path := "/api/projects/" + strconv.FormatInt(int64(projectID), 10) + "/chunks"
		respBody, err := apiPost(ctx, client, apiURL, apiKey, path, map[string]interface{}{})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("start chunking request failed: %v", err)), nil
		}

		var resp chunksStartResponse
		if err := json.Unmarshal(respBody, &resp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
		}
		if !resp.Started {
			return mcp.NewToolResultError("chunking job did not start"), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Chunking job started for project %d. Stream progress at %s/api/projects/%d/chunks/stream", int64(projectID), apiURL, int64(projectID))), nil
	}
}
