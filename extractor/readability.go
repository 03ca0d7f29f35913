package extractor

import (
	"log/slog"
	nurl "net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

const readabilityMinChars = 100

// readabilityMainContent runs Mozilla Readability against rawHTML as a
// secondary main-content signal, used when no configured or generic CSS
// selector found a qualifying block. Returns nil if readability itself
// fails or produces too little text, in which case the caller falls back
// to <body>.
func readabilityMainContent(rawHTML, pageURL string) *goquery.Selection {
	parsedURL, err := nurl.Parse(pageURL)
	if err != nil {
		return nil
	}
	article, err := readability.FromReader(strings.NewReader(rawHTML), parsedURL)
	if err != nil {
		slog.Debug("extractor: readability fallback failed", "url", pageURL, "error", err)
		return nil
	}
	if len(strings.TrimSpace(article.TextContent)) < readabilityMinChars {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(article.Content))
	if err != nil {
		return nil
	}
	return doc.Find("body")
}
