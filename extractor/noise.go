package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// noiseTags are always skipped regardless of class/id.
var noiseTags = map[string]bool{
	"script": true, "style": true, "noscript": true, "nav": true,
	"header": true, "footer": true, "aside": true, "iframe": true,
	"svg": true, "form": true,
}

// noiseClassIDPatterns are substrings in class/id attributes that mark an
// element as navigational/boilerplate chrome to be skipped.
var noiseClassIDPatterns = []string{
	"navigation", "menu", "sidebar", "breadcrumb", "toc", "footer", "header",
	"banner", "ad", "ads", "social-share", "related-posts", "comments",
	"cookie-banner", "popup", "modal",
}

// isNoise reports whether el should be skipped entirely (and not recursed
// into) by the element emitter.
func isNoise(el *goquery.Selection) bool {
	tag := goquery.NodeName(el)
	if noiseTags[tag] {
		return true
	}
	if role, ok := el.Attr("role"); ok && role == "navigation" {
		return true
	}
	class, _ := el.Attr("class")
	id, _ := el.Attr("id")
	combined := strings.ToLower(class + " " + id)
	for _, pat := range noiseClassIDPatterns {
		if strings.Contains(combined, pat) {
			return true
		}
	}
	return false
}
