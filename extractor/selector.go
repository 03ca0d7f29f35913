package extractor

import "github.com/PuerkitoBio/goquery"

// genericSelectors are probed, in order, after any document-specific
// selectors configured on the project. The first selector whose matched
// text exceeds mainContentMinChars wins.
var genericSelectors = []string{
	"main article",
	"article",
	"main",
	"#content",
	".content",
}

const mainContentMinChars = 100

// selectMainContent probes configured selectors first, then the generic
// list, returning the first match whose text length exceeds the threshold
// and true. Returns (nil, false) when no selector qualifies, so the caller
// can try readability before falling back to <body>.
func selectMainContent(doc *goquery.Document, configured []string) (*goquery.Selection, bool) {
	candidates := make([]string, 0, len(configured)+len(genericSelectors))
	candidates = append(candidates, configured...)
	candidates = append(candidates, genericSelectors...)

	for _, sel := range candidates {
		if sel == "" {
			continue
		}
		match := doc.Find(sel).First()
		if match.Length() == 0 {
			continue
		}
		if len(match.Text()) > mainContentMinChars {
			return match, true
		}
	}
	return nil, false
}
