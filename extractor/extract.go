// Package extractor turns a fetched HTML document into an ordered element
// stream: main-content isolation, noise pruning, and table/code/media
// preservation.
package extractor

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/use-agent/ragforge/models"
)

// Options configures one Extract call.
type Options struct {
	ContentSelectors      []string
	ExtractStructuredData bool
}

var headingLevelRe = regexp.MustCompile(`^h([1-6])$`)

var lazyAttrs = []string{"data-src", "data-lazy-src", "data-original", "data-lazy", "data-image"}

var langHints = []string{"language-", "lang-", "hljs-", "prism-"}
var knownLangKeywords = map[string]bool{
	"go": true, "golang": true, "python": true, "javascript": true, "js": true,
	"typescript": true, "ts": true, "java": true, "c": true, "cpp": true,
	"csharp": true, "ruby": true, "rust": true, "bash": true, "shell": true,
	"sql": true, "json": true, "yaml": true, "html": true, "css": true,
}

// Extract parses rawHTML and produces a ScrapedPage with its ordered
// element stream and, when requested, structured-data harvest.
func Extract(rawHTML, pageURL string, opts Options) (*models.ScrapedPage, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, err
	}

	main, ok := selectMainContent(doc, opts.ContentSelectors)
	if !ok {
		if alt := readabilityMainContent(rawHTML, pageURL); alt != nil {
			main = alt
		} else {
			main = doc.Find("body")
		}
	}

	base, _ := url.Parse(pageURL)
	e := &emitter{base: base}
	main.Contents().Each(func(_ int, s *goquery.Selection) {
		e.walk(s)
	})

	elements := e.elements
	if len(elements) == 0 {
		elements = fallbackSweep(doc)
	}

	page := &models.ScrapedPage{
		URL:       pageURL,
		Title:     strings.TrimSpace(doc.Find("title").First().Text()),
		Timestamp: nowRFC3339(),
		WordCount: wordCount(elements),
		Elements:  elements,
	}
	if opts.ExtractStructuredData {
		page.StructuredData = harvestStructuredData(doc)
	}
	return page, nil
}

// nowRFC3339 is a seam so callers that need determinism (tests) can wrap it;
// production code uses wall-clock time.
var nowRFC3339 = func() string { return time.Now().UTC().Format(time.RFC3339) }

type emitter struct {
	base     *url.URL
	elements []models.Element
}

// walk recurses preorder over main-content children, emitting elements per
// the emission rules. Noise subtrees are skipped entirely.
func (e *emitter) walk(s *goquery.Selection) {
	if s.Nodes == nil || len(s.Nodes) == 0 {
		return
	}
	if goquery.NodeName(s) == "#text" {
		return
	}
	if isNoise(s) {
		return
	}

	tag := goquery.NodeName(s)
	switch {
	case headingLevelRe.MatchString(tag):
		level, _ := strconv.Atoi(headingLevelRe.FindStringSubmatch(tag)[1])
		text := strings.TrimSpace(s.Text())
		if len(text) > 1 {
			e.elements = append(e.elements, models.Element{Kind: models.ElementHeading, Level: level, Text: text})
		}
		return
	case tag == "p":
		text := strings.TrimSpace(s.Text())
		if len(text) > 10 {
			e.elements = append(e.elements, models.Element{Kind: models.ElementParagraph, Text: text})
		}
		return
	case tag == "ul" || tag == "ol":
		e.emitList(s, tag == "ol")
		return
	case tag == "blockquote":
		text := strings.TrimSpace(s.Text())
		if text != "" {
			e.elements = append(e.elements, models.Element{Kind: models.ElementBlockquote, Text: text})
		}
		return
	case tag == "pre" || tag == "code":
		e.emitCode(s)
		return
	case tag == "table":
		e.emitTable(s)
		return
	case tag == "img":
		e.emitImage(s, "")
		return
	case tag == "video":
		e.emitVideo(s)
		return
	}

	s.Contents().Each(func(_ int, child *goquery.Selection) {
		e.walk(child)
	})
}

func (e *emitter) emitList(s *goquery.Selection, ordered bool) {
	var items []string
	s.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
		text := strings.TrimSpace(li.Text())
		if text != "" {
			items = append(items, text)
		}
	})
	if len(items) > 0 {
		e.elements = append(e.elements, models.Element{Kind: models.ElementList, Ordered: ordered, Items: items})
	}
}

func (e *emitter) emitCode(s *goquery.Selection) {
	text := s.Text()
	if strings.TrimSpace(text) == "" {
		return
	}
	lang := detectLanguage(s)
	e.elements = append(e.elements, models.Element{
		Kind:      models.ElementCode,
		Language:  lang,
		Text:      text,
		LineCount: strings.Count(text, "\n") + 1,
	})
}

func detectLanguage(s *goquery.Selection) string {
	classes := []string{}
	if c, ok := s.Attr("class"); ok {
		classes = append(classes, strings.Fields(c)...)
	}
	s.Find("code").Each(func(_ int, inner *goquery.Selection) {
		if c, ok := inner.Attr("class"); ok {
			classes = append(classes, strings.Fields(c)...)
		}
	})
	for _, cls := range classes {
		low := strings.ToLower(cls)
		for _, hint := range langHints {
			if strings.HasPrefix(low, hint) {
				return strings.TrimPrefix(low, hint)
			}
		}
		if knownLangKeywords[low] {
			return low
		}
	}
	return ""
}

func (e *emitter) emitTable(s *goquery.Selection) {
	var headers []string
	s.Find("thead th").Each(func(_ int, th *goquery.Selection) {
		headers = append(headers, strings.TrimSpace(th.Text()))
	})
	if len(headers) == 0 {
		s.Find("tr").First().Find("th").Each(func(_ int, th *goquery.Selection) {
			headers = append(headers, strings.TrimSpace(th.Text()))
		})
	}

	var rows [][]string
	var cellImages []models.CellImage
	bodyRows := s.Find("tbody tr")
	if bodyRows.Length() == 0 {
		bodyRows = s.Find("tr")
	}
	bodyRows.Each(func(rowIdx int, tr *goquery.Selection) {
		if tr.Find("th").Length() > 0 && tr.Find("td").Length() == 0 {
			return // header row already captured above
		}
		var row []string
		tr.Find("td").Each(func(colIdx int, td *goquery.Selection) {
			cellText := strings.TrimSpace(td.Text())
			if img := td.Find("img").First(); img.Length() > 0 {
				alt, _ := img.Attr("alt")
				if alt == "" {
					alt = "[Image]"
				}
				if cellText == "" {
					cellText = alt
				}
				src := resolveSrc(img, e.base)
				if src != "" {
					cellImages = append(cellImages, models.CellImage{Src: src, Alt: alt, Row: rowIdx, Col: colIdx})
					e.emitImage(img, "table")
				}
			}
			row = append(row, cellText)
		})
		if len(row) > 0 {
			rows = append(rows, row)
		}
	})

	caption := strings.TrimSpace(s.Find("caption").First().Text())
	e.elements = append(e.elements, models.Element{
		Kind:       models.ElementTable,
		Headers:    headers,
		Rows:       rows,
		Caption:    caption,
		CellImages: cellImages,
	})
}

func (e *emitter) emitImage(s *goquery.Selection, context string) {
	src := resolveSrc(s, e.base)
	if src == "" || strings.HasPrefix(src, "data:") || isPlaceholder(src) {
		return
	}
	alt, _ := s.Attr("alt")
	e.elements = append(e.elements, models.Element{
		Kind:      models.ElementMedia,
		MediaKind: models.MediaImage,
		Src:       src,
		Alt:       alt,
		Context:   context,
	})
}

func (e *emitter) emitVideo(s *goquery.Selection) {
	src, ok := s.Attr("src")
	if !ok || src == "" {
		if source := s.Find("source").First(); source.Length() > 0 {
			src, _ = source.Attr("src")
		}
	}
	if src == "" {
		return
	}
	resolved := resolveURL(src, e.base)
	e.elements = append(e.elements, models.Element{
		Kind:      models.ElementMedia,
		MediaKind: models.MediaVideo,
		Src:       resolved,
	})
}

// resolveSrc applies the lazy-load fallback chain before falling back to
// the plain src attribute, resolving the winner against the page URL.
func resolveSrc(s *goquery.Selection, base *url.URL) string {
	for _, attr := range lazyAttrs {
		if v, ok := s.Attr(attr); ok && v != "" {
			return resolveURL(v, base)
		}
	}
	if srcset, ok := s.Attr("srcset"); ok && srcset != "" {
		first := strings.TrimSpace(strings.Split(srcset, ",")[0])
		first = strings.Fields(first)[0]
		if first != "" {
			return resolveURL(first, base)
		}
	}
	if v, ok := s.Attr("src"); ok && v != "" {
		return resolveURL(v, base)
	}
	return ""
}

func resolveURL(raw string, base *url.URL) string {
	if base == nil {
		return raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return base.ResolveReference(u).String()
}

func isPlaceholder(src string) bool {
	low := strings.ToLower(src)
	return strings.Contains(low, "placeholder") || strings.Contains(low, "1x1") || strings.Contains(low, "blank.gif") || strings.Contains(low, "spacer.gif")
}

// fallbackSweep is used when the emission pass produces zero elements: it
// sweeps the whole document for headings and paragraphs with minimal
// length requirements.
func fallbackSweep(doc *goquery.Document) []models.Element {
	var out []models.Element
	doc.Find("h1,h2,h3,h4,h5,h6,p").Each(func(_ int, s *goquery.Selection) {
		tag := goquery.NodeName(s)
		text := strings.TrimSpace(s.Text())
		if len(text) < 3 {
			return
		}
		if m := headingLevelRe.FindStringSubmatch(tag); m != nil {
			level, _ := strconv.Atoi(m[1])
			out = append(out, models.Element{Kind: models.ElementHeading, Level: level, Text: text})
			return
		}
		out = append(out, models.Element{Kind: models.ElementParagraph, Text: text})
	})
	return out
}

func wordCount(elements []models.Element) int {
	n := 0
	for _, el := range elements {
		switch el.Kind {
		case models.ElementHeading, models.ElementParagraph, models.ElementBlockquote:
			n += len(strings.Fields(el.Text))
		case models.ElementList:
			for _, item := range el.Items {
				n += len(strings.Fields(item))
			}
		}
	}
	return n
}
