package extractor

import (
	"testing"

	"github.com/use-agent/ragforge/models"
)

func TestExtractHeadingAndParagraph(t *testing.T) {
	html := `<html><body><main><h1>Title</h1><p>This is a long enough paragraph.</p></main></body></html>`
	page, err := Extract(html, "https://example.com/a", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Elements) != 2 {
		t.Fatalf("expected 2 elements, got %d: %+v", len(page.Elements), page.Elements)
	}
	if page.Elements[0].Kind != models.ElementHeading || page.Elements[0].Text != "Title" {
		t.Errorf("unexpected first element: %+v", page.Elements[0])
	}
	if page.Elements[1].Kind != models.ElementParagraph {
		t.Errorf("unexpected second element: %+v", page.Elements[1])
	}
}

func TestExtractSkipsNoise(t *testing.T) {
	html := `<html><body><main>
		<nav class="site-nav"><p>This should never appear anywhere.</p></nav>
		<article><p>Real content paragraph goes here now.</p></article>
	</main></body></html>`
	page, err := Extract(html, "https://example.com/a", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, el := range page.Elements {
		if el.Kind == models.ElementParagraph && el.Text == "This should never appear anywhere." {
			t.Fatalf("noise element leaked through: %+v", el)
		}
	}
}

func TestExtractTablePreservesRowsAndImages(t *testing.T) {
	html := `<html><body><main><table>
		<thead><tr><th>A</th><th>B</th></tr></thead>
		<tbody>
			<tr><td>1</td><td><img src="https://example.com/x.png" alt="pic"></td></tr>
			<tr><td>2</td><td>y</td></tr>
			<tr><td>3</td><td>z</td></tr>
		</tbody>
	</table></main></body></html>`
	page, err := Extract(html, "https://example.com/a", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var table *models.Element
	for i := range page.Elements {
		if page.Elements[i].Kind == models.ElementTable {
			table = &page.Elements[i]
		}
	}
	if table == nil {
		t.Fatalf("expected a table element")
	}
	if len(table.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(table.Rows))
	}
	if len(table.Headers) != 2 {
		t.Fatalf("expected 2 headers, got %d", len(table.Headers))
	}
	if len(table.CellImages) != 1 {
		t.Fatalf("expected 1 cell image, got %d", len(table.CellImages))
	}
}

func TestExtractFallbackSweep(t *testing.T) {
	html := `<html><body><p>only para</p></body></html>`
	page, err := Extract(html, "https://example.com/a", Options{ContentSelectors: []string{".nonexistent"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Elements) == 0 {
		t.Fatalf("expected fallback sweep to find elements")
	}
}

func TestExtractCodeLanguageDetection(t *testing.T) {
	html := `<html><body><main><pre><code class="language-go">fmt.Println("hi")</code></pre></main></body></html>`
	page, err := Extract(html, "https://example.com/a", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var found bool
	for _, el := range page.Elements {
		if el.Kind == models.ElementCode {
			found = true
			if el.Language != "go" {
				t.Errorf("expected language go, got %q", el.Language)
			}
		}
	}
	if !found {
		t.Fatalf("expected a code element")
	}
}

func TestExtractStructuredData(t *testing.T) {
	html := `<html><head>
		<meta property="og:title" content="Hello">
		<meta name="twitter:card" content="summary">
		<script type="application/ld+json">{"@type":"Article","headline":"Hi"}</script>
	</head><body><main><p>Some content goes here for sure.</p></main></body></html>`
	page, err := Extract(html, "https://example.com/a", Options{ExtractStructuredData: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.StructuredData == nil {
		t.Fatalf("expected structured data")
	}
	if page.StructuredData.OpenGraph["title"] != "Hello" {
		t.Errorf("expected og:title Hello, got %+v", page.StructuredData.OpenGraph)
	}
	if len(page.StructuredData.JSONLD) != 1 {
		t.Errorf("expected 1 json-ld entry, got %d", len(page.StructuredData.JSONLD))
	}
}
