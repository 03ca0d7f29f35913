package models

// ElementKind tags the variant of an Element. Elements are emitted in
// document order by the extractor and never reordered downstream.
type ElementKind string

const (
	ElementHeading    ElementKind = "heading"
	ElementParagraph  ElementKind = "paragraph"
	ElementList       ElementKind = "list"
	ElementBlockquote ElementKind = "blockquote"
	ElementCode       ElementKind = "code"
	ElementTable      ElementKind = "table"
	ElementMedia      ElementKind = "media"
)

const (
	MediaImage = "image"
	MediaVideo = "video"
)

// CellImage records an <img> found inside a table cell.
type CellImage struct {
	Src string `json:"src"`
	Alt string `json:"alt,omitempty"`
	Row int    `json:"row"`
	Col int    `json:"col"`
}

// Element is a tagged union over the element kinds the extractor produces.
// Only the fields relevant to Kind are populated; the rest are left at their
// zero value and omitted from JSON.
type Element struct {
	Kind ElementKind `json:"kind"`

	// heading
	Level int    `json:"level,omitempty"`
	Text  string `json:"text,omitempty"`

	// paragraph reuses Text; blockquote reuses Text.

	// list
	Ordered bool     `json:"ordered,omitempty"`
	Items   []string `json:"items,omitempty"`

	// code
	Language  string `json:"language,omitempty"`
	LineCount int    `json:"line_count,omitempty"`

	// table
	Headers    []string    `json:"headers,omitempty"`
	Rows       [][]string  `json:"rows,omitempty"`
	Caption    string      `json:"caption,omitempty"`
	CellImages []CellImage `json:"cell_images,omitempty"`

	// media
	MediaKind string `json:"media_kind,omitempty"`
	Src       string `json:"src,omitempty"`
	Alt       string `json:"alt,omitempty"`
	Context   string `json:"context,omitempty"`
}

// StructuredData aggregates page-level metadata harvested alongside the
// element stream when extraction is configured to collect it.
type StructuredData struct {
	JSONLD      []map[string]any    `json:"json_ld,omitempty"`
	SchemaOrg   []SchemaOrgEntry    `json:"schema_org,omitempty"`
	OpenGraph   map[string]string   `json:"open_graph,omitempty"`
	TwitterCard map[string]string   `json:"twitter_card,omitempty"`
}

// SchemaOrgEntry is one itemscope subtree's harvested type and properties.
type SchemaOrgEntry struct {
	Type       string            `json:"type,omitempty"`
	Properties map[string]string `json:"properties,omitempty"`
}

// ScrapedPage is the result of extracting one fetched document.
type ScrapedPage struct {
	URL            string          `json:"url"`
	Title          string          `json:"title"`
	Timestamp      string          `json:"timestamp"`
	WordCount      int             `json:"word_count"`
	Elements       []Element       `json:"elements"`
	StructuredData *StructuredData `json:"structured_data,omitempty"`
}
