package section

import (
	"testing"

	"github.com/use-agent/ragforge/models"
)

func TestSectionizeHeadingThenParagraph(t *testing.T) {
	elements := []models.Element{
		{Kind: models.ElementHeading, Level: 1, Text: "Title"},
		{Kind: models.ElementParagraph, Text: "AAA BBB."},
	}
	sections := Sectionize(elements, Options{PreserveTables: true, PreserveCode: true})
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d: %+v", len(sections), sections)
	}
	want := "Title\n\nAAA BBB."
	if sections[0].Text != want {
		t.Errorf("got %q, want %q", sections[0].Text, want)
	}
	if sections[0].Heading != "Title" {
		t.Errorf("expected heading Title, got %q", sections[0].Heading)
	}
}

func TestSectionizeHeadingStackTruncation(t *testing.T) {
	elements := []models.Element{
		{Kind: models.ElementHeading, Level: 1, Text: "H1"},
		{Kind: models.ElementHeading, Level: 2, Text: "H2a"},
		{Kind: models.ElementParagraph, Text: "under h2a"},
		{Kind: models.ElementHeading, Level: 2, Text: "H2b"},
		{Kind: models.ElementParagraph, Text: "under h2b"},
	}
	sections := Sectionize(elements, Options{PreserveTables: true, PreserveCode: true})
	// H2a flushes the lone "H1" line as its own section, so there are three.
	if len(sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(sections))
	}
	last := sections[2]
	if len(last.HeadingPath) != 2 || last.HeadingPath[0] != "H1" || last.HeadingPath[1] != "H2b" {
		t.Errorf("expected heading path [H1 H2b], got %v", last.HeadingPath)
	}
}

func TestSectionizeTablePreserved(t *testing.T) {
	elements := []models.Element{
		{Kind: models.ElementTable, Headers: []string{"A", "B"}, Rows: [][]string{{"1", "2"}, {"3", "4"}, {"5", "6"}}},
		{Kind: models.ElementParagraph, Text: "some paragraph text follows"},
	}
	sections := Sectionize(elements, Options{PreserveTables: true, PreserveCode: true})
	if len(sections) != 2 {
		t.Fatalf("expected 2 sections (table + text), got %d", len(sections))
	}
	if sections[0].Type != models.SectionTable {
		t.Errorf("expected first section to be table, got %s", sections[0].Type)
	}
	if sections[0].TableData == nil || len(sections[0].TableData.Rows) != 3 {
		t.Fatalf("expected table_data with 3 rows")
	}
	if sections[1].Type != models.SectionText {
		t.Errorf("expected second section to be text, got %s", sections[1].Type)
	}
}

func TestSectionizeCodePreserved(t *testing.T) {
	elements := []models.Element{
		{Kind: models.ElementCode, Language: "go", Text: "fmt.Println()", LineCount: 1},
	}
	sections := Sectionize(elements, Options{PreserveTables: true, PreserveCode: true})
	if len(sections) != 1 || sections[0].Type != models.SectionCode {
		t.Fatalf("expected 1 code section, got %+v", sections)
	}
	if sections[0].CodeBlock == nil || sections[0].CodeBlock.Language != "go" {
		t.Fatalf("expected code_block with language go")
	}
}

func TestSectionizeTableFlattenedWithoutPreservation(t *testing.T) {
	elements := []models.Element{
		{Kind: models.ElementTable, Headers: []string{"A"}, Rows: [][]string{{"1"}}},
		{Kind: models.ElementParagraph, Text: "trailing paragraph"},
	}
	sections := Sectionize(elements, Options{PreserveTables: false, PreserveCode: false})
	if len(sections) != 1 {
		t.Fatalf("expected table to flatten into single text section, got %d", len(sections))
	}
	if sections[0].Type != models.SectionText {
		t.Errorf("expected text type, got %s", sections[0].Type)
	}
}
