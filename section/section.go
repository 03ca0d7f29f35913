// Package section turns an ordered element stream into a list of sections:
// runs of flowing text bounded by headings, plus standalone preserved
// table/code sections.
package section

import (
	"fmt"
	"strings"

	"github.com/use-agent/ragforge/models"
)

// Options configures one Sectionize call.
type Options struct {
	PreserveTables bool
	PreserveCode   bool
}

// builder accumulates the in-progress text section and heading context
// while walking the element stream.
type builder struct {
	opts Options

	sections []models.Section

	currentText    strings.Builder
	currentHeading string
	headingStack   []string
}

// Sectionize walks elements in order, emitting Section records.
func Sectionize(elements []models.Element, opts Options) []models.Section {
	b := &builder{opts: opts}
	for _, el := range elements {
		b.consume(el)
	}
	b.flush()
	return b.sections
}

func (b *builder) consume(el models.Element) {
	switch el.Kind {
	case models.ElementHeading:
		b.flush()
		level := el.Level
		if level < 1 {
			level = 1
		}
		if level > len(b.headingStack)+1 {
			level = len(b.headingStack) + 1
		}
		if level-1 < len(b.headingStack) {
			b.headingStack = b.headingStack[:level-1]
		}
		b.headingStack = append(b.headingStack, el.Text)
		b.currentHeading = el.Text
		b.currentText.WriteString(el.Text)
		b.currentText.WriteString("\n\n")
	case models.ElementParagraph:
		b.currentText.WriteString(el.Text)
		b.currentText.WriteString("\n\n")
	case models.ElementList:
		for _, item := range el.Items {
			b.currentText.WriteString("• ")
			b.currentText.WriteString(item)
			b.currentText.WriteString("\n")
		}
		b.currentText.WriteString("\n")
	case models.ElementBlockquote:
		b.currentText.WriteString("> ")
		b.currentText.WriteString(el.Text)
		b.currentText.WriteString("\n\n")
	case models.ElementTable:
		if b.opts.PreserveTables {
			b.flush()
			b.emitTable(el)
		} else {
			b.currentText.WriteString(renderTableFlat(el))
			b.currentText.WriteString("\n\n")
		}
	case models.ElementCode:
		if b.opts.PreserveCode {
			b.flush()
			b.emitCode(el)
		} else {
			b.currentText.WriteString(el.Text)
			b.currentText.WriteString("\n\n")
		}
	}
}

// flush emits the pending text section, if any, resetting the builder.
func (b *builder) flush() {
	text := strings.TrimSpace(b.currentText.String())
	b.currentText.Reset()
	if text == "" {
		return
	}
	b.sections = append(b.sections, models.Section{
		Text:        text,
		Type:        models.SectionText,
		Heading:     b.currentHeading,
		HeadingPath: b.snapshotHeadingPath(),
	})
}

func (b *builder) snapshotHeadingPath() []string {
	if len(b.headingStack) == 0 {
		return nil
	}
	out := make([]string, len(b.headingStack))
	copy(out, b.headingStack)
	return out
}

func (b *builder) emitTable(el models.Element) {
	var sb strings.Builder
	if el.Caption != "" {
		sb.WriteString(el.Caption)
		sb.WriteString("\n")
	}
	if len(el.Headers) > 0 {
		sb.WriteString("| ")
		sb.WriteString(strings.Join(el.Headers, " | "))
		sb.WriteString(" |\n")
		sb.WriteString("|")
		for range el.Headers {
			sb.WriteString(" --- |")
		}
		sb.WriteString("\n")
	}
	for _, row := range el.Rows {
		sb.WriteString("| ")
		sb.WriteString(strings.Join(row, " | "))
		sb.WriteString(" |\n")
	}

	table := &models.TableData{
		Headers:    el.Headers,
		Rows:       el.Rows,
		Caption:    el.Caption,
		CellImages: el.CellImages,
	}
	b.sections = append(b.sections, models.Section{
		Text:        strings.TrimSpace(sb.String()),
		Type:        models.SectionTable,
		Heading:     b.currentHeading,
		HeadingPath: b.snapshotHeadingPath(),
		TableData:   table,
	})
}

func (b *builder) emitCode(el models.Element) {
	text := fmt.Sprintf("Code (%s):\n%s", langOrUnknown(el.Language), el.Text)
	code := &models.CodeBlock{
		Language:  el.Language,
		Text:      el.Text,
		LineCount: el.LineCount,
	}
	b.sections = append(b.sections, models.Section{
		Text:        text,
		Type:        models.SectionCode,
		Heading:     b.currentHeading,
		HeadingPath: b.snapshotHeadingPath(),
		CodeBlock:   code,
	})
}

func langOrUnknown(lang string) string {
	if lang == "" {
		return "unknown"
	}
	return lang
}

// renderTableFlat renders a table element as inline pipe-table text, used
// when preservation is disabled and the table is folded into flowing text.
func renderTableFlat(el models.Element) string {
	var sb strings.Builder
	if len(el.Headers) > 0 {
		sb.WriteString(strings.Join(el.Headers, " | "))
		sb.WriteString("\n")
	}
	for _, row := range el.Rows {
		sb.WriteString(strings.Join(row, " | "))
		sb.WriteString("\n")
	}
	return sb.String()
}
