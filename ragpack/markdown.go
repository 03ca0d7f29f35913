package ragpack

import (
	"fmt"
	"html"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"

	"github.com/use-agent/ragforge/models"
)

// newMarkdownConverter builds a reusable, goroutine-safe Converter for
// rendering table and code chunks into clean Markdown alongside their raw
// text, so downstream retrieval consumers that render Markdown don't have
// to re-parse the pipe-table/fenced-code text format themselves.
func newMarkdownConverter() *converter.Converter {
	return converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(
				table.WithCellPaddingBehavior(table.CellPaddingBehaviorMinimal),
			),
		),
	)
}

// RenderChunkMarkdown renders a chunk's structured content as Markdown.
// Text chunks are already plain prose and pass through unchanged; table
// and code chunks are rebuilt as an HTML fragment and converted, since
// they carry more structure than their flattened chunk.Text.
func RenderChunkMarkdown(conv *converter.Converter, c models.Chunk) (string, error) {
	switch c.ChunkType {
	case models.ChunkTable:
		if c.TableData == nil {
			return c.Text, nil
		}
		return conv.ConvertString(tableHTML(c.TableData))
	case models.ChunkCode:
		if c.CodeBlock == nil {
			return c.Text, nil
		}
		return conv.ConvertString(codeHTML(c.CodeBlock))
	default:
		return c.Text, nil
	}
}

func tableHTML(t *models.TableData) string {
	var b strings.Builder
	b.WriteString("<table>")
	if t.Caption != "" {
		fmt.Fprintf(&b, "<caption>%s</caption>", html.EscapeString(t.Caption))
	}
	if len(t.Headers) > 0 {
		b.WriteString("<thead><tr>")
		for _, h := range t.Headers {
			fmt.Fprintf(&b, "<th>%s</th>", html.EscapeString(h))
		}
		b.WriteString("</tr></thead>")
	}
	b.WriteString("<tbody>")
	for _, row := range t.Rows {
		b.WriteString("<tr>")
		for _, cell := range row {
			fmt.Fprintf(&b, "<td>%s</td>", html.EscapeString(cell))
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</tbody></table>")
	return b.String()
}

func codeHTML(c *models.CodeBlock) string {
	lang := ""
	if c.Language != "" && c.Language != "unknown" {
		lang = " class=\"language-" + html.EscapeString(c.Language) + "\""
	}
	return fmt.Sprintf("<pre><code%s>%s</code></pre>", lang, html.EscapeString(c.Text))
}
