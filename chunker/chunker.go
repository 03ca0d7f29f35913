// Package chunker packs sections into fixed-token chunks with
// sentence-boundary overlap, anchored to the section/heading they came from.
package chunker

import (
	"strings"

	"github.com/use-agent/ragforge/models"
	"github.com/use-agent/ragforge/tokenizer"
)

// Config holds the chunking knobs from a project's chunking settings.
type Config struct {
	TargetTokens  int
	OverlapTokens int
	MinTokens     int
	MultiLanguage bool
}

// Seed is a chunk's content and anchoring before identity fields (chunk_id,
// doc_id, chunk_index, hashes, timestamps) are assigned.
type Seed struct {
	Text           string
	ChunkType      models.ChunkType
	Heading        string
	HeadingPath    []string
	TableData      *models.TableData
	CodeBlock      *models.CodeBlock
	TokensEstimate int
}

// accumulator tracks the in-progress text chunk being packed.
type acc struct {
	text        string
	heading     string
	headingPath []string
}

func (a *acc) empty() bool { return a.text == "" }

func (a *acc) reset() {
	a.text = ""
	a.heading = ""
	a.headingPath = nil
}

// Chunk packs sections into chunk seeds per the packing/split/overlap rules.
func Chunk(sections []models.Section, cfg Config) []Seed {
	var seeds []Seed
	var cur acc

	flushText := func() {
		if cur.empty() {
			return
		}
		seeds = appendTextSeed(seeds, anchoredText(cur.heading, cur.text), cur.heading, cur.headingPath, cfg)
		cur.reset()
	}

	for _, sec := range sections {
		switch sec.Type {
		case models.SectionTable:
			flushText()
			seeds = append(seeds, Seed{
				Text:           sec.Text,
				ChunkType:      models.ChunkTable,
				Heading:        sec.Heading,
				HeadingPath:    sec.HeadingPath,
				TableData:      sec.TableData,
				TokensEstimate: tokenizer.Count(sec.Text, cfg.MultiLanguage),
			})
		case models.SectionCode:
			flushText()
			seeds = append(seeds, Seed{
				Text:           sec.Text,
				ChunkType:      models.ChunkCode,
				Heading:        sec.Heading,
				HeadingPath:    sec.HeadingPath,
				CodeBlock:      sec.CodeBlock,
				TokensEstimate: tokenizer.Count(sec.Text, cfg.MultiLanguage),
			})
		default:
			consumeTextSection(&cur, sec, cfg, &seeds)
		}
	}
	flushText()

	return seeds
}

// consumeTextSection folds one text section into the accumulator, emitting
// and reseeding as needed per the packing/overflow/oversized-split rules.
func consumeTextSection(cur *acc, sec models.Section, cfg Config, seeds *[]Seed) {
	sectionTokens := tokenizer.Count(sec.Text, cfg.MultiLanguage)

	if sectionTokens > cfg.TargetTokens {
		// Oversized section: flush whatever is pending, then split this
		// section by paragraphs into its own run of chunks.
		if !cur.empty() {
			*seeds = appendTextSeed(*seeds, anchoredText(cur.heading, cur.text), cur.heading, cur.headingPath, cfg)
			cur.reset()
		}
		splitOversized(sec, cfg, seeds)
		return
	}

	if cur.empty() {
		cur.text = sec.Text
		cur.heading = sec.Heading
		cur.headingPath = sec.HeadingPath
		return
	}

	curTokens := tokenizer.Count(cur.text, cfg.MultiLanguage)
	if curTokens+sectionTokens > cfg.TargetTokens {
		*seeds = appendTextSeed(*seeds, anchoredText(cur.heading, cur.text), cur.heading, cur.headingPath, cfg)
		overlap := extractOverlap(cur.text, cfg.OverlapTokens, cfg.MultiLanguage)
		cur.text = joinNonEmpty(overlap, sec.Text)
		cur.heading = sec.Heading
		cur.headingPath = sec.HeadingPath
		return
	}

	cur.text = cur.text + "\n\n" + sec.Text
}

// splitOversized splits a single oversized text section by paragraphs,
// cutting any paragraph that alone exceeds target at word boundaries,
// emitting chunks as the running total would exceed target and seeding the
// next chunk with overlap text from the one just emitted. The trailing
// residue is appended to *seeds as a final seed, subject to the
// minimum-token merge rule.
func splitOversized(sec models.Section, cfg Config, seeds *[]Seed) {
	paragraphs := splitParagraphs(sec.Text)
	if len(paragraphs) == 0 {
		return
	}

	var pieces []string
	for _, para := range paragraphs {
		if tokenizer.Count(para, cfg.MultiLanguage) <= cfg.TargetTokens {
			pieces = append(pieces, para)
			continue
		}
		piece := ""
		for _, w := range strings.Fields(para) {
			if piece != "" && tokenizer.Count(piece+" "+w, cfg.MultiLanguage) > cfg.TargetTokens {
				pieces, piece = append(pieces, piece), ""
			}
			piece = strings.TrimSpace(piece + " " + w)
		}
		pieces = append(pieces, piece)
	}

	sub := ""
	for _, para := range pieces {
		if sub == "" {
			sub = para
			continue
		}
		subTokens := tokenizer.Count(sub, cfg.MultiLanguage)
		paraTokens := tokenizer.Count(para, cfg.MultiLanguage)
		if subTokens+paraTokens > cfg.TargetTokens {
			*seeds = appendTextSeed(*seeds, anchoredText(sec.Heading, sub), sec.Heading, sec.HeadingPath, cfg)
			overlap := extractOverlap(sub, cfg.OverlapTokens, cfg.MultiLanguage)
			sub = joinNonEmpty(overlap, para)
			continue
		}
		sub = sub + "\n\n" + para
	}
	if sub != "" {
		*seeds = appendTextSeed(*seeds, anchoredText(sec.Heading, sub), sec.Heading, sec.HeadingPath, cfg)
	}
}

// appendTextSeed applies the minimum-token merge rule: a sub-minimum
// residue merges into the previous seed if that seed is also text, else is
// emitted as-is (so a document always produces at least one chunk).
func appendTextSeed(seeds []Seed, text, heading string, headingPath []string, cfg Config) []Seed {
	tokens := tokenizer.Count(text, cfg.MultiLanguage)
	if tokens < cfg.MinTokens && len(seeds) > 0 {
		last := &seeds[len(seeds)-1]
		if last.ChunkType == models.ChunkText {
			last.Text = last.Text + "\n\n" + text
			last.TokensEstimate = tokenizer.Count(last.Text, cfg.MultiLanguage)
			return seeds
		}
	}
	return append(seeds, Seed{
		Text:           text,
		ChunkType:      models.ChunkText,
		Heading:        heading,
		HeadingPath:    headingPath,
		TokensEstimate: tokens,
	})
}

// anchoredText prefixes the heading ahead of the accumulated section text,
// recording the heading anchor directly in the chunk's rendered text.
func anchoredText(heading, text string) string {
	if heading == "" {
		return text
	}
	return heading + "\n\n" + text
}

func joinNonEmpty(a, b string) string {
	a = strings.TrimSpace(a)
	if a == "" {
		return b
	}
	return a + "\n\n" + b
}
