// Package mdextract fingerprints the paragraphs and list items of a Markdown
// source file so the Pipeline Driver can attribute an HTML paragraph back to
// the Markdown it was generated from. Walking pattern and the
// Lines()-to-byte-offset idea are grounded on artyom-mdlinks' extractDocDetails.
package mdextract

import (
	"bytes"
	"sort"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/hreflint/hreflint/internal/fingerprint"
)

// Paragraph is one fingerprinted block, located by the 1-based, inclusive
// line range it spans in the source file the caller passed to Extract.
type Paragraph struct {
	Fingerprint fingerprint.Paragraph
	StartLine   int
	EndLine     int
	// Text is the whitespace-stripped paragraph text, populated only when
	// Extract is called with a Fingerprinter that exposes Text() string
	// (fingerprint.Debug, for the dump-paragraphs command). Empty otherwise.
	Text string
}

// textProvider is satisfied by fingerprint.Debug.
type textProvider interface {
	Text() string
}

var mdParser = parser.NewParser(
	parser.WithBlockParsers(parser.DefaultBlockParsers()...),
	parser.WithInlineParsers(parser.DefaultInlineParsers()...),
	parser.WithParagraphTransformers(parser.DefaultParagraphTransformers()...),
)

// Extract fingerprints every paragraph and list item found in raw.
//
// Two preprocessing rules run before parsing (see preprocess): lines that
// open with '<' are blanked, since they are almost always a raw MDX/JSX tag
// goldmark's CommonMark parser has no business interpreting as prose; and a
// leading ": " (a definition-list body marker) is stripped, after which the
// rest of the line parses as ordinary Markdown.
// Both rules preserve line count, so line numbers reported here still match
// the original file.
func Extract(raw []byte, fp fingerprint.Fingerprinter) []Paragraph {
	body := preprocess(raw)
	lineStarts := computeLineStarts(body)

	doc := mdParser.Parse(text.NewReader(body))

	var out []Paragraph
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.Kind() {
		case ast.KindParagraph, ast.KindTextBlock:
			if p, ok := fingerprintBlock(n, body, lineStarts, fp); ok {
				out = append(out, p)
			}
		}
		return ast.WalkContinue, nil
	})
	return out
}

// fingerprintBlock feeds n's rendered text — not its raw Markdown source —
// to fp, so that the digest matches what the HTML Extractor computes from
// the rendered page's text nodes. It walks n's inline descendants and hashes
// only *ast.Text content, skipping the syntax characters ('[', '`', '*', the
// link destination itself, ...) that have no counterpart in rendered HTML.
// The block's own Lines() range is used solely to report where it lives in
// the source file; only block nodes that store one (Paragraph, TextBlock —
// tight list items parse as TextBlock, not Paragraph) reach here, the rest
// having been filtered out by the caller.
func fingerprintBlock(n ast.Node, body []byte, lineStarts []int, fp fingerprint.Fingerprinter) (Paragraph, bool) {
	lines := n.Lines()
	if lines == nil || lines.Len() == 0 {
		return Paragraph{}, false
	}

	hasText := false
	err := ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if t, ok := c.(*ast.Text); ok {
			fp.Update(t.Text(body))
			hasText = true
		}
		return ast.WalkContinue, nil
	})
	digest := fp.FinishParagraph()
	if err != nil || !hasText {
		return Paragraph{}, false
	}

	start := lines.At(0).Start
	stop := lines.At(lines.Len() - 1).Stop
	if stop <= start {
		return Paragraph{}, false
	}

	var text string
	if tp, ok := fp.(textProvider); ok {
		text = tp.Text()
	}

	return Paragraph{
		Fingerprint: digest,
		StartLine:   lineForOffset(lineStarts, start),
		EndLine:     lineForOffset(lineStarts, stop-1),
		Text:        text,
	}, true
}

// preprocess applies the two MDX/front-matter-adjacent line rules described
// on Extract, without changing the document's line count.
func preprocess(raw []byte) []byte {
	lines := bytes.Split(raw, []byte("\n"))
	for i, line := range lines {
		switch {
		case len(line) > 0 && line[0] == '<':
			lines[i] = nil
		default:
			lines[i] = bytes.TrimPrefix(line, []byte(": "))
		}
	}
	return bytes.Join(lines, []byte("\n"))
}

// computeLineStarts returns, for each line, the byte offset its first
// character occupies. Line n (0-based) starts at starts[n].
func computeLineStarts(body []byte) []int {
	starts := make([]int, 1, 64)
	starts[0] = 0
	for i, b := range body {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// lineForOffset returns the 1-based line number containing offset, found by
// binary search over starts.
func lineForOffset(starts []int, offset int) int {
	return sort.Search(len(starts), func(i int) bool { return starts[i] > offset })
}
