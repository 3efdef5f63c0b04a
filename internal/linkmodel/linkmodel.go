// Package linkmodel defines the observations that flow from the extractors
// to the collectors: link uses, link/anchor definitions, and the per-href
// state the Broken-Link Collector maintains across a concurrent merge.
package linkmodel

import "github.com/hreflint/hreflint/internal/fingerprint"

// SourcePath is an interned, reference-counted handle to a document's
// absolute filesystem path. Many UsedLinks found in the same document share
// one handle instead of copying the path string per link; see intern.go.
type SourcePath struct {
	path string
}

// NewSourcePath wraps path directly, without interning. Production code
// should go through an Interner; this is exposed for tests and for
// single-shot callers (e.g. the Markdown correlation step, which builds one
// per matched source location) that never amortize the cost.
func NewSourcePath(path string) SourcePath {
	return SourcePath{path: path}
}

// String returns the underlying path.
func (s SourcePath) String() string { return s.path }

// UsedLink is an observed reference to href, found in the document at
// Source, optionally inside a fingerprinted paragraph.
type UsedLink struct {
	Href         string
	Source       SourcePath
	Paragraph    fingerprint.Paragraph
	HasParagraph bool
	// SourceLine is the 1-based line number within Source this reference was
	// attributed to, when Source was resolved to a Markdown paragraph by
	// fingerprint rather than left as the raw HTML file. Zero means unknown.
	SourceLine int
}

// DefinedLink declares that Href exists as a target: either a document's own
// canonical href, or an anchor-bearing element's href.
type DefinedLink struct {
	Href string
}

// Kind distinguishes the two Link variants.
type Kind int

const (
	KindUses Kind = iota
	KindDefines
)

// Link is a tagged union of UsedLink and DefinedLink, as produced by the
// HTML Extractor's lazy token stream.
type Link struct {
	Kind    Kind
	Used    UsedLink
	Defined DefinedLink
}

// Uses constructs a Link wrapping a UsedLink.
func Uses(u UsedLink) Link { return Link{Kind: KindUses, Used: u} }

// Defines constructs a Link wrapping a DefinedLink.
func Defines(href string) Link { return Link{Kind: KindDefines, Defined: DefinedLink{Href: href}} }

// LinkState is the per-href aggregate held by the Broken-Link Collector.
// The zero value is not meaningful; use NewUndefined.
type LinkState struct {
	Defined bool
	Usages  []UsedLink
}

// NewUndefined returns a LinkState in the Undefined state with one initial
// usage.
func NewUndefined(u UsedLink) LinkState {
	return LinkState{Usages: []UsedLink{u}}
}
