package pipeline

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/hreflint/hreflint/internal/collector"
	"github.com/hreflint/hreflint/internal/fingerprint"
	"github.com/hreflint/hreflint/internal/linkmodel"
	"github.com/hreflint/hreflint/internal/mdextract"
	"github.com/hreflint/hreflint/internal/urlcanon"
)

func documentFor(absPath, relPath string) document {
	base := path.Base(relPath)
	ext := strings.ToLower(path.Ext(base))
	isHTML := ext == ".html" || ext == ".htm"
	isIndex := isHTML && (strings.EqualFold(base, "index.html") || strings.EqualFold(base, "index.htm"))

	canonicalHref := urlcanon.CanonicalHref(relPath, isIndex)
	relativeBase := canonicalHref
	if isIndex {
		relativeBase = urlcanon.IndexBase(canonicalHref)
	}

	return document{
		absPath:       absPath,
		relPath:       relPath,
		canonicalHref: canonicalHref,
		relativeBase:  relativeBase,
		isHTML:        isHTML,
	}
}

var markdownExts = map[string]bool{".md": true, ".markdown": true, ".mdx": true}

// SourceLocation is one place a paragraph fingerprint was found in a
// Markdown sources tree.
type SourceLocation struct {
	Path string
	Line int
}

// SourceIndex maps every paragraph fingerprint found anywhere under a
// Markdown sources tree to every (path, line) it occurred at. Lookup is by
// content hash only — the Markdown file's name and the HTML document's name
// need not correspond at all.
type SourceIndex map[fingerprint.Paragraph][]SourceLocation

// BuildSourceIndex walks sourcesRoot once, fingerprints every paragraph and
// list item in every .md/.mdx/.markdown file it finds, and aggregates the
// result into one content-addressed index.
func BuildSourceIndex(sourcesRoot string) (SourceIndex, error) {
	index := make(SourceIndex)

	err := filepath.WalkDir(sourcesRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type()&fs.ModeSymlink != 0 {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if p != sourcesRoot && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !markdownExts[strings.ToLower(filepath.Ext(d.Name()))] {
			return nil
		}

		data, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("read %s: %w", p, err)
		}
		for _, para := range mdextract.Extract(data, fingerprint.NewHasher()) {
			index[para.Fingerprint] = append(index[para.Fingerprint], SourceLocation{Path: p, Line: para.StartLine})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return index, nil
}

// correlateBrokenLinks replaces every broken usage's source with every
// Markdown location whose paragraph fingerprint matches it, fanning one
// usage out into several reported instances when the same paragraph text
// occurs at more than one place in the sources tree. A usage with no
// fingerprint match — including every usage found outside a tracked
// paragraph — is passed through with its original HTML attribution.
func correlateBrokenLinks(links []collector.BrokenLink, index SourceIndex) []collector.BrokenLink {
	out := make([]collector.BrokenLink, 0, len(links))
	for _, l := range links {
		if !l.Used.HasParagraph {
			out = append(out, l)
			continue
		}
		locs, ok := index[l.Used.Paragraph]
		if !ok {
			out = append(out, l)
			continue
		}
		for _, loc := range locs {
			u := l.Used
			u.Source = linkmodel.NewSourcePath(loc.Path)
			u.SourceLine = loc.Line
			out = append(out, collector.BrokenLink{Used: u, HardNotFound: l.HardNotFound})
		}
	}
	return out
}
