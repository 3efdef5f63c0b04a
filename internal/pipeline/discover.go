package pipeline

// Document is one discovered HTML file, exported for callers that need a
// site's document set and canonical hrefs without running the link-checking
// pass itself — the Canonical-Tag Auditor and the Sitemap Reporter both walk
// the same tree Run does and must agree with it about what a document's
// canonical href is, so they go through Discover instead of re-implementing
// the walk.
type Document struct {
	AbsPath       string
	RelPath       string
	CanonicalHref string
	RelativeBase  string
}

// Discover walks root the same way Run does, applying the same exclude
// globs, and returns only the HTML documents — stopping short of extracting
// or collecting links. Non-HTML files are part of Run's self-definition
// universe but have no canonical-tag or last-modified data for callers of
// Discover to inspect, so they are filtered out here.
func Discover(root string, excludes []string) ([]Document, int, error) {
	ex, err := compileExcludes(excludes)
	if err != nil {
		return nil, 0, err
	}
	docs, excluded, err := walkFiles(root, ex)
	if err != nil {
		return nil, 0, err
	}
	out := make([]Document, 0, len(docs))
	for _, d := range docs {
		if !d.isHTML {
			continue
		}
		out = append(out, Document{
			AbsPath:       d.absPath,
			RelPath:       d.relPath,
			CanonicalHref: d.canonicalHref,
			RelativeBase:  d.relativeBase,
		})
	}
	return out, excluded, nil
}
