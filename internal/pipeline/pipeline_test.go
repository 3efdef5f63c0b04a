package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	full := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRunFindsBrokenLink(t *testing.T) {
	site := t.TempDir()
	writeFile(t, site, "index.html", `<a href="missing.html">gone</a>`)

	res, err := Run(context.Background(), Options{SiteRoot: site})
	if err != nil {
		t.Fatal(err)
	}
	broken := res.Broken.BrokenLinks(false)
	if len(broken) != 1 || broken[0].Used.Href != "missing.html" {
		t.Fatalf("unexpected broken links: %+v", broken)
	}
}

func TestRunResolvesCrossDocumentLink(t *testing.T) {
	site := t.TempDir()
	writeFile(t, site, "index.html", `<a href="about.html">about</a>`)
	writeFile(t, site, "about.html", `<p>hi</p>`)

	res, err := Run(context.Background(), Options{SiteRoot: site})
	if err != nil {
		t.Fatal(err)
	}
	if got := res.Broken.BrokenLinks(false); len(got) != 0 {
		t.Fatalf("expected no broken links, got %+v", got)
	}
	if res.DocumentCount != 2 {
		t.Fatalf("expected 2 documents, got %d", res.DocumentCount)
	}
}

func TestRunHonorsExcludePatterns(t *testing.T) {
	site := t.TempDir()
	writeFile(t, site, "draft/index.html", `<a href="missing.html">x</a>`)
	writeFile(t, site, "index.html", `<a href="draft/index.html">ok</a>`)

	res, err := Run(context.Background(), Options{SiteRoot: site, Exclude: []string{"draft/**"}})
	if err != nil {
		t.Fatal(err)
	}
	if res.ExcludedCount != 1 {
		t.Fatalf("expected 1 excluded document, got %d", res.ExcludedCount)
	}
	// draft/index.html was never scanned, so its canonical href ("draft")
	// never gets a Defines, and the link to it is now a hard 404.
	broken := res.Broken.BrokenLinks(false)
	if len(broken) != 1 || broken[0].Used.Href != "draft" {
		t.Fatalf("unexpected broken links: %+v", broken)
	}
}

func TestRunAttributesBrokenLinkToMarkdownSource(t *testing.T) {
	site := t.TempDir()
	sources := t.TempDir()

	writeFile(t, site, "guide.html", "<p>See the <a href=\"missing.html\">missing page</a> for details.</p>")
	writeFile(t, sources, "guide.md", "See the [missing page](missing.html) for details.\n")

	res, err := Run(context.Background(), Options{SiteRoot: site, SourcesRoot: sources})
	if err != nil {
		t.Fatal(err)
	}
	broken := res.CorrelatedBroken
	if len(broken) != 1 {
		t.Fatalf("expected 1 broken link, got %+v", broken)
	}
	got := broken[0].Used
	if got.SourceLine == 0 {
		t.Fatalf("expected the broken link attributed to a markdown source line, got %+v", got)
	}
	if filepath.Ext(got.Source.String()) != ".md" {
		t.Fatalf("expected the source to be the markdown file, got %q", got.Source.String())
	}
}

// TestRunCorrelatesByFingerprintAcrossUnrelatedFilenames proves Markdown
// attribution is purely content-addressed: out.html and in.md share no
// filename stem at all, so a name-based guess would never find the source,
// but the paragraph text is identical and must still be matched.
func TestRunCorrelatesByFingerprintAcrossUnrelatedFilenames(t *testing.T) {
	site := t.TempDir()
	sources := t.TempDir()

	writeFile(t, site, "out.html", "<p>See the <a href=\"missing.html\">missing page</a> for details.</p>")
	writeFile(t, sources, "in.md", "See the [missing page](missing.html) for details.\n")

	res, err := Run(context.Background(), Options{SiteRoot: site, SourcesRoot: sources})
	if err != nil {
		t.Fatal(err)
	}
	broken := res.CorrelatedBroken
	if len(broken) != 1 {
		t.Fatalf("expected 1 broken link, got %+v", broken)
	}
	got := broken[0].Used
	if filepath.Base(got.Source.String()) != "in.md" {
		t.Fatalf("expected attribution to in.md, got %q", got.Source.String())
	}
	if got.SourceLine != 1 {
		t.Fatalf("expected line 1, got %d", got.SourceLine)
	}
}

// TestRunNeverScansSourcesWithoutABrokenLink proves the sources walk is
// lazy: a clean site with SourcesRoot set must not require the sources
// directory to even exist.
func TestRunNeverScansSourcesWithoutABrokenLink(t *testing.T) {
	site := t.TempDir()
	writeFile(t, site, "index.html", `<a href="about.html">about</a>`)
	writeFile(t, site, "about.html", `<p>hi</p>`)

	missingSources := filepath.Join(t.TempDir(), "does-not-exist")

	res, err := Run(context.Background(), Options{SiteRoot: site, SourcesRoot: missingSources})
	if err != nil {
		t.Fatalf("Run must not fail just because SourcesRoot is unused on a clean site: %v", err)
	}
	if len(res.CorrelatedBroken) != 0 {
		t.Fatalf("expected no broken links, got %+v", res.CorrelatedBroken)
	}
}

// TestRunSelfDefinesNonHTMLAssets proves a referenced, genuinely existing
// non-HTML asset is never reported as a hard 404 — every regular file
// self-defines its canonical href regardless of extension.
func TestRunSelfDefinesNonHTMLAssets(t *testing.T) {
	site := t.TempDir()
	writeFile(t, site, "index.html", `<link rel="stylesheet" href="style.css"><img src="logo.png">`)
	writeFile(t, site, "style.css", `body { color: black; }`)
	writeFile(t, site, "logo.png", "not really a png, just bytes")

	res, err := Run(context.Background(), Options{SiteRoot: site})
	if err != nil {
		t.Fatal(err)
	}
	if broken := res.Broken.BrokenLinks(false); len(broken) != 0 {
		t.Fatalf("existing non-HTML assets must never be reported broken, got %+v", broken)
	}
	if res.FileCount != 3 {
		t.Fatalf("expected 3 files (index.html, style.css, logo.png), got %d", res.FileCount)
	}
	if res.DocumentCount != 1 {
		t.Fatalf("expected 1 HTML document, got %d", res.DocumentCount)
	}
}

func TestRunCollectsExternalLinksSeparately(t *testing.T) {
	site := t.TempDir()
	writeFile(t, site, "index.html", `<a href="https://example.com/elsewhere">x</a>`)

	res, err := Run(context.Background(), Options{SiteRoot: site})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Broken.BrokenLinks(false)) != 0 {
		t.Fatalf("external link must never be reported broken, got %+v", res.Broken.BrokenLinks(false))
	}
	ext := res.External.Links()
	if len(ext) != 1 || ext[0].Href != "https://example.com/elsewhere" {
		t.Fatalf("expected the external link collected separately, got %+v", ext)
	}
}

func TestRunAnchorChecking(t *testing.T) {
	site := t.TempDir()
	writeFile(t, site, "index.html", `<a href="#missing">x</a><h2 id="present">y</h2>`)

	res, err := Run(context.Background(), Options{SiteRoot: site, CheckAnchors: true})
	if err != nil {
		t.Fatal(err)
	}
	broken := res.Broken.BrokenLinks(true)
	if len(broken) != 1 {
		t.Fatalf("expected 1 broken anchor, got %+v", broken)
	}
}
