package sitemap

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hreflint/hreflint/internal/collector"
	"github.com/hreflint/hreflint/internal/linkmodel"
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

func TestDiscoverFallsBackToMtime(t *testing.T) {
	site := t.TempDir()
	writeFile(t, site, "index.html", `<html><body>hi</body></html>`)

	entries, err := Discover(site, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %+v", entries)
	}
	if entries[0].LastMod.IsZero() {
		t.Fatalf("expected a non-zero mtime fallback")
	}
}

func TestDiscoverPrefersJSONLD(t *testing.T) {
	site := t.TempDir()
	writeFile(t, site, "index.html", `<html><head>
<script type="application/ld+json">{"dateModified": "2024-03-05T10:00:00Z"}</script>
</head><body>hi</body></html>`)

	entries, err := Discover(site, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	if !entries[0].LastMod.Equal(want) {
		t.Fatalf("got %v, want %v", entries[0].LastMod, want)
	}
}

func TestDiscoverFallsBackToMetaTagWhenNoJSONLD(t *testing.T) {
	site := t.TempDir()
	writeFile(t, site, "index.html", `<html><head>
<meta property="article:modified_time" content="2024-01-02T00:00:00Z">
</head><body>hi</body></html>`)

	entries, err := Discover(site, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	if !entries[0].LastMod.Equal(want) {
		t.Fatalf("got %v, want %v", entries[0].LastMod, want)
	}
}

func TestWriteSitemapProducesValidXML(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "sitemap.xml")

	entries := []Entry{
		{Href: "about", LastMod: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
	}
	if err := WriteSitemap(out, entries); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "<loc>/about</loc>") {
		t.Fatalf("sitemap missing expected loc: %s", data)
	}
	if !strings.Contains(string(data), "<lastmod>2024-06-01</lastmod>") {
		t.Fatalf("sitemap missing expected lastmod: %s", data)
	}
}

func TestWriteBrokenLinkTasksGroupsByTargetHref(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "tasks.md")

	links := []collector.BrokenLink{
		{Used: linkmodel.UsedLink{Href: "missing", Source: linkmodel.NewSourcePath("a.html")}, HardNotFound: true},
		{Used: linkmodel.UsedLink{Href: "missing", Source: linkmodel.NewSourcePath("b.html")}, HardNotFound: true},
	}
	if err := WriteBrokenLinkTasks(out, links); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	if strings.Count(content, "Fix `missing`") != 1 {
		t.Fatalf("expected a single grouped task for missing href, got: %s", content)
	}
	if !strings.Contains(content, "a.html") || !strings.Contains(content, "b.html") {
		t.Fatalf("expected both sources listed, got: %s", content)
	}
}

func TestWriteBrokenLinkTasksEmptyList(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "tasks.md")

	if err := WriteBrokenLinkTasks(out, nil); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "No broken links") {
		t.Fatalf("expected no-issues message, got: %s", data)
	}
}
