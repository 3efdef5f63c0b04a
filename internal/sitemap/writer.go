package sitemap

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hreflint/hreflint/internal/collector"
)

// urlSet is the root element of a Sitemap 0.9 XML document.
type urlSet struct {
	XMLName xml.Name   `xml:"urlset"`
	Xmlns   string     `xml:"xmlns,attr"`
	URLs    []urlEntry `xml:"url"`
}

// urlEntry is a single <url> entry.
type urlEntry struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// WriteSitemap writes a Sitemap 0.9 XML file at outputPath, one <url> per
// entry, with <lastmod> populated as a W3C short date (YYYY-MM-DD). Parent
// directories are created automatically.
func WriteSitemap(outputPath string, entries []Entry) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create sitemap file: %w", err)
	}

	set := urlSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  make([]urlEntry, 0, len(entries)),
	}
	for _, e := range entries {
		set.URLs = append(set.URLs, urlEntry{
			Loc:     "/" + e.Href,
			LastMod: e.LastMod.Format("2006-01-02"),
		})
	}

	if _, err := f.Write([]byte(xml.Header)); err != nil {
		_ = f.Close()
		return fmt.Errorf("write xml header: %w", err)
	}

	enc := xml.NewEncoder(f)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		_ = f.Close()
		return fmt.Errorf("write sitemap xml: %w", err)
	}

	return f.Close()
}

// WriteBrokenLinkTasks writes a Markdown checklist at outputPath, one task
// per distinct broken target href, each listing every source that
// referenced it.
func WriteBrokenLinkTasks(outputPath string, links []collector.BrokenLink) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("create tasks output directory: %w", err)
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create tasks file: %w", err)
	}
	w := bufio.NewWriter(f)

	fail := func(msg string, err error) error {
		_ = f.Close()
		return fmt.Errorf("%s: %w", msg, err)
	}

	if _, err := w.WriteString("# Broken Link Tasks\n\n"); err != nil {
		return fail("write header", err)
	}

	tasks := buildTasks(links)
	if len(tasks) == 0 {
		if _, err := w.WriteString("No broken links were found.\n"); err != nil {
			return fail("write no-issues message", err)
		}
		if err := w.Flush(); err != nil {
			return fail("flush tasks file", err)
		}
		return f.Close()
	}

	for i, t := range tasks {
		label := "broken"
		if !t.hardNotFound {
			label = "bad anchor"
		}
		if _, err := fmt.Fprintf(w, "- [ ] Fix `%s` (%s)\n", t.href, label); err != nil {
			return fail("write task item", err)
		}
		for _, source := range t.sources {
			if _, err := fmt.Fprintf(w, "  - Found in: `%s`\n", source); err != nil {
				return fail("write task source", err)
			}
		}
		if i < len(tasks)-1 {
			if _, err := w.WriteString("\n"); err != nil {
				return fail("write task separator", err)
			}
		}
	}

	if err := w.Flush(); err != nil {
		return fail("flush tasks file", err)
	}
	return f.Close()
}
