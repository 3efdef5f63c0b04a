// Package sitemap resolves a last-modified timestamp for every document in
// a built site and writes a Sitemap 0.9 XML file plus a Markdown checklist
// of broken links. The timestamp chain is JSON-LD, then meta tags; its
// final fallback is the file's own os.Stat mtime rather than an HTTP
// Last-Modified header, since this tool never makes a request.
package sitemap

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/hreflint/hreflint/internal/collector"
	"github.com/hreflint/hreflint/internal/pipeline"
)

// Entry is one document's href paired with its resolved last-modified time.
type Entry struct {
	Href    string
	LastMod time.Time
}

// knownFormats lists the date/time layouts tried, in order, when parsing a
// timestamp found in JSON-LD or a meta tag.
var knownFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	"2006-01-02",
	time.RFC1123,
	time.RFC1123Z,
	time.RFC850,
}

// Discover walks siteRoot for HTML documents and resolves each one's
// last-modified time via, in priority order: JSON-LD dateModified, the
// article:modified_time/og:updated_time meta tags, and finally the file's
// own mtime.
func Discover(siteRoot string, excludes []string) ([]Entry, error) {
	docs, _, err := pipeline.Discover(siteRoot, excludes)
	if err != nil {
		return nil, fmt.Errorf("scan site root: %w", err)
	}

	entries := make([]Entry, 0, len(docs))
	for _, doc := range docs {
		data, err := os.ReadFile(doc.AbsPath)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", doc.RelPath, err)
		}
		info, err := os.Stat(doc.AbsPath)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", doc.RelPath, err)
		}
		entries = append(entries, Entry{
			Href:    doc.CanonicalHref,
			LastMod: lastModified(data, info.ModTime()),
		})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Href < entries[j].Href })
	return entries, nil
}

func lastModified(data []byte, mtime time.Time) time.Time {
	d, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err == nil {
		if t, ok := fromJSONLD(d); ok {
			return t.UTC()
		}
		if t, ok := fromMetaTags(d); ok {
			return t.UTC()
		}
	}
	return mtime.UTC()
}

func fromJSONLD(doc *goquery.Document) (time.Time, bool) {
	var result time.Time
	var found bool

	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		raw := strings.TrimSpace(s.Text())
		if raw == "" {
			return true
		}

		var obj map[string]interface{}
		if err := json.Unmarshal([]byte(raw), &obj); err == nil {
			if t, ok := extractDateModified(obj); ok {
				result, found = t, true
				return false
			}
			return true
		}

		var arr []map[string]interface{}
		if err := json.Unmarshal([]byte(raw), &arr); err == nil {
			for _, item := range arr {
				if t, ok := extractDateModified(item); ok {
					result, found = t, true
					return false
				}
			}
		}
		return true
	})

	return result, found
}

func extractDateModified(obj map[string]interface{}) (time.Time, bool) {
	if val, ok := obj["dateModified"]; ok {
		if s, ok := val.(string); ok {
			if t, ok := parseTime(s); ok {
				return t, true
			}
		}
	}
	if graph, ok := obj["@graph"]; ok {
		if items, ok := graph.([]interface{}); ok {
			for _, item := range items {
				if m, ok := item.(map[string]interface{}); ok {
					if t, ok := extractDateModified(m); ok {
						return t, true
					}
				}
			}
		}
	}
	return time.Time{}, false
}

func fromMetaTags(doc *goquery.Document) (time.Time, bool) {
	selectors := []string{
		`meta[property="article:modified_time"]`,
		`meta[property="og:updated_time"]`,
	}
	for _, sel := range selectors {
		if val, exists := doc.Find(sel).First().Attr("content"); exists {
			if t, ok := parseTime(strings.TrimSpace(val)); ok {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

func parseTime(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range knownFormats {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// taskEntry is one target href's broken-link task, with every source that
// referenced it.
type taskEntry struct {
	href         string
	hardNotFound bool
	sources      []string
}

// buildTasks groups broken links by target href, so the checklist has one
// entry (one checkbox) per dangling target href with every referencing
// source listed under it.
func buildTasks(links []collector.BrokenLink) []taskEntry {
	byHref := make(map[string]*taskEntry)
	var order []string

	for _, l := range links {
		t, ok := byHref[l.Used.Href]
		if !ok {
			t = &taskEntry{href: l.Used.Href, hardNotFound: l.HardNotFound}
			byHref[l.Used.Href] = t
			order = append(order, l.Used.Href)
		}
		source := l.Used.Source.String()
		if l.Used.SourceLine > 0 {
			source = fmt.Sprintf("%s:%d", source, l.Used.SourceLine)
		}
		t.sources = append(t.sources, source)
	}

	sort.Strings(order)
	out := make([]taskEntry, 0, len(order))
	for _, href := range order {
		t := byHref[href]
		sort.Strings(t.sources)
		out = append(out, *t)
	}
	return out
}
