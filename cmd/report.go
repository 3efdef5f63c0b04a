package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hreflint/hreflint/internal/collector"
)

// fileGroup is every broken-link error attributed to one source file.
type fileGroup struct {
	source     string
	isMarkdown bool
	lines      []lineError
}

type lineError struct {
	line int
	href string
}

func isMarkdownPath(p string) bool {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".md", ".markdown", ".mdx":
		return true
	}
	return false
}

// groupBrokenLinks buckets links by the source file they were attributed
// to, markdown-source-attributed files first (then lexical path order), so
// human-authored sources surface before generated HTML in the report.
func groupBrokenLinks(links []collector.BrokenLink) []fileGroup {
	bySource := make(map[string]*fileGroup)
	var order []string

	for _, l := range links {
		src := l.Used.Source.String()
		g, ok := bySource[src]
		if !ok {
			g = &fileGroup{source: src, isMarkdown: isMarkdownPath(src)}
			bySource[src] = g
			order = append(order, src)
		}
		g.lines = append(g.lines, lineError{line: l.Used.SourceLine, href: l.Used.Href})
	}

	sort.Slice(order, func(i, j int) bool {
		a, b := bySource[order[i]], bySource[order[j]]
		if a.isMarkdown != b.isMarkdown {
			return a.isMarkdown
		}
		return order[i] < order[j]
	})

	groups := make([]fileGroup, 0, len(order))
	for _, src := range order {
		g := *bySource[src]
		sort.SliceStable(g.lines, func(i, j int) bool { return g.lines[i].line < g.lines[j].line })
		groups = append(groups, g)
	}
	return groups
}

// writeHumanReport writes the file path followed by indented "error: bad
// link /<href>" lines, a blank line separating each file's group.
func writeHumanReport(w io.Writer, groups []fileGroup) {
	for i, g := range groups {
		fmt.Fprintln(w, g.source)
		for _, le := range g.lines {
			if le.line > 0 {
				fmt.Fprintf(w, "  error: bad link /%s at line %d\n", le.href, le.line)
			} else {
				fmt.Fprintf(w, "  error: bad link /%s\n", le.href)
			}
		}
		if i < len(groups)-1 {
			fmt.Fprintln(w)
		}
	}
}

// writeGitHubAnnotations writes one ::error record per (source file, line)
// pair, folding every href found at that line into one annotation via
// escaped-newline continuations — the format GitHub Actions renders as a
// single inline annotation instead of one per href.
func writeGitHubAnnotations(w io.Writer, groups []fileGroup) {
	for _, g := range groups {
		abs, err := filepath.Abs(g.source)
		if err != nil {
			abs = g.source
		}

		byLine := make(map[int][]string)
		var lines []int
		for _, le := range g.lines {
			if _, ok := byLine[le.line]; !ok {
				lines = append(lines, le.line)
			}
			byLine[le.line] = append(byLine[le.line], le.href)
		}
		sort.Ints(lines)

		for _, line := range lines {
			fmt.Fprintf(w, "::error file=%s,line=%d::bad link:", abs, line)
			for _, href := range byLine[line] {
				fmt.Fprintf(w, "%%0A  %s", href)
			}
			fmt.Fprintln(w)
		}
	}
}
