// Package canonicalaudit validates link rel="canonical" tags across a
// built static site. Rather than checking canonical targets against HTTP
// status codes as a live crawler would, it validates a static scan's
// canonical tags against the core checker's own Defined universe, so this
// auditor can never disagree with the link checker about what "broken"
// means.
package canonicalaudit

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/hreflint/hreflint/internal/pipeline"
	"github.com/hreflint/hreflint/internal/urlcanon"
)

// IssueType categorizes a canonical-tag problem.
type IssueType string

const (
	// Missing means the document has zero link rel="canonical" tags, or
	// exactly one whose href is empty.
	Missing IssueType = "missing"
	// Multiple means the document has more than one.
	Multiple IssueType = "multiple"
	// CrossSite means the canonical target resolves to an external href.
	CrossSite IssueType = "cross_site"
	// TargetBroken means the canonical target resolves to a local href the
	// core scan never found.
	TargetBroken IssueType = "target_broken"
)

// Issue is one finding against one document.
type Issue struct {
	PageHref      string
	CanonicalHref string
	Type          IssueType
}

// DefinedFunc reports whether href was found by the core scan, so
// TargetBroken can be checked against the same universe *collector.Broken
// itself uses. Satisfied directly by (*collector.Broken).Defined.
type DefinedFunc func(href string) bool

// Audit walks siteRoot for HTML documents, inspects each one's canonical
// tag(s), and returns every Issue found, ordered by page href then type.
func Audit(siteRoot string, excludes []string, defined DefinedFunc) ([]Issue, error) {
	docs, _, err := pipeline.Discover(siteRoot, excludes)
	if err != nil {
		return nil, fmt.Errorf("scan site root: %w", err)
	}

	var issues []Issue
	for _, doc := range docs {
		data, err := os.ReadFile(doc.AbsPath)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", doc.RelPath, err)
		}
		if issue, ok := auditDocument(doc, data, defined); ok {
			issues = append(issues, issue)
		}
	}

	sort.Slice(issues, func(i, j int) bool {
		if issues[i].PageHref != issues[j].PageHref {
			return issues[i].PageHref < issues[j].PageHref
		}
		return issues[i].Type < issues[j].Type
	})
	return issues, nil
}

func auditDocument(doc pipeline.Document, data []byte, defined DefinedFunc) (Issue, bool) {
	d, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return Issue{}, false
	}

	tags := d.Find(`link[rel="canonical"]`)
	if tags.Length() == 0 {
		return Issue{PageHref: doc.CanonicalHref, Type: Missing}, true
	}

	href := strings.TrimSpace(tags.First().AttrOr("href", ""))
	if tags.Length() > 1 {
		var resolved string
		if href != "" {
			resolved, _ = urlcanon.Canonicalize(doc.RelativeBase, href, false, false)
		}
		return Issue{PageHref: doc.CanonicalHref, CanonicalHref: resolved, Type: Multiple}, true
	}

	if href == "" {
		return Issue{PageHref: doc.CanonicalHref, Type: Missing}, true
	}

	resolved, external := urlcanon.Canonicalize(doc.RelativeBase, href, false, false)
	if external {
		return Issue{PageHref: doc.CanonicalHref, CanonicalHref: href, Type: CrossSite}, true
	}
	if defined != nil && !defined(resolved) {
		return Issue{PageHref: doc.CanonicalHref, CanonicalHref: resolved, Type: TargetBroken}, true
	}
	return Issue{}, false
}
