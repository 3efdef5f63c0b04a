package collector

import (
	"sort"
	"testing"

	"github.com/hreflint/hreflint/internal/linkmodel"
)

func use(href, source string) linkmodel.Link {
	return linkmodel.Uses(linkmodel.UsedLink{Href: href, Source: linkmodel.NewSourcePath(source)})
}

func TestDeadLinkStaysUndefinedWithoutDefinition(t *testing.T) {
	b := NewBroken()
	b.Ingest(linkmodel.Defines("index.html"))
	b.Ingest(use("bar.html", "index.html"))

	got := b.BrokenLinks(false)
	if len(got) != 1 || got[0].Used.Href != "bar.html" || !got[0].HardNotFound {
		t.Fatalf("unexpected broken links: %+v", got)
	}
}

func TestDefineAfterUseResolves(t *testing.T) {
	b := NewBroken()
	b.Ingest(use("bar.html", "index.html"))
	b.Ingest(linkmodel.Defines("bar.html"))

	if got := b.BrokenLinks(false); len(got) != 0 {
		t.Fatalf("expected no broken links, got %+v", got)
	}
}

func TestMergeOrderIndependent(t *testing.T) {
	build := func(defineFirst bool) *Broken {
		a := NewBroken()
		b := NewBroken()
		if defineFirst {
			a.Ingest(linkmodel.Defines("bar.html"))
			b.Ingest(use("bar.html", "index.html"))
		} else {
			a.Ingest(use("bar.html", "index.html"))
			b.Ingest(linkmodel.Defines("bar.html"))
		}
		a.Merge(b)
		return a
	}

	first := build(true)
	second := build(false)

	if len(first.BrokenLinks(false)) != 0 || len(second.BrokenLinks(false)) != 0 {
		t.Fatalf("Defined must win regardless of merge order")
	}
}

func hrefSet(links []BrokenLink) []string {
	out := make([]string, len(links))
	for i, l := range links {
		out[i] = l.Used.Href
	}
	sort.Strings(out)
	return out
}

func TestMergeCommutativity(t *testing.T) {
	mk := func() (*Broken, *Broken) {
		a := NewBroken()
		a.Ingest(linkmodel.Defines("index.html"))
		a.Ingest(use("missing-a.html", "index.html"))

		b := NewBroken()
		b.Ingest(linkmodel.Defines("other.html"))
		b.Ingest(use("missing-b.html", "other.html"))
		b.Ingest(use("index.html", "other.html")) // resolved by a's Defines
		return a, b
	}

	a1, b1 := mk()
	a1.Merge(b1)

	a2, b2 := mk()
	b2.Merge(a2)

	got1 := hrefSet(a1.BrokenLinks(false))
	got2 := hrefSet(b2.BrokenLinks(false))

	if len(got1) != len(got2) {
		t.Fatalf("merge(A,B) and merge(B,A) disagree: %v vs %v", got1, got2)
	}
	for i := range got1 {
		if got1[i] != got2[i] {
			t.Fatalf("merge(A,B) and merge(B,A) disagree: %v vs %v", got1, got2)
		}
	}
}

func TestMergeAssociativity(t *testing.T) {
	mkThree := func() (*Broken, *Broken, *Broken) {
		a := NewBroken()
		a.Ingest(use("x.html", "p1"))

		b := NewBroken()
		b.Ingest(linkmodel.Defines("x.html"))

		c := NewBroken()
		c.Ingest(use("y.html", "p3"))
		return a, b, c
	}

	a1, b1, c1 := mkThree()
	a1.Merge(b1)
	a1.Merge(c1)

	a2, b2, c2 := mkThree()
	b2.Merge(c2)
	a2.Merge(b2)

	left := hrefSet(a1.BrokenLinks(false))
	right := hrefSet(a2.BrokenLinks(false))

	if len(left) != len(right) {
		t.Fatalf("(A∪B)∪C != A∪(B∪C): %v vs %v", left, right)
	}
	for i := range left {
		if left[i] != right[i] {
			t.Fatalf("(A∪B)∪C != A∪(B∪C): %v vs %v", left, right)
		}
	}
}

func TestAnchorCheckingFallsBackToBaseHref(t *testing.T) {
	b := NewBroken()
	b.Ingest(linkmodel.Defines("bar.html"))
	b.Ingest(use("bar.html#missing", "index.html"))

	got := b.BrokenLinks(true)
	if len(got) != 1 {
		t.Fatalf("expected one bad-anchor report, got %+v", got)
	}
	if got[0].HardNotFound {
		t.Fatal("href base is defined, so this must not be a hard 404")
	}
}

func TestAnchorCheckingHardNotFoundWhenBaseMissing(t *testing.T) {
	b := NewBroken()
	b.Ingest(use("bar.html#missing", "index.html"))

	got := b.BrokenLinks(true)
	if len(got) != 1 || !got[0].HardNotFound {
		t.Fatalf("expected hard 404 when base href undefined, got %+v", got)
	}
}

func TestDuplicateDefinesAreIdempotent(t *testing.T) {
	b := NewBroken()
	b.Ingest(linkmodel.Defines("page.html#a"))
	b.Ingest(linkmodel.Defines("page.html#a"))
	if got := b.BrokenLinks(false); len(got) != 0 {
		t.Fatalf("expected no broken links from duplicate Defines, got %+v", got)
	}
}
