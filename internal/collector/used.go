package collector

import "github.com/hreflint/hreflint/internal/linkmodel"

// Used keeps every observed UsedLink, in ingestion order. It backs the
// match-all-paragraphs and dump-external-links commands, which report every
// use rather than only the broken ones.
type Used struct {
	links []linkmodel.UsedLink
}

// NewUsed returns an empty Used collector.
func NewUsed() *Used {
	return &Used{}
}

func (u *Used) Ingest(l linkmodel.Link) {
	if l.Kind != linkmodel.KindUses {
		return
	}
	u.links = append(u.links, l.Used)
}

// Merge appends other's links after this collector's own, preserving
// relative order within each collector (the overall cross-worker order is
// not meaningful).
func (u *Used) Merge(other Collector) {
	o, ok := other.(*Used)
	if !ok {
		return
	}
	u.links = append(u.links, o.links...)
}

// Links returns every observed use.
func (u *Used) Links() []linkmodel.UsedLink {
	return u.links
}
