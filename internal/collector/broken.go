package collector

import "github.com/hreflint/hreflint/internal/linkmodel"

// Broken maintains the per-href LinkState table used to classify every
// reference as resolved or broken once a run finishes. Its Merge is
// associative and commutative by construction, so a parallel pairwise
// reduction over any partition of documents yields the same final
// broken-link set regardless of how the documents were sharded.
type Broken struct {
	states        map[string]linkmodel.LinkState
	usedLinkCount int
}

// NewBroken returns an empty Broken collector.
func NewBroken() *Broken {
	return &Broken{states: make(map[string]linkmodel.LinkState)}
}

func (b *Broken) Ingest(l linkmodel.Link) {
	switch l.Kind {
	case linkmodel.KindUses:
		b.usedLinkCount++
		state, ok := b.states[l.Used.Href]
		switch {
		case !ok:
			b.states[l.Used.Href] = linkmodel.NewUndefined(l.Used)
		case !state.Defined:
			state.Usages = append(state.Usages, l.Used)
			b.states[l.Used.Href] = state
		default:
			// Already Defined: no-op.
		}
	case linkmodel.KindDefines:
		b.states[l.Defined.Href] = linkmodel.LinkState{Defined: true}
	}
}

// Merge folds other into b using: Defined ∨ anything = Defined;
// Undefined(a) ∨ Undefined(b) = Undefined(a ++ b).
func (b *Broken) Merge(other Collector) {
	o, ok := other.(*Broken)
	if !ok {
		return
	}
	b.usedLinkCount += o.usedLinkCount
	for href, incoming := range o.states {
		existing, ok := b.states[href]
		switch {
		case !ok:
			b.states[href] = incoming
		case existing.Defined || incoming.Defined:
			b.states[href] = linkmodel.LinkState{Defined: true}
		default:
			merged := existing
			merged.Usages = append(append([]linkmodel.UsedLink(nil), existing.Usages...), incoming.Usages...)
			b.states[href] = merged
		}
	}
}

// UsedLinkCount returns the total number of Uses ingested (before merge
// dedup; merges sum this across workers).
func (b *Broken) UsedLinkCount() int {
	return b.usedLinkCount
}

// Defined reports whether href has been observed as Defined.
func (b *Broken) Defined(href string) bool {
	return b.states[href].Defined
}

// BrokenLink is one reported instance of a dangling usage.
type BrokenLink struct {
	Used         linkmodel.UsedLink
	HardNotFound bool
}

// BrokenLinks enumerates every accumulated usage of every href whose final
// state is Undefined. When checkAnchors is true, a usage whose href carries
// a fragment is classified HardNotFound only if the href with its fragment
// stripped is also not Defined; otherwise every Undefined usage is a hard
// 404.
func (b *Broken) BrokenLinks(checkAnchors bool) []BrokenLink {
	var out []BrokenLink
	for href, state := range b.states {
		if state.Defined {
			continue
		}
		hardNotFound := true
		if checkAnchors {
			hardNotFound = !b.Defined(withoutAnchor(href))
		}
		for _, u := range state.Usages {
			out = append(out, BrokenLink{Used: u, HardNotFound: hardNotFound})
		}
	}
	return out
}

func withoutAnchor(href string) string {
	for i := 0; i < len(href); i++ {
		if href[i] == '#' {
			return href[:i]
		}
	}
	return href
}
