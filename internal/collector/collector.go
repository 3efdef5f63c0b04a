// Package collector implements two link-accumulation strategies: a simple
// ordered-list collector for commands that only need every observed use,
// and the two-state Broken-Link Collector that resolves "defined vs.
// used-but-undefined" under an associative, order-independent merge.
package collector

import "github.com/hreflint/hreflint/internal/linkmodel"

// Collector is the common interface both strategies implement.
type Collector interface {
	Ingest(l linkmodel.Link)
	Merge(other Collector)
}
