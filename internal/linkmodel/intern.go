package linkmodel

import (
	"sync"

	"github.com/golang/groupcache/lru"
)

// Interner deduplicates source-path strings so that the many UsedLinks found
// in one document share a single backing string instead of each copying it.
// groupcache's lru.Cache is used purely as a bounded key->value map here (no
// eviction callback is installed that would discard a handle still in use;
// MaxEntries is left at its zero value, meaning unbounded, since the
// interning table's lifetime is one worker's document batch, not the whole
// run).
type Interner struct {
	mu    sync.Mutex
	cache *lru.Cache
}

// NewInterner returns a ready-to-use Interner.
func NewInterner() *Interner {
	return &Interner{cache: lru.New(0)}
}

// Intern returns the shared SourcePath handle for path, creating one on
// first use.
func (in *Interner) Intern(path string) SourcePath {
	in.mu.Lock()
	defer in.mu.Unlock()

	if v, ok := in.cache.Get(path); ok {
		return v.(SourcePath)
	}
	sp := NewSourcePath(path)
	in.cache.Add(path, sp)
	return sp
}
