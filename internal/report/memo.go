package report

import (
	"strings"
	"sync"

	"github.com/orderpulse/report-cli/internal/dataset"
)

// Memo caches aggregation results for repeated identical requests within a
// session, keyed by dataset identity, grouping key, and options. It is
// strictly an optimization: a nil *Memo computes directly, and Reset drops
// everything at any time without affecting correctness.
type Memo struct {
	mu sync.Mutex
	m  map[string]*AggregateTable
}

// NewMemo returns an empty cache.
func NewMemo() *Memo {
	return &Memo{m: make(map[string]*AggregateTable)}
}

// Aggregate returns the cached table for this exact request, computing and
// storing it on a miss. Cached tables are shared; callers must treat them as
// read-only, which holds for every consumer in this repo.
func (c *Memo) Aggregate(ds *dataset.Dataset, groupBy []string, opts Options) (*AggregateTable, error) {
	if c == nil {
		return Aggregate(ds, groupBy, opts)
	}

	key := ds.ID() + "|" + strings.Join(groupBy, keySep) + "|" + opts.measure() + "|" + opts.CountDistinct

	c.mu.Lock()
	if t, ok := c.m[key]; ok {
		c.mu.Unlock()
		return t, nil
	}
	c.mu.Unlock()

	t, err := Aggregate(ds, groupBy, opts)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.m[key] = t
	c.mu.Unlock()
	return t, nil
}

// Reset empties the cache.
func (c *Memo) Reset() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.m = make(map[string]*AggregateTable)
	c.mu.Unlock()
}
