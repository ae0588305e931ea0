package txverify

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// MedianTimeContext supplies the median timestamp (in milliseconds) of the
// block at the given height. ok is false if the oracle has no answer for
// that height (e.g. height predates genesis); that is a legitimate,
// cacheable result, distinct from "not yet queried".
type MedianTimeContext interface {
	BlockMedianTime(number uint64) (ms uint64, ok bool)
}

// medianTimeEntry is the cached result of one oracle query.
type medianTimeEntry struct {
	ms uint64
	ok bool
}

// medianTimeCache memoizes MedianTimeContext lookups for the lifetime of a
// single SinceVerifier. Its capacity equals the number of resolved inputs
// of the transaction being verified: each input queries at most two block
// numbers, and the tip's "tip_number - 1" query is shared across inputs.
type medianTimeCache struct {
	ctx   MedianTimeContext
	cache *lru.Cache[uint64, medianTimeEntry]
}

func newMedianTimeCache(ctx MedianTimeContext, capacity int) *medianTimeCache {
	if capacity < 1 {
		capacity = 1
	}
	c, _ := lru.New[uint64, medianTimeEntry](capacity)
	return &medianTimeCache{ctx: ctx, cache: c}
}

// blockMedianTime returns the cached or freshly-queried median time for
// block n, in milliseconds, treating "no answer" as 0.
func (m *medianTimeCache) blockMedianTime(n uint64) uint64 {
	if entry, ok := m.cache.Get(n); ok {
		if entry.ok {
			return entry.ms
		}
		return 0
	}
	ms, ok := m.ctx.BlockMedianTime(n)
	m.cache.Add(n, medianTimeEntry{ms: ms, ok: ok})
	if !ok {
		return 0
	}
	return ms
}
