package engine

import "github.com/jaminalder/tictac/internal/domain"

// Cache stores evaluation results by state. Entries are written once and
// never expire since Evaluate is a pure function of its input.
// Implementations need not be safe for concurrent use.
type Cache interface {
	Get(b domain.Board) (Result, bool)
	Put(b domain.Board, r Result)
	Len() int
}

// CacheStats counts lookups served by a MemoCache.
type CacheStats struct {
	Size   int `json:"size"`
	Hits   int `json:"hits"`
	Misses int `json:"misses"`
}

// MemoCache is a map-backed Cache with no eviction. It is not synchronized.
type MemoCache struct {
	entries map[domain.Board]Result
	hits    int
	misses  int
}

func NewMemoCache() *MemoCache {
	return &MemoCache{entries: make(map[domain.Board]Result)}
}

func (c *MemoCache) Get(b domain.Board) (Result, bool) {
	r, ok := c.entries[b]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return r, ok
}

// Put keeps the first result stored for b.
func (c *MemoCache) Put(b domain.Board, r Result) {
	if _, ok := c.entries[b]; ok {
		return
	}
	c.entries[b] = r
}

func (c *MemoCache) Len() int { return len(c.entries) }

func (c *MemoCache) Stats() CacheStats {
	return CacheStats{Size: len(c.entries), Hits: c.hits, Misses: c.misses}
}
