package search

import (
	"container/list"
	"sync"

	"github.com/heliumchem/helium/pkg/chem/smarts"
)

// patternCache is a small LRU over compiled patterns keyed by SMARTS text.
// Patterns are immutable after Compile, so a cached entry can be shared by
// any number of concurrent searches.
type patternCache struct {
	mu      sync.Mutex
	cap     int
	order   *list.List
	entries map[string]*list.Element
}

type patternEntry struct {
	text    string
	pattern *smarts.Pattern
}

// newPatternCache builds the cache.  A capacity of zero or less disables
// caching entirely: every get misses and put is a no-op.
func newPatternCache(capacity int) *patternCache {
	return &patternCache{
		cap:     capacity,
		order:   list.New(),
		entries: make(map[string]*list.Element),
	}
}

func (c *patternCache) get(text string) (*smarts.Pattern, bool) {
	if c.cap <= 0 {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	elem, ok := c.entries[text]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(elem)
	return elem.Value.(*patternEntry).pattern, true
}

func (c *patternCache) put(text string, pattern *smarts.Pattern) {
	if c.cap <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.entries[text]; ok {
		c.order.MoveToFront(elem)
		elem.Value.(*patternEntry).pattern = pattern
		return
	}
	c.entries[text] = c.order.PushFront(&patternEntry{text: text, pattern: pattern})
	if c.order.Len() > c.cap {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*patternEntry).text)
	}
}

func (c *patternCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
