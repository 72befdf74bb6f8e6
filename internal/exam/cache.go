package exam

import (
	"crypto/sha256"
	"sync"
)

// ParseCache memoizes the last Parse result by content hash. Parse is pure,
// so the cache is only an optimization: correctness never depends on a hit
// and callers may always re-parse.
type ParseCache struct {
	mu     sync.Mutex
	sum    [sha256.Size]byte
	parsed ParsedExam
	valid  bool
}

// Parse returns the parsed exam for raw and whether it was served from cache.
func (c *ParseCache) Parse(raw string) (ParsedExam, bool) {
	sum := sha256.Sum256([]byte(raw))

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid && c.sum == sum {
		return c.parsed, true
	}
	c.parsed = Parse(raw)
	c.sum = sum
	c.valid = true
	return c.parsed, false
}
