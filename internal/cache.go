package internal

import (
	"crypto/md5"
	"encoding/hex"
	"sync"
	"time"

	tt "github.com/gnolang/ifnest/internal/types"
)

type cacheEntry struct {
	Hash      string
	Issues    []tt.Issue
	CreatedAt time.Time
}

// resultCache remembers the issues of the last lint of every file,
// keyed by a hash of its content. Editors often write the same content
// several times in a row; those writes are not linted again.
type resultCache struct {
	mutex   sync.Mutex
	entries map[string]cacheEntry
	maxAge  time.Duration
}

func newResultCache(maxAge time.Duration) *resultCache {
	return &resultCache{
		entries: make(map[string]cacheEntry),
		maxAge:  maxAge,
	}
}

// Get returns the cached issues when content matches what was linted
// last time and the entry has not expired.
func (c *resultCache) Get(filename string, content []byte) ([]tt.Issue, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	entry, exists := c.entries[filename]
	if !exists {
		return nil, false
	}
	if c.isEntryInvalid(entry, content) {
		delete(c.entries, filename)
		return nil, false
	}
	return entry.Issues, true
}

func (c *resultCache) Set(filename string, content []byte, issues []tt.Issue) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries[filename] = cacheEntry{
		Hash:      contentHash(content),
		Issues:    issues,
		CreatedAt: time.Now(),
	}
}

func (c *resultCache) Invalidate(filename string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	delete(c.entries, filename)
}

func (c *resultCache) isEntryInvalid(entry cacheEntry, content []byte) bool {
	// too old
	if c.maxAge > 0 && time.Since(entry.CreatedAt) > c.maxAge {
		return true
	}
	return entry.Hash != contentHash(content)
}

func contentHash(content []byte) string {
	sum := md5.Sum(content)
	return hex.EncodeToString(sum[:])
}
