package scanner

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"github.com/rafabd1/LintHound/core/lint"
)

// resultCache remembers the diagnostics produced for a file body so that
// duplicated files (vendored copies, build outputs) are parsed only once.
// Diagnostics carry spans only, so they are valid for any path with the same
// content.
type resultCache struct {
	mu      sync.RWMutex
	entries map[string][]lint.Diagnostic
}

func newResultCache() *resultCache {
	return &resultCache{entries: make(map[string][]lint.Diagnostic)}
}

func cacheKey(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

func (c *resultCache) get(key string) ([]lint.Diagnostic, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	diags, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	out := make([]lint.Diagnostic, len(diags))
	copy(out, diags)
	return out, true
}

func (c *resultCache) store(key string, diags []lint.Diagnostic) {
	stored := make([]lint.Diagnostic, len(diags))
	copy(stored, diags)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = stored
}

func (c *resultCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
