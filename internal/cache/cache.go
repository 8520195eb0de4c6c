// Package cache provides an in-process response cache keyed by a coarse
// request fingerprint, so equivalent generation requests within a process
// lifetime reuse the same result instead of spending remote-call budget.
package cache

import (
	"fmt"
	"strings"
	"sync"

	"github.com/jonathan/resume-assistant/internal/types"
)

// Fingerprint derives the cache key for a generation request. The key is
// intentionally coarse: role, experience flag, and counts of skills,
// experience, projects, and education entries — not a full content hash —
// so near-identical requests share a result.
func Fingerprint(req *types.GenerationRequest) string {
	level := "experienced"
	if req.IsFresher {
		level = "fresher"
	}
	section := ""
	if req.Kind == types.OpSectionEnhance {
		section = strings.ToLower(req.Section)
	}
	if req.Kind == types.OpMultiSectionEnhance {
		section = strings.ToLower(strings.Join(req.Sections, "+"))
	}
	return fmt.Sprintf("%s|%s|%s|%s|s%d|e%d|p%d|ed%d",
		req.Kind,
		strings.ToLower(strings.TrimSpace(req.TargetRole)),
		level,
		section,
		len(req.Resume.Skills.Technical),
		len(req.Resume.Experience),
		len(req.Resume.Projects),
		len(req.Resume.Education),
	)
}

// ResultCache maps fingerprints to their last computed GenerationResult.
// Entries never expire within the process lifetime; the coarse keys keep
// cardinality small so no eviction is needed.
type ResultCache struct {
	mu      sync.RWMutex
	entries map[string]*types.GenerationResult
}

// NewResultCache returns an empty cache.
func NewResultCache() *ResultCache {
	return &ResultCache{entries: make(map[string]*types.GenerationResult)}
}

// Get returns the cached result for a fingerprint, if present.
func (c *ResultCache) Get(fingerprint string) (*types.GenerationResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result, ok := c.entries[fingerprint]
	return result, ok
}

// Set stores a fully computed result under the fingerprint. Partial results
// are never stored; callers only reach Set with a complete result.
func (c *ResultCache) Set(fingerprint string, result *types.GenerationResult) {
	if result == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[fingerprint] = result
}

// Len reports the number of cached entries.
func (c *ResultCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
