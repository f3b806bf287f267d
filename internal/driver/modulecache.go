package driver

import (
	"sync"
)

// MemoCache is a per-process layer in front of the disk cache: documents with
// identical content (and options) are checked once per run.
type MemoCache struct {
	mu    sync.RWMutex
	byKey map[Digest]*VerdictPayload
}

// NewMemoCache creates a MemoCache with the given capacity hint.
func NewMemoCache(capHint int) *MemoCache {
	return &MemoCache{byKey: make(map[Digest]*VerdictPayload, capHint)}
}

// Get returns the payload stored under key.
func (c *MemoCache) Get(key Digest) (*VerdictPayload, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	p, ok := c.byKey[key]
	c.mu.RUnlock()
	return p, ok
}

// Put stores a payload; payloads are never modified after insertion.
func (c *MemoCache) Put(key Digest, p *VerdictPayload) {
	if c == nil || p == nil {
		return
	}
	c.mu.Lock()
	c.byKey[key] = p
	c.mu.Unlock()
}

func (c *MemoCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byKey)
}
