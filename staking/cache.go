package staking

import (
	"sync"

	"github.com/gagliardetto/solana-go"
)

// ResourceKind names one cached chain-derived resource.
type ResourceKind string

const (
	ResourceStakeAccounts ResourceKind = "stake-accounts"
	ResourceBalance       ResourceKind = "balance"
)

type cacheKey struct {
	owner solana.PublicKey
	kind  ResourceKind
}

// cache holds chain-derived values keyed by (owner, resource). Entries never
// expire on their own; every mutating operation invalidates the resources it
// touched, so staleness only lasts until the next write.
type cache struct {
	mu      sync.RWMutex
	entries map[cacheKey]any
}

func newCache() *cache {
	return &cache{entries: make(map[cacheKey]any)}
}

func (c *cache) get(owner solana.PublicKey, kind ResourceKind) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	v, ok := c.entries[cacheKey{owner: owner, kind: kind}]
	return v, ok
}

func (c *cache) put(owner solana.PublicKey, kind ResourceKind, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[cacheKey{owner: owner, kind: kind}] = value
}

func (c *cache) invalidate(owner solana.PublicKey, kinds ...ResourceKind) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, kind := range kinds {
		delete(c.entries, cacheKey{owner: owner, kind: kind})
	}
}
