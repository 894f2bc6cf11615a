package strategy

import (
	"container/list"
	"sync"
	"time"
)

// StrategyCacheEntry represents a cached live strategy instance
type StrategyCacheEntry struct {
	Strategy     PaymentStrategy
	MethodID     string
	CreatedAt    time.Time
	LastAccessed time.Time
	listElement  *list.Element // For LRU tracking
}

// StrategyCache keeps initialized strategy instances alive across
// lifecycle calls within a page session. Vendor SDK setup is expensive, so
// an instance is reused until evicted or expired.
type StrategyCache struct {
	entries     map[string]*StrategyCacheEntry
	accessOrder *list.List // Most recent at front
	maxSize     int
	ttl         time.Duration
	mu          sync.Mutex
}

// NewStrategyCache creates an LRU strategy cache. A ttl of zero disables
// expiry.
func NewStrategyCache(maxSize int, ttl time.Duration) *StrategyCache {
	return &StrategyCache{
		entries:     make(map[string]*StrategyCacheEntry),
		accessOrder: list.New(),
		maxSize:     maxSize,
		ttl:         ttl,
	}
}

// Get retrieves a live strategy for the method ID, or nil
func (c *StrategyCache) Get(methodID string) PaymentStrategy {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.entries[methodID]
	if !exists {
		return nil
	}

	if c.ttl > 0 && time.Since(entry.CreatedAt) > c.ttl {
		c.deleteEntryLocked(methodID, entry)
		return nil
	}

	entry.LastAccessed = time.Now()
	c.accessOrder.MoveToFront(entry.listElement)

	return entry.Strategy
}

// Set stores a strategy instance for the method ID
func (c *StrategyCache) Set(methodID string, s PaymentStrategy) {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, exists := c.entries[methodID]; exists {
		existing.Strategy = s
		existing.CreatedAt = now
		existing.LastAccessed = now
		c.accessOrder.MoveToFront(existing.listElement)
		return
	}

	if len(c.entries) >= c.maxSize {
		c.evictLRULocked()
	}

	entry := &StrategyCacheEntry{
		Strategy:     s,
		MethodID:     methodID,
		CreatedAt:    now,
		LastAccessed: now,
	}
	entry.listElement = c.accessOrder.PushFront(entry)
	c.entries[methodID] = entry
}

// Delete removes the strategy for the method ID
func (c *StrategyCache) Delete(methodID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, exists := c.entries[methodID]; exists {
		c.deleteEntryLocked(methodID, entry)
	}
}

// Size returns the current number of cached strategies
func (c *StrategyCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *StrategyCache) evictLRULocked() {
	lruElement := c.accessOrder.Back()
	if lruElement == nil {
		return
	}

	lruEntry := lruElement.Value.(*StrategyCacheEntry)
	c.deleteEntryLocked(lruEntry.MethodID, lruEntry)
}

func (c *StrategyCache) deleteEntryLocked(methodID string, entry *StrategyCacheEntry) {
	delete(c.entries, methodID)
	if entry.listElement != nil {
		c.accessOrder.Remove(entry.listElement)
	}
}
