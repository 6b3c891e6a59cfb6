package cache

import (
	"container/list"
	"sync"
	"time"
)

// Memory is an in-process LRU cache with TTL and size-based eviction.
type Memory[T any] struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	items   map[string]*list.Element
	lru     *list.List
}

type memoryItem[T any] struct {
	key       string
	data      T
	expiresAt time.Time
}

// NewMemory creates an in-memory LRU cache with TTL.
func NewMemory[T any](maxSize int, ttl time.Duration) *Memory[T] {
	return &Memory[T]{
		maxSize: maxSize,
		ttl:     ttl,
		items:   make(map[string]*list.Element),
		lru:     list.New(),
	}
}

// Get retrieves a value from the cache.
func (c *Memory[T]) Get(key string) (T, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	elem, exists := c.items[key]
	if !exists {
		return zero, false, nil
	}

	item := elem.Value.(*memoryItem[T])
	if time.Now().After(item.expiresAt) {
		c.removeElement(elem)
		return zero, false, nil
	}

	c.lru.MoveToFront(elem)
	return item.data, true, nil
}

// Set stores a value in the cache.
func (c *Memory[T]) Set(key string, data T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	item := &memoryItem[T]{
		key:       key,
		data:      data,
		expiresAt: time.Now().Add(c.ttl),
	}

	if elem, exists := c.items[key]; exists {
		elem.Value = item
		c.lru.MoveToFront(elem)
		return nil
	}

	elem := c.lru.PushFront(item)
	c.items[key] = elem

	if c.lru.Len() > c.maxSize {
		if oldest := c.lru.Back(); oldest != nil {
			c.removeElement(oldest)
		}
	}
	return nil
}

// Delete removes a key from the cache.
func (c *Memory[T]) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, exists := c.items[key]; exists {
		c.removeElement(elem)
	}
	return nil
}

func (c *Memory[T]) removeElement(elem *list.Element) {
	item := elem.Value.(*memoryItem[T])
	delete(c.items, item.key)
	c.lru.Remove(elem)
}

// CleanExpired removes all expired entries and returns how many were removed.
func (c *Memory[T]) CleanExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	var toRemove []*list.Element
	for elem := c.lru.Front(); elem != nil; elem = elem.Next() {
		if now.After(elem.Value.(*memoryItem[T]).expiresAt) {
			toRemove = append(toRemove, elem)
		}
	}
	for _, elem := range toRemove {
		c.removeElement(elem)
	}
	return len(toRemove)
}

// Size returns the current number of items in the cache.
func (c *Memory[T]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
