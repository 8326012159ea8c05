package sink

import (
	"iter"
	"sync"

	"github.com/google/uuid"

	"github.com/louisbranch/blueprintcatalog/internal/services/catalog/domain/blueprint"
)

// View is read-only access to one variant collection.
type View[T blueprint.Blueprint] interface {
	Contains(guid uuid.UUID) bool
	Get(guid uuid.UUID) (T, bool)
	Len() int
	All() []T
	Each() iter.Seq[T]
}

// Collection is an ordered, duplicate-free list of blueprints of one variant.
// Identity is the blueprint GUID. It is safe for concurrent use.
type Collection[T blueprint.Blueprint] struct {
	mu     sync.RWMutex
	items  []T
	byGUID map[uuid.UUID]int
}

var _ View[*blueprint.Item] = (*Collection[*blueprint.Item])(nil)

func newCollection[T blueprint.Blueprint]() *Collection[T] {
	return &Collection[T]{byGUID: make(map[uuid.UUID]int)}
}

// add appends v unless its GUID is already present. The membership test and
// the append happen under one lock.
func (c *Collection[T]) add(v T) bool {
	guid := v.BlueprintGUID()

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.byGUID[guid]; exists {
		return false
	}
	c.byGUID[guid] = len(c.items)
	c.items = append(c.items, v)
	return true
}

// Contains reports whether a blueprint with guid is in the collection.
func (c *Collection[T]) Contains(guid uuid.UUID) bool {
	c.mu.RLock()
	_, ok := c.byGUID[guid]
	c.mu.RUnlock()
	return ok
}

// Get returns the blueprint stored under guid.
func (c *Collection[T]) Get(guid uuid.UUID) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	idx, ok := c.byGUID[guid]
	if !ok {
		var zero T
		return zero, false
	}
	return c.items[idx], true
}

// Len returns the number of stored blueprints.
func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// All returns a snapshot in insertion order.
func (c *Collection[T]) All() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Each iterates over a snapshot in insertion order.
func (c *Collection[T]) Each() iter.Seq[T] {
	items := c.All()
	return func(yield func(T) bool) {
		for _, item := range items {
			if !yield(item) {
				return
			}
		}
	}
}
