// Package cache is the primary blueprint cache. Blueprints are stored by
// GUID, and every registration is followed by the registered postfix hooks.
package cache

import (
	"slices"
	"sort"
	"strings"
	"sync"

	gcache "github.com/Code-Hex/go-generics-cache"
	"github.com/google/uuid"

	apperrors "github.com/louisbranch/blueprintcatalog/internal/platform/errors"
	"github.com/louisbranch/blueprintcatalog/internal/services/catalog/domain/blueprint"
)

// Hook runs after a blueprint has been added to the cache.
// Hooks with a higher Priority run first.
type Hook struct {
	Name     string
	Priority int
	F        func(bp blueprint.Blueprint)
}

// BlueprintsCache stores blueprints by GUID. It is safe for concurrent use.
type BlueprintsCache struct {
	entries *gcache.Cache[uuid.UUID, blueprint.Blueprint]

	hooksMu sync.RWMutex
	hooks   []Hook
}

// New creates an empty cache.
func New() *BlueprintsCache {
	return &BlueprintsCache{entries: gcache.New[uuid.UUID, blueprint.Blueprint]()}
}

// AddHook registers a postfix hook. Names must be unique.
func (c *BlueprintsCache) AddHook(h Hook) error {
	h.Name = strings.TrimSpace(h.Name)
	if h.Name == "" || h.F == nil {
		return apperrors.New(apperrors.CodeCacheHookInvalid, "cache: hook name and function are required")
	}

	c.hooksMu.Lock()
	defer c.hooksMu.Unlock()

	for _, existing := range c.hooks {
		if existing.Name == h.Name {
			return apperrors.WithMetadata(apperrors.CodeCacheHookDuplicate, "cache: duplicate hook", map[string]string{"hook": h.Name})
		}
	}
	c.hooks = append(c.hooks, h)
	sort.SliceStable(c.hooks, func(i, j int) bool {
		return c.hooks[i].Priority > c.hooks[j].Priority
	})
	return nil
}

// Hooks returns the hook names in invocation order.
func (c *BlueprintsCache) Hooks() []string {
	c.hooksMu.RLock()
	defer c.hooksMu.RUnlock()

	names := make([]string, 0, len(c.hooks))
	for _, h := range c.hooks {
		names = append(names, h.Name)
	}
	return names
}

// AddCachedBlueprint stores bp under guid, replacing any earlier entry, and
// then invokes every hook with bp. Hooks run outside the cache locks.
//
// The cache does not validate bp beyond its key; the hooks receive exactly
// what was registered.
func (c *BlueprintsCache) AddCachedBlueprint(guid uuid.UUID, bp blueprint.Blueprint) {
	c.entries.Set(guid, bp)

	c.hooksMu.RLock()
	hooks := slices.Clone(c.hooks)
	c.hooksMu.RUnlock()

	for _, h := range hooks {
		h.F(bp)
	}
}

// Get returns the blueprint registered under guid.
func (c *BlueprintsCache) Get(guid uuid.UUID) (blueprint.Blueprint, bool) {
	return c.entries.Get(guid)
}

// Len returns the number of cached blueprints.
func (c *BlueprintsCache) Len() int {
	return c.entries.Len()
}

// GUIDs returns every cached GUID in deterministic order.
func (c *BlueprintsCache) GUIDs() []uuid.UUID {
	guids := c.entries.Keys()
	sort.Slice(guids, func(i, j int) bool {
		return guids[i].String() < guids[j].String()
	})
	return guids
}
