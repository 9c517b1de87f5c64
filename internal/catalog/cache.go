package catalog

import (
	"sync"

	"github.com/dpshade/pocket-styler/internal/logger"
	"github.com/dpshade/pocket-styler/internal/storage"
)

// Cache holds the most recently built catalog and rebuilds it only when the
// staleness signature of its sources changes.
type Cache struct {
	loader *storage.Loader
	log    *logger.Logger

	mu      sync.Mutex
	current *Catalog
	builds  int
}

// NewCache creates a cache over loader's sources
func NewCache(loader *storage.Loader, log *logger.Logger) *Cache {
	if log == nil {
		log = logger.Nop()
	}
	return &Cache{loader: loader, log: log.With("component", "catalog")}
}

// Get returns the cached catalog when no contributing file changed since it
// was built, and builds a new one otherwise.
func (c *Cache) Get() *Catalog {
	sig := StaleSignature(c.loader.SourcePaths())

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current != nil && c.current.Signature.Equal(sig) {
		return c.current
	}

	report := c.loader.Load()
	cat := Build(report.Records, c.log)
	cat.Signature = sig
	cat.Strategy = report.Strategy
	cat.Skipped = report.Skipped

	if cat.Empty() {
		c.log.Warn("style catalog is empty", "sources", len(sig))
	} else {
		c.log.Debug("style catalog rebuilt", "styles", len(cat.Templates), "strategy", report.Strategy)
	}

	c.current = cat
	c.builds++
	return cat
}

// Invalidate drops the cached catalog so the next Get rebuilds.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.current = nil
	c.mu.Unlock()
}

// Builds reports how many times the catalog has been built.
func (c *Cache) Builds() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.builds
}
