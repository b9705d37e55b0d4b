// Package registry manages catalog reader registration and
// instantiation. Concrete reader packages register a factory from
// their init function; the CLI and the session store look catalogs up
// by slug.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/edpop/explorer/pkg/config"
	"github.com/edpop/explorer/pkg/errors"
	"github.com/edpop/explorer/pkg/logger"
	"github.com/edpop/explorer/pkg/reader"
	"github.com/edpop/explorer/pkg/record"
)

// Factory creates a fresh reader instance for one search session.
type Factory func(cfg *config.BaseConfig) (reader.Reader, error)

// entry couples a catalog descriptor with its reader factory.
type entry struct {
	catalog *record.Catalog
	factory Factory
}

// Registry manages reader registration and instantiation
type Registry struct {
	readers map[string]entry
	mu      sync.RWMutex
	logger  *zap.Logger
}

// Global registry instance
var globalRegistry = NewRegistry()

// NewRegistry creates a new reader registry
func NewRegistry() *Registry {
	return &Registry{
		readers: make(map[string]entry),
		logger:  logger.Get().With(zap.String("component", "reader_registry")),
	}
}

// Register registers a reader factory under the catalog's slug
func (r *Registry) Register(catalog *record.Catalog, factory Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if catalog == nil || catalog.Slug == "" {
		return errors.New(errors.ErrorTypeConfig, "catalog with a slug is required")
	}
	if _, exists := r.readers[catalog.Slug]; exists {
		return errors.New(errors.ErrorTypeConfig, fmt.Sprintf("reader %s already registered", catalog.Slug))
	}

	r.readers[catalog.Slug] = entry{catalog: catalog, factory: factory}
	r.logger.Debug("reader registered", zap.String("catalog", catalog.Slug))
	return nil
}

// Create creates a fresh reader instance for the named catalog
func (r *Registry) Create(slug string, cfg *config.BaseConfig) (reader.Reader, error) {
	r.mu.RLock()
	e, exists := r.readers[slug]
	r.mu.RUnlock()

	if !exists {
		return nil, errors.New(errors.ErrorTypeConfig, fmt.Sprintf("reader %s not found", slug))
	}
	if cfg != nil && cfg.Catalog(slug).Disabled {
		return nil, errors.New(errors.ErrorTypeConfig, fmt.Sprintf("catalog %s is disabled", slug))
	}

	rd, err := e.factory(cfg)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, fmt.Sprintf("failed to create reader %s", slug))
	}
	return rd, nil
}

// Catalog returns the descriptor of the named catalog
func (r *Registry) Catalog(slug string) (*record.Catalog, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, exists := r.readers[slug]
	if !exists {
		return nil, false
	}
	return e.catalog, true
}

// List returns the registered catalog slugs in alphabetical order
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	slugs := make([]string, 0, len(r.readers))
	for slug := range r.readers {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	return slugs
}

// Catalogs returns the registered catalog descriptors, ordered by slug
func (r *Registry) Catalogs() []*record.Catalog {
	out := make([]*record.Catalog, 0)
	for _, slug := range r.List() {
		if cat, ok := r.Catalog(slug); ok {
			out = append(out, cat)
		}
	}
	return out
}

// Has checks if a reader is registered
func (r *Registry) Has(slug string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.readers[slug]
	return exists
}

// Clear removes all registered readers (mainly for testing)
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.readers = make(map[string]entry)
}

// Global registry functions

// Register registers a reader in the global registry
func Register(catalog *record.Catalog, factory Factory) error {
	return globalRegistry.Register(catalog, factory)
}

// MustRegister registers a reader and panics on failure. Intended for
// init functions of concrete reader packages.
func MustRegister(catalog *record.Catalog, factory Factory) {
	if err := Register(catalog, factory); err != nil {
		panic(err)
	}
}

// Create creates a reader from the global registry
func Create(slug string, cfg *config.BaseConfig) (reader.Reader, error) {
	return globalRegistry.Create(slug, cfg)
}

// Catalog returns a catalog descriptor from the global registry
func Catalog(slug string) (*record.Catalog, bool) {
	return globalRegistry.Catalog(slug)
}

// List returns registered catalog slugs from the global registry
func List() []string {
	return globalRegistry.List()
}

// Catalogs returns registered catalog descriptors from the global registry
func Catalogs() []*record.Catalog {
	return globalRegistry.Catalogs()
}

// Has checks if a reader is registered in the global registry
func Has(slug string) bool {
	return globalRegistry.Has(slug)
}

// GetRegistry returns the global registry instance
func GetRegistry() *Registry {
	return globalRegistry
}
