// Package catalog loads a model bundle into an immutable, shareable set of
// per-product forecasters, histories and accuracy metrics.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/j-veylop/prediksi-dashboard-tui/internal/db"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/forecaster"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/logger"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/models"
)

// Entry is everything the catalog knows about one product.
type Entry struct {
	Key        string
	Kind       string
	Forecaster forecaster.Forecaster
	History    []models.Observation
	Metrics    models.Metrics
}

// Info describes the bundle a catalog was loaded from.
type Info struct {
	Path      string
	CreatedAt string
	Source    string
	Products  int
}

// Catalog is a frozen product set. It is never mutated after construction
// and is safe for concurrent use.
type Catalog struct {
	info    Info
	entries map[string]Entry
	keys    []string
}

// New builds a catalog from entries. Later duplicates replace earlier ones.
func New(entries ...Entry) *Catalog {
	c := &Catalog{entries: make(map[string]Entry, len(entries))}
	for _, e := range entries {
		c.entries[e.Key] = e
	}
	c.keys = make([]string, 0, len(c.entries))
	for k := range c.entries {
		c.keys = append(c.keys, k)
	}
	sort.Strings(c.keys)
	c.info.Products = len(c.keys)
	return c
}

// Load reads the bundle at path. Failures are returned as *LoadError.
func Load(path string) (*Catalog, error) {
	fi, err := os.Stat(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return nil, &LoadError{Kind: NotFound, Path: path, Err: err}
	case err != nil:
		return nil, &LoadError{Kind: Unreadable, Path: path, Err: err}
	case fi.IsDir():
		return nil, &LoadError{Kind: Unreadable, Path: path, Err: errors.New("is a directory")}
	}

	bundle, err := db.OpenReadOnly(path)
	if err != nil {
		return nil, classify(path, err)
	}
	defer func() { _ = bundle.Close() }()

	rows, err := bundle.GetProducts()
	if err != nil {
		return nil, classify(path, err)
	}
	history, err := bundle.GetAllObservations()
	if err != nil {
		return nil, classify(path, err)
	}

	entries := make([]Entry, 0, len(rows))
	for _, r := range rows {
		m, err := forecaster.Decode(r.Kind, r.Params)
		if err != nil {
			return nil, &LoadError{Kind: Corrupt, Path: path, Err: fmt.Errorf("product %q: %w", r.Key, err)}
		}
		entries = append(entries, Entry{
			Key:        r.Key,
			Kind:       r.Kind,
			Forecaster: m,
			History:    history[r.Key],
			Metrics:    r.Metrics,
		})
	}

	c := New(entries...)
	c.info.Path = path
	c.info.CreatedAt, _ = bundle.Meta(db.MetaCreatedAt)
	c.info.Source, _ = bundle.Meta(db.MetaSource)

	logger.Info("model bundle loaded", "path", path, "products", len(entries))
	return c, nil
}

func classify(path string, err error) error {
	kind := Unreadable
	if db.IsCorrupt(err) {
		kind = Corrupt
	}
	return &LoadError{Kind: kind, Path: path, Err: err}
}

var (
	sharedMu sync.Mutex
	shared   = make(map[string]*Catalog)
)

// Shared returns the process-wide catalog for path, loading it on first
// use. A successful load is kept for the life of the process and later
// calls return the same instance without touching the file. Failed loads
// are not remembered, so a fixed bundle is picked up on the next call.
func Shared(path string) (*Catalog, error) {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	if c, ok := shared[path]; ok {
		return c, nil
	}

	c, err := Load(path)
	if err != nil {
		return nil, err
	}
	shared[path] = c
	return c, nil
}

// Info returns where the catalog came from.
func (c *Catalog) Info() Info {
	return c.info
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	return len(c.keys)
}

// Keys returns the product keys in ascending order.
func (c *Catalog) Keys() []string {
	return slices.Clone(c.keys)
}

// Has reports whether key is a product of the catalog.
func (c *Catalog) Has(key string) bool {
	_, ok := c.entries[key]
	return ok
}

// Get returns the entry for key. The returned history is a copy.
func (c *Catalog) Get(key string) (Entry, error) {
	e, ok := c.entries[key]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q", ErrUnknownProduct, key)
	}
	e.History = slices.Clone(e.History)
	return e, nil
}

// Filter returns the keys containing query, ignoring case, in their
// original order. An empty query returns every key. When nothing matches,
// the full list is returned and fellBack is true: a search never leaves the
// operator without choices.
func Filter(keys []string, query string) (matches []string, fellBack bool) {
	if query == "" {
		return slices.Clone(keys), false
	}

	q := strings.ToLower(query)
	for _, k := range keys {
		if strings.Contains(strings.ToLower(k), q) {
			matches = append(matches, k)
		}
	}

	if len(matches) == 0 {
		return slices.Clone(keys), true
	}
	return matches, false
}
