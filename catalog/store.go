package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/esteban2806/tienda-carrito/storage"
)

// ErrInvalidProduct is returned when an upserted product is missing its
// required id or name.
var ErrInvalidProduct = errors.New("product id and name are required")

// Store persists the product list and seeds it from the default dataset.
type Store struct {
	docs    storage.Store
	fetcher Fetcher
	logger  *slog.Logger
}

// NewStore creates a catalog Store.
func NewStore(docs storage.Store, fetcher Fetcher, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{docs: docs, fetcher: fetcher, logger: logger}
}

// Load returns the sanitized persisted product list. A missing or
// malformed document yields an empty list; the failure is not propagated.
func (s *Store) Load(ctx context.Context) []Product {
	var raw []any
	if err := s.docs.Get(ctx, storage.KeyProducts, &raw); err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("Discarding malformed product list", "error", err)
		}
		return []Product{}
	}
	return Sanitize(raw)
}

// Save sanitizes and persists the product list.
func (s *Store) Save(ctx context.Context, products []Product) error {
	return s.docs.Put(ctx, storage.KeyProducts, normalize(products))
}

// EnsureLoaded returns the persisted product list, seeding it from the
// default dataset if it is missing or empty. The fetch happens at most
// once; subsequent calls return the persisted value unchanged.
func (s *Store) EnsureLoaded(ctx context.Context) ([]Product, error) {
	if existing := s.Load(ctx); len(existing) > 0 {
		return existing, nil
	}

	products, err := s.fetcher.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("load default products: %w", err)
	}

	if err := s.Save(ctx, products); err != nil {
		return nil, fmt.Errorf("persist default products: %w", err)
	}

	s.logger.Info("Seeded catalog from default dataset", "products", len(products))
	return products, nil
}

// ResetFromDefault unconditionally refetches the default dataset and
// overwrites the persisted list.
func (s *Store) ResetFromDefault(ctx context.Context) ([]Product, error) {
	products, err := s.fetcher.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("load default products: %w", err)
	}

	if err := s.Save(ctx, products); err != nil {
		return nil, fmt.Errorf("persist default products: %w", err)
	}

	s.logger.Info("Reset catalog from default dataset", "products", len(products))
	return products, nil
}

// Upsert updates the product with a matching id in place, or prepends it
// as a new product. Id and name are required.
func (s *Store) Upsert(ctx context.Context, p Product) ([]Product, error) {
	if p.ID == "" || p.Name == "" {
		return nil, ErrInvalidProduct
	}

	products := s.Load(ctx)
	replaced := false
	for i := range products {
		if products[i].ID == p.ID {
			products[i] = p
			replaced = true
			break
		}
	}
	if !replaced {
		products = append([]Product{p}, products...)
	}

	if err := s.Save(ctx, products); err != nil {
		return nil, err
	}
	return normalize(products), nil
}

// Remove deletes the product with the given id. Removing an unknown id
// is a no-op.
func (s *Store) Remove(ctx context.Context, id string) ([]Product, error) {
	products := s.Load(ctx)
	kept := products[:0]
	for _, p := range products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}

	if err := s.Save(ctx, kept); err != nil {
		return nil, err
	}
	return kept, nil
}

// Export writes the current catalog as an indented JSON document.
func (s *Store) Export(ctx context.Context, w io.Writer) error {
	data, err := json.MarshalIndent(s.Load(ctx), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal catalog: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	return nil
}

// Import replaces the entire catalog with the document read from r.
// The document must be a JSON list; otherwise nothing is imported.
func (s *Store) Import(ctx context.Context, r io.Reader) ([]Product, error) {
	products, err := decodeList(r)
	if err != nil {
		return nil, fmt.Errorf("import products: %w", err)
	}

	if err := s.Save(ctx, products); err != nil {
		return nil, err
	}

	s.logger.Info("Imported catalog", "products", len(products))
	return products, nil
}

// ImportGlob replaces the catalog with the concatenation of every JSON
// document matching the doublestar pattern. Any unreadable or malformed
// file aborts the whole import.
func (s *Store) ImportGlob(ctx context.Context, pattern string) ([]Product, error) {
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("bad import pattern %q: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no files match %q", pattern)
	}

	var products []Product
	for _, path := range matches {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		batch, err := decodeList(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("import %s: %w", path, err)
		}
		products = append(products, batch...)
	}

	if err := s.Save(ctx, products); err != nil {
		return nil, err
	}

	s.logger.Info("Imported catalog from glob", "pattern", pattern, "files", len(matches), "products", len(products))
	return products, nil
}

// normalize re-applies the sanitation invariants to typed products:
// records without an id are dropped, category defaults, stock is clamped.
func normalize(products []Product) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if p.ID == "" {
			continue
		}
		if p.Category == "" {
			p.Category = DefaultCategory
		}
		if p.Stock < 0 {
			p.Stock = 0
		}
		out = append(out, p)
	}
	return out
}
