package cart

import (
	"context"
	"errors"
	"log/slog"

	"github.com/esteban2806/tienda-carrito/storage"
)

// Store persists the cart mapping. No validation against the catalog
// happens here; the quantity policy lives in Service.
type Store struct {
	docs   storage.Store
	logger *slog.Logger
}

// NewStore creates a cart Store.
func NewStore(docs storage.Store, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{docs: docs, logger: logger}
}

// Load returns the persisted cart. A missing or malformed document yields
// an empty cart; the failure is not propagated.
func (s *Store) Load(ctx context.Context) Cart {
	var c Cart
	if err := s.docs.Get(ctx, storage.KeyCart, &c); err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("Discarding malformed cart", "error", err)
		}
		return Cart{}
	}
	if c == nil {
		c = Cart{}
	}
	return c
}

// Save persists the cart mapping as-is.
func (s *Store) Save(ctx context.Context, c Cart) error {
	if c == nil {
		c = Cart{}
	}
	return s.docs.Put(ctx, storage.KeyCart, c)
}

// Clear persists an empty cart.
func (s *Store) Clear(ctx context.Context) error {
	return s.Save(ctx, Cart{})
}
