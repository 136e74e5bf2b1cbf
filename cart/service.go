package cart

import (
	"context"
	"errors"

	"github.com/esteban2806/tienda-carrito/catalog"
)

// Business-rule errors surfaced to the caller as user-facing messages.
var (
	// ErrUnknownProduct is returned when the product id is not in the catalog.
	ErrUnknownProduct = errors.New("unknown product")
	// ErrInsufficientStock is returned when a quantity change would exceed
	// the product's current stock. The cart is left unchanged.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Service applies the quantity policy on top of the cart and catalog
// stores: increments are capped at current stock, and decrementing to zero
// or below removes the entry entirely.
type Service struct {
	carts   *Store
	catalog *catalog.Store
}

// NewService creates a cart Service.
func NewService(carts *Store, cat *catalog.Store) *Service {
	return &Service{carts: carts, catalog: cat}
}

// Add increments the quantity for a product by one.
func (s *Service) Add(ctx context.Context, productID string) (Cart, error) {
	return s.ChangeQty(ctx, productID, 1)
}

// ChangeQty adjusts the quantity for a product by delta.
//
// A resulting quantity above the product's current stock is rejected
// without mutating the cart. A resulting quantity of zero or below removes
// the entry. An id with no catalog match is rejected.
func (s *Service) ChangeQty(ctx context.Context, productID string, delta int) (Cart, error) {
	products := s.catalog.Load(ctx)
	product := catalog.FindByID(products, productID)
	if product == nil {
		return nil, ErrUnknownProduct
	}

	c := s.carts.Load(ctx)
	next := c[productID].Qty + delta

	if next <= 0 {
		delete(c, productID)
		if err := s.carts.Save(ctx, c); err != nil {
			return nil, err
		}
		return c, nil
	}

	if next > product.Stock {
		return nil, ErrInsufficientStock
	}

	c[productID] = Entry{Qty: next}
	if err := s.carts.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Remove deletes a product's entry regardless of quantity.
func (s *Service) Remove(ctx context.Context, productID string) (Cart, error) {
	c := s.carts.Load(ctx)
	delete(c, productID)
	if err := s.carts.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Clear empties the cart.
func (s *Service) Clear(ctx context.Context) error {
	return s.carts.Clear(ctx)
}

// Lines materializes the current cart against the current catalog.
func (s *Service) Lines(ctx context.Context) []Line {
	return Lines(s.carts.Load(ctx), s.catalog.Load(ctx))
}
