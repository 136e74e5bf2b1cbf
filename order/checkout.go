package order

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/esteban2806/tienda-carrito/cart"
	"github.com/esteban2806/tienda-carrito/catalog"
)

// ErrEmptyCart is returned when checkout is attempted with nothing in the cart.
var ErrEmptyCart = errors.New("cart is empty")

// Checkout turns the current cart into an order: it snapshots cart and
// catalog, reduces stock, appends to the order log, and clears the cart.
type Checkout struct {
	carts    *cart.Store
	catalog  *catalog.Store
	log      *Log
	currency string
	logger   *slog.Logger
}

// NewCheckout creates a Checkout service.
func NewCheckout(carts *cart.Store, cat *catalog.Store, log *Log, currency string, logger *slog.Logger) *Checkout {
	if logger == nil {
		logger = slog.Default()
	}
	return &Checkout{carts: carts, catalog: cat, log: log, currency: currency, logger: logger}
}

// Run executes checkout for the given customer and returns the recorded
// order.
//
// The catalog write, the order append, and the cart clear are three
// independent document writes with no transactional envelope; a crash
// between them can leave stock reduced without an order recorded, or an
// order recorded with the cart still populated.
func (c *Checkout) Run(ctx context.Context, customer Customer) (Order, error) {
	current := c.carts.Load(ctx)
	if current.Count() == 0 {
		return Order{}, ErrEmptyCart
	}

	products := c.catalog.Load(ctx)
	o := Build(current, products, customer, c.currency)

	reduced := ApplyStockReduction(products, current)
	if err := c.catalog.Save(ctx, reduced); err != nil {
		return Order{}, fmt.Errorf("reduce stock: %w", err)
	}

	if err := c.log.Append(ctx, o); err != nil {
		return Order{}, err
	}

	if err := c.carts.Clear(ctx); err != nil {
		return Order{}, fmt.Errorf("clear cart: %w", err)
	}

	c.logger.Info("Order recorded", "order_id", o.ID, "items", len(o.Items), "total", o.Total)
	return o, nil
}
