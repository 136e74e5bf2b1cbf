package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/esteban2806/tienda-carrito/cart"
	"github.com/esteban2806/tienda-carrito/catalog"
)

// Build snapshots the cart against a catalog snapshot into an Order.
//
// Each line total is unitPrice*qty rounded to 2 decimal places. The order
// total is the sum of the unrounded line totals, rounded to 2 places
// independently, so it may differ from the sum of the displayed lines by a
// cent. Cart entries with no matching product are silently excluded.
func Build(c cart.Cart, products []catalog.Product, customer Customer, currency string) Order {
	lines := cart.Lines(c, products)

	items := make([]Item, 0, len(lines))
	total := decimal.Zero
	for _, line := range lines {
		lineTotal := decimal.NewFromFloat(line.UnitPrice).Mul(decimal.NewFromInt(int64(line.Qty)))
		total = total.Add(lineTotal)

		items = append(items, Item{
			ID:        line.ID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Qty:       line.Qty,
			LineTotal: lineTotal.Round(2).InexactFloat64(),
		})
	}

	return Order{
		ID:        uuid.New().String(),
		CreatedAt: time.Now().UTC(),
		Customer:  customer,
		Currency:  currency,
		Total:     total.Round(2).InexactFloat64(),
		Items:     items,
	}
}

// ApplyStockReduction returns a copy of products with each cart entry's
// quantity subtracted from the matching product's stock, floored at 0.
// Entries with no matching product are skipped.
func ApplyStockReduction(products []catalog.Product, c cart.Cart) []catalog.Product {
	reduced := make([]catalog.Product, len(products))
	copy(reduced, products)

	for id, entry := range c {
		qty := entry.Qty
		if qty < 0 {
			qty = 0
		}
		for i := range reduced {
			if reduced[i].ID != id {
				continue
			}
			reduced[i].Stock -= qty
			if reduced[i].Stock < 0 {
				reduced[i].Stock = 0
			}
			break
		}
	}
	return reduced
}
