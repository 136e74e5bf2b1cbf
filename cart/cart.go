// Package cart tracks the per-session mapping from product id to requested
// quantity and enforces the stock-aware quantity policy.
package cart

import (
	"sort"

	"github.com/esteban2806/tienda-carrito/catalog"
)

// Entry is a single cart position.
type Entry struct {
	Qty int `json:"qty"`
}

// Cart maps product id to requested quantity. Entries with a quantity of
// zero or below are never persisted; they are removed instead.
type Cart map[string]Entry

// Count returns the total number of items requested. Invalid quantities
// count as zero; an empty cart yields 0.
func (c Cart) Count() int {
	total := 0
	for _, e := range c {
		if e.Qty > 0 {
			total += e.Qty
		}
	}
	return total
}

// Line is a cart entry materialized against the catalog.
type Line struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unitPrice"`
	Qty       int     `json:"qty"`
	LineTotal float64 `json:"lineTotal"`
}

// Lines materializes the cart against a catalog snapshot. Entries whose
// product id no longer exists are silently dropped. Line totals are not
// rounded here; display and order building round at their own edges.
func Lines(c Cart, products []catalog.Product) []Line {
	lines := make([]Line, 0, len(c))
	for id, entry := range c {
		p := catalog.FindByID(products, id)
		if p == nil {
			continue
		}
		qty := entry.Qty
		if qty < 0 {
			qty = 0
		}
		lines = append(lines, Line{
			ID:        id,
			Name:      p.Name,
			UnitPrice: p.Price,
			Qty:       qty,
			LineTotal: p.Price * float64(qty),
		})
	}
	// Map iteration order is random; keep line order stable.
	sort.Slice(lines, func(i, j int) bool { return lines[i].ID < lines[j].ID })
	return lines
}
