// Package order builds immutable checkout snapshots, applies the resulting
// stock reduction, and appends orders to the persisted order log.
package order

import "time"

// Customer identifies the buyer on an order snapshot.
type Customer struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// Item is one order line, priced and rounded at build time.
type Item struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unitPrice"`
	Qty       int     `json:"qty"`
	LineTotal float64 `json:"lineTotal"`
}

// Order is an immutable checkout snapshot. Once built it is never mutated;
// the log only appends.
type Order struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Customer  Customer  `json:"customer"`
	Currency  string    `json:"currency"`
	Total     float64   `json:"total"`
	Items     []Item    `json:"items"`
}
