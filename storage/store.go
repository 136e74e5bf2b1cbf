// Package storage provides document storage for tienda using NATS KV.
//
// The catalog, the cart, and the order log each live under a fixed key as a
// whole-document JSON blob. Stores are injected as a dependency so the
// domain packages never touch ambient global state.
package storage

import "context"

// Document keys. The version suffix allows a future format change to start
// from a clean key instead of migrating in place.
const (
	KeyProducts = "products_v1"
	KeyCart     = "cart_v1"
	KeyOrders   = "orders_v1"
	KeySession  = "admin_session_v1"
)

// Store reads and writes named JSON documents.
type Store interface {
	// Get unmarshals the document stored under key into v.
	// Returns ErrNotFound if the key has never been written.
	Get(ctx context.Context, key string, v any) error

	// Put marshals v and stores it under key, replacing any prior value.
	Put(ctx context.Context, key string, v any) error

	// Delete removes the document stored under key. Deleting a missing
	// key is not an error.
	Delete(ctx context.Context, key string) error
}
