package order

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/esteban2806/tienda-carrito/storage"
)

// Log is the persisted, insertion-ordered order log. Appends are
// unconditional and unbounded; there is no pruning.
type Log struct {
	docs   storage.Store
	logger *slog.Logger
}

// NewLog creates an order Log.
func NewLog(docs storage.Store, logger *slog.Logger) *Log {
	if logger == nil {
		logger = slog.Default()
	}
	return &Log{docs: docs, logger: logger}
}

// List returns all orders, most recent first. A missing or malformed log
// yields an empty list.
func (l *Log) List(ctx context.Context) []Order {
	var orders []Order
	if err := l.docs.Get(ctx, storage.KeyOrders, &orders); err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			l.logger.Warn("Discarding malformed order log", "error", err)
		}
		return []Order{}
	}
	return orders
}

// Append prepends the order so the log stays most-recent-first.
func (l *Log) Append(ctx context.Context, o Order) error {
	orders := append([]Order{o}, l.List(ctx)...)
	if err := l.docs.Put(ctx, storage.KeyOrders, orders); err != nil {
		return fmt.Errorf("append order %s: %w", o.ID, err)
	}
	return nil
}
