package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/esteban2806/tienda-carrito/cart"
	"github.com/esteban2806/tienda-carrito/catalog"
	"github.com/esteban2806/tienda-carrito/config"
	"github.com/esteban2806/tienda-carrito/order"
	"github.com/esteban2806/tienda-carrito/session"
	"github.com/esteban2806/tienda-carrito/storage"
)

// App is the main application that wires together all components.
type App struct {
	cfg    *config.Config
	logger *slog.Logger

	// NATS
	embeddedServer *server.Server
	natsConn       *nats.Conn
	js             jetstream.JetStream

	// Storage and services
	docs     storage.Store
	Catalog  *catalog.Store
	Carts    *cart.Store
	CartSvc  *cart.Service
	Orders   *order.Log
	Checkout *order.Checkout
	Sessions *session.Manager
}

// NewApp creates a new application instance.
func NewApp(cfg *config.Config, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	return &App{cfg: cfg, logger: logger}
}

// Start initializes NATS, storage, and the storefront services.
func (a *App) Start(ctx context.Context) error {
	if err := a.startNATS(ctx); err != nil {
		return fmt.Errorf("start NATS: %w", err)
	}

	docs, err := storage.NewNATSStore(ctx, a.js, a.cfg.NATS.Bucket)
	if err != nil {
		return fmt.Errorf("initialize storage: %w", err)
	}
	a.docs = docs

	a.Catalog = catalog.NewStore(docs, a.fetcher(), a.logger)
	a.Carts = cart.NewStore(docs, a.logger)
	a.CartSvc = cart.NewService(a.Carts, a.Catalog)
	a.Orders = order.NewLog(docs, a.logger)
	a.Checkout = order.NewCheckout(a.Carts, a.Catalog, a.Orders, a.cfg.Shop.Currency, a.logger)
	a.Sessions = session.NewManager(docs, session.NewBcryptAuthenticator(a.cfg.Admin.PasswordHash), a.logger)

	return nil
}

// fetcher picks the default dataset source: a static URL when configured,
// otherwise the local seed file.
func (a *App) fetcher() catalog.Fetcher {
	if a.cfg.Shop.DefaultProductsURL != "" {
		return catalog.NewHTTPFetcher(a.cfg.Shop.DefaultProductsURL)
	}
	return catalog.NewFileFetcher(a.cfg.Shop.SeedFile)
}

func (a *App) startNATS(ctx context.Context) error {
	if a.cfg.NATS.URL != "" && !a.cfg.NATS.Embedded {
		// Connect to external NATS
		a.logger.Info("Connecting to NATS", "url", a.cfg.NATS.URL)
		conn, err := nats.Connect(a.cfg.NATS.URL)
		if err != nil {
			return fmt.Errorf("connect to NATS: %w", err)
		}
		a.natsConn = conn
	} else {
		// Start embedded NATS server
		a.logger.Info("Starting embedded NATS server")
		opts := &server.Options{
			Port:      -1, // Random available port
			JetStream: true,
			StoreDir:  a.cfg.NATS.StoreDir,
			NoLog:     true,
			NoSigs:    true,
		}

		ns, err := server.NewServer(opts)
		if err != nil {
			return fmt.Errorf("create embedded NATS server: %w", err)
		}

		go ns.Start()

		// Wait for server to be ready
		if !ns.ReadyForConnections(5 * time.Second) {
			ns.Shutdown()
			return fmt.Errorf("embedded NATS server failed to start")
		}

		a.embeddedServer = ns

		// Connect to embedded server
		conn, err := nats.Connect(ns.ClientURL())
		if err != nil {
			ns.Shutdown()
			return fmt.Errorf("connect to embedded NATS: %w", err)
		}
		a.natsConn = conn
	}

	// Get JetStream context
	js, err := jetstream.New(a.natsConn)
	if err != nil {
		return fmt.Errorf("create JetStream context: %w", err)
	}
	a.js = js

	return nil
}

// ClearDemo deletes the catalog, cart, and order log documents, restoring
// the demo to its first-run state. The next EnsureLoaded seeds again.
func (a *App) ClearDemo(ctx context.Context) error {
	for _, key := range []string{storage.KeyProducts, storage.KeyCart, storage.KeyOrders} {
		if err := a.docs.Delete(ctx, key); err != nil {
			return fmt.Errorf("clear %s: %w", key, err)
		}
	}
	a.logger.Info("Demo data cleared")
	return nil
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() {
	if a.natsConn != nil {
		a.natsConn.Drain()
		a.natsConn.Close()
	}

	if a.embeddedServer != nil {
		a.embeddedServer.Shutdown()
		a.embeddedServer.WaitForShutdown()
	}
}
