// Package server exposes the storefront over HTTP: shop routes for the
// catalog, cart, and checkout, and session-gated admin routes for catalog
// management. Rendering is the client's job; every response is JSON.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	chimiddleware "github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/esteban2806/tienda-carrito/cart"
	"github.com/esteban2806/tienda-carrito/catalog"
	"github.com/esteban2806/tienda-carrito/order"
	"github.com/esteban2806/tienda-carrito/session"
)

// shutdownTimeout bounds graceful shutdown once a signal arrives.
const shutdownTimeout = 10 * time.Second

// Server is the HTTP surface over the storefront services.
type Server struct {
	addr     string
	catalog  *catalog.Store
	carts    *cart.Store
	cartSvc  *cart.Service
	checkout *order.Checkout
	orders   *order.Log
	sessions *session.Manager
	logger   *slog.Logger

	srv *http.Server
}

// New creates a Server over the given services.
func New(addr string, cat *catalog.Store, carts *cart.Store, cartSvc *cart.Service,
	checkout *order.Checkout, orders *order.Log, sessions *session.Manager, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		addr:     addr,
		catalog:  cat,
		carts:    carts,
		cartSvc:  cartSvc,
		checkout: checkout,
		orders:   orders,
		sessions: sessions,
		logger:   logger,
	}
}

// Router builds the chi router with all routes mounted.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	// strip trailing slashes so /products/ and /products match the same route
	r.Use(chimiddleware.StripSlashes)
	r.Use(s.countRequests)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", s.handleListProducts)
		r.Get("/categories", s.handleListCategories)

		r.Get("/cart", s.handleGetCart)
		r.Post("/cart/items", s.handleAddToCart)
		r.Put("/cart/items/{id}", s.handleChangeQty)
		r.Delete("/cart/items/{id}", s.handleRemoveFromCart)
		r.Delete("/cart", s.handleClearCart)

		r.Post("/checkout", s.handleCheckout)
		r.Get("/orders", s.handleListOrders)

		r.Post("/admin/login", s.handleLogin)
		r.Post("/admin/logout", s.handleLogout)
		r.Get("/admin/session", s.handleSessionStatus)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAdmin)
			r.Put("/admin/products", s.handleUpsertProduct)
			r.Delete("/admin/products/{id}", s.handleDeleteProduct)
			r.Get("/admin/export", s.handleExport)
			r.Post("/admin/import", s.handleImport)
			r.Post("/admin/reset", s.handleReset)
		})
	})

	return r
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s.srv = &http.Server{
		Addr:    s.addr,
		Handler: s.Router(),
	}

	grp, ctx := errgroup.WithContext(ctx)

	grp.Go(func() error {
		s.logger.Info("HTTP server listening", "addr", s.addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	grp.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		s.logger.Info("Shutting down HTTP server")
		return s.srv.Shutdown(shutdownCtx)
	})

	return grp.Wait()
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// requireAdmin rejects requests without an open admin session.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.sessions.LoggedIn(r.Context()) {
			writeError(w, http.StatusUnauthorized, "admin session required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
