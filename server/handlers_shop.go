package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/shopspring/decimal"

	"github.com/esteban2806/tienda-carrito/cart"
	"github.com/esteban2806/tienda-carrito/catalog"
	"github.com/esteban2806/tienda-carrito/order"
)

// ----------------------------------------------------------------------------
// GET /api/v1/products
// ----------------------------------------------------------------------------

// handleListProducts returns the catalog, optionally filtered by the q and
// category query parameters.
func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products := s.catalog.Load(r.Context())

	q := r.URL.Query().Get("q")
	category := r.URL.Query().Get("category")
	if q != "" || category != "" {
		products = catalog.Search(products, q, category)
	}

	writeJSON(w, http.StatusOK, map[string]any{"products": products})
}

// ----------------------------------------------------------------------------
// GET /api/v1/categories
// ----------------------------------------------------------------------------

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories := catalog.Categories(s.catalog.Load(r.Context()))
	if categories == nil {
		categories = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": categories})
}

// ----------------------------------------------------------------------------
// Cart
// ----------------------------------------------------------------------------

// cartResponse is the materialized view the shop UI renders: the raw
// mapping plus catalog-joined lines and the running subtotal.
type cartResponse struct {
	Cart     cart.Cart   `json:"cart"`
	Count    int         `json:"count"`
	Lines    []cart.Line `json:"lines"`
	Subtotal float64     `json:"subtotal"`
}

func (s *Server) cartView(r *http.Request) cartResponse {
	c := s.carts.Load(r.Context())
	lines := cart.Lines(c, s.catalog.Load(r.Context()))

	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(decimal.NewFromFloat(line.LineTotal))
	}

	return cartResponse{
		Cart:     c,
		Count:    c.Count(),
		Lines:    lines,
		Subtotal: subtotal.Round(2).InexactFloat64(),
	}
}

// handleGetCart returns the current cart joined against the catalog.
func (s *Server) handleGetCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.cartView(r))
}

// handleAddToCart increments the quantity for a product by one.
func (s *Server) handleAddToCart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ID == "" {
		writeError(w, http.StatusBadRequest, "product id is required")
		return
	}

	if _, err := s.cartSvc.Add(r.Context(), req.ID); err != nil {
		s.writeCartError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.cartView(r))
}

// handleChangeQty adjusts a cart entry by a signed delta.
func (s *Server) handleChangeQty(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Delta int `json:"delta"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	id := chi.URLParam(r, "id")
	if _, err := s.cartSvc.ChangeQty(r.Context(), id, req.Delta); err != nil {
		s.writeCartError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.cartView(r))
}

// handleRemoveFromCart drops a cart entry regardless of quantity.
func (s *Server) handleRemoveFromCart(w http.ResponseWriter, r *http.Request) {
	if _, err := s.cartSvc.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusInternalServerError, "could not update cart")
		return
	}
	writeJSON(w, http.StatusOK, s.cartView(r))
}

// handleClearCart empties the cart.
func (s *Server) handleClearCart(w http.ResponseWriter, r *http.Request) {
	if err := s.cartSvc.Clear(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "could not clear cart")
		return
	}
	writeJSON(w, http.StatusOK, s.cartView(r))
}

// writeCartError maps quantity-policy violations to user-facing responses.
func (s *Server) writeCartError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, cart.ErrUnknownProduct):
		writeError(w, http.StatusNotFound, "unknown product")
	case errors.Is(err, cart.ErrInsufficientStock):
		writeError(w, http.StatusConflict, "insufficient stock")
	default:
		writeError(w, http.StatusInternalServerError, "could not update cart")
	}
}

// ----------------------------------------------------------------------------
// POST /api/v1/checkout
// ----------------------------------------------------------------------------

// handleCheckout snapshots the cart into an order.
func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Address string `json:"address"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" || req.Email == "" || req.Address == "" {
		writeError(w, http.StatusBadRequest, "name, email, and address are required")
		return
	}

	o, err := s.checkout.Run(r.Context(), order.Customer{
		Name:    req.Name,
		Email:   req.Email,
		Address: req.Address,
	})
	if err != nil {
		if errors.Is(err, order.ErrEmptyCart) {
			writeError(w, http.StatusBadRequest, "cart is empty")
			return
		}
		s.logger.Error("Checkout failed", "error", err)
		writeError(w, http.StatusInternalServerError, "checkout failed")
		return
	}

	ordersTotal.Inc()
	writeJSON(w, http.StatusCreated, o)
}

// ----------------------------------------------------------------------------
// GET /api/v1/orders
// ----------------------------------------------------------------------------

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"orders": s.orders.List(r.Context())})
}
