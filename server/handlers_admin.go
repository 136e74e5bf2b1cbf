package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/esteban2806/tienda-carrito/catalog"
	"github.com/esteban2806/tienda-carrito/session"
)

// ----------------------------------------------------------------------------
// Session
// ----------------------------------------------------------------------------

// handleLogin validates the admin password and opens the session.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	if err := s.sessions.LogIn(r.Context(), req.Password); err != nil {
		if errors.Is(err, session.ErrBadCredentials) {
			writeError(w, http.StatusUnauthorized, "wrong password")
			return
		}
		writeError(w, http.StatusInternalServerError, "could not open session")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"loggedIn": true})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.LogOut(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "could not close session")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"loggedIn": false})
}

func (s *Server) handleSessionStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"loggedIn": s.sessions.LoggedIn(r.Context())})
}

// ----------------------------------------------------------------------------
// Catalog management
// ----------------------------------------------------------------------------

// handleUpsertProduct creates or updates a product from the admin form.
func (s *Server) handleUpsertProduct(w http.ResponseWriter, r *http.Request) {
	var p catalog.Product
	if !decodeBody(w, r, &p) {
		return
	}

	products, err := s.catalog.Upsert(r.Context(), p)
	if err != nil {
		if errors.Is(err, catalog.ErrInvalidProduct) {
			writeError(w, http.StatusBadRequest, "id and name are required")
			return
		}
		writeError(w, http.StatusInternalServerError, "could not save product")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": products})
}

// handleDeleteProduct removes a product by id.
func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	products, err := s.catalog.Remove(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not delete product")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": products})
}

// handleExport streams the catalog as a downloadable JSON document.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="products.json"`)
	if err := s.catalog.Export(r.Context(), w); err != nil {
		s.logger.Error("Export failed", "error", err)
	}
}

// handleImport replaces the catalog with the uploaded JSON document.
// A document that is not a list is rejected with no partial import.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

	products, err := s.catalog.Import(r.Context(), r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "import must be a JSON list of products")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": products})
}

// handleReset refetches the default dataset and overwrites the catalog.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	products, err := s.catalog.ResetFromDefault(r.Context())
	if err != nil {
		s.logger.Error("Reset from default failed", "error", err)
		writeError(w, http.StatusBadGateway, "could not load default products")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": products})
}
