package session

import (
	"context"
	"log/slog"

	"github.com/esteban2806/tienda-carrito/storage"
)

// Manager persists the admin session flag and runs login through the
// configured Authenticator. The flag is not an authentication token:
// anyone with access to the store can set it directly.
type Manager struct {
	docs   storage.Store
	auth   Authenticator
	logger *slog.Logger
}

// NewManager creates a session Manager.
func NewManager(docs storage.Store, auth Authenticator, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{docs: docs, auth: auth, logger: logger}
}

// LogIn validates the password and persists the session flag.
func (m *Manager) LogIn(ctx context.Context, password string) error {
	if err := m.auth.Authenticate(password); err != nil {
		return err
	}
	if err := m.docs.Put(ctx, storage.KeySession, "1"); err != nil {
		return err
	}
	m.logger.Info("Admin session opened")
	return nil
}

// LogOut clears the session flag.
func (m *Manager) LogOut(ctx context.Context) error {
	if err := m.docs.Put(ctx, storage.KeySession, "0"); err != nil {
		return err
	}
	m.logger.Info("Admin session closed")
	return nil
}

// LoggedIn reports whether the session flag is set. Missing or malformed
// flags read as logged out.
func (m *Manager) LoggedIn(ctx context.Context) bool {
	var flag string
	if err := m.docs.Get(ctx, storage.KeySession, &flag); err != nil {
		return false
	}
	return flag == "1"
}
