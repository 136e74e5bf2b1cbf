// Package session holds the admin authentication capability and the
// persisted session flag gating the admin surface.
package session

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrBadCredentials is returned when authentication fails.
var ErrBadCredentials = errors.New("bad credentials")

// Authenticator validates an admin password. Implementations decide how
// credentials are stored; the rest of the system only sees this capability.
type Authenticator interface {
	Authenticate(password string) error
}

// BcryptAuthenticator checks passwords against a bcrypt hash from config.
type BcryptAuthenticator struct {
	hash []byte
}

// NewBcryptAuthenticator creates an authenticator for the given hash.
func NewBcryptAuthenticator(hash string) *BcryptAuthenticator {
	return &BcryptAuthenticator{hash: []byte(hash)}
}

// Authenticate compares the password against the configured hash.
func (a *BcryptAuthenticator) Authenticate(password string) error {
	if len(a.hash) == 0 {
		return ErrBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword(a.hash, []byte(password)); err != nil {
		return ErrBadCredentials
	}
	return nil
}

// HashPassword produces a bcrypt hash suitable for the admin config field.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
