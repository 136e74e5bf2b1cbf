package storage

import (
	"context"
	"errors"
	"testing"
)

func TestMemStore(t *testing.T) {
	ctx := context.Background()

	type doc struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	t.Run("Get on missing key returns ErrNotFound", func(t *testing.T) {
		s := NewMemStore()
		var d doc
		if err := s.Get(ctx, KeyProducts, &d); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Put then Get round-trips", func(t *testing.T) {
		s := NewMemStore()
		if err := s.Put(ctx, KeyCart, doc{Name: "x", Count: 3}); err != nil {
			t.Fatalf("put: %v", err)
		}

		var d doc
		if err := s.Get(ctx, KeyCart, &d); err != nil {
			t.Fatalf("get: %v", err)
		}
		if d.Name != "x" || d.Count != 3 {
			t.Errorf("unexpected document: %+v", d)
		}
	})

	t.Run("Put replaces prior document", func(t *testing.T) {
		s := NewMemStore()
		if err := s.Put(ctx, KeyOrders, doc{Count: 1}); err != nil {
			t.Fatalf("put: %v", err)
		}
		if err := s.Put(ctx, KeyOrders, doc{Count: 2}); err != nil {
			t.Fatalf("put: %v", err)
		}

		var d doc
		if err := s.Get(ctx, KeyOrders, &d); err != nil {
			t.Fatalf("get: %v", err)
		}
		if d.Count != 2 {
			t.Errorf("expected count 2, got %d", d.Count)
		}
	})

	t.Run("Delete removes document", func(t *testing.T) {
		s := NewMemStore()
		if err := s.Put(ctx, KeySession, "1"); err != nil {
			t.Fatalf("put: %v", err)
		}
		if err := s.Delete(ctx, KeySession); err != nil {
			t.Fatalf("delete: %v", err)
		}

		var flag string
		if err := s.Get(ctx, KeySession, &flag); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}
	})

	t.Run("Delete on missing key is not an error", func(t *testing.T) {
		s := NewMemStore()
		if err := s.Delete(ctx, "nothing_here"); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("Get surfaces malformed documents", func(t *testing.T) {
		s := NewMemStore()
		s.PutRaw(KeyProducts, []byte("{not json"))

		var d doc
		if err := s.Get(ctx, KeyProducts, &d); err == nil {
			t.Error("expected unmarshal error, got nil")
		}
	})
}
