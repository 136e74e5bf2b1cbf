package catalog

import (
	"encoding/json"
	"testing"
)

// decodeRaw parses a JSON list the way imports and loads do.
func decodeRaw(t *testing.T, doc string) []any {
	t.Helper()
	var raw []any
	if err := json.Unmarshal([]byte(doc), &raw); err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return raw
}

func TestSanitize(t *testing.T) {
	t.Run("drops records with falsy id", func(t *testing.T) {
		raw := decodeRaw(t, `[
			{"id": "a", "name": "keep"},
			{"id": "", "name": "empty id"},
			{"id": null, "name": "null id"},
			{"name": "missing id"},
			{"id": 0, "name": "zero id"},
			{"id": false, "name": "false id"},
			"not an object",
			null
		]`)

		products := Sanitize(raw)
		if len(products) != 1 {
			t.Fatalf("expected 1 product, got %d", len(products))
		}
		if products[0].ID != "a" {
			t.Errorf("expected id a, got %q", products[0].ID)
		}
	})

	t.Run("every output has non-empty id", func(t *testing.T) {
		raw := decodeRaw(t, `[{"id": 42}, {"id": true}, {"id": "x"}]`)
		for _, p := range Sanitize(raw) {
			if p.ID == "" {
				t.Errorf("sanitized product with empty id: %+v", p)
			}
		}
	})

	t.Run("coerces field types", func(t *testing.T) {
		raw := decodeRaw(t, `[{"id": 7, "name": 99, "price": "12.50", "stock": "3", "description": null}]`)

		products := Sanitize(raw)
		if len(products) != 1 {
			t.Fatalf("expected 1 product, got %d", len(products))
		}

		p := products[0]
		if p.ID != "7" {
			t.Errorf("expected id 7, got %q", p.ID)
		}
		if p.Name != "99" {
			t.Errorf("expected name 99, got %q", p.Name)
		}
		if p.Price != 12.50 {
			t.Errorf("expected price 12.50, got %v", p.Price)
		}
		if p.Stock != 3 {
			t.Errorf("expected stock 3, got %d", p.Stock)
		}
		if p.Description != "" {
			t.Errorf("expected empty description, got %q", p.Description)
		}
	})

	t.Run("category defaults to General", func(t *testing.T) {
		raw := decodeRaw(t, `[{"id": "a"}, {"id": "b", "category": ""}, {"id": "c", "category": "Hogar"}]`)

		products := Sanitize(raw)
		if products[0].Category != "General" || products[1].Category != "General" {
			t.Errorf("expected General defaults, got %q and %q", products[0].Category, products[1].Category)
		}
		if products[2].Category != "Hogar" {
			t.Errorf("expected Hogar, got %q", products[2].Category)
		}
	})

	t.Run("stock clamps to zero", func(t *testing.T) {
		raw := decodeRaw(t, `[{"id": "a", "stock": -5}, {"id": "b", "stock": "-1"}, {"id": "c"}]`)

		for _, p := range Sanitize(raw) {
			if p.Stock < 0 {
				t.Errorf("product %s has negative stock %d", p.ID, p.Stock)
			}
		}
	})

	t.Run("price passes through unchecked", func(t *testing.T) {
		raw := decodeRaw(t, `[{"id": "a", "price": -3.5}, {"id": "b"}]`)

		products := Sanitize(raw)
		if products[0].Price != -3.5 {
			t.Errorf("expected price -3.5, got %v", products[0].Price)
		}
		if products[1].Price != 0 {
			t.Errorf("expected missing price to default to 0, got %v", products[1].Price)
		}
	})

	t.Run("duplicate ids coexist, first match wins", func(t *testing.T) {
		raw := decodeRaw(t, `[{"id": "a", "name": "first"}, {"id": "a", "name": "second"}]`)

		products := Sanitize(raw)
		if len(products) != 2 {
			t.Fatalf("expected duplicates kept, got %d products", len(products))
		}
		if p := FindByID(products, "a"); p == nil || p.Name != "first" {
			t.Errorf("expected first match, got %+v", p)
		}
	})

	t.Run("idempotent under re-sanitation", func(t *testing.T) {
		raw := decodeRaw(t, `[{"id": 1, "name": "x", "price": "9.90", "stock": -2}]`)

		once := Sanitize(raw)

		data, err := json.Marshal(once)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		twice := Sanitize(decodeRaw(t, string(data)))

		if len(once) != len(twice) {
			t.Fatalf("length changed: %d vs %d", len(once), len(twice))
		}
		for i := range once {
			if once[i] != twice[i] {
				t.Errorf("record %d changed: %+v vs %+v", i, once[i], twice[i])
			}
		}
	})
}

func TestSearch(t *testing.T) {
	products := []Product{
		{ID: "1", Name: "Cámara instantánea", Category: "Fotografía", Description: "Imprime fotos"},
		{ID: "2", Name: "Audífonos", Category: "Audio", Description: "Inalámbricos"},
		{ID: "3", Name: "Lente 50mm", Category: "Fotografía"},
	}

	t.Run("accent-insensitive match", func(t *testing.T) {
		got := Search(products, "camara", "")
		if len(got) != 1 || got[0].ID != "1" {
			t.Errorf("expected product 1, got %+v", got)
		}
	})

	t.Run("matches description", func(t *testing.T) {
		got := Search(products, "inalambricos", "")
		if len(got) != 1 || got[0].ID != "2" {
			t.Errorf("expected product 2, got %+v", got)
		}
	})

	t.Run("category filter", func(t *testing.T) {
		got := Search(products, "", "Fotografía")
		if len(got) != 2 {
			t.Errorf("expected 2 products, got %d", len(got))
		}
	})

	t.Run("empty query and category match everything", func(t *testing.T) {
		if got := Search(products, "", ""); len(got) != 3 {
			t.Errorf("expected all products, got %d", len(got))
		}
	})
}

func TestCategories(t *testing.T) {
	products := []Product{
		{ID: "1", Category: "Hogar"},
		{ID: "2", Category: "Audio"},
		{ID: "3", Category: "Hogar"},
	}

	got := Categories(products)
	want := []string{"Audio", "Hogar"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected %v, got %v", want, got)
			break
		}
	}
}
