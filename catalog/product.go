// Package catalog manages the persisted product list: sanitation of loose
// input records, persistence, seeding from a default dataset, and the
// admin-facing import/export operations.
package catalog

import (
	"strconv"
	"strings"
)

// DefaultCategory is assigned to products imported without a category.
const DefaultCategory = "General"

// Product is a well-formed catalog record.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Category    string  `json:"category"`
	Stock       int     `json:"stock"`
	Description string  `json:"description"`
}

// Sanitize normalizes a decoded JSON list into valid Products.
//
// Records that are not objects, or whose id coerces to a falsy value
// (missing, null, "", 0, false), are dropped. Remaining fields are coerced:
// strings stay strings, numbers and booleans are stringified for string
// fields and parsed for numeric ones. Stock is clamped to a minimum of 0.
// Price is passed through unchecked, negative values included. Duplicate
// ids are not detected; consumers index by first match.
func Sanitize(raw []any) []Product {
	products := make([]Product, 0, len(raw))
	for _, item := range raw {
		rec, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if !truthy(rec["id"]) {
			continue
		}

		category := asString(rec["category"])
		if category == "" {
			category = DefaultCategory
		}

		stock := int(asNumber(rec["stock"]))
		if stock < 0 {
			stock = 0
		}

		products = append(products, Product{
			ID:          asString(rec["id"]),
			Name:        asString(rec["name"]),
			Price:       asNumber(rec["price"]),
			Image:       asString(rec["image"]),
			Category:    category,
			Stock:       stock,
			Description: asString(rec["description"]),
		})
	}
	return products
}

// FindByID returns the first product with the given id, or nil.
func FindByID(products []Product, id string) *Product {
	for i := range products {
		if products[i].ID == id {
			return &products[i]
		}
	}
	return nil
}

// asString coerces a decoded JSON value to its string form.
func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// asNumber coerces a decoded JSON value to a float. Unparseable input
// yields 0; negative numbers pass through.
func asNumber(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0
		}
		return n
	case bool:
		if t {
			return 1
		}
		return 0
	default:
		return 0
	}
}

// truthy reports whether a decoded JSON value would pass a loose
// presence check: nil, "", 0, and false all fail.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case float64:
		return t != 0
	case bool:
		return t
	default:
		return true
	}
}
