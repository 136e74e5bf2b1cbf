package catalog

import (
	"sort"
	"strings"
)

// foldTable maps accented Latin letters to their base form so that
// searches match regardless of diacritics ("camara" finds "cámara").
var foldTable = map[rune]rune{
	'á': 'a', 'à': 'a', 'ä': 'a', 'â': 'a', 'ã': 'a',
	'é': 'e', 'è': 'e', 'ë': 'e', 'ê': 'e',
	'í': 'i', 'ì': 'i', 'ï': 'i', 'î': 'i',
	'ó': 'o', 'ò': 'o', 'ö': 'o', 'ô': 'o', 'õ': 'o',
	'ú': 'u', 'ù': 'u', 'ü': 'u', 'û': 'u',
	'ñ': 'n', 'ç': 'c',
}

// Fold lowercases s and strips Latin diacritics.
func Fold(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if base, ok := foldTable[r]; ok {
			r = base
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Search filters products by an accent-insensitive substring match on name
// and description, and by exact category. Empty query and empty category
// match everything.
func Search(products []Product, query, category string) []Product {
	q := strings.TrimSpace(Fold(query))

	matched := make([]Product, 0, len(products))
	for _, p := range products {
		if q != "" && !strings.Contains(Fold(p.Name), q) && !strings.Contains(Fold(p.Description), q) {
			continue
		}
		if category != "" && p.Category != category {
			continue
		}
		matched = append(matched, p)
	}
	return matched
}

// Categories returns the sorted set of categories present in products.
func Categories(products []Product) []string {
	seen := make(map[string]struct{})
	var categories []string
	for _, p := range products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		categories = append(categories, p.Category)
	}
	sort.Strings(categories)
	return categories
}
