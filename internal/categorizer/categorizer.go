// Package categorizer assigns categories to transactions by matching them
// against the shop registry. The two statement formats deliberately match
// differently: Iberia merchant columns are clean enough for exact matching,
// ING descriptions are noisy and need substring matching.
package categorizer

import (
	"strings"

	"github.com/Drichbam/iberiacards-extractprocessor-sub000/internal/registry"
)

// DefaultCategory is the fixed uncategorized bucket.
const DefaultCategory = "Otros gastos (otros)"

// Exact matches the merchant against shop names with an exact,
// case-sensitive comparison. Unmatched merchants land in DefaultCategory.
func Exact(merchant string, shops []registry.Entry) string {
	for _, e := range shops {
		if e.Shop == merchant {
			return e.Category
		}
	}
	return DefaultCategory
}

// Fuzzy tries each non-empty candidate in order against the registry with a
// case-insensitive containment test in either direction, stopping at the
// first hit. Registry order is significant: the first matching entry wins.
// With no match at all, category and subcategory both default to
// DefaultCategory.
func Fuzzy(candidates []string, shops []registry.Entry) (category, subcategory string) {
	for _, cand := range candidates {
		cand = strings.TrimSpace(cand)
		if cand == "" {
			continue
		}
		lowCand := strings.ToLower(cand)
		for _, e := range shops {
			shop := strings.ToLower(strings.TrimSpace(e.Shop))
			if shop == "" {
				continue
			}
			if strings.Contains(lowCand, shop) || strings.Contains(shop, lowCand) {
				return e.Category, e.Subcategory
			}
		}
	}
	return DefaultCategory, DefaultCategory
}
