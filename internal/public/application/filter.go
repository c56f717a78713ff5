package application

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/sngm3741/coffee-hunter/api/internal/public/domain"
)

// FilterCriteria holds the active list filters. A nil MinimumRating means unset.
type FilterCriteria struct {
	MinimumRating *float64
	VerifiedOnly  bool
	SearchText    string
}

// Derive returns the shops passing every active filter, in catalog order.
// The result is always a fresh, non-nil slice.
func Derive(catalog *Catalog, criteria FilterCriteria) []domain.Shop {
	query := NormalizeQuery(criteria.SearchText)
	fold := cases.Fold()

	result := make([]domain.Shop, 0, catalog.Len())
	for _, shop := range catalog.shops {
		if criteria.MinimumRating != nil && shop.OverallScore < *criteria.MinimumRating {
			continue
		}
		if criteria.VerifiedOnly && !shop.IsVerified() {
			continue
		}
		if query != "" && !matchesQuery(fold, shop, query) {
			continue
		}
		result = append(result, cloneShop(shop))
	}
	return result
}

// NormalizeQuery trims surrounding whitespace and case-folds the search text.
// An empty result means "match everything".
func NormalizeQuery(q string) string {
	trimmed := strings.TrimSpace(q)
	if trimmed == "" {
		return ""
	}
	return cases.Fold().String(trimmed)
}

func matchesQuery(fold cases.Caser, shop domain.Shop, query string) bool {
	for _, field := range []string{shop.Name, shop.Address, shop.Neighborhood} {
		if strings.Contains(fold.String(field), query) {
			return true
		}
	}
	return false
}
