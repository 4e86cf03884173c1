package filter

import (
	"cmp"
	"slices"
	"strings"

	"github.com/agentstation/carmap/pkg/vehicles"
)

// Favorites answers favorites membership for the favorites-only filter.
type Favorites interface {
	Contains(id vehicles.ID) bool
}

// Apply filters records by c and orders the survivors by c.Sort.
// Predicates run in a fixed order: text, make, type, year, price, favorites.
// A nil favs with FavoritesOnly set matches nothing.
func Apply(records []vehicles.Vehicle, c Criteria, favs Favorites) []vehicles.Vehicle {
	query := strings.ToLower(strings.TrimSpace(c.Query))

	results := make([]vehicles.Vehicle, 0, len(records))
	for _, v := range records {
		if c.matches(v, query, favs) {
			results = append(results, v)
		}
	}

	sortResults(results, ParseSortMode(string(c.Sort)))
	return results
}

func (c Criteria) matches(v vehicles.Vehicle, query string, favs Favorites) bool {
	return matchesQuery(v, query) &&
		c.matchesCategory(v) &&
		c.matchesRanges(v) &&
		c.matchesFavorites(v, favs)
}

// matchesQuery expects query already trimmed and lowercased.
func matchesQuery(v vehicles.Vehicle, query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(v.SearchText(), query)
}

func (c Criteria) matchesCategory(v vehicles.Vehicle) bool {
	if c.Make != "" && v.Make != c.Make {
		return false
	}
	if c.Type != "" && v.Type != c.Type {
		return false
	}
	return true
}

func (c Criteria) matchesRanges(v vehicles.Vehicle) bool {
	year := float64(v.Year)
	return c.YearMin.atLeast(year) && c.YearMax.atMost(year) &&
		c.PriceMin.atLeast(v.Price) && c.PriceMax.atMost(v.Price)
}

func (c Criteria) matchesFavorites(v vehicles.Vehicle, favs Favorites) bool {
	if !c.FavoritesOnly {
		return true
	}
	return favs != nil && favs.Contains(v.ID)
}

// sortResults orders results in place. Ties keep catalog order.
func sortResults(results []vehicles.Vehicle, mode SortMode) {
	var compare func(a, b vehicles.Vehicle) int
	switch mode {
	case SortPriceAsc:
		compare = func(a, b vehicles.Vehicle) int { return cmp.Compare(a.Price, b.Price) }
	case SortPriceDesc:
		compare = func(a, b vehicles.Vehicle) int { return cmp.Compare(b.Price, a.Price) }
	case SortYearDesc:
		compare = func(a, b vehicles.Vehicle) int { return cmp.Compare(b.Year, a.Year) }
	case SortMileageAsc:
		compare = func(a, b vehicles.Vehicle) int { return cmp.Compare(a.Mileage, b.Mileage) }
	default:
		return
	}
	slices.SortStableFunc(results, compare)
}
