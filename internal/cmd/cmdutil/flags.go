// Package cmdutil provides shared flags for carmap commands.
package cmdutil

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/carmap/pkg/filter"
)

// FilterFlags mirrors the filter query parameters accepted by the HTTP API.
type FilterFlags struct {
	Query     string
	Make      string
	Type      string
	YearMin   string
	YearMax   string
	PriceMin  string
	PriceMax  string
	Sort      string
	Favorites bool
}

// AddFilterFlags adds the filter and sort flags to cmd.
func AddFilterFlags(cmd *cobra.Command) *FilterFlags {
	flags := &FilterFlags{}

	cmd.Flags().StringVarP(&flags.Query, "search", "s", "",
		"Case-insensitive text search over make, model, type and drivetrain")
	cmd.Flags().StringVar(&flags.Make, "make", "",
		"Exact make, e.g. Toyota")
	cmd.Flags().StringVar(&flags.Type, "type", "",
		"Exact body type, e.g. SUV")
	cmd.Flags().StringVar(&flags.YearMin, "year-min", "",
		"Minimum model year (inclusive)")
	cmd.Flags().StringVar(&flags.YearMax, "year-max", "",
		"Maximum model year (inclusive)")
	cmd.Flags().StringVar(&flags.PriceMin, "price-min", "",
		"Minimum price (inclusive)")
	cmd.Flags().StringVar(&flags.PriceMax, "price-max", "",
		"Maximum price (inclusive)")
	cmd.Flags().StringVar(&flags.Sort, "sort", string(filter.SortRelevance),
		"Sort: relevance, price-asc, price-desc, year-desc, mileage-asc")
	cmd.Flags().BoolVarP(&flags.Favorites, "favorites", "f", false,
		"Only show favorited vehicles")

	return flags
}

// Criteria converts the flags with the same rules the HTTP API applies.
func (f *FilterFlags) Criteria() filter.Criteria {
	return filter.Criteria{
		Query:         f.Query,
		Make:          f.Make,
		Type:          f.Type,
		YearMin:       filter.ParseBound(f.YearMin),
		YearMax:       filter.ParseBound(f.YearMax),
		PriceMin:      filter.ParseBound(f.PriceMin),
		PriceMax:      filter.ParseBound(f.PriceMax),
		Sort:          filter.ParseSortMode(f.Sort),
		FavoritesOnly: f.Favorites,
	}
}
