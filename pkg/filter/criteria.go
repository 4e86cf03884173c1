// Package filter implements the vehicle filter and sort engine.
//
// Apply is a pure function of a record list, a Criteria and a favorites
// membership test. It never mutates its input and always returns a fresh slice.
package filter

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

// Bound is an optional numeric bound. The zero value is absent, which means
// -Inf for a minimum and +Inf for a maximum.
type Bound struct {
	Value float64
	Set   bool
}

// Unbounded returns an absent bound.
func Unbounded() Bound { return Bound{} }

// At returns a bound at v.
func At(v float64) Bound { return Bound{Value: v, Set: true} }

// String returns the bound as it would be typed into an input, or "" if absent.
func (b Bound) String() string {
	if !b.Set {
		return ""
	}
	return strconv.FormatFloat(b.Value, 'f', -1, 64)
}

// atLeast reports whether x satisfies b as a minimum.
func (b Bound) atLeast(x float64) bool {
	return !b.Set || x >= b.Value
}

// atMost reports whether x satisfies b as a maximum.
func (b Bound) atMost(x float64) bool {
	return !b.Set || x <= b.Value
}

// ParseBound converts raw input text to a Bound. The input is trimmed;
// empty, non-numeric, NaN and infinite input is unbounded. "0" is a real bound.
func ParseBound(raw string) Bound {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Unbounded()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return Unbounded()
	}
	return At(v)
}

// SortMode selects the result ordering.
type SortMode string

// Sort modes.
const (
	SortRelevance  SortMode = "relevance"   // source order
	SortPriceAsc   SortMode = "price-asc"   // cheapest first
	SortPriceDesc  SortMode = "price-desc"  // most expensive first
	SortYearDesc   SortMode = "year-desc"   // newest first
	SortMileageAsc SortMode = "mileage-asc" // lowest mileage first
)

// SortModes lists every sort mode in display order.
func SortModes() []SortMode {
	return []SortMode{SortRelevance, SortPriceAsc, SortPriceDesc, SortYearDesc, SortMileageAsc}
}

// ParseSortMode converts s to a SortMode. Unknown values are relevance.
func ParseSortMode(s string) SortMode {
	switch m := SortMode(strings.ToLower(strings.TrimSpace(s))); m {
	case SortPriceAsc, SortPriceDesc, SortYearDesc, SortMileageAsc:
		return m
	default:
		return SortRelevance
	}
}

// Criteria is the complete filter and sort state for one render.
type Criteria struct {
	Query         string   // free text, trimmed before matching
	Make          string   // exact make, "" for any
	Type          string   // exact type, "" for any
	YearMin       Bound    // inclusive
	YearMax       Bound    // inclusive
	PriceMin      Bound    // inclusive
	PriceMax      Bound    // inclusive
	Sort          SortMode // "" behaves as relevance
	FavoritesOnly bool     // keep only favorited records
}

// Default returns the reset state: no filters and relevance order.
func Default() Criteria {
	return Criteria{Sort: SortRelevance}
}

// IsZero reports whether c filters nothing and keeps source order.
func (c Criteria) IsZero() bool {
	return strings.TrimSpace(c.Query) == "" &&
		c.Make == "" && c.Type == "" &&
		!c.YearMin.Set && !c.YearMax.Set &&
		!c.PriceMin.Set && !c.PriceMax.Set &&
		ParseSortMode(string(c.Sort)) == SortRelevance &&
		!c.FavoritesOnly
}

// Query parameter names understood by FromValues.
const (
	ParamQuery     = "q"
	ParamMake      = "make"
	ParamType      = "type"
	ParamYearMin   = "year_min"
	ParamYearMax   = "year_max"
	ParamPriceMin  = "price_min"
	ParamPriceMax  = "price_max"
	ParamSort      = "sort"
	ParamFavorites = "favorites"
)

// FromValues builds Criteria from URL query parameters.
func FromValues(q url.Values) Criteria {
	c := Criteria{
		Query:    q.Get(ParamQuery),
		Make:     q.Get(ParamMake),
		Type:     q.Get(ParamType),
		YearMin:  ParseBound(q.Get(ParamYearMin)),
		YearMax:  ParseBound(q.Get(ParamYearMax)),
		PriceMin: ParseBound(q.Get(ParamPriceMin)),
		PriceMax: ParseBound(q.Get(ParamPriceMax)),
		Sort:     ParseSortMode(q.Get(ParamSort)),
	}
	if fav := q.Get(ParamFavorites); fav != "" {
		if b, err := strconv.ParseBool(fav); err == nil {
			c.FavoritesOnly = b
		}
	}
	return c
}

// Values encodes c as URL query parameters, omitting inactive filters.
func (c Criteria) Values() url.Values {
	q := url.Values{}
	set := func(k, v string) {
		if v != "" {
			q.Set(k, v)
		}
	}
	set(ParamQuery, strings.TrimSpace(c.Query))
	set(ParamMake, c.Make)
	set(ParamType, c.Type)
	set(ParamYearMin, c.YearMin.String())
	set(ParamYearMax, c.YearMax.String())
	set(ParamPriceMin, c.PriceMin.String())
	set(ParamPriceMax, c.PriceMax.String())
	if m := ParseSortMode(string(c.Sort)); m != SortRelevance {
		q.Set(ParamSort, string(m))
	}
	if c.FavoritesOnly {
		q.Set(ParamFavorites, "true")
	}
	return q
}
