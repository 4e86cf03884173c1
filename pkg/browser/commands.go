package browser

import (
	"github.com/agentstation/carmap/pkg/filter"
	"github.com/agentstation/carmap/pkg/vehicles"
)

// Command is one user interaction.
type Command interface {
	apply(s *Session) error
	name() string
}

// SetQuery sets the free-text search.
type SetQuery struct{ Text string }

// SelectMake selects a make. "" means any.
type SelectMake struct{ Make string }

// SelectType selects a type. "" means any.
type SelectType struct{ Type string }

// SetYearMin sets the minimum year from raw input text.
type SetYearMin struct{ Raw string }

// SetYearMax sets the maximum year from raw input text.
type SetYearMax struct{ Raw string }

// SetPriceMin sets the minimum price from raw input text.
type SetPriceMin struct{ Raw string }

// SetPriceMax sets the maximum price from raw input text.
type SetPriceMax struct{ Raw string }

// SetSort selects the sort mode. Unknown modes are relevance.
type SetSort struct{ Mode string }

// Reset restores all criteria and clears favorites-only. Favorites are kept.
type Reset struct{}

// ToggleFavoritesOnly flips the favorites-only filter.
type ToggleFavoritesOnly struct{}

// ToggleFavorite flips favorite membership of ID and persists it.
type ToggleFavorite struct{ ID vehicles.ID }

// OpenDetail opens the detail overlay for ID. Unknown ids are ignored.
type OpenDetail struct{ ID vehicles.ID }

// CloseDetail closes the detail overlay.
type CloseDetail struct{}

// Escape closes the detail overlay, like the escape key.
type Escape struct{}

func (c SetQuery) apply(s *Session) error    { s.criteria.Query = c.Text; return nil }
func (c SelectMake) apply(s *Session) error  { s.criteria.Make = c.Make; return nil }
func (c SelectType) apply(s *Session) error  { s.criteria.Type = c.Type; return nil }
func (c SetYearMin) apply(s *Session) error  { s.criteria.YearMin = filter.ParseBound(c.Raw); return nil }
func (c SetYearMax) apply(s *Session) error  { s.criteria.YearMax = filter.ParseBound(c.Raw); return nil }
func (c SetPriceMin) apply(s *Session) error { s.criteria.PriceMin = filter.ParseBound(c.Raw); return nil }
func (c SetPriceMax) apply(s *Session) error { s.criteria.PriceMax = filter.ParseBound(c.Raw); return nil }
func (c SetSort) apply(s *Session) error     { s.criteria.Sort = filter.ParseSortMode(c.Mode); return nil }

func (Reset) apply(s *Session) error {
	s.criteria = filter.Default()
	return nil
}

func (ToggleFavoritesOnly) apply(s *Session) error {
	s.criteria.FavoritesOnly = !s.criteria.FavoritesOnly
	return nil
}

func (c ToggleFavorite) apply(s *Session) error {
	fav, err := s.store.Toggle(c.ID)
	if err != nil {
		return err
	}
	s.logger.Debug().Str("vehicle_id", c.ID.String()).Bool("favorite", fav).Msg("Favorite toggled")
	return nil
}

func (c OpenDetail) apply(s *Session) error {
	if _, ok := vehicles.Find(s.records, c.ID); ok {
		s.overlay.open(c.ID)
	}
	return nil
}

func (CloseDetail) apply(s *Session) error { s.overlay.close(); return nil }
func (Escape) apply(s *Session) error      { s.overlay.close(); return nil }

func (SetQuery) name() string            { return "set-query" }
func (SelectMake) name() string          { return "select-make" }
func (SelectType) name() string          { return "select-type" }
func (SetYearMin) name() string          { return "set-year-min" }
func (SetYearMax) name() string          { return "set-year-max" }
func (SetPriceMin) name() string         { return "set-price-min" }
func (SetPriceMax) name() string         { return "set-price-max" }
func (SetSort) name() string             { return "set-sort" }
func (Reset) name() string               { return "reset" }
func (ToggleFavoritesOnly) name() string { return "toggle-favorites-only" }
func (ToggleFavorite) name() string      { return "toggle-favorite" }
func (OpenDetail) name() string          { return "open-detail" }
func (CloseDetail) name() string         { return "close-detail" }
func (Escape) name() string              { return "escape" }
