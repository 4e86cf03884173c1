package browser

import (
	"golang.org/x/text/language"

	"github.com/agentstation/carmap/pkg/constants"
	"github.com/agentstation/carmap/pkg/filter"
	"github.com/agentstation/carmap/pkg/present"
	"github.com/agentstation/carmap/pkg/vehicles"
)

var defaultLanguage = language.AmericanEnglish

// overlay is the detail overlay state machine: closed, or open on one id.
type overlay struct {
	isOpen bool
	id     vehicles.ID
}

func (o *overlay) open(id vehicles.ID) {
	o.isOpen = true
	o.id = id
}

// close is a no-op when already closed.
func (o *overlay) close() {
	*o = overlay{}
}

// View is one rendering of a Session.
type View struct {
	Status         Status            `json:"status"`
	Cards          []present.Card    `json:"cards"`
	ResultsCount   int               `json:"results_count"`
	FavoritesCount int               `json:"favorites_count"`
	Makes          []string          `json:"makes"`
	Types          []string          `json:"types"`
	SortModes      []filter.SortMode `json:"sort_modes"`
	Criteria       filter.Criteria   `json:"-"`
	FavoritesOnly  bool              `json:"favorites_only"`
	Message        string            `json:"message,omitempty"`
	Detail         *present.Detail   `json:"detail,omitempty"`
}

// DetailOpen reports whether the detail overlay is showing.
func (v View) DetailOpen() bool {
	return v.Detail != nil
}

// View renders the current state.
func (s *Session) View() View {
	v := View{
		Status:         s.status,
		FavoritesCount: s.store.Count(),
		Makes:          s.makes,
		Types:          s.types,
		SortModes:      filter.SortModes(),
		Criteria:       s.criteria,
		FavoritesOnly:  s.criteria.FavoritesOnly,
		Cards:          []present.Card{},
	}

	switch s.status {
	case StatusFailed:
		v.Message = constants.LoadFailedMessage
		return v
	case StatusLoading:
		return v
	}

	v.Cards = s.formatter.Cards(s.Results(), s.store)
	v.ResultsCount = len(v.Cards)
	if v.ResultsCount == 0 {
		v.Message = constants.NoResultsMessage
	}

	if s.overlay.isOpen {
		if rec, ok := vehicles.Find(s.records, s.overlay.id); ok {
			d := s.formatter.NewDetail(rec, s.store.Contains(rec.ID))
			v.Detail = &d
		}
	}
	return v
}
