package present

import (
	"strings"

	"github.com/agentstation/carmap/pkg/constants"
	"github.com/agentstation/carmap/pkg/vehicles"
)

// Favorites answers favorites membership.
type Favorites interface {
	Contains(id vehicles.ID) bool
}

// metaSep joins the fragments of a meta line.
const metaSep = " • "

// Card is the summary view of one vehicle.
type Card struct {
	ID            vehicles.ID `json:"id" yaml:"id"`
	Title         string      `json:"title" yaml:"title"`
	Price         string      `json:"price" yaml:"price"`
	PriceValue    float64     `json:"price_value" yaml:"price_value"`
	Mileage       string      `json:"mileage" yaml:"mileage"`
	Meta          string      `json:"meta" yaml:"meta"`
	Image         string      `json:"image" yaml:"image"`
	ImageAlt      string      `json:"image_alt" yaml:"image_alt"`
	Location      string      `json:"location" yaml:"location"`
	Favorite      bool        `json:"favorite" yaml:"favorite"`
	FavoriteLabel string      `json:"favorite_label" yaml:"favorite_label"`
}

// Detail is the full view of one vehicle.
type Detail struct {
	Card `yaml:",inline"`

	Make         string `json:"make" yaml:"make"`
	Model        string `json:"model" yaml:"model"`
	Year         int    `json:"year" yaml:"year"`
	Type         string `json:"type" yaml:"type"`
	Fuel         string `json:"fuel" yaml:"fuel"`
	Transmission string `json:"transmission" yaml:"transmission"`
	Drivetrain   string `json:"drivetrain" yaml:"drivetrain"`
	Color        string `json:"color" yaml:"color"`
	Specs        string `json:"specs" yaml:"specs"` // mileage, type, transmission and fuel
	Extra        string `json:"extra" yaml:"extra"` // color, drivetrain and location
}

// FavoriteLabel returns the toggle label for a favorite state.
func FavoriteLabel(favorite bool) string {
	if favorite {
		return constants.FavoritedLabel
	}
	return constants.FavoriteLabel
}

// ImageFor returns the vehicle's image, or the placeholder.
func ImageFor(v vehicles.Vehicle) string {
	if strings.TrimSpace(v.Image) == "" {
		return constants.PlaceholderImage
	}
	return v.Image
}

// NewCard builds the summary view of v.
func (f *Formatter) NewCard(v vehicles.Vehicle, favorite bool) Card {
	mileage := f.Mileage(v.Mileage)
	title := v.Title()
	return Card{
		ID:            v.ID,
		Title:         title,
		Price:         f.Currency(v.Price),
		PriceValue:    v.Price,
		Mileage:       mileage,
		Meta:          strings.Join([]string{mileage, v.Type, v.Transmission}, metaSep),
		Image:         ImageFor(v),
		ImageAlt:      title,
		Location:      v.Location,
		Favorite:      favorite,
		FavoriteLabel: FavoriteLabel(favorite),
	}
}

// NewDetail builds the detail view of v.
func (f *Formatter) NewDetail(v vehicles.Vehicle, favorite bool) Detail {
	card := f.NewCard(v, favorite)
	return Detail{
		Card:         card,
		Make:         v.Make,
		Model:        v.Model,
		Year:         v.Year,
		Type:         v.Type,
		Fuel:         v.Fuel,
		Transmission: v.Transmission,
		Drivetrain:   v.Drivetrain,
		Color:        v.Color,
		Specs:        strings.Join([]string{card.Mileage, v.Type, v.Transmission, v.Fuel}, metaSep),
		Extra:        strings.Join([]string{"Color: " + v.Color, "Drivetrain: " + v.Drivetrain, v.Location}, metaSep),
	}
}

// Cards builds one card per record, preserving order. favs may be nil.
func (f *Formatter) Cards(records []vehicles.Vehicle, favs Favorites) []Card {
	cards := make([]Card, 0, len(records))
	for _, v := range records {
		cards = append(cards, f.NewCard(v, favs != nil && favs.Contains(v.ID)))
	}
	return cards
}

// NewCard builds a card with the en-US formatter.
func NewCard(v vehicles.Vehicle, favorite bool) Card { return defaultFormatter.NewCard(v, favorite) }

// NewDetail builds a detail view with the en-US formatter.
func NewDetail(v vehicles.Vehicle, favorite bool) Detail {
	return defaultFormatter.NewDetail(v, favorite)
}

// Cards builds cards with the en-US formatter.
func Cards(records []vehicles.Vehicle, favs Favorites) []Card {
	return defaultFormatter.Cards(records, favs)
}
