// Package table converts carmap view models to table rows for CLI output.
package table

import (
	"strconv"

	"github.com/agentstation/carmap/pkg/present"
	"github.com/agentstation/carmap/pkg/vehicles"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data is a rendered table.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align
}

// favoriteMark is the single-column favorite indicator.
func favoriteMark(favorite bool) string {
	if favorite {
		return "★"
	}
	return ""
}

// CardsToTableData renders result cards; wide adds location and image.
func CardsToTableData(cards []present.Card, wide bool) Data {
	headers := []string{"", "ID", "Vehicle", "Price", "Mileage", "Details"}
	align := []Align{AlignCenter, AlignRight, AlignLeft, AlignRight, AlignRight, AlignLeft}
	if wide {
		headers = append(headers, "Location", "Image")
		align = append(align, AlignLeft, AlignLeft)
	}

	rows := make([][]string, 0, len(cards))
	for _, c := range cards {
		row := []string{favoriteMark(c.Favorite), c.ID.String(), c.Title, c.Price, c.Mileage, c.Meta}
		if wide {
			row = append(row, dash(c.Location), c.Image)
		}
		rows = append(rows, row)
	}
	return Data{Headers: headers, Rows: rows, ColumnAlignment: align}
}

// DetailToTableData renders one detail view as property/value rows.
func DetailToTableData(d present.Detail) Data {
	rows := [][]string{
		{"ID", d.ID.String()},
		{"Vehicle", d.Title},
		{"Price", d.Price},
		{"Mileage", d.Mileage},
		{"Year", strconv.Itoa(d.Year)},
		{"Type", d.Type},
		{"Fuel", d.Fuel},
		{"Transmission", d.Transmission},
		{"Drivetrain", d.Drivetrain},
		{"Color", d.Color},
		{"Location", dash(d.Location)},
		{"Image", d.Image},
		{"Specs", d.Specs},
		{"Extra", d.Extra},
		{"Favorite", d.FavoriteLabel},
	}
	return Data{Headers: []string{"Property", "Value"}, Rows: rows}
}

// ListToTableData renders a single-column list under header.
func ListToTableData(header string, items []string) Data {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{item})
	}
	return Data{Headers: []string{header}, Rows: rows}
}

// FavoritesToTableData renders favorite ids with their titles when known.
// titles may be nil.
func FavoritesToTableData(ids []vehicles.ID, titles map[vehicles.ID]string) Data {
	rows := make([][]string, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, []string{id.String(), dash(titles[id])})
	}
	return Data{
		Headers:         []string{"ID", "Vehicle"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignRight, AlignLeft},
	}
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
