// Package vehicles defines the vehicle record held by the catalog and the
// read-only helpers built on a record list.
package vehicles

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

// ID is the canonical string form of a vehicle identifier.
// Sources may encode identifiers as JSON strings or numbers; both decode to ID.
type ID string

// String returns the identifier as a string.
func (id ID) String() string {
	return string(id)
}

// UnmarshalJSON accepts a JSON string or number.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(strings.TrimSpace(s))
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("vehicle id must be a string or number: %w", err)
	}
	canonical, err := canonicalNumber(n)
	if err != nil {
		return err
	}
	*id = ID(canonical)
	return nil
}

// UnmarshalYAML accepts a YAML scalar string or number.
func (id *ID) UnmarshalYAML(data []byte) error {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return err
	}
	switch n := v.(type) {
	case nil:
		*id = ""
	case string:
		*id = ID(strings.TrimSpace(n))
	case int:
		*id = ID(strconv.Itoa(n))
	case int64:
		*id = ID(strconv.FormatInt(n, 10))
	case uint64:
		*id = ID(strconv.FormatUint(n, 10))
	case float64:
		canonical, err := canonicalNumber(json.Number(strconv.FormatFloat(n, 'f', -1, 64)))
		if err != nil {
			return err
		}
		*id = ID(canonical)
	default:
		return fmt.Errorf("vehicle id must be a string or number, got %T", v)
	}
	return nil
}

// canonicalNumber renders integral numbers without a fraction so that
// 7 and 7.0 name the same vehicle.
func canonicalNumber(n json.Number) (string, error) {
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10), nil
	}
	f, err := n.Float64()
	if err != nil {
		return "", fmt.Errorf("vehicle id %q: %w", n.String(), err)
	}
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return strconv.FormatInt(int64(f), 10), nil
	}
	return strconv.FormatFloat(f, 'f', -1, 64), nil
}

// Vehicle is one immutable catalog record.
type Vehicle struct {
	ID           ID      `json:"id" yaml:"id"`                                 // Unique, stable identifier
	Make         string  `json:"make" yaml:"make"`                             // Manufacturer, e.g. Honda
	Model        string  `json:"model" yaml:"model"`                           // Model name, e.g. Civic
	Year         int     `json:"year" yaml:"year"`                             // Model year
	Price        float64 `json:"price" yaml:"price"`                           // Asking price in USD
	Mileage      float64 `json:"mileage" yaml:"mileage"`                       // Odometer reading in miles
	Type         string  `json:"type" yaml:"type"`                             // Body type / category, e.g. SUV
	Fuel         string  `json:"fuel" yaml:"fuel"`                             // Fuel kind
	Transmission string  `json:"transmission" yaml:"transmission"`             // Transmission kind
	Drivetrain   string  `json:"drivetrain" yaml:"drivetrain"`                 // FWD, RWD, AWD, 4WD
	Color        string  `json:"color" yaml:"color"`                           // Exterior color
	Image        string  `json:"image,omitempty" yaml:"image,omitempty"`       // Optional image reference
	Location     string  `json:"location,omitempty" yaml:"location,omitempty"` // Optional location
}

// Title returns "<year> <make> <model>".
func (v Vehicle) Title() string {
	return fmt.Sprintf("%d %s %s", v.Year, v.Make, v.Model)
}

// SearchText returns the lowercased text the free-text query matches against.
func (v Vehicle) SearchText() string {
	return strings.ToLower(strings.Join([]string{
		v.Make, v.Model, v.Type, v.Fuel, v.Transmission, v.Drivetrain,
	}, " "))
}
