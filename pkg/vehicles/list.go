package vehicles

import (
	"fmt"
	"slices"

	"github.com/agentstation/carmap/pkg/errors"
)

// Validate checks that every record has an identifier and that identifiers
// are unique within the list.
func Validate(records []Vehicle) error {
	seen := make(map[ID]int, len(records))
	for i, v := range records {
		if v.ID == "" {
			return errors.NewValidationError("id", i, fmt.Sprintf("record %d has no identifier", i))
		}
		if prev, ok := seen[v.ID]; ok {
			return errors.NewValidationError("id", v.ID,
				fmt.Sprintf("duplicate identifier %q at records %d and %d", v.ID, prev, i))
		}
		seen[v.ID] = i
	}
	return nil
}

// Find returns the record with the given id.
func Find(records []Vehicle, id ID) (Vehicle, bool) {
	for _, v := range records {
		if v.ID == id {
			return v, true
		}
	}
	return Vehicle{}, false
}

// Makes returns the sorted distinct non-empty makes.
func Makes(records []Vehicle) []string {
	return distinct(records, func(v Vehicle) string { return v.Make })
}

// Types returns the sorted distinct non-empty types.
func Types(records []Vehicle) []string {
	return distinct(records, func(v Vehicle) string { return v.Type })
}

func distinct(records []Vehicle, field func(Vehicle) string) []string {
	set := make(map[string]struct{})
	for _, v := range records {
		if s := field(v); s != "" {
			set[s] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	slices.Sort(out)
	return out
}

// Clone returns a copy of records that shares no backing array with it.
func Clone(records []Vehicle) []Vehicle {
	if records == nil {
		return nil
	}
	return slices.Clone(records)
}
