// Package favorites holds the persisted set of favorited vehicle ids.
//
// The set is stored as a JSON array of ids under the key "favorites" in a
// Storage backend. Arrays are written in ascending id order so that the
// same membership always serializes identically.
package favorites

import (
	"encoding/json"
	"slices"

	"github.com/agentstation/carmap/pkg/vehicles"
)

// Set is a set of vehicle ids.
type Set map[vehicles.ID]struct{}

// NewSet returns a set holding ids.
func NewSet(ids ...vehicles.ID) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Contains reports membership. It is safe on a nil Set.
func (s Set) Contains(id vehicles.ID) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of ids.
func (s Set) Len() int {
	return len(s)
}

// IDs returns the ids in ascending order.
func (s Set) IDs() []vehicles.ID {
	out := make([]vehicles.ID, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// Clone returns an independent copy.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

// MarshalJSON encodes the set as a sorted JSON array.
func (s Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.IDs())
}

// UnmarshalJSON decodes a JSON array of string or numeric ids. null is empty.
func (s *Set) UnmarshalJSON(data []byte) error {
	var ids []vehicles.ID
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*s = NewSet(ids...)
	return nil
}
