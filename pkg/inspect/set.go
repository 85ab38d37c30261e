package inspect

import (
	"encoding/json"
	"sort"
)

// StringSet is an unordered collection of unique strings. It marshals to
// JSON as a sorted array so serialized records are deterministic.
type StringSet map[string]struct{}

// NewStringSet builds a set from the given values, collapsing duplicates.
func NewStringSet(values ...string) StringSet {
	set := make(StringSet, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// Add inserts a value into the set.
func (s StringSet) Add(value string) { s[value] = struct{}{} }

// Has reports whether value is in the set.
func (s StringSet) Has(value string) bool {
	_, ok := s[value]
	return ok
}

// Len returns the number of values in the set.
func (s StringSet) Len() int { return len(s) }

// Sorted returns the set's values in lexical order.
func (s StringSet) Sorted() []string {
	values := make([]string, 0, len(s))
	for v := range s {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

// MarshalJSON encodes the set as a sorted JSON array.
func (s StringSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

// UnmarshalJSON decodes a JSON array into the set.
func (s *StringSet) UnmarshalJSON(data []byte) error {
	var values []string
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	*s = NewStringSet(values...)
	return nil
}
