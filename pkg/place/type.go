package place

import "strings"

// Type categorises a place.
type Type int

// Place categories. NoType doubles as the "any type" wildcard in queries.
const (
	Other Type = iota
	Firepit
	Shelter
	Parking
	Peak
	Bay
	Area
	NoType
)

var typeNames = [...]string{
	Other:   "other",
	Firepit: "firepit",
	Shelter: "shelter",
	Parking: "parking",
	Peak:    "peak",
	Bay:     "bay",
	Area:    "area",
	NoType:  "any",
}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return "unknown"
	}
	return typeNames[t]
}

// Matches reports whether a place of type t satisfies a query for q.
func (t Type) Matches(q Type) bool {
	return q == NoType || t == q
}

// ParseType maps a category name to a Type. Unknown names yield NoType.
func ParseType(s string) Type {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range typeNames {
		if name == s {
			return Type(i)
		}
	}
	return NoType
}
