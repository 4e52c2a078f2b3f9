// Package place holds the registry of named points of interest.
package place

import (
	"cmp"
	"maps"
	"slices"

	"trailmap/pkg/geo"
)

// ID identifies a place. IDs are supplied by the caller.
type ID int64

// NoPlace is returned when a place lookup finds nothing.
const NoPlace ID = -1

// NoName is returned when a name lookup finds nothing.
const NoName = "!!NO_NAME!!"

// Place is a named point of interest.
type Place struct {
	ID    ID
	Name  string
	Type  Type
	Coord geo.Coord
}

// Registry owns the place records. It is not safe for concurrent use.
type Registry struct {
	places  map[ID]*Place
	version uint64
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{places: make(map[ID]*Place)}
}

// Count returns the number of places.
func (r *Registry) Count() int { return len(r.places) }

// Version increases on every successful mutation.
func (r *Registry) Version() uint64 { return r.version }

// Clear removes every place.
func (r *Registry) Clear() {
	clear(r.places)
	r.version++
}

// Add inserts a place. Returns false, leaving the registry untouched, if the
// id is already taken.
func (r *Registry) Add(id ID, name string, typ Type, c geo.Coord) bool {
	if _, ok := r.places[id]; ok {
		return false
	}
	r.places[id] = &Place{ID: id, Name: name, Type: typ, Coord: c}
	r.version++
	return true
}

// Rename changes a place's name.
func (r *Registry) Rename(id ID, name string) bool {
	p, ok := r.places[id]
	if !ok {
		return false
	}
	p.Name = name
	r.version++
	return true
}

// Move changes a place's coordinate.
func (r *Registry) Move(id ID, c geo.Coord) bool {
	p, ok := r.places[id]
	if !ok {
		return false
	}
	p.Coord = c
	r.version++
	return true
}

// Remove deletes a place.
func (r *Registry) Remove(id ID) bool {
	if _, ok := r.places[id]; !ok {
		return false
	}
	delete(r.places, id)
	r.version++
	return true
}

// NameType returns the name and type of a place, or (NoName, NoType).
func (r *Registry) NameType(id ID) (string, Type) {
	p, ok := r.places[id]
	if !ok {
		return NoName, NoType
	}
	return p.Name, p.Type
}

// Coord returns the coordinate of a place, or geo.NoCoord.
func (r *Registry) Coord(id ID) geo.Coord {
	p, ok := r.places[id]
	if !ok {
		return geo.NoCoord
	}
	return p.Coord
}

// Get returns a copy of the place record.
func (r *Registry) Get(id ID) (Place, bool) {
	p, ok := r.places[id]
	if !ok {
		return Place{ID: NoPlace, Name: NoName, Type: NoType, Coord: geo.NoCoord}, false
	}
	return *p, true
}

// Each calls fn for every place in ascending id order until fn returns false.
func (r *Registry) Each(fn func(Place) bool) {
	for _, id := range r.All() {
		if !fn(*r.places[id]) {
			return
		}
	}
}

// All returns every place id in ascending order.
func (r *Registry) All() []ID {
	return slices.Sorted(maps.Keys(r.places))
}

// SortedByName returns all ids ordered by name, ties broken by id.
func (r *Registry) SortedByName() []ID {
	return r.sorted(func(a, b *Place) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
	})
}

// SortedByCoord returns all ids ordered by squared distance from the origin,
// ties broken by ascending y and then by id.
func (r *Registry) SortedByCoord() []ID {
	var origin geo.Coord
	return r.sorted(func(a, b *Place) int {
		return cmp.Or(
			geo.SquaredDist(a.Coord, origin).Compare(geo.SquaredDist(b.Coord, origin)),
			cmp.Compare(a.Coord.Y, b.Coord.Y),
			cmp.Compare(a.ID, b.ID),
		)
	})
}

// FindByName returns the ids of places with exactly the given name.
func (r *Registry) FindByName(name string) []ID {
	return r.filter(func(p *Place) bool { return p.Name == name })
}

// FindByType returns the ids of places of the given type; NoType matches all.
func (r *Registry) FindByType(typ Type) []ID {
	return r.filter(func(p *Place) bool { return p.Type.Matches(typ) })
}

func (r *Registry) sorted(compare func(a, b *Place) int) []ID {
	ps := slices.Collect(maps.Values(r.places))
	slices.SortFunc(ps, compare)
	ids := make([]ID, len(ps))
	for i, p := range ps {
		ids[i] = p.ID
	}
	return ids
}

func (r *Registry) filter(keep func(*Place) bool) []ID {
	var ids []ID
	for id, p := range r.places {
		if keep(p) {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}
