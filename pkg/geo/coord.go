package geo

import (
	"cmp"
	"math"
	"math/bits"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// NoValue marks an integer field that has no meaningful value.
const NoValue = math.MinInt32

// Coord is an integer (x, y) position. Coordinates compare by exact value.
type Coord struct {
	X int
	Y int
}

// NoCoord is returned when a coordinate lookup finds nothing.
var NoCoord = Coord{X: NoValue, Y: NoValue}

// Distance is a whole-unit length along the plane.
type Distance int

// NoDistance is returned when a distance cannot be determined.
const NoDistance Distance = NoValue

// Less orders coordinates by Y, then X.
func (c Coord) Less(o Coord) bool {
	if c.Y != o.Y {
		return c.Y < o.Y
	}
	return c.X < o.X
}

// Compare returns -1, 0 or +1 following the Less ordering.
func (c Coord) Compare(o Coord) int {
	switch {
	case c == o:
		return 0
	case c.Less(o):
		return -1
	default:
		return 1
	}
}

// Point converts the coordinate to an orb point.
func (c Coord) Point() orb.Point {
	return orb.Point{float64(c.X), float64(c.Y)}
}

// SquaredDistance is a squared Euclidean distance held as a 128-bit
// unsigned value, so that any two coordinates compare exactly.
type SquaredDistance struct {
	Hi, Lo uint64
}

// Compare returns -1, 0 or +1.
func (d SquaredDistance) Compare(o SquaredDistance) int {
	if c := cmp.Compare(d.Hi, o.Hi); c != 0 {
		return c
	}
	return cmp.Compare(d.Lo, o.Lo)
}

// Float64 approximates the value as a float64.
func (d SquaredDistance) Float64() float64 {
	return float64(d.Hi)*0x1p64 + float64(d.Lo)
}

// SquaredDist returns the squared Euclidean distance between two coordinates.
// The sum saturates at 2^128-1, which only the far corners of the int64
// plane reach; order is preserved up to that point.
func SquaredDist(a, b Coord) SquaredDistance {
	xh, xl := bits.Mul64(absDiff(a.X, b.X), absDiff(a.X, b.X))
	yh, yl := bits.Mul64(absDiff(a.Y, b.Y), absDiff(a.Y, b.Y))
	lo, carry := bits.Add64(xl, yl, 0)
	hi, overflow := bits.Add64(xh, yh, carry)
	if overflow != 0 {
		return SquaredDistance{Hi: math.MaxUint64, Lo: math.MaxUint64}
	}
	return SquaredDistance{Hi: hi, Lo: lo}
}

// absDiff returns |a-b|, which always fits in a uint64.
func absDiff(a, b int) uint64 {
	if a >= b {
		return uint64(a) - uint64(b)
	}
	return uint64(b) - uint64(a)
}

// SegmentLength returns the Euclidean distance between a and b, truncated.
func SegmentLength(a, b Coord) Distance {
	return Distance(planar.Distance(a.Point(), b.Point()))
}

// PolylineLength sums the truncated segment lengths of consecutive points.
func PolylineLength(coords []Coord) Distance {
	var total Distance
	for i := 1; i < len(coords); i++ {
		total += SegmentLength(coords[i-1], coords[i])
	}
	return total
}

// LineString converts a polyline to an orb line string.
func LineString(coords []Coord) orb.LineString {
	ls := make(orb.LineString, len(coords))
	for i, c := range coords {
		ls[i] = c.Point()
	}
	return ls
}

// Bound returns the bounding box of the given coordinates.
// An empty input yields the zero bound.
func Bound(coords []Coord) orb.Bound {
	if len(coords) == 0 {
		return orb.Bound{}
	}
	return LineString(coords).Bound()
}
