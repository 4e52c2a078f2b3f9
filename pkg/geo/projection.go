package geo

import "math"

const earthRadiusMeters = 6_371_000.0

// degToMeters converts degree-scaled equirectangular distances to meters.
const degToMeters = math.Pi / 180 * earthRadiusMeters

// Projection maps lat/lon onto the integer plane in whole meters, using an
// equirectangular projection centred on an origin. Accurate enough for the
// extent of a single trail network; not a geodesic.
type Projection struct {
	OriginLat float64
	OriginLon float64
	cosLat    float64
}

// NewProjection creates a projection whose (0, 0) is at the given origin.
func NewProjection(originLat, originLon float64) Projection {
	return Projection{
		OriginLat: originLat,
		OriginLon: originLon,
		cosLat:    math.Cos(originLat * math.Pi / 180),
	}
}

// Project converts a lat/lon pair to a coordinate, rounding to the meter.
func (p Projection) Project(lat, lon float64) Coord {
	x := (lon - p.OriginLon) * p.cosLat * degToMeters
	y := (lat - p.OriginLat) * degToMeters
	return Coord{X: int(math.Round(x)), Y: int(math.Round(y))}
}

// Unproject is the inverse of Project, up to rounding.
func (p Projection) Unproject(c Coord) (lat, lon float64) {
	lat = p.OriginLat + float64(c.Y)/degToMeters
	if p.cosLat == 0 {
		return lat, p.OriginLon
	}
	lon = p.OriginLon + float64(c.X)/degToMeters/p.cosLat
	return lat, lon
}
