package api

// CoordJSON is a projected coordinate in meters.
type CoordJSON struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// RouteRequest is the JSON body for POST /api/v1/route. To is ignored in
// cycle mode.
type RouteRequest struct {
	Mode string    `json:"mode"`
	From CoordJSON `json:"from"`
	To   CoordJSON `json:"to"`
}

// RouteResponse is the JSON response for a successful route query.
type RouteResponse struct {
	Mode          string     `json:"mode"`
	TotalDistance int        `json:"total_distance"`
	Steps         []StepJSON `json:"steps"`
}

// StepJSON is one crossroad on a route. Way is empty on the first step.
type StepJSON struct {
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Way      string `json:"way,omitempty"`
	Distance int    `json:"distance"`
}

// PlaceJSON represents a place in responses.
type PlaceJSON struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

// NearestResponse is the JSON response for GET /api/v1/places/nearest.
type NearestResponse struct {
	Places []PlaceJSON `json:"places"`
}

// AreaJSON names an area.
type AreaJSON struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// AncestorsResponse is the JSON response for GET /api/v1/areas/{id}/ancestors.
type AncestorsResponse struct {
	Area      AreaJSON   `json:"area"`
	Ancestors []AreaJSON `json:"ancestors"`
}

// ErrorResponse is the JSON response for errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// HealthResponse is the JSON response for GET /api/v1/health.
type HealthResponse struct {
	Status string `json:"status"`
}
