package api

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"trailmap/pkg/area"
	"trailmap/pkg/atlas"
	"trailmap/pkg/geo"
	"trailmap/pkg/graph"
	"trailmap/pkg/place"
	"trailmap/pkg/routing"
)

// maxNearest caps the k parameter of nearest-place queries.
const maxNearest = 50

var (
	// ErrNoRoute is reported when the endpoints are not connected.
	ErrNoRoute = errors.New("no route found")
	// ErrInvalidMode is reported for an unrecognised route mode.
	ErrInvalidMode = errors.New("invalid route mode")
)

// Store is the read-only view of an atlas the handlers need.
type Store interface {
	Route(mode routing.Mode, from, to geo.Coord) []routing.Step
	RouteWithCycle(from geo.Coord) []routing.CycleStep
	WayLength(id graph.WayID) geo.Distance
	Nearest(c geo.Coord, typ place.Type, k int) []place.Place
	AreaName(id area.ID) string
	Ancestors(id area.ID) []area.ID
	Stats() atlas.Stats
}

// Handlers holds the HTTP handlers and their dependencies.
type Handlers struct {
	store Store
}

// NewHandlers creates handlers reading from store.
func NewHandlers(store Store) *Handlers {
	return &Handlers{store: store}
}

// HandleRoute handles POST /api/v1/route.
func (h *Handlers) HandleRoute(w http.ResponseWriter, r *http.Request) {
	// Enforce Content-Type.
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		writeError(w, http.StatusBadRequest, "invalid_request", "")
		return
	}

	var req RouteRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1024)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "")
		return
	}

	resp, err := h.route(req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidMode):
			writeError(w, http.StatusBadRequest, "invalid_mode", "mode")
		case errors.Is(err, ErrNoRoute):
			writeError(w, http.StatusNotFound, "no_route_found", "")
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", "")
		}
		return
	}

	writeJSON(w, resp)
}

func (h *Handlers) route(req RouteRequest) (*RouteResponse, error) {
	from := geo.Coord{X: req.From.X, Y: req.From.Y}
	to := geo.Coord{X: req.To.X, Y: req.To.Y}

	if strings.EqualFold(req.Mode, "cycle") {
		walk := h.store.RouteWithCycle(from)
		if routing.IsNoCycle(walk) {
			return nil, ErrNoRoute
		}
		resp := &RouteResponse{Mode: "cycle"}
		total := 0
		for _, s := range walk {
			if s.Way != graph.NoWay {
				total += int(h.store.WayLength(s.Way))
			}
			resp.Steps = append(resp.Steps, stepJSON(s.Coord, s.Way, total))
		}
		resp.TotalDistance = total
		return resp, nil
	}

	mode, ok := routing.ParseMode(req.Mode)
	if !ok {
		return nil, ErrInvalidMode
	}
	route := h.store.Route(mode, from, to)
	if routing.IsNoRoute(route) {
		return nil, ErrNoRoute
	}
	resp := &RouteResponse{Mode: mode.String()}
	for _, s := range route {
		resp.Steps = append(resp.Steps, stepJSON(s.Coord, s.Way, int(s.Distance)))
	}
	resp.TotalDistance = int(route[len(route)-1].Distance)
	return resp, nil
}

func stepJSON(c geo.Coord, way graph.WayID, dist int) StepJSON {
	s := StepJSON{X: c.X, Y: c.Y, Distance: dist}
	if way != graph.NoWay {
		s.Way = string(way)
	}
	return s
}

// HandleNearest handles GET /api/v1/places/nearest?x=&y=&type=&k=.
func (h *Handlers) HandleNearest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	x, err := strconv.Atoi(q.Get("x"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_coordinates", "x")
		return
	}
	y, err := strconv.Atoi(q.Get("y"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_coordinates", "y")
		return
	}

	typ := place.NoType
	if s := q.Get("type"); s != "" {
		typ = place.ParseType(s)
		if typ == place.NoType && !strings.EqualFold(s, place.NoType.String()) {
			writeError(w, http.StatusBadRequest, "invalid_type", "type")
			return
		}
	}

	k := 3
	if s := q.Get("k"); s != "" {
		k, err = strconv.Atoi(s)
		if err != nil || k < 1 || k > maxNearest {
			writeError(w, http.StatusBadRequest, "invalid_limit", "k")
			return
		}
	}

	resp := NearestResponse{Places: []PlaceJSON{}}
	for _, p := range h.store.Nearest(geo.Coord{X: x, Y: y}, typ, k) {
		resp.Places = append(resp.Places, PlaceJSON{
			ID:   int64(p.ID),
			Name: p.Name,
			Type: p.Type.String(),
			X:    p.Coord.X,
			Y:    p.Coord.Y,
		})
	}
	writeJSON(w, resp)
}

// HandleAncestors handles GET /api/v1/areas/{id}/ancestors.
func (h *Handlers) HandleAncestors(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "id")
		return
	}
	id := area.ID(n)

	ancestors := h.store.Ancestors(id)
	if len(ancestors) == 1 && ancestors[0] == area.NoArea {
		writeError(w, http.StatusNotFound, "area_not_found", "")
		return
	}

	resp := AncestorsResponse{
		Area:      AreaJSON{ID: n, Name: h.store.AreaName(id)},
		Ancestors: make([]AreaJSON, 0, len(ancestors)),
	}
	for _, a := range ancestors {
		resp.Ancestors = append(resp.Ancestors, AreaJSON{ID: int64(a), Name: h.store.AreaName(a)})
	}
	writeJSON(w, resp)
}

// HandleHealth handles GET /api/v1/health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, HealthResponse{Status: "ok"})
}

// HandleStats handles GET /api/v1/stats.
func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.store.Stats())
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, field string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: code, Field: field})
}
