package models

// LatLng is a single vertex of a route polyline
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// RouteStop is a bus stop marker along a route
type RouteStop struct {
	StopCode string  `json:"stopCode"`
	StopName string  `json:"stopName"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
}

// RoutePointResponse represents a raw path vertex from the routes service
type RoutePointResponse struct {
	Latitud  float64 `json:"latitud"`
	Longitud float64 `json:"longitud"`
}

// ToLatLng converts the raw response to a LatLng
func (r *RoutePointResponse) ToLatLng() LatLng {
	return LatLng{Lat: r.Latitud, Lng: r.Longitud}
}

// RouteStopResponse represents a raw stop from the routes service
type RouteStopResponse struct {
	StopCode string  `json:"stop_code"`
	StopName string  `json:"stop_name"`
	StopLat  float64 `json:"stop_lat"`
	StopLon  float64 `json:"stop_lon"`
}

// ToRouteStop converts the raw response to a RouteStop
func (r *RouteStopResponse) ToRouteStop() RouteStop {
	return RouteStop{
		StopCode: r.StopCode,
		StopName: r.StopName,
		Lat:      r.StopLat,
		Lon:      r.StopLon,
	}
}

// RouteStatus is the load state of a route view
type RouteStatus int

const (
	// RouteIdle means no route has been selected yet
	RouteIdle RouteStatus = iota
	// RouteLoading means at least one layer is still in flight
	RouteLoading
	// RouteReady means both layers loaded
	RouteReady
	// RoutePartial means one layer loaded and the other failed
	RoutePartial
	// RouteFailed means both layers failed
	RouteFailed
)

func (s RouteStatus) String() string {
	switch s {
	case RouteLoading:
		return "loading"
	case RouteReady:
		return "ready"
	case RoutePartial:
		return "partial"
	case RouteFailed:
		return "failed"
	default:
		return "idle"
	}
}

// RouteLayers holds the two independently fetched layers of a route map
type RouteLayers struct {
	RouteID  string      `json:"routeId"`
	Path     []LatLng    `json:"path"`
	Stops    []RouteStop `json:"stops"`
	PathErr  error       `json:"-"`
	StopsErr error       `json:"-"`

	PathDone  bool `json:"-"`
	StopsDone bool `json:"-"`
}

// Status derives the view state from the two layers
func (l *RouteLayers) Status() RouteStatus {
	switch {
	case l.RouteID == "":
		return RouteIdle
	case !l.PathDone || !l.StopsDone:
		return RouteLoading
	case l.PathErr == nil && l.StopsErr == nil:
		return RouteReady
	case l.PathErr != nil && l.StopsErr != nil:
		return RouteFailed
	default:
		return RoutePartial
	}
}
