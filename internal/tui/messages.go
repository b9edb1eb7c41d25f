package tui

import (
	"time"

	"github.com/red-movilidad/red-cli/internal/models"
)

// autoRefreshTickMsg is sent every 30 seconds when auto-refresh is enabled.
type autoRefreshTickMsg time.Time

// countdownTickMsg is sent every second when auto-refresh is enabled to update countdown display.
type countdownTickMsg time.Time

// routesResultMsg carries the route catalogue.
// seq is used for stale-result detection.
type routesResultMsg struct {
	seq    int
	routes []string
	err    error
}

// routePathMsg carries the polyline of one route selection.
type routePathMsg struct {
	seq     int
	routeID string
	path    []models.LatLng
	err     error
}

// routeStopsMsg carries the stop layer of one route selection.
type routeStopsMsg struct {
	seq     int
	routeID string
	stops   []models.RouteStop
	err     error
}

// arrivalsResultMsg carries the live board of a stop.
type arrivalsResultMsg struct {
	seq      int
	stopCode string
	stop     *models.StopArrivals
	err      error
}

// geocodeResultMsg carries the candidate locations for an address.
type geocodeResultMsg struct {
	seq       int
	address   string
	locations []models.GeoLocation
	err       error
}

// chargePointsResultMsg carries the charge points near a location.
type chargePointsResultMsg struct {
	seq    int
	points []models.ChargePoint
	err    error
}
