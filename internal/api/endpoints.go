package api

import "github.com/red-movilidad/red-cli/internal/models"

const (
	// RoutesBaseURL is the transit-routes cloud function
	RoutesBaseURL = "https://us-central1-transportes-red.cloudfunctions.net/app"

	// ArrivalsBaseURL is the real-time bus-arrival API
	ArrivalsBaseURL = "https://api.xor.cl/red"

	// ChargePointsBaseURL is the point-of-sale locator
	ChargePointsBaseURL = "https://www.red.cl/restservice/rest"

	// GeocodeBaseURL is the geocoding provider
	GeocodeBaseURL = "https://maps.googleapis.com/maps/api"

	// EndpointRoutes returns every route identifier
	EndpointRoutes = "/get-recorridos/all"

	// EndpointRoutePath returns the ordered polyline of a route
	// Path param: route id
	EndpointRoutePath = "/recorridos/"

	// EndpointRouteStops returns the stops of a route
	// Path param: route id
	EndpointRouteStops = "/get-stops/"

	// EndpointBusStop returns real-time arrivals at a stop
	// Path param: stop code
	EndpointBusStop = "/bus-stop/"

	// EndpointChargePoints returns top-up points near a coordinate
	// Required params: lat, lon, bip
	EndpointChargePoints = "/getpuntoparada/"

	// EndpointGeocode resolves an address to coordinates
	// Required params: address, key
	EndpointGeocode = "/geocode/json"

	// GeocodeCountry restricts geocoding results
	GeocodeCountry = "CL"
)

// Endpoints holds the base URL of every external service
type Endpoints struct {
	Routes       string
	Arrivals     string
	ChargePoints string
	Geocode      string
}

// DefaultEndpoints points at the public production services
var DefaultEndpoints = Endpoints{
	Routes:       RoutesBaseURL,
	Arrivals:     ArrivalsBaseURL,
	ChargePoints: ChargePointsBaseURL,
	Geocode:      GeocodeBaseURL,
}

// SantiagoBounds is the area geocoding results are restricted to
var SantiagoBounds = models.Bounds{
	South: -33.702,
	West:  -70.692,
	North: -33.357,
	East:  -70.510,
}
