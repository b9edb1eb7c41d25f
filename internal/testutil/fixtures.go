package testutil

// Sample JSON responses for API testing

// SampleRoutesResponse is a minimal route list
const SampleRoutesResponse = `["101", "102", "D18", "I09"]`

// SampleRoutePathResponse is a three-point route polyline
const SampleRoutePathResponse = `[
	{"latitud": -33.45, "longitud": -70.66},
	{"latitud": -33.46, "longitud": -70.65},
	{"latitud": -33.47, "longitud": -70.64}
]`

// SampleRouteStopsResponse lists two stops of a route
const SampleRouteStopsResponse = `[
	{"stop_code": "PA433", "stop_name": "Parada 1 / Alameda", "stop_lat": -33.45, "stop_lon": -70.66},
	{"stop_code": "PA434", "stop_name": "Parada 2 / Matucana", "stop_lat": -33.47, "stop_lon": -70.64}
]`

// SampleStopArrivalsResponse is a stop with one running and one suspended service
const SampleStopArrivalsResponse = `{
	"status_code": 0,
	"status_description": "Paradero con predicciones",
	"id": "PA433",
	"name": "Parada 1 / Alameda",
	"services": [
		{
			"id": "506",
			"valid": true,
			"status_description": "",
			"buses": [
				{"id": "FLXP-45", "min_arrival_time": 3, "max_arrival_time": 7, "meters_distance": 1200},
				{"id": "BJFH-21", "min_arrival_time": 0, "max_arrival_time": 2, "meters_distance": 300}
			]
		},
		{
			"id": "D18",
			"valid": false,
			"status_description": "Fuera de horario de operacion para ese paradero",
			"buses": []
		}
	]
}`

// SampleStopArrivalsErrorResponse is an application-level arrivals failure
const SampleStopArrivalsErrorResponse = `{
	"status_code": 1,
	"status_description": "Paradero invalido.",
	"id": "XX999",
	"services": []
}`

// SampleChargePointsResponse mixes numeric and string ids and blank schedules
const SampleChargePointsResponse = `[
	{
		"id": 1201,
		"name": "Centro bip! Los Héroes",
		"direccion": "Alameda 1450",
		"comuna": "Santiago",
		"horarios": [],
		"distancia": 0.15
	},
	{
		"id": "1202",
		"name": "Farmacia Ahumada",
		"direccion": "Huérfanos 1010",
		"comuna": "Santiago",
		"horarios": ["L-V 09:00-20:00", "S 10:00-14:00"],
		"distancia": 0.5
	},
	{
		"id": 1203,
		"name": "Kiosko Moneda",
		"direccion": "Moneda 920",
		"comuna": "Santiago",
		"horarios": ["L-D 08:00-22:00", " "],
		"distancia": 0.32
	}
]`

// SampleGeocodeResponse has one result inside Santiago and one outside
const SampleGeocodeResponse = `{
	"status": "OK",
	"results": [
		{
			"formatted_address": "Alameda 1450, Santiago, Región Metropolitana, Chile",
			"geometry": {"location": {"lat": -33.4446, "lng": -70.6563}}
		},
		{
			"formatted_address": "Alameda 1450, Rancagua, O'Higgins, Chile",
			"geometry": {"location": {"lat": -34.1701, "lng": -70.7444}}
		}
	]
}`

// SampleGeocodeZeroResults is a geocoder answer with no matches
const SampleGeocodeZeroResults = `{"status": "ZERO_RESULTS", "results": []}`

// SampleGeocodeDenied is a geocoder answer for a rejected key
const SampleGeocodeDenied = `{
	"status": "REQUEST_DENIED",
	"error_message": "The provided API key is invalid.",
	"results": []
}`

// SampleEmptyResponse is an empty JSON response
const SampleEmptyResponse = `{}`
