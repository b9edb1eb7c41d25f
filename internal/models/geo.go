package models

// GeoLocation is a geocoded address candidate
type GeoLocation struct {
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

// GeocodeResponse represents the raw geocoding API response
type GeocodeResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// ToGeoLocations converts the raw response to address candidates
func (r *GeocodeResponse) ToGeoLocations() []GeoLocation {
	locations := make([]GeoLocation, 0, len(r.Results))
	for _, res := range r.Results {
		locations = append(locations, GeoLocation{
			Address: res.FormattedAddress,
			Lat:     res.Geometry.Location.Lat,
			Lng:     res.Geometry.Location.Lng,
		})
	}
	return locations
}

// Bounds is a lat/lng bounding box
type Bounds struct {
	South float64 `json:"south" yaml:"south"`
	West  float64 `json:"west" yaml:"west"`
	North float64 `json:"north" yaml:"north"`
	East  float64 `json:"east" yaml:"east"`
}

// IsZero reports whether the box is unset
func (b Bounds) IsZero() bool {
	return b == Bounds{}
}

// Contains reports whether the point lies inside the box, edges included
func (b Bounds) Contains(lat, lng float64) bool {
	return lat >= b.South && lat <= b.North && lng >= b.West && lng <= b.East
}

// Center returns the midpoint of the box
func (b Bounds) Center() LatLng {
	return LatLng{Lat: (b.South + b.North) / 2, Lng: (b.West + b.East) / 2}
}
