package display

import "github.com/red-movilidad/red-cli/internal/models"

// DefaultCenter is where the map starts before any route is loaded
var DefaultCenter = models.LatLng{Lat: -33.4567, Lng: -70.6789}

// DefaultZoom is the initial tile zoom level
const DefaultZoom = 13

// FitBounds returns the bounding box of a polyline.
// ok is false for an empty path.
func FitBounds(path []models.LatLng) (b models.Bounds, ok bool) {
	if len(path) == 0 {
		return models.Bounds{}, false
	}

	b = models.Bounds{
		South: path[0].Lat,
		North: path[0].Lat,
		West:  path[0].Lng,
		East:  path[0].Lng,
	}
	for _, p := range path[1:] {
		if p.Lat < b.South {
			b.South = p.Lat
		}
		if p.Lat > b.North {
			b.North = p.Lat
		}
		if p.Lng < b.West {
			b.West = p.Lng
		}
		if p.Lng > b.East {
			b.East = p.Lng
		}
	}
	return b, true
}
