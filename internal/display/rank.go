// Package display shapes API results into ordered, formatted view data.
//
// Nothing here performs I/O. The functions take the view-models produced by
// internal/api and return new slices or Result values ready for a renderer.
package display

import (
	"slices"

	"github.com/red-movilidad/red-cli/internal/models"
)

// RankChargePoints drops points with a negative distance and orders the rest:
// points with a known schedule first, then by ascending distance.
// The sort is stable, so equal keys keep their API order.
func RankChargePoints(points []models.ChargePoint) []models.ChargePoint {
	ranked := make([]models.ChargePoint, 0, len(points))
	for _, p := range points {
		// Negative (and NaN) distance is the API's "unknown" sentinel
		if p.DistanceKm >= 0 {
			ranked = append(ranked, p)
		}
	}

	slices.SortStableFunc(ranked, func(a, b models.ChargePoint) int {
		if a.HasSchedule() != b.HasSchedule() {
			if a.HasSchedule() {
				return -1
			}
			return 1
		}
		switch {
		case a.DistanceKm < b.DistanceKm:
			return -1
		case a.DistanceKm > b.DistanceKm:
			return 1
		}
		return 0
	})

	return ranked
}

// OrderServices returns the services with valid ones first.
// Relative order inside each group is preserved.
func OrderServices(services []models.BusService) []models.BusService {
	ordered := slices.Clone(services)
	slices.SortStableFunc(ordered, func(a, b models.BusService) int {
		switch {
		case a.Valid == b.Valid:
			return 0
		case a.Valid:
			return -1
		}
		return 1
	})
	return ordered
}

// OrderStop returns a copy of the board with its services in display order
func OrderStop(stop *models.StopArrivals) *models.StopArrivals {
	if stop == nil {
		return nil
	}
	ordered := *stop
	ordered.Services = OrderServices(stop.Services)
	return &ordered
}
