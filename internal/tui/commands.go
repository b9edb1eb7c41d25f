package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/red-movilidad/red-cli/internal/api"
	"github.com/red-movilidad/red-cli/internal/models"
)

const (
	apiTimeout          = 5 * time.Second
	autoRefreshInterval = 30 * time.Second
)

// autoRefreshTick returns a tea.Cmd that sends a tick after the refresh interval.
func autoRefreshTick() tea.Cmd {
	return tea.Tick(autoRefreshInterval, func(t time.Time) tea.Msg {
		return autoRefreshTickMsg(t)
	})
}

// countdownTick returns a tea.Cmd that sends a tick every second for countdown display.
func countdownTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return countdownTickMsg(t)
	})
}

// fetchRoutes returns a tea.Cmd that loads the route catalogue.
func fetchRoutes(client *api.Client, seq int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), apiTimeout)
		defer cancel()

		routes, err := client.GetRoutes(ctx)
		return routesResultMsg{seq: seq, routes: routes, err: err}
	}
}

// fetchRoutePath and fetchRouteStops are issued together by a route
// selection; each reports back independently.
func fetchRoutePath(client *api.Client, routeID string, seq int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), apiTimeout)
		defer cancel()

		path, err := client.GetRoutePath(ctx, routeID)
		return routePathMsg{seq: seq, routeID: routeID, path: path, err: err}
	}
}

func fetchRouteStops(client *api.Client, routeID string, seq int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), apiTimeout)
		defer cancel()

		stops, err := client.GetRouteStops(ctx, routeID)
		return routeStopsMsg{seq: seq, routeID: routeID, stops: stops, err: err}
	}
}

// fetchArrivals returns a tea.Cmd that loads the live board of a stop.
func fetchArrivals(client *api.Client, stopCode string, seq int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), apiTimeout)
		defer cancel()

		stop, err := client.GetStopArrivals(ctx, stopCode)
		return arrivalsResultMsg{seq: seq, stopCode: stopCode, stop: stop, err: err}
	}
}

// geocode returns a tea.Cmd that resolves an address to candidate locations.
func geocode(client *api.Client, address string, seq int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), apiTimeout)
		defer cancel()

		locations, err := client.Geocode(ctx, address)
		return geocodeResultMsg{seq: seq, address: address, locations: locations, err: err}
	}
}

// fetchChargePoints returns a tea.Cmd that loads charge points near loc.
func fetchChargePoints(client *api.Client, loc models.GeoLocation, seq int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), apiTimeout)
		defer cancel()

		points, err := client.GetChargePoints(ctx, loc.Lat, loc.Lng)
		return chargePointsResultMsg{seq: seq, points: points, err: err}
	}
}
