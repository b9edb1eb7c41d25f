package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/red-movilidad/red-cli/internal/display"
	"github.com/red-movilidad/red-cli/internal/models"
	"github.com/rs/zerolog/log"
)

func (m Model) handleRoutesResult(msg routesResultMsg) (tea.Model, tea.Cmd) {
	// Ignore stale results
	if msg.seq != m.routesSeq {
		return m, nil
	}
	m.routesLoading = false
	m.routesErr = msg.err
	if msg.err != nil {
		return m, nil
	}
	m.routes = msg.routes
	m.routesLoaded = true
	m.routeCursor = 0
	return m, nil
}

// selectRoute starts a new route selection. Both layers are requested at
// once; the previous layers stay on screen until replaced.
func (m Model) selectRoute(routeID string) (tea.Model, tea.Cmd) {
	m.routeSeq++
	m.route = models.RouteLayers{
		RouteID: routeID,
		Path:    m.route.Path,
		Stops:   m.route.Stops,
	}
	m.stopsScroll = 0
	return m, tea.Batch(
		fetchRoutePath(m.client, routeID, m.routeSeq),
		fetchRouteStops(m.client, routeID, m.routeSeq),
	)
}

func (m Model) handleRoutePath(msg routePathMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.routeSeq {
		return m, nil
	}
	m.route.PathDone = true
	m.route.PathErr = msg.err
	if msg.err != nil {
		log.Warn().Err(msg.err).Str("route", msg.routeID).Msg("route path failed, keeping previous layer")
		return m, nil
	}
	m.route.Path = msg.path
	m.viewport, m.viewportSet = display.FitBounds(msg.path)
	return m, nil
}

func (m Model) handleRouteStops(msg routeStopsMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.routeSeq {
		return m, nil
	}
	m.route.StopsDone = true
	m.route.StopsErr = msg.err
	if msg.err != nil {
		log.Warn().Err(msg.err).Str("route", msg.routeID).Msg("route stops failed, keeping previous layer")
		return m, nil
	}
	m.route.Stops = msg.stops
	return m, nil
}

// routeMap builds the map for the current route with the stored viewport.
func (m Model) routeMap() *display.Map {
	rm := display.RouteMap(&m.route)
	if m.viewportSet {
		rm.Bounds = m.viewport
		rm.Center = m.viewport.Center()
		rm.Fit = true
	}
	return rm
}

func (m Model) handleRoutesKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.focus {
	case focusList:
		return m.handleRouteListKeys(msg)
	case focusResults:
		return m.handleRouteStopsKeys(msg)
	}

	routes := m.filteredRoutes()
	switch msg.String() {
	case "esc":
		return m.handleInputEsc()

	case "enter":
		if len(routes) == 0 {
			return m, nil
		}
		m.routeCursor = clamp(m.routeCursor, len(routes))
		return m.selectRoute(routes[m.routeCursor])

	case "tab", "down":
		if len(routes) > 0 {
			return m, m.focusOn(focusList)
		}
		return m, nil
	}

	var cmd tea.Cmd
	prev := m.routeInput.Value()
	m.routeInput, cmd = m.routeInput.Update(msg)
	if m.routeInput.Value() != prev {
		m.routeCursor = 0
	}
	return m, cmd
}

func (m Model) handleRouteListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	routes := m.filteredRoutes()
	if c, ok := moveCursor(msg.String(), m.routeCursor, len(routes), m.pageSize()); ok {
		m.routeCursor = c
		return m, nil
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "esc", "/":
		return m, m.focusOn(focusInput)

	case "tab":
		if len(m.route.Stops) > 0 {
			return m, m.focusOn(focusResults)
		}
		return m, m.focusOn(focusInput)

	case "shift+tab":
		return m, m.focusOn(focusInput)

	case "r":
		if m.routesErr != nil {
			m.routesSeq++
			m.routesLoading = true
			m.routesErr = nil
			return m, fetchRoutes(m.client, m.routesSeq)
		}

	case "enter":
		if len(routes) > 0 {
			return m.selectRoute(routes[clamp(m.routeCursor, len(routes))])
		}
	}
	return m, nil
}

func (m Model) handleRouteStopsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if c, ok := moveCursor(msg.String(), m.stopsScroll, len(m.route.Stops), m.pageSize()); ok {
		m.stopsScroll = c
		return m, nil
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc", "shift+tab":
		return m, m.focusOn(focusList)
	case "tab", "/":
		return m, m.focusOn(focusInput)
	}
	return m, nil
}
