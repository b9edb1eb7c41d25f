package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/red-movilidad/red-cli/internal/api"
	"github.com/red-movilidad/red-cli/internal/display"
	"github.com/red-movilidad/red-cli/internal/models"
)

type screen int

const (
	screenHome screen = iota
	screenRoutes
	screenArrivals
	screenBip
)

type focusPanel int

const (
	focusInput focusPanel = iota
	focusList
	focusChips
	focusResults
)

// homeEntries are the landing cards, in display order.
var homeEntries = []struct {
	screen screen
	title  string
	detail string
}{
	{screenRoutes, "Busca tu recorrido", "Revisa el trazado y las paradas de cada recorrido en el mapa."},
	{screenArrivals, "Revisa cuando llega tu bus", "Consulta en tiempo real los buses que se aproximan a tu parada."},
	{screenBip, "Encuentra el punto de recarga bip más cercano", "Ingresa una dirección y te mostramos los puntos bip! cercanos."},
}

// Model is the root Bubble Tea model for the TUI.
type Model struct {
	client *api.Client
	width  int
	height int

	screen     screen
	homeCursor int
	focus      focusPanel
	spinner    spinner.Model

	// Route search - catalogue on the left, map on the right
	routeInput    textinput.Model
	routes        []string
	routesLoaded  bool
	routesLoading bool
	routesErr     error
	routesSeq     int
	routeCursor   int
	route         models.RouteLayers
	routeSeq      int
	viewport      models.Bounds
	viewportSet   bool
	stopsScroll   int

	// Bus arrivals - one stop board
	stopInput       textinput.Model
	stop            *models.StopArrivals
	stopCode        string
	arrivalsLoading bool
	arrivalsErr     error
	arrivalsSeq     int
	hiddenServices  map[string]bool
	chipCursor      int
	arrivalsScroll  int
	autoRefresh     bool
	lastUpdate      time.Time

	// Charge points - address, candidates, points
	addressInput  textinput.Model
	candidates    []models.GeoLocation
	candidateIdx  int
	geocodeSeq    int
	geocoding     bool
	origin        *models.GeoLocation
	points        []models.ChargePoint
	pointsLoading bool
	pointsSeq     int
	bipErr        error
	pointsScroll  int
}

// New creates a new TUI model.
func New(client *api.Client) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styleLoading

	return Model{
		client:         client,
		screen:         screenHome,
		spinner:        sp,
		routeInput:     newInput("Filtrar recorridos...", 10),
		stopInput:      newInput("Código de parada (ej. PA433)", 12),
		addressInput:   newInput("Dirección (ej. Alameda 1340)", 120),
		hiddenServices: make(map[string]bool),
	}
}

func newInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Width = 40
	return ti
}

// Init returns the initial commands (textinput blink and spinner).
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// loading reports whether the current screen waits on a request.
func (m Model) loading() bool {
	switch m.screen {
	case screenRoutes:
		return m.routesLoading || m.route.Status() == models.RouteLoading
	case screenArrivals:
		return m.arrivalsLoading
	case screenBip:
		return m.geocoding || m.pointsLoading
	}
	return false
}

// filteredRoutes returns the catalogue entries matching the filter input
func (m Model) filteredRoutes() []string {
	return display.FilterRoutes(m.routes, m.routeInput.Value())
}

// services returns the service ids on the current board, in display order.
func (m Model) services() []string {
	if m.stop == nil {
		return nil
	}
	ids := make([]string, 0, len(m.stop.Services))
	for _, svc := range display.OrderServices(m.stop.Services) {
		ids = append(ids, svc.ServiceID)
	}
	return ids
}

// visibleStop returns the current board without the hidden services.
func (m Model) visibleStop() *models.StopArrivals {
	if m.stop == nil {
		return nil
	}
	out := *m.stop
	out.Services = nil
	for _, svc := range m.stop.Services {
		if !m.hiddenServices[svc.ServiceID] {
			out.Services = append(out.Services, svc)
		}
	}
	return &out
}

// activeInput returns the text input of the current screen.
func (m *Model) activeInput() *textinput.Model {
	switch m.screen {
	case screenRoutes:
		return &m.routeInput
	case screenArrivals:
		return &m.stopInput
	case screenBip:
		return &m.addressInput
	}
	return nil
}
