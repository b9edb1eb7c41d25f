package display

import (
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/red-movilidad/red-cli/internal/models"
)

// Kind discriminates the Result variants
type Kind int

const (
	// KindTable is a tabular result
	KindTable Kind = iota
	// KindMap is a polyline and markers over a tile basemap
	KindMap
)

func (k Kind) String() string {
	if k == KindMap {
		return "map"
	}
	return "table"
}

// Result is the common type handed to every renderer.
// It is implemented by *Table and *Map only.
type Result interface {
	Kind() Kind
}

// Table is an ordered set of rows under fixed column headings
type Table struct {
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle,omitempty"`
	Columns  []string `json:"columns"`
	Rows     []Row    `json:"rows"`
	Empty    string   `json:"empty,omitempty"`
}

// Row is one table row. When Span is set the last cell covers every
// remaining column.
type Row struct {
	Cells []string `json:"cells"`
	Span  bool     `json:"span,omitempty"`
}

// Kind implements Result
func (t *Table) Kind() Kind { return KindTable }

// ColumnIndex returns the position of the named column, or -1
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Map is a route polyline with stop markers
type Map struct {
	Title   string          `json:"title"`
	Center  models.LatLng   `json:"center"`
	Zoom    int             `json:"zoom"`
	Path    []models.LatLng `json:"path"`
	Markers []Marker        `json:"markers"`
	Bounds  models.Bounds   `json:"bounds"`
	Fit     bool            `json:"fit"`
}

// Marker is a labelled point on a Map
type Marker struct {
	ID     string  `json:"id"`
	Label  string  `json:"label"`
	Detail string  `json:"detail"`
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
}

// Kind implements Result
func (m *Map) Kind() Kind { return KindMap }

// ColumnArrival heads the arrival-phrase column
const ColumnArrival = "Llega entre"

var arrivalColumns = []string{"Servicio", "Patente", ColumnArrival, "Distancia"}

// ArrivalsTable builds the per-bus rows for a stop board.
// Valid services come first; an invalid service is a single spanning row
// carrying its status description.
func ArrivalsTable(stop *models.StopArrivals) *Table {
	t := &Table{
		Columns: arrivalColumns,
		Empty:   "No hay servicios para esta parada.",
	}
	if stop == nil {
		return t
	}
	t.Title = stop.Name
	t.Subtitle = "ID: " + stop.StopCode

	for _, svc := range OrderServices(stop.Services) {
		if !svc.Valid {
			t.Rows = append(t.Rows, Row{
				Cells: []string{svc.ServiceID, svc.StatusDescription},
				Span:  true,
			})
			continue
		}
		for _, bus := range svc.Buses {
			phrase, ok := ArrivalPhrase(bus)
			if !ok {
				log.Debug().
					Str("stop", stop.StopCode).
					Str("service", svc.ServiceID).
					Str("bus", bus.BusID).
					Int("min", bus.MinArrivalMinutes).
					Int("max", bus.MaxArrivalMinutes).
					Int("meters", bus.MetersDistance).
					Msg("arrival window not covered by any phrase rule")
			}
			t.Rows = append(t.Rows, Row{
				Cells: []string{svc.ServiceID, bus.BusID, phrase, BusDistance(bus.MetersDistance)},
			})
		}
	}
	return t
}

// ChargePointsTable ranks the points and builds their rows
func ChargePointsTable(points []models.ChargePoint) *Table {
	t := &Table{
		Title:   "Puntos de carga bip!",
		Columns: []string{"Nombre", "Dirección", "Comuna", "Horario", "Distancia"},
		Empty:   "No se encontraron puntos de carga cercanos.",
	}
	for _, p := range RankChargePoints(points) {
		t.Rows = append(t.Rows, Row{
			Cells: []string{p.Name, p.Address, p.Comuna, ScheduleText(p.Schedule), FormatMeters(p.DistanceKm)},
		})
	}
	return t
}

// RoutesTable lists route identifiers in API order
func RoutesTable(routes []string) *Table {
	t := &Table{
		Title:   "Recorridos",
		Columns: []string{"Recorrido"},
		Empty:   "No hay recorridos disponibles.",
	}
	for _, r := range routes {
		t.Rows = append(t.Rows, Row{Cells: []string{r}})
	}
	return t
}

// FilterRoutes keeps the routes containing q, case-insensitively,
// preserving API order. A blank q keeps everything.
func FilterRoutes(routes []string, q string) []string {
	q = strings.ToUpper(strings.TrimSpace(q))
	if q == "" {
		return routes
	}
	var out []string
	for _, r := range routes {
		if strings.Contains(strings.ToUpper(r), q) {
			out = append(out, r)
		}
	}
	return out
}

// RouteStopsTable lists the stops of a route
func RouteStopsTable(routeID string, stops []models.RouteStop) *Table {
	t := &Table{
		Title:   "Paradas del recorrido " + routeID,
		Columns: []string{"Codigo Parada", "Nombre"},
		Empty:   "Sin paradas para este recorrido.",
	}
	for _, s := range stops {
		t.Rows = append(t.Rows, Row{Cells: []string{s.StopCode, s.StopName}})
	}
	return t
}

// RouteMap layers the path and stop markers of a route.
// The viewport is fitted to the path once one is available.
func RouteMap(layers *models.RouteLayers) *Map {
	m := &Map{
		Center: DefaultCenter,
		Zoom:   DefaultZoom,
	}
	if layers == nil {
		return m
	}
	if layers.RouteID != "" {
		m.Title = "Recorrido " + layers.RouteID
	}
	m.Path = layers.Path
	for _, s := range layers.Stops {
		m.Markers = append(m.Markers, Marker{
			ID:     s.StopCode,
			Label:  s.StopCode,
			Detail: s.StopName,
			Lat:    s.Lat,
			Lng:    s.Lon,
		})
	}
	if b, ok := FitBounds(layers.Path); ok {
		m.Bounds = b
		m.Fit = true
		m.Center = b.Center()
	}
	return m
}
