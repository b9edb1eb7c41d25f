package tui

import (
	"errors"
	"strings"
	"testing"

	"github.com/red-movilidad/red-cli/internal/api"
	"github.com/red-movilidad/red-cli/internal/display"
	"github.com/red-movilidad/red-cli/internal/models"
	"github.com/red-movilidad/red-cli/internal/testutil"
)

func TestModel_View_NoSize(t *testing.T) {
	client, _ := api.NewClient()
	m := New(client)
	testutil.AssertEqual(t, m.View(), "Cargando...")
}

func TestModel_View_Home(t *testing.T) {
	m := newTestModel(t)

	output := m.View()
	for _, e := range homeEntries {
		testutil.AssertContains(t, output, e.title)
	}
	testutil.AssertContains(t, output, "q:salir")
}

func TestModel_View_RoutesLoading(t *testing.T) {
	m := newTestModel(t)
	m.screen = screenRoutes
	m.routesLoading = true

	testutil.AssertContains(t, m.View(), "Cargando recorridos...")
}

func TestModel_View_RoutesError(t *testing.T) {
	m := newTestModel(t)
	m.screen = screenRoutes
	m.routesErr = errors.New("connection refused")

	output := m.View()
	testutil.AssertContains(t, output, display.MsgRoutesError)
	testutil.AssertNotContains(t, output, "connection refused")
}

func TestModel_View_RouteList(t *testing.T) {
	m := newTestModel(t)
	m.screen = screenRoutes
	m.routes = []string{"101", "102", "D18"}
	m.routeInput.SetValue("10")

	output := m.View()
	testutil.AssertContains(t, output, "101")
	testutil.AssertContains(t, output, "102")
	testutil.AssertNotContains(t, output, "D18")
	testutil.AssertContains(t, output, "Selecciona un recorrido")
}

func TestModel_View_RouteReady(t *testing.T) {
	m := newTestModel(t)
	m.screen = screenRoutes
	m.routes = []string{"506"}
	m.route = models.RouteLayers{
		RouteID:   "506",
		Path:      []models.LatLng{{Lat: -33.45, Lng: -70.66}, {Lat: -33.47, Lng: -70.64}},
		Stops:     []models.RouteStop{{StopCode: "PA433", StopName: "Alameda", Lat: -33.45, Lon: -70.66}},
		PathDone:  true,
		StopsDone: true,
	}
	m.viewport, m.viewportSet = display.FitBounds(m.route.Path)

	output := m.View()
	testutil.AssertContains(t, output, "Recorrido 506")
	testutil.AssertContains(t, output, "2 puntos · 1 paradas")
	testutil.AssertContains(t, output, "Paradas del recorrido 506")
	testutil.AssertContains(t, output, "PA433")
	testutil.AssertContains(t, output, "●")
}

func TestModel_View_RoutePartial(t *testing.T) {
	m := newTestModel(t)
	m.screen = screenRoutes
	m.route = models.RouteLayers{
		RouteID:   "506",
		Stops:     []models.RouteStop{{StopCode: "PA433", StopName: "Alameda", Lat: -33.45, Lon: -70.66}},
		PathErr:   errors.New("status 500"),
		PathDone:  true,
		StopsDone: true,
	}

	output := m.View()
	testutil.AssertContains(t, output, "no se pudo cargar el trazado")
	testutil.AssertContains(t, output, "centro")
}

func TestModel_View_Arrivals(t *testing.T) {
	m := newTestModel(t)
	m.screen = screenArrivals
	m.stop = sampleStop()
	m.stopCode = "PA433"

	output := m.View()
	testutil.AssertContains(t, output, "Parada 1 / Alameda")
	testutil.AssertContains(t, output, "ID: PA433")
	testutil.AssertContains(t, output, "Llegando")
	testutil.AssertContains(t, output, "FLXP-45")
	testutil.AssertContains(t, output, "300 mts.")
	testutil.AssertContains(t, output, "[506]")

	// Valid services come first
	testutil.AssertTrue(t, strings.Index(output, "FLXP-45") < strings.LastIndex(output, "D18"))
}

func TestModel_View_ArrivalsHiddenService(t *testing.T) {
	m := newTestModel(t)
	m.screen = screenArrivals
	m.stop = sampleStop()
	m.hiddenServices["506"] = true

	output := m.View()
	testutil.AssertNotContains(t, output, "FLXP-45")
	testutil.AssertContains(t, output, " 506 ")
}

func TestModel_View_ArrivalsStatusError(t *testing.T) {
	m := newTestModel(t)
	m.screen = screenArrivals
	m.arrivalsErr = api.NewStatusError("1", "Paradero invalido.", "/bus-stop/XX")

	testutil.AssertContains(t, m.View(), "Paradero invalido.")
}

func TestModel_View_ArrivalsTransportError(t *testing.T) {
	m := newTestModel(t)
	m.screen = screenArrivals
	m.arrivalsErr = api.NewAPIError(502, "Bad Gateway", "/bus-stop/PA433")

	output := m.View()
	testutil.AssertContains(t, output, display.MsgArrivalsError)
	testutil.AssertNotContains(t, output, "Bad Gateway")
}

func TestModel_View_ChargePoints(t *testing.T) {
	m := newTestModel(t)
	m.screen = screenBip
	m.origin = &models.GeoLocation{Address: "Alameda 1450, Santiago"}
	m.candidates = []models.GeoLocation{*m.origin}
	m.points = []models.ChargePoint{
		{Name: "Kiosko", Address: "Moneda 920", Comuna: "Santiago", DistanceKm: 0.32},
		{Name: "Farmacia", Address: "Huérfanos 1010", Comuna: "Santiago", Schedule: []string{"L-V 09-20"}, DistanceKm: 0.5},
	}

	output := m.View()
	testutil.AssertContains(t, output, "Puntos de carga bip!")
	testutil.AssertContains(t, output, "Cerca de: Alameda 1450, Santiago")
	testutil.AssertContains(t, output, "No disponible")
	testutil.AssertContains(t, output, "320.00 m")

	// Points with a schedule rank first
	testutil.AssertTrue(t, strings.Index(output, "Farmacia") < strings.Index(output, "Kiosko"))
}

func TestModel_View_ChargePointsEmpty(t *testing.T) {
	m := newTestModel(t)
	m.screen = screenBip
	m.origin = &models.GeoLocation{Address: "Alameda"}

	testutil.AssertContains(t, m.View(), "No se encontraron puntos de carga cercanos.")
}

func TestModel_View_Candidates(t *testing.T) {
	m := newTestModel(t)
	m.screen = screenBip
	m.focus = focusList
	m.candidates = []models.GeoLocation{
		{Address: "Alameda 1450, Santiago"},
		{Address: "Alameda 1450, Estación Central"},
	}

	output := m.View()
	testutil.AssertContains(t, output, "DIRECCIONES")
	testutil.AssertContains(t, output, "> Alameda 1450, Santiago")
	testutil.AssertContains(t, output, "Elige una dirección")
}

func TestModel_View_NoResultsGeocode(t *testing.T) {
	m := newTestModel(t)
	m.screen = screenBip
	m.bipErr = api.ErrNoResults

	testutil.AssertContains(t, m.View(), display.MsgNoResults)
}

func TestRenderResultTable_Scrolls(t *testing.T) {
	tbl := &display.Table{Columns: []string{"Recorrido"}}
	for _, r := range []string{"A1", "A2", "A3", "A4", "A5", "A6", "A7", "A8"} {
		tbl.Rows = append(tbl.Rows, display.Row{Cells: []string{r}})
	}

	output := renderResultTable(tbl, 7, 40, 7)
	testutil.AssertContains(t, output, "A8")
	testutil.AssertNotContains(t, output, "A1")
	testutil.AssertContains(t, output, "de 8")
}

func TestVisibleRange(t *testing.T) {
	tests := []struct {
		cursor, total, max int
		start, end         int
	}{
		{0, 5, 10, 0, 5},
		{0, 20, 5, 0, 5},
		{10, 20, 5, 8, 13},
		{19, 20, 5, 15, 20},
	}

	for _, tt := range tests {
		start, end := visibleRange(tt.cursor, tt.total, tt.max)
		testutil.AssertEqual(t, start, tt.start)
		testutil.AssertEqual(t, end, tt.end)
	}
}

func TestTruncate(t *testing.T) {
	testutil.AssertEqual(t, truncate("Alameda", 20), "Alameda")
	testutil.AssertEqual(t, truncate("Estación Central", 8), "Estació…")
	testutil.AssertEqual(t, truncate("x", 0), "")
}
