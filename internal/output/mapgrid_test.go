package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/red-movilidad/red-cli/internal/display"
	"github.com/red-movilidad/red-cli/internal/models"
	"github.com/red-movilidad/red-cli/internal/testutil"
)

func sampleMap() *display.Map {
	return display.RouteMap(&models.RouteLayers{
		RouteID: "506",
		Path: []models.LatLng{
			{Lat: -33.45, Lng: -70.66},
			{Lat: -33.46, Lng: -70.65},
			{Lat: -33.47, Lng: -70.64},
		},
		Stops: []models.RouteStop{
			{StopCode: "PA433", StopName: "Parada 1", Lat: -33.45, Lon: -70.66},
			{StopCode: "PA434", StopName: "Parada 2", Lat: -33.47, Lon: -70.64},
		},
		PathDone:  true,
		StopsDone: true,
	})
}

func TestProjectMap_Dimensions(t *testing.T) {
	g := ProjectMap(sampleMap(), 40, 12)

	testutil.AssertEqual(t, g.Width, 40)
	testutil.AssertEqual(t, g.Height, 12)
	testutil.AssertLen(t, g.Cells, 12)
	for _, row := range g.Cells {
		testutil.AssertLen(t, row, 40)
	}
}

func TestProjectMap_PathAndMarkers(t *testing.T) {
	g := ProjectMap(sampleMap(), 40, 12)

	testutil.AssertEqual(t, g.Count(CellStop), 2)
	testutil.AssertTrue(t, g.Count(CellPath) > 0)
	testutil.AssertEqual(t, g.Count(CellCenter), 0)
}

func TestProjectMap_NorthIsUp(t *testing.T) {
	m := &display.Map{
		Markers: []display.Marker{
			{ID: "N", Lat: -33.40, Lng: -70.65},
			{ID: "S", Lat: -33.50, Lng: -70.65},
		},
	}
	g := ProjectMap(m, 30, 15)

	var rows []int
	for r, row := range g.Cells {
		for _, c := range row {
			if c.Kind == CellStop {
				rows = append(rows, r)
			}
		}
	}
	testutil.AssertLen(t, rows, 2)
	testutil.AssertTrue(t, rows[0] < rows[1])
}

func TestProjectMap_Empty(t *testing.T) {
	g := ProjectMap(display.RouteMap(nil), 21, 9)

	testutil.AssertEqual(t, g.Count(CellCenter), 1)
	testutil.AssertEqual(t, g.Cells[4][10].Kind, CellCenter)
}

func TestProjectMap_SinglePoint(t *testing.T) {
	m := &display.Map{Path: []models.LatLng{{Lat: -33.45, Lng: -70.66}}}
	g := ProjectMap(m, 10, 5)

	testutil.AssertEqual(t, g.Count(CellPath), 1)
}

func TestProjectMap_TooSmall(t *testing.T) {
	g := ProjectMap(sampleMap(), 2, 2)
	testutil.AssertLen(t, g.Cells, 0)
}

func TestGrid_Lines(t *testing.T) {
	g := ProjectMap(sampleMap(), 20, 8)

	lines := g.Lines(func(kind CellKind, s string) string {
		if kind == CellStop {
			return "S"
		}
		return s
	})
	testutil.AssertLen(t, lines, 8)
	testutil.AssertEqual(t, strings.Count(strings.Join(lines, ""), "S"), 2)
}

func TestRenderMap(t *testing.T) {
	var buf bytes.Buffer
	RenderMap(&buf, sampleMap(), RenderOptions{Colors: NewColors(ColorNever), MapWidth: 30, MapHeight: 10})

	out := buf.String()
	testutil.AssertContains(t, out, "Recorrido 506")
	testutil.AssertContains(t, out, "●")
	testutil.AssertContains(t, out, "3 puntos · 2 paradas")
}

func TestRenderMap_Unfitted(t *testing.T) {
	var buf bytes.Buffer
	RenderMap(&buf, display.RouteMap(nil), plainOpts())

	testutil.AssertContains(t, buf.String(), "centro -33.4567,-70.6789 zoom 13")
}
