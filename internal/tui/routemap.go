package tui

import (
	"fmt"
	"strings"

	"github.com/red-movilidad/red-cli/internal/display"
	"github.com/red-movilidad/red-cli/internal/output"
)

// renderRouteMap draws the route path and its stops into a width x height
// box, followed by a one-line viewport summary.
func renderRouteMap(m *display.Map, width, height int) string {
	if width < 10 || height < 4 {
		return ""
	}

	grid := output.ProjectMap(m, width, height-1)
	lines := grid.Lines(func(kind output.CellKind, s string) string {
		switch kind {
		case output.CellStop:
			return styleMapStop.Render(s)
		case output.CellPath:
			return styleMapPath.Render(s)
		default:
			return styleMapCenter.Render(s)
		}
	})

	var summary string
	if m.Fit {
		summary = fmt.Sprintf("%d puntos · %d paradas · %.4f,%.4f / %.4f,%.4f",
			len(m.Path), len(m.Markers), m.Bounds.South, m.Bounds.West, m.Bounds.North, m.Bounds.East)
	} else {
		summary = fmt.Sprintf("%d paradas · centro %.4f,%.4f zoom %d",
			len(m.Markers), m.Center.Lat, m.Center.Lng, m.Zoom)
	}
	lines = append(lines, styleMuted.Render(truncate(summary, width)))

	return strings.Join(lines, "\n")
}
