package output

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/red-movilidad/red-cli/internal/display"
	"github.com/red-movilidad/red-cli/internal/models"
)

// CellKind classifies a map grid cell
type CellKind int

const (
	CellEmpty CellKind = iota
	CellPath
	CellStop
	CellCenter
)

// Cell is one character of a projected map
type Cell struct {
	Ch   rune
	Kind CellKind
}

// Grid is a map projected onto a character raster
type Grid struct {
	Width  int
	Height int
	Cells  [][]Cell
}

// minSpan keeps a single point or a straight line from filling the grid
const minSpan = 0.01

// ProjectMap rasterizes the route path and stop markers of a map.
// The path is drawn with connected segments and markers are placed on top.
// A map with no geometry shows only its center.
func ProjectMap(m *display.Map, width, height int) *Grid {
	if width < 3 || height < 3 {
		return &Grid{}
	}

	g := &Grid{Width: width, Height: height, Cells: make([][]Cell, height)}
	for r := range g.Cells {
		g.Cells[r] = make([]Cell, width)
		for c := range g.Cells[r] {
			g.Cells[r][c] = Cell{Ch: ' '}
		}
	}

	points := make([]models.LatLng, 0, len(m.Path)+len(m.Markers))
	points = append(points, m.Path...)
	for _, mk := range m.Markers {
		points = append(points, models.LatLng{Lat: mk.Lat, Lng: mk.Lng})
	}

	if len(points) == 0 {
		g.Cells[height/2][width/2] = Cell{Ch: '+', Kind: CellCenter}
		return g
	}

	box, _ := display.FitBounds(points)
	p := newProjection(box, width, height)

	for i := 0; i+1 < len(m.Path); i++ {
		x0, y0 := p.project(m.Path[i])
		x1, y1 := p.project(m.Path[i+1])
		g.line(x0, y0, x1, y1)
	}
	if len(m.Path) == 1 {
		x, y := p.project(m.Path[0])
		g.set(x, y, Cell{Ch: '·', Kind: CellPath})
	}

	for _, mk := range m.Markers {
		x, y := p.project(models.LatLng{Lat: mk.Lat, Lng: mk.Lng})
		g.set(x, y, Cell{Ch: '●', Kind: CellStop})
	}

	return g
}

type projection struct {
	minLat, maxLat float64
	minLng         float64
	scale          float64
	xOffset        float64
	yOffset        float64
	width, height  int
}

func newProjection(b models.Bounds, width, height int) projection {
	minLat, maxLat := b.South, b.North
	minLng, maxLng := b.West, b.East

	if maxLat-minLat < minSpan {
		mid := (minLat + maxLat) / 2
		minLat, maxLat = mid-minSpan/2, mid+minSpan/2
	}
	if maxLng-minLng < minSpan {
		mid := (minLng + maxLng) / 2
		minLng, maxLng = mid-minSpan/2, mid+minSpan/2
	}

	latPad := (maxLat - minLat) * 0.1
	lngPad := (maxLng - minLng) * 0.1
	minLat, maxLat = minLat-latPad, maxLat+latPad
	minLng, maxLng = minLng-lngPad, maxLng+lngPad
	latSpan := maxLat - minLat
	lngSpan := maxLng - minLng

	// Terminal cells are about twice as tall as wide
	xScale := float64(width-1) / lngSpan
	yScale := float64(height-1) / latSpan * 2.0
	scale := math.Min(xScale, yScale)

	return projection{
		minLat:  minLat,
		maxLat:  maxLat,
		minLng:  minLng,
		scale:   scale,
		xOffset: (float64(width-1) - scale*lngSpan) / 2,
		yOffset: (float64(height-1) - scale*latSpan/2.0) / 2,
		width:   width,
		height:  height,
	}
}

func (p projection) project(ll models.LatLng) (col, row int) {
	col = int(math.Round((ll.Lng-p.minLng)*p.scale + p.xOffset))
	row = int(math.Round((p.maxLat-ll.Lat)*p.scale/2.0 + p.yOffset))
	col = min(max(col, 0), p.width-1)
	row = min(max(row, 0), p.height-1)
	return col, row
}

func (g *Grid) set(x, y int, c Cell) {
	if y >= 0 && y < len(g.Cells) && x >= 0 && x < len(g.Cells[y]) {
		g.Cells[y][x] = c
	}
}

// line draws a path segment with Bresenham's algorithm without
// overwriting markers.
func (g *Grid) line(x0, y0, x1, y1 int) {
	dx := x1 - x0
	if dx < 0 {
		dx = -dx
	}
	dy := y1 - y0
	if dy < 0 {
		dy = -dy
	}
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx - dy

	for {
		if y0 >= 0 && y0 < len(g.Cells) && x0 >= 0 && x0 < len(g.Cells[y0]) && g.Cells[y0][x0].Kind == CellEmpty {
			g.Cells[y0][x0] = Cell{Ch: '·', Kind: CellPath}
		}

		if x0 == x1 && y0 == y1 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// Count returns how many cells are of the given kind
func (g *Grid) Count(kind CellKind) int {
	n := 0
	for _, row := range g.Cells {
		for _, c := range row {
			if c.Kind == kind {
				n++
			}
		}
	}
	return n
}

// Lines renders each grid row, passing every non-empty cell through style
func (g *Grid) Lines(style func(kind CellKind, s string) string) []string {
	lines := make([]string, 0, len(g.Cells))
	for _, row := range g.Cells {
		var b strings.Builder
		for _, c := range row {
			ch := string(c.Ch)
			if c.Kind != CellEmpty && style != nil {
				ch = style(c.Kind, ch)
			}
			b.WriteString(ch)
		}
		lines = append(lines, b.String())
	}
	return lines
}

// RenderMap writes an ASCII projection of a route map followed by a
// one-line summary.
func RenderMap(w io.Writer, m *display.Map, opts RenderOptions) {
	c := opts.colors()

	width, height := opts.MapWidth, opts.MapHeight
	if width <= 0 {
		width = defaultMapWidth
	}
	if height <= 0 {
		height = defaultMapHeight
	}

	if m.Title != "" {
		_, _ = fmt.Fprintln(w, c.Title("%s", m.Title))
		_, _ = fmt.Fprintln(w)
	}

	grid := ProjectMap(m, width, height)
	for _, line := range grid.Lines(func(kind CellKind, s string) string {
		switch kind {
		case CellStop:
			return c.Marker("%s", s)
		case CellPath:
			return c.Path("%s", s)
		default:
			return c.Muted("%s", s)
		}
	}) {
		_, _ = fmt.Fprintln(w, strings.TrimRight(line, " "))
	}

	_, _ = fmt.Fprintln(w)
	if m.Fit {
		_, _ = fmt.Fprintln(w, c.Muted("%d puntos · %d paradas · %.4f,%.4f / %.4f,%.4f",
			len(m.Path), len(m.Markers), m.Bounds.South, m.Bounds.West, m.Bounds.North, m.Bounds.East))
		return
	}
	_, _ = fmt.Fprintln(w, c.Muted("%d paradas · centro %.4f,%.4f zoom %d",
		len(m.Markers), m.Center.Lat, m.Center.Lng, m.Zoom))
}
