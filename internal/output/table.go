package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/red-movilidad/red-cli/internal/display"
)

const (
	defaultMapWidth  = 72
	defaultMapHeight = 24
	maxCellWidth     = 48
)

// RenderOptions configures the text output
type RenderOptions struct {
	Colors    *Colors
	MapWidth  int
	MapHeight int
}

func (o RenderOptions) colors() *Colors {
	if o.Colors == nil {
		return NewColors(ColorNever)
	}
	return o.Colors
}

// Render writes any display result. It is the single dispatch point over
// the result variants.
func Render(w io.Writer, result display.Result, opts RenderOptions) error {
	switch r := result.(type) {
	case *display.Table:
		RenderTable(w, r, opts)
	case *display.Map:
		RenderMap(w, r, opts)
	case nil:
		return fmt.Errorf("nothing to render")
	default:
		return fmt.Errorf("unsupported result kind %s", result.Kind())
	}
	return nil
}

// RenderTable writes a padded table. Span rows print their last cell
// across the remaining columns.
func RenderTable(w io.Writer, t *display.Table, opts RenderOptions) {
	c := opts.colors()

	if t.Title != "" {
		_, _ = fmt.Fprintln(w, c.Title("%s", t.Title))
	}
	if t.Subtitle != "" {
		_, _ = fmt.Fprintln(w, c.Muted("%s", t.Subtitle))
	}
	if t.Title != "" || t.Subtitle != "" {
		_, _ = fmt.Fprintln(w)
	}

	if len(t.Rows) == 0 {
		empty := t.Empty
		if empty == "" {
			empty = display.MsgNoResults
		}
		_, _ = fmt.Fprintln(w, c.Muted("%s", empty))
		return
	}

	widths := columnWidths(t)
	phraseCol := t.ColumnIndex(display.ColumnArrival)

	header := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		header[i] = c.Header("%s", pad(col, widths[i]))
	}
	_, _ = fmt.Fprintln(w, strings.TrimRight(strings.Join(header, "  "), " "))

	for _, row := range t.Rows {
		if row.Span && len(row.Cells) > 0 {
			first := ""
			if len(row.Cells) > 1 {
				first = row.Cells[0]
			}
			last := row.Cells[len(row.Cells)-1]
			_, _ = fmt.Fprintf(w, "%s  %s\n", c.Service("%s", pad(first, widths[0])), c.Warning("%s", last))
			continue
		}

		cells := make([]string, len(t.Columns))
		for i := range t.Columns {
			text := ""
			if i < len(row.Cells) {
				text = row.Cells[i]
			}
			padded := pad(text, widths[i])
			switch {
			case i == 0:
				padded = c.Service("%s", padded)
			case i == phraseCol:
				padded = strings.Replace(padded, text, c.FormatPhrase(text), 1)
			}
			cells[i] = padded
		}
		_, _ = fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, "  "), " "))
	}
}

// columnWidths sizes each column to its widest cell, capped at maxCellWidth.
// Span rows only count toward the first column.
func columnWidths(t *display.Table) []int {
	widths := make([]int, len(t.Columns))
	for i, col := range t.Columns {
		widths[i] = runewidth.StringWidth(col)
	}
	for _, row := range t.Rows {
		for i, cell := range row.Cells {
			if i >= len(widths) || (row.Span && i > 0) {
				break
			}
			if cw := runewidth.StringWidth(cell); cw > widths[i] {
				widths[i] = cw
			}
		}
	}
	for i := range widths {
		if widths[i] > maxCellWidth {
			widths[i] = maxCellWidth
		}
	}
	return widths
}

func pad(s string, width int) string {
	s = runewidth.Truncate(s, width, "…")
	return runewidth.FillRight(s, width)
}
