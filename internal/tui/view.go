package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-runewidth"
	"github.com/red-movilidad/red-cli/internal/display"
	"github.com/red-movilidad/red-cli/internal/models"
)

// View renders the entire TUI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Cargando..."
	}

	header := renderHeader()
	statusBar := m.renderStatusBar()

	if m.screen == screenHome {
		home := m.renderHome()
		return lipgloss.JoinVertical(lipgloss.Left, header, home, statusBar)
	}

	inputBar := m.renderInputBar()
	bodyHeight := m.height - lipgloss.Height(header) - lipgloss.Height(inputBar) - lipgloss.Height(statusBar)
	if bodyHeight < 5 {
		bodyHeight = 5
	}

	var body string
	switch m.screen {
	case screenRoutes:
		body = m.renderRoutesBody(bodyHeight)
	case screenArrivals:
		body = m.renderArrivalsBody(bodyHeight)
	case screenBip:
		body = m.renderBipBody(bodyHeight)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, inputBar, body, statusBar)
}

// renderHeader renders the ASCII logo and brand name.
func renderHeader() string {
	logo := "" +
		" ______ \n" +
		"|[_][_]|\n" +
		"|______|\n" +
		" O    O "

	title := "" +
		"              _ \n" +
		" _ __ ___  __| |\n" +
		"| '__/ -_)/ _` |\n" +
		"|_|  \\___|\\__,_|"

	return lipgloss.JoinHorizontal(lipgloss.Bottom, styleLogo.Render(logo), "  ", styleLogo.Render(title))
}

// renderHome renders the three landing cards.
func (m Model) renderHome() string {
	cardWidth := m.width - 6
	if cardWidth < 20 {
		cardWidth = 20
	}

	cards := make([]string, 0, len(homeEntries))
	for i, e := range homeEntries {
		style := styleCardNormal
		title := styleHeader.Render(fmt.Sprintf("%d. %s", i+1, e.title))
		if i == m.homeCursor {
			style = styleCardFocused
			title = styleSelected.Render(fmt.Sprintf("%d. %s", i+1, e.title))
		}
		content := title + "\n" + styleMuted.Render(truncate(e.detail, cardWidth-4))
		cards = append(cards, style.Width(cardWidth).Render(content))
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}

// renderInputBar renders the text input of the current view.
func (m Model) renderInputBar() string {
	border := stylePanelNormal
	if m.focus == focusInput {
		border = stylePanelFocused
	}

	var label string
	switch m.screen {
	case screenRoutes:
		label = "Recorrido: "
	case screenArrivals:
		label = "Parada: "
	case screenBip:
		label = "Dirección: "
	}
	in := m.activeInput()
	return border.Width(m.width - 2).Render(styleHeader.Render(label) + in.View())
}

// splitWidths returns the inner widths of a ~35/65 two-panel layout.
func (m Model) splitWidths() (left, right int) {
	left = m.width*35/100 - 2 // subtract border
	right = m.width - left - 4
	if left < 20 {
		left = 20
	}
	if right < 20 {
		right = 20
	}
	return left, right
}

func panel(content string, focused bool, width, height int) string {
	border := stylePanelNormal
	if focused {
		border = stylePanelFocused
	}
	return border.Width(width).Height(height).Render(content)
}

// --- Route search ---

func (m Model) renderRoutesBody(height int) string {
	leftWidth, rightWidth := m.splitWidths()
	inner := height - 2

	left := panel(m.renderRouteList(leftWidth, inner), m.focus == focusList, leftWidth, inner)
	right := panel(m.renderRouteDetail(rightWidth, inner), m.focus == focusResults, rightWidth, inner)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

// renderRouteList renders the left route catalogue panel.
func (m Model) renderRouteList(width, height int) string {
	title := styleHeader.Render("RECORRIDOS")

	if m.routesLoading {
		return title + "\n" + m.spinner.View() + styleLoading.Render(" Cargando recorridos...")
	}
	if m.routesErr != nil {
		return title + "\n" + styleError.Render(display.UserMessage(m.routesErr, display.MsgRoutesError)) +
			"\n" + styleMuted.Render(" r: reintentar")
	}

	routes := m.filteredRoutes()
	if len(routes) == 0 {
		if len(m.routes) == 0 {
			return title + "\n" + styleMuted.Render(" No hay recorridos disponibles.")
		}
		return title + "\n" + styleMuted.Render(" "+display.MsgNoResults)
	}

	var b strings.Builder
	b.WriteString(title)
	b.WriteString(styleMuted.Render(fmt.Sprintf(" (%d)", len(routes))))
	b.WriteString("\n")

	maxVisible := height - 2
	if maxVisible < 1 {
		maxVisible = 1
	}
	cursor := clamp(m.routeCursor, len(routes))
	start, end := visibleRange(cursor, len(routes), maxVisible)

	for i := start; i < end; i++ {
		name := truncate(routes[i], width-4)
		switch {
		case i == cursor && m.focus == focusList:
			b.WriteString(styleSelected.Render(" > " + name))
		case routes[i] == m.route.RouteID:
			b.WriteString(styleService.Render(" * " + name))
		default:
			b.WriteString("   " + name)
		}
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// renderRouteDetail renders the status line, the map and the stop list.
func (m Model) renderRouteDetail(width, height int) string {
	status := m.renderRouteStatus()
	if m.route.RouteID == "" && len(m.route.Path) == 0 {
		return status
	}

	stopsHeight := height / 3
	if len(m.route.Stops) == 0 {
		stopsHeight = 0
	}
	mapHeight := height - stopsHeight - 2
	routeMap := renderRouteMap(m.routeMap(), width, mapHeight)

	parts := []string{status, routeMap}
	if stopsHeight > 0 {
		t := display.RouteStopsTable(m.route.RouteID, m.route.Stops)
		parts = append(parts, renderStopLines(t, m.stopsScroll, width, stopsHeight))
	}
	return strings.Join(parts, "\n")
}

func (m Model) renderRouteStatus() string {
	id := m.route.RouteID
	switch m.route.Status() {
	case models.RouteLoading:
		return m.spinner.View() + styleLoading.Render(" Cargando recorrido "+id+"...")
	case models.RouteReady:
		return styleHeader.Render("Recorrido " + id)
	case models.RoutePartial:
		missing := "las paradas"
		if m.route.PathErr != nil {
			missing = "el trazado"
		}
		return styleHeader.Render("Recorrido "+id) + " " +
			styleWarning.Render("(no se pudo cargar "+missing+")")
	case models.RouteFailed:
		return styleError.Render(display.UserMessage(m.route.PathErr, display.MsgRoutesError))
	}
	return styleMuted.Render("Selecciona un recorrido de la lista y presiona Enter")
}

// renderStopLines renders the route stop list as "code  name" lines.
func renderStopLines(t *display.Table, offset, width, height int) string {
	var b strings.Builder
	b.WriteString(styleHeader.Render(truncate(t.Title, width)))
	if len(t.Rows) == 0 {
		return b.String()
	}

	maxVisible := height - 1
	if maxVisible < 1 {
		maxVisible = 1
	}
	start, end := visibleRange(offset, len(t.Rows), maxVisible)
	for i := start; i < end; i++ {
		cells := t.Rows[i].Cells
		line := styleMapStop.Render(runewidth.FillRight(cells[0], 8)) + " " + truncate(cells[1], width-9)
		b.WriteString("\n")
		b.WriteString(line)
	}
	return b.String()
}

// --- Bus arrivals ---

func (m Model) renderArrivalsBody(height int) string {
	width := m.width - 2
	var parts []string

	if m.stop != nil && len(m.stop.Services) > 0 {
		parts = append(parts, m.renderServiceBar())
	}
	used := 0
	for _, p := range parts {
		used += lipgloss.Height(p)
	}
	inner := height - used - 2
	if inner < 3 {
		inner = 3
	}

	var content string
	switch {
	case m.arrivalsLoading && m.stop == nil:
		content = m.spinner.View() + styleLoading.Render(" Consultando parada "+m.stopCode+"...")
	case m.arrivalsErr != nil:
		content = styleError.Render(display.UserMessage(m.arrivalsErr, display.MsgArrivalsError))
	case m.stop == nil:
		content = styleMuted.Render("Ingresa el código de tu parada y presiona Enter")
	default:
		content = renderResultTable(display.ArrivalsTable(m.visibleStop()), m.arrivalsScroll, width-2, inner)
		if m.arrivalsLoading {
			content = m.spinner.View() + styleLoading.Render(" Actualizando...") + "\n" + content
		}
	}

	parts = append(parts, panel(content, m.focus == focusResults, width-2, inner))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// boardRows is the number of rows in the visible arrivals table.
func (m Model) boardRows() int {
	if m.stop == nil {
		return 0
	}
	return len(display.ArrivalsTable(m.visibleStop()).Rows)
}

// --- Charge points ---

func (m Model) renderBipBody(height int) string {
	inner := height - 2
	if len(m.candidates) > 1 {
		leftWidth, rightWidth := m.splitWidths()
		left := panel(m.renderCandidates(leftWidth, inner), m.focus == focusList, leftWidth, inner)
		right := panel(m.renderPoints(rightWidth, inner), m.focus == focusResults, rightWidth, inner)
		return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	}
	width := m.width - 4
	return panel(m.renderPoints(width, inner), m.focus == focusResults, width, inner)
}

func (m Model) renderCandidates(width, height int) string {
	var b strings.Builder
	b.WriteString(styleHeader.Render("DIRECCIONES"))

	maxVisible := height - 2
	if maxVisible < 1 {
		maxVisible = 1
	}
	start, end := visibleRange(m.candidateIdx, len(m.candidates), maxVisible)
	for i := start; i < end; i++ {
		addr := truncate(m.candidates[i].Address, width-4)
		b.WriteString("\n")
		switch {
		case i == m.candidateIdx && m.focus == focusList:
			b.WriteString(styleSelected.Render(" > " + addr))
		case m.origin != nil && m.candidates[i] == *m.origin:
			b.WriteString(styleService.Render(" * " + addr))
		default:
			b.WriteString("   " + addr)
		}
	}
	return b.String()
}

func (m Model) renderPoints(width, height int) string {
	switch {
	case m.geocoding:
		return m.spinner.View() + styleLoading.Render(" Buscando dirección...")
	case m.pointsLoading:
		return m.spinner.View() + styleLoading.Render(" Buscando puntos de carga...")
	case m.bipErr != nil:
		fallback := display.MsgChargePointsError
		if m.origin == nil {
			fallback = display.MsgGeocodeError
		}
		return styleError.Render(display.UserMessage(m.bipErr, fallback))
	case m.origin == nil:
		if len(m.candidates) > 1 {
			return styleMuted.Render("Elige una dirección de la lista")
		}
		return styleMuted.Render("Ingresa una dirección y presiona Enter")
	}

	origin := styleMuted.Render(truncate("Cerca de: "+originLabel(m.origin), width))
	return origin + "\n" + renderResultTable(display.ChargePointsTable(m.points), m.pointsScroll, width, height-1)
}

// --- Shared ---

// renderResultTable renders a display table with lipgloss/table, showing
// at most height lines starting near offset.
func renderResultTable(t *display.Table, offset, width, height int) string {
	var b strings.Builder
	if t.Title != "" {
		b.WriteString(styleHeader.Render(t.Title))
		if t.Subtitle != "" {
			b.WriteString("  " + styleMuted.Render(t.Subtitle))
		}
		b.WriteString("\n")
		height--
	}

	if len(t.Rows) == 0 {
		empty := t.Empty
		if empty == "" {
			empty = display.MsgNoResults
		}
		b.WriteString(styleMuted.Render(empty))
		return b.String()
	}

	// Borders and header take four lines
	maxVisible := height - 4
	if maxVisible < 1 {
		maxVisible = 1
	}
	start, end := visibleRange(offset, len(t.Rows), maxVisible)
	visible := t.Rows[start:end]

	rows := make([][]string, 0, len(visible))
	for _, r := range visible {
		// Span rows fill the first two columns and leave the rest blank
		cells := make([]string, len(t.Columns))
		copy(cells, r.Cells)
		rows = append(rows, cells)
	}

	phraseCol := t.ColumnIndex(display.ColumnArrival)
	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleTableBorder).
		Headers(t.Columns...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleTableHeader
			}
			if row < 0 || row >= len(visible) {
				return styleTableCell
			}
			r := visible[row]
			switch {
			case col == 0:
				return styleTableCell.Inherit(styleService)
			case r.Span:
				return styleTableCell.Inherit(styleWarning)
			case col == phraseCol && col < len(r.Cells):
				return phraseStyle(r.Cells[col])
			}
			return styleTableCell
		})
	if width > 0 {
		tbl = tbl.Width(width)
	}

	b.WriteString(tbl.Render())
	if start > 0 || end < len(t.Rows) {
		b.WriteString("\n")
		b.WriteString(styleMuted.Render(fmt.Sprintf("%d-%d de %d", start+1, end, len(t.Rows))))
	}
	return b.String()
}

// phraseStyle colors an arrival phrase by urgency.
func phraseStyle(phrase string) lipgloss.Style {
	switch {
	case phrase == display.PhraseArriving:
		return styleTableCell.Inherit(styleArriving)
	case strings.HasPrefix(phrase, display.PhraseSoonPrefix):
		return styleTableCell.Inherit(styleSoon)
	}
	return styleTableCell
}

// renderStatusBar renders context-aware keyboard hints at the bottom.
func (m Model) renderStatusBar() string {
	var hints string
	switch {
	case m.screen == screenHome:
		hints = "j/k:navegar  Enter:abrir  1-3:ir  q:salir"
	case m.focus == focusInput && m.screen == screenRoutes:
		hints = "Escribe para filtrar  Enter:ver  Tab:lista  Esc:volver  Ctrl+C:salir"
	case m.focus == focusInput:
		hints = "Enter:buscar  Tab:resultados  Esc:borrar/volver  Ctrl+C:salir"
	case m.focus == focusList && m.screen == screenRoutes:
		hints = "j/k:navegar  Enter:ver en mapa  Tab:paradas  /:filtrar  q:salir"
	case m.focus == focusList:
		hints = "j/k:navegar  Enter:elegir  Tab:siguiente  Esc:buscar  q:salir"
	case m.focus == focusChips:
		hints = "h/l:mover  Espacio:mostrar/ocultar  r:actualizar  a:auto  Tab:tabla  q:salir"
	case m.focus == focusResults && m.screen == screenArrivals:
		hints = "j/k:desplazar  r:actualizar  a:auto  Tab:buscar  Esc:servicios  q:salir"
	case m.focus == focusResults:
		hints = "j/k:desplazar  Tab:buscar  Esc:atrás  q:salir"
	}

	return styleStatusBar.Width(m.width).Render(" " + hints)
}

// visibleRange calculates the start and end indices for a scrollable list.
func visibleRange(cursor, total, maxVisible int) (int, int) {
	if total <= maxVisible {
		return 0, total
	}

	start := cursor - maxVisible/2
	if start < 0 {
		start = 0
	}
	end := start + maxVisible
	if end > total {
		end = total
		start = end - maxVisible
		if start < 0 {
			start = 0
		}
	}
	return start, end
}

// truncate truncates a string to the given display width.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}
