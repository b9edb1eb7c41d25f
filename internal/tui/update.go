package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles all messages and key events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case routesResultMsg:
		return m.handleRoutesResult(msg)

	case routePathMsg:
		return m.handleRoutePath(msg)

	case routeStopsMsg:
		return m.handleRouteStops(msg)

	case arrivalsResultMsg:
		return m.handleArrivalsResult(msg)

	case geocodeResultMsg:
		return m.handleGeocodeResult(msg)

	case chargePointsResultMsg:
		return m.handleChargePointsResult(msg)

	case autoRefreshTickMsg:
		return m.handleAutoRefreshTick()

	case countdownTickMsg:
		return m.handleCountdownTick()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// Pass remaining messages to the text input when focused
	if in := m.activeInput(); in != nil && m.focus == focusInput {
		var cmd tea.Cmd
		*in, cmd = in.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.screen {
	case screenRoutes:
		return m.handleRoutesKeys(msg)
	case screenArrivals:
		return m.handleArrivalsKeys(msg)
	case screenBip:
		return m.handleBipKeys(msg)
	}
	return m.handleHomeKeys(msg)
}

func (m Model) handleHomeKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit

	case "j", "down", "tab":
		if m.homeCursor < len(homeEntries)-1 {
			m.homeCursor++
		}
		return m, nil

	case "k", "up", "shift+tab":
		if m.homeCursor > 0 {
			m.homeCursor--
		}
		return m, nil

	case "1", "2", "3":
		m.homeCursor = int(msg.String()[0] - '1')
		return m.enterScreen(homeEntries[m.homeCursor].screen)

	case "enter":
		return m.enterScreen(homeEntries[m.homeCursor].screen)
	}
	return m, nil
}

// enterScreen switches to a view and focuses its input. The route
// catalogue is loaded the first time the route view opens.
func (m Model) enterScreen(s screen) (tea.Model, tea.Cmd) {
	m.screen = s
	m.focus = focusInput
	in := m.activeInput()
	cmd := in.Focus()

	if s == screenRoutes && !m.routesLoaded && !m.routesLoading {
		m.routesSeq++
		m.routesLoading = true
		m.routesErr = nil
		return m, tea.Batch(cmd, fetchRoutes(m.client, m.routesSeq))
	}
	return m, cmd
}

// goHome returns to the landing page. View state is kept so that
// re-entering a view shows what was there.
func (m Model) goHome() (tea.Model, tea.Cmd) {
	if in := m.activeInput(); in != nil {
		in.Blur()
	}
	m.screen = screenHome
	m.focus = focusInput
	return m, nil
}

// handleInputEsc clears a non-empty input, otherwise leaves the view.
func (m Model) handleInputEsc() (tea.Model, tea.Cmd) {
	in := m.activeInput()
	if in.Value() != "" {
		in.SetValue("")
		return m, nil
	}
	return m.goHome()
}

// focusOn moves focus to a panel, blurring or focusing the input.
func (m *Model) focusOn(p focusPanel) tea.Cmd {
	m.focus = p
	in := m.activeInput()
	if p == focusInput {
		return in.Focus()
	}
	in.Blur()
	return nil
}

func (m Model) handleAutoRefreshTick() (tea.Model, tea.Cmd) {
	if !m.autoRefresh {
		return m, nil
	}
	cmds := []tea.Cmd{autoRefreshTick()}
	if m.stopCode != "" && !m.arrivalsLoading {
		m.arrivalsSeq++
		m.arrivalsLoading = true
		cmds = append(cmds, fetchArrivals(m.client, m.stopCode, m.arrivalsSeq))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleCountdownTick() (tea.Model, tea.Cmd) {
	if !m.autoRefresh {
		return m, nil
	}
	return m, countdownTick()
}

// pageSize is the number of rows a page key moves.
func (m Model) pageSize() int {
	size := m.height - 12
	if size < 1 {
		size = 10
	}
	return size
}

// moveCursor applies a navigation key to a cursor over n items.
// It reports false when the key is not a navigation key.
func moveCursor(key string, cursor, n, page int) (int, bool) {
	switch key {
	case "j", "down":
		cursor++
	case "k", "up":
		cursor--
	case "pgdown":
		cursor += page
	case "pgup":
		cursor -= page
	case "home":
		cursor = 0
	case "end":
		cursor = n - 1
	default:
		return cursor, false
	}
	return clamp(cursor, n), true
}

// clamp keeps a cursor inside [0, n).
func clamp(cursor, n int) int {
	if cursor >= n {
		cursor = n - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	return cursor
}

// refreshedAt is overridden in tests.
var refreshedAt = time.Now
