package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/red-movilidad/red-cli/internal/api"
)

// submitStop validates the input and requests the board. An empty code is
// rejected without a request and clears the previous board.
func (m Model) submitStop() (tea.Model, tea.Cmd) {
	code := api.NormalizeStopCode(m.stopInput.Value())
	m.arrivalsSeq++
	if code == "" {
		m.stop = nil
		m.stopCode = ""
		m.arrivalsLoading = false
		m.arrivalsErr = api.NewValidationError("stopCode", api.MsgInvalidStopCode)
		return m, nil
	}

	m.stopInput.SetValue(code)
	m.stopCode = code
	m.arrivalsLoading = true
	m.arrivalsErr = nil
	return m, fetchArrivals(m.client, code, m.arrivalsSeq)
}

func (m Model) handleArrivalsResult(msg arrivalsResultMsg) (tea.Model, tea.Cmd) {
	// Ignore stale results
	if msg.seq != m.arrivalsSeq {
		return m, nil
	}
	m.arrivalsLoading = false
	m.arrivalsErr = msg.err
	if msg.err != nil {
		m.stop = nil
		return m, nil
	}

	if m.stop == nil || m.stop.StopCode != msg.stop.StopCode {
		m.hiddenServices = make(map[string]bool)
		m.chipCursor = 0
		m.arrivalsScroll = 0
	}
	m.stop = msg.stop
	m.chipCursor = clamp(m.chipCursor, len(m.stop.Services))
	m.lastUpdate = refreshedAt()
	return m, nil
}

func (m Model) handleArrivalsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.focus {
	case focusChips:
		return m.handleChipKeys(msg)
	case focusResults:
		return m.handleBoardKeys(msg)
	}

	switch msg.String() {
	case "esc":
		return m.handleInputEsc()

	case "enter":
		return m.submitStop()

	case "tab":
		if m.stop != nil && len(m.stop.Services) > 0 {
			return m, m.focusOn(focusChips)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.stopInput, cmd = m.stopInput.Update(msg)
	return m, cmd
}

// handleBoardCommon handles the keys shared by the chips and the board.
func (m Model) handleBoardCommon(key string) (tea.Model, tea.Cmd, bool) {
	switch key {
	case "q":
		return m, tea.Quit, true

	case "/":
		return m, m.focusOn(focusInput), true

	case "r":
		if m.stopCode == "" {
			return m, nil, true
		}
		m.arrivalsSeq++
		m.arrivalsLoading = true
		return m, fetchArrivals(m.client, m.stopCode, m.arrivalsSeq), true

	case "a":
		m.autoRefresh = !m.autoRefresh
		if m.autoRefresh {
			m.lastUpdate = refreshedAt()
			return m, tea.Batch(autoRefreshTick(), countdownTick()), true
		}
		return m, nil, true
	}
	return m, nil, false
}

func (m Model) handleChipKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if next, cmd, ok := m.handleBoardCommon(msg.String()); ok {
		return next, cmd
	}

	services := m.services()
	switch msg.String() {
	case "h", "left":
		if m.chipCursor > 0 {
			m.chipCursor--
		}
	case "l", "right":
		if m.chipCursor < len(services)-1 {
			m.chipCursor++
		}
	case " ", "enter":
		if len(services) > 0 {
			id := services[clamp(m.chipCursor, len(services))]
			m.hiddenServices[id] = !m.hiddenServices[id]
			m.arrivalsScroll = 0
		}
	case "esc", "shift+tab":
		return m, m.focusOn(focusInput)
	case "tab":
		return m, m.focusOn(focusResults)
	}
	return m, nil
}

func (m Model) handleBoardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if next, cmd, ok := m.handleBoardCommon(msg.String()); ok {
		return next, cmd
	}
	if c, ok := moveCursor(msg.String(), m.arrivalsScroll, m.boardRows(), m.pageSize()); ok {
		m.arrivalsScroll = c
		return m, nil
	}

	switch msg.String() {
	case "esc", "shift+tab":
		return m, m.focusOn(focusChips)
	case "tab":
		return m, m.focusOn(focusInput)
	}
	return m, nil
}
