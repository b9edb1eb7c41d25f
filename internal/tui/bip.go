package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/red-movilidad/red-cli/internal/api"
	"github.com/red-movilidad/red-cli/internal/models"
)

// submitAddress geocodes the input. Results and candidates of the previous
// search are cleared.
func (m Model) submitAddress() (tea.Model, tea.Cmd) {
	address := strings.TrimSpace(m.addressInput.Value())
	m.geocodeSeq++
	m.pointsSeq++
	m.candidates = nil
	m.candidateIdx = 0
	m.origin = nil
	m.points = nil
	m.pointsLoading = false
	m.pointsScroll = 0

	if address == "" {
		m.geocoding = false
		m.bipErr = api.NewValidationError("address", "Por favor, ingrese una dirección.")
		return m, nil
	}
	m.geocoding = true
	m.bipErr = nil
	return m, geocode(m.client, address, m.geocodeSeq)
}

func (m Model) handleGeocodeResult(msg geocodeResultMsg) (tea.Model, tea.Cmd) {
	// Ignore stale results
	if msg.seq != m.geocodeSeq {
		return m, nil
	}
	m.geocoding = false
	m.bipErr = msg.err
	if msg.err != nil {
		return m, nil
	}
	m.candidates = msg.locations
	m.candidateIdx = 0

	// A single candidate needs no choice
	if len(m.candidates) == 1 {
		return m.selectCandidate(0)
	}
	if len(m.candidates) > 1 {
		return m, m.focusOn(focusList)
	}
	return m, nil
}

// selectCandidate requests the charge points around one geocoder candidate.
func (m Model) selectCandidate(i int) (tea.Model, tea.Cmd) {
	loc := m.candidates[i]
	m.candidateIdx = i
	m.origin = &loc
	m.pointsSeq++
	m.pointsLoading = true
	m.points = nil
	m.pointsScroll = 0
	m.bipErr = nil
	return m, fetchChargePoints(m.client, loc, m.pointsSeq)
}

func (m Model) handleChargePointsResult(msg chargePointsResultMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.pointsSeq {
		return m, nil
	}
	m.pointsLoading = false
	m.bipErr = msg.err
	if msg.err != nil {
		m.points = nil
		return m, nil
	}
	m.points = msg.points
	if len(m.points) > 0 {
		return m, m.focusOn(focusResults)
	}
	return m, nil
}

func (m Model) handleBipKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.focus {
	case focusList:
		return m.handleCandidateKeys(msg)
	case focusResults:
		return m.handlePointsKeys(msg)
	}

	switch msg.String() {
	case "esc":
		return m.handleInputEsc()

	case "enter":
		return m.submitAddress()

	case "tab":
		switch {
		case len(m.candidates) > 1:
			return m, m.focusOn(focusList)
		case len(m.points) > 0:
			return m, m.focusOn(focusResults)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.addressInput, cmd = m.addressInput.Update(msg)
	return m, cmd
}

func (m Model) handleCandidateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if c, ok := moveCursor(msg.String(), m.candidateIdx, len(m.candidates), m.pageSize()); ok {
		m.candidateIdx = c
		return m, nil
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc", "/", "shift+tab":
		return m, m.focusOn(focusInput)
	case "tab":
		if len(m.points) > 0 {
			return m, m.focusOn(focusResults)
		}
		return m, m.focusOn(focusInput)
	case "enter":
		if len(m.candidates) > 0 {
			return m.selectCandidate(clamp(m.candidateIdx, len(m.candidates)))
		}
	}
	return m, nil
}

func (m Model) handlePointsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if c, ok := moveCursor(msg.String(), m.pointsScroll, len(m.points), m.pageSize()); ok {
		m.pointsScroll = c
		return m, nil
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc", "shift+tab":
		if len(m.candidates) > 1 {
			return m, m.focusOn(focusList)
		}
		return m, m.focusOn(focusInput)
	case "tab", "/":
		return m, m.focusOn(focusInput)
	}
	return m, nil
}

// originLabel describes the location the charge points are ranked around.
func originLabel(loc *models.GeoLocation) string {
	if loc == nil {
		return ""
	}
	return loc.Address
}
