package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// renderServiceBar renders the service chips of the current board next to
// the auto-refresh chip. A chip is active while its service is shown.
func (m Model) renderServiceBar() string {
	services := m.services()
	chips := make([]string, 0, len(services))
	for i, id := range services {
		focused := m.focus == focusChips && m.chipCursor == i
		chips = append(chips, m.renderChip(id, !m.hiddenServices[id], focused))
	}

	chipsBorder := stylePanelNormal
	if m.focus == focusChips {
		chipsBorder = stylePanelFocused
	}
	chipsBox := chipsBorder.Render(strings.Join(chips, " "))
	refreshBox := stylePanelNormal.Render(m.renderChip("Auto 30s", m.autoRefresh, false))

	boxes := lipgloss.JoinHorizontal(lipgloss.Top, chipsBox, refreshBox)

	// Last update line above the boxes
	if !m.lastUpdate.IsZero() {
		updateText := "  Actualizado:\t" + m.lastUpdate.Format("15:04:05")

		// Add countdown if auto-refresh is enabled
		if m.autoRefresh {
			remaining := autoRefreshInterval - time.Since(m.lastUpdate)
			if remaining < 0 {
				remaining = 0
			}
			updateText += fmt.Sprintf("\t(actualiza en %ds)", int(remaining.Seconds()))
		}
		return styleMuted.Render(updateText) + "\n" + boxes
	}

	return boxes
}

// renderChip renders a single chip with cursor highlighting.
func (m Model) renderChip(label string, active bool, focused bool) string {
	if focused {
		if active {
			return styleChipCursor.Render("[" + label + "]")
		}
		return styleChipCursor.Render(" " + label + " ")
	}
	if active {
		return styleService.Render("[" + label + "]")
	}
	return styleMuted.Render(" " + label + " ")
}
