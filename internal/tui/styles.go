package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Colors matching output/colors.go
var (
	colorRed    = lipgloss.Color("1")  // Red - brand, services, route path
	colorGreen  = lipgloss.Color("2")  // Green - arriving buses
	colorYellow = lipgloss.Color("3")  // Yellow - imminent buses, warnings
	colorCyan   = lipgloss.Color("6")  // Cyan - focus, stop markers
	colorWhite  = lipgloss.Color("15") // White - text
	colorGray   = lipgloss.Color("8")  // Gray - muted text
)

// Text styles
var (
	styleService  = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	styleArriving = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	styleSoon     = lipgloss.NewStyle().Foreground(colorYellow)
	styleWarning  = lipgloss.NewStyle().Foreground(colorYellow).Italic(true)
	styleMuted    = lipgloss.NewStyle().Foreground(colorGray)
	styleHeader   = lipgloss.NewStyle().Foreground(colorWhite).Bold(true)
)

// Panel border styles
var (
	stylePanelFocused = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorCyan)

	stylePanelNormal = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorGray)
)

// Selected item in a list
var styleSelected = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)

// Home card for the highlighted entry
var styleCardFocused = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorRed).
	Padding(0, 2)

var styleCardNormal = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorGray).
	Padding(0, 2)

// Focused chip cursor - reverse-video style
var styleChipCursor = lipgloss.NewStyle().
	Foreground(lipgloss.Color("0")).
	Background(colorCyan).
	Bold(true)

// Status bar at the bottom
var styleStatusBar = lipgloss.NewStyle().
	Foreground(colorGray).
	Background(lipgloss.Color("0"))

// Loading indicator
var styleLoading = lipgloss.NewStyle().Foreground(colorYellow).Italic(true)

// Error panel
var styleError = lipgloss.NewStyle().
	Foreground(colorRed).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(colorRed).
	PaddingLeft(1)

// Logo/brand style
var styleLogo = lipgloss.NewStyle().Foreground(colorRed).Bold(true)

// Map cell styles
var (
	styleMapPath   = lipgloss.NewStyle().Foreground(colorRed)
	styleMapStop   = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
	styleMapCenter = lipgloss.NewStyle().Foreground(colorGray)
)

// Table cell styles
var (
	styleTableHeader = lipgloss.NewStyle().Foreground(colorWhite).Bold(true).Padding(0, 1)
	styleTableCell   = lipgloss.NewStyle().Padding(0, 1)
	styleTableBorder = lipgloss.NewStyle().Foreground(colorGray)
)
