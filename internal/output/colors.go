// Package output renders display results on a terminal.
package output

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/red-movilidad/red-cli/internal/display"
)

// ColorMode represents the color output mode
type ColorMode int

const (
	// ColorAuto enables colors if output is a TTY
	ColorAuto ColorMode = iota
	// ColorAlways forces colors on
	ColorAlways
	// ColorNever disables colors
	ColorNever
)

// Colors holds the color functions for different output types
type Colors struct {
	Title    func(format string, a ...interface{}) string
	Header   func(format string, a ...interface{}) string
	Service  func(format string, a ...interface{}) string
	Arriving func(format string, a ...interface{}) string
	Soon     func(format string, a ...interface{}) string
	Later    func(format string, a ...interface{}) string
	Warning  func(format string, a ...interface{}) string
	Error    func(format string, a ...interface{}) string
	Path     func(format string, a ...interface{}) string
	Marker   func(format string, a ...interface{}) string
	Muted    func(format string, a ...interface{}) string
}

// NewColors creates a new Colors instance based on the color mode
func NewColors(mode ColorMode) *Colors {
	useColors := false
	switch mode {
	case ColorAlways:
		useColors = true
		color.NoColor = false
	case ColorNever:
		useColors = false
	case ColorAuto:
		useColors = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}

	if !useColors {
		noColor := func(format string, a ...interface{}) string {
			if len(a) == 0 {
				return format
			}
			return fmt.Sprintf(format, a...)
		}
		return &Colors{
			Title:    noColor,
			Header:   noColor,
			Service:  noColor,
			Arriving: noColor,
			Soon:     noColor,
			Later:    noColor,
			Warning:  noColor,
			Error:    noColor,
			Path:     noColor,
			Marker:   noColor,
			Muted:    noColor,
		}
	}

	return &Colors{
		Title:    color.New(color.FgWhite, color.Bold).SprintfFunc(),
		Header:   color.New(color.FgHiBlack, color.Underline).SprintfFunc(),
		Service:  color.New(color.FgRed, color.Bold).SprintfFunc(),
		Arriving: color.New(color.FgGreen, color.Bold).SprintfFunc(),
		Soon:     color.New(color.FgYellow).SprintfFunc(),
		Later:    color.New(color.FgWhite).SprintfFunc(),
		Warning:  color.New(color.FgYellow).SprintfFunc(),
		Error:    color.New(color.FgRed, color.Bold).SprintfFunc(),
		Path:     color.New(color.FgRed).SprintfFunc(),
		Marker:   color.New(color.FgCyan, color.Bold).SprintfFunc(),
		Muted:    color.New(color.FgHiBlack).SprintfFunc(),
	}
}

// FormatPhrase colors an arrival phrase by urgency
func (c *Colors) FormatPhrase(phrase string) string {
	switch {
	case phrase == "":
		return phrase
	case phrase == display.PhraseArriving:
		return c.Arriving("%s", phrase)
	case strings.HasPrefix(phrase, display.PhraseSoonPrefix):
		return c.Soon("%s", phrase)
	default:
		return c.Later("%s", phrase)
	}
}

// ParseColorMode parses a color mode string
func ParseColorMode(s string) ColorMode {
	switch s {
	case "always":
		return ColorAlways
	case "never":
		return ColorNever
	default:
		return ColorAuto
	}
}
