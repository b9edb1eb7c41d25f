package display

import (
	"fmt"
	"strings"

	"github.com/red-movilidad/red-cli/internal/models"
)

const (
	// PhraseArriving is shown when the bus is practically at the stop
	PhraseArriving = "Llegando"

	// PhraseSoonPrefix starts the phrase for a bus due within a few minutes
	PhraseSoonPrefix = "Menos de"

	// NotAvailable replaces an empty schedule
	NotAvailable = "No disponible"
)

// ArrivalPhrase picks the human-readable arrival text for a bus.
// Rules are checked in order and the first match wins. The second return
// value is false when no rule covers the arrival window; the phrase is then
// empty and callers leave the cell blank.
func ArrivalPhrase(b models.BusArrival) (string, bool) {
	minutes, maxMinutes := b.MinArrivalMinutes, b.MaxArrivalMinutes

	switch {
	case minutes > 0 && maxMinutes >= 5:
		return fmt.Sprintf("%d y %d min", minutes, maxMinutes), true
	case b.MetersDistance <= 500 && maxMinutes <= 3:
		return PhraseArriving, true
	case minutes == 0 && maxMinutes <= 5:
		return fmt.Sprintf("%s %d min", PhraseSoonPrefix, maxMinutes), true
	case minutes == 0:
		return fmt.Sprintf("%d min", maxMinutes), true
	}
	return "", false
}

// BusDistance formats the distance of a bus to the stop
func BusDistance(meters int) string {
	return fmt.Sprintf("%d mts.", meters)
}

// FormatMeters converts kilometers to a meter string with two decimals
func FormatMeters(km float64) string {
	return fmt.Sprintf("%.2f m", km*1000)
}

// ScheduleText joins schedule entries, or returns NotAvailable when there are none
func ScheduleText(schedule []string) string {
	if len(schedule) == 0 {
		return NotAvailable
	}
	return strings.Join(schedule, ", ")
}
