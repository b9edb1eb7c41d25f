package display

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/red-movilidad/red-cli/internal/models"
)

func TestArrivalPhrase(t *testing.T) {
	tests := []struct {
		name   string
		min    int
		max    int
		meters int
		want   string
		ok     bool
	}{
		{"range phrase", 3, 7, 1200, "3 y 7 min", true},
		{"range wins over arriving", 1, 5, 100, "1 y 5 min", true},
		{"arriving", 0, 3, 300, PhraseArriving, true},
		{"arriving with min above zero", 2, 3, 500, PhraseArriving, true},
		{"less than, rule 2 needs max <= 3", 0, 4, 300, "Menos de 4 min", true},
		{"less than when far", 0, 3, 800, "Menos de 3 min", true},
		{"less than at five", 0, 5, 2000, "Menos de 5 min", true},
		{"fallback max only", 0, 9, 4000, "9 min", true},
		{"uncovered window", 2, 4, 800, "", false},
		{"uncovered min without range", 1, 4, 501, "", false},
		{"uncovered negative min", -1, 9, 4000, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ArrivalPhrase(models.BusArrival{
				MinArrivalMinutes: tt.min,
				MaxArrivalMinutes: tt.max,
				MetersDistance:    tt.meters,
			})
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestArrivalPhrase_Deterministic(t *testing.T) {
	bus := models.BusArrival{MinArrivalMinutes: 0, MaxArrivalMinutes: 2, MetersDistance: 120}
	first, _ := ArrivalPhrase(bus)
	for i := 0; i < 10; i++ {
		got, _ := ArrivalPhrase(bus)
		assert.Equal(t, first, got)
	}
}

func TestFormatMeters(t *testing.T) {
	assert.Equal(t, "250.00 m", FormatMeters(0.25))
	assert.Equal(t, "0.00 m", FormatMeters(0))
	assert.Equal(t, "1234.57 m", FormatMeters(1.234567))
}

func TestScheduleText(t *testing.T) {
	assert.Equal(t, NotAvailable, ScheduleText(nil))
	assert.Equal(t, NotAvailable, ScheduleText([]string{}))
	assert.Equal(t, "L-V 08:00-20:00, S 09:00-14:00", ScheduleText([]string{"L-V 08:00-20:00", "S 09:00-14:00"}))
}

func TestBusDistance(t *testing.T) {
	assert.Equal(t, "1200 mts.", BusDistance(1200))
}
