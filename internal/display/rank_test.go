package display

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/red-movilidad/red-cli/internal/models"
)

func ids(points []models.ChargePoint) []string {
	out := make([]string, 0, len(points))
	for _, p := range points {
		out = append(out, p.ID)
	}
	return out
}

func TestRankChargePoints_ScheduleOutranksDistance(t *testing.T) {
	points := []models.ChargePoint{
		{ID: "1", DistanceKm: 0.25, Schedule: []string{}},
		{ID: "2", DistanceKm: 0.10, Schedule: []string{"08:00-20:00"}},
	}

	assert.Equal(t, []string{"2", "1"}, ids(RankChargePoints(points)))
}

func TestRankChargePoints_FiltersNegativeDistance(t *testing.T) {
	points := []models.ChargePoint{
		{ID: "a", DistanceKm: -1},
		{ID: "b", DistanceKm: 0},
		{ID: "c", DistanceKm: math.NaN()},
		{ID: "d", DistanceKm: 0.3},
	}

	assert.Equal(t, []string{"b", "d"}, ids(RankChargePoints(points)))
}

func TestRankChargePoints_GroupsThenDistance(t *testing.T) {
	sched := []string{"L-V 09:00-18:00"}
	points := []models.ChargePoint{
		{ID: "n1", DistanceKm: 0.05},
		{ID: "s1", DistanceKm: 0.90, Schedule: sched},
		{ID: "n2", DistanceKm: 0.01},
		{ID: "s2", DistanceKm: 0.20, Schedule: sched},
		{ID: "s3", DistanceKm: 0.50, Schedule: sched},
	}

	ranked := RankChargePoints(points)
	require.Len(t, ranked, 5)
	assert.Equal(t, []string{"s2", "s3", "s1", "n2", "n1"}, ids(ranked))

	seenEmpty := false
	for i, p := range ranked {
		if !p.HasSchedule() {
			seenEmpty = true
		} else {
			assert.False(t, seenEmpty, "scheduled point %s after an unscheduled one", p.ID)
		}
		if i > 0 && ranked[i-1].HasSchedule() == p.HasSchedule() {
			assert.LessOrEqual(t, ranked[i-1].DistanceKm, p.DistanceKm)
		}
	}
}

func TestRankChargePoints_Stable(t *testing.T) {
	points := []models.ChargePoint{
		{ID: "first", DistanceKm: 0.4},
		{ID: "near", DistanceKm: 0.1},
		{ID: "second", DistanceKm: 0.4},
		{ID: "third", DistanceKm: 0.4},
	}

	assert.Equal(t, []string{"near", "first", "second", "third"}, ids(RankChargePoints(points)))
}

func TestRankChargePoints_DoesNotMutateInput(t *testing.T) {
	points := []models.ChargePoint{
		{ID: "x", DistanceKm: 0.9},
		{ID: "y", DistanceKm: 0.1},
	}

	_ = RankChargePoints(points)
	assert.Equal(t, []string{"x", "y"}, ids(points))
}

func TestRankChargePoints_Empty(t *testing.T) {
	assert.Empty(t, RankChargePoints(nil))
}

func TestOrderServices(t *testing.T) {
	services := []models.BusService{
		{ServiceID: "D09", Valid: false},
		{ServiceID: "506", Valid: true},
		{ServiceID: "210", Valid: false},
		{ServiceID: "C01", Valid: true},
	}

	ordered := OrderServices(services)

	got := make([]string, 0, len(ordered))
	for _, s := range ordered {
		got = append(got, s.ServiceID)
	}
	assert.Equal(t, []string{"506", "C01", "D09", "210"}, got)
	assert.Equal(t, "D09", services[0].ServiceID, "input must stay untouched")
}

func TestOrderStop(t *testing.T) {
	stop := &models.StopArrivals{
		StopCode: "PA433",
		Name:     "Parada 1 / Alameda",
		Services: []models.BusService{
			{ServiceID: "D09", Valid: false, StatusDescription: "Fuera de horario"},
			{ServiceID: "506", Valid: true},
		},
	}

	ordered := OrderStop(stop)
	require.NotNil(t, ordered)
	assert.Equal(t, "PA433", ordered.StopCode)
	assert.Equal(t, "506", ordered.Services[0].ServiceID)
	assert.Equal(t, "D09", ordered.Services[1].ServiceID)
	assert.Equal(t, "D09", stop.Services[0].ServiceID, "input must stay untouched")

	assert.Nil(t, OrderStop(nil))
}
