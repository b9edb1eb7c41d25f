package models

import (
	"encoding/json"
	"testing"
)

func TestChargePointResponse_ToChargePoint(t *testing.T) {
	raw := `[
		{"id": 1, "name": " Metro Baquedano ", "direccion": "Av. Providencia 2", "comuna": "Providencia", "horarios": ["L-V 06:00-23:00", " "], "distancia": 0.25},
		{"id": "b-2", "name": "Kiosko", "direccion": "Alameda 100", "comuna": "Santiago", "horarios": null, "distancia": 0.1}
	]`

	var resp []ChargePointResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	first := resp[0].ToChargePoint()
	if first.ID != "1" {
		t.Errorf("ID = %q, want 1", first.ID)
	}
	if first.Name != "Metro Baquedano" {
		t.Errorf("Name = %q", first.Name)
	}
	if first.Address != "Av. Providencia 2" || first.Comuna != "Providencia" {
		t.Errorf("address fields = %q / %q", first.Address, first.Comuna)
	}
	if len(first.Schedule) != 1 || !first.HasSchedule() {
		t.Errorf("Schedule = %v, want one non-blank entry", first.Schedule)
	}
	if first.DistanceKm != 0.25 {
		t.Errorf("DistanceKm = %v", first.DistanceKm)
	}

	second := resp[1].ToChargePoint()
	if second.ID != "b-2" {
		t.Errorf("ID = %q, want b-2", second.ID)
	}
	if second.HasSchedule() {
		t.Error("null horarios should have no schedule")
	}
	if second.Schedule == nil {
		t.Error("Schedule should be an empty slice, not nil")
	}
}

func TestFlexibleID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`42`, "42"},
		{`"42"`, "42"},
		{`"abc"`, "abc"},
		{`null`, ""},
		{`1.5`, "1.5"},
	}

	for _, tt := range tests {
		var id FlexibleID
		if err := json.Unmarshal([]byte(tt.in), &id); err != nil {
			t.Errorf("Unmarshal(%s) error = %v", tt.in, err)
			continue
		}
		if string(id) != tt.want {
			t.Errorf("Unmarshal(%s) = %q, want %q", tt.in, id, tt.want)
		}
	}

	var id FlexibleID
	if err := json.Unmarshal([]byte(`{}`), &id); err == nil {
		t.Error("Unmarshal({}) should fail")
	}
}
