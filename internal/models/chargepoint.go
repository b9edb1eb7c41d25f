package models

import (
	"bytes"
	"encoding/json"
	"strings"
)

// ChargePoint is a place where a fare card can be topped up
type ChargePoint struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Address    string   `json:"address"`
	Comuna     string   `json:"comuna"`
	Schedule   []string `json:"schedule"`
	DistanceKm float64  `json:"distanceKm"`
}

// HasSchedule reports whether at least one opening-hours entry is known
func (c ChargePoint) HasSchedule() bool {
	return len(c.Schedule) > 0
}

// FlexibleID accepts both JSON numbers and strings.
// The point-of-sale API is not consistent about it.
type FlexibleID string

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexibleID(n.String())
	return nil
}

// ChargePointResponse represents a raw entry from the point-of-sale API
type ChargePointResponse struct {
	ID        FlexibleID `json:"id"`
	Name      string     `json:"name"`
	Direccion string     `json:"direccion"`
	Comuna    string     `json:"comuna"`
	Horarios  []string   `json:"horarios"`
	Distancia float64    `json:"distancia"`
}

// ToChargePoint converts the raw response to a ChargePoint
func (r *ChargePointResponse) ToChargePoint() ChargePoint {
	schedule := make([]string, 0, len(r.Horarios))
	for _, h := range r.Horarios {
		if h = strings.TrimSpace(h); h != "" {
			schedule = append(schedule, h)
		}
	}
	return ChargePoint{
		ID:         string(r.ID),
		Name:       strings.TrimSpace(r.Name),
		Address:    strings.TrimSpace(r.Direccion),
		Comuna:     strings.TrimSpace(r.Comuna),
		Schedule:   schedule,
		DistanceKm: r.Distancia,
	}
}
