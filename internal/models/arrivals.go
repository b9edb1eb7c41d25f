package models

import "strings"

// StopArrivals is the real-time board for a single bus stop
type StopArrivals struct {
	StopCode string       `json:"stopCode"`
	Name     string       `json:"name"`
	Services []BusService `json:"services"`
}

// BusService is one route serving the stop
type BusService struct {
	ServiceID         string       `json:"serviceId"`
	Valid             bool         `json:"valid"`
	StatusDescription string       `json:"statusDescription,omitempty"`
	Buses             []BusArrival `json:"buses"`
}

// BusArrival is one vehicle approaching the stop
type BusArrival struct {
	BusID             string `json:"busId"`
	MinArrivalMinutes int    `json:"minArrivalMinutes"`
	MaxArrivalMinutes int    `json:"maxArrivalMinutes"`
	MetersDistance    int    `json:"metersDistance"`
}

// StopArrivalsResponse represents the raw JSON returned by the arrivals API.
// StatusCode 0 means success; anything else is an application error whose
// StatusDescription is meant for the rider.
type StopArrivalsResponse struct {
	StatusCode        int               `json:"status_code"`
	StatusDescription string            `json:"status_description"`
	Name              string            `json:"name"`
	ID                string            `json:"id"`
	Services          []ServiceResponse `json:"services"`
}

// ServiceResponse represents a raw service entry
type ServiceResponse struct {
	ID                string        `json:"id"`
	Valid             bool          `json:"valid"`
	StatusDescription string        `json:"status_description"`
	Buses             []BusResponse `json:"buses"`
}

// BusResponse represents a raw bus entry
type BusResponse struct {
	ID             string `json:"id"`
	MinArrivalTime int    `json:"min_arrival_time"`
	MaxArrivalTime int    `json:"max_arrival_time"`
	MetersDistance int    `json:"meters_distance"`
}

// OK reports whether the payload is a success response
func (r *StopArrivalsResponse) OK() bool {
	return r.StatusCode == 0
}

// ToStopArrivals converts the raw response to a StopArrivals.
// The requested code is used when the payload omits its own id.
func (r *StopArrivalsResponse) ToStopArrivals(requestedCode string) *StopArrivals {
	code := strings.TrimSpace(r.ID)
	if code == "" {
		code = requestedCode
	}

	services := make([]BusService, 0, len(r.Services))
	for _, s := range r.Services {
		buses := make([]BusArrival, 0, len(s.Buses))
		for _, b := range s.Buses {
			buses = append(buses, BusArrival{
				BusID:             b.ID,
				MinArrivalMinutes: b.MinArrivalTime,
				MaxArrivalMinutes: b.MaxArrivalTime,
				MetersDistance:    b.MetersDistance,
			})
		}
		services = append(services, BusService{
			ServiceID:         s.ID,
			Valid:             s.Valid,
			StatusDescription: s.StatusDescription,
			Buses:             buses,
		})
	}

	return &StopArrivals{
		StopCode: code,
		Name:     r.Name,
		Services: services,
	}
}
