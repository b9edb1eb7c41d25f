package web

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/red-movilidad/red-cli/internal/api"
	"github.com/red-movilidad/red-cli/internal/display"
	"github.com/red-movilidad/red-cli/internal/models"
)

// routeResponse is the JSON shape of one route: the map layers, the stop
// table and the per-layer errors.
type routeResponse struct {
	Status     string         `json:"status"`
	Map        *display.Map   `json:"map"`
	Stops      *display.Table `json:"stops"`
	PathError  string         `json:"pathError,omitempty"`
	StopsError string         `json:"stopsError,omitempty"`
}

// chargePointsResponse carries the ranked table and the location it was
// computed around.
type chargePointsResponse struct {
	Origin *models.GeoLocation `json:"origin,omitempty"`
	Table  *display.Table      `json:"table"`
}

func (s *Server) apiRoutes(c *gin.Context) {
	ctx, cancel := s.requestContext(c)
	defer cancel()

	routes, err := s.backend.GetRoutes(ctx)
	if err != nil {
		apiError(c, err, display.MsgRoutesError)
		return
	}
	c.JSON(http.StatusOK, display.RoutesTable(routes))
}

func (s *Server) apiRoute(c *gin.Context) {
	ctx, cancel := s.requestContext(c)
	defer cancel()

	layers := s.backend.GetRouteLayers(ctx, strings.TrimSpace(c.Param("id")))
	resp := routeResponse{
		Status: layers.Status().String(),
		Map:    display.RouteMap(layers),
		Stops:  display.RouteStopsTable(layers.RouteID, layers.Stops),
	}
	if layers.PathErr != nil {
		resp.PathError = display.UserMessage(layers.PathErr, display.MsgRoutesError)
	}
	if layers.StopsErr != nil {
		resp.StopsError = display.UserMessage(layers.StopsErr, display.MsgRoutesError)
	}

	status := http.StatusOK
	if layers.Status() == models.RouteFailed {
		status = statusFor(layers.PathErr)
	}
	c.JSON(status, resp)
}

func (s *Server) apiArrivals(c *gin.Context) {
	ctx, cancel := s.requestContext(c)
	defer cancel()

	stop, err := s.backend.GetStopArrivals(ctx, c.Param("code"))
	if err != nil {
		apiError(c, err, display.MsgArrivalsError)
		return
	}
	c.JSON(http.StatusOK, display.ArrivalsTable(stop))
}

func (s *Server) apiChargePoints(c *gin.Context) {
	ctx, cancel := s.requestContext(c)
	defer cancel()

	var origin *models.GeoLocation
	lat, lon, ok := parseCoordinates(c)
	if !ok {
		address := c.Query("address")
		if address == "" {
			apiError(c, api.NewValidationError("coordinates", "Indique lat y lon, o una dirección."), display.MsgChargePointsError)
			return
		}
		locations, err := s.backend.Geocode(ctx, address)
		if err != nil {
			apiError(c, err, display.MsgGeocodeError)
			return
		}
		origin = &locations[0]
		lat, lon = origin.Lat, origin.Lng
	}

	points, err := s.backend.GetChargePoints(ctx, lat, lon)
	if err != nil {
		apiError(c, err, display.MsgChargePointsError)
		return
	}
	c.JSON(http.StatusOK, chargePointsResponse{Origin: origin, Table: display.ChargePointsTable(points)})
}
