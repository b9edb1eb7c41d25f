package web

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/red-movilidad/red-cli/internal/api"
	"github.com/red-movilidad/red-cli/internal/display"
	"github.com/red-movilidad/red-cli/internal/models"
)

// arrivalsRefreshSeconds is the reload interval of the arrivals page.
const arrivalsRefreshSeconds = 30

func (s *Server) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), s.opts.Timeout)
}

func (s *Server) handleIndex(c *gin.Context) {
	s.renderPage(c, http.StatusOK, "index.html", s.newPage("Red Movilidad", "/"))
}

func (s *Server) handleSearchRoute(c *gin.Context) {
	ctx, cancel := s.requestContext(c)
	defer cancel()

	page := s.newPage("Busca tu recorrido", "/searchroute")
	page.Query = strings.TrimSpace(c.Query("route"))

	routes, err := s.backend.GetRoutes(ctx)
	if err != nil {
		// The lookup still works without suggestions
		log.Warn().Err(err).Msg("route catalogue unavailable")
	}
	page.Routes = routes

	if page.Query == "" {
		page.Map = display.RouteMap(nil)
		s.renderPage(c, http.StatusOK, "searchroute.html", page)
		return
	}

	layers := s.backend.GetRouteLayers(ctx, page.Query)
	status := http.StatusOK
	switch layers.Status() {
	case models.RouteFailed:
		page.Error = display.UserMessage(layers.PathErr, display.MsgRoutesError)
		status = statusFor(layers.PathErr)
	case models.RoutePartial:
		if layers.PathErr != nil {
			page.Notice = "No se pudo cargar el trazado del recorrido."
		} else {
			page.Notice = "No se pudieron cargar las paradas del recorrido."
		}
	}

	page.Map = display.RouteMap(layers)
	if layers.StopsErr == nil {
		page.Tables = []*display.Table{display.RouteStopsTable(layers.RouteID, layers.Stops)}
	}
	s.renderPage(c, status, "searchroute.html", page)
}

func (s *Server) handleSearchBus(c *gin.Context) {
	page := s.newPage("Revisa cuando llega tu bus", "/searchbus")
	raw, submitted := c.GetQuery("code")
	page.Query = api.NormalizeStopCode(raw)

	if !submitted {
		s.renderPage(c, http.StatusOK, "searchbus.html", page)
		return
	}
	if page.Query == "" {
		page.Error = api.MsgInvalidStopCode
		s.renderPage(c, http.StatusBadRequest, "searchbus.html", page)
		return
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	stop, err := s.backend.GetStopArrivals(ctx, page.Query)
	if err != nil {
		page.Error = display.UserMessage(err, display.MsgArrivalsError)
		s.renderPage(c, statusFor(err), "searchbus.html", page)
		return
	}

	page.Refresh = arrivalsRefreshSeconds
	page.Tables = []*display.Table{display.ArrivalsTable(stop)}
	s.renderPage(c, http.StatusOK, "searchbus.html", page)
}

func (s *Server) handleSearchBip(c *gin.Context) {
	page := s.newPage("Encuentra el punto de recarga bip más cercano", "/searchbip")
	address, submitted := c.GetQuery("address")
	page.Query = strings.TrimSpace(address)

	ctx, cancel := s.requestContext(c)
	defer cancel()

	// Coordinates come from a chosen candidate
	lat, lon, ok := parseCoordinates(c)
	if ok {
		page.Notice = "Cerca de: " + c.Query("label")
		s.renderChargePoints(ctx, c, page, lat, lon)
		return
	}
	if c.Query("lat") != "" || c.Query("lon") != "" {
		page.Error = "Coordenadas inválidas."
		s.renderPage(c, http.StatusBadRequest, "searchbip.html", page)
		return
	}

	if !submitted {
		s.renderPage(c, http.StatusOK, "searchbip.html", page)
		return
	}

	locations, err := s.backend.Geocode(ctx, page.Query)
	if err != nil {
		page.Error = display.UserMessage(err, display.MsgGeocodeError)
		s.renderPage(c, statusFor(err), "searchbip.html", page)
		return
	}

	if len(locations) > 1 {
		for _, loc := range locations {
			page.Candidates = append(page.Candidates, candidate{Address: loc.Address, Href: candidateHref(loc)})
		}
		s.renderPage(c, http.StatusOK, "searchbip.html", page)
		return
	}

	page.Notice = "Cerca de: " + locations[0].Address
	s.renderChargePoints(ctx, c, page, locations[0].Lat, locations[0].Lng)
}

func (s *Server) renderChargePoints(ctx context.Context, c *gin.Context, page pageData, lat, lon float64) {
	points, err := s.backend.GetChargePoints(ctx, lat, lon)
	if err != nil {
		page.Notice = ""
		page.Error = display.UserMessage(err, display.MsgChargePointsError)
		s.renderPage(c, statusFor(err), "searchbip.html", page)
		return
	}
	page.Tables = []*display.Table{display.ChargePointsTable(points)}
	s.renderPage(c, http.StatusOK, "searchbip.html", page)
}

// parseCoordinates reads lat and lon query parameters. Both must parse.
func parseCoordinates(c *gin.Context) (lat, lon float64, ok bool) {
	latStr, lonStr := c.Query("lat"), c.Query("lon")
	if latStr == "" || lonStr == "" {
		return 0, 0, false
	}
	lat, errLat := strconv.ParseFloat(latStr, 64)
	lon, errLon := strconv.ParseFloat(lonStr, 64)
	if errLat != nil || errLon != nil {
		return 0, 0, false
	}
	return lat, lon, true
}

func candidateHref(loc models.GeoLocation) string {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(loc.Lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(loc.Lng, 'f', -1, 64))
	q.Set("label", loc.Address)
	return "/searchbip?" + q.Encode()
}
