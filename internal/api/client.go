package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/red-movilidad/red-cli/internal/cache"
	"github.com/red-movilidad/red-cli/internal/models"
)

const (
	defaultTimeout = 10 * time.Second

	userAgent = "red-cli (+https://github.com/red-movilidad/red-cli)"
)

var validate = validator.New()

// Cache interface for caching HTTP responses
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte) error
}

// Client is the API client for the transit services
type Client struct {
	httpClient  *http.Client
	endpoints   Endpoints
	geocoderKey string
	bounds      models.Bounds
	cache       Cache
	limiter     *rate.Limiter
}

// ClientOption configures the Client
type ClientOption func(*Client)

// WithTimeout sets the HTTP client timeout
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithCache enables caching with the provided cache implementation
func WithCache(cache Cache) ClientOption {
	return func(c *Client) {
		c.cache = cache
	}
}

// WithDefaultCache enables the on-disk cache under the user cache
// directory, fronted by an in-memory layer holding memSize entries. When the
// cache directory is unusable only the memory layer is kept.
func WithDefaultCache(ttl time.Duration, memSize int) ClientOption {
	return func(c *Client) {
		mem, err := cache.NewMemoryCache(memSize, ttl)
		if err != nil {
			log.Warn().Err(err).Msg("memory cache disabled")
			return
		}
		fc, err := cache.NewFileCache(cache.DefaultCacheDir(), ttl)
		if err != nil {
			log.Warn().Err(err).Msg("file cache disabled")
			c.cache = mem
			return
		}
		c.cache = cache.NewTiered(mem, fc)
	}
}

// WithEndpoints overrides the service base URLs. Empty fields keep their default.
func WithEndpoints(e Endpoints) ClientOption {
	return func(c *Client) {
		if e.Routes != "" {
			c.endpoints.Routes = strings.TrimRight(e.Routes, "/")
		}
		if e.Arrivals != "" {
			c.endpoints.Arrivals = strings.TrimRight(e.Arrivals, "/")
		}
		if e.ChargePoints != "" {
			c.endpoints.ChargePoints = strings.TrimRight(e.ChargePoints, "/")
		}
		if e.Geocode != "" {
			c.endpoints.Geocode = strings.TrimRight(e.Geocode, "/")
		}
	}
}

// WithGeocoderKey sets the geocoding provider API key
func WithGeocoderKey(key string) ClientOption {
	return func(c *Client) {
		c.geocoderKey = key
	}
}

// WithSearchBounds restricts geocoding results to the box.
// A zero box disables the restriction.
func WithSearchBounds(b models.Bounds) ClientOption {
	return func(c *Client) {
		c.bounds = b
	}
}

// WithRateLimit caps outgoing requests per second. A limit <= 0 disables it.
func WithRateLimit(perSecond float64, burst int) ClientOption {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// NewClient creates a new API client
func NewClient(opts ...ClientOption) (*Client, error) {
	c := &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		endpoints: DefaultEndpoints,
		bounds:    SantiagoBounds,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		return nil, fmt.Errorf("http client must not be nil")
	}

	return c, nil
}

// Endpoints returns the service base URLs in use
func (c *Client) Endpoints() Endpoints {
	return c.endpoints
}

// NormalizeStopCode trims surrounding whitespace and upper-cases a stop code
func NormalizeStopCode(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// GetRoutes fetches every route identifier
func (c *Client) GetRoutes(ctx context.Context) ([]string, error) {
	body, err := c.GetRoutesRaw(ctx)
	if err != nil {
		return nil, err
	}

	var routes []string
	if err := json.Unmarshal(body, &routes); err != nil {
		return nil, fmt.Errorf("failed to parse routes response: %w", err)
	}

	return routes, nil
}

// GetRoutesRaw fetches the route list and returns raw JSON
func (c *Client) GetRoutesRaw(ctx context.Context) (json.RawMessage, error) {
	return c.doRequest(ctx, c.endpoints.Routes+EndpointRoutes, true)
}

// GetRoutePath fetches the ordered polyline of a route
func (c *Client) GetRoutePath(ctx context.Context, routeID string) ([]models.LatLng, error) {
	body, err := c.GetRoutePathRaw(ctx, routeID)
	if err != nil {
		return nil, err
	}

	var resp []models.RoutePointResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse route path response: %w", err)
	}

	path := make([]models.LatLng, 0, len(resp))
	for _, p := range resp {
		path = append(path, p.ToLatLng())
	}

	return path, nil
}

// GetRoutePathRaw fetches a route polyline and returns raw JSON
func (c *Client) GetRoutePathRaw(ctx context.Context, routeID string) (json.RawMessage, error) {
	routeID = strings.TrimSpace(routeID)
	if routeID == "" {
		return nil, ErrMissingField("route")
	}
	return c.doRequest(ctx, c.endpoints.Routes+EndpointRoutePath+url.PathEscape(routeID), true)
}

// GetRouteStops fetches the stop markers of a route
func (c *Client) GetRouteStops(ctx context.Context, routeID string) ([]models.RouteStop, error) {
	body, err := c.GetRouteStopsRaw(ctx, routeID)
	if err != nil {
		return nil, err
	}

	var resp []models.RouteStopResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse route stops response: %w", err)
	}

	stops := make([]models.RouteStop, 0, len(resp))
	for _, s := range resp {
		stops = append(stops, s.ToRouteStop())
	}

	return stops, nil
}

// GetRouteStopsRaw fetches the stops of a route and returns raw JSON
func (c *Client) GetRouteStopsRaw(ctx context.Context, routeID string) (json.RawMessage, error) {
	routeID = strings.TrimSpace(routeID)
	if routeID == "" {
		return nil, ErrMissingField("route")
	}
	return c.doRequest(ctx, c.endpoints.Routes+EndpointRouteStops+url.PathEscape(routeID), true)
}

// GetRouteLayers fetches the path and the stops of a route concurrently.
// A failed layer does not cancel the other one; each outcome is recorded
// on the returned value.
func (c *Client) GetRouteLayers(ctx context.Context, routeID string) *models.RouteLayers {
	layers := &models.RouteLayers{RouteID: strings.TrimSpace(routeID)}

	var g errgroup.Group
	g.Go(func() error {
		layers.Path, layers.PathErr = c.GetRoutePath(ctx, routeID)
		layers.PathDone = true
		return layers.PathErr
	})
	g.Go(func() error {
		layers.Stops, layers.StopsErr = c.GetRouteStops(ctx, routeID)
		layers.StopsDone = true
		return layers.StopsErr
	})

	if err := g.Wait(); err != nil {
		log.Warn().Err(err).
			Str("route", layers.RouteID).
			Stringer("status", layers.Status()).
			Msg("route layers incomplete")
	}

	return layers
}

// GetStopArrivals fetches real-time arrivals for a stop.
// The code is normalized first; an empty code fails before any request.
// Application errors come back as *StatusError.
func (c *Client) GetStopArrivals(ctx context.Context, stopCode string) (*models.StopArrivals, error) {
	code := NormalizeStopCode(stopCode)

	body, err := c.GetStopArrivalsRaw(ctx, code)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && len(apiErr.Body) > 0 {
			// Some failures still carry a described payload
			var resp models.StopArrivalsResponse
			if json.Unmarshal(apiErr.Body, &resp) == nil && !resp.OK() && resp.StatusDescription != "" {
				return nil, NewStatusError(strconv.Itoa(resp.StatusCode), resp.StatusDescription, apiErr.Endpoint)
			}
		}
		return nil, err
	}

	var resp models.StopArrivalsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse arrivals response: %w", err)
	}

	if !resp.OK() {
		return nil, NewStatusError(strconv.Itoa(resp.StatusCode), resp.StatusDescription, EndpointBusStop+code)
	}

	return resp.ToStopArrivals(code), nil
}

// GetStopArrivalsRaw fetches arrivals and returns raw JSON. Never cached.
func (c *Client) GetStopArrivalsRaw(ctx context.Context, stopCode string) (json.RawMessage, error) {
	code := NormalizeStopCode(stopCode)
	if code == "" {
		return nil, NewValidationError("stopCode", MsgInvalidStopCode)
	}
	return c.doRequest(ctx, c.endpoints.Arrivals+EndpointBusStop+url.PathEscape(code), false)
}

// coordinates is validated before a location query is issued
type coordinates struct {
	Lat float64 `validate:"latitude"`
	Lon float64 `validate:"longitude"`
}

// GetChargePoints fetches fare-card top-up points near a coordinate.
// Points come back in API order; ranking is a display concern.
func (c *Client) GetChargePoints(ctx context.Context, lat, lon float64) ([]models.ChargePoint, error) {
	body, err := c.GetChargePointsRaw(ctx, lat, lon)
	if err != nil {
		return nil, err
	}

	var resp []models.ChargePointResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse charge points response: %w", err)
	}

	points := make([]models.ChargePoint, 0, len(resp))
	for _, entry := range resp {
		points = append(points, entry.ToChargePoint())
	}

	return points, nil
}

// GetChargePointsRaw fetches charge points and returns raw JSON
func (c *Client) GetChargePointsRaw(ctx context.Context, lat, lon float64) (json.RawMessage, error) {
	if err := validate.Struct(coordinates{Lat: lat, Lon: lon}); err != nil {
		return nil, NewValidationError("coordinates", MsgInvalidCoordinates)
	}

	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("bip", "1")

	reqURL := c.endpoints.ChargePoints + EndpointChargePoints + "?" + params.Encode()

	return c.doRequest(ctx, reqURL, true)
}

// Geocode resolves an address to candidate coordinates inside the search bounds
func (c *Client) Geocode(ctx context.Context, address string) ([]models.GeoLocation, error) {
	body, err := c.GeocodeRaw(ctx, address)
	if err != nil {
		return nil, err
	}

	var resp models.GeocodeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse geocode response: %w", err)
	}

	switch resp.Status {
	case "OK":
	case "ZERO_RESULTS":
		return nil, ErrNoResults
	default:
		desc := resp.ErrorMessage
		if desc == "" {
			desc = resp.Status
		}
		return nil, NewStatusError(resp.Status, desc, EndpointGeocode)
	}

	var locations []models.GeoLocation
	for _, loc := range resp.ToGeoLocations() {
		if !c.bounds.IsZero() && !c.bounds.Contains(loc.Lat, loc.Lng) {
			continue
		}
		locations = append(locations, loc)
	}
	if len(locations) == 0 {
		return nil, ErrNoResults
	}

	return locations, nil
}

// GeocodeRaw geocodes an address and returns raw JSON
func (c *Client) GeocodeRaw(ctx context.Context, address string) (json.RawMessage, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, NewValidationError("address", "Por favor, ingrese una dirección.")
	}

	params := url.Values{}
	params.Set("address", address)
	params.Set("components", "country:"+GeocodeCountry)
	params.Set("language", "es")
	if !c.bounds.IsZero() {
		params.Set("bounds", fmt.Sprintf("%f,%f|%f,%f", c.bounds.South, c.bounds.West, c.bounds.North, c.bounds.East))
	}
	if c.geocoderKey != "" {
		params.Set("key", c.geocoderKey)
	}

	reqURL := c.endpoints.Geocode + EndpointGeocode + "?" + params.Encode()

	return c.doRequest(ctx, reqURL, true)
}

// doRequest performs an HTTP GET request with optional caching
func (c *Client) doRequest(ctx context.Context, reqURL string, cacheable bool) ([]byte, error) {
	endpoint := extractEndpoint(reqURL)

	// Check cache first
	if cacheable && c.cache != nil {
		if data, ok := c.cache.Get(reqURL); ok {
			log.Debug().Str("endpoint", endpoint).Msg("cache hit")
			return data, nil
		}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrTimeout, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Accept-Language", "es-CL,es;q=0.9,en;q=0.5")
	req.Header.Set("User-Agent", userAgent)
	if !cacheable {
		req.Header.Set("Cache-Control", "no-store")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error().Err(err).Str("endpoint", endpoint).Msg("request failed")
		// Check for context errors
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %w", ErrTimeout, ctx.Err())
		}
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error().Err(err).Str("endpoint", endpoint).Msg("failed to read response body")
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	// Handle non-OK status codes with proper error types
	if resp.StatusCode != http.StatusOK {
		log.Error().
			Str("endpoint", endpoint).
			Int("status", resp.StatusCode).
			Dur("took", time.Since(start)).
			Msg("unexpected response status")
		apiErr := NewAPIError(resp.StatusCode, resp.Status, endpoint)
		apiErr.Body = body
		return nil, apiErr
	}

	log.Debug().
		Str("endpoint", endpoint).
		Int("bytes", len(body)).
		Dur("took", time.Since(start)).
		Msg("request completed")

	// Store in cache
	if cacheable && c.cache != nil {
		_ = c.cache.Set(reqURL, body)
	}

	return body, nil
}

// extractEndpoint extracts the endpoint path from a full URL
func extractEndpoint(fullURL string) string {
	u, err := url.Parse(fullURL)
	if err != nil {
		return fullURL
	}
	return u.Path
}
