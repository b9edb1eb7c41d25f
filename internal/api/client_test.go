package api

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/red-movilidad/red-cli/internal/cache"
	"github.com/red-movilidad/red-cli/internal/models"
	"github.com/red-movilidad/red-cli/internal/testutil"
)

func TestNewClient(t *testing.T) {
	client, err := NewClient()
	testutil.AssertNil(t, err)
	testutil.AssertTrue(t, client != nil)
	testutil.AssertTrue(t, client.httpClient != nil)
	testutil.AssertEqual(t, client.Endpoints(), DefaultEndpoints)
	testutil.AssertEqual(t, client.bounds, SantiagoBounds)
	testutil.AssertTrue(t, client.limiter == nil)
}

func TestNewClient_WithTimeout(t *testing.T) {
	customTimeout := 30 * time.Second
	client, err := NewClient(WithTimeout(customTimeout))
	testutil.AssertNil(t, err)
	testutil.AssertEqual(t, client.httpClient.Timeout, customTimeout)
}

func TestNewClient_WithHTTPClient(t *testing.T) {
	customClient := &http.Client{Timeout: 5 * time.Second}
	client, err := NewClient(WithHTTPClient(customClient))
	testutil.AssertNil(t, err)
	testutil.AssertEqual(t, client.httpClient, customClient)
}

func TestNewClient_NilHTTPClient(t *testing.T) {
	_, err := NewClient(WithHTTPClient(nil))
	testutil.AssertError(t, err)
}

func TestNewClient_WithCache(t *testing.T) {
	mockCache := newMockCache()
	client, err := NewClient(WithCache(mockCache))
	testutil.AssertNil(t, err)
	testutil.AssertTrue(t, client.cache != nil)
}

func TestNewClient_WithDefaultCache(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	client, err := NewClient(WithDefaultCache(time.Minute, 16))
	testutil.AssertNil(t, err)

	_, tiered := client.cache.(*cache.Tiered)
	testutil.AssertTrue(t, tiered)
}

func TestNewClient_WithEndpoints(t *testing.T) {
	client, err := NewClient(WithEndpoints(Endpoints{Arrivals: "http://localhost:9000/red/"}))
	testutil.AssertNil(t, err)

	e := client.Endpoints()
	testutil.AssertEqual(t, e.Arrivals, "http://localhost:9000/red")
	testutil.AssertEqual(t, e.Routes, RoutesBaseURL)
	testutil.AssertEqual(t, e.Geocode, GeocodeBaseURL)
}

func TestNewClient_WithRateLimit(t *testing.T) {
	client, err := NewClient(WithRateLimit(5, 0))
	testutil.AssertNil(t, err)
	testutil.AssertTrue(t, client.limiter != nil)
	testutil.AssertEqual(t, client.limiter.Burst(), 1)

	client, err = NewClient(WithRateLimit(5, 2), WithRateLimit(0, 0))
	testutil.AssertNil(t, err)
	testutil.AssertTrue(t, client.limiter == nil)
}

func TestNormalizeStopCode(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"pa433", "PA433"},
		{"  pa433 ", "PA433"},
		{"PI1234", "PI1234"},
		{"   ", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			testutil.AssertEqual(t, NormalizeStopCode(tt.in), tt.want)
		})
	}
}

func TestGetRoutes_Success(t *testing.T) {
	ms := testutil.NewMockServer(func(w http.ResponseWriter, r *http.Request) {
		testutil.AssertEqual(t, r.Method, "GET")
		testutil.AssertEqual(t, r.URL.Path, EndpointRoutes)

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(testutil.SampleRoutesResponse))
	})
	defer ms.Close()

	client := newTestClient(ms.URL)

	routes, err := client.GetRoutes(context.Background())
	testutil.AssertNil(t, err)
	testutil.AssertLen(t, routes, 4)
	testutil.AssertEqual(t, routes[2], "D18")
}

func TestGetRoutes_InvalidJSON(t *testing.T) {
	ms := testutil.NewMockServer(testutil.JSONHandler(http.StatusOK, `invalid json`))
	defer ms.Close()

	client := newTestClient(ms.URL)

	_, err := client.GetRoutes(context.Background())
	testutil.AssertError(t, err)
}

func TestGetRoutes_HTTPError(t *testing.T) {
	ms := testutil.NewMockServer(testutil.JSONHandler(http.StatusInternalServerError, `{"error":"server error"}`))
	defer ms.Close()

	client := newTestClient(ms.URL)

	_, err := client.GetRoutes(context.Background())
	testutil.AssertError(t, err)
	testutil.AssertTrue(t, errors.Is(err, ErrServerError))

	var apiErr *APIError
	testutil.AssertTrue(t, errors.As(err, &apiErr))
	testutil.AssertEqual(t, apiErr.Endpoint, EndpointRoutes)
	testutil.AssertContains(t, string(apiErr.Body), "server error")
}

func TestGetRoutePath_Success(t *testing.T) {
	ms := testutil.NewMockServer(func(w http.ResponseWriter, r *http.Request) {
		testutil.AssertEqual(t, r.URL.Path, EndpointRoutePath+"506")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(testutil.SampleRoutePathResponse))
	})
	defer ms.Close()

	client := newTestClient(ms.URL)

	path, err := client.GetRoutePath(context.Background(), "506")
	testutil.AssertNil(t, err)
	testutil.AssertLen(t, path, 3)
	testutil.AssertFloatEqual(t, path[0].Lat, -33.45, 1e-9)
	testutil.AssertFloatEqual(t, path[2].Lng, -70.64, 1e-9)
}

func TestGetRoutePath_EmptyID(t *testing.T) {
	client, _ := NewClient()

	path, err := client.GetRoutePath(context.Background(), "  ")
	testutil.AssertError(t, err)
	testutil.AssertTrue(t, errors.Is(err, ErrInvalidRequest))
	testutil.AssertLen(t, path, 0)
}

func TestGetRouteStops_Success(t *testing.T) {
	ms := testutil.NewMockServer(func(w http.ResponseWriter, r *http.Request) {
		testutil.AssertEqual(t, r.URL.Path, EndpointRouteStops+"506")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(testutil.SampleRouteStopsResponse))
	})
	defer ms.Close()

	client := newTestClient(ms.URL)

	stops, err := client.GetRouteStops(context.Background(), "506")
	testutil.AssertNil(t, err)
	testutil.AssertLen(t, stops, 2)
	testutil.AssertEqual(t, stops[0].StopCode, "PA433")
	testutil.AssertEqual(t, stops[1].StopName, "Parada 2 / Matucana")
}

func TestGetRouteLayers(t *testing.T) {
	tests := []struct {
		name       string
		pathStatus int
		stopStatus int
		want       models.RouteStatus
	}{
		{"both succeed", http.StatusOK, http.StatusOK, models.RouteReady},
		{"stops fail", http.StatusOK, http.StatusInternalServerError, models.RoutePartial},
		{"path fails", http.StatusBadGateway, http.StatusOK, models.RoutePartial},
		{"both fail", http.StatusInternalServerError, http.StatusInternalServerError, models.RouteFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ms := testutil.NewRoutedMockServer(map[string]http.HandlerFunc{
				EndpointRoutePath + "506":  testutil.JSONHandler(tt.pathStatus, testutil.SampleRoutePathResponse),
				EndpointRouteStops + "506": testutil.JSONHandler(tt.stopStatus, testutil.SampleRouteStopsResponse),
			})
			defer ms.Close()

			client := newTestClient(ms.URL)

			layers := client.GetRouteLayers(context.Background(), "506")
			testutil.AssertEqual(t, layers.RouteID, "506")
			testutil.AssertEqual(t, layers.Status(), tt.want)
			testutil.AssertEqual(t, ms.RequestCount(), 2)

			if tt.pathStatus == http.StatusOK {
				testutil.AssertLen(t, layers.Path, 3)
			} else {
				testutil.AssertError(t, layers.PathErr)
			}
			if tt.stopStatus == http.StatusOK {
				testutil.AssertLen(t, layers.Stops, 2)
			} else {
				testutil.AssertError(t, layers.StopsErr)
			}
		})
	}
}

func TestGetStopArrivals_Success(t *testing.T) {
	ms := testutil.NewMockServer(func(w http.ResponseWriter, r *http.Request) {
		testutil.AssertEqual(t, r.URL.Path, EndpointBusStop+"PA433")
		testutil.AssertEqual(t, r.Header.Get("Cache-Control"), "no-store")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(testutil.SampleStopArrivalsResponse))
	})
	defer ms.Close()

	client := newTestClient(ms.URL)

	stop, err := client.GetStopArrivals(context.Background(), " pa433 ")
	testutil.AssertNil(t, err)
	testutil.AssertEqual(t, stop.StopCode, "PA433")
	testutil.AssertEqual(t, stop.Name, "Parada 1 / Alameda")
	testutil.AssertLen(t, stop.Services, 2)

	running := stop.Services[0]
	testutil.AssertTrue(t, running.Valid)
	testutil.AssertLen(t, running.Buses, 2)
	testutil.AssertEqual(t, running.Buses[0].BusID, "FLXP-45")
	testutil.AssertEqual(t, running.Buses[0].MaxArrivalMinutes, 7)

	suspended := stop.Services[1]
	testutil.AssertFalse(t, suspended.Valid)
	testutil.AssertContains(t, suspended.StatusDescription, "Fuera de horario")
}

func TestGetStopArrivals_EmptyCodeSkipsRequest(t *testing.T) {
	ms := testutil.NewMockServer(testutil.JSONHandler(http.StatusOK, testutil.SampleStopArrivalsResponse))
	defer ms.Close()

	client := newTestClient(ms.URL)

	_, err := client.GetStopArrivals(context.Background(), "   ")
	testutil.AssertError(t, err)

	var ve *ValidationError
	testutil.AssertTrue(t, errors.As(err, &ve))
	testutil.AssertEqual(t, ve.Message, MsgInvalidStopCode)
	testutil.AssertEqual(t, ms.RequestCount(), 0)
}

func TestGetStopArrivals_StatusError(t *testing.T) {
	ms := testutil.NewMockServer(testutil.JSONHandler(http.StatusOK, testutil.SampleStopArrivalsErrorResponse))
	defer ms.Close()

	client := newTestClient(ms.URL)

	_, err := client.GetStopArrivals(context.Background(), "xx999")

	var se *StatusError
	testutil.AssertTrue(t, errors.As(err, &se))
	testutil.AssertEqual(t, se.Status, "1")
	testutil.AssertEqual(t, err.Error(), "Paradero invalido.")
}

func TestGetStopArrivals_DescribedHTTPError(t *testing.T) {
	ms := testutil.NewMockServer(testutil.JSONHandler(http.StatusNotFound, testutil.SampleStopArrivalsErrorResponse))
	defer ms.Close()

	client := newTestClient(ms.URL)

	_, err := client.GetStopArrivals(context.Background(), "XX999")

	var se *StatusError
	testutil.AssertTrue(t, errors.As(err, &se))
	testutil.AssertEqual(t, se.Description, "Paradero invalido.")
}

func TestGetStopArrivals_BareHTTPError(t *testing.T) {
	ms := testutil.NewMockServer(testutil.JSONHandler(http.StatusServiceUnavailable, `<html>down</html>`))
	defer ms.Close()

	client := newTestClient(ms.URL)

	_, err := client.GetStopArrivals(context.Background(), "PA433")
	testutil.AssertTrue(t, errors.Is(err, ErrServerError))
}

func TestGetStopArrivals_NeverCached(t *testing.T) {
	mockCache := newMockCache()
	ms := testutil.NewMockServer(testutil.JSONHandler(http.StatusOK, testutil.SampleStopArrivalsResponse))
	defer ms.Close()

	client := newTestClient(ms.URL)
	client.cache = mockCache

	for i := 0; i < 2; i++ {
		_, err := client.GetStopArrivals(context.Background(), "PA433")
		testutil.AssertNil(t, err)
	}

	testutil.AssertEqual(t, ms.RequestCount(), 2)
	testutil.AssertEqual(t, mockCache.Len(), 0)
}

func TestGetChargePoints_Success(t *testing.T) {
	ms := testutil.NewMockServer(func(w http.ResponseWriter, r *http.Request) {
		testutil.AssertEqual(t, r.URL.Path, EndpointChargePoints)
		q := r.URL.Query()
		testutil.AssertEqual(t, q.Get("lat"), "-33.4446")
		testutil.AssertEqual(t, q.Get("lon"), "-70.6563")
		testutil.AssertEqual(t, q.Get("bip"), "1")

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(testutil.SampleChargePointsResponse))
	})
	defer ms.Close()

	client := newTestClient(ms.URL)

	points, err := client.GetChargePoints(context.Background(), -33.4446, -70.6563)
	testutil.AssertNil(t, err)
	testutil.AssertLen(t, points, 3)

	// API order is preserved
	testutil.AssertEqual(t, points[0].ID, "1201")
	testutil.AssertEqual(t, points[1].ID, "1202")
	testutil.AssertFalse(t, points[0].HasSchedule())
	testutil.AssertLen(t, points[2].Schedule, 1)
}

func TestGetChargePoints_InvalidCoordinates(t *testing.T) {
	ms := testutil.NewMockServer(testutil.JSONHandler(http.StatusOK, `[]`))
	defer ms.Close()

	client := newTestClient(ms.URL)

	_, err := client.GetChargePoints(context.Background(), 123, -70.6)
	testutil.AssertError(t, err)
	testutil.AssertTrue(t, errors.Is(err, ErrInvalidRequest))

	// The rider sees the message, not the raw values
	var ve *ValidationError
	testutil.AssertTrue(t, errors.As(err, &ve))
	testutil.AssertEqual(t, ve.Field, "coordinates")
	testutil.AssertEqual(t, ve.Message, MsgInvalidCoordinates)

	_, err = client.GetChargePoints(context.Background(), -33.4, 200)
	testutil.AssertError(t, err)
	testutil.AssertEqual(t, ms.RequestCount(), 0)
}

func TestGeocode_FiltersToBounds(t *testing.T) {
	ms := testutil.NewMockServer(func(w http.ResponseWriter, r *http.Request) {
		testutil.AssertEqual(t, r.URL.Path, EndpointGeocode)
		q := r.URL.Query()
		testutil.AssertEqual(t, q.Get("address"), "Alameda 1450")
		testutil.AssertEqual(t, q.Get("components"), "country:CL")
		testutil.AssertEqual(t, q.Get("key"), "test-key")
		testutil.AssertTrue(t, q.Get("bounds") != "")

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(testutil.SampleGeocodeResponse))
	})
	defer ms.Close()

	client := newTestClient(ms.URL)
	client.geocoderKey = "test-key"

	locations, err := client.Geocode(context.Background(), "  Alameda 1450 ")
	testutil.AssertNil(t, err)
	testutil.AssertLen(t, locations, 1)
	testutil.AssertContains(t, locations[0].Address, "Santiago")
}

func TestGeocode_NoBounds(t *testing.T) {
	ms := testutil.NewMockServer(testutil.JSONHandler(http.StatusOK, testutil.SampleGeocodeResponse))
	defer ms.Close()

	client := newTestClient(ms.URL)
	client.bounds = models.Bounds{}

	locations, err := client.Geocode(context.Background(), "Alameda 1450")
	testutil.AssertNil(t, err)
	testutil.AssertLen(t, locations, 2)
	testutil.AssertEqual(t, ms.LastRequest().URL.Query().Get("bounds"), "")
}

func TestGeocode_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		target error
	}{
		{"zero results", testutil.SampleGeocodeZeroResults, ErrNoResults},
		{"all outside bounds", `{"status":"OK","results":[{"formatted_address":"Lima","geometry":{"location":{"lat":-12.04,"lng":-77.04}}}]}`, ErrNoResults},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ms := testutil.NewMockServer(testutil.JSONHandler(http.StatusOK, tt.body))
			defer ms.Close()

			client := newTestClient(ms.URL)

			_, err := client.Geocode(context.Background(), "somewhere")
			testutil.AssertTrue(t, errors.Is(err, tt.target))
		})
	}
}

func TestGeocode_Denied(t *testing.T) {
	ms := testutil.NewMockServer(testutil.JSONHandler(http.StatusOK, testutil.SampleGeocodeDenied))
	defer ms.Close()

	client := newTestClient(ms.URL)

	_, err := client.Geocode(context.Background(), "Alameda 1450")

	var se *StatusError
	testutil.AssertTrue(t, errors.As(err, &se))
	testutil.AssertEqual(t, se.Status, "REQUEST_DENIED")
	testutil.AssertContains(t, se.Description, "API key")
}

func TestGeocode_EmptyAddress(t *testing.T) {
	client, _ := NewClient()

	locations, err := client.Geocode(context.Background(), "")
	testutil.AssertError(t, err)
	testutil.AssertLen(t, locations, 0)
}

func TestGetRoutesRaw_Success(t *testing.T) {
	ms := testutil.NewMockServer(testutil.JSONHandler(http.StatusOK, testutil.SampleRoutesResponse))
	defer ms.Close()

	client := newTestClient(ms.URL)

	rawJSON, err := client.GetRoutesRaw(context.Background())
	testutil.AssertNil(t, err)
	testutil.AssertEqual(t, string(rawJSON), testutil.SampleRoutesResponse)
}

func TestClient_WithCache(t *testing.T) {
	mockCache := newMockCache()

	ms := testutil.NewMockServer(testutil.JSONHandler(http.StatusOK, testutil.SampleRoutesResponse))
	defer ms.Close()

	client := newTestClient(ms.URL)
	client.cache = mockCache

	// First call - should hit the server
	_, err := client.GetRoutes(context.Background())
	testutil.AssertNil(t, err)
	testutil.AssertEqual(t, ms.RequestCount(), 1)

	// Second call - should use cache
	_, err = client.GetRoutes(context.Background())
	testutil.AssertNil(t, err)
	testutil.AssertEqual(t, ms.RequestCount(), 1)
}

func TestClient_ErrorsAreNotCached(t *testing.T) {
	mockCache := newMockCache()

	ms := testutil.NewMockServer(testutil.JSONHandler(http.StatusInternalServerError, `{}`))
	defer ms.Close()

	client := newTestClient(ms.URL)
	client.cache = mockCache

	_, err := client.GetRoutes(context.Background())
	testutil.AssertError(t, err)
	testutil.AssertEqual(t, mockCache.Len(), 0)
}

func TestClient_ContextCancellation(t *testing.T) {
	// Create a server that delays response
	ms := testutil.NewMockServer(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(testutil.SampleRoutesResponse))
	})
	defer ms.Close()

	client := newTestClient(ms.URL)

	// Create a context that will be cancelled
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	_, err := client.GetRoutes(ctx)
	testutil.AssertError(t, err)
	testutil.AssertTrue(t, errors.Is(err, ErrTimeout))
}

// Mock cache implementation for testing
type mockCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string][]byte)}
}

func (m *mockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.data[key]
	return val, ok
}

func (m *mockCache) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *mockCache) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}

// Helper to create a client pointing every service at one test server
func newTestClient(baseURL string) *Client {
	client, _ := NewClient(WithEndpoints(Endpoints{
		Routes:       baseURL,
		Arrivals:     baseURL,
		ChargePoints: baseURL,
		Geocode:      baseURL,
	}))
	return client
}
