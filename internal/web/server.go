// Package web serves the rider pages and a JSON API backed by the same
// client and display pipeline as the terminal front-ends.
package web

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/red-movilidad/red-cli/internal/models"
)

// Backend is the subset of the API client the server needs.
type Backend interface {
	GetRoutes(ctx context.Context) ([]string, error)
	GetRouteLayers(ctx context.Context, routeID string) *models.RouteLayers
	GetStopArrivals(ctx context.Context, stopCode string) (*models.StopArrivals, error)
	GetChargePoints(ctx context.Context, lat, lon float64) ([]models.ChargePoint, error)
	Geocode(ctx context.Context, address string) ([]models.GeoLocation, error)
}

// Options configures the server
type Options struct {
	TileURL     string
	CORSOrigins []string
	// RateLimit is the per-client request rate on /api; zero disables it.
	RateLimit float64
	RateBurst int
	// Timeout bounds the upstream calls of a single request.
	Timeout time.Duration
}

const defaultRequestTimeout = 10 * time.Second

// Server is the web front-end
type Server struct {
	backend Backend
	opts    Options
	pages   map[string]*template.Template
	engine  *gin.Engine
}

// New builds the gin engine with its middleware and routes.
func New(backend Backend, opts Options) (*Server, error) {
	if backend == nil {
		return nil, errors.New("web: backend is nil")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultRequestTimeout
	}

	pages, err := parsePages()
	if err != nil {
		return nil, err
	}

	s := &Server{backend: backend, opts: opts, pages: pages}
	s.engine = s.routes()
	return s, nil
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(RequestLogger())
	engine.Use(SecurityHeaders())

	engine.GET("/", s.handleIndex)
	engine.GET("/searchroute", s.handleSearchRoute)
	engine.GET("/searchbus", s.handleSearchBus)
	engine.GET("/searchbip", s.handleSearchBip)

	engine.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := engine.Group("/api")
	if c, ok := corsMiddleware(s.opts.CORSOrigins); ok {
		apiGroup.Use(c)
	}
	if s.opts.RateLimit > 0 {
		apiGroup.Use(NewIPRateLimiter(s.opts.RateLimit, s.opts.RateBurst).RateLimit())
	}
	apiGroup.GET("/routes", s.apiRoutes)
	apiGroup.GET("/routes/:id", s.apiRoute)
	apiGroup.GET("/stops/:code/arrivals", s.apiArrivals)
	apiGroup.GET("/chargepoints", s.apiChargePoints)

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	})

	return engine
}

// corsMiddleware builds the CORS handler. A "*" entry allows every origin;
// no origins disables CORS entirely.
func corsMiddleware(origins []string) (gin.HandlerFunc, bool) {
	if len(origins) == 0 {
		return nil, false
	}
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Accept", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg), true
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("web server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("web server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	log.Info().Msg("web server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("web server shutdown: %w", err)
	}
	return nil
}
