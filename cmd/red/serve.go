package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/red-movilidad/red-cli/internal/web"
)

var flagAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web front-end",
	Long: `Start the web front-end with the route, arrivals and charge point
views, plus JSON endpoints under /api.

Pages:
  /              Landing page
  /searchroute   Route path and stops on a map
  /searchbus     Bus arrivals at a stop
  /searchbip     Nearby bip! charge points

Configuration comes from the environment or --config (RED_HTTP_ADDR,
RED_TILE_URL, RED_CORS_ORIGINS, RED_RATE_LIMIT).

Examples:
  red serve
  red serve --addr 127.0.0.1:9000`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	client, err := createMemoryClient()
	if err != nil {
		return fmt.Errorf("failed to create API client: %w", err)
	}

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	srv, err := web.New(client, web.Options{
		TileURL:     cfg.TileURL,
		CORSOrigins: cfg.CORSOrigins,
		RateLimit:   cfg.RateLimit,
		RateBurst:   cfg.RateBurst,
		Timeout:     cfg.HTTPTimeout,
	})
	if err != nil {
		return err
	}

	addr := cfg.HTTPAddr
	if flagAddr != "" {
		addr = flagAddr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Str("env", cfg.Env).Str("tiles", cfg.TileURL).Msg("starting web front-end")
	return srv.Run(ctx, addr)
}
