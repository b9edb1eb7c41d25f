package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/red-movilidad/red-cli/internal/api"
	"github.com/red-movilidad/red-cli/internal/cache"
	"github.com/red-movilidad/red-cli/internal/config"
	"github.com/red-movilidad/red-cli/internal/display"
	"github.com/red-movilidad/red-cli/internal/models"
	"github.com/red-movilidad/red-cli/internal/output"
	"github.com/red-movilidad/red-cli/internal/tui"
)

var version = "0.3.0"

func main() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "red",
	Short: "Rider assistance for the Red Metropolitana de Movilidad",
	Long: `red is a command-line and terminal interface for the Santiago bus
network (Red Metropolitana de Movilidad).

Features:
  - Route search with the route path and its stops on a map
  - Real-time bus arrivals at a stop
  - Nearby bip! card charge points for an address or coordinates
  - A web front-end with the same three views (red serve)
  - JSON output for scripting
  - Response caching for faster repeated queries

Quick Start:
  1. Launch TUI:               red (or red tui)
  2. List routes:              red routes 50
  3. Show a route:             red route 506
  4. Bus arrivals at a stop:   red arrivals PA433
  5. Nearby charge points:     red bip "Alameda 1000, Santiago"
  6. Start the web front-end:  red serve`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			_ = logCloser.Close()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// If no subcommand is provided, launch TUI
		if len(args) == 0 {
			return runTUI(cmd, args)
		}
		return cmd.Help()
	},
}

// Global flags
var (
	flagConfig  string
	flagJSON    bool
	flagRawJSON bool
	flagColor   string
	flagNoCache bool
)

// Command flags
var (
	flagWatch     bool
	flagMapWidth  int
	flagMapHeight int
	flagLat       float64
	flagLon       float64
	flagPick      int
	flagExpired   bool
)

var (
	cfg       *config.Config
	logCloser io.Closer
)

func init() {
	rootCmd.AddCommand(routesCmd)
	rootCmd.AddCommand(routeCmd)
	rootCmd.AddCommand(arrivalsCmd)
	rootCmd.AddCommand(bipCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(configCmd)
	cacheCmd.AddCommand(cacheClearCmd)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to a YAML config file (default $RED_CONFIG)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagRawJSON, "raw-json", false, "Output raw API response")
	rootCmd.PersistentFlags().StringVar(&flagColor, "color", "auto", "Color output: auto, always, never")
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "Disable response caching")

	routeCmd.Flags().IntVar(&flagMapWidth, "map-width", 72, "Width of the ASCII map in columns")
	routeCmd.Flags().IntVar(&flagMapHeight, "map-height", 24, "Height of the ASCII map in rows")

	arrivalsCmd.Flags().BoolVarP(&flagWatch, "watch", "w", false, "Watch mode: refresh every 30 seconds")

	bipCmd.Flags().Float64Var(&flagLat, "lat", 0, "Latitude of the search origin")
	bipCmd.Flags().Float64Var(&flagLon, "lon", 0, "Longitude of the search origin")
	bipCmd.Flags().IntVarP(&flagPick, "pick", "p", 0, "Use the Nth geocoded address when several match")

	cacheClearCmd.Flags().BoolVar(&flagExpired, "expired", false, "Only remove expired entries")

	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "Listen address (default from config, :8080)")
}

// setup loads the configuration and initializes logging before any command.
// The TUI owns the terminal, so its logs only go to LOG_FILE.
func setup(cmd *cobra.Command, args []string) error {
	c, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	cfg = c

	quiet := !cmd.HasParent() || cmd.Name() == "tui"
	closer, err := cfg.InitializeLogging(quiet)
	if err != nil {
		return err
	}
	logCloser = closer
	return nil
}

// createClient creates an API client with the configured options.
// The CLI caches on disk behind a small memory layer.
func createClient() (*api.Client, error) {
	opts := cfg.ClientOptions()

	// Enable caching unless disabled
	if !flagNoCache && cfg.CacheTTL > 0 {
		opts = append(opts, api.WithDefaultCache(cfg.CacheTTL, cfg.CacheSize))
	}

	return api.NewClient(opts...)
}

// createMemoryClient creates a client for long-running processes, which
// keep their cache in memory only.
func createMemoryClient() (*api.Client, error) {
	opts := cfg.ClientOptions()

	if !flagNoCache && cfg.CacheTTL > 0 {
		mem, err := cache.NewMemoryCache(cfg.CacheSize, cfg.CacheTTL)
		if err != nil {
			return nil, err
		}
		opts = append(opts, api.WithCache(mem))
	}

	return api.NewClient(opts...)
}

// getColorMode returns the color mode based on flag
func getColorMode() output.ColorMode {
	return output.ParseColorMode(flagColor)
}

func renderOptions() output.RenderOptions {
	return output.RenderOptions{
		Colors:    output.NewColors(getColorMode()),
		MapWidth:  flagMapWidth,
		MapHeight: flagMapHeight,
	}
}

// userError logs err and replaces it with the text a rider should see
func userError(err error, fallback string) error {
	log.Debug().Err(err).Msg("command failed")
	return errors.New(display.UserMessage(err, fallback))
}

var routesCmd = &cobra.Command{
	Use:   "routes [filter]",
	Short: "List the routes of the network",
	Long: `List every route identifier of the network, in service order.

An optional filter keeps the routes containing it (case-insensitive).

Examples:
  red routes
  red routes 50      # 502, 503, 504, ...
  red routes --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRoutes,
}

var routeCmd = &cobra.Command{
	Use:   "route <route_id>",
	Short: "Show a route path and its stops",
	Long: `Show the path of a route on an ASCII map followed by its stops.

The path and the stops are fetched concurrently. When one of them cannot
be loaded the other is still shown and a warning is printed.

Examples:
  red route 506
  red route 506 --map-width 100 --map-height 30
  red route 506 --raw-json`,
	Args: cobra.ExactArgs(1),
	RunE: runRoute,
}

var arrivalsCmd = &cobra.Command{
	Use:   "arrivals <stop_code>",
	Short: "Show upcoming bus arrivals at a stop",
	Long: `Show the buses approaching a stop with their arrival window and distance.

The stop code is case-insensitive and surrounding spaces are ignored.

Watch Mode:
  --watch, -w            Refresh every 30 seconds (full-screen mode)

Examples:
  red arrivals PA433
  red arrivals " pa433 "
  red arrivals PA433 --watch`,
	Args: cobra.ExactArgs(1),
	RunE: runArrivals,
}

var bipCmd = &cobra.Command{
	Use:   "bip [address]",
	Short: "Find bip! charge points near an address",
	Long: `Find bip! card charge points near an address or a coordinate,
nearest first.

Addresses are geocoded within Santiago. When several addresses match, they
are listed; pick one with --pick.

Examples:
  red bip "Alameda 1000, Santiago"
  red bip "Providencia" --pick 2
  red bip --lat -33.4372 --lon -70.6506`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBip,
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive full-screen TUI",
	Long: `Launch an interactive full-screen terminal UI with the route,
arrivals and charge point views.

Keyboard:
  1/2/3        Open a view from the home screen
  Tab          Cycle focus between panels
  j/k or arrows  Navigate lists
  Enter        Select / confirm
  Space        Toggle a service filter chip
  a            Toggle auto-refresh on the arrivals board
  Esc          Go back
  /            Jump to the input
  q            Quit`,
	RunE: runTUI,
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the response cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove cached responses",
	Args:  cobra.NoArgs,
	RunE:  runCacheClear,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := cfg.Redacted()
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(out)
		return err
	},
}

func runTUI(cmd *cobra.Command, args []string) error {
	client, err := createMemoryClient()
	if err != nil {
		return fmt.Errorf("failed to create API client: %w", err)
	}

	model := tui.New(client)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func runRoutes(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	client, err := createClient()
	if err != nil {
		return fmt.Errorf("failed to create API client: %w", err)
	}

	if flagRawJSON {
		raw, err := client.GetRoutesRaw(ctx)
		if err != nil {
			return err
		}
		return printPrettyJSON(raw)
	}

	routes, err := client.GetRoutes(ctx)
	if err != nil {
		return userError(err, display.MsgRoutesError)
	}
	if len(args) == 1 {
		routes = display.FilterRoutes(routes, args[0])
	}

	if flagJSON {
		return printJSON(routes)
	}

	return output.Render(os.Stdout, display.RoutesTable(routes), renderOptions())
}

func runRoute(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	routeID := args[0]

	client, err := createClient()
	if err != nil {
		return fmt.Errorf("failed to create API client: %w", err)
	}

	if flagRawJSON {
		path, err := client.GetRoutePathRaw(ctx, routeID)
		if err != nil {
			return err
		}
		stops, err := client.GetRouteStopsRaw(ctx, routeID)
		if err != nil {
			return err
		}
		combined, err := json.Marshal(map[string]json.RawMessage{"path": path, "stops": stops})
		if err != nil {
			return err
		}
		return printPrettyJSON(combined)
	}

	layers := client.GetRouteLayers(ctx, routeID)
	switch layers.Status() {
	case models.RouteFailed:
		err := layers.PathErr
		if err == nil {
			err = layers.StopsErr
		}
		return userError(err, display.MsgRoutesError)
	case models.RoutePartial:
		if layers.PathErr != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Warning: %s (trazado)\n", display.UserMessage(layers.PathErr, display.MsgRoutesError))
		}
		if layers.StopsErr != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Warning: %s (paradas)\n", display.UserMessage(layers.StopsErr, display.MsgRoutesError))
		}
	}

	if flagJSON {
		return printJSON(layers)
	}

	opts := renderOptions()
	if err := output.Render(os.Stdout, display.RouteMap(layers), opts); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(os.Stdout)
	return output.Render(os.Stdout, display.RouteStopsTable(routeID, layers.Stops), opts)
}

func runArrivals(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	stopCode := args[0]

	// Reject blank codes before touching the network
	if api.NormalizeStopCode(stopCode) == "" {
		return errors.New(api.MsgInvalidStopCode)
	}

	client, err := createClient()
	if err != nil {
		return fmt.Errorf("failed to create API client: %w", err)
	}

	// Watch mode
	if flagWatch {
		colors := output.NewColors(getColorMode())
		return output.Watch(ctx, os.Stdout, output.WatchOptions{
			Interval: 30 * time.Second,
			Colors:   colors,
		}, func(ctx context.Context, w io.Writer) error {
			stop, err := client.GetStopArrivals(ctx, stopCode)
			if err != nil {
				return userError(err, display.MsgArrivalsError)
			}
			return output.Render(w, display.ArrivalsTable(stop), output.RenderOptions{Colors: colors})
		})
	}

	if flagRawJSON {
		raw, err := client.GetStopArrivalsRaw(ctx, stopCode)
		if err != nil {
			return err
		}
		return printPrettyJSON(raw)
	}

	stop, err := client.GetStopArrivals(ctx, stopCode)
	if err != nil {
		return userError(err, display.MsgArrivalsError)
	}

	if flagJSON {
		return printJSON(display.OrderStop(stop))
	}

	return output.Render(os.Stdout, display.ArrivalsTable(stop), renderOptions())
}

func runBip(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	hasCoords := cmd.Flags().Changed("lat") || cmd.Flags().Changed("lon")

	if !hasCoords && len(args) == 0 {
		return errors.New("an address or --lat/--lon is required")
	}

	client, err := createClient()
	if err != nil {
		return fmt.Errorf("failed to create API client: %w", err)
	}

	lat, lon := flagLat, flagLon
	if !hasCoords {
		loc, err := resolveAddress(ctx, client, args[0], flagPick)
		if err != nil || loc == nil {
			return err
		}
		if !flagJSON && !flagRawJSON {
			c := output.NewColors(getColorMode())
			_, _ = fmt.Fprintln(os.Stdout, c.Muted("Cerca de: %s", loc.Address))
		}
		lat, lon = loc.Lat, loc.Lng
	}

	if flagRawJSON {
		raw, err := client.GetChargePointsRaw(ctx, lat, lon)
		if err != nil {
			return err
		}
		return printPrettyJSON(raw)
	}

	points, err := client.GetChargePoints(ctx, lat, lon)
	if err != nil {
		return userError(err, display.MsgChargePointsError)
	}

	if flagJSON {
		return printJSON(display.RankChargePoints(points))
	}

	return output.Render(os.Stdout, display.ChargePointsTable(points), renderOptions())
}

// resolveAddress geocodes address. With several candidates and no pick it
// prints them and returns a nil location.
func resolveAddress(ctx context.Context, client *api.Client, address string, pick int) (*models.GeoLocation, error) {
	locations, err := client.Geocode(ctx, address)
	if err != nil {
		return nil, userError(err, display.MsgGeocodeError)
	}

	switch {
	case pick > 0:
		if pick > len(locations) {
			return nil, fmt.Errorf("--pick %d: only %d addresses match", pick, len(locations))
		}
		return &locations[pick-1], nil
	case len(locations) == 1:
		return &locations[0], nil
	}

	if flagJSON {
		return nil, printJSON(locations)
	}

	t := &display.Table{
		Title:    "Direcciones",
		Subtitle: "Varias direcciones coinciden; elija una con --pick N",
		Columns:  []string{"#", "Dirección"},
	}
	for i, loc := range locations {
		t.Rows = append(t.Rows, display.Row{Cells: []string{strconv.Itoa(i + 1), loc.Address}})
	}
	return nil, output.Render(os.Stdout, t, renderOptions())
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	fc, err := cache.NewFileCache(cache.DefaultCacheDir(), cfg.CacheTTL)
	if err != nil {
		return err
	}

	if flagExpired {
		if err := fc.Cleanup(); err != nil {
			return err
		}
		fmt.Printf("Removed expired entries from %s\n", fc.Dir())
		return nil
	}

	n, err := fc.Clear()
	if err != nil {
		return err
	}
	fmt.Printf("Removed %d cached responses from %s\n", n, fc.Dir())
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printPrettyJSON(data []byte) error {
	var prettyJSON interface{}
	if err := json.Unmarshal(data, &prettyJSON); err != nil {
		// If we can't parse it, just print raw
		fmt.Println(string(data))
		return err
	}

	return printJSON(prettyJSON)
}
