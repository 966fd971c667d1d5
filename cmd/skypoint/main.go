package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/KKK12142/myskyapp/catalog"
	"github.com/KKK12142/myskyapp/core"
	"github.com/KKK12142/myskyapp/ephem"
	"github.com/KKK12142/myskyapp/internal/app"
	"github.com/KKK12142/myskyapp/internal/config"
	"github.com/KKK12142/myskyapp/internal/logging"
	"github.com/KKK12142/myskyapp/internal/observability"
	"github.com/KKK12142/myskyapp/internal/sensor"
	"github.com/KKK12142/myskyapp/model"
	"github.com/KKK12142/myskyapp/search"
	"github.com/KKK12142/myskyapp/timectrl"
)

var (
	flagConfigDir   string
	flagDemo        bool
	flagReplay      string
	flagMetricsAddr string
	flagAt          string
	flagLat         float64
	flagLon         float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "skypoint",
		Short: "skypoint - point your device at the sky and find things",
		Long: `skypoint fuses IMU sensor streams into a live pointing direction,
converts it to equatorial coordinates for your location, and guides you
to stars and solar-system bodies by name.

Without a recorded session it runs on a synthetic sensor sweep.`,
		RunE: runTUI,
	}

	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", ".", "Directory containing skypoint.cfg.json")
	rootCmd.PersistentFlags().Float64Var(&flagLat, "lat", 0, "Observer latitude in degrees (overrides config)")
	rootCmd.PersistentFlags().Float64Var(&flagLon, "lon", 0, "Observer longitude in degrees, east positive (overrides config)")
	rootCmd.Flags().BoolVar(&flagDemo, "demo", false, "Force the synthetic sensor sweep even when --replay is given")
	rootCmd.Flags().StringVar(&flagReplay, "replay", "", "Replay a recorded IMU session (CSV) instead of the synthetic sweep")
	rootCmd.Flags().StringVar(&flagMetricsAddr, "metrics-addr", "", "HTTP address for Prometheus /metrics (overrides config)")

	searchCmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Run a one-shot catalog search and print the ranked results",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runSearch,
	}
	searchCmd.Flags().StringVar(&flagAt, "at", "", "Observation time (RFC 3339), defaults to now")

	positionCmd := &cobra.Command{
		Use:   "position <body>",
		Short: "Print the current topocentric position of a solar-system body",
		Args:  cobra.ExactArgs(1),
		RunE:  runPosition,
	}
	positionCmd.Flags().StringVar(&flagAt, "at", "", "Observation time (RFC 3339), defaults to now")

	rootCmd.AddCommand(searchCmd, positionCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runTUI(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load(flagConfigDir)
	if err != nil {
		return err
	}
	log := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer observability.ShutdownWithTimeout(ctx, shutdownTracing, log)

	collector, err := observability.NewPointingCollector(nil)
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}

	metricsAddr := cfg.MetricsAddr
	if flagMetricsAddr != "" {
		metricsAddr = flagMetricsAddr
	}
	metricsSrv := serveMetrics(metricsAddr, collector, log)

	store := loadCatalog(ctx, cfg.CatalogPath, log)
	collector.CatalogStars.Set(float64(store.Len()))

	observer := observerFromConfig(cmd, cfg)

	fusion := core.NewFusionEngine(core.FusionConfig{
		FilterBeta:      cfg.Fusion.FilterBeta,
		HysteresisDeg:   cfg.Fusion.HysteresisDeg,
		SmoothingWindow: cfg.Fusion.SmoothingWindow,
	}, log, collector)
	fusion.SetLocation(&model.LocationFix{
		LatitudeDeg:        observer.LatitudeDeg,
		LongitudeDeg:       observer.LongitudeDeg,
		AltitudeM:          observer.ElevationM,
		HasHeading:         cfg.Observer.DeclinationDeg != 0,
		TrueHeadingDeg:     cfg.Observer.DeclinationDeg,
		MagneticHeadingDeg: 0,
	})

	ephemSvc := ephem.NewService(log, collector)
	live := ephemSvc.AllPositions(ctx, &observer, time.Now())
	log.Info(ctx, "ephemeris ready", logging.Int("bodies", len(live)))

	searcher := search.NewEngine(store, ephemSvc, log, collector)

	source, sourceName, err := buildSource(cfg)
	if err != nil {
		return err
	}

	root := app.New(app.Deps{
		Fusion:     fusion,
		Searcher:   searcher,
		Ephem:      ephemSvc,
		Cursor:     timectrl.NewCursor(nil),
		Source:     source,
		Observer:   observer,
		Zones:      core.Zones{AcquiredDeg: cfg.Pointing.AcquiredDeg, AlignedDeg: cfg.Pointing.AlignedDeg},
		SourceName: sourceName,
		StarCount:  store.Len(),
	})

	p := tea.NewProgram(root, tea.WithAltScreen())
	if err := root.StartPipeline(p); err != nil {
		return fmt.Errorf("start sensor pipeline: %w", err)
	}

	_, err = p.Run()

	if metricsSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsSrv.Shutdown(shutdownCtx)
	}
	return err
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load(flagConfigDir)
	if err != nil {
		return err
	}
	log := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	at, err := observationTime()
	if err != nil {
		return err
	}

	store := loadCatalog(ctx, cfg.CatalogPath, log)
	searcher := search.NewEngine(store, ephem.NewService(log, nil), log, nil)

	observer := observerFromConfig(cmd, cfg)

	results := searcher.Query(ctx, strings.Join(args, " "), &observer, at)
	if len(results) == 0 {
		fmt.Println("no matches")
		return nil
	}
	for _, obj := range results {
		mag := "   --"
		if obj.HasMagnitude {
			mag = fmt.Sprintf("%5.1f", obj.Magnitude)
		}
		kind := "star"
		if obj.IsSolarBody {
			kind = "body"
		}
		fmt.Printf("%s  %s  RA %6.3fh  Dec %+7.3f°  %s\n",
			mag, kind, obj.Position.RAHours, obj.Position.DecDeg, obj.DisplayName())
	}
	return nil
}

func runPosition(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load(flagConfigDir)
	if err != nil {
		return err
	}
	log := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	at, err := observationTime()
	if err != nil {
		return err
	}

	observer := observerFromConfig(cmd, cfg)

	pos := ephem.NewService(log, nil).PositionOf(ctx, args[0], &observer, at)
	if pos == nil {
		return fmt.Errorf("no position for %q", args[0])
	}
	fmt.Printf("%s @ %s\n  RA  %7.4f h\n  Dec %+8.4f°\n", args[0], at.UTC().Format(time.RFC3339), pos.RAHours, pos.DecDeg)
	return nil
}

// observerFromConfig builds the observer, honoring --lat/--lon overrides.
func observerFromConfig(cmd *cobra.Command, cfg *config.Settings) model.Observer {
	obs := model.Observer{
		LatitudeDeg:  cfg.Observer.LatitudeDeg,
		LongitudeDeg: cfg.Observer.LongitudeDeg,
		ElevationM:   cfg.Observer.ElevationM,
	}
	if cmd.Flags().Changed("lat") {
		obs.LatitudeDeg = flagLat
	}
	if cmd.Flags().Changed("lon") {
		obs.LongitudeDeg = flagLon
	}
	return obs
}

func buildSource(cfg *config.Settings) (sensor.Source, string, error) {
	if flagReplay == "" || flagDemo {
		src := sensor.NewSyntheticSource(sensor.SyntheticConfig{
			MotionInterval:   cfg.Sensor.MotionInterval,
			MagneticInterval: cfg.Sensor.MagneticInterval,
			NoiseStdDev:      0.01,
		}, 0)
		return src, "synthetic", nil
	}

	f, err := os.Open(flagReplay)
	if err != nil {
		return nil, "", fmt.Errorf("open replay file: %w", err)
	}
	return sensor.NewReplaySource(f, true), "replay:" + flagReplay, nil
}

func loadCatalog(ctx context.Context, path string, log logging.Logger) *catalog.Store {
	f, err := os.Open(path)
	if err != nil {
		log.Warn(ctx, "star catalog unavailable, solar bodies only",
			logging.String("path", path), logging.String("error", err.Error()))
		return nil
	}
	defer f.Close()

	store, err := catalog.Load(f)
	if err != nil {
		log.Warn(ctx, "star catalog unreadable, solar bodies only",
			logging.String("path", path), logging.String("error", err.Error()))
		return nil
	}
	log.Info(ctx, "star catalog loaded", logging.String("path", path), logging.Int("stars", store.Len()))
	return store
}

// observationTime resolves --at into a clock: wall time by default, frozen
// when an explicit instant was requested.
func observationTime() (time.Time, error) {
	var clock timectrl.Clock = timectrl.SystemClock{}
	if flagAt != "" {
		at, err := time.Parse(time.RFC3339, flagAt)
		if err != nil {
			return time.Time{}, fmt.Errorf("parse --at: %w", err)
		}
		clock = timectrl.FixedClock{At: at}
	}
	return clock.Now(), nil
}

func serveMetrics(addr string, collector *observability.PointingCollector, log logging.Logger) *http.Server {
	if addr == "" || collector == nil {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())

	srv := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Warn(context.Background(), "metrics server exited", logging.String("error", err.Error()))
		}
	}()

	log.Info(context.Background(), "serving Prometheus metrics", logging.String("addr", addr))
	return srv
}
