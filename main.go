package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"luastrack/pkg/config"
	"luastrack/pkg/integration"
	"luastrack/pkg/logging"
	"luastrack/pkg/luas"
	"luastrack/pkg/metrics"
	"luastrack/pkg/profiling"
	"luastrack/pkg/sensor"
	"luastrack/pkg/tracing"
)

func main() {
	// Command line flags
	var (
		configFile  = flag.String("config", getEnv("LUAS_CONFIG", ""), "Path to a YAML config file")
		stop        = flag.String("stop", getEnv("LUAS_STOP", ""), "Luas stop code, e.g. RAN (required)")
		direction   = flag.String("direction", getEnv("LUAS_DIRECTION", ""), "Travel direction: Inbound or Outbound")
		destination = flag.String("destination", getEnv("LUAS_DESTINATION", ""), "Optional terminus code to filter by, e.g. BRO")
		walkTime    = flag.String("walk-time", getEnv("LUAS_WALK_TIME", ""), "Walking minutes to the stop; enables the wait-time entity")
		interval    = flag.String("interval", getEnv("LUAS_INTERVAL", ""), "Forecast polling interval, e.g. 30s")
		dryRun      = flag.Bool("dry-run", false, "Print the entity board to stdout on every refresh")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Dublin Luas Tram Tracker\n\n")
		fmt.Fprintf(os.Stderr, "Polls the Luas forecasting API for one configured journey and exposes\n")
		fmt.Fprintf(os.Stderr, "arrival, wait-time, and line-status entities.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  LUAS_CONFIG       - Path to a YAML config file\n")
		fmt.Fprintf(os.Stderr, "  LUAS_STOP         - Luas stop code (required)\n")
		fmt.Fprintf(os.Stderr, "  LUAS_DIRECTION    - Inbound or Outbound (default: Inbound)\n")
		fmt.Fprintf(os.Stderr, "  LUAS_DESTINATION  - Optional terminus code filter\n")
		fmt.Fprintf(os.Stderr, "  LUAS_WALK_TIME    - Walking minutes to the stop\n")
		fmt.Fprintf(os.Stderr, "  LUAS_INTERVAL     - Forecast polling interval (default: 30s)\n")
		fmt.Fprintf(os.Stderr, "  LOG_LEVEL         - debug, info, warn, or error (default: info)\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # Watch inbound trams from Ranelagh\n")
		fmt.Fprintf(os.Stderr, "  %s --dry-run --stop=RAN --direction=Inbound\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  # Only trams terminating at Broombridge, with a 7 minute walk\n")
		fmt.Fprintf(os.Stderr, "  %s --stop=RAN --direction=Inbound --destination=BRO --walk-time=7\n\n", os.Args[0])
	}

	flag.Parse()

	logging.InitLogging()

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Flags and env vars override the file.
	if *stop != "" {
		cfg.Stop = *stop
	}
	if *direction != "" {
		cfg.Direction = *direction
	}
	if *destination != "" {
		cfg.Destination = *destination
	}
	if *walkTime != "" {
		minutes, err := strconv.Atoi(*walkTime)
		if err != nil {
			log.Fatalf("Invalid walk time %q: %v", *walkTime, err)
		}
		cfg.WalkTime = &minutes
	}
	if *interval != "" {
		d, err := time.ParseDuration(*interval)
		if err != nil {
			log.Fatalf("Invalid interval format: %v", err)
		}
		cfg.ForecastInterval = d
	}
	if *dryRun {
		cfg.DryRun = true
	}
	cfg.Normalize()

	if cfg.Stop == "" {
		fmt.Fprintf(os.Stderr, "Error: stop code is required. Use --stop or set LUAS_STOP environment variable.\n\n")
		flag.Usage()
		os.Exit(1)
	}

	// Initialize tracing
	shutdownTracing, err := tracing.InitTracing()
	if err != nil {
		log.Fatalf("Failed to initialize tracing: %v", err)
	}
	defer shutdownTracing()

	// Initialize profiling
	shutdownProfiling, err := profiling.InitProfiling()
	if err != nil {
		log.Fatalf("Failed to initialize profiling: %v", err)
	}
	defer shutdownProfiling()

	// Initialize metrics
	shutdownMetrics, err := metrics.InitMetrics()
	if err != nil {
		log.Fatalf("Failed to initialize metrics: %v", err)
	}
	defer shutdownMetrics()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	integ, err := integration.Setup(ctx, &cfg, luas.NewClient())
	if err != nil {
		switch {
		case errors.Is(err, config.ErrUnknownStop):
			log.Fatalf("Unknown stop code %q. Codes are the short abbreviations, e.g. RAN for Ranelagh.", cfg.Stop)
		case errors.Is(err, config.ErrUnknownDestination):
			log.Fatalf("Destination %q is not a selectable terminus.", cfg.Destination)
		case errors.Is(err, config.ErrInvalidDirection):
			log.Fatalf("Direction must be Inbound or Outbound, got %q.", cfg.Direction)
		default:
			log.Fatalf("Failed to set up tracker: %v", err)
		}
	}
	defer integ.Unload()

	log.Printf("Tracking %s", integ.Title())
	log.Printf("Forecast interval: %v, status interval: %v", cfg.ForecastInterval, cfg.StatusInterval)

	if cfg.DryRun {
		log.Printf("DRY RUN mode: entity states will be printed on every refresh")
		integ.OnForecastUpdate(func() { printBoard(integ) })
		integ.OnStatusUpdate(func() { printBoard(integ) })
		printBoard(integ)
	}

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	log.Printf("Received signal %v, shutting down gracefully...", sig)
	cancel()

	done := make(chan struct{})
	go func() {
		integ.Unload()
		close(done)
	}()
	select {
	case <-done:
		log.Println("Tracker stopped")
	case <-time.After(5 * time.Second):
		log.Println("Shutdown timeout, forcing exit")
	}
}

// printBoard renders every entity's current state to stdout.
func printBoard(integ *integration.Integration) {
	fmt.Printf("\n%s at %s\n", integ.Title(), time.Now().Format("15:04:05"))
	for _, s := range integ.Sensors() {
		state := s.State()
		unit := s.Unit()
		if unit != "" && state != sensor.StateUnavailable && state != sensor.StateUnknown {
			state += " " + unit
		}
		fmt.Printf("  %-40s %s\n", s.Name(), state)
	}
}

// getEnv returns the value of an environment variable or a default value if not set
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
