package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"code.cloudfoundry.org/clock"
	"github.com/joho/godotenv"

	"weather-dashboard/collector"
	"weather-dashboard/dashboard"
	"weather-dashboard/datasource"
	"weather-dashboard/datetime"
	"weather-dashboard/display"
	"weather-dashboard/providers/openweathermap"
	"weather-dashboard/providers/unsplash"
	"weather-dashboard/providers/weatherapi"
	"weather-dashboard/settings"
	"weather-dashboard/storage"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	// Parse command line arguments
	configFile := flag.String("config", "config.json", "Path to configuration file")
	dbPath := flag.String("db", "", "SQLite database for settings and history (overrides config, \"-\" keeps them in memory)")
	enableRateLimiting := flag.Bool("rate-limit", true, "Enable API rate limiting")
	fetchTimeout := flag.Duration("timeout", 10*time.Second, "Timeout for each weather, forecast or background request")
	flag.Parse()

	// Load configuration
	config, err := datasource.LoadConfig(*configFile)
	if errors.Is(err, os.ErrNotExist) {
		log.Printf("No config file at %s, using defaults and environment", *configFile)
		config = datasource.DefaultConfig()
	} else if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	config.ApplyEnv()
	if *dbPath != "" {
		config.DatabasePath = *dbPath
	}
	if err := config.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	store, err := openStore(config.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer store.Close()

	provider := newProvider(config, *enableRateLimiting)
	log.Printf("Using %s for weather and forecasts", provider.Name())

	var opts []dashboard.Option
	opts = append(opts, dashboard.WithForecastDays(config.ForecastDays), dashboard.WithFetchTimeout(*fetchTimeout))
	if config.Unsplash.Enabled {
		var bg datasource.BackgroundSource = unsplash.NewUnsplashSource(config.Unsplash.APIKey)
		if *enableRateLimiting {
			// Unsplash demo apps get 50 requests per hour
			bg = datasource.NewRateLimitedBackgroundSource(bg, 50.0/3600, 5)
		}
		opts = append(opts, dashboard.WithBackground(bg, config.BackgroundFallback()))
	} else {
		opts = append(opts, dashboard.WithBackground(nil, config.BackgroundFallback()))
	}

	panel := display.NewPanel()
	notifier := dashboard.NotifierFunc(func(message string) {
		fmt.Printf("\n⚠️  %s\n", message)
	})
	dash := dashboard.New(panel, provider, provider, store, notifier, opts...)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	prefs := settings.NewPreferences(store)
	clk := clock.NewClock()

	// The clock only writes while the weather section is on screen
	liveClock := datetime.NewClock(clk, prefs, panel.Date, panel.Time,
		datetime.WithVisibility(func() bool { return panel.Section() == display.SectionWeather }))
	stopClock := liveClock.Start(ctx)

	refresher := collector.NewRefresher(dash, prefs, clk)
	// one refresh covers the weather, background and forecast requests
	refresher.SetFetchTimeout(3 * *fetchTimeout)
	stopRefresher := refresher.Start(ctx)

	if err := dash.Startup(ctx); err != nil {
		log.Printf("Auto-load failed: %v", err)
	}

	// Set up channels for graceful shutdown
	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	shell := dashboard.NewShell(dash, os.Stdout)
	fmt.Println("Weather Dashboard (type help for commands)")
	if err := panel.Render(os.Stdout); err != nil {
		log.Printf("Render failed: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		done <- shell.Run(ctx, os.Stdin)
	}()

	select {
	case sig := <-shutdownChan:
		fmt.Printf("\nShutting down due to %s signal\n", sig)
	case err := <-done:
		if err != nil {
			log.Printf("Command loop stopped: %v", err)
		}
	}

	cancel()
	stopRefresher()
	stopClock()
	dash.Wait()

	fmt.Println("Shutdown complete")
}

// openStore opens the SQLite database at path, or an in-memory store for "-"
func openStore(path string) (storage.Store, error) {
	if path == "" || path == "-" {
		log.Println("Keeping settings and history in memory")
		return storage.NewMemoryStore(), nil
	}
	s, err := storage.NewSQLite(path)
	if err != nil {
		return nil, err
	}
	log.Printf("Settings and history stored in %s", path)
	return s, nil
}

// newProvider creates the configured weather provider
func newProvider(config *datasource.Config, rateLimit bool) datasource.Provider {
	var provider datasource.Provider
	var weatherRPS, forecastRPS float64
	var burst int

	switch config.Provider {
	case datasource.ProviderWeatherAPI:
		provider = weatherapi.NewWeatherAPISource(config.WeatherAPI.APIKey)
		// WeatherAPI free tier allows ~23 calls/minute = 0.4 calls per second
		weatherRPS, forecastRPS, burst = 0.4, 0.4, 3
	default:
		provider = openweathermap.NewOpenWeatherMapSource(config.OpenWeatherMap.APIKey)
		// OpenWeatherMap free tier allows 60 calls/minute = 1 call per second
		weatherRPS, forecastRPS, burst = 1.0, 1.0, 5
	}

	if !rateLimit {
		return provider
	}
	log.Printf("Applied rate limiting to %s provider", provider.Name())
	return datasource.NewRateLimitedProvider(provider, weatherRPS, forecastRPS, burst)
}
