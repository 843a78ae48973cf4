// Stripfish - Redfish-style BMC for TP-Link Kasa power strips
//
// This is the main entry point for the Stripfish server. It locates a
// multi-outlet Kasa strip on the LAN (or connects to a configured address)
// and exposes it as a Redfish resource tree over HTTP, so standard BMC
// tooling can power-cycle lab equipment plugged into the strip.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/stripfish/stripfish/internal/api"
	"github.com/stripfish/stripfish/internal/infrastructure/config"
	"github.com/stripfish/stripfish/internal/infrastructure/logging"
	"github.com/stripfish/stripfish/internal/infrastructure/mqtt"
	"github.com/stripfish/stripfish/internal/kasa"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

// flags holds the command line overrides. Flags beat both the config file
// and environment variables.
type flags struct {
	configPath string
	deviceIP   string
	host       string
	port       int
}

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, parseFlags()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// parseFlags reads command line options.
func parseFlags() flags {
	var f flags
	flag.StringVar(&f.configPath, "config", "", "path to config file")
	flag.StringVar(&f.deviceIP, "device-ip", "", "IP address of the power strip (skips discovery)")
	flag.StringVar(&f.host, "host", "", "address to bind the HTTP server to")
	flag.IntVar(&f.port, "port", 0, "port to bind the HTTP server to")
	flag.Parse()
	return f
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//   - f: Parsed command line flags
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context, f flags) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Stripfish",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	cfg, err := loadConfig(f, log)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Locate the power strip. Failure is not fatal: the server starts
	// anyway and serves the structural resource tree, answering 503 on
	// device-backed resources until a restart finds the strip.
	strip := connectStrip(ctx, cfg, log)
	if strip != nil {
		defer func() {
			if closeErr := strip.Close(); closeErr != nil {
				log.Error("error closing device handle", "error", closeErr)
			}
		}()
	}

	// Connect to the MQTT broker (optional announcer)
	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)

		mqttClient.SetOnConnect(func() {
			log.Info("MQTT reconnected")
			announceStrip(mqttClient, strip, log)
		})
		mqttClient.SetOnDisconnect(func(err error) {
			log.Warn("MQTT disconnected", "error", err)
		})

		// Publish the initial whole-strip snapshot
		announceStrip(mqttClient, strip, log)
	} else {
		log.Info("MQTT announcer disabled")
	}

	// Start the API server
	var stripDep kasa.Strip
	if strip != nil {
		stripDep = strip
	}
	server, err := api.New(api.Deps{
		Config:  cfg.API,
		Logger:  log,
		Strip:   stripDep,
		MQTT:    mqttClient,
		Version: version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()
	log.Info("API server listening",
		"address", fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port),
	)

	log.Info("initialisation complete, waiting for shutdown signal")

	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls will run in reverse order:
	// 1. API server
	// 2. MQTT (if enabled)
	// 3. Device handle (if connected)

	log.Info("Stripfish stopped")
	return nil
}

// loadConfig resolves the configuration from file, environment, and flags.
//
// A missing file at the default path is not an error: the built-in defaults
// apply and everything stays overridable via environment and flags. An
// explicitly given --config path must exist.
func loadConfig(f flags, log *logging.Logger) (*config.Config, error) {
	path := f.configPath
	explicit := path != ""
	if !explicit {
		path = getConfigPath()
	}

	var (
		cfg *config.Config
		err error
	)
	if explicit {
		// An explicitly given --config path must exist.
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.LoadOrDefault(path)
	}
	if err != nil {
		return nil, err
	}
	log.Info("configuration loaded", "path", path)

	// Flag overrides
	if f.deviceIP != "" {
		cfg.Device.Address = f.deviceIP
	}
	if f.host != "" {
		cfg.API.Host = f.host
	}
	if f.port != 0 {
		cfg.API.Port = f.port
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// connectStrip locates the power strip, by direct address when configured
// or by UDP broadcast discovery otherwise. Returns nil when no device was
// found.
func connectStrip(ctx context.Context, cfg *config.Config, log *logging.Logger) *kasa.Client {
	kasaCfg := kasa.Config{
		Port:             cfg.Device.Port,
		CommandTimeout:   cfg.GetCommandTimeout(),
		DiscoveryTimeout: cfg.GetDiscoveryTimeout(),
	}

	var (
		strip *kasa.Client
		err   error
	)
	if cfg.Device.Address != "" {
		log.Info("connecting to configured device", "address", cfg.Device.Address)
		strip, err = kasa.Connect(ctx, cfg.Device.Address, kasaCfg)
	} else {
		log.Info("discovering power strip", "timeout", cfg.GetDiscoveryTimeout())
		strip, err = kasa.Discover(ctx, kasaCfg)
	}
	if err != nil {
		log.Warn("no power strip available, serving structural resources only",
			"error", err,
		)
		return nil
	}

	strip.SetLogger(log)
	log.Info("power strip connected",
		"address", strip.Address(),
		"outlets", strip.OutletCount(),
	)
	return strip
}

// stripAnnouncement is the retained whole-strip snapshot published to the
// announcer after discovery and after every broker reconnection.
type stripAnnouncement struct {
	Alias     string               `json:"alias"`
	Model     string               `json:"model"`
	Outlets   []outletAnnouncement `json:"outlets"`
	Timestamp string               `json:"timestamp"`
}

type outletAnnouncement struct {
	Index      int    `json:"index"`
	Alias      string `json:"alias"`
	PowerState string `json:"power_state"`
}

// announceStrip publishes a retained snapshot of the whole strip.
// Best effort: failures are logged and never affect startup.
func announceStrip(client *mqtt.Client, strip *kasa.Client, log *logging.Logger) {
	if client == nil || strip == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	snap, err := strip.Snapshot(ctx)
	if err != nil {
		log.Warn("strip snapshot for announcement failed", "error", err)
		return
	}

	ann := stripAnnouncement{
		Alias:     snap.Alias,
		Model:     snap.Model,
		Outlets:   make([]outletAnnouncement, 0, len(snap.Outlets)),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	for _, o := range snap.Outlets {
		state := "Off"
		if o.On {
			state = "On"
		}
		ann.Outlets = append(ann.Outlets, outletAnnouncement{
			Index:      o.Index,
			Alias:      o.Alias,
			PowerState: state,
		})
	}

	payload, err := json.Marshal(ann)
	if err != nil {
		log.Warn("encoding strip announcement failed", "error", err)
		return
	}

	topic := mqtt.Topics{}.StripState()
	if err := client.PublishRetained(topic, payload); err != nil {
		log.Warn("failed to announce strip state", "topic", topic, "error", err)
	}
}

// getConfigPath returns the configuration file path.
// Uses STRIPFISH_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("STRIPFISH_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
