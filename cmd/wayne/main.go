// Wayne Industries Security Platform
//
// This is the main entry point for the security backend. It serves the
// REST API and live access-log feed, and optionally mirrors security events
// to an MQTT broker and InfluxDB.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/wayneindustries/security-core/migrations"

	"github.com/wayneindustries/security-core/internal/accesslog"
	"github.com/wayneindustries/security-core/internal/api"
	"github.com/wayneindustries/security-core/internal/area"
	"github.com/wayneindustries/security-core/internal/auth"
	"github.com/wayneindustries/security-core/internal/dashboard"
	"github.com/wayneindustries/security-core/internal/infrastructure/config"
	"github.com/wayneindustries/security-core/internal/infrastructure/database"
	"github.com/wayneindustries/security-core/internal/infrastructure/influxdb"
	"github.com/wayneindustries/security-core/internal/infrastructure/logging"
	"github.com/wayneindustries/security-core/internal/infrastructure/mqtt"
	"github.com/wayneindustries/security-core/internal/resource"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the application logic, separated from main for testability.
// It returns nil on clean shutdown.
func run(ctx context.Context) error { //nolint:gocognit,gocyclo // startup wiring: each step is linear
	log := logging.Default()
	log.Info("starting Wayne security platform",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	cfg, configPath, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log = logging.New(cfg.Logging, version)
	if configPath != "" {
		log.Info("configuration loaded", "path", configPath)
	} else {
		log.Warn("no config file found, using built-in defaults", "path", defaultConfigPath)
	}
	if cfg.UsesDefaultSecret() {
		log.Warn("using the built-in JWT secret; set WAYNE_JWT_SECRET before exposing this server")
	}

	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	hasher := auth.NewHasher(cfg.Security.PasswordScheme)
	userRepo := auth.NewUserRepository(db)
	if cfg.Seed.Enabled {
		if seedErr := seed(ctx, db, userRepo, hasher, log); seedErr != nil {
			return fmt.Errorf("seeding database: %w", seedErr)
		}
	}

	health := map[string]api.HealthChecker{"database": db}
	var sinks []accesslog.Sink

	// MQTT is optional; a broker outage at startup is logged, not fatal.
	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(cfg.MQTT)
		if err != nil {
			log.Warn("MQTT unavailable, security events will not be published", "error", err)
		} else {
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
			})
			mqttClient.SetOnDisconnect(func(err error) {
				log.Warn("MQTT disconnected", "error", err)
			})
			health["mqtt"] = mqttClient
			sinks = append(sinks, accesslog.NewMQTTSink(mqttClient))
		}
	} else {
		log.Info("MQTT disabled")
	}

	var influxClient *influxdb.Client
	influxClient, err = influxdb.Connect(cfg.InfluxDB)
	switch {
	case errors.Is(err, influxdb.ErrDisabled):
		log.Info("InfluxDB disabled")
	case err != nil:
		log.Warn("InfluxDB unavailable, access events will not be exported", "error", err)
	default:
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		health["influxdb"] = influxClient
		sinks = append(sinks, accesslog.NewInfluxSink(influxClient))
	}

	codec := auth.NewTokenCodec(auth.TokenConfig{
		Secret: cfg.Security.JWT.Secret,
		TTL:    cfg.GetTokenTTL(),
	})
	accessLog := accesslog.NewRepository(db)
	users := auth.NewUserService(db, accessLog, hasher, cfg.Security.DefaultPassword)
	resources := resource.NewService(db, accessLog)
	areas := area.NewService(db, accessLog, log)
	if mqttClient != nil {
		areas.SetPublisher(mqttClient)
	}
	if influxClient != nil {
		areas.SetWriter(influxClient)
	}

	hub := api.NewHub(cfg.WebSocket, log)
	sinks = append(sinks, hub)
	dispatcher := accesslog.NewDispatcher(log.Component("accesslog"), sinks...)
	accessLog.SetPublisher(dispatcher)

	srv, err := api.New(api.Deps{
		Config:        cfg.API,
		WS:            cfg.WebSocket,
		Logger:        log,
		Guard:         auth.NewGuard(codec),
		Authenticator: auth.NewAuthenticator(userRepo, hasher, codec, accessLog),
		Users:         users,
		Resources:     resources,
		Areas:         areas,
		AccessLog:     accessLog,
		Dashboard:     dashboard.NewService(resources, users, accessLog),
		Hub:           hub,
		Health:        health,
		Version:       version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}

	// Background workers stop when ctx is cancelled; the dispatcher drains
	// its queue before Done closes.
	workerCtx, stopWorkers := context.WithCancel(ctx)
	go hub.Run(workerCtx)
	go dispatcher.Run(workerCtx)
	defer func() {
		stopWorkers()
		<-dispatcher.Done()
	}()

	if startErr := srv.Start(ctx); startErr != nil {
		return fmt.Errorf("starting API server: %w", startErr)
	}
	defer func() {
		if closeErr := srv.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	log.Info("Wayne security platform started",
		"address", fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port),
		"sinks", len(sinks),
	)

	<-ctx.Done()
	log.Info("shutdown signal received")
	return nil
}

// seed creates the bootstrap users, resources and areas on an empty store.
func seed(ctx context.Context, db *database.DB, users *auth.UserRepository, hasher *auth.Hasher, log *logging.Logger) error {
	if _, err := auth.SeedUsers(ctx, users, hasher, log); err != nil {
		return err
	}
	if _, err := resource.Seed(ctx, resource.NewRepository(db), log); err != nil {
		return err
	}
	if _, err := area.Seed(ctx, area.NewRepository(db), log); err != nil {
		return err
	}
	return nil
}

// loadConfig reads the file named by WAYNE_CONFIG, or the default path.
// When WAYNE_CONFIG is unset and the default file does not exist, the
// built-in configuration is used and the returned path is empty.
func loadConfig() (*config.Config, string, error) {
	path := getConfigPath()
	if os.Getenv("WAYNE_CONFIG") == "" {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			cfg, err := config.Default()
			return cfg, "", err
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// getConfigPath returns the configuration file path from WAYNE_CONFIG or
// the default location.
func getConfigPath() string {
	if path := os.Getenv("WAYNE_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
