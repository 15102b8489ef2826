package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/polkiloo/ordertrack/internal/domain/model"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress                string
	DatabaseURI               string
	JWTSecret                 string
	TokenTTL                  time.Duration
	LogLevel                  slog.Level
	ShutdownTimeout           time.Duration
	FanoutWorkers             int
	FanoutQueueSize           int
	SubscriberBuffer          int
	EventHeartbeat            time.Duration
	AdminStageOverride        bool
	DeleteBeforeDeliveredOnly bool
	StatsReportSchedule       string
}

const (
	defaultRunAddress          = ":8080"
	defaultJWTSecret           = "change-me-in-production"
	defaultTokenTTL            = 24 * time.Hour
	defaultShutdownTimeout     = 10 * time.Second
	defaultFanoutWorkers       = 4
	defaultFanoutQueueSize     = 256
	defaultSubscriberBuffer    = 16
	defaultEventHeartbeat      = 15 * time.Second
	defaultStatsReportSchedule = "@every 5m"
	defaultEnvFile             = ".env"
)

// Load parses configuration from an optional .env file, environment variables and flags.
func Load() (*Config, error) {
	if err := loadDotEnv(defaultEnvFile); err != nil {
		return nil, err
	}
	return load(os.Args[1:], os.LookupEnv)
}

// loadDotEnv populates unset environment variables from path. A missing file is not an error.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:                getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:               getString(lookup, "DATABASE_URI", ""),
		JWTSecret:                 getString(lookup, "JWT_SECRET", defaultJWTSecret),
		TokenTTL:                  getDuration(lookup, "TOKEN_TTL", defaultTokenTTL),
		ShutdownTimeout:           getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		FanoutWorkers:             getInt(lookup, "FANOUT_WORKERS", defaultFanoutWorkers),
		FanoutQueueSize:           getInt(lookup, "FANOUT_QUEUE_SIZE", defaultFanoutQueueSize),
		SubscriberBuffer:          getInt(lookup, "SUBSCRIBER_BUFFER", defaultSubscriberBuffer),
		EventHeartbeat:            getDuration(lookup, "EVENT_HEARTBEAT", defaultEventHeartbeat),
		AdminStageOverride:        getBool(lookup, "ADMIN_STAGE_OVERRIDE", false),
		DeleteBeforeDeliveredOnly: getBool(lookup, "DELETE_BEFORE_DELIVERED_ONLY", false),
		StatsReportSchedule:       getOptional(lookup, "STATS_REPORT_SCHEDULE", defaultStatsReportSchedule),
	}

	fs := flag.NewFlagSet("ordertrack", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
		heartbeatStr       = cfg.EventHeartbeat.String()
		logLevelStr        = getString(lookup, "LOG_LEVEL", slog.LevelInfo.String())
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN, empty for in-memory storage")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "Secret for signing auth tokens")
	fs.StringVar(&logLevelStr, "log-level", logLevelStr, "Minimum log level (debug, info, warn, error)")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.IntVar(&cfg.FanoutWorkers, "fanout-workers", cfg.FanoutWorkers, "Number of event dispatch workers")
	fs.IntVar(&cfg.FanoutQueueSize, "fanout-queue", cfg.FanoutQueueSize, "Pending events per dispatch worker")
	fs.IntVar(&cfg.SubscriberBuffer, "subscriber-buffer", cfg.SubscriberBuffer, "Buffered events per push subscriber")
	fs.StringVar(&heartbeatStr, "event-heartbeat", heartbeatStr, "Interval between push channel pings")
	fs.BoolVar(&cfg.AdminStageOverride, "admin-stage-override", cfg.AdminStageOverride, "Allow admins to advance stages")
	fs.BoolVar(&cfg.DeleteBeforeDeliveredOnly, "delete-before-delivered-only", cfg.DeleteBeforeDeliveredOnly, "Reject deletion of delivered orders")
	fs.StringVar(&cfg.StatsReportSchedule, "stats-schedule", cfg.StatsReportSchedule, "Cron schedule of the stats report, empty disables")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if cfg.EventHeartbeat, err = time.ParseDuration(heartbeatStr); err != nil {
		return nil, fmt.Errorf("invalid event heartbeat: %w", err)
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(logLevelStr)); err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	if secretFile, ok := lookup("JWT_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read jwt secret file: %w", err)
		}
		cfg.JWTSecret = string(content)
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}

	if cfg.FanoutWorkers <= 0 {
		cfg.FanoutWorkers = defaultFanoutWorkers
	}

	if cfg.FanoutQueueSize <= 0 {
		cfg.FanoutQueueSize = defaultFanoutQueueSize
	}

	if cfg.SubscriberBuffer <= 0 {
		cfg.SubscriberBuffer = defaultSubscriberBuffer
	}

	if cfg.EventHeartbeat <= 0 {
		cfg.EventHeartbeat = defaultEventHeartbeat
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("jwt secret must not be empty")
	}

	return cfg, nil
}

// Policy returns the transition policy selected by configuration.
func (c *Config) Policy() model.Policy {
	return model.Policy{
		AdminStageOverride:        c.AdminStageOverride,
		DeleteBeforeDeliveredOnly: c.DeleteBeforeDeliveredOnly,
	}
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

// getOptional keeps an explicitly empty value.
func getOptional(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getBool(lookup envLookup, key string, def bool) bool {
	if v, ok := lookup(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
