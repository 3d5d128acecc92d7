// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes settings for the
// webhook server, the Telegram bot, the Helius API client, persistence,
// logging, registration guards, and observability.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// HeliusConfig groups everything needed to talk to the Helius API: the
// REST base for webhooks / history / token metadata, the RPC base for DAS
// asset lookups, the API key, and the shared webhook this relay maintains.
type HeliusConfig struct {
	APIKey     string // HELIUS_API_KEY
	APIBaseURL string // HELIUS_API_URL (e.g. "https://api.helius.xyz")
	RPCBaseURL string // HELIUS_RPC_URL (e.g. "https://rpc.helius.xyz")
	WebhookID  string // HELIUS_WEBHOOK_ID — the single shared webhook
	WebhookURL string // HELIUS_WEBHOOK_URL — callback the webhook posts to

	HistoryTimeout  time.Duration // per-request timeout for tx-history reads
	RegistryTimeout time.Duration // per-request timeout for webhook get/put
}

// GuardConfig holds the registration-time guard thresholds.
type GuardConfig struct {
	MaxWalletsPerUser int     // MAX_WALLETS_PER_USER
	MaxTxPerDay       float64 // MAX_TX_PER_DAY — tx-rate guard threshold
	MinSampleSize     int     // below this many sampled txs the guard accepts
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// Config holds all configuration values for both binaries (relay and bot).
type Config struct {
	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // e.g. 20s
	IdleTimeout       time.Duration // e.g. 60s
	MaxHeaderBytes    int           // bytes
	GinMode           string        // debug|release|test

	// Logging
	LogLevel  string // debug|info|warn|error|fatal|panic
	LogPretty bool   // pretty console logs in dev

	// Persistence
	DBPath string // SQLite path, shared by relay and bot

	// Telegram
	BotToken string // BOT_TOKEN

	// Collaborators / guards
	Helius HeliusConfig
	Guard  GuardConfig

	// Inbound rate limiting (webhook endpoint)
	RateRPS   float64 // tokens per second (>= 0)
	RateBurst int     // bucket size (>= 1)

	// Observability
	OTEL OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables, applies defaults,
// normalizes values, and validates the result. Secrets (BOT_TOKEN,
// HELIUS_API_KEY) are not required here; each binary checks the ones it
// actually needs at startup so tests can construct configs freely.
func Load() (Config, error) {
	cfg := Config{
		// Server
		Port:              getenv("PORT", "5002"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 20*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		// Logging
		LogLevel:  strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty: getbool("LOG_PRETTY", false),

		// Persistence
		DBPath: getenv("DB_PATH", "wallets.db"),

		// Telegram
		BotToken: getenv("BOT_TOKEN", ""),

		// Helius
		Helius: HeliusConfig{
			APIKey:          getenv("HELIUS_API_KEY", ""),
			APIBaseURL:      getenv("HELIUS_API_URL", "https://api.helius.xyz"),
			RPCBaseURL:      getenv("HELIUS_RPC_URL", "https://rpc.helius.xyz"),
			WebhookID:       getenv("HELIUS_WEBHOOK_ID", ""),
			WebhookURL:      getenv("HELIUS_WEBHOOK_URL", ""),
			HistoryTimeout:  getdur("HELIUS_HISTORY_TIMEOUT", 15*time.Second),
			RegistryTimeout: getdur("HELIUS_REGISTRY_TIMEOUT", 15*time.Second),
		},

		// Guards
		Guard: GuardConfig{
			MaxWalletsPerUser: getint("MAX_WALLETS_PER_USER", 5),
			MaxTxPerDay:       getfloat("MAX_TX_PER_DAY", 50),
			MinSampleSize:     getint("GUARD_MIN_SAMPLE", 10),
		},

		// Rate limiting
		RateRPS:   getfloat("RATE_RPS", 5.0),
		RateBurst: getint("RATE_BURST", 10),

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "wallet-relay"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}
	cfg.Helius.APIBaseURL = strings.TrimRight(cfg.Helius.APIBaseURL, "/")
	cfg.Helius.RPCBaseURL = strings.TrimRight(cfg.Helius.RPCBaseURL, "/")

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		return cfg, errors.New("DB_PATH must not be empty")
	}
	if cfg.Helius.HistoryTimeout <= 0 || cfg.Helius.RegistryTimeout <= 0 {
		return cfg, errors.New("Helius timeouts must be positive durations")
	}
	if cfg.Guard.MaxWalletsPerUser < 1 {
		return cfg, errors.New("MAX_WALLETS_PER_USER must be >= 1")
	}
	if cfg.Guard.MaxTxPerDay <= 0 {
		return cfg, errors.New("MAX_TX_PER_DAY must be > 0")
	}
	if cfg.Guard.MinSampleSize < 1 {
		return cfg, errors.New("GUARD_MIN_SAMPLE must be >= 1")
	}
	if cfg.RateRPS < 0 {
		return cfg, errors.New("RATE_RPS must be >= 0")
	}
	if cfg.RateBurst < 1 {
		return cfg, errors.New("RATE_BURST must be >= 1")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// ---- helpers (no external deps) ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
