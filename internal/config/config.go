package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Config holds application configuration values for both the server and the
// stockctl client.
type Config struct {
	Env         string   `validate:"required"`
	HTTPPort    int      `validate:"gt=0,lt=65536"`
	DBDriver    string   `validate:"oneof=mysql sqlite"`
	DBDSN       string   `validate:"required"`
	CORSOrigins []string `validate:"dive,url"`
	AllowSeed   bool

	GeminiAPIKey string
	GeminiModel  string

	LogLevel  string `validate:"oneof=debug info warn error"`
	LogPretty bool

	APIBase     string        `validate:"url"`
	HTTPTimeout time.Duration `validate:"gt=0"`
}

// Load reads the .env file (if any) and then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function, applying defaults.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		Env:          get("APP_ENV", "development"),
		DBDriver:     strings.ToLower(get("DB_DRIVER", "sqlite")),
		DBDSN:        get("DB_DSN", "stockctl.db"),
		AllowSeed:    get("ALLOW_SEED", "false") == "true",
		GeminiAPIKey: get("GEMINI_API_KEY", ""),
		GeminiModel:  get("GEMINI_MODEL", "gemini-2.0-flash-001"),
		LogLevel:     strings.ToLower(get("LOG_LEVEL", "info")),
		LogPretty:    get("LOG_PRETTY", "false") == "true",
		APIBase:      strings.TrimRight(get("API_BASE", "http://localhost:8080"), "/"),
	}

	port, err := strconv.Atoi(get("HTTP_PORT", "8080"))
	if err != nil {
		return nil, errors.Wrap(err, "HTTP_PORT")
	}
	cfg.HTTPPort = port

	timeout, err := time.ParseDuration(get("HTTP_TIMEOUT", "10s"))
	if err != nil {
		return nil, errors.Wrap(err, "HTTP_TIMEOUT")
	}
	cfg.HTTPTimeout = timeout

	for _, origin := range strings.Split(get("CORS_ORIGINS", "http://localhost:5173"), ",") {
		if o := strings.TrimSpace(origin); o != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, o)
		}
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.HTTPPort)
}
