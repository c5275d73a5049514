package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Database backends selected by the DATABASE_URL scheme.
const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

// Config holds runtime configuration sourced from env vars.
type Config struct {
	Port         string
	DatabaseURL  string
	DatabaseName string
	JWTSecret    string
	JWTIssuer    string
	JWTTTL       time.Duration
	BcryptCost   int
	CORSOrigins  []string
	StaticDir    string
	LogLevel     string
}

// Load reads configuration from the environment and validates it.
func Load() (Config, error) {
	return FromLookup(os.Getenv)
}

// FromLookup builds a Config from an arbitrary getenv-style function.
func FromLookup(getenv func(string) string) (Config, error) {
	cfg := Config{
		Port:         fallback(getenv("PORT"), "8080"),
		DatabaseURL:  strings.TrimSpace(getenv("DATABASE_URL")),
		DatabaseName: fallback(getenv("DATABASE_NAME"), "flix"),
		JWTSecret:    strings.TrimSpace(getenv("JWT_SECRET")),
		JWTIssuer:    fallback(getenv("JWT_ISSUER"), "flix-api"),
		CORSOrigins:  parseCSV(fallback(getenv("CORS_ALLOWED_ORIGINS"), "*")),
		StaticDir:    fallback(getenv("STATIC_DIR"), "public"),
		LogLevel:     fallback(getenv("LOG_LEVEL"), "info"),
	}

	minutes := fallback(getenv("JWT_TTL_MINUTES"), "60")
	if ttlMinutes, err := strconv.Atoi(minutes); err == nil && ttlMinutes > 0 {
		cfg.JWTTTL = time.Duration(ttlMinutes) * time.Minute
	} else {
		cfg.JWTTTL = 60 * time.Minute
	}

	cost := fallback(getenv("BCRYPT_COST"), "10")
	if n, err := strconv.Atoi(cost); err == nil && n >= 4 && n <= 31 {
		cfg.BcryptCost = n
	} else {
		cfg.BcryptCost = 10
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings the process cannot start without.
func (c Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if _, err := c.DatabaseDriver(); err != nil {
		return err
	}
	return nil
}

// DatabaseDriver maps the DATABASE_URL scheme to a storage backend.
func (c Config) DatabaseDriver() (string, error) {
	u, err := url.Parse(c.DatabaseURL)
	if err != nil {
		return "", fmt.Errorf("parse DATABASE_URL: %w", err)
	}
	switch strings.ToLower(u.Scheme) {
	case "postgres", "postgresql":
		return DriverPostgres, nil
	case "mongodb", "mongodb+srv":
		return DriverMongo, nil
	case "memory":
		return DriverMemory, nil
	default:
		return "", fmt.Errorf("unsupported DATABASE_URL scheme %q", u.Scheme)
	}
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

func parseCSV(input string) []string {
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
