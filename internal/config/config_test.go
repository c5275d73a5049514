package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookup(env map[string]string) func(string) string {
	return func(key string) string { return env[key] }
}

func TestFromLookup_Defaults(t *testing.T) {
	cfg, err := FromLookup(lookup(map[string]string{
		"DATABASE_URL": "postgres://localhost/flix",
		"JWT_SECRET":   "s3cret",
	}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ":8080", cfg.HTTPAddress())
	assert.Equal(t, "flix", cfg.DatabaseName)
	assert.Equal(t, "flix-api", cfg.JWTIssuer)
	assert.Equal(t, time.Hour, cfg.JWTTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, "public", cfg.StaticDir)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestFromLookup_Overrides(t *testing.T) {
	cfg, err := FromLookup(lookup(map[string]string{
		"PORT":                 "9000",
		"DATABASE_URL":         "mongodb://localhost:27017",
		"DATABASE_NAME":        "movies",
		"JWT_SECRET":           " s3cret ",
		"JWT_TTL_MINUTES":      "15",
		"BCRYPT_COST":          "12",
		"CORS_ALLOWED_ORIGINS": "https://a.example, https://b.example,,",
	}))
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.HTTPAddress())
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, 15*time.Minute, cfg.JWTTTL)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)

	driver, err := cfg.DatabaseDriver()
	require.NoError(t, err)
	assert.Equal(t, DriverMongo, driver)
}

func TestFromLookup_InvalidNumbersFallBack(t *testing.T) {
	cfg, err := FromLookup(lookup(map[string]string{
		"DATABASE_URL":    "memory://",
		"JWT_SECRET":      "s3cret",
		"JWT_TTL_MINUTES": "-5",
		"BCRYPT_COST":     "99",
	}))
	require.NoError(t, err)
	assert.Equal(t, time.Hour, cfg.JWTTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
}

func TestFromLookup_FailFast(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{name: "missing secret", env: map[string]string{"DATABASE_URL": "postgres://localhost/flix"}, want: "JWT_SECRET is required"},
		{name: "blank secret", env: map[string]string{"DATABASE_URL": "postgres://localhost/flix", "JWT_SECRET": "   "}, want: "JWT_SECRET is required"},
		{name: "missing database", env: map[string]string{"JWT_SECRET": "s3cret"}, want: "DATABASE_URL is required"},
		{name: "unknown scheme", env: map[string]string{"DATABASE_URL": "mysql://localhost/flix", "JWT_SECRET": "s3cret"}, want: `unsupported DATABASE_URL scheme "mysql"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromLookup(lookup(tt.env))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDatabaseDriver(t *testing.T) {
	for url, want := range map[string]string{
		"postgres://u:p@localhost:5432/flix":    DriverPostgres,
		"postgresql://localhost/flix":           DriverPostgres,
		"mongodb://localhost:27017":             DriverMongo,
		"mongodb+srv://cluster0.example.net/db": DriverMongo,
		"memory://":                             DriverMemory,
	} {
		got, err := Config{DatabaseURL: url}.DatabaseDriver()
		require.NoError(t, err, url)
		assert.Equal(t, want, got, url)
	}
}
