package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración necesaria para correr la aplicación.
type Config struct {
	Port           string
	DatabaseURL    string
	FixtureDir     string
	InitSQLDir     string
	LogLevel       string
	LogDevelopment bool
	RequestTimeout time.Duration
	DBMaxConns     int32
}

// Load lee variables de entorno y valida lo mínimo indispensable.
func Load() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "1323")
	v.SetDefault("FIXTURE_DIR", "fixture")
	v.SetDefault("INIT_SQL_DIR", "db")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_DEVELOPMENT", false)
	v.SetDefault("REQUEST_TIMEOUT", 10*time.Second)
	v.SetDefault("DB_MAX_CONNS", 10)

	port := strings.TrimSpace(v.GetString("PORT"))
	if port == "" {
		port = "1323"
	}
	// Normalizamos por si alguien manda ":1323"
	port = strings.TrimPrefix(port, ":")

	databaseURL := strings.TrimSpace(v.GetString("DATABASE_URL"))
	if databaseURL == "" {
		return Config{}, fmt.Errorf("missing required env var: DATABASE_URL")
	}

	timeout := v.GetDuration("REQUEST_TIMEOUT")
	if timeout <= 0 {
		return Config{}, fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}

	maxConns := v.GetInt32("DB_MAX_CONNS")
	if maxConns < 1 {
		return Config{}, fmt.Errorf("DB_MAX_CONNS must be at least 1")
	}

	return Config{
		Port:           port,
		DatabaseURL:    databaseURL,
		FixtureDir:     v.GetString("FIXTURE_DIR"),
		InitSQLDir:     v.GetString("INIT_SQL_DIR"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		LogDevelopment: v.GetBool("LOG_DEVELOPMENT"),
		RequestTimeout: timeout,
		DBMaxConns:     maxConns,
	}, nil
}
