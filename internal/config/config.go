package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

// Store drivers.
const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// Config holds environment-driven configuration.
type Config struct {
	HTTP struct {
		Addr            string        `env:"TECHTRECK_HTTP_ADDR" envDefault:":8080"`
		ShutdownTimeout time.Duration `env:"TECHTRECK_HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	}
	Store struct {
		Driver     string `env:"TECHTRECK_STORE_DRIVER" envDefault:"sqlite"`
		SQLitePath string `env:"TECHTRECK_SQLITE_PATH" envDefault:"techtreck.db"`
		MySQLDSN   string `env:"MYSQL_DSN"` // e.g., user:pass@tcp(host:3306)/techtreck
	}
	API struct {
		BaseURL string        `env:"TECHTRECK_API_URL" envDefault:"http://localhost:8080"`
		Timeout time.Duration `env:"TECHTRECK_API_TIMEOUT" envDefault:"30s"`
	}
	PTO struct {
		AllowanceDays int `env:"TECHTRECK_PTO_ALLOWANCE" envDefault:"26"`
	}
	Chatbot struct {
		DuckDuckGoURL string        `env:"TECHTRECK_DUCKDUCKGO_URL" envDefault:"https://api.duckduckgo.com"`
		WikipediaURL  string        `env:"TECHTRECK_WIKIPEDIA_URL" envDefault:"https://en.wikipedia.org"`
		KnowledgeBase string        `env:"TECHTRECK_KNOWLEDGE_BASE"` // empty: embedded default
		CacheSize     int           `env:"TECHTRECK_CHAT_CACHE_SIZE" envDefault:"256"`
		Timeout       time.Duration `env:"TECHTRECK_CHAT_TIMEOUT" envDefault:"10s"`
		Offline       bool          `env:"TECHTRECK_CHAT_OFFLINE"` // disables external lookups
	}
	State struct {
		Path string `env:"TECHTRECK_STATE_FILE"` // empty: user config dir
	}
}

// Load reads configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	switch cfg.Store.Driver {
	case DriverSQLite:
		if cfg.Store.SQLitePath == "" {
			return cfg, errors.New("TECHTRECK_SQLITE_PATH must not be empty")
		}
	case DriverMySQL:
		if cfg.Store.MySQLDSN == "" {
			return cfg, errors.New("MYSQL_DSN is required when TECHTRECK_STORE_DRIVER=mysql")
		}
	default:
		return cfg, fmt.Errorf("TECHTRECK_STORE_DRIVER must be %s or %s, got %q", DriverSQLite, DriverMySQL, cfg.Store.Driver)
	}
	if cfg.PTO.AllowanceDays <= 0 {
		return cfg, errors.New("TECHTRECK_PTO_ALLOWANCE must be positive")
	}
	if cfg.Chatbot.CacheSize < 0 {
		return cfg, errors.New("TECHTRECK_CHAT_CACHE_SIZE must not be negative")
	}

	if cfg.State.Path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			dir = os.TempDir()
		}
		cfg.State.Path = filepath.Join(dir, "techtreck", "timer.json")
	}
	return cfg, nil
}
