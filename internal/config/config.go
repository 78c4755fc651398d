// Package config loads per-service YAML configuration. Every Load*
// starts from the service defaults, overlays the file when it exists,
// and finally applies the FLYAGAIN_* environment overrides for
// secrets, so an empty deployment runs out of the box.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables that override file values. Only secrets are
// overridable; everything else belongs in the file.
const (
	EnvDBPassword    = "FLYAGAIN_DB_PASSWORD"
	EnvStorePassword = "FLYAGAIN_STORE_PASSWORD"
	EnvTokenSecret   = "FLYAGAIN_TOKEN_SECRET"
)

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// StoreConfig holds shared-store (Redis protocol) connection
// parameters.
type StoreConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// DefaultStore returns StoreConfig pointing at a local store.
func DefaultStore() StoreConfig {
	return StoreConfig{
		Addr: "127.0.0.1:6379",
	}
}

// DataService holds all configuration for the data service, the only
// process that talks to PostgreSQL.
type DataService struct {
	// Network
	ListenAddr string `yaml:"listen_addr"`

	// Database
	Database DatabaseConfig `yaml:"database"`

	// Shared store (write-back scan)
	Store StoreConfig `yaml:"store"`

	// WritebackInterval is the dirty-character flush cadence
	// (default: 300s).
	WritebackInterval time.Duration `yaml:"writeback_interval"`

	LogLevel string `yaml:"log_level"`
}

// DefaultDataService returns DataService config with sensible defaults.
func DefaultDataService() DataService {
	return DataService{
		ListenAddr:        "0.0.0.0:9090",
		WritebackInterval: 300 * time.Second,
		LogLevel:          "info",
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "flyagain",
			Password: "flyagain",
			DBName:   "flyagain",
			SSLMode:  "disable",
		},
		Store: DefaultStore(),
	}
}

// LoadDataService loads data service config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadDataService(path string) (DataService, error) {
	cfg := DefaultDataService()
	if err := load(path, &cfg); err != nil {
		return cfg, err
	}
	envOverride(&cfg.Database.Password, EnvDBPassword)
	envOverride(&cfg.Store.Password, EnvStorePassword)
	return cfg, nil
}

// load overlays the YAML file at path onto cfg. A missing file leaves
// cfg untouched.
func load(path string, cfg any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}

	return nil
}

// envOverride replaces *dst when the environment variable is set.
func envOverride(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}
