package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Storage drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var (
	ErrInvalidHealthPct = errors.New("respawn_health_pct must be in (0, 100]")
	ErrUnknownDriver    = errors.New("unknown storage driver")
)

// Config holds all configuration for the dungeon respawn process.
type Config struct {
	LogLevel    string `yaml:"log_level"    env:"DUNGEONRESPAWN_LOG_LEVEL"`
	MetricsAddr string `yaml:"metrics_addr" env:"DUNGEONRESPAWN_METRICS_ADDR"` // empty disables /metrics

	DungeonRespawn DungeonRespawn `yaml:"dungeon_respawn" envPrefix:"DUNGEONRESPAWN_"`

	Storage  Storage        `yaml:"storage"  envPrefix:"DUNGEONRESPAWN_STORAGE_"`
	Database DatabaseConfig `yaml:"database" envPrefix:"DUNGEONRESPAWN_DB_"`
}

// DungeonRespawn holds the module options read on every (re)load.
type DungeonRespawn struct {
	Enable           bool    `yaml:"enable"             env:"ENABLE"`
	Debug            bool    `yaml:"debug"              env:"DEBUG"`
	RespawnHealthPct float32 `yaml:"respawn_health_pct" env:"RESPAWN_HEALTH_PCT"`
}

// HealthFraction returns RespawnHealthPct as a 0..1 fraction.
func (d DungeonRespawn) HealthFraction() float32 {
	return d.RespawnHealthPct / 100
}

// Storage selects the backing store for entrances.
type Storage struct {
	Driver     string `yaml:"driver"      env:"DRIVER"`
	SQLitePath string `yaml:"sqlite_path" env:"SQLITE_PATH"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host"     env:"HOST"`
	Port     int    `yaml:"port"     env:"PORT"`
	User     string `yaml:"user"     env:"USER"`
	Password string `yaml:"password" env:"PASSWORD"`
	DBName   string `yaml:"dbname"   env:"NAME"`
	SSLMode  string `yaml:"sslmode"  env:"SSLMODE"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// DefaultDungeonRespawn returns module options with the feature off.
func DefaultDungeonRespawn() DungeonRespawn {
	return DungeonRespawn{
		Enable:           false,
		Debug:            false,
		RespawnHealthPct: 50.0,
	}
}

// Default returns Config with sensible defaults.
func Default() Config {
	return Config{
		LogLevel:       "info",
		MetricsAddr:    "127.0.0.1:9127",
		DungeonRespawn: DefaultDungeonRespawn(),
		Storage: Storage{
			Driver:     DriverPostgres,
			SQLitePath: "data/dungeonrespawn.db",
		},
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "dungeonrespawn",
			Password: "dungeonrespawn",
			DBName:   "dungeonrespawn",
			SSLMode:  "disable",
		},
	}
}

// Validate checks that option values are usable.
func (c Config) Validate() error {
	pct := c.DungeonRespawn.RespawnHealthPct
	if pct <= 0 || pct > 100 {
		return fmt.Errorf("%w: got %v", ErrInvalidHealthPct, pct)
	}
	switch c.Storage.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, c.Storage.Driver)
	}
	return nil
}

// Load reads config from a YAML file and applies environment overrides.
// If the file doesn't exist, defaults are used.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing env overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validating config %s: %w", path, err)
	}
	return cfg, nil
}
