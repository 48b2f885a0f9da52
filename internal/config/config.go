package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Store    StoreConfig
	Database DatabaseConfig
	Log      LogConfig
	Metrics  MetricsConfig
	UI       UIConfig
}

// StoreConfig selects where items live and how names are checked.
type StoreConfig struct {
	Backend     string `mapstructure:"backend"`
	NamePolicy  string `mapstructure:"name_policy"`
	MaxDistance int    `mapstructure:"max_distance"`
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Driver string   `mapstructure:"driver"`
	Path   string   `mapstructure:"path"`
	Seed   []string `mapstructure:"seed"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	Path  string `mapstructure:"path"`
}

// MetricsConfig holds the prometheus textfile export target. Empty disables it.
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Title string `mapstructure:"title"`
}

// Store backends.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// Validation errors.
var (
	ErrInvalidBackend  = errors.New("store backend must be one of: memory, sqlite")
	ErrInvalidPolicy   = errors.New("name policy must be one of: allow, unique, similar")
	ErrInvalidDistance = errors.New("max distance cannot be negative")
	ErrInvalidDriver   = errors.New("database driver must be one of: sqlite3, sqlite")
	ErrMissingDBPath   = errors.New("database path must be set for the sqlite backend")
	ErrInvalidLogLevel = errors.New("log level must be one of: debug, info, warn, error")
)

// Load reads configuration from file and env. Env var overrides use prefix SHOPLIST_.
// path wins over SHOPLIST_CONFIG, which wins over ~/.config/shoplist/config.toml.
func Load(path string) (Config, error) {
	v := viper.New()

	home, _ := os.UserHomeDir()

	// default values
	v.SetDefault("store.backend", BackendSQLite)
	v.SetDefault("store.name_policy", "allow")
	v.SetDefault("store.max_distance", 1)
	v.SetDefault("database.driver", "sqlite3")
	v.SetDefault("database.path", filepath.Join(home, ".local", "share", "shoplist", "shoplist.db"))
	v.SetDefault("database.seed", []string{})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.path", filepath.Join(home, ".local", "state", "shoplist", "shoplist.log"))
	v.SetDefault("metrics.textfile", "")
	v.SetDefault("ui.title", "Shopping list")

	v.SetConfigType("toml")

	if path == "" {
		path = os.Getenv("SHOPLIST_CONFIG")
	}
	explicit := path != ""
	if explicit {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(home, ".config", "shoplist"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("SHOPLIST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AllowEmptyEnv(true) // SHOPLIST_LOG_PATH= turns logging off
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	c.Store.Backend = strings.ToLower(strings.TrimSpace(c.Store.Backend))
	c.Store.NamePolicy = strings.ToLower(strings.TrimSpace(c.Store.NamePolicy))
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks enum-like settings.
func (c Config) Validate() error {
	switch c.Store.Backend {
	case BackendMemory:
	case BackendSQLite:
		if c.Database.Path == "" {
			return ErrMissingDBPath
		}
		if c.Database.Driver != "sqlite3" && c.Database.Driver != "sqlite" {
			return ErrInvalidDriver
		}
	default:
		return ErrInvalidBackend
	}
	switch c.Store.NamePolicy {
	case "allow", "unique", "similar":
	default:
		return ErrInvalidPolicy
	}
	if c.Store.MaxDistance < 0 {
		return ErrInvalidDistance
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return ErrInvalidLogLevel
	}
	return nil
}

// Save writes the provided config to path, creating the directory if needed.
// An empty path means ~/.config/shoplist/config.toml.
func Save(cfg Config, path string) error {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("home: %w", err)
		}
		path = filepath.Join(home, ".config", "shoplist", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("store.backend", cfg.Store.Backend)
	v.Set("store.name_policy", cfg.Store.NamePolicy)
	v.Set("store.max_distance", cfg.Store.MaxDistance)
	v.Set("database.driver", cfg.Database.Driver)
	v.Set("database.path", cfg.Database.Path)
	v.Set("database.seed", cfg.Database.Seed)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.path", cfg.Log.Path)
	v.Set("metrics.textfile", cfg.Metrics.Textfile)
	v.Set("ui.title", cfg.UI.Title)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
