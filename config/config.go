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
	Server   ServerConfig
	Database DatabaseConfig
	Log      LogConfig
	Render   RenderConfig
}

// ServerConfig holds http settings.
type ServerConfig struct {
	Address        string
	RequestLogging bool `mapstructure:"request_logging"`
}

// DatabaseConfig selects the sql driver and its connection string.
type DatabaseConfig struct {
	Driver string
	DSN    string
}

type LogConfig struct {
	Verbosity int
	Format    string
}

// RenderConfig holds formatter rendering settings.
type RenderConfig struct {
	DefaultEncoding string `mapstructure:"default_encoding"`
	DefaultLocale   string `mapstructure:"default_locale"`
}

// Load reads configuration from the given file, if any, and the
// environment. Env var overrides use prefix VESSEL_, e.g.
// VESSEL_DATABASE_DRIVER.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.request_logging", true)
	v.SetDefault("database.driver", "sqlite3")
	v.SetDefault("database.dsn", "file:vessel.db?_foreign_keys=on")
	v.SetDefault("log.verbosity", 0)
	v.SetDefault("log.format", "default")
	v.SetDefault("render.default_encoding", "UTF-8")
	v.SetDefault("render.default_locale", "en")

	v.SetConfigType("toml")

	if path == "" {
		path = os.Getenv("VESSEL_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("vessel")
	}

	v.SetEnvPrefix("VESSEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// an explicitly named file must exist
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Save writes cfg to path as TOML, creating the directory if needed.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("server.address", cfg.Server.Address)
	v.Set("server.request_logging", cfg.Server.RequestLogging)
	v.Set("database.driver", cfg.Database.Driver)
	v.Set("database.dsn", cfg.Database.DSN)
	v.Set("log.verbosity", cfg.Log.Verbosity)
	v.Set("log.format", cfg.Log.Format)
	v.Set("render.default_encoding", cfg.Render.DefaultEncoding)
	v.Set("render.default_locale", cfg.Render.DefaultLocale)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
