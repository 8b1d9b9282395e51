package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"

	"github.com/zarybnicky/baserow/internal/models"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Query    QueryConfig    `mapstructure:"query"`
	History  HistoryConfig  `mapstructure:"history"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

type QueryConfig struct {
	DefaultLimit int `mapstructure:"default_limit"`
	TimeoutMs    int `mapstructure:"timeout_ms"`
}

type HistoryConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	Path              string `mapstructure:"path"`
	MaxEntries        int    `mapstructure:"max_entries"`
	SaveFailedQueries bool   `mapstructure:"save_failed_queries"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ConnectionConfig returns the connection settings for the backing
// database
func (c *Config) ConnectionConfig() models.ConnectionConfig {
	return models.ConnectionConfig{
		Host:     c.Database.Host,
		Port:     c.Database.Port,
		Database: c.Database.Name,
		User:     c.Database.User,
		Password: c.Database.Password,
		SSLMode:  c.Database.SSLMode,
	}
}

// GetDefaults returns a Config with all default values
func GetDefaults() *Config {
	return &Config{
		Database: DatabaseConfig{
			Host:    "localhost",
			Port:    5432,
			Name:    "baserow",
			User:    "baserow",
			SSLMode: "prefer",
		},
		Query: QueryConfig{
			DefaultLimit: 100,
			TimeoutMs:    30000,
		},
		History: HistoryConfig{
			Enabled:           true,
			MaxEntries:        1000,
			SaveFailedQueries: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load loads configuration from files and the environment
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Add config paths in priority order
	if configDir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(configDir, "baserow"))
	}
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Environment overrides, e.g. BASEROW_DATABASE_PASSWORD
	v.SetEnvPrefix("baserow")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "baserow")
	v.SetDefault("database.user", "baserow")
	v.SetDefault("database.password", "")
	v.SetDefault("database.ssl_mode", "prefer")
	v.SetDefault("query.default_limit", 100)
	v.SetDefault("query.timeout_ms", 30000)
	v.SetDefault("history.enabled", true)
	v.SetDefault("history.path", "")
	v.SetDefault("history.max_entries", 1000)
	v.SetDefault("history.save_failed_queries", true)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Read config (it's okay if file doesn't exist, we have defaults)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.Wrap(err, "reading config")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}

	return &cfg, nil
}

// GetConfigPath returns the user config directory path
func GetConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "baserow"), nil
}

// ResolvedPath returns the configured history database path, falling
// back to history.db in the user config directory.
func (h HistoryConfig) ResolvedPath() (string, error) {
	if h.Path != "" {
		return h.Path, nil
	}
	dir, err := GetConfigPath()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.db"), nil
}
