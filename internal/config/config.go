// Package config layers command-line flags, MUSICDB_* environment variables
// and an optional YAML file into one Config.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. MUSICDB_DB_URL
// or MUSICDB_LOG_LEVEL.
const EnvPrefix = "MUSICDB"

// Config holds the settings shared by every subcommand.
type Config struct {
	PostgresURL string    `mapstructure:"db_url"`
	MySQLURL    string    `mapstructure:"mysql_url"`
	SQLitePath  string    `mapstructure:"sqlite"`
	Schema      string    `mapstructure:"schema"`
	Log         LogConfig `mapstructure:"log"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration into a Config. path names an optional YAML file;
// when empty, musicdb.yaml is looked up in the working directory and a
// missing file is not an error. Flags bound to v take precedence over the
// environment, which takes precedence over the file.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("musicdb")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// AutomaticEnv only answers Get calls, so every key is bound explicitly
	// for Unmarshal to see it.
	for _, key := range []string{"db_url", "mysql_url", "sqlite", "schema", "log.level", "log.format"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("schema", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Validate checks the logging settings. Database selection is checked by
// DatabaseURL since not every subcommand needs a database.
func (c *Config) Validate() error {
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", c.Log.Format)
	}
	return nil
}

// DatabaseURL returns the connection URL of the one configured database.
func (c *Config) DatabaseURL() (string, error) {
	var urls []string
	if c.PostgresURL != "" {
		urls = append(urls, c.PostgresURL)
	}
	if c.MySQLURL != "" {
		url := c.MySQLURL
		if !strings.HasPrefix(url, "mysql://") {
			url = "mysql://" + url
		}
		urls = append(urls, url)
	}
	if c.SQLitePath != "" {
		urls = append(urls, "sqlite://"+c.SQLitePath)
	}

	switch len(urls) {
	case 0:
		return "", fmt.Errorf("one of --db-url, --mysql-url, or --sqlite must be specified")
	case 1:
		return urls[0], nil
	default:
		return "", fmt.Errorf("only one of --db-url, --mysql-url, or --sqlite can be specified")
	}
}

// SlogLevel parses the configured level name.
func (c LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return 0, fmt.Errorf("invalid log level: %s", c.Level)
	}
	return level, nil
}
