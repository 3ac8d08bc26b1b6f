// Package config resolves the CLI settings from defaults, an optional config
// file, WORLDBOOK_* environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"worldbook/internal/logging"

	"github.com/spf13/viper"
)

// Default configuration values.
const (
	DefaultBaseURL   = "https://worldbook.it.com"
	DefaultTimeout   = 10 * time.Second
	DefaultLogLevel  = "error"
	DefaultLogFormat = "json"

	// EnvPrefix is prepended to every key, e.g. WORLDBOOK_BASE_URL.
	EnvPrefix = "WORLDBOOK"

	configName = "config"
	configType = "yaml"
	appDirName = "worldbook"
)

// Viper keys.
const (
	KeyBaseURL       = "base_url"
	KeyTimeout       = "timeout"
	KeyJSON          = "json"
	KeyNoColor       = "no_color"
	KeyLogLevel      = "log.level"
	KeyLogFormat     = "log.format"
	KeyLogFile       = "log.file"
	KeyLogMaxSizeMB  = "log.max_size_mb"
	KeyLogMaxBackups = "log.max_backups"
	KeyLogMaxAgeDays = "log.max_age_days"
)

// Config holds the settings of one invocation.
type Config struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
	JSON    bool          `mapstructure:"json"`
	NoColor bool          `mapstructure:"no_color"`
	Log     LogConfig     `mapstructure:"log"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// SetDefaults registers every key with its default value.
// Keys without a default are invisible to environment lookups during Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyBaseURL, DefaultBaseURL)
	v.SetDefault(KeyTimeout, DefaultTimeout)
	v.SetDefault(KeyJSON, false)
	v.SetDefault(KeyNoColor, false)

	v.SetDefault(KeyLogLevel, DefaultLogLevel)
	v.SetDefault(KeyLogFormat, DefaultLogFormat)
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyLogMaxSizeMB, 10)
	v.SetDefault(KeyLogMaxBackups, 3)
	v.SetDefault(KeyLogMaxAgeDays, 30)
}

// SearchPaths returns the directories searched for config.yaml when no
// explicit file is given.
func SearchPaths() []string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil
	}
	return []string{filepath.Join(dir, appDirName)}
}

// Load reads the configuration into v and decodes it.
// A missing config file is not an error; an explicit file that cannot be
// read or parsed is.
func Load(v *viper.Viper, configFile string, searchPaths []string) (*Config, error) {
	SetDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType(configType)
		for _, p := range searchPaths {
			v.AddConfigPath(p)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" || len(searchPaths) > 0 {
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	cfg.BaseURL = NormalizeBaseURL(cfg.BaseURL)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// NormalizeBaseURL trims surrounding whitespace and trailing slashes.
func NormalizeBaseURL(raw string) string {
	return strings.TrimRight(strings.TrimSpace(raw), "/")
}

// Validate checks the settings every command relies on. The base URL is
// validated by the API client, so that offline commands work with any value.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}

	return logging.ValidateConfig(c.LoggingConfig(nil))
}

// LoggingConfig maps the log settings onto a logger configuration writing
// to stderrWriter, or to the rotating file when log.file is set.
func (c *Config) LoggingConfig(stderrWriter io.Writer) logging.Config {
	lc := logging.Config{
		Level:      c.Log.Level,
		Format:     c.Log.Format,
		Output:     logging.OutputStderr,
		MaxSizeMB:  c.Log.MaxSizeMB,
		MaxBackups: c.Log.MaxBackups,
		MaxAgeDays: c.Log.MaxAgeDays,
	}
	if stderrWriter != nil {
		lc.Writer = stderrWriter
	}
	if c.Log.File != "" {
		lc.Output = logging.OutputFile
		lc.FilePath = c.Log.File
	}
	return lc
}
