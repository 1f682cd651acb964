package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	KeyMinConfidence      = "min_confidence"
	KeyPreviewLines       = "preview_lines"
	KeyWorkers            = "workers"
	KeyFormat             = "format"
	KeyLogLevel           = "log_level"
	KeyDisabledStrategies = "disabled_strategies"
)

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config holds the settings of a mergehint run.
type Config struct {
	// MinConfidence is the lowest confidence "apply" writes back
	MinConfidence float64
	// PreviewLines is how many lines of each side are shown per conflict
	PreviewLines int
	// Workers bounds how many files are analyzed at once
	Workers int
	// Format is "text" or "json"
	Format string
	// LogLevel is a zap level name
	LogLevel string
	// DisabledStrategies are removed from the registry
	DisabledStrategies []string
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		MinConfidence: 0.9,
		PreviewLines:  5,
		Workers:       4,
		Format:        FormatText,
		LogLevel:      "warn",
	}
}

// Loader reads settings from, lowest to highest precedence: defaults, a
// .mergehint.yaml file in the working directory or home directory,
// MERGEHINT_* environment variables and bound command-line flags.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a loader. configFile overrides the search path when set.
func NewLoader(configFile string) *Loader {
	v := viper.New()

	d := Default()
	v.SetDefault(KeyMinConfidence, d.MinConfidence)
	v.SetDefault(KeyPreviewLines, d.PreviewLines)
	v.SetDefault(KeyWorkers, d.Workers)
	v.SetDefault(KeyFormat, d.Format)
	v.SetDefault(KeyLogLevel, d.LogLevel)
	v.SetDefault(KeyDisabledStrategies, []string{})

	v.SetEnvPrefix("MERGEHINT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(".mergehint")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	return &Loader{v: v}
}

// BindFlag makes a command-line flag override the key. The flag value is
// only used when the flag was set explicitly.
func (l *Loader) BindFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return fmt.Errorf("no flag for %s", key)
	}
	return l.v.BindPFlag(key, flag)
}

// Load reads the config file, if any, and returns the validated settings.
func (l *Loader) Load() (*Config, error) {
	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{
		MinConfidence:      l.v.GetFloat64(KeyMinConfidence),
		PreviewLines:       l.v.GetInt(KeyPreviewLines),
		Workers:            l.v.GetInt(KeyWorkers),
		Format:             strings.ToLower(l.v.GetString(KeyFormat)),
		LogLevel:           l.v.GetString(KeyLogLevel),
		DisabledStrategies: splitList(l.v.GetStringSlice(KeyDisabledStrategies)),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// splitList flattens comma separated entries. Environment variables arrive
// as one string, so "a,b" has to become two entries.
func splitList(items []string) []string {
	parts := lo.FlatMap(items, func(item string, _ int) []string {
		return strings.Split(item, ",")
	})
	return lo.FilterMap(parts, func(p string, _ int) (string, bool) {
		p = strings.TrimSpace(p)
		return p, p != ""
	})
}

// ConfigFileUsed returns the path of the config file that was read, if any.
func (l *Loader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

// Validate checks the ranges of every setting.
func (c *Config) Validate() error {
	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		return fmt.Errorf("%s must be between 0 and 1, got %v", KeyMinConfidence, c.MinConfidence)
	}
	if c.PreviewLines < 0 {
		return fmt.Errorf("%s must not be negative, got %d", KeyPreviewLines, c.PreviewLines)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%s must be at least 1, got %d", KeyWorkers, c.Workers)
	}
	if c.Format != FormatText && c.Format != FormatJSON {
		return fmt.Errorf("%s must be %q or %q, got %q", KeyFormat, FormatText, FormatJSON, c.Format)
	}
	return nil
}
