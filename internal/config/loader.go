package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable the loader reads,
// e.g. TASK_STORAGE_DIR or TASK_APPLICATION_TIMEOUT.
const EnvPrefix = "TASK"

// Loader handles loading configuration from multiple sources
type Loader struct {
	configFile string
	envFile    string
}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	return &Loader{envFile: ".env"}
}

// WithConfigFile makes the loader read a YAML config file at path.
func (l *Loader) WithConfigFile(path string) *Loader {
	l.configFile = path
	return l
}

// WithEnvFile changes the dotenv file consulted before the environment.
// An empty path disables dotenv loading.
func (l *Loader) WithEnvFile(path string) *Loader {
	l.envFile = path
	return l
}

// Load loads configuration using the cascading strategy:
// 1. Start with defaults
// 2. Override with the config file, if any
// 3. Override with variables from .env, then the real environment
// 4. Override with command line flags (LoadWithOverrides)
func (l *Loader) Load() (*Config, error) {
	if l.envFile != "" {
		// godotenv never replaces variables already present in the environment.
		if err := godotenv.Load(l.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, &ConfigError{Field: "env_file", Message: err.Error()}
		}
	}

	v := viper.New()
	setDefaults(v, NewConfig())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if l.configFile != "" {
		v.SetConfigFile(l.configFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, &ConfigError{Field: "config_file", Message: err.Error()}
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, &ConfigError{Field: "config", Message: err.Error()}
	}

	if debug := os.Getenv(EnvPrefix + "_DEBUG"); debug != "" {
		config.Application.Verbose = ParseBoolWithFallback(debug, config.Application.Verbose)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// LoadWithOverrides loads configuration and applies command line overrides
func (l *Loader) LoadWithOverrides(overrides *ConfigOverrides) (*Config, error) {
	config, err := l.Load()
	if err != nil {
		return nil, err
	}

	if overrides != nil {
		l.applyOverrides(config, overrides)
	}

	// Re-validate after applying overrides
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// ConfigOverrides holds command line flag overrides
type ConfigOverrides struct {
	StorageDir      *string
	StorageFilename *string
	StorageBackend  *string
	Timeout         *time.Duration
	Verbose         *bool
	LogLevel        *string
}

func (l *Loader) applyOverrides(config *Config, overrides *ConfigOverrides) {
	if overrides.StorageDir != nil {
		config.Storage.Dir = *overrides.StorageDir
	}
	if overrides.StorageFilename != nil {
		config.Storage.Filename = *overrides.StorageFilename
	}
	if overrides.StorageBackend != nil {
		config.Storage.Backend = strings.ToLower(*overrides.StorageBackend)
	}
	if overrides.Timeout != nil {
		config.Application.Timeout = *overrides.Timeout
	}
	if overrides.Verbose != nil {
		config.Application.Verbose = *overrides.Verbose
	}
	if overrides.LogLevel != nil {
		config.Logging.Level = strings.ToLower(*overrides.LogLevel)
	}
}

// setDefaults registers every key so that AutomaticEnv can resolve it during Unmarshal.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("storage.dir", d.Storage.Dir)
	v.SetDefault("storage.filename", d.Storage.Filename)
	v.SetDefault("storage.backend", d.Storage.Backend)
	v.SetDefault("storage.dir_permissions", d.Storage.DirPermissions)

	v.SetDefault("validation.description_max_length", d.Validation.DescriptionMaxLength)
	v.SetDefault("validation.tag_max_length", d.Validation.TagMaxLength)

	v.SetDefault("display.date_format", d.Display.DateFormat)
	v.SetDefault("display.datetime_format", d.Display.DateTimeFormat)
	v.SetDefault("display.table_width", d.Display.TableWidth)

	v.SetDefault("application.timeout", d.Application.Timeout)
	v.SetDefault("application.verbose", d.Application.Verbose)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)

	v.SetDefault("commands.export_default_format", d.Commands.ExportDefaultFormat)
}

// ParseBoolWithFallback parses a boolean string with a fallback value
func ParseBoolWithFallback(s string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "t", "true", "yes", "on":
		return true
	case "0", "f", "false", "no", "off":
		return false
	}
	return fallback
}
