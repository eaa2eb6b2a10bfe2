package config

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	// BackendJSON stores tasks in a single JSON document.
	BackendJSON = "json"
	// BackendSQLite stores tasks in an embedded SQLite database.
	BackendSQLite = "sqlite"
)

// Config holds all configuration options for the task tracker
type Config struct {
	Storage     StorageConfig     `mapstructure:"storage"`
	Validation  ValidationConfig  `mapstructure:"validation"`
	Display     DisplayConfig     `mapstructure:"display"`
	Application ApplicationConfig `mapstructure:"application"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Commands    CommandsConfig    `mapstructure:"commands"`
}

// StorageConfig holds task store configuration
type StorageConfig struct {
	Dir            string `mapstructure:"dir" validate:"required"`
	Filename       string `mapstructure:"filename" validate:"required"`
	Backend        string `mapstructure:"backend" validate:"oneof=json sqlite"`
	DirPermissions uint32 `mapstructure:"dir_permissions" validate:"gt=0,lte=511"`
}

// ValidationConfig holds input limits
type ValidationConfig struct {
	DescriptionMaxLength int `mapstructure:"description_max_length" validate:"min=1"`
	TagMaxLength         int `mapstructure:"tag_max_length" validate:"min=1"`
}

// DisplayConfig holds display formatting configuration
type DisplayConfig struct {
	DateFormat     string `mapstructure:"date_format" validate:"required"`
	DateTimeFormat string `mapstructure:"datetime_format" validate:"required"`
	TableWidth     int    `mapstructure:"table_width" validate:"min=40"`
}

// ApplicationConfig holds application-level configuration
type ApplicationConfig struct {
	Timeout time.Duration `mapstructure:"timeout" validate:"gt=0"`
	Verbose bool          `mapstructure:"verbose"`
}

// LoggingConfig selects log verbosity and layout
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=trace debug info warn warning error fatal panic"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
}

// CommandsConfig holds command-specific defaults
type CommandsConfig struct {
	ExportDefaultFormat string `mapstructure:"export_default_format" validate:"oneof=json csv markdown yaml"`
}

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Dir:            ".",
			Filename:       "tasks.json",
			Backend:        BackendJSON,
			DirPermissions: 0755,
		},
		Validation: ValidationConfig{
			DescriptionMaxLength: 500,
			TagMaxLength:         50,
		},
		Display: DisplayConfig{
			DateFormat:     "2006-01-02",
			DateTimeFormat: "2006-01-02 15:04",
			TableWidth:     100,
		},
		Application: ApplicationConfig{
			Timeout: 30 * time.Second,
			Verbose: false,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
		Commands: CommandsConfig{
			ExportDefaultFormat: "json",
		},
	}
}

// StoragePath returns the full path of the task store. A sqlite backend
// left on the default JSON filename gets a .db extension instead.
func (c *Config) StoragePath() string {
	name := c.Storage.Filename
	if c.Storage.Backend == BackendSQLite && filepath.Ext(name) == ".json" {
		name = strings.TrimSuffix(name, ".json") + ".db"
	}
	return filepath.Join(c.Storage.Dir, name)
}

// GetTimeout returns the per-command timeout
func (c *Config) GetTimeout() time.Duration {
	return c.Application.Timeout
}

var validate = newStructValidator()

func newStructValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the configuration and returns the first problem as a ConfigError
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok || len(validationErrors) == 0 {
		return &ConfigError{Field: "config", Message: err.Error()}
	}

	fe := validationErrors[0]
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	return &ConfigError{Field: field, Message: describeRule(fe)}
}

func describeRule(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "cannot be empty"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "gt":
		return "must be positive"
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	default:
		return fmt.Sprintf("failed rule %q", fe.Tag())
	}
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
