package config

import (
	"os"
	"strings"
)

// Config holds environment-level configuration for the CLI
type Config struct {
	Compiler CompilerConfig
	Output   OutputConfig
	Check    CheckConfig
	Logging  LoggingConfig
}

// CompilerConfig holds compiler invocation settings
type CompilerConfig struct {
	Binary     string // path or name of the vyper executable
	MinVersion string // empty disables the version check
}

// OutputConfig holds report settings
type OutputConfig struct {
	Color  string // "always", "never" or "auto"
	Format string // "text", "json" or "yaml"
}

// CheckConfig holds default comparison switches
type CheckConfig struct {
	Strict     bool
	SkipUnused bool
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string
	Format string // "text" or "json"
}

// Color modes
const (
	ColorAlways = "always"
	ColorNever  = "never"
	ColorAuto   = "auto"
)

// Defaults returns the built-in configuration
func Defaults() Config {
	return Config{
		Compiler: CompilerConfig{
			Binary: "vyper",
		},
		Output: OutputConfig{
			Color:  ColorAlways,
			Format: "text",
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// LoadWithDefaults loads configuration from environment variables, falling
// back to base for anything unset
func LoadWithDefaults(base Config) (*Config, error) {
	cfg := &Config{
		Compiler: CompilerConfig{
			Binary:     getEnv("IFACECHECK_VYPER", base.Compiler.Binary),
			MinVersion: getEnv("IFACECHECK_MIN_VYPER_VERSION", base.Compiler.MinVersion),
		},
		Output: OutputConfig{
			Color:  strings.ToLower(getEnv("IFACECHECK_COLOR", base.Output.Color)),
			Format: strings.ToLower(getEnv("IFACECHECK_FORMAT", base.Output.Format)),
		},
		Check: CheckConfig{
			Strict:     getEnvBool("IFACECHECK_STRICT", base.Check.Strict),
			SkipUnused: getEnvBool("IFACECHECK_SKIP_UNUSED", base.Check.SkipUnused),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", base.Logging.Level),
			Format: getEnv("LOG_FORMAT", base.Logging.Format),
		},
	}

	// NO_COLOR (https://no-color.org) applies unless IFACECHECK_COLOR is set
	if _, ok := os.LookupEnv("NO_COLOR"); ok && os.Getenv("IFACECHECK_COLOR") == "" {
		cfg.Output.Color = ColorNever
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}
