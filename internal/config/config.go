// Package config loads jsxprops settings from defaults, an optional YAML
// file, JSXPROPS_ environment variables and command-line flags.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

const (
	// EnvPrefix is stripped from environment variables; JSXPROPS_LOG_LEVEL
	// sets log.level.
	EnvPrefix = "JSXPROPS_"

	defaultFile = "jsxprops.yaml"
)

// LogConfig controls the CLI logger.
type LogConfig struct {
	Level  string `koanf:"level"`  // debug|info|warn|error
	Format string `koanf:"format"` // text|json
}

// Config holds all settings.
type Config struct {
	Log        LogConfig `koanf:"log"`
	Workers    int       `koanf:"workers"`
	Extensions []string  `koanf:"extensions"`
	DB         string    `koanf:"db"`
	Select     string    `koanf:"select"`

	// File is the config file that was loaded, if any.
	File string `koanf:"-"`
}

// Defaults returns the settings used when nothing else is configured.
func Defaults() map[string]any {
	return map[string]any{
		"log.level":  "info",
		"log.format": "text",
		"workers":    0,
		"extensions": []string{".jsx", ".js", ".tsx"},
		"db":         "jsxprops.db",
		"select":     "",
	}
}

// flagKeys maps flag names onto config keys where they differ.
var flagKeys = map[string]string{
	"log-level":  "log.level",
	"log-format": "log.format",
}

// Load reads configuration. Precedence, highest first: explicitly set
// flags, environment, config file, defaults. cfgFile may be empty, in
// which case ./jsxprops.yaml is used when it exists. flags may be nil.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	// 2. Config file
	path := findConfigFile(cfgFile)
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	// 3. Environment: JSXPROPS_LOG_LEVEL -> log.level
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	// 4. Flags
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			key := f.Name
			if mapped, ok := flagKeys[key]; ok {
				key = mapped
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.File = path
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if _, err := os.Stat(defaultFile); err == nil {
		return defaultFile
	}
	return ""
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q (want text or json)", c.Log.Format)
	}
	if c.Workers < 0 {
		return fmt.Errorf("invalid workers %d", c.Workers)
	}
	for i, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") {
			c.Extensions[i] = "." + ext
		}
	}
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

// NewLogger builds the logger described by c, writing to w.
func (c LogConfig) NewLogger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
