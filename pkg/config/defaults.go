// Package config defines the settings shared by every digraph command.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the root configuration, read from ~/.digraph.yaml, DIGRAPH_*
// environment variables and command-line flags.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Output    OutputConfig    `mapstructure:"output"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Split     SplitConfig     `mapstructure:"split"`
}

type LogConfig struct {
	// Format is "text" or "json".
	Format string `mapstructure:"format"`
	// Level is one of debug, info, warn, error.
	Level string `mapstructure:"level"`
	// Dir receives a dated log file when set. Empty logs to stderr.
	Dir string `mapstructure:"dir"`
}

type OutputConfig struct {
	// Dir is where snapshots are written. May be an s3:// prefix.
	Dir string `mapstructure:"dir"`
	// Compress writes zstd-compressed snapshots.
	Compress bool `mapstructure:"compress"`
}

type TelemetryConfig struct {
	// Endpoint is an OTLP HTTP endpoint. Falls back to OTEL_EXPORTER_OTLP_ENDPOINT.
	Endpoint string `mapstructure:"endpoint"`
	Disabled bool   `mapstructure:"disabled"`
}

type SplitConfig struct {
	// ChunkSize is the number of source vertices per record.
	ChunkSize int `mapstructure:"chunk_size"`
}

// Defaults.
const (
	EnvPrefix        = "DIGRAPH"
	FileName         = ".digraph"
	DefaultOutDir    = "tmp"
	DefaultChunkSize = 1000
)

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Log: LogConfig{
			Format: "text",
			Level:  "info",
		},
		Output: OutputConfig{
			Dir: DefaultOutDir,
		},
		Split: SplitConfig{
			ChunkSize: DefaultChunkSize,
		},
	}
}

// SetDefaults registers every key with v so environment variables are
// seen by Unmarshal even when no config file sets them.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.dir", d.Log.Dir)
	v.SetDefault("output.dir", d.Output.Dir)
	v.SetDefault("output.compress", d.Output.Compress)
	v.SetDefault("telemetry.endpoint", d.Telemetry.Endpoint)
	v.SetDefault("telemetry.disabled", d.Telemetry.Disabled)
	v.SetDefault("split.chunk_size", d.Split.ChunkSize)
}

// Load decodes v into a Config and validates it.
func Load(v *viper.Viper) (Config, error) {
	cfg := Default()
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	if c.Split.ChunkSize < 1 {
		return fmt.Errorf("split.chunk_size must be at least 1, got %d", c.Split.ChunkSize)
	}
	return nil
}
