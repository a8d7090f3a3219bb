package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/viant/ktree/internal/ktree"
	"github.com/viant/ktree/internal/output"
)

// EnvPrefix prefixes every environment override, e.g. KTREE_BUILD_COMPRESSION.
const EnvPrefix = "KTREE"

// Config holds all application configuration.
type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	Build   BuildConfig   `mapstructure:"build"`
	Tracing TracingConfig `mapstructure:"tracing"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type BuildConfig struct {
	Compression     string `mapstructure:"compression"`
	Catalog         string `mapstructure:"catalog"`
	Distance        string `mapstructure:"distance"`
	SplitIterations int    `mapstructure:"split_iterations"`
	ChunkFloats     int    `mapstructure:"chunk_floats"`
}

type TracingConfig struct {
	ServiceName  string  `mapstructure:"service_name"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	SampleRate   float64 `mapstructure:"sample_rate"`
}

// flagKeys maps command line flags onto configuration keys.
var flagKeys = map[string]string{
	"log-level":  "log.level",
	"log-format": "log.format",
	"compress":   "build.compression",
	"catalog":    "build.catalog",
	"distance":   "build.distance",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("build.compression", string(output.CompressionNone))
	v.SetDefault("build.catalog", "")
	v.SetDefault("build.distance", string(ktree.DistanceEuclidean))
	v.SetDefault("build.split_iterations", 16)
	v.SetDefault("build.chunk_floats", ktree.DefaultChunkFloats)
	v.SetDefault("tracing.service_name", "ktree")
	v.SetDefault("tracing.otlp_endpoint", "")
	v.SetDefault("tracing.sample_rate", 1.0)
}

// Default returns the configuration used when no file, env or flag is set.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// Load reads configuration from defaults, an optional file, KTREE_* environment
// variables and changed flags, in increasing order of precedence.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}
	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Check(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks configuration for questionable values and returns warnings.
func (c *Config) Validate() []string {
	var warnings []string
	if c.Build.SplitIterations <= 0 {
		warnings = append(warnings, fmt.Sprintf("build split_iterations %d is not positive; the tree default applies", c.Build.SplitIterations))
	}
	if c.Build.ChunkFloats < 0 {
		warnings = append(warnings, fmt.Sprintf("build chunk_floats %d is negative; the allocator default applies", c.Build.ChunkFloats))
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		warnings = append(warnings, fmt.Sprintf("tracing sample_rate %.2f is outside [0.0, 1.0]", c.Tracing.SampleRate))
	}
	if c.Tracing.OTLPEndpoint != "" && c.Tracing.ServiceName == "" {
		warnings = append(warnings, "tracing otlp_endpoint is set but service_name is empty")
	}
	return warnings
}

// Check rejects values the build cannot run with.
func (c *Config) Check() error {
	var errs []error
	if _, err := output.ParseCompression(c.Build.Compression); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Distance(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("config: unsupported log format %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

// Compression returns the parsed output compression.
func (c *Config) Compression() output.Compression {
	comp, err := output.ParseCompression(c.Build.Compression)
	if err != nil {
		return output.CompressionNone
	}
	return comp
}

// Distance returns the tree distance metric; empty means Euclidean.
func (c *Config) Distance() (ktree.DistanceFunction, error) {
	d := ktree.DistanceFunction(strings.ToLower(strings.TrimSpace(c.Build.Distance)))
	if d == "" {
		return ktree.DistanceEuclidean, nil
	}
	if d.Function() == nil {
		return "", fmt.Errorf("config: unsupported distance %q", c.Build.Distance)
	}
	return d, nil
}

// SlogLevel parses the configured level name.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	name := strings.TrimSpace(l.Level)
	if name == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo, fmt.Errorf("config: unsupported log level %q", l.Level)
	}
	return level, nil
}
