// Package config loads TOML configuration with environment-variable
// overrides, following the driver's own pkg/config idiom: viper-backed,
// mapstructure-tagged, environment prefix APP_.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// ErrIncompletePartitionCover is returned when the configured partitions'
// symbols do not exactly cover the configured universe — either a symbol
// is missing from every partition, or (checked separately) claimed by more
// than one. The original driver silently dropped a remainder of symbols
// when partitioning; this loader treats that as a fatal configuration
// error instead of reproducing the bug.
var ErrIncompletePartitionCover = errors.New("config: partitions do not exactly cover the symbol universe")

// ErrDuplicatePartitionSymbol is returned when two configured partitions
// claim the same symbol.
var ErrDuplicatePartitionSymbol = errors.New("config: symbol claimed by more than one partition")

// Config is the root configuration for the matching engine driver.
type Config struct {
	ServiceName string `mapstructure:"service_name"`
	Environment string `mapstructure:"environment"`

	// Universe is the full set of symbols the engine must serve. Every
	// symbol in Universe must appear in exactly one entry of Partitions.
	Universe []string `mapstructure:"universe"`

	Partitions []PartitionConfig `mapstructure:"partitions"`
	Matching   MatchingConfig    `mapstructure:"matching"`
	HTTP       HTTPConfig        `mapstructure:"http"`
	Logger     LoggerConfig      `mapstructure:"logger"`
	Metrics    MetricsConfig     `mapstructure:"metrics"`
	Kafka      KafkaConfig       `mapstructure:"kafka"`
	Database   DatabaseConfig    `mapstructure:"database"`
}

// PartitionConfig names one partition and the symbols it owns exclusively.
type PartitionConfig struct {
	Name    string   `mapstructure:"name"`
	Symbols []string `mapstructure:"symbols"`
}

// MatchingConfig tunes the core matching package's resource knobs.
type MatchingConfig struct {
	// Workers is the design-(B) worker count per partition. The original
	// driver hardcoded 5; here it is the configurable default.
	Workers int `mapstructure:"workers" default:"5"`
	// QueueCapacity is the buffer size of each worker's sub-queue.
	QueueCapacity int `mapstructure:"queue_capacity" default:"1024"`
	// TickSize is the minimum price increment, e.g. 0.05. Consumed only by
	// ingress adapters converting external decimal prices to ticks; the
	// core matching package never sees it.
	TickSize float64 `mapstructure:"tick_size" default:"0.05"`
}

// HTTPConfig configures the driver's health/snapshot HTTP surface.
type HTTPConfig struct {
	Host string `mapstructure:"host" default:"0.0.0.0"`
	Port int    `mapstructure:"port" default:"8080"`
}

// LoggerConfig mirrors pkg/logger's Config shape.
type LoggerConfig struct {
	Level      string `mapstructure:"level" default:"info"`
	Format     string `mapstructure:"format" default:"json"`
	Output     string `mapstructure:"output" default:"stdout"`
	FilePath   string `mapstructure:"file_path" default:"logs/matchcore.log"`
	MaxSize    int    `mapstructure:"max_size" default:"100"`
	MaxBackups int    `mapstructure:"max_backups" default:"10"`
	MaxAge     int    `mapstructure:"max_age" default:"30"`
	Compress   bool   `mapstructure:"compress" default:"true"`
	WithCaller bool   `mapstructure:"with_caller" default:"true"`
}

// MetricsConfig configures the Prometheus metrics HTTP listener.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" default:"true"`
	Port    int    `mapstructure:"port" default:"9090"`
	Path    string `mapstructure:"path" default:"/metrics"`
}

// KafkaConfig configures the optional Kafka order-ingress adapter.
type KafkaConfig struct {
	Enabled bool     `mapstructure:"enabled" default:"false"`
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
	GroupID string   `mapstructure:"group_id"`
}

// DatabaseConfig configures the optional MySQL resting-order snapshot sink.
type DatabaseConfig struct {
	Enabled            bool   `mapstructure:"enabled" default:"false"`
	DSN                string `mapstructure:"dsn"`
	MaxOpenConns       int    `mapstructure:"max_open_conns" default:"10"`
	MaxIdleConns       int    `mapstructure:"max_idle_conns" default:"2"`
	SnapshotIntervalMS int    `mapstructure:"snapshot_interval_ms" default:"5000"`
}

// Load reads configPath as TOML, applies defaults, allows APP_-prefixed
// environment variable overrides (dots replaced with underscores, matching
// the driver's own convention), and validates the result.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: read %s: %w", configPath, err)
	}

	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "dev")
	v.SetDefault("matching.workers", 5)
	v.SetDefault("matching.queue_capacity", 1024)
	v.SetDefault("matching.tick_size", 0.05)
	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.output", "stdout")
	v.SetDefault("logger.file_path", "logs/matchcore.log")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 10)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.with_caller", true)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("kafka.enabled", false)
	v.SetDefault("database.enabled", false)
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("database.snapshot_interval_ms", 5000)
}

// Validate checks required fields and, critically, that the configured
// partitions form a full, disjoint cover of Universe.
func (c *Config) Validate() error {
	if c.ServiceName == "" {
		c.ServiceName = "matchcore"
	}
	if len(c.Partitions) == 0 {
		return fmt.Errorf("at least one partition is required")
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("invalid http port: %d", c.HTTP.Port)
	}
	if c.Matching.Workers <= 0 {
		return fmt.Errorf("matching.workers must be positive")
	}

	seen := make(map[string]string, len(c.Universe))
	for _, part := range c.Partitions {
		for _, sym := range part.Symbols {
			if owner, ok := seen[sym]; ok {
				return fmt.Errorf("%w: %q claimed by both %q and %q", ErrDuplicatePartitionSymbol, sym, owner, part.Name)
			}
			seen[sym] = part.Name
		}
	}
	for _, sym := range c.Universe {
		if _, ok := seen[sym]; !ok {
			return fmt.Errorf("%w: %q not owned by any partition", ErrIncompletePartitionCover, sym)
		}
	}
	if len(seen) != len(c.Universe) {
		return fmt.Errorf("%w: partitions own %d symbols but universe has %d", ErrIncompletePartitionCover, len(seen), len(c.Universe))
	}
	return nil
}
