// Package config loads application configuration from a YAML file and
// NETANALYTICS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/dd0wney/cluso-netanalytics/pkg/algorithms"
	"github.com/dd0wney/cluso-netanalytics/pkg/logging"
	"github.com/dd0wney/cluso-netanalytics/pkg/validation"
)

// EnvPrefix is the prefix of environment overrides, e.g. NETANALYTICS_LOG_LEVEL.
const EnvPrefix = "NETANALYTICS"

// LogConfig configures the logger.
type LogConfig struct {
	Level      string `mapstructure:"level" yaml:"level"`
	Format     string `mapstructure:"format" yaml:"format"`
	File       string `mapstructure:"file" yaml:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days" yaml:"max_age_days"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr" yaml:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes" yaml:"max_body_bytes"`
}

// DatabaseConfig configures the contact store.
type DatabaseConfig struct {
	DSN     string `mapstructure:"dsn" yaml:"dsn"`
	OwnerID string `mapstructure:"owner_id" yaml:"owner_id"`
}

// Config is the complete application configuration.
type Config struct {
	Log       LogConfig         `mapstructure:"log" yaml:"log"`
	Server    ServerConfig      `mapstructure:"server" yaml:"server"`
	Database  DatabaseConfig    `mapstructure:"database" yaml:"database"`
	Analytics algorithms.Config `mapstructure:"analytics" yaml:"analytics"`
	CacheSize int               `mapstructure:"cache_size" yaml:"cache_size"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 30)
	v.SetDefault("log.compress", true)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.max_body_bytes", 10<<20)

	v.SetDefault("database.dsn", "")
	v.SetDefault("database.owner_id", "")

	a := algorithms.DefaultConfig()
	v.SetDefault("analytics.weights.degree", a.Weights.Degree)
	v.SetDefault("analytics.weights.betweenness", a.Weights.Betweenness)
	v.SetDefault("analytics.weights.clustering", a.Weights.Clustering)
	v.SetDefault("analytics.weights.eigenvector", a.Weights.Eigenvector)
	v.SetDefault("analytics.eigenvector_tolerance", a.EigenvectorTolerance)
	v.SetDefault("analytics.eigenvector_max_iterations", a.EigenvectorMaxIterations)
	v.SetDefault("analytics.min_company_size", a.MinCompanySize)
	v.SetDefault("analytics.min_affiliation_size", a.MinAffiliationSize)
	v.SetDefault("analytics.min_tag_size", a.MinTagSize)
	v.SetDefault("analytics.max_propagation_passes", a.MaxPropagationPasses)
	v.SetDefault("analytics.min_cluster_size", a.MinClusterSize)
	v.SetDefault("analytics.organization_share", a.OrganizationShare)
	v.SetDefault("analytics.keyword_share", a.KeywordShare)
	v.SetDefault("analytics.min_keyword_length", a.MinKeywordLength)
	v.SetDefault("analytics.workers", a.Workers)

	v.SetDefault("cache_size", 64)
}

// Load reads configuration into a new Config. When path is empty,
// netanalytics.yaml is looked up in the working directory and a missing file
// is not an error.
func Load(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("netanalytics")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration produced by the defaults alone.
func Default() Config {
	v := viper.New()
	SetDefaults(v)
	var cfg Config
	// Defaults always decode.
	_ = v.Unmarshal(&cfg)
	return cfg
}

// Validate implements validation.Validatable.
func (c LogConfig) Validate() error {
	return validation.NewConfigValidator("LogConfig").
		OneOf("Level", strings.ToLower(c.Level), []string{"debug", "info", "warn", "warning", "error"}).
		OneOf("Format", c.Format, []string{"json", "console"}).
		When(c.File != "", func(cv *validation.ConfigValidator) {
			cv.NonNegative("MaxSizeMB", c.MaxSizeMB).
				NonNegative("MaxBackups", c.MaxBackups).
				NonNegative("MaxAgeDays", c.MaxAgeDays)
		}).
		Validate()
}

// Validate implements validation.Validatable.
func (c ServerConfig) Validate() error {
	return validation.NewConfigValidator("ServerConfig").
		Required("Addr", c.Addr).
		RangeDuration("ReadTimeout", c.ReadTimeout, time.Second, 10*time.Minute).
		RangeDuration("WriteTimeout", c.WriteTimeout, time.Second, 30*time.Minute).
		RangeDuration("ShutdownTimeout", c.ShutdownTimeout, 0, 5*time.Minute).
		Custom("MaxBodyBytes", func() error {
			if c.MaxBodyBytes <= 0 {
				return fmt.Errorf("value %d must be positive", c.MaxBodyBytes)
			}
			return nil
		}).
		Validate()
}

// Validate checks every section.
func (c Config) Validate() error {
	return validation.NewConfigValidator("Config").
		Nested("Log", c.Log).
		Nested("Server", c.Server).
		Nested("Analytics", c.Analytics).
		NonNegative("CacheSize", c.CacheSize).
		Validate()
}

// LoggerOptions converts the log section into logger options.
func (c LogConfig) LoggerOptions() logging.Options {
	opts := logging.Options{
		Level:  logging.ParseLevel(c.Level),
		Format: c.Format,
	}
	if c.File != "" {
		opts.File = &logging.FileOptions{
			Path:       c.File,
			MaxSizeMB:  c.MaxSizeMB,
			MaxBackups: c.MaxBackups,
			MaxAgeDays: c.MaxAgeDays,
			Compress:   c.Compress,
		}
	}
	return opts
}
