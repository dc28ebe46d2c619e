package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	StoreDriverMongo    = "mongo"
	StoreDriverPostgres = "postgres"

	DefaultBodyWeightKg = 66.0
	DefaultMET          = 1.0
)

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`

	AllowedOrigins []string `toml:"allowed_origins"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// storage
	StoreDriver         string `toml:"store_driver"`
	MongoURI            string `toml:"mongo_uri"`
	MongoDBName         string `toml:"mongo_db_name"`
	PostgresHost        string `toml:"postgres_host"`
	PostgresPort        string `toml:"postgres_port"`
	PostgresDBName      string `toml:"postgres_db_name"`
	PostgresApplySchema bool   `toml:"postgres_apply_schema"`

	// redis, used for rate limiting
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`

	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`

	StatsRateLimitPerMin int `toml:"stats_rate_limit_per_min"`

	// calorie estimation
	BodyWeightKg float64 `toml:"body_weight_kg"`
	DefaultMET   float64 `toml:"default_met"`
}

// CalorieConfig holds the constants of the calorie estimation formula.
type CalorieConfig struct {
	BodyWeightKg float64
	DefaultMET   float64
}

func (c *Config) CalorieConfig() CalorieConfig {
	cc := CalorieConfig{
		BodyWeightKg: c.BodyWeightKg,
		DefaultMET:   c.DefaultMET,
	}
	if cc.BodyWeightKg <= 0 {
		cc.BodyWeightKg = DefaultBodyWeightKg
	}
	if cc.DefaultMET <= 0 {
		cc.DefaultMET = DefaultMET
	}
	return cc
}

func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreDriverMongo:
		if c.MongoURI == "" || c.MongoDBName == "" {
			return fmt.Errorf("mongo store: mongo_uri and mongo_db_name are required")
		}
	case StoreDriverPostgres:
		if c.PostgresHost == "" || c.PostgresDBName == "" {
			return fmt.Errorf("postgres store: postgres_host and postgres_db_name are required")
		}
	default:
		return fmt.Errorf("unknown store driver: [%s]", c.StoreDriver)
	}

	if c.Port <= 0 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.StatsRateLimitPerMin < 0 {
		return fmt.Errorf("invalid stats rate limit: %d", c.StatsRateLimitPerMin)
	}

	return nil
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
		if cfg != nil && cfg.Environment == "" {
			cfg.Environment = "development"
		}
	case "prod", "production":
		cfg = t.Production
		if cfg != nil && cfg.Environment == "" {
			cfg.Environment = "production"
		}
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}

	if cfg == nil {
		return nil, fmt.Errorf("config for env [%s] not found", env)
	}

	return cfg, nil
}

// Load reads the TOML file at path and returns the section for env.
func Load(env, path string) (*Config, error) {
	tomlBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return Parse(env, string(tomlBytes))
}

func Parse(env, tomlContent string) (*Config, error) {
	var t Toml
	if _, err := toml.Decode(tomlContent, &t); err != nil {
		return nil, fmt.Errorf("decode toml: %w", err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}

	if cfg.StoreDriver == "" {
		cfg.StoreDriver = StoreDriverMongo
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}
