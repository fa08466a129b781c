// Package config loads application configuration from file and environment
// and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Scorer    ScorerConfig    `yaml:"scorer" mapstructure:"scorer"`
	Batch     BatchConfig     `yaml:"batch" mapstructure:"batch"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the score-history backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// AnthropicConfig holds the remote classifier settings. An empty Key
// disables the remote strategy entirely.
type AnthropicConfig struct {
	Key         string `yaml:"key" mapstructure:"key"`
	Model       string `yaml:"model" mapstructure:"model"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// ScorerConfig holds composite-score factor weights. Weights must sum to 1.0.
type ScorerConfig struct {
	BudgetWeight        float64 `yaml:"budget_weight" mapstructure:"budget_weight"`
	IndustryWeight      float64 `yaml:"industry_weight" mapstructure:"industry_weight"`
	CompanySizeWeight   float64 `yaml:"company_size_weight" mapstructure:"company_size_weight"`
	EngagementWeight    float64 `yaml:"engagement_weight" mapstructure:"engagement_weight"`
	StatusWeight        float64 `yaml:"status_weight" mapstructure:"status_weight"`
	DecisionMakerWeight float64 `yaml:"decision_maker_weight" mapstructure:"decision_maker_weight"`
}

// BatchConfig configures batch scoring.
type BatchConfig struct {
	MaxConcurrentLeads int     `yaml:"max_concurrent_leads" mapstructure:"max_concurrent_leads"`
	RemoteCallsPerSec  float64 `yaml:"remote_calls_per_sec" mapstructure:"remote_calls_per_sec"`
}

// ServerConfig configures the scoring HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LEADSCORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "leadscore.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("batch.max_concurrent_leads", 5)
	v.SetDefault("batch.remote_calls_per_sec", 2.0)
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.timeout_secs", 10)
	v.SetDefault("scorer.budget_weight", 0.25)
	v.SetDefault("scorer.industry_weight", 0.15)
	v.SetDefault("scorer.company_size_weight", 0.15)
	v.SetDefault("scorer.engagement_weight", 0.20)
	v.SetDefault("scorer.status_weight", 0.10)
	v.SetDefault("scorer.decision_maker_weight", 0.15)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
