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
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Gmail     GmailConfig     `yaml:"gmail" mapstructure:"gmail"`
	Enrich    EnrichConfig    `yaml:"enrich" mapstructure:"enrich"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// GmailConfig holds Gmail API settings for mailbox ingestion.
type GmailConfig struct {
	AccessToken string `yaml:"access_token" mapstructure:"access_token"`
	Query       string `yaml:"query" mapstructure:"query"`
	MaxMessages int64  `yaml:"max_messages" mapstructure:"max_messages"`
}

// EnrichConfig configures batch enrichment behavior.
type EnrichConfig struct {
	MaxConcurrency   int     `yaml:"max_concurrency" mapstructure:"max_concurrency"`
	CallTimeoutSecs  int     `yaml:"call_timeout_secs" mapstructure:"call_timeout_secs"`
	CredibilityFloor float64 `yaml:"credibility_floor" mapstructure:"credibility_floor"`
	InferenceRPS     float64 `yaml:"inference_rps" mapstructure:"inference_rps"`
	TiersPath        string  `yaml:"tiers_path" mapstructure:"tiers_path"`
	TablesPath       string  `yaml:"tables_path" mapstructure:"tables_path"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Validate checks that required settings for the given run mode are
// present and in range. Mode is "enrich" or "serve".
func (c *Config) Validate(mode string) error {
	var problems []string

	switch mode {
	case "enrich", "serve":
		if c.Anthropic.Key == "" {
			problems = append(problems, "anthropic.key is required")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if mode == "serve" && c.Server.Port <= 0 {
		problems = append(problems, "server.port must be > 0")
	}
	if c.Enrich.MaxConcurrency < 1 || c.Enrich.MaxConcurrency > 50 {
		problems = append(problems, "enrich.max_concurrency must be between 1 and 50")
	}
	if c.Enrich.CallTimeoutSecs <= 0 {
		problems = append(problems, "enrich.call_timeout_secs must be > 0")
	}
	if c.Enrich.CredibilityFloor < 0 || c.Enrich.CredibilityFloor > 100 {
		problems = append(problems, "enrich.credibility_floor must be within 0-100")
	}
	if c.Enrich.InferenceRPS < 0 {
		problems = append(problems, "enrich.inference_rps must be >= 0")
	}

	if len(problems) > 0 {
		return eris.New("config: " + strings.Join(problems, "; "))
	}
	return nil
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("INBOX_INTEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.max_tokens", 1024)
	v.SetDefault("gmail.query", "is:unread")
	v.SetDefault("gmail.max_messages", 25)
	v.SetDefault("enrich.max_concurrency", 5)
	v.SetDefault("enrich.call_timeout_secs", 20)
	v.SetDefault("enrich.credibility_floor", 30)
	v.SetDefault("enrich.inference_rps", 0)

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
