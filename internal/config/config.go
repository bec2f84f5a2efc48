// README: Config loader (config.yaml + TRIPMAP_ env) for HTTP, logging, Gemini, Maps, Redis and proximity settings.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type GeminiConfig struct {
	APIKey            string  `mapstructure:"api_key"`
	Model             string  `mapstructure:"model"`
	Temperature       float32 `mapstructure:"temperature"`
	MaxOutputTokens   int32   `mapstructure:"max_output_tokens"`
	TimeoutSecs       int     `mapstructure:"timeout_secs"`
	RequestsPerMinute int     `mapstructure:"requests_per_minute"`
}

func (g GeminiConfig) Timeout() time.Duration {
	return time.Duration(g.TimeoutSecs) * time.Second
}

type MapsConfig struct {
	APIKey string `mapstructure:"api_key"`
}

type RedisConfig struct {
	Addr string `mapstructure:"addr"`
}

// ProximityConfig is the default nearby policy. Backend is "memory" or "redis".
type ProximityConfig struct {
	Backend  string  `mapstructure:"backend"`
	RadiusKm float64 `mapstructure:"radius_km"`
	MaxCount int     `mapstructure:"max_count"`
}

type DatasetConfig struct {
	Static string `mapstructure:"static"`
}

type Config struct {
	HTTP      HTTPConfig      `mapstructure:"http"`
	Log       LogConfig       `mapstructure:"log"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	Maps      MapsConfig      `mapstructure:"maps"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Proximity ProximityConfig `mapstructure:"proximity"`
	Dataset   DatasetConfig   `mapstructure:"dataset"`
}

// Load reads configuration from an optional config.yaml and the environment.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("TRIPMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", "gemini-2.0-flash")
	v.SetDefault("gemini.temperature", 0.7)
	v.SetDefault("gemini.max_output_tokens", 8192)
	v.SetDefault("gemini.timeout_secs", 60)
	v.SetDefault("gemini.requests_per_minute", 0)
	v.SetDefault("maps.api_key", "")
	v.SetDefault("redis.addr", "")
	v.SetDefault("proximity.backend", "memory")
	v.SetDefault("proximity.radius_km", 1.0)
	v.SetDefault("proximity.max_count", 3)
	v.SetDefault("dataset.static", "almaty")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	// The bare variable is what the hosted deployment sets.
	if cfg.Gemini.APIKey == "" {
		cfg.Gemini.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.Maps.APIKey == "" {
		cfg.Maps.APIKey = os.Getenv("GOOGLE_MAPS_API_KEY")
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Proximity.Backend {
	case "memory":
	case "redis":
		if c.Redis.Addr == "" {
			return eris.New("config: proximity.backend=redis requires redis.addr")
		}
	default:
		return eris.Errorf("config: unknown proximity.backend %q", c.Proximity.Backend)
	}
	if c.Proximity.RadiusKm <= 0 {
		return eris.Errorf("config: proximity.radius_km must be positive, got %v", c.Proximity.RadiusKm)
	}
	if c.Proximity.MaxCount <= 0 {
		return eris.Errorf("config: proximity.max_count must be positive, got %d", c.Proximity.MaxCount)
	}
	return nil
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
