package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"storefront-bridge/internal/logging"
)

// Config materialises application configuration.
type Config struct {
	App        AppConfig            `mapstructure:"app"`
	Logging    logging.Config       `mapstructure:"logging"`
	Storefront StorefrontConfig     `mapstructure:"storefront"`
	RateLimit  RateLimitConfig      `mapstructure:"ratelimit"`
	Retry      RetryConfig          `mapstructure:"retry"`
	Pricing    PricingConfig        `mapstructure:"pricing"`
	Relay      RelayConfig          `mapstructure:"relay"`
	Weather    WeatherConfig        `mapstructure:"weather"`
	APIs       map[string]RemoteAPI `mapstructure:"apis"`
}

// AppConfig general metadata.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// StorefrontConfig covers vendor backend connectivity.
type StorefrontConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	AssetBaseURL   string        `mapstructure:"asset_base_url"`
	AcceptLanguage string        `mapstructure:"accept_language"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	UserAgent      string        `mapstructure:"user_agent"`
}

// RateLimitConfig sets the per-backend admission quota.
type RateLimitConfig struct {
	RequestsPerMinute int `mapstructure:"requests_per_minute"`
}

// RetryConfig tunes the retrying transport.
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	BackoffBase time.Duration `mapstructure:"backoff_base"`
}

// PricingConfig bounds the enrichment batch policy.
type PricingConfig struct {
	BulkLimit     int `mapstructure:"bulk_limit"`
	FallbackLimit int `mapstructure:"fallback_limit"`
}

// RelayConfig configures the HTTP relay service.
type RelayConfig struct {
	ListenAddr      string        `mapstructure:"listen_addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// WeatherConfig covers the OpenWeather example integration.
type WeatherConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
}

// RemoteAPI describes a named generic endpoint. Kind selects the protocol,
// "rest" (default) or "graphql"; for graphql the base URL is the full
// endpoint.
type RemoteAPI struct {
	BaseURL string            `mapstructure:"base_url"`
	Kind    string            `mapstructure:"kind"`
	Headers map[string]string `mapstructure:"headers"`
}

// Load builds configuration from file, environment, and defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("STOREBRIDGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "storefront-bridge")
	v.SetDefault("app.environment", "development")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("storefront.base_url", "https://develop.icm.intershop.de/INTERSHOP/rest/WFS/inSPIRED-inTRONICS_Business-Site/-;loc=en_US;cur=USD")
	v.SetDefault("storefront.asset_base_url", "https://develop.icm.intershop.de")
	v.SetDefault("storefront.accept_language", "en-US")
	v.SetDefault("storefront.request_timeout", "30s")
	v.SetDefault("storefront.user_agent", "storefront-bridge/1.0")

	v.SetDefault("ratelimit.requests_per_minute", 60)

	v.SetDefault("retry.max_attempts", 3)
	v.SetDefault("retry.backoff_base", "1s")

	v.SetDefault("pricing.bulk_limit", 10)
	v.SetDefault("pricing.fallback_limit", 5)

	v.SetDefault("relay.listen_addr", ":3001")
	v.SetDefault("relay.read_timeout", "15s")
	v.SetDefault("relay.write_timeout", "30s")
	v.SetDefault("relay.shutdown_timeout", "10s")
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}

// Validate performs basic sanity checks on the configuration values.
func (c *Config) Validate() error {
	if c.Storefront.BaseURL == "" {
		return fmt.Errorf("storefront.base_url must be configured")
	}
	if c.RateLimit.RequestsPerMinute <= 0 {
		return fmt.Errorf("ratelimit.requests_per_minute must be greater than zero")
	}
	if c.Retry.MaxAttempts <= 0 {
		return fmt.Errorf("retry.max_attempts must be greater than zero")
	}
	if c.Pricing.BulkLimit <= 0 {
		return fmt.Errorf("pricing.bulk_limit must be greater than zero")
	}
	if c.Pricing.FallbackLimit <= 0 {
		return fmt.Errorf("pricing.fallback_limit must be greater than zero")
	}
	if c.Relay.ListenAddr == "" {
		return fmt.Errorf("relay.listen_addr must be configured")
	}
	for name, api := range c.APIs {
		if api.BaseURL == "" {
			return fmt.Errorf("apis.%s.base_url must be configured", name)
		}
		switch api.Kind {
		case "", "rest", "graphql":
		default:
			return fmt.Errorf("apis.%s.kind must be rest or graphql, got %q", name, api.Kind)
		}
	}
	return nil
}
