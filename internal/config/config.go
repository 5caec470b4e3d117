package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type PostgresConfig struct {
	DSN             string
	MaxOpen         int
	MaxIdle         int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type ArchiveConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	Region    string
	Enabled   bool
}

type AuthConfig struct {
	AccessTokenSecret string
	AccessTokenTTL    time.Duration
	RefreshTokenTTL   time.Duration
}

type WebhookConfig struct {
	VerifyToken string
	AppSecret   string
	Stream      string
}

type GraphConfig struct {
	BaseURL string
	Timeout time.Duration

	// When a page is configured the server enrolls it for webhook fields at
	// startup instead of requiring a manual Graph API call.
	PageID           string
	PageToken        string
	SubscribedFields []string
}

type AppConfig struct {
	Environment      string
	HTTP             HTTPConfig
	Postgres         PostgresConfig
	Redis            RedisConfig
	Archive          ArchiveConfig
	Auth             AuthConfig
	Webhook          WebhookConfig
	Graph            GraphConfig
	AllowCORSOrigins []string
}

// IsDevelopment reports whether cookies may skip the Secure attribute.
func (c *AppConfig) IsDevelopment() bool {
	return c.Environment == "development"
}

func Load() (*AppConfig, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("../config")

	v.SetEnvPrefix("METARELAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.Auth.AccessTokenSecret == "" {
		return nil, fmt.Errorf("auth.accesstokensecret is required")
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 3000)
	v.SetDefault("http.readtimeout", "10s")
	v.SetDefault("http.writetimeout", "15s")
	v.SetDefault("http.idletimeout", "60s")

	v.SetDefault("postgres.maxopen", 30)
	v.SetDefault("postgres.maxidle", 10)
	v.SetDefault("postgres.connmaxlifetime", "30m")

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("archive.bucket", "webhook-payloads")
	v.SetDefault("archive.usessl", false)
	v.SetDefault("archive.region", "us-east-1")
	v.SetDefault("archive.enabled", false)

	v.SetDefault("auth.accesstokenttl", "15m")
	v.SetDefault("auth.refreshtokenttl", "720h") // 30 days

	v.SetDefault("webhook.stream", "webhooks:events")

	v.SetDefault("graph.baseurl", "https://graph.facebook.com/v23.0")
	v.SetDefault("graph.timeout", "10s")
	v.SetDefault("graph.subscribedfields", "messages,messaging_postbacks,feed")
}
