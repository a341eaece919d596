package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host            string
	Port            int
	RateLimitPerSec float64
	RateLimitBurst  int
	ReferenceTTL    time.Duration
}

type DBConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type AuthConfig struct {
	AccessSecret string
}

type RoutingConfig struct {
	AverageSpeedMph float64
	RoadFactor      float64
}

type Config struct {
	Environment string
	HTTP        HTTPConfig
	DB          DBConfig
	Auth        AuthConfig
	Routing     RoutingConfig
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")
	v.AddConfigPath("./internal/config")

	v.AutomaticEnv()

	_ = v.ReadInConfig()

	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		HTTP: HTTPConfig{
			Host:            v.GetString("HTTP_HOST"),
			Port:            v.GetInt("HTTP_PORT"),
			RateLimitPerSec: v.GetFloat64("HTTP_RATE_LIMIT_PER_SEC"),
			RateLimitBurst:  v.GetInt("HTTP_RATE_LIMIT_BURST"),
			ReferenceTTL:    v.GetDuration("HTTP_REFERENCE_CACHE_TTL"),
		},
		DB: DBConfig{
			DSN:             v.GetString("DB_DSN"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
		},
		Auth: AuthConfig{
			AccessSecret: v.GetString("JWT_ACCESS_SECRET"),
		},
		Routing: RoutingConfig{
			AverageSpeedMph: v.GetFloat64("ROUTE_AVERAGE_SPEED_MPH"),
			RoadFactor:      v.GetFloat64("ROUTE_ROAD_FACTOR"),
		},
	}

	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = "0.0.0.0"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 7090
	}
	if cfg.HTTP.RateLimitPerSec <= 0 {
		cfg.HTTP.RateLimitPerSec = 10
	}
	if cfg.HTTP.RateLimitBurst <= 0 {
		cfg.HTTP.RateLimitBurst = 20
	}
	if cfg.HTTP.ReferenceTTL <= 0 {
		cfg.HTTP.ReferenceTTL = time.Hour
	}
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.Routing.AverageSpeedMph <= 0 {
		cfg.Routing.AverageSpeedMph = 55
	}
	if cfg.Routing.RoadFactor <= 0 {
		cfg.Routing.RoadFactor = 1.2
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.DB.DSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}
	if cfg.Auth.AccessSecret == "" {
		return fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	return nil
}
