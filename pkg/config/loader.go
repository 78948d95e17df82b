package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/app/configs")

	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Allow common env vars without APP_ prefix for Docker/VM deploys
	viper.BindEnv("http.port", "HTTP_PORT", "APP_HTTP_PORT")
	viper.BindEnv("database.url", "DATABASE_URL", "APP_DATABASE_URL")
	viper.BindEnv("redis.url", "REDIS_URL", "APP_REDIS_URL")
	viper.BindEnv("jwt.secret", "JWT_SECRET", "APP_JWT_SECRET")
	viper.BindEnv("app.environment", "APP_ENVIRONMENT")
	viper.BindEnv("logging.level", "LOG_LEVEL")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file: run on defaults plus env vars.
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults records the production values for every business parameter, so
// a bare deployment needs no config file to behave sensibly.
func setDefaults() {
	viper.SetDefault("app.name", "retention-center")
	viper.SetDefault("app.version", "1.0.0")
	viper.SetDefault("app.environment", "development")

	viper.SetDefault("http.port", 8080)
	viper.SetDefault("http.read_timeout", 15*time.Second)
	viper.SetDefault("http.write_timeout", 15*time.Second)
	viper.SetDefault("http.idle_timeout", time.Minute)

	viper.SetDefault("database.auto_migrate", true)
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 10)
	viper.SetDefault("database.conn_max_lifetime", 30*time.Minute)

	viper.SetDefault("redis.enabled", true)

	viper.SetDefault("jwt.access_token_duration", 15*time.Minute)
	viper.SetDefault("jwt.refresh_token_duration", 7*24*time.Hour)
	viper.SetDefault("jwt.issuer", "retention-center")

	viper.SetDefault("prometheus.enabled", true)
	viper.SetDefault("prometheus.path", "/metrics")

	viper.SetDefault("opentelemetry.enabled", false)
	viper.SetDefault("opentelemetry.service_name", "retention-center")
	viper.SetDefault("opentelemetry.endpoint", "http://localhost:14268/api/traces")

	viper.SetDefault("logging.level", "info")

	viper.SetDefault("cors.enabled", true)

	viper.SetDefault("circuit_breaker.enabled", true)
	viper.SetDefault("circuit_breaker.max_requests", 3)
	viper.SetDefault("circuit_breaker.interval", time.Minute)
	viper.SetDefault("circuit_breaker.timeout", 30*time.Second)
	viper.SetDefault("circuit_breaker.failure_threshold", 0.6)

	viper.SetDefault("cache.dashboard_ttl", 5*time.Minute)
	viper.SetDefault("cache.trend_ttl", 10*time.Minute)
	viper.SetDefault("cache.calendar_ttl", 5*time.Minute)
	viper.SetDefault("cache.max_entries", 32)
	viper.SetDefault("cache.debounce_window", 350*time.Millisecond)
	viper.SetDefault("cache.cleanup_interval", time.Minute)

	viper.SetDefault("retention.due_soon_days", 30)
	viper.SetDefault("retention.dormant_due_days", 270)
	viper.SetDefault("retention.dormant_lapse_days", 365)
	viper.SetDefault("retention.at_risk_window_days", 90)
	viper.SetDefault("retention.recent_order_limit", 20)
	viper.SetDefault("retention.high_value_threshold", 5000.0)
	viper.SetDefault("retention.medium_value_threshold", 1000.0)

	viper.SetDefault("scoring.revenue_cap", 40)
	viper.SetDefault("scoring.urgency_cap", 35)
	viper.SetDefault("scoring.tier_cap", 15)
	viper.SetDefault("scoring.engagement_cap", 10)
	viper.SetDefault("scoring.revenue_thresholds", []float64{10000, 5000, 2000, 500})
	viper.SetDefault("scoring.revenue_steps", []int{40, 30, 20, 10})
	viper.SetDefault("scoring.revenue_floor", 5)
	viper.SetDefault("scoring.urgency_horizon_days", 90)
	viper.SetDefault("scoring.top_tier_groups", []string{"enterprise", "strategic", "vip"})
	viper.SetDefault("scoring.mid_tier_groups", []string{"commercial", "smb"})
	viper.SetDefault("scoring.top_tier_score", 15)
	viper.SetDefault("scoring.mid_tier_score", 8)
	viper.SetDefault("scoring.base_tier_score", 3)
	viper.SetDefault("scoring.critical_threshold", 75)
	viper.SetDefault("scoring.high_threshold", 50)
	viper.SetDefault("scoring.medium_threshold", 25)

	viper.SetDefault("upsell.per_seat_price", 50.0)
	viper.SetDefault("upsell.seat_baseline", 10)
	viper.SetDefault("upsell.cross_sell_value", 500.0)
	viper.SetDefault("upsell.cross_sell_max_list", 3)
	viper.SetDefault("upsell.tier_upgrade_value", 200.0)
	viper.SetDefault("upsell.catalog", []string{"Security", "Trend Micro", "Kaspersky", "Bitdefender", "Norton", "McAfee"})
	viper.SetDefault("upsell.potential_factor", 0.25)
}
