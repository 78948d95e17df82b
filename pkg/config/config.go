package config

import "time"

type Config struct {
	App            AppConfig            `mapstructure:"app"`
	HTTP           HTTPConfig           `mapstructure:"http"`
	Database       DatabaseConfig       `mapstructure:"database"`
	Redis          RedisConfig          `mapstructure:"redis"`
	JWT            JWTConfig            `mapstructure:"jwt"`
	Prometheus     PrometheusConfig     `mapstructure:"prometheus"`
	OpenTelemetry  OpenTelemetryConfig  `mapstructure:"opentelemetry"`
	Logging        LoggingConfig        `mapstructure:"logging"`
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`
	CORS           CORSConfig           `mapstructure:"cors"`
	Cache          CacheConfig          `mapstructure:"cache"`
	Retention      RetentionConfig      `mapstructure:"retention"`
	Scoring        ScoringConfig        `mapstructure:"scoring"`
	Upsell         UpsellConfig         `mapstructure:"upsell"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type HTTPConfig struct {
	Port           int           `mapstructure:"port"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
}

type DatabaseConfig struct {
	URL             string        `mapstructure:"url"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
	LogQueries      bool          `mapstructure:"log_queries"`
}

type RedisConfig struct {
	URL     string `mapstructure:"url"`
	Enabled bool   `mapstructure:"enabled"`
}

type JWTConfig struct {
	Secret               string        `mapstructure:"secret"`
	AccessTokenDuration  time.Duration `mapstructure:"access_token_duration"`
	RefreshTokenDuration time.Duration `mapstructure:"refresh_token_duration"`
	Issuer               string        `mapstructure:"issuer"`
}

type PrometheusConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type OpenTelemetryConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	ServiceName string `mapstructure:"service_name"`
	Endpoint    string `mapstructure:"endpoint"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type CircuitBreakerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	MaxRequests      int           `mapstructure:"max_requests"`
	Interval         time.Duration `mapstructure:"interval"`
	Timeout          time.Duration `mapstructure:"timeout"`
	FailureThreshold float64       `mapstructure:"failure_threshold"`
}

type CORSConfig struct {
	Enabled        bool     `mapstructure:"enabled"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// CacheConfig holds per-view response cache TTLs plus the list-view
// controller's client-side behavior. TTLs stay minutes-scale: scores are
// recomputed per request, so freshness wins over hit rate.
type CacheConfig struct {
	DashboardTTL    time.Duration `mapstructure:"dashboard_ttl"`
	TrendTTL        time.Duration `mapstructure:"trend_ttl"`
	CalendarTTL     time.Duration `mapstructure:"calendar_ttl"`
	MaxEntries      int           `mapstructure:"max_entries"`
	DebounceWindow  time.Duration `mapstructure:"debounce_window"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// RetentionConfig holds the day thresholds behind renewal classification and
// the dashboard's at-risk window. Defaults mirror observed production
// values; they are business parameters, not law.
type RetentionConfig struct {
	DueSoonDays      int `mapstructure:"due_soon_days"`      // renewal within N days -> due_soon
	DormantDueDays   int `mapstructure:"dormant_due_days"`   // no subscription, last order older than N days -> due_soon
	DormantLapseDays int `mapstructure:"dormant_lapse_days"` // no subscription, last order older than N days -> overdue
	AtRiskWindowDays int `mapstructure:"at_risk_window_days"`
	RecentOrderLimit int `mapstructure:"recent_order_limit"`

	// Trailing-year order value above which a calendar renewal is flagged
	// high or medium risk.
	HighValueThreshold   float64 `mapstructure:"high_value_threshold"`
	MediumValueThreshold float64 `mapstructure:"medium_value_threshold"`
}

// ScoringConfig parameterizes the priority score. The four caps sum to 100.
type ScoringConfig struct {
	RevenueCap    int `mapstructure:"revenue_cap"`
	UrgencyCap    int `mapstructure:"urgency_cap"`
	TierCap       int `mapstructure:"tier_cap"`
	EngagementCap int `mapstructure:"engagement_cap"`

	// Revenue thresholds descend, paired index-wise with RevenueSteps points.
	RevenueThresholds  []float64 `mapstructure:"revenue_thresholds"`
	RevenueSteps       []int     `mapstructure:"revenue_steps"`
	RevenueFloor       int       `mapstructure:"revenue_floor"`
	UrgencyHorizonDays int       `mapstructure:"urgency_horizon_days"`

	TopTierGroups []string `mapstructure:"top_tier_groups"`
	MidTierGroups []string `mapstructure:"mid_tier_groups"`
	TopTierScore  int      `mapstructure:"top_tier_score"`
	MidTierScore  int      `mapstructure:"mid_tier_score"`
	BaseTierScore int      `mapstructure:"base_tier_score"`

	CriticalThreshold int `mapstructure:"critical_threshold"`
	HighThreshold     int `mapstructure:"high_threshold"`
	MediumThreshold   int `mapstructure:"medium_threshold"`
}

// UpsellConfig parameterizes the upsell heuristics.
type UpsellConfig struct {
	PerSeatPrice     float64  `mapstructure:"per_seat_price"`
	SeatBaseline     int      `mapstructure:"seat_baseline"`
	CrossSellValue   float64  `mapstructure:"cross_sell_value"`
	CrossSellMaxList int      `mapstructure:"cross_sell_max_list"`
	TierUpgradeValue float64  `mapstructure:"tier_upgrade_value"`
	Catalog          []string `mapstructure:"catalog"`
	PotentialFactor  float64  `mapstructure:"potential_factor"` // share of avg order value assumed upsellable
}
