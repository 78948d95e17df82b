package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/retention-center/internal/domain"
	"github.com/seu-repo/retention-center/internal/observability/telemetry"
	"github.com/seu-repo/retention-center/internal/ports"
)

// Params holds the calendar risk thresholds and optional cache TTLs.
type Params struct {
	// HighValueThreshold flags a calendar renewal high risk when the
	// customer's trailing-year value reaches it; MediumValueThreshold the
	// medium tier.
	HighValueThreshold   float64
	MediumValueThreshold float64

	TrendTTL    time.Duration
	CalendarTTL time.Duration
}

func DefaultParams() Params {
	return Params{
		HighValueThreshold:   5000,
		MediumValueThreshold: 1000,
	}
}

// Service implements AnalyticsService. The trend walks a fixed month window
// over one grouped query; missing months appear as zero points so a chart
// never has holes.
type Service struct {
	orders ports.OrderRepository
	subs   ports.SubscriptionRepository
	cache  ports.Cache
	params Params
	log    *zap.Logger
	now    func() time.Time
}

// NewService creates the analytics service. cache may be nil.
func NewService(
	orders ports.OrderRepository,
	subs ports.SubscriptionRepository,
	cache ports.Cache,
	params Params,
	log *zap.Logger,
) *Service {
	if params.HighValueThreshold <= 0 {
		params.HighValueThreshold = DefaultParams().HighValueThreshold
	}
	if params.MediumValueThreshold <= 0 {
		params.MediumValueThreshold = DefaultParams().MediumValueThreshold
	}
	return &Service{
		orders: orders,
		subs:   subs,
		cache:  cache,
		params: params,
		log:    log,
		now:    time.Now,
	}
}

// Trend returns one point per calendar month across the window, oldest
// first, ending with the current month. Only 6 and 12 month windows exist;
// anything else snaps to the nearer one.
func (s *Service) Trend(ctx context.Context, months int) ([]domain.TrendPoint, error) {
	if months <= 6 {
		months = 6
	} else {
		months = 12
	}

	cacheKey := fmt.Sprintf("retention:trend:%d", months)
	if cached := s.cachedTrend(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	now := s.now()
	end := startOfMonth(now).AddDate(0, 1, 0)
	start := startOfMonth(now).AddDate(0, -(months - 1), 0)

	buckets, err := s.orders.MonthlyBuckets(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("monthly order buckets: %w", err)
	}
	byMonth := make(map[time.Time]ports.MonthlyOrderBucket, len(buckets))
	for _, b := range buckets {
		byMonth[startOfMonth(b.Month)] = b
	}

	points := make([]domain.TrendPoint, 0, months)
	for m := start; m.Before(end); m = m.AddDate(0, 1, 0) {
		b := byMonth[m]
		points = append(points, domain.TrendPoint{
			Month:          m,
			Label:          m.Format("Jan 2006"),
			ShortLabel:     m.Format("Jan"),
			RenewalCount:   b.RenewalCount,
			NewCount:       b.NewCount,
			TotalOrders:    b.TotalOrders,
			RenewalRevenue: b.RenewalRevenue,
			NewRevenue:     b.NewRevenue,
			TotalRevenue:   b.TotalRevenue,
			RenewalRate:    renewalRate(b.RenewalCount, b.NewCount),
		})
	}

	s.store(ctx, cacheKey, points, s.params.TrendTTL)
	return points, nil
}

// renewalRate is renewal orders over classified orders, as a percentage
// rounded to one decimal. Months with no classified orders read 0.
func renewalRate(renewals, news int) float64 {
	classified := renewals + news
	if classified == 0 {
		return 0
	}
	return math.Round(float64(renewals)/float64(classified)*1000) / 10
}

func (s *Service) cachedTrend(ctx context.Context, key string) []domain.TrendPoint {
	if s.cache == nil || s.params.TrendTTL <= 0 {
		return nil
	}
	raw, err := s.cache.Get(ctx, key)
	if err != nil || raw == "" {
		telemetry.CacheLookupsTotal.WithLabelValues("trend", "miss").Inc()
		return nil
	}
	var points []domain.TrendPoint
	if err := json.Unmarshal([]byte(raw), &points); err != nil {
		telemetry.CacheLookupsTotal.WithLabelValues("trend", "miss").Inc()
		return nil
	}
	telemetry.CacheLookupsTotal.WithLabelValues("trend", "hit").Inc()
	return points
}

func (s *Service) store(ctx context.Context, key string, v interface{}, ttl time.Duration) {
	if s.cache == nil || ttl <= 0 {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, string(raw), ttl); err != nil {
		s.log.Warn("failed to cache analytics response", zap.String("key", key), zap.Error(err))
	}
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
