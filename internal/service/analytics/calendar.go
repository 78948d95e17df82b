package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/seu-repo/retention-center/internal/domain"
	"github.com/seu-repo/retention-center/internal/observability/telemetry"
)

const maxCalendarRangeDays = 366

// Calendar returns the renewals falling inside [start, end], grouped per
// day, days sorted ascending. Days without renewals are omitted.
func (s *Service) Calendar(ctx context.Context, start, end time.Time) ([]domain.CalendarDay, error) {
	start, end = truncateDay(start), truncateDay(end)
	if end.Before(start) {
		return nil, domain.Validationf("calendar range ends %s before it starts %s",
			end.Format("2006-01-02"), start.Format("2006-01-02"))
	}
	if end.Sub(start) > maxCalendarRangeDays*24*time.Hour {
		return nil, domain.Validationf("calendar range exceeds %d days", maxCalendarRangeDays)
	}

	grouped, err := s.renewalsByDay(ctx, start, end)
	if err != nil {
		return nil, err
	}

	days := make([]domain.CalendarDay, 0, len(grouped))
	for _, day := range grouped {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date.Before(days[j].Date) })
	return days, nil
}

// CalendarMonth is the month-grid variant: grouped days keyed by ISO date
// plus the layout facts and a month summary.
func (s *Service) CalendarMonth(ctx context.Context, year int, month time.Month) (*domain.CalendarMonth, error) {
	if year < 1 || month < time.January || month > time.December {
		return nil, domain.Validationf("invalid calendar month %d-%d", year, month)
	}

	cacheKey := fmt.Sprintf("retention:calendar:%04d-%02d", year, month)
	if cached := s.cachedMonth(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	grouped, err := s.renewalsByDay(ctx, first, last)
	if err != nil {
		return nil, err
	}

	summary := domain.CalendarSummary{}
	byDate := make(map[string]domain.CalendarDay, len(grouped))
	for _, day := range grouped {
		byDate[day.Date.Format("2006-01-02")] = day
		summary.TotalRenewals += day.Count
		summary.TotalValue += day.TotalValue
		for _, r := range day.Renewals {
			if r.RiskLevel == domain.RiskHigh {
				summary.HighValueCount++
			}
		}
	}

	result := &domain.CalendarMonth{
		Year:            year,
		Month:           month,
		MonthName:       first.Format("January"),
		DaysInMonth:     last.Day(),
		FirstDayWeekday: mondayIndexed(first.Weekday()),
		Days:            byDate,
		Summary:         summary,
	}
	s.store(ctx, cacheKey, result, s.params.CalendarTTL)
	return result, nil
}

func (s *Service) cachedMonth(ctx context.Context, key string) *domain.CalendarMonth {
	if s.cache == nil || s.params.CalendarTTL <= 0 {
		return nil
	}
	raw, err := s.cache.Get(ctx, key)
	if err != nil || raw == "" {
		telemetry.CacheLookupsTotal.WithLabelValues("calendar", "miss").Inc()
		return nil
	}
	var month domain.CalendarMonth
	if err := json.Unmarshal([]byte(raw), &month); err != nil {
		telemetry.CacheLookupsTotal.WithLabelValues("calendar", "miss").Inc()
		return nil
	}
	telemetry.CacheLookupsTotal.WithLabelValues("calendar", "hit").Inc()
	return &month
}

// ProductRetention returns the per-product retention slices, biggest revenue
// first. The retention rate divides renewals by every order on the product,
// unclassified order types included, so products with many one-off orders
// read lower than their renewal/new split alone would suggest.
func (s *Service) ProductRetention(ctx context.Context) ([]domain.ProductRetention, error) {
	stats, err := s.orders.ProductStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("product stats: %w", err)
	}
	for i := range stats {
		stats[i].RetentionRate = retentionRate(stats[i].RenewalOrders, stats[i].TotalOrders)
	}
	sort.SliceStable(stats, func(i, j int) bool { return stats[i].TotalRevenue > stats[j].TotalRevenue })
	return stats, nil
}

func (s *Service) renewalsByDay(ctx context.Context, start, end time.Time) (map[string]domain.CalendarDay, error) {
	renewals, err := s.subs.FindRenewalsBetween(ctx, start, end.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("renewals between %s and %s: %w",
			start.Format("2006-01-02"), end.Format("2006-01-02"), err)
	}

	grouped := make(map[string]domain.CalendarDay)
	for _, r := range renewals {
		r.RiskLevel = s.riskLevel(r.AnnualValue)
		key := r.RenewalDate.Format("2006-01-02")
		day := grouped[key]
		if day.Count == 0 {
			day.Date = truncateDay(r.RenewalDate)
		}
		day.Renewals = append(day.Renewals, r)
		day.TotalValue += r.AnnualValue
		day.Count++
		grouped[key] = day
	}
	return grouped, nil
}

func (s *Service) riskLevel(annualValue float64) domain.RiskLevel {
	switch {
	case annualValue >= s.params.HighValueThreshold:
		return domain.RiskHigh
	case annualValue >= s.params.MediumValueThreshold:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}

// retentionRate is renewal orders over all orders, as a percentage rounded
// to one decimal. Products with no orders read 0.
func retentionRate(renewals, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(renewals)/float64(total)*1000) / 10
}

// mondayIndexed maps Go's Sunday-first weekday to a Monday-first grid index.
func mondayIndexed(w time.Weekday) int {
	return (int(w) + 6) % 7
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
