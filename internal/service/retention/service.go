package retention

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/seu-repo/retention-center/internal/domain"
	"github.com/seu-repo/retention-center/internal/observability/telemetry"
	"github.com/seu-repo/retention-center/internal/ports"
	"github.com/seu-repo/retention-center/internal/service/scoring"
)

const (
	defaultLimit = 50
	maxLimit     = 100

	defaultDaysRange = 90
	maxDaysRange     = 365

	minSearchQueryLen = 2

	// Sort key for customers with no renewal date on file: they rank after
	// every dated renewal at the same score.
	noRenewalSortDays = 999
)

// Params holds the service-level windows and limits.
type Params struct {
	// AtRiskWindowDays bounds the upcoming-renewal revenue KPI and the
	// inactivity cutoff behind the at-risk count.
	AtRiskWindowDays int
	// RecentOrderLimit caps the order history attached to a client detail.
	RecentOrderLimit int
	// DashboardTTL enables response caching of the dashboard summary when
	// a cache is wired. Zero disables it.
	DashboardTTL time.Duration
}

func DefaultParams() Params {
	return Params{
		AtRiskWindowDays: 90,
		RecentOrderLimit: 20,
	}
}

// Service implements RetentionService. All reads are computed fresh from the
// aggregation queries; nothing derived is ever persisted, so a read repeated
// against unchanged data returns the identical result.
type Service struct {
	customers  ports.CustomerRepository
	orders     ports.OrderRepository
	subs       ports.SubscriptionRepository
	contacts   ports.ContactEventRepository
	classifier *scoring.Classifier
	scorer     *scoring.Scorer
	estimator  *scoring.Estimator
	cache      ports.Cache
	params     Params
	log        *zap.Logger
	now        func() time.Time
}

// NewService creates the retention service. cache may be nil; summary caching
// is skipped without it.
func NewService(
	customers ports.CustomerRepository,
	orders ports.OrderRepository,
	subs ports.SubscriptionRepository,
	contacts ports.ContactEventRepository,
	classifier *scoring.Classifier,
	scorer *scoring.Scorer,
	estimator *scoring.Estimator,
	cache ports.Cache,
	params Params,
	log *zap.Logger,
) *Service {
	if params.AtRiskWindowDays <= 0 {
		params.AtRiskWindowDays = DefaultParams().AtRiskWindowDays
	}
	if params.RecentOrderLimit <= 0 {
		params.RecentOrderLimit = DefaultParams().RecentOrderLimit
	}
	return &Service{
		customers:  customers,
		orders:     orders,
		subs:       subs,
		contacts:   contacts,
		classifier: classifier,
		scorer:     scorer,
		estimator:  estimator,
		cache:      cache,
		params:     params,
		log:        log,
		now:        time.Now,
	}
}

const summaryCacheKey = "retention:dashboard:summary"

// DashboardSummary computes the headline KPI block plus month-over-month
// comparisons. Every figure comes from a set-based query; no per-customer
// loops touch the store.
func (s *Service) DashboardSummary(ctx context.Context) (*domain.DashboardSummary, error) {
	if cached := s.cachedSummary(ctx); cached != nil {
		return cached, nil
	}

	now := s.now()

	totalCustomers, err := s.customers.CountActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("count customers: %w", err)
	}

	upcomingRevenue, err := s.subs.UpcomingRenewalRevenue(ctx, now, s.params.AtRiskWindowDays)
	if err != nil {
		return nil, fmt.Errorf("upcoming renewal revenue: %w", err)
	}

	atRisk, err := s.countAtRisk(ctx, now)
	if err != nil {
		return nil, err
	}

	seatGap, err := s.orders.TotalSeatGap(ctx)
	if err != nil {
		return nil, fmt.Errorf("seat gap: %w", err)
	}

	renewalRate, err := s.trailingRenewalRate(ctx, now)
	if err != nil {
		return nil, err
	}

	avgLTV, err := s.orders.AverageLifetimeValue(ctx)
	if err != nil {
		return nil, fmt.Errorf("average lifetime value: %w", err)
	}

	monthStart := startOfMonth(now)
	renewalsThisMonth, err := s.orders.CountBetween(ctx, monthStart, now, true)
	if err != nil {
		return nil, fmt.Errorf("renewals this month: %w", err)
	}

	summary := &domain.DashboardSummary{
		TotalCustomers:      totalCustomers,
		RevenueUpForRenewal: round2(upcomingRevenue),
		ClientsAtRisk:       atRisk,
		PotentialUpsell:     s.estimator.SeatGapValue(seatGap, 0),
		RenewalRate:         renewalRate,
		AvgLifetimeValue:    round2(avgLTV),
		RenewalsThisMonth:   renewalsThisMonth,
	}

	comparisons, err := s.buildComparisons(ctx, now, summary)
	if err != nil {
		// Comparisons are decorative next to the headline figures; log and
		// serve the summary without them rather than failing the read.
		s.log.Warn("dashboard comparisons unavailable", zap.Error(err))
	} else {
		summary.Comparisons = comparisons
	}

	s.storeSummary(ctx, summary)
	return summary, nil
}

// ListClients returns one page of scored customer aggregates, highest
// priority first. Pagination inputs are clamped, never rejected.
func (s *Service) ListClients(ctx context.Context, params ports.ListClientsParams) ([]domain.CustomerAggregate, error) {
	params = clampListParams(params)
	if !domain.ValidStatusFilter(params.StatusFilter) {
		return nil, domain.Validationf("unknown status filter %q", params.StatusFilter)
	}

	rows, err := s.customers.ListAggregates(ctx, ports.ListPage{Limit: params.Limit, Offset: params.Offset})
	if err != nil {
		return nil, fmt.Errorf("list aggregates: %w", err)
	}

	aggregates := s.annotate(rows)
	if f := params.StatusFilter; f != "" && f != "all" {
		aggregates = filterByStatus(aggregates, domain.RenewalStatus(f))
	}
	sortByPriority(aggregates)
	return aggregates, nil
}

// SearchClients matches customers by name, email or ID. Queries shorter than
// two characters are rejected rather than clamped: a broad scan is never
// what a two-keystroke search meant.
func (s *Service) SearchClients(ctx context.Context, query string, limit, offset int) (*ports.SearchResult, error) {
	query = strings.TrimSpace(query)
	if len(query) < minSearchQueryLen {
		return nil, domain.Validationf("search query must be at least %d characters", minSearchQueryLen)
	}
	page := clampPage(limit, offset)

	rows, total, err := s.customers.Search(ctx, query, page)
	if err != nil {
		return nil, fmt.Errorf("search customers: %w", err)
	}

	aggregates := s.annotate(rows)
	sortByPriority(aggregates)

	return &ports.SearchResult{
		Customers: aggregates,
		Count:     total,
		HasMore:   page.Offset+len(rows) < total,
	}, nil
}

// ClientDetail returns the full retention picture for one customer: the
// scored aggregate, recent orders, subscriptions, last contact, and the full
// upsell evaluation against the order history.
func (s *Service) ClientDetail(ctx context.Context, customerID string) (*ports.ClientDetail, error) {
	row, err := s.customers.FindAggregate(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("find customer %s: %w", customerID, err)
	}
	if row == nil {
		return nil, domain.NotFoundf("customer %s", customerID)
	}

	orders, err := s.orders.FindRecentByCustomer(ctx, customerID, s.params.RecentOrderLimit)
	if err != nil {
		return nil, fmt.Errorf("recent orders for %s: %w", customerID, err)
	}
	subs, err := s.subs.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("subscriptions for %s: %w", customerID, err)
	}

	var lastContact *domain.ContactEvent
	events, err := s.contacts.FindByCustomer(ctx, customerID, 1)
	if err != nil {
		s.log.Warn("contact history unavailable", zap.String("customer_id", customerID), zap.Error(err))
	} else if len(events) > 0 {
		lastContact = &events[0]
	}

	agg := s.annotateRow(*row, s.now())
	agg.Upsell = s.estimator.Recommend(orders)

	return &ports.ClientDetail{
		Customer:      agg,
		RecentOrders:  orders,
		Subscriptions: subs,
		LastContact:   lastContact,
		Upsell:        agg.Upsell,
	}, nil
}

// MarkContacted appends an outreach event for the customer. The log is
// append-only: repeating the call records a second event, it never rewrites
// the first.
func (s *Service) MarkContacted(ctx context.Context, customerID string, contactType domain.ContactType, notes, actor string) (*domain.ContactEvent, error) {
	if actor == "" {
		return nil, domain.Validationf("contact event requires an actor")
	}
	switch contactType {
	case domain.ContactTypeCall, domain.ContactTypeEmail, domain.ContactTypeMeeting, domain.ContactTypeNote:
	case "":
		contactType = domain.ContactTypeNote
	default:
		return nil, domain.Validationf("unknown contact type %q", contactType)
	}

	exists, err := s.customers.Exists(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("check customer %s: %w", customerID, err)
	}
	if !exists {
		return nil, domain.NotFoundf("customer %s", customerID)
	}

	event := &domain.ContactEvent{
		ID:          uuid.New().String(),
		CustomerID:  customerID,
		ContactedAt: s.now(),
		ContactedBy: actor,
		ContactType: contactType,
		Notes:       notes,
	}
	if err := s.contacts.Append(ctx, event); err != nil {
		return nil, fmt.Errorf("append contact event: %w", err)
	}
	telemetry.ContactEventsTotal.Inc()

	s.log.Info("customer contacted",
		zap.String("customer_id", customerID),
		zap.String("contact_type", string(contactType)),
		zap.String("actor", actor))
	return event, nil
}

// ContactHistory returns the customer's outreach log, most recent first.
func (s *Service) ContactHistory(ctx context.Context, customerID string, limit int) ([]domain.ContactEvent, error) {
	exists, err := s.customers.Exists(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("check customer %s: %w", customerID, err)
	}
	if !exists {
		return nil, domain.NotFoundf("customer %s", customerID)
	}
	if limit <= 0 || limit > maxLimit {
		limit = defaultLimit
	}
	return s.contacts.FindByCustomer(ctx, customerID, limit)
}

// annotate classifies and scores each aggregation row.
func (s *Service) annotate(rows []ports.AggregateRow) []domain.CustomerAggregate {
	now := s.now()
	out := make([]domain.CustomerAggregate, 0, len(rows))
	for _, row := range rows {
		out = append(out, s.annotateRow(row, now))
	}
	telemetry.ClientsScoredTotal.Add(float64(len(rows)))
	return out
}

func (s *Service) annotateRow(row ports.AggregateRow, now time.Time) domain.CustomerAggregate {
	status := s.classifier.Classify(row.NextRenewalDate, row.LastOrderDate, now)
	daysUntil := scoring.DaysUntil(row.NextRenewalDate, now)
	score, level := s.scorer.Score(scoring.ScoreInput{
		LifetimeValue:    row.LifetimeValue,
		RenewalStatus:    status,
		DaysUntilRenewal: daysUntil,
		CustomerGroup:    row.CustomerGroup,
		TotalOrders:      row.TotalOrders,
	})

	return domain.CustomerAggregate{
		CustomerID:    row.CustomerID,
		CustomerName:  row.CustomerName,
		Email:         row.Email,
		Phone:         row.Phone,
		CustomerGroup: row.CustomerGroup,
		Territory:     row.Territory,
		CustomerSince: row.CustomerSince,

		LastOrderDate:     row.LastOrderDate,
		LifetimeValue:     row.LifetimeValue,
		TotalOrders:       row.TotalOrders,
		ProductsPurchased: row.ProductsPurchased,
		NextRenewalDate:   row.NextRenewalDate,
		CurrentSeats:      row.CurrentSeats,

		RenewalStatus:      status,
		DaysUntilRenewal:   daysUntil,
		DaysSinceLastOrder: scoring.DaysSince(row.LastOrderDate, now),
		PriorityScore:      score,
		PriorityLevel:      level,
		UpsellPotential:    s.estimator.QuickPotential(row.LifetimeValue, row.TotalOrders),
		Upsell:             s.estimator.RecommendFromAggregate(row.ProductsPurchased, row.CurrentSeats, row.PrivateTierOrders),
	}
}

// countAtRisk combines customers with no order inside the window and
// customers carrying a past-due subscription.
func (s *Service) countAtRisk(ctx context.Context, now time.Time) (int, error) {
	cutoff := now.AddDate(0, 0, -s.params.AtRiskWindowDays)
	inactive, err := s.customers.CountInactiveSince(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("count inactive customers: %w", err)
	}
	pastDue, err := s.subs.CountPastDueCustomers(ctx)
	if err != nil {
		return 0, fmt.Errorf("count past-due customers: %w", err)
	}
	return inactive + pastDue, nil
}

// trailingRenewalRate is renewal orders over ordering customers across the
// trailing year, as a percentage.
func (s *Service) trailingRenewalRate(ctx context.Context, now time.Time) (float64, error) {
	yearAgo := now.AddDate(-1, 0, 0)
	renewals, err := s.orders.CountBetween(ctx, yearAgo, now, true)
	if err != nil {
		return 0, fmt.Errorf("count renewal orders: %w", err)
	}
	ordering, err := s.orders.CountOrderingCustomers(ctx, yearAgo)
	if err != nil {
		return 0, fmt.Errorf("count ordering customers: %w", err)
	}
	if ordering == 0 {
		return 0, nil
	}
	return round1(float64(renewals) / float64(ordering) * 100), nil
}

// buildComparisons computes month-over-month deltas for the comparable KPIs.
// Rate KPIs compare in percentage points, count and revenue KPIs in percent.
func (s *Service) buildComparisons(ctx context.Context, now time.Time, cur *domain.DashboardSummary) (map[string]domain.Comparison, error) {
	curStart := startOfMonth(now)
	prevStart := curStart.AddDate(0, -1, 0)

	curCustomers, err := s.customers.CountCreatedBetween(ctx, curStart, now)
	if err != nil {
		return nil, fmt.Errorf("customers this month: %w", err)
	}
	prevCustomers, err := s.customers.CountCreatedBetween(ctx, prevStart, curStart)
	if err != nil {
		return nil, fmt.Errorf("customers last month: %w", err)
	}

	curRevenue, err := s.orders.RenewalRevenueBetween(ctx, curStart, now)
	if err != nil {
		return nil, fmt.Errorf("renewal revenue this month: %w", err)
	}
	prevRevenue, err := s.orders.RenewalRevenueBetween(ctx, prevStart, curStart)
	if err != nil {
		return nil, fmt.Errorf("renewal revenue last month: %w", err)
	}

	curRate, err := s.monthRenewalRate(ctx, curStart, now)
	if err != nil {
		return nil, err
	}
	prevRate, err := s.monthRenewalRate(ctx, prevStart, curStart)
	if err != nil {
		return nil, err
	}

	prevRenewals, err := s.orders.CountBetween(ctx, prevStart, curStart, true)
	if err != nil {
		return nil, fmt.Errorf("renewals last month: %w", err)
	}

	return map[string]domain.Comparison{
		"total_customers":           percentChange(float64(curCustomers), float64(prevCustomers)),
		"revenue_up_for_renewal":    percentChange(curRevenue, prevRevenue),
		"renewal_rate":              pointChange(curRate, prevRate),
		"total_renewals_this_month": percentChange(float64(cur.RenewalsThisMonth), float64(prevRenewals)),
		// No historical snapshot of at-risk exists; the log is append-only
		// and scores are recomputed per read.
		"clients_at_risk": neutralComparison(),
	}, nil
}

func (s *Service) monthRenewalRate(ctx context.Context, start, end time.Time) (float64, error) {
	renewals, err := s.orders.CountBetween(ctx, start, end, true)
	if err != nil {
		return 0, fmt.Errorf("count renewals: %w", err)
	}
	total, err := s.orders.CountBetween(ctx, start, end, false)
	if err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	if total == 0 {
		return 0, nil
	}
	return float64(renewals) / float64(total) * 100, nil
}

func (s *Service) cachedSummary(ctx context.Context) *domain.DashboardSummary {
	if s.cache == nil || s.params.DashboardTTL <= 0 {
		return nil
	}
	raw, err := s.cache.Get(ctx, summaryCacheKey)
	if err != nil || raw == "" {
		telemetry.CacheLookupsTotal.WithLabelValues("dashboard", "miss").Inc()
		return nil
	}
	var summary domain.DashboardSummary
	if err := json.Unmarshal([]byte(raw), &summary); err != nil {
		s.log.Warn("discarding unreadable cached summary", zap.Error(err))
		telemetry.CacheLookupsTotal.WithLabelValues("dashboard", "miss").Inc()
		return nil
	}
	telemetry.CacheLookupsTotal.WithLabelValues("dashboard", "hit").Inc()
	return &summary
}

func (s *Service) storeSummary(ctx context.Context, summary *domain.DashboardSummary) {
	if s.cache == nil || s.params.DashboardTTL <= 0 {
		return
	}
	raw, err := json.Marshal(summary)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, summaryCacheKey, string(raw), s.params.DashboardTTL); err != nil {
		s.log.Warn("failed to cache dashboard summary", zap.Error(err))
	}
}

func clampListParams(p ports.ListClientsParams) ports.ListClientsParams {
	page := clampPage(p.Limit, p.Offset)
	p.Limit, p.Offset = page.Limit, page.Offset
	switch {
	case p.DaysRange <= 0:
		p.DaysRange = defaultDaysRange
	case p.DaysRange > maxDaysRange:
		p.DaysRange = maxDaysRange
	}
	return p
}

func clampPage(limit, offset int) ports.ListPage {
	switch {
	case limit <= 0:
		limit = defaultLimit
	case limit > maxLimit:
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return ports.ListPage{Limit: limit, Offset: offset}
}

func filterByStatus(aggs []domain.CustomerAggregate, status domain.RenewalStatus) []domain.CustomerAggregate {
	out := aggs[:0]
	for _, a := range aggs {
		if a.RenewalStatus == status {
			out = append(out, a)
		}
	}
	return out
}

// sortByPriority orders at-risk customers first, then by score descending,
// then by nearest renewal. The sort is stable so equal customers keep their
// store order across identical reads.
func sortByPriority(aggs []domain.CustomerAggregate) {
	sort.SliceStable(aggs, func(i, j int) bool {
		ri, rj := atRiskRank(aggs[i].RenewalStatus), atRiskRank(aggs[j].RenewalStatus)
		if ri != rj {
			return ri < rj
		}
		if aggs[i].PriorityScore != aggs[j].PriorityScore {
			return aggs[i].PriorityScore > aggs[j].PriorityScore
		}
		return renewalSortDays(aggs[i].DaysUntilRenewal) < renewalSortDays(aggs[j].DaysUntilRenewal)
	})
}

func atRiskRank(s domain.RenewalStatus) int {
	if s == domain.RenewalStatusOverdue || s == domain.RenewalStatusDueSoon {
		return 0
	}
	return 1
}

func renewalSortDays(d *int) int {
	if d == nil {
		return noRenewalSortDays
	}
	return *d
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
