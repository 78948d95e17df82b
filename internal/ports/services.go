package ports

import (
	"context"
	"time"

	"github.com/seu-repo/retention-center/internal/domain"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (string, string, error) // token, refresh, err
	Register(ctx context.Context, user *domain.User) error
	RefreshToken(ctx context.Context, token string) (string, error)
	ValidateToken(ctx context.Context, token string) (*domain.User, error)
}

// ListClientsParams are the list filters after server-side clamping.
type ListClientsParams struct {
	StatusFilter string
	DaysRange    int
	Limit        int
	Offset       int
}

// SearchResult is a page of customer matches plus the total match count.
type SearchResult struct {
	Customers []domain.CustomerAggregate `json:"customers"`
	Count     int                        `json:"count"`
	HasMore   bool                       `json:"has_more"`
}

// ClientDetail is the full retention picture for one customer.
type ClientDetail struct {
	Customer      domain.CustomerAggregate      `json:"customer"`
	RecentOrders  []domain.Order                `json:"recent_orders"`
	Subscriptions []domain.Subscription         `json:"subscriptions"`
	LastContact   *domain.ContactEvent          `json:"last_contact,omitempty"`
	Upsell        []domain.UpsellRecommendation `json:"upsell_recommendations"`
}

// RetentionService is the scoring and aggregation engine behind the
// dashboard. All reads are pure given the backing data: identical arguments
// against unchanged data yield identical results.
type RetentionService interface {
	DashboardSummary(ctx context.Context) (*domain.DashboardSummary, error)
	ListClients(ctx context.Context, params ListClientsParams) ([]domain.CustomerAggregate, error)
	SearchClients(ctx context.Context, query string, limit, offset int) (*SearchResult, error)
	ClientDetail(ctx context.Context, customerID string) (*ClientDetail, error)
	MarkContacted(ctx context.Context, customerID string, contactType domain.ContactType, notes, actor string) (*domain.ContactEvent, error)
	ContactHistory(ctx context.Context, customerID string, limit int) ([]domain.ContactEvent, error)
}

// AnalyticsService produces the trend and calendar read paths.
type AnalyticsService interface {
	Trend(ctx context.Context, months int) ([]domain.TrendPoint, error)
	Calendar(ctx context.Context, start, end time.Time) ([]domain.CalendarDay, error)
	CalendarMonth(ctx context.Context, year int, month time.Month) (*domain.CalendarMonth, error)
	ProductRetention(ctx context.Context) ([]domain.ProductRetention, error)
}
