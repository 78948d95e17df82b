package ports

import (
	"context"
	"time"

	"github.com/seu-repo/retention-center/internal/domain"
)

// AggregateRow is one row of the set-based customer aggregation query: the
// stored customer columns plus the pre-aggregated order and subscription
// facts, before any classification or scoring is applied. Aggregates for
// customers with no child rows come back as zero values, never NULLs.
type AggregateRow struct {
	CustomerID        string
	CustomerName      string
	Email             string
	Phone             string
	CustomerGroup     string
	Territory         string
	CustomerSince     time.Time
	LastOrderDate     *time.Time
	LifetimeValue     float64
	TotalOrders       int
	ProductsPurchased []string
	NextRenewalDate   *time.Time
	CurrentSeats      int
	PrivateTierOrders int
}

// ListPage is a clamped pagination window.
type ListPage struct {
	Limit  int
	Offset int
}

// CustomerRepository reads customer records with their aggregates pushed down
// into the store. Implementations must issue one round trip per call;
// per-customer follow-up lookups are what this interface exists to forbid.
type CustomerRepository interface {
	ListAggregates(ctx context.Context, page ListPage) ([]AggregateRow, error)
	FindAggregate(ctx context.Context, customerID string) (*AggregateRow, error)
	Search(ctx context.Context, query string, page ListPage) ([]AggregateRow, int, error)
	CountActive(ctx context.Context) (int, error)
	CountCreatedBetween(ctx context.Context, start, end time.Time) (int, error)
	CountInactiveSince(ctx context.Context, cutoff time.Time) (int, error)
	Exists(ctx context.Context, customerID string) (bool, error)
	Save(ctx context.Context, customer *domain.Customer) error
}

// MonthlyOrderBucket is one month of order activity, grouped in the store.
type MonthlyOrderBucket struct {
	Month          time.Time
	RenewalCount   int
	NewCount       int
	TotalOrders    int
	RenewalRevenue float64
	NewRevenue     float64
	TotalRevenue   float64
}

type OrderRepository interface {
	FindRecentByCustomer(ctx context.Context, customerID string, limit int) ([]domain.Order, error)
	// MonthlyBuckets groups submitted orders by calendar month across the
	// window in a single query.
	MonthlyBuckets(ctx context.Context, start, end time.Time) ([]MonthlyOrderBucket, error)
	RenewalRevenueBetween(ctx context.Context, start, end time.Time) (float64, error)
	CountBetween(ctx context.Context, start, end time.Time, renewalsOnly bool) (int, error)
	AverageLifetimeValue(ctx context.Context) (float64, error)
	// TotalSeatGap sums, across customers whose licensed seats sit below
	// the fleet average, the number of seats separating them from it.
	TotalSeatGap(ctx context.Context) (float64, error)
	CountOrderingCustomers(ctx context.Context, since time.Time) (int, error)
	ProductStats(ctx context.Context) ([]domain.ProductRetention, error)
	Save(ctx context.Context, order *domain.Order) error
}

type SubscriptionRepository interface {
	FindByCustomer(ctx context.Context, customerID string) ([]domain.Subscription, error)
	// FindRenewalsBetween returns renewable subscriptions ending inside the
	// range, each annotated with the customer name and the trailing-year
	// order value, joined in a single query.
	FindRenewalsBetween(ctx context.Context, start, end time.Time) ([]domain.CalendarRenewal, error)
	UpcomingRenewalRevenue(ctx context.Context, from time.Time, days int) (float64, error)
	CountPastDueCustomers(ctx context.Context) (int, error)
	Save(ctx context.Context, sub *domain.Subscription) error
}

type ContactEventRepository interface {
	Append(ctx context.Context, event *domain.ContactEvent) error
	// FindByCustomer returns events most recent first.
	FindByCustomer(ctx context.Context, customerID string, limit int) ([]domain.ContactEvent, error)
}

type UserRepository interface {
	Save(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}
