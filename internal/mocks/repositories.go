package mocks

import (
	"context"
	"time"

	"github.com/seu-repo/retention-center/internal/domain"
	"github.com/seu-repo/retention-center/internal/ports"
)

// MockCustomerRepository is a mock implementation of CustomerRepository
type MockCustomerRepository struct {
	ListAggregatesFunc      func(ctx context.Context, page ports.ListPage) ([]ports.AggregateRow, error)
	FindAggregateFunc       func(ctx context.Context, customerID string) (*ports.AggregateRow, error)
	SearchFunc              func(ctx context.Context, query string, page ports.ListPage) ([]ports.AggregateRow, int, error)
	CountActiveFunc         func(ctx context.Context) (int, error)
	CountCreatedBetweenFunc func(ctx context.Context, start, end time.Time) (int, error)
	CountInactiveSinceFunc  func(ctx context.Context, cutoff time.Time) (int, error)
	ExistsFunc              func(ctx context.Context, customerID string) (bool, error)
	SaveFunc                func(ctx context.Context, customer *domain.Customer) error
}

func (m *MockCustomerRepository) ListAggregates(ctx context.Context, page ports.ListPage) ([]ports.AggregateRow, error) {
	if m.ListAggregatesFunc != nil {
		return m.ListAggregatesFunc(ctx, page)
	}
	return nil, nil
}

func (m *MockCustomerRepository) FindAggregate(ctx context.Context, customerID string) (*ports.AggregateRow, error) {
	if m.FindAggregateFunc != nil {
		return m.FindAggregateFunc(ctx, customerID)
	}
	return nil, nil
}

func (m *MockCustomerRepository) Search(ctx context.Context, query string, page ports.ListPage) ([]ports.AggregateRow, int, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query, page)
	}
	return nil, 0, nil
}

func (m *MockCustomerRepository) CountActive(ctx context.Context) (int, error) {
	if m.CountActiveFunc != nil {
		return m.CountActiveFunc(ctx)
	}
	return 0, nil
}

func (m *MockCustomerRepository) CountCreatedBetween(ctx context.Context, start, end time.Time) (int, error) {
	if m.CountCreatedBetweenFunc != nil {
		return m.CountCreatedBetweenFunc(ctx, start, end)
	}
	return 0, nil
}

func (m *MockCustomerRepository) CountInactiveSince(ctx context.Context, cutoff time.Time) (int, error) {
	if m.CountInactiveSinceFunc != nil {
		return m.CountInactiveSinceFunc(ctx, cutoff)
	}
	return 0, nil
}

func (m *MockCustomerRepository) Exists(ctx context.Context, customerID string) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, customerID)
	}
	return false, nil
}

func (m *MockCustomerRepository) Save(ctx context.Context, customer *domain.Customer) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, customer)
	}
	return nil
}

// MockOrderRepository is a mock implementation of OrderRepository
type MockOrderRepository struct {
	FindRecentByCustomerFunc   func(ctx context.Context, customerID string, limit int) ([]domain.Order, error)
	MonthlyBucketsFunc         func(ctx context.Context, start, end time.Time) ([]ports.MonthlyOrderBucket, error)
	RenewalRevenueBetweenFunc  func(ctx context.Context, start, end time.Time) (float64, error)
	CountBetweenFunc           func(ctx context.Context, start, end time.Time, renewalsOnly bool) (int, error)
	AverageLifetimeValueFunc   func(ctx context.Context) (float64, error)
	TotalSeatGapFunc           func(ctx context.Context) (float64, error)
	CountOrderingCustomersFunc func(ctx context.Context, since time.Time) (int, error)
	ProductStatsFunc           func(ctx context.Context) ([]domain.ProductRetention, error)
	SaveFunc                   func(ctx context.Context, order *domain.Order) error
}

func (m *MockOrderRepository) FindRecentByCustomer(ctx context.Context, customerID string, limit int) ([]domain.Order, error) {
	if m.FindRecentByCustomerFunc != nil {
		return m.FindRecentByCustomerFunc(ctx, customerID, limit)
	}
	return nil, nil
}

func (m *MockOrderRepository) MonthlyBuckets(ctx context.Context, start, end time.Time) ([]ports.MonthlyOrderBucket, error) {
	if m.MonthlyBucketsFunc != nil {
		return m.MonthlyBucketsFunc(ctx, start, end)
	}
	return nil, nil
}

func (m *MockOrderRepository) RenewalRevenueBetween(ctx context.Context, start, end time.Time) (float64, error) {
	if m.RenewalRevenueBetweenFunc != nil {
		return m.RenewalRevenueBetweenFunc(ctx, start, end)
	}
	return 0, nil
}

func (m *MockOrderRepository) CountBetween(ctx context.Context, start, end time.Time, renewalsOnly bool) (int, error) {
	if m.CountBetweenFunc != nil {
		return m.CountBetweenFunc(ctx, start, end, renewalsOnly)
	}
	return 0, nil
}

func (m *MockOrderRepository) AverageLifetimeValue(ctx context.Context) (float64, error) {
	if m.AverageLifetimeValueFunc != nil {
		return m.AverageLifetimeValueFunc(ctx)
	}
	return 0, nil
}

func (m *MockOrderRepository) TotalSeatGap(ctx context.Context) (float64, error) {
	if m.TotalSeatGapFunc != nil {
		return m.TotalSeatGapFunc(ctx)
	}
	return 0, nil
}

func (m *MockOrderRepository) CountOrderingCustomers(ctx context.Context, since time.Time) (int, error) {
	if m.CountOrderingCustomersFunc != nil {
		return m.CountOrderingCustomersFunc(ctx, since)
	}
	return 0, nil
}

func (m *MockOrderRepository) ProductStats(ctx context.Context) ([]domain.ProductRetention, error) {
	if m.ProductStatsFunc != nil {
		return m.ProductStatsFunc(ctx)
	}
	return nil, nil
}

func (m *MockOrderRepository) Save(ctx context.Context, order *domain.Order) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, order)
	}
	return nil
}

// MockSubscriptionRepository is a mock implementation of SubscriptionRepository
type MockSubscriptionRepository struct {
	FindByCustomerFunc         func(ctx context.Context, customerID string) ([]domain.Subscription, error)
	FindRenewalsBetweenFunc    func(ctx context.Context, start, end time.Time) ([]domain.CalendarRenewal, error)
	UpcomingRenewalRevenueFunc func(ctx context.Context, from time.Time, days int) (float64, error)
	CountPastDueCustomersFunc  func(ctx context.Context) (int, error)
	SaveFunc                   func(ctx context.Context, sub *domain.Subscription) error
}

func (m *MockSubscriptionRepository) FindByCustomer(ctx context.Context, customerID string) ([]domain.Subscription, error) {
	if m.FindByCustomerFunc != nil {
		return m.FindByCustomerFunc(ctx, customerID)
	}
	return nil, nil
}

func (m *MockSubscriptionRepository) FindRenewalsBetween(ctx context.Context, start, end time.Time) ([]domain.CalendarRenewal, error) {
	if m.FindRenewalsBetweenFunc != nil {
		return m.FindRenewalsBetweenFunc(ctx, start, end)
	}
	return nil, nil
}

func (m *MockSubscriptionRepository) UpcomingRenewalRevenue(ctx context.Context, from time.Time, days int) (float64, error) {
	if m.UpcomingRenewalRevenueFunc != nil {
		return m.UpcomingRenewalRevenueFunc(ctx, from, days)
	}
	return 0, nil
}

func (m *MockSubscriptionRepository) CountPastDueCustomers(ctx context.Context) (int, error) {
	if m.CountPastDueCustomersFunc != nil {
		return m.CountPastDueCustomersFunc(ctx)
	}
	return 0, nil
}

func (m *MockSubscriptionRepository) Save(ctx context.Context, sub *domain.Subscription) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, sub)
	}
	return nil
}

// MockContactEventRepository is a mock implementation of ContactEventRepository
type MockContactEventRepository struct {
	Appended []domain.ContactEvent

	AppendFunc         func(ctx context.Context, event *domain.ContactEvent) error
	FindByCustomerFunc func(ctx context.Context, customerID string, limit int) ([]domain.ContactEvent, error)
}

func (m *MockContactEventRepository) Append(ctx context.Context, event *domain.ContactEvent) error {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, event)
	}
	m.Appended = append(m.Appended, *event)
	return nil
}

func (m *MockContactEventRepository) FindByCustomer(ctx context.Context, customerID string, limit int) ([]domain.ContactEvent, error) {
	if m.FindByCustomerFunc != nil {
		return m.FindByCustomerFunc(ctx, customerID, limit)
	}
	return nil, nil
}

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	SaveFunc        func(ctx context.Context, user *domain.User) error
	FindByIDFunc    func(ctx context.Context, id string) (*domain.User, error)
	FindByEmailFunc func(ctx context.Context, email string) (*domain.User, error)
}

func (m *MockUserRepository) Save(ctx context.Context, user *domain.User) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, user)
	}
	return nil
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return nil, nil
}
