package postgres

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/seu-repo/retention-center/internal/domain"
	"github.com/seu-repo/retention-center/internal/ports"
)

const renewableStatuses = `('Active', 'Past Due Date', 'Unpaid')`

type SubscriptionRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewSubscriptionRepository(db *gorm.DB, log *zap.Logger) ports.SubscriptionRepository {
	return &SubscriptionRepository{
		db:  db,
		log: log,
	}
}

func (r *SubscriptionRepository) FindByCustomer(ctx context.Context, customerID string) ([]domain.Subscription, error) {
	var subs []domain.Subscription
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("end_date ASC").
		Find(&subs).Error
	return subs, err
}

// FindRenewalsBetween returns renewable subscriptions ending inside
// [start, end), each carrying the customer name and the customer's order
// value over the year leading up to that renewal. The value window is
// anchored at each subscription's end date, not at the query time, so a
// renewal months out is sized by the business it closes out. Risk levels are
// left for the caller.
func (r *SubscriptionRepository) FindRenewalsBetween(ctx context.Context, start, end time.Time) ([]domain.CalendarRenewal, error) {
	var renewals []domain.CalendarRenewal
	err := r.db.WithContext(ctx).Raw(`
SELECT
    s.id       AS subscription_id,
    s.customer_id,
    c.customer_name,
    s.end_date AS renewal_date,
    COALESCE((
        SELECT SUM(o.grand_total)
        FROM orders o
        WHERE o.customer_id = s.customer_id
          AND o.status <> 'Cancelled'
          AND o.transaction_date >= s.end_date - INTERVAL '1 year'
    ), 0)      AS annual_value
FROM subscriptions s
JOIN customers c ON c.id = s.customer_id
WHERE s.status IN `+renewableStatuses+`
  AND s.end_date >= ? AND s.end_date < ?
ORDER BY s.end_date, s.id`, start, end).Scan(&renewals).Error
	return renewals, err
}

// UpcomingRenewalRevenue sums the trailing-year value of every customer with
// a renewable subscription ending within the window.
func (r *SubscriptionRepository) UpcomingRenewalRevenue(ctx context.Context, from time.Time, days int) (float64, error) {
	var revenue float64
	err := r.db.WithContext(ctx).Raw(`
SELECT COALESCE(SUM(v.annual_value), 0)
FROM (
    SELECT DISTINCT customer_id
    FROM subscriptions
    WHERE status IN `+renewableStatuses+`
      AND end_date >= ? AND end_date < ?
) due
JOIN (
    SELECT customer_id, SUM(grand_total) AS annual_value
    FROM orders
    WHERE status <> 'Cancelled'
      AND transaction_date >= NOW() - INTERVAL '1 year'
    GROUP BY customer_id
) v ON v.customer_id = due.customer_id`, from, from.AddDate(0, 0, days)).Scan(&revenue).Error
	return revenue, err
}

// CountPastDueCustomers counts customers carrying a past-due subscription.
// Unpaid subscriptions still renew on schedule and are not at-risk on their
// own, so they stay out of this count even though they stay renewable.
func (r *SubscriptionRepository) CountPastDueCustomers(ctx context.Context) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Subscription{}).
		Where("status = 'Past Due Date'").
		Distinct("customer_id").
		Count(&count).Error
	return int(count), err
}

func (r *SubscriptionRepository) Save(ctx context.Context, sub *domain.Subscription) error {
	return r.db.WithContext(ctx).Save(sub).Error
}
