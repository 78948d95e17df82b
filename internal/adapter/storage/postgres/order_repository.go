package postgres

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/seu-repo/retention-center/internal/domain"
	"github.com/seu-repo/retention-center/internal/ports"
)

// Order type groups used in FILTER clauses. Everything else ("Subscription
// Fee" and the like) counts toward totals but toward neither side.
const (
	renewalTypes = `('Renewal', 'Extension Private', 'Extension Business')`
	newTypes     = `('New Order Private', 'New Order Business')`
)

type OrderRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewOrderRepository(db *gorm.DB, log *zap.Logger) ports.OrderRepository {
	return &OrderRepository{
		db:  db,
		log: log,
	}
}

func (r *OrderRepository) FindRecentByCustomer(ctx context.Context, customerID string, limit int) ([]domain.Order, error) {
	var orders []domain.Order
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND status <> 'Cancelled'", customerID).
		Order("transaction_date DESC").
		Limit(limit).
		Find(&orders).Error
	return orders, err
}

// MonthlyBuckets groups submitted orders by calendar month in one query.
// Months without orders produce no bucket; the caller fills the gaps.
func (r *OrderRepository) MonthlyBuckets(ctx context.Context, start, end time.Time) ([]ports.MonthlyOrderBucket, error) {
	var buckets []ports.MonthlyOrderBucket
	err := r.db.WithContext(ctx).Raw(`
SELECT
    DATE_TRUNC('month', transaction_date)                                          AS month,
    COUNT(*) FILTER (WHERE order_type IN `+renewalTypes+`)                         AS renewal_count,
    COUNT(*) FILTER (WHERE order_type IN `+newTypes+`)                             AS new_count,
    COUNT(*)                                                                       AS total_orders,
    COALESCE(SUM(grand_total) FILTER (WHERE order_type IN `+renewalTypes+`), 0)    AS renewal_revenue,
    COALESCE(SUM(grand_total) FILTER (WHERE order_type IN `+newTypes+`), 0)        AS new_revenue,
    COALESCE(SUM(grand_total), 0)                                                  AS total_revenue
FROM orders
WHERE status <> 'Cancelled'
  AND transaction_date >= ? AND transaction_date < ?
GROUP BY 1
ORDER BY 1`, start, end).Scan(&buckets).Error
	return buckets, err
}

func (r *OrderRepository) RenewalRevenueBetween(ctx context.Context, start, end time.Time) (float64, error) {
	var revenue float64
	err := r.db.WithContext(ctx).Raw(`
SELECT COALESCE(SUM(grand_total), 0)
FROM orders
WHERE status <> 'Cancelled'
  AND order_type IN `+renewalTypes+`
  AND transaction_date >= ? AND transaction_date < ?`, start, end).Scan(&revenue).Error
	return revenue, err
}

func (r *OrderRepository) CountBetween(ctx context.Context, start, end time.Time, renewalsOnly bool) (int, error) {
	q := r.db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("status <> 'Cancelled' AND transaction_date >= ? AND transaction_date < ?", start, end)
	if renewalsOnly {
		q = q.Where("order_type IN " + renewalTypes)
	}
	var count int64
	err := q.Count(&count).Error
	return int(count), err
}

// AverageLifetimeValue averages the per-customer order totals, not the
// per-order totals.
func (r *OrderRepository) AverageLifetimeValue(ctx context.Context) (float64, error) {
	var avg float64
	err := r.db.WithContext(ctx).Raw(`
SELECT COALESCE(AVG(lifetime_value), 0)
FROM (
    SELECT SUM(grand_total) AS lifetime_value
    FROM orders
    WHERE status <> 'Cancelled'
    GROUP BY customer_id
) totals`).Scan(&avg).Error
	return avg, err
}

// TotalSeatGap sums the seat shortfall of customers sitting below the fleet
// average seat count. Customers with no seated orders stay out of both the
// average and the gap.
func (r *OrderRepository) TotalSeatGap(ctx context.Context) (float64, error) {
	var gap float64
	err := r.db.WithContext(ctx).Raw(`
WITH seats AS (
    SELECT customer_id, MAX(seats) AS current_seats
    FROM orders
    WHERE status <> 'Cancelled' AND seats > 0
    GROUP BY customer_id
),
fleet AS (
    SELECT AVG(current_seats) AS avg_seats FROM seats
)
SELECT COALESCE(SUM(fleet.avg_seats - seats.current_seats), 0)
FROM seats, fleet
WHERE seats.current_seats < fleet.avg_seats`).Scan(&gap).Error
	return gap, err
}

func (r *OrderRepository) CountOrderingCustomers(ctx context.Context, since time.Time) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("status <> 'Cancelled' AND transaction_date >= ?", since).
		Distinct("customer_id").
		Count(&count).Error
	return int(count), err
}

// ProductStats groups submitted orders by product in one query. Retention
// rates are derived by the caller from the counts.
func (r *OrderRepository) ProductStats(ctx context.Context) ([]domain.ProductRetention, error) {
	var stats []domain.ProductRetention
	err := r.db.WithContext(ctx).Raw(`
SELECT
    product,
    COUNT(DISTINCT customer_id)                             AS unique_customers,
    COUNT(*)                                                AS total_orders,
    COALESCE(SUM(grand_total), 0)                           AS total_revenue,
    COUNT(*) FILTER (WHERE order_type IN `+renewalTypes+`)  AS renewal_orders,
    COUNT(*) FILTER (WHERE order_type IN `+newTypes+`)      AS new_orders,
    COALESCE(AVG(seats) FILTER (WHERE seats > 0), 0)        AS avg_seats
FROM orders
WHERE status <> 'Cancelled' AND product <> ''
GROUP BY product`).Scan(&stats).Error
	return stats, err
}

func (r *OrderRepository) Save(ctx context.Context, order *domain.Order) error {
	return r.db.WithContext(ctx).Save(order).Error
}
