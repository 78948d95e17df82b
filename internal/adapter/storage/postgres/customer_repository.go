package postgres

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/seu-repo/retention-center/internal/domain"
	"github.com/seu-repo/retention-center/internal/observability/telemetry"
	"github.com/seu-repo/retention-center/internal/ports"
)

type CustomerRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewCustomerRepository(db *gorm.DB, log *zap.Logger) ports.CustomerRepository {
	return &CustomerRepository{
		db:  db,
		log: log,
	}
}

// aggregateSelect joins each customer against its pre-grouped order and
// subscription facts. The derived tables group once over the whole set, so
// a page of any size costs exactly one round trip. Cancelled orders and
// non-renewable subscriptions never enter the aggregates.
const aggregateSelect = `
SELECT
    c.id                                  AS customer_id,
    c.customer_name,
    c.email,
    c.phone,
    c.customer_group,
    c.territory,
    c.created_at                          AS customer_since,
    o.last_order_date,
    COALESCE(o.lifetime_value, 0)         AS lifetime_value,
    COALESCE(o.total_orders, 0)           AS total_orders,
    COALESCE(o.products, '')              AS products,
    COALESCE(o.current_seats, 0)          AS current_seats,
    COALESCE(o.private_tier_orders, 0)    AS private_tier_orders,
    s.next_renewal_date
FROM customers c
LEFT JOIN (
    SELECT
        customer_id,
        MAX(transaction_date)                 AS last_order_date,
        SUM(grand_total)                      AS lifetime_value,
        COUNT(*)                              AS total_orders,
        STRING_AGG(DISTINCT product, ',')     AS products,
        MAX(seats)                            AS current_seats,
        COUNT(*) FILTER (WHERE order_type IN ('New Order Private', 'Extension Private')) AS private_tier_orders
    FROM orders
    WHERE status <> 'Cancelled'
    GROUP BY customer_id
) o ON o.customer_id = c.id
LEFT JOIN (
    SELECT customer_id, MIN(end_date) AS next_renewal_date
    FROM subscriptions
    WHERE status IN ('Active', 'Past Due Date', 'Unpaid')
    GROUP BY customer_id
) s ON s.customer_id = c.id
WHERE c.disabled = false`

// aggregateScan receives one row of aggregateSelect. Dates from the derived
// tables stay nullable; everything else is coalesced in SQL.
type aggregateScan struct {
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
	Products          string
	CurrentSeats      int
	PrivateTierOrders int
	NextRenewalDate   *time.Time
	TotalCount        int
}

func (s aggregateScan) toRow() ports.AggregateRow {
	return ports.AggregateRow{
		CustomerID:        s.CustomerID,
		CustomerName:      s.CustomerName,
		Email:             s.Email,
		Phone:             s.Phone,
		CustomerGroup:     s.CustomerGroup,
		Territory:         s.Territory,
		CustomerSince:     s.CustomerSince,
		LastOrderDate:     s.LastOrderDate,
		LifetimeValue:     s.LifetimeValue,
		TotalOrders:       s.TotalOrders,
		ProductsPurchased: splitProducts(s.Products),
		NextRenewalDate:   s.NextRenewalDate,
		CurrentSeats:      s.CurrentSeats,
		PrivateTierOrders: s.PrivateTierOrders,
	}
}

func splitProducts(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func (r *CustomerRepository) ListAggregates(ctx context.Context, page ports.ListPage) ([]ports.AggregateRow, error) {
	start := time.Now()
	var scans []aggregateScan
	err := r.db.WithContext(ctx).
		Raw(aggregateSelect+` ORDER BY c.customer_name, c.id LIMIT ? OFFSET ?`, page.Limit, page.Offset).
		Scan(&scans).Error
	telemetry.AggregationLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	rows := make([]ports.AggregateRow, 0, len(scans))
	for _, s := range scans {
		rows = append(rows, s.toRow())
	}
	return rows, nil
}

func (r *CustomerRepository) FindAggregate(ctx context.Context, customerID string) (*ports.AggregateRow, error) {
	var scans []aggregateScan
	err := r.db.WithContext(ctx).
		Raw(aggregateSelect+` AND c.id = ?`, customerID).
		Scan(&scans).Error
	if err != nil {
		return nil, err
	}
	if len(scans) == 0 {
		return nil, nil
	}
	row := scans[0].toRow()
	return &row, nil
}

// Search matches name, email or ID, case-insensitively. The window count
// rides along on each row so the total needs no second query.
func (r *CustomerRepository) Search(ctx context.Context, query string, page ports.ListPage) ([]ports.AggregateRow, int, error) {
	pattern := "%" + query + "%"
	var scans []aggregateScan
	err := r.db.WithContext(ctx).
		Raw(`SELECT *, COUNT(*) OVER () AS total_count FROM (`+aggregateSelect+`
    AND (c.customer_name ILIKE @q OR c.email ILIKE @q OR c.id ILIKE @q)
) matches ORDER BY customer_name, customer_id LIMIT @limit OFFSET @offset`,
			map[string]interface{}{"q": pattern, "limit": page.Limit, "offset": page.Offset}).
		Scan(&scans).Error
	if err != nil {
		return nil, 0, err
	}

	rows := make([]ports.AggregateRow, 0, len(scans))
	total := 0
	for _, s := range scans {
		rows = append(rows, s.toRow())
		total = s.TotalCount
	}
	if len(scans) == 0 {
		// Page past the end: recount so HasMore still computes.
		err = r.db.WithContext(ctx).
			Model(&domain.Customer{}).
			Where("disabled = false").
			Where("customer_name ILIKE ? OR email ILIKE ? OR id ILIKE ?", pattern, pattern, pattern).
			Select("COUNT(*)").
			Scan(&total).Error
		if err != nil {
			return nil, 0, err
		}
	}
	return rows, total, nil
}

func (r *CustomerRepository) CountActive(ctx context.Context) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Customer{}).
		Where("disabled = false").
		Count(&count).Error
	return int(count), err
}

func (r *CustomerRepository) CountCreatedBetween(ctx context.Context, start, end time.Time) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Customer{}).
		Where("disabled = false AND created_at >= ? AND created_at < ?", start, end).
		Count(&count).Error
	return int(count), err
}

// CountInactiveSince counts enabled customers whose most recent submitted
// order predates the cutoff. Customers with no order history at all are not
// counted; an account that never bought anything has nothing lapsing.
func (r *CustomerRepository) CountInactiveSince(ctx context.Context, cutoff time.Time) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Customer{}).
		Where("disabled = false").
		Where(`EXISTS (
    SELECT 1 FROM orders o
    WHERE o.customer_id = customers.id
      AND o.status <> 'Cancelled'
)`).
		Where(`NOT EXISTS (
    SELECT 1 FROM orders o
    WHERE o.customer_id = customers.id
      AND o.status <> 'Cancelled'
      AND o.transaction_date >= ?
)`, cutoff).
		Count(&count).Error
	return int(count), err
}

func (r *CustomerRepository) Exists(ctx context.Context, customerID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Customer{}).
		Where("id = ?", customerID).
		Count(&count).Error
	return count > 0, err
}

func (r *CustomerRepository) Save(ctx context.Context, customer *domain.Customer) error {
	return r.db.WithContext(ctx).Save(customer).Error
}
