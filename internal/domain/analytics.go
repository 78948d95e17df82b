package domain

import (
	"time"
)

// TrendPoint is one calendar month of order activity inside a requested
// trend window, split into renewal and new business.
type TrendPoint struct {
	Month          time.Time `json:"month"`
	Label          string    `json:"label"`       // "Jan 2026"
	ShortLabel     string    `json:"short_label"` // "Jan"
	RenewalCount   int       `json:"renewal_count"`
	NewCount       int       `json:"new_count"`
	TotalOrders    int       `json:"total_orders"`
	RenewalRevenue float64   `json:"renewal_revenue"`
	NewRevenue     float64   `json:"new_revenue"`
	TotalRevenue   float64   `json:"total_revenue"`
	RenewalRate    float64   `json:"renewal_rate"` // percent, 0 when no orders
}

type RiskLevel string

const (
	RiskHigh   RiskLevel = "high"
	RiskMedium RiskLevel = "medium"
	RiskLow    RiskLevel = "low"
)

// CalendarRenewal is one upcoming subscription renewal on the calendar,
// annotated with the customer's trailing-year value.
type CalendarRenewal struct {
	SubscriptionID string    `json:"subscription_id"`
	CustomerID     string    `json:"customer_id"`
	CustomerName   string    `json:"customer_name"`
	RenewalDate    time.Time `json:"renewal_date"`
	AnnualValue    float64   `json:"annual_value"`
	RiskLevel      RiskLevel `json:"risk_level"`
}

// CalendarDay groups the renewals falling on one calendar day.
type CalendarDay struct {
	Date       time.Time         `json:"date"`
	Renewals   []CalendarRenewal `json:"renewals"`
	TotalValue float64           `json:"total_value"`
	Count      int               `json:"count"`
}

// CalendarMonth is the month-view variant: the grouped days plus the layout
// facts a calendar grid needs and a month-level summary.
type CalendarMonth struct {
	Year            int                    `json:"year"`
	Month           time.Month             `json:"month"`
	MonthName       string                 `json:"month_name"`
	DaysInMonth     int                    `json:"days_in_month"`
	FirstDayWeekday int                    `json:"first_day_weekday"` // 0 = Monday
	Days            map[string]CalendarDay `json:"renewals_by_date"`
	Summary         CalendarSummary        `json:"summary"`
}

type CalendarSummary struct {
	TotalRenewals  int     `json:"total_renewals"`
	TotalValue     float64 `json:"total_value"`
	HighValueCount int     `json:"high_value_count"`
}

type ChangeDirection string

const (
	ChangeUp      ChangeDirection = "up"
	ChangeDown    ChangeDirection = "down"
	ChangeNeutral ChangeDirection = "neutral"
)

// Comparison is a month-over-month delta for one dashboard KPI. Change is the
// absolute magnitude; RawChange keeps the sign.
type Comparison struct {
	Change    float64         `json:"change"`
	RawChange float64         `json:"raw_change"`
	Direction ChangeDirection `json:"direction"`
	Label     string          `json:"label"`
}

// DashboardSummary is the headline KPI block for the retention dashboard.
type DashboardSummary struct {
	TotalCustomers      int                   `json:"total_customers"`
	RevenueUpForRenewal float64               `json:"revenue_up_for_renewal"`
	ClientsAtRisk       int                   `json:"clients_at_risk"`
	PotentialUpsell     float64               `json:"potential_upsell_value"`
	RenewalRate         float64               `json:"renewal_rate"`
	AvgLifetimeValue    float64               `json:"avg_customer_lifetime_value"`
	RenewalsThisMonth   int                   `json:"total_renewals_this_month"`
	Comparisons         map[string]Comparison `json:"comparisons"`
}

// ProductRetention is the per-product slice of the retention analysis.
type ProductRetention struct {
	Product         string  `json:"product"`
	UniqueCustomers int     `json:"unique_customers"`
	TotalOrders     int     `json:"total_orders"`
	TotalRevenue    float64 `json:"total_revenue"`
	RenewalOrders   int     `json:"renewal_orders"`
	NewOrders       int     `json:"new_orders"`
	RetentionRate   float64 `json:"retention_rate"` // percent
	AvgSeats        float64 `json:"avg_seats"`
}
