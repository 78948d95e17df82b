package domain

import (
	"time"
)

// Customer is the stored customer record. Everything derived from order or
// subscription history lives on CustomerAggregate and is recomputed per read.
type Customer struct {
	ID            string    `json:"customer_id" gorm:"primaryKey;column:id"`
	CustomerName  string    `json:"customer_name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	CustomerGroup string    `json:"customer_group" gorm:"index"`
	Territory     string    `json:"territory"`
	Disabled      bool      `json:"disabled" gorm:"index"`
	CreatedAt     time.Time `json:"customer_since"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Customer) TableName() string { return "customers" }

// CustomerAggregate is the per-request view of a customer together with the
// facts pre-aggregated from its orders and subscriptions, plus the scores
// computed from those facts. Never persisted.
type CustomerAggregate struct {
	CustomerID    string    `json:"customer_id"`
	CustomerName  string    `json:"customer_name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	CustomerGroup string    `json:"customer_group"`
	Territory     string    `json:"territory"`
	CustomerSince time.Time `json:"customer_since"`

	LastOrderDate     *time.Time `json:"last_order_date,omitempty"`
	LifetimeValue     float64    `json:"lifetime_value"`
	TotalOrders       int        `json:"total_orders"`
	ProductsPurchased []string   `json:"products_purchased"`
	NextRenewalDate   *time.Time `json:"next_renewal_date,omitempty"`
	CurrentSeats      int        `json:"current_seats"`

	RenewalStatus      RenewalStatus          `json:"renewal_status"`
	DaysUntilRenewal   *int                   `json:"days_until_renewal,omitempty"`
	DaysSinceLastOrder *int                   `json:"days_since_last_order,omitempty"`
	PriorityScore      int                    `json:"priority_score"`
	PriorityLevel      PriorityLevel          `json:"priority_level"`
	UpsellPotential    float64                `json:"upsell_potential"`
	Upsell             []UpsellRecommendation `json:"upsell_recommendations"`
}

// RenewalStatus classifies how urgently a customer needs outreach relative to
// subscription or order lapse.
type RenewalStatus string

const (
	RenewalStatusOverdue RenewalStatus = "overdue"
	RenewalStatusDueSoon RenewalStatus = "due_soon"
	RenewalStatusActive  RenewalStatus = "active"
)

// ValidStatusFilters are the accepted values for the list endpoint's status
// filter. Empty string and "all" both mean no filtering.
func ValidStatusFilter(s string) bool {
	switch RenewalStatus(s) {
	case RenewalStatusOverdue, RenewalStatusDueSoon, RenewalStatusActive:
		return true
	}
	return s == "" || s == "all"
}

// PriorityLevel is the discrete label derived from the 0-100 priority score.
type PriorityLevel string

const (
	PriorityCritical PriorityLevel = "critical"
	PriorityHigh     PriorityLevel = "high"
	PriorityMedium   PriorityLevel = "medium"
	PriorityLow      PriorityLevel = "low"
)
