package domain

import (
	"time"
)

type OrderType string

const (
	OrderTypeRenewal           OrderType = "Renewal"
	OrderTypeExtensionPrivate  OrderType = "Extension Private"
	OrderTypeExtensionBusiness OrderType = "Extension Business"
	OrderTypeNewPrivate        OrderType = "New Order Private"
	OrderTypeNewBusiness       OrderType = "New Order Business"
)

// IsRenewal reports whether the order continues an existing engagement.
func (t OrderType) IsRenewal() bool {
	switch t {
	case OrderTypeRenewal, OrderTypeExtensionPrivate, OrderTypeExtensionBusiness:
		return true
	}
	return false
}

// IsNew reports whether the order opened a new engagement.
func (t OrderType) IsNew() bool {
	return t == OrderTypeNewPrivate || t == OrderTypeNewBusiness
}

// IsPrivateTier reports whether the order was placed on the private (base)
// tier, which is the signal the tier-upgrade upsell heuristic keys on.
func (t OrderType) IsPrivateTier() bool {
	return t == OrderTypeNewPrivate || t == OrderTypeExtensionPrivate
}

type OrderStatus string

const (
	OrderStatusCompleted OrderStatus = "Completed"
	OrderStatusToDeliver OrderStatus = "To Deliver"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

// Order is a completed sales order. Only submitted orders participate in
// aggregation; cancelled drafts never reach the engine.
type Order struct {
	ID              string      `json:"order_id" gorm:"primaryKey;column:id"`
	CustomerID      string      `json:"customer_id" gorm:"index"`
	TransactionDate time.Time   `json:"transaction_date" gorm:"index"`
	GrandTotal      float64     `json:"grand_total"`
	Status          OrderStatus `json:"status"`
	OrderType       OrderType   `json:"order_type" gorm:"index"`
	Product         string      `json:"product"`
	Seats           int         `json:"seats"`
	PreviousOrderID string      `json:"previous_order,omitempty"`
	Salesperson     string      `json:"salesperson,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
}

func (Order) TableName() string { return "orders" }

type SubscriptionStatus string

const (
	SubscriptionStatusActive      SubscriptionStatus = "Active"
	SubscriptionStatusPastDueDate SubscriptionStatus = "Past Due Date"
	SubscriptionStatusUnpaid      SubscriptionStatus = "Unpaid"
	SubscriptionStatusCancelled   SubscriptionStatus = "Cancelled"
	SubscriptionStatusCompleted   SubscriptionStatus = "Completed"
)

// Renewable reports whether the subscription still counts toward the
// customer's next renewal date.
func (s SubscriptionStatus) Renewable() bool {
	switch s {
	case SubscriptionStatusActive, SubscriptionStatusPastDueDate, SubscriptionStatusUnpaid:
		return true
	}
	return false
}

type Subscription struct {
	ID         string             `json:"subscription_id" gorm:"primaryKey;column:id"`
	CustomerID string             `json:"customer_id" gorm:"index"`
	StartDate  time.Time          `json:"start_date"`
	EndDate    time.Time          `json:"end_date" gorm:"index"`
	Status     SubscriptionStatus `json:"status"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

func (Subscription) TableName() string { return "subscriptions" }
