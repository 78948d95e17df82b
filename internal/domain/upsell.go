package domain

type UpsellKind string

const (
	UpsellSeatUpgrade UpsellKind = "seat_upgrade"
	UpsellCrossSell   UpsellKind = "cross_sell"
	UpsellTierUpgrade UpsellKind = "tier_upgrade"
)

// UpsellRecommendation is a suggested additional-revenue opportunity with an
// estimated value. Zero or more per customer, in stable generation order.
type UpsellRecommendation struct {
	Kind           UpsellKind `json:"kind"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	PotentialValue float64    `json:"potential_value"`
}
