package scoring

import (
	"fmt"
	"strings"

	"github.com/seu-repo/retention-center/internal/domain"
)

// UpsellParams parameterizes the upsell heuristics.
type UpsellParams struct {
	PerSeatPrice     float64
	SeatBaseline     int
	CrossSellValue   float64
	CrossSellMaxList int
	TierUpgradeValue float64
	Catalog          []string
	// PotentialFactor is the share of the average order value assumed
	// reachable through upsell, used for the quick list-view estimate.
	PotentialFactor float64
}

// DefaultUpsellParams returns the observed production heuristic values.
func DefaultUpsellParams() *UpsellParams {
	return &UpsellParams{
		PerSeatPrice:     50,
		SeatBaseline:     10,
		CrossSellValue:   500,
		CrossSellMaxList: 3,
		TierUpgradeValue: 200,
		Catalog:          []string{"Security", "Trend Micro", "Kaspersky", "Bitdefender", "Norton", "McAfee"},
		PotentialFactor:  0.25,
	}
}

// Estimator evaluates independent upsell heuristics against a customer's
// order history and emits one recommendation per positive result, in stable
// generation order: seats, cross-sell, tier.
type Estimator struct {
	p *UpsellParams
}

func NewEstimator(p *UpsellParams) *Estimator {
	if p == nil {
		p = DefaultUpsellParams()
	}
	return &Estimator{p: p}
}

// Recommend generates recommendations from a customer's orders. Each
// heuristic fires at most once.
func (e *Estimator) Recommend(orders []domain.Order) []domain.UpsellRecommendation {
	recs := make([]domain.UpsellRecommendation, 0, 3)

	if rec, ok := e.seatUpgrade(orders); ok {
		recs = append(recs, rec)
	}
	if rec, ok := e.crossSell(orders); ok {
		recs = append(recs, rec)
	}
	if rec, ok := e.tierUpgrade(orders); ok {
		recs = append(recs, rec)
	}

	return recs
}

// RecommendFromAggregate generates the same recommendations from the
// pre-aggregated facts the list query carries, so list pages never fetch
// per-customer order history. CurrentSeats is the largest seat count on
// record, products the deduplicated purchase set, privateTierOrders the
// count of Private-tier orders.
func (e *Estimator) RecommendFromAggregate(products []string, currentSeats, privateTierOrders int) []domain.UpsellRecommendation {
	recs := make([]domain.UpsellRecommendation, 0, 3)

	if currentSeats > 0 && currentSeats < e.p.SeatBaseline {
		gap := e.p.SeatBaseline - currentSeats
		recs = append(recs, domain.UpsellRecommendation{
			Kind:  domain.UpsellSeatUpgrade,
			Title: "Seat Upgrade Opportunity",
			Description: fmt.Sprintf("Current: %d seats. Consider upgrading to %d+ seats for volume discount.",
				currentSeats, e.p.SeatBaseline),
			PotentialValue: float64(gap) * e.p.PerSeatPrice,
		})
	}

	if len(products) > 0 {
		owned := make(map[string]bool, len(products))
		for _, p := range products {
			if p = strings.TrimSpace(p); p != "" {
				owned[p] = true
			}
		}
		if rec, ok := e.crossSellFrom(owned); ok {
			recs = append(recs, rec)
		}
	}

	if privateTierOrders > 0 {
		recs = append(recs, e.tierUpgradeRec())
	}

	return recs
}

func (e *Estimator) seatUpgrade(orders []domain.Order) (domain.UpsellRecommendation, bool) {
	for _, o := range orders {
		if o.Seats > 0 && o.Seats < e.p.SeatBaseline {
			gap := e.p.SeatBaseline - o.Seats
			return domain.UpsellRecommendation{
				Kind:  domain.UpsellSeatUpgrade,
				Title: "Seat Upgrade Opportunity",
				Description: fmt.Sprintf("Current: %d seats. Consider upgrading to %d+ seats for volume discount.",
					o.Seats, e.p.SeatBaseline),
				PotentialValue: float64(gap) * e.p.PerSeatPrice,
			}, true
		}
	}
	return domain.UpsellRecommendation{}, false
}

func (e *Estimator) crossSell(orders []domain.Order) (domain.UpsellRecommendation, bool) {
	owned := make(map[string]bool, len(orders))
	for _, o := range orders {
		if p := strings.TrimSpace(o.Product); p != "" {
			owned[p] = true
		}
	}
	if len(owned) == 0 {
		// No purchase history to cross-sell against.
		return domain.UpsellRecommendation{}, false
	}
	return e.crossSellFrom(owned)
}

func (e *Estimator) crossSellFrom(owned map[string]bool) (domain.UpsellRecommendation, bool) {
	missing := make([]string, 0, len(e.p.Catalog))
	for _, p := range e.p.Catalog {
		if !owned[p] {
			missing = append(missing, p)
		}
	}
	if len(missing) == 0 {
		return domain.UpsellRecommendation{}, false
	}
	if len(missing) > e.p.CrossSellMaxList {
		missing = missing[:e.p.CrossSellMaxList]
	}

	return domain.UpsellRecommendation{
		Kind:           domain.UpsellCrossSell,
		Title:          "Cross-Sell Opportunity",
		Description:    fmt.Sprintf("Customer hasn't purchased: %s", strings.Join(missing, ", ")),
		PotentialValue: e.p.CrossSellValue,
	}, true
}

func (e *Estimator) tierUpgrade(orders []domain.Order) (domain.UpsellRecommendation, bool) {
	for _, o := range orders {
		if o.OrderType.IsPrivateTier() {
			return e.tierUpgradeRec(), true
		}
	}
	return domain.UpsellRecommendation{}, false
}

func (e *Estimator) tierUpgradeRec() domain.UpsellRecommendation {
	return domain.UpsellRecommendation{
		Kind:           domain.UpsellTierUpgrade,
		Title:          "Business Tier Upgrade",
		Description:    "Customer is on Private tier. Consider upgrading to Business tier for enhanced features.",
		PotentialValue: e.p.TierUpgradeValue,
	}
}

// QuickPotential is the cheap list-view estimate: a fixed share of the
// customer's average order value. Zero when there is no history.
func (e *Estimator) QuickPotential(lifetimeValue float64, totalOrders int) float64 {
	if totalOrders <= 0 {
		return 0
	}
	return round2(lifetimeValue / float64(totalOrders) * e.p.PotentialFactor)
}

// SeatGapValue estimates fleet-wide seat upsell: the seat shortfall against
// the comparable-customer average, priced per seat. Non-positive gaps are
// worth nothing.
func (e *Estimator) SeatGapValue(avgSeats float64, currentSeats int) float64 {
	gap := avgSeats - float64(currentSeats)
	if gap <= 0 {
		return 0
	}
	return round2(gap * e.p.PerSeatPrice)
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
