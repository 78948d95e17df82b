package scoring

import (
	"strings"
	"testing"

	"github.com/seu-repo/retention-center/internal/domain"
)

func TestRecommend_SeatUpgrade(t *testing.T) {
	e := NewEstimator(nil)

	recs := e.Recommend([]domain.Order{
		{Product: "Trend Micro", Seats: 4, OrderType: domain.OrderTypeRenewal},
	})

	var seat *domain.UpsellRecommendation
	for i := range recs {
		if recs[i].Kind == domain.UpsellSeatUpgrade {
			seat = &recs[i]
		}
	}
	if seat == nil {
		t.Fatal("expected a seat_upgrade recommendation")
	}
	// 6 missing seats at 50 each.
	if seat.PotentialValue != 300 {
		t.Errorf("seat upgrade value = %v, want 300", seat.PotentialValue)
	}
}

func TestRecommend_NoSeatUpgradeAtBaseline(t *testing.T) {
	e := NewEstimator(nil)

	recs := e.Recommend([]domain.Order{
		{Product: "Trend Micro", Seats: 10},
		{Product: "Trend Micro", Seats: 25},
	})
	for _, r := range recs {
		if r.Kind == domain.UpsellSeatUpgrade {
			t.Errorf("unexpected seat_upgrade for customer at baseline: %+v", r)
		}
	}
}

func TestRecommend_CrossSell(t *testing.T) {
	e := NewEstimator(nil)

	recs := e.Recommend([]domain.Order{
		{Product: "Norton", Seats: 15},
	})

	var cross *domain.UpsellRecommendation
	for i := range recs {
		if recs[i].Kind == domain.UpsellCrossSell {
			cross = &recs[i]
		}
	}
	if cross == nil {
		t.Fatal("expected a cross_sell recommendation")
	}
	if cross.PotentialValue != 500 {
		t.Errorf("cross-sell value = %v, want 500", cross.PotentialValue)
	}
	if strings.Contains(cross.Description, "Norton") {
		t.Errorf("cross-sell suggests an owned product: %s", cross.Description)
	}
	// Suggestion list is capped.
	if n := strings.Count(cross.Description, ","); n > 2 {
		t.Errorf("cross-sell lists more than 3 products: %s", cross.Description)
	}
}

func TestRecommend_NoCrossSellWithoutHistory(t *testing.T) {
	e := NewEstimator(nil)

	recs := e.Recommend([]domain.Order{{Seats: 20}})
	for _, r := range recs {
		if r.Kind == domain.UpsellCrossSell {
			t.Errorf("cross_sell emitted with no product history: %+v", r)
		}
	}
}

func TestRecommend_TierUpgrade(t *testing.T) {
	e := NewEstimator(nil)

	recs := e.Recommend([]domain.Order{
		{Product: "Security", Seats: 12, OrderType: domain.OrderTypeExtensionPrivate},
	})

	found := false
	for _, r := range recs {
		if r.Kind == domain.UpsellTierUpgrade {
			found = true
			if r.PotentialValue != 200 {
				t.Errorf("tier upgrade value = %v, want 200", r.PotentialValue)
			}
		}
	}
	if !found {
		t.Error("expected a tier_upgrade recommendation for a private-tier customer")
	}
}

func TestRecommend_BusinessTierNoUpgrade(t *testing.T) {
	e := NewEstimator(nil)

	recs := e.Recommend([]domain.Order{
		{Product: "Security", Seats: 30, OrderType: domain.OrderTypeNewBusiness},
	})
	for _, r := range recs {
		if r.Kind == domain.UpsellTierUpgrade {
			t.Errorf("tier_upgrade emitted for business-tier customer: %+v", r)
		}
	}
}

func TestRecommend_ValuesNonNegative(t *testing.T) {
	e := NewEstimator(nil)

	recs := e.Recommend([]domain.Order{
		{Product: "Security", Seats: 2, OrderType: domain.OrderTypeNewPrivate},
		{Product: "Norton", Seats: 0, OrderType: domain.OrderTypeRenewal},
	})
	if len(recs) == 0 {
		t.Fatal("expected recommendations")
	}
	for _, r := range recs {
		if r.PotentialValue < 0 {
			t.Errorf("negative potential value: %+v", r)
		}
		if r.Title == "" || r.Description == "" {
			t.Errorf("recommendation missing copy: %+v", r)
		}
	}
}

func TestQuickPotential(t *testing.T) {
	e := NewEstimator(nil)

	if got := e.QuickPotential(0, 0); got != 0 {
		t.Errorf("QuickPotential with no history = %v, want 0", got)
	}
	// 12000 across 4 orders, 25% of the 3000 average.
	if got := e.QuickPotential(12000, 4); got != 750 {
		t.Errorf("QuickPotential(12000, 4) = %v, want 750", got)
	}
}

func TestSeatGapValue(t *testing.T) {
	e := NewEstimator(nil)

	if got := e.SeatGapValue(10, 4); got != 300 {
		t.Errorf("SeatGapValue(10, 4) = %v, want 300", got)
	}
	if got := e.SeatGapValue(10, 12); got != 0 {
		t.Errorf("SeatGapValue above average = %v, want 0", got)
	}
}
