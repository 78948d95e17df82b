package retention

import (
	"fmt"
	"math"

	"github.com/seu-repo/retention-center/internal/domain"
)

// percentChange is the relative month-over-month delta. A previous value of
// zero with current activity reads as +100%: growth from nothing has no
// finite percentage, and +100% is the established dashboard convention.
func percentChange(current, previous float64) domain.Comparison {
	if previous == 0 {
		if current == 0 {
			return neutralComparison()
		}
		return domain.Comparison{
			Change:    100,
			RawChange: 100,
			Direction: domain.ChangeUp,
			Label:     "+100.0%",
		}
	}

	raw := (current - previous) / previous * 100
	raw = round1(raw)
	return domain.Comparison{
		Change:    math.Abs(raw),
		RawChange: raw,
		Direction: direction(raw),
		Label:     fmt.Sprintf("%+.1f%%", raw),
	}
}

// pointChange compares two percentages in percentage points, not percent:
// a rate moving from 40% to 45% is +5.0pp, never +12.5%.
func pointChange(current, previous float64) domain.Comparison {
	raw := round1(current - previous)
	return domain.Comparison{
		Change:    math.Abs(raw),
		RawChange: raw,
		Direction: direction(raw),
		Label:     fmt.Sprintf("%+.1fpp", raw),
	}
}

func neutralComparison() domain.Comparison {
	return domain.Comparison{Direction: domain.ChangeNeutral, Label: "0.0%"}
}

func direction(raw float64) domain.ChangeDirection {
	switch {
	case raw > 0:
		return domain.ChangeUp
	case raw < 0:
		return domain.ChangeDown
	default:
		return domain.ChangeNeutral
	}
}
