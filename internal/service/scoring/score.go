package scoring

import (
	"strings"

	"github.com/seu-repo/retention-center/internal/domain"
)

// ScoreParams parameterizes the priority score. Each factor is capped
// independently before summing, so no single factor can dominate beyond its
// allotted weight; the caps sum to 100.
type ScoreParams struct {
	RevenueCap    int
	UrgencyCap    int
	TierCap       int
	EngagementCap int

	// RevenueThresholds descend and pair index-wise with RevenueSteps:
	// lifetime value >= RevenueThresholds[i] earns RevenueSteps[i] points.
	// Values below every threshold earn RevenueFloor.
	RevenueThresholds []float64
	RevenueSteps      []int
	RevenueFloor      int

	// UrgencyHorizonDays is where the urgency contribution reaches zero for
	// customers whose renewal is still comfortably out.
	UrgencyHorizonDays int

	TopTierGroups []string
	MidTierGroups []string
	TopTierScore  int
	MidTierScore  int
	BaseTierScore int

	CriticalThreshold int
	HighThreshold     int
	MediumThreshold   int
}

// DefaultScoreParams returns the observed production weights.
func DefaultScoreParams() *ScoreParams {
	return &ScoreParams{
		RevenueCap:    40,
		UrgencyCap:    35,
		TierCap:       15,
		EngagementCap: 10,

		RevenueThresholds: []float64{10000, 5000, 2000, 500},
		RevenueSteps:      []int{40, 30, 20, 10},
		RevenueFloor:      5,

		UrgencyHorizonDays: 90,

		TopTierGroups: []string{"enterprise", "strategic", "vip"},
		MidTierGroups: []string{"commercial", "smb"},
		TopTierScore:  15,
		MidTierScore:  8,
		BaseTierScore: 3,

		CriticalThreshold: 75,
		HighThreshold:     50,
		MediumThreshold:   25,
	}
}

// ScoreInput carries the aggregate facts the scorer consumes. Missing inputs
// (no orders, no tier, no renewal date) degrade each factor to its minimum
// rather than erroring.
type ScoreInput struct {
	LifetimeValue    float64
	RenewalStatus    domain.RenewalStatus
	DaysUntilRenewal *int
	CustomerGroup    string
	TotalOrders      int
}

type Scorer struct {
	p *ScoreParams
}

func NewScorer(p *ScoreParams) *Scorer {
	if p == nil {
		p = DefaultScoreParams()
	}
	return &Scorer{p: p}
}

// Score computes the 0-100 priority score and its discrete level.
func (s *Scorer) Score(in ScoreInput) (int, domain.PriorityLevel) {
	total := s.revenueScore(in.LifetimeValue) +
		s.urgencyScore(in.RenewalStatus, in.DaysUntilRenewal) +
		s.tierScore(in.CustomerGroup) +
		s.engagementScore(in.TotalOrders)

	if total > 100 {
		total = 100
	}
	if total < 0 {
		total = 0
	}
	return total, s.Level(total)
}

// Level derives the discrete priority label for a score.
func (s *Scorer) Level(score int) domain.PriorityLevel {
	switch {
	case score >= s.p.CriticalThreshold:
		return domain.PriorityCritical
	case score >= s.p.HighThreshold:
		return domain.PriorityHigh
	case score >= s.p.MediumThreshold:
		return domain.PriorityMedium
	default:
		return domain.PriorityLow
	}
}

func (s *Scorer) revenueScore(lifetimeValue float64) int {
	for i, threshold := range s.p.RevenueThresholds {
		if lifetimeValue >= threshold && i < len(s.p.RevenueSteps) {
			return capped(s.p.RevenueSteps[i], s.p.RevenueCap)
		}
	}
	if lifetimeValue <= 0 {
		return 0
	}
	return capped(s.p.RevenueFloor, s.p.RevenueCap)
}

func (s *Scorer) urgencyScore(status domain.RenewalStatus, daysUntil *int) int {
	switch status {
	case domain.RenewalStatusOverdue:
		// More days overdue, higher priority. Capped regardless of how far
		// overdue the account has drifted.
		overdue := 0
		if daysUntil != nil && *daysUntil < 0 {
			overdue = -*daysUntil
		}
		switch {
		case overdue >= 30:
			return s.p.UrgencyCap
		case overdue >= 14:
			return capped(30, s.p.UrgencyCap)
		case overdue >= 7:
			return capped(25, s.p.UrgencyCap)
		default:
			return capped(20, s.p.UrgencyCap)
		}

	case domain.RenewalStatusDueSoon:
		// Fewer days left, higher priority.
		left := 30
		if daysUntil != nil && *daysUntil > 0 {
			left = *daysUntil
		}
		switch {
		case left <= 7:
			return capped(18, s.p.UrgencyCap)
		case left <= 14:
			return capped(12, s.p.UrgencyCap)
		case left <= 21:
			return capped(8, s.p.UrgencyCap)
		default:
			return capped(4, s.p.UrgencyCap)
		}

	default:
		// Active accounts contribute a small tail that decays linearly to
		// zero at the horizon.
		if daysUntil == nil || s.p.UrgencyHorizonDays <= 0 || *daysUntil >= s.p.UrgencyHorizonDays {
			return 0
		}
		tail := 4 * (s.p.UrgencyHorizonDays - *daysUntil) / s.p.UrgencyHorizonDays
		return capped(tail, s.p.UrgencyCap)
	}
}

func (s *Scorer) tierScore(group string) int {
	g := strings.ToLower(strings.TrimSpace(group))
	if g == "" {
		return capped(s.p.BaseTierScore, s.p.TierCap)
	}
	for _, top := range s.p.TopTierGroups {
		if g == top {
			return capped(s.p.TopTierScore, s.p.TierCap)
		}
	}
	for _, mid := range s.p.MidTierGroups {
		if g == mid {
			return capped(s.p.MidTierScore, s.p.TierCap)
		}
	}
	return capped(s.p.BaseTierScore, s.p.TierCap)
}

func (s *Scorer) engagementScore(totalOrders int) int {
	switch {
	case totalOrders >= 10:
		return s.p.EngagementCap
	case totalOrders >= 5:
		return capped(7, s.p.EngagementCap)
	case totalOrders >= 2:
		return capped(4, s.p.EngagementCap)
	case totalOrders >= 1:
		return capped(1, s.p.EngagementCap)
	default:
		return 0
	}
}

func capped(v, cap int) int {
	if v > cap {
		return cap
	}
	if v < 0 {
		return 0
	}
	return v
}
