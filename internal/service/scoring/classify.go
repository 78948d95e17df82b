package scoring

import (
	"time"

	"github.com/seu-repo/retention-center/internal/domain"
)

// ClassifyThresholds holds the day windows behind renewal classification.
type ClassifyThresholds struct {
	// DueSoonDays: a known renewal within this many days is due_soon.
	DueSoonDays int
	// DormantDueDays: with no subscription on file, a last order older than
	// this many days makes the customer due_soon.
	DormantDueDays int
	// DormantLapseDays: with no subscription on file, a last order older
	// than this many days makes the customer overdue.
	DormantLapseDays int
}

// DefaultClassifyThresholds returns the observed production windows.
func DefaultClassifyThresholds() *ClassifyThresholds {
	return &ClassifyThresholds{
		DueSoonDays:      30,
		DormantDueDays:   270,
		DormantLapseDays: 365,
	}
}

// Classifier maps (next renewal date, last order date, today) to a renewal
// status. Pure and deterministic; all comparisons are at day granularity.
type Classifier struct {
	t *ClassifyThresholds
}

func NewClassifier(t *ClassifyThresholds) *Classifier {
	if t == nil {
		t = DefaultClassifyThresholds()
	}
	return &Classifier{t: t}
}

// Classify evaluates the rules in precedence order:
//  1. known renewal date in the past            -> overdue
//  2. no renewal date, last order lapsed        -> overdue
//  3. known renewal date within DueSoonDays     -> due_soon
//  4. no renewal date, last order going dormant -> due_soon
//  5. otherwise                                 -> active
//
// A customer with neither date falls through to active.
func (c *Classifier) Classify(nextRenewal, lastOrder *time.Time, today time.Time) domain.RenewalStatus {
	today = truncateDay(today)

	if nextRenewal != nil {
		renewal := truncateDay(*nextRenewal)
		switch {
		case renewal.Before(today):
			return domain.RenewalStatusOverdue
		case daysBetween(today, renewal) <= c.t.DueSoonDays:
			return domain.RenewalStatusDueSoon
		default:
			return domain.RenewalStatusActive
		}
	}

	if lastOrder != nil {
		since := daysBetween(truncateDay(*lastOrder), today)
		switch {
		case since > c.t.DormantLapseDays:
			return domain.RenewalStatusOverdue
		case since > c.t.DormantDueDays:
			return domain.RenewalStatusDueSoon
		}
	}

	return domain.RenewalStatusActive
}

// DaysUntil returns the whole days from today until d, negative when d is in
// the past, nil when d is unknown.
func DaysUntil(d *time.Time, today time.Time) *int {
	if d == nil {
		return nil
	}
	n := daysBetween(truncateDay(today), truncateDay(*d))
	return &n
}

// DaysSince returns the whole days from d until today, nil when d is unknown.
func DaysSince(d *time.Time, today time.Time) *int {
	if d == nil {
		return nil
	}
	n := daysBetween(truncateDay(*d), truncateDay(today))
	return &n
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
