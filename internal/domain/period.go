package domain

import "time"

// PeriodStatus is the open/closed state of a fiscal period.
type PeriodStatus string

const (
	PeriodOpen   PeriodStatus = "open"
	PeriodClosed PeriodStatus = "closed"
)

// FiscalPeriod is a non-overlapping date range gating postings. Start and
// end are inclusive; non-overlap across periods is a configuration-time
// invariant, not enforced at runtime.
type FiscalPeriod struct {
	Code      string
	Name      string
	StartDate time.Time
	EndDate   time.Time
	Status    PeriodStatus
	UpdatedBy string
	UpdatedAt time.Time
	CreatedAt time.Time
}

// Covers reports whether the period contains the date. Comparison is on
// whole days in UTC, inclusive on both ends.
func (p *FiscalPeriod) Covers(date time.Time) bool {
	d := DateOnly(date)
	return !d.Before(DateOnly(p.StartDate)) && !d.After(DateOnly(p.EndDate))
}

// IsOpen reports whether postings are allowed in the period.
func (p *FiscalPeriod) IsOpen() bool {
	return p.Status == PeriodOpen
}

// Validate checks the period's date range.
func (p *FiscalPeriod) Validate() error {
	if DateOnly(p.EndDate).Before(DateOnly(p.StartDate)) {
		return ErrInvalidPeriodRange
	}

	return nil
}

// DateOnly normalizes a timestamp to UTC midnight for whole-day comparisons.
func DateOnly(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
