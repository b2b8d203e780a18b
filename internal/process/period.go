package process

import "strconv"

// MaxRolloverPeriods bounds how many billing windows a single rollover pass
// may advance. Records with entry dates decades in the past exist in real
// data sets; the cap keeps those from looping while still moving the window
// forward, and the capped result is surfaced for manual review.
const MaxRolloverPeriods = 24

// PeriodWindow is one storage billing window.
type PeriodWindow struct {
	Start  Date
	Expiry Date
	// Capped marks a result that hit MaxRolloverPeriods before reaching a
	// window containing today. The window is the last one computed and may
	// still be stale.
	Capped bool
}

// CheckPeriodExpiry decides whether the stored current period is stale and,
// when it is, computes the window that covers today.
//
// The function is pure: it never mutates the process and never errs. A
// missing or unparseable expiry means there is nothing to roll over, so the
// broader load path is never blocked by one bad record. Each advanced
// window starts exactly one day after the previous expiry, leaving no gaps
// and no overlaps.
func CheckPeriodExpiry(p *Process, periodDays int, today Date) (bool, PeriodWindow) {
	if periodDays <= 0 {
		periodDays = DefaultPeriodDays
	}
	expiry := p.CurrentPeriodExpiry
	if expiry.IsZero() {
		return false, PeriodWindow{}
	}
	if !expiry.Before(today) {
		return false, PeriodWindow{}
	}

	start := p.CurrentPeriodStart
	for i := 0; i < MaxRolloverPeriods; i++ {
		nextStart := expiry.AddDays(1)
		nextExpiry := nextStart.AddDays(periodDays - 1)
		if nextExpiry.Before(today) {
			start = nextStart
			expiry = nextExpiry
			continue
		}
		return true, PeriodWindow{Start: nextStart, Expiry: nextExpiry}
	}
	return true, PeriodWindow{Start: start, Expiry: expiry, Capped: true}
}

// CalculatePeriodExpiry computes the expiry for a freshly opened period.
// The first window runs from the port entry date for the configured number
// of days.
func CalculatePeriodExpiry(start Date, periodDays int) Date {
	if start.IsZero() || periodDays <= 0 {
		return Date{}
	}
	return start.AddDays(periodDays)
}

// CalculateStorageDays counts the days a cargo has been stored, clamped at
// zero for future-dated entries.
func CalculateStorageDays(entry, today Date) int {
	if entry.IsZero() {
		return 0
	}
	days := entry.DaysUntil(today)
	if days < 0 {
		return 0
	}
	return days
}

// CalculateFreeTimeExpiry derives the free-time expiry from the ETA and the
// free-time day count kept as text on the record.
func CalculateFreeTimeExpiry(eta Date, freeTime string) Date {
	if eta.IsZero() || freeTime == "" {
		return Date{}
	}
	days, err := strconv.Atoi(freeTime)
	if err != nil {
		return Date{}
	}
	return eta.AddDays(days)
}
