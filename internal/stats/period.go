// Package stats derives profitability figures from a business snapshot.
// Every function is pure: inputs are read, never modified, so callers may
// share snapshots across goroutines.
package stats

import (
	"fmt"

	"rentabilidad/internal/core"
)

// Windows lists the lookback lengths offered to users.
var Windows = []int{7, 30, 90}

// Period is an inclusive range of calendar days ending at End.
type Period struct {
	End  core.Date
	Days int
}

// NewPeriod validates the window length and the end date.
func NewPeriod(end core.Date, days int) (Period, error) {
	if err := end.Validate(); err != nil {
		return Period{}, err
	}
	for _, w := range Windows {
		if w == days {
			return Period{End: end, Days: days}, nil
		}
	}
	return Period{}, fmt.Errorf("%w: %d days (allowed %v)", core.ErrInvalidWindow, days, Windows)
}

// Start is End minus Days calendar days.
func (p Period) Start() core.Date {
	return p.End.AddDays(-p.Days)
}

// Dates enumerates [Start, End] oldest first. Dates are UTC midnights so the
// walk never skips or repeats a day around DST changes.
func (p Period) Dates() []core.Date {
	out := make([]core.Date, 0, p.Days+1)
	for d := p.Start(); !d.After(p.End); d = d.AddDays(1) {
		out = append(out, d)
	}
	return out
}

// Contains reports whether d lies in the period, both ends included.
func (p Period) Contains(d core.Date) bool {
	return !d.Before(p.Start()) && !d.After(p.End)
}

// SafePercent is num/den*100, or 0 when den is zero.
func SafePercent(num, den core.Money) float64 {
	return core.Percent(num.Cents, den.Cents)
}
