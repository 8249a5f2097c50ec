package contracts

import (
	"fmt"
	"time"
)

// Period is one calendar month of the simulation window
// ⭐ SSOT: month arithmetic for prices and valuation goes through Period
type Period struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// PeriodOf returns the month containing t
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// Before reports whether p is strictly earlier than o
func (p Period) Before(o Period) bool {
	if p.Year != o.Year {
		return p.Year < o.Year
	}
	return p.Month < o.Month
}

// Within reports whether p lies in the inclusive [start, end] window
func (p Period) Within(start, end Period) bool {
	return !p.Before(start) && !end.Before(p)
}

// Time returns the first day of the month in UTC
func (p Period) Time() time.Time {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
}

// String formats the period as YYYY-MM
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}
