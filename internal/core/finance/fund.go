package finance

import (
	"sort"
	"time"

	"savingsfund/internal/core/domain"

	"github.com/shopspring/decimal"
)

// Deposit is a dated ledger amount.
type Deposit struct {
	Amount decimal.Decimal
	Date   time.Time
}

// MemberTotal is a member with its ledger total.
type MemberTotal struct {
	ID     string
	Active bool
	Total  decimal.Decimal
}

// FundSummary is the fund overview shown on dashboards.
type FundSummary struct {
	TotalMembers   int             `json:"total_members"`
	ActiveMembers  int             `json:"active_members"`
	TotalSavings   decimal.Decimal `json:"total_savings"`
	MonthlyAverage decimal.Decimal `json:"monthly_average"`

	// TopSaverID is empty when no member has saved anything.
	TopSaverID string `json:"top_saver_id,omitempty"`
}

// Summarize builds the fund summary. MonthlyAverage is the sum of deposits
// dated in now's calendar month, not a rolling average. The top saver is the
// first member whose total strictly exceeds every earlier one.
func Summarize(members []MemberTotal, deposits []Deposit, now time.Time) FundSummary {
	s := FundSummary{
		TotalMembers:   len(members),
		TotalSavings:   decimal.Zero,
		MonthlyAverage: decimal.Zero,
	}

	best := decimal.Zero
	for _, m := range members {
		if m.Active {
			s.ActiveMembers++
		}
		s.TotalSavings = s.TotalSavings.Add(m.Total)
		if m.Total.GreaterThan(best) {
			best = m.Total
			s.TopSaverID = m.ID
		}
	}

	start, end := MonthBounds(now)
	for _, d := range deposits {
		if inRange(d.Date, start, end) {
			s.MonthlyAverage = s.MonthlyAverage.Add(d.Amount)
		}
	}
	return s
}

// TopSavers returns up to n members ordered by total, highest first. Ties keep
// input order.
func TopSavers(members []MemberTotal, n int) []MemberTotal {
	sorted := make([]MemberTotal, len(members))
	copy(sorted, members)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Total.GreaterThan(sorted[j].Total)
	})
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// MonthBucket is the ledger activity of one calendar month.
type MonthBucket struct {
	Month string          `json:"month"` // YYYY-MM
	Start time.Time       `json:"start"`
	End   time.Time       `json:"end"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// MonthBounds returns the first and last instant of t's calendar month.
func MonthBounds(t time.Time) (start, end time.Time) {
	start = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	end = start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return start, end
}

// MonthlyTrend buckets deposits into the trailing months ending with now's
// month, oldest first. Bounds are inclusive on both ends.
func MonthlyTrend(deposits []Deposit, now time.Time, months int) []MonthBucket {
	if months <= 0 {
		return []MonthBucket{}
	}
	buckets := make([]MonthBucket, 0, months)
	for i := months - 1; i >= 0; i-- {
		anchor := time.Date(now.Year(), now.Month()-time.Month(i), 1, 0, 0, 0, 0, now.Location())
		start, end := MonthBounds(anchor)
		b := MonthBucket{
			Month: start.Format("2006-01"),
			Start: start,
			End:   end,
			Total: decimal.Zero,
		}
		for _, d := range deposits {
			if inRange(d.Date, start, end) {
				b.Total = b.Total.Add(d.Amount)
				b.Count++
			}
		}
		buckets = append(buckets, b)
	}
	return buckets
}

// PeriodStart returns the earliest date included by a report period.
// ok is false for "all" and unknown periods.
func PeriodStart(period string, now time.Time) (start time.Time, ok bool) {
	switch period {
	case domain.PeriodMonth:
		return now.AddDate(0, -1, 0), true
	case domain.PeriodQuarter:
		return now.AddDate(0, -3, 0), true
	case domain.PeriodYear:
		return now.AddDate(-1, 0, 0), true
	default:
		return time.Time{}, false
	}
}

func inRange(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}
