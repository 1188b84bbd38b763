package finance

import (
	"errors"
	"testing"
	"time"

	"savingsfund/internal/core/domain"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// decimalComparer compares by numeric value so "150000" equals "150000.00".
var decimalComparer = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

func TestQuote_FlatRate(t *testing.T) {
	q, err := Quote(d("1000000"), d("15"), 12)
	if err != nil {
		t.Fatalf("Quote() error = %v", err)
	}

	want := LoanQuote{
		Amount:             d("1000000"),
		InterestRate:       d("15"),
		TermMonths:         12,
		PrincipalPayment:   d("83333.33"),
		InterestPerPayment: d("150000"),
		MonthlyPayment:     d("233333.33"),
		TotalPayment:       d("2800000"),
		TotalInterest:      d("1800000"),
	}
	if diff := cmp.Diff(want, q, decimalComparer); diff != "" {
		t.Errorf("Quote() mismatch (-want +got):\n%s", diff)
	}
}

func TestQuote_ZeroRate(t *testing.T) {
	q, err := Quote(d("1200"), decimal.Zero, 12)
	if err != nil {
		t.Fatalf("Quote() error = %v", err)
	}
	if !q.MonthlyPayment.Equal(d("100")) {
		t.Errorf("MonthlyPayment = %s, want 100", q.MonthlyPayment)
	}
	if !q.TotalInterest.IsZero() {
		t.Errorf("TotalInterest = %s, want 0", q.TotalInterest)
	}
}

func TestQuote_Validation(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		rate   string
		term   int
		reason error
	}{
		{"zero amount", "0", "10", 12, domain.ErrInvalidAmount},
		{"negative amount", "-5", "10", 12, domain.ErrInvalidAmount},
		{"zero term", "1000", "10", 0, domain.ErrInvalidTerm},
		{"term beyond maximum", "1000", "10", MaxTermMonths + 1, domain.ErrInvalidTerm},
		{"huge term", "1000", "1", 1 << 40, domain.ErrInvalidTerm},
		{"negative rate", "1000", "-1", 12, domain.ErrInvalidRate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Quote(d(tt.amount), d(tt.rate), tt.term)
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("Quote() error = %v, want ErrValidation", err)
			}
			if !errors.Is(err, tt.reason) {
				t.Errorf("Quote() error = %v, want reason %v", err, tt.reason)
			}
		})
	}
}

func TestSchedule_EndsAtZero(t *testing.T) {
	q, err := Quote(d("1000000"), d("15"), 12)
	if err != nil {
		t.Fatalf("Quote() error = %v", err)
	}
	start := time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)
	rows := Schedule(q, start)

	if len(rows) != 12 {
		t.Fatalf("len(Schedule()) = %d, want 12", len(rows))
	}
	sum := decimal.Zero
	for _, r := range rows {
		sum = sum.Add(r.Principal)
		if !r.Interest.Equal(d("150000")) {
			t.Errorf("row %d interest = %s, want 150000", r.Number, r.Interest)
		}
	}
	if !sum.Equal(q.Amount) {
		t.Errorf("sum of principal = %s, want %s", sum, q.Amount)
	}
	last := rows[len(rows)-1]
	if !last.Balance.IsZero() {
		t.Errorf("last balance = %s, want 0", last.Balance)
	}
	if !last.Principal.Equal(d("83333.37")) {
		t.Errorf("last principal = %s, want 83333.37", last.Principal)
	}
	if got, want := rows[0].DueDate, time.Date(2025, time.February, 15, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("first due date = %v, want %v", got, want)
	}
}

func TestApplyPayment(t *testing.T) {
	tests := []struct {
		name        string
		balance     string
		payment     string
		wantBalance string
		wantSettled bool
	}{
		{"partial", "1000", "400", "600", false},
		{"exact", "1000", "1000", "0", true},
		{"overpay", "1000", "1500", "0", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, settled := ApplyPayment(d(tt.balance), d(tt.payment))
			if !got.Equal(d(tt.wantBalance)) || settled != tt.wantSettled {
				t.Errorf("ApplyPayment() = (%s, %v), want (%s, %v)", got, settled, tt.wantBalance, tt.wantSettled)
			}
		})
	}
}

func TestStatistics(t *testing.T) {
	stats := Statistics([]LoanFigures{
		{Amount: d("1000"), RemainingBalance: d("400"), Active: true},
		{Amount: d("2000"), RemainingBalance: d("0"), Active: false},
		{Amount: d("500"), RemainingBalance: d("500"), Active: false},
	})

	want := LoanStatistics{
		TotalLoans:        3,
		ActiveLoans:       1,
		TotalLent:         d("3500"),
		TotalOutstanding:  d("400"),
		TotalPaid:         d("3100"),
		AverageLoanAmount: d("1166.67"),
	}
	if diff := cmp.Diff(want, stats, decimalComparer); diff != "" {
		t.Errorf("Statistics() mismatch (-want +got):\n%s", diff)
	}
}

func TestStatistics_Empty(t *testing.T) {
	stats := Statistics(nil)
	if stats.TotalLoans != 0 || !stats.AverageLoanAmount.IsZero() {
		t.Errorf("Statistics(nil) = %+v, want zero values", stats)
	}
}
