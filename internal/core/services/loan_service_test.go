package services

import (
	"errors"
	"testing"

	"savingsfund/internal/core/domain"
	"savingsfund/internal/pkg/pagination"
)

func TestCreateLoan_FlatRate(t *testing.T) {
	f := newFixture(t)
	loans := NewLoanService(f.store, f.gate, clock)

	loan, err := loans.CreateLoan(f.ctx, f.admin.ID, &CreateLoanInput{
		UserID:       f.member.ID,
		Amount:       d("1000000"),
		InterestRate: d("15"),
		TermMonths:   12,
	})
	if err != nil {
		t.Fatalf("CreateLoan() error = %v", err)
	}
	if !loan.MonthlyPayment.Equal(d("233333.33")) {
		t.Errorf("MonthlyPayment = %s, want 233333.33", loan.MonthlyPayment)
	}
	if !loan.RemainingBalance.Equal(d("1000000")) || loan.Status != string(domain.LoanActive) {
		t.Errorf("loan = %s %s, want full balance and active", loan.RemainingBalance, loan.Status)
	}

	detail, err := loans.GetLoan(f.ctx, loan.ID)
	if err != nil {
		t.Fatalf("GetLoan() error = %v", err)
	}
	if len(detail.Schedule) != 12 || !detail.Quote.TotalInterest.Equal(d("1800000")) {
		t.Errorf("GetLoan() schedule = %d rows, interest %s; want 12 rows, 1800000", len(detail.Schedule), detail.Quote.TotalInterest)
	}
}

func TestCreateLoan_Rejections(t *testing.T) {
	f := newFixture(t)
	loans := NewLoanService(f.store, f.gate, clock)

	tests := []struct {
		name    string
		actorID string
		input   CreateLoanInput
		want    error
	}{
		{"member actor", f.member.ID, CreateLoanInput{UserID: f.member.ID, Amount: d("100"), InterestRate: d("1"), TermMonths: 1}, domain.ErrPermissionDenied},
		{"zero amount", f.admin.ID, CreateLoanInput{UserID: f.member.ID, Amount: d("0"), InterestRate: d("1"), TermMonths: 1}, domain.ErrInvalidAmount},
		{"zero term", f.admin.ID, CreateLoanInput{UserID: f.member.ID, Amount: d("100"), InterestRate: d("1"), TermMonths: 0}, domain.ErrInvalidTerm},
		{"term beyond maximum", f.admin.ID, CreateLoanInput{UserID: f.member.ID, Amount: d("1000"), InterestRate: d("1"), TermMonths: 1 << 40}, domain.ErrInvalidTerm},
		{"unknown borrower", f.admin.ID, CreateLoanInput{UserID: "missing", Amount: d("100"), InterestRate: d("1"), TermMonths: 1}, domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := loans.CreateLoan(f.ctx, tt.actorID, &tt.input); !errors.Is(err, tt.want) {
				t.Errorf("CreateLoan() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestMakePayment(t *testing.T) {
	f := newFixture(t)
	loans := NewLoanService(f.store, f.gate, clock)

	loan, err := loans.CreateLoan(f.ctx, f.admin.ID, &CreateLoanInput{UserID: f.member.ID, Amount: d("1000"), InterestRate: d("10"), TermMonths: 4})
	if err != nil {
		t.Fatalf("CreateLoan() error = %v", err)
	}

	loan, err = loans.MakePayment(f.ctx, f.admin.ID, loan.ID, &PaymentInput{Amount: d("400")})
	if err != nil {
		t.Fatalf("MakePayment() error = %v", err)
	}
	if !loan.RemainingBalance.Equal(d("600")) || loan.Status != string(domain.LoanActive) {
		t.Errorf("after partial payment = %s %s, want 600 active", loan.RemainingBalance, loan.Status)
	}

	loan, err = loans.MakePayment(f.ctx, f.admin.ID, loan.ID, &PaymentInput{Amount: d("5000")})
	if err != nil {
		t.Fatalf("MakePayment() error = %v", err)
	}
	if !loan.RemainingBalance.IsZero() || loan.Status != string(domain.LoanPaid) {
		t.Errorf("after overpayment = %s %s, want 0 paid", loan.RemainingBalance, loan.Status)
	}

	if _, err := loans.MakePayment(f.ctx, f.admin.ID, loan.ID, &PaymentInput{Amount: d("1")}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("payment on paid loan error = %v, want ErrValidation", err)
	}
	if _, err := loans.MakePayment(f.ctx, f.admin.ID, "missing", &PaymentInput{Amount: d("1")}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("payment on missing loan error = %v, want ErrNotFound", err)
	}
}

func TestUpdateStatus(t *testing.T) {
	f := newFixture(t)
	loans := NewLoanService(f.store, f.gate, clock)

	loan, err := loans.CreateLoan(f.ctx, f.admin.ID, &CreateLoanInput{UserID: f.member.ID, Amount: d("1000"), InterestRate: d("10"), TermMonths: 4})
	if err != nil {
		t.Fatalf("CreateLoan() error = %v", err)
	}

	loan, err = loans.UpdateStatus(f.ctx, f.admin.ID, loan.ID, &StatusInput{Status: "defaulted"})
	if err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	if loan.Status != string(domain.LoanDefaulted) || !loan.RemainingBalance.Equal(d("1000")) {
		t.Errorf("defaulted loan = %s %s, want defaulted with balance kept", loan.Status, loan.RemainingBalance)
	}

	loan, err = loans.UpdateStatus(f.ctx, f.admin.ID, loan.ID, &StatusInput{Status: "paid"})
	if err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	if !loan.RemainingBalance.IsZero() {
		t.Errorf("paid loan balance = %s, want 0", loan.RemainingBalance)
	}

	if _, err := loans.UpdateStatus(f.ctx, f.admin.ID, loan.ID, &StatusInput{Status: "lost"}); !errors.Is(err, domain.ErrInvalidLoanStatus) {
		t.Errorf("UpdateStatus(lost) error = %v, want ErrInvalidLoanStatus", err)
	}
}

func TestLoanStatistics(t *testing.T) {
	f := newFixture(t)
	loans := NewLoanService(f.store, f.gate, clock)

	a, err := loans.CreateLoan(f.ctx, f.admin.ID, &CreateLoanInput{UserID: f.member.ID, Amount: d("1000"), InterestRate: d("0"), TermMonths: 2})
	if err != nil {
		t.Fatalf("CreateLoan() error = %v", err)
	}
	if _, err := loans.CreateLoan(f.ctx, f.admin.ID, &CreateLoanInput{UserID: f.member.ID, Amount: d("2000"), InterestRate: d("0"), TermMonths: 2}); err != nil {
		t.Fatalf("CreateLoan() error = %v", err)
	}
	if _, err := loans.MakePayment(f.ctx, f.admin.ID, a.ID, &PaymentInput{Amount: d("250")}); err != nil {
		t.Fatalf("MakePayment() error = %v", err)
	}

	stats, err := loans.Statistics(f.ctx)
	if err != nil {
		t.Fatalf("Statistics() error = %v", err)
	}
	if stats.TotalLoans != 2 || stats.ActiveLoans != 2 {
		t.Errorf("counts = %d/%d, want 2/2", stats.TotalLoans, stats.ActiveLoans)
	}
	if !stats.TotalLent.Equal(d("3000")) || !stats.TotalOutstanding.Equal(d("2750")) || !stats.TotalPaid.Equal(d("250")) {
		t.Errorf("stats = %+v, want lent 3000, outstanding 2750, paid 250", stats)
	}

	active, total, err := loans.ListLoans(f.ctx, pagination.New(1, 10), "active")
	if err != nil {
		t.Fatalf("ListLoans() error = %v", err)
	}
	if total != 2 || len(active) != 2 {
		t.Errorf("ListLoans(active) = %d of %d, want 2 of 2", len(active), total)
	}
	if err := loans.DeleteLoan(f.ctx, f.admin.ID, a.ID); err != nil {
		t.Fatalf("DeleteLoan() error = %v", err)
	}
	if _, err := loans.GetLoan(f.ctx, a.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("GetLoan() after delete error = %v, want ErrNotFound", err)
	}
}

func TestAnalyzeBorrower(t *testing.T) {
	f := newFixture(t)
	loans := NewLoanService(f.store, f.gate, clock)
	f.addEntry(t, f.member.ID, "200000", fixedNow)

	a, err := loans.Analyze(f.ctx, f.member.ID, d("80"), d("10"), 12)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if !a.MaxLoanAmount.Equal(d("160000")) {
		t.Errorf("MaxLoanAmount = %s, want 160000", a.MaxLoanAmount)
	}
	if _, err := loans.Analyze(f.ctx, "missing", d("80"), d("10"), 12); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Analyze(missing) error = %v, want ErrNotFound", err)
	}
}
