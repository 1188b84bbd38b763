package services

import (
	"errors"
	"testing"

	"savingsfund/internal/core/domain"
	"savingsfund/internal/core/finance"
)

func TestDebtLifecycle(t *testing.T) {
	f := newFixture(t)
	debts := NewDebtService(f.store, f.gate, clock)

	view, err := debts.Create(f.ctx, f.member.ID, &DebtInput{
		Creditor:       " Bank ",
		TotalAmount:    d("1000"),
		CurrentBalance: d("1000"),
		InterestRate:   d("12"),
		MonthlyPayment: d("100"),
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if view.Creditor != "Bank" || view.Status != finance.DebtHigh {
		t.Errorf("Create() = %s %s, want Bank high", view.Creditor, view.Status)
	}
	if view.PayoffMonths == nil || *view.PayoffMonths != 11 {
		t.Errorf("PayoffMonths = %v, want 11", view.PayoffMonths)
	}

	view, err = debts.Pay(f.ctx, f.member.ID, view.ID, &PaymentInput{Amount: d("800")})
	if err != nil {
		t.Fatalf("Pay() error = %v", err)
	}
	if !view.CurrentBalance.Equal(d("200")) || view.Status != finance.DebtGood {
		t.Errorf("after payment = %s %s, want 200 good", view.CurrentBalance, view.Status)
	}

	view, err = debts.Pay(f.ctx, f.member.ID, view.ID, &PaymentInput{Amount: d("5000")})
	if err != nil {
		t.Fatalf("Pay() error = %v", err)
	}
	if !view.CurrentBalance.IsZero() || view.Status != finance.DebtPaid {
		t.Errorf("after overpayment = %s %s, want 0 paid", view.CurrentBalance, view.Status)
	}

	list, err := debts.List(f.ctx, f.member.ID)
	if err != nil || len(list) != 1 {
		t.Fatalf("List() = %d, %v; want 1 debt", len(list), err)
	}
	if err := debts.Delete(f.ctx, f.member.ID, view.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
}

func TestDebt_OwnershipAndValidation(t *testing.T) {
	f := newFixture(t)
	debts := NewDebtService(f.store, f.gate, clock)
	other := f.addUser(t, "Other", "other@fund.test", domain.RoleMember)

	view, err := debts.Create(f.ctx, f.member.ID, &DebtInput{Creditor: "Bank", TotalAmount: d("10"), CurrentBalance: d("10")})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if view.PayoffMonths != nil {
		t.Errorf("PayoffMonths = %d with no payment, want nil", *view.PayoffMonths)
	}

	if _, err := debts.Pay(f.ctx, other.ID, view.ID, &PaymentInput{Amount: d("1")}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Pay() on another user's debt error = %v, want ErrNotFound", err)
	}
	if err := debts.Delete(f.ctx, f.admin.ID, view.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Delete() by admin error = %v, want ErrNotFound", err)
	}

	blank := ""
	if _, err := debts.Update(f.ctx, f.member.ID, view.ID, &DebtUpdate{Creditor: &blank}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("Update(blank creditor) error = %v, want ErrValidation", err)
	}
	if _, err := debts.Create(f.ctx, f.member.ID, &DebtInput{Creditor: "X", TotalAmount: d("0")}); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Errorf("Create(zero total) error = %v, want ErrInvalidAmount", err)
	}

	f.deactivate(t, f.member)
	if _, err := debts.Create(f.ctx, f.member.ID, &DebtInput{Creditor: "X", TotalAmount: d("1")}); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Errorf("Create() by inactive user error = %v, want ErrPermissionDenied", err)
	}
}

func TestGoals(t *testing.T) {
	f := newFixture(t)
	goals := NewGoalService(f.store, f.gate, clock)

	view, err := goals.Create(f.ctx, f.member.ID, &GoalInput{
		Name:          "Car",
		TargetAmount:  d("1000"),
		CurrentAmount: d("250"),
		Deadline:      day(2025, 3, 30),
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if !view.Progress.Equal(d("25")) || view.DaysRemaining != 10 {
		t.Errorf("Create() = %s%% with %d days, want 25%% with 10 days", view.Progress, view.DaysRemaining)
	}

	view, err = goals.Contribute(f.ctx, f.member.ID, view.ID, &PaymentInput{Amount: d("2000")})
	if err != nil {
		t.Fatalf("Contribute() error = %v", err)
	}
	if !view.Progress.Equal(d("100")) || !view.CurrentAmount.Equal(d("2250")) {
		t.Errorf("after contribution = %s%% of %s, want capped 100%% of 2250", view.Progress, view.CurrentAmount)
	}

	if _, err := goals.Update(f.ctx, f.admin.ID, view.ID, &GoalUpdate{}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Update() on another user's goal error = %v, want ErrNotFound", err)
	}
	if _, err := goals.Create(f.ctx, f.member.ID, &GoalInput{Name: "No deadline", TargetAmount: d("1")}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("Create(no deadline) error = %v, want ErrValidation", err)
	}
}

func TestSettings(t *testing.T) {
	f := newFixture(t)
	settings := NewSettingsService(f.store, f.gate)

	got, err := settings.Get(f.ctx, f.member.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Currency != "USD" || got.Language != "es" || got.DarkMode || !got.Notifications {
		t.Errorf("defaults = %+v, want USD/es/light/notifications on", got)
	}

	eur, en, dark := "eur", "EN", true
	got, err = settings.Update(f.ctx, f.member.ID, &SettingsInput{Currency: &eur, Language: &en, DarkMode: &dark})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if got.Currency != "EUR" || got.Language != "en" || !got.DarkMode {
		t.Errorf("Update() = %+v, want EUR/en/dark", got)
	}

	stored, err := settings.Get(f.ctx, f.member.ID)
	if err != nil || stored.Currency != "EUR" {
		t.Errorf("Get() after update = %+v, %v; want EUR", stored, err)
	}

	bogus := "XYZ1"
	if _, err := settings.Update(f.ctx, f.member.ID, &SettingsInput{Currency: &bogus}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("Update(bogus currency) error = %v, want ErrValidation", err)
	}
	fr := "fr"
	if _, err := settings.Update(f.ctx, f.member.ID, &SettingsInput{Language: &fr}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("Update(fr) error = %v, want ErrValidation", err)
	}
}
