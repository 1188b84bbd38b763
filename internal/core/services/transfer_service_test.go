package services

import (
	"bytes"
	"encoding/csv"
	"errors"
	"strings"
	"testing"

	"savingsfund/internal/core/domain"
	"savingsfund/internal/pkg/password"

	"github.com/google/go-cmp/cmp"
)

func readCSV(t *testing.T, s string) [][]string {
	t.Helper()
	records, err := csv.NewReader(strings.NewReader(s)).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	return records
}

func TestExportMembers(t *testing.T) {
	f := newFixture(t)
	transfer := NewTransferService(f.store, f.gate, f.cfg, clock)

	f.addEntry(t, f.member.ID, "100", day(2025, 1, 10))
	f.addEntry(t, f.member.ID, "50.5", day(2025, 2, 10))
	f.addEntry(t, f.admin.ID, "10", day(2025, 2, 10))

	var buf bytes.Buffer
	if err := transfer.ExportMembers(f.ctx, &buf); err != nil {
		t.Fatalf("ExportMembers() error = %v", err)
	}
	records := readCSV(t, buf.String())

	if diff := cmp.Diff(memberHeader, records[0]); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}
	if len(records) != 2 {
		t.Fatalf("got %d rows, want header plus one member", len(records))
	}
	want := []string{f.member.ID, "Member", "member@fund.test", "Active", "150.50", "2", "2025-02-10", "50.50"}
	if diff := cmp.Diff(want, records[1][:8]); diff != "" {
		t.Errorf("member row mismatch (-want +got):\n%s", diff)
	}
}

func TestExportEntries(t *testing.T) {
	f := newFixture(t)
	transfer := NewTransferService(f.store, f.gate, f.cfg, clock)

	f.addEntry(t, f.member.ID, "12", day(2025, 1, 10))
	orphan := f.addEntry(t, "gone", "3", day(2025, 1, 11))

	var buf bytes.Buffer
	if err := transfer.ExportEntries(f.ctx, &buf); err != nil {
		t.Fatalf("ExportEntries() error = %v", err)
	}
	records := readCSV(t, buf.String())

	if len(records) != 3 {
		t.Fatalf("got %d rows, want header plus two entries", len(records))
	}
	if diff := cmp.Diff([]string{"Member", "member@fund.test", "12.00", "2025-01-10"}, records[1][1:5]); diff != "" {
		t.Errorf("entry row mismatch (-want +got):\n%s", diff)
	}
	if records[1][6] != "Fund Admin" {
		t.Errorf("Registered By = %q, want the admin's name", records[1][6])
	}
	if records[2][0] != orphan.ID || records[2][1] != unknownUser || records[2][2] != "" {
		t.Errorf("orphan row = %v, want unknown user with empty email", records[2])
	}
}

func TestMembersRoundTrip(t *testing.T) {
	src := newFixture(t)
	alice := src.addUser(t, "Alice", "alice@fund.test", domain.RoleMember)
	src.addEntry(t, alice.ID, "100", day(2025, 1, 10))
	src.addEntry(t, alice.ID, "25.75", day(2025, 2, 10))
	bob := src.addUser(t, "Bob", "bob@fund.test", domain.RoleMember)
	src.deactivate(t, bob)

	var buf bytes.Buffer
	if err := NewTransferService(src.store, src.gate, src.cfg, clock).ExportMembers(src.ctx, &buf); err != nil {
		t.Fatalf("ExportMembers() error = %v", err)
	}

	dst := newFixture(t)
	result, err := NewTransferService(dst.store, dst.gate, dst.cfg, clock).ImportMembers(dst.ctx, dst.admin.ID, &buf)
	if err != nil {
		t.Fatalf("ImportMembers() error = %v", err)
	}
	// member@fund.test exists in both fixtures
	if result.Imported != 2 || result.Failed != 1 {
		t.Fatalf("ImportMembers() = %+v, want 2 imported, 1 failed", result)
	}

	got, err := dst.store.Users.GetByEmail(dst.ctx, "alice@fund.test")
	if err != nil {
		t.Fatalf("imported alice missing: %v", err)
	}
	total, err := dst.store.Entries.SumByUserID(dst.ctx, got.ID)
	if err != nil {
		t.Fatalf("SumByUserID() error = %v", err)
	}
	if got.Name != "Alice" || !total.Equal(d("125.75")) {
		t.Errorf("alice = %q with %s, want Alice with 125.75", got.Name, total)
	}
	if !password.Verify(dst.cfg.Fund.ImportDefaultPassword, got.PasswordHash) {
		t.Error("imported member does not use the default password")
	}

	entries, _ := dst.store.Entries.ListByUserID(dst.ctx, got.ID)
	if len(entries) != 1 || entries[0].Description != importDescription || entries[0].CreatedBy != dst.admin.ID {
		t.Errorf("imported entries = %+v, want one %q entry by the importing admin", entries, importDescription)
	}
	if imported, err := dst.store.Users.GetByEmail(dst.ctx, "bob@fund.test"); err != nil {
		t.Errorf("bob not imported: %v", err)
	} else if total, _ := dst.store.Entries.SumByUserID(dst.ctx, imported.ID); !total.IsZero() {
		t.Errorf("bob total = %s, want 0", total)
	}
}

func TestImportMembers_BestEffort(t *testing.T) {
	f := newFixture(t)
	transfer := NewTransferService(f.store, f.gate, f.cfg, clock)

	input := strings.Join([]string{
		"Nombre,Email,Total Ahorrado",
		"Carla,carla@fund.test,30",
		",nameless@fund.test,5",
		"Dani,dani@fund.test,lots",
		"Eve,not-an-email,5",
	}, "\n")

	result, err := transfer.ImportMembers(f.ctx, f.admin.ID, strings.NewReader(input))
	if err != nil {
		t.Fatalf("ImportMembers() error = %v", err)
	}
	if result.Imported != 1 || result.Failed != 3 || len(result.Errors) != 3 {
		t.Errorf("ImportMembers() = %+v, want 1 imported, 3 failed", result)
	}

	if _, err := transfer.ImportMembers(f.ctx, f.admin.ID, strings.NewReader("Foo,Bar\n1,2\n")); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("missing columns error = %v, want ErrValidation", err)
	}
	if _, err := transfer.ImportMembers(f.ctx, f.member.ID, strings.NewReader(input)); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Errorf("member import error = %v, want ErrPermissionDenied", err)
	}
}

const legacySnapshot = `{
  "savings-fund-users": [
    {"id": "u1", "email": "Old@Fund.test", "name": "Old", "createdAt": "2024-05-01T10:00:00.000Z", "role": "member", "isActive": true, "passwordHash": "1450575459"},
    {"id": "u2", "email": "member@fund.test", "name": "Clash", "createdAt": "2024-05-01T10:00:00.000Z", "role": "member", "isActive": true, "passwordHash": "1"}
  ],
  "savings-fund-entries": [
    {"id": "e1", "userId": "u1", "amount": 250.5, "date": "2024-05-02", "description": "first", "createdAt": "2024-05-02T09:00:00.000Z", "createdBy": "admin-1"},
    {"id": "e2", "userId": "nobody", "amount": 10, "date": "2024-05-02", "description": "orphan", "createdAt": "2024-05-02T09:00:00.000Z", "createdBy": "admin-1"}
  ],
  "savings-fund-loans": [
    {"id": "l1", "userId": "u1", "amount": 1000, "interestRate": 10, "termMonths": 10, "monthlyPayment": 110.47, "remainingBalance": 800, "status": "active", "startDate": "2024-06-01T00:00:00.000Z", "createdBy": "admin-1", "createdAt": "2024-06-01T00:00:00.000Z"}
  ]
}`

func TestImportLegacy(t *testing.T) {
	f := newFixture(t)
	transfer := NewTransferService(f.store, f.gate, f.cfg, clock)

	result, err := transfer.ImportLegacy(f.ctx, f.admin.ID, strings.NewReader(legacySnapshot))
	if err != nil {
		t.Fatalf("ImportLegacy() error = %v", err)
	}
	if result.Users.Imported != 1 || result.Users.Failed != 1 {
		t.Errorf("users = %+v, want 1 imported, 1 failed", result.Users)
	}
	if result.Entries.Imported != 1 || result.Entries.Failed != 1 {
		t.Errorf("entries = %+v, want 1 imported, 1 failed", result.Entries)
	}
	if result.Loans.Imported != 1 {
		t.Errorf("loans = %+v, want 1 imported", result.Loans)
	}

	user, err := f.store.Users.GetByID(f.ctx, "u1")
	if err != nil {
		t.Fatalf("legacy user id not preserved: %v", err)
	}
	if user.Email != "old@fund.test" || !password.NeedsUpgrade(user.PasswordHash) {
		t.Errorf("user = %s %q, want normalized email and a legacy hash", user.Email, user.PasswordHash)
	}

	loan, err := f.store.Loans.GetByID(f.ctx, "l1")
	if err != nil {
		t.Fatalf("legacy loan missing: %v", err)
	}
	if !loan.MonthlyPayment.Equal(d("110.47")) || !loan.RemainingBalance.Equal(d("800")) {
		t.Errorf("loan = %s / %s, want stored 110.47 / 800", loan.MonthlyPayment, loan.RemainingBalance)
	}

	auth := NewAuthService(f.store, f.cfg)
	if _, err := auth.Login(f.ctx, &LoginInput{Email: "old@fund.test", Password: "123456"}); err != nil {
		t.Errorf("Login() with legacy password error = %v", err)
	}

	again, err := transfer.ImportLegacy(f.ctx, f.admin.ID, strings.NewReader(legacySnapshot))
	if err != nil {
		t.Fatalf("second ImportLegacy() error = %v", err)
	}
	if again.Users.Imported+again.Entries.Imported+again.Loans.Imported != 0 {
		t.Errorf("second import = %+v, want everything skipped", again)
	}
}

func TestImportLegacy_RejectsUnboundedTerm(t *testing.T) {
	f := newFixture(t)
	transfer := NewTransferService(f.store, f.gate, f.cfg, clock)

	dump := `{"savings-fund-loans": [
    {"id": "l9", "userId": "` + f.member.ID + `", "amount": 1000, "interestRate": 1, "termMonths": 1099511627776, "monthlyPayment": 10, "remainingBalance": 1000, "status": "active", "startDate": "2024-06-01T00:00:00.000Z", "createdBy": "admin-1"}
  ]}`

	result, err := transfer.ImportLegacy(f.ctx, f.admin.ID, strings.NewReader(dump))
	if err != nil {
		t.Fatalf("ImportLegacy() error = %v", err)
	}
	if result.Loans.Imported != 0 || result.Loans.Failed != 1 {
		t.Errorf("loans = %+v, want 0 imported, 1 failed", result.Loans)
	}
	if _, err := f.store.Loans.GetByID(f.ctx, "l9"); err == nil {
		t.Errorf("loan with an unbounded term was stored")
	}
}
