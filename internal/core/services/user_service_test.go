package services

import (
	"errors"
	"testing"

	"savingsfund/internal/adapters/persistence/models"
	"savingsfund/internal/core/domain"
	"savingsfund/internal/pkg/pagination"
)

func TestGate_Require(t *testing.T) {
	f := newFixture(t)
	inactive := f.addUser(t, "Former Admin", "former@fund.test", domain.RoleAdmin)
	f.deactivate(t, inactive)

	tests := []struct {
		name    string
		actorID string
		cap     domain.Capability
		wantErr bool
	}{
		{"admin writes ledger", f.admin.ID, domain.CapLedgerWrite, false},
		{"member writes ledger", f.member.ID, domain.CapLedgerWrite, true},
		{"member writes own data", f.member.ID, domain.CapSelfWrite, false},
		{"inactive admin", inactive.ID, domain.CapLedgerWrite, true},
		{"unknown actor", "missing", domain.CapLedgerWrite, true},
		{"anonymous", "", domain.CapSelfWrite, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.gate.Require(f.ctx, tt.actorID, tt.cap)
			if tt.wantErr && !errors.Is(err, domain.ErrPermissionDenied) {
				t.Errorf("Require() error = %v, want ErrPermissionDenied", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Require() error = %v, want nil", err)
			}
		})
	}
}

func TestCreateUser_DefaultsToMember(t *testing.T) {
	f := newFixture(t)
	users := NewUserService(f.store, f.gate, f.cfg)

	created, err := users.CreateUser(f.ctx, f.admin.ID, &CreateUserInput{Name: "Eva", Email: "eva@fund.test"})
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	if created.Role != string(domain.RoleMember) || !created.IsActive {
		t.Errorf("created = %+v, want an active member", created)
	}

	if _, err := users.CreateUser(f.ctx, f.member.ID, &CreateUserInput{Name: "Zoe", Email: "zoe@fund.test"}); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Errorf("CreateUser() by member error = %v, want ErrPermissionDenied", err)
	}
}

func TestMergeUserUpdate(t *testing.T) {
	str := func(s string) *string { return &s }
	no := false

	tests := []struct {
		name    string
		in      UpdateUserInput
		want    models.User
		wantErr error
	}{
		{
			name: "partial",
			in:   UpdateUserInput{Name: str("  New Name ")},
			want: models.User{Name: "New Name", Email: "a@fund.test", Role: "member", IsActive: true},
		},
		{
			name: "all fields",
			in:   UpdateUserInput{Email: str("B@Fund.test"), Role: str("admin"), IsActive: &no},
			want: models.User{Name: "A", Email: "b@fund.test", Role: "admin", IsActive: false},
		},
		{name: "blank name", in: UpdateUserInput{Name: str(" ")}, wantErr: domain.ErrValidation},
		{name: "bad email", in: UpdateUserInput{Email: str("nope")}, wantErr: domain.ErrMalformedEmail},
		{name: "bad role", in: UpdateUserInput{Role: str("owner")}, wantErr: domain.ErrInvalidRole},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := models.User{Name: "A", Email: "a@fund.test", Role: "member", IsActive: true}
			err := MergeUserUpdate(&user, &tt.in)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("MergeUserUpdate() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("MergeUserUpdate() error = %v", err)
			}
			if user != tt.want {
				t.Errorf("MergeUserUpdate() = %+v, want %+v", user, tt.want)
			}
		})
	}
}

func TestUpdateUser(t *testing.T) {
	f := newFixture(t)
	users := NewUserService(f.store, f.gate, f.cfg)
	other := f.addUser(t, "Other", "other@fund.test", domain.RoleMember)

	email := other.Email
	if _, err := users.UpdateUser(f.ctx, f.admin.ID, f.member.ID, &UpdateUserInput{Email: &email}); !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Errorf("UpdateUser(taken email) error = %v, want ErrDuplicateEmail", err)
	}

	role := string(domain.RoleMember)
	if _, err := users.UpdateUser(f.ctx, f.admin.ID, f.admin.ID, &UpdateUserInput{Role: &role}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("UpdateUser(own role) error = %v, want ErrValidation", err)
	}

	f.addEntry(t, f.member.ID, "40", fixedNow)
	name := "Renamed"
	got, err := users.UpdateUser(f.ctx, f.admin.ID, f.member.ID, &UpdateUserInput{Name: &name})
	if err != nil {
		t.Fatalf("UpdateUser() error = %v", err)
	}
	if got.Name != "Renamed" || !got.TotalSavings.Equal(d("40")) {
		t.Errorf("UpdateUser() = %+v, want renamed with total 40", got)
	}
}

func TestDeleteUser_Cascades(t *testing.T) {
	f := newFixture(t)
	users := NewUserService(f.store, f.gate, f.cfg)
	other := f.addUser(t, "Other", "other@fund.test", domain.RoleMember)

	f.addEntry(t, f.member.ID, "100", fixedNow)
	kept := f.addEntry(t, other.ID, "70", fixedNow)
	if err := f.store.Loans.Create(f.ctx, &models.Loan{
		UserID: f.member.ID, Amount: d("500"), InterestRate: d("5"), TermMonths: 5,
		MonthlyPayment: d("125"), RemainingBalance: d("500"), Status: "active", StartDate: fixedNow,
	}); err != nil {
		t.Fatalf("create loan: %v", err)
	}
	if err := f.store.Debts.Create(f.ctx, &models.Debt{
		UserID: f.member.ID, Creditor: "Bank", TotalAmount: d("10"), CurrentBalance: d("10"),
		InterestRate: d("0"), MonthlyPayment: d("1"), StartDate: fixedNow,
	}); err != nil {
		t.Fatalf("create debt: %v", err)
	}

	if err := users.DeleteUser(f.ctx, f.admin.ID, f.member.ID); err != nil {
		t.Fatalf("DeleteUser() error = %v", err)
	}

	if _, err := users.GetUserByID(f.ctx, f.member.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("GetUserByID() after delete error = %v, want ErrNotFound", err)
	}
	entries, _ := f.store.Entries.ListAll(f.ctx)
	if len(entries) != 1 || entries[0].ID != kept.ID {
		t.Errorf("remaining entries = %d, want only the other user's", len(entries))
	}
	loans, _ := f.store.Loans.ListByUserID(f.ctx, f.member.ID)
	debts, _ := f.store.Debts.ListByUserID(f.ctx, f.member.ID)
	if len(loans) != 0 || len(debts) != 0 {
		t.Errorf("loans = %d, debts = %d after delete, want none", len(loans), len(debts))
	}
}

func TestDeleteUser_RejectsAdmins(t *testing.T) {
	f := newFixture(t)
	users := NewUserService(f.store, f.gate, f.cfg)
	second := f.addUser(t, "Second Admin", "second@fund.test", domain.RoleAdmin)

	err := users.DeleteUser(f.ctx, f.admin.ID, second.ID)
	if !errors.Is(err, domain.ErrCannotDeleteAdmin) {
		t.Errorf("DeleteUser(admin) error = %v, want ErrCannotDeleteAdmin", err)
	}
	if err := users.DeleteUser(f.ctx, f.member.ID, f.admin.ID); !errors.Is(err, domain.ErrPermissionDenied) {
		t.Errorf("DeleteUser() by member error = %v, want ErrPermissionDenied", err)
	}
	if err := users.DeleteUser(f.ctx, f.admin.ID, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("DeleteUser(missing) error = %v, want ErrNotFound", err)
	}
}

func TestListUsers_IncludesTotals(t *testing.T) {
	f := newFixture(t)
	users := NewUserService(f.store, f.gate, f.cfg)
	f.addEntry(t, f.member.ID, "10.25", fixedNow)
	f.addEntry(t, f.member.ID, "5", fixedNow)

	list, total, err := users.ListUsers(f.ctx, pagination.New(1, 10))
	if err != nil {
		t.Fatalf("ListUsers() error = %v", err)
	}
	if total != 2 || len(list) != 2 {
		t.Fatalf("ListUsers() = %d rows of %d, want 2 of 2", len(list), total)
	}
	for _, u := range list {
		want := d("0")
		if u.ID == f.member.ID {
			want = d("15.25")
		}
		if !u.TotalSavings.Equal(want) {
			t.Errorf("%s total = %s, want %s", u.Email, u.TotalSavings, want)
		}
	}
}
