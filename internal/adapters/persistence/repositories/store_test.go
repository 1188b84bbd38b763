package repositories_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"savingsfund/internal/adapters/persistence/models"
	"savingsfund/internal/adapters/persistence/repositories"
	"savingsfund/internal/config"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"gorm.io/gorm/logger"
)

func newStore(t *testing.T) *repositories.Store {
	t.Helper()

	db, err := config.Open(config.DatabaseConfig{Driver: "sqlite", SQLitePath: ":memory:"}, logger.Discard)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return repositories.NewStore(db)
}

func entry(userID, amount string, date time.Time) *models.SavingsEntry {
	return &models.SavingsEntry{UserID: userID, Amount: decimal.RequireFromString(amount), Date: date}
}

func TestTransaction_RollsBack(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	boom := errors.New("boom")

	err := store.Transaction(ctx, func(tx *repositories.Store) error {
		if err := tx.Users.Create(ctx, &models.User{Email: "a@fund.test", Name: "A", PasswordHash: "x", Role: "member"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Transaction() error = %v, want boom", err)
	}

	n, err := store.Users.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if n != 0 {
		t.Errorf("Count() = %d after rollback, want 0", n)
	}
}

func TestEntries_Sums(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	now := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)

	for _, e := range []*models.SavingsEntry{
		entry("a", "10.10", now),
		entry("a", "0.20", now),
		entry("b", "5", now),
	} {
		if err := store.Entries.Create(ctx, e); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	sum, err := store.Entries.SumByUserID(ctx, "a")
	if err != nil {
		t.Fatalf("SumByUserID() error = %v", err)
	}
	if !sum.Equal(decimal.RequireFromString("10.3")) {
		t.Errorf("SumByUserID(a) = %s, want 10.3", sum)
	}

	empty, err := store.Entries.SumByUserID(ctx, "nobody")
	if err != nil || !empty.IsZero() {
		t.Errorf("SumByUserID(nobody) = %s, %v; want 0", empty, err)
	}

	sums, err := store.Entries.SumsByUser(ctx)
	if err != nil {
		t.Fatalf("SumsByUser() error = %v", err)
	}
	if len(sums) != 2 || !sums["b"].Equal(decimal.NewFromInt(5)) {
		t.Errorf("SumsByUser() = %v, want a and b with b = 5", sums)
	}
}

func TestEntries_ListSince(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	for _, e := range []*models.SavingsEntry{
		entry("a", "1", time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)),
		entry("a", "2", time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)),
		entry("a", "3", time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)),
	} {
		if err := store.Entries.Create(ctx, e); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	since := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)
	page, total, err := store.Entries.List(ctx, 0, 1, &since)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 2 || len(page) != 1 || !page[0].Amount.Equal(decimal.NewFromInt(3)) {
		t.Errorf("List() = %d rows of %d, want newest of 2", len(page), total)
	}
}

func TestSettings_SaveUpserts(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	s := models.DefaultSettings("u1")
	if err := store.Settings.Save(ctx, s); err != nil {
		t.Fatalf("Save() insert error = %v", err)
	}
	s.Currency = "EUR"
	if err := store.Settings.Save(ctx, s); err != nil {
		t.Fatalf("Save() update error = %v", err)
	}

	got, err := store.Settings.GetByUserID(ctx, "u1")
	if err != nil {
		t.Fatalf("GetByUserID() error = %v", err)
	}
	if got.Currency != "EUR" {
		t.Errorf("Currency = %q, want EUR", got.Currency)
	}
}

func TestListByRole_InsertionOrderOnEqualCreatedAt(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	joined := time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC)

	var want []string
	for i := 0; i < 20; i++ {
		user := &models.User{
			Email:        fmt.Sprintf("m%02d@fund.test", i),
			Name:         fmt.Sprintf("Member %d", i),
			PasswordHash: "x",
			Role:         "member",
			IsActive:     true,
			CreatedAt:    joined,
		}
		if err := store.Users.Create(ctx, user); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		want = append(want, user.ID)
	}

	users, err := store.Users.ListByRole(ctx, "member")
	if err != nil {
		t.Fatalf("ListByRole() error = %v", err)
	}
	var got []string
	for _, u := range users {
		got = append(got, u.ID)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ListByRole() order mismatch (-want +got):\n%s", diff)
	}
}
