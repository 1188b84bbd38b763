package services

import (
	"context"
	"testing"
	"time"

	"savingsfund/internal/adapters/persistence/models"
	"savingsfund/internal/adapters/persistence/repositories"
	"savingsfund/internal/config"
	"savingsfund/internal/core/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm/logger"
)

var fixedNow = time.Date(2025, time.March, 20, 10, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// fixture is an in-memory fund with one admin and one member
type fixture struct {
	ctx    context.Context
	store  *repositories.Store
	cfg    *config.Config
	gate   *Gate
	admin  *models.User
	member *models.User
}

func testConfig() *config.Config {
	return &config.Config{
		AppMode: "dev",
		JWT: config.JWTConfig{
			Secret:           "test-access-secret",
			RefreshSecret:    "test-refresh-secret",
			AccessTokenMins:  15,
			RefreshTokenDays: 7,
		},
		Fund: config.FundConfig{
			Currency:              "USD",
			ImportDefaultPassword: "123456",
		},
	}
}

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

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := newStore(t)
	f := &fixture{
		ctx:   context.Background(),
		store: store,
		cfg:   testConfig(),
		gate:  NewGate(store),
	}
	f.admin = f.addUser(t, "Fund Admin", "admin@fund.test", domain.RoleAdmin)
	f.member = f.addUser(t, "Member", "member@fund.test", domain.RoleMember)
	return f
}

// addUser inserts an active user directly; its password cannot be used to log in
func (f *fixture) addUser(t *testing.T, name, email string, role domain.Role) *models.User {
	t.Helper()

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: "unusable",
		Role:         string(role),
		IsActive:     true,
	}
	if err := f.store.Users.Create(f.ctx, user); err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return user
}

func (f *fixture) addEntry(t *testing.T, userID, amount string, date time.Time) *models.SavingsEntry {
	t.Helper()

	entry := &models.SavingsEntry{
		UserID:    userID,
		Amount:    d(amount),
		Date:      date,
		CreatedBy: f.admin.ID,
	}
	if err := f.store.Entries.Create(f.ctx, entry); err != nil {
		t.Fatalf("create entry: %v", err)
	}
	return entry
}

func (f *fixture) deactivate(t *testing.T, user *models.User) {
	t.Helper()

	user.IsActive = false
	if err := f.store.Users.Update(f.ctx, user); err != nil {
		t.Fatalf("deactivate %s: %v", user.Email, err)
	}
}

func day(y int, m time.Month, dd int) time.Time {
	return time.Date(y, m, dd, 0, 0, 0, 0, time.UTC)
}
