package main

import (
	"context"
	"testing"

	"savingsfund/internal/config"

	"gorm.io/gorm/logger"
)

func TestSetupApp_ClosesDatabaseOnMigrationFailure(t *testing.T) {
	db, err := config.Open(config.DatabaseConfig{Driver: "sqlite", SQLitePath: ":memory:"}, logger.Discard)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	// a view holding the users table name makes the migration fail
	if err := db.Exec("CREATE VIEW users AS SELECT 1 AS id").Error; err != nil {
		t.Fatalf("create view: %v", err)
	}

	if _, err := setupApp(context.Background(), &config.Config{}, db); err == nil {
		t.Fatal("setupApp() error = nil, want migration failure")
	}
	if err := sqlDB.Ping(); err == nil {
		t.Error("database still open after failed setup")
	}
}

func TestSetupApp_SeedsAdmin(t *testing.T) {
	db, err := config.Open(config.DatabaseConfig{Driver: "sqlite", SQLitePath: ":memory:"}, logger.Discard)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	cfg := &config.Config{Admin: config.AdminConfig{Email: "Admin@Fund.test", Password: "secret123", Name: "Admin"}}

	a, err := setupApp(context.Background(), cfg, db)
	if err != nil {
		t.Fatalf("setupApp() error = %v", err)
	}
	defer a.close()

	if _, err := a.actorID(context.Background(), ""); err != nil {
		t.Errorf("actorID(default admin) error = %v", err)
	}
	if _, err := a.actorID(context.Background(), "nobody@fund.test"); err == nil {
		t.Error("actorID(unknown) error = nil")
	}
}
