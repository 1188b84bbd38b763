package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"savingsfund/internal/adapters/persistence/models"
	"savingsfund/internal/adapters/persistence/repositories"
	"savingsfund/internal/config"

	"github.com/charmbracelet/glamour"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// app is what every database-backed command needs. A CLI run is short lived,
// so commands open it once and close it on exit.
type app struct {
	cfg   *config.Config
	store *repositories.Store
	close func()
}

// openApp loads configuration, opens and migrates the database and seeds the
// admin account when the fund has none.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	db, err := config.Open(cfg.Database, logger.Default.LogMode(logger.Silent))
	if err != nil {
		return nil, err
	}
	return setupApp(ctx, cfg, db)
}

// setupApp migrates and seeds an opened database. db is closed when setup fails.
func setupApp(ctx context.Context, cfg *config.Config, db *gorm.DB) (*app, error) {
	closeDB := func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}

	if err := models.AutoMigrate(db); err != nil {
		closeDB()
		return nil, err
	}

	store := repositories.NewStore(db)
	if err := config.NewSeeder(store, cfg.Admin).Run(ctx); err != nil {
		closeDB()
		return nil, err
	}

	return &app{cfg: cfg, store: store, close: closeDB}, nil
}

// actorID resolves the acting admin by email, defaulting to the seeded admin
func (a *app) actorID(ctx context.Context, email string) (string, error) {
	if email == "" {
		email = a.cfg.Admin.Email
	}
	user, err := a.store.Users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", fmt.Errorf("admin %q: %w", email, err)
	}
	return user.ID, nil
}

// printMarkdown renders md for the terminal, falling back to the raw text
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err == nil {
		if out, err := r.Render(md); err == nil {
			fmt.Print(out)
			return
		}
	}
	fmt.Print(md)
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
