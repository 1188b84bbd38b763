package config

import (
	"context"
	"log"
	"strings"

	"savingsfund/internal/adapters/persistence/models"
	"savingsfund/internal/adapters/persistence/repositories"
	"savingsfund/internal/core/domain"
	"savingsfund/internal/pkg/password"
)

// Seeder handles database seeding
type Seeder struct {
	store *repositories.Store
	admin AdminConfig
}

// NewSeeder creates a new seeder instance
func NewSeeder(store *repositories.Store, admin AdminConfig) *Seeder {
	return &Seeder{store: store, admin: admin}
}

// Run executes all seeders
func (s *Seeder) Run(ctx context.Context) error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedAdminUser(ctx); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedAdminUser creates the configured admin when the fund has none.
// Change ADMIN_PASSWORD before exposing the server.
func (s *Seeder) seedAdminUser(ctx context.Context) error {
	count, err := s.store.Users.CountByRole(ctx, string(domain.RoleAdmin))
	if err != nil {
		return err
	}
	if count > 0 {
		return nil // Admin already exists
	}

	email := strings.ToLower(strings.TrimSpace(s.admin.Email))
	exists, err := s.store.Users.ExistsByEmail(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		log.Printf("⚠️ Skipping admin seed: %s exists but is not an admin", email)
		return nil
	}

	hashedPassword, err := password.Hash(s.admin.Password)
	if err != nil {
		return err
	}

	admin := &models.User{
		Email:        email,
		Name:         s.admin.Name,
		PasswordHash: hashedPassword,
		Role:         string(domain.RoleAdmin),
		IsActive:     true,
	}
	if err := s.store.Users.Create(ctx, admin); err != nil {
		return err
	}

	log.Printf("✅ Admin user created: %s", admin.Email)
	return nil
}
