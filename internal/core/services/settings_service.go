package services

import (
	"context"
	"errors"
	"strings"

	"savingsfund/internal/adapters/persistence/models"
	"savingsfund/internal/adapters/persistence/repositories"
	"savingsfund/internal/core/domain"
	"savingsfund/internal/pkg/money"

	"gorm.io/gorm"
)

var supportedLanguages = map[string]bool{"es": true, "en": true}

// SettingsService manages per-user preferences
type SettingsService struct {
	store *repositories.Store
	gate  *Gate
}

// NewSettingsService creates a new settings service
func NewSettingsService(store *repositories.Store, gate *Gate) *SettingsService {
	return &SettingsService{
		store: store,
		gate:  gate,
	}
}

// SettingsInput is a partial settings update
type SettingsInput struct {
	Currency      *string `json:"currency"`
	DarkMode      *bool   `json:"dark_mode"`
	Notifications *bool   `json:"notifications"`
	Language      *string `json:"language"`
}

// Get returns the user's settings, or the defaults when none were saved
func (s *SettingsService) Get(ctx context.Context, userID string) (*models.Settings, error) {
	settings, err := s.store.Settings.GetByUserID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.DefaultSettings(userID), nil
	}
	return settings, err
}

// Update merges input into the user's settings and saves them
func (s *SettingsService) Update(ctx context.Context, userID string, input *SettingsInput) (*models.Settings, error) {
	if _, err := s.gate.Require(ctx, userID, domain.CapSelfWrite); err != nil {
		return nil, err
	}

	settings, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Currency != nil {
		code := strings.ToUpper(strings.TrimSpace(*input.Currency))
		if !money.IsKnownCurrency(code) {
			return nil, domain.Invalidf("unknown currency %q", *input.Currency)
		}
		settings.Currency = code
	}
	if input.Language != nil {
		lang := strings.ToLower(strings.TrimSpace(*input.Language))
		if !supportedLanguages[lang] {
			return nil, domain.Invalidf("unsupported language %q", *input.Language)
		}
		settings.Language = lang
	}
	if input.DarkMode != nil {
		settings.DarkMode = *input.DarkMode
	}
	if input.Notifications != nil {
		settings.Notifications = *input.Notifications
	}

	if err := s.store.Settings.Save(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}
