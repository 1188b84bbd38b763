package services

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"savingsfund/internal/core/domain"

	"gorm.io/gorm"
)

// Clock returns the current time; tests pin it.
type Clock func() time.Time

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// normalizeEmail lowercases and trims an email address
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validateEmail checks the address shape, not deliverability
func validateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return domain.Invalid(domain.ErrMalformedEmail)
	}
	return nil
}

// notFound maps a missing row to domain.ErrNotFound
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}

// today truncates t to midnight in its own location
func today(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
