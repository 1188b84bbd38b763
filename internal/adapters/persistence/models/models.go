package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ============================================================
// Auth & User Tables
// ============================================================

// User represents users table
type User struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Email        string    `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	PasswordHash string    `gorm:"column:password;size:255;not null" json:"-"`
	Role         string    `gorm:"size:20;not null;index" json:"role"`
	IsActive     bool      `gorm:"not null" json:"is_active"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// TotalSavings is filled from the ledger on read, never stored
	TotalSavings decimal.Decimal `gorm:"-" json:"total_savings"`
}

func (User) TableName() string {
	return "users"
}

// newID returns a UUIDv7. Ids are time ordered and monotonic within the
// process, so "created_at, id" sorts rows in insertion order.
func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = newID()
	}
	return nil
}

// UserResponse DTO
type UserResponse struct {
	ID           string          `json:"id"`
	Email        string          `json:"email"`
	Name         string          `json:"name"`
	Role         string          `json:"role"`
	IsActive     bool            `json:"is_active"`
	TotalSavings decimal.Decimal `json:"total_savings"`
	CreatedAt    time.Time       `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		Role:         u.Role,
		IsActive:     u.IsActive,
		TotalSavings: u.TotalSavings,
		CreatedAt:    u.CreatedAt,
	}
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        string     `gorm:"primaryKey;size:36" json:"id"`
	UserID    string     `gorm:"index;size:36;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// Settings represents user_settings table, one row per user
type Settings struct {
	UserID        string    `gorm:"primaryKey;size:36" json:"user_id"`
	Currency      string    `gorm:"size:3;not null" json:"currency"`
	DarkMode      bool      `gorm:"not null" json:"dark_mode"`
	Notifications bool      `gorm:"not null" json:"notifications"`
	Language      string    `gorm:"size:5;not null" json:"language"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Settings) TableName() string {
	return "user_settings"
}

// DefaultSettings is what a user sees before saving anything
func DefaultSettings(userID string) *Settings {
	return &Settings{
		UserID:        userID,
		Currency:      "USD",
		DarkMode:      false,
		Notifications: true,
		Language:      "es",
	}
}

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		// Auth
		&User{},
		&RefreshToken{},
		&Settings{},
		// Fund
		&SavingsEntry{},
		&Loan{},
		&FundSnapshot{},
		// Personal finance
		&Debt{},
		&SavingsGoal{},
	)
}
