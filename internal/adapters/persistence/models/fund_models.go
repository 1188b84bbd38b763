package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ============================================================
// Fund Tables
// ============================================================

// SavingsEntry represents savings_entries table (the ledger).
// Rows are never updated, only created or deleted.
type SavingsEntry struct {
	ID          string          `gorm:"primaryKey;size:36" json:"id"`
	UserID      string          `gorm:"index;size:36;not null" json:"user_id"`
	Amount      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Date        time.Time       `gorm:"index;not null" json:"date"`
	Description string          `gorm:"size:255" json:"description"`
	CreatedBy   string          `gorm:"size:36" json:"created_by"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (SavingsEntry) TableName() string {
	return "savings_entries"
}

func (e *SavingsEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = newID()
	}
	return nil
}

// Loan represents loans table
type Loan struct {
	ID               string          `gorm:"primaryKey;size:36" json:"id"`
	UserID           string          `gorm:"index;size:36;not null" json:"user_id"`
	Amount           decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	InterestRate     decimal.Decimal `gorm:"type:decimal(7,4);not null" json:"interest_rate"`
	TermMonths       int             `gorm:"not null" json:"term_months"`
	MonthlyPayment   decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"monthly_payment"`
	RemainingBalance decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"remaining_balance"`
	Status           string          `gorm:"size:20;not null;index" json:"status"`
	StartDate        time.Time       `gorm:"not null" json:"start_date"`
	CreatedBy        string          `gorm:"size:36" json:"created_by"`
	CreatedAt        time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Loan) TableName() string {
	return "loans"
}

func (l *Loan) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = newID()
	}
	return nil
}

// FundSnapshot represents fund_snapshots table, one summary per closed month
type FundSnapshot struct {
	ID             string          `gorm:"primaryKey;size:36" json:"id"`
	Period         string          `gorm:"uniqueIndex;size:7;not null" json:"period"` // YYYY-MM
	TotalMembers   int             `gorm:"not null" json:"total_members"`
	ActiveMembers  int             `gorm:"not null" json:"active_members"`
	TotalSavings   decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"total_savings"`
	MonthlyAverage decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"monthly_average"`
	TopSaverID     string          `gorm:"size:36" json:"top_saver_id,omitempty"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (FundSnapshot) TableName() string {
	return "fund_snapshots"
}

func (s *FundSnapshot) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = newID()
	}
	return nil
}

// ============================================================
// Personal Finance Tables
// ============================================================

// Debt represents debts table, a member's own debt with a third party
type Debt struct {
	ID             string          `gorm:"primaryKey;size:36" json:"id"`
	UserID         string          `gorm:"index;size:36;not null" json:"user_id"`
	Creditor       string          `gorm:"size:100;not null" json:"creditor"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"total_amount"`
	CurrentBalance decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"current_balance"`
	InterestRate   decimal.Decimal `gorm:"type:decimal(7,4);not null" json:"interest_rate"`
	MonthlyPayment decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"monthly_payment"`
	StartDate      time.Time       `gorm:"not null" json:"start_date"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Debt) TableName() string {
	return "debts"
}

func (d *Debt) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = newID()
	}
	return nil
}

// SavingsGoal represents savings_goals table
type SavingsGoal struct {
	ID            string          `gorm:"primaryKey;size:36" json:"id"`
	UserID        string          `gorm:"index;size:36;not null" json:"user_id"`
	Name          string          `gorm:"size:100;not null" json:"name"`
	TargetAmount  decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"target_amount"`
	CurrentAmount decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"current_amount"`
	Deadline      time.Time       `gorm:"not null" json:"deadline"`
	Description   string          `gorm:"type:text" json:"description"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (SavingsGoal) TableName() string {
	return "savings_goals"
}

func (g *SavingsGoal) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = newID()
	}
	return nil
}
