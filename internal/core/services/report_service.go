package services

import (
	"context"
	"errors"
	"log"
	"time"

	"savingsfund/internal/adapters/persistence/models"
	"savingsfund/internal/adapters/persistence/repositories"
	"savingsfund/internal/core/domain"
	"savingsfund/internal/core/finance"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Trend lengths used by the dashboards
const (
	FundTrendMonths  = 6
	UserTrendMonths  = 12
	DefaultTopSavers = 5
)

// ReportService derives fund reports from the ledger, users and loans.
// Fund-wide reads need report:read; users may read their own dashboard.
type ReportService struct {
	store *repositories.Store
	gate  *Gate
	now   Clock
}

// NewReportService creates a new report service
func NewReportService(store *repositories.Store, gate *Gate, now Clock) *ReportService {
	return &ReportService{
		store: store,
		gate:  gate,
		now:   now,
	}
}

// FundSummaryOutput is the fund summary with the top saver resolved
type FundSummaryOutput struct {
	finance.FundSummary
	TopSaver *models.UserResponse `json:"top_saver"`
}

// LoanTotals summarises one borrower's loans
type LoanTotals struct {
	Borrowed decimal.Decimal `json:"borrowed"`
	Owed     decimal.Decimal `json:"owed"`
	Paid     decimal.Decimal `json:"paid"`
	Active   int             `json:"active"`
}

// UserDashboard is everything a member sees about their own money in the fund
type UserDashboard struct {
	User    *models.UserResponse   `json:"user"`
	Entries []*models.SavingsEntry `json:"entries"`
	Loans   []*models.Loan         `json:"loans"`
	LoanTotals
	Trend []finance.MonthBucket `json:"trend"`
}

// FundSummary computes the summary over role=member users
func (s *ReportService) FundSummary(ctx context.Context, actorID string) (*FundSummaryOutput, error) {
	if _, err := s.gate.Require(ctx, actorID, domain.CapReportRead); err != nil {
		return nil, err
	}

	members, err := s.memberTotals(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := s.store.Entries.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	summary := finance.Summarize(totalsOf(members), deposits(entries), s.now())
	out := &FundSummaryOutput{FundSummary: summary}
	for _, m := range members {
		if m.ID == summary.TopSaverID {
			out.TopSaver = m.ToResponse()
			break
		}
	}
	return out, nil
}

// MonthlyTrend buckets the ledger into trailing months. An empty userID
// covers the whole fund.
func (s *ReportService) MonthlyTrend(ctx context.Context, actorID string, months int, userID string) ([]finance.MonthBucket, error) {
	if _, err := s.gate.Require(ctx, actorID, domain.CapReportRead); err != nil {
		return nil, err
	}
	if months < 1 || months > 120 {
		return nil, domain.Invalidf("months must be between 1 and 120")
	}

	var entries []*models.SavingsEntry
	var err error
	if userID == "" {
		entries, err = s.store.Entries.ListAll(ctx)
	} else {
		entries, err = s.store.Entries.ListByUserID(ctx, userID)
	}
	if err != nil {
		return nil, err
	}
	return finance.MonthlyTrend(deposits(entries), s.now(), months), nil
}

// TopSavers lists up to n members by total savings
func (s *ReportService) TopSavers(ctx context.Context, actorID string, n int) ([]*models.UserResponse, error) {
	if _, err := s.gate.Require(ctx, actorID, domain.CapReportRead); err != nil {
		return nil, err
	}

	members, err := s.memberTotals(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*models.User, len(members))
	for _, m := range members {
		byID[m.ID] = m
	}

	ranked := finance.TopSavers(totalsOf(members), n)
	out := make([]*models.UserResponse, len(ranked))
	for i, r := range ranked {
		out[i] = byID[r.ID].ToResponse()
	}
	return out, nil
}

// UserDashboard gathers one user's ledger, loans and trend. Only report
// readers may open another user's dashboard.
func (s *ReportService) UserDashboard(ctx context.Context, actorID, userID string) (*UserDashboard, error) {
	capability := domain.CapReportRead
	if actorID == userID {
		capability = domain.CapSelfWrite
	}
	if _, err := s.gate.Require(ctx, actorID, capability); err != nil {
		return nil, err
	}

	user, err := s.store.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, notFound(err)
	}
	entries, err := s.store.Entries.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	loans, err := s.store.Loans.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.TotalSavings = decimal.Zero
	for _, e := range entries {
		user.TotalSavings = user.TotalSavings.Add(e.Amount)
	}

	stats := finance.Statistics(loanFigures(loans))
	return &UserDashboard{
		User:    user.ToResponse(),
		Entries: entries,
		Loans:   loans,
		LoanTotals: LoanTotals{
			Borrowed: stats.TotalLent,
			Owed:     stats.TotalOutstanding,
			Paid:     stats.TotalPaid,
			Active:   stats.ActiveLoans,
		},
		Trend: finance.MonthlyTrend(deposits(entries), s.now(), UserTrendMonths),
	}, nil
}

// Snapshot stores the summary of the month before now. Totals count only
// entries dated up to that month's end. Running it twice for the same month
// returns the stored snapshot with created=false.
func (s *ReportService) Snapshot(ctx context.Context) (snapshot *models.FundSnapshot, created bool, err error) {
	_, prevEnd := finance.MonthBounds(startOfMonth(s.now()).AddDate(0, 0, -1))
	period := prevEnd.Format("2006-01")

	existing, err := s.store.Snapshots.GetByPeriod(ctx, period)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	members, err := s.store.Users.ListByRole(ctx, string(domain.RoleMember))
	if err != nil {
		return nil, false, err
	}
	entries, err := s.store.Entries.ListAll(ctx)
	if err != nil {
		return nil, false, err
	}

	sums := make(map[string]decimal.Decimal)
	var upToEnd []*models.SavingsEntry
	for _, e := range entries {
		if e.Date.After(prevEnd) {
			continue
		}
		sums[e.UserID] = sums[e.UserID].Add(e.Amount)
		upToEnd = append(upToEnd, e)
	}
	for _, m := range members {
		m.TotalSavings = sums[m.ID]
	}

	summary := finance.Summarize(totalsOf(members), deposits(upToEnd), prevEnd)
	snapshot = &models.FundSnapshot{
		Period:         period,
		TotalMembers:   summary.TotalMembers,
		ActiveMembers:  summary.ActiveMembers,
		TotalSavings:   summary.TotalSavings,
		MonthlyAverage: summary.MonthlyAverage,
		TopSaverID:     summary.TopSaverID,
	}
	if err := s.store.Snapshots.Create(ctx, snapshot); err != nil {
		return nil, false, err
	}

	log.Printf("📸 Fund snapshot stored for %s: %s across %d members", period, snapshot.TotalSavings, snapshot.TotalMembers)
	return snapshot, true, nil
}

// ListSnapshots lists the latest monthly snapshots
func (s *ReportService) ListSnapshots(ctx context.Context, actorID string, limit int) ([]*models.FundSnapshot, error) {
	if _, err := s.gate.Require(ctx, actorID, domain.CapReportRead); err != nil {
		return nil, err
	}
	if limit < 1 {
		limit = 12
	}
	return s.store.Snapshots.List(ctx, limit)
}

// memberTotals loads role=member users with their ledger totals
func (s *ReportService) memberTotals(ctx context.Context) ([]*models.User, error) {
	members, err := s.store.Users.ListByRole(ctx, string(domain.RoleMember))
	if err != nil {
		return nil, err
	}
	if err := fillTotals(ctx, s.store, members); err != nil {
		return nil, err
	}
	return members, nil
}

func totalsOf(users []*models.User) []finance.MemberTotal {
	out := make([]finance.MemberTotal, len(users))
	for i, u := range users {
		out[i] = finance.MemberTotal{ID: u.ID, Active: u.IsActive, Total: u.TotalSavings}
	}
	return out
}

func deposits(entries []*models.SavingsEntry) []finance.Deposit {
	out := make([]finance.Deposit, len(entries))
	for i, e := range entries {
		out[i] = finance.Deposit{Amount: e.Amount, Date: e.Date}
	}
	return out
}

// startOfMonth is the first day of t's month
func startOfMonth(t time.Time) time.Time {
	start, _ := finance.MonthBounds(t)
	return start
}
