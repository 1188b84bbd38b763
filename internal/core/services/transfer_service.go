package services

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"savingsfund/internal/adapters/persistence/models"
	"savingsfund/internal/adapters/persistence/repositories"
	"savingsfund/internal/config"
	"savingsfund/internal/core/domain"
	"savingsfund/internal/core/finance"
	"savingsfund/internal/pkg/password"

	"github.com/shopspring/decimal"
)

const (
	csvDate           = "2006-01-02"
	importDescription = "Imported from CSV"
	unknownUser       = "Unknown user"
)

var (
	memberHeader = []string{"User ID", "Name", "Email", "Status", "Total Savings", "Deposits", "Last Deposit", "Last Amount", "Registered"}
	entryHeader  = []string{"ID", "User", "User Email", "Amount", "Date", "Description", "Registered By", "Created At"}
)

// importColumns maps accepted member CSV headers to canonical names. The
// Spanish headers are the ones produced by the old browser app.
var importColumns = map[string]string{
	"name":           "name",
	"nombre":         "name",
	"email":          "email",
	"total savings":  "total",
	"total ahorrado": "total",
}

// ImportResult reports a best-effort import
type ImportResult struct {
	Imported int      `json:"imported"`
	Failed   int      `json:"failed"`
	Errors   []string `json:"errors"`
}

func (r *ImportResult) fail(format string, args ...any) {
	r.Failed++
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// TransferService moves fund data in and out as CSV or legacy JSON
type TransferService struct {
	store *repositories.Store
	gate  *Gate
	cfg   *config.Config
	now   Clock
}

// NewTransferService creates a new transfer service
func NewTransferService(store *repositories.Store, gate *Gate, cfg *config.Config, now Clock) *TransferService {
	return &TransferService{
		store: store,
		gate:  gate,
		cfg:   cfg,
		now:   now,
	}
}

// ExportMembers writes every member with their ledger figures as CSV
func (s *TransferService) ExportMembers(ctx context.Context, w io.Writer) error {
	members, err := s.store.Users.ListByRole(ctx, string(domain.RoleMember))
	if err != nil {
		return err
	}
	entries, err := s.store.Entries.ListAll(ctx)
	if err != nil {
		return err
	}

	byUser := make(map[string][]*models.SavingsEntry)
	for _, e := range entries {
		byUser[e.UserID] = append(byUser[e.UserID], e)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(memberHeader); err != nil {
		return err
	}
	for _, m := range members {
		own := byUser[m.ID]
		total := decimal.Zero
		for _, e := range own {
			total = total.Add(e.Amount)
		}

		status := "Active"
		if !m.IsActive {
			status = "Inactive"
		}

		lastDate, lastAmount := "", ""
		if len(own) > 0 {
			// entries are listed oldest first
			last := own[len(own)-1]
			lastDate = last.Date.Format(csvDate)
			lastAmount = last.Amount.StringFixed(finance.MoneyPlaces)
		}

		record := []string{
			m.ID,
			m.Name,
			m.Email,
			status,
			total.StringFixed(finance.MoneyPlaces),
			strconv.Itoa(len(own)),
			lastDate,
			lastAmount,
			m.CreatedAt.Format(csvDate),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportEntries writes the whole ledger as CSV, oldest first
func (s *TransferService) ExportEntries(ctx context.Context, w io.Writer) error {
	users, err := s.store.Users.ListAll(ctx)
	if err != nil {
		return err
	}
	entries, err := s.store.Entries.ListAll(ctx)
	if err != nil {
		return err
	}

	byID := make(map[string]*models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(entryHeader); err != nil {
		return err
	}
	for _, e := range entries {
		userName, userEmail := unknownUser, ""
		if u, ok := byID[e.UserID]; ok {
			userName, userEmail = u.Name, u.Email
		}
		createdBy := "Admin"
		if u, ok := byID[e.CreatedBy]; ok {
			createdBy = u.Name
		}

		record := []string{
			e.ID,
			userName,
			userEmail,
			e.Amount.StringFixed(finance.MoneyPlaces),
			e.Date.Format(csvDate),
			e.Description,
			createdBy,
			e.CreatedAt.Format(csvDate),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ImportMembers creates a member for every CSV row with a name and email.
// A positive Total Savings becomes one ledger entry. Bad rows are counted
// in the result; only an unreadable file or a missing column fails the call.
func (s *TransferService) ImportMembers(ctx context.Context, actorID string, r io.Reader) (*ImportResult, error) {
	if _, err := s.gate.Require(ctx, actorID, domain.CapDataTransfer); err != nil {
		return nil, err
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, domain.Invalidf("empty file")
	}
	if err != nil {
		return nil, domain.Invalidf("unreadable csv: %v", err)
	}

	columns := make(map[string]int)
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if canonical, ok := importColumns[key]; ok {
			if _, seen := columns[canonical]; !seen {
				columns[canonical] = i
			}
		}
	}
	if _, ok := columns["name"]; !ok {
		return nil, domain.Invalidf("missing Name column")
	}
	if _, ok := columns["email"]; !ok {
		return nil, domain.Invalidf("missing Email column")
	}

	field := func(record []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	result := &ImportResult{Errors: []string{}}
	date := today(s.now())
	for line := 2; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			result.fail("row %d: %v", line, err)
			continue
		}

		name, email := field(record, "name"), field(record, "email")
		if name == "" || email == "" {
			result.fail("row %d: name and email are required", line)
			continue
		}

		total := decimal.Zero
		if raw := field(record, "total"); raw != "" {
			total, err = decimal.NewFromString(raw)
			if err != nil {
				result.fail("row %d: invalid total savings %q", line, raw)
				continue
			}
		}

		err = s.store.Transaction(ctx, func(tx *repositories.Store) error {
			user, err := createUser(ctx, tx.Users, name, email, s.cfg.Fund.ImportDefaultPassword, domain.RoleMember)
			if err != nil {
				return err
			}
			if !total.IsPositive() {
				return nil
			}
			return tx.Entries.Create(ctx, &models.SavingsEntry{
				UserID:      user.ID,
				Amount:      total.Round(finance.MoneyPlaces),
				Date:        date,
				Description: importDescription,
				CreatedBy:   actorID,
			})
		})
		if err != nil {
			result.fail("row %d (%s): %v", line, email, err)
			continue
		}
		result.Imported++
	}

	log.Printf("📥 Member import by %s: %d imported, %d failed", actorID, result.Imported, result.Failed)
	return result, nil
}

// Legacy snapshot keys, as written by the old browser app
const (
	legacyUsersKey   = "savings-fund-users"
	legacyEntriesKey = "savings-fund-entries"
	legacyLoansKey   = "savings-fund-loans"
)

type legacyUser struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	CreatedAt    string `json:"createdAt"`
	Role         string `json:"role"`
	IsActive     *bool  `json:"isActive"`
	PasswordHash string `json:"passwordHash"`
}

type legacyEntry struct {
	ID          string          `json:"id"`
	UserID      string          `json:"userId"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
	CreatedAt   string          `json:"createdAt"`
	CreatedBy   string          `json:"createdBy"`
}

type legacyLoan struct {
	ID               string          `json:"id"`
	UserID           string          `json:"userId"`
	Amount           decimal.Decimal `json:"amount"`
	InterestRate     decimal.Decimal `json:"interestRate"`
	TermMonths       int             `json:"termMonths"`
	MonthlyPayment   decimal.Decimal `json:"monthlyPayment"`
	RemainingBalance decimal.Decimal `json:"remainingBalance"`
	Status           string          `json:"status"`
	StartDate        string          `json:"startDate"`
	CreatedBy        string          `json:"createdBy"`
	CreatedAt        string          `json:"createdAt"`
}

// LegacyImportResult counts what a legacy snapshot import did
type LegacyImportResult struct {
	Users   ImportResult `json:"users"`
	Entries ImportResult `json:"entries"`
	Loans   ImportResult `json:"loans"`
}

// ImportLegacy loads a JSON dump of the old browser storage. Ids, dates and
// stored monthly payments are kept as-is; password hashes are kept in their
// legacy form and upgraded on the user's next login. Records whose id or
// email already exist are skipped.
func (s *TransferService) ImportLegacy(ctx context.Context, actorID string, r io.Reader) (*LegacyImportResult, error) {
	if _, err := s.gate.Require(ctx, actorID, domain.CapDataTransfer); err != nil {
		return nil, err
	}

	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, domain.Invalidf("unreadable snapshot: %v", err)
	}

	var (
		users   []legacyUser
		entries []legacyEntry
		loans   []legacyLoan
	)
	for key, dst := range map[string]any{legacyUsersKey: &users, legacyEntriesKey: &entries, legacyLoansKey: &loans} {
		data, ok := raw[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(data, dst); err != nil {
			return nil, domain.Invalidf("%s: %v", key, err)
		}
	}

	result := &LegacyImportResult{
		Users:   ImportResult{Errors: []string{}},
		Entries: ImportResult{Errors: []string{}},
		Loans:   ImportResult{Errors: []string{}},
	}
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		known := make(map[string]bool)
		existing, err := tx.Users.ListAll(ctx)
		if err != nil {
			return err
		}
		for _, u := range existing {
			known[u.ID] = true
		}

		for _, lu := range users {
			user, err := s.legacyUser(ctx, tx, lu, known)
			if err != nil {
				result.Users.fail("user %s: %v", lu.ID, err)
				continue
			}
			if err := tx.Users.Create(ctx, user); err != nil {
				return err
			}
			known[user.ID] = true
			result.Users.Imported++
		}

		for _, le := range entries {
			entry, err := s.legacyEntry(ctx, tx, le, known)
			if err != nil {
				result.Entries.fail("entry %s: %v", le.ID, err)
				continue
			}
			if err := tx.Entries.Create(ctx, entry); err != nil {
				return err
			}
			result.Entries.Imported++
		}

		for _, ll := range loans {
			loan, err := s.legacyLoan(ctx, tx, ll, known)
			if err != nil {
				result.Loans.fail("loan %s: %v", ll.ID, err)
				continue
			}
			if err := tx.Loans.Create(ctx, loan); err != nil {
				return err
			}
			result.Loans.Imported++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("📦 Legacy import by %s: %d users, %d entries, %d loans",
		actorID, result.Users.Imported, result.Entries.Imported, result.Loans.Imported)
	return result, nil
}

func (s *TransferService) legacyUser(ctx context.Context, tx *repositories.Store, lu legacyUser, known map[string]bool) (*models.User, error) {
	if lu.ID == "" {
		return nil, domain.Invalidf("missing id")
	}
	if known[lu.ID] {
		return nil, domain.Invalidf("id already exists")
	}
	email := normalizeEmail(lu.Email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	exists, err := tx.Users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.Invalid(domain.ErrDuplicateEmail)
	}
	role := domain.Role(lu.Role)
	if !role.IsValid() {
		return nil, domain.Invalid(domain.ErrInvalidRole)
	}
	if lu.PasswordHash == "" {
		return nil, domain.Invalidf("missing password hash")
	}

	user := &models.User{
		ID:           lu.ID,
		Email:        email,
		Name:         strings.TrimSpace(lu.Name),
		PasswordHash: password.LegacyPrefix + lu.PasswordHash,
		Role:         string(role),
		IsActive:     lu.IsActive == nil || *lu.IsActive,
	}
	if t, ok := parseLegacyTime(lu.CreatedAt); ok {
		user.CreatedAt = t
	}
	return user, nil
}

func (s *TransferService) legacyEntry(ctx context.Context, tx *repositories.Store, le legacyEntry, known map[string]bool) (*models.SavingsEntry, error) {
	if le.ID == "" {
		return nil, domain.Invalidf("missing id")
	}
	if !known[le.UserID] {
		return nil, domain.ErrNotFound
	}
	if _, err := tx.Entries.GetByID(ctx, le.ID); err == nil {
		return nil, domain.Invalidf("id already exists")
	}
	if !le.Amount.IsPositive() {
		return nil, domain.Invalid(domain.ErrInvalidAmount)
	}
	date, ok := parseLegacyTime(le.Date)
	if !ok {
		return nil, domain.Invalidf("invalid date %q", le.Date)
	}

	entry := &models.SavingsEntry{
		ID:          le.ID,
		UserID:      le.UserID,
		Amount:      le.Amount.Round(finance.MoneyPlaces),
		Date:        date,
		Description: le.Description,
		CreatedBy:   le.CreatedBy,
	}
	if t, ok := parseLegacyTime(le.CreatedAt); ok {
		entry.CreatedAt = t
	}
	return entry, nil
}

func (s *TransferService) legacyLoan(ctx context.Context, tx *repositories.Store, ll legacyLoan, known map[string]bool) (*models.Loan, error) {
	if ll.ID == "" {
		return nil, domain.Invalidf("missing id")
	}
	if !known[ll.UserID] {
		return nil, domain.ErrNotFound
	}
	if _, err := tx.Loans.GetByID(ctx, ll.ID); err == nil {
		return nil, domain.Invalidf("id already exists")
	}
	// validates the terms; the stored monthly payment is kept as recorded
	if _, err := finance.Quote(ll.Amount, ll.InterestRate, ll.TermMonths); err != nil {
		return nil, err
	}
	status := domain.LoanStatus(ll.Status)
	if !status.IsValid() {
		return nil, domain.Invalid(domain.ErrInvalidLoanStatus)
	}
	start, ok := parseLegacyTime(ll.StartDate)
	if !ok {
		return nil, domain.Invalidf("invalid start date %q", ll.StartDate)
	}

	loan := &models.Loan{
		ID:               ll.ID,
		UserID:           ll.UserID,
		Amount:           ll.Amount,
		InterestRate:     ll.InterestRate,
		TermMonths:       ll.TermMonths,
		MonthlyPayment:   ll.MonthlyPayment.Round(finance.MoneyPlaces),
		RemainingBalance: decimal.Max(ll.RemainingBalance, decimal.Zero).Round(finance.MoneyPlaces),
		Status:           string(status),
		StartDate:        start,
		CreatedBy:        ll.CreatedBy,
	}
	if t, ok := parseLegacyTime(ll.CreatedAt); ok {
		loan.CreatedAt = t
	}
	return loan, nil
}

// parseLegacyTime accepts ISO timestamps and plain dates
func parseLegacyTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339Nano, csvDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
