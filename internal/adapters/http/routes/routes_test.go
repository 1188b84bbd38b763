package routes_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"savingsfund/internal/adapters/http/middleware"
	"savingsfund/internal/adapters/http/routes"
	"savingsfund/internal/adapters/persistence/models"
	"savingsfund/internal/adapters/persistence/repositories"
	"savingsfund/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm/logger"
)

func newApp(t *testing.T) *fiber.App {
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

	cfg := &config.Config{
		AppMode: "dev",
		JWT: config.JWTConfig{
			Secret:           "test-access-secret",
			RefreshSecret:    "test-refresh-secret",
			AccessTokenMins:  15,
			RefreshTokenDays: 7,
		},
		Cookie: config.CookieConfig{SameSite: "Lax"},
		Fund:   config.FundConfig{Currency: "USD", ImportDefaultPassword: "123456"},
	}

	app := fiber.New(fiber.Config{ErrorHandler: middleware.CustomErrorHandler})
	routes.Setup(app, repositories.NewStore(db), cfg)
	return app
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// call sends a JSON request and decodes the response envelope
func call(t *testing.T, app *fiber.App, method, path, token string, body any) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("%s %s: decode: %v", method, path, err)
	}
	return resp.StatusCode, env
}

type authData struct {
	User struct {
		ID   string `json:"id"`
		Role string `json:"role"`
	} `json:"user"`
	AccessToken string `json:"access_token"`
}

func register(t *testing.T, app *fiber.App, name, email string) authData {
	t.Helper()

	status, env := call(t, app, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name":     name,
		"email":    email,
		"password": "secret123",
	})
	if status != http.StatusCreated {
		t.Fatalf("register %s: status %d, error %q", email, status, env.Error)
	}
	var data authData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatal(err)
	}
	return data
}

func TestFundFlow(t *testing.T) {
	app := newApp(t)

	admin := register(t, app, "Fund Admin", "admin@fund.test")
	member := register(t, app, "Member", "member@fund.test")
	if admin.User.Role != "admin" {
		t.Errorf("first account role = %q, want admin", admin.User.Role)
	}
	if member.User.Role != "member" {
		t.Errorf("second account role = %q, want member", member.User.Role)
	}

	if status, _ := call(t, app, http.MethodGet, "/api/v1/users/", member.AccessToken, nil); status != http.StatusForbidden {
		t.Errorf("member listing users: status %d, want 403", status)
	}
	if status, _ := call(t, app, http.MethodGet, "/api/v1/users/", admin.AccessToken, nil); status != http.StatusOK {
		t.Errorf("admin listing users: status %d, want 200", status)
	}

	status, env := call(t, app, http.MethodPost, "/api/v1/savings/", admin.AccessToken, map[string]any{
		"user_id":     member.User.ID,
		"amount":      150,
		"description": "March",
	})
	if status != http.StatusCreated {
		t.Fatalf("add entry: status %d, error %q", status, env.Error)
	}

	status, env = call(t, app, http.MethodPost, "/api/v1/savings/", admin.AccessToken, map[string]any{
		"user_id": member.User.ID,
		"amount":  -5,
	})
	if status != http.StatusBadRequest {
		t.Errorf("negative entry: status %d, want 400", status)
	}

	status, env = call(t, app, http.MethodGet, "/api/v1/savings/me", member.AccessToken, nil)
	if status != http.StatusOK {
		t.Fatalf("my entries: status %d, error %q", status, env.Error)
	}
	var mine struct {
		Entries      []json.RawMessage `json:"entries"`
		TotalSavings decimal.Decimal   `json:"total_savings"`
	}
	if err := json.Unmarshal(env.Data, &mine); err != nil {
		t.Fatal(err)
	}
	if len(mine.Entries) != 1 || !mine.TotalSavings.Equal(decimal.NewFromInt(150)) {
		t.Errorf("my entries = %d, total %s; want 1, 150", len(mine.Entries), mine.TotalSavings)
	}

	status, env = call(t, app, http.MethodPost, "/api/v1/loans/quote", admin.AccessToken, map[string]any{
		"amount":        1000000,
		"interest_rate": 15,
		"term_months":   12,
	})
	if status != http.StatusOK {
		t.Fatalf("quote: status %d, error %q", status, env.Error)
	}
	var quote struct {
		MonthlyPayment decimal.Decimal `json:"monthly_payment"`
		TotalPayment   decimal.Decimal `json:"total_payment"`
	}
	if err := json.Unmarshal(env.Data, &quote); err != nil {
		t.Fatal(err)
	}
	if !quote.MonthlyPayment.Equal(decimal.RequireFromString("233333.33")) {
		t.Errorf("monthly payment = %s, want 233333.33", quote.MonthlyPayment)
	}
	if !quote.TotalPayment.Equal(decimal.NewFromInt(2800000)) {
		t.Errorf("total payment = %s, want 2800000", quote.TotalPayment)
	}

	if status, _ := call(t, app, http.MethodPost, "/api/v1/loans/quote", member.AccessToken, map[string]any{
		"amount": 100, "interest_rate": 1, "term_months": 1,
	}); status != http.StatusForbidden {
		t.Errorf("member quoting: status %d, want 403", status)
	}

	if status, env := call(t, app, http.MethodGet, "/api/v1/reports/summary", admin.AccessToken, nil); status != http.StatusOK {
		t.Errorf("admin summary: status %d, error %q", status, env.Error)
	}
	if status, env := call(t, app, http.MethodGet, "/api/v1/reports/me", member.AccessToken, nil); status != http.StatusOK {
		t.Errorf("member dashboard: status %d, error %q", status, env.Error)
	}
	if status, _ := call(t, app, http.MethodGet, "/api/v1/reports/summary", member.AccessToken, nil); status != http.StatusForbidden {
		t.Errorf("member summary: status %d, want 403", status)
	}
}

func TestExportMembersCSV(t *testing.T) {
	app := newApp(t)
	admin := register(t, app, "Fund Admin", "admin@fund.test")
	register(t, app, "Member", "member@fund.test")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/transfer/members.csv", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+admin.AccessToken)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get(fiber.HeaderContentType); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("content type = %q, want text/csv", ct)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "member@fund.test") {
		t.Errorf("export missing member row:\n%s", body)
	}
	if strings.Contains(string(body), "admin@fund.test") {
		t.Errorf("export lists the admin:\n%s", body)
	}
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	app := newApp(t)

	for _, path := range []string{
		"/api/v1/savings/me",
		"/api/v1/loans/",
		"/api/v1/reports/summary",
		"/api/v1/debts/",
	} {
		if status, _ := call(t, app, http.MethodGet, path, "", nil); status != http.StatusUnauthorized {
			t.Errorf("GET %s without token: status %d, want 401", path, status)
		}
	}
}
