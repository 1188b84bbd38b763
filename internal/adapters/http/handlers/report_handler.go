package handlers

import (
	"strconv"

	"savingsfund/internal/config"
	"savingsfund/internal/core/services"
	"savingsfund/internal/pkg/money"
	"savingsfund/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Report defaults
const (
	fundTrendMonths = 6
	defaultTopN     = 5
)

// ReportHandler handles fund reports and dashboards
type ReportHandler struct {
	reportService   *services.ReportService
	settingsService *services.SettingsService
	cfg             *config.Config
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *services.ReportService, settingsService *services.SettingsService, cfg *config.Config) *ReportHandler {
	return &ReportHandler{
		reportService:   reportService,
		settingsService: settingsService,
		cfg:             cfg,
	}
}

// Summary handles the fund summary (Admin only)
// @Summary Fund summary
// @Description Members, total savings, this month's deposits and the top saver, with amounts formatted in the caller's currency (Admin only)
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /reports/summary [get]
func (h *ReportHandler) Summary(c *fiber.Ctx) error {
	adminID, _ := currentUserID(c)
	summary, err := h.reportService.FundSummary(c.Context(), adminID)
	if err != nil {
		return respondError(c, err, "Failed to get fund summary")
	}

	currency := h.currencyOf(c)
	return response.Success(c, "Fund summary retrieved successfully", fiber.Map{
		"summary":  summary,
		"currency": currency,
		"formatted": fiber.Map{
			"total_savings":   money.Format(summary.TotalSavings, currency),
			"monthly_average": money.Format(summary.MonthlyAverage, currency),
		},
	})
}

// Trend handles the monthly deposit trend (Admin only)
// @Summary Monthly trend
// @Description Deposits per calendar month for the fund or one user
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param months query int false "Trailing months" default(6)
// @Param user_id query string false "Restrict to one user"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /reports/trend [get]
func (h *ReportHandler) Trend(c *fiber.Ctx) error {
	months, err := strconv.Atoi(c.Query("months", strconv.Itoa(fundTrendMonths)))
	if err != nil {
		return response.BadRequest(c, "Invalid months")
	}

	adminID, _ := currentUserID(c)
	trend, err := h.reportService.MonthlyTrend(c.Context(), adminID, months, c.Query("user_id"))
	if err != nil {
		return respondError(c, err, "Failed to get monthly trend")
	}

	return response.Success(c, "Monthly trend retrieved successfully", fiber.Map{
		"trend": trend,
	})
}

// TopSavers handles the savers ranking (Admin only)
// @Summary Top savers
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param n query int false "How many" default(5)
// @Success 200 {object} response.Response
// @Router /reports/top-savers [get]
func (h *ReportHandler) TopSavers(c *fiber.Ctx) error {
	n, err := strconv.Atoi(c.Query("n", strconv.Itoa(defaultTopN)))
	if err != nil || n < 1 {
		return response.BadRequest(c, "Invalid n")
	}

	adminID, _ := currentUserID(c)
	savers, err := h.reportService.TopSavers(c.Context(), adminID, n)
	if err != nil {
		return respondError(c, err, "Failed to get top savers")
	}

	return response.Success(c, "Top savers retrieved successfully", fiber.Map{
		"savers": savers,
	})
}

// Snapshots handles listing month-end snapshots (Admin only)
// @Summary Fund snapshots
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param limit query int false "How many, newest first; 0 for all" default(12)
// @Success 200 {object} response.Response
// @Router /reports/snapshots [get]
func (h *ReportHandler) Snapshots(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "12"))

	adminID, _ := currentUserID(c)
	snapshots, err := h.reportService.ListSnapshots(c.Context(), adminID, limit)
	if err != nil {
		return respondError(c, err, "Failed to list snapshots")
	}

	return response.Success(c, "Snapshots retrieved successfully", fiber.Map{
		"snapshots": snapshots,
	})
}

// UserDashboard handles one member's dashboard (Admin only)
// @Summary User dashboard
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /reports/users/{id} [get]
func (h *ReportHandler) UserDashboard(c *fiber.Ctx) error {
	return h.dashboardOf(c, c.Params("id"))
}

// MyDashboard handles the caller's own dashboard
// @Summary Own dashboard
// @Description Savings, loans and 12-month trend of the current user
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /reports/me [get]
func (h *ReportHandler) MyDashboard(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	return h.dashboardOf(c, userID)
}

func (h *ReportHandler) dashboardOf(c *fiber.Ctx, userID string) error {
	actorID, _ := currentUserID(c)
	dashboard, err := h.reportService.UserDashboard(c.Context(), actorID, userID)
	if err != nil {
		return respondError(c, err, "Failed to get dashboard")
	}

	currency := h.currencyOf(c)
	return response.Success(c, "Dashboard retrieved successfully", fiber.Map{
		"dashboard": dashboard,
		"currency":  currency,
		"formatted": fiber.Map{
			"total_savings": money.Format(dashboard.User.TotalSavings, currency),
			"owed":          money.Format(dashboard.Owed, currency),
		},
	})
}

// currencyOf picks the caller's preferred currency, then the fund's
func (h *ReportHandler) currencyOf(c *fiber.Ctx) string {
	if userID, ok := currentUserID(c); ok {
		if settings, err := h.settingsService.Get(c.Context(), userID); err == nil && settings.Currency != "" {
			return settings.Currency
		}
	}
	return h.cfg.Fund.Currency
}
