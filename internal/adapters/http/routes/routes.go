package routes

import (
	"time"

	"savingsfund/internal/adapters/http/handlers"
	"savingsfund/internal/adapters/http/middleware"
	"savingsfund/internal/adapters/persistence/repositories"
	"savingsfund/internal/config"
	"savingsfund/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

// reportCacheAge bounds how stale a cached report may be in the browser
const reportCacheAge = 30 * time.Second

// Setup configures all routes for the application
func Setup(app *fiber.App, store *repositories.Store, cfg *config.Config) {
	// Initialize services
	gate := services.NewGate(store)
	authService := services.NewAuthService(store, cfg)
	userService := services.NewUserService(store, gate, cfg)
	savingsService := services.NewSavingsService(store, gate, time.Now)
	loanService := services.NewLoanService(store, gate, time.Now)
	debtService := services.NewDebtService(store, gate, time.Now)
	goalService := services.NewGoalService(store, gate, time.Now)
	settingsService := services.NewSettingsService(store, gate)
	reportService := services.NewReportService(store, gate, time.Now)
	transferService := services.NewTransferService(store, gate, cfg, time.Now)

	// Initialize handlers
	h := &handlerSet{
		health:   handlers.NewHealthHandler(cfg),
		auth:     handlers.NewAuthHandler(authService, cfg),
		user:     handlers.NewUserHandler(userService),
		savings:  handlers.NewSavingsHandler(savingsService),
		loan:     handlers.NewLoanHandler(loanService),
		debt:     handlers.NewDebtHandler(debtService),
		goal:     handlers.NewGoalHandler(goalService),
		settings: handlers.NewSettingsHandler(settingsService),
		report:   handlers.NewReportHandler(reportService, settingsService, cfg),
		transfer: handlers.NewTransferHandler(transferService),
	}

	// Health check & root routes
	app.Get("/", h.health.Root)
	app.Get("/health", h.health.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	setupAPIV1Routes(apiV1, h, cfg)
}

type handlerSet struct {
	health   *handlers.HealthHandler
	auth     *handlers.AuthHandler
	user     *handlers.UserHandler
	savings  *handlers.SavingsHandler
	loan     *handlers.LoanHandler
	debt     *handlers.DebtHandler
	goal     *handlers.GoalHandler
	settings *handlers.SettingsHandler
	report   *handlers.ReportHandler
	transfer *handlers.TransferHandler
}

// setupAPIV1Routes configures API v1 routes
func setupAPIV1Routes(router fiber.Router, h *handlerSet, cfg *config.Config) {
	auth := middleware.AuthMiddleware(cfg)

	// API Info
	router.Get("/", h.health.APIInfo)

	// Auth routes (public)
	authRoutes := router.Group("/auth", middleware.NoCacheHeaders())
	setupAuthRoutes(authRoutes, h.auth, auth)

	// User management routes (Admin only)
	userRoutes := router.Group("/users", auth, middleware.AdminOnly())
	setupUserRoutes(userRoutes, h.user)

	// Profile routes (Authenticated users)
	profileRoutes := router.Group("/profile", auth)
	setupProfileRoutes(profileRoutes, h.user)

	// Ledger routes
	savingsRoutes := router.Group("/savings", auth)
	setupSavingsRoutes(savingsRoutes, h.savings)

	// Loan routes
	loanRoutes := router.Group("/loans", auth)
	setupLoanRoutes(loanRoutes, h.loan)

	// Personal finance routes (own resources only)
	setupDebtRoutes(router.Group("/debts", auth), h.debt)
	setupGoalRoutes(router.Group("/goals", auth), h.goal)

	settingsRoutes := router.Group("/settings", auth)
	settingsRoutes.Get("/", h.settings.GetSettings)
	settingsRoutes.Put("/", h.settings.UpdateSettings)

	// Reports
	reportRoutes := router.Group("/reports", auth, middleware.PrivateCacheHeaders(reportCacheAge))
	setupReportRoutes(reportRoutes, h.report)

	// Import/export (Admin only)
	transferRoutes := router.Group("/transfer", auth, middleware.AdminOnly(), middleware.NoCacheHeaders())
	setupTransferRoutes(transferRoutes, h.transfer)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, auth fiber.Handler) {
	// Public routes
	router.Post("/register", middleware.AuthRateLimiter(), handler.Register)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", handler.RefreshToken)
	router.Post("/logout", handler.Logout)

	// Protected routes
	router.Get("/me", auth, handler.Me)
	router.Post("/logout-all", auth, handler.LogoutAll)
}

// setupUserRoutes configures user management routes (Admin only)
func setupUserRoutes(router fiber.Router, handler *handlers.UserHandler) {
	router.Get("/", handler.ListUsers)
	router.Post("/", handler.CreateUser)
	router.Get("/:id", handler.GetUser)
	router.Put("/:id", handler.UpdateUser)
	router.Delete("/:id", handler.DeleteUser)
}

// setupProfileRoutes configures profile routes (Authenticated)
func setupProfileRoutes(router fiber.Router, handler *handlers.UserHandler) {
	router.Get("/", handler.GetProfile)
	router.Put("/", handler.UpdateProfile)
	router.Put("/password", middleware.StrictRateLimiter(), handler.ChangePassword)
}

// setupSavingsRoutes configures ledger routes
func setupSavingsRoutes(router fiber.Router, handler *handlers.SavingsHandler) {
	// Members read their own deposits
	router.Get("/me", handler.MyEntries)

	adminRoutes := router.Group("", middleware.AdminOnly())
	adminRoutes.Get("/", handler.ListEntries)
	adminRoutes.Post("/", handler.AddEntry)
	adminRoutes.Get("/users/:id", handler.UserEntries)
	adminRoutes.Delete("/:id", handler.DeleteEntry)
}

// setupLoanRoutes configures loan routes. Fixed paths come before /:id.
func setupLoanRoutes(router fiber.Router, handler *handlers.LoanHandler) {
	// Members read their own loans
	router.Get("/me", handler.MyLoans)

	adminRoutes := router.Group("", middleware.AdminOnly())
	adminRoutes.Get("/", handler.ListLoans)
	adminRoutes.Post("/", handler.CreateLoan)
	adminRoutes.Get("/statistics", handler.Statistics)
	adminRoutes.Post("/quote", handler.Quote)
	adminRoutes.Get("/analysis/:userId", handler.Analyze)
	adminRoutes.Get("/:id", handler.GetLoan)
	adminRoutes.Delete("/:id", handler.DeleteLoan)
	adminRoutes.Get("/:id/schedule", handler.Schedule)
	adminRoutes.Post("/:id/payments", handler.MakePayment)
	adminRoutes.Put("/:id/status", handler.UpdateStatus)
}

func setupDebtRoutes(router fiber.Router, handler *handlers.DebtHandler) {
	router.Get("/", handler.ListDebts)
	router.Post("/", handler.CreateDebt)
	router.Put("/:id", handler.UpdateDebt)
	router.Delete("/:id", handler.DeleteDebt)
	router.Post("/:id/payments", handler.PayDebt)
}

func setupGoalRoutes(router fiber.Router, handler *handlers.GoalHandler) {
	router.Get("/", handler.ListGoals)
	router.Post("/", handler.CreateGoal)
	router.Put("/:id", handler.UpdateGoal)
	router.Delete("/:id", handler.DeleteGoal)
	router.Post("/:id/contributions", handler.Contribute)
}

// setupReportRoutes configures report routes
func setupReportRoutes(router fiber.Router, handler *handlers.ReportHandler) {
	router.Get("/me", handler.MyDashboard)

	adminRoutes := router.Group("", middleware.AdminOnly())
	adminRoutes.Get("/summary", handler.Summary)
	adminRoutes.Get("/trend", handler.Trend)
	adminRoutes.Get("/top-savers", handler.TopSavers)
	adminRoutes.Get("/snapshots", handler.Snapshots)
	adminRoutes.Get("/users/:id", handler.UserDashboard)
}

// setupTransferRoutes configures import/export routes (Admin only)
func setupTransferRoutes(router fiber.Router, handler *handlers.TransferHandler) {
	router.Get("/members.csv", handler.ExportMembers)
	router.Get("/entries.csv", handler.ExportEntries)
	router.Post("/members", middleware.StrictRateLimiter(), handler.ImportMembers)
	router.Post("/legacy", middleware.StrictRateLimiter(), handler.ImportLegacy)
}
