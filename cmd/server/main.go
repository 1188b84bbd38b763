package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"savingsfund/internal/adapters/http/middleware"
	"savingsfund/internal/adapters/http/routes"
	"savingsfund/internal/adapters/persistence/models"
	"savingsfund/internal/adapters/persistence/repositories"
	"savingsfund/internal/config"
	"savingsfund/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	_ "savingsfund/docs" // Swagger docs
)

// @title Savings Fund API
// @version 1.0
// @description Member savings ledger, flat-rate loans and fund reports.
// @termsOfService http://swagger.io/terms/

// @contact.name API Support

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Amounts go out as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	store := repositories.NewStore(db)

	// Seed the admin account on an empty fund
	if err := config.NewSeeder(store, cfg.Admin).Run(context.Background()); err != nil {
		log.Printf("⚠️ Warning: Failed to seed admin user: %v", err)
	}

	// Token purge and month-end snapshots
	if cfg.Fund.CronEnabled {
		cronService := services.NewCronService(
			services.NewAuthService(store, cfg),
			services.NewReportService(store, services.NewGate(store), time.Now),
		)
		if err := cronService.Start(); err != nil {
			log.Fatalf("❌ Failed to start cron: %v", err)
		}
		defer cronService.Stop()
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Savings Fund API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes
	routes.Setup(app, store, cfg)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
