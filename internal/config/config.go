package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	AppMode  string
	Port     string
	Database DatabaseConfig
	JWT      JWTConfig
	Cookie   CookieConfig
	Admin    AdminConfig
	Fund     FundConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver     string // sqlite, mysql or postgres
	Host       string
	Port       string
	User       string
	Password   string
	DBName     string
	SSLMode    string
	SQLitePath string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	RefreshSecret    string
	AccessTokenMins  int
	RefreshTokenDays int
}

// CookieConfig holds cookie configuration
type CookieConfig struct {
	Secure   bool
	SameSite string
	Domain   string
}

// AdminConfig is the account seeded when no admin exists yet
type AdminConfig struct {
	Email    string
	Password string
	Name     string
}

// FundConfig holds fund-wide settings
type FundConfig struct {
	Currency              string
	ImportDefaultPassword string
	CronEnabled           bool
}

// Global config instance
var AppConfig *Config

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	// Get APP_MODE (default to "dev") - trim spaces for Windows compatibility
	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	database, err := loadDatabaseConfig(appMode)
	if err != nil {
		return nil, err
	}

	// Build config based on APP_MODE
	config := &Config{
		AppMode:  appMode,
		Port:     getEnv("PORT", "3000"),
		Database: database,
		JWT:      loadJWTConfig(appMode),
		Cookie:   loadCookieConfig(appMode),
		Admin:    loadAdminConfig(),
		Fund:     loadFundConfig(),
	}

	// Set global config
	AppConfig = config

	log.Printf("✅ Configuration loaded successfully [MODE: %s, DB: %s]", appMode, database.Driver)
	return config, nil
}

// modePrefix returns the env prefix for mode-specific keys
func modePrefix(mode string) string {
	if mode == "prod" {
		return "PROD_"
	}
	return "DEV_"
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) (DatabaseConfig, error) {
	prefix := modePrefix(mode)

	driver := strings.ToLower(strings.TrimSpace(getEnv("DB_DRIVER", "sqlite")))
	defaultPort := ""
	switch driver {
	case "sqlite":
	case "mysql":
		defaultPort = "3306"
	case "postgres":
		defaultPort = "5432"
	default:
		return DatabaseConfig{}, fmt.Errorf("invalid DB_DRIVER: '%s' (must be 'sqlite', 'mysql' or 'postgres')", driver)
	}

	return DatabaseConfig{
		Driver:     driver,
		Host:       getEnv(prefix+"DB_HOST", "localhost"),
		Port:       getEnv(prefix+"DB_PORT", defaultPort),
		User:       getEnv(prefix+"DB_USER", "root"),
		Password:   getEnv(prefix+"DB_PASS", ""),
		DBName:     getEnv(prefix+"DB_NAME", "savingsfund"),
		SSLMode:    getEnv(prefix+"DB_SSLMODE", "disable"),
		SQLitePath: getEnv("SQLITE_PATH", "savingsfund.db"),
	}, nil
}

// loadJWTConfig loads JWT config based on mode
func loadJWTConfig(mode string) JWTConfig {
	prefix := modePrefix(mode)

	accessMins, _ := strconv.Atoi(getEnv("ACCESS_TOKEN_MINUTES", "15"))
	refreshDays, _ := strconv.Atoi(getEnv("REFRESH_TOKEN_DAYS", "7"))

	return JWTConfig{
		Secret:           getEnv(prefix+"JWT_SECRET", "default_secret"),
		RefreshSecret:    getEnv(prefix+"JWT_REFRESH_SECRET", "default_refresh_secret"),
		AccessTokenMins:  accessMins,
		RefreshTokenDays: refreshDays,
	}
}

// loadCookieConfig loads cookie config based on mode
func loadCookieConfig(mode string) CookieConfig {
	prefix := modePrefix(mode)

	secure, _ := strconv.ParseBool(getEnv(prefix+"COOKIE_SECURE", "false"))

	return CookieConfig{
		Secure:   secure,
		SameSite: getEnv("COOKIE_SAMESITE", "lax"),
		Domain:   getEnv("COOKIE_DOMAIN", ""),
	}
}

// loadAdminConfig loads the seed admin account
func loadAdminConfig() AdminConfig {
	return AdminConfig{
		Email:    getEnv("ADMIN_EMAIL", "admin@savingsfund.local"),
		Password: getEnv("ADMIN_PASSWORD", "admin123456"),
		Name:     getEnv("ADMIN_NAME", "Administrator"),
	}
}

// loadFundConfig loads fund-wide settings
func loadFundConfig() FundConfig {
	cronEnabled, _ := strconv.ParseBool(getEnv("CRON_ENABLED", "true"))

	return FundConfig{
		Currency:              strings.ToUpper(getEnv("FUND_CURRENCY", "USD")),
		ImportDefaultPassword: getEnv("IMPORT_DEFAULT_PASSWORD", "123456"),
		CronEnabled:           cronEnabled,
	}
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		// Default production origins
		return "http://localhost:5173"
	}
	return origins
}
