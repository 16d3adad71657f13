package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"fintrack/internal/config"
	"fintrack/internal/database"
	"fintrack/internal/handlers"
	"fintrack/internal/logger"
	"fintrack/internal/middleware"
	"fintrack/internal/services"
	"fintrack/internal/settings"
	"fintrack/internal/validator"
)

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Open the ledger store and apply pending migrations
	dbManager, err := database.NewManager(appConfig.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open ledger store: %w", err)
	}
	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Application settings document
	settingsPath, err := settings.DefaultPath()
	if err != nil {
		return fmt.Errorf("failed to resolve settings path: %w", err)
	}
	settingsStore := settings.NewStore(settingsPath)
	if _, err := settingsStore.Load(); err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	// Register custom binding validators
	validator.Register()

	// Initialize services
	userService := services.NewUserService(dbManager)
	categoryService := services.NewCategoryService(dbManager)
	ledgerService := services.NewLedgerService(dbManager, categoryService)
	reportService := services.NewReportService(ledgerService)
	chartService := services.NewChartService(reportService)
	csvService := services.NewCSVService(dbManager, ledgerService)

	// Seed the global default categories
	if err := categoryService.EnsureDefaultCategories(); err != nil {
		return fmt.Errorf("failed to seed default categories: %w", err)
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	transactionHandler := handlers.NewTransactionHandler(ledgerService)
	reportHandler := handlers.NewReportHandler(reportService)
	chartHandler := handlers.NewChartHandler(chartService)
	csvHandler := handlers.NewCSVHandler(csvService)
	maintenanceHandler := handlers.NewMaintenanceHandler(dbManager, settingsStore)
	settingsHandler := handlers.NewSettingsHandler(settingsStore, userService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// Category routes
	categories := protected.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetCategories)

	// Transaction routes
	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	// Balance
	protected.GET("/balance", transactionHandler.GetBalance)

	// Report routes
	reports := protected.Group("/reports")
	reports.GET("/monthly", reportHandler.MonthlySummary)
	reports.GET("/daily-balance", reportHandler.DailyBalance)
	reports.GET("/daily-movement", reportHandler.DailyMovement)

	// Chart routes
	charts := protected.Group("/charts")
	charts.GET("/performance", chartHandler.Performance)
	charts.GET("/movement", chartHandler.Movement)
	charts.GET("/categories", chartHandler.Categories)

	// CSV export and import
	protected.GET("/export/transactions.csv", csvHandler.ExportTransactions)
	protected.POST("/import/transactions", csvHandler.ImportTransactions)

	// Store maintenance
	protected.POST("/backup", maintenanceHandler.Backup)
	protected.POST("/restore", maintenanceHandler.Restore)

	// Settings
	protected.GET("/settings", settingsHandler.GetSettings)
	protected.PUT("/settings", settingsHandler.UpdateSettings)
	protected.GET("/profile/settings", settingsHandler.GetDisplaySettings)
	protected.PUT("/profile/settings", settingsHandler.UpdateDisplaySettings)

	log.Infof("Starting fintrack server on port %s", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
