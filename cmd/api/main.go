package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"fintrack/internal/ai"
	"fintrack/internal/blob"
	"fintrack/internal/cache"
	"fintrack/internal/config"
	"fintrack/internal/database"
	"fintrack/internal/handlers"
	"fintrack/internal/logger"
	"fintrack/internal/middleware"
	"fintrack/internal/services"
	"fintrack/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "fintrack/internal/docs" // Import swagger docs
)

// @title           Fintrack API
// @version         1.0
// @description     Fintrack is a personal finance tracker: accounts, income and expense transactions, budgets, spending charts, and AI-assisted receipt capture and insights.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

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
	ctx := context.Background()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register custom request validators
	validator.Register()

	db := dbManager.DB()
	tokens := middleware.NewTokenManager(appConfig.JWTSecret, appConfig.JWTExpirationDur)

	// Optional providers
	var generator ai.Generator
	if appConfig.GeminiAPIKey != "" {
		generator, err = ai.NewGeminiGenerator(ctx, appConfig.GeminiAPIKey, appConfig.GeminiModel)
		if err != nil {
			return fmt.Errorf("failed to create AI generator: %w", err)
		}
	} else {
		log.Warn("GEMINI_API_KEY not set; receipt extraction and insight generation are disabled")
	}

	var store blob.Store
	if appConfig.GCSBucket != "" {
		gcs, err := blob.NewGCSStore(ctx, appConfig.GCSBucket)
		if err != nil {
			return fmt.Errorf("failed to create blob store: %w", err)
		}
		defer gcs.Close()
		store = gcs
	} else {
		log.Warn("GCS_BUCKET not set; receipt images will not be stored")
	}

	// Initialize services
	ledger := services.NewLedgerService()
	userService := services.NewUserService(db)
	accountService := services.NewAccountService(db, ledger)
	transactionService := services.NewTransactionService(db, ledger)
	budgetService := services.NewBudgetService(db)
	analyticsService := services.NewAnalyticsService(db, budgetService)
	insightCache := cache.NewStore[services.CachedInsight](db)
	insightService := services.NewInsightService(db, generator, insightCache)
	reportService := services.NewReportService(analyticsService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, tokens)
	accountHandler := handlers.NewAccountHandler(accountService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	budgetHandler := handlers.NewBudgetHandler(budgetService)
	categoryHandler := handlers.NewCategoryHandler()
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)
	insightHandler := handlers.NewInsightHandler(insightService)
	reportHandler := handlers.NewReportHandler(reportService)
	receiptHandler := handlers.NewReceiptHandler(transactionService, generator, store)

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

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC()})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(tokens.AuthMiddleware())

	// User profile
	protected.GET("/profile", authHandler.GetProfile)

	// Account routes
	accounts := protected.Group("/accounts")
	accounts.POST("", accountHandler.CreateAccount)
	accounts.GET("", accountHandler.GetUserAccounts)
	accounts.GET("/:id", accountHandler.GetAccountByID)
	accounts.PUT("/:id", accountHandler.UpdateAccount)
	accounts.DELETE("/:id", accountHandler.DeleteAccount)

	// Transaction routes
	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetUserTransactions)
	transactions.GET("/search", analyticsHandler.SearchTransactions)
	transactions.GET("/:id", transactionHandler.GetTransactionByID)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	// Budget routes
	budgets := protected.Group("/budgets")
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.GetUserBudgets)
	budgets.GET("/:id", budgetHandler.GetBudgetByID)
	budgets.PUT("/:id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)
	budgets.GET("/:id/progress", budgetHandler.GetBudgetProgress)

	// Category taxonomy
	protected.GET("/categories", categoryHandler.GetCategories)

	// Dashboard, insights, receipts, reports
	protected.GET("/dashboard", analyticsHandler.GetDashboard)
	protected.GET("/insights", insightHandler.GetInsight)
	protected.POST("/receipts", receiptHandler.UploadReceipt)
	reports := protected.Group("/reports")
	reports.GET("/transactions.csv", reportHandler.ExportCSV)
	reports.GET("/transactions.pdf", reportHandler.ExportPDF)

	log.Infof("Starting Fintrack backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
