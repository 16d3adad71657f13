package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"

	"fintrack/internal/database"
	"fintrack/internal/handlers"
	"fintrack/internal/logger"
	"fintrack/internal/middleware"
	"fintrack/internal/models"
	"fintrack/internal/services"
	"fintrack/internal/settings"
	"fintrack/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	Store    *database.Manager
	Settings *settings.Store
	Router   *gin.Engine
}

// userCounter gives each registered test user a unique username.
var userCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupApp creates a full application stack backed by a file store in a
// per-test temp dir, mirroring the wiring in cmd/api.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	dir := t.TempDir()
	store, err := database.NewManager(filepath.Join(dir, "ledger.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	if err := store.DB().AutoMigrate(&models.User{}, &models.Category{}, &models.Transaction{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	settingsStore := settings.NewStore(filepath.Join(dir, "settings.json"))

	// Services
	userService := services.NewUserService(store)
	categoryService := services.NewCategoryService(store)
	ledgerService := services.NewLedgerService(store, categoryService)
	reportService := services.NewReportService(ledgerService)
	chartService := services.NewChartService(reportService)
	csvService := services.NewCSVService(store, ledgerService)

	if err := categoryService.EnsureDefaultCategories(); err != nil {
		t.Fatalf("failed to seed default categories: %v", err)
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	transactionHandler := handlers.NewTransactionHandler(ledgerService)
	reportHandler := handlers.NewReportHandler(reportService)
	chartHandler := handlers.NewChartHandler(chartService)
	csvHandler := handlers.NewCSVHandler(csvService)
	maintenanceHandler := handlers.NewMaintenanceHandler(store, settingsStore)
	settingsHandler := handlers.NewSettingsHandler(settingsStore, userService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	categories := protected.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetCategories)

	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	protected.GET("/balance", transactionHandler.GetBalance)

	reports := protected.Group("/reports")
	reports.GET("/monthly", reportHandler.MonthlySummary)
	reports.GET("/daily-balance", reportHandler.DailyBalance)
	reports.GET("/daily-movement", reportHandler.DailyMovement)

	charts := protected.Group("/charts")
	charts.GET("/performance", chartHandler.Performance)
	charts.GET("/movement", chartHandler.Movement)
	charts.GET("/categories", chartHandler.Categories)

	protected.GET("/export/transactions.csv", csvHandler.ExportTransactions)
	protected.POST("/import/transactions", csvHandler.ImportTransactions)

	protected.POST("/backup", maintenanceHandler.Backup)
	protected.POST("/restore", maintenanceHandler.Restore)

	protected.GET("/settings", settingsHandler.GetSettings)
	protected.PUT("/settings", settingsHandler.UpdateSettings)
	protected.GET("/profile/settings", settingsHandler.GetDisplaySettings)
	protected.PUT("/profile/settings", settingsHandler.UpdateDisplaySettings)

	return &testApp{Store: store, Settings: settingsStore, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// registerUser registers a fresh user and returns the token and username.
func (app *testApp) registerUser(t *testing.T) (token, username string) {
	t.Helper()
	username = fmt.Sprintf("user%d", userCounter.Add(1))
	body := fmt.Sprintf(`{"username":%q,"password":"password123","confirm_password":"password123","full_name":"Test User"}`, username)
	rec := app.request("POST", "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	return result["token"].(string), username
}

// categoryID looks up a category visible to the user by name.
func (app *testApp) categoryID(t *testing.T, token, name string) float64 {
	t.Helper()
	rec := app.request("GET", "/api/v1/categories", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("list categories failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	for _, raw := range result["categories"].([]interface{}) {
		category := raw.(map[string]interface{})
		if category["name"] == name {
			return category["id"].(float64)
		}
	}
	t.Fatalf("category %q not found", name)
	return 0
}

// uploadCSV posts a CSV file to the import endpoint as multipart form data.
func (app *testApp) uploadCSV(t *testing.T, token, content string) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "transactions.csv")
	if err != nil {
		t.Fatalf("failed to build upload: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("failed to write upload: %v", err)
	}
	_ = writer.Close()

	req := httptest.NewRequest("POST", "/api/v1/import/transactions", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// addTransaction records a transaction and returns its ID.
func (app *testApp) addTransaction(t *testing.T, token string, categoryID float64, date, amount, description string) float64 {
	t.Helper()
	body := fmt.Sprintf(`{"date":%q,"amount":%q,"description":%q,"category_id":%d}`, date, amount, description, int(categoryID))
	rec := app.request("POST", "/api/v1/transactions", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add transaction failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	tx := result["transaction"].(map[string]interface{})
	return tx["id"].(float64)
}
