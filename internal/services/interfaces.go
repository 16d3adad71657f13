package services

import (
	"io"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/models"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	Register(username, password, fullName string, email *string) (*models.User, error)
	Authenticate(username, password string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	GetDisplaySettings(userID uint) (models.DisplaySettings, error)
	UpdateDisplaySettings(userID uint, settings models.DisplaySettings) (models.DisplaySettings, error)
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	EnsureDefaultCategories() error
	CreateCategory(userID uint, name string, categoryType models.CategoryType) (*models.Category, error)
	GetCategories(userID uint, categoryType *models.CategoryType) ([]models.Category, error)
	GetVisibleCategory(userID, categoryID uint) (*models.Category, error)
}

// LedgerServicer defines the contract for the transaction ledger.
type LedgerServicer interface {
	AddTransaction(userID uint, date time.Time, amount decimal.Decimal, description string, categoryID uint) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID uint) error
	GetTransactions(userID uint, filter TransactionFilter) ([]TransactionRecord, error)
	GetBalance(userID uint, startDate, endDate *time.Time) (decimal.Decimal, error)
	GetMonthlySummary(userID uint, year int, month time.Month) (*MonthlySummary, error)
}

// ReportServicer derives time-series and category-series from the ledger.
type ReportServicer interface {
	DailyRunningBalance(userID uint, year int, month time.Month) (DailySeries, error)
	DailyMovement(userID uint, year int, month time.Month) (MovementReport, error)
	MonthlySummary(userID uint, year int, month time.Month) (*MonthlySummary, error)
}

// ChartServicer turns report output into chart-ready series.
type ChartServicer interface {
	PerformanceChart(userID uint, year int, month time.Month, theme Theme) (*LineChart, error)
	MovementChart(userID uint, year int, month time.Month, theme Theme) (*MovementChart, error)
	CategoryCharts(userID uint, year int, month time.Month, theme Theme) (*CategoryPies, error)
}

// CSVServicer handles CSV export and import of a user's ledger.
type CSVServicer interface {
	ExportTransactions(userID uint, w io.Writer, startDate, endDate *time.Time) (int, error)
	ImportTransactions(userID uint, r io.Reader) (int, error)
}

// BackupServicer exposes store-level backup and restore.
// Implemented by database.Manager.
type BackupServicer interface {
	Backup(dst string) error
	Restore(src string) error
}
