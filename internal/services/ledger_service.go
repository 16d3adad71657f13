package services

import (
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/database"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
)

// TransactionFilter narrows GetTransactions. Date bounds are inclusive.
type TransactionFilter struct {
	StartDate  *time.Time
	EndDate    *time.Time
	CategoryID *uint
}

// TransactionRecord is a ledger row joined with its category's name and type.
// Callers receive value snapshots, never live rows.
type TransactionRecord struct {
	ID           uint                `json:"id"`
	Date         time.Time           `json:"date"`
	Amount       decimal.Decimal     `json:"amount"`
	Description  string              `json:"description"`
	CategoryID   uint                `json:"category_id"`
	CategoryName string              `json:"category_name"`
	CategoryType models.CategoryType `json:"category_type"`
}

// SignedAmount returns the record's contribution to a balance.
func (r *TransactionRecord) SignedAmount() decimal.Decimal {
	if r.CategoryType == models.CategoryTypeExpense {
		return r.Amount.Neg()
	}
	return r.Amount
}

// CategoryTotal is one category's total within a summary.
type CategoryTotal struct {
	Name  string          `json:"name"`
	Total decimal.Decimal `json:"total"`
}

// SummarySide holds the per-category breakdown and total for one category type.
type SummarySide struct {
	Categories []CategoryTotal `json:"categories"`
	Total      decimal.Decimal `json:"total"`
}

// MonthlySummary is the income/expense breakdown of one calendar month.
type MonthlySummary struct {
	Year    int             `json:"year"`
	Month   time.Month      `json:"month"`
	Income  SummarySide     `json:"income"`
	Expense SummarySide     `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
}

// ledgerService is the store for the transaction ledger.
type ledgerService struct {
	store      *database.Manager
	categories CategoryServicer
}

// NewLedgerService creates a new LedgerServicer.
func NewLedgerService(store *database.Manager, categories CategoryServicer) LedgerServicer {
	return &ledgerService{store: store, categories: categories}
}

// AddTransaction inserts a ledger entry. Amounts are stored positive; the
// direction comes from the category's type.
func (s *ledgerService) AddTransaction(userID uint, date time.Time, amount decimal.Decimal, description string, categoryID uint) (*models.Transaction, error) {
	if !amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "amount must be greater than zero")
	}
	if date.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "date is required")
	}

	// The category must be global or owned by this user.
	if _, err := s.categories.GetVisibleCategory(userID, categoryID); err != nil {
		if errors.Is(err, apperrors.ErrCategoryNotFound) {
			return nil, apperrors.WithMessage(apperrors.ErrValidation, "category not found")
		}
		return nil, err
	}

	transaction := &models.Transaction{
		UserID:      userID,
		CategoryID:  categoryID,
		Date:        models.NormalizeDate(date),
		Amount:      amount,
		Description: description,
	}
	if err := s.store.DB().Create(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transaction, nil
}

// DeleteTransaction removes a ledger entry permanently.
func (s *ledgerService) DeleteTransaction(userID, transactionID uint) error {
	result := s.store.DB().
		Where("id = ? AND user_id = ?", transactionID, userID).
		Delete(&models.Transaction{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrTransactionNotFound
	}
	return nil
}

// GetTransactions returns the user's ledger joined with category name/type,
// most recent first: date descending, insertion order descending within a day.
// Every other "most recent first" display depends on this ordering.
func (s *ledgerService) GetTransactions(userID uint, filter TransactionFilter) ([]TransactionRecord, error) {
	query := s.store.DB().
		Model(&models.Transaction{}).
		Select("transactions.id, transactions.date, transactions.amount, transactions.description, transactions.category_id, categories.name AS category_name, categories.type AS category_type").
		Joins("JOIN categories ON categories.id = transactions.category_id").
		Where("transactions.user_id = ?", userID)

	if filter.StartDate != nil {
		query = query.Where("transactions.date >= ?", models.NormalizeDate(*filter.StartDate))
	}
	if filter.EndDate != nil {
		query = query.Where("transactions.date <= ?", models.NormalizeDate(*filter.EndDate))
	}
	if filter.CategoryID != nil {
		query = query.Where("transactions.category_id = ?", *filter.CategoryID)
	}

	records := []TransactionRecord{}
	if err := query.Order("transactions.date DESC, transactions.id DESC").Scan(&records).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return records, nil
}

// GetBalance returns total income minus total expense within the optional
// window. Zero when nothing matches, never an error for an empty ledger.
func (s *ledgerService) GetBalance(userID uint, startDate, endDate *time.Time) (decimal.Decimal, error) {
	records, err := s.GetTransactions(userID, TransactionFilter{StartDate: startDate, EndDate: endDate})
	if err != nil {
		return decimal.Zero, err
	}

	balance := decimal.Zero
	for i := range records {
		balance = balance.Add(records[i].SignedAmount())
	}
	return balance, nil
}

// GetMonthlySummary groups one month's transactions by category name and sums
// them per type. The window is [year-month-01, next-month-01), so December
// rolls over into January of the next year.
func (s *ledgerService) GetMonthlySummary(userID uint, year int, month time.Month) (*MonthlySummary, error) {
	start, end := MonthWindow(year, month)
	// Dates are midnight-normalized, so the half-open window is equivalent to
	// an inclusive bound on the month's last day.
	lastDay := end.AddDate(0, 0, -1)

	records, err := s.GetTransactions(userID, TransactionFilter{StartDate: &start, EndDate: &lastDay})
	if err != nil {
		return nil, err
	}

	summary := &MonthlySummary{Year: year, Month: month}
	summary.Income = summarizeSide(records, models.CategoryTypeIncome)
	summary.Expense = summarizeSide(records, models.CategoryTypeExpense)
	summary.Balance = summary.Income.Total.Sub(summary.Expense.Total)
	return summary, nil
}

// summarizeSide totals the records of one category type, grouped by category
// name and ordered by descending total (name ascending on ties).
func summarizeSide(records []TransactionRecord, categoryType models.CategoryType) SummarySide {
	totals := make(map[string]decimal.Decimal)
	for i := range records {
		if records[i].CategoryType != categoryType {
			continue
		}
		totals[records[i].CategoryName] = totals[records[i].CategoryName].Add(records[i].Amount)
	}

	side := SummarySide{Categories: []CategoryTotal{}, Total: decimal.Zero}
	for name, total := range totals {
		side.Categories = append(side.Categories, CategoryTotal{Name: name, Total: total})
		side.Total = side.Total.Add(total)
	}
	sort.Slice(side.Categories, func(i, j int) bool {
		if !side.Categories[i].Total.Equal(side.Categories[j].Total) {
			return side.Categories[i].Total.GreaterThan(side.Categories[j].Total)
		}
		return side.Categories[i].Name < side.Categories[j].Name
	})
	return side
}

// MonthWindow returns the half-open window [first of month, first of next month).
func MonthWindow(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}
