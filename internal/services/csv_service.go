package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"fintrack/internal/database"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
)

// csvHeader is the exchange format's fixed column set.
var csvHeader = []string{"date", "category_name", "description", "amount", "category_type"}

// csvService exports and imports a user's ledger as CSV.
type csvService struct {
	store  *database.Manager
	ledger LedgerServicer
}

// NewCSVService creates a new CSVServicer.
func NewCSVService(store *database.Manager, ledger LedgerServicer) CSVServicer {
	return &csvService{store: store, ledger: ledger}
}

// ExportTransactions writes the user's ledger to w in the order the ledger
// returns it (date descending). Amounts are the unsigned stored magnitudes;
// the sign is implied by category_type. Returns the number of rows written.
func (s *csvService) ExportTransactions(userID uint, w io.Writer, startDate, endDate *time.Time) (int, error) {
	records, err := s.ledger.GetTransactions(userID, TransactionFilter{StartDate: startDate, EndDate: endDate})
	if err != nil {
		return 0, err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return 0, apperrors.Wrap(apperrors.ErrIO, err)
	}
	for i := range records {
		row := []string{
			records[i].Date.Format(models.DateLayout),
			records[i].CategoryName,
			records[i].Description,
			records[i].Amount.String(),
			string(records[i].CategoryType),
		}
		if err := writer.Write(row); err != nil {
			return 0, apperrors.Wrap(apperrors.ErrIO, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return 0, apperrors.Wrap(apperrors.ErrIO, err)
	}
	return len(records), nil
}

// ImportTransactions reads rows in the export format and inserts them for the
// user, resolving each (category_name, category_type) pair against the
// categories visible to the user and creating a user-owned category when
// there is no match.
//
// The whole import runs in one database transaction: a malformed row rolls
// back every row inserted before it, so a failed import never leaves a
// partial ledger behind.
func (s *csvService) ImportTransactions(userID uint, r io.Reader) (int, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err == io.EOF {
		return 0, apperrors.WithMessage(apperrors.ErrFormat, "empty CSV file")
	}
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrIO, err)
	}
	columns, err := headerIndex(header)
	if err != nil {
		return 0, err
	}

	imported := 0
	err = s.store.DB().Transaction(func(tx *gorm.DB) error {
		line := 1
		for {
			row, err := reader.Read()
			if err == io.EOF {
				return nil
			}
			line++
			if err != nil {
				return apperrors.WithMessage(apperrors.ErrFormat, fmt.Sprintf("line %d: %v", line, err))
			}
			if err := s.importRow(tx, userID, columns, row, line); err != nil {
				return err
			}
			imported++
		}
	})
	if err != nil {
		return 0, err
	}
	return imported, nil
}

// importRow validates and inserts a single CSV row inside tx.
func (s *csvService) importRow(tx *gorm.DB, userID uint, columns map[string]int, row []string, line int) error {
	date, err := time.Parse(models.DateLayout, strings.TrimSpace(row[columns["date"]]))
	if err != nil {
		return apperrors.WithMessage(apperrors.ErrFormat, fmt.Sprintf("line %d: invalid date %q", line, row[columns["date"]]))
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(row[columns["amount"]]))
	if err != nil || !amount.IsPositive() {
		return apperrors.WithMessage(apperrors.ErrFormat, fmt.Sprintf("line %d: invalid amount %q", line, row[columns["amount"]]))
	}

	categoryType := models.CategoryType(strings.TrimSpace(row[columns["category_type"]]))
	if !categoryType.Valid() {
		return apperrors.WithMessage(apperrors.ErrFormat, fmt.Sprintf("line %d: invalid category type %q", line, row[columns["category_type"]]))
	}

	categoryName := strings.TrimSpace(row[columns["category_name"]])
	if categoryName == "" {
		return apperrors.WithMessage(apperrors.ErrFormat, fmt.Sprintf("line %d: missing category name", line))
	}

	categoryID, err := resolveCategory(tx, userID, categoryName, categoryType)
	if err != nil {
		return err
	}

	transaction := &models.Transaction{
		UserID:      userID,
		CategoryID:  categoryID,
		Date:        models.NormalizeDate(date),
		Amount:      amount,
		Description: row[columns["description"]],
	}
	if err := tx.Create(transaction).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// resolveCategory finds a (name, type) category visible to the user, creating
// a user-owned one when absent.
func resolveCategory(tx *gorm.DB, userID uint, name string, categoryType models.CategoryType) (uint, error) {
	var category models.Category
	err := tx.Where("name = ? AND type = ? AND (user_id IS NULL OR user_id = ?)", name, categoryType, userID).
		First(&category).Error
	if err == nil {
		return category.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	category = models.Category{Name: name, Type: categoryType, UserID: &userID}
	if err := tx.Create(&category).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return category.ID, nil
}

// headerIndex maps the expected column names to their positions, so exports
// from versions with a different column order still import.
func headerIndex(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, required := range csvHeader {
		if _, ok := columns[required]; !ok {
			return nil, apperrors.WithMessage(apperrors.ErrFormat, fmt.Sprintf("missing column %q", required))
		}
	}
	return columns, nil
}
