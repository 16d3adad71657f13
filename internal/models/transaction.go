package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-date format used throughout the ledger:
// transaction dates carry no time component.
const DateLayout = "2006-01-02"

// Transaction represents a single ledger entry.
//
// Amount is always stored positive; the signed contribution to a balance is
// derived from the linked category's type (+amount for income, -amount for
// expense) and never stored.
type Transaction struct {
	Base
	UserID      uint            `gorm:"not null;index" json:"user_id"`
	CategoryID  uint            `gorm:"not null;index" json:"category_id"`
	Date        time.Time       `gorm:"not null;index" json:"date"`
	Amount      decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"amount"`
	Description string          `json:"description"`

	Category Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// SignedAmount returns the transaction's contribution to a balance given the
// type of its category.
func (t *Transaction) SignedAmount(categoryType CategoryType) decimal.Decimal {
	if categoryType == CategoryTypeExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// NormalizeDate truncates d to a calendar date in UTC.
func NormalizeDate(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}
