package models

// CategoryType represents the type of category
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeExpense CategoryType = "expense"
)

// Valid reports whether t is one of the known category types.
func (t CategoryType) Valid() bool {
	return t == CategoryTypeIncome || t == CategoryTypeExpense
}

// Category represents a transaction category. A nil UserID marks a global
// category visible to every user; otherwise the category belongs to one user.
//
// A category's type never changes after creation: reassigning it would
// silently flip the sign of every historical transaction linked to it.
type Category struct {
	Base
	Name   string       `gorm:"not null" json:"name"`
	Type   CategoryType `gorm:"not null" json:"type"`
	UserID *uint        `gorm:"index" json:"user_id,omitempty"`

	Transactions []Transaction `gorm:"foreignKey:CategoryID" json:"transactions,omitempty"`
}

// IsGlobal reports whether the category is visible to all users.
func (c *Category) IsGlobal() bool {
	return c.UserID == nil
}
