package models

// User represents a registered user of the application.
//
// Email is optional but must be unique when present; SQLite unique indexes
// allow any number of NULLs, so users without an email never collide.
type User struct {
	Base
	Username string  `gorm:"uniqueIndex;not null" json:"username"`
	Password string  `gorm:"not null" json:"-"`
	FullName string  `gorm:"not null" json:"full_name"`
	Email    *string `gorm:"uniqueIndex" json:"email,omitempty"`
	Settings string  `json:"-"`

	Categories   []Category    `gorm:"foreignKey:UserID" json:"categories,omitempty"`
	Transactions []Transaction `gorm:"foreignKey:UserID" json:"transactions,omitempty"`
}
