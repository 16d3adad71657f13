package models

import "time"

// Base contains common columns for all tables.
//
// There is no soft-delete column: transaction deletion is permanent, and
// users and categories are never removed once created.
type Base struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
