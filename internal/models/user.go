// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a registered account. A user sells goods they listed and
// buys goods listed by others.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"unique;not null" json:"username"`
	Email     string         `json:"email"`
	Password  string         `gorm:"not null" json:"-"`
	IsStaff   bool           `json:"is_staff"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Goods     []Goods        `gorm:"foreignKey:SellerID" json:"goods,omitempty"`
}
