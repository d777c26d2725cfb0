// Package entity defines the domain entities for the auth feature.
package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// User represents a registered user in the system.
// It holds the login credentials and the cash balance spent by trades.
type User struct {
	// ID is the unique identifier for the user.
	ID uint `gorm:"primaryKey"`

	// Username is the login name. It must be unique across all users.
	Username string `gorm:"uniqueIndex;size:255;not null"`

	// Hash is the bcrypt hash of the password. Plaintext passwords are never stored.
	Hash string `gorm:"column:hash;size:255;not null"`

	// Cash is the user's spendable balance in dollars.
	Cash decimal.Decimal `gorm:"type:numeric(18,2);not null"`

	// CreatedAt is the timestamp when the user was created.
	CreatedAt time.Time

	// UpdatedAt is the timestamp when the user was last updated.
	UpdatedAt time.Time
}

// TableName returns the table name for GORM.
func (User) TableName() string {
	return "users"
}
