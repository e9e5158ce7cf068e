package models

import (
	"time"

	"gorm.io/gorm"
)

// Customer is a minimal mirror of the customer directory: just enough to
// attach carts and orders to a logged-in user. Account management itself is
// an external collaborator.
type Customer struct {
	ID        uint           `gorm:"primarykey" json:"id"`                                  // primary key
	Username  string         `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"` // login name
	Email     string         `gorm:"type:varchar(254);index" json:"email,omitempty"`        // contact email
	CreatedAt time.Time      `gorm:"index" json:"created_at"`                               // created time
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                                        // soft delete time
}

// TableName sets the table name.
func (Customer) TableName() string {
	return "customers"
}
