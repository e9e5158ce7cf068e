package models

import (
	"time"
)

// InventoryRecord is the single source of truth for sellable quantity.
// Available quantity is always stock minus reserved; both invariants
// 0 <= reserved <= stock are enforced by conditional updates in the
// repository, never by application-side read-modify-write.
type InventoryRecord struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                    // primary key
	ProductNo string    `gorm:"type:varchar(20);uniqueIndex;not null" json:"product_no"` // stable product number
	Stock     int       `gorm:"not null;default:0" json:"stock"`                         // physically on hand
	Reserved  int       `gorm:"not null;default:0" json:"reserved"`                      // held by in-progress checkouts
	CreatedAt time.Time `gorm:"index" json:"created_at"`                                 // created time
	UpdatedAt time.Time `gorm:"index" json:"updated_at"`                                 // updated time
}

// TableName sets the table name.
func (InventoryRecord) TableName() string {
	return "inventory_records"
}

// Available returns the quantity offerable to new carts.
func (r InventoryRecord) Available() int {
	available := r.Stock - r.Reserved
	if available < 0 {
		return 0
	}
	return available
}
