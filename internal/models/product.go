package models

import (
	"time"

	"gorm.io/gorm"
)

// Product is the relational mirror of the document-store catalog. The cart
// and order flows only ever read it; catalog writes land here through an
// out-of-band sync, never inside a checkout transaction.
type Product struct {
	ID          uint           `gorm:"primarykey" json:"id"`                                      // primary key
	ProductNo   string         `gorm:"type:varchar(20);uniqueIndex;not null" json:"product_no"`   // stable product number
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`                    // display name
	Description string         `gorm:"type:text" json:"description,omitempty"`                    // short description
	CategoryID  uint           `gorm:"index;not null" json:"category_id"`                         // category reference
	PriceAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price_amount"` // current list price
	Thumbnail   string         `gorm:"type:varchar(500)" json:"thumbnail,omitempty"`              // display thumbnail URL
	IsActive    bool           `gorm:"default:true;index" json:"is_active"`                       // discontinued products are inactive
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                                   // created time
	UpdatedAt   time.Time      `json:"updated_at"`                                                // updated time
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                            // soft delete time

	Category Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"` // category info
}

// TableName sets the table name.
func (Product) TableName() string {
	return "products"
}

// Category groups products for display and promotion scoping.
type Category struct {
	ID        uint           `gorm:"primarykey" json:"id"`                         // primary key
	Name      string         `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"` // category name
	CreatedAt time.Time      `gorm:"index" json:"created_at"`                      // created time
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                               // soft delete time
}

// TableName sets the table name.
func (Category) TableName() string {
	return "categories"
}
