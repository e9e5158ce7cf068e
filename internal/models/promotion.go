package models

import (
	"time"

	"gorm.io/gorm"
)

// Promotion is a discount rule. Percentage values are fractions (0.10 takes
// 10% off); fixed values are flat amounts floored at zero.
type Promotion struct {
	ID           uint           `gorm:"primarykey" json:"id"`                           // primary key
	Name         string         `gorm:"not null" json:"name"`                           // display name
	DiscountType string         `gorm:"type:varchar(20);not null" json:"discount_type"` // percentage / fixed
	Value        Money          `gorm:"type:decimal(20,2);not null" json:"value"`       // fraction or flat amount
	StartsAt     *time.Time     `gorm:"index" json:"starts_at"`                         // validity window start
	EndsAt       *time.Time     `gorm:"index" json:"ends_at"`                           // validity window end
	IsActive     bool           `gorm:"not null;default:true" json:"is_active"`         // enabled flag
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                        // created time
	UpdatedAt    time.Time      `gorm:"index" json:"updated_at"`                        // updated time
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                                 // soft delete time
}

// TableName sets the table name.
func (Promotion) TableName() string {
	return "promotions"
}

// ProductPromotion links a promotion to a product directly or to a whole
// category. Exactly one of ProductNo / CategoryID is meaningful per row,
// selected by ScopeType.
type ProductPromotion struct {
	ID          uint      `gorm:"primarykey" json:"id"`                        // primary key
	PromotionID uint      `gorm:"index;not null" json:"promotion_id"`          // promotion reference
	ScopeType   string    `gorm:"type:varchar(20);not null" json:"scope_type"` // product / category
	ProductNo   string    `gorm:"type:varchar(20);index" json:"product_no,omitempty"` // product scope target
	CategoryID  uint      `gorm:"index" json:"category_id,omitempty"`          // category scope target
	CreatedAt   time.Time `gorm:"index" json:"created_at"`                     // created time
}

// TableName sets the table name.
func (ProductPromotion) TableName() string {
	return "product_promotions"
}
