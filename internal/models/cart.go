package models

import (
	"time"

	"gorm.io/gorm"
)

// Cart is an in-progress shopping cart. Anonymous carts have no customer and
// are addressed purely by their client-held token.
type Cart struct {
	ID         uint           `gorm:"primarykey" json:"id"`                                // primary key
	CustomerID *uint          `gorm:"index" json:"customer_id,omitempty"`                  // owning customer, nil for anonymous
	Token      string         `gorm:"type:varchar(36);uniqueIndex;not null" json:"token"`  // client-side cart address
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`                             // created time
	UpdatedAt  time.Time      `gorm:"index" json:"updated_at"`                             // updated time
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`                                      // soft delete time

	Items []CartItem `gorm:"foreignKey:CartID" json:"items,omitempty"` // line items
}

// TableName sets the table name.
func (Cart) TableName() string {
	return "carts"
}

// CartItem is one cart line. FinalPrice is the promotion-adjusted price
// snapshot taken at add time; it is only recomputed on re-add or checkout
// re-pricing, never live-synced to catalog changes.
type CartItem struct {
	ID            uint           `gorm:"primarykey" json:"id"`                                               // primary key
	CartID        uint           `gorm:"not null;uniqueIndex:idx_cart_item_product" json:"cart_id"`          // owning cart
	ProductNo     string         `gorm:"type:varchar(20);not null;uniqueIndex:idx_cart_item_product" json:"product_no"` // stable product number
	Quantity      int            `gorm:"not null" json:"quantity"`                                           // positive quantity
	FinalPrice    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"final_price"`           // price snapshot after promotion
	PromotionID   *uint          `gorm:"index" json:"promotion_id,omitempty"`                                // promotion that produced FinalPrice
	ThumbnailURL  string         `gorm:"type:varchar(500)" json:"thumbnail_url,omitempty"`                   // denormalized display thumbnail
	Reserved      bool           `gorm:"not null;default:false;index" json:"reserved"`                       // stock currently held for this line
	ReservedUntil *time.Time     `gorm:"index" json:"reserved_until,omitempty"`                              // hold expiry
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`                                            // created time
	UpdatedAt     time.Time      `gorm:"index" json:"updated_at"`                                            // updated time
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                                                     // soft delete time
}

// TableName sets the table name.
func (CartItem) TableName() string {
	return "cart_items"
}
