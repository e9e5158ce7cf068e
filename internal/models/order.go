package models

import (
	"time"

	"gorm.io/gorm"
)

// Order is a placed order. The contact and shipping fields are snapshots
// copied at order time; monetary fields never mutate after creation.
type Order struct {
	ID              uint           `gorm:"primarykey" json:"id"`                                        // primary key
	OrderNo         string         `gorm:"type:varchar(32);uniqueIndex;not null" json:"order_no"`       // external-facing order number
	CustomerID      *uint          `gorm:"index" json:"customer_id,omitempty"`                          // owning customer, nil for guest orders
	Email           string         `gorm:"type:varchar(254);index;not null" json:"email"`               // contact email snapshot
	PhoneNumber     string         `gorm:"type:varchar(30)" json:"phone_number,omitempty"`              // contact phone snapshot
	ShippingAddress string         `gorm:"type:varchar(255);not null" json:"shipping_address"`          // street address snapshot
	City            string         `gorm:"type:varchar(100)" json:"city,omitempty"`                     // city snapshot
	StateProv       string         `gorm:"type:varchar(100)" json:"state_prov,omitempty"`               // state/province snapshot
	Zip             string         `gorm:"type:varchar(20)" json:"zip,omitempty"`                       // postal code snapshot
	GuestPassword   string         `gorm:"type:varchar(200)" json:"-"`                                  // guest order access password hash
	IdempotencyKey  *string        `gorm:"type:varchar(64);uniqueIndex" json:"-"`                       // client-supplied dedup key
	SubTotal        Money          `gorm:"type:decimal(20,2);not null;default:0" json:"sub_total"`      // item subtotal
	Shipping        Money          `gorm:"type:decimal(20,2);not null;default:0" json:"shipping"`       // shipping charge
	Tax             Money          `gorm:"type:decimal(20,2);not null;default:0" json:"tax"`            // tax amount
	TotalAmount     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"`   // grand total
	Status          string         `gorm:"type:varchar(20);index;not null" json:"status"`               // order status
	CancelledAt     *time.Time     `gorm:"index" json:"cancelled_at,omitempty"`                         // cancellation time
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`                                     // created time
	UpdatedAt       time.Time      `gorm:"index" json:"updated_at"`                                     // updated time
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`                                              // soft delete time

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"` // order lines
}

// TableName sets the table name.
func (Order) TableName() string {
	return "orders"
}

// OrderItem is one order line. PriceWhenOrdered is immutable once written.
type OrderItem struct {
	ID                uint           `gorm:"primarykey" json:"id"`                                             // primary key
	OrderID           uint           `gorm:"index;not null" json:"order_id"`                                   // owning order
	ProductNo         string         `gorm:"type:varchar(20);index;not null" json:"product_no"`                // stable product number
	ProductName       string         `gorm:"type:varchar(255)" json:"product_name,omitempty"`                  // name snapshot
	Quantity          int            `gorm:"not null" json:"quantity"`                                         // quantity ordered
	PriceWhenOrdered  Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price_when_ordered"`  // price snapshot
	FulfillmentStatus string         `gorm:"type:varchar(25);index;not null" json:"fulfillment_status"`        // fulfillment status
	CreatedAt         time.Time      `gorm:"index" json:"created_at"`                                          // created time
	UpdatedAt         time.Time      `gorm:"index" json:"updated_at"`                                          // updated time
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`                                                   // soft delete time
}

// TableName sets the table name.
func (OrderItem) TableName() string {
	return "order_items"
}
