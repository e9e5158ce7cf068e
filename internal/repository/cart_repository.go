package repository

import (
	"errors"
	"time"

	"github.com/youngre511/PeachBlossom-eStore-sub003/internal/models"

	"gorm.io/gorm"
)

// CartRepository is the data access surface of carts and their items.
type CartRepository interface {
	GetByToken(token string) (*models.Cart, error)
	GetByCustomerID(customerID uint) (*models.Cart, error)
	Create(cart *models.Cart) error
	Update(cart *models.Cart) error
	Delete(cartID uint) error
	GetItem(cartID uint, productNo string) (*models.CartItem, error)
	CreateItem(item *models.CartItem) error
	UpdateItem(item *models.CartItem) error
	DeleteItem(cartID uint, productNo string) error
	ClearItems(cartID uint) error
	MarkItemReserved(itemID uint, until time.Time) error
	ClearItemReservation(itemID uint) error
	ListExpiredReservedItems(now time.Time, limit int) ([]models.CartItem, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) CartRepository
}

// GormCartRepository is the GORM implementation.
type GormCartRepository struct {
	db *gorm.DB
}

// NewCartRepository creates a cart repository.
func NewCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormCartRepository) WithTx(tx *gorm.DB) CartRepository {
	if tx == nil {
		return r
	}
	return &GormCartRepository{db: tx}
}

// Transaction runs fn inside a transaction.
func (r *GormCartRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// GetByToken fetches a cart with its items by session token. Missing
// rows return (nil, nil).
func (r *GormCartRepository) GetByToken(token string) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC, id ASC")
	}).Where("token = ?", token).First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cart, nil
}

// GetByCustomerID fetches the cart owned by a customer. Missing rows
// return (nil, nil).
func (r *GormCartRepository) GetByCustomerID(customerID uint) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC, id ASC")
	}).Where("customer_id = ?", customerID).First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cart, nil
}

// Create inserts a cart.
func (r *GormCartRepository) Create(cart *models.Cart) error {
	return r.db.Create(cart).Error
}

// Update saves cart columns, not its items.
func (r *GormCartRepository) Update(cart *models.Cart) error {
	return r.db.Omit("Items").Save(cart).Error
}

// Delete removes a cart and its items.
func (r *GormCartRepository) Delete(cartID uint) error {
	if err := r.ClearItems(cartID); err != nil {
		return err
	}
	return r.db.Delete(&models.Cart{}, cartID).Error
}

// GetItem fetches one cart line. Missing rows return (nil, nil).
func (r *GormCartRepository) GetItem(cartID uint, productNo string) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.Where("cart_id = ? AND product_no = ?", cartID, productNo).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// CreateItem inserts a cart line.
func (r *GormCartRepository) CreateItem(item *models.CartItem) error {
	return r.db.Create(item).Error
}

// UpdateItem saves a cart line.
func (r *GormCartRepository) UpdateItem(item *models.CartItem) error {
	return r.db.Save(item).Error
}

// DeleteItem removes one cart line.
func (r *GormCartRepository) DeleteItem(cartID uint, productNo string) error {
	return r.db.Where("cart_id = ? AND product_no = ?", cartID, productNo).Delete(&models.CartItem{}).Error
}

// ClearItems removes every line of a cart.
func (r *GormCartRepository) ClearItems(cartID uint) error {
	return r.db.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error
}

// MarkItemReserved records an active stock hold on a cart line.
func (r *GormCartRepository) MarkItemReserved(itemID uint, until time.Time) error {
	return r.db.Model(&models.CartItem{}).Where("id = ?", itemID).
		Updates(map[string]interface{}{
			"reserved":       true,
			"reserved_until": until,
		}).Error
}

// ClearItemReservation drops the hold marker on a cart line.
func (r *GormCartRepository) ClearItemReservation(itemID uint) error {
	return r.db.Model(&models.CartItem{}).Where("id = ?", itemID).
		Updates(map[string]interface{}{
			"reserved":       false,
			"reserved_until": nil,
		}).Error
}

// ListExpiredReservedItems returns cart lines whose hold has lapsed.
func (r *GormCartRepository) ListExpiredReservedItems(now time.Time, limit int) ([]models.CartItem, error) {
	var items []models.CartItem
	query := r.db.Where("reserved = ? AND reserved_until IS NOT NULL AND reserved_until <= ?", true, now).
		Order("reserved_until ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
