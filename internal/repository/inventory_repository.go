package repository

import (
	"errors"

	"github.com/youngre511/PeachBlossom-eStore-sub003/internal/models"

	"gorm.io/gorm"
)

// InventoryRepository is the data access surface of the stock ledger.
// The mutation methods are conditional single-statement updates: the
// returned row count tells the caller whether the guard held, so
// concurrent writers can never drive availability below zero.
type InventoryRepository interface {
	GetByProductNo(productNo string) (*models.InventoryRecord, error)
	ListByProductNos(productNos []string) ([]models.InventoryRecord, error)
	Create(record *models.InventoryRecord) error
	Update(record *models.InventoryRecord) error
	ReserveStock(productNo string, quantity int) (int64, error)
	ReleaseStock(productNo string, quantity int) (int64, error)
	CommitStock(productNo string, quantity int) (int64, error)
	DirectDecrement(productNo string, quantity int) (int64, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) InventoryRepository
}

// GormInventoryRepository is the GORM implementation.
type GormInventoryRepository struct {
	db *gorm.DB
}

// NewInventoryRepository creates an inventory repository.
func NewInventoryRepository(db *gorm.DB) *GormInventoryRepository {
	return &GormInventoryRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormInventoryRepository) WithTx(tx *gorm.DB) InventoryRepository {
	if tx == nil {
		return r
	}
	return &GormInventoryRepository{db: tx}
}

// Transaction runs fn inside a transaction.
func (r *GormInventoryRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// GetByProductNo fetches the ledger row for a product. Missing rows
// return (nil, nil).
func (r *GormInventoryRepository) GetByProductNo(productNo string) (*models.InventoryRecord, error) {
	var record models.InventoryRecord
	if err := r.db.Where("product_no = ?", productNo).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// ListByProductNos fetches ledger rows in bulk.
func (r *GormInventoryRepository) ListByProductNos(productNos []string) ([]models.InventoryRecord, error) {
	if len(productNos) == 0 {
		return []models.InventoryRecord{}, nil
	}
	var records []models.InventoryRecord
	if err := r.db.Where("product_no IN ?", productNos).Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Create inserts a ledger row.
func (r *GormInventoryRepository) Create(record *models.InventoryRecord) error {
	return r.db.Create(record).Error
}

// Update saves a ledger row.
func (r *GormInventoryRepository) Update(record *models.InventoryRecord) error {
	return r.db.Save(record).Error
}

// ReserveStock moves quantity units into the reserved bucket, guarded
// on available stock. Zero rows affected means insufficient stock.
func (r *GormInventoryRepository) ReserveStock(productNo string, quantity int) (int64, error) {
	if productNo == "" || quantity <= 0 {
		return 0, errors.New("invalid stock reserve params")
	}
	result := r.db.Model(&models.InventoryRecord{}).
		Where("product_no = ? AND stock - reserved >= ?", productNo, quantity).
		Update("reserved", gorm.Expr("reserved + ?", quantity))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// ReleaseStock returns quantity units from the reserved bucket,
// flooring at zero so a double release cannot corrupt the ledger.
func (r *GormInventoryRepository) ReleaseStock(productNo string, quantity int) (int64, error) {
	if productNo == "" || quantity <= 0 {
		return 0, errors.New("invalid stock release params")
	}
	result := r.db.Model(&models.InventoryRecord{}).
		Where("product_no = ?", productNo).
		Update("reserved", gorm.Expr("CASE WHEN reserved >= ? THEN reserved - ? ELSE 0 END", quantity, quantity))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// CommitStock converts a reservation into a sale: both stock and
// reserved drop by quantity. Requires an existing hold of at least
// quantity units.
func (r *GormInventoryRepository) CommitStock(productNo string, quantity int) (int64, error) {
	if productNo == "" || quantity <= 0 {
		return 0, errors.New("invalid stock commit params")
	}
	result := r.db.Model(&models.InventoryRecord{}).
		Where("product_no = ? AND stock >= ? AND reserved >= ?", productNo, quantity, quantity).
		Updates(map[string]interface{}{
			"stock":    gorm.Expr("stock - ?", quantity),
			"reserved": gorm.Expr("reserved - ?", quantity),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// DirectDecrement sells quantity units that were never reserved,
// guarded on available stock. Used by guest checkout.
func (r *GormInventoryRepository) DirectDecrement(productNo string, quantity int) (int64, error) {
	if productNo == "" || quantity <= 0 {
		return 0, errors.New("invalid stock decrement params")
	}
	result := r.db.Model(&models.InventoryRecord{}).
		Where("product_no = ? AND stock - reserved >= ?", productNo, quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
