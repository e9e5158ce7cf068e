package repository

import (
	"errors"
	"strings"

	"github.com/youngre511/PeachBlossom-eStore-sub003/internal/models"

	"gorm.io/gorm"
)

// CustomerRepository is the data access surface of the customer mirror.
type CustomerRepository interface {
	GetByID(id uint) (*models.Customer, error)
	GetByUsername(username string) (*models.Customer, error)
	Create(customer *models.Customer) error
	WithTx(tx *gorm.DB) CustomerRepository
}

// GormCustomerRepository is the GORM implementation.
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository creates a customer repository.
func NewCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormCustomerRepository) WithTx(tx *gorm.DB) CustomerRepository {
	if tx == nil {
		return r
	}
	return &GormCustomerRepository{db: tx}
}

// GetByID fetches a customer. Missing rows return (nil, nil).
func (r *GormCustomerRepository) GetByID(id uint) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &customer, nil
}

// GetByUsername fetches a customer by login name.
func (r *GormCustomerRepository) GetByUsername(username string) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.Where("username = ?", strings.TrimSpace(username)).First(&customer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &customer, nil
}

// Create inserts a customer.
func (r *GormCustomerRepository) Create(customer *models.Customer) error {
	return r.db.Create(customer).Error
}
