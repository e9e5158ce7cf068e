package repository

import (
	"errors"
	"time"

	"github.com/youngre511/PeachBlossom-eStore-sub003/internal/constants"
	"github.com/youngre511/PeachBlossom-eStore-sub003/internal/models"

	"gorm.io/gorm"
)

// PromotionRepository is the data access surface of promotions and
// their scope rows.
type PromotionRepository interface {
	GetByID(id uint) (*models.Promotion, error)
	ListActiveFor(productNo string, categoryID uint, now time.Time) ([]models.Promotion, error)
	Create(promotion *models.Promotion) error
	Update(promotion *models.Promotion) error
	Delete(id uint) error
	List(filter PromotionListFilter) ([]models.Promotion, int64, error)
	AddScope(scope *models.ProductPromotion) error
	WithTx(tx *gorm.DB) PromotionRepository
}

// GormPromotionRepository is the GORM implementation.
type GormPromotionRepository struct {
	db *gorm.DB
}

// NewPromotionRepository creates a promotion repository.
func NewPromotionRepository(db *gorm.DB) *GormPromotionRepository {
	return &GormPromotionRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormPromotionRepository) WithTx(tx *gorm.DB) PromotionRepository {
	if tx == nil {
		return r
	}
	return &GormPromotionRepository{db: tx}
}

// GetByID fetches a promotion. Missing rows return (nil, nil).
func (r *GormPromotionRepository) GetByID(id uint) (*models.Promotion, error) {
	var promotion models.Promotion
	if err := r.db.First(&promotion, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &promotion, nil
}

// ListActiveFor returns every promotion whose window covers now and
// whose scope rows reach the given product, either directly or through
// its category.
func (r *GormPromotionRepository) ListActiveFor(productNo string, categoryID uint, now time.Time) ([]models.Promotion, error) {
	var promotions []models.Promotion
	query := r.db.Model(&models.Promotion{}).
		Joins("JOIN product_promotions pp ON pp.promotion_id = promotions.id").
		Where("promotions.is_active = ?", true).
		Where("(promotions.starts_at IS NULL OR promotions.starts_at <= ?)", now).
		Where("(promotions.ends_at IS NULL OR promotions.ends_at >= ?)", now).
		Where("(pp.scope_type = ? AND pp.product_no = ?) OR (pp.scope_type = ? AND pp.category_id = ?)",
			constants.ScopeTypeProduct, productNo, constants.ScopeTypeCategory, categoryID).
		Distinct().
		Order("promotions.id ASC")
	if err := query.Find(&promotions).Error; err != nil {
		return nil, err
	}
	return promotions, nil
}

// Create inserts a promotion.
func (r *GormPromotionRepository) Create(promotion *models.Promotion) error {
	return r.db.Create(promotion).Error
}

// Update saves a promotion.
func (r *GormPromotionRepository) Update(promotion *models.Promotion) error {
	return r.db.Save(promotion).Error
}

// Delete removes a promotion and its scope rows.
func (r *GormPromotionRepository) Delete(id uint) error {
	if err := r.db.Where("promotion_id = ?", id).Delete(&models.ProductPromotion{}).Error; err != nil {
		return err
	}
	return r.db.Delete(&models.Promotion{}, id).Error
}

// List returns promotions matching the filter plus the total count.
func (r *GormPromotionRepository) List(filter PromotionListFilter) ([]models.Promotion, int64, error) {
	var promotions []models.Promotion

	query := r.db.Model(&models.Promotion{})
	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Order("id DESC").Find(&promotions).Error; err != nil {
		return nil, 0, err
	}

	return promotions, total, nil
}

// AddScope attaches a scope row to a promotion.
func (r *GormPromotionRepository) AddScope(scope *models.ProductPromotion) error {
	return r.db.Create(scope).Error
}
