package service

import (
	"strings"
	"time"

	"github.com/youngre511/PeachBlossom-eStore-sub003/internal/constants"
	"github.com/youngre511/PeachBlossom-eStore-sub003/internal/models"
	"github.com/youngre511/PeachBlossom-eStore-sub003/internal/repository"

	"github.com/shopspring/decimal"
)

// PromotionService resolves the effective unit price of a product.
type PromotionService struct {
	promotionRepo repository.PromotionRepository
}

// NewPromotionService creates a promotion service.
func NewPromotionService(promotionRepo repository.PromotionRepository) *PromotionService {
	return &PromotionService{
		promotionRepo: promotionRepo,
	}
}

// Resolve returns the winning promotion and the discounted unit price
// for product at the given instant. When several promotions reach the
// product, the one yielding the lowest price wins; price ties go to
// the promotion with the lowest id. A product with no applicable
// promotion returns (nil, base price).
func (s *PromotionService) Resolve(product *models.Product, now time.Time) (*models.Promotion, models.Money, error) {
	if product == nil {
		return nil, models.Money{}, ErrPromotionInvalid
	}

	promotions, err := s.promotionRepo.ListActiveFor(product.ProductNo, product.CategoryID, now)
	if err != nil {
		return nil, models.Money{}, err
	}
	if len(promotions) == 0 {
		return nil, product.PriceAmount, nil
	}

	var winner *models.Promotion
	best := product.PriceAmount.Decimal
	for i := range promotions {
		candidate, err := discountedPrice(product.PriceAmount, &promotions[i])
		if err != nil {
			return nil, models.Money{}, err
		}
		// The repository lists by ascending id, so a strict
		// comparison settles ties in favor of the lowest id.
		if winner == nil || candidate.LessThan(best) {
			winner = &promotions[i]
			best = candidate
		}
	}

	return winner, models.NewMoneyFromDecimal(best), nil
}

// discountedPrice applies a single promotion to the base unit price.
// Percentage values are fractions (0.10 means ten percent off).
func discountedPrice(base models.Money, promotion *models.Promotion) (decimal.Decimal, error) {
	value := promotion.Value.Decimal
	if value.LessThan(decimal.Zero) {
		return decimal.Zero, ErrPromotionInvalid
	}

	switch strings.ToLower(strings.TrimSpace(promotion.DiscountType)) {
	case constants.DiscountTypePercentage:
		if value.GreaterThan(decimal.NewFromInt(1)) {
			return decimal.Zero, ErrPromotionInvalid
		}
		discounted := base.Decimal.Mul(decimal.NewFromInt(1).Sub(value))
		return discounted.Round(2), nil
	case constants.DiscountTypeFixed:
		discounted := base.Decimal.Sub(value)
		if discounted.LessThan(decimal.Zero) {
			discounted = decimal.Zero
		}
		return discounted.Round(2), nil
	default:
		return decimal.Zero, ErrPromotionInvalid
	}
}
