package service

import (
	"context"

	"github.com/youngre511/PeachBlossom-eStore-sub003/internal/logger"
	"github.com/youngre511/PeachBlossom-eStore-sub003/internal/models"
	"github.com/youngre511/PeachBlossom-eStore-sub003/internal/repository"

	"github.com/google/uuid"
)

// MergeFailure records one anonymous cart line that could not be
// carried into the customer's cart.
type MergeFailure struct {
	ProductNo string `json:"product_no"`
	Quantity  int    `json:"quantity"`
	Reason    string `json:"reason"`
}

// CartMergeService folds an anonymous cart into a customer's cart at
// login time.
type CartMergeService struct {
	cartRepo  repository.CartRepository
	carts     *CartService
	inventory *InventoryService
}

// NewCartMergeService creates a cart merge service.
func NewCartMergeService(cartRepo repository.CartRepository, carts *CartService, inventory *InventoryService) *CartMergeService {
	return &CartMergeService{
		cartRepo:  cartRepo,
		carts:     carts,
		inventory: inventory,
	}
}

// MergeOnLogin combines the anonymous cart identified by token with
// the customer's cart. When the customer has no cart yet the
// anonymous one is simply adopted. When both exist, every anonymous
// line is replayed through AddItem so quantities combine and pricing
// re-resolves; a line that fails is reported and skipped rather than
// aborting the merge.
func (s *CartMergeService) MergeOnLogin(ctx context.Context, anonymousToken string, customerID uint) (*CartDetail, []MergeFailure, error) {
	customerCart, err := s.cartRepo.GetByCustomerID(customerID)
	if err != nil {
		return nil, nil, err
	}

	var anonymous *models.Cart
	if anonymousToken != "" {
		anonymous, err = s.cartRepo.GetByToken(anonymousToken)
		if err != nil {
			return nil, nil, err
		}
		if anonymous != nil && anonymous.CustomerID != nil && *anonymous.CustomerID != customerID {
			// The token belongs to someone else; ignore it.
			anonymous = nil
		}
	}

	if customerCart == nil {
		if anonymous != nil {
			anonymous.CustomerID = &customerID
			if err := s.cartRepo.Update(anonymous); err != nil {
				return nil, nil, &TransactionError{Op: "merge carts", Err: err}
			}
			detail, err := s.carts.GetCart(ctx, anonymous.Token)
			return detail, nil, err
		}
		fresh := &models.Cart{Token: uuid.NewString(), CustomerID: &customerID}
		if err := s.cartRepo.Create(fresh); err != nil {
			return nil, nil, &TransactionError{Op: "merge carts", Err: err}
		}
		detail, err := s.carts.GetCart(ctx, fresh.Token)
		return detail, nil, err
	}

	var failures []MergeFailure
	if anonymous != nil && anonymous.ID != customerCart.ID {
		for i := range anonymous.Items {
			item := &anonymous.Items[i]
			if item.Reserved {
				if err := s.inventory.ReleaseItem(ctx, item); err != nil {
					logger.Warnw("release hold during merge failed",
						"cart_item_id", item.ID, "error", err)
				}
			}
			_, err := s.carts.AddItem(ctx, AddItemInput{
				CartToken:    customerCart.Token,
				ProductNo:    item.ProductNo,
				Quantity:     item.Quantity,
				ThumbnailURL: item.ThumbnailURL,
				CustomerID:   &customerID,
			})
			if err != nil {
				failures = append(failures, MergeFailure{
					ProductNo: item.ProductNo,
					Quantity:  item.Quantity,
					Reason:    err.Error(),
				})
			}
		}
		if err := s.cartRepo.Delete(anonymous.ID); err != nil {
			logger.Warnw("discard anonymous cart failed", "cart_id", anonymous.ID, "error", err)
		}
	}

	detail, err := s.carts.GetCart(ctx, customerCart.Token)
	if err != nil {
		return nil, failures, err
	}
	return detail, failures, nil
}
