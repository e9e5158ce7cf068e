package service

import (
	"context"
	"time"

	"github.com/youngre511/PeachBlossom-eStore-sub003/internal/logger"
	"github.com/youngre511/PeachBlossom-eStore-sub003/internal/models"
	"github.com/youngre511/PeachBlossom-eStore-sub003/internal/queue"
	"github.com/youngre511/PeachBlossom-eStore-sub003/internal/repository"

	"gorm.io/gorm"
)

// InventoryService owns the reserved-stock ledger. Holds are taken
// all-or-nothing across a cart and lapse after a configurable window.
type InventoryService struct {
	inventoryRepo     repository.InventoryRepository
	cartRepo          repository.CartRepository
	queueClient       *queue.Client
	holdExpireMinutes int
}

// NewInventoryService creates an inventory service.
func NewInventoryService(
	inventoryRepo repository.InventoryRepository,
	cartRepo repository.CartRepository,
	queueClient *queue.Client,
	holdExpireMinutes int,
) *InventoryService {
	if holdExpireMinutes <= 0 {
		holdExpireMinutes = 15
	}
	return &InventoryService{
		inventoryRepo:     inventoryRepo,
		cartRepo:          cartRepo,
		queueClient:       queueClient,
		holdExpireMinutes: holdExpireMinutes,
	}
}

// HoldWindow is how long a hold stays valid.
func (s *InventoryService) HoldWindow() time.Duration {
	return time.Duration(s.holdExpireMinutes) * time.Minute
}

// HoldCart places a stock hold on every unreserved line of the cart.
// Either every line gets a hold or none does: any line that cannot be
// covered rolls the whole attempt back, and the error names every
// product that fell short with its shortfall.
func (s *InventoryService) HoldCart(ctx context.Context, cart *models.Cart) error {
	if cart == nil {
		return ErrCartNotFound
	}

	now := time.Now()
	until := now.Add(s.HoldWindow())
	held := make([]*models.CartItem, 0, len(cart.Items))

	err := models.DB.Transaction(func(tx *gorm.DB) error {
		inventoryRepo := s.inventoryRepo.WithTx(tx)
		cartRepo := s.cartRepo.WithTx(tx)

		var shortfalls []StockShortfall
		for i := range cart.Items {
			item := &cart.Items[i]
			if item.Reserved && item.ReservedUntil != nil && item.ReservedUntil.After(now) {
				continue
			}
			affected, err := inventoryRepo.ReserveStock(item.ProductNo, item.Quantity)
			if err != nil {
				return &TransactionError{Op: "hold", Err: err}
			}
			if affected == 0 {
				// Keep going so the error can name every line that
				// fell short, not just the first.
				shortfalls = append(shortfalls, stockShortfallIn(inventoryRepo, item.ProductNo, item.Quantity))
				continue
			}
			if err := cartRepo.MarkItemReserved(item.ID, until); err != nil {
				return &TransactionError{Op: "hold", Err: err}
			}
			held = append(held, item)
		}
		if len(shortfalls) > 0 {
			return &InsufficientStockError{Shortfalls: shortfalls}
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, item := range held {
		item.Reserved = true
		item.ReservedUntil = &until
		if enqueueErr := s.queueClient.EnqueueCartHoldExpire(ctx, item.ID, s.HoldWindow()); enqueueErr != nil {
			// The lazy expiry check on cart access still
			// covers this hold.
			logger.Warnw("enqueue hold expiry failed", "cart_item_id", item.ID, "error", enqueueErr)
		}
	}
	return nil
}

// ReleaseItem returns an item's hold to the available pool.
func (s *InventoryService) ReleaseItem(ctx context.Context, item *models.CartItem) error {
	if item == nil || !item.Reserved {
		return nil
	}
	return models.DB.Transaction(func(tx *gorm.DB) error {
		if _, err := s.inventoryRepo.WithTx(tx).ReleaseStock(item.ProductNo, item.Quantity); err != nil {
			return &TransactionError{Op: "release", Err: err}
		}
		if err := s.cartRepo.WithTx(tx).ClearItemReservation(item.ID); err != nil {
			return &TransactionError{Op: "release", Err: err}
		}
		item.Reserved = false
		item.ReservedUntil = nil
		return nil
	})
}

// ReleaseCart drops every hold the cart still has.
func (s *InventoryService) ReleaseCart(ctx context.Context, cart *models.Cart) error {
	if cart == nil {
		return nil
	}
	for i := range cart.Items {
		if err := s.ReleaseItem(ctx, &cart.Items[i]); err != nil {
			return err
		}
	}
	return nil
}

// ExpireHold releases one cart line's hold if its window has lapsed.
// Called by the queue worker; a hold that was already released or
// renewed past now is left alone.
func (s *InventoryService) ExpireHold(ctx context.Context, cartItemID uint) error {
	now := time.Now()
	return models.DB.Transaction(func(tx *gorm.DB) error {
		var item models.CartItem
		if err := tx.First(&item, cartItemID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil
			}
			return err
		}
		if !item.Reserved || item.ReservedUntil == nil || item.ReservedUntil.After(now) {
			return nil
		}
		if _, err := s.inventoryRepo.WithTx(tx).ReleaseStock(item.ProductNo, item.Quantity); err != nil {
			return err
		}
		return s.cartRepo.WithTx(tx).ClearItemReservation(item.ID)
	})
}

// ReleaseLapsed sweeps holds whose window passed without a queue
// delivery, e.g. after a worker outage.
func (s *InventoryService) ReleaseLapsed(ctx context.Context, limit int) (int, error) {
	items, err := s.cartRepo.ListExpiredReservedItems(time.Now(), limit)
	if err != nil {
		return 0, err
	}
	released := 0
	for i := range items {
		if err := s.ExpireHold(ctx, items[i].ID); err != nil {
			return released, err
		}
		released++
	}
	return released, nil
}

// Availability reports how many units of a product can still be sold.
func (s *InventoryService) Availability(productNo string) (int, error) {
	record, err := s.inventoryRepo.GetByProductNo(productNo)
	if err != nil {
		return 0, err
	}
	if record == nil {
		return 0, ErrProductNotFound
	}
	return record.Available(), nil
}
