package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/youngre511/PeachBlossom-eStore-sub003/internal/constants"
	"github.com/youngre511/PeachBlossom-eStore-sub003/internal/models"
	"github.com/youngre511/PeachBlossom-eStore-sub003/internal/repository"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const orderNoMaxAttempts = 5

// PlaceOrderInput is everything needed to turn a cart into an order.
type PlaceOrderInput struct {
	CartToken       string
	CustomerID      *uint
	IdempotencyKey  string
	Email           string
	PhoneNumber     string
	ShippingAddress string
	City            string
	StateProv       string
	Zip             string
	// GuestPassword protects guest order lookups. Required when
	// CustomerID is nil.
	GuestPassword string
}

// OrderTotals breaks down what the order charges.
type OrderTotals struct {
	SubTotal models.Money `json:"sub_total"`
	Shipping models.Money `json:"shipping"`
	Tax      models.Money `json:"tax"`
	Total    models.Money `json:"total"`
}

// OrderService turns carts into orders and manages order state after
// placement.
type OrderService struct {
	orderRepo     repository.OrderRepository
	cartRepo      repository.CartRepository
	inventoryRepo repository.InventoryRepository
	numberPrefix  string
	taxRate       decimal.Decimal
	shippingRate  decimal.Decimal
}

// NewOrderService creates an order service. taxRate is a fraction of
// the subtotal; shippingFlatRate is charged per order.
func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	inventoryRepo repository.InventoryRepository,
	numberPrefix string,
	taxRate float64,
	shippingFlatRate float64,
) *OrderService {
	prefix := strings.TrimSpace(numberPrefix)
	if prefix == "" {
		prefix = constants.DefaultOrderNumberPrefix
	}
	return &OrderService{
		orderRepo:     orderRepo,
		cartRepo:      cartRepo,
		inventoryRepo: inventoryRepo,
		numberPrefix:  prefix,
		taxRate:       decimal.NewFromFloat(taxRate),
		shippingRate:  decimal.NewFromFloat(shippingFlatRate),
	}
}

// PlaceOrder persists the order, its items, and the matching stock
// movements as one transaction. Lines with a live hold are committed;
// lines without one (guest checkout, lapsed holds) are decremented
// directly against available stock. The cart is discarded on success.
// A transient store failure is retried once.
func (s *OrderService) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*models.Order, error) {
	order, err := s.placeOrderOnce(ctx, input)
	var txErr *TransactionError
	if errors.As(err, &txErr) {
		time.Sleep(100 * time.Millisecond)
		return s.placeOrderOnce(ctx, input)
	}
	return order, err
}

func (s *OrderService) placeOrderOnce(ctx context.Context, input PlaceOrderInput) (*models.Order, error) {
	if err := validateShipping(input); err != nil {
		return nil, err
	}

	key := strings.TrimSpace(input.IdempotencyKey)
	if key != "" {
		existing, err := s.orderRepo.GetByIdempotencyKey(key)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrDuplicateSubmission
		}
	}

	var guestPassword string
	if input.CustomerID == nil {
		if strings.TrimSpace(input.GuestPassword) == "" {
			return nil, ErrGuestPasswordRequired
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(input.GuestPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		guestPassword = string(hashed)
	}

	cart, err := s.cartRepo.GetByToken(input.CartToken)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, ErrCartNotFound
	}
	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	orderNo, err := s.generateUniqueOrderNo()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	totals := s.computeTotals(cart.Items)
	order := &models.Order{
		OrderNo:         orderNo,
		CustomerID:      input.CustomerID,
		Email:           strings.ToLower(strings.TrimSpace(input.Email)),
		PhoneNumber:     strings.TrimSpace(input.PhoneNumber),
		ShippingAddress: strings.TrimSpace(input.ShippingAddress),
		City:            strings.TrimSpace(input.City),
		StateProv:       strings.TrimSpace(input.StateProv),
		Zip:             strings.TrimSpace(input.Zip),
		GuestPassword:   guestPassword,
		SubTotal:        totals.SubTotal,
		Shipping:        totals.Shipping,
		Tax:             totals.Tax,
		TotalAmount:     totals.Total,
		Status:          constants.OrderStatusProcessing,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if key != "" {
		order.IdempotencyKey = &key
	}

	items := make([]models.OrderItem, 0, len(cart.Items))
	for i := range cart.Items {
		line := cart.Items[i]
		items = append(items, models.OrderItem{
			ProductNo:         line.ProductNo,
			Quantity:          line.Quantity,
			PriceWhenOrdered:  line.FinalPrice,
			FulfillmentStatus: constants.FulfillmentUnfulfilled,
		})
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		inventoryRepo := s.inventoryRepo.WithTx(tx)
		cartRepo := s.cartRepo.WithTx(tx)

		if err := orderRepo.Create(order, items); err != nil {
			return &TransactionError{Op: "place order", Err: err}
		}

		for i := range cart.Items {
			line := &cart.Items[i]
			held := line.Reserved && line.ReservedUntil != nil && line.ReservedUntil.After(now)
			var affected int64
			var err error
			if held {
				affected, err = inventoryRepo.CommitStock(line.ProductNo, line.Quantity)
			} else {
				affected, err = inventoryRepo.DirectDecrement(line.ProductNo, line.Quantity)
			}
			if err != nil {
				return &TransactionError{Op: "place order", Err: err}
			}
			if affected == 0 {
				return insufficientStockIn(inventoryRepo, line.ProductNo, line.Quantity)
			}
		}

		if err := cartRepo.Delete(cart.ID); err != nil {
			return &TransactionError{Op: "place order", Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// GetOrderForCustomer fetches one of the customer's orders.
func (s *OrderService) GetOrderForCustomer(orderNo string, customerID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByOrderNoAndCustomer(orderNo, customerID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// GetGuestOrder fetches a guest order, checking the access password.
func (s *OrderService) GetGuestOrder(orderNo, email, password string) (*models.Order, error) {
	order, err := s.orderRepo.GetByOrderNoAndEmail(orderNo, email)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if bcrypt.CompareHashAndPassword([]byte(order.GuestPassword), []byte(password)) != nil {
		return nil, ErrGuestPasswordInvalid
	}
	return order, nil
}

// ListOrdersForCustomer pages through a customer's order history.
func (s *OrderService) ListOrdersForCustomer(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	if filter.CustomerID == 0 {
		return nil, 0, ErrOrderNotFound
	}
	return s.orderRepo.ListByCustomer(filter)
}

// UpdateStatus moves an order along its status machine.
func (s *OrderService) UpdateStatus(orderNo, target string) (*models.Order, error) {
	order, err := s.orderRepo.GetByOrderNo(orderNo)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if !isTransitionAllowed(order.Status, target) {
		return nil, ErrOrderStatusInvalid
	}
	if order.Status == target {
		return order, nil
	}

	now := time.Now()
	updates := map[string]interface{}{"updated_at": now}
	if target == constants.OrderStatusCancelled {
		updates["cancelled_at"] = now
	}
	if err := s.orderRepo.UpdateStatus(order.ID, target, updates); err != nil {
		return nil, &TransactionError{Op: "update status", Err: err}
	}
	order.Status = target
	return order, nil
}

// CancelOrder cancels an order and puts its units back on the shelf.
func (s *OrderService) CancelOrder(orderNo string) (*models.Order, error) {
	order, err := s.orderRepo.GetByOrderNo(orderNo)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if !isTransitionAllowed(order.Status, constants.OrderStatusCancelled) {
		return nil, ErrOrderStatusInvalid
	}

	now := time.Now()
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		updates := map[string]interface{}{
			"updated_at":   now,
			"cancelled_at": now,
		}
		if err := orderRepo.UpdateStatus(order.ID, constants.OrderStatusCancelled, updates); err != nil {
			return err
		}
		for i := range order.Items {
			item := &order.Items[i]
			restock := tx.Model(&models.InventoryRecord{}).
				Where("product_no = ?", item.ProductNo).
				Update("stock", gorm.Expr("stock + ?", item.Quantity))
			if restock.Error != nil {
				return restock.Error
			}
			if err := orderRepo.UpdateItemFulfillment(item.ID, constants.FulfillmentCancelled); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, &TransactionError{Op: "cancel order", Err: err}
	}
	order.Status = constants.OrderStatusCancelled
	order.CancelledAt = &now
	return order, nil
}

// UpdateItemFulfillment sets one line's fulfillment state and nudges
// the order status forward when every line is fulfilled.
func (s *OrderService) UpdateItemFulfillment(orderNo, productNo, status string) (*models.Order, error) {
	if !validFulfillmentStatus(status) {
		return nil, ErrOrderStatusInvalid
	}
	order, err := s.orderRepo.GetByOrderNo(orderNo)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	var target *models.OrderItem
	statuses := make([]string, 0, len(order.Items))
	for i := range order.Items {
		if order.Items[i].ProductNo == productNo {
			target = &order.Items[i]
			statuses = append(statuses, status)
			continue
		}
		statuses = append(statuses, order.Items[i].FulfillmentStatus)
	}
	if target == nil {
		return nil, ErrItemNotInCart
	}

	if err := s.orderRepo.UpdateItemFulfillment(target.ID, status); err != nil {
		return nil, &TransactionError{Op: "update fulfillment", Err: err}
	}
	target.FulfillmentStatus = status

	if aggregateFulfillment(statuses) == constants.FulfillmentFulfilled &&
		isTransitionAllowed(order.Status, constants.OrderStatusReadyToShip) &&
		order.Status == constants.OrderStatusProcessing {
		if err := s.orderRepo.UpdateStatus(order.ID, constants.OrderStatusReadyToShip, nil); err != nil {
			return nil, &TransactionError{Op: "update fulfillment", Err: err}
		}
		order.Status = constants.OrderStatusReadyToShip
	}
	return order, nil
}

// Totals recomputes the charge breakdown for a set of cart lines.
func (s *OrderService) Totals(items []models.CartItem) OrderTotals {
	return s.computeTotals(items)
}

func (s *OrderService) computeTotals(items []models.CartItem) OrderTotals {
	subtotal := decimal.Zero
	for i := range items {
		line := items[i].FinalPrice.Decimal.Mul(decimal.NewFromInt(int64(items[i].Quantity)))
		subtotal = subtotal.Add(line)
	}
	shipping := s.shippingRate
	if subtotal.IsZero() {
		shipping = decimal.Zero
	}
	tax := subtotal.Mul(s.taxRate).Round(2)
	total := subtotal.Add(shipping).Add(tax)
	return OrderTotals{
		SubTotal: models.NewMoneyFromDecimal(subtotal),
		Shipping: models.NewMoneyFromDecimal(shipping),
		Tax:      models.NewMoneyFromDecimal(tax),
		Total:    models.NewMoneyFromDecimal(total),
	}
}

func (s *OrderService) generateUniqueOrderNo() (string, error) {
	for attempt := 0; attempt < orderNoMaxAttempts; attempt++ {
		candidate := s.generateOrderNo()
		taken, err := s.orderRepo.ExistsByOrderNo(candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", ErrOrderNumberCollision
}

func (s *OrderService) generateOrderNo() string {
	now := time.Now().Format("20060102150405")
	return fmt.Sprintf("%s%s%s", s.numberPrefix, now, randNumeric(6))
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		b.WriteString(fmt.Sprintf("%d", n.Int64()))
	}
	return b.String()
}

func validateShipping(input PlaceOrderInput) error {
	if strings.TrimSpace(input.Email) == "" {
		return ErrGuestEmailRequired
	}
	if strings.TrimSpace(input.ShippingAddress) == "" ||
		strings.TrimSpace(input.City) == "" ||
		strings.TrimSpace(input.StateProv) == "" ||
		strings.TrimSpace(input.Zip) == "" {
		return ErrShippingIncomplete
	}
	return nil
}

func validFulfillmentStatus(status string) bool {
	switch status {
	case constants.FulfillmentUnfulfilled,
		constants.FulfillmentPartiallyFulfilled,
		constants.FulfillmentFulfilled,
		constants.FulfillmentBackOrdered,
		constants.FulfillmentOnHold,
		constants.FulfillmentCancelled,
		constants.FulfillmentException:
		return true
	}
	return false
}

func stockShortfallIn(repo repository.InventoryRepository, productNo string, requested int) StockShortfall {
	available := 0
	if record, err := repo.GetByProductNo(productNo); err == nil && record != nil {
		available = record.Available()
	}
	return StockShortfall{ProductNo: productNo, Requested: requested, Available: available}
}

func insufficientStockIn(repo repository.InventoryRepository, productNo string, requested int) error {
	return &InsufficientStockError{Shortfalls: []StockShortfall{stockShortfallIn(repo, productNo, requested)}}
}
