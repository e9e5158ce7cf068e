package service

import (
	"context"
	"time"

	"github.com/youngre511/PeachBlossom-eStore-sub003/internal/catalog"
	"github.com/youngre511/PeachBlossom-eStore-sub003/internal/models"
	"github.com/youngre511/PeachBlossom-eStore-sub003/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CartItemDetail is one hydrated cart line for responses. The snapshot
// price is what the customer will pay; the current catalog price is
// surfaced separately so the UI can flag drift.
type CartItemDetail struct {
	ProductNo     string        `json:"product_no"`
	Name          string        `json:"name"`
	Quantity      int           `json:"quantity"`
	FinalPrice    models.Money  `json:"final_price"`
	CurrentPrice  models.Money  `json:"current_price"`
	DiscountPrice *models.Money `json:"discount_price,omitempty"`
	PromotionID   *uint         `json:"promotion_id,omitempty"`
	ThumbnailURL  string        `json:"thumbnail_url"`
	MaxAvailable  int           `json:"max_available"`
	LineTotal     models.Money  `json:"line_total"`
	Reserved      bool          `json:"reserved"`
	ReservedUntil *time.Time    `json:"reserved_until,omitempty"`
}

// CartDetail is the hydrated cart returned by every cart operation.
// Subtotal and item count are always recomputed from the lines.
type CartDetail struct {
	Token      string           `json:"cart_token"`
	CustomerID *uint            `json:"customer_id,omitempty"`
	Items      []CartItemDetail `json:"items"`
	Subtotal   models.Money     `json:"subtotal"`
	ItemCount  int              `json:"item_count"`
}

// AddItemInput describes an add-to-cart request.
type AddItemInput struct {
	CartToken    string
	ProductNo    string
	Quantity     int
	ThumbnailURL string
	CustomerID   *uint
}

// CartService owns cart lifecycle and line-item mutations.
type CartService struct {
	cartRepo      repository.CartRepository
	inventoryRepo repository.InventoryRepository
	catalogLookup catalog.Lookup
	promotions    *PromotionService
	inventory     *InventoryService
}

// NewCartService creates a cart service.
func NewCartService(
	cartRepo repository.CartRepository,
	inventoryRepo repository.InventoryRepository,
	catalogLookup catalog.Lookup,
	promotions *PromotionService,
	inventory *InventoryService,
) *CartService {
	return &CartService{
		cartRepo:      cartRepo,
		inventoryRepo: inventoryRepo,
		catalogLookup: catalogLookup,
		promotions:    promotions,
		inventory:     inventory,
	}
}

// AddItem puts quantity units of a product into the cart, creating the
// cart when the token is empty or stale. Re-adding an existing line
// bumps its quantity, re-resolves the promotion price, and releases
// any hold the line had since it no longer matches the quantity.
func (s *CartService) AddItem(ctx context.Context, input AddItemInput) (*CartDetail, error) {
	if input.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.catalogLookup.Resolve(ctx, input.ProductNo)
	if err != nil {
		if err == catalog.ErrProductNotFound {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	promotion, finalPrice, err := s.promotions.Resolve(product, time.Now())
	if err != nil {
		return nil, err
	}
	var promotionID *uint
	if promotion != nil {
		promotionID = &promotion.ID
	}

	thumbnail := input.ThumbnailURL
	if thumbnail == "" {
		thumbnail = product.Thumbnail
	}

	var token string
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)

		cart, err := s.loadCart(cartRepo, input.CartToken)
		if err != nil {
			return err
		}
		if cart == nil {
			cart = &models.Cart{
				Token:      uuid.NewString(),
				CustomerID: input.CustomerID,
			}
			if err := cartRepo.Create(cart); err != nil {
				return &TransactionError{Op: "add item", Err: err}
			}
		}
		token = cart.Token

		existing, err := cartRepo.GetItem(cart.ID, input.ProductNo)
		if err != nil {
			return &TransactionError{Op: "add item", Err: err}
		}
		if existing != nil {
			if existing.Reserved {
				// A live hold covers only the old quantity; release
				// it so checkout re-reserves the whole line.
				if _, err := s.inventoryRepo.WithTx(tx).ReleaseStock(existing.ProductNo, existing.Quantity); err != nil {
					return &TransactionError{Op: "add item", Err: err}
				}
				existing.Reserved = false
				existing.ReservedUntil = nil
			}
			existing.Quantity += input.Quantity
			existing.FinalPrice = finalPrice
			existing.PromotionID = promotionID
			if err := cartRepo.UpdateItem(existing); err != nil {
				return &TransactionError{Op: "add item", Err: err}
			}
			return nil
		}

		item := &models.CartItem{
			CartID:       cart.ID,
			ProductNo:    input.ProductNo,
			Quantity:     input.Quantity,
			FinalPrice:   finalPrice,
			PromotionID:  promotionID,
			ThumbnailURL: thumbnail,
		}
		if err := cartRepo.CreateItem(item); err != nil {
			return &TransactionError{Op: "add item", Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetCart(ctx, token)
}

// UpdateQuantity sets the quantity of an existing line. The snapshot
// price is kept; an active hold on the line is released first since it
// no longer matches the quantity.
func (s *CartService) UpdateQuantity(ctx context.Context, cartToken, productNo string, quantity int) (*CartDetail, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	cart, err := s.requireCart(cartToken)
	if err != nil {
		return nil, err
	}

	item, err := s.cartRepo.GetItem(cart.ID, productNo)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrItemNotInCart
	}

	if item.Reserved {
		if err := s.inventory.ReleaseItem(ctx, item); err != nil {
			return nil, err
		}
	}

	item.Quantity = quantity
	if err := s.cartRepo.UpdateItem(item); err != nil {
		return nil, &TransactionError{Op: "update quantity", Err: err}
	}

	return s.GetCart(ctx, cartToken)
}

// RemoveItem deletes a line from the cart, releasing any hold it had.
func (s *CartService) RemoveItem(ctx context.Context, cartToken, productNo string) (*CartDetail, error) {
	cart, err := s.requireCart(cartToken)
	if err != nil {
		return nil, err
	}

	item, err := s.cartRepo.GetItem(cart.ID, productNo)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrItemNotInCart
	}

	if item.Reserved {
		if err := s.inventory.ReleaseItem(ctx, item); err != nil {
			return nil, err
		}
	}

	if err := s.cartRepo.DeleteItem(cart.ID, productNo); err != nil {
		return nil, &TransactionError{Op: "remove item", Err: err}
	}

	return s.GetCart(ctx, cartToken)
}

// ClearCart empties the cart in one sweep, releasing any holds its
// lines still had.
func (s *CartService) ClearCart(ctx context.Context, cartToken string) (*CartDetail, error) {
	cart, err := s.requireCart(cartToken)
	if err != nil {
		return nil, err
	}
	if err := s.inventory.ReleaseCart(ctx, cart); err != nil {
		return nil, err
	}
	if err := s.cartRepo.ClearItems(cart.ID); err != nil {
		return nil, &TransactionError{Op: "clear cart", Err: err}
	}
	return s.GetCart(ctx, cartToken)
}

// GetCart hydrates a cart by token, releasing any lapsed holds it
// finds along the way.
func (s *CartService) GetCart(ctx context.Context, cartToken string) (*CartDetail, error) {
	cart, err := s.requireCart(cartToken)
	if err != nil {
		return nil, err
	}
	return s.hydrate(ctx, cart)
}

// GetCartByCustomer hydrates the cart owned by a customer.
func (s *CartService) GetCartByCustomer(ctx context.Context, customerID uint) (*CartDetail, error) {
	cart, err := s.cartRepo.GetByCustomerID(customerID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, ErrCartNotFound
	}
	return s.hydrate(ctx, cart)
}

// FindCart returns the raw cart row for a token, or ErrCartNotFound.
func (s *CartService) FindCart(cartToken string) (*models.Cart, error) {
	return s.requireCart(cartToken)
}

func (s *CartService) requireCart(cartToken string) (*models.Cart, error) {
	cart, err := s.loadCart(s.cartRepo, cartToken)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, ErrCartNotFound
	}
	return cart, nil
}

func (s *CartService) loadCart(repo repository.CartRepository, cartToken string) (*models.Cart, error) {
	if cartToken == "" {
		return nil, nil
	}
	return repo.GetByToken(cartToken)
}

func (s *CartService) hydrate(ctx context.Context, cart *models.Cart) (*CartDetail, error) {
	now := time.Now()
	productNos := make([]string, 0, len(cart.Items))
	for i := range cart.Items {
		item := &cart.Items[i]
		productNos = append(productNos, item.ProductNo)
		// Lazy expiry: a lapsed hold is released before anything
		// else sees it.
		if item.Reserved && item.ReservedUntil != nil && !item.ReservedUntil.After(now) {
			if err := s.inventory.ReleaseItem(ctx, item); err != nil {
				return nil, err
			}
		}
	}

	products, err := s.catalogLookup.ResolveMany(ctx, productNos)
	if err != nil {
		return nil, err
	}
	records, err := s.inventoryRepo.ListByProductNos(productNos)
	if err != nil {
		return nil, err
	}
	available := make(map[string]int, len(records))
	for i := range records {
		available[records[i].ProductNo] = records[i].Available()
	}

	detail := &CartDetail{
		Token:      cart.Token,
		CustomerID: cart.CustomerID,
		Items:      make([]CartItemDetail, 0, len(cart.Items)),
	}
	subtotal := decimal.Zero
	for i := range cart.Items {
		item := &cart.Items[i]
		lineTotal := item.FinalPrice.Decimal.Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(lineTotal)
		detail.ItemCount += item.Quantity

		row := CartItemDetail{
			ProductNo:     item.ProductNo,
			Quantity:      item.Quantity,
			FinalPrice:    item.FinalPrice,
			PromotionID:   item.PromotionID,
			ThumbnailURL:  item.ThumbnailURL,
			MaxAvailable:  available[item.ProductNo],
			LineTotal:     models.NewMoneyFromDecimal(lineTotal),
			Reserved:      item.Reserved,
			ReservedUntil: item.ReservedUntil,
		}
		if product, ok := products[item.ProductNo]; ok {
			row.Name = product.Name
			row.CurrentPrice = product.PriceAmount
			if !product.PriceAmount.Decimal.Equal(item.FinalPrice.Decimal) {
				discounted := item.FinalPrice
				row.DiscountPrice = &discounted
			}
		}
		detail.Items = append(detail.Items, row)
	}
	detail.Subtotal = models.NewMoneyFromDecimal(subtotal)
	return detail, nil
}
