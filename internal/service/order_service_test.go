package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/youngre511/PeachBlossom-eStore-sub003/internal/constants"
	"github.com/youngre511/PeachBlossom-eStore-sub003/internal/models"

	"github.com/shopspring/decimal"
)

func shippingInput(cartToken string) PlaceOrderInput {
	return PlaceOrderInput{
		CartToken:       cartToken,
		Email:           "shopper@example.com",
		PhoneNumber:     "555-0100",
		ShippingAddress: "12 Peach Orchard Rd",
		City:            "Savannah",
		StateProv:       "GA",
		Zip:             "31401",
		GuestPassword:   "orchard-secret",
	}
}

func TestPlaceOrderCommitsHeldStock(t *testing.T) {
	env := setupCoreTest(t)
	seedProduct(t, env.db, "pn-place-1", 20.00, 10)
	cart := cartWithItems(t, env, map[string]int{"pn-place-1": 3})

	if err := env.inventory.HoldCart(context.Background(), cart); err != nil {
		t.Fatalf("hold failed: %v", err)
	}

	order, err := env.orders.PlaceOrder(context.Background(), shippingInput(cart.Token))
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}
	if !strings.HasPrefix(order.OrderNo, "PB") {
		t.Fatalf("unexpected order number %q", order.OrderNo)
	}
	if order.Status != constants.OrderStatusProcessing {
		t.Fatalf("expected processing status, got %s", order.Status)
	}

	// Commit semantics: stock drops by the held quantity, reserved
	// returns to its pre-hold baseline.
	record := mustInventory(t, env, "pn-place-1")
	if record.Stock != 7 || record.Reserved != 0 {
		t.Fatalf("unexpected ledger state stock=%d reserved=%d", record.Stock, record.Reserved)
	}

	// The cart is gone.
	if _, err := env.carts.GetCart(context.Background(), cart.Token); !errors.Is(err, ErrCartNotFound) {
		t.Fatalf("expected cart discarded, got %v", err)
	}

	// Item snapshots survive.
	if len(order.Items) != 1 {
		t.Fatalf("expected 1 order item, got %d", len(order.Items))
	}
	item := order.Items[0]
	if !item.PriceWhenOrdered.Decimal.Equal(decimal.NewFromFloat(20.00)) {
		t.Fatalf("unexpected price snapshot %s", item.PriceWhenOrdered)
	}
	if item.FulfillmentStatus != constants.FulfillmentUnfulfilled {
		t.Fatalf("unexpected fulfillment status %s", item.FulfillmentStatus)
	}
}

func TestPlaceOrderGuestDecrementsDirectly(t *testing.T) {
	env := setupCoreTest(t)
	seedProduct(t, env.db, "pn-guest-1", 15.00, 5)
	cart := cartWithItems(t, env, map[string]int{"pn-guest-1": 2})

	// No hold: guest checkout decrements against available stock.
	order, err := env.orders.PlaceOrder(context.Background(), shippingInput(cart.Token))
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}
	record := mustInventory(t, env, "pn-guest-1")
	if record.Stock != 3 || record.Reserved != 0 {
		t.Fatalf("unexpected ledger state stock=%d reserved=%d", record.Stock, record.Reserved)
	}

	// Access password gates guest lookups.
	if _, err := env.orders.GetGuestOrder(order.OrderNo, "shopper@example.com", "wrong"); !errors.Is(err, ErrGuestPasswordInvalid) {
		t.Fatalf("expected ErrGuestPasswordInvalid, got %v", err)
	}
	fetched, err := env.orders.GetGuestOrder(order.OrderNo, "shopper@example.com", "orchard-secret")
	if err != nil {
		t.Fatalf("guest lookup failed: %v", err)
	}
	if fetched.OrderNo != order.OrderNo {
		t.Fatalf("fetched wrong order %s", fetched.OrderNo)
	}
}

func TestPlaceOrderRollsBackOnInsufficientStock(t *testing.T) {
	env := setupCoreTest(t)
	seedProduct(t, env.db, "pn-rb-ok", 10.00, 10)
	seedProduct(t, env.db, "pn-rb-short", 10.00, 1)
	cart := cartWithItems(t, env, map[string]int{"pn-rb-ok": 2, "pn-rb-short": 4})

	_, err := env.orders.PlaceOrder(context.Background(), shippingInput(cart.Token))
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	// No orphan order row, no partial stock movement, cart intact.
	var count int64
	if err := env.db.Model(&models.Order{}).Count(&count).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no order rows, got %d", count)
	}
	if mustInventory(t, env, "pn-rb-ok").Stock != 10 {
		t.Fatal("expected stock untouched after rollback")
	}
	if detail, err := env.carts.GetCart(context.Background(), cart.Token); err != nil || len(detail.Items) != 2 {
		t.Fatalf("expected cart to survive rollback, got %v / %v", detail, err)
	}
}

func TestPlaceOrderIdempotencyKeyRejectsDuplicates(t *testing.T) {
	env := setupCoreTest(t)
	seedProduct(t, env.db, "pn-idem-1", 10.00, 10)
	cart := cartWithItems(t, env, map[string]int{"pn-idem-1": 1})

	input := shippingInput(cart.Token)
	input.IdempotencyKey = "order-attempt-42"
	if _, err := env.orders.PlaceOrder(context.Background(), input); err != nil {
		t.Fatalf("first place failed: %v", err)
	}

	// A retry with the same key must be rejected, not duplicated.
	secondCart := cartWithItems(t, env, map[string]int{"pn-idem-1": 1})
	retry := shippingInput(secondCart.Token)
	retry.IdempotencyKey = "order-attempt-42"
	if _, err := env.orders.PlaceOrder(context.Background(), retry); !errors.Is(err, ErrDuplicateSubmission) {
		t.Fatalf("expected ErrDuplicateSubmission, got %v", err)
	}
}

func TestPlaceOrderComputesTotals(t *testing.T) {
	env := setupCoreTest(t)
	seedProduct(t, env.db, "pn-total-1", 10.00, 10)
	seedProduct(t, env.db, "pn-total-2", 5.50, 10)
	cart := cartWithItems(t, env, map[string]int{"pn-total-1": 2, "pn-total-2": 1})

	order, err := env.orders.PlaceOrder(context.Background(), shippingInput(cart.Token))
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}
	if !order.SubTotal.Decimal.Equal(decimal.NewFromFloat(25.50)) {
		t.Fatalf("expected subtotal 25.50, got %s", order.SubTotal)
	}
	if !order.Shipping.Decimal.Equal(decimal.NewFromFloat(9.99)) {
		t.Fatalf("expected shipping 9.99, got %s", order.Shipping)
	}
	if !order.Tax.Decimal.Equal(decimal.NewFromFloat(1.53)) {
		t.Fatalf("expected tax 1.53, got %s", order.Tax)
	}
	if !order.TotalAmount.Decimal.Equal(decimal.NewFromFloat(37.02)) {
		t.Fatalf("expected total 37.02, got %s", order.TotalAmount)
	}
}

func TestPlaceOrderValidatesInput(t *testing.T) {
	env := setupCoreTest(t)
	seedProduct(t, env.db, "pn-val-1", 10.00, 10)
	cart := cartWithItems(t, env, map[string]int{"pn-val-1": 1})

	missingEmail := shippingInput(cart.Token)
	missingEmail.Email = ""
	if _, err := env.orders.PlaceOrder(context.Background(), missingEmail); !errors.Is(err, ErrGuestEmailRequired) {
		t.Fatalf("expected ErrGuestEmailRequired, got %v", err)
	}

	missingCity := shippingInput(cart.Token)
	missingCity.City = ""
	if _, err := env.orders.PlaceOrder(context.Background(), missingCity); !errors.Is(err, ErrShippingIncomplete) {
		t.Fatalf("expected ErrShippingIncomplete, got %v", err)
	}

	noPassword := shippingInput(cart.Token)
	noPassword.GuestPassword = ""
	if _, err := env.orders.PlaceOrder(context.Background(), noPassword); !errors.Is(err, ErrGuestPasswordRequired) {
		t.Fatalf("expected ErrGuestPasswordRequired, got %v", err)
	}

	if _, err := env.orders.PlaceOrder(context.Background(), shippingInput("no-such-cart")); !errors.Is(err, ErrCartNotFound) {
		t.Fatalf("expected ErrCartNotFound, got %v", err)
	}
}

func TestOrderStatusTransitions(t *testing.T) {
	env := setupCoreTest(t)
	seedProduct(t, env.db, "pn-status-1", 10.00, 10)
	cart := cartWithItems(t, env, map[string]int{"pn-status-1": 1})

	order, err := env.orders.PlaceOrder(context.Background(), shippingInput(cart.Token))
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}

	// processing cannot jump straight to delivered.
	if _, err := env.orders.UpdateStatus(order.OrderNo, constants.OrderStatusDelivered); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("expected ErrOrderStatusInvalid, got %v", err)
	}

	for _, target := range []string{
		constants.OrderStatusReadyToShip,
		constants.OrderStatusShipped,
		constants.OrderStatusDelivered,
	} {
		updated, err := env.orders.UpdateStatus(order.OrderNo, target)
		if err != nil {
			t.Fatalf("transition to %s failed: %v", target, err)
		}
		if updated.Status != target {
			t.Fatalf("expected %s, got %s", target, updated.Status)
		}
	}

	// delivered is terminal.
	if _, err := env.orders.UpdateStatus(order.OrderNo, constants.OrderStatusCancelled); !errors.Is(err, ErrOrderStatusInvalid) {
		t.Fatalf("expected ErrOrderStatusInvalid, got %v", err)
	}
}

func TestCancelOrderRestocks(t *testing.T) {
	env := setupCoreTest(t)
	seedProduct(t, env.db, "pn-cancel-1", 10.00, 10)
	cart := cartWithItems(t, env, map[string]int{"pn-cancel-1": 4})

	order, err := env.orders.PlaceOrder(context.Background(), shippingInput(cart.Token))
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}
	if mustInventory(t, env, "pn-cancel-1").Stock != 6 {
		t.Fatal("expected stock 6 after sale")
	}

	cancelled, err := env.orders.CancelOrder(order.OrderNo)
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if cancelled.Status != constants.OrderStatusCancelled || cancelled.CancelledAt == nil {
		t.Fatalf("unexpected cancel state %+v", cancelled)
	}
	if mustInventory(t, env, "pn-cancel-1").Stock != 10 {
		t.Fatal("expected stock restored after cancel")
	}
}

func TestUpdateItemFulfillmentAdvancesOrder(t *testing.T) {
	env := setupCoreTest(t)
	seedProduct(t, env.db, "pn-ff-1", 10.00, 10)
	cart := cartWithItems(t, env, map[string]int{"pn-ff-1": 1})

	order, err := env.orders.PlaceOrder(context.Background(), shippingInput(cart.Token))
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}

	updated, err := env.orders.UpdateItemFulfillment(order.OrderNo, "pn-ff-1", constants.FulfillmentFulfilled)
	if err != nil {
		t.Fatalf("update fulfillment failed: %v", err)
	}
	if updated.Items[0].FulfillmentStatus != constants.FulfillmentFulfilled {
		t.Fatalf("expected fulfilled item, got %s", updated.Items[0].FulfillmentStatus)
	}
	if updated.Status != constants.OrderStatusReadyToShip {
		t.Fatalf("expected order nudged to ready to ship, got %s", updated.Status)
	}
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	env := setupCoreTest(t)
	seedProduct(t, env.db, "pn-empty-1", 10.00, 10)
	cart := cartWithItems(t, env, map[string]int{"pn-empty-1": 1})
	if _, err := env.carts.RemoveItem(context.Background(), cart.Token, "pn-empty-1"); err != nil {
		t.Fatalf("remove failed: %v", err)
	}

	if _, err := env.orders.PlaceOrder(context.Background(), shippingInput(cart.Token)); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
}
