package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/youngre511/PeachBlossom-eStore-sub003/internal/models"
)

func cartWithItems(t *testing.T, env *coreTestEnv, lines map[string]int) *models.Cart {
	t.Helper()
	var token string
	for productNo, quantity := range lines {
		detail, err := env.carts.AddItem(context.Background(), AddItemInput{
			CartToken: token,
			ProductNo: productNo,
			Quantity:  quantity,
		})
		if err != nil {
			t.Fatalf("add %s failed: %v", productNo, err)
		}
		token = detail.Token
	}
	cart, err := env.cartRepo.GetByToken(token)
	if err != nil || cart == nil {
		t.Fatalf("load cart failed: %v", err)
	}
	return cart
}

func TestHoldCartReservesEveryLine(t *testing.T) {
	env := setupCoreTest(t)
	seedProduct(t, env.db, "pn-hold-a", 10.00, 5)
	seedProduct(t, env.db, "pn-hold-b", 10.00, 5)
	cart := cartWithItems(t, env, map[string]int{"pn-hold-a": 2, "pn-hold-b": 3})

	if err := env.inventory.HoldCart(context.Background(), cart); err != nil {
		t.Fatalf("hold failed: %v", err)
	}

	if mustInventory(t, env, "pn-hold-a").Reserved != 2 {
		t.Fatal("expected 2 units reserved for pn-hold-a")
	}
	if mustInventory(t, env, "pn-hold-b").Reserved != 3 {
		t.Fatal("expected 3 units reserved for pn-hold-b")
	}
	for i := range cart.Items {
		if !cart.Items[i].Reserved || cart.Items[i].ReservedUntil == nil {
			t.Fatalf("line %s not marked held", cart.Items[i].ProductNo)
		}
	}
}

func TestHoldCartAllOrNothing(t *testing.T) {
	env := setupCoreTest(t)
	seedProduct(t, env.db, "pn-aon-ok", 10.00, 10)
	seedProduct(t, env.db, "pn-aon-short", 10.00, 1)
	cart := cartWithItems(t, env, map[string]int{"pn-aon-ok": 2, "pn-aon-short": 5})

	err := env.inventory.HoldCart(context.Background(), cart)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	var stockErr *InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected typed stock error, got %T", err)
	}
	if len(stockErr.Shortfalls) != 1 {
		t.Fatalf("expected one shortfall, got %+v", stockErr.Shortfalls)
	}
	if sf := stockErr.Shortfalls[0]; sf.ProductNo != "pn-aon-short" || sf.Shortfall() != 4 {
		t.Fatalf("unexpected shortfall report: %+v", sf)
	}

	// Neither line may keep a reservation.
	if mustInventory(t, env, "pn-aon-ok").Reserved != 0 {
		t.Fatal("expected rollback to clear reservation on pn-aon-ok")
	}
	if mustInventory(t, env, "pn-aon-short").Reserved != 0 {
		t.Fatal("expected no reservation on pn-aon-short")
	}
}

func TestHoldCartNamesEveryShortLine(t *testing.T) {
	env := setupCoreTest(t)
	seedProduct(t, env.db, "pn-multi-ok", 10.00, 10)
	seedProduct(t, env.db, "pn-multi-a", 10.00, 1)
	seedProduct(t, env.db, "pn-multi-b", 10.00, 2)
	cart := cartWithItems(t, env, map[string]int{
		"pn-multi-ok": 2,
		"pn-multi-a":  3,
		"pn-multi-b":  5,
	})

	err := env.inventory.HoldCart(context.Background(), cart)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	var stockErr *InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected typed stock error, got %T", err)
	}
	if len(stockErr.Shortfalls) != 2 {
		t.Fatalf("expected two shortfalls, got %+v", stockErr.Shortfalls)
	}
	byProduct := make(map[string]StockShortfall, len(stockErr.Shortfalls))
	for _, sf := range stockErr.Shortfalls {
		byProduct[sf.ProductNo] = sf
	}
	if sf, ok := byProduct["pn-multi-a"]; !ok || sf.Requested != 3 || sf.Available != 1 || sf.Shortfall() != 2 {
		t.Fatalf("unexpected report for pn-multi-a: %+v", sf)
	}
	if sf, ok := byProduct["pn-multi-b"]; !ok || sf.Requested != 5 || sf.Available != 2 || sf.Shortfall() != 3 {
		t.Fatalf("unexpected report for pn-multi-b: %+v", sf)
	}

	// Rollback leaves no reservation anywhere.
	for _, productNo := range []string{"pn-multi-ok", "pn-multi-a", "pn-multi-b"} {
		if mustInventory(t, env, productNo).Reserved != 0 {
			t.Fatalf("expected no reservation on %s", productNo)
		}
	}
	for i := range cart.Items {
		if cart.Items[i].Reserved {
			t.Fatalf("line %s must not be marked held after rollback", cart.Items[i].ProductNo)
		}
	}
}

func TestHoldThenReleaseRoundTrip(t *testing.T) {
	env := setupCoreTest(t)
	seedProduct(t, env.db, "pn-rt-1", 10.00, 6)
	cart := cartWithItems(t, env, map[string]int{"pn-rt-1": 4})

	before := mustInventory(t, env, "pn-rt-1").Available()
	if err := env.inventory.HoldCart(context.Background(), cart); err != nil {
		t.Fatalf("hold failed: %v", err)
	}
	if got := mustInventory(t, env, "pn-rt-1").Available(); got != before-4 {
		t.Fatalf("expected available %d after hold, got %d", before-4, got)
	}

	if err := env.inventory.ReleaseCart(context.Background(), cart); err != nil {
		t.Fatalf("release failed: %v", err)
	}
	if got := mustInventory(t, env, "pn-rt-1").Available(); got != before {
		t.Fatalf("expected available restored to %d, got %d", before, got)
	}

	// Releasing again is a no-op.
	if err := env.inventory.ReleaseCart(context.Background(), cart); err != nil {
		t.Fatalf("second release failed: %v", err)
	}
	if got := mustInventory(t, env, "pn-rt-1").Reserved; got != 0 {
		t.Fatalf("expected reserved 0, got %d", got)
	}
}

func TestExpireHoldReleasesLapsedOnly(t *testing.T) {
	env := setupCoreTest(t)
	seedProduct(t, env.db, "pn-exp-1", 10.00, 5)
	cart := cartWithItems(t, env, map[string]int{"pn-exp-1": 2})

	if err := env.inventory.HoldCart(context.Background(), cart); err != nil {
		t.Fatalf("hold failed: %v", err)
	}
	itemID := cart.Items[0].ID

	// The window has not lapsed; the hold must survive.
	if err := env.inventory.ExpireHold(context.Background(), itemID); err != nil {
		t.Fatalf("expire failed: %v", err)
	}
	if mustInventory(t, env, "pn-exp-1").Reserved != 2 {
		t.Fatal("expected live hold to survive expiry check")
	}

	// Backdate the hold and expire again.
	lapsed := time.Now().Add(-time.Minute)
	if err := env.db.Model(&models.CartItem{}).Where("id = ?", itemID).
		Update("reserved_until", lapsed).Error; err != nil {
		t.Fatalf("backdate failed: %v", err)
	}
	if err := env.inventory.ExpireHold(context.Background(), itemID); err != nil {
		t.Fatalf("expire failed: %v", err)
	}
	if mustInventory(t, env, "pn-exp-1").Reserved != 0 {
		t.Fatal("expected lapsed hold to be released")
	}

	// Idempotent on an already-released item.
	if err := env.inventory.ExpireHold(context.Background(), itemID); err != nil {
		t.Fatalf("repeat expire failed: %v", err)
	}
}

func TestGetCartLazilyReleasesLapsedHold(t *testing.T) {
	env := setupCoreTest(t)
	seedProduct(t, env.db, "pn-lazy-1", 10.00, 5)
	cart := cartWithItems(t, env, map[string]int{"pn-lazy-1": 2})

	if err := env.inventory.HoldCart(context.Background(), cart); err != nil {
		t.Fatalf("hold failed: %v", err)
	}
	lapsed := time.Now().Add(-time.Minute)
	if err := env.db.Model(&models.CartItem{}).Where("id = ?", cart.Items[0].ID).
		Update("reserved_until", lapsed).Error; err != nil {
		t.Fatalf("backdate failed: %v", err)
	}

	detail, err := env.carts.GetCart(context.Background(), cart.Token)
	if err != nil {
		t.Fatalf("get cart failed: %v", err)
	}
	if detail.Items[0].Reserved {
		t.Fatal("expected lapsed hold cleared on access")
	}
	if mustInventory(t, env, "pn-lazy-1").Reserved != 0 {
		t.Fatal("expected reservation returned to pool")
	}
}

func TestReleaseLapsedSweep(t *testing.T) {
	env := setupCoreTest(t)
	seedProduct(t, env.db, "pn-sweep-1", 10.00, 5)
	cart := cartWithItems(t, env, map[string]int{"pn-sweep-1": 3})

	if err := env.inventory.HoldCart(context.Background(), cart); err != nil {
		t.Fatalf("hold failed: %v", err)
	}
	lapsed := time.Now().Add(-time.Minute)
	if err := env.db.Model(&models.CartItem{}).Where("cart_id = ?", cart.ID).
		Update("reserved_until", lapsed).Error; err != nil {
		t.Fatalf("backdate failed: %v", err)
	}

	released, err := env.inventory.ReleaseLapsed(context.Background(), 100)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if released != 1 {
		t.Fatalf("expected 1 released hold, got %d", released)
	}
	if mustInventory(t, env, "pn-sweep-1").Reserved != 0 {
		t.Fatal("expected reservation swept")
	}
}
