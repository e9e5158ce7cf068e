package catalog

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/youngre511/PeachBlossom-eStore-sub003/internal/models"
	"github.com/youngre511/PeachBlossom-eStore-sub003/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupLookupTest(t *testing.T) (*CachedLookup, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:catalog_lookup_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Category{}, &models.Product{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewCachedLookup(repository.NewProductRepository(db), time.Minute), db
}

func seedCatalogProduct(t *testing.T, db *gorm.DB, productNo string, active bool) {
	t.Helper()
	product := &models.Product{
		ProductNo:   productNo,
		Name:        "Product " + productNo,
		CategoryID:  1,
		PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromFloat(12.50)),
		IsActive:    active,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
}

func TestResolveReturnsActiveProduct(t *testing.T) {
	lookup, db := setupLookupTest(t)
	seedCatalogProduct(t, db, "pn-look-1", true)

	product, err := lookup.Resolve(context.Background(), "pn-look-1")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if product.ProductNo != "pn-look-1" {
		t.Fatalf("resolved wrong product %s", product.ProductNo)
	}
}

func TestResolveRejectsMissingAndInactive(t *testing.T) {
	lookup, db := setupLookupTest(t)
	seedCatalogProduct(t, db, "pn-look-off", false)

	if _, err := lookup.Resolve(context.Background(), "pn-look-missing"); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
	if _, err := lookup.Resolve(context.Background(), "pn-look-off"); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound for inactive product, got %v", err)
	}
	if _, err := lookup.Resolve(context.Background(), ""); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound for empty number, got %v", err)
	}
}

func TestResolveManySkipsUnknownNumbers(t *testing.T) {
	lookup, db := setupLookupTest(t)
	seedCatalogProduct(t, db, "pn-many-1", true)
	seedCatalogProduct(t, db, "pn-many-2", true)
	seedCatalogProduct(t, db, "pn-many-off", false)

	result, err := lookup.ResolveMany(context.Background(), []string{"pn-many-1", "pn-many-2", "pn-many-off", "pn-many-missing"})
	if err != nil {
		t.Fatalf("resolve many failed: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("expected 2 resolved products, got %d", len(result))
	}
	if _, ok := result["pn-many-1"]; !ok {
		t.Fatal("pn-many-1 missing from result")
	}
	if _, ok := result["pn-many-off"]; ok {
		t.Fatal("inactive product must not resolve")
	}
}

func TestInvalidateThenResolveSeesFreshRow(t *testing.T) {
	lookup, db := setupLookupTest(t)
	seedCatalogProduct(t, db, "pn-inv-1", true)

	product, err := lookup.Resolve(context.Background(), "pn-inv-1")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	// The row changes behind the cache; after Invalidate the next
	// resolve must reflect it.
	if err := db.Model(&models.Product{}).Where("product_no = ?", "pn-inv-1").
		Update("name", "Renamed "+product.ProductNo).Error; err != nil {
		t.Fatalf("update product failed: %v", err)
	}
	if err := lookup.Invalidate(context.Background(), "pn-inv-1"); err != nil {
		t.Fatalf("invalidate failed: %v", err)
	}

	fresh, err := lookup.Resolve(context.Background(), "pn-inv-1")
	if err != nil {
		t.Fatalf("resolve after invalidate failed: %v", err)
	}
	if fresh.Name != "Renamed pn-inv-1" {
		t.Fatalf("expected fresh name, got %q", fresh.Name)
	}
}
