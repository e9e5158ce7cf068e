package repository

import (
	"testing"

	"github.com/youngre511/PeachBlossom-eStore-sub003/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupInventoryRepositoryTest(t *testing.T) (*GormInventoryRepository, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.InventoryRecord{}); err != nil {
		t.Fatalf("migrate inventory failed: %v", err)
	}
	return NewInventoryRepository(db), db
}

func createInventory(t *testing.T, repo *GormInventoryRepository, productNo string, stock, reserved int) *models.InventoryRecord {
	t.Helper()
	record := &models.InventoryRecord{
		ProductNo: productNo,
		Stock:     stock,
		Reserved:  reserved,
	}
	if err := repo.Create(record); err != nil {
		t.Fatalf("create inventory failed: %v", err)
	}
	return record
}

func TestReserveStockGuardsAvailable(t *testing.T) {
	repo, _ := setupInventoryRepositoryTest(t)
	createInventory(t, repo, "iv-reserve-1", 5, 3)

	affected, err := repo.ReserveStock("iv-reserve-1", 2)
	if err != nil {
		t.Fatalf("reserve failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("expected reserve to succeed, affected=%d", affected)
	}

	// Available is now zero; any further hold must be rejected.
	affected, err = repo.ReserveStock("iv-reserve-1", 1)
	if err != nil {
		t.Fatalf("reserve failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("expected reserve beyond available to affect zero rows, affected=%d", affected)
	}

	record, err := repo.GetByProductNo("iv-reserve-1")
	if err != nil {
		t.Fatalf("get inventory failed: %v", err)
	}
	if record.Stock != 5 || record.Reserved != 5 {
		t.Fatalf("unexpected ledger state stock=%d reserved=%d", record.Stock, record.Reserved)
	}
}

func TestReserveStockLastUnitSingleWinner(t *testing.T) {
	repo, _ := setupInventoryRepositoryTest(t)
	createInventory(t, repo, "iv-last-unit", 1, 0)

	first, err := repo.ReserveStock("iv-last-unit", 1)
	if err != nil {
		t.Fatalf("first reserve failed: %v", err)
	}
	second, err := repo.ReserveStock("iv-last-unit", 1)
	if err != nil {
		t.Fatalf("second reserve failed: %v", err)
	}
	if first+second != 1 {
		t.Fatalf("expected exactly one winner for the last unit, got %d", first+second)
	}

	record, err := repo.GetByProductNo("iv-last-unit")
	if err != nil {
		t.Fatalf("get inventory failed: %v", err)
	}
	if record.Available() != 0 {
		t.Fatalf("expected zero available, got %d", record.Available())
	}
	if record.Reserved > record.Stock {
		t.Fatalf("reserved %d exceeds stock %d", record.Reserved, record.Stock)
	}
}

func TestReleaseStockFloorsAtZero(t *testing.T) {
	repo, _ := setupInventoryRepositoryTest(t)
	createInventory(t, repo, "iv-release-1", 10, 2)

	if _, err := repo.ReleaseStock("iv-release-1", 5); err != nil {
		t.Fatalf("release failed: %v", err)
	}

	record, err := repo.GetByProductNo("iv-release-1")
	if err != nil {
		t.Fatalf("get inventory failed: %v", err)
	}
	if record.Reserved != 0 {
		t.Fatalf("expected reserved floored at 0, got %d", record.Reserved)
	}
	if record.Stock != 10 {
		t.Fatalf("release must not change stock, got %d", record.Stock)
	}
}

func TestCommitStockConvertsHold(t *testing.T) {
	repo, _ := setupInventoryRepositoryTest(t)
	createInventory(t, repo, "iv-commit-1", 8, 3)

	affected, err := repo.CommitStock("iv-commit-1", 3)
	if err != nil {
		t.Fatalf("commit failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("expected commit to succeed, affected=%d", affected)
	}

	record, err := repo.GetByProductNo("iv-commit-1")
	if err != nil {
		t.Fatalf("get inventory failed: %v", err)
	}
	if record.Stock != 5 || record.Reserved != 0 {
		t.Fatalf("unexpected ledger state stock=%d reserved=%d", record.Stock, record.Reserved)
	}

	// Committing without a hold must not touch the row.
	affected, err = repo.CommitStock("iv-commit-1", 1)
	if err != nil {
		t.Fatalf("commit failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("expected commit without hold to affect zero rows, affected=%d", affected)
	}
}

func TestDirectDecrementGuardsAvailable(t *testing.T) {
	repo, _ := setupInventoryRepositoryTest(t)
	createInventory(t, repo, "iv-direct-1", 4, 3)

	affected, err := repo.DirectDecrement("iv-direct-1", 2)
	if err != nil {
		t.Fatalf("decrement failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("expected decrement beyond available to affect zero rows, affected=%d", affected)
	}

	affected, err = repo.DirectDecrement("iv-direct-1", 1)
	if err != nil {
		t.Fatalf("decrement failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("expected decrement within available to succeed, affected=%d", affected)
	}

	record, err := repo.GetByProductNo("iv-direct-1")
	if err != nil {
		t.Fatalf("get inventory failed: %v", err)
	}
	if record.Stock != 3 || record.Reserved != 3 {
		t.Fatalf("unexpected ledger state stock=%d reserved=%d", record.Stock, record.Reserved)
	}
}

func TestReserveStockRejectsBadParams(t *testing.T) {
	repo, _ := setupInventoryRepositoryTest(t)
	if _, err := repo.ReserveStock("", 1); err == nil {
		t.Fatal("expected error for empty product number")
	}
	if _, err := repo.ReserveStock("iv-bad", 0); err == nil {
		t.Fatal("expected error for zero quantity")
	}
}
