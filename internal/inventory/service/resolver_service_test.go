package service

import (
	"context"
	"errors"
	"testing"

	"github.com/MerlinStacks/woodash-dashboard-sub005/internal/inventory/entity"
	"github.com/MerlinStacks/woodash-dashboard-sub005/internal/inventory/repository"
	"github.com/MerlinStacks/woodash-dashboard-sub005/internal/testutil"
	"github.com/shopspring/decimal"
)

func setupResolverTest(t *testing.T) *ResolverService {
	t.Helper()
	db := testutil.SetupTestDB(t)

	testutil.SeedTestProduct(t, db, 10, "Tracked Product", decPtr("4.25"), true, 12)
	testutil.SeedTestProduct(t, db, 20, "Untracked Product", nil, false, 0)
	testutil.SeedTestVariant(t, db, 21, 20, decPtr("9.99"), true, 7)
	testutil.SeedTestProduct(t, db, 30, "Parent With Cost", decPtr("2.50"), false, 0)
	testutil.SeedTestVariant(t, db, 31, 30, nil, false, 0)
	testutil.SeedTestSupplierItem(t, db, "sup1", "item1", "Raw Material", decimal.RequireFromString("0.75"))

	repos := repository.NewRepositories(db)
	return NewResolverService(repos.Product, repos.Supplier)
}

func TestResolveProduct(t *testing.T) {
	resolver := setupResolverTest(t)

	resolved, err := resolver.Resolve(context.Background(), entity.ComponentRef{
		Kind: entity.ComponentKindProduct, ProductID: 10,
	})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !resolved.UnitCost.Equal(decimal.RequireFromString("4.25")) {
		t.Errorf("Expected unit cost 4.25, got %s", resolved.UnitCost)
	}
	if resolved.Stock == nil || *resolved.Stock != 12 {
		t.Errorf("Expected stock 12, got %v", resolved.Stock)
	}
}

func TestResolveUntrackedProductIsUnbounded(t *testing.T) {
	resolver := setupResolverTest(t)

	resolved, err := resolver.Resolve(context.Background(), entity.ComponentRef{
		Kind: entity.ComponentKindProduct, ProductID: 20,
	})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	// 没录入成本按0计，不开库存管理则不约束
	if !resolved.UnitCost.IsZero() {
		t.Errorf("Expected zero cost, got %s", resolved.UnitCost)
	}
	if resolved.Stock != nil {
		t.Errorf("Expected unbounded stock, got %d", *resolved.Stock)
	}
}

func TestResolveVariantCostOverride(t *testing.T) {
	resolver := setupResolverTest(t)

	resolved, err := resolver.Resolve(context.Background(), entity.ComponentRef{
		Kind: entity.ComponentKindVariant, ProductID: 20, VariantID: 21,
	})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !resolved.UnitCost.Equal(decimal.RequireFromString("9.99")) {
		t.Errorf("Expected override cost 9.99, got %s", resolved.UnitCost)
	}
	if resolved.Stock == nil || *resolved.Stock != 7 {
		t.Errorf("Expected stock 7, got %v", resolved.Stock)
	}
}

func TestResolveVariantFallsBackToProductCost(t *testing.T) {
	resolver := setupResolverTest(t)

	resolved, err := resolver.Resolve(context.Background(), entity.ComponentRef{
		Kind: entity.ComponentKindVariant, ProductID: 30, VariantID: 31,
	})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !resolved.UnitCost.Equal(decimal.RequireFromString("2.50")) {
		t.Errorf("Expected fallback to product cost 2.50, got %s", resolved.UnitCost)
	}
}

func TestResolveSupplierItemNeverConstrainsStock(t *testing.T) {
	resolver := setupResolverTest(t)

	resolved, err := resolver.Resolve(context.Background(), entity.ComponentRef{
		Kind: entity.ComponentKindSupplier, SupplierItemID: "item1",
	})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !resolved.UnitCost.Equal(decimal.RequireFromString("0.75")) {
		t.Errorf("Expected unit cost 0.75, got %s", resolved.UnitCost)
	}
	if resolved.Stock != nil {
		t.Errorf("Expected unbounded stock for supplier item, got %d", *resolved.Stock)
	}
}

func TestResolveDanglingRef(t *testing.T) {
	resolver := setupResolverTest(t)

	cases := []entity.ComponentRef{
		{Kind: entity.ComponentKindProduct, ProductID: 99999},
		{Kind: entity.ComponentKindVariant, ProductID: 20, VariantID: 99999},
		{Kind: entity.ComponentKindSupplier, SupplierItemID: "gone"},
	}
	for _, ref := range cases {
		if _, err := resolver.Resolve(context.Background(), ref); !errors.Is(err, ErrComponentNotFound) {
			t.Errorf("Expected ErrComponentNotFound for %+v, got %v", ref, err)
		}
	}
}

func TestResolveUnknownKind(t *testing.T) {
	resolver := setupResolverTest(t)

	if _, err := resolver.Resolve(context.Background(), entity.ComponentRef{Kind: "bundle"}); err == nil {
		t.Error("Expected error for unknown component kind")
	}
}

// 父商品成本回退查询出现数据库故障时必须上抛，不能按0成本解析
func TestResolveVariantFallbackPropagatesDBError(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SeedTestProduct(t, db, 30, "Parent With Cost", decPtr("2.50"), false, 0)
	testutil.SeedTestVariant(t, db, 31, 30, nil, false, 0)

	repos := repository.NewRepositories(db)
	resolver := NewResolverService(repos.Product, repos.Supplier)

	if err := db.Exec("DROP TABLE products").Error; err != nil {
		t.Fatalf("Failed to drop products table: %v", err)
	}

	_, err := resolver.Resolve(context.Background(), entity.ComponentRef{
		Kind: entity.ComponentKindVariant, ProductID: 30, VariantID: 31,
	})
	if err == nil {
		t.Fatal("Expected error when parent cost lookup fails")
	}
	if errors.Is(err, ErrComponentNotFound) {
		t.Errorf("Expected unexpected-failure error, got ErrComponentNotFound: %v", err)
	}
}
