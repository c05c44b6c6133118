package service

import (
	"testing"

	"github.com/MerlinStacks/woodash-dashboard-sub005/internal/inventory/entity"
	"github.com/shopspring/decimal"
)

func resolvedLine(kind string, qty, waste float64, unitCost string, stock *int64) ResolvedLine {
	return ResolvedLine{
		Line: entity.BOMLine{
			ComponentKind:   kind,
			QuantityPerUnit: qty,
			WasteFactor:     waste,
		},
		Component: &ResolvedComponent{
			UnitCost: decimal.RequireFromString(unitCost),
			Stock:    stock,
		},
	}
}

func int64Ptr(v int64) *int64 {
	return &v
}

func TestRollupEmptyBOM(t *testing.T) {
	cost := RollupCost(nil)
	if !cost.IsZero() {
		t.Errorf("Expected zero cost for empty BOM, got %s", cost)
	}
	if stock := RollupStock(nil); stock != nil {
		t.Errorf("Expected unbounded stock for empty BOM, got %d", *stock)
	}
}

// 变体件 qty 2 waste 0.1 成本3.00 库存50 + 供应商件 qty 1 成本1.50
// 成本 = 2×1.1×3.00 + 1×1.0×1.50 = 8.10；可组装 = floor(50/2.2) = 22
func TestRollupCombinedExample(t *testing.T) {
	lines := []ResolvedLine{
		resolvedLine(entity.ComponentKindVariant, 2, 0.1, "3.00", int64Ptr(50)),
		resolvedLine(entity.ComponentKindSupplier, 1, 0, "1.50", nil),
	}

	cost := RollupCost(lines)
	if !cost.Equal(decimal.RequireFromString("8.10")) {
		t.Errorf("Expected cost 8.10, got %s", cost)
	}

	stock := RollupStock(lines)
	if stock == nil {
		t.Fatal("Expected bounded stock, got unbounded")
	}
	if *stock != 22 {
		t.Errorf("Expected effective stock 22, got %d", *stock)
	}
}

func TestRollupStockTakesMinimum(t *testing.T) {
	lines := []ResolvedLine{
		resolvedLine(entity.ComponentKindProduct, 1, 0, "1.00", int64Ptr(100)),
		resolvedLine(entity.ComponentKindProduct, 3, 0, "1.00", int64Ptr(30)), // floor(30/3)=10
		resolvedLine(entity.ComponentKindSupplier, 5, 0, "0.10", nil),
	}
	stock := RollupStock(lines)
	if stock == nil || *stock != 10 {
		t.Errorf("Expected effective stock 10, got %v", stock)
	}
}

func TestRollupStockZeroComponent(t *testing.T) {
	lines := []ResolvedLine{
		resolvedLine(entity.ComponentKindProduct, 1, 0, "1.00", int64Ptr(500)),
		resolvedLine(entity.ComponentKindProduct, 2, 0, "1.00", int64Ptr(0)),
	}
	stock := RollupStock(lines)
	if stock == nil || *stock != 0 {
		t.Errorf("Expected effective stock 0 when a tracked component is out of stock, got %v", stock)
	}
}

func TestRollupStockNeverNegative(t *testing.T) {
	negative := int64(-4)
	lines := []ResolvedLine{
		{
			Line:      entity.BOMLine{ComponentKind: entity.ComponentKindProduct, QuantityPerUnit: 2},
			Component: &ResolvedComponent{UnitCost: decimal.Zero, Stock: &negative},
		},
	}
	stock := RollupStock(lines)
	if stock == nil || *stock != 0 {
		t.Errorf("Expected effective stock clamped to 0, got %v", stock)
	}
}

func TestRollupStockUnboundedWhenOnlySupplierLines(t *testing.T) {
	lines := []ResolvedLine{
		resolvedLine(entity.ComponentKindSupplier, 2, 0.05, "0.80", nil),
		resolvedLine(entity.ComponentKindSupplier, 1, 0, "4.20", nil),
	}
	if stock := RollupStock(lines); stock != nil {
		t.Errorf("Expected unbounded stock for supplier-only BOM, got %d", *stock)
	}
}

func TestRollupStockNonIncreasing(t *testing.T) {
	prev := int64(-1)
	for available := int64(100); available >= 0; available -= 10 {
		lines := []ResolvedLine{
			resolvedLine(entity.ComponentKindProduct, 3, 0.1, "1.00", int64Ptr(available)),
		}
		stock := RollupStock(lines)
		if stock == nil {
			t.Fatal("Expected bounded stock")
		}
		if prev >= 0 && *stock > prev {
			t.Errorf("Effective stock increased from %d to %d as available stock dropped to %d", prev, *stock, available)
		}
		prev = *stock
	}
	if prev != 0 {
		t.Errorf("Expected effective stock 0 at zero available stock, got %d", prev)
	}
}

func TestRollupCostLinearInQuantity(t *testing.T) {
	base := RollupCost([]ResolvedLine{
		resolvedLine(entity.ComponentKindProduct, 1, 0.1, "7.00", nil),
	})
	tripled := RollupCost([]ResolvedLine{
		resolvedLine(entity.ComponentKindProduct, 3, 0.1, "7.00", nil),
	})
	if !tripled.Equal(base.Mul(decimal.NewFromInt(3))) {
		t.Errorf("Expected cost to triple with quantity: base=%s tripled=%s", base, tripled)
	}
}

// 3×1.1 在float64下不精确（3.3000000000000003），成本必须在decimal域内计算
func TestRollupCostExactDecimal(t *testing.T) {
	cost := RollupCost([]ResolvedLine{
		resolvedLine(entity.ComponentKindProduct, 3, 0.1, "1.00", nil),
	})
	if !cost.Equal(decimal.RequireFromString("3.3")) {
		t.Errorf("Expected cost 3.3, got %s", cost)
	}
	if cost.String() != "3.3" {
		t.Errorf("Expected cost to serialize as 3.3, got %q", cost.String())
	}
}

func TestRollupSkipsMissingLines(t *testing.T) {
	lines := []ResolvedLine{
		resolvedLine(entity.ComponentKindProduct, 1, 0, "5.00", int64Ptr(3)),
		{
			Line:    entity.BOMLine{ComponentKind: entity.ComponentKindProduct, QuantityPerUnit: 99},
			Missing: true,
		},
	}
	cost := RollupCost(lines)
	if !cost.Equal(decimal.RequireFromString("5.00")) {
		t.Errorf("Expected missing line to be excluded from cost, got %s", cost)
	}
	stock := RollupStock(lines)
	if stock == nil || *stock != 3 {
		t.Errorf("Expected missing line to be excluded from stock, got %v", stock)
	}
}

func TestLineCost(t *testing.T) {
	rl := resolvedLine(entity.ComponentKindSupplier, 3, 0.1, "2.00", nil)
	if got := LineCost(rl); !got.Equal(decimal.RequireFromString("6.6")) {
		t.Errorf("Expected line cost 6.6, got %s", got)
	}
	if got := LineCost(ResolvedLine{Missing: true}); !got.IsZero() {
		t.Errorf("Expected zero cost for missing line, got %s", got)
	}
}
