package service

import (
	"context"
	"errors"
	"testing"

	"github.com/MerlinStacks/woodash-dashboard-sub005/internal/inventory/entity"
	"github.com/MerlinStacks/woodash-dashboard-sub005/internal/inventory/repository"
	"github.com/MerlinStacks/woodash-dashboard-sub005/internal/testutil"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupBOMTest(t *testing.T) (*gorm.DB, *repository.Repositories, *BOMService) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	resolver := NewResolverService(repos.Product, repos.Supplier)
	return db, repos, NewBOMService(repos.BOM, repos.Audit, resolver)
}

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

// 教科书场景：变体件 2×(1+0.1)×3.00 + 供应商件 1×1.50 = 8.10，floor(50/2.2)=22
func seedCombinedScenario(t *testing.T, db *gorm.DB) {
	t.Helper()
	testutil.SeedTestProduct(t, db, 100, "Gift Box", nil, false, 0)
	testutil.SeedTestProduct(t, db, 200, "Candle", decPtr("3.00"), false, 0)
	testutil.SeedTestVariant(t, db, 201, 200, decPtr("3.00"), true, 50)
	testutil.SeedTestSupplierItem(t, db, "sup1", "item1", "Ribbon", decimal.RequireFromString("1.50"))
}

func TestBOMSaveAndGet(t *testing.T) {
	db, _, svc := setupBOMTest(t)
	seedCombinedScenario(t, db)
	ctx := context.Background()

	scope := entity.BOMScope{ProductID: 100}
	lines := []LineInput{
		{Kind: entity.ComponentKindVariant, ProductID: 200, VariantID: 201, QuantityPerUnit: 2, WasteFactor: 0.1},
		{Kind: entity.ComponentKindSupplier, SupplierItemID: "item1", QuantityPerUnit: 1},
	}

	if err := svc.Save(ctx, scope, lines, "tester"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	view, err := svc.Get(ctx, scope)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(view.Lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d", len(view.Lines))
	}
	if !view.Cost.Equal(decimal.RequireFromString("8.10")) {
		t.Errorf("Expected cost 8.10, got %s", view.Cost)
	}
	if view.EffectiveStock == nil || *view.EffectiveStock != 22 {
		t.Errorf("Expected effective stock 22, got %v", view.EffectiveStock)
	}
	if view.Lines[0].Position != 1 || view.Lines[1].Position != 2 {
		t.Errorf("Expected positions 1,2, got %d,%d", view.Lines[0].Position, view.Lines[1].Position)
	}
}

func TestBOMGetEmptyScope(t *testing.T) {
	db, _, svc := setupBOMTest(t)
	testutil.SeedTestProduct(t, db, 100, "Gift Box", nil, false, 0)

	view, err := svc.Get(context.Background(), entity.BOMScope{ProductID: 100})
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(view.Lines) != 0 {
		t.Errorf("Expected no lines, got %d", len(view.Lines))
	}
	if !view.Cost.IsZero() {
		t.Errorf("Expected zero cost, got %s", view.Cost)
	}
	if view.EffectiveStock != nil {
		t.Errorf("Expected unbounded stock, got %d", *view.EffectiveStock)
	}
}

func TestBOMSaveEmptyClearsLines(t *testing.T) {
	db, _, svc := setupBOMTest(t)
	seedCombinedScenario(t, db)
	ctx := context.Background()
	scope := entity.BOMScope{ProductID: 100}

	if err := svc.Save(ctx, scope, []LineInput{
		{Kind: entity.ComponentKindSupplier, SupplierItemID: "item1", QuantityPerUnit: 1},
	}, "tester"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// 空行集是合法保存：清空该scope的BOM
	if err := svc.Save(ctx, scope, nil, "tester"); err != nil {
		t.Fatalf("Save with empty lines failed: %v", err)
	}

	view, err := svc.Get(ctx, scope)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(view.Lines) != 0 {
		t.Errorf("Expected cleared BOM, got %d lines", len(view.Lines))
	}
}

func expectValidationError(t *testing.T, err error, rule string) {
	t.Helper()
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Expected ValidationError, got %v", err)
	}
	if ve.Rule != rule {
		t.Errorf("Expected rule %q, got %q", rule, ve.Rule)
	}
}

func TestBOMSaveRejectsBadQuantity(t *testing.T) {
	db, _, svc := setupBOMTest(t)
	seedCombinedScenario(t, db)

	err := svc.Save(context.Background(), entity.BOMScope{ProductID: 100}, []LineInput{
		{Kind: entity.ComponentKindSupplier, SupplierItemID: "item1", QuantityPerUnit: 0},
	}, "tester")
	expectValidationError(t, err, RuleBadQuantity)

	err = svc.Save(context.Background(), entity.BOMScope{ProductID: 100}, []LineInput{
		{Kind: entity.ComponentKindSupplier, SupplierItemID: "item1", QuantityPerUnit: 1, WasteFactor: -0.1},
	}, "tester")
	expectValidationError(t, err, RuleBadQuantity)
}

func TestBOMSaveRejectsSelfReference(t *testing.T) {
	db, _, svc := setupBOMTest(t)
	seedCombinedScenario(t, db)

	err := svc.Save(context.Background(), entity.BOMScope{ProductID: 100}, []LineInput{
		{Kind: entity.ComponentKindProduct, ProductID: 100, QuantityPerUnit: 1},
	}, "tester")
	expectValidationError(t, err, RuleSelfReference)

	// 变体scope自引用
	err = svc.Save(context.Background(), entity.BOMScope{ProductID: 200, VariantID: 201}, []LineInput{
		{Kind: entity.ComponentKindVariant, ProductID: 200, VariantID: 201, QuantityPerUnit: 1},
	}, "tester")
	expectValidationError(t, err, RuleSelfReference)
}

func TestBOMSaveRejectsNestedBOM(t *testing.T) {
	db, _, svc := setupBOMTest(t)
	seedCombinedScenario(t, db)
	testutil.SeedTestProduct(t, db, 300, "Hamper", nil, false, 0)
	ctx := context.Background()

	// 商品100先拥有自己的BOM
	if err := svc.Save(ctx, entity.BOMScope{ProductID: 100}, []LineInput{
		{Kind: entity.ComponentKindSupplier, SupplierItemID: "item1", QuantityPerUnit: 1},
	}, "tester"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// 商品300尝试把组合件100作为组件：拒绝
	err := svc.Save(ctx, entity.BOMScope{ProductID: 300}, []LineInput{
		{Kind: entity.ComponentKindProduct, ProductID: 100, QuantityPerUnit: 1},
	}, "tester")
	expectValidationError(t, err, RuleNestedBOM)

	// 整单拒绝：300的scope保持为空
	view, err := svc.Get(ctx, entity.BOMScope{ProductID: 300})
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(view.Lines) != 0 {
		t.Errorf("Expected unchanged empty BOM after rejected save, got %d lines", len(view.Lines))
	}
}

func TestBOMSaveRejectsDuplicateComponent(t *testing.T) {
	db, _, svc := setupBOMTest(t)
	seedCombinedScenario(t, db)

	err := svc.Save(context.Background(), entity.BOMScope{ProductID: 100}, []LineInput{
		{Kind: entity.ComponentKindSupplier, SupplierItemID: "item1", QuantityPerUnit: 1},
		{Kind: entity.ComponentKindSupplier, SupplierItemID: "item1", QuantityPerUnit: 3},
	}, "tester")
	expectValidationError(t, err, RuleDuplicateComponent)
}

func TestBOMSaveRejectionKeepsPriorState(t *testing.T) {
	db, _, svc := setupBOMTest(t)
	seedCombinedScenario(t, db)
	ctx := context.Background()
	scope := entity.BOMScope{ProductID: 100}

	if err := svc.Save(ctx, scope, []LineInput{
		{Kind: entity.ComponentKindSupplier, SupplierItemID: "item1", QuantityPerUnit: 2},
	}, "tester"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	err := svc.Save(ctx, scope, []LineInput{
		{Kind: entity.ComponentKindSupplier, SupplierItemID: "item1", QuantityPerUnit: 4},
		{Kind: entity.ComponentKindProduct, ProductID: 100, QuantityPerUnit: 1},
	}, "tester")
	expectValidationError(t, err, RuleSelfReference)

	view, err := svc.Get(ctx, scope)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(view.Lines) != 1 {
		t.Fatalf("Expected prior single line to survive, got %d lines", len(view.Lines))
	}
	if view.Lines[0].QuantityPerUnit != 2 {
		t.Errorf("Expected prior quantity 2, got %v", view.Lines[0].QuantityPerUnit)
	}
}

func TestBOMResolveMarksMissingComponent(t *testing.T) {
	db, repos, svc := setupBOMTest(t)
	seedCombinedScenario(t, db)
	ctx := context.Background()
	scope := entity.BOMScope{ProductID: 100}

	if err := svc.Save(ctx, scope, []LineInput{
		{Kind: entity.ComponentKindProduct, ProductID: 200, QuantityPerUnit: 1},
		{Kind: entity.ComponentKindSupplier, SupplierItemID: "item1", QuantityPerUnit: 1},
	}, "tester"); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// 删除被引用的商品，对应行应降级为missing而不是整体失败
	if err := repos.Product.Delete(ctx, 200); err != nil {
		t.Fatalf("Delete product failed: %v", err)
	}

	view, err := svc.Get(ctx, scope)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(view.Lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d", len(view.Lines))
	}
	var missing, live int
	for _, lv := range view.Lines {
		if lv.Missing {
			missing++
		} else {
			live++
		}
	}
	if missing != 1 || live != 1 {
		t.Errorf("Expected 1 missing and 1 live line, got %d missing %d live", missing, live)
	}
	// missing行不参与成本
	if !view.Cost.Equal(decimal.RequireFromString("1.50")) {
		t.Errorf("Expected cost 1.50 from surviving line only, got %s", view.Cost)
	}
}

func TestSaveAllPartialFailure(t *testing.T) {
	db, _, svc := setupBOMTest(t)
	seedCombinedScenario(t, db)
	ctx := context.Background()

	saves := []ScopeSave{
		{
			Scope: entity.BOMScope{ProductID: 100},
			Lines: []LineInput{{Kind: entity.ComponentKindSupplier, SupplierItemID: "item1", QuantityPerUnit: 1}},
		},
		{
			// 故意违反自引用规则
			Scope: entity.BOMScope{ProductID: 200, VariantID: 201},
			Lines: []LineInput{{Kind: entity.ComponentKindVariant, ProductID: 200, VariantID: 201, QuantityPerUnit: 1}},
		},
		{
			Scope: entity.BOMScope{ProductID: 200},
			Lines: []LineInput{{Kind: entity.ComponentKindSupplier, SupplierItemID: "item1", QuantityPerUnit: 2}},
		},
	}

	result := svc.SaveAll(ctx, saves, "tester")

	if len(result.Succeeded) != 2 {
		t.Fatalf("Expected 2 succeeded scopes, got %d: %+v", len(result.Succeeded), result)
	}
	if len(result.Failed) != 1 {
		t.Fatalf("Expected 1 failed scope, got %d", len(result.Failed))
	}
	if result.Failed[0].Scope != (entity.BOMScope{ProductID: 200, VariantID: 201}) {
		t.Errorf("Expected failed scope 200/201, got %s", result.Failed[0].Scope)
	}
	if result.Failed[0].Rule != RuleSelfReference {
		t.Errorf("Expected rule self_reference, got %q", result.Failed[0].Rule)
	}

	// Succeeded已按scope排序
	if result.Succeeded[0] != (entity.BOMScope{ProductID: 100}) || result.Succeeded[1] != (entity.BOMScope{ProductID: 200}) {
		t.Errorf("Expected sorted succeeded scopes, got %+v", result.Succeeded)
	}

	// 失败scope不影响其他scope的保存
	for _, scope := range result.Succeeded {
		view, err := svc.Get(ctx, scope)
		if err != nil {
			t.Fatalf("Get %s failed: %v", scope, err)
		}
		if len(view.Lines) != 1 {
			t.Errorf("Expected scope %s to hold 1 line, got %d", scope, len(view.Lines))
		}
	}
	failedView, err := svc.Get(ctx, entity.BOMScope{ProductID: 200, VariantID: 201})
	if err != nil {
		t.Fatalf("Get failed scope: %v", err)
	}
	if len(failedView.Lines) != 0 {
		t.Errorf("Expected failed scope to remain empty, got %d lines", len(failedView.Lines))
	}
}
