package service

import (
	"github.com/MerlinStacks/woodash-dashboard-sub005/internal/inventory/entity"
	"github.com/shopspring/decimal"
)

// ResolvedLine 解析后的BOM行：Missing为true表示组件引用已失效，
// 该行不参与成本/库存计算，只作为待清理标记透出
type ResolvedLine struct {
	Line      entity.BOMLine
	Component *ResolvedComponent
	Missing   bool
}

// consumptionPerUnit 每组装1个成品该行消耗的组件数量（含损耗）
// 全程decimal运算：数量和损耗率各自单独转换后再相乘，
// 避免float64下 3×1.1 这类乘积带来的尾差污染成本
func consumptionPerUnit(line entity.BOMLine) decimal.Decimal {
	waste := decimal.NewFromInt(1).Add(decimal.NewFromFloat(line.WasteFactor))
	return decimal.NewFromFloat(line.QuantityPerUnit).Mul(waste)
}

// RollupCost 组合件单位成本：Σ 数量×(1+损耗)×组件单位成本
// 空BOM返回0（合法，成品回退到手工录入成本）
func RollupCost(lines []ResolvedLine) decimal.Decimal {
	total := decimal.Zero
	for _, rl := range lines {
		if rl.Missing || rl.Component == nil {
			continue
		}
		total = total.Add(consumptionPerUnit(rl.Line).Mul(rl.Component.UnitCost))
	}
	return total
}

// LineCost 单行成本（成本明细展示用）
func LineCost(rl ResolvedLine) decimal.Decimal {
	if rl.Missing || rl.Component == nil {
		return decimal.Zero
	}
	return consumptionPerUnit(rl.Line).Mul(rl.Component.UnitCost)
}

// RollupStock 当前组件库存下最多可组装的成品数量
// 每个有库存约束的行贡献 floor(库存/单件消耗)，取最小值；
// 全部行都是Unbounded时返回nil（Unbounded）；不会为负
func RollupStock(lines []ResolvedLine) *int64 {
	var min *int64
	for _, rl := range lines {
		if rl.Missing || rl.Component == nil || rl.Component.Stock == nil {
			continue
		}
		consumption := consumptionPerUnit(rl.Line)
		if !consumption.IsPositive() {
			continue
		}
		buildable := decimal.NewFromInt(*rl.Component.Stock).Div(consumption).Floor().IntPart()
		if buildable < 0 {
			buildable = 0
		}
		if min == nil || buildable < *min {
			min = &buildable
		}
	}
	return min
}
