package service

import (
	"context"
	"fmt"

	"github.com/MerlinStacks/woodash-dashboard-sub005/internal/inventory/entity"
	"github.com/xuri/excelize/v2"
)

var bomExportHeaders = []string{
	"#", "Kind", "Component", "Qty/Unit", "Waste", "Unit Cost", "Line Cost", "Stock", "Missing",
}

// Export 导出scope的BOM为xlsx，含解析后的成本与汇总行
func (s *BOMService) Export(ctx context.Context, scope entity.BOMScope) (*excelize.File, string, error) {
	view, err := s.Get(ctx, scope)
	if err != nil {
		return nil, "", fmt.Errorf("load bom for export: %w", err)
	}

	f := excelize.NewFile()
	sheet := "BOM"
	f.SetSheetName("Sheet1", sheet)

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	for i, h := range bomExportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}

	for rowIdx, line := range view.Lines {
		row := rowIdx + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), line.Position)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), line.ComponentKind)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), componentLabel(line.BOMLine))
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), line.QuantityPerUnit)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), line.WasteFactor)
		if !line.Missing {
			cost, _ := line.UnitCost.Float64()
			lineCost, _ := line.LineCost.Float64()
			f.SetCellValue(sheet, fmt.Sprintf("F%d", row), cost)
			f.SetCellValue(sheet, fmt.Sprintf("G%d", row), lineCost)
			if line.Stock != nil {
				f.SetCellValue(sheet, fmt.Sprintf("H%d", row), *line.Stock)
			} else {
				f.SetCellValue(sheet, fmt.Sprintf("H%d", row), "unbounded")
			}
		}
		if line.Missing {
			f.SetCellValue(sheet, fmt.Sprintf("I%d", row), "yes")
		}
	}

	// 底部汇总行
	summaryRow := len(view.Lines) + 2
	summaryStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	totalCost, _ := view.Cost.Float64()
	f.SetCellValue(sheet, fmt.Sprintf("A%d", summaryRow), "Total")
	f.SetCellValue(sheet, fmt.Sprintf("G%d", summaryRow), totalCost)
	if view.EffectiveStock != nil {
		f.SetCellValue(sheet, fmt.Sprintf("H%d", summaryRow), *view.EffectiveStock)
	} else {
		f.SetCellValue(sheet, fmt.Sprintf("H%d", summaryRow), "unbounded")
	}
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("I%d", summaryRow), summaryStyle)

	colWidths := []float64{6, 10, 28, 10, 8, 10, 10, 12, 8}
	for i, w := range colWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, w)
	}

	filename := fmt.Sprintf("BOM_%d_%d.xlsx", scope.ProductID, scope.VariantID)
	return f, filename, nil
}

// componentLabel 导出时的组件显示名
func componentLabel(line entity.BOMLine) string {
	switch line.ComponentKind {
	case entity.ComponentKindVariant:
		return fmt.Sprintf("variant %d/%d", line.ProductID, line.VariantID)
	case entity.ComponentKindSupplier:
		if line.SupplierItem != nil {
			return line.SupplierItem.Name
		}
		if line.SupplierItemID != nil {
			return "supplier item " + *line.SupplierItemID
		}
		return "supplier item"
	default:
		return fmt.Sprintf("product %d", line.ProductID)
	}
}
