package entity

import (
	"fmt"
	"time"
)

// ComponentKind BOM组件类型
const (
	ComponentKindProduct  = "product"
	ComponentKindVariant  = "variant"
	ComponentKindSupplier = "supplier"
)

// BOMScope BOM归属键：VariantID为0表示商品本身
type BOMScope struct {
	ProductID int64 `json:"product_id"`
	VariantID int64 `json:"variant_id"`
}

func (s BOMScope) String() string {
	return fmt.Sprintf("%d/%d", s.ProductID, s.VariantID)
}

// ComponentRef BOM组件引用（product/variant/supplier三选一）
type ComponentRef struct {
	Kind           string `json:"kind"`
	ProductID      int64  `json:"product_id,omitempty"`
	VariantID      int64  `json:"variant_id,omitempty"`
	SupplierItemID string `json:"supplier_item_id,omitempty"`
}

// Equal 判断两个组件引用是否指向同一目标
func (r ComponentRef) Equal(o ComponentRef) bool {
	if r.Kind != o.Kind {
		return false
	}
	switch r.Kind {
	case ComponentKindSupplier:
		return r.SupplierItemID == o.SupplierItemID
	case ComponentKindVariant:
		return r.ProductID == o.ProductID && r.VariantID == o.VariantID
	default:
		return r.ProductID == o.ProductID
	}
}

// BOMLine BOM组件行，归属于一个scope
type BOMLine struct {
	ID             string  `json:"id" gorm:"primaryKey;size:32"`
	OwnerProductID int64   `json:"owner_product_id" gorm:"not null;index:idx_bom_lines_scope"`
	OwnerVariantID int64   `json:"owner_variant_id" gorm:"not null;default:0;index:idx_bom_lines_scope"`
	ComponentKind  string  `json:"component_kind" gorm:"size:16;not null"`
	ProductID      int64   `json:"product_id" gorm:"not null;default:0"`
	VariantID      int64   `json:"variant_id" gorm:"not null;default:0"`
	SupplierItemID *string `json:"supplier_item_id" gorm:"size:32"`
	// 每生产1个成品消耗的数量
	QuantityPerUnit float64 `json:"quantity_per_unit" gorm:"type:decimal(15,4);not null"`
	// 损耗系数，0.05表示每单位额外消耗5%
	WasteFactor float64   `json:"waste_factor" gorm:"type:decimal(8,4);not null;default:0"`
	Position    int       `json:"position" gorm:"not null;default:0"` // 仅用于显示排序
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	SupplierItem *SupplierItem `json:"supplier_item,omitempty" gorm:"foreignKey:SupplierItemID"`
}

func (BOMLine) TableName() string {
	return "bom_lines"
}

// Scope 返回行的归属scope
func (l BOMLine) Scope() BOMScope {
	return BOMScope{ProductID: l.OwnerProductID, VariantID: l.OwnerVariantID}
}

// Component 返回行的组件引用
func (l BOMLine) Component() ComponentRef {
	ref := ComponentRef{
		Kind:      l.ComponentKind,
		ProductID: l.ProductID,
		VariantID: l.VariantID,
	}
	if l.SupplierItemID != nil {
		ref.SupplierItemID = *l.SupplierItemID
	}
	return ref
}
