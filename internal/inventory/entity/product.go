package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product 店面商品的本地镜像（主键直接使用店面商品ID）
type Product struct {
	ID            int64            `json:"id" gorm:"primaryKey;autoIncrement:false"`
	SKU           string           `json:"sku" gorm:"size:64;index"`
	Name          string           `json:"name" gorm:"size:255;not null"`
	Type          string           `json:"type" gorm:"size:20;not null;default:simple"` // simple/variable
	Price         *decimal.Decimal `json:"price" gorm:"type:decimal(15,4)"`
	SalePrice     *decimal.Decimal `json:"sale_price" gorm:"type:decimal(15,4)"`
	Cost          *decimal.Decimal `json:"cost" gorm:"type:decimal(15,4)"` // COGS，手工录入的成本
	MiscCosts     JSONBArray       `json:"misc_costs" gorm:"type:jsonb"`   // [{amount, note}]
	StockStatus   string           `json:"stock_status" gorm:"size:20;default:instock"`
	ManageStock   bool             `json:"manage_stock" gorm:"not null;default:false"`
	StockQuantity int64            `json:"stock_quantity" gorm:"not null;default:0"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`

	// 关联
	Variants []ProductVariant `json:"variants,omitempty" gorm:"foreignKey:ProductID"`
}

func (Product) TableName() string {
	return "products"
}

// ProductVariant 商品变体（主键为店面变体ID）
type ProductVariant struct {
	ID            int64            `json:"id" gorm:"primaryKey;autoIncrement:false"`
	ProductID     int64            `json:"product_id" gorm:"not null;index"`
	SKU           string           `json:"sku" gorm:"size:64;index"`
	Attributes    JSONB            `json:"attributes" gorm:"type:jsonb"`
	Price         *decimal.Decimal `json:"price" gorm:"type:decimal(15,4)"`
	CostOverride  *decimal.Decimal `json:"cost_override" gorm:"type:decimal(15,4)"` // 为空时回退到商品成本
	ManageStock   bool             `json:"manage_stock" gorm:"not null;default:false"`
	StockQuantity int64            `json:"stock_quantity" gorm:"not null;default:0"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`

	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

func (ProductVariant) TableName() string {
	return "product_variants"
}
