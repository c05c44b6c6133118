package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Supplier 供应商
type Supplier struct {
	ID        string    `json:"id" gorm:"primaryKey;size:32"`
	Name      string    `json:"name" gorm:"size:200;not null"`
	Email     string    `json:"email" gorm:"size:200"`
	Phone     string    `json:"phone" gorm:"size:50"`
	Website   string    `json:"website" gorm:"size:200"`
	Notes     string    `json:"notes" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Items []SupplierItem `json:"items,omitempty" gorm:"foreignKey:SupplierID"`
}

func (Supplier) TableName() string {
	return "suppliers"
}

// SupplierItem 供应商原材料条目（只有成本，没有库存）
type SupplierItem struct {
	ID           string          `json:"id" gorm:"primaryKey;size:32"`
	SupplierID   string          `json:"supplier_id" gorm:"size:32;not null;index"`
	Name         string          `json:"name" gorm:"size:255;not null"`
	SKU          string          `json:"sku" gorm:"size:64"`
	UnitCost     decimal.Decimal `json:"unit_cost" gorm:"type:decimal(15,4);not null"`
	LeadTimeDays *int            `json:"lead_time_days"`
	MOQ          *int            `json:"moq"` // 最小起订量
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`

	Supplier *Supplier `json:"supplier,omitempty" gorm:"foreignKey:SupplierID"`
}

func (SupplierItem) TableName() string {
	return "supplier_items"
}
