package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseModel mirrors the 'purchases' table: a farmer buying supplies
// from a store.
type PurchaseModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Number        string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_purchases_store_number,composite:store_id"`
	Date          time.Time       `gorm:"not null;index"`
	FarmerID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	StoreID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_purchases_store_number"`
	Subtotal      decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	GSTTotal      decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	GrandTotal    decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	PaymentMethod string          `gorm:"type:varchar(20)"`
	CreatedAt     time.Time

	Items []*LineItemModel `gorm:"foreignKey:PurchaseID"`
}

// TableName explicitly sets the table name for GORM.
func (PurchaseModel) TableName() string {
	return "purchases"
}

// SaleModel mirrors the 'sales' table: a farmer selling produce through a
// broker at a market yard.
type SaleModel struct {
	ID                uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Number            string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_sales_broker_number,composite:broker_id"`
	Date              time.Time       `gorm:"not null;index"`
	FarmerID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	BrokerID          uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_sales_broker_number"`
	Subtotal          decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	CommissionPercent decimal.Decimal `gorm:"type:numeric(5,2);not null"`
	CommissionAmount  decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	TaxAmount         decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	NetAmount         decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	PaymentStatus     string          `gorm:"type:varchar(20);not null;default:'pending'"`
	CreatedAt         time.Time

	Items []*LineItemModel `gorm:"foreignKey:SaleID"`
}

// TableName explicitly sets the table name for GORM.
func (SaleModel) TableName() string {
	return "sales"
}

// LineItemModel mirrors the 'line_items' table. A row belongs to exactly
// one purchase or one sale, tracked by nullable FK columns.
type LineItemModel struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	PurchaseID *uuid.UUID      `gorm:"type:uuid;index"`
	SaleID     *uuid.UUID      `gorm:"type:uuid;index"`
	Name       string          `gorm:"type:varchar(100);not null"`
	Quantity   decimal.Decimal `gorm:"type:numeric(12,3);not null"`
	Unit       string          `gorm:"type:varchar(20)"`
	UnitPrice  decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	TaxAmount  decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	LineTotal  decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	CreatedAt  time.Time
}

// TableName explicitly sets the table name for GORM.
func (LineItemModel) TableName() string {
	return "line_items"
}
