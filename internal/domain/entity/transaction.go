// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus tracks how much of a sale's proceeds have been settled.
type PaymentStatus string

const (
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPartial PaymentStatus = "partial"
)

// IsValid checks if the PaymentStatus is a known value.
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPaid, PaymentStatusPending, PaymentStatusPartial:
		return true
	default:
		return false
	}
}

// LineItem is one row of a bill or a market sale. Immutable once recorded;
// it belongs to exactly one transaction.
type LineItem struct {
	ID        uuid.UUID
	Name      string // Crop or product name as printed on the bill.
	Quantity  decimal.Decimal
	Unit      string // "kg", "quintal", "bag", ...
	UnitPrice decimal.Decimal
	TaxAmount decimal.Decimal // GST or market tax attributed to this line.
	LineTotal decimal.Decimal
}

// Purchase is a farmer buying supplies from a store.
// Invariant: GrandTotal == Subtotal + GSTTotal.
type Purchase struct {
	ID            uuid.UUID
	Number        string // Bill number, unique per store.
	Date          time.Time
	FarmerID      uuid.UUID
	StoreID       uuid.UUID
	Items         []LineItem
	Subtotal      decimal.Decimal
	GSTTotal      decimal.Decimal
	GrandTotal    decimal.Decimal
	PaymentMethod string // "cash", "upi", "credit", ...
	CreatedAt     time.Time
}

// Sale is a farmer selling produce through a broker at a market yard.
// Invariant: NetAmount == Subtotal - CommissionAmount - TaxAmount.
type Sale struct {
	ID                uuid.UUID
	Number            string // Patti (sale slip) number, unique per broker.
	Date              time.Time
	FarmerID          uuid.UUID
	BrokerID          uuid.UUID
	Items             []LineItem
	Subtotal          decimal.Decimal
	CommissionPercent decimal.Decimal
	CommissionAmount  decimal.Decimal
	TaxAmount         decimal.Decimal
	NetAmount         decimal.Decimal
	PaymentStatus     PaymentStatus
	CreatedAt         time.Time
}
