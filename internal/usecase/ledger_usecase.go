// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"
	"time"

	"agrilink/internal/domain/entity"
	"agrilink/internal/domain/ledger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- Input DTOs ---

// LineItemInput is one crop or product line on a recorded transaction.
type LineItemInput struct {
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	Unit      string          `json:"unit"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	TaxAmount decimal.Decimal `json:"tax_amount"`
}

// RecordPurchaseInput defines a farmer's purchase from an agri store.
type RecordPurchaseInput struct {
	FarmerID      uuid.UUID
	StoreID       uuid.UUID
	Number        string
	Date          time.Time
	Items         []LineItemInput
	PaymentMethod string
}

// RecordSaleInput defines a farmer's sale through a broker. Commission and
// net amount are derived server-side from the line items and the percentage.
type RecordSaleInput struct {
	FarmerID          uuid.UUID
	BrokerID          uuid.UUID
	Number            string
	Date              time.Time
	Items             []LineItemInput
	CommissionPercent decimal.Decimal
	PaymentStatus     entity.PaymentStatus
}

// DashboardFilter narrows a dashboard view. Month is a calendar month index
// 0..11 or ledger.MonthAll; Category and Search follow the ledger predicate
// semantics.
type DashboardFilter struct {
	Month    int
	Category string
	Search   string
}

// PaymentQRInput defines a UPI collect request for a settled transaction.
type PaymentQRInput struct {
	PayeeVPA  string
	PayeeName string
	Amount    decimal.Decimal
	Note      string
}

// --- Output DTOs ---

// DashboardOutput is the viewer-scoped rollup: headline totals, the filtered
// transaction list, and per-counterparty summaries over that list.
type DashboardOutput struct {
	Totals         ledger.Totals
	Transactions   []ledger.Transaction
	Counterparties []*ledger.CounterpartySummary
}

// PaymentQROutput carries the rendered QR image and its underlying URI.
type PaymentQROutput struct {
	PNG []byte
	URI string
}

// LedgerUsecase defines the commerce ledger operations: recording purchases
// and sales and serving the aggregated dashboard views over them.
type LedgerUsecase interface {
	RecordPurchase(ctx context.Context, input RecordPurchaseInput) (*entity.Purchase, error)
	RecordSale(ctx context.Context, input RecordSaleInput) (*entity.Sale, error)

	// GetDashboard builds the rollup for the viewer. The viewer's role
	// decides which side of each transaction they are on.
	GetDashboard(ctx context.Context, viewerID uuid.UUID, filter DashboardFilter) (*DashboardOutput, error)

	// GetPaymentQR renders a UPI payment QR code for a collect request.
	GetPaymentQR(ctx context.Context, input PaymentQRInput) (*PaymentQROutput, error)

	// QuoteCart normalizes a consumer cart and computes its price breakdown.
	QuoteCart(ctx context.Context, cart ledger.Cart) (*ledger.CartTotals, error)
}
