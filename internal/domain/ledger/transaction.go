package ledger

import (
	"time"

	"agrilink/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind tags a ledger view row as a purchase bill or a market sale.
type Kind string

const (
	KindPurchase Kind = "purchase"
	KindSale     Kind = "sale"
)

// Transaction is the aggregator's view of one recorded transaction: the raw
// entity row already joined with its line items and the counterparty's
// display data, converted at the boundary instead of carrying loosely-typed
// records through the aggregation code.
//
// Amount is the transaction's contribution to a rollup: the grand total for
// purchases, the net amount (after commission and tax) for sales.
type Transaction struct {
	ID                   uuid.UUID
	Kind                 Kind
	Number               string
	Date                 time.Time
	CounterpartyID       uuid.UUID
	CounterpartyRole     entity.Role
	CounterpartyName     string // Empty when the counterparty record could not be resolved.
	CounterpartyLocation string // Empty when unknown; never an error.
	Items                []entity.LineItem
	Amount               decimal.Decimal
}

// PurchaseView converts a purchase into the aggregator view, keyed on the
// counterparty as seen from the given viewpoint (the farmer sees the store,
// the store sees the farmer).
func PurchaseView(p *entity.Purchase, viewer entity.Role) Transaction {
	counterpartyID := p.StoreID
	counterpartyRole := entity.RoleStoreOwner
	if viewer == entity.RoleStoreOwner {
		counterpartyID = p.FarmerID
		counterpartyRole = entity.RoleFarmer
	}

	return Transaction{
		ID:               p.ID,
		Kind:             KindPurchase,
		Number:           p.Number,
		Date:             p.Date,
		CounterpartyID:   counterpartyID,
		CounterpartyRole: counterpartyRole,
		Items:            p.Items,
		Amount:           p.GrandTotal,
	}
}

// SaleView converts a sale into the aggregator view; the farmer sees the
// broker, the broker sees the farmer.
func SaleView(s *entity.Sale, viewer entity.Role) Transaction {
	counterpartyID := s.BrokerID
	counterpartyRole := entity.RoleBroker
	if viewer == entity.RoleBroker {
		counterpartyID = s.FarmerID
		counterpartyRole = entity.RoleFarmer
	}

	return Transaction{
		ID:               s.ID,
		Kind:             KindSale,
		Number:           s.Number,
		Date:             s.Date,
		CounterpartyID:   counterpartyID,
		CounterpartyRole: counterpartyRole,
		Items:            s.Items,
		Amount:           s.NetAmount,
	}
}
