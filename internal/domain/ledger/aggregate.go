package ledger

import (
	"sort"
	"time"

	"agrilink/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// ErrNilTransactions is returned when a caller passes a nil collection.
// An empty slice is a valid input (nothing to aggregate); nil is a contract
// violation and callers should render a retry affordance, not crash.
var ErrNilTransactions = errors.New("ledger: nil transaction collection")

// CounterpartySummary is the rollup for one counterparty across every
// transaction the viewer has with them.
type CounterpartySummary struct {
	ID                  uuid.UUID
	Name                string
	Location            string
	TotalAmount         decimal.Decimal
	TransactionCount    int
	LastTransactionDate time.Time
	Categories          []string // Sorted distinct crop/product names.

	categorySet map[string]struct{}
}

// fallbackName substitutes a placeholder when a counterparty record could
// not be resolved; a missing name must never drop the amounts from the
// rollup.
func fallbackName(role entity.Role) string {
	switch role {
	case entity.RoleFarmer:
		return "Unknown Farmer"
	case entity.RoleBroker:
		return "Unknown Broker"
	case entity.RoleStoreOwner:
		return "Unknown Store"
	default:
		return "Unknown"
	}
}

// AggregateCounterparties walks the transactions once and produces one
// summary per counterparty. LastTransactionDate only advances when a
// transaction is strictly more recent; on equal timestamps the earlier-seen
// value is kept. Ordering of the result is the caller's concern.
func AggregateCounterparties(txns []Transaction) (map[uuid.UUID]*CounterpartySummary, error) {
	if txns == nil {
		return nil, errors.WithStack(ErrNilTransactions)
	}

	summaries := make(map[uuid.UUID]*CounterpartySummary)
	for i := range txns {
		txn := &txns[i]

		summary, ok := summaries[txn.CounterpartyID]
		if !ok {
			name := txn.CounterpartyName
			if name == "" {
				name = fallbackName(txn.CounterpartyRole)
			}
			summary = &CounterpartySummary{
				ID:          txn.CounterpartyID,
				Name:        name,
				Location:    txn.CounterpartyLocation,
				TotalAmount: decimal.Zero,
				categorySet: make(map[string]struct{}),
			}
			summaries[txn.CounterpartyID] = summary
		}

		summary.TotalAmount = summary.TotalAmount.Add(txn.Amount)
		summary.TransactionCount++
		if txn.Date.After(summary.LastTransactionDate) {
			summary.LastTransactionDate = txn.Date
		}
		for _, item := range txn.Items {
			summary.categorySet[item.Name] = struct{}{}
		}
	}

	for _, summary := range summaries {
		summary.Categories = make([]string, 0, len(summary.categorySet))
		for name := range summary.categorySet {
			summary.Categories = append(summary.Categories, name)
		}
		sort.Strings(summary.Categories)
	}

	return summaries, nil
}

// Totals is the dashboard headline figure set over one transaction slice.
type Totals struct {
	PurchaseTotal decimal.Decimal // Sum of grand totals (money spent).
	SaleTotal     decimal.Decimal // Sum of net amounts (money earned).
	Count         int
}

// SumTotals adds up the transactions by kind. Nil input is the same
// contract violation as in AggregateCounterparties.
func SumTotals(txns []Transaction) (Totals, error) {
	if txns == nil {
		return Totals{}, errors.WithStack(ErrNilTransactions)
	}

	totals := Totals{
		PurchaseTotal: decimal.Zero,
		SaleTotal:     decimal.Zero,
	}
	for i := range txns {
		switch txns[i].Kind {
		case KindPurchase:
			totals.PurchaseTotal = totals.PurchaseTotal.Add(txns[i].Amount)
		case KindSale:
			totals.SaleTotal = totals.SaleTotal.Add(txns[i].Amount)
		}
		totals.Count++
	}

	return totals, nil
}
