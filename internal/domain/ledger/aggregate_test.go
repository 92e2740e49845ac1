package ledger

import (
	"testing"
	"time"

	"agrilink/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func saleTxn(counterparty uuid.UUID, name string, date time.Time, amount string, crops ...string) Transaction {
	items := make([]entity.LineItem, 0, len(crops))
	for _, crop := range crops {
		items = append(items, entity.LineItem{Name: crop})
	}

	return Transaction{
		ID:               uuid.New(),
		Kind:             KindSale,
		Number:           "PATTI-" + name,
		Date:             date,
		CounterpartyID:   counterparty,
		CounterpartyRole: entity.RoleBroker,
		CounterpartyName: name,
		Items:            items,
		Amount:           dec(amount),
	}
}

func TestAggregateCounterparties_NilInput(t *testing.T) {
	_, err := AggregateCounterparties(nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNilTransactions)
}

func TestAggregateCounterparties_EmptyInput(t *testing.T) {
	summaries, err := AggregateCounterparties([]Transaction{})

	require.NoError(t, err)
	assert.Empty(t, summaries)
}

func TestAggregateCounterparties_AccumulatesPerCounterparty(t *testing.T) {
	brokerA := uuid.New()
	brokerB := uuid.New()
	jan := time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC)

	txns := []Transaction{
		saleTxn(brokerA, "Ramesh Traders", jan, "1200", "Wheat"),
		saleTxn(brokerA, "Ramesh Traders", mar, "800", "Onion"),
		saleTxn(brokerB, "Azad Mandi Co", jan, "500", "Tomato"),
	}

	summaries, err := AggregateCounterparties(txns)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	a := summaries[brokerA]
	require.NotNil(t, a)
	assert.True(t, a.TotalAmount.Equal(dec("2000")), "total: %s", a.TotalAmount)
	assert.Equal(t, 2, a.TransactionCount)
	assert.Equal(t, mar, a.LastTransactionDate)
	assert.Equal(t, []string{"Onion", "Wheat"}, a.Categories)

	b := summaries[brokerB]
	require.NotNil(t, b)
	assert.True(t, b.TotalAmount.Equal(dec("500")))
	assert.Equal(t, []string{"Tomato"}, b.Categories)
}

func TestAggregateCounterparties_LastDateOnlyAdvancesStrictly(t *testing.T) {
	broker := uuid.New()
	date := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

	// Two transactions share the exact timestamp; the earlier-seen one wins
	// and the result stays stable regardless of amounts.
	txns := []Transaction{
		saleTxn(broker, "Ramesh Traders", date, "100", "Wheat"),
		saleTxn(broker, "Ramesh Traders", date, "900", "Wheat"),
		saleTxn(broker, "Ramesh Traders", date.Add(-time.Hour), "50", "Wheat"),
	}

	summaries, err := AggregateCounterparties(txns)
	require.NoError(t, err)

	summary := summaries[broker]
	assert.Equal(t, date, summary.LastTransactionDate)
	assert.True(t, summary.TotalAmount.Equal(dec("1050")))
}

func TestAggregateCounterparties_UnknownCounterpartyPlaceholder(t *testing.T) {
	unknown := uuid.New()
	date := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)

	txn := saleTxn(unknown, "", date, "750", "Maize")
	txn.CounterpartyRole = entity.RoleFarmer

	summaries, err := AggregateCounterparties([]Transaction{txn})
	require.NoError(t, err)

	summary := summaries[unknown]
	require.NotNil(t, summary)
	assert.Equal(t, "Unknown Farmer", summary.Name)
	assert.True(t, summary.TotalAmount.Equal(dec("750")), "unresolved counterparties still contribute amounts")
}

func TestAggregateCounterparties_RoundTrip(t *testing.T) {
	// Sum of per-counterparty totals must equal the sum of transaction
	// amounts: no double counting, no loss.
	counterparties := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	base := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)

	var txns []Transaction
	expected := decimal.Zero
	amounts := []string{"120", "99.50", "1043", "7", "888.25", "61"}
	for i, amount := range amounts {
		txn := saleTxn(counterparties[i%len(counterparties)], "CP", base.AddDate(0, 0, i), amount, "Wheat")
		txns = append(txns, txn)
		expected = expected.Add(dec(amount))
	}

	summaries, err := AggregateCounterparties(txns)
	require.NoError(t, err)

	actual := decimal.Zero
	for _, summary := range summaries {
		actual = actual.Add(summary.TotalAmount)
	}
	assert.True(t, expected.Equal(actual), "expected %s, got %s", expected, actual)
}

func TestSumTotals_SplitsByKind(t *testing.T) {
	store := uuid.New()
	broker := uuid.New()
	date := time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC)

	purchase := Transaction{
		ID:               uuid.New(),
		Kind:             KindPurchase,
		Date:             date,
		CounterpartyID:   store,
		CounterpartyRole: entity.RoleStoreOwner,
		Amount:           dec("300"),
	}
	sale := saleTxn(broker, "Ramesh Traders", date, "1200", "Wheat")

	totals, err := SumTotals([]Transaction{purchase, sale})
	require.NoError(t, err)

	assert.True(t, totals.PurchaseTotal.Equal(dec("300")))
	assert.True(t, totals.SaleTotal.Equal(dec("1200")))
	assert.Equal(t, 2, totals.Count)
}

func TestSumTotals_NilInput(t *testing.T) {
	_, err := SumTotals(nil)

	assert.ErrorIs(t, err, ErrNilTransactions)
}

func TestPurchaseView_CounterpartyDependsOnViewer(t *testing.T) {
	farmer := uuid.New()
	store := uuid.New()
	purchase := &entity.Purchase{
		ID:         uuid.New(),
		FarmerID:   farmer,
		StoreID:    store,
		GrandTotal: dec("450"),
	}

	fromFarmer := PurchaseView(purchase, entity.RoleFarmer)
	assert.Equal(t, store, fromFarmer.CounterpartyID)
	assert.Equal(t, entity.RoleStoreOwner, fromFarmer.CounterpartyRole)

	fromStore := PurchaseView(purchase, entity.RoleStoreOwner)
	assert.Equal(t, farmer, fromStore.CounterpartyID)
	assert.Equal(t, entity.RoleFarmer, fromStore.CounterpartyRole)
	assert.True(t, fromStore.Amount.Equal(dec("450")))
}

func TestSaleView_CounterpartyDependsOnViewer(t *testing.T) {
	farmer := uuid.New()
	broker := uuid.New()
	sale := &entity.Sale{
		ID:        uuid.New(),
		FarmerID:  farmer,
		BrokerID:  broker,
		NetAmount: dec("980"),
	}

	fromFarmer := SaleView(sale, entity.RoleFarmer)
	assert.Equal(t, broker, fromFarmer.CounterpartyID)

	fromBroker := SaleView(sale, entity.RoleBroker)
	assert.Equal(t, farmer, fromBroker.CounterpartyID)
	assert.True(t, fromBroker.Amount.Equal(dec("980")))
}
