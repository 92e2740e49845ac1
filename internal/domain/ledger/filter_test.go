package ledger

import (
	"testing"
	"time"

	"agrilink/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter_NilInput(t *testing.T) {
	_, err := Filter(nil, Predicate{Month: MonthAll})

	assert.ErrorIs(t, err, ErrNilTransactions)
}

func TestFilter_ZeroPredicatePassesEverything(t *testing.T) {
	txns := []Transaction{
		saleTxn(uuid.New(), "Ramesh Traders", time.Now(), "100", "Wheat"),
		saleTxn(uuid.New(), "Azad Mandi Co", time.Now(), "200", "Onion"),
	}

	matched, err := Filter(txns, Predicate{Month: MonthAll})

	require.NoError(t, err)
	assert.Len(t, matched, 2)
}

func TestFilter_MonthUsesDisplayTimezone(t *testing.T) {
	kolkata, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	// 2025-06-30 20:00 UTC is already 2025-07-01 01:30 in Kolkata.
	boundary := time.Date(2025, time.June, 30, 20, 0, 0, 0, time.UTC)
	txns := []Transaction{
		saleTxn(uuid.New(), "Ramesh Traders", boundary, "100", "Wheat"),
	}

	june, err := Filter(txns, Predicate{Month: 5, Location: kolkata})
	require.NoError(t, err)
	assert.Empty(t, june, "boundary transaction belongs to July in the display timezone")

	july, err := Filter(txns, Predicate{Month: 6, Location: kolkata})
	require.NoError(t, err)
	assert.Len(t, july, 1)
}

func TestFilter_MonthDefaultsToUTC(t *testing.T) {
	jan := time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)
	txns := []Transaction{
		saleTxn(uuid.New(), "Ramesh Traders", jan, "100", "Wheat"),
	}

	matched, err := Filter(txns, Predicate{Month: 0})

	require.NoError(t, err)
	assert.Len(t, matched, 1)
}

func TestFilter_CategoryMatchesEitherDirection(t *testing.T) {
	txns := []Transaction{
		saleTxn(uuid.New(), "Ramesh Traders", time.Now(), "100", "Basmati Rice"),
		saleTxn(uuid.New(), "Azad Mandi Co", time.Now(), "200", "Onion"),
	}

	// Category is a substring of the item name.
	matched, err := Filter(txns, Predicate{Month: MonthAll, Category: "rice"})
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "Ramesh Traders", matched[0].CounterpartyName)

	// Item name is a substring of the category.
	matched, err = Filter(txns, Predicate{Month: MonthAll, Category: "Red Onion"})
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "Azad Mandi Co", matched[0].CounterpartyName)
}

func TestFilter_CategoryAllDisablesPredicate(t *testing.T) {
	txns := []Transaction{
		saleTxn(uuid.New(), "Ramesh Traders", time.Now(), "100", "Wheat"),
		saleTxn(uuid.New(), "Azad Mandi Co", time.Now(), "200", "Onion"),
	}

	matched, err := Filter(txns, Predicate{Month: MonthAll, Category: "All"})

	require.NoError(t, err)
	assert.Len(t, matched, 2)
}

func TestFilter_SearchSpansFields(t *testing.T) {
	broker := uuid.New()
	txns := []Transaction{
		saleTxn(broker, "Ramesh Traders", time.Now(), "100", "Wheat"),
		saleTxn(uuid.New(), "Azad Mandi Co", time.Now(), "200", "Onion"),
	}

	// Counterparty name.
	matched, err := Filter(txns, Predicate{Month: MonthAll, Search: "ramesh"})
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, broker, matched[0].CounterpartyID)

	// Transaction number.
	matched, err = Filter(txns, Predicate{Month: MonthAll, Search: "patti-azad"})
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "Azad Mandi Co", matched[0].CounterpartyName)

	// Line item name.
	matched, err = Filter(txns, Predicate{Month: MonthAll, Search: "onion"})
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "Azad Mandi Co", matched[0].CounterpartyName)
}

func TestFilter_PredicatesCombineWithAnd(t *testing.T) {
	jan := time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2025, time.February, 10, 0, 0, 0, 0, time.UTC)
	txns := []Transaction{
		saleTxn(uuid.New(), "Ramesh Traders", jan, "100", "Wheat"),
		saleTxn(uuid.New(), "Ramesh Traders", feb, "200", "Wheat"),
		saleTxn(uuid.New(), "Azad Mandi Co", jan, "300", "Onion"),
	}

	matched, err := Filter(txns, Predicate{Month: 0, Category: "wheat", Search: "ramesh"})

	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, jan, matched[0].Date)
}

func TestFilter_PreservesInputOrder(t *testing.T) {
	first := saleTxn(uuid.New(), "Ramesh Traders", time.Now(), "100", "Wheat")
	second := saleTxn(uuid.New(), "Ramesh Traders", time.Now(), "200", "Wheat")
	third := saleTxn(uuid.New(), "Ramesh Traders", time.Now(), "300", "Wheat")

	matched, err := Filter([]Transaction{first, second, third}, Predicate{Month: MonthAll, Search: "ramesh"})

	require.NoError(t, err)
	require.Len(t, matched, 3)
	assert.Equal(t, first.ID, matched[0].ID)
	assert.Equal(t, second.ID, matched[1].ID)
	assert.Equal(t, third.ID, matched[2].ID)
}

func TestRoundCurrency(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"4.95", "5"},
		{"4.49", "4"},
		{"4.5", "5"},
		{"-4.5", "-5"},
		{"0", "0"},
	}
	for _, tc := range cases {
		got := RoundCurrency(dec(tc.in))
		assert.True(t, got.Equal(dec(tc.want)), "RoundCurrency(%s) = %s, want %s", tc.in, got, tc.want)
	}
}

func TestPercent(t *testing.T) {
	// 6% commission on 1250 is 75.
	assert.True(t, Percent(dec("1250"), dec("6")).Equal(dec("75")))
	// 5% of 99 is 4.95, rounded to 5.
	assert.True(t, Percent(dec("99"), dec("5")).Equal(dec("5")))
}

func TestFallbackName(t *testing.T) {
	assert.Equal(t, "Unknown Farmer", fallbackName(entity.RoleFarmer))
	assert.Equal(t, "Unknown Broker", fallbackName(entity.RoleBroker))
	assert.Equal(t, "Unknown Store", fallbackName(entity.RoleStoreOwner))
	assert.Equal(t, "Unknown", fallbackName(entity.RoleConsumer))
}
