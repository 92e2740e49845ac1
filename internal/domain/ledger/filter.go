package ledger

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

// MonthAll disables the month predicate.
const MonthAll = -1

// Predicate selects transactions for a filtered dashboard view. The three
// predicates combine with AND. An empty Category or Search disables that
// predicate, but Month's zero value means January; pass MonthAll to leave
// the month unconstrained.
type Predicate struct {
	// Month is the calendar month index 0..11, or MonthAll.
	Month int
	// Category matches when any line item name and the category are
	// case-insensitive substrings of each other. "" or "all" disables it.
	Category string
	// Search is a case-insensitive substring matched across the
	// counterparty name, the transaction number, and every line item name
	// (OR across fields). "" disables it.
	Search string
	// Location is the display timezone used for month extraction. Month
	// comparison must use one timezone everywhere; mixing UTC and local
	// extraction silently misfiles month-boundary transactions.
	Location *time.Location
}

// Filter returns the transactions matching the predicate, preserving input
// order. Nil input is a contract violation; an empty slice is not.
func Filter(txns []Transaction, p Predicate) ([]Transaction, error) {
	if txns == nil {
		return nil, errors.WithStack(ErrNilTransactions)
	}

	loc := p.Location
	if loc == nil {
		loc = time.UTC
	}

	matched := make([]Transaction, 0, len(txns))
	for i := range txns {
		if matches(&txns[i], p, loc) {
			matched = append(matched, txns[i])
		}
	}

	return matched, nil
}

func matches(txn *Transaction, p Predicate, loc *time.Location) bool {
	if p.Month != MonthAll && p.Month >= 0 {
		if int(txn.Date.In(loc).Month())-1 != p.Month {
			return false
		}
	}

	if p.Category != "" && !strings.EqualFold(p.Category, "all") {
		if !matchesCategory(txn, p.Category) {
			return false
		}
	}

	if p.Search != "" {
		if !matchesSearch(txn, p.Search) {
			return false
		}
	}

	return true
}

func matchesCategory(txn *Transaction, category string) bool {
	needle := strings.ToLower(category)
	for _, item := range txn.Items {
		name := strings.ToLower(item.Name)
		if strings.Contains(name, needle) || strings.Contains(needle, name) {
			return true
		}
	}

	return false
}

func matchesSearch(txn *Transaction, search string) bool {
	needle := strings.ToLower(search)
	if strings.Contains(strings.ToLower(txn.CounterpartyName), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(txn.Number), needle) {
		return true
	}
	for _, item := range txn.Items {
		if strings.Contains(strings.ToLower(item.Name), needle) {
			return true
		}
	}

	return false
}
