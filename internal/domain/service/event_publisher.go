package service

import (
	"context"
)

// TransactionEvent is emitted after a purchase or sale has been committed.
// Downstream consumers (analytics, notification fan-out) receive it
// asynchronously; publish failures never roll back the ledger write.
type TransactionEvent struct {
	RequestID   string `json:"request_id,omitempty"` // For distributed tracing
	EntryID     string `json:"entry_id"`
	Kind        string `json:"kind"` // "purchase" or "sale"
	Number      string `json:"number"`
	FarmerID    string `json:"farmer_id"`
	PartnerID   string `json:"partner_id"` // Store or broker on the other side
	PartnerRole string `json:"partner_role"`
	Amount      string `json:"amount"`
	Date        string `json:"date"` // RFC 3339
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishTransactionEvent publishes a ledger event for async processing
	PublishTransactionEvent(ctx context.Context, event *TransactionEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
