// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"agrilink/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrLedgerEntryNotFound is returned when a purchase or sale is not found.
var ErrLedgerEntryNotFound = errors.New("ledger entry not found")

// LedgerRepository defines persistence for the commerce ledger: farmer
// purchases from stores and farmer sales through brokers, each with their
// line items.
type LedgerRepository interface {
	// CreatePurchase persists a purchase and its line items atomically.
	CreatePurchase(ctx context.Context, purchase *entity.Purchase) error

	// CreateSale persists a sale and its line items atomically.
	CreateSale(ctx context.Context, sale *entity.Sale) error

	// FindPurchaseByID retrieves one purchase with its line items.
	FindPurchaseByID(ctx context.Context, id uuid.UUID) (*entity.Purchase, error)

	// FindSaleByID retrieves one sale with its line items.
	FindSaleByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error)

	// ListPurchasesByFarmer returns the farmer's purchases, newest first.
	ListPurchasesByFarmer(ctx context.Context, farmerID uuid.UUID) ([]*entity.Purchase, error)

	// ListPurchasesByStore returns the store's purchases, newest first.
	ListPurchasesByStore(ctx context.Context, storeID uuid.UUID) ([]*entity.Purchase, error)

	// ListSalesByFarmer returns the farmer's sales, newest first.
	ListSalesByFarmer(ctx context.Context, farmerID uuid.UUID) ([]*entity.Sale, error)

	// ListSalesByBroker returns the broker's sales, newest first.
	ListSalesByBroker(ctx context.Context, brokerID uuid.UUID) ([]*entity.Sale, error)
}
