// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"

	"agrilink/internal/domain/entity"
	domainerrors "agrilink/internal/domain/errors"
	"agrilink/internal/domain/repository"
	"agrilink/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// ledgerRepository implements the repository.LedgerRepository interface using GORM.
type ledgerRepository struct {
	db *gorm.DB
}

// NewLedgerRepository is the constructor for ledgerRepository.
func NewLedgerRepository(db *gorm.DB) repository.LedgerRepository {
	return &ledgerRepository{
		db: db,
	}
}

// CreatePurchase persists a purchase and its line items atomically.
// GORM's association handling inserts the line items alongside the header.
func (repo *ledgerRepository) CreatePurchase(ctx context.Context, purchase *entity.Purchase) error {
	purchaseM := fromPurchaseDomain(purchase)

	if err := repo.db.WithContext(ctx).Create(purchaseM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrConflict.WrapMessage("bill number already used by this store")
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("invalid farmer or store reference")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create purchase")
	}

	purchase.ID = purchaseM.ID
	purchase.CreatedAt = purchaseM.CreatedAt
	for i, itemM := range purchaseM.Items {
		purchase.Items[i].ID = itemM.ID
	}

	return nil
}

// CreateSale persists a sale and its line items atomically.
func (repo *ledgerRepository) CreateSale(ctx context.Context, sale *entity.Sale) error {
	saleM := fromSaleDomain(sale)

	if err := repo.db.WithContext(ctx).Create(saleM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrConflict.WrapMessage("patti number already used by this broker")
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("invalid farmer or broker reference")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create sale")
	}

	sale.ID = saleM.ID
	sale.CreatedAt = saleM.CreatedAt
	for i, itemM := range saleM.Items {
		sale.Items[i].ID = itemM.ID
	}

	return nil
}

// FindPurchaseByID retrieves one purchase with its line items.
func (repo *ledgerRepository) FindPurchaseByID(ctx context.Context, id uuid.UUID) (*entity.Purchase, error) {
	var purchaseM model.PurchaseModel

	if err := repo.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", id).
		First(&purchaseM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrLedgerEntryNotFound
		}

		return nil, errors.Wrap(err, "failed to find purchase by id")
	}

	return toPurchaseDomain(&purchaseM), nil
}

// FindSaleByID retrieves one sale with its line items.
func (repo *ledgerRepository) FindSaleByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	var saleM model.SaleModel

	if err := repo.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", id).
		First(&saleM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrLedgerEntryNotFound
		}

		return nil, errors.Wrap(err, "failed to find sale by id")
	}

	return toSaleDomain(&saleM), nil
}

// ListPurchasesByFarmer returns the farmer's purchases, newest first.
func (repo *ledgerRepository) ListPurchasesByFarmer(ctx context.Context, farmerID uuid.UUID) ([]*entity.Purchase, error) {
	return repo.listPurchases(ctx, "farmer_id = ?", farmerID)
}

// ListPurchasesByStore returns the store's purchases, newest first.
func (repo *ledgerRepository) ListPurchasesByStore(ctx context.Context, storeID uuid.UUID) ([]*entity.Purchase, error) {
	return repo.listPurchases(ctx, "store_id = ?", storeID)
}

// ListSalesByFarmer returns the farmer's sales, newest first.
func (repo *ledgerRepository) ListSalesByFarmer(ctx context.Context, farmerID uuid.UUID) ([]*entity.Sale, error) {
	return repo.listSales(ctx, "farmer_id = ?", farmerID)
}

// ListSalesByBroker returns the broker's sales, newest first.
func (repo *ledgerRepository) ListSalesByBroker(ctx context.Context, brokerID uuid.UUID) ([]*entity.Sale, error) {
	return repo.listSales(ctx, "broker_id = ?", brokerID)
}

func (repo *ledgerRepository) listPurchases(ctx context.Context, cond string, id uuid.UUID) ([]*entity.Purchase, error) {
	var purchaseModels []*model.PurchaseModel

	if err := repo.db.WithContext(ctx).
		Preload("Items").
		Where(cond, id).
		Order("date DESC, created_at DESC").
		Find(&purchaseModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list purchases")
	}

	purchases := make([]*entity.Purchase, 0, len(purchaseModels))
	for _, purchaseM := range purchaseModels {
		purchases = append(purchases, toPurchaseDomain(purchaseM))
	}

	return purchases, nil
}

func (repo *ledgerRepository) listSales(ctx context.Context, cond string, id uuid.UUID) ([]*entity.Sale, error) {
	var saleModels []*model.SaleModel

	if err := repo.db.WithContext(ctx).
		Preload("Items").
		Where(cond, id).
		Order("date DESC, created_at DESC").
		Find(&saleModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list sales")
	}

	sales := make([]*entity.Sale, 0, len(saleModels))
	for _, saleM := range saleModels {
		sales = append(sales, toSaleDomain(saleM))
	}

	return sales, nil
}

// --- Mapper Functions ---

func toLineItemDomain(data *model.LineItemModel) entity.LineItem {
	return entity.LineItem{
		ID:        data.ID,
		Name:      data.Name,
		Quantity:  data.Quantity,
		Unit:      data.Unit,
		UnitPrice: data.UnitPrice,
		TaxAmount: data.TaxAmount,
		LineTotal: data.LineTotal,
	}
}

func fromLineItemDomain(data entity.LineItem) *model.LineItemModel {
	return &model.LineItemModel{
		ID:        data.ID,
		Name:      data.Name,
		Quantity:  data.Quantity,
		Unit:      data.Unit,
		UnitPrice: data.UnitPrice,
		TaxAmount: data.TaxAmount,
		LineTotal: data.LineTotal,
	}
}

// toPurchaseDomain converts a GORM PurchaseModel to a domain Purchase entity.
func toPurchaseDomain(data *model.PurchaseModel) *entity.Purchase {
	if data == nil {
		return nil
	}

	items := make([]entity.LineItem, 0, len(data.Items))
	for _, itemM := range data.Items {
		items = append(items, toLineItemDomain(itemM))
	}

	return &entity.Purchase{
		ID:            data.ID,
		Number:        data.Number,
		Date:          data.Date,
		FarmerID:      data.FarmerID,
		StoreID:       data.StoreID,
		Items:         items,
		Subtotal:      data.Subtotal,
		GSTTotal:      data.GSTTotal,
		GrandTotal:    data.GrandTotal,
		PaymentMethod: data.PaymentMethod,
		CreatedAt:     data.CreatedAt,
	}
}

// fromPurchaseDomain converts a domain Purchase entity to a GORM PurchaseModel.
func fromPurchaseDomain(data *entity.Purchase) *model.PurchaseModel {
	if data == nil {
		return nil
	}

	items := make([]*model.LineItemModel, 0, len(data.Items))
	for _, item := range data.Items {
		items = append(items, fromLineItemDomain(item))
	}

	return &model.PurchaseModel{
		ID:            data.ID,
		Number:        data.Number,
		Date:          data.Date,
		FarmerID:      data.FarmerID,
		StoreID:       data.StoreID,
		Items:         items,
		Subtotal:      data.Subtotal,
		GSTTotal:      data.GSTTotal,
		GrandTotal:    data.GrandTotal,
		PaymentMethod: data.PaymentMethod,
	}
}

// toSaleDomain converts a GORM SaleModel to a domain Sale entity.
func toSaleDomain(data *model.SaleModel) *entity.Sale {
	if data == nil {
		return nil
	}

	items := make([]entity.LineItem, 0, len(data.Items))
	for _, itemM := range data.Items {
		items = append(items, toLineItemDomain(itemM))
	}

	return &entity.Sale{
		ID:                data.ID,
		Number:            data.Number,
		Date:              data.Date,
		FarmerID:          data.FarmerID,
		BrokerID:          data.BrokerID,
		Items:             items,
		Subtotal:          data.Subtotal,
		CommissionPercent: data.CommissionPercent,
		CommissionAmount:  data.CommissionAmount,
		TaxAmount:         data.TaxAmount,
		NetAmount:         data.NetAmount,
		PaymentStatus:     entity.PaymentStatus(data.PaymentStatus),
		CreatedAt:         data.CreatedAt,
	}
}

// fromSaleDomain converts a domain Sale entity to a GORM SaleModel.
func fromSaleDomain(data *entity.Sale) *model.SaleModel {
	if data == nil {
		return nil
	}

	items := make([]*model.LineItemModel, 0, len(data.Items))
	for _, item := range data.Items {
		items = append(items, fromLineItemDomain(item))
	}

	return &model.SaleModel{
		ID:                data.ID,
		Number:            data.Number,
		Date:              data.Date,
		FarmerID:          data.FarmerID,
		BrokerID:          data.BrokerID,
		Items:             items,
		Subtotal:          data.Subtotal,
		CommissionPercent: data.CommissionPercent,
		CommissionAmount:  data.CommissionAmount,
		TaxAmount:         data.TaxAmount,
		NetAmount:         data.NetAmount,
		PaymentStatus:     string(data.PaymentStatus),
	}
}
