// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"agrilink/config"
	deliverycontext "agrilink/internal/delivery/context"
	"agrilink/internal/domain/entity"
	domainerrors "agrilink/internal/domain/errors"
	"agrilink/internal/domain/ledger"
	"agrilink/internal/domain/repository"
	"agrilink/internal/domain/service"
	"agrilink/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
)

// ledgerService implements the LedgerUsecase interface.
type ledgerService struct {
	txManager       repository.TransactionManager
	userRepo        repository.UserRepository
	profileRepo     repository.ProfileRepository
	ledgerRepo      repository.LedgerRepository
	eventPublisher  service.EventPublisher
	notifier        service.NotificationService
	qrService       service.QRCodeService
	displayLocation *time.Location
	logger          *slog.Logger
}

// LedgerServiceParams holds dependencies for LedgerService, injected by Fx.
type LedgerServiceParams struct {
	fx.In

	TxManager      repository.TransactionManager
	UserRepo       repository.UserRepository
	ProfileRepo    repository.ProfileRepository
	LedgerRepo     repository.LedgerRepository
	EventPublisher service.EventPublisher
	Notifier       service.NotificationService
	QRService      service.QRCodeService
	Config         *config.Config
	Logger         *slog.Logger
}

// NewLedgerService is the constructor for ledgerService.
func NewLedgerService(params LedgerServiceParams) usecase.LedgerUsecase {
	location := time.UTC
	if params.Config != nil && params.Config.Ledger != nil && params.Config.Ledger.DisplayTimezone != "" {
		loaded, err := time.LoadLocation(params.Config.Ledger.DisplayTimezone)
		if err != nil {
			params.Logger.Warn("Invalid display timezone, falling back to UTC",
				slog.String("timezone", params.Config.Ledger.DisplayTimezone), slog.Any("error", err))
		} else {
			location = loaded
		}
	}

	return &ledgerService{
		txManager:       params.TxManager,
		userRepo:        params.UserRepo,
		profileRepo:     params.ProfileRepo,
		ledgerRepo:      params.LedgerRepo,
		eventPublisher:  params.EventPublisher,
		notifier:        params.Notifier,
		qrService:       params.QRService,
		displayLocation: location,
		logger:          params.Logger,
	}
}

func (srv *ledgerService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// buildLineItems derives the stored line items from the input rows. Line
// totals round to whole currency units before tax is added back on.
func buildLineItems(inputs []usecase.LineItemInput) ([]entity.LineItem, decimal.Decimal, decimal.Decimal) {
	items := make([]entity.LineItem, 0, len(inputs))
	subtotal := decimal.Zero
	taxTotal := decimal.Zero
	for _, in := range inputs {
		gross := ledger.RoundCurrency(in.Quantity.Mul(in.UnitPrice))
		items = append(items, entity.LineItem{
			Name:      in.Name,
			Quantity:  in.Quantity,
			Unit:      in.Unit,
			UnitPrice: in.UnitPrice,
			TaxAmount: in.TaxAmount,
			LineTotal: gross.Add(in.TaxAmount),
		})
		subtotal = subtotal.Add(gross)
		taxTotal = taxTotal.Add(in.TaxAmount)
	}

	return items, subtotal, taxTotal
}

func generateNumber(prefix string) string {
	return prefix + "-" + strings.ToUpper(uuid.New().String()[:8])
}

// RecordPurchase persists a farmer's purchase from an agri store and fans
// out the recorded event.
func (srv *ledgerService) RecordPurchase(ctx context.Context, input usecase.RecordPurchaseInput) (*entity.Purchase, error) {
	if len(input.Items) == 0 {
		return nil, errors.Wrap(domainerrors.ErrEmptyTransaction, "purchase requires at least one line item")
	}
	if input.FarmerID == uuid.Nil || input.StoreID == uuid.Nil {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "purchase requires farmer and store")
	}

	items, subtotal, gstTotal := buildLineItems(input.Items)

	purchase := &entity.Purchase{
		Number:        input.Number,
		Date:          input.Date,
		FarmerID:      input.FarmerID,
		StoreID:       input.StoreID,
		Items:         items,
		Subtotal:      subtotal,
		GSTTotal:      gstTotal,
		GrandTotal:    subtotal.Add(gstTotal),
		PaymentMethod: input.PaymentMethod,
	}
	if purchase.Number == "" {
		purchase.Number = generateNumber("BILL")
	}
	if purchase.Date.IsZero() {
		purchase.Date = time.Now()
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		return errors.Wrap(repoFactory.NewLedgerRepository().CreatePurchase(ctx, purchase), "failed to create purchase")
	})
	if err != nil {
		srv.log(ctx).Error("Failed to execute purchase transaction", slog.Any("farmerID", input.FarmerID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute purchase transaction")
	}

	srv.fanOutRecorded(ctx, ledger.KindPurchase, purchase.ID, purchase.Number,
		purchase.FarmerID, purchase.StoreID, entity.RoleStoreOwner, purchase.GrandTotal, purchase.Date)

	return purchase, nil
}

// RecordSale persists a farmer's sale through a broker. Commission and net
// amount are derived here, never trusted from the client.
func (srv *ledgerService) RecordSale(ctx context.Context, input usecase.RecordSaleInput) (*entity.Sale, error) {
	if len(input.Items) == 0 {
		return nil, errors.Wrap(domainerrors.ErrEmptyTransaction, "sale requires at least one line item")
	}
	if input.FarmerID == uuid.Nil || input.BrokerID == uuid.Nil {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "sale requires farmer and broker")
	}
	if input.CommissionPercent.IsNegative() {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "commission percent cannot be negative")
	}

	status := input.PaymentStatus
	if status == "" {
		status = entity.PaymentStatusPending
	}
	if !status.IsValid() {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "invalid payment status")
	}

	items, subtotal, taxTotal := buildLineItems(input.Items)
	commission := ledger.Percent(subtotal, input.CommissionPercent)

	sale := &entity.Sale{
		Number:            input.Number,
		Date:              input.Date,
		FarmerID:          input.FarmerID,
		BrokerID:          input.BrokerID,
		Items:             items,
		Subtotal:          subtotal,
		CommissionPercent: input.CommissionPercent,
		CommissionAmount:  commission,
		TaxAmount:         taxTotal,
		NetAmount:         subtotal.Sub(commission).Sub(taxTotal),
		PaymentStatus:     status,
	}
	if sale.Number == "" {
		sale.Number = generateNumber("PATTI")
	}
	if sale.Date.IsZero() {
		sale.Date = time.Now()
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		return errors.Wrap(repoFactory.NewLedgerRepository().CreateSale(ctx, sale), "failed to create sale")
	})
	if err != nil {
		srv.log(ctx).Error("Failed to execute sale transaction", slog.Any("farmerID", input.FarmerID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute sale transaction")
	}

	srv.fanOutRecorded(ctx, ledger.KindSale, sale.ID, sale.Number,
		sale.FarmerID, sale.BrokerID, entity.RoleBroker, sale.NetAmount, sale.Date)

	return sale, nil
}

// fanOutRecorded publishes the ledger event and pushes a notification to the
// partner. Both are best effort; the entry is already committed.
func (srv *ledgerService) fanOutRecorded(ctx context.Context, kind ledger.Kind, id uuid.UUID, number string,
	farmerID, partnerID uuid.UUID, partnerRole entity.Role, amount decimal.Decimal, date time.Time,
) {
	event := &service.TransactionEvent{
		RequestID:   deliverycontext.GetRequestIDFromContext(ctx),
		EntryID:     id.String(),
		Kind:        string(kind),
		Number:      number,
		FarmerID:    farmerID.String(),
		PartnerID:   partnerID.String(),
		PartnerRole: string(partnerRole),
		Amount:      amount.String(),
		Date:        date.Format(time.RFC3339),
	}
	if err := srv.eventPublisher.PublishTransactionEvent(ctx, event); err != nil {
		srv.log(ctx).Warn("Failed to publish transaction event", slog.String("entryID", event.EntryID), slog.Any("error", err))
	}

	partner, err := srv.userRepo.FindByID(ctx, partnerID)
	if err != nil || partner.FCMToken == "" {
		return
	}

	title := "New purchase recorded"
	if kind == ledger.KindSale {
		title = "New sale recorded"
	}
	data := map[string]string{"entry_id": event.EntryID, "kind": event.Kind, "number": number}
	if err := srv.notifier.SendSingleNotification(ctx, partner.FCMToken, title, number+" for "+amount.String(), data); err != nil {
		srv.log(ctx).Warn("Failed to send transaction notification", slog.Any("partnerID", partnerID), slog.Any("error", err))
	}
}

// GetDashboard builds the viewer-scoped rollup. The viewer's role decides
// which entries they see and which side of each entry is the counterparty.
func (srv *ledgerService) GetDashboard(ctx context.Context, viewerID uuid.UUID, filter usecase.DashboardFilter) (*usecase.DashboardOutput, error) {
	viewer, err := srv.userRepo.FindByID(ctx, viewerID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.Wrap(domainerrors.ErrUserNotFound, "viewer not found")
		}

		return nil, errors.Wrap(err, "failed to load dashboard viewer")
	}

	txns, err := srv.loadViewerTransactions(ctx, viewer)
	if err != nil {
		return nil, err
	}

	if err := srv.resolveCounterparties(ctx, txns); err != nil {
		return nil, err
	}

	month := filter.Month
	if month < 0 || month > 11 {
		month = ledger.MonthAll
	}
	filtered, err := ledger.Filter(txns, ledger.Predicate{
		Month:    month,
		Category: filter.Category,
		Search:   filter.Search,
		Location: srv.displayLocation,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to filter transactions")
	}

	totals, err := ledger.SumTotals(filtered)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sum transactions")
	}

	summaryMap, err := ledger.AggregateCounterparties(filtered)
	if err != nil {
		return nil, errors.Wrap(err, "failed to aggregate counterparties")
	}

	summaries := make([]*ledger.CounterpartySummary, 0, len(summaryMap))
	for _, summary := range summaryMap {
		summaries = append(summaries, summary)
	}
	sort.Slice(summaries, func(i, j int) bool {
		if !summaries[i].TotalAmount.Equal(summaries[j].TotalAmount) {
			return summaries[i].TotalAmount.GreaterThan(summaries[j].TotalAmount)
		}

		return summaries[i].Name < summaries[j].Name
	})

	return &usecase.DashboardOutput{
		Totals:         totals,
		Transactions:   filtered,
		Counterparties: summaries,
	}, nil
}

// loadViewerTransactions lists the ledger entries visible to the viewer and
// converts them into viewpoint transactions.
func (srv *ledgerService) loadViewerTransactions(ctx context.Context, viewer *entity.User) ([]ledger.Transaction, error) {
	txns := make([]ledger.Transaction, 0)

	switch viewer.UserType {
	case entity.RoleFarmer:
		purchases, err := srv.ledgerRepo.ListPurchasesByFarmer(ctx, viewer.ID)
		if err != nil {
			return nil, errors.Wrap(err, "failed to list farmer purchases")
		}
		for _, p := range purchases {
			txns = append(txns, ledger.PurchaseView(p, entity.RoleFarmer))
		}

		sales, err := srv.ledgerRepo.ListSalesByFarmer(ctx, viewer.ID)
		if err != nil {
			return nil, errors.Wrap(err, "failed to list farmer sales")
		}
		for _, s := range sales {
			txns = append(txns, ledger.SaleView(s, entity.RoleFarmer))
		}
	case entity.RoleStoreOwner:
		purchases, err := srv.ledgerRepo.ListPurchasesByStore(ctx, viewer.ID)
		if err != nil {
			return nil, errors.Wrap(err, "failed to list store purchases")
		}
		for _, p := range purchases {
			txns = append(txns, ledger.PurchaseView(p, entity.RoleStoreOwner))
		}
	case entity.RoleBroker:
		sales, err := srv.ledgerRepo.ListSalesByBroker(ctx, viewer.ID)
		if err != nil {
			return nil, errors.Wrap(err, "failed to list broker sales")
		}
		for _, s := range sales {
			txns = append(txns, ledger.SaleView(s, entity.RoleBroker))
		}
	default:
		return nil, errors.Wrap(domainerrors.ErrForbidden, "role has no ledger dashboard")
	}

	return txns, nil
}

// resolveCounterparties fills in names and locations. A missing user leaves
// the name empty so the aggregation substitutes its placeholder.
func (srv *ledgerService) resolveCounterparties(ctx context.Context, txns []ledger.Transaction) error {
	idsByRole := make(map[entity.Role][]uuid.UUID)
	seen := make(map[uuid.UUID]struct{})
	for i := range txns {
		if _, ok := seen[txns[i].CounterpartyID]; ok {
			continue
		}
		seen[txns[i].CounterpartyID] = struct{}{}
		idsByRole[txns[i].CounterpartyRole] = append(idsByRole[txns[i].CounterpartyRole], txns[i].CounterpartyID)
	}

	allIDs := make([]uuid.UUID, 0, len(seen))
	for id := range seen {
		allIDs = append(allIDs, id)
	}
	if len(allIDs) == 0 {
		return nil
	}

	users, err := srv.userRepo.FindByIDs(ctx, allIDs)
	if err != nil {
		return errors.Wrap(err, "failed to resolve counterparty users")
	}

	locations := make(map[uuid.UUID]string)
	for role, ids := range idsByRole {
		roleLocations, locErr := srv.profileRepo.FindLocations(ctx, role, ids)
		if locErr != nil {
			srv.log(ctx).Warn("Failed to resolve counterparty locations", slog.Any("role", role), slog.Any("error", locErr))

			continue
		}
		for id, loc := range roleLocations {
			locations[id] = loc
		}
	}

	for i := range txns {
		if user, ok := users[txns[i].CounterpartyID]; ok {
			txns[i].CounterpartyName = user.FullName
		}
		txns[i].CounterpartyLocation = locations[txns[i].CounterpartyID]
	}

	return nil
}

// GetPaymentQR renders a UPI payment QR code for a collect request.
func (srv *ledgerService) GetPaymentQR(ctx context.Context, input usecase.PaymentQRInput) (*usecase.PaymentQROutput, error) {
	if input.PayeeVPA == "" {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "payee VPA is required")
	}
	if !input.Amount.IsPositive() {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed, "amount must be positive")
	}

	req := service.PaymentRequest{
		PayeeVPA:  input.PayeeVPA,
		PayeeName: input.PayeeName,
		Amount:    ledger.RoundCurrency(input.Amount),
		Note:      input.Note,
	}

	png, err := srv.qrService.GeneratePaymentQR(req)
	if err != nil {
		srv.log(ctx).Error("Failed to generate payment QR", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to generate payment QR")
	}

	return &usecase.PaymentQROutput{PNG: png, URI: srv.qrService.BuildPaymentURI(req)}, nil
}

// QuoteCart normalizes the cart and computes its price breakdown.
func (srv *ledgerService) QuoteCart(_ context.Context, cart ledger.Cart) (*ledger.CartTotals, error) {
	cart.Normalize()
	totals := ledger.ComputeCartTotal(cart)

	return &totals, nil
}
