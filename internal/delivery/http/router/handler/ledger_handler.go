package handler

import (
	"encoding/base64"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"agrilink/internal/delivery/http/middleware"
	"agrilink/internal/delivery/http/response"
	"agrilink/internal/domain/entity"
	"agrilink/internal/domain/ledger"
	"agrilink/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// LedgerHandler holds dependencies for commerce ledger handlers.
type LedgerHandler struct {
	ledgerUsecase usecase.LedgerUsecase
	logger        *slog.Logger
}

// NewLedgerHandler is the constructor for LedgerHandler, injected by Fx.
func NewLedgerHandler(ledgerUsecase usecase.LedgerUsecase, logger *slog.Logger) *LedgerHandler {
	return &LedgerHandler{
		ledgerUsecase: ledgerUsecase,
		logger:        logger,
	}
}

// --- Request DTOs ---

type recordPurchaseRequest struct {
	FarmerID      string                  `json:"farmer_id"`
	StoreID       string                  `json:"store_id"`
	Number        string                  `json:"number"`
	Date          time.Time               `json:"date"`
	Items         []usecase.LineItemInput `json:"items" validate:"required,min=1"`
	PaymentMethod string                  `json:"payment_method"`
}

type recordSaleRequest struct {
	FarmerID          string                  `json:"farmer_id"`
	BrokerID          string                  `json:"broker_id"`
	Number            string                  `json:"number"`
	Date              time.Time               `json:"date"`
	Items             []usecase.LineItemInput `json:"items" validate:"required,min=1"`
	CommissionPercent decimal.Decimal         `json:"commission_percent"`
	PaymentStatus     string                  `json:"payment_status"`
}

type paymentQRRequest struct {
	PayeeVPA  string          `json:"payee_vpa" validate:"required"`
	PayeeName string          `json:"payee_name"`
	Amount    decimal.Decimal `json:"amount"`
	Note      string          `json:"note"`
}

type paymentQRResponse struct {
	URI       string `json:"uri"`
	PNGBase64 string `json:"png_base64"`
}

// resolveParty returns the UUID for a request field, defaulting to the
// viewer when the field is empty and the viewer holds the expected role.
func resolveParty(c echo.Context, raw string, expected entity.Role) (uuid.UUID, error) {
	if raw == "" {
		viewer, ok := c.Get(middleware.ContextKeyUserID).(uuid.UUID)
		role, roleOK := c.Get(middleware.ContextKeyRole).(entity.Role)
		if ok && roleOK && role == expected {
			return viewer, nil
		}

		return uuid.Nil, errors.Errorf("%s id is required", expected)
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errors.Wrapf(err, "invalid %s id", expected)
	}

	return id, nil
}

// RecordPurchase records a farmer's purchase from an agri store.
func (h *LedgerHandler) RecordPurchase(c echo.Context) error {
	var req recordPurchaseRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid purchase input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	farmerID, err := resolveParty(c, req.FarmerID, entity.RoleFarmer)
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", err.Error())
	}
	storeID, err := resolveParty(c, req.StoreID, entity.RoleStoreOwner)
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", err.Error())
	}

	purchase, err := h.ledgerUsecase.RecordPurchase(c.Request().Context(), usecase.RecordPurchaseInput{
		FarmerID:      farmerID,
		StoreID:       storeID,
		Number:        req.Number,
		Date:          req.Date,
		Items:         req.Items,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, purchase, "Purchase recorded")
}

// RecordSale records a farmer's sale through a broker.
func (h *LedgerHandler) RecordSale(c echo.Context) error {
	var req recordSaleRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid sale input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	farmerID, err := resolveParty(c, req.FarmerID, entity.RoleFarmer)
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", err.Error())
	}
	brokerID, err := resolveParty(c, req.BrokerID, entity.RoleBroker)
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", err.Error())
	}

	sale, err := h.ledgerUsecase.RecordSale(c.Request().Context(), usecase.RecordSaleInput{
		FarmerID:          farmerID,
		BrokerID:          brokerID,
		Number:            req.Number,
		Date:              req.Date,
		Items:             req.Items,
		CommissionPercent: req.CommissionPercent,
		PaymentStatus:     entity.PaymentStatus(req.PaymentStatus),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, sale, "Sale recorded")
}

// GetDashboard returns the viewer-scoped rollup of transactions,
// counterparty summaries, and headline totals.
func (h *LedgerHandler) GetDashboard(c echo.Context) error {
	viewer, ok := c.Get(middleware.ContextKeyUserID).(uuid.UUID)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid user ID in token")
	}

	month := ledger.MonthAll
	if raw := c.QueryParam("month"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return response.BadRequest(c, "INVALID_INPUT", "month must be an integer")
		}
		month = parsed
	}

	output, err := h.ledgerUsecase.GetDashboard(c.Request().Context(), viewer, usecase.DashboardFilter{
		Month:    month,
		Category: c.QueryParam("category"),
		Search:   c.QueryParam("search"),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "Dashboard retrieved")
}

// GetPaymentQR renders a UPI collect QR code for a settled amount.
func (h *LedgerHandler) GetPaymentQR(c echo.Context) error {
	var req paymentQRRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid payment QR input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.ledgerUsecase.GetPaymentQR(c.Request().Context(), usecase.PaymentQRInput{
		PayeeVPA:  req.PayeeVPA,
		PayeeName: req.PayeeName,
		Amount:    req.Amount,
		Note:      req.Note,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, paymentQRResponse{
		URI:       output.URI,
		PNGBase64: base64.StdEncoding.EncodeToString(output.PNG),
	}, "Payment QR generated")
}

// QuoteCart normalizes a consumer cart and returns its price breakdown.
func (h *LedgerHandler) QuoteCart(c echo.Context) error {
	var cart ledger.Cart
	if err := c.Bind(&cart); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid cart input")
	}

	totals, err := h.ledgerUsecase.QuoteCart(c.Request().Context(), cart)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, totals, "Cart quoted")
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"}, "Service is healthy")
}
