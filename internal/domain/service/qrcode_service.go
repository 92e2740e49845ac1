package service

import (
	"github.com/shopspring/decimal"
)

// PaymentRequest carries the fields encoded into a UPI payment QR.
type PaymentRequest struct {
	PayeeVPA  string          // Virtual payment address, e.g. farmer@upi
	PayeeName string          // Display name shown in the payer's app
	Amount    decimal.Decimal // Whole currency units
	Note      string          // Free-text transaction note
}

// QRCodeService defines the interface for QR code generation services
type QRCodeService interface {
	// GeneratePaymentQR renders a UPI deep link for the request as a PNG QR code
	GeneratePaymentQR(req PaymentRequest) ([]byte, error)

	// BuildPaymentURI returns the upi:// deep link without rendering an image
	BuildPaymentURI(req PaymentRequest) string
}
