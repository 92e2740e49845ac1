// Package qrcode renders UPI payment QR codes.
package qrcode

import (
	"fmt"
	"net/url"

	"agrilink/internal/domain/service"

	"github.com/skip2/go-qrcode"
)

type qrcodeService struct {
	size                 int
	errorCorrectionLevel qrcode.RecoveryLevel
}

// NewQRCodeService creates a new QR code service instance
func NewQRCodeService(size int, errorCorrectionLevel string) service.QRCodeService {
	var level qrcode.RecoveryLevel
	switch errorCorrectionLevel {
	case "L":
		level = qrcode.Low
	case "M":
		level = qrcode.Medium
	case "Q":
		level = qrcode.High
	case "H":
		level = qrcode.Highest
	default:
		level = qrcode.Medium
	}

	if size <= 0 {
		size = 256
	}

	return &qrcodeService{
		size:                 size,
		errorCorrectionLevel: level,
	}
}

// BuildPaymentURI returns the upi://pay deep link for the request.
// The format follows the NPCI UPI linking specification.
func (s *qrcodeService) BuildPaymentURI(req service.PaymentRequest) string {
	params := url.Values{}
	params.Set("pa", req.PayeeVPA)
	if req.PayeeName != "" {
		params.Set("pn", req.PayeeName)
	}
	if req.Amount.IsPositive() {
		params.Set("am", req.Amount.String())
	}
	params.Set("cu", "INR")
	if req.Note != "" {
		params.Set("tn", req.Note)
	}

	return "upi://pay?" + params.Encode()
}

// GeneratePaymentQR renders the UPI deep link as a PNG QR code.
func (s *qrcodeService) GeneratePaymentQR(req service.PaymentRequest) ([]byte, error) {
	code, err := qrcode.New(s.BuildPaymentURI(req), s.errorCorrectionLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to create QR code: %w", err)
	}

	pngBytes, err := code.PNG(s.size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PNG: %w", err)
	}

	return pngBytes, nil
}
