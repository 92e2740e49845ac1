package qrcode

import (
	"bytes"
	"net/url"
	"strings"
	"testing"

	"agrilink/internal/domain/service"

	"github.com/shopspring/decimal"
	qrlib "github.com/skip2/go-qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPaymentURI(t *testing.T) {
	svc := NewQRCodeService(256, "M")

	uri := svc.BuildPaymentURI(service.PaymentRequest{
		PayeeVPA:  "farmer@upi",
		PayeeName: "Ram Kumar",
		Amount:    decimal.NewFromInt(1500),
		Note:      "patti 42",
	})

	require.True(t, strings.HasPrefix(uri, "upi://pay?"))

	params, err := url.ParseQuery(strings.TrimPrefix(uri, "upi://pay?"))
	require.NoError(t, err)
	assert.Equal(t, "farmer@upi", params.Get("pa"))
	assert.Equal(t, "Ram Kumar", params.Get("pn"))
	assert.Equal(t, "1500", params.Get("am"))
	assert.Equal(t, "INR", params.Get("cu"))
	assert.Equal(t, "patti 42", params.Get("tn"))
}

func TestBuildPaymentURI_OmitsEmptyFields(t *testing.T) {
	svc := NewQRCodeService(256, "M")

	uri := svc.BuildPaymentURI(service.PaymentRequest{PayeeVPA: "store@upi"})

	params, err := url.ParseQuery(strings.TrimPrefix(uri, "upi://pay?"))
	require.NoError(t, err)
	assert.Equal(t, "store@upi", params.Get("pa"))
	assert.False(t, params.Has("pn"))
	assert.False(t, params.Has("am"))
	assert.False(t, params.Has("tn"))
}

func TestGeneratePaymentQR(t *testing.T) {
	svc := NewQRCodeService(128, "H")

	png, err := svc.GeneratePaymentQR(service.PaymentRequest{
		PayeeVPA: "broker@upi",
		Amount:   decimal.RequireFromString("2450.50"),
	})
	require.NoError(t, err)
	require.NotEmpty(t, png)

	// PNG magic bytes
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
}

func TestNewQRCodeService_Defaults(t *testing.T) {
	svc := NewQRCodeService(0, "invalid").(*qrcodeService)

	assert.Equal(t, 256, svc.size)
	assert.Equal(t, qrlib.Medium, svc.errorCorrectionLevel)
}
