package payment

import (
	"context"
)

// CaptureStatus is the provider-reported state of a payment. Only captured
// payments may settle an order; an authorized-but-uncaptured payment must not.
type CaptureStatus string

const (
	StatusCreated    CaptureStatus = "created"
	StatusAuthorized CaptureStatus = "authorized"
	StatusCaptured   CaptureStatus = "captured"
	StatusFailed     CaptureStatus = "failed"
	StatusRefunded   CaptureStatus = "refunded"
)

// Confirmation is the client-submitted proof of payment: the provider's order
// id, payment id, and the signature the provider computed over them.
type Confirmation struct {
	ProviderOrderID   string `json:"provider_order_id"`
	ProviderPaymentID string `json:"provider_payment_id"`
	ProviderSignature string `json:"provider_signature"`
}

// Payment is the provider's own record of a payment, fetched server-side.
// AmountMinor is in the currency's smallest denomination.
type Payment struct {
	ID          string        `json:"id"`
	OrderID     string        `json:"order_id"`
	Status      CaptureStatus `json:"status"`
	AmountMinor int64         `json:"amount_minor"`
	Currency    string        `json:"currency"`
	Method      string        `json:"method"`
}

// Provider is the boundary to a payment gateway. Implementations verify
// signatures locally and fetch payment state over the provider's API.
type Provider interface {
	// Name identifies the provider ("razorpay", "stripe").
	Name() string

	// VerifyConfirmationSignature checks the checkout confirmation signature.
	// It never performs network I/O.
	VerifyConfirmationSignature(conf *Confirmation) bool

	// FetchPayment retrieves the provider's record for a payment id.
	FetchPayment(ctx context.Context, paymentID string) (*Payment, error)

	// VerifyWebhookSignature checks the signature on a raw webhook payload.
	VerifyWebhookSignature(payload []byte, signature string) bool
}
