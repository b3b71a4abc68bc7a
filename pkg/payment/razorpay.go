package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/razorpay/razorpay-go"
)

type RazorpayProvider struct {
	client        *razorpay.Client
	keySecret     string
	webhookSecret string
}

func NewRazorpayProvider(keyID, keySecret, webhookSecret string, verifyTimeout time.Duration) *RazorpayProvider {
	client := razorpay.NewClient(keyID, keySecret)

	// The SDK has no context plumbing, so the verification deadline is set
	// on the client itself. SetTimeout takes whole seconds; round up so a
	// sub-second config still gets a non-zero bound.
	if verifyTimeout > 0 {
		secs := (verifyTimeout + time.Second - 1) / time.Second
		if secs < 1 {
			secs = 1
		}
		client.SetTimeout(int16(secs))
	}

	return &RazorpayProvider{
		client:        client,
		keySecret:     keySecret,
		webhookSecret: webhookSecret,
	}
}

func (r *RazorpayProvider) Name() string {
	return "razorpay"
}

// VerifyConfirmationSignature recomputes the checkout signature the provider
// sends back to the client: HMAC-SHA256 over "orderID|paymentID" keyed with
// the key secret. Comparison is constant time.
func (r *RazorpayProvider) VerifyConfirmationSignature(conf *Confirmation) bool {
	if conf == nil || conf.ProviderOrderID == "" || conf.ProviderPaymentID == "" || conf.ProviderSignature == "" {
		return false
	}

	payload := conf.ProviderOrderID + "|" + conf.ProviderPaymentID
	expected := computeHMAC(payload, r.keySecret)

	return hmac.Equal([]byte(conf.ProviderSignature), []byte(expected))
}

// FetchPayment retrieves the provider's record of a payment. The SDK cannot
// carry the caller's context, so the deadline configured on the client bounds
// the call instead; a timed-out fetch returns an error and the payment stays
// unverified.
func (r *RazorpayProvider) FetchPayment(ctx context.Context, paymentID string) (*Payment, error) {
	data, err := r.client.Payment.Fetch(paymentID, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payment: %w", err)
	}

	payment := &Payment{
		ID:          asString(data["id"]),
		OrderID:     asString(data["order_id"]),
		Status:      CaptureStatus(asString(data["status"])),
		AmountMinor: asInt64(data["amount"]),
		Currency:    asString(data["currency"]),
		Method:      asString(data["method"]),
	}

	if payment.ID == "" {
		return nil, fmt.Errorf("provider returned payment without id")
	}

	return payment, nil
}

func (r *RazorpayProvider) VerifyWebhookSignature(payload []byte, signature string) bool {
	expected := computeHMAC(string(payload), r.webhookSecret)
	return hmac.Equal([]byte(signature), []byte(expected))
}

func computeHMAC(payload, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(payload))
	return hex.EncodeToString(h.Sum(nil))
}

// The razorpay client decodes JSON into map[string]interface{}; numbers come
// back as float64 and the SDK occasionally returns ints for cached entities.
func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func asInt64(v interface{}) int64 {
	switch n := v.(type) {
	case float64:
		return int64(n)
	case int64:
		return n
	case int:
		return int64(n)
	default:
		return 0
	}
}
