package payment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stripe/stripe-go/v76"
)

func TestRazorpayVerifyConfirmationSignature(t *testing.T) {
	provider := NewRazorpayProvider("rzp_test_key", "key_secret", "webhook_secret", 5*time.Second)

	conf := &Confirmation{
		ProviderOrderID:   "order_MkL4x1",
		ProviderPaymentID: "pay_MkL5y2",
		ProviderSignature: Sign("order_MkL4x1", "pay_MkL5y2", "key_secret"),
	}

	assert.True(t, provider.VerifyConfirmationSignature(conf))
}

func TestRazorpayRejectsTamperedSignature(t *testing.T) {
	provider := NewRazorpayProvider("rzp_test_key", "key_secret", "webhook_secret", 5*time.Second)

	tests := []struct {
		name string
		conf *Confirmation
	}{
		{
			name: "nil confirmation",
			conf: nil,
		},
		{
			name: "missing signature",
			conf: &Confirmation{ProviderOrderID: "order_1", ProviderPaymentID: "pay_1"},
		},
		{
			name: "signature for a different payment",
			conf: &Confirmation{
				ProviderOrderID:   "order_1",
				ProviderPaymentID: "pay_1",
				ProviderSignature: Sign("order_1", "pay_2", "key_secret"),
			},
		},
		{
			name: "signature keyed with the wrong secret",
			conf: &Confirmation{
				ProviderOrderID:   "order_1",
				ProviderPaymentID: "pay_1",
				ProviderSignature: Sign("order_1", "pay_1", "stolen_secret"),
			},
		},
		{
			name: "order id swapped after signing",
			conf: &Confirmation{
				ProviderOrderID:   "order_2",
				ProviderPaymentID: "pay_1",
				ProviderSignature: Sign("order_1", "pay_1", "key_secret"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, provider.VerifyConfirmationSignature(tt.conf))
		})
	}
}

func TestRazorpayWebhookSignature(t *testing.T) {
	provider := NewRazorpayProvider("rzp_test_key", "key_secret", "webhook_secret", 5*time.Second)

	payload := []byte(`{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_1"}}}}`)
	valid := computeHMAC(string(payload), "webhook_secret")

	assert.True(t, provider.VerifyWebhookSignature(payload, valid))
	assert.False(t, provider.VerifyWebhookSignature(payload, computeHMAC(string(payload), "key_secret")))
	assert.False(t, provider.VerifyWebhookSignature([]byte(`{"event":"payment.failed"}`), valid))
}

func TestStripeVerifyConfirmationSignature(t *testing.T) {
	provider := NewStripeProvider("sk_test_secret", "whsec_test")

	conf := &Confirmation{
		ProviderOrderID:   "cs_live_a1",
		ProviderPaymentID: "pi_3Nk1",
		ProviderSignature: Sign("cs_live_a1", "pi_3Nk1", "sk_test_secret"),
	}

	assert.True(t, provider.VerifyConfirmationSignature(conf))

	conf.ProviderSignature = Sign("cs_live_a1", "pi_3Nk1", "sk_other")
	assert.False(t, provider.VerifyConfirmationSignature(conf))
}

func TestSignIsDeterministic(t *testing.T) {
	a := Sign("order_1", "pay_1", "secret")
	b := Sign("order_1", "pay_1", "secret")

	assert.Equal(t, a, b)
	assert.Len(t, a, 64) // hex-encoded SHA-256
	assert.NotEqual(t, a, Sign("order_1", "pay_1", "other"))
}

func TestVerifyCapturedAmount(t *testing.T) {
	tests := []struct {
		name           string
		provider       int64
		computed       int64
		tolerance      int64
		expectedResult bool
	}{
		{"exact match", 103000, 103000, 1, true},
		{"one minor unit under", 102999, 103000, 1, true},
		{"one minor unit over", 103001, 103000, 1, true},
		{"two minor units off", 103002, 103000, 1, false},
		{"zero tolerance exact", 59000, 59000, 0, true},
		{"zero tolerance off by one", 59001, 59000, 0, false},
		{"short capture", 50000, 103000, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedResult, VerifyCapturedAmount(tt.provider, tt.computed, tt.tolerance))
		})
	}
}

func TestMapStripeStatus(t *testing.T) {
	assert.Equal(t, StatusCaptured, mapStripeStatus(stripe.PaymentIntentStatusSucceeded))
	assert.Equal(t, StatusAuthorized, mapStripeStatus(stripe.PaymentIntentStatusRequiresCapture))
	assert.Equal(t, StatusFailed, mapStripeStatus(stripe.PaymentIntentStatusCanceled))
	assert.Equal(t, StatusCreated, mapStripeStatus(stripe.PaymentIntentStatusProcessing))
}

func TestRazorpayVerifyTimeoutReachesHTTPClient(t *testing.T) {
	// The SDK ships a fixed 10s default and cannot carry a request context,
	// so the configured verification deadline must land on the client.
	provider := NewRazorpayProvider("rzp_test_key", "key_secret", "webhook_secret", 3*time.Second)
	assert.Equal(t, 3*time.Second, provider.client.Request.HTTPClient.Timeout)

	// Sub-second values round up to the SDK's whole-second granularity.
	provider = NewRazorpayProvider("rzp_test_key", "key_secret", "webhook_secret", 500*time.Millisecond)
	assert.Equal(t, time.Second, provider.client.Request.HTTPClient.Timeout)
}

func TestRazorpayResponseCoercion(t *testing.T) {
	assert.Equal(t, "pay_1", asString("pay_1"))
	assert.Equal(t, "", asString(nil))
	assert.Equal(t, int64(103000), asInt64(float64(103000)))
	assert.Equal(t, int64(42), asInt64(42))
	assert.Equal(t, int64(0), asInt64("not a number"))
}
