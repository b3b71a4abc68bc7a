package payment

import (
	"context"
	"crypto/hmac"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

type StripeProvider struct {
	client        *client.API
	secretKey     string
	webhookSecret string
}

func NewStripeProvider(secretKey, webhookSecret string) *StripeProvider {
	sc := &client.API{}
	sc.Init(secretKey, nil)

	return &StripeProvider{
		client:        sc,
		secretKey:     secretKey,
		webhookSecret: webhookSecret,
	}
}

func (s *StripeProvider) Name() string {
	return "stripe"
}

// VerifyConfirmationSignature checks the confirmation the frontend echoes
// back after a PaymentIntent succeeds. Stripe has no canonical checkout
// signature, so the server issues its own: HMAC-SHA256 over
// "orderID|paymentID" keyed with the API secret, handed out when the intent
// is created and required back at settlement.
func (s *StripeProvider) VerifyConfirmationSignature(conf *Confirmation) bool {
	if conf == nil || conf.ProviderOrderID == "" || conf.ProviderPaymentID == "" || conf.ProviderSignature == "" {
		return false
	}

	payload := conf.ProviderOrderID + "|" + conf.ProviderPaymentID
	expected := computeHMAC(payload, s.secretKey)

	return hmac.Equal([]byte(conf.ProviderSignature), []byte(expected))
}

func (s *StripeProvider) FetchPayment(ctx context.Context, paymentID string) (*Payment, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := s.client.PaymentIntents.Get(paymentID, params)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payment intent: %w", err)
	}

	orderID := ""
	if pi.Metadata != nil {
		orderID = pi.Metadata["order_id"]
	}

	return &Payment{
		ID:          pi.ID,
		OrderID:     orderID,
		Status:      mapStripeStatus(pi.Status),
		AmountMinor: pi.AmountReceived,
		Currency:    strings.ToUpper(string(pi.Currency)),
		Method:      "card",
	}, nil
}

func (s *StripeProvider) VerifyWebhookSignature(payload []byte, signature string) bool {
	_, err := webhook.ConstructEvent(payload, signature, s.webhookSecret)
	return err == nil
}

func mapStripeStatus(status stripe.PaymentIntentStatus) CaptureStatus {
	switch status {
	case stripe.PaymentIntentStatusSucceeded:
		return StatusCaptured
	case stripe.PaymentIntentStatusRequiresCapture:
		return StatusAuthorized
	case stripe.PaymentIntentStatusCanceled:
		return StatusFailed
	default:
		return StatusCreated
	}
}
