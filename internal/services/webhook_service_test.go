package services

import (
	"context"
	"fmt"
	"testing"

	"goshop/internal/models"
	"goshop/pkg/logger"
	"goshop/pkg/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type webhookProvider struct {
	fakeProvider
	rejectWebhook bool
}

func (w *webhookProvider) VerifyWebhookSignature(payload []byte, signature string) bool {
	return !w.rejectWebhook
}

func webhookPayload(event, paymentID string) []byte {
	return []byte(fmt.Sprintf(
		`{"event":%q,"payload":{"payment":{"entity":{"id":%q,"order_id":"order_wh1","status":"captured"}}}}`,
		event, paymentID,
	))
}

func newWebhookFixture(t *testing.T) (WebhookService, *fakeOrderRepo, *webhookProvider) {
	t.Helper()

	log, err := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Format: "json", Output: "stderr"})
	require.NoError(t, err)

	provider := &webhookProvider{}
	orderRepo := &fakeOrderRepo{byRef: make(map[string]*models.Order)}
	orderRepo.stash(&models.Order{
		UserID:                 primitive.NewObjectID(),
		PaymentConfirmationRef: "pay_wh1",
		PaymentStatus:          models.PaymentStatusPaid,
		Total:                  1030,
		Currency:               "INR",
	})

	svc := NewWebhookService(orderRepo, map[models.PaymentMethod]payment.Provider{
		models.PaymentMethodRazorpay: provider,
	}, log)

	return svc, orderRepo, provider
}

func TestWebhookMarksPaymentFailed(t *testing.T) {
	svc, orderRepo, _ := newWebhookFixture(t)

	err := svc.HandlePaymentEvent(context.Background(), models.PaymentMethodRazorpay,
		webhookPayload("payment.failed", "pay_wh1"), "sig")
	require.NoError(t, err)

	order, err := orderRepo.GetByPaymentRef(context.Background(), "pay_wh1")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusFailed, order.PaymentStatus)
}

func TestWebhookMarksRefundProcessed(t *testing.T) {
	svc, orderRepo, _ := newWebhookFixture(t)

	err := svc.HandlePaymentEvent(context.Background(), models.PaymentMethodRazorpay,
		webhookPayload("refund.processed", "pay_wh1"), "sig")
	require.NoError(t, err)

	order, _ := orderRepo.GetByPaymentRef(context.Background(), "pay_wh1")
	assert.Equal(t, models.PaymentStatusRefunded, order.PaymentStatus)
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	svc, orderRepo, provider := newWebhookFixture(t)
	provider.rejectWebhook = true

	err := svc.HandlePaymentEvent(context.Background(), models.PaymentMethodRazorpay,
		webhookPayload("payment.failed", "pay_wh1"), "forged")

	assert.ErrorIs(t, err, ErrWebhookSignature)

	order, _ := orderRepo.GetByPaymentRef(context.Background(), "pay_wh1")
	assert.Equal(t, models.PaymentStatusPaid, order.PaymentStatus, "a forged webhook changes nothing")
}

func TestWebhookIgnoresUnknownPayment(t *testing.T) {
	svc, _, _ := newWebhookFixture(t)

	// The settlement may not have committed yet; dropping the event is safe
	// because capture state is fetched from the provider during settlement.
	err := svc.HandlePaymentEvent(context.Background(), models.PaymentMethodRazorpay,
		webhookPayload("payment.captured", "pay_never_seen"), "sig")

	assert.NoError(t, err)
}

func TestWebhookIgnoresUnhandledEvent(t *testing.T) {
	svc, orderRepo, _ := newWebhookFixture(t)

	err := svc.HandlePaymentEvent(context.Background(), models.PaymentMethodRazorpay,
		webhookPayload("payment.authorized", "pay_wh1"), "sig")
	require.NoError(t, err)

	order, _ := orderRepo.GetByPaymentRef(context.Background(), "pay_wh1")
	assert.Equal(t, models.PaymentStatusPaid, order.PaymentStatus)
}

func TestWebhookRepeatedDeliveryIsNoOp(t *testing.T) {
	svc, orderRepo, _ := newWebhookFixture(t)

	payload := webhookPayload("payment.captured", "pay_wh1")
	require.NoError(t, svc.HandlePaymentEvent(context.Background(), models.PaymentMethodRazorpay, payload, "sig"))
	require.NoError(t, svc.HandlePaymentEvent(context.Background(), models.PaymentMethodRazorpay, payload, "sig"))

	order, _ := orderRepo.GetByPaymentRef(context.Background(), "pay_wh1")
	assert.Equal(t, models.PaymentStatusPaid, order.PaymentStatus)
}

func TestWebhookUnconfiguredProvider(t *testing.T) {
	svc, _, _ := newWebhookFixture(t)

	err := svc.HandlePaymentEvent(context.Background(), models.PaymentMethodStripe,
		webhookPayload("payment.failed", "pay_wh1"), "sig")

	assert.Error(t, err)
}
