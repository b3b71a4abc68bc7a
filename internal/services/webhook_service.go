package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"goshop/internal/models"
	"goshop/internal/repositories/interfaces"
	"goshop/pkg/logger"
	"goshop/pkg/payment"
)

// ErrWebhookSignature is returned when a webhook payload fails signature
// verification.
var ErrWebhookSignature = errors.New("webhook signature verification failed")

type WebhookService interface {
	// HandlePaymentEvent verifies and applies a provider payment webhook.
	// Events for unknown payments and repeated deliveries are ignored.
	HandlePaymentEvent(ctx context.Context, method models.PaymentMethod, payload []byte, signature string) error
}

type webhookService struct {
	orderRepo interfaces.OrderRepository
	providers map[models.PaymentMethod]payment.Provider
	logger    *logger.Logger
}

func NewWebhookService(
	orderRepo interfaces.OrderRepository,
	providers map[models.PaymentMethod]payment.Provider,
	log *logger.Logger,
) WebhookService {
	return &webhookService{
		orderRepo: orderRepo,
		providers: providers,
		logger:    log,
	}
}

// razorpayWebhookEvent is the subset of the webhook envelope we act on.
type razorpayWebhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
				Status  string `json:"status"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

func (s *webhookService) HandlePaymentEvent(ctx context.Context, method models.PaymentMethod, payload []byte, signature string) error {
	provider, ok := s.providers[method]
	if !ok {
		return fmt.Errorf("no payment provider configured for %s", method)
	}

	if !provider.VerifyWebhookSignature(payload, signature) {
		s.logger.LogSecurityEvent("webhook_signature_mismatch", "high", map[string]interface{}{
			"provider": provider.Name(),
		})
		return ErrWebhookSignature
	}

	var event razorpayWebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("failed to parse webhook payload: %w", err)
	}

	paymentRef := event.Payload.Payment.Entity.ID
	if paymentRef == "" {
		s.logger.WithField("event", event.Event).Debug("Webhook without payment entity ignored")
		return nil
	}

	var status models.PaymentStatus
	switch event.Event {
	case "payment.captured":
		status = models.PaymentStatusPaid
	case "payment.failed":
		status = models.PaymentStatusFailed
	case "refund.processed":
		status = models.PaymentStatusRefunded
	default:
		s.logger.WithField("event", event.Event).Debug("Unhandled webhook event ignored")
		return nil
	}

	order, err := s.orderRepo.GetByPaymentRef(ctx, paymentRef)
	if err != nil {
		if errors.Is(err, interfaces.ErrOrderNotFound) {
			// Webhooks can arrive before the settlement commits; the fetch
			// during settlement covers that window.
			s.logger.WithPaymentRef(paymentRef).WithField("event", event.Event).Info("Webhook for unknown payment ignored")
			return nil
		}
		return err
	}

	if order.PaymentStatus == status {
		return nil
	}

	if err := s.orderRepo.UpdatePaymentStatus(ctx, order.ID, status); err != nil {
		return err
	}

	s.logger.LogPaymentEvent(order.ID, event.Event, order.Total, order.Currency)
	return nil
}
