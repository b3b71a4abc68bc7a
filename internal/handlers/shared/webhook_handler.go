package handlers

import (
	"errors"
	"io"
	"net/http"

	"goshop/internal/models"
	"goshop/internal/services"
	"goshop/internal/utils"
	"goshop/pkg/logger"

	"github.com/gin-gonic/gin"
)

type WebhookHandler struct {
	webhookService services.WebhookService
	logger         *logger.Logger
}

func NewWebhookHandler(webhookService services.WebhookService, log *logger.Logger) *WebhookHandler {
	return &WebhookHandler{
		webhookService: webhookService,
		logger:         log,
	}
}

// RazorpayWebhook receives Razorpay payment events. Signature verification
// uses the raw body, so it is read before any binding.
func (h *WebhookHandler) RazorpayWebhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		utils.BadRequestResponse(c, "Failed to read webhook payload")
		return
	}

	signature := c.GetHeader("X-Razorpay-Signature")
	if signature == "" {
		utils.BadRequestResponse(c, "Missing webhook signature")
		return
	}

	err = h.webhookService.HandlePaymentEvent(c.Request.Context(), models.PaymentMethodRazorpay, payload, signature)
	if err != nil {
		if errors.Is(err, services.ErrWebhookSignature) {
			utils.ErrorResponse(c, http.StatusUnauthorized, "WEBHOOK_SIGNATURE_INVALID", "Webhook signature verification failed")
			return
		}
		h.logger.WithError(err).Error("Webhook processing failed")
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponse(c, "Webhook processed", nil)
}
