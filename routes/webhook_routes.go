package routes

import (
	handlers "goshop/internal/handlers/shared"

	"github.com/gin-gonic/gin"
)

// SetupWebhookRoutes sets up provider webhook endpoints. Webhooks carry their
// own signatures, so no auth middleware applies here.
func SetupWebhookRoutes(r *gin.RouterGroup, webhookHandler *handlers.WebhookHandler) {
	webhooks := r.Group("/webhooks")
	{
		webhooks.POST("/razorpay", webhookHandler.RazorpayWebhook)
	}
}
