package handlers

import (
	"errors"
	"net/http"

	"goshop/internal/services"
	"goshop/internal/utils"
	"goshop/internal/validators"
	"goshop/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CheckoutHandler struct {
	settlementService services.SettlementService
	logger            *logger.Logger
}

func NewCheckoutHandler(settlementService services.SettlementService, log *logger.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		settlementService: settlementService,
		logger:            log,
	}
}

// Settle runs the settlement transaction for the authenticated user's cart.
func (h *CheckoutHandler) Settle(c *gin.Context) {
	var request services.SettlementRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		utils.UnauthorizedResponse(c)
		return
	}
	userObjectID, ok := userID.(primitive.ObjectID)
	if !ok {
		utils.BadRequestResponse(c, "Invalid user ID")
		return
	}
	request.UserID = userObjectID

	if validationErrors := validators.ValidateSettlement(&request); len(validationErrors) > 0 {
		details := make(map[string]string, len(validationErrors))
		for _, ve := range validationErrors {
			details[ve.Field] = ve.Message
		}
		utils.ValidationErrorResponse(c, details)
		return
	}

	order, err := h.settlementService.Settle(c.Request.Context(), &request)
	if err != nil {
		h.respondSettlementError(c, err)
		return
	}

	utils.SuccessResponse(c, "Order settled successfully", order)
}

// respondSettlementError maps the settlement error taxonomy onto HTTP
// responses. Signature and amount failures deliberately collapse into one
// generic message; the detail is already logged server-side.
func (h *CheckoutHandler) respondSettlementError(c *gin.Context, err error) {
	var (
		validationErr *services.ValidationError
		stockErr      *services.StockError
		couponErr     *services.CouponError
		amountErr     *services.AmountMismatchError
		signatureErr  *services.SignatureError
		duplicateErr  *services.DuplicateSettlementError
		transientErr  *services.TransientStoreError
	)

	switch {
	case errors.As(err, &validationErr):
		utils.ErrorResponse(c, http.StatusUnprocessableEntity, "SETTLEMENT_VALIDATION_FAILED", validationErr.Message)
	case errors.As(err, &stockErr):
		utils.ErrorResponse(c, http.StatusConflict, "INSUFFICIENT_STOCK", stockErr.Error())
	case errors.As(err, &couponErr):
		utils.ErrorResponseWithDetails(c, http.StatusUnprocessableEntity, "COUPON_REJECTED", couponErr.Error(), map[string]string{
			"code":   couponErr.Code,
			"reason": string(couponErr.Reason),
		})
	case errors.As(err, &amountErr), errors.As(err, &signatureErr):
		utils.PaymentVerificationFailedResponse(c)
	case errors.As(err, &duplicateErr):
		utils.ConflictResponse(c, "Payment confirmation already settled")
	case errors.Is(err, services.ErrSettlementInProgress):
		utils.ConflictResponse(c, "Settlement already in progress")
	case errors.As(err, &transientErr):
		utils.ErrorResponse(c, http.StatusServiceUnavailable, "SETTLEMENT_UNAVAILABLE", "Settlement temporarily unavailable, please retry")
	default:
		h.logger.WithError(err).Error("Unexpected settlement failure")
		utils.InternalServerErrorResponse(c)
	}
}
