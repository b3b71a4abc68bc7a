package handlers

import (
	"errors"
	"net/http"

	"goshop/internal/models"
	"goshop/internal/repositories/interfaces"
	"goshop/internal/services"
	"goshop/internal/utils"
	"goshop/internal/validators"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CouponHandler struct {
	couponService services.CouponService
}

func NewCouponHandler(couponService services.CouponService) *CouponHandler {
	return &CouponHandler{
		couponService: couponService,
	}
}

// CreateCoupon creates a new coupon definition (admin only)
func (h *CouponHandler) CreateCoupon(c *gin.Context) {
	var request services.CreateCouponRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if validationErrors := validators.ValidateCouponCreate(&request); len(validationErrors) > 0 {
		details := make(map[string]string, len(validationErrors))
		for _, ve := range validationErrors {
			details[ve.Field] = ve.Message
		}
		utils.ValidationErrorResponse(c, details)
		return
	}

	coupon, err := h.couponService.Create(c.Request.Context(), &request)
	if err != nil {
		var validationErr *services.ValidationError
		if errors.As(err, &validationErr) {
			utils.ErrorResponse(c, http.StatusUnprocessableEntity, "COUPON_VALIDATION_FAILED", validationErr.Message)
			return
		}
		utils.ErrorResponse(c, http.StatusConflict, "COUPON_CREATE_FAILED", err.Error())
		return
	}

	utils.CreatedResponse(c, "Coupon created successfully", coupon)
}

// GetCoupon returns a coupon by id, or by code when the path parameter is
// not a valid object id (admin only)
func (h *CouponHandler) GetCoupon(c *gin.Context) {
	param := c.Param("id")

	var coupon *models.Coupon
	couponID, err := primitive.ObjectIDFromHex(param)
	if err == nil {
		coupon, err = h.couponService.GetByID(c.Request.Context(), couponID)
	} else {
		coupon, err = h.couponService.GetByCode(c.Request.Context(), param)
	}
	if err != nil {
		if errors.Is(err, interfaces.ErrCouponNotFound) {
			utils.NotFoundResponse(c, "Coupon")
			return
		}
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponse(c, "Coupon retrieved successfully", coupon)
}

// ListCoupons returns coupon definitions, paginated (admin only)
func (h *CouponHandler) ListCoupons(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	coupons, total, err := h.couponService.List(c.Request.Context(), params)
	if err != nil {
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponseWithMeta(c, "Coupons retrieved successfully", coupons, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
		Total:      total,
		Count:      len(coupons),
	})
}

// UpdateCoupon applies partial updates to a coupon (admin only)
func (h *CouponHandler) UpdateCoupon(c *gin.Context) {
	couponID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid coupon ID")
		return
	}

	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if err := h.couponService.Update(c.Request.Context(), couponID, updates); err != nil {
		if errors.Is(err, interfaces.ErrCouponNotFound) {
			utils.NotFoundResponse(c, "Coupon")
			return
		}
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponse(c, "Coupon updated successfully", nil)
}

// DeleteCoupon removes a coupon that has never been redeemed (admin only)
func (h *CouponHandler) DeleteCoupon(c *gin.Context) {
	couponID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid coupon ID")
		return
	}

	if err := h.couponService.Delete(c.Request.Context(), couponID); err != nil {
		switch {
		case errors.Is(err, interfaces.ErrCouponNotFound):
			utils.NotFoundResponse(c, "Coupon")
		case errors.Is(err, services.ErrCouponHasHistory):
			utils.ConflictResponse(c, "Coupon has redemption history and cannot be deleted")
		default:
			utils.InternalServerErrorResponse(c)
		}
		return
	}

	utils.SuccessResponse(c, "Coupon deleted successfully", nil)
}
