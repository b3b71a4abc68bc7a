package handlers

import (
	"errors"

	"goshop/internal/models"
	"goshop/internal/repositories/interfaces"
	"goshop/internal/services"
	"goshop/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderHandler struct {
	orderService services.OrderService
}

func NewOrderHandler(orderService services.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// GetOrder returns a single order, enforcing ownership
func (h *OrderHandler) GetOrder(c *gin.Context) {
	orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid order ID")
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

	isAdmin := c.GetString("user_type") == string(models.UserTypeAdmin)

	order, err := h.orderService.GetByID(c.Request.Context(), orderID, userObjectID, isAdmin)
	if err != nil {
		switch {
		case errors.Is(err, interfaces.ErrOrderNotFound):
			utils.NotFoundResponse(c, "Order")
		case errors.Is(err, services.ErrOrderAccessDenied):
			utils.ForbiddenResponse(c)
		default:
			utils.InternalServerErrorResponse(c)
		}
		return
	}

	utils.SuccessResponse(c, "Order retrieved successfully", order)
}

// ListOrders returns the authenticated user's orders, paginated
func (h *OrderHandler) ListOrders(c *gin.Context) {
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

	params := utils.GetPaginationParams(c)

	orders, total, err := h.orderService.ListByUser(c.Request.Context(), userObjectID, params)
	if err != nil {
		utils.InternalServerErrorResponse(c)
		return
	}

	utils.SuccessResponseWithMeta(c, "Orders retrieved successfully", orders, &utils.Meta{
		Pagination: utils.CreatePaginationMeta(params, total),
		Total:      total,
		Count:      len(orders),
	})
}
