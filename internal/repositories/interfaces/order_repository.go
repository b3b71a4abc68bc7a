package interfaces

import (
	"context"
	"errors"

	"goshop/internal/models"
	"goshop/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrDuplicatePaymentRef is returned by Create when an order with the
	// same payment confirmation reference already exists. The unique index
	// on orders.payment_confirmation_ref enforces this at the store level.
	ErrDuplicatePaymentRef = errors.New("order with this payment confirmation reference already exists")

	ErrOrderNotFound  = errors.New("order not found")
	ErrCouponNotFound = errors.New("coupon not found")
	ErrCartNotFound   = errors.New("cart not found")
)

type OrderRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	GetByUser(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Order, int64, error)

	// Idempotency lookups
	GetByPaymentRef(ctx context.Context, paymentRef string) (*models.Order, error)

	// Status operations
	UpdatePaymentStatus(ctx context.Context, id primitive.ObjectID, status models.PaymentStatus) error
	UpdateOrderStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus) error
}
