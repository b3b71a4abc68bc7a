package interfaces

import (
	"context"

	"goshop/internal/models"
	"goshop/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CouponRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, coupon *models.Coupon) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Coupon, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, params *utils.PaginationParams) ([]*models.Coupon, int64, error)

	// Code operations
	GetByCode(ctx context.Context, code string) (*models.Coupon, error)

	// Usage tracking
	CountUserRedemptions(ctx context.Context, couponID, userID primitive.ObjectID) (int64, error)
	IncrementUsage(ctx context.Context, id primitive.ObjectID) (bool, error)
	DecrementUsage(ctx context.Context, id primitive.ObjectID) error
	HasRedemptionHistory(ctx context.Context, id primitive.ObjectID) (bool, error)
}
