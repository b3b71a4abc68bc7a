package mongodb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"goshop/internal/models"
	"goshop/internal/repositories/interfaces"
	"goshop/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type couponRepository struct {
	collection *mongo.Collection
	orders     *mongo.Collection
	cache      CacheService
}

func NewCouponRepository(db *mongo.Database, cache CacheService) interfaces.CouponRepository {
	return &couponRepository{
		collection: db.Collection("coupons"),
		orders:     db.Collection("orders"),
		cache:      cache,
	}
}

// Basic CRUD operations
func (r *couponRepository) Create(ctx context.Context, coupon *models.Coupon) error {
	coupon.ID = primitive.NewObjectID()
	coupon.CreatedAt = time.Now()
	coupon.UpdatedAt = time.Now()

	// Coupon codes are stored uppercase
	coupon.Code = strings.ToUpper(coupon.Code)

	_, err := r.collection.InsertOne(ctx, coupon)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("coupon code %s already exists", coupon.Code)
		}
		return fmt.Errorf("failed to create coupon: %w", err)
	}

	if coupon.IsActive {
		r.cacheCoupon(ctx, coupon)
	}

	return nil
}

func (r *couponRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Coupon, error) {
	var coupon models.Coupon
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&coupon)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, interfaces.ErrCouponNotFound
		}
		return nil, fmt.Errorf("failed to get coupon: %w", err)
	}

	return &coupon, nil
}

func (r *couponRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	if code, exists := updates["code"]; exists {
		if codeStr, ok := code.(string); ok {
			updates["code"] = strings.ToUpper(codeStr)
		}
	}

	coupon, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	_, err = r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": updates},
	)
	if err != nil {
		return fmt.Errorf("failed to update coupon: %w", err)
	}

	r.invalidateCouponCache(ctx, coupon.Code)

	return nil
}

func (r *couponRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	coupon, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	_, err = r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete coupon: %w", err)
	}

	r.invalidateCouponCache(ctx, coupon.Code)

	return nil
}

func (r *couponRepository) List(ctx context.Context, params *utils.PaginationParams) ([]*models.Coupon, int64, error) {
	filter := bson.M{}
	if params.Search != "" {
		filter["code"] = bson.M{"$regex": params.Search, "$options": "i"}
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count coupons: %w", err)
	}

	cursor, err := r.collection.Find(ctx, filter, params.GetSortOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list coupons: %w", err)
	}
	defer cursor.Close(ctx)

	var coupons []*models.Coupon
	if err := cursor.All(ctx, &coupons); err != nil {
		return nil, 0, fmt.Errorf("failed to decode coupons: %w", err)
	}

	return coupons, total, nil
}

// Code operations
func (r *couponRepository) GetByCode(ctx context.Context, code string) (*models.Coupon, error) {
	code = strings.ToUpper(code)

	cacheKey := fmt.Sprintf("coupon_code_%s", code)
	if r.cache != nil {
		var coupon models.Coupon
		if err := r.cache.Get(ctx, cacheKey, &coupon); err == nil {
			return &coupon, nil
		}
	}

	var coupon models.Coupon
	err := r.collection.FindOne(ctx, bson.M{"code": code}).Decode(&coupon)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, interfaces.ErrCouponNotFound
		}
		return nil, fmt.Errorf("failed to get coupon by code: %w", err)
	}

	if coupon.IsActive && r.cache != nil {
		r.cache.Set(ctx, cacheKey, coupon, utils.CouponCacheTTL)
	}

	return &coupon, nil
}

// Usage tracking
func (r *couponRepository) CountUserRedemptions(ctx context.Context, couponID, userID primitive.ObjectID) (int64, error) {
	count, err := r.orders.CountDocuments(ctx, bson.M{
		"user_id":                   userID,
		"applied_coupons.coupon_id": couponID,
		"payment_status":            bson.M{"$ne": models.PaymentStatusRefunded},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count user redemptions: %w", err)
	}

	return count, nil
}

// IncrementUsage bumps used_count only while the global usage limit has
// headroom. It reports false when the limit is already exhausted, which is
// how concurrent redemptions of a nearly-spent coupon are serialized.
func (r *couponRepository) IncrementUsage(ctx context.Context, id primitive.ObjectID) (bool, error) {
	filter := bson.M{
		"_id": id,
		"$or": []bson.M{
			{"global_usage_limit": bson.M{"$lte": 0}},
			{"$expr": bson.M{"$lt": bson.A{"$used_count", "$global_usage_limit"}}},
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, bson.M{
		"$inc": bson.M{"used_count": 1},
		"$set": bson.M{"updated_at": time.Now()},
	})
	if err != nil {
		return false, fmt.Errorf("failed to increment coupon usage: %w", err)
	}

	if result.ModifiedCount == 1 {
		r.invalidateCouponCacheByID(ctx, id)
		return true, nil
	}

	return false, nil
}

// DecrementUsage compensates a reserved redemption when the settlement that
// claimed it does not commit.
func (r *couponRepository) DecrementUsage(ctx context.Context, id primitive.ObjectID) error {
	filter := bson.M{
		"_id":        id,
		"used_count": bson.M{"$gt": 0},
	}

	_, err := r.collection.UpdateOne(ctx, filter, bson.M{
		"$inc": bson.M{"used_count": -1},
		"$set": bson.M{"updated_at": time.Now()},
	})
	if err != nil {
		return fmt.Errorf("failed to decrement coupon usage: %w", err)
	}

	r.invalidateCouponCacheByID(ctx, id)

	return nil
}

func (r *couponRepository) HasRedemptionHistory(ctx context.Context, id primitive.ObjectID) (bool, error) {
	opts := options.Count().SetLimit(1)
	count, err := r.orders.CountDocuments(ctx, bson.M{"applied_coupons.coupon_id": id}, opts)
	if err != nil {
		return false, fmt.Errorf("failed to check redemption history: %w", err)
	}

	return count > 0, nil
}

// Helper methods
func (r *couponRepository) cacheCoupon(ctx context.Context, coupon *models.Coupon) {
	if r.cache == nil {
		return
	}
	cacheKey := fmt.Sprintf("coupon_code_%s", coupon.Code)
	r.cache.Set(ctx, cacheKey, coupon, utils.CouponCacheTTL)
}

func (r *couponRepository) invalidateCouponCache(ctx context.Context, code string) {
	if r.cache == nil {
		return
	}
	r.cache.Delete(ctx, fmt.Sprintf("coupon_code_%s", strings.ToUpper(code)))
}

func (r *couponRepository) invalidateCouponCacheByID(ctx context.Context, id primitive.ObjectID) {
	coupon, err := r.GetByID(ctx, id)
	if err != nil {
		return
	}
	r.invalidateCouponCache(ctx, coupon.Code)
}
