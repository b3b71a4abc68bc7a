package mongodb

import (
	"context"
	"fmt"
	"time"

	"goshop/internal/models"
	"goshop/internal/repositories/interfaces"
	"goshop/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type orderRepository struct {
	collection *mongo.Collection
	cache      CacheService
}

func NewOrderRepository(db *mongo.Database, cache CacheService) interfaces.OrderRepository {
	return &orderRepository{
		collection: db.Collection("orders"),
		cache:      cache,
	}
}

// Basic CRUD operations
func (r *orderRepository) Create(ctx context.Context, order *models.Order) error {
	order.ID = primitive.NewObjectID()
	order.CreatedAt = time.Now()
	order.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, order)
	if err != nil {
		// The unique index on payment_confirmation_ref rejects a second
		// order for the same payment. Callers treat this as "already
		// settled", not as a failure.
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", interfaces.ErrDuplicatePaymentRef, order.PaymentConfirmationRef)
		}
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.cacheOrder(ctx, order)

	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	cacheKey := fmt.Sprintf("order_%s", id.Hex())
	if r.cache != nil {
		var order models.Order
		if err := r.cache.Get(ctx, cacheKey, &order); err == nil {
			return &order, nil
		}
	}

	var order models.Order
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, interfaces.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	r.cacheOrder(ctx, &order)

	return &order, nil
}

func (r *orderRepository) GetByUser(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Order, int64, error) {
	filter := bson.M{"user_id": userID}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	cursor, err := r.collection.Find(ctx, filter, params.GetSortOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	defer cursor.Close(ctx)

	var orders []*models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, 0, fmt.Errorf("failed to decode orders: %w", err)
	}

	return orders, total, nil
}

// Idempotency lookups
func (r *orderRepository) GetByPaymentRef(ctx context.Context, paymentRef string) (*models.Order, error) {
	var order models.Order
	err := r.collection.FindOne(ctx, bson.M{"payment_confirmation_ref": paymentRef}).Decode(&order)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, interfaces.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order by payment ref: %w", err)
	}

	return &order, nil
}

// Status operations
func (r *orderRepository) UpdatePaymentStatus(ctx context.Context, id primitive.ObjectID, status models.PaymentStatus) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"payment_status": status,
			"updated_at":     time.Now(),
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}
	if result.MatchedCount == 0 {
		return interfaces.ErrOrderNotFound
	}

	r.invalidateOrderCache(ctx, id)

	return nil
}

func (r *orderRepository) UpdateOrderStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"order_status": status,
			"updated_at":   time.Now(),
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if result.MatchedCount == 0 {
		return interfaces.ErrOrderNotFound
	}

	r.invalidateOrderCache(ctx, id)

	return nil
}

// Helper methods
func (r *orderRepository) cacheOrder(ctx context.Context, order *models.Order) {
	if r.cache == nil {
		return
	}
	cacheKey := fmt.Sprintf("order_%s", order.ID.Hex())
	r.cache.Set(ctx, cacheKey, order, 30*time.Minute)
}

func (r *orderRepository) invalidateOrderCache(ctx context.Context, id primitive.ObjectID) {
	if r.cache == nil {
		return
	}
	r.cache.Delete(ctx, fmt.Sprintf("order_%s", id.Hex()))
}
