package mongodb

import (
	"context"
	"fmt"
	"time"

	"goshop/internal/models"
	"goshop/internal/repositories/interfaces"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type cartRepository struct {
	collection *mongo.Collection
}

func NewCartRepository(db *mongo.Database) interfaces.CartRepository {
	return &cartRepository{
		collection: db.Collection("carts"),
	}
}

// Owner lookups
func (r *cartRepository) GetByUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	var cart models.Cart
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&cart)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, interfaces.ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	return &cart, nil
}

func (r *cartRepository) GetBySessionKey(ctx context.Context, sessionKey string) (*models.Cart, error) {
	var cart models.Cart
	err := r.collection.FindOne(ctx, bson.M{"session_key": sessionKey}).Decode(&cart)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, interfaces.ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to get cart by session key: %w", err)
	}

	return &cart, nil
}

// Mutations
func (r *cartRepository) Save(ctx context.Context, cart *models.Cart) error {
	now := time.Now()
	cart.UpdatedAt = now

	var filter bson.M
	switch {
	case cart.UserID != nil:
		filter = bson.M{"user_id": *cart.UserID}
	case cart.SessionKey != "":
		filter = bson.M{"session_key": cart.SessionKey}
	default:
		return fmt.Errorf("cart has no owner")
	}

	// Upserts copy the filter's equality fields into the new document, so
	// the owner key never needs to appear in the update itself.
	update := bson.M{
		"$set": bson.M{
			"items":      cart.Items,
			"total":      cart.Total,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{
			"created_at": now,
		},
	}

	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}

	return nil
}

func (r *cartRepository) Clear(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"items":      []models.CartItem{},
			"total":      0.0,
			"updated_at": time.Now(),
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	return nil
}
