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
)

type productRepository struct {
	collection *mongo.Collection
	cache      CacheService
}

func NewProductRepository(db *mongo.Database, cache CacheService) interfaces.ProductRepository {
	return &productRepository{
		collection: db.Collection("products"),
		cache:      cache,
	}
}

// Basic lookups
func (r *productRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var product models.Product
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("product not found")
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return &product, nil
}

func (r *productRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to get products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []*models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	return products, nil
}

// Stock operations

// variantSelector matches the single variant a line item names. Used with
// $elemMatch so the stock guard sits in the document filter, and with the
// positional $ operator so exactly one array element is touched.
func variantSelector(size, color string) bson.M {
	selector := bson.M{}
	if size != "" {
		selector["size"] = size
	}
	if color != "" {
		selector["color"] = color
	}
	return selector
}

// decrementStockQuery builds the conditional reservation update. The
// `stock >= quantity` guard lives in the document filter itself, never in an
// array filter: a sold-out variant must fail the match outright, not fall
// through to a no-op $inc while the sibling $set still modifies the document.
func decrementStockQuery(id primitive.ObjectID, size, color string, quantity int) (filter, update bson.M) {
	if size != "" || color != "" {
		selector := variantSelector(size, color)
		selector["stock"] = bson.M{"$gte": quantity}
		filter = bson.M{
			"_id":      id,
			"status":   models.ProductStatusActive,
			"variants": bson.M{"$elemMatch": selector},
		}
		update = bson.M{
			"$inc": bson.M{"variants.$.stock": -quantity},
			"$set": bson.M{"updated_at": time.Now()},
		}
		return filter, update
	}

	filter = bson.M{
		"_id":    id,
		"status": models.ProductStatusActive,
		"stock":  bson.M{"$gte": quantity},
	}
	update = bson.M{
		"$inc": bson.M{"stock": -quantity},
		"$set": bson.M{"updated_at": time.Now()},
	}
	return filter, update
}

// restoreStockQuery builds the compensating update. It addresses the same
// variant the decrement took from, and only that one.
func restoreStockQuery(id primitive.ObjectID, size, color string, quantity int) (filter, update bson.M) {
	if size != "" || color != "" {
		filter = bson.M{
			"_id":      id,
			"variants": bson.M{"$elemMatch": variantSelector(size, color)},
		}
		update = bson.M{
			"$inc": bson.M{"variants.$.stock": quantity},
			"$set": bson.M{"updated_at": time.Now()},
		}
		return filter, update
	}

	filter = bson.M{"_id": id}
	update = bson.M{
		"$inc": bson.M{"stock": quantity},
		"$set": bson.M{"updated_at": time.Now()},
	}
	return filter, update
}

// DecrementStock reserves stock for a line item. The filter requires enough
// stock to remain, so an oversold item simply fails to match and the method
// reports false.
func (r *productRepository) DecrementStock(ctx context.Context, id primitive.ObjectID, size, color string, quantity int) (bool, error) {
	filter, update := decrementStockQuery(id, size, color, quantity)

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to decrement stock: %w", err)
	}

	// The stock guard is part of the filter, so a match is a reservation.
	return result.MatchedCount == 1, nil
}

func (r *productRepository) RestoreStock(ctx context.Context, id primitive.ObjectID, size, color string, quantity int) error {
	filter, update := restoreStockQuery(id, size, color, quantity)

	if _, err := r.collection.UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("failed to restore stock: %w", err)
	}

	return nil
}
