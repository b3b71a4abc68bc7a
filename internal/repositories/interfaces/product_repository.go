package interfaces

import (
	"context"

	"goshop/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProductRepository interface {
	// Basic lookups
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*models.Product, error)

	// Stock operations
	DecrementStock(ctx context.Context, id primitive.ObjectID, size, color string, quantity int) (bool, error)
	RestoreStock(ctx context.Context, id primitive.ObjectID, size, color string, quantity int) error
}
