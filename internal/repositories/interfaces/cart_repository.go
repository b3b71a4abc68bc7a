package interfaces

import (
	"context"

	"goshop/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CartRepository interface {
	// Owner lookups
	GetByUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error)
	GetBySessionKey(ctx context.Context, sessionKey string) (*models.Cart, error)

	// Mutations
	Save(ctx context.Context, cart *models.Cart) error
	Clear(ctx context.Context, id primitive.ObjectID) error
}
