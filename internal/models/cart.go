package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CartItem struct {
	ProductID primitive.ObjectID `json:"product_id" bson:"product_id" validate:"required"`
	Quantity  int                `json:"quantity" bson:"quantity" validate:"required,min=1"`
	Size      string             `json:"size" bson:"size"`
	Color     string             `json:"color" bson:"color"`
}

// Cart accumulates items until settlement consumes it. Either UserID or
// SessionKey identifies the owner; guest carts only carry a session key.
type Cart struct {
	ID         primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	UserID     *primitive.ObjectID `json:"user_id" bson:"user_id,omitempty"`
	SessionKey string              `json:"session_key" bson:"session_key,omitempty"`
	Items      []CartItem          `json:"items" bson:"items"`
	Total      float64             `json:"total" bson:"total" default:"0"`
	CreatedAt  time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at" bson:"updated_at"`
}

func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Items) == 0
}
