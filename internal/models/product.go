package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProductStatus string

const (
	ProductStatusActive       ProductStatus = "active"
	ProductStatusInactive     ProductStatus = "inactive"
	ProductStatusOutOfStock   ProductStatus = "out_of_stock"
	ProductStatusDiscontinued ProductStatus = "discontinued"
)

type ProductVariant struct {
	Size  string `json:"size" bson:"size"`
	Color string `json:"color" bson:"color"`
	Stock int    `json:"stock" bson:"stock" default:"0"`
}

type Product struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	CategoryID  primitive.ObjectID `json:"category_id" bson:"category_id"`
	Name        string             `json:"name" bson:"name" validate:"required"`
	SKU         string             `json:"sku" bson:"sku" validate:"required"`
	Description string             `json:"description" bson:"description"`
	Price       float64            `json:"price" bson:"price" validate:"required,min=0"`
	Currency    string             `json:"currency" bson:"currency" default:"INR"`
	Status      ProductStatus      `json:"status" bson:"status" default:"active"`
	Stock       int                `json:"stock" bson:"stock" default:"0"`
	Variants    []ProductVariant   `json:"variants" bson:"variants"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

// IsAvailable reports whether the product can currently be sold in the
// requested variant. A product with no variants is available when it is
// active and has stock.
func (p *Product) IsAvailable(size, color string) bool {
	if p.Status != ProductStatusActive {
		return false
	}

	if len(p.Variants) == 0 {
		return p.Stock > 0
	}

	for _, v := range p.Variants {
		if (size == "" || v.Size == size) && (color == "" || v.Color == color) {
			if v.Stock > 0 {
				return true
			}
		}
	}

	return false
}
