package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PaymentStatus string
type PaymentMethod string
type OrderStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"

	PaymentMethodRazorpay PaymentMethod = "razorpay"
	PaymentMethodStripe   PaymentMethod = "stripe"
	PaymentMethodCOD      PaymentMethod = "cod"

	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// LineItem is a snapshot of a purchased product. The unit price is captured
// at settlement time and is never re-read from the live catalog.
type LineItem struct {
	ProductID primitive.ObjectID `json:"product_id" bson:"product_id" validate:"required"`
	Name      string             `json:"name" bson:"name"`
	SKU       string             `json:"sku" bson:"sku"`
	Quantity  int                `json:"quantity" bson:"quantity" validate:"required,min=1"`
	UnitPrice float64            `json:"unit_price" bson:"unit_price" validate:"required,min=0"`
	Size      string             `json:"size" bson:"size"`
	Color     string             `json:"color" bson:"color"`
}

// AppliedCoupon snapshots the coupon definition at settlement time so
// historical orders stay correct even if the coupon later changes.
type AppliedCoupon struct {
	CouponID       primitive.ObjectID `json:"coupon_id" bson:"coupon_id"`
	Code           string             `json:"code" bson:"code"`
	Kind           CouponKind         `json:"kind" bson:"kind"`
	Value          float64            `json:"value" bson:"value"`
	DiscountAmount float64            `json:"discount_amount" bson:"discount_amount"`
	AppliedAt      time.Time          `json:"applied_at" bson:"applied_at"`
}

type Order struct {
	ID                     primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID                 primitive.ObjectID `json:"user_id" bson:"user_id" validate:"required"`
	Items                  []LineItem         `json:"items" bson:"items" validate:"required,min=1"`
	Subtotal               float64            `json:"subtotal" bson:"subtotal"`
	ShippingCost           float64            `json:"shipping_cost" bson:"shipping_cost"`
	Tax                    float64            `json:"tax" bson:"tax"`
	AppliedCoupons         []AppliedCoupon    `json:"applied_coupons" bson:"applied_coupons"`
	TotalDiscount          float64            `json:"total_discount" bson:"total_discount" default:"0"`
	Total                  float64            `json:"total" bson:"total"`
	Currency               string             `json:"currency" bson:"currency" default:"INR"`
	PaymentMethod          PaymentMethod      `json:"payment_method" bson:"payment_method" validate:"required"`
	PaymentStatus          PaymentStatus      `json:"payment_status" bson:"payment_status" default:"pending"`
	OrderStatus            OrderStatus        `json:"order_status" bson:"order_status" default:"pending"`
	PaymentConfirmationRef string             `json:"payment_confirmation_ref" bson:"payment_confirmation_ref" validate:"required"`
	ProviderOrderID        string             `json:"provider_order_id" bson:"provider_order_id"`
	ShippingAddress        Address            `json:"shipping_address" bson:"shipping_address"`
	CreatedAt              time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt              time.Time          `json:"updated_at" bson:"updated_at"`
}
