package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CouponKind string
type CouponAudience string

const (
	CouponKindFlat       CouponKind = "flat"
	CouponKindPercentage CouponKind = "percentage"

	CouponAudiencePublic    CouponAudience = "public"
	CouponAudienceAllowList CouponAudience = "allow_list"
	CouponAudienceDenyList  CouponAudience = "deny_list"
)

type Coupon struct {
	ID                primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Code              string               `json:"code" bson:"code" validate:"required"`
	Kind              CouponKind           `json:"kind" bson:"kind" validate:"required"`
	Value             float64              `json:"value" bson:"value" validate:"required,min=0"`
	MinPurchaseAmount float64              `json:"min_purchase_amount" bson:"min_purchase_amount" default:"0"`
	MaxDiscountAmount float64              `json:"max_discount_amount" bson:"max_discount_amount" default:"0"`
	ExpiresAt         time.Time            `json:"expires_at" bson:"expires_at" validate:"required"`
	GlobalUsageLimit  int                  `json:"global_usage_limit" bson:"global_usage_limit" default:"0"`
	PerUserUsageLimit int                  `json:"per_user_usage_limit" bson:"per_user_usage_limit" default:"1"`
	UsedCount         int                  `json:"used_count" bson:"used_count" default:"0"`
	IsActive          bool                 `json:"is_active" bson:"is_active" default:"true"`
	Audience          CouponAudience       `json:"audience" bson:"audience" default:"public"`
	AudienceUsers     []primitive.ObjectID `json:"audience_users" bson:"audience_users"`
	CreatedAt         time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at" bson:"updated_at"`
}

// HasUser reports whether the given user appears in the coupon's audience list.
func (c *Coupon) HasUser(userID primitive.ObjectID) bool {
	for _, id := range c.AudienceUsers {
		if id == userID {
			return true
		}
	}
	return false
}
