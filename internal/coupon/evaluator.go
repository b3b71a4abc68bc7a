// Package coupon evaluates coupon applicability and discount amounts.
// Evaluation is pure: it reads a coupon definition, an order subtotal, and
// the user's prior usage, and never touches a store. Recording usage is the
// settlement transaction's job, after its commit.
package coupon

import (
	"time"

	"goshop/internal/models"
	"goshop/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Reason explains why a coupon is not applicable.
type Reason string

const (
	ReasonNotFound         Reason = "coupon_not_found"
	ReasonInactive         Reason = "coupon_inactive"
	ReasonExpired          Reason = "coupon_expired"
	ReasonMinPurchase      Reason = "min_purchase_not_met"
	ReasonGlobalLimit      Reason = "global_usage_limit_reached"
	ReasonPerUserLimit     Reason = "per_user_limit_reached"
	ReasonNotInAllowList   Reason = "user_not_in_allow_list"
	ReasonInDenyList       Reason = "user_in_deny_list"
	ReasonInvalidKind      Reason = "invalid_coupon_kind"
)

// Evaluation is the verdict for a single coupon against a subtotal.
type Evaluation struct {
	Applicable     bool
	Reason         Reason
	DiscountAmount float64
}

func reject(reason Reason) Evaluation {
	return Evaluation{Applicable: false, Reason: reason}
}

// Evaluate decides whether the coupon applies to an order with the given
// subtotal for the given user, and computes the discount when it does.
//
// The expiry boundary is strict: a coupon evaluated exactly at its expiry
// instant is still valid; only now > expiry rejects.
func Evaluate(c *models.Coupon, subtotal float64, userID primitive.ObjectID, priorRedemptions int, now time.Time) Evaluation {
	if !c.IsActive {
		return reject(ReasonInactive)
	}

	if now.After(c.ExpiresAt) {
		return reject(ReasonExpired)
	}

	if subtotal < c.MinPurchaseAmount {
		return reject(ReasonMinPurchase)
	}

	if c.GlobalUsageLimit > 0 && c.UsedCount >= c.GlobalUsageLimit {
		return reject(ReasonGlobalLimit)
	}

	perUserLimit := c.PerUserUsageLimit
	if perUserLimit <= 0 {
		perUserLimit = 1
	}
	if priorRedemptions >= perUserLimit {
		return reject(ReasonPerUserLimit)
	}

	switch c.Audience {
	case models.CouponAudienceAllowList:
		if !c.HasUser(userID) {
			return reject(ReasonNotInAllowList)
		}
	case models.CouponAudienceDenyList:
		if c.HasUser(userID) {
			return reject(ReasonInDenyList)
		}
	}

	discount, ok := computeDiscount(c, subtotal)
	if !ok {
		return reject(ReasonInvalidKind)
	}

	return Evaluation{Applicable: true, DiscountAmount: discount}
}

// computeDiscount returns the raw discount for an applicable coupon, already
// clamped so it can never exceed the subtotal.
func computeDiscount(c *models.Coupon, subtotal float64) (float64, bool) {
	var discount float64

	switch c.Kind {
	case models.CouponKindFlat:
		discount = c.Value
	case models.CouponKindPercentage:
		discount = utils.CalculateDiscount(subtotal, c.Value, c.MaxDiscountAmount)
	default:
		return 0, false
	}

	if discount > subtotal {
		discount = subtotal
	}
	if discount < 0 {
		discount = 0
	}

	return discount, true
}

// CombineDiscounts sums stacked discounts and clamps the combined figure to
// the subtotal, so stacked coupons can never drive an order total negative.
func CombineDiscounts(subtotal float64, discounts []float64) float64 {
	var total float64
	for _, d := range discounts {
		total += d
	}

	if total > subtotal {
		total = subtotal
	}
	if total < 0 {
		total = 0
	}

	return total
}
