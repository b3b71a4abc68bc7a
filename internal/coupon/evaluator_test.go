package coupon

import (
	"testing"
	"time"

	"goshop/internal/models"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func activeCoupon(kind models.CouponKind, value float64) *models.Coupon {
	return &models.Coupon{
		ID:        primitive.NewObjectID(),
		Code:      "TESTCODE",
		Kind:      kind,
		Value:     value,
		ExpiresAt: time.Now().Add(24 * time.Hour),
		IsActive:  true,
		Audience:  models.CouponAudiencePublic,
	}
}

func TestEvaluateFlatCoupon(t *testing.T) {
	c := activeCoupon(models.CouponKindFlat, 150)
	userID := primitive.NewObjectID()

	eval := Evaluate(c, 1000, userID, 0, time.Now())

	assert.True(t, eval.Applicable)
	assert.Equal(t, 150.0, eval.DiscountAmount)
}

func TestEvaluatePercentageCouponWithCap(t *testing.T) {
	c := activeCoupon(models.CouponKindPercentage, 20)
	c.MaxDiscountAmount = 50
	userID := primitive.NewObjectID()

	eval := Evaluate(c, 500, userID, 0, time.Now())

	assert.True(t, eval.Applicable)
	assert.Equal(t, 50.0, eval.DiscountAmount, "20 percent of 500 is 100, capped at 50")
}

func TestEvaluatePercentageCouponUnderCap(t *testing.T) {
	c := activeCoupon(models.CouponKindPercentage, 10)
	c.MaxDiscountAmount = 500
	userID := primitive.NewObjectID()

	eval := Evaluate(c, 800, userID, 0, time.Now())

	assert.True(t, eval.Applicable)
	assert.Equal(t, 80.0, eval.DiscountAmount)
}

func TestEvaluateFlatDiscountClampedToSubtotal(t *testing.T) {
	c := activeCoupon(models.CouponKindFlat, 500)
	userID := primitive.NewObjectID()

	eval := Evaluate(c, 200, userID, 0, time.Now())

	assert.True(t, eval.Applicable)
	assert.Equal(t, 200.0, eval.DiscountAmount, "discount never exceeds subtotal")
}

func TestEvaluateRejections(t *testing.T) {
	userID := primitive.NewObjectID()
	otherID := primitive.NewObjectID()
	now := time.Now()

	tests := []struct {
		name   string
		mutate func(c *models.Coupon)
		prior  int
		reason Reason
	}{
		{
			name:   "inactive",
			mutate: func(c *models.Coupon) { c.IsActive = false },
			reason: ReasonInactive,
		},
		{
			name:   "expired",
			mutate: func(c *models.Coupon) { c.ExpiresAt = now.Add(-time.Minute) },
			reason: ReasonExpired,
		},
		{
			name:   "min purchase not met",
			mutate: func(c *models.Coupon) { c.MinPurchaseAmount = 2000 },
			reason: ReasonMinPurchase,
		},
		{
			name: "global limit reached",
			mutate: func(c *models.Coupon) {
				c.GlobalUsageLimit = 5
				c.UsedCount = 5
			},
			reason: ReasonGlobalLimit,
		},
		{
			name:   "per-user limit defaults to one",
			mutate: func(c *models.Coupon) {},
			prior:  1,
			reason: ReasonPerUserLimit,
		},
		{
			name: "per-user limit explicit",
			mutate: func(c *models.Coupon) {
				c.PerUserUsageLimit = 3
			},
			prior:  3,
			reason: ReasonPerUserLimit,
		},
		{
			name: "not in allow list",
			mutate: func(c *models.Coupon) {
				c.Audience = models.CouponAudienceAllowList
				c.AudienceUsers = []primitive.ObjectID{otherID}
			},
			reason: ReasonNotInAllowList,
		},
		{
			name: "in deny list",
			mutate: func(c *models.Coupon) {
				c.Audience = models.CouponAudienceDenyList
				c.AudienceUsers = []primitive.ObjectID{userID}
			},
			reason: ReasonInDenyList,
		},
		{
			name:   "unknown kind",
			mutate: func(c *models.Coupon) { c.Kind = "bogus" },
			reason: ReasonInvalidKind,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := activeCoupon(models.CouponKindFlat, 100)
			tt.mutate(c)

			eval := Evaluate(c, 1000, userID, tt.prior, now)

			assert.False(t, eval.Applicable)
			assert.Equal(t, tt.reason, eval.Reason)
			assert.Zero(t, eval.DiscountAmount)
		})
	}
}

func TestEvaluateExpiryBoundary(t *testing.T) {
	userID := primitive.NewObjectID()
	expiry := time.Now().Truncate(time.Second)

	c := activeCoupon(models.CouponKindFlat, 10)
	c.ExpiresAt = expiry

	// Exactly at the expiry instant the coupon is still valid.
	atExpiry := Evaluate(c, 1000, userID, 0, expiry)
	assert.True(t, atExpiry.Applicable)

	afterExpiry := Evaluate(c, 1000, userID, 0, expiry.Add(time.Nanosecond))
	assert.False(t, afterExpiry.Applicable)
	assert.Equal(t, ReasonExpired, afterExpiry.Reason)
}

func TestEvaluateAllowListMember(t *testing.T) {
	userID := primitive.NewObjectID()

	c := activeCoupon(models.CouponKindFlat, 25)
	c.Audience = models.CouponAudienceAllowList
	c.AudienceUsers = []primitive.ObjectID{userID}

	eval := Evaluate(c, 300, userID, 0, time.Now())

	assert.True(t, eval.Applicable)
	assert.Equal(t, 25.0, eval.DiscountAmount)
}

func TestEvaluateUnlimitedGlobalUsage(t *testing.T) {
	c := activeCoupon(models.CouponKindFlat, 10)
	c.GlobalUsageLimit = 0
	c.UsedCount = 100000

	eval := Evaluate(c, 1000, primitive.NewObjectID(), 0, time.Now())

	assert.True(t, eval.Applicable)
}

func TestCombineDiscounts(t *testing.T) {
	assert.Equal(t, 0.0, CombineDiscounts(1000, nil))
	assert.Equal(t, 150.0, CombineDiscounts(1000, []float64{100, 50}))
	assert.Equal(t, 1000.0, CombineDiscounts(1000, []float64{800, 600}), "stacked discounts clamp to subtotal")
	assert.Equal(t, 0.0, CombineDiscounts(1000, []float64{-50}), "combined discount never goes negative")
}
