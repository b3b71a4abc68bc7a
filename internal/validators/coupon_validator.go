package validators

import (
	"time"

	"goshop/internal/models"
	"goshop/internal/services"
)

// ValidateCouponCreate checks a coupon definition before it is stored. The
// service re-checks the structural invariants; this layer produces the
// per-field messages the API returns.
func ValidateCouponCreate(req *services.CreateCouponRequest) ValidationErrors {
	errors := ValidateStruct(req)

	if req.Kind == models.CouponKindPercentage {
		if req.Value > 100 {
			errors = append(errors, ValidationError{
				Field:   "value",
				Tag:     "max",
				Message: "percentage discounts cannot exceed 100",
			})
		}
		if req.MaxDiscountAmount <= 0 {
			errors = append(errors, ValidationError{
				Field:   "max_discount_amount",
				Tag:     "required",
				Message: "percentage coupons require a discount cap",
			})
		}
	}

	if !req.ExpiresAt.IsZero() && !req.ExpiresAt.After(time.Now()) {
		errors = append(errors, ValidationError{
			Field:   "expires_at",
			Tag:     "future_date",
			Message: "expiry must be in the future",
		})
	}

	if req.Audience != "" &&
		req.Audience != models.CouponAudiencePublic &&
		req.Audience != models.CouponAudienceAllowList &&
		req.Audience != models.CouponAudienceDenyList {
		errors = append(errors, ValidationError{
			Field:   "audience",
			Tag:     "oneof",
			Message: "audience must be public, allow_list, or deny_list",
		})
	}

	return errors
}
