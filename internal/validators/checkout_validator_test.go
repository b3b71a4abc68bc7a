package validators

import (
	"testing"
	"time"

	"goshop/internal/models"
	"goshop/internal/services"
	"goshop/pkg/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSettlementRequest() *services.SettlementRequest {
	return &services.SettlementRequest{
		CouponCodes:   []string{"SAVE150"},
		PaymentMethod: models.PaymentMethodRazorpay,
		ClaimedTotal:  1030,
		Confirmation: payment.Confirmation{
			ProviderOrderID:   "order_v1",
			ProviderPaymentID: "pay_v1",
			ProviderSignature: "sig_v1",
		},
		ShippingAddress: models.Address{
			FullName:   "Asha Rao",
			Phone:      "+919876543210",
			Line1:      "14 MG Road",
			City:       "Bengaluru",
			State:      "Karnataka",
			PostalCode: "560001",
			Country:    "IN",
		},
	}
}

func hasField(errs ValidationErrors, field string) bool {
	for _, e := range errs {
		if e.Field == field {
			return true
		}
	}
	return false
}

func TestValidateSettlementAccepted(t *testing.T) {
	errs := ValidateSettlement(validSettlementRequest())
	assert.Empty(t, errs)
}

func TestValidateSettlementProviderConfirmationRequired(t *testing.T) {
	req := validSettlementRequest()
	req.Confirmation = payment.Confirmation{}

	errs := ValidateSettlement(req)

	assert.True(t, hasField(errs, "confirmation.provider_payment_id"))
	assert.True(t, hasField(errs, "confirmation.provider_order_id"))
	assert.True(t, hasField(errs, "confirmation.provider_signature"))
}

func TestValidateSettlementCODNeedsOnlyReference(t *testing.T) {
	req := validSettlementRequest()
	req.PaymentMethod = models.PaymentMethodCOD
	req.Confirmation = payment.Confirmation{ProviderPaymentID: "cod_v1"}

	assert.Empty(t, ValidateSettlement(req))

	req.Confirmation.ProviderPaymentID = ""
	errs := ValidateSettlement(req)
	require.Len(t, errs, 1)
	assert.Equal(t, "confirmation.provider_payment_id", errs[0].Field)
}

func TestValidateSettlementUnknownMethod(t *testing.T) {
	req := validSettlementRequest()
	req.PaymentMethod = "barter"

	errs := ValidateSettlement(req)

	assert.True(t, hasField(errs, "payment_method"))
}

func TestValidateSettlementCouponCodes(t *testing.T) {
	req := validSettlementRequest()
	req.CouponCodes = []string{"SAVE150", "EXTRA10", "FEST-25", "ONEMORE"}
	errs := ValidateSettlement(req)
	assert.True(t, hasField(errs, "CouponCodes"), "more than three coupons is rejected")

	req = validSettlementRequest()
	req.CouponCodes = []string{"a!"}
	errs = ValidateSettlement(req)
	assert.NotEmpty(t, errs, "malformed coupon codes are rejected")
}

func TestValidateSettlementNegativeClaimedTotal(t *testing.T) {
	req := validSettlementRequest()
	req.ClaimedTotal = -5

	errs := ValidateSettlement(req)

	assert.True(t, hasField(errs, "claimed_total"))
}

func TestValidateCouponCreateAccepted(t *testing.T) {
	errs := ValidateCouponCreate(&services.CreateCouponRequest{
		Code:      "FEST-25",
		Kind:      models.CouponKindFlat,
		Value:     25,
		ExpiresAt: time.Now().Add(time.Hour),
	})
	assert.Empty(t, errs)
}

func TestValidateCouponCreateRejections(t *testing.T) {
	base := func() *services.CreateCouponRequest {
		return &services.CreateCouponRequest{
			Code:      "FEST-25",
			Kind:      models.CouponKindFlat,
			Value:     25,
			ExpiresAt: time.Now().Add(time.Hour),
		}
	}

	t.Run("percentage over 100", func(t *testing.T) {
		req := base()
		req.Kind = models.CouponKindPercentage
		req.Value = 150
		req.MaxDiscountAmount = 100
		assert.True(t, hasField(ValidateCouponCreate(req), "value"))
	})

	t.Run("percentage without cap", func(t *testing.T) {
		req := base()
		req.Kind = models.CouponKindPercentage
		req.Value = 20
		assert.True(t, hasField(ValidateCouponCreate(req), "max_discount_amount"))
	})

	t.Run("expiry in the past", func(t *testing.T) {
		req := base()
		req.ExpiresAt = time.Now().Add(-time.Hour)
		assert.True(t, hasField(ValidateCouponCreate(req), "expires_at"))
	})

	t.Run("unknown audience", func(t *testing.T) {
		req := base()
		req.Audience = "vip_only"
		assert.True(t, hasField(ValidateCouponCreate(req), "audience"))
	})
}
