package validators

import (
	"goshop/internal/models"
	"goshop/internal/services"
)

// ValidateSettlement checks a settlement request before the orchestrator
// touches any store.
func ValidateSettlement(req *services.SettlementRequest) ValidationErrors {
	errors := ValidateStruct(req)

	switch req.PaymentMethod {
	case models.PaymentMethodRazorpay, models.PaymentMethodStripe:
		if req.Confirmation.ProviderPaymentID == "" {
			errors = append(errors, ValidationError{
				Field:   "confirmation.provider_payment_id",
				Tag:     "required",
				Message: "payment confirmation reference is required",
			})
		}
		if req.Confirmation.ProviderOrderID == "" {
			errors = append(errors, ValidationError{
				Field:   "confirmation.provider_order_id",
				Tag:     "required",
				Message: "provider order id is required",
			})
		}
		if req.Confirmation.ProviderSignature == "" {
			errors = append(errors, ValidationError{
				Field:   "confirmation.provider_signature",
				Tag:     "required",
				Message: "provider signature is required",
			})
		}
	case models.PaymentMethodCOD:
		if req.Confirmation.ProviderPaymentID == "" {
			errors = append(errors, ValidationError{
				Field:   "confirmation.provider_payment_id",
				Tag:     "required",
				Message: "an idempotency reference is required for cash orders",
			})
		}
	default:
		errors = append(errors, ValidationError{
			Field:   "payment_method",
			Tag:     "oneof",
			Message: "payment method must be razorpay, stripe, or cod",
		})
	}

	if req.ClaimedTotal < 0 {
		errors = append(errors, ValidationError{
			Field:   "claimed_total",
			Tag:     "min",
			Message: "claimed total cannot be negative",
		})
	}

	return errors
}
