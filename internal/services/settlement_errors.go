package services

import (
	"errors"
	"fmt"

	"goshop/internal/coupon"
	"goshop/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrSettlementInProgress is returned when another settlement for the same
// payment confirmation reference currently holds the redis lock.
var ErrSettlementInProgress = errors.New("settlement already in progress for this payment")

// ValidationError reports a malformed or unprocessable settlement request.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// StockError reports a cart line that can no longer be fulfilled.
type StockError struct {
	ProductID primitive.ObjectID
	Name      string
	Requested int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s (requested %d)", e.Name, e.Requested)
}

// CouponError reports a coupon that failed evaluation, carrying the
// machine-readable rejection reason.
type CouponError struct {
	Code   string
	Reason coupon.Reason
}

func (e *CouponError) Error() string {
	return fmt.Sprintf("coupon %s rejected: %s", e.Code, e.Reason)
}

// AmountMismatchError reports a total that does not reconcile within the
// configured tolerance. Amounts are in minor units.
type AmountMismatchError struct {
	ComputedMinor int64
	ClaimedMinor  int64
}

func (e *AmountMismatchError) Error() string {
	return fmt.Sprintf("amount mismatch: computed %d, claimed %d", e.ComputedMinor, e.ClaimedMinor)
}

// SignatureError reports a payment confirmation that could not be verified.
// The reason stays server-side; clients only ever see a generic message.
type SignatureError struct {
	PaymentRef string
	Reason     string
}

func (e *SignatureError) Error() string {
	return fmt.Sprintf("payment verification failed for %s: %s", e.PaymentRef, e.Reason)
}

// DuplicateSettlementError reports a payment confirmation reference that has
// already settled under a different user. A replay by the same user is not an
// error; it returns the existing order.
type DuplicateSettlementError struct {
	Existing *models.Order
}

func (e *DuplicateSettlementError) Error() string {
	return fmt.Sprintf("payment confirmation already settled as order %s", e.Existing.ID.Hex())
}

// TransientStoreError wraps a store failure that is safe to retry.
type TransientStoreError struct {
	Op  string
	Err error
}

func (e *TransientStoreError) Error() string {
	return fmt.Sprintf("transient store failure during %s: %v", e.Op, e.Err)
}

func (e *TransientStoreError) Unwrap() error {
	return e.Err
}
