package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToMinorUnits(t *testing.T) {
	assert.Equal(t, int64(103000), ToMinorUnits(1030.00, "INR"))
	assert.Equal(t, int64(59), ToMinorUnits(0.59, "USD"))
	assert.Equal(t, int64(1030), ToMinorUnits(1030, "JPY"))

	// Floating point residue rounds away cleanly.
	assert.Equal(t, int64(1015), ToMinorUnits(10.15, "INR"))
}

func TestFromMinorUnits(t *testing.T) {
	assert.Equal(t, 1030.00, FromMinorUnits(103000, "INR"))
	assert.Equal(t, 1030.0, FromMinorUnits(1030, "JPY"))
}

func TestWithinTolerance(t *testing.T) {
	assert.True(t, WithinTolerance(103000, 103000, 0))
	assert.True(t, WithinTolerance(103000, 103001, 1))
	assert.True(t, WithinTolerance(103001, 103000, 1))
	assert.False(t, WithinTolerance(103000, 103002, 1))
}

func TestCalculateTax(t *testing.T) {
	assert.Equal(t, 180.0, CalculateTax(1000, 18))
	assert.Equal(t, 90.0, CalculateTax(500, 18))
	assert.Equal(t, 0.0, CalculateTax(0, 18))
}

func TestCalculateDiscount(t *testing.T) {
	assert.Equal(t, 100.0, CalculateDiscount(500, 20, 0), "no cap applies when max is zero")
	assert.Equal(t, 50.0, CalculateDiscount(500, 20, 50))
	assert.Equal(t, 80.0, CalculateDiscount(800, 10, 500))
}

func TestRoundCurrency(t *testing.T) {
	assert.Equal(t, 10.16, RoundCurrency(10.155, "INR"))
	assert.Equal(t, 10.0, RoundCurrency(10.4, "JPY"))
}

func TestIsValidCouponCode(t *testing.T) {
	assert.True(t, IsValidCouponCode("SAVE150"))
	assert.True(t, IsValidCouponCode("NEW_USER-10"))
	assert.False(t, IsValidCouponCode("AB"))
	assert.False(t, IsValidCouponCode("this has spaces"))
	assert.False(t, IsValidCouponCode("WAY_TOO_LONG_COUPON_CODE_FOR_US"))
}
