package utils

import "time"

// Application Constants
const (
	AppName    = "GoShop"
	AppVersion = "1.0.0"

	// Default values
	DefaultLanguage = "en"
	DefaultCurrency = "INR"
	DefaultTimeZone = "UTC"

	// Pagination
	DefaultPageSize = 20
	MaxPageSize     = 100
	MinPageSize     = 1

	// Authentication
	JWTAccessTokenTTL  = 24 * time.Hour
	JWTRefreshTokenTTL = 7 * 24 * time.Hour
	PasswordMinLength  = 8
	PasswordMaxLength  = 128

	// Checkout Constants
	FreeShippingThreshold = 1000.0
	FlatShippingFee       = 50.0
	DefaultTaxRatePercent = 18.0
	AmountToleranceMinor  = 1
	MaxCouponsPerOrder    = 3
	MaxCouponCodeLength   = 20
	SettleMaxRetries      = 3
	ProviderVerifyTimeout = 10 * time.Second
	SettlementLockTTL     = 30 * time.Second

	// Coupon cache
	CouponCacheTTL = 30 * time.Minute

	// Rate Limiting
	DefaultRateLimit = 100
	LoginRateLimit   = 5
)

// Response status
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Error messages
const (
	ErrValidationFailed = "Validation failed"
	ErrInternalServer   = "Internal server error"
	ErrUnauthorized     = "Unauthorized access"
	ErrForbidden        = "Access forbidden"
	ErrPaymentVerify    = "Payment could not be verified"
)
