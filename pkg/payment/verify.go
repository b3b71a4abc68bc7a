package payment

// VerifyCapturedAmount compares the provider's captured amount against the
// locally computed total, both in minor units, within an absolute tolerance.
// The tolerance absorbs rounding differences between the two systems; it is
// never relaxed beyond the configured value.
func VerifyCapturedAmount(providerAmountMinor, computedTotalMinor, toleranceMinor int64) bool {
	diff := providerAmountMinor - computedTotalMinor
	if diff < 0 {
		diff = -diff
	}
	return diff <= toleranceMinor
}

// Sign produces the checkout confirmation signature for the given provider
// order and payment ids. Exposed for provider integrations that issue their
// own confirmation signatures and for webhook replay tooling.
func Sign(orderID, paymentID, secret string) string {
	return computeHMAC(orderID+"|"+paymentID, secret)
}
