// Package pricing computes canonical order totals. Everything here is a pure
// function of server-trusted prices and the configured shipping and tax
// rules; client-submitted figures are only ever used as reconciliation
// targets, never as inputs to the final amounts.
package pricing

import (
	"goshop/internal/models"
	"goshop/internal/utils"
)

// Rules are the deterministic pricing rules applied at settlement.
type Rules struct {
	// FreeShippingThreshold is the subtotal at or above which shipping is
	// free. Below it the flat fee applies.
	FreeShippingThreshold float64
	FlatShippingFee       float64
	TaxRatePercent        float64
}

// Totals is the canonical financial breakdown of an order.
type Totals struct {
	Subtotal      float64
	ShippingCost  float64
	Tax           float64
	TotalDiscount float64
	Total         float64
}

// Subtotal sums unit price times quantity over the line items. Unit prices
// must already be the server-side snapshot.
func Subtotal(items []models.LineItem) float64 {
	var subtotal float64
	for _, item := range items {
		subtotal += item.UnitPrice * float64(item.Quantity)
	}
	return utils.RoundCurrency(subtotal, "")
}

// ShippingCost applies the free-above-threshold rule.
func ShippingCost(subtotal float64, r Rules) float64 {
	if subtotal >= r.FreeShippingThreshold {
		return 0
	}
	return r.FlatShippingFee
}

// Tax is a fixed percentage of the subtotal.
func Tax(subtotal float64, r Rules) float64 {
	return utils.CalculateTax(subtotal, r.TaxRatePercent)
}

// ComputeTotal combines line items, the shipping rule, the tax rule, and the
// already-combined discount into the canonical total, floored at zero.
func ComputeTotal(items []models.LineItem, r Rules, totalDiscount float64) Totals {
	subtotal := Subtotal(items)
	shipping := ShippingCost(subtotal, r)
	tax := Tax(subtotal, r)

	total := subtotal + shipping + tax - totalDiscount
	if total < 0 {
		total = 0
	}

	return Totals{
		Subtotal:      subtotal,
		ShippingCost:  shipping,
		Tax:           tax,
		TotalDiscount: utils.RoundCurrency(totalDiscount, ""),
		Total:         utils.RoundCurrency(total, ""),
	}
}

// Reconciliation is the outcome of comparing the computed total against a
// claimed one. Both figures are kept for diagnostics; the claimed figure is
// never silently accepted.
type Reconciliation struct {
	Matches       bool
	ComputedMinor int64
	ClaimedMinor  int64
}

// Reconcile compares the computed total with a client- or provider-claimed
// amount in minor units, within an absolute tolerance.
func Reconcile(computedTotal, claimedTotal float64, currency string, toleranceMinor int64) Reconciliation {
	computedMinor := utils.ToMinorUnits(computedTotal, currency)
	claimedMinor := utils.ToMinorUnits(claimedTotal, currency)

	return Reconciliation{
		Matches:       utils.WithinTolerance(computedMinor, claimedMinor, toleranceMinor),
		ComputedMinor: computedMinor,
		ClaimedMinor:  claimedMinor,
	}
}

// ReconcileMinor compares an amount already expressed in minor units (a
// provider's captured amount) against the computed total.
func ReconcileMinor(computedTotal float64, claimedMinor int64, currency string, toleranceMinor int64) Reconciliation {
	computedMinor := utils.ToMinorUnits(computedTotal, currency)

	return Reconciliation{
		Matches:       utils.WithinTolerance(computedMinor, claimedMinor, toleranceMinor),
		ComputedMinor: computedMinor,
		ClaimedMinor:  claimedMinor,
	}
}
