package utils

import (
	"fmt"
	"math"
)

type Currency struct {
	Code   string `json:"code"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

var SupportedCurrencies = map[string]Currency{
	"USD": {Code: "USD", Symbol: "$", Name: "US Dollar"},
	"EUR": {Code: "EUR", Symbol: "€", Name: "Euro"},
	"GBP": {Code: "GBP", Symbol: "£", Name: "British Pound"},
	"INR": {Code: "INR", Symbol: "₹", Name: "Indian Rupee"},
	"JPY": {Code: "JPY", Symbol: "¥", Name: "Japanese Yen"},
	"AUD": {Code: "AUD", Symbol: "A$", Name: "Australian Dollar"},
	"CAD": {Code: "CAD", Symbol: "C$", Name: "Canadian Dollar"},
}

func FormatCurrency(amount float64, currencyCode string) string {
	currency, exists := SupportedCurrencies[currencyCode]
	if !exists {
		currency = SupportedCurrencies["INR"]
	}

	amount = math.Round(amount*100) / 100

	switch currencyCode {
	case "JPY", "KRW": // Currencies without decimal places
		return fmt.Sprintf("%s%.0f", currency.Symbol, amount)
	default:
		return fmt.Sprintf("%s%.2f", currency.Symbol, amount)
	}
}

func ValidateCurrencyCode(code string) bool {
	_, exists := SupportedCurrencies[code]
	return exists
}

func RoundCurrency(amount float64, currencyCode string) float64 {
	switch currencyCode {
	case "JPY", "KRW":
		return math.Round(amount)
	default:
		return math.Round(amount*100) / 100
	}
}

// minorUnitFactor returns the number of minor units per major unit for a
// currency (paise per rupee, cents per dollar). Zero-decimal currencies have
// a factor of 1.
func minorUnitFactor(currencyCode string) float64 {
	switch currencyCode {
	case "JPY", "KRW":
		return 1
	default:
		return 100
	}
}

// ToMinorUnits converts a major-unit amount to the currency's smallest
// denomination. All provider amount comparisons happen in minor units to
// avoid floating-point residue.
func ToMinorUnits(amount float64, currencyCode string) int64 {
	return int64(math.Round(amount * minorUnitFactor(currencyCode)))
}

// FromMinorUnits converts a minor-unit amount back to major units.
func FromMinorUnits(minor int64, currencyCode string) float64 {
	return float64(minor) / minorUnitFactor(currencyCode)
}

// WithinTolerance reports whether two minor-unit amounts differ by at most
// toleranceMinor units.
func WithinTolerance(a, b, toleranceMinor int64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff <= toleranceMinor
}

func CalculateTax(amount float64, taxRate float64) float64 {
	tax := amount * (taxRate / 100)
	return math.Round(tax*100) / 100
}

func CalculateDiscount(amount float64, discountPercentage float64, maxDiscount float64) float64 {
	discount := amount * (discountPercentage / 100)
	if maxDiscount > 0 && discount > maxDiscount {
		discount = maxDiscount
	}
	return math.Round(discount*100) / 100
}
