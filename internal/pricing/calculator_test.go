package pricing

import (
	"testing"

	"goshop/internal/models"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var standardRules = Rules{
	FreeShippingThreshold: 1000,
	FlatShippingFee:       50,
	TaxRatePercent:        18,
}

func lineItem(unitPrice float64, qty int) models.LineItem {
	return models.LineItem{
		ProductID: primitive.NewObjectID(),
		Name:      "test product",
		Quantity:  qty,
		UnitPrice: unitPrice,
	}
}

func TestSubtotal(t *testing.T) {
	items := []models.LineItem{
		lineItem(250, 2),
		lineItem(100, 5),
	}

	assert.Equal(t, 1000.0, Subtotal(items))
	assert.Equal(t, 0.0, Subtotal(nil))
}

func TestShippingCost(t *testing.T) {
	assert.Equal(t, 50.0, ShippingCost(999.99, standardRules))
	assert.Equal(t, 0.0, ShippingCost(1000, standardRules), "threshold itself earns free shipping")
	assert.Equal(t, 0.0, ShippingCost(1500, standardRules))
}

func TestComputeTotalFlatCouponOrder(t *testing.T) {
	// Subtotal 1000: free shipping, 18% tax, 150 flat discount.
	items := []models.LineItem{lineItem(500, 2)}

	totals := ComputeTotal(items, standardRules, 150)

	assert.Equal(t, 1000.0, totals.Subtotal)
	assert.Equal(t, 0.0, totals.ShippingCost)
	assert.Equal(t, 180.0, totals.Tax)
	assert.Equal(t, 150.0, totals.TotalDiscount)
	assert.Equal(t, 1030.0, totals.Total)
}

func TestComputeTotalCappedPercentageOrder(t *testing.T) {
	// Subtotal 500: flat shipping, 18% tax, capped percentage discount of 50.
	items := []models.LineItem{lineItem(500, 1)}

	totals := ComputeTotal(items, standardRules, 50)

	assert.Equal(t, 500.0, totals.Subtotal)
	assert.Equal(t, 50.0, totals.ShippingCost)
	assert.Equal(t, 90.0, totals.Tax)
	assert.Equal(t, 590.0, totals.Total)
}

func TestComputeTotalFloorsAtZero(t *testing.T) {
	items := []models.LineItem{lineItem(100, 1)}

	totals := ComputeTotal(items, standardRules, 500)

	assert.Equal(t, 0.0, totals.Total)
}

func TestReconcile(t *testing.T) {
	tests := []struct {
		name     string
		computed float64
		claimed  float64
		matches  bool
	}{
		{"exact match", 1030.00, 1030.00, true},
		{"one paisa under", 1030.00, 1029.99, true},
		{"one paisa over", 1030.00, 1030.01, true},
		{"two paise off", 1030.00, 1030.02, false},
		{"rupee off", 1030.00, 1031.00, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Reconcile(tt.computed, tt.claimed, "INR", 1)
			assert.Equal(t, tt.matches, rec.Matches)
		})
	}
}

func TestReconcileMinor(t *testing.T) {
	rec := ReconcileMinor(1030.00, 103000, "INR", 1)
	assert.True(t, rec.Matches)
	assert.Equal(t, int64(103000), rec.ComputedMinor)

	rec = ReconcileMinor(1030.00, 102900, "INR", 1)
	assert.False(t, rec.Matches)
}

func TestReconcileZeroDecimalCurrency(t *testing.T) {
	rec := ReconcileMinor(1030, 1030, "JPY", 0)
	assert.True(t, rec.Matches)
}
