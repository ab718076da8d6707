package inventory

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name               string
		available, minimum int64
		want               StockLevel
	}{
		{"empty", 0, 10, OutOfStock},
		{"empty without minimum", 0, 0, OutOfStock},
		{"oversold", -2, 10, OutOfStock},
		{"at minimum", 10, 10, LowStock},
		{"below minimum", 3, 10, LowStock},
		{"above minimum", 11, 10, InStock},
		{"large minimum", 40, 50, LowStock},
		{"ignores fixed threshold", 25, 5, InStock},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.available, tt.minimum))
		})
	}
}

func TestItemValue(t *testing.T) {
	it := Item{QuantityOnHand: 100, QuantityReserved: 20, UnitPrice: decimal.RequireFromString("9.99")}
	it.derive()

	assert.Equal(t, int64(80), it.QuantityAvailable)
	assert.Equal(t, "799.2", it.Value().String())
}
