package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShippingCost(t *testing.T) {
	tests := []struct {
		name       string
		totalPrice float64
		threshold  float64
		flatCost   float64
		expected   float64
	}{
		{"exactly at threshold", 500, 500, 50, 0},
		{"above threshold", 600, 500, 50, 0},
		{"just below threshold", 499, 500, 50, 50},
		{"empty cart", 0, 500, 50, 50},
		{"custom rule", 99, 100, 10, 10},
		{"custom rule free", 100, 100, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ShippingCost(tt.totalPrice, tt.threshold, tt.flatCost))
		})
	}
}

func TestOrderTotal(t *testing.T) {
	assert.Equal(t, 549.0, OrderTotal(499, 500, 50))
	assert.Equal(t, 500.0, OrderTotal(500, 500, 50))
	assert.Equal(t, 600.0, OrderTotal(600, 500, 50))
}
