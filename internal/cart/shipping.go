package cart

// Defaults for the free-shipping rule, overridable via configuration.
const (
	DefaultFreeShippingThreshold = 500.0
	DefaultFlatShippingCost      = 50.0
)

// ShippingCost returns the shipping charge for a cart total: zero at or above
// the free-shipping threshold, the flat cost below it. This is the single
// definition of the rule; every caller goes through it.
func ShippingCost(totalPrice, threshold, flatCost float64) float64 {
	if totalPrice >= threshold {
		return 0
	}
	return flatCost
}

// OrderTotal is the cart total plus the shipping charge.
func OrderTotal(totalPrice, threshold, flatCost float64) float64 {
	return totalPrice + ShippingCost(totalPrice, threshold, flatCost)
}
