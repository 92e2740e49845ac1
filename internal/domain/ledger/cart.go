package ledger

import "github.com/shopspring/decimal"

// CartItem is one line in a consumer's cart.
type CartItem struct {
	ProductID       string          `json:"product_id"`
	Name            string          `json:"name"`
	Price           decimal.Decimal `json:"price"`
	Quantity        int             `json:"quantity"`
	DiscountPercent decimal.Decimal `json:"discount_percent"` // Zero when the item carries no discount.
}

// Cart is an explicit value object: all the state cart arithmetic depends
// on travels in it, including the coupon-applied flag. The flag is a bool,
// not a counter, so applying the same coupon twice cannot double the
// discount.
type Cart struct {
	Items         []CartItem      `json:"items"`
	DeliveryFee   decimal.Decimal `json:"delivery_fee"`
	TaxPercent    decimal.Decimal `json:"tax_percent"`
	CouponPercent decimal.Decimal `json:"coupon_percent"`
	CouponApplied bool            `json:"coupon_applied"`
}

// CartTotals is the fully derived price breakdown for a cart.
type CartTotals struct {
	Subtotal          decimal.Decimal `json:"subtotal"`
	ItemDiscountTotal decimal.Decimal `json:"item_discount_total"`
	Tax               decimal.Decimal `json:"tax"`
	CouponDiscount    decimal.Decimal `json:"coupon_discount"`
	DeliveryFee       decimal.Decimal `json:"delivery_fee"`
	Total             decimal.Decimal `json:"total"`
}

// ApplyCoupon marks the coupon as applied. Calling it again with the same
// or another percentage while one is applied is a no-op.
func (c *Cart) ApplyCoupon(percent decimal.Decimal) {
	if c.CouponApplied {
		return
	}
	c.CouponPercent = percent
	c.CouponApplied = true
}

// IncrementItem raises the quantity of the item at index i by one.
func (c *Cart) IncrementItem(i int) {
	if i < 0 || i >= len(c.Items) {
		return
	}
	c.Items[i].Quantity++
}

// DecrementItem lowers the quantity of the item at index i by one, but
// never below 1. Removing an item entirely is a separate explicit action.
func (c *Cart) DecrementItem(i int) {
	if i < 0 || i >= len(c.Items) {
		return
	}
	if c.Items[i].Quantity <= 1 {
		return
	}
	c.Items[i].Quantity--
}

// RemoveItem deletes the item at index i from the cart.
func (c *Cart) RemoveItem(i int) {
	if i < 0 || i >= len(c.Items) {
		return
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
}

// Normalize clamps quantities to at least 1. Carts arriving over the wire
// go through this before any arithmetic.
func (c *Cart) Normalize() {
	for i := range c.Items {
		if c.Items[i].Quantity < 1 {
			c.Items[i].Quantity = 1
		}
	}
}

// ComputeCartTotal derives the price breakdown. The effective unit price is
// price*(1-discount/100); tax and coupon discount are percentages of the
// discounted subtotal, each rounded per RoundCurrency; the coupon counts
// only while CouponApplied is set. The total is floored at zero.
func ComputeCartTotal(cart Cart) CartTotals {
	hundred := decimal.NewFromInt(100)

	subtotal := decimal.Zero
	itemDiscountTotal := decimal.Zero
	for _, item := range cart.Items {
		qty := decimal.NewFromInt(int64(item.Quantity))
		gross := item.Price.Mul(qty)

		effective := gross
		if item.DiscountPercent.IsPositive() {
			effective = item.Price.
				Mul(hundred.Sub(item.DiscountPercent)).
				Div(hundred).
				Mul(qty)
		}

		subtotal = subtotal.Add(effective)
		itemDiscountTotal = itemDiscountTotal.Add(gross.Sub(effective))
	}

	tax := Percent(subtotal, cart.TaxPercent)

	couponDiscount := decimal.Zero
	if cart.CouponApplied && cart.CouponPercent.IsPositive() {
		couponDiscount = Percent(subtotal, cart.CouponPercent)
	}

	total := subtotal.Add(cart.DeliveryFee).Add(tax).Sub(couponDiscount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return CartTotals{
		Subtotal:          subtotal,
		ItemDiscountTotal: itemDiscountTotal,
		Tax:               tax,
		CouponDiscount:    couponDiscount,
		DeliveryFee:       cart.DeliveryFee,
		Total:             total,
	}
}
