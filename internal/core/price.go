package core

import "github.com/shopspring/decimal"

// CalculatePrice derives unit and total prices from an entered price.
// A non-positive quantity leaves both prices equal to the entered one.
// No rounding happens here.
func CalculatePrice(price decimal.Decimal, quantity int, mode PriceMode) (unit, total decimal.Decimal) {
	if quantity <= 0 {
		return price, price
	}
	q := decimal.NewFromInt(int64(quantity))
	if mode == Total {
		return price.Div(q), price
	}
	return price, price.Mul(q)
}
