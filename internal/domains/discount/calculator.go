package discount

import "github.com/shopspring/decimal"

// Amount computes the discount value for a booking total in minor
// currency units. Percent discounts round half-up to the nearest unit;
// the result never exceeds the total.
func Amount(d *Discount, total int64) int64 {
	if d == nil || total <= 0 {
		return 0
	}

	var amount int64
	switch d.Type {
	case TypePercent:
		amount = decimal.NewFromInt(total).
			Mul(decimal.NewFromInt(d.Value)).
			Div(decimal.NewFromInt(100)).
			Round(0).
			IntPart()
	case TypeFixed:
		amount = d.Value
	default:
		return 0
	}

	if amount > total {
		return total
	}
	if amount < 0 {
		return 0
	}
	return amount
}
