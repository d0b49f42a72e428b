package payroll

import "github.com/shopspring/decimal"

var half = decimal.RequireFromString("0.5")

// round2 rounds half up (toward positive infinity) to centavos, so -100.005
// becomes -100.00. Every money field is passed through it where it is
// produced, never only at the end.
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Shift(2).Add(half).Floor().Shift(-2)
}

func valueOr(override *decimal.Decimal, compute func() decimal.Decimal) decimal.Decimal {
	if override != nil {
		return *override
	}
	return compute()
}

// SplitHours caps regular hours at limit and routes the excess to overtime.
// A non-positive limit falls back to DefaultRegularHoursCap.
func SplitHours(total, limit decimal.Decimal) (regular, overtime decimal.Decimal) {
	if !limit.IsPositive() {
		limit = decimal.NewFromInt(DefaultRegularHoursCap)
	}
	regular = decimal.Min(total, limit)
	overtime = decimal.Max(decimal.Zero, total.Sub(limit))
	return regular, overtime
}
