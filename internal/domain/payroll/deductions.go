package payroll

import "github.com/shopspring/decimal"

// ComputeSSS is the employee share of the social security contribution.
func ComputeSSS(grossPay decimal.Decimal, constants Constants) decimal.Decimal {
	basis := decimal.Min(grossPay, constants.SSS.MaxSalary)
	return round2(basis.Mul(constants.SSS.EmployeeShareRate))
}

// ComputePhilHealth clamps the premium to [MinPremium, MaxPremium]; the
// employee pays half of it.
func ComputePhilHealth(grossPay decimal.Decimal, constants Constants) decimal.Decimal {
	rates := constants.PhilHealth
	premium := decimal.Min(decimal.Max(grossPay.Mul(rates.Rate), rates.MinPremium), rates.MaxPremium)
	return round2(premium.Div(two))
}

func ComputePagIBIG(grossPay decimal.Decimal, constants Constants) decimal.Decimal {
	rates := constants.PagIBIG
	return round2(decimal.Min(grossPay.Mul(rates.EmployeeRate), rates.MaxContribution))
}

// ComputePagIBIGEmployer is the matching employer share. It never reduces net pay.
func ComputePagIBIGEmployer(grossPay decimal.Decimal, constants Constants) decimal.Decimal {
	rates := constants.PagIBIG
	return round2(decimal.Min(grossPay.Mul(rates.EmployerRate), rates.MaxContribution))
}

// ComputeWithholdingTax applies the bundle's tax function as-is. A bundle
// without one uses DefaultTaxSchedule.
func ComputeWithholdingTax(taxableIncome decimal.Decimal, status *TaxStatus, constants Constants) decimal.Decimal {
	taxFn := constants.WithholdingTax
	if taxFn == nil {
		taxFn = DefaultTaxSchedule().Func()
	}
	return round2(taxFn(taxableIncome, status))
}
