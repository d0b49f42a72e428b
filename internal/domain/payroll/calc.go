package payroll

import "github.com/shopspring/decimal"

// CalculateLine runs gross-to-net for one employee. Each override replaces only
// its own field; the rest are still computed from the (possibly overridden) gross.
func CalculateLine(input LineInput, constants Constants) LineResult {
	hours := input.Hours
	overrides := input.Overrides

	holidayMultiplier := one
	if input.HolidayPayMultiplier != nil {
		holidayMultiplier = *input.HolidayPayMultiplier
	}

	grossPay := valueOr(overrides.Gross, func() decimal.Decimal {
		return ComputeGrossPay(input.Profile, hours.Regular, hours.Overtime, hours.SickLeave, hours.PaidLeave, holidayMultiplier)
	})
	// No pre-tax deductions are modelled: everything earned is taxable.
	taxableIncome := grossPay

	sss := valueOr(overrides.SSS, func() decimal.Decimal { return ComputeSSS(grossPay, constants) })
	philHealth := valueOr(overrides.PhilHealth, func() decimal.Decimal { return ComputePhilHealth(grossPay, constants) })
	pagIBIG := valueOr(overrides.PagIBIG, func() decimal.Decimal { return ComputePagIBIG(grossPay, constants) })
	withholdingTax := valueOr(overrides.Tax, func() decimal.Decimal {
		return ComputeWithholdingTax(taxableIncome, input.Profile.TaxStatus, constants)
	})
	otherDeductions := valueOr(overrides.OtherDeductions, func() decimal.Decimal { return decimal.Zero })

	totalDeductions := round2(sss.Add(philHealth).Add(pagIBIG).Add(withholdingTax).Add(otherDeductions))

	return LineResult{
		EmployeeID:       input.Profile.EmployeeID,
		RegularHours:     hours.Regular,
		OvertimeHours:    hours.Overtime,
		SickLeaveHours:   hours.SickLeave,
		PaidLeaveHours:   hours.PaidLeave,
		GrossPay:         grossPay,
		TaxableIncome:    taxableIncome,
		WithholdingTax:   withholdingTax,
		SSS:              sss,
		PhilHealth:       philHealth,
		PagIBIG:          pagIBIG,
		OtherDeductions:  otherDeductions,
		TotalDeductions:  totalDeductions,
		NetPay:           round2(grossPay.Sub(totalDeductions)),
		EmployerPagIBIG:  ComputePagIBIGEmployer(grossPay, constants),
		IsManualOverride: overrides.Any(),
	}
}

// CalculateRun maps CalculateLine over the run in input order. A line's own
// holiday multiplier wins over the run-level double-pay flag. Totals are sums
// of the already rounded line values so they always match the rows.
func CalculateRun(input RunInput, constants Constants) RunResult {
	currency := input.Currency
	if currency == "" {
		currency = DefaultCurrency
	}
	runMultiplier := one
	if input.HolidayDoublePay {
		runMultiplier = holidayDoublePay
	}

	lines := make([]LineResult, 0, len(input.Lines))
	totalGross := decimal.Zero
	totalDeductions := decimal.Zero
	totalNet := decimal.Zero
	for _, line := range input.Lines {
		if line.HolidayPayMultiplier == nil {
			multiplier := runMultiplier
			line.HolidayPayMultiplier = &multiplier
		}
		result := CalculateLine(line, constants)
		totalGross = totalGross.Add(result.GrossPay)
		totalDeductions = totalDeductions.Add(result.TotalDeductions)
		totalNet = totalNet.Add(result.NetPay)
		lines = append(lines, result)
	}

	return RunResult{
		Period:          input.Period,
		Currency:        currency,
		Lines:           lines,
		TotalGross:      round2(totalGross),
		TotalDeductions: round2(totalDeductions),
		TotalNet:        round2(totalNet),
	}
}
