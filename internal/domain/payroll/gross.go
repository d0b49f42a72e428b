package payroll

import "github.com/shopspring/decimal"

// HourlyRate converts a pay rate to its hourly equivalent. Monthly rates assume
// 22 working days of 8 hours; anything that is not Hourly or Monthly is daily.
func HourlyRate(profile Profile) decimal.Decimal {
	switch profile.PayBasis {
	case PayBasisHourly:
		return profile.PayRate
	case PayBasisMonthly:
		return profile.PayRate.Div(hoursPerMonth)
	default:
		return profile.PayRate.Div(hoursPerDay)
	}
}

// ComputeGrossPay prices every hour category at the hourly equivalent, overtime
// at 125%. A holiday multiplier above 1 adds a premium on the regular-hours pay
// only; overtime and leave are never multiplied.
func ComputeGrossPay(profile Profile, regularHours, overtimeHours, sickLeaveHours, paidLeaveHours, holidayMultiplier decimal.Decimal) decimal.Decimal {
	rate := HourlyRate(profile)

	regular := regularHours.Mul(rate)
	overtime := overtimeHours.Mul(rate).Mul(overtimeMultiplier)
	sickLeave := sickLeaveHours.Mul(rate)
	paidLeave := paidLeaveHours.Mul(rate)

	holidayBonus := decimal.Zero
	if holidayMultiplier.GreaterThan(one) {
		holidayBonus = regular.Mul(holidayMultiplier.Sub(one))
	}

	return round2(regular.Add(overtime).Add(sickLeave).Add(paidLeave).Add(holidayBonus))
}
