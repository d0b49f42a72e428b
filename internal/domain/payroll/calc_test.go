package payroll

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	v := dec(s)
	return &v
}

func assertMoney(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %s, got %s", want, got.String())
}

func hourlyProfile(id, rate string) Profile {
	return Profile{EmployeeID: id, PayBasis: PayBasisHourly, PayRate: dec(rate)}
}

func TestCalculateLineHourlyNoOvertime(t *testing.T) {
	result := CalculateLine(LineInput{
		Profile: hourlyProfile("emp-1", "100"),
		Hours:   Hours{Regular: dec("80")},
	}, DefaultConstants())

	assert.Equal(t, "emp-1", result.EmployeeID)
	assertMoney(t, "8000.00", result.GrossPay)
	assertMoney(t, "8000.00", result.TaxableIncome)
	assertMoney(t, "360.00", result.SSS)
	assertMoney(t, "250.00", result.PhilHealth)
	assertMoney(t, "100.00", result.PagIBIG)
	assertMoney(t, "0", result.WithholdingTax)
	assertMoney(t, "0", result.OtherDeductions)
	assertMoney(t, "710.00", result.TotalDeductions)
	assertMoney(t, "7290.00", result.NetPay)
	assert.False(t, result.IsManualOverride)
}

func TestCalculateLineMonthlyWithOvertimeAndHoliday(t *testing.T) {
	input := LineInput{
		Profile:              Profile{EmployeeID: "emp-2", PayBasis: PayBasisMonthly, PayRate: dec("22000")},
		Hours:                Hours{Regular: dec("88"), Overtime: dec("8")},
		HolidayPayMultiplier: decPtr("2.0"),
	}

	assertMoney(t, "125", HourlyRate(input.Profile))

	result := CalculateLine(input, DefaultConstants())
	assertMoney(t, "23250.00", result.GrossPay)
	assertMoney(t, "1046.25", result.SSS)
	assertMoney(t, "581.25", result.PhilHealth)
	assertMoney(t, "100.00", result.PagIBIG)
	assertMoney(t, "483.40", result.WithholdingTax)
	assertMoney(t, "2210.90", result.TotalDeductions)
	assertMoney(t, "21039.10", result.NetPay)
}

func TestCalculateLineIsDeterministic(t *testing.T) {
	status := TaxStatusME2
	input := LineInput{
		Profile:              Profile{EmployeeID: "emp-3", PayBasis: PayBasisDaily, PayRate: dec("1234.56"), TaxStatus: &status},
		Hours:                Hours{Regular: dec("72.5"), Overtime: dec("3.25"), SickLeave: dec("4"), PaidLeave: dec("8")},
		HolidayPayMultiplier: decPtr("1.3"),
	}

	first, err := json.Marshal(CalculateLine(input, DefaultConstants()))
	require.NoError(t, err)
	second, err := json.Marshal(CalculateLine(input, DefaultConstants()))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCalculateLineGrossOverrideFeedsDeductions(t *testing.T) {
	input := LineInput{
		Profile:   Profile{EmployeeID: "emp-4", PayBasis: PayBasisDaily, PayRate: dec("1000")},
		Hours:     Hours{Regular: dec("80")},
		Overrides: Overrides{Gross: decPtr("30000")},
	}

	result := CalculateLine(input, DefaultConstants())
	assertMoney(t, "30000", result.GrossPay)
	assertMoney(t, "1125.00", result.SSS)
	assertMoney(t, "750.00", result.PhilHealth)
	assertMoney(t, "100.00", result.PagIBIG)
	assertMoney(t, "1833.40", result.WithholdingTax)
	assertMoney(t, "3808.40", result.TotalDeductions)
	assertMoney(t, "26191.60", result.NetPay)
	assert.True(t, result.IsManualOverride)
}

func TestCalculateLineOverridesApplyIndependently(t *testing.T) {
	input := LineInput{
		Profile:   hourlyProfile("emp-5", "100"),
		Hours:     Hours{Regular: dec("80")},
		Overrides: Overrides{SSS: decPtr("0"), OtherDeductions: decPtr("90.50")},
	}

	result := CalculateLine(input, DefaultConstants())
	assertMoney(t, "8000.00", result.GrossPay)
	assertMoney(t, "0", result.SSS)
	assertMoney(t, "250.00", result.PhilHealth)
	assertMoney(t, "100.00", result.PagIBIG)
	assertMoney(t, "90.50", result.OtherDeductions)
	assertMoney(t, "440.50", result.TotalDeductions)
	assertMoney(t, "7559.50", result.NetPay)
	assert.True(t, result.IsManualOverride)
}

func TestCalculateLineZeroOverrideStillCountsAsManual(t *testing.T) {
	result := CalculateLine(LineInput{
		Profile:   hourlyProfile("emp-6", "100"),
		Hours:     Hours{Regular: dec("8")},
		Overrides: Overrides{Tax: decPtr("0")},
	}, DefaultConstants())
	assert.True(t, result.IsManualOverride)
}

func TestComputeGrossPayHolidayOnlyMultipliesRegularPay(t *testing.T) {
	profile := hourlyProfile("emp-7", "100")

	plain := ComputeGrossPay(profile, dec("10"), dec("4"), decimal.Zero, decimal.Zero, dec("1"))
	holiday := ComputeGrossPay(profile, dec("10"), dec("4"), decimal.Zero, decimal.Zero, dec("2"))

	assertMoney(t, "1500.00", plain)
	assertMoney(t, "2500.00", holiday)
	// The premium equals the regular-hours pay; overtime is untouched.
	assertMoney(t, "1000.00", holiday.Sub(plain))
}

func TestComputeGrossPayIgnoresMultiplierAtOrBelowOne(t *testing.T) {
	profile := hourlyProfile("emp-8", "100")
	assertMoney(t, "800.00", ComputeGrossPay(profile, dec("8"), decimal.Zero, decimal.Zero, decimal.Zero, dec("0.5")))
	assertMoney(t, "800.00", ComputeGrossPay(profile, dec("8"), decimal.Zero, decimal.Zero, decimal.Zero, dec("1")))
}

func TestComputeGrossPayDailyWithLeave(t *testing.T) {
	profile := Profile{EmployeeID: "emp-9", PayBasis: PayBasisDaily, PayRate: dec("800")}
	got := ComputeGrossPay(profile, dec("8"), decimal.Zero, dec("8"), dec("8"), dec("2"))
	// Leave pays as worked time and earns no holiday premium.
	assertMoney(t, "3200.00", got)
}

func TestComputeGrossPayRoundsHalfUp(t *testing.T) {
	assertMoney(t, "100.01", ComputeGrossPay(hourlyProfile("emp-10", "100.005"), dec("1"), decimal.Zero, decimal.Zero, decimal.Zero, dec("1")))
	assertMoney(t, "-100.00", ComputeGrossPay(hourlyProfile("emp-12", "-100.005"), dec("1"), decimal.Zero, decimal.Zero, decimal.Zero, dec("1")))
	assertMoney(t, "-100.01", ComputeGrossPay(hourlyProfile("emp-13", "-100.006"), dec("1"), decimal.Zero, decimal.Zero, decimal.Zero, dec("1")))
}

func TestComputeGrossPayNegativeRateIsNotRejected(t *testing.T) {
	assertMoney(t, "-800.00", ComputeGrossPay(hourlyProfile("emp-11", "-100"), dec("8"), decimal.Zero, decimal.Zero, decimal.Zero, dec("1")))
}

func TestCalculateRunThreeLinesOneOverridden(t *testing.T) {
	input := RunInput{
		Period: Period{Start: "2026-01-01", End: "2026-01-15", CheckDate: "2026-01-20", PayoutMethod: "bank"},
		Lines: []LineInput{
			{Profile: hourlyProfile("a", "100"), Hours: Hours{Regular: dec("80")}},
			{Profile: Profile{EmployeeID: "b", PayBasis: PayBasisMonthly, PayRate: dec("22000")}, Hours: Hours{Regular: dec("88")}},
			{
				Profile:   Profile{EmployeeID: "c", PayBasis: PayBasisDaily, PayRate: dec("1000")},
				Hours:     Hours{Regular: dec("80")},
				Overrides: Overrides{Gross: decPtr("30000")},
			},
		},
	}

	result := CalculateRun(input, DefaultConstants())
	require.Len(t, result.Lines, 3)
	assert.Equal(t, input.Period, result.Period)
	assert.Equal(t, DefaultCurrency, result.Currency)

	assert.Equal(t, []string{"a", "b", "c"}, []string{result.Lines[0].EmployeeID, result.Lines[1].EmployeeID, result.Lines[2].EmployeeID})
	assert.False(t, result.Lines[0].IsManualOverride)
	assert.False(t, result.Lines[1].IsManualOverride)
	assert.True(t, result.Lines[2].IsManualOverride)

	assertMoney(t, "11000.00", result.Lines[1].GrossPay)
	assertMoney(t, "870.00", result.Lines[1].TotalDeductions)
	assertMoney(t, "30000", result.Lines[2].GrossPay)

	assertMoney(t, "49000.00", result.TotalGross)
	assertMoney(t, "5388.40", result.TotalDeductions)
	assertMoney(t, "43611.60", result.TotalNet)
}

func TestCalculateRunTotalsSumRoundedLines(t *testing.T) {
	zeroTax := func(decimal.Decimal, *TaxStatus) decimal.Decimal { return decimal.Zero }
	noDeductions := Constants{WithholdingTax: zeroTax}

	line := LineInput{Profile: hourlyProfile("x", "100.005"), Hours: Hours{Regular: dec("1")}}
	input := RunInput{Currency: "USD", Lines: []LineInput{line, line, line}}

	result := CalculateRun(input, noDeductions)

	// Each line rounds 100.005 up to 100.01. Rounding the raw sum 300.015
	// would give 300.02; the totals row must match the rows instead.
	sum := decimal.Zero
	for _, l := range result.Lines {
		assertMoney(t, "100.01", l.NetPay)
		sum = sum.Add(l.NetPay)
	}
	assertMoney(t, "300.03", result.TotalNet)
	assertMoney(t, "300.03", result.TotalGross)
	assert.True(t, sum.Round(2).Equal(result.TotalNet))
	assert.Equal(t, "USD", result.Currency)
}

func TestCalculateRunLineMultiplierBeatsRunFlag(t *testing.T) {
	input := RunInput{
		HolidayDoublePay: true,
		Lines: []LineInput{
			{Profile: hourlyProfile("flagged", "100"), Hours: Hours{Regular: dec("8")}},
			{Profile: hourlyProfile("explicit", "100"), Hours: Hours{Regular: dec("8")}, HolidayPayMultiplier: decPtr("1")},
		},
	}

	result := CalculateRun(input, DefaultConstants())
	assertMoney(t, "1600.00", result.Lines[0].GrossPay)
	assertMoney(t, "800.00", result.Lines[1].GrossPay)
	assert.Nil(t, input.Lines[0].HolidayPayMultiplier, "caller input must not be mutated")
}

func TestCalculateRunEmpty(t *testing.T) {
	result := CalculateRun(RunInput{}, DefaultConstants())
	assert.Empty(t, result.Lines)
	assertMoney(t, "0", result.TotalGross)
	assertMoney(t, "0", result.TotalNet)
}

func TestSplitHours(t *testing.T) {
	regular, overtime := SplitHours(dec("92.5"), dec("80"))
	assertMoney(t, "80", regular)
	assertMoney(t, "12.5", overtime)

	regular, overtime = SplitHours(dec("40"), decimal.Zero)
	assertMoney(t, "40", regular)
	assertMoney(t, "0", overtime)
}
