package payroll

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeSSSCapBoundary(t *testing.T) {
	constants := DefaultConstants()

	atCap := ComputeSSS(dec("25000"), constants)
	assertMoney(t, "1125.00", atCap)
	assert.True(t, atCap.Equal(constants.SSS.MaxSalary.Mul(constants.SSS.EmployeeShareRate)))

	for _, gross := range []string{"25000.01", "30000", "1000000"} {
		assertMoney(t, "1125.00", ComputeSSS(dec(gross), constants))
	}
	assertMoney(t, "450.00", ComputeSSS(dec("10000"), constants))
}

func TestComputePhilHealthClamp(t *testing.T) {
	constants := DefaultConstants()
	cases := []struct {
		gross string
		want  string
	}{
		{"0", "250.00"},
		{"8000", "250.00"},
		{"10000", "250.00"},
		{"23250", "581.25"},
		{"50000", "1250.00"},
		{"200000", "1250.00"},
		{"12345.67", "308.64"},
	}
	for _, tc := range cases {
		assertMoney(t, tc.want, ComputePhilHealth(dec(tc.gross), constants))
	}
}

func TestComputePagIBIGCap(t *testing.T) {
	constants := DefaultConstants()
	assertMoney(t, "60.00", ComputePagIBIG(dec("3000"), constants))
	assertMoney(t, "100.00", ComputePagIBIG(dec("5000"), constants))
	assertMoney(t, "100.00", ComputePagIBIG(dec("80000"), constants))
	assertMoney(t, "60.00", ComputePagIBIGEmployer(dec("3000"), constants))
}

func TestComputeWithholdingTaxDefaultSchedule(t *testing.T) {
	constants := DefaultConstants()
	cases := []struct {
		income string
		want   string
	}{
		{"0", "0"},
		{"20833", "0"},
		{"25000", "833.40"},
		{"33333", "2500.00"},
		{"50000", "6666.75"},
		{"100000", "20832.90"},
		{"166667", "40833.00"},
		{"200000", "51499.56"},
		{"1000000", "317499.55"},
	}
	for _, tc := range cases {
		assertMoney(t, tc.want, ComputeWithholdingTax(dec(tc.income), nil, constants))
	}
}

func TestComputeWithholdingTaxUsesContainingBracket(t *testing.T) {
	constants := DefaultConstants()

	assertMoney(t, "10833.50", ComputeWithholdingTax(dec("66667"), nil, constants))
	assertMoney(t, "10833.30", ComputeWithholdingTax(dec("66668"), nil, constants))

	custom := TaxSchedule{
		{Floor: decimal.Zero, Rate: dec("0.10"), Base: decimal.Zero},
		{Floor: dec("1000"), Rate: dec("0.05"), Base: decimal.Zero},
	}
	assertMoney(t, "50.00", custom.Tax(dec("2000")))
	assertMoney(t, "100.00", custom.Tax(dec("1000")))
}

func TestDefaultTaxScheduleStepsDownAbove66667(t *testing.T) {
	constants := DefaultConstants()

	at := ComputeWithholdingTax(dec("66667"), nil, constants)
	above := ComputeWithholdingTax(dec("66667.01"), nil, constants)
	assertMoney(t, "10833.50", at)
	assertMoney(t, "10833.00", above)
	assertMoney(t, "0.50", at.Sub(above))
}

func TestTaxScheduleIsMonotonicWhenBasesAreContinuous(t *testing.T) {
	schedule := DefaultTaxSchedule()
	schedule[3].Base = dec("10833.50")
	schedule[4].Base = dec("40833.50")
	schedule[5].Base = dec("200833.50")
	constants := DefaultConstants()
	constants.WithholdingTax = schedule.Func()
	status := TaxStatusSingle

	var incomes []decimal.Decimal
	for i := int64(0); i <= 800000; i += 977 {
		incomes = append(incomes, decimal.NewFromInt(i))
	}
	for _, bracket := range schedule {
		for _, delta := range []string{"-0.01", "0", "0.01", "0.5", "1", "5", "10"} {
			incomes = append(incomes, bracket.Floor.Add(dec(delta)))
		}
	}
	sortDecimals(incomes)

	previous := ComputeWithholdingTax(incomes[0], &status, constants)
	for _, income := range incomes[1:] {
		tax := ComputeWithholdingTax(income, &status, constants)
		require.True(t, tax.GreaterThanOrEqual(previous), "tax dropped at %s: %s < %s", income, tax, previous)
		previous = tax
	}
}

func sortDecimals(values []decimal.Decimal) {
	for i := 1; i < len(values); i++ {
		for j := i; j > 0 && values[j].LessThan(values[j-1]); j-- {
			values[j], values[j-1] = values[j-1], values[j]
		}
	}
}

func TestComputeWithholdingTaxNilFuncUsesDefault(t *testing.T) {
	assertMoney(t, "833.40", ComputeWithholdingTax(dec("25000"), nil, Constants{}))
}

func TestStatusSchedulesBranchOnStatus(t *testing.T) {
	head := TaxStatusHead
	married := TaxStatusME
	schedules := StatusSchedules{
		Default: DefaultTaxSchedule(),
		ByStatus: map[TaxStatus]TaxSchedule{
			TaxStatusHead: {{Floor: decimal.Zero, Rate: dec("0.10"), Base: decimal.Zero}},
		},
	}
	constants := DefaultConstants()
	constants.WithholdingTax = schedules.Func()

	assertMoney(t, "2500.00", ComputeWithholdingTax(dec("25000"), &head, constants))
	assertMoney(t, "833.40", ComputeWithholdingTax(dec("25000"), &married, constants))
	assertMoney(t, "833.40", ComputeWithholdingTax(dec("25000"), nil, constants))
}

func TestTaxScheduleValidate(t *testing.T) {
	require.NoError(t, DefaultTaxSchedule().Validate())

	assert.Error(t, TaxSchedule{}.Validate())
	assert.Error(t, TaxSchedule{
		{Floor: dec("0"), Rate: dec("0"), Base: dec("0")},
		{Floor: dec("0"), Rate: dec("0.1"), Base: dec("0")},
	}.Validate())
	assert.Error(t, TaxSchedule{{Floor: dec("0"), Rate: dec("-0.1"), Base: dec("0")}}.Validate())
}
