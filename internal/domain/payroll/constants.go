package payroll

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	DefaultCurrency = "PHP"

	RunStatusApproved = "approved"

	WorkingDaysPerMonth = 22
	HoursPerDay         = 8

	// DefaultRegularHoursCap is the per-period threshold above which timesheet
	// hours are routed to overtime.
	DefaultRegularHoursCap = 80
)

var (
	hoursPerDay        = decimal.NewFromInt(HoursPerDay)
	hoursPerMonth      = decimal.NewFromInt(WorkingDaysPerMonth * HoursPerDay)
	overtimeMultiplier = decimal.RequireFromString("1.25")
	holidayDoublePay   = decimal.NewFromInt(2)
	one                = decimal.NewFromInt(1)
	two                = decimal.NewFromInt(2)
)

// TaxFunc maps taxable income and an optional filing status to a withholding amount.
type TaxFunc func(taxable decimal.Decimal, status *TaxStatus) decimal.Decimal

type SSSRates struct {
	EmployeeShareRate decimal.Decimal
	MaxSalary         decimal.Decimal
}

type PhilHealthRates struct {
	Rate       decimal.Decimal
	MinPremium decimal.Decimal
	MaxPremium decimal.Decimal
}

type PagIBIGRates struct {
	EmployeeRate    decimal.Decimal
	EmployerRate    decimal.Decimal
	MaxContribution decimal.Decimal
}

// Constants is the jurisdiction bundle every calculation is parameterised by.
type Constants struct {
	SSS            SSSRates
	PhilHealth     PhilHealthRates
	PagIBIG        PagIBIGRates
	WithholdingTax TaxFunc
}

// DefaultConstants returns simplified SSS, PhilHealth, Pag-IBIG and TRAIN figures.
// A fresh value is built on each call so callers may adjust it freely.
func DefaultConstants() Constants {
	return Constants{
		SSS: SSSRates{
			EmployeeShareRate: decimal.RequireFromString("0.045"),
			MaxSalary:         decimal.NewFromInt(25000),
		},
		PhilHealth: PhilHealthRates{
			Rate:       decimal.RequireFromString("0.05"),
			MinPremium: decimal.NewFromInt(500),
			MaxPremium: decimal.NewFromInt(2500),
		},
		PagIBIG: PagIBIGRates{
			EmployeeRate:    decimal.RequireFromString("0.02"),
			EmployerRate:    decimal.RequireFromString("0.02"),
			MaxContribution: decimal.NewFromInt(100),
		},
		WithholdingTax: DefaultTaxSchedule().Func(),
	}
}

type TaxBracket struct {
	Floor decimal.Decimal
	Rate  decimal.Decimal
	Base  decimal.Decimal
}

// TaxSchedule is a progressive table ordered by ascending Floor. Income above a
// bracket's floor is taxed as Base + (income - Floor) * Rate.
type TaxSchedule []TaxBracket

// DefaultTaxSchedule is the TRAIN monthly table. It is applied to whatever
// taxable income is passed in; semi-monthly callers must supply their own.
func DefaultTaxSchedule() TaxSchedule {
	return TaxSchedule{
		{Floor: decimal.Zero, Rate: decimal.Zero, Base: decimal.Zero},
		{Floor: decimal.NewFromInt(20833), Rate: decimal.RequireFromString("0.20"), Base: decimal.Zero},
		{Floor: decimal.NewFromInt(33333), Rate: decimal.RequireFromString("0.25"), Base: decimal.NewFromInt(2500)},
		{Floor: decimal.NewFromInt(66667), Rate: decimal.RequireFromString("0.30"), Base: decimal.NewFromInt(10833)},
		{Floor: decimal.NewFromInt(166667), Rate: decimal.RequireFromString("0.32"), Base: decimal.NewFromInt(40833)},
		{Floor: decimal.NewFromInt(666667), Rate: decimal.RequireFromString("0.35"), Base: decimal.NewFromInt(200833)},
	}
}

// Tax evaluates the schedule using the bracket that contains income: the last
// bracket whose floor lies below it. Income at or below the first floor pays
// the first bracket's Base. The formula is applied as written, so a table whose
// Base undershoots the previous bracket's ceiling makes tax step down there;
// DefaultTaxSchedule does this by 0.50 just above 66667.
func (s TaxSchedule) Tax(income decimal.Decimal) decimal.Decimal {
	if len(s) == 0 {
		return decimal.Zero
	}
	if income.LessThanOrEqual(s[0].Floor) {
		return s[0].Base
	}
	bracket := s[0]
	for _, next := range s[1:] {
		if income.LessThanOrEqual(next.Floor) {
			break
		}
		bracket = next
	}
	return bracket.Base.Add(income.Sub(bracket.Floor).Mul(bracket.Rate))
}

func (s TaxSchedule) Func() TaxFunc {
	return func(taxable decimal.Decimal, _ *TaxStatus) decimal.Decimal {
		return s.Tax(taxable)
	}
}

func (s TaxSchedule) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("tax schedule has no brackets")
	}
	for i, bracket := range s {
		if bracket.Rate.IsNegative() {
			return fmt.Errorf("bracket %d: rate must not be negative", i)
		}
		if bracket.Base.IsNegative() {
			return fmt.Errorf("bracket %d: base must not be negative", i)
		}
		if i > 0 && !bracket.Floor.GreaterThan(s[i-1].Floor) {
			return fmt.Errorf("bracket %d: floor %s must exceed previous floor %s", i, bracket.Floor, s[i-1].Floor)
		}
	}
	return nil
}

// StatusSchedules selects a schedule by filing status, falling back to Default
// for a nil or unlisted status.
type StatusSchedules struct {
	Default  TaxSchedule
	ByStatus map[TaxStatus]TaxSchedule
}

func (s StatusSchedules) Func() TaxFunc {
	return func(taxable decimal.Decimal, status *TaxStatus) decimal.Decimal {
		if status != nil {
			if schedule, ok := s.ByStatus[*status]; ok {
				return schedule.Tax(taxable)
			}
		}
		return s.Default.Tax(taxable)
	}
}
