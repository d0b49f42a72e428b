package payroll

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const periodDateLayout = "2006-01-02"

var hoursPerCalendarDay = decimal.NewFromInt(24)

type issueList []Issue

func (l *issueList) add(field, reason string) {
	*l = append(*l, Issue{Field: field, Reason: reason})
}

func (l issueList) err() error {
	if len(l) == 0 {
		return nil
	}
	return &ValidationError{Issues: l}
}

// ValidateLine rejects inputs the calculators would silently turn into
// nonsense. It is an opt-in pass; CalculateLine itself never fails.
func ValidateLine(input LineInput) error {
	var issues issueList
	validateLine(&issues, "", input, decimal.Zero)
	return issues.err()
}

// ValidateRun checks every line, rejects a repeated employeeId and, when the
// period bounds parse as YYYY-MM-DD, that no line books more hours than the
// period holds.
func ValidateRun(input RunInput) error {
	var issues issueList

	capacity := decimal.Zero
	start, startErr := time.Parse(periodDateLayout, input.Period.Start)
	end, endErr := time.Parse(periodDateLayout, input.Period.End)
	if startErr == nil && endErr == nil {
		if end.Before(start) {
			issues.add("period.periodEnd", "must be on or after periodStart")
		} else {
			days := int64(end.Sub(start).Hours()/24) + 1
			capacity = hoursPerCalendarDay.Mul(decimal.NewFromInt(days))
		}
	}

	seen := make(map[string]int, len(input.Lines))
	for i, line := range input.Lines {
		prefix := fmt.Sprintf("lines[%d].", i)
		validateLine(&issues, prefix, line, capacity)
		id := line.Profile.EmployeeID
		if id == "" {
			continue
		}
		if first, ok := seen[id]; ok {
			issues.add(prefix+"employee.employeeId", fmt.Sprintf("duplicates lines[%d]", first))
			continue
		}
		seen[id] = i
	}
	return issues.err()
}

func validateLine(issues *issueList, prefix string, input LineInput, capacity decimal.Decimal) {
	profile := input.Profile
	if profile.EmployeeID == "" {
		issues.add(prefix+"employee.employeeId", "is required")
	}
	if !profile.PayBasis.Valid() {
		issues.add(prefix+"employee.payBasis", "must be one of Hourly, Daily, Monthly")
	}
	if !profile.PayRate.IsPositive() && input.Overrides.Gross == nil {
		issues.add(prefix+"employee.payRate", "must be greater than zero")
	}
	if profile.TaxStatus != nil && !profile.TaxStatus.Valid() {
		issues.add(prefix+"employee.taxStatus", "is not a recognised tax status")
	}

	hours := []struct {
		field string
		value decimal.Decimal
	}{
		{"hours.regularHours", input.Hours.Regular},
		{"hours.overtimeHours", input.Hours.Overtime},
		{"hours.sickLeaveHours", input.Hours.SickLeave},
		{"hours.paidLeaveHours", input.Hours.PaidLeave},
	}
	for _, h := range hours {
		if h.value.IsNegative() {
			issues.add(prefix+h.field, "must not be negative")
		}
	}
	if capacity.IsPositive() && input.Hours.Total().GreaterThan(capacity) {
		issues.add(prefix+"hours", fmt.Sprintf("total exceeds the period capacity of %s hours", capacity))
	}

	if input.HolidayPayMultiplier != nil && input.HolidayPayMultiplier.LessThan(one) {
		issues.add(prefix+"holidayPayMultiplier", "must be at least 1")
	}

	overrides := []struct {
		field string
		value *decimal.Decimal
	}{
		{"overrides.grossOverride", input.Overrides.Gross},
		{"overrides.taxOverride", input.Overrides.Tax},
		{"overrides.sssOverride", input.Overrides.SSS},
		{"overrides.philhealthOverride", input.Overrides.PhilHealth},
		{"overrides.pagIbigOverride", input.Overrides.PagIBIG},
		{"overrides.otherDeductionsOverride", input.Overrides.OtherDeductions},
	}
	for _, o := range overrides {
		if o.value != nil && o.value.IsNegative() {
			issues.add(prefix+o.field, "must not be negative")
		}
	}
}
