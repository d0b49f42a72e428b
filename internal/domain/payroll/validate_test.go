package payroll

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func issueFields(t *testing.T, err error) []string {
	t.Helper()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected *ValidationError, got %v", err)
	fields := make([]string, 0, len(verr.Issues))
	for _, issue := range verr.Issues {
		fields = append(fields, issue.Field)
	}
	return fields
}

func TestValidateLineAcceptsWellFormedInput(t *testing.T) {
	status := TaxStatusSingle
	err := ValidateLine(LineInput{
		Profile:              Profile{EmployeeID: "e1", PayBasis: PayBasisMonthly, PayRate: dec("22000"), TaxStatus: &status},
		Hours:                Hours{Regular: dec("80"), Overtime: dec("2")},
		HolidayPayMultiplier: decPtr("2"),
	})
	assert.NoError(t, err)
}

func TestValidateLineCollectsEveryIssue(t *testing.T) {
	status := TaxStatus("X")
	err := ValidateLine(LineInput{
		Profile:              Profile{PayBasis: "Weekly", PayRate: dec("0"), TaxStatus: &status},
		Hours:                Hours{Regular: dec("-1"), PaidLeave: dec("-4")},
		HolidayPayMultiplier: decPtr("0.5"),
		Overrides:            Overrides{Tax: decPtr("-10")},
	})

	assert.ElementsMatch(t, []string{
		"employee.employeeId",
		"employee.payBasis",
		"employee.payRate",
		"employee.taxStatus",
		"hours.regularHours",
		"hours.paidLeaveHours",
		"holidayPayMultiplier",
		"overrides.taxOverride",
	}, issueFields(t, err))
	assert.Contains(t, err.Error(), "invalid payroll input")
}

func TestValidateLineGrossOverrideExcusesMissingRate(t *testing.T) {
	err := ValidateLine(LineInput{
		Profile:   Profile{EmployeeID: "e1", PayBasis: PayBasisHourly},
		Overrides: Overrides{Gross: decPtr("5000")},
	})
	assert.NoError(t, err)
}

func TestValidateRunChecksPeriodCapacity(t *testing.T) {
	input := RunInput{
		Period: Period{Start: "2026-02-01", End: "2026-02-02"},
		Lines: []LineInput{
			{Profile: hourlyProfile("ok", "100"), Hours: Hours{Regular: dec("48")}},
			{Profile: hourlyProfile("over", "100"), Hours: Hours{Regular: dec("40"), Overtime: dec("8.5")}},
		},
	}
	assert.Equal(t, []string{"lines[1].hours"}, issueFields(t, ValidateRun(input)))
}

func TestValidateRunSkipsCapacityForOpaqueDates(t *testing.T) {
	input := RunInput{
		Period: Period{Start: "first half of Feb", End: "n/a"},
		Lines:  []LineInput{{Profile: hourlyProfile("e1", "100"), Hours: Hours{Regular: dec("1000")}}},
	}
	assert.NoError(t, ValidateRun(input))
}

func TestValidateRunRejectsReversedPeriod(t *testing.T) {
	input := RunInput{Period: Period{Start: "2026-02-15", End: "2026-02-01"}}
	assert.Equal(t, []string{"period.periodEnd"}, issueFields(t, ValidateRun(input)))
}

func TestValidateRunRejectsDuplicateEmployeeIDs(t *testing.T) {
	input := RunInput{
		Period: Period{Start: "2026-02-01", End: "2026-02-15"},
		Lines: []LineInput{
			{Profile: hourlyProfile("e1", "100"), Hours: Hours{Regular: dec("8")}},
			{Profile: hourlyProfile("e2", "100"), Hours: Hours{Regular: dec("8")}},
			{Profile: hourlyProfile("e1", "120"), Hours: Hours{Regular: dec("4")}},
		},
	}
	err := ValidateRun(input)
	assert.Equal(t, []string{"lines[2].employee.employeeId"}, issueFields(t, err))

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "duplicates lines[0]", verr.Issues[0].Reason)
}
