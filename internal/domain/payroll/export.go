package payroll

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

var registerHeader = []string{
	"employee_id",
	"regular_hours",
	"overtime_hours",
	"sick_leave_hours",
	"paid_leave_hours",
	"gross_pay",
	"taxable_income",
	"sss",
	"philhealth",
	"pagibig",
	"withholding_tax",
	"other_deductions",
	"total_deductions",
	"net_pay",
	"employer_pagibig",
	"manual_override",
}

func registerRow(line LineResult) []string {
	return []string{
		line.EmployeeID,
		line.RegularHours.String(),
		line.OvertimeHours.String(),
		line.SickLeaveHours.String(),
		line.PaidLeaveHours.String(),
		line.GrossPay.StringFixed(2),
		line.TaxableIncome.StringFixed(2),
		line.SSS.StringFixed(2),
		line.PhilHealth.StringFixed(2),
		line.PagIBIG.StringFixed(2),
		line.WithholdingTax.StringFixed(2),
		line.OtherDeductions.StringFixed(2),
		line.TotalDeductions.StringFixed(2),
		line.NetPay.StringFixed(2),
		line.EmployerPagIBIG.StringFixed(2),
		fmt.Sprintf("%t", line.IsManualOverride),
	}
}

func totalsRow(result RunResult) []string {
	row := make([]string, len(registerHeader))
	row[0] = "TOTAL"
	row[5] = result.TotalGross.StringFixed(2)
	row[12] = result.TotalDeductions.StringFixed(2)
	row[13] = result.TotalNet.StringFixed(2)
	return row
}

// RegisterCSV renders the payroll register: one row per line in run order,
// then a totals row. Every column comes from the stored line, so an archived
// run renders the same after the constants change.
func RegisterCSV(result RunResult) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write(registerHeader); err != nil {
		return nil, err
	}
	for _, line := range result.Lines {
		if err := writer.Write(registerRow(line)); err != nil {
			return nil, err
		}
	}
	if err := writer.Write(totalsRow(result)); err != nil {
		return nil, err
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RegisterXLSX renders the register as a workbook with a summary sheet and a
// lines sheet. Amounts are written as numbers so the sheet can be summed.
func RegisterXLSX(result RunResult) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	summarySheet := "summary"
	linesSheet := "lines"
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(linesSheet); err != nil {
		return nil, err
	}

	summary := [][2]any{
		{"Payroll Register", ""},
		{"Period Start", result.Period.Start},
		{"Period End", result.Period.End},
		{"Check Date", result.Period.CheckDate},
		{"GL Post Date", result.Period.GLPostDate},
		{"Payout Method", result.Period.PayoutMethod},
		{"Currency", result.Currency},
		{"Employees", len(result.Lines)},
		{"Total Gross", result.TotalGross.InexactFloat64()},
		{"Total Deductions", result.TotalDeductions.InexactFloat64()},
		{"Total Net", result.TotalNet.InexactFloat64()},
	}
	for i, pair := range summary {
		row := i + 1
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), pair[0])
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), pair[1])
	}

	for col, title := range registerHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		_ = f.SetCellValue(linesSheet, cell, title)
	}
	for i, line := range result.Lines {
		values := []any{
			line.EmployeeID,
			line.RegularHours.InexactFloat64(),
			line.OvertimeHours.InexactFloat64(),
			line.SickLeaveHours.InexactFloat64(),
			line.PaidLeaveHours.InexactFloat64(),
			line.GrossPay.InexactFloat64(),
			line.TaxableIncome.InexactFloat64(),
			line.SSS.InexactFloat64(),
			line.PhilHealth.InexactFloat64(),
			line.PagIBIG.InexactFloat64(),
			line.WithholdingTax.InexactFloat64(),
			line.OtherDeductions.InexactFloat64(),
			line.TotalDeductions.InexactFloat64(),
			line.NetPay.InexactFloat64(),
			line.EmployerPagIBIG.InexactFloat64(),
			line.IsManualOverride,
		}
		if err := f.SetSheetRow(linesSheet, fmt.Sprintf("A%d", i+2), &values); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// PayslipPDF renders one employee's payslip for a run.
func PayslipPDF(period Period, currency string, line LineResult) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Employee: %s", line.EmployeeID))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Period: %s to %s", period.Start, period.End))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Check date: %s", period.CheckDate))
	pdf.Ln(10)

	section := func(title string, rows [][2]string) {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(120, 7, title, "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 7, currency, "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 10)
		for _, row := range rows {
			pdf.CellFormat(120, 6, row[0], "1", 0, "L", false, 0, "")
			pdf.CellFormat(50, 6, row[1], "1", 0, "R", false, 0, "")
			pdf.Ln(-1)
		}
		pdf.Ln(4)
	}

	hours := func(d decimal.Decimal) string { return d.String() + " h" }
	section("Hours", [][2]string{
		{"Regular", hours(line.RegularHours)},
		{"Overtime", hours(line.OvertimeHours)},
		{"Sick leave", hours(line.SickLeaveHours)},
		{"Paid leave", hours(line.PaidLeaveHours)},
	})
	section("Earnings", [][2]string{
		{"Gross pay", line.GrossPay.StringFixed(2)},
		{"Taxable income", line.TaxableIncome.StringFixed(2)},
	})
	section("Deductions", [][2]string{
		{"SSS", line.SSS.StringFixed(2)},
		{"PhilHealth", line.PhilHealth.StringFixed(2)},
		{"Pag-IBIG", line.PagIBIG.StringFixed(2)},
		{"Withholding tax", line.WithholdingTax.StringFixed(2)},
		{"Other deductions", line.OtherDeductions.StringFixed(2)},
		{"Total deductions", line.TotalDeductions.StringFixed(2)},
	})

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Net pay: %s %s", line.NetPay.StringFixed(2), currency))
	pdf.Ln(8)
	if line.IsManualOverride {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.Cell(0, 6, "One or more amounts on this payslip were entered manually.")
		pdf.Ln(6)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
