package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

type PayBasis string

const (
	PayBasisHourly  PayBasis = "Hourly"
	PayBasisDaily   PayBasis = "Daily"
	PayBasisMonthly PayBasis = "Monthly"
)

func (b PayBasis) Valid() bool {
	switch b {
	case PayBasisHourly, PayBasisDaily, PayBasisMonthly:
		return true
	}
	return false
}

// TaxStatus is the BIR filing classification carried on an employee record.
type TaxStatus string

const (
	TaxStatusSingle     TaxStatus = "S"
	TaxStatusME         TaxStatus = "ME"
	TaxStatusME1        TaxStatus = "ME1"
	TaxStatusME2        TaxStatus = "ME2"
	TaxStatusME3        TaxStatus = "ME3"
	TaxStatusME4        TaxStatus = "ME4"
	TaxStatusMarried    TaxStatus = "Married"
	TaxStatusHead       TaxStatus = "Head"
	TaxStatusAdditional TaxStatus = "Additional"
)

var knownTaxStatuses = []TaxStatus{
	TaxStatusSingle, TaxStatusME, TaxStatusME1, TaxStatusME2, TaxStatusME3, TaxStatusME4,
	TaxStatusMarried, TaxStatusHead, TaxStatusAdditional,
}

func (s TaxStatus) Valid() bool {
	for _, known := range knownTaxStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Profile is the compensation slice of an employee record. The engine only reads it.
type Profile struct {
	EmployeeID string          `json:"employeeId"`
	PayBasis   PayBasis        `json:"payBasis"`
	PayRate    decimal.Decimal `json:"payRate"`
	TaxStatus  *TaxStatus      `json:"taxStatus,omitempty"`
}

type Hours struct {
	Regular   decimal.Decimal `json:"regularHours"`
	Overtime  decimal.Decimal `json:"overtimeHours"`
	SickLeave decimal.Decimal `json:"sickLeaveHours"`
	PaidLeave decimal.Decimal `json:"paidLeaveHours"`
}

func (h Hours) Total() decimal.Decimal {
	return h.Regular.Add(h.Overtime).Add(h.SickLeave).Add(h.PaidLeave)
}

// Overrides replace computed fields of a single line. A nil field means "compute it".
type Overrides struct {
	Gross           *decimal.Decimal `json:"grossOverride,omitempty"`
	Tax             *decimal.Decimal `json:"taxOverride,omitempty"`
	SSS             *decimal.Decimal `json:"sssOverride,omitempty"`
	PhilHealth      *decimal.Decimal `json:"philhealthOverride,omitempty"`
	PagIBIG         *decimal.Decimal `json:"pagIbigOverride,omitempty"`
	OtherDeductions *decimal.Decimal `json:"otherDeductionsOverride,omitempty"`
}

func (o Overrides) Any() bool {
	return o.Gross != nil ||
		o.Tax != nil ||
		o.SSS != nil ||
		o.PhilHealth != nil ||
		o.PagIBIG != nil ||
		o.OtherDeductions != nil
}

type LineInput struct {
	Profile              Profile          `json:"employee"`
	Hours                Hours            `json:"hours"`
	HolidayPayMultiplier *decimal.Decimal `json:"holidayPayMultiplier,omitempty"`
	Overrides            Overrides        `json:"overrides"`
}

type LineResult struct {
	EmployeeID       string          `json:"employeeId"`
	RegularHours     decimal.Decimal `json:"regularHours"`
	OvertimeHours    decimal.Decimal `json:"overtimeHours"`
	SickLeaveHours   decimal.Decimal `json:"sickLeaveHours"`
	PaidLeaveHours   decimal.Decimal `json:"paidLeaveHours"`
	GrossPay         decimal.Decimal `json:"grossPay"`
	TaxableIncome    decimal.Decimal `json:"taxableIncome"`
	WithholdingTax   decimal.Decimal `json:"withholdingTax"`
	SSS              decimal.Decimal `json:"sss"`
	PhilHealth       decimal.Decimal `json:"philhealth"`
	PagIBIG          decimal.Decimal `json:"pagIbig"`
	OtherDeductions  decimal.Decimal `json:"otherDeductions"`
	TotalDeductions  decimal.Decimal `json:"totalDeductions"`
	NetPay           decimal.Decimal `json:"netPay"`
	EmployerPagIBIG  decimal.Decimal `json:"employerPagIbig"`
	IsManualOverride bool            `json:"isManualOverride"`
}

// Period fields are opaque labels; they are echoed back without parsing.
type Period struct {
	Start           string `json:"periodStart"`
	End             string `json:"periodEnd"`
	CheckDate       string `json:"checkDate"`
	GLPostDate      string `json:"glPostDate,omitempty"`
	DeliveryAddress string `json:"deliveryAddress,omitempty"`
	PayoutMethod    string `json:"payoutMethod,omitempty"`
}

type RunInput struct {
	Period           Period      `json:"period"`
	Currency         string      `json:"currency,omitempty"`
	HolidayDoublePay bool        `json:"holidayDoublePayEnabled"`
	Lines            []LineInput `json:"lines"`
}

type RunResult struct {
	Period          Period          `json:"period"`
	Currency        string          `json:"currency"`
	Lines           []LineResult    `json:"lines"`
	TotalGross      decimal.Decimal `json:"totalGross"`
	TotalDeductions decimal.Decimal `json:"totalDeductions"`
	TotalNet        decimal.Decimal `json:"totalNet"`
}

// StoredRun is an approved run as kept by the archive.
type StoredRun struct {
	ID         string    `json:"id"`
	TenantID   string    `json:"tenantId"`
	Status     string    `json:"status"`
	ApprovedBy string    `json:"approvedBy"`
	ApprovedAt time.Time `json:"approvedAt"`
	CreatedAt  time.Time `json:"createdAt"`
	RunResult
}

// RunSummary is the list view of a stored run; lines are omitted.
type RunSummary struct {
	ID              string          `json:"id"`
	Status          string          `json:"status"`
	PeriodStart     string          `json:"periodStart"`
	PeriodEnd       string          `json:"periodEnd"`
	CheckDate       string          `json:"checkDate"`
	Currency        string          `json:"currency"`
	LineCount       int             `json:"lineCount"`
	TotalGross      decimal.Decimal `json:"totalGross"`
	TotalDeductions decimal.Decimal `json:"totalDeductions"`
	TotalNet        decimal.Decimal `json:"totalNet"`
	ApprovedAt      time.Time       `json:"approvedAt"`
}
