// Package tables loads jurisdiction rate tables from YAML into a payroll
// constants bundle, so a new tax year is a file change rather than a release.
package tables

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"phpayroll/internal/domain/payroll"
)

// amount accepts YAML numbers or quoted strings; quoting keeps values such as
// 0.045 exact.
type amount struct {
	value decimal.Decimal
	set   bool
}

func (a *amount) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a number", node.Line)
	}
	parsed, err := decimal.NewFromString(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %q is not a number", node.Line, node.Value)
	}
	a.value = parsed
	a.set = true
	return nil
}

func (a amount) or(fallback decimal.Decimal) decimal.Decimal {
	if a.set {
		return a.value
	}
	return fallback
}

type bracketFile struct {
	Floor amount `yaml:"floor"`
	Rate  amount `yaml:"rate"`
	Base  amount `yaml:"base"`
}

type file struct {
	Metadata struct {
		Jurisdiction string `yaml:"jurisdiction"`
		Year         int    `yaml:"year"`
		Period       string `yaml:"period"`
	} `yaml:"metadata"`
	SSS struct {
		EmployeeShareRate amount `yaml:"employee_share_rate"`
		MaxSalary         amount `yaml:"max_salary"`
	} `yaml:"sss"`
	PhilHealth struct {
		Rate       amount `yaml:"rate"`
		MinPremium amount `yaml:"min_premium"`
		MaxPremium amount `yaml:"max_premium"`
	} `yaml:"philhealth"`
	PagIBIG struct {
		EmployeeRate    amount `yaml:"employee_rate"`
		EmployerRate    amount `yaml:"employer_rate"`
		MaxContribution amount `yaml:"max_contribution"`
	} `yaml:"pagibig"`
	WithholdingTax struct {
		Brackets []bracketFile            `yaml:"brackets"`
		ByStatus map[string][]bracketFile `yaml:"by_status"`
	} `yaml:"withholding_tax"`
}

// Load reads a tables file from disk. See Parse.
func Load(path string) (payroll.Constants, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return payroll.Constants{}, fmt.Errorf("read payroll tables: %w", err)
	}
	constants, err := Parse(data)
	if err != nil {
		return payroll.Constants{}, fmt.Errorf("%s: %w", path, err)
	}
	return constants, nil
}

// Parse decodes a tables document. Any rate left out keeps its value from
// payroll.DefaultConstants; a by_status section yields a status-aware tax function.
func Parse(data []byte) (payroll.Constants, error) {
	var doc file
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return payroll.Constants{}, fmt.Errorf("%w: %v", payroll.ErrInvalidTaxTables, err)
	}

	defaults := payroll.DefaultConstants()
	constants := payroll.Constants{
		SSS: payroll.SSSRates{
			EmployeeShareRate: doc.SSS.EmployeeShareRate.or(defaults.SSS.EmployeeShareRate),
			MaxSalary:         doc.SSS.MaxSalary.or(defaults.SSS.MaxSalary),
		},
		PhilHealth: payroll.PhilHealthRates{
			Rate:       doc.PhilHealth.Rate.or(defaults.PhilHealth.Rate),
			MinPremium: doc.PhilHealth.MinPremium.or(defaults.PhilHealth.MinPremium),
			MaxPremium: doc.PhilHealth.MaxPremium.or(defaults.PhilHealth.MaxPremium),
		},
		PagIBIG: payroll.PagIBIGRates{
			EmployeeRate:    doc.PagIBIG.EmployeeRate.or(defaults.PagIBIG.EmployeeRate),
			EmployerRate:    doc.PagIBIG.EmployerRate.or(defaults.PagIBIG.EmployerRate),
			MaxContribution: doc.PagIBIG.MaxContribution.or(defaults.PagIBIG.MaxContribution),
		},
	}
	if constants.PhilHealth.MinPremium.GreaterThan(constants.PhilHealth.MaxPremium) {
		return payroll.Constants{}, fmt.Errorf("%w: philhealth min_premium exceeds max_premium", payroll.ErrInvalidTaxTables)
	}

	schedule := payroll.DefaultTaxSchedule()
	if len(doc.WithholdingTax.Brackets) > 0 {
		parsed, err := toSchedule("withholding_tax.brackets", doc.WithholdingTax.Brackets)
		if err != nil {
			return payroll.Constants{}, err
		}
		schedule = parsed
	}

	if len(doc.WithholdingTax.ByStatus) == 0 {
		constants.WithholdingTax = schedule.Func()
		return constants, nil
	}

	byStatus := make(map[payroll.TaxStatus]payroll.TaxSchedule, len(doc.WithholdingTax.ByStatus))
	for rawStatus, brackets := range doc.WithholdingTax.ByStatus {
		status := payroll.TaxStatus(rawStatus)
		if !status.Valid() {
			return payroll.Constants{}, fmt.Errorf("%w: unknown tax status %q", payroll.ErrInvalidTaxTables, rawStatus)
		}
		parsed, err := toSchedule("withholding_tax.by_status."+rawStatus, brackets)
		if err != nil {
			return payroll.Constants{}, err
		}
		byStatus[status] = parsed
	}
	constants.WithholdingTax = payroll.StatusSchedules{Default: schedule, ByStatus: byStatus}.Func()
	return constants, nil
}

func toSchedule(field string, brackets []bracketFile) (payroll.TaxSchedule, error) {
	schedule := make(payroll.TaxSchedule, 0, len(brackets))
	for i, b := range brackets {
		if !b.Floor.set || !b.Rate.set {
			return nil, fmt.Errorf("%w: %s[%d] needs floor and rate", payroll.ErrInvalidTaxTables, field, i)
		}
		schedule = append(schedule, payroll.TaxBracket{
			Floor: b.Floor.value,
			Rate:  b.Rate.value,
			Base:  b.Base.or(decimal.Zero),
		})
	}
	if err := schedule.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", payroll.ErrInvalidTaxTables, field, err)
	}
	return schedule, nil
}
