package payroll

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrRunNotFound      = errors.New("payroll run not found")
	ErrLineNotFound     = errors.New("payroll line not found")
	ErrArchiveDisabled  = errors.New("payroll run archive is not configured")
	ErrInvalidTaxTables = errors.New("invalid payroll tax tables")
)

type Issue struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError collects every problem found in one input; it is never
// returned with an empty issue list.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, fmt.Sprintf("%s %s", issue.Field, issue.Reason))
	}
	return "invalid payroll input: " + strings.Join(parts, "; ")
}
