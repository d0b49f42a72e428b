package payroll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) SaveRun(ctx context.Context, tenantID, approvedBy string, approvedAt time.Time, result RunResult) (StoredRun, error) {
	runID := uuid.NewString()

	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return StoredRun{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var createdAt time.Time
	if err := tx.QueryRow(ctx, `
    INSERT INTO payroll_runs (
      id, tenant_id, status, period_start, period_end, check_date, gl_post_date,
      delivery_address, payout_method, currency, line_count,
      total_gross, total_deductions, total_net, approved_by, approved_at
    )
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12::numeric,$13::numeric,$14::numeric,$15,$16)
    RETURNING created_at
  `, runID, tenantID, RunStatusApproved,
		result.Period.Start, result.Period.End, result.Period.CheckDate, result.Period.GLPostDate,
		result.Period.DeliveryAddress, result.Period.PayoutMethod, result.Currency, len(result.Lines),
		result.TotalGross.String(), result.TotalDeductions.String(), result.TotalNet.String(),
		approvedBy, approvedAt,
	).Scan(&createdAt); err != nil {
		return StoredRun{}, fmt.Errorf("insert payroll run: %w", err)
	}

	batch := &pgx.Batch{}
	for i, line := range result.Lines {
		batch.Queue(`
      INSERT INTO payroll_run_lines (
        run_id, line_no, employee_id,
        regular_hours, overtime_hours, sick_leave_hours, paid_leave_hours,
        gross_pay, taxable_income, withholding_tax, sss, philhealth, pagibig,
        other_deductions, total_deductions, net_pay, employer_pagibig, is_manual_override
      )
      VALUES ($1,$2,$3,$4::numeric,$5::numeric,$6::numeric,$7::numeric,$8::numeric,$9::numeric,
              $10::numeric,$11::numeric,$12::numeric,$13::numeric,$14::numeric,$15::numeric,$16::numeric,
              $17::numeric,$18)
    `, runID, i, line.EmployeeID,
			line.RegularHours.String(), line.OvertimeHours.String(), line.SickLeaveHours.String(), line.PaidLeaveHours.String(),
			line.GrossPay.String(), line.TaxableIncome.String(), line.WithholdingTax.String(),
			line.SSS.String(), line.PhilHealth.String(), line.PagIBIG.String(),
			line.OtherDeductions.String(), line.TotalDeductions.String(), line.NetPay.String(),
			line.EmployerPagIBIG.String(), line.IsManualOverride,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return StoredRun{}, fmt.Errorf("insert payroll run lines: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return StoredRun{}, err
	}

	return StoredRun{
		ID:         runID,
		TenantID:   tenantID,
		Status:     RunStatusApproved,
		ApprovedBy: approvedBy,
		ApprovedAt: approvedAt,
		CreatedAt:  createdAt,
		RunResult:  result,
	}, nil
}

func (s *Store) GetRun(ctx context.Context, tenantID, runID string) (StoredRun, error) {
	if _, err := uuid.Parse(runID); err != nil {
		return StoredRun{}, ErrRunNotFound
	}

	run := StoredRun{ID: runID, TenantID: tenantID}
	var totals [3]string
	err := s.DB.QueryRow(ctx, `
    SELECT status, period_start, period_end, check_date, gl_post_date,
           delivery_address, payout_method, currency,
           total_gross::text, total_deductions::text, total_net::text,
           approved_by, approved_at, created_at
    FROM payroll_runs
    WHERE tenant_id = $1 AND id = $2
  `, tenantID, runID).Scan(
		&run.Status, &run.Period.Start, &run.Period.End, &run.Period.CheckDate, &run.Period.GLPostDate,
		&run.Period.DeliveryAddress, &run.Period.PayoutMethod, &run.Currency,
		&totals[0], &totals[1], &totals[2],
		&run.ApprovedBy, &run.ApprovedAt, &run.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return StoredRun{}, ErrRunNotFound
	}
	if err != nil {
		return StoredRun{}, err
	}
	if err := parseDecimals(totals[:], &run.TotalGross, &run.TotalDeductions, &run.TotalNet); err != nil {
		return StoredRun{}, err
	}

	rows, err := s.DB.Query(ctx, `
    SELECT employee_id,
           regular_hours::text, overtime_hours::text, sick_leave_hours::text, paid_leave_hours::text,
           gross_pay::text, taxable_income::text, withholding_tax::text, sss::text, philhealth::text,
           pagibig::text, other_deductions::text, total_deductions::text, net_pay::text,
           employer_pagibig::text, is_manual_override
    FROM payroll_run_lines
    WHERE run_id = $1
    ORDER BY line_no
  `, runID)
	if err != nil {
		return StoredRun{}, err
	}
	defer rows.Close()

	run.Lines = []LineResult{}
	for rows.Next() {
		var line LineResult
		var raw [14]string
		if err := rows.Scan(&line.EmployeeID,
			&raw[0], &raw[1], &raw[2], &raw[3], &raw[4], &raw[5], &raw[6],
			&raw[7], &raw[8], &raw[9], &raw[10], &raw[11], &raw[12], &raw[13],
			&line.IsManualOverride,
		); err != nil {
			return StoredRun{}, err
		}
		if err := parseDecimals(raw[:],
			&line.RegularHours, &line.OvertimeHours, &line.SickLeaveHours, &line.PaidLeaveHours,
			&line.GrossPay, &line.TaxableIncome, &line.WithholdingTax, &line.SSS, &line.PhilHealth,
			&line.PagIBIG, &line.OtherDeductions, &line.TotalDeductions, &line.NetPay,
			&line.EmployerPagIBIG,
		); err != nil {
			return StoredRun{}, err
		}
		run.Lines = append(run.Lines, line)
	}
	return run, rows.Err()
}

func (s *Store) CountRuns(ctx context.Context, tenantID string) (int, error) {
	var total int
	if err := s.DB.QueryRow(ctx, `SELECT COUNT(1) FROM payroll_runs WHERE tenant_id = $1`, tenantID).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) ListRuns(ctx context.Context, tenantID string, limit, offset int) ([]RunSummary, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id::text, status, period_start, period_end, check_date, currency, line_count,
           total_gross::text, total_deductions::text, total_net::text, approved_at
    FROM payroll_runs
    WHERE tenant_id = $1
    ORDER BY approved_at DESC, id
    LIMIT $2 OFFSET $3
  `, tenantID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []RunSummary{}
	for rows.Next() {
		var summary RunSummary
		var totals [3]string
		if err := rows.Scan(&summary.ID, &summary.Status, &summary.PeriodStart, &summary.PeriodEnd, &summary.CheckDate,
			&summary.Currency, &summary.LineCount, &totals[0], &totals[1], &totals[2], &summary.ApprovedAt); err != nil {
			return nil, err
		}
		if err := parseDecimals(totals[:], &summary.TotalGross, &summary.TotalDeductions, &summary.TotalNet); err != nil {
			return nil, err
		}
		runs = append(runs, summary)
	}
	return runs, rows.Err()
}

func parseDecimals(raw []string, targets ...*decimal.Decimal) error {
	for i, target := range targets {
		parsed, err := decimal.NewFromString(raw[i])
		if err != nil {
			return fmt.Errorf("parse stored amount %q: %w", raw[i], err)
		}
		*target = parsed
	}
	return nil
}
