package payroll

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"phpayroll/internal/platform/metrics"
)

// Service wraps the pure calculators with input validation, metrics and the
// optional run archive.
type Service struct {
	store           StoreAPI
	constants       Constants
	defaultCurrency string
	logger          *zap.Logger
	now             func() time.Time
}

// NewService builds a service. A nil store leaves the archive disabled:
// previews still work, ApproveRun and the readers return ErrArchiveDisabled.
func NewService(store StoreAPI, constants Constants, defaultCurrency string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaultCurrency == "" {
		defaultCurrency = DefaultCurrency
	}
	return &Service{
		store:           store,
		constants:       constants,
		defaultCurrency: defaultCurrency,
		logger:          logger.Named("payroll"),
		now:             time.Now,
	}
}

func (s *Service) Constants() Constants {
	return s.constants
}

func (s *Service) ArchiveEnabled() bool {
	return s.store != nil
}

func (s *Service) PreviewLine(ctx context.Context, input LineInput) (LineResult, error) {
	start := time.Now()
	if err := ValidateLine(input); err != nil {
		s.observe(metrics.KindLine, err, 1, start)
		return LineResult{}, err
	}
	result := CalculateLine(input, s.constants)
	s.observe(metrics.KindLine, nil, 1, start)
	return result, nil
}

func (s *Service) PreviewRun(ctx context.Context, input RunInput) (RunResult, error) {
	start := time.Now()
	result, err := s.calculateRun(input)
	s.observe(metrics.KindRun, err, len(input.Lines), start)
	return result, err
}

// ApproveRun recalculates the run from its inputs and archives the result, so
// what is stored is always what the engine produces, never a client-side copy.
func (s *Service) ApproveRun(ctx context.Context, tenantID, approverID string, input RunInput) (StoredRun, error) {
	if s.store == nil {
		return StoredRun{}, ErrArchiveDisabled
	}
	start := time.Now()
	result, err := s.calculateRun(input)
	if err != nil {
		s.observe(metrics.KindApprove, err, len(input.Lines), start)
		return StoredRun{}, err
	}

	stored, err := s.store.SaveRun(ctx, tenantID, approverID, s.now().UTC(), result)
	s.observe(metrics.KindApprove, err, len(input.Lines), start)
	if err != nil {
		s.logger.Error("payroll run archive failed",
			zap.String("tenant_id", tenantID),
			zap.String("approved_by", approverID),
			zap.Error(err),
		)
		return StoredRun{}, err
	}
	s.logger.Info("payroll run approved",
		zap.String("run_id", stored.ID),
		zap.String("tenant_id", tenantID),
		zap.String("approved_by", approverID),
		zap.Int("lines", len(stored.Lines)),
		zap.String("total_net", stored.TotalNet.StringFixed(2)),
	)
	return stored, nil
}

func (s *Service) GetRun(ctx context.Context, tenantID, runID string) (StoredRun, error) {
	if s.store == nil {
		return StoredRun{}, ErrArchiveDisabled
	}
	return s.store.GetRun(ctx, tenantID, runID)
}

func (s *Service) ListRuns(ctx context.Context, tenantID string, limit, offset int) ([]RunSummary, int, error) {
	if s.store == nil {
		return nil, 0, ErrArchiveDisabled
	}
	total, err := s.store.CountRuns(ctx, tenantID)
	if err != nil {
		return nil, 0, err
	}
	runs, err := s.store.ListRuns(ctx, tenantID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return runs, total, nil
}

// GetLine returns a stored run together with one employee's line from it.
func (s *Service) GetLine(ctx context.Context, tenantID, runID, employeeID string) (StoredRun, LineResult, error) {
	run, err := s.GetRun(ctx, tenantID, runID)
	if err != nil {
		return StoredRun{}, LineResult{}, err
	}
	for _, line := range run.Lines {
		if line.EmployeeID == employeeID {
			return run, line, nil
		}
	}
	return StoredRun{}, LineResult{}, ErrLineNotFound
}

func (s *Service) calculateRun(input RunInput) (RunResult, error) {
	if err := ValidateRun(input); err != nil {
		return RunResult{}, err
	}
	if input.Currency == "" {
		input.Currency = s.defaultCurrency
	}
	return CalculateRun(input, s.constants), nil
}

func (s *Service) observe(kind string, err error, lines int, start time.Time) {
	result := metrics.ResultSuccess
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		result = metrics.ResultInvalid
		s.logger.Debug("payroll input rejected", zap.String("kind", kind), zap.Int("issues", len(verr.Issues)))
	case err != nil:
		result = metrics.ResultError
	}
	metrics.ObserveCalculation(kind, result, lines, time.Since(start))
}
