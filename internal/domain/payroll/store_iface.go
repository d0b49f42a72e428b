package payroll

import (
	"context"
	"time"
)

// StoreAPI is the run archive. Only approved runs are written; a run is never
// updated after it has been stored.
type StoreAPI interface {
	SaveRun(ctx context.Context, tenantID, approvedBy string, approvedAt time.Time, result RunResult) (StoredRun, error)
	GetRun(ctx context.Context, tenantID, runID string) (StoredRun, error)
	CountRuns(ctx context.Context, tenantID string) (int, error)
	ListRuns(ctx context.Context, tenantID string, limit, offset int) ([]RunSummary, error)
}
