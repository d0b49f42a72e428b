package payroll

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phpayroll/internal/platform/db"
)

func TestStoreRoundTrip(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := db.Connect(ctx, dbURL)
	require.NoError(t, err)
	defer pool.Close()
	require.NoError(t, db.Migrate(ctx, pool, filepath.Join("..", "..", "..", "migrations"), nil))

	store := NewStore(pool)
	tenant := "tenant-" + uuid.NewString()
	result := CalculateRun(RunInput{
		Period: Period{Start: "2026-01-01", End: "2026-01-15", CheckDate: "2026-01-20", PayoutMethod: "bank"},
		Lines: []LineInput{
			{Profile: hourlyProfile("a", "100.005"), Hours: Hours{Regular: dec("1")}},
			{Profile: hourlyProfile("b", "100"), Hours: Hours{Regular: dec("80.5")}, Overrides: Overrides{Tax: decPtr("12.34")}},
		},
	}, DefaultConstants())

	approvedAt := time.Date(2026, 1, 20, 1, 0, 0, 0, time.UTC)
	saved, err := store.SaveRun(ctx, tenant, "u1", approvedAt, result)
	require.NoError(t, err)

	loaded, err := store.GetRun(ctx, tenant, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, result.Period, loaded.Period)
	assert.True(t, approvedAt.Equal(loaded.ApprovedAt))
	require.Len(t, loaded.Lines, 2)
	assert.Equal(t, "a", loaded.Lines[0].EmployeeID)
	assertMoney(t, result.Lines[0].NetPay.String(), loaded.Lines[0].NetPay)
	assertMoney(t, "80.5", loaded.Lines[1].RegularHours)
	assertMoney(t, result.Lines[1].EmployerPagIBIG.String(), loaded.Lines[1].EmployerPagIBIG)
	assert.True(t, loaded.Lines[1].IsManualOverride)
	assertMoney(t, result.TotalNet.String(), loaded.TotalNet)

	_, err = store.GetRun(ctx, "other-tenant", saved.ID)
	assert.ErrorIs(t, err, ErrRunNotFound)
	_, err = store.GetRun(ctx, tenant, "not-a-uuid")
	assert.ErrorIs(t, err, ErrRunNotFound)

	total, err := store.CountRuns(ctx, tenant)
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	summaries, err := store.ListRuns(ctx, tenant, 10, 0)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, saved.ID, summaries[0].ID)
	assert.Equal(t, 2, summaries[0].LineCount)
}
