package export

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/MandarKelkarOfficial/talent-sync/constants"
	"github.com/MandarKelkarOfficial/talent-sync/internal/entity"
	"github.com/MandarKelkarOfficial/talent-sync/internal/store"
)

func TestExportJobsXLSX(t *testing.T) {
	jobs := store.NewInMemory()
	ctx := context.Background()

	finished := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	done := &entity.Job{
		ID:              "job-done",
		ClaimedIdentity: "Jane Doe",
		Source:          constants.SourceUpload,
		Filename:        "cert.pdf",
		State:           constants.JobStateDone,
		CreatedAt:       finished.Add(-time.Minute),
		FinishedAt:      &finished,
		Verdict: &entity.Verdict{
			Status:      constants.VerdictValid,
			Confidence:  0.95,
			ContentHash: "abc123",
		},
	}
	failed := &entity.Job{
		ID:        "job-failed",
		Source:    constants.SourceURL,
		State:     constants.JobStateFailed,
		CreatedAt: finished,
		Error:     "failed to download from URL: status 404",
	}
	require.NoError(t, jobs.Create(ctx, done))
	require.NoError(t, jobs.Create(ctx, failed))

	svc := NewService(jobs, slog.New(slog.NewTextHandler(io.Discard, nil)))
	data, err := svc.ExportJobsXLSX(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Verifications")
	require.NoError(t, err)
	require.Len(t, rows, 3) // header + 2 jobs

	assert.Equal(t, "Job ID", rows[0][0])
	assert.Equal(t, "job-done", rows[1][0])
	assert.Equal(t, "valid", rows[1][5])
	assert.Equal(t, "abc123", rows[1][7])
	assert.Equal(t, "job-failed", rows[2][0])
	assert.Contains(t, rows[2][9], "status 404")
}

func TestExportEmptyStore(t *testing.T) {
	svc := NewService(store.NewInMemory(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	data, err := svc.ExportJobsXLSX(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
