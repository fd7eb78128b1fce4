package pipeline

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MandarKelkarOfficial/talent-sync/constants"
)

func TestQueueProcessesEnqueuedJobs(t *testing.T) {
	f := newFixture(t)
	queuedJob(t, f, nil)

	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	q := NewQueue(f.proc, quiet, WithWorkers(2), WithQueueSize(8), WithProcessTimeout(5*time.Second))
	require.NoError(t, q.Enqueue(context.Background(), Job{JobID: "job-1"}))

	require.Eventually(t, func() bool {
		j, err := f.jobs.Get(context.Background(), "job-1")
		return err == nil && j.State.IsTerminal()
	}, 5*time.Second, 10*time.Millisecond)

	j, err := f.jobs.Get(context.Background(), "job-1")
	require.NoError(t, err)
	assert.Equal(t, constants.JobStateDone, j.State)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	q.Shutdown(ctx)
}

func TestQueueRejectsAfterShutdown(t *testing.T) {
	f := newFixture(t)
	q := NewQueue(f.proc, slog.New(slog.NewTextHandler(io.Discard, nil)), WithWorkers(1))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	q.Shutdown(ctx)

	// enqueue after shutdown is a logged no-op, never a panic on a closed channel
	assert.NoError(t, q.Enqueue(context.Background(), Job{JobID: "late"}))
	assert.Zero(t, f.dispatcher.calls)
}
