package store

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MandarKelkarOfficial/talent-sync/constants"
	"github.com/MandarKelkarOfficial/talent-sync/internal/common"
)

func testSQLite(t *testing.T) *SQLiteJobStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jobs.db")
	s, err := NewSQLite(context.Background(), path, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteRoundTrip(t *testing.T) {
	s := testSQLite(t)
	ctx := context.Background()

	j := sampleJob("a", time.Now().UTC().Truncate(time.Microsecond))
	require.NoError(t, s.Create(ctx, j))

	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, j.ID, got.ID)
	assert.Equal(t, j.RawBytes, got.RawBytes)
	assert.Equal(t, j.Metadata, got.Metadata)
	assert.Equal(t, constants.JobStateQueued, got.State)

	got.State = constants.JobStateDone
	require.NoError(t, s.Update(ctx, got))

	again, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, constants.JobStateDone, again.State)
}

func TestSQLiteNotFound(t *testing.T) {
	s := testSQLite(t)
	ctx := context.Background()

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)

	err = s.Update(ctx, sampleJob("missing", time.Now().UTC()))
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSQLiteDuplicateCreate(t *testing.T) {
	s := testSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, sampleJob("a", time.Now().UTC())))
	assert.Error(t, s.Create(ctx, sampleJob("a", time.Now().UTC())))
}

func TestSQLiteListSanitizedAndOrdered(t *testing.T) {
	s := testSQLite(t)
	ctx := context.Background()
	base := time.Now().UTC()

	require.NoError(t, s.Create(ctx, sampleJob("newer", base.Add(time.Minute))))
	require.NoError(t, s.Create(ctx, sampleJob("older", base)))

	jobs, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "older", jobs[0].ID)
	assert.Equal(t, "newer", jobs[1].ID)
	for _, j := range jobs {
		assert.Nil(t, j.RawBytes)
		assert.Empty(t, j.Metadata)
	}

	snap, err := s.Snapshot(ctx, "older")
	require.NoError(t, err)
	assert.Nil(t, snap.RawBytes)
}
