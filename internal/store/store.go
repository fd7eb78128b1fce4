package store

import (
	"context"

	"github.com/MandarKelkarOfficial/talent-sync/internal/entity"
)

// Error Contract:
// All store methods follow this pattern:
// - Return common.ErrNotFound (wrapped) when the job does not exist
// - Return nil for successful operations
// - Return wrapped errors with context for infrastructure failures
//
// Every method that hands a Job out returns a copy: callers never see the
// live record, so status consumers cannot observe a half-written update and
// the raw artifact bytes cannot leak through a shared pointer.

// JobStore is the keyed store behind the coordinator. Point lookups only; a
// durable backing store can be substituted without touching pipeline logic.
type JobStore interface {
	// Create inserts a new job record. The id must be unused.
	Create(ctx context.Context, job *entity.Job) error

	// Get returns a full copy (including raw bytes) for the owning pipeline run.
	Get(ctx context.Context, id string) (*entity.Job, error)

	// Update overwrites the record for job.ID.
	Update(ctx context.Context, job *entity.Job) error

	// Snapshot returns a sanitized copy for status queries: no raw bytes,
	// no caller metadata blob.
	Snapshot(ctx context.Context, id string) (*entity.Job, error)

	// List returns sanitized copies of every job, ordered by creation time.
	List(ctx context.Context) ([]*entity.Job, error)
}
