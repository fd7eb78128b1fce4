package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MandarKelkarOfficial/talent-sync/internal/common"
	"github.com/MandarKelkarOfficial/talent-sync/internal/entity"
)

// PostgresJobStore persists jobs as JSON documents in a single point-lookup
// table. Durable alternative to the in-memory backend; same contract.
type PostgresJobStore struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

const pgSchema = `
CREATE TABLE IF NOT EXISTS verification_job (
	id         TEXT PRIMARY KEY,
	state      TEXT        NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	data       JSONB       NOT NULL
)`

// NewPostgres connects a pool and ensures the job table exists.
func NewPostgres(ctx context.Context, dsn string, log *slog.Logger) (*PostgresJobStore, error) {
	if log == nil {
		log = slog.Default()
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, pgSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure job table: %w", err)
	}
	return &PostgresJobStore{pool: pool, log: log}, nil
}

// Close releases the underlying pool.
func (s *PostgresJobStore) Close() { s.pool.Close() }

func (s *PostgresJobStore) Create(ctx context.Context, job *entity.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode job: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO verification_job (id, state, created_at, data) VALUES ($1, $2, $3, $4)`,
		job.ID, string(job.State), job.CreatedAt, data)
	if err != nil {
		s.log.Error("job create failed", "job_id", job.ID, "err", err)
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

func (s *PostgresJobStore) Get(ctx context.Context, id string) (*entity.Job, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT data FROM verification_job WHERE id = $1`, id).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("job %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("select job: %w", err)
	}
	var job entity.Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("decode job: %w", err)
	}
	return &job, nil
}

func (s *PostgresJobStore) Update(ctx context.Context, job *entity.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode job: %w", err)
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE verification_job SET state = $2, data = $3 WHERE id = $1`,
		job.ID, string(job.State), data)
	if err != nil {
		s.log.Error("job update failed", "job_id", job.ID, "err", err)
		return fmt.Errorf("update job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("job %s: %w", job.ID, common.ErrNotFound)
	}
	return nil
}

func (s *PostgresJobStore) Snapshot(ctx context.Context, id string) (*entity.Job, error) {
	job, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return job.Sanitized(), nil
}

func (s *PostgresJobStore) List(ctx context.Context) ([]*entity.Job, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT data FROM verification_job ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var out []*entity.Job
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		var job entity.Job
		if err := json.Unmarshal(data, &job); err != nil {
			return nil, fmt.Errorf("decode job: %w", err)
		}
		out = append(out, job.Sanitized())
	}
	return out, rows.Err()
}
