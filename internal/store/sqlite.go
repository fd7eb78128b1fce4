package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite"

	"github.com/MandarKelkarOfficial/talent-sync/internal/common"
	"github.com/MandarKelkarOfficial/talent-sync/internal/entity"
)

// SQLiteJobStore is the single-file durable backend, handy for local runs
// where standing up postgres is not worth it.
type SQLiteJobStore struct {
	db  *sql.DB
	log *slog.Logger
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS verification_job (
	id         TEXT PRIMARY KEY,
	state      TEXT    NOT NULL,
	created_at INTEGER NOT NULL,
	data       TEXT    NOT NULL
)`

// NewSQLite opens (creating if needed) the database at path.
func NewSQLite(ctx context.Context, path string, log *slog.Logger) (*SQLiteJobStore, error) {
	if log == nil {
		log = slog.Default()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// modernc sqlite is not safe for concurrent writers over one connection.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure job table: %w", err)
	}
	return &SQLiteJobStore{db: db, log: log}, nil
}

// Close closes the underlying database.
func (s *SQLiteJobStore) Close() error { return s.db.Close() }

func (s *SQLiteJobStore) Create(ctx context.Context, job *entity.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode job: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO verification_job (id, state, created_at, data) VALUES (?, ?, ?, ?)`,
		job.ID, string(job.State), job.CreatedAt.UnixNano(), string(data))
	if err != nil {
		s.log.Error("job create failed", "job_id", job.ID, "err", err)
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

func (s *SQLiteJobStore) Get(ctx context.Context, id string) (*entity.Job, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM verification_job WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("job %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("select job: %w", err)
	}
	var job entity.Job
	if err := json.Unmarshal([]byte(data), &job); err != nil {
		return nil, fmt.Errorf("decode job: %w", err)
	}
	return &job, nil
}

func (s *SQLiteJobStore) Update(ctx context.Context, job *entity.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode job: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE verification_job SET state = ?, data = ? WHERE id = ?`,
		string(job.State), string(data), job.ID)
	if err != nil {
		s.log.Error("job update failed", "job_id", job.ID, "err", err)
		return fmt.Errorf("update job: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("job %s: %w", job.ID, common.ErrNotFound)
	}
	return nil
}

func (s *SQLiteJobStore) Snapshot(ctx context.Context, id string) (*entity.Job, error) {
	job, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return job.Sanitized(), nil
}

func (s *SQLiteJobStore) List(ctx context.Context) ([]*entity.Job, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT data FROM verification_job ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			s.log.Warn("rows close failed", "err", cerr)
		}
	}()

	var out []*entity.Job
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		var job entity.Job
		if err := json.Unmarshal([]byte(data), &job); err != nil {
			return nil, fmt.Errorf("decode job: %w", err)
		}
		out = append(out, job.Sanitized())
	}
	return out, rows.Err()
}
