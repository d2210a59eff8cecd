// Package storage persists job review statuses in PostgreSQL.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jonesrussell/jobs-dashboard/internal/logger"
	"github.com/jonesrussell/jobs-dashboard/internal/retry"
)

// ErrStoreUnavailable wraps status-store failures so callers can tell a failed
// fetch apart from an empty result. A view rebuild must never treat it as
// "no statuses".
var ErrStoreUnavailable = errors.New("status store unavailable")

const (
	// insertBatchSize is the maximum number of rows per INSERT statement.
	insertBatchSize = 500

	// opTimeout is the context timeout for each store operation.
	opTimeout = 10 * time.Second

	// maxAttempts bounds the retry loop on invalidated connections.
	maxAttempts = 5

	// retryDelay is the pause between retry attempts.
	retryDelay = 100 * time.Millisecond
)

// StatusStore manages the job_statuses table: one row per known job filename,
// holding its review status.
type StatusStore struct {
	db  *sql.DB
	log logger.Logger
}

// NewStatusStore creates a StatusStore over the given connection pool.
func NewStatusStore(db *sql.DB, log logger.Logger) *StatusStore {
	return &StatusStore{db: db, log: log}
}

// retryConfig is the bounded-retry policy for connection-layer failures.
// database/sql discards a bad pooled connection on error, so each attempt
// acquires a fresh one.
func retryConfig() retry.Config {
	return retry.Config{
		MaxAttempts: maxAttempts,
		Delay:       retryDelay,
		IsRetryable: retry.IsConnectionError,
	}
}

// Init ensures the job_statuses table exists. Idempotent; safe to call on
// every startup.
func (s *StatusStore) Init(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	query := `
		CREATE TABLE IF NOT EXISTS job_statuses (
			filename TEXT PRIMARY KEY,
			status TEXT NOT NULL DEFAULT 'new'
		)
	`

	err := retry.Do(ctx, retryConfig(), func() error {
		_, execErr := s.db.ExecContext(ctx, query)
		return execErr
	})
	if err != nil {
		return fmt.Errorf("%w: create table: %w", ErrStoreUnavailable, err)
	}

	return nil
}

// Sync inserts a default-status row for every canonical filename not already
// present. Existing rows are never modified or deleted, even when a filename
// later disappears from the canonical listing. Inserts are batched so large
// listings avoid per-row round trips.
func (s *StatusStore) Sync(ctx context.Context, filenames []string) error {
	if len(filenames) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	for start := 0; start < len(filenames); start += insertBatchSize {
		end := start + insertBatchSize
		if end > len(filenames) {
			end = len(filenames)
		}

		if err := s.insertMissing(ctx, filenames[start:end]); err != nil {
			return fmt.Errorf("%w: sync batch: %w", ErrStoreUnavailable, err)
		}
	}

	s.log.Debug("Synced status entries",
		logger.Int("filenames", len(filenames)),
	)

	return nil
}

// insertMissing runs one multi-value INSERT for a chunk of filenames.
// ON CONFLICT DO NOTHING keeps the sync additive-only and idempotent.
func (s *StatusStore) insertMissing(ctx context.Context, filenames []string) error {
	var sb strings.Builder
	sb.WriteString("INSERT INTO job_statuses (filename) VALUES ")

	args := make([]any, 0, len(filenames))
	for i, filename := range filenames {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "($%d)", i+1)
		args = append(args, filename)
	}

	sb.WriteString(" ON CONFLICT (filename) DO NOTHING")

	return retry.Do(ctx, retryConfig(), func() error {
		_, err := s.db.ExecContext(ctx, sb.String(), args...)
		return err
	})
}

// GetAll returns the full filename to status mapping. A store failure is
// surfaced as ErrStoreUnavailable, never as an empty map.
func (s *StatusStore) GetAll(ctx context.Context) (map[string]string, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var statuses map[string]string

	err := retry.Do(ctx, retryConfig(), func() error {
		rows, queryErr := s.db.QueryContext(ctx, "SELECT filename, status FROM job_statuses")
		if queryErr != nil {
			return queryErr
		}
		defer func() { _ = rows.Close() }()

		statuses = make(map[string]string)
		for rows.Next() {
			var filename, status string
			if scanErr := rows.Scan(&filename, &status); scanErr != nil {
				return scanErr
			}
			statuses[filename] = status
		}

		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("%w: fetch statuses: %w", ErrStoreUnavailable, err)
	}

	return statuses, nil
}

// Update upserts the status for one filename. The row is created with the
// given status if it does not exist yet.
func (s *StatusStore) Update(ctx context.Context, filename, status string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	query := `
		INSERT INTO job_statuses (filename, status) VALUES ($1, $2)
		ON CONFLICT (filename) DO UPDATE SET status = EXCLUDED.status
	`

	err := retry.Do(ctx, retryConfig(), func() error {
		_, execErr := s.db.ExecContext(ctx, query, filename, status)
		return execErr
	})
	if err != nil {
		return fmt.Errorf("%w: update status: %w", ErrStoreUnavailable, err)
	}

	s.log.Info("Job status updated",
		logger.String("filename", filename),
		logger.String("status", status),
	)

	return nil
}
