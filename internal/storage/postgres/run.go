package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"pricing_history/internal/domain"
)

type RunStore struct {
	db *sqlx.DB
}

func NewRunStore(db *sqlx.DB) *RunStore {
	return &RunStore{db: db}
}

// Start inserts the run or resets an existing one back to RUNNING.
func (s *RunStore) Start(ctx context.Context, snapshotID, currency string, startedAt time.Time) error {
	query := `
		INSERT INTO snapshot_runs (snapshot_id, currency_code, started_utc, status)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (snapshot_id, currency_code) DO UPDATE SET
			started_utc = EXCLUDED.started_utc,
			status = EXCLUDED.status,
			finished_utc = NULL,
			item_count = NULL`

	_, err := GetExecutor(ctx, s.db).ExecContext(ctx, query, snapshotID, currency, startedAt.UTC(), domain.RunStatusRunning)
	return err
}

// Finish closes a run. Only terminal statuses are accepted.
func (s *RunStore) Finish(ctx context.Context, snapshotID, currency string, status domain.RunStatus, itemCount int) error {
	if !status.Terminal() {
		return fmt.Errorf("finish run with non-terminal status %q", status)
	}

	query := `
		UPDATE snapshot_runs
		SET finished_utc = now(), status = $3, item_count = $4
		WHERE snapshot_id = $1 AND currency_code = $2`

	_, err := GetExecutor(ctx, s.db).ExecContext(ctx, query, snapshotID, currency, status, itemCount)
	return err
}

// MarkFailed fails RUNNING runs of a snapshot. An empty currency matches all currencies.
func (s *RunStore) MarkFailed(ctx context.Context, snapshotID, currency string) (int64, error) {
	var res sql.Result
	var err error

	if currency != "" {
		res, err = GetExecutor(ctx, s.db).ExecContext(ctx, `
			UPDATE snapshot_runs
			SET finished_utc = now(), status = $1
			WHERE snapshot_id = $2 AND currency_code = $3 AND status = $4`,
			domain.RunStatusFailed, snapshotID, currency, domain.RunStatusRunning,
		)
	} else {
		res, err = GetExecutor(ctx, s.db).ExecContext(ctx, `
			UPDATE snapshot_runs
			SET finished_utc = now(), status = $1
			WHERE snapshot_id = $2 AND status = $3`,
			domain.RunStatusFailed, snapshotID, domain.RunStatusRunning,
		)
	}
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ReapHung fails every RUNNING run started more than maxAge ago.
func (s *RunStore) ReapHung(ctx context.Context, maxAge time.Duration) (int64, error) {
	query := `
		UPDATE snapshot_runs
		SET finished_utc = now(), status = $1
		WHERE status = $2
			AND started_utc < now() - make_interval(secs => $3)`

	res, err := GetExecutor(ctx, s.db).ExecContext(ctx, query, domain.RunStatusFailed, domain.RunStatusRunning, maxAge.Seconds())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Get returns the run, or nil when it does not exist.
func (s *RunStore) Get(ctx context.Context, snapshotID, currency string) (*domain.SnapshotRun, error) {
	var run domain.SnapshotRun
	query := `
		SELECT snapshot_id, currency_code, started_utc, finished_utc, status, item_count
		FROM snapshot_runs
		WHERE snapshot_id = $1 AND currency_code = $2`

	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &run, query, snapshotID, currency)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}
