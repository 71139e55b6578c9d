package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type DiagnosticsStore struct {
	db *sqlx.DB
}

func NewDiagnosticsStore(db *sqlx.DB) *DiagnosticsStore {
	return &DiagnosticsStore{db: db}
}

func (s *DiagnosticsStore) Record(ctx context.Context, functionName, message string) error {
	_, err := GetExecutor(ctx, s.db).ExecContext(ctx,
		"INSERT INTO function_diagnostics (function_name, message) VALUES ($1, $2)",
		functionName, message,
	)
	return err
}
