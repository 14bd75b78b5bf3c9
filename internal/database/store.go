package database

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// Store defines the interface for audit log operations. Methods accept
// context.Context for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// SaveDispatch inserts a new dispatch audit record.
	SaveDispatch(ctx context.Context, dispatch *Dispatch) error

	// RecentDispatches retrieves the most recent 'limit' audit records,
	// newest first.
	RecentDispatches(ctx context.Context, limit int) ([]Dispatch, error)

	// PurgeDispatchesBefore deletes audit records created before the cutoff
	// and returns the number of rows removed.
	PurgeDispatchesBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// RunSQLMaintenance performs database maintenance tasks like VACUUM.
	RunSQLMaintenance(ctx context.Context) error
}

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a new Store implementation backed by sqlx.
// It requires a connected sqlx.DB instance and a logger.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlxStore) SaveDispatch(ctx context.Context, dispatch *Dispatch) error {
	if dispatch == nil {
		return fmt.Errorf("cannot save nil dispatch")
	}
	if dispatch.WorkflowOwner == "" || dispatch.WorkflowRepo == "" || dispatch.WorkflowFile == "" {
		return fmt.Errorf("dispatch must reference a workflow")
	}
	if dispatch.Status == "" {
		return fmt.Errorf("dispatch must have a status")
	}

	if dispatch.CreatedAt.IsZero() {
		dispatch.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO dispatches
		(workflow_owner, workflow_repo, workflow_file, workflow_ref, changelog_repository, status, error_code, duration_ms, created_at)
		VALUES (:workflow_owner, :workflow_repo, :workflow_file, :workflow_ref, :changelog_repository, :status, :error_code, :duration_ms, :created_at)`

	result, err := s.db.NamedExecContext(ctx, query, dispatch)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to save dispatch record",
			"workflow_repo", dispatch.WorkflowRepo, "status", dispatch.Status, "error", err)
		return fmt.Errorf("failed to save dispatch record: %w", err)
	}

	if id, err := result.LastInsertId(); err == nil {
		dispatch.ID = uint(id)
	}

	s.logger.DebugContext(ctx, "Saved dispatch record",
		"id", dispatch.ID, "status", dispatch.Status)
	return nil
}

func (s *sqlxStore) RecentDispatches(ctx context.Context, limit int) ([]Dispatch, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", limit)
	}

	query := `SELECT id, workflow_owner, workflow_repo, workflow_file, workflow_ref,
		changelog_repository, status, error_code, duration_ms, created_at
		FROM dispatches ORDER BY created_at DESC, id DESC LIMIT ?`

	dispatches := []Dispatch{}
	if err := s.db.SelectContext(ctx, &dispatches, query, limit); err != nil {
		s.logger.ErrorContext(ctx, "Failed to query recent dispatches", "limit", limit, "error", err)
		return nil, fmt.Errorf("failed to query recent dispatches: %w", err)
	}

	return dispatches, nil
}

func (s *sqlxStore) PurgeDispatchesBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM dispatches WHERE created_at < ?`, cutoff.UTC())
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to purge dispatch records", "cutoff", cutoff, "error", err)
		return 0, fmt.Errorf("failed to purge dispatch records: %w", err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count purged dispatch records: %w", err)
	}

	s.logger.InfoContext(ctx, "Purged dispatch records", "cutoff", cutoff, "removed", removed)
	return removed, nil
}

func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	for _, stmt := range []string{"VACUUM", "ANALYZE"} {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			s.logger.ErrorContext(ctx, "Database maintenance statement failed", "statement", stmt, "error", err)
			return fmt.Errorf("maintenance statement %s failed: %w", stmt, err)
		}
	}

	s.logger.InfoContext(ctx, "Database maintenance completed")
	return nil
}
