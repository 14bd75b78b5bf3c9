package tasks

import (
	"context"
	"fmt"
	"time"
)

// newAuditRetentionTask creates the scheduled task that purges dispatch
// audit records older than the configured retention window.
func newAuditRetentionTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "audit_retention")

	return func(ctx context.Context) error {
		retention := time.Duration(deps.Config.Database.RetentionDays) * 24 * time.Hour
		cutoff := time.Now().UTC().Add(-retention)

		log.InfoContext(ctx, "Starting audit retention sweep", "cutoff", cutoff)
		startTime := time.Now()

		removed, err := deps.Store.PurgeDispatchesBefore(ctx, cutoff)
		duration := time.Since(startTime)

		if err != nil {
			log.ErrorContext(ctx, "Audit retention sweep failed", "error", err, "duration", duration)
			return fmt.Errorf("audit retention sweep failed: %w", err)
		}

		log.InfoContext(ctx, "Audit retention sweep completed", "removed", removed, "duration", duration)
		return nil
	}
}
