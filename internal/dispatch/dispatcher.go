package dispatch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"telegram-dispatch/internal/database"
	apperrors "telegram-dispatch/internal/errors"
)

// WorkflowRef identifies the external reusable workflow that receives the
// forwarded inputs.
type WorkflowRef struct {
	Owner string
	Repo  string
	File  string
	Ref   string
}

func (w WorkflowRef) String() string {
	return fmt.Sprintf("%s/%s/%s@%s", w.Owner, w.Repo, w.File, w.Ref)
}

// Forwarder produces the single downstream workflow invocation for a
// trigger. *github.Client satisfies this interface.
type Forwarder interface {
	DispatchWorkflow(ctx context.Context, owner, repo, workflowFile, gitRef string, inputs map[string]string) error
}

// Dispatcher validates trigger requests and forwards them to the external
// workflow. Each trigger is a fresh, independent side effect: no retries,
// no idempotency key, no deduplication. Concurrent triggers share no
// mutable state.
type Dispatcher struct {
	forwarder Forwarder
	workflow  WorkflowRef
	store     database.Store
	logger    *slog.Logger
}

// NewDispatcher creates a Dispatcher targeting the given workflow. The
// store may be nil, in which case no audit records are written.
func NewDispatcher(forwarder Forwarder, workflow WorkflowRef, store database.Store, logger *slog.Logger) (*Dispatcher, error) {
	if forwarder == nil {
		return nil, apperrors.NewConfigError("nil forwarder", nil)
	}
	if workflow.Owner == "" || workflow.Repo == "" || workflow.File == "" {
		return nil, apperrors.NewConfigError("incomplete workflow reference", nil)
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if workflow.Ref == "" {
		workflow.Ref = "main"
	}

	return &Dispatcher{
		forwarder: forwarder,
		workflow:  workflow,
		store:     store,
		logger:    logger.With("component", "dispatcher"),
	}, nil
}

// Trigger validates the request and forwards it to the uploader workflow.
// A missing required input rejects the trigger before any forwarding
// occurs. Any error from the forward is surfaced to the caller as-is;
// recovery is the caller's decision, never the dispatcher's.
func (d *Dispatcher) Trigger(ctx context.Context, req Request) error {
	if err := req.Validate(); err != nil {
		d.logger.WarnContext(ctx, "Trigger rejected", "error", err)
		return err
	}

	startTime := time.Now()
	forwardErr := d.forwarder.DispatchWorkflow(ctx, d.workflow.Owner, d.workflow.Repo, d.workflow.File, d.workflow.Ref, req.Inputs())
	duration := time.Since(startTime)

	d.record(ctx, req, forwardErr, duration)

	if forwardErr != nil {
		d.logger.ErrorContext(ctx, "Forward failed",
			"workflow", d.workflow.String(), "duration", duration, "error", forwardErr)
		return forwardErr
	}

	d.logger.InfoContext(ctx, "Forwarded trigger to uploader workflow",
		"workflow", d.workflow.String(), "duration", duration)
	return nil
}

// record writes a redacted audit row. Audit failures are logged but never
// surfaced: the forward already happened and its outcome stands.
func (d *Dispatcher) record(ctx context.Context, req Request, forwardErr error, duration time.Duration) {
	if d.store == nil {
		return
	}

	record := &database.Dispatch{
		WorkflowOwner:       d.workflow.Owner,
		WorkflowRepo:        d.workflow.Repo,
		WorkflowFile:        d.workflow.File,
		WorkflowRef:         d.workflow.Ref,
		ChangelogRepository: req.ChangelogRepository,
		Status:              database.StatusForwarded,
		DurationMS:          duration.Milliseconds(),
		CreatedAt:           time.Now().UTC(),
	}
	if forwardErr != nil {
		record.Status = database.StatusFailed
		record.ErrorCode = apperrors.Code(forwardErr)
	}

	if err := d.store.SaveDispatch(ctx, record); err != nil {
		d.logger.WarnContext(ctx, "Failed to save dispatch audit record", "error", err)
	}
}
