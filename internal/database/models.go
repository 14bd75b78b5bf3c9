package database

import "time"

// Dispatch statuses recorded in the audit log.
const (
	StatusForwarded = "forwarded"
	StatusFailed    = "failed"
)

// Dispatch is one redacted audit record of a trigger invocation. It
// deliberately holds no secret-typed values: credentials are forwarded to
// the uploader workflow and discarded, never persisted.
type Dispatch struct {
	ID                  uint      `db:"id"`
	WorkflowOwner       string    `db:"workflow_owner"`
	WorkflowRepo        string    `db:"workflow_repo"`
	WorkflowFile        string    `db:"workflow_file"`
	WorkflowRef         string    `db:"workflow_ref"`
	ChangelogRepository string    `db:"changelog_repository"`
	Status              string    `db:"status"`
	ErrorCode           string    `db:"error_code"`
	DurationMS          int64     `db:"duration_ms"`
	CreatedAt           time.Time `db:"created_at"`
}
