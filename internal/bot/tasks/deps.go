// Package tasks implements the scheduled maintenance tasks of the dispatch
// service: audit log retention and SQLite maintenance.
package tasks

import (
	"log/slog"

	"telegram-dispatch/internal/config"
	"telegram-dispatch/internal/database"
)

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger *slog.Logger
	Store  database.Store
	Config *config.Config
}
