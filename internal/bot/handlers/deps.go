// Package handlers contains the Telegram bot command handlers for the
// dispatch trigger surface, along with their registration logic and
// middleware.
package handlers

import (
	"log/slog"

	"telegram-dispatch/internal/changelog"
	"telegram-dispatch/internal/config"
	"telegram-dispatch/internal/database"
	"telegram-dispatch/internal/dispatch"
)

// HandlerDeps provides dependencies for Telegram command handlers.
type HandlerDeps struct {
	Logger     *slog.Logger
	Config     *config.Config
	Store      database.Store
	Dispatcher *dispatch.Dispatcher
	Changelog  *changelog.Builder
}
