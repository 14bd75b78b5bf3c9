package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"telegram-dispatch/internal/database"
)

const historyLimit = 10

// NewHistoryHandler returns a handler for the /history command, which lists
// the most recent dispatch audit records. The records are redacted by
// construction: the store never holds secret-typed values.
func NewHistoryHandler(deps HandlerDeps) bot.HandlerFunc {
	return historyHandler{deps}.Handle
}

// historyHandler processes the /history command using injected dependencies.
type historyHandler struct {
	deps HandlerDeps
}

func (h historyHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "history")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "History handler received update with nil message or sender", "update_id", update.ID)
		return
	}
	chatID := update.Message.Chat.ID

	log.InfoContext(ctx, "Handling /history command", "chat_id", chatID, "user_id", update.Message.From.ID)

	records, err := h.deps.Store.RecentDispatches(ctx, historyLimit)
	if err != nil {
		log.ErrorContext(ctx, "Failed to load dispatch history", "error", err)
		h.send(ctx, b, chatID, h.deps.Config.Messages.GeneralError, log)
		return
	}

	if len(records) == 0 {
		h.send(ctx, b, chatID, h.deps.Config.Messages.NoHistory, log)
		return
	}

	h.send(ctx, b, chatID, truncateMessage(formatHistory(records)), log)
}

func (h historyHandler) send(ctx context.Context, b *bot.Bot, chatID int64, text string, log *slog.Logger) {
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text}); err != nil {
		log.ErrorContext(ctx, "Failed to send history reply", "error", err, "chat_id", chatID)
	}
}

// formatHistory renders audit records as one line per dispatch.
func formatHistory(records []database.Dispatch) string {
	var sb strings.Builder
	sb.WriteString("Recent dispatches:\n")
	for _, r := range records {
		fmt.Fprintf(&sb, "%s  %s  %s/%s", r.CreatedAt.Format("2006-01-02 15:04"), r.Status, r.WorkflowOwner, r.WorkflowRepo)
		if r.ChangelogRepository != "" {
			fmt.Fprintf(&sb, "  changelog=%s", r.ChangelogRepository)
		}
		if r.ErrorCode != "" {
			fmt.Fprintf(&sb, "  error=%s", r.ErrorCode)
		}
		fmt.Fprintf(&sb, "  %dms\n", r.DurationMS)
	}
	return sb.String()
}
