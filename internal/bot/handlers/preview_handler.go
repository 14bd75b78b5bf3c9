package handlers

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewPreviewHandler returns a handler for the /preview command, which
// renders the changelog that the next dispatch would reference. An optional
// argument overrides the configured changelog repository.
func NewPreviewHandler(deps HandlerDeps) bot.HandlerFunc {
	return previewHandler{deps}.Handle
}

// previewHandler processes the /preview command using injected dependencies.
type previewHandler struct {
	deps HandlerDeps
}

func (h previewHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "preview")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Preview handler received update with nil message or sender", "update_id", update.ID)
		return
	}
	chatID := update.Message.Chat.ID

	repository := commandArgument(update.Message.Text)
	if repository == "" {
		repository = h.deps.Config.Uploader.ChangelogRepository
	}

	log.InfoContext(ctx, "Handling /preview command", "chat_id", chatID, "repository", repository)

	if repository == "" {
		h.reply(ctx, b, chatID, h.deps.Config.Messages.ChangelogUnavailable, log)
		return
	}

	notes, err := h.deps.Changelog.Build(ctx, repository)
	if err != nil {
		log.ErrorContext(ctx, "Changelog preview failed", "error", err, "repository", repository)
		h.reply(ctx, b, chatID, h.deps.Config.Messages.GeneralError, log)
		return
	}

	h.reply(ctx, b, chatID, truncateMessage(notes), log)
}

func (h previewHandler) reply(ctx context.Context, b *bot.Bot, chatID int64, text string, log *slog.Logger) {
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text}); err != nil {
		log.ErrorContext(ctx, "Failed to send preview reply", "error", err, "chat_id", chatID)
	}
}
