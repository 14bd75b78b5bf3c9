package handlers

import (
	"context"
	"errors"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"telegram-dispatch/internal/dispatch"
	apperrors "telegram-dispatch/internal/errors"
)

// NewDispatchHandler returns a handler for the /dispatch command. It builds
// a fresh trigger request from the configured uploader credentials and
// forwards it; an optional argument overrides the changelog repository for
// this invocation only.
func NewDispatchHandler(deps HandlerDeps) bot.HandlerFunc {
	return dispatchHandler{deps}.Handle
}

// dispatchHandler processes the /dispatch command using injected dependencies.
type dispatchHandler struct {
	deps HandlerDeps
}

func (h dispatchHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "dispatch")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Dispatch handler received update with nil message or sender", "update_id", update.ID)
		return
	}
	chatID := update.Message.Chat.ID

	log.InfoContext(ctx, "Handling /dispatch command", "chat_id", chatID, "user_id", update.Message.From.ID)

	uploader := h.deps.Config.Uploader
	req := dispatch.Request{
		APIID:               uploader.APIID,
		APIHash:             uploader.APIHash,
		BotToken:            uploader.BotToken,
		ChatID:              uploader.ChatID,
		ChangelogRepository: uploader.ChangelogRepository,
	}
	if override := commandArgument(update.Message.Text); override != "" {
		req.ChangelogRepository = override
	}

	reply := h.deps.Config.Messages.DispatchAccepted
	if err := h.deps.Dispatcher.Trigger(ctx, req); err != nil {
		var validationErr *apperrors.ValidationError
		if errors.As(err, &validationErr) {
			// Validation messages name the missing input, never its value.
			reply = h.deps.Config.Messages.DispatchRejected + err.Error()
		} else {
			reply = h.deps.Config.Messages.GeneralError
		}
		log.ErrorContext(ctx, "Dispatch trigger failed", "error", err, "chat_id", chatID)
	}

	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: reply}); err != nil {
		log.ErrorContext(ctx, "Failed to send dispatch reply", "error", err, "chat_id", chatID)
	}
}
