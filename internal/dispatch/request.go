// Package dispatch implements the trigger that forwards upload credentials
// to the external Telegram uploader workflow. A trigger carries five named
// inputs, four of them required, and produces exactly one downstream
// workflow invocation with the inputs renamed as secret-typed fields.
package dispatch

import (
	"fmt"
	"strconv"

	apperrors "telegram-dispatch/internal/errors"
)

// Input names as they appear on the trigger surface.
const (
	InputAPIID               = "API_ID"
	InputAPIHash             = "API_HASH"
	InputBotToken            = "BOT_TOKEN"
	InputChatID              = "CHAT_ID"
	InputChangelogRepository = "CHANGELOG_GITHUB_REPOSITORY"
)

// Names of the forwarded secret-typed fields.
const (
	ForwardAPIID               = "TELEGRAM_API_ID"
	ForwardAPIHash             = "TELEGRAM_API_HASH"
	ForwardBotToken            = "TELEGRAM_BOT_TOKEN"
	ForwardChatID              = "TELEGRAM_CHAT_ID"
	ForwardChangelogRepository = "CHANGELOG_GITHUB_REPOSITORY"
)

// Request carries the inputs of a single manual trigger. It is created
// fresh per invocation and discarded after forwarding; nothing in it is
// persisted.
type Request struct {
	// APIID is the numeric credential identifier. Required.
	APIID int64
	// APIHash is the credential secret material. Required.
	APIHash string
	// BotToken authenticates the sending bot. Required.
	BotToken string
	// ChatID is the destination chat identifier. Required. Group and
	// channel destinations are negative.
	ChatID int64
	// ChangelogRepository optionally names an owner/repo source for
	// changelog text. It is forwarded verbatim; shape validation is left
	// to the uploader workflow.
	ChangelogRepository string
}

// Validate checks that all required inputs are present. It fails fast on
// the first missing input so that no partial forward can ever happen.
func (r Request) Validate() error {
	if r.APIID == 0 {
		return missingInput(InputAPIID)
	}
	if r.APIHash == "" {
		return missingInput(InputAPIHash)
	}
	if r.BotToken == "" {
		return missingInput(InputBotToken)
	}
	if r.ChatID == 0 {
		return missingInput(InputChatID)
	}
	return nil
}

// Inputs returns the forwarded field map: a 1:1 rename of the trigger
// inputs with no transformation of values. The optional changelog
// repository is omitted when absent.
func (r Request) Inputs() map[string]string {
	inputs := map[string]string{
		ForwardAPIID:    strconv.FormatInt(r.APIID, 10),
		ForwardAPIHash:  r.APIHash,
		ForwardBotToken: r.BotToken,
		ForwardChatID:   strconv.FormatInt(r.ChatID, 10),
	}
	if r.ChangelogRepository != "" {
		inputs[ForwardChangelogRepository] = r.ChangelogRepository
	}
	return inputs
}

func missingInput(name string) error {
	return apperrors.NewValidationError(fmt.Sprintf("missing required input: %s", name), nil)
}
