package handlers

import (
	"strings"
	"unicode/utf8"
)

// maxMessageLength is the Telegram hard limit for a single text message,
// counted in characters rather than bytes.
const maxMessageLength = 4096

// commandArgument extracts the argument following a command, handling the
// "/cmd@botname arg" form. Returns "" when the command has no argument.
func commandArgument(text string) string {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return ""
	}
	return fields[1]
}

// truncateMessage trims text so it fits in a single Telegram message.
// Truncation happens on rune boundaries so a multi-byte character is never
// split.
func truncateMessage(text string) string {
	if utf8.RuneCountInString(text) <= maxMessageLength {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxMessageLength-3]) + "..."
}
