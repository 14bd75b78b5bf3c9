package handlers

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestCommandArgument(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "no argument", input: "/dispatch", want: ""},
		{name: "simple argument", input: "/dispatch owner/repo", want: "owner/repo"},
		{name: "bot mention form", input: "/dispatch@uploadbot owner/repo", want: "owner/repo"},
		{name: "extra whitespace", input: "/preview   owner/repo  ", want: "owner/repo"},
		{name: "only first argument used", input: "/preview owner/repo trailing", want: "owner/repo"},
		{name: "empty text", input: "", want: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := commandArgument(tc.input); got != tc.want {
				t.Errorf("commandArgument(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestTruncateMessage(t *testing.T) {
	t.Parallel()

	short := "hello"
	if got := truncateMessage(short); got != short {
		t.Errorf("truncateMessage(%q) = %q, want unchanged", short, got)
	}

	long := strings.Repeat("x", maxMessageLength+100)
	got := truncateMessage(long)
	if len(got) != maxMessageLength {
		t.Errorf("truncateMessage() length = %d, want %d", len(got), maxMessageLength)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncateMessage() should end with ellipsis")
	}

	// Commit subjects are often non-ASCII; truncation must never split a
	// multi-byte character.
	wide := strings.Repeat("é", maxMessageLength+100)
	got = truncateMessage(wide)
	if !utf8.ValidString(got) {
		t.Errorf("truncateMessage() produced invalid UTF-8")
	}
	if n := utf8.RuneCountInString(got); n != maxMessageLength {
		t.Errorf("truncateMessage() rune count = %d, want %d", n, maxMessageLength)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncateMessage() should end with ellipsis")
	}
}
