// Package changelog renders release-notes text for a source repository,
// used to preview what the uploader workflow will attach to an upload.
package changelog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	apperrors "telegram-dispatch/internal/errors"
	"telegram-dispatch/internal/github"
)

const defaultCommitLimit = 20

// CommitLister lists recent commits of a repository. *github.Client
// satisfies this interface.
type CommitLister interface {
	ListCommits(ctx context.Context, owner, repo string, limit int) ([]github.Commit, error)
}

// Summarizer turns a raw commit list into a short human-readable changelog.
type Summarizer interface {
	Summarize(ctx context.Context, notes string) (string, error)
}

// Builder fetches commits and renders changelog text.
type Builder struct {
	commits     CommitLister
	summarizer  Summarizer
	logger      *slog.Logger
	commitLimit int
}

// NewBuilder creates a changelog Builder. The summarizer may be nil, in
// which case the plain commit list is returned.
func NewBuilder(commits CommitLister, summarizer Summarizer, logger *slog.Logger) (*Builder, error) {
	if commits == nil {
		return nil, apperrors.NewConfigError("nil commit lister", nil)
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Builder{
		commits:     commits,
		summarizer:  summarizer,
		logger:      logger.With("component", "changelog"),
		commitLimit: defaultCommitLimit,
	}, nil
}

// Build renders changelog text for the given "owner/repo" source. When a
// summarizer is configured its output is used; if summarization fails the
// plain commit list is returned instead, since a preview should not fail
// on a cosmetic step.
func (b *Builder) Build(ctx context.Context, repository string) (string, error) {
	owner, repo, err := SplitRepository(repository)
	if err != nil {
		return "", err
	}

	commits, err := b.commits.ListCommits(ctx, owner, repo, b.commitLimit)
	if err != nil {
		return "", err
	}
	if len(commits) == 0 {
		return "", apperrors.NewAPIError(fmt.Sprintf("no commits found in %s", repository), nil)
	}

	notes := render(repository, commits)

	if b.summarizer == nil {
		return notes, nil
	}

	summary, err := b.summarizer.Summarize(ctx, notes)
	if err != nil {
		b.logger.WarnContext(ctx, "Changelog summarization failed, using plain commit list",
			"repository", repository, "error", err)
		return notes, nil
	}

	return summary, nil
}

// SplitRepository splits an "owner/repo" source into its parts. Note that
// the forwarded CHANGELOG_GITHUB_REPOSITORY field is passed through without
// this check; only the local preview needs a usable shape.
func SplitRepository(repository string) (owner, repo string, err error) {
	parts := strings.Split(repository, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", apperrors.NewValidationError(
			fmt.Sprintf("changelog repository must look like owner/repo, got %q", repository), nil)
	}
	return parts[0], parts[1], nil
}

// render produces the plain commit list: one line per commit subject.
func render(repository string, commits []github.Commit) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Changelog for %s:\n", repository)
	for _, c := range commits {
		subject := c.Commit.Message
		if idx := strings.IndexByte(subject, '\n'); idx != -1 {
			subject = subject[:idx]
		}
		sha := c.SHA
		if len(sha) > 7 {
			sha = sha[:7]
		}
		fmt.Fprintf(&sb, "- %s (%s)\n", subject, sha)
	}
	return sb.String()
}
