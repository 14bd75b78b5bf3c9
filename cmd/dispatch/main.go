// Package main contains the one-shot CLI entrypoint: it performs a single
// manual trigger of the uploader workflow and exits.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"telegram-dispatch/internal/config"
	"telegram-dispatch/internal/database"
	"telegram-dispatch/internal/dispatch"
	apperrors "telegram-dispatch/internal/errors"
	"telegram-dispatch/internal/github"
	"telegram-dispatch/internal/logger"

	_ "modernc.org/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run loads configuration, merges CLI flags over the configured uploader
// credentials, and performs exactly one trigger. It returns an exit code
// (0 for success, 1 for failure).
func run(ctx context.Context) int {
	apiID := flag.Int64("api-id", 0, "Telegram API ID (overrides config)")
	apiHash := flag.String("api-hash", "", "Telegram API hash (overrides config)")
	botToken := flag.String("bot-token", "", "Telegram bot token (overrides config)")
	chatID := flag.Int64("chat-id", 0, "Destination chat ID (overrides config)")
	changelogRepo := flag.String("changelog-repo", "", "Changelog source repository as owner/repo (overrides config)")
	noAudit := flag.Bool("no-audit", false, "Skip writing the dispatch audit record")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(log)

	req := dispatch.Request{
		APIID:               cfg.Uploader.APIID,
		APIHash:             cfg.Uploader.APIHash,
		BotToken:            cfg.Uploader.BotToken,
		ChatID:              cfg.Uploader.ChatID,
		ChangelogRepository: cfg.Uploader.ChangelogRepository,
	}
	if *apiID != 0 {
		req.APIID = *apiID
	}
	if *apiHash != "" {
		req.APIHash = *apiHash
	}
	if *botToken != "" {
		req.BotToken = *botToken
	}
	if *chatID != 0 {
		req.ChatID = *chatID
	}
	if *changelogRepo != "" {
		req.ChangelogRepository = *changelogRepo
	}

	ghClient, err := github.NewClient(cfg.GitHub.BaseURL, cfg.GitHub.Token, cfg.GitHub.Timeout, log)
	if err != nil {
		log.Error("Failed to create GitHub client", "error", err)
		return 1
	}

	var store database.Store
	if !*noAudit {
		db, err := database.NewDB(cfg.Database.Path)
		if err != nil {
			log.Error("Failed to open audit database", "path", cfg.Database.Path, "error", err)
			return 1
		}
		defer database.CloseDB(db)
		store = database.NewStore(db, log)
	}

	dispatcher, err := dispatch.NewDispatcher(ghClient, dispatch.WorkflowRef{
		Owner: cfg.Workflow.Owner,
		Repo:  cfg.Workflow.Repo,
		File:  cfg.Workflow.File,
		Ref:   cfg.Workflow.Ref,
	}, store, log)
	if err != nil {
		log.Error("Failed to create dispatcher", "error", err)
		return 1
	}

	if err := dispatcher.Trigger(ctx, req); err != nil {
		var validationErr *apperrors.ValidationError
		if errors.As(err, &validationErr) {
			log.Error("Trigger rejected before forwarding", "error", err)
		} else {
			log.Error("Trigger failed", "error", err)
		}
		return 1
	}

	log.Info("Trigger forwarded to uploader workflow",
		"workflow_owner", cfg.Workflow.Owner,
		"workflow_repo", cfg.Workflow.Repo,
		"workflow_file", cfg.Workflow.File)
	return 0
}
