// Package main contains the entrypoint for the long-lived dispatch bot: a
// Telegram surface from which the admin manually triggers uploads.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbot "github.com/go-telegram/bot"

	"telegram-dispatch/internal/bot"
	"telegram-dispatch/internal/bot/handlers"
	"telegram-dispatch/internal/bot/tasks"
	"telegram-dispatch/internal/changelog"
	"telegram-dispatch/internal/config"
	"telegram-dispatch/internal/database"
	"telegram-dispatch/internal/dispatch"
	"telegram-dispatch/internal/github"
	"telegram-dispatch/internal/logger"
	"telegram-dispatch/internal/telegram"

	_ "modernc.org/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop() // Ensure context cancellation is signaled before exit
	os.Exit(exitCode)
}

// run initializes and starts all application components (config, logger,
// db, github client, dispatcher, bot, scheduler), handles graceful
// shutdown, and returns an exit code (0 for success, 1 for failure).
func run(ctx context.Context) int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}
	if err := cfg.ValidateBot(); err != nil {
		slog.Error("Invalid bot configuration", "error", err)
		return 1
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(log)
	log.Info("Logger initialized", "level", cfg.Log.Level, "format", cfg.Log.Format)

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Error("Failed to connect to database", "path", cfg.Database.Path, "error", err)
		return 1
	}
	defer database.CloseDB(db)
	store := database.NewStore(db, log)

	ghClient, err := github.NewClient(cfg.GitHub.BaseURL, cfg.GitHub.Token, cfg.GitHub.Timeout, log)
	if err != nil {
		log.Error("Failed to create GitHub client", "error", err)
		return 1
	}

	summarizer, err := changelog.NewGeminiSummarizer(ctx, cfg.Gemini, log)
	if err != nil {
		log.Error("Failed to initialize changelog summarizer", "error", err)
		return 1
	}
	changelogBuilder, err := changelog.NewBuilder(ghClient, summarizer, log)
	if err != nil {
		log.Error("Failed to create changelog builder", "error", err)
		return 1
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

	hDeps := handlers.HandlerDeps{
		Logger:     log,
		Config:     cfg,
		Store:      store,
		Dispatcher: dispatcher,
		Changelog:  changelogBuilder,
	}
	tDeps := tasks.TaskDeps{
		Logger: log,
		Store:  store,
		Config: cfg,
	}

	botOpts := []tgbot.Option{
		tgbot.WithMiddlewares(logger.Middleware(log)),
	}
	tg, err := telegram.NewTelegramBot(cfg.Telegram.Token, log, botOpts...)
	if err != nil {
		log.Error("Failed to create Telegram bot", "error", err)
		return 1
	}

	me, err := tg.GetMe(ctx)
	if err != nil {
		log.Error("Failed to get bot info", "error", err)
		return 1
	}
	log.Info("Retrieved bot info", "bot_id", me.ID, "bot_username", me.Username)

	cmdHandlers := handlers.RegisterAllCommands(hDeps)
	if err := telegram.RegisterHandlers(tg, log, cmdHandlers); err != nil {
		log.Error("Failed to register Telegram handlers", "error", err)
		return 1
	}

	sched := bot.NewScheduler(log, &cfg.Scheduler, tasks.RegisterAllTasks(tDeps))
	app := bot.NewBot(log, cfg, db, store, dispatcher, tg, sched)

	log.Info("Starting bot...")
	runErr := app.Run(ctx) // Run blocks until context is cancelled or an error occurs
	log.Info("Bot run loop finished. Initiating shutdown...")

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		// Allow logs to flush before exiting on error
		time.Sleep(time.Second)
		return 1
	}

	log.Info("Bot stopped gracefully.")
	time.Sleep(time.Second)
	return 0
}
