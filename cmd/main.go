package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"summabot/internal/bot"
	"summabot/internal/config"
	"summabot/internal/database"
	"summabot/internal/draft"
	"summabot/internal/extractor"
	"summabot/internal/pipeline"
	"summabot/internal/scheduler"
	"summabot/internal/summarizer"
	"syscall"
	"time"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	start := time.Now()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.ErrorContext(ctx, "Failed to load config",
			"error", err)

		return
	}

	db, err := database.New(ctx, cfg.DBPath, log)
	if err != nil {
		log.ErrorContext(ctx, "Failed to initialize db",
			"error", err,
			"dbPath", cfg.DBPath)

		return
	}
	defer func() {
		if err = db.Close(); err != nil {
			log.ErrorContext(ctx, "Failed to close db",
				"error", err,
				"dbPath", cfg.DBPath)
		}
	}()
	log.InfoContext(ctx, "DB is initialized",
		"dbPath", cfg.DBPath)

	summ, err := summarizer.NewFromConfig(ctx, cfg.Summarizer)
	if err != nil {
		log.ErrorContext(ctx, "Failed to create summarizer",
			"error", err,
			"provider", cfg.Summarizer.Provider,
			"model", cfg.Summarizer.Model)

		return
	}
	log.InfoContext(ctx, "Summarizer is initialized",
		"provider", cfg.Summarizer.Provider,
		"model", cfg.Summarizer.Model,
		"baseURL", cfg.Summarizer.BaseURL)

	ext := extractor.New(cfg.Extractor.FetchTimeout, extractor.NewTranscriptClient(), log)
	p := pipeline.New(ext, summ, cfg.Summarizer.SummarizeTimeout, cfg.Extractor.MaxUploadBytes, log)
	drafts := draft.NewStore(cfg.DraftTTL)

	botInst, err := bot.New(cfg.Token, db, p, drafts, cfg.AllowedUsers, log)
	if err != nil {
		log.ErrorContext(ctx, "Failed to initialize bot",
			"error", err,
			"allowedUsersCount", len(cfg.AllowedUsers))

		return
	}
	log.InfoContext(ctx, "Bot is initialized",
		"allowedUsersCount", len(cfg.AllowedUsers))

	sched := scheduler.New(ctx, map[string]scheduler.Pruner{
		"drafts":    drafts,
		"summaries": summ,
	}, log)

	if err = sched.Start(); err != nil {
		log.ErrorContext(ctx, "Failed to start scheduler",
			"error", err,
			"spec", scheduler.PruneSpec)

		return
	}
	defer sched.Stop()
	log.InfoContext(ctx, "Scheduler is started",
		"spec", scheduler.PruneSpec)

	go func() {
		botInst.Start(ctx)
	}()
	log.InfoContext(ctx, "Bot is started",
		"updateTimeoutSeconds", bot.BotUpdateTimeout)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	sig := <-c
	log.InfoContext(ctx, "Shutdown signal is received",
		"signal", sig.String())
	cancel()

	log.InfoContext(ctx, "Exiting...",
		"signal", sig.String(),
		"uptimeSeconds", time.Since(start).Seconds())

	botInst.Stop()
	log.InfoContext(ctx, "Bot is stopped",
		"uptimeSeconds", time.Since(start).Seconds())
}
