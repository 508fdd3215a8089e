package main

import (
	"context"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/MindGainsForge/discord-trade-scraper/apps/scraper/internal/config"
	"github.com/MindGainsForge/discord-trade-scraper/apps/scraper/internal/database"
	"github.com/MindGainsForge/discord-trade-scraper/apps/scraper/internal/discord"
	"github.com/MindGainsForge/discord-trade-scraper/apps/scraper/internal/event_publisher"
	"github.com/MindGainsForge/discord-trade-scraper/apps/scraper/internal/extract"
	"github.com/MindGainsForge/discord-trade-scraper/apps/scraper/internal/gateway"
	"github.com/MindGainsForge/discord-trade-scraper/apps/scraper/internal/pipeline"
	"github.com/MindGainsForge/discord-trade-scraper/apps/scraper/internal/repository"
)

// Backfill reads the whole channel history once and exits.
func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}
	if cfg.Debug {
		if logger, err = zap.NewDevelopment(); err != nil {
			panic("Failed to initialize logger: " + err.Error())
		}
	}
	defer logger.Sync()

	logger.Info("Starting backfill with configuration",
		zap.String("channel_id", cfg.DiscordChannelID),
		zap.String("db_host", cfg.DBHost),
		zap.String("db_name", cfg.DBName),
		zap.Bool("kafka_enabled", cfg.KafkaEnabled()),
		zap.Int("page_size", cfg.BackfillPageSize),
		zap.Duration("page_delay", cfg.BackfillPageDelay),
		zap.Int("workers", cfg.BackfillWorkers),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var handler discord.NoticeHandler
	if cfg.KafkaEnabled() {
		publisher, err := event_publisher.NewEventPublisher(cfg.KafkaBroker, cfg.KafkaTopic, logger)
		if err != nil {
			logger.Fatal("Failed to create event publisher", zap.Error(err))
		}
		defer publisher.Close()
		handler = publisher
	} else {
		db, err := database.Open(ctx, cfg, logger)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		if err := repository.InitMigration(ctx, db); err != nil {
			logger.Fatal("Failed to initialize database", zap.Error(err))
		}

		handler = pipeline.NewPipeline(
			extract.NewExtractor(logger),
			gateway.NewGateway(repository.NewTransactionRepository(db, logger), logger),
			logger,
		)
	}

	session, err := discord.NewSession(cfg.DiscordToken)
	if err != nil {
		logger.Fatal("Failed to create discord session", zap.Error(err))
	}
	if err := session.Open(); err != nil {
		logger.Fatal("Failed to open discord session", zap.Error(err))
	}
	defer session.Close()

	backfiller := discord.NewBackfiller(session, handler, discord.BackfillConfig{
		ChannelID: cfg.DiscordChannelID,
		PageSize:  cfg.BackfillPageSize,
		PageDelay: cfg.BackfillPageDelay,
		Workers:   cfg.BackfillWorkers,
	}, logger)

	stats, err := backfiller.Run(ctx)
	if err != nil {
		logger.Error("Backfill stopped early",
			zap.Int64("messages", stats.Messages),
			zap.Int64("notices", stats.Notices),
			zap.Int64("failed", stats.Failed),
			zap.Error(err))
		return
	}

	logger.Info("Backfill complete")
}
