package main

import (
	"context"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/MindGainsForge/discord-trade-scraper/apps/scraper/internal/config"
	"github.com/MindGainsForge/discord-trade-scraper/apps/scraper/internal/database"
	"github.com/MindGainsForge/discord-trade-scraper/apps/scraper/internal/extract"
	"github.com/MindGainsForge/discord-trade-scraper/apps/scraper/internal/gateway"
	"github.com/MindGainsForge/discord-trade-scraper/apps/scraper/internal/notice_materializer"
	"github.com/MindGainsForge/discord-trade-scraper/apps/scraper/internal/pipeline"
	"github.com/MindGainsForge/discord-trade-scraper/apps/scraper/internal/repository"
)

// Materializer stores notices published to Kafka by the listener and backfill.
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

	if !cfg.KafkaEnabled() {
		logger.Fatal("KAFKA_BROKER must be set to run the materializer")
	}

	logger.Info("Starting materializer with configuration",
		zap.String("db_host", cfg.DBHost),
		zap.String("db_name", cfg.DBName),
		zap.String("kafka_broker", cfg.KafkaBroker),
		zap.String("kafka_topic", cfg.KafkaTopic),
		zap.String("kafka_group_id", cfg.KafkaGroupID),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := repository.InitMigration(ctx, db); err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}

	p := pipeline.NewPipeline(
		extract.NewExtractor(logger),
		gateway.NewGateway(repository.NewTransactionRepository(db, logger), logger),
		logger,
	)

	materializer, err := notice_materializer.NewNoticeMaterializer(cfg.KafkaBroker, cfg.KafkaTopic, cfg.KafkaGroupID, logger, p)
	if err != nil {
		logger.Fatal("Failed to create notice materializer", zap.Error(err))
	}
	defer materializer.Close()

	if err := materializer.Start(ctx); err != nil {
		logger.Error("Notice materializer failed", zap.Error(err))
		return
	}

	logger.Info("Materializer shutdown complete")
}
