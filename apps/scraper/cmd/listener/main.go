package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/MindGainsForge/discord-trade-scraper/apps/scraper/internal/api"
	"github.com/MindGainsForge/discord-trade-scraper/apps/scraper/internal/config"
	"github.com/MindGainsForge/discord-trade-scraper/apps/scraper/internal/database"
	"github.com/MindGainsForge/discord-trade-scraper/apps/scraper/internal/discord"
	"github.com/MindGainsForge/discord-trade-scraper/apps/scraper/internal/event_publisher"
	"github.com/MindGainsForge/discord-trade-scraper/apps/scraper/internal/extract"
	"github.com/MindGainsForge/discord-trade-scraper/apps/scraper/internal/gateway"
	"github.com/MindGainsForge/discord-trade-scraper/apps/scraper/internal/pipeline"
	"github.com/MindGainsForge/discord-trade-scraper/apps/scraper/internal/repository"
)

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

	logger.Info("Starting listener with configuration",
		zap.String("channel_id", cfg.DiscordChannelID),
		zap.String("db_host", cfg.DBHost),
		zap.String("db_name", cfg.DBName),
		zap.Bool("kafka_enabled", cfg.KafkaEnabled()),
		zap.String("kafka_topic", cfg.KafkaTopic),
		zap.Int("api_port", cfg.APIPort),
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

	var handler discord.NoticeHandler
	if cfg.KafkaEnabled() {
		publisher, err := event_publisher.NewEventPublisher(cfg.KafkaBroker, cfg.KafkaTopic, logger)
		if err != nil {
			logger.Fatal("Failed to create event publisher", zap.Error(err))
		}
		defer publisher.Close()
		handler = publisher
	} else {
		transactionRepository := repository.NewTransactionRepository(db, logger)
		handler = pipeline.NewPipeline(
			extract.NewExtractor(logger),
			gateway.NewGateway(transactionRepository, logger),
			logger,
		)
	}

	session, err := discord.NewSession(cfg.DiscordToken)
	if err != nil {
		logger.Fatal("Failed to create discord session", zap.Error(err))
	}

	session.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) {
		logger.Info("Logged in", zap.String("user", r.User.Username), zap.String("user_id", r.User.ID))
	})
	detach := discord.NewListener(cfg.DiscordChannelID, handler, logger).Attach(ctx, session)
	defer detach()

	if err := session.Open(); err != nil {
		logger.Fatal("Failed to open discord session", zap.Error(err))
	}
	defer session.Close()

	apiServer := api.NewServer(cfg.APIPort, db, logger)
	go func() {
		if err := apiServer.Start(); err != nil {
			logger.Fatal("API server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Received shutdown signal, starting graceful shutdown...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := apiServer.Stop(shutdownCtx); err != nil {
		logger.Error("Error shutting down API server", zap.Error(err))
	}

	logger.Info("Listener shutdown complete")
}
