package notice_materializer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"go.uber.org/zap"

	"github.com/MindGainsForge/discord-trade-scraper/apps/scraper/internal/events"
	"github.com/MindGainsForge/discord-trade-scraper/apps/scraper/internal/model"
)

const pollTimeout = time.Second

type NoticeHandler interface {
	HandleNotice(ctx context.Context, notice model.Notice) error
}

// consumer is the subset of *kafka.Consumer used here.
type consumer interface {
	Subscribe(topic string, rebalanceCb kafka.RebalanceCb) error
	ReadMessage(timeout time.Duration) (*kafka.Message, error)
	CommitMessage(m *kafka.Message) ([]kafka.TopicPartition, error)
	Close() error
}

// NoticeMaterializer consumes published notices and runs them through the
// handler. Offsets are committed only after the handler returns.
type NoticeMaterializer struct {
	logger        *zap.Logger
	kafkaConsumer consumer
	handler       NoticeHandler
	kafkaTopic    string
}

func NewNoticeMaterializer(kafkaBroker, kafkaTopic, groupID string, logger *zap.Logger, handler NoticeHandler) (*NoticeMaterializer, error) {
	c, err := kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers":  kafkaBroker,
		"group.id":           groupID,
		"auto.offset.reset":  "earliest",
		"enable.auto.commit": false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka consumer: %w", err)
	}

	return newNoticeMaterializer(c, kafkaTopic, logger, handler), nil
}

func newNoticeMaterializer(c consumer, kafkaTopic string, logger *zap.Logger, handler NoticeHandler) *NoticeMaterializer {
	return &NoticeMaterializer{
		logger:        logger,
		kafkaConsumer: c,
		handler:       handler,
		kafkaTopic:    kafkaTopic,
	}
}

// Start blocks until ctx is cancelled.
func (nm *NoticeMaterializer) Start(ctx context.Context) error {
	nm.logger.Info("Starting Notice Materializer...", zap.String("topic", nm.kafkaTopic))

	if err := nm.kafkaConsumer.Subscribe(nm.kafkaTopic, nil); err != nil {
		return fmt.Errorf("failed to subscribe to topic %s: %w", nm.kafkaTopic, err)
	}

	for {
		select {
		case <-ctx.Done():
			nm.logger.Info("Notice Materializer stopped")
			return nil
		default:
		}

		msg, err := nm.kafkaConsumer.ReadMessage(pollTimeout)
		if err != nil {
			if isTimeout(err) {
				continue
			}
			nm.logger.Error("Error reading message from Kafka", zap.Error(err))
			continue
		}

		if err := nm.processMessage(ctx, msg); err != nil {
			nm.logger.Error("Error processing message",
				zap.Int32("partition", msg.TopicPartition.Partition),
				zap.String("key", string(msg.Key)),
				zap.Error(err))
		}

		if _, err := nm.kafkaConsumer.CommitMessage(msg); err != nil {
			nm.logger.Error("Failed to commit offset",
				zap.String("key", string(msg.Key)),
				zap.Error(err))
		}
	}
}

func (nm *NoticeMaterializer) processMessage(ctx context.Context, msg *kafka.Message) error {
	var event events.NoticeEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return fmt.Errorf("failed to unmarshal notice event: %w", err)
	}

	nm.logger.Debug("Processing notice event",
		zap.Int64("message_id", event.MessageID),
		zap.Time("published_at", event.PublishedAt))

	return nm.handler.HandleNotice(ctx, event.Notice())
}

func isTimeout(err error) bool {
	var kafkaErr kafka.Error
	return errors.As(err, &kafkaErr) && kafkaErr.Code() == kafka.ErrTimedOut
}

func (nm *NoticeMaterializer) Close() error {
	if nm.kafkaConsumer != nil {
		return nm.kafkaConsumer.Close()
	}
	return nil
}
