package event_publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"go.uber.org/zap"

	"github.com/MindGainsForge/discord-trade-scraper/apps/scraper/internal/events"
	"github.com/MindGainsForge/discord-trade-scraper/apps/scraper/internal/model"
)

// producer is the subset of *kafka.Producer used here.
type producer interface {
	Produce(msg *kafka.Message, deliveryChan chan kafka.Event) error
	Close()
}

// EventPublisher hands notices to Kafka instead of processing them in-process.
// Delivery is at-least-once; the materializer relies on idempotent inserts.
type EventPublisher struct {
	logger        *zap.Logger
	kafkaProducer producer
	kafkaTopic    string
	now           func() time.Time
}

func NewEventPublisher(kafkaBroker, kafkaTopic string, logger *zap.Logger) (*EventPublisher, error) {
	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": kafkaBroker,
		"acks":              "all",
		"retries":           3,
		"retry.backoff.ms":  100,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	return newEventPublisher(p, kafkaTopic, logger), nil
}

func newEventPublisher(p producer, kafkaTopic string, logger *zap.Logger) *EventPublisher {
	return &EventPublisher{
		logger:        logger,
		kafkaProducer: p,
		kafkaTopic:    kafkaTopic,
		now:           time.Now,
	}
}

// HandleNotice publishes the notice and waits for the broker acknowledgement.
func (ep *EventPublisher) HandleNotice(ctx context.Context, notice model.Notice) error {
	msgBytes, err := json.Marshal(events.NewNoticeEvent(notice, ep.now().UTC()))
	if err != nil {
		return fmt.Errorf("failed to marshal notice event: %w", err)
	}

	deliveryChan := make(chan kafka.Event, 1)

	err = ep.kafkaProducer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &ep.kafkaTopic, Partition: kafka.PartitionAny},
		Key:            []byte(strconv.FormatInt(notice.MessageID, 10)),
		Value:          msgBytes,
	}, deliveryChan)
	if err != nil {
		return fmt.Errorf("failed to produce notice %d: %w", notice.MessageID, err)
	}

	select {
	case e := <-deliveryChan:
		switch ev := e.(type) {
		case *kafka.Message:
			if ev.TopicPartition.Error != nil {
				return fmt.Errorf("failed to deliver notice %d: %w", notice.MessageID, ev.TopicPartition.Error)
			}
			ep.logger.Debug("Published notice",
				zap.Int64("message_id", notice.MessageID),
				zap.Int32("partition", ev.TopicPartition.Partition))
			return nil
		default:
			return fmt.Errorf("unexpected kafka event type: %T", e)
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (ep *EventPublisher) Close() error {
	if ep.kafkaProducer != nil {
		ep.kafkaProducer.Close()
	}
	return nil
}
