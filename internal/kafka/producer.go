package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/salesflow-ai/entitlement-service/internal/domain"
	"github.com/salesflow-ai/entitlement-service/pkg/logger"

	"github.com/segmentio/kafka-go"
)

// DefaultTopic топик событий подписки по умолчанию
const DefaultTopic = "entitlement_events"

// Producer определяет интерфейс для публикации событий entitlement-гейта в Kafka.
type Producer interface {
	// PublishEntitlementEvent отправляет событие гейта.
	// Ключ сообщения - user_id, чтобы события одного аккаунта попадали
	// в одну партицию и сохраняли порядок.
	PublishEntitlementEvent(ctx context.Context, event *domain.EntitlementEvent) error
	// Close закрывает соединение продюсера Kafka.
	Close() error
}

// kafkaProducer реализует интерфейс Producer, используя segmentio/kafka-go.
type kafkaProducer struct {
	writer *kafka.Writer
	log    *logger.Logger
}

// NewProducer создает и настраивает новый продюсер Kafka.
func NewProducer(brokers []string, topic string, log *logger.Logger) (Producer, error) {
	if len(brokers) == 0 {
		log.Errorw("Kafka brokers list is empty in config, cannot create producer")
		return nil, errors.New("kafka brokers are not configured")
	}
	if topic == "" {
		topic = DefaultTopic
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		BatchSize:    100,
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		ReadTimeout:  10 * time.Second,
	}

	log.Infow("Kafka producer initialized", "brokers", brokers, "topic", topic)

	return &kafkaProducer{
		writer: writer,
		log:    log,
	}, nil
}

// PublishEntitlementEvent преобразует событие в JSON и отправляет в Kafka.
func (k *kafkaProducer) PublishEntitlementEvent(ctx context.Context, event *domain.EntitlementEvent) error {
	messageKey := []byte(event.UserID)
	if len(messageKey) == 0 {
		// Анонимная установка: партиционируем по ID события
		messageKey = []byte(event.ID.String())
	}

	messageValue, err := json.Marshal(event)
	if err != nil {
		k.log.Errorw("Failed to marshal entitlement event", "error", err, "eventID", event.ID)
		return fmt.Errorf("kafka: failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   messageKey,
		Value: messageValue,
	}

	if err := k.writer.WriteMessages(ctx, msg); err != nil {
		k.log.Errorw("Failed to publish entitlement event", "error", err, "eventType", event.Type, "eventID", event.ID)
		return fmt.Errorf("kafka: failed to publish event: %w", err)
	}

	k.log.Debugw("Published entitlement event", "eventType", event.Type, "eventID", event.ID)
	return nil
}

// Close закрывает writer продюсера.
func (k *kafkaProducer) Close() error {
	return k.writer.Close()
}
