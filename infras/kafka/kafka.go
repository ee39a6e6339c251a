package kafka

//go:generate go run go.uber.org/mock/mockgen -source=./kafka.go -destination=./mocks/kafka_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"realty/config"
	"realty/infras/metrics"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
)

const consumeBackoff = time.Second

type Message struct {
	Key   string
	Value any
}

func (m *Message) ToKafkaMessage() (kafkaGo.Message, error) {
	jsonValue, err := json.Marshal(m.Value)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal message value to JSON")

		return kafkaGo.Message{}, fmt.Errorf("failed to marshal message value to JSON: %w", err)
	}

	return kafkaGo.Message{
		Key:   []byte(m.Key),
		Value: jsonValue,
	}, nil
}

func DecodeKafkaMessage[T any](msg kafkaGo.Message) (T, error) {
	var value T

	if err := json.Unmarshal(msg.Value, &value); err != nil {
		log.Error().Err(err).Str("key", string(msg.Key)).Msg("Failed to unmarshal Kafka message value from JSON")

		return value, fmt.Errorf("failed to unmarshal Kafka message value from JSON: %w", err)
	}

	return value, nil
}

// Handler processes a single message, a nil return commits its offset.
type Handler func(ctx context.Context, message kafkaGo.Message) error

type Client interface {
	SendMessages(ctx context.Context, topic string, messages ...Message) (err error)
	Consume(ctx context.Context, consumerGroup, topic string, handler Handler) error
	Close() error
}

type kafkaClientImpl struct {
	config    *config.Config
	dialer    *kafkaGo.Dialer
	transport *kafkaGo.Transport
	address   net.Addr

	mu      sync.Mutex
	writers map[string]*kafkaGo.Writer
}

func New(cfg *config.Config) Client {
	var mechanism sasl.Mechanism
	if cfg.Kafka.SASL.Username != "" {
		mechanism = plain.Mechanism{
			Username: cfg.Kafka.SASL.Username,
			Password: cfg.Kafka.SASL.Password,
		}
	}

	log.Info().Strs("brokers", cfg.Kafka.Brokers).Msg("Kafka client initialized")

	return &kafkaClientImpl{
		config:    cfg,
		dialer:    &kafkaGo.Dialer{DualStack: true, SASLMechanism: mechanism, Timeout: 10 * time.Second},
		transport: &kafkaGo.Transport{SASL: mechanism},
		address:   kafkaGo.TCP(cfg.Kafka.Brokers...),
		writers:   map[string]*kafkaGo.Writer{},
	}
}

func (k *kafkaClientImpl) writer(topic string) *kafkaGo.Writer {
	k.mu.Lock()
	defer k.mu.Unlock()

	if w, ok := k.writers[topic]; ok {
		return w
	}

	w := &kafkaGo.Writer{
		Addr:                   k.address,
		Topic:                  topic,
		Transport:              k.transport,
		Balancer:               &kafkaGo.Hash{},
		RequiredAcks:           kafkaGo.RequireAll,
		AllowAutoTopicCreation: true,
	}
	k.writers[topic] = w

	return w
}

func (k *kafkaClientImpl) SendMessages(ctx context.Context, topic string, messages ...Message) (err error) {
	msgs := make([]kafkaGo.Message, 0, len(messages))

	for _, message := range messages {
		msg, err := message.ToKafkaMessage()
		if err != nil {
			return fmt.Errorf("failed to convert message to Kafka message: %w", err)
		}

		msgs = append(msgs, msg)
	}

	start := time.Now()
	err = k.writer(topic).WriteMessages(ctx, msgs...)
	metrics.ObserveExternal(metrics.ServiceKafka, "write", err, time.Since(start))

	if err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("Failed to send message to Kafka.")

		return fmt.Errorf("failed to send message to Kafka: %w", err)
	}

	log.Debug().Str("topic", topic).Int("count", len(msgs)).Msg("Sent messages successfully.")

	return nil
}

// Consume blocks until ctx is done. Offsets are committed only after handler succeeds,
// a failing message is retried after a short backoff.
func (k *kafkaClientImpl) Consume(ctx context.Context, consumerGroup, topic string, handler Handler) error {
	if topic == "" {
		return errors.New("topic name cannot be empty")
	}

	groupID := k.config.Kafka.ConsumerGroup
	if consumerGroup != "" {
		groupID = consumerGroup
	}

	reader := kafkaGo.NewReader(kafkaGo.ReaderConfig{
		Brokers:     k.config.Kafka.Brokers,
		Topic:       topic,
		GroupID:     groupID,
		Dialer:      k.dialer,
		StartOffset: kafkaGo.FirstOffset,
	})

	defer func() {
		if err := reader.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close Kafka reader.")
		}
	}()

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info().Str("topic", topic).Msg("Consumer context done.")

				return nil
			}

			log.Error().Err(err).Str("topic", topic).Msg("Failed to fetch message from Kafka.")

			if !sleep(ctx, consumeBackoff) {
				return nil
			}

			continue
		}

		for {
			if err = handler(ctx, msg); err == nil {
				break
			}

			log.Error().Err(err).Str("topic", topic).Str("key", string(msg.Key)).Msg("Failed to handle Kafka message, retrying.")

			if !sleep(ctx, consumeBackoff) {
				return nil
			}
		}

		if err = reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Str("topic", topic).Msg("Failed to commit Kafka message.")
		}
	}
}

func (k *kafkaClientImpl) Close() error {
	k.mu.Lock()
	defer k.mu.Unlock()

	var errs []error

	for topic, w := range k.writers {
		if err := w.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close writer %s: %w", topic, err))
		}
	}

	k.writers = map[string]*kafkaGo.Writer{}

	return errors.Join(errs...)
}

func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
