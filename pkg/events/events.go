// Package events publishes domain events to the configured message bus.
package events

import (
	"context"
	"fmt"
	"sync"

	"github.com/Skotchmaster/oss_shop/pkg/config"
	"github.com/Skotchmaster/oss_shop/pkg/logging"
)

const (
	TopicProducts = "product_events"
	TopicCarts    = "cart_events"
	TopicOrders   = "order_events"
	TopicPayments = "payment_events"
)

var Topics = []string{TopicProducts, TopicCarts, TopicOrders, TopicPayments}

const (
	BusKafka    = "kafka"
	BusRabbitMQ = "rabbitmq"
	BusNone     = "none"
)

type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
	Close() error
}

func New(cfg config.Config) (Publisher, error) {
	switch cfg.EventBus {
	case BusKafka:
		p, err := NewKafkaPublisher(cfg.KafkaBrokers)
		if err != nil {
			return nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		// writers still auto-create topics when the controller is unreachable
		if err := EnsureTopics(ctx, cfg.KafkaBrokers[0], Topics...); err != nil {
			logging.FromContext(ctx).Warn("kafka_ensure_topics_failed", "error", err)
		}
		return p, nil
	case BusRabbitMQ:
		return NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQExchange)
	case "", BusNone:
		return NopPublisher{}, nil
	default:
		return nil, fmt.Errorf("unknown EVENT_BUS %q", cfg.EventBus)
	}
}

// Emit publishes best-effort: failures are logged and dropped.
func Emit(ctx context.Context, p Publisher, topic, key string, event any) {
	if p == nil {
		return
	}
	if err := p.PublishEvent(ctx, topic, key, event); err != nil {
		logging.FromContext(ctx).Warn("publish_event_failed", "topic", topic, "key", key, "error", err)
	}
}

type NopPublisher struct{}

func (NopPublisher) PublishEvent(context.Context, string, string, any) error { return nil }
func (NopPublisher) Close() error                                            { return nil }

type Message struct {
	Topic string
	Key   string
	Event any
}

// MemoryPublisher keeps published events in memory.
type MemoryPublisher struct {
	mu       sync.Mutex
	messages []Message
	Err      error
}

func (m *MemoryPublisher) PublishEvent(_ context.Context, topic, key string, event any) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, Message{Topic: topic, Key: key, Event: event})
	return nil
}

func (m *MemoryPublisher) Close() error { return nil }

func (m *MemoryPublisher) Messages() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Message, len(m.messages))
	copy(out, m.messages)
	return out
}
