// Package messaging picks the event transport and builds event buses on top of it.
package messaging

import (
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/redis/go-redis/v9"

	"github.com/mateusmacedo/go-pathshare/internal/config"
	pkgApp "github.com/mateusmacedo/go-pathshare/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-pathshare/pkg/domain"
	pkgInfra "github.com/mateusmacedo/go-pathshare/pkg/infrastructure"
	channelsAdapter "github.com/mateusmacedo/go-pathshare/pkg/infrastructure/channels/adapter"
	kafkaAdapter "github.com/mateusmacedo/go-pathshare/pkg/infrastructure/kafka/adapter"
	redisAdapter "github.com/mateusmacedo/go-pathshare/pkg/infrastructure/redis/adapter"
	watermillAdapter "github.com/mateusmacedo/go-pathshare/pkg/infrastructure/watermill/adapter"
)

// Broker is the publisher/subscriber pair for the configured transport. Both are
// nil for the in-process transport.
type Broker struct {
	Transport  string
	Publisher  message.Publisher
	Subscriber message.Subscriber

	buses []func()
}

// NewBroker connects to the transport named by cfg.EventTransport. client is only
// used by the redis transport.
func NewBroker(cfg config.Config, client redis.UniversalClient, logger watermill.LoggerAdapter) (*Broker, error) {
	b := &Broker{Transport: cfg.EventTransport}

	switch cfg.EventTransport {
	case config.EventTransportMemory:
	case config.EventTransportGoChannel:
		pubSub := channelsAdapter.NewGoChannel(logger)
		b.Publisher, b.Subscriber = pubSub, pubSub
	case config.EventTransportRedis:
		if client == nil {
			return nil, errors.New("redis transport needs a redis client")
		}
		publisher, subscriber, err := redisAdapter.NewStreamPubSub(client, cfg.RedisConsumerGroup, cfg.RedisConsumer, logger)
		if err != nil {
			return nil, err
		}
		b.Publisher, b.Subscriber = publisher, subscriber
	case config.EventTransportKafka:
		publisher, subscriber, err := kafkaAdapter.NewKafkaPubSub(cfg.KafkaBrokers, cfg.KafkaConsumerGroup, logger)
		if err != nil {
			return nil, err
		}
		b.Publisher, b.Subscriber = publisher, subscriber
	default:
		return nil, fmt.Errorf("unknown event transport %q", cfg.EventTransport)
	}

	return b, nil
}

// NewEventBus returns an in-process bus for the memory transport and a watermill
// bus over the broker otherwise.
func NewEventBus[D any](b *Broker, logger pkgApp.AppLogger) pkgApp.EventBus[pkgDomain.Event[D], D] {
	if b.Publisher == nil || b.Subscriber == nil {
		return pkgInfra.NewSimpleEventBus[pkgDomain.Event[D], D](logger)
	}
	bus := watermillAdapter.NewWatermillEventBus[pkgDomain.Event[D], D](b.Publisher, b.Subscriber, logger)
	b.buses = append(b.buses, bus.Close)
	return bus
}

// Close stops the consumers of every bus built on b, then the transport.
func (b *Broker) Close() error {
	for _, closeBus := range b.buses {
		closeBus()
	}
	b.buses = nil

	if b.Publisher == nil {
		return nil
	}
	var errs []error
	if err := b.Publisher.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close publisher: %w", err))
	}
	if b.Subscriber != nil && any(b.Subscriber) != any(b.Publisher) {
		if err := b.Subscriber.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close subscriber: %w", err))
		}
	}
	return errors.Join(errs...)
}
