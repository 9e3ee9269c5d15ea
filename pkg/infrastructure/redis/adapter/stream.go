package adapter

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/redis/go-redis/v9"
)

// NewStreamPubSub builds a redis streams publisher and a consumer-group subscriber on client.
func NewStreamPubSub(client redis.UniversalClient, consumerGroup, consumer string, logger watermill.LoggerAdapter) (*redisstream.Publisher, *redisstream.Subscriber, error) {
	publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
		Client: client,
	}, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("redis stream publisher: %w", err)
	}

	subscriber, err := redisstream.NewSubscriber(redisstream.SubscriberConfig{
		Client:        client,
		ConsumerGroup: consumerGroup,
		Consumer:      consumer,
	}, logger)
	if err != nil {
		_ = publisher.Close()
		return nil, nil, fmt.Errorf("redis stream subscriber: %w", err)
	}

	return publisher, subscriber, nil
}
