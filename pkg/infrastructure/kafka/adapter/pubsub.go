package adapter

import (
	"fmt"

	"github.com/Shopify/sarama"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
)

// NewKafkaPubSub builds a watermill kafka publisher and a consumer-group subscriber.
// Topics are created on first subscribe with a single partition.
func NewKafkaPubSub(brokers []string, consumerGroup string, logger watermill.LoggerAdapter) (*kafka.Publisher, *kafka.Subscriber, error) {
	marshaler := kafka.DefaultMarshaler{}

	publisher, err := kafka.NewPublisher(kafka.PublisherConfig{
		Brokers:   brokers,
		Marshaler: marshaler,
	}, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("kafka publisher: %w", err)
	}

	subscriber, err := kafka.NewSubscriber(kafka.SubscriberConfig{
		Brokers:               brokers,
		Unmarshaler:           marshaler,
		ConsumerGroup:         consumerGroup,
		OverwriteSaramaConfig: SaramaSubscriberConfig(),
		InitializeTopicDetails: &sarama.TopicDetail{
			NumPartitions:     1,
			ReplicationFactor: 1,
		},
	}, logger)
	if err != nil {
		_ = publisher.Close()
		return nil, nil, fmt.Errorf("kafka subscriber: %w", err)
	}

	return publisher, subscriber, nil
}

func SaramaSubscriberConfig() *sarama.Config {
	saramaConfig := kafka.DefaultSaramaSubscriberConfig()
	saramaConfig.Version = sarama.V1_0_0_0
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetOldest
	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.ClientID = "pathshare"
	return saramaConfig
}
