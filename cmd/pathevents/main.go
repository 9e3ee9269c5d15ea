// Command pathevents tails the domain events published by pathshare on the
// configured broker and writes them to the log.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	accountApp "github.com/mateusmacedo/go-pathshare/internal/account/application"
	"github.com/mateusmacedo/go-pathshare/internal/config"
	"github.com/mateusmacedo/go-pathshare/internal/messaging"
	transportApp "github.com/mateusmacedo/go-pathshare/internal/transport/application"
	userPathApp "github.com/mateusmacedo/go-pathshare/internal/userpath/application"
	pkgApp "github.com/mateusmacedo/go-pathshare/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-pathshare/pkg/domain"
	redisAdapter "github.com/mateusmacedo/go-pathshare/pkg/infrastructure/redis/adapter"
	watermillAdapter "github.com/mateusmacedo/go-pathshare/pkg/infrastructure/watermill/adapter"
	zapAdapter "github.com/mateusmacedo/go-pathshare/pkg/infrastructure/zaplogger/adapter"
)

func main() {
	group := flag.String("group", "pathshare-events", "consumer group, kept apart from the server's so every event is seen")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	cfg.KafkaConsumerGroup = *group
	cfg.RedisConsumerGroup = *group

	appLogger, err := zapAdapter.NewZapAppLogger(zapAdapter.Config{App: "pathevents", Level: cfg.LogLevel})
	if err != nil {
		panic(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.EventTransport == config.EventTransportMemory || cfg.EventTransport == config.EventTransportGoChannel {
		pkgApp.LogError(ctx, appLogger, "event transport is in-process, nothing to tail", nil, map[string]interface{}{
			"event_transport": cfg.EventTransport,
		})
		os.Exit(1)
	}

	var client redis.UniversalClient
	if cfg.EventTransport == config.EventTransportRedis {
		client = redisAdapter.NewRedisClient(redisAdapter.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer client.Close()
	}

	broker, err := messaging.NewBroker(cfg, client, watermillAdapter.NewWatermillLoggerAdapter(appLogger))
	if err != nil {
		pkgApp.LogError(ctx, appLogger, "failed to connect to broker", err, nil)
		os.Exit(1)
	}
	defer broker.Close()

	tail[accountApp.UserRegisteredData](broker, appLogger, accountApp.UserRegisteredEventName)
	tail[transportApp.TransportChangedData](broker, appLogger, transportApp.TransportAddedEventName, transportApp.TransportRemovedEventName)
	tail[userPathApp.PathPublishedData](broker, appLogger, userPathApp.PathPublishedEventName)

	pkgApp.LogInfo(ctx, appLogger, "tailing events", map[string]interface{}{
		"event_transport": cfg.EventTransport,
		"group":           *group,
	})
	<-ctx.Done()
}

func tail[D any](broker *messaging.Broker, logger pkgApp.AppLogger, names ...string) {
	bus := messaging.NewEventBus[D](broker, logger)
	for _, name := range names {
		bus.RegisterHandler(name, pkgApp.EventHandlerFunc[pkgDomain.Event[D], D](
			func(ctx context.Context, event pkgDomain.Event[D]) error {
				pkgApp.LogInfo(ctx, logger, "event received", map[string]interface{}{
					"event_name": event.EventName(),
					"payload":    event.Payload(),
				})
				return nil
			}))
	}
}
