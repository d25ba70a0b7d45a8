package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/cinema/config"
	"github.com/Domenick1991/cinema/internal/cache"
	"github.com/Domenick1991/cinema/internal/domain"
	"github.com/Domenick1991/cinema/internal/email"
	"github.com/Domenick1991/cinema/internal/kafka"
	"github.com/Domenick1991/cinema/internal/mq"
	"github.com/Domenick1991/cinema/internal/obs"
	"github.com/Domenick1991/cinema/internal/repository"
	"github.com/Domenick1991/cinema/internal/service/catalog"
	"github.com/sirupsen/logrus"
)

type consumer interface {
	Consume(ctx context.Context, handler func(context.Context, []byte) error) error
	Close() error
}

// The worker sends purchase confirmation e-mails from the events topic and
// keeps the shared catalog cache warm.
func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := obs.NewLogger(cfg.Log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := openConsumer(cfg)
	if err != nil {
		log.Fatalf("connect events broker: %v", err)
	}
	if events != nil {
		defer events.Close()
		sender := email.NewSender(logger)
		go func() {
			if err := events.Consume(ctx, notify(sender, logger)); err != nil {
				logger.WithError(err).Warn("consumer stopped")
			}
		}()
	}

	var refresh <-chan time.Time
	var catalogService *catalog.CatalogService
	if cfg.Redis.Addr != "" && cfg.Data.Backend == config.BackendHTTP {
		interval := time.Duration(cfg.Catalog.RefreshSeconds) * time.Second
		redisCache := cache.NewRedisCache(cfg.Redis, 2*interval)
		defer redisCache.Close()

		store := repository.NewHTTPStore(cfg.Data.BaseURL, time.Duration(cfg.Data.TimeoutSeconds)*time.Second)
		gateway := repository.NewGateway(store, repository.Resources{
			Movies:         cfg.Data.Resources.Movies,
			Rooms:          cfg.Data.Resources.Rooms,
			Sessions:       cfg.Data.Resources.Sessions,
			Combos:         cfg.Data.Resources.Combos,
			Tickets:        cfg.Data.Resources.Tickets,
			ComboPurchases: cfg.Data.Resources.ComboPurchases,
		}, logger)
		catalogService = catalog.NewCatalogService(gateway, logger, catalog.WithCache(redisCache))

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		refresh = ticker.C
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-refresh:
			snapshot, err := catalogService.Refresh(ctx)
			if err != nil {
				logger.WithError(err).Warn("catalog refresh failed")
				continue
			}
			logger.WithFields(logrus.Fields{
				"movies":   len(snapshot.Movies),
				"sessions": len(snapshot.Sessions),
			}).Debug("catalog cache refreshed")
		case s := <-sig:
			logger.WithField("signal", s.String()).Info("shutting down")
			return
		}
	}
}

func openConsumer(cfg *config.Config) (consumer, error) {
	switch cfg.Events.Broker {
	case config.BrokerKafka:
		return kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Events.Topic), nil
	case config.BrokerRabbitMQ:
		return mq.NewConsumer(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, cfg.RabbitMQ.Queue, []string{cfg.Events.Topic})
	}
	return nil, nil
}

// notify drops undecodable messages so they are not redelivered forever.
func notify(sender *email.Sender, logger *logrus.Logger) func(context.Context, []byte) error {
	return func(ctx context.Context, payload []byte) error {
		var event domain.PurchaseEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			logger.WithError(err).Warn("decode purchase event")
			return nil
		}
		return sender.Send(ctx, event)
	}
}
