package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/cinema/config"
	"github.com/Domenick1991/cinema/internal/bootstrap"
	"github.com/Domenick1991/cinema/internal/cache"
	"github.com/Domenick1991/cinema/internal/kafka"
	"github.com/Domenick1991/cinema/internal/mq"
	"github.com/Domenick1991/cinema/internal/obs"
	"github.com/Domenick1991/cinema/internal/repository"
	"github.com/Domenick1991/cinema/internal/service/admin"
	"github.com/Domenick1991/cinema/internal/service/booking"
	"github.com/Domenick1991/cinema/internal/service/cart"
	"github.com/Domenick1991/cinema/internal/service/catalog"
	"github.com/Domenick1991/cinema/internal/service/history"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

type publisher interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
	Close() error
}

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := obs.InitTracer(ctx, cfg.Tracing.ServiceName, cfg.Tracing.Endpoint, cfg.Tracing.Environment)
	if err != nil {
		log.Fatalf("init tracer: %v", err)
	}
	defer shutdownTracer(context.Background())

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("open data store: %v", err)
	}
	defer closeStore()

	gateway := repository.NewGateway(store, resources(cfg.Data.Resources), logger)

	catalogOpts := []catalog.CatalogServiceOption{}
	adminOpts := []admin.AdminServiceOption{}
	bookingOpts := []booking.BookingServiceOption{}
	if cfg.Redis.Addr != "" {
		redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Catalog.RefreshSeconds)*time.Second)
		defer redisCache.Close()
		catalogOpts = append(catalogOpts, catalog.WithCache(redisCache))
		adminOpts = append(adminOpts, admin.WithCatalogInvalidator(redisCache))
		if cfg.Booking.GuardFinalization {
			bookingOpts = append(bookingOpts,
				booking.WithFinalizationGuard(redisCache, time.Duration(cfg.Booking.LockTTLSeconds)*time.Second))
		}
	}

	cartOpts := []cart.CartServiceOption{}
	historyOpts := []history.HistoryServiceOption{}
	producer, err := openPublisher(cfg, logger)
	if err != nil {
		log.Fatalf("connect events broker: %v", err)
	}
	if producer != nil {
		defer producer.Close()
		bookingOpts = append(bookingOpts, booking.WithEvents(producer, cfg.Events.Topic))
		cartOpts = append(cartOpts, cart.WithEvents(producer, cfg.Events.Topic))
		historyOpts = append(historyOpts, history.WithEvents(producer, cfg.Events.Topic))
	}

	services := bootstrap.Services{
		Catalog: catalog.NewCatalogService(gateway, logger, catalogOpts...),
		Booking: booking.NewBookingService(gateway, time.Duration(cfg.Booking.WorkflowTTLMinutes)*time.Minute, logger, bookingOpts...),
		Cart:    cart.NewCartService(gateway, time.Duration(cfg.Cart.TTLMinutes)*time.Minute, logger, cartOpts...),
		History: history.NewHistoryService(gateway, logger, historyOpts...),
		Admin:   admin.NewAdminService(gateway, logger, adminOpts...),
	}

	if err := bootstrap.Run(ctx, cfg, services, store, logger); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func openStore(ctx context.Context, cfg *config.Config) (repository.DocumentStore, func(), error) {
	switch cfg.Data.Backend {
	case config.BackendPostgres:
		pool, err := pgxpool.New(ctx, cfg.Database.DSN())
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		store := repository.NewPGStore(pool)
		if err := store.Migrate(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("migrate documents: %w", err)
		}
		return store, pool.Close, nil
	case config.BackendMemory:
		return repository.NewMemoryStore(), func() {}, nil
	default:
		timeout := time.Duration(cfg.Data.TimeoutSeconds) * time.Second
		return repository.NewHTTPStore(cfg.Data.BaseURL, timeout), func() {}, nil
	}
}

func openPublisher(cfg *config.Config, logger *logrus.Logger) (publisher, error) {
	switch cfg.Events.Broker {
	case config.BrokerKafka:
		return kafka.NewProducer(cfg.Kafka.Brokers, logger), nil
	case config.BrokerRabbitMQ:
		return mq.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
	}
	return nil, nil
}

func resources(r config.ResourcesConfig) repository.Resources {
	return repository.Resources{
		Movies:         r.Movies,
		Rooms:          r.Rooms,
		Sessions:       r.Sessions,
		Combos:         r.Combos,
		Tickets:        r.Tickets,
		ComboPurchases: r.ComboPurchases,
	}
}
