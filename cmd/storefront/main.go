package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront/internal/api"
	"github.com/nikolayk812/storefront/internal/config"
	"github.com/nikolayk812/storefront/internal/kv"
	"github.com/nikolayk812/storefront/internal/logger"
	"github.com/nikolayk812/storefront/internal/messaging"
	"github.com/nikolayk812/storefront/internal/messaging/kafka"
	"github.com/nikolayk812/storefront/internal/payment"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/nikolayk812/storefront/internal/repository"
	"github.com/nikolayk812/storefront/internal/service"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", "", "path to a config file (yaml, json or toml)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "storefront: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Pretty)
	if err != nil {
		return fmt.Errorf("logger.New: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("openStore: %w", err)
	}
	defer closeStore()

	publisher, closePublisher := openPublisher(cfg, log)
	defer closePublisher()

	policy, err := cfg.Pricing.Policy()
	if err != nil {
		return fmt.Errorf("cfg.Pricing.Policy: %w", err)
	}

	products := repository.NewProduct(store)
	carts := repository.NewCart(store)
	orders := repository.NewOrder(store)
	users := repository.NewUser(store)

	seed, err := loadSeed(cfg.Catalog.SeedFile)
	if err != nil {
		return fmt.Errorf("loadSeed: %w", err)
	}
	if err := products.Seed(ctx, seed.Products); err != nil {
		return fmt.Errorf("products.Seed: %w", err)
	}

	gateway := payment.NewSimulated(cfg.Checkout.PaymentDelay)
	checkout := service.NewCheckoutService(carts, orders, gateway, publisher, policy, log,
		service.WithDeliveryDays(cfg.Checkout.DeliveryDays))

	var adminOpts []service.AdminOption
	if history, ok := store.(port.KeyHistory); ok {
		adminOpts = append(adminOpts, service.WithHistory(history))
	}
	admin := service.NewAdminService(orders, products, policy, adminOpts...)

	h := api.NewHandler(api.Services{
		Catalog:  service.NewCatalogService(products, seed.Categories, policy, log),
		Carts:    service.NewCartService(carts, products, users, policy, log),
		Checkout: checkout,
		Orders:   service.NewOrderService(orders, publisher, log),
		Accounts: service.NewAccountService(users, products, log),
		Admin:    admin,
	}, log)

	srv := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: api.NewRouter(h),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Str("backend", cfg.Storage.Backend).Msg("http server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("srv.ListenAndServe: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("srv.Shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

func openStore(ctx context.Context, cfg config.Config) (port.KeyValueStore, func(), error) {
	switch cfg.Storage.Backend {
	case config.BackendPostgres:
		pool, err := pgxpool.New(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("pgxpool.New: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("pool.Ping: %w", err)
		}
		return kv.NewPostgres(pool, cfg.Postgres.KeepRevisions), pool.Close, nil

	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		store := kv.NewRedis(client, cfg.Redis.Prefix)
		if err := store.Ping(ctx); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("store.Ping: %w", err)
		}
		return store, func() { _ = client.Close() }, nil
	}

	return kv.NewMemory(), func() {}, nil
}

func openPublisher(cfg config.Config, log zerolog.Logger) (port.EventPublisher, func()) {
	brokers := cfg.KafkaBrokers()
	if len(brokers) == 0 {
		log.Info().Msg("no kafka brokers configured, order events are dropped")
		return messaging.NewNop(), func() {}
	}

	publisher := kafka.NewPublisher(brokers)
	return publisher, func() {
		if err := publisher.Close(); err != nil {
			log.Error().Err(err).Msg("kafka publisher close")
		}
	}
}
