package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"lodgebook/internal/app/commands"
	availabilityapp "lodgebook/internal/app/handlers/availability"
	bookingapp "lodgebook/internal/app/handlers/booking"
	pricingapp "lodgebook/internal/app/handlers/pricing"
	"lodgebook/internal/app/middleware"
	appoutbox "lodgebook/internal/app/outbox"
	"lodgebook/internal/app/queries"
	"lodgebook/internal/app/uow"
	domainlodging "lodgebook/internal/domain/lodging"
	"lodgebook/internal/domain/shared/money"
	kafkabroker "lodgebook/internal/infra/broker/kafka"
	redisstore "lodgebook/internal/infra/cache/redis"
	"lodgebook/internal/infra/config"
	mongoinfra "lodgebook/internal/infra/db/mongo"
	ginserver "lodgebook/internal/infra/http/gin"
	"lodgebook/internal/infra/obs"
	infraoutbox "lodgebook/internal/infra/outbox"
	"lodgebook/internal/infra/storage/memory"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := getenv("APP_ENV", "dev")
	logger := obs.NewLogger(env)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("configuration invalid", "error", err)
		os.Exit(1)
	}

	app, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("application wiring failed", "error", err)
		os.Exit(1)
	}
	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Ready: app.ready,
	}, app.handlers)

	fixturesPath := getenv("LODGING_FIXTURES", "")
	if fixturesPath == "" {
		fixturesPath = defaultLodgingFixturesPath()
	}
	if err := app.loadLodgingFixtures(ctx, fixturesPath, logger); err != nil {
		logger.Warn("lodging fixtures load failed", "error", err, "path", fixturesPath)
	}

	if app.worker != nil {
		go func() {
			if err := app.worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("outbox worker stopped", "error", err)
			}
		}()
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
		if app.producer != nil {
			_ = app.producer.Close()
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "storage", cfg.StorageMode)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type application struct {
	handlers ginserver.Handlers
	lodgings domainlodging.Repository
	worker   *infraoutbox.Worker
	producer *kafkabroker.Producer
	ready    func() error
}

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger) (application, error) {
	var (
		factory  uow.UoWFactory
		box      appoutbox.Outbox
		lodgings domainlodging.Repository
		store    *infraoutbox.Store
		ready    = func() error { return nil }
	)

	switch cfg.StorageMode {
	case "mongo":
		client, err := mongoinfra.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return application{}, fmt.Errorf("mongo connect: %w", err)
		}
		ready = func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return client.Ping(pingCtx)
		}
		lodgingsRepo := mongoinfra.NewLodgingRepository(client.DB)
		factory = mongoinfra.Factory{
			DB:                 client.DB,
			LodgingsRepo:       lodgingsRepo,
			BookingsRepo:       mongoinfra.NewBookingRepository(client.DB),
			BlockedDatesRepo:   mongoinfra.NewBlockedDateRepository(client.DB),
			SeasonalPricesRepo: mongoinfra.NewSeasonalPriceRepository(client.DB),
		}
		store = infraoutbox.NewStore(client.DB)
		box = store
		lodgings = lodgingsRepo
	default:
		lodgingsRepo := memory.NewLodgingRepository()
		factory = &memory.Factory{
			LodgingsRepo:       lodgingsRepo,
			BookingsRepo:       memory.NewBookingRepository(),
			BlockedDatesRepo:   memory.NewBlockedDateRepository(),
			SeasonalPricesRepo: memory.NewSeasonalPriceRepository(),
		}
		box = memory.NewOutbox()
		lodgings = lodgingsRepo
	}

	idStore, err := buildIdempotencyStore(cfg)
	if err != nil {
		return application{}, err
	}

	encoder := appoutbox.JSONEventEncoder{}

	commandBus := commands.NewInMemoryBus()
	commands.RegisterHandler(commandBus, bookingapp.RequestBookingCommand{}.Key(), &bookingapp.RequestBookingHandler{
		UoWFactory: factory, Outbox: box, Encoder: encoder,
	})
	commands.RegisterHandler(commandBus, bookingapp.UpdateBookingStatusCommand{}.Key(), &bookingapp.UpdateBookingStatusHandler{
		UoWFactory: factory, Outbox: box, Encoder: encoder,
	})
	commands.RegisterHandler(commandBus, availabilityapp.BlockDatesCommand{}.Key(), &availabilityapp.BlockDatesHandler{
		UoWFactory: factory, Outbox: box, Encoder: encoder,
	})
	commands.RegisterHandler(commandBus, availabilityapp.UnblockDatesCommand{}.Key(), &availabilityapp.UnblockDatesHandler{
		UoWFactory: factory, Outbox: box, Encoder: encoder,
	})
	commands.RegisterHandler(commandBus, pricingapp.AddSeasonalPriceCommand{}.Key(), &pricingapp.AddSeasonalPriceHandler{
		UoWFactory: factory, Outbox: box, Encoder: encoder,
	})
	commands.RegisterHandler(commandBus, pricingapp.RemoveSeasonalPriceCommand{}.Key(), &pricingapp.RemoveSeasonalPriceHandler{
		UoWFactory: factory, Outbox: box, Encoder: encoder,
	})

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler(queryBus, availabilityapp.CheckAvailabilityQuery{}.Key(), &availabilityapp.CheckAvailabilityHandler{UoWFactory: factory})
	queries.RegisterHandler(queryBus, availabilityapp.GetCalendarQuery{}.Key(), &availabilityapp.GetCalendarHandler{UoWFactory: factory})
	queries.RegisterHandler(queryBus, availabilityapp.ListBlockedDatesQuery{}.Key(), &availabilityapp.ListBlockedDatesHandler{UoWFactory: factory})
	queries.RegisterHandler(queryBus, pricingapp.QuoteTotalQuery{}.Key(), &pricingapp.QuoteTotalHandler{UoWFactory: factory})
	queries.RegisterHandler(queryBus, pricingapp.ListSeasonalPricesQuery{}.Key(), &pricingapp.ListSeasonalPricesHandler{UoWFactory: factory})
	queries.RegisterHandler(queryBus, bookingapp.ListGuestBookingsQuery{}.Key(), &bookingapp.ListGuestBookingsHandler{UoWFactory: factory})

	commandBusWithMiddleware := middleware.ChainCommands(
		commandBus,
		middleware.Validation(middleware.SelfValidator{}),
		middleware.Idempotency(idStore, nil),
		middleware.Transaction(factory, nil),
		middleware.OutboxFlush(box),
	)
	queryBusWithMiddleware := middleware.ChainQueries(
		queryBus,
		middleware.QueryValidation(middleware.SelfValidator{}),
	)

	app := application{
		handlers: ginserver.Handlers{
			Booking: ginserver.BookingHandler{
				Commands: commandBusWithMiddleware,
				Queries:  queryBusWithMiddleware,
				Logger:   logger,
			},
			Availability: ginserver.AvailabilityHandler{
				Commands: commandBusWithMiddleware,
				Queries:  queryBusWithMiddleware,
				Logger:   logger,
			},
			Pricing: ginserver.PricingHandler{
				Commands: commandBusWithMiddleware,
				Queries:  queryBusWithMiddleware,
				Logger:   logger,
			},
		},
		lodgings: lodgings,
		ready:    ready,
	}

	if store != nil && len(cfg.KafkaBrokers) > 0 {
		producer, err := kafkabroker.NewProducer(cfg.KafkaBrokers, nil)
		if err != nil {
			return application{}, fmt.Errorf("kafka producer: %w", err)
		}
		app.producer = producer
		app.worker = &infraoutbox.Worker{
			Store:       store,
			Producer:    producer,
			Logger:      logger,
			Interval:    cfg.OutboxPollInterval,
			TopicPrefix: cfg.KafkaTopicPrefix,
			Backoff:     cfg.RetryBackoff,
		}
	}

	return app, nil
}

func buildIdempotencyStore(cfg config.Config) (middleware.IdempotencyStore, error) {
	switch cfg.IdempotencyMode {
	case "redis":
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("IDEMPOTENCY_MODE=redis requires REDIS_ADDR")
		}
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		return redisstore.NewIdempotencyStore(client, cfg.IdempotencyTTL), nil
	case "mongo":
		if cfg.StorageMode != "mongo" {
			return nil, fmt.Errorf("IDEMPOTENCY_MODE=mongo requires STORAGE_MODE=mongo")
		}
		client, err := mongoinfra.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, fmt.Errorf("mongo idempotency store: %w", err)
		}
		return mongoinfra.NewIdempotencyStore(client.DB, cfg.IdempotencyTTL), nil
	default:
		return memory.NewIdempotencyStore(), nil
	}
}

func (a application) loadLodgingFixtures(ctx context.Context, path string, logger *slog.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("lodging fixtures file not found, skipping", "path", path)
			return nil
		}
		return fmt.Errorf("read fixtures: %w", err)
	}

	var fixtures []lodgingFixture
	if err := json.Unmarshal(data, &fixtures); err != nil {
		return fmt.Errorf("decode fixtures: %w", err)
	}

	for _, fx := range fixtures {
		lodging := &domainlodging.Lodging{
			ID:     domainlodging.LodgingID(fx.ID),
			HostID: fx.HostID,
			Title:  fx.Title,
			City:   fx.City,
			BaseRate: money.Money{
				Amount:   fx.BaseRateAmount,
				Currency: fx.BaseRateCurrency,
			},
		}
		if err := a.lodgings.Save(ctx, lodging); err != nil {
			logger.Error("cannot store fixture lodging", "lodging_id", fx.ID, "error", err)
			continue
		}
		logger.Info("lodging fixture imported", "lodging_id", fx.ID)
	}
	return nil
}

type lodgingFixture struct {
	ID               string `json:"id"`
	HostID           string `json:"hostId"`
	Title            string `json:"title"`
	City             string `json:"city"`
	BaseRateAmount   int64  `json:"baseRateAmount"`
	BaseRateCurrency string `json:"baseRateCurrency"`
}

func defaultLodgingFixturesPath() string {
	return filepath.Join("data", "lodgings.json")
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
