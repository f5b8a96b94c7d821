package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	httpAdapter "github.com/iho/rentledger/internal/adapter/http"
	"github.com/iho/rentledger/internal/adapter/http/handler"
	"github.com/iho/rentledger/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/rentledger/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/rentledger/internal/adapter/repository/redis"
	sqliteRepo "github.com/iho/rentledger/internal/adapter/repository/sqlite"
	"github.com/iho/rentledger/internal/infrastructure/advancesweep"
	"github.com/iho/rentledger/internal/infrastructure/config"
	"github.com/iho/rentledger/internal/infrastructure/eventpublisher"
	"github.com/iho/rentledger/internal/infrastructure/logger"
	"github.com/iho/rentledger/internal/infrastructure/metrics"
	"github.com/iho/rentledger/internal/infrastructure/postgres"
	"github.com/iho/rentledger/internal/infrastructure/redis"
	"github.com/iho/rentledger/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(log.WithContext(ctx), cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
	log.Info().Msg("server stopped")
}

// streamMaxLen caps the outbox stream so an idle consumer cannot grow it without bound.
const streamMaxLen = 100000

// storage is the repository set for one driver.
type storage struct {
	txManager  usecase.TransactionManager
	// snapshotTx serves read-only checks that span several queries.
	snapshotTx usecase.TransactionManager
	entries    usecase.EntryRepository
	advances   usecase.AdvanceRepository
	payments   usecase.PaymentRepository
	expenses   usecase.ExpenseRepository
	leases     usecase.LeaseRepository
	outbox     usecase.OutboxRepository
	audit      usecase.AuditRepository
	locker     usecase.LeaseLocker
	retrier    usecase.Retrier
	ping       handler.PingFunc
	close      func()
}

func openStorage(ctx context.Context, cfg *config.Config) (*storage, error) {
	log := zerolog.Ctx(ctx)

	switch cfg.Storage.Driver {
	case config.DriverSQLite:
		db, err := sqliteRepo.Open(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, err
		}
		if err := sqliteRepo.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		log.Info().Str("path", cfg.Storage.SQLitePath).Msg("opened sqlite database")

		txm := sqliteRepo.NewTxManager(db)
		return &storage{
			txManager:  txm,
			snapshotTx: txm,
			entries:    sqliteRepo.NewEntryRepository(db),
			advances:   sqliteRepo.NewAdvanceRepository(db),
			payments:   sqliteRepo.NewPaymentRepository(db),
			expenses:   sqliteRepo.NewExpenseRepository(db),
			leases:     sqliteRepo.NewLeaseRepository(db),
			outbox:     outboxOrDiscard(cfg, sqliteRepo.NewOutboxRepository(db)),
			audit:      sqliteRepo.NewAuditRepository(db),
			locker:     sqliteRepo.NewLeaseLocker(),
			retrier:    sqliteRepo.NewRetrier(),
			ping:       db.PingContext,
			close:      func() { _ = db.Close() },
		}, nil

	default:
		if cfg.Database.AutoMigrate {
			if err := postgres.RunMigrations(ctx, cfg.Database.URL, cfg.Database.MigrationsPath); err != nil {
				return nil, err
			}
		}

		pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
			DatabaseURL:       cfg.Database.URL,
			MaxConns:          cfg.Database.MaxConns,
			MinConns:          cfg.Database.MinConns,
			MaxConnLifetime:   cfg.Database.MaxConnLifetime,
			MaxConnIdleTime:   cfg.Database.MaxConnIdleTime,
			HealthCheckPeriod: cfg.Database.HealthCheckPeriod,
		})
		if err != nil {
			return nil, err
		}
		log.Info().Msg("connected to postgres")

		txm := postgresRepo.NewTxManager(pool)
		return &storage{
			txManager:  txm,
			snapshotTx: txm.WithOptions(postgresRepo.SnapshotTxOptions),
			entries:    postgresRepo.NewEntryRepository(pool),
			advances:   postgresRepo.NewAdvanceRepository(pool),
			payments:   postgresRepo.NewPaymentRepository(pool),
			expenses:   postgresRepo.NewExpenseRepository(pool),
			leases:     postgresRepo.NewLeaseRepository(pool),
			outbox:     outboxOrDiscard(cfg, postgresRepo.NewOutboxRepository(pool)),
			audit:      postgresRepo.NewAuditRepository(pool),
			locker:     postgresRepo.NewLeaseLocker(),
			retrier:    postgresRepo.NewRetrier(),
			ping:       pool.Ping,
			close:      pool.Close,
		}, nil
	}
}

// outboxOrDiscard drops events when no publisher will ever drain the outbox table.
func outboxOrDiscard(cfg *config.Config, outbox usecase.OutboxRepository) usecase.OutboxRepository {
	if !cfg.Outbox.Enabled {
		return usecase.DiscardOutbox{}
	}
	return outbox
}

// app is the wired service: the HTTP handler plus its background workers.
type app struct {
	router    http.Handler
	publisher *eventpublisher.EventPublisher
	sweeper   *advancesweep.Sweeper
	limiter   *middleware.RateLimiter
}

func newApp(cfg *config.Config, store *storage, redisClient *goredis.Client, m *metrics.Metrics, log zerolog.Logger) *app {
	ids := postgresRepo.NewULIDGenerator()

	var (
		cache       usecase.Cache
		idempotency usecase.IdempotencyStore
		redisPing   handler.Pinger
		publisher   eventpublisher.Publisher = eventpublisher.NewLogPublisher(log)
	)
	if redisClient != nil {
		cache = redisRepo.NewCache(redisClient)
		idempotency = redisRepo.NewIdempotencyStore(redisClient)
		redisPing = handler.PingFunc(func(ctx context.Context) error { return redisClient.Ping(ctx).Err() })
		publisher = redisRepo.NewStreamPublisher(redisClient, cfg.Outbox.Stream, streamMaxLen)
	}

	opts := usecase.AdvanceOptions{
		Enabled:        cfg.Advance.Enabled,
		RecordDeposits: cfg.Advance.RecordDeposits,
		AutoApply:      cfg.Advance.AutoApply,
	}

	balanceUC := usecase.NewBalanceUseCase(store.txManager, store.entries, store.locker, store.outbox,
		store.audit, ids, store.retrier, m)
	entryUC := usecase.NewEntryUseCase(store.txManager, store.entries, store.payments, store.expenses,
		store.leases, store.locker, balanceUC, store.outbox, store.audit, ids, store.retrier, m)
	allocationUC := usecase.NewAllocationUseCase(store.txManager, store.advances, store.payments,
		store.locker, entryUC, store.outbox, store.audit, ids, store.retrier, m, opts.Enabled)
	advanceUC := usecase.NewAdvanceUseCase(store.txManager, store.advances, store.leases, store.locker,
		entryUC, allocationUC, store.outbox, store.audit, ids, store.retrier, m, opts)
	ledgerUC := usecase.NewLedgerUseCase(store.entries, cache, cfg.Report.CacheTTL, m)
	reconUC := usecase.NewReconciliationUseCase(store.snapshotTx, store.entries, store.advances,
		store.payments, balanceUC)
	referenceUC := usecase.NewReferenceDataUseCase(store.leases, store.payments, store.expenses,
		allocationUC, ids, opts.AutoApply && opts.Enabled)

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, m)

	a := &app{
		router: httpAdapter.NewRouter(httpAdapter.RouterConfig{
			EntryHandler:     handler.NewEntryHandler(entryUC),
			LedgerHandler:    handler.NewLedgerHandler(ledgerUC, reconUC),
			AdvanceHandler:   handler.NewAdvanceHandler(advanceUC, allocationUC),
			ReferenceHandler: handler.NewReferenceHandler(referenceUC),
			HealthHandler:    handler.NewHealthHandler(store.ping, redisPing),
			Logger:           log,
			IdempotencyStore: idempotency,
			IdempotencyTTL:   cfg.IdempotencyTTL,
			RateLimiter:      limiter,
			AllowedOrigins:   cfg.CORS.AllowedOrigins,
		}),
		limiter: limiter,
	}

	if cfg.Outbox.Enabled {
		a.publisher = eventpublisher.NewEventPublisher(eventpublisher.Config{
			OutboxRepo: store.outbox,
			Publisher:  publisher,
			Metrics:    m,
			Logger:     &log,
			BatchSize:  cfg.Outbox.BatchSize,
			Interval:   cfg.Outbox.PollInterval,
			Retention:  cfg.Outbox.Retention,
		})
	}
	if cfg.SweepEnabled() {
		a.sweeper = advancesweep.New(advancesweep.Config{
			Leases:   store.advances,
			Applier:  allocationUC,
			Metrics:  m,
			Logger:   &log,
			Interval: cfg.Advance.SweepInterval,
		})
	}
	return a
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	store, err := openStorage(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer store.close()

	var redisClient *goredis.Client
	if cfg.Redis.URL != "" {
		redisClient, err = redis.NewClient(ctx, redis.Options{
			URL:          cfg.Redis.URL,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer redisClient.Close()
		log.Info().Msg("connected to redis")
	}

	a := newApp(cfg, store, redisClient, metrics.New(), log)

	server := &http.Server{
		Addr:         ":" + cfg.Server.HTTPPort,
		Handler:      a.router,
		ReadTimeout:  cfg.Server.HTTPReadTimeout,
		WriteTimeout: cfg.Server.HTTPWriteTimeout,
		IdleTimeout:  cfg.Server.HTTPIdleTimeout,
		BaseContext:  func(_ net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("port", cfg.Server.HTTPPort).Str("storage", cfg.Storage.Driver).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.HTTPShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if a.publisher != nil {
		g.Go(func() error { return ignoreCanceled(a.publisher.Start(gctx)) })
	}
	if a.sweeper != nil {
		g.Go(func() error { return ignoreCanceled(a.sweeper.Start(gctx)) })
	}

	g.Go(func() error {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				a.limiter.CleanupLimiters(time.Hour)
			}
		}
	})

	return g.Wait()
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
