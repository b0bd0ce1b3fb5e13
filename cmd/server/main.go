package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	httpAdapter "github.com/finbooks/erpledger/internal/adapter/http"
	"github.com/finbooks/erpledger/internal/adapter/http/handler"
	postgresRepo "github.com/finbooks/erpledger/internal/adapter/repository/postgres"
	redisRepo "github.com/finbooks/erpledger/internal/adapter/repository/redis"
	"github.com/finbooks/erpledger/internal/domain"
	"github.com/finbooks/erpledger/internal/infrastructure/config"
	"github.com/finbooks/erpledger/internal/infrastructure/keymutex"
	"github.com/finbooks/erpledger/internal/infrastructure/logger"
	"github.com/finbooks/erpledger/internal/infrastructure/metrics"
	"github.com/finbooks/erpledger/internal/infrastructure/postgres"
	"github.com/finbooks/erpledger/internal/infrastructure/redis"
	"github.com/finbooks/erpledger/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseTimeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, log); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to Redis. Caching and idempotency degrade gracefully when
	// Redis is unavailable, so a failure here is not fatal.
	var (
		cache            usecase.Cache
		idempotencyStore usecase.IdempotencyStore
	)

	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, caching and idempotency disabled")
		redisClient = nil
	} else {
		defer redisClient.Close()
		cache = redisRepo.NewCache(redisClient)
		idempotencyStore = redisRepo.NewIdempotencyStore(redisClient)
		log.Info().Msg("connected to redis")
	}

	m := metrics.New()

	// Repositories
	retrier := postgresRepo.NewRetrier(log)
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	transactionRepo := postgresRepo.NewTransactionRepository(pool)
	entryRepo := postgresRepo.NewLedgerEntryRepository(pool)
	periodRepo := postgresRepo.NewFiscalPeriodRepository(pool)
	sequenceRepo := postgresRepo.NewSequenceRepository(pool, retrier)
	activityRepo := postgresRepo.NewActivityRepository(pool)
	idGen := postgresRepo.NewULIDGenerator()

	// One lock table shared by everything that serializes on a key, so a
	// sequence code is guarded identically no matter who grabs it.
	locks := keymutex.New()

	// Use cases
	sequencerUC := usecase.NewSequencerUseCase(sequenceRepo, locks).WithMetrics(m)
	periodUC := usecase.NewFiscalPeriodUseCase(periodRepo, activityRepo, idGen, locks, log).WithMetrics(m)
	postingUC := usecase.NewPostingUseCase(txManager, transactionRepo, entryRepo, periodRepo, sequencerUC, activityRepo, idGen, cache, locks, log).WithMetrics(m)
	balanceUC := usecase.NewBalanceUseCase(entryRepo, accountRepo, cache, log).WithMetrics(m)
	journalUC := usecase.NewJournalUseCase(entryRepo, transactionRepo, activityRepo).WithMetrics(m)
	accountingUC := usecase.NewAccountingUseCase(sequencerUC, periodUC, postingUC, balanceUC, journalUC, accountRepo)

	if err := bootstrapSequences(ctx, cfg, sequencerUC, log); err != nil {
		log.Fatal().Err(err).Msg("failed to bootstrap sequences")
	}

	// Handlers
	accountHandler := handler.NewAccountHandler(accountingUC, balanceUC)
	transactionHandler := handler.NewTransactionHandler(postingUC)
	periodHandler := handler.NewPeriodHandler(periodUC)
	journalHandler := handler.NewJournalHandler(journalUC, balanceUC)
	sequenceHandler := handler.NewSequenceHandler(sequencerUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:     accountHandler,
		TransactionHandler: transactionHandler,
		PeriodHandler:      periodHandler,
		JournalHandler:     journalHandler,
		SequenceHandler:    sequenceHandler,
		HealthHandler:      healthHandler,
		IdempotencyStore:   idempotencyStore,
		IdempotencyTTL:     cfg.IdempotencyTTL,
		Logger:             log,
		Metrics:            m,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

// bootstrapSequences creates the transaction and ledger-entry counters on
// first run. Existing counters are left untouched.
func bootstrapSequences(ctx context.Context, cfg *config.Config, sequencer *usecase.SequencerUseCase, log zerolog.Logger) error {
	seeds := []usecase.CreateSequenceInput{
		{Code: usecase.SeqTransactions, Initial: cfg.TransactionSeqStart, Prefix: cfg.TransactionSeqPrefix},
		{Code: usecase.SeqLedgerEntries, Initial: cfg.EntrySeqStart, Prefix: cfg.EntrySeqPrefix},
	}

	for _, seed := range seeds {
		if _, err := sequencer.CreateSequence(ctx, seed); err != nil {
			if errors.Is(err, domain.ErrDuplicateCode) {
				log.Debug().Str("code", seed.Code).Msg("sequence already exists")
				continue
			}

			return err
		}

		log.Info().Str("code", seed.Code).Int64("initial", seed.Initial).Msg("created sequence")
	}

	return nil
}
