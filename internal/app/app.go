package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/riskibarqy/betslip-analyzer/external/apifootball"
	"github.com/riskibarqy/betslip-analyzer/external/gemini"
	"github.com/riskibarqy/betslip-analyzer/external/googleplay"
	"github.com/riskibarqy/betslip-analyzer/internal/config"
	"github.com/riskibarqy/betslip-analyzer/internal/domain/account"
	"github.com/riskibarqy/betslip-analyzer/internal/domain/analysis"
	"github.com/riskibarqy/betslip-analyzer/internal/domain/purchase"
	"github.com/riskibarqy/betslip-analyzer/internal/infrastructure/account/anubis"
	"github.com/riskibarqy/betslip-analyzer/internal/infrastructure/notify"
	"github.com/riskibarqy/betslip-analyzer/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/betslip-analyzer/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/betslip-analyzer/internal/interfaces/httpapi"
	idgen "github.com/riskibarqy/betslip-analyzer/internal/platform/id"
	"github.com/riskibarqy/betslip-analyzer/internal/platform/logging"
	"github.com/riskibarqy/betslip-analyzer/internal/platform/metrics"
	"github.com/riskibarqy/betslip-analyzer/internal/platform/slipimage"
	"github.com/riskibarqy/betslip-analyzer/internal/usecase"
)

// App is the assembled API process: the public server plus what it owns.
type App struct {
	Server  *http.Server
	Metrics *metrics.Recorder
	closers []func() error
}

// Close releases storage and bus connections in reverse order.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type stores struct {
	accounts  account.Repository
	ledger    account.Ledger
	history   analysis.HistoryRepository
	purchases purchase.Repository
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	a := &App{Metrics: metrics.NewRecorder()}
	ok := false
	defer func() {
		if !ok {
			_ = a.Close()
		}
	}()

	st, err := a.openStores(cfg, logger)
	if err != nil {
		return nil, err
	}
	snapshots, err := a.openSnapshotBus(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	storeVerifier, err := newStoreVerifier(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	catalog, err := purchase.NewCatalog(purchase.DefaultPackages(), cfg.ShopierPriceMap)
	if err != nil {
		return nil, fmt.Errorf("build purchase catalog: %w", err)
	}
	ids := idgen.NewUUIDGenerator()

	footballClient := apifootball.NewClient(apifootball.ClientConfig{
		HTTPClient:     &http.Client{Timeout: cfg.APIFootballTimeout},
		BaseURL:        cfg.APIFootballBaseURL,
		Host:           cfg.APIFootballHost,
		APIKey:         cfg.APIFootballKey,
		Timeout:        cfg.APIFootballTimeout,
		TeamCacheTTL:   cfg.APIFootballTeamTTL,
		Logger:         logger,
		CircuitBreaker: cfg.APIFootballCircuit,
		OnBreakerState: a.Metrics.BreakerStateChanged,
		Observer:       a.Metrics,
	})
	geminiClient := gemini.NewClient(gemini.ClientConfig{
		APIKey:         cfg.GeminiAPIKey,
		BaseURL:        cfg.GeminiBaseURL,
		Model:          cfg.GeminiModel,
		Timeout:        cfg.GeminiTimeout,
		MaxMatches:     cfg.GeminiMaxMatches,
		Logger:         logger,
		CircuitBreaker: cfg.GeminiCircuit,
		OnBreakerState: a.Metrics.BreakerStateChanged,
		Observer:       a.Metrics,
	})
	anubisClient := anubis.NewClient(anubis.ClientConfig{
		HTTPClient:     &http.Client{Timeout: cfg.AnubisTimeout},
		BaseURL:        cfg.AnubisBaseURL,
		IntrospectPath: cfg.AnubisIntrospectURL,
		AdminKey:       cfg.AnubisAdminKey,
		PrincipalTTL:   cfg.AnubisPrincipalTTL,
		CircuitBreaker: cfg.AnubisCircuit,
		OnBreakerState: a.Metrics.BreakerStateChanged,
		Logger:         logger,
	})

	bridge := usecase.NewPurchaseBridge(catalog, ids, cfg.PurchaseTicketTTL)
	accountSvc := usecase.NewAccountService(st.accounts, snapshots, cfg.AccountStartingCredits, logger)
	analysisSvc := usecase.NewAnalysisService(usecase.AnalysisDependencies{
		Accounts:      st.accounts,
		Ledger:        st.ledger,
		History:       st.history,
		Extractor:     geminiClient,
		Gateway:       footballClient,
		Analyzer:      geminiClient,
		Snapshots:     snapshots,
		Metrics:       a.Metrics,
		IDGen:         ids,
		Logger:        logger,
		EnrichWorkers: cfg.AnalysisEnrichWorkers,
	})
	purchaseSvc := usecase.NewPurchaseService(usecase.PurchaseDependencies{
		Accounts:  st.accounts,
		Purchases: st.purchases,
		Catalog:   catalog,
		Store:     storeVerifier,
		Snapshots: snapshots,
		Bridge:    bridge,
		Metrics:   a.Metrics,
		IDGen:     ids,
		Logger:    logger,
	}, usecase.PurchaseServiceConfig{
		CallbackSecret: cfg.ShopierSecret,
		DedupWebOrders: cfg.ShopierDedupEnabled,
		ConsumeOnGrant: cfg.GooglePlayConsume,
	})

	handler := httpapi.NewHandler(accountSvc, analysisSvc, purchaseSvc, bridge, httpapi.HandlerConfig{
		ImageLimits: slipimage.Limits{
			MaxBytes:     cfg.AnalysisMaxImageBytes,
			MaxPixels:    cfg.AnalysisMaxImagePixels,
			MaxDimension: cfg.AnalysisMaxImageDimension,
		},
		MaxAwait: cfg.PurchaseMaxAwait,
	}, logger)
	router := httpapi.NewRouter(handler, anubisClient, logger, cfg.CORSAllowedOrigins)

	a.Server = &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.WriteTimeout,
	}
	ok = true
	return a, nil
}

func (a *App) openStores(cfg config.Config, logger *logging.Logger) (stores, error) {
	if cfg.StorageDriver == config.StorageMemory {
		logger.Warn("using in-memory storage; balances are lost on restart")
		store := memory.NewStore()
		return stores{accounts: store, ledger: store, history: store, purchases: store}, nil
	}

	db, err := otelsqlx.Open("postgres", normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary),
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return stores{}, fmt.Errorf("open postgres: %w", err)
	}
	a.closers = append(a.closers, db.Close)
	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxOpenConns / 2)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return postgresStores(db), nil
}

func postgresStores(db *sqlx.DB) stores {
	accounts := postgres.NewAccountRepository(db)
	return stores{
		accounts:  accounts,
		ledger:    accounts,
		history:   postgres.NewHistoryRepository(db),
		purchases: postgres.NewPurchaseRepository(db),
	}
}

func (a *App) openSnapshotBus(ctx context.Context, cfg config.Config, logger *logging.Logger) (account.SnapshotBus, error) {
	if !cfg.RedisEnabled {
		return notify.NewMemoryBus(), nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	a.closers = append(a.closers, rdb.Close)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	logger.Info("account snapshots via redis", "addr", cfg.RedisAddr, "prefix", cfg.RedisChannelPrefix)

	return notify.NewRedisBus(rdb, cfg.RedisChannelPrefix, logger), nil
}

func newStoreVerifier(ctx context.Context, cfg config.Config, logger *logging.Logger) (usecase.StoreVerifier, error) {
	if !cfg.GooglePlayEnabled {
		logger.Info("google play verification disabled", "reason", "GOOGLE_PLAY_ENABLED=false")
		return unconfiguredStore{}, nil
	}

	client, err := googleplay.NewClient(ctx, googleplay.ClientConfig{
		PackageName: cfg.GooglePlayPackage,
		Credentials: cfg.GooglePlayCreds,
		Timeout:     cfg.GooglePlayTimeout,
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build google play client: %w", err)
	}
	return client, nil
}

// unconfiguredStore answers every receipt call as unavailable.
type unconfiguredStore struct{}

func (unconfiguredStore) GetProductPurchase(context.Context, string, string) (purchase.StoreReceipt, error) {
	return purchase.StoreReceipt{}, fmt.Errorf("%w: google play verification is not configured", usecase.ErrDependencyUnavailable)
}

func (unconfiguredStore) Acknowledge(context.Context, string, string) error {
	return fmt.Errorf("%w: google play verification is not configured", usecase.ErrDependencyUnavailable)
}

func (unconfiguredStore) Consume(context.Context, string, string) error {
	return fmt.Errorf("%w: google play verification is not configured", usecase.ErrDependencyUnavailable)
}
