package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/DRSN-tech/inventory-backend/internal/cfg"
	grpcDelivery "github.com/DRSN-tech/inventory-backend/internal/delivery/grpc"
	httpDelivery "github.com/DRSN-tech/inventory-backend/internal/delivery/http"
	"github.com/DRSN-tech/inventory-backend/internal/infrastructure/kafka"
	"github.com/DRSN-tech/inventory-backend/internal/repository/pgdb"
	pgdbConv "github.com/DRSN-tech/inventory-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/inventory-backend/internal/repository/redis"
	redisConv "github.com/DRSN-tech/inventory-backend/internal/repository/redis/converter"
	"github.com/DRSN-tech/inventory-backend/internal/usecase"
	"github.com/DRSN-tech/inventory-backend/migrations"
	"github.com/DRSN-tech/inventory-backend/pkg/clients"
	"github.com/DRSN-tech/inventory-backend/pkg/closer"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/DRSN-tech/inventory-backend/pkg/logger"
	"github.com/DRSN-tech/inventory-backend/pkg/postgres"
	"github.com/DRSN-tech/inventory-backend/pkg/tr"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

const startupTimeout = 10 * time.Second

// App собирает зависимости сервиса и управляет его жизненным циклом.
type App struct {
	cfg     *config.Config
	logger  logger.Logger
	closer  *closer.Closer
	db      *postgres.PgDatabase
	httpSrv *httpDelivery.Server
	grpcSrv *grpcDelivery.GRPCServer
	worker  *kafka.OutboxWorker
}

// NewApp подключается к хранилищам и собирает слои приложения.
// При ошибке уже открытые ресурсы закрываются.
func NewApp(cfg *config.Config, log logger.Logger) (*App, error) {
	a := &App{
		cfg:    cfg,
		logger: log,
		closer: closer.NewCloser(cfg.ShutdownTimeout, log),
	}

	if err := a.init(); err != nil {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if closeErr := a.closer.Close(ctx); closeErr != nil {
			log.Errorf(closeErr, "failed to release resources after init error")
		}
		return nil, err
	}

	return a, nil
}

func (a *App) init() error {
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	db, err := a.initPGDB(ctx)
	if err != nil {
		return err
	}
	a.db = db

	txManager := tr.NewManager(db.Pool)
	categoryRepo := pgdb.NewCategoryRepo(db.Pool, pgdbConv.NewCategoryConverterImpl())
	productRepo := pgdb.NewProductRepo(db.Pool, pgdbConv.NewProductConverterImpl())

	outbox, err := a.initOutbox()
	if err != nil {
		return err
	}

	idem, err := a.initIdempotency(ctx)
	if err != nil {
		return err
	}

	categoryUC := usecase.NewCategoryUC(categoryRepo, productRepo, outbox, txManager, a.logger)
	productUC := usecase.NewProductUC(productRepo, categoryRepo, outbox, txManager, a.logger)

	r := chi.NewRouter()
	httpDelivery.NewRouter(r, a.cfg.Http, a.logger).Init(categoryUC, productUC, idem)
	a.httpSrv = httpDelivery.NewServer(r, a.cfg.Http)
	a.closer.Add("HTTP server", a.httpSrv.Stop)

	a.grpcSrv = grpcDelivery.NewGRPCServer(a.cfg.Grpc, a.logger)
	a.grpcSrv.RegisterServices()
	a.closer.Add("gRPC server", a.grpcSrv.Stop)

	return nil
}

func (a *App) initPGDB(ctx context.Context) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(ctx, a.cfg.Db)
	if err != nil {
		a.logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	a.closer.Add("PostgreSQL", func(context.Context) error {
		db.Close()
		return nil
	})

	if a.cfg.Db.MigrationsEnabled {
		if err := db.RunMigrations(migrations.FS, a.logger); err != nil {
			a.logger.Errorf(err, "failed to run migrations")
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
	}

	a.logger.Infof("connected to PostgreSQL at %s:%s", a.cfg.Db.Host, a.cfg.Db.Port)
	return db, nil
}

// initOutbox включает запись событий в outbox и их публикацию, только если задан Kafka.
func (a *App) initOutbox() (usecase.OutboxWriter, error) {
	if !a.cfg.Kafka.Enabled() {
		a.logger.Infof("KAFKA_BROKERS is empty, catalog events are disabled")
		return usecase.NopOutbox{}, nil
	}

	producer := kafka.NewProducer(a.logger, a.cfg.Kafka)
	a.closer.Add("Kafka producer", func(context.Context) error {
		return producer.Close()
	})

	if err := producer.EnsureTopic(startupTimeout); err != nil {
		a.logger.Errorf(err, "failed to ensure kafka topic %s", a.cfg.Kafka.Topic)
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	outboxRepo := pgdb.NewOutboxEventRepo(a.db.Pool, pgdbConv.NewOutboxEventConverterImpl())
	a.worker = kafka.NewOutboxWorker(outboxRepo, a.logger, producer, a.cfg.Kafka.BatchLimit, a.db.Dsn, pgdb.OutboxChannel)
	a.closer.Add("outbox worker", a.worker.Stop)

	return outboxRepo, nil
}

// initIdempotency возвращает nil, если Redis не настроен.
func (a *App) initIdempotency(ctx context.Context) (usecase.IdempotencyRepository, error) {
	if !a.cfg.Redis.Enabled() {
		a.logger.Infof("REDIS_ADDR is empty, Idempotency-Key header is ignored")
		return nil, nil
	}

	client := clients.NewRedisClient(a.cfg.Redis)
	a.closer.Add("Redis", func(context.Context) error {
		return client.Close()
	})

	if err := client.Ping(ctx); err != nil {
		a.logger.Errorf(err, "failed to connect to redis")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	a.logger.Infof("idempotency store connected at %s", client.Addr())
	return redis.NewIdempotencyRepo(client, redisConv.NewIdempotentResponseConverterImpl(), a.cfg.Redis, a.logger), nil
}

// Run запускает серверы и фоновые процессы, блокируется до сигнала или фатальной ошибки
// и выполняет graceful shutdown.
func (a *App) Run() error {
	runCtx, stopRun := context.WithCancel(context.Background())
	defer stopRun()

	if a.worker != nil {
		a.worker.Start(runCtx)
	}
	a.grpcSrv.WatchDB(runCtx, a.db)

	errCh := make(chan error, 2)
	go func() {
		a.logger.Infof("gRPC server starting on %s:%s", a.cfg.Grpc.NetworkMode, a.cfg.Grpc.Port)
		if err := a.grpcSrv.Start(); err != nil {
			errCh <- e.Wrap("gRPC server", err)
		}
	}()
	go func() {
		a.logger.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.httpSrv.Run(); err != nil {
			errCh <- e.Wrap("HTTP server", err)
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	var appErr error
	select {
	case appErr = <-errCh:
		a.logger.Errorf(appErr, "server fatal error")
	case sig := <-shutdown:
		a.logger.Infof("received %s, stopping gracefully", sig)
	}

	stopRun()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.closer.Close(shutdownCtx); err != nil {
		a.logger.Errorf(err, "shutdown finished with errors")
		if appErr == nil {
			appErr = err
		}
	}

	a.logger.Infof("application shutdown complete")
	return appErr
}
