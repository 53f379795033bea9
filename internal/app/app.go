package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/DRSN-tech/recommender-backend/internal/cfg"
	v1Grpc "github.com/DRSN-tech/recommender-backend/internal/delivery/v1/grpc"
	v1Http "github.com/DRSN-tech/recommender-backend/internal/delivery/v1/http"
	"github.com/DRSN-tech/recommender-backend/internal/domain"
	"github.com/DRSN-tech/recommender-backend/internal/infrastructure/genai"
	"github.com/DRSN-tech/recommender-backend/internal/infrastructure/kafka"
	minioInfra "github.com/DRSN-tech/recommender-backend/internal/infrastructure/minio"
	ml_service "github.com/DRSN-tech/recommender-backend/internal/infrastructure/ml-service"
	s3Repo "github.com/DRSN-tech/recommender-backend/internal/repository/minio"
	"github.com/DRSN-tech/recommender-backend/internal/repository/pgdb"
	pgdbConv "github.com/DRSN-tech/recommender-backend/internal/repository/pgdb/converter"
	pineconeRepo "github.com/DRSN-tech/recommender-backend/internal/repository/pinecone"
	qdrantRepo "github.com/DRSN-tech/recommender-backend/internal/repository/qdrant"
	"github.com/DRSN-tech/recommender-backend/internal/repository/redis"
	redisConv "github.com/DRSN-tech/recommender-backend/internal/repository/redis/converter"
	"github.com/DRSN-tech/recommender-backend/internal/usecase"
	"github.com/DRSN-tech/recommender-backend/pkg/clients"
	"github.com/DRSN-tech/recommender-backend/pkg/closer"
	"github.com/DRSN-tech/recommender-backend/pkg/e"
	"github.com/DRSN-tech/recommender-backend/pkg/logger"
	"github.com/DRSN-tech/recommender-backend/pkg/postgres"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

const (
	dependencyTimeout  = 10 * time.Second
	kafkaTopicTimeout  = 10 * time.Second
	redisPingTimeout   = 5 * time.Second
	forcedCloseTimeout = 2 * time.Second
)

// App собирает сервис рекомендаций: хэндлы внешних сервисов, use case,
// необязательную инфраструктуру (Redis, MinIO, Kafka, PostgreSQL) и HTTP-сервер.
type App struct {
	cfg          *config.Config
	logger       logger.Logger
	closer       *closer.Closer
	services     *usecase.ServiceHandles
	recUC        *usecase.RecommendationUseCase
	httpSrv      *v1Http.Server
	grpcSrv      *v1Grpc.GRPCServer
	outboxWorker *kafka.OutboxWorker
}

func NewApp(cfg *config.Config, logger logger.Logger) (*App, error) {
	a := &App{
		cfg:    cfg,
		logger: logger,
		closer: closer.NewCloser(forcedCloseTimeout),
	}

	ctx, cancel := context.WithTimeout(context.Background(), dependencyTimeout)
	defer cancel()

	a.services = usecase.NewServiceHandles(
		a.embedderFactory(),
		a.indexConnector(),
		domain.NewIndexSpec(cfg.Retrieval.IndexName, cfg.Retrieval.Dimension, cfg.Retrieval.Metric),
		cfg.Retrieval.ReadyDelay,
		logger,
	)
	a.closer.Add("retrieval services", a.services.Close)

	cache := a.initCache(ctx)
	images := a.initImages(ctx)

	events := a.initEvents(ctx)

	a.recUC = usecase.NewRecommendationUC(
		a.services,
		genai.NewTemplateGenerator(),
		images,
		cache,
		events,
		logger,
		cfg.Retrieval.TopK,
		config.MaxTopK,
	)

	r := chi.NewRouter()
	router := v1Http.NewRouter(r, logger, cfg.Http.AllowedOrigins)
	router.Init(a.recUC, usecase.NewAnalyticsUC())

	a.httpSrv = v1Http.NewServer(r, cfg.Http)

	if cfg.Grpc.Enabled {
		a.grpcSrv = v1Grpc.NewGRPCServer(cfg.Grpc, logger)
	}

	return a, nil
}

// Run подключает внешние сервисы, поднимает HTTP-сервер и ждёт сигнала остановки.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Хэндлы устанавливаются до приёма трафика. Неудача не останавливает сервис
	initCtx, initCancel := context.WithTimeout(ctx, a.cfg.Retrieval.InitTimeout)
	a.services.Init(initCtx)
	initCancel()

	if a.outboxWorker != nil {
		a.outboxWorker.Start(ctx)
		a.closer.Add("outbox worker", a.outboxWorker.Stop)
	}

	errCh := make(chan error, 2)
	if a.grpcSrv != nil {
		a.grpcSrv.SetReady(a.services.Ready())
		go func() {
			a.logger.Infof("gRPC health server starting on %s:%s", a.cfg.Grpc.NetworkMode, a.cfg.Grpc.Port)
			if err := a.grpcSrv.Start(); err != nil {
				a.logger.Errorf(err, "gRPC server failed")
				errCh <- err
			}
		}()
	}

	go func() {
		a.logger.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.httpSrv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Errorf(err, "HTTP server failed")
			errCh <- err
		}
	}()

	var appErr error
	select {
	case appErr = <-errCh:
		a.logger.Errorf(appErr, "server fatal error")
	case <-ctx.Done():
		a.logger.Infof("Received shutdown signal, stopping gracefully...")
	}
	stop()

	// === Graceful shutdown ===
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), a.cfg.Retrieval.ShutdownTimeout)
	defer shutdownCancel()

	if err := a.httpSrv.Stop(shutdownCtx); err != nil {
		a.logger.Errorf(err, "HTTP server shutdown error")
	} else {
		a.logger.Infof("HTTP server stopped")
	}

	if a.grpcSrv != nil {
		if err := a.grpcSrv.Stop(shutdownCtx); err != nil {
			a.logger.Warnf("gRPC server shutdown: %v", err)
		}
	}

	if err := a.recUC.Wait(shutdownCtx); err != nil {
		a.logger.Warnf("%v", err)
	}

	if err := a.closer.Close(shutdownCtx); err != nil {
		a.logger.Errorf(err, "failed to release resources")
	}

	a.logger.Infof("Application shutdown complete")
	return appErr
}

func (a *App) embedderFactory() usecase.EmbedderFactory {
	return func(ctx context.Context) (usecase.Embedder, error) {
		switch a.cfg.Embedder.Provider {
		case config.EmbedderHTTP:
			return ml_service.NewHTTPEmbedder(a.cfg.Embedder, a.logger), nil
		case config.EmbedderGRPC:
			embedder, err := ml_service.NewGRPCEmbedder(ctx, a.cfg.Embedder, a.logger)
			if err != nil {
				return nil, e.Wrap(whereami.WhereAmI(), err)
			}
			return embedder, nil
		default:
			return nil, e.Wrap(a.cfg.Embedder.Provider, e.ErrUnknownEmbedder)
		}
	}
}

func (a *App) indexConnector() usecase.IndexConnector {
	return func(_ context.Context) (usecase.VectorIndexAdmin, error) {
		switch a.cfg.Retrieval.VectorBackend {
		case config.VectorBackendPinecone:
			client, err := clients.NewPineconeClient(a.cfg.Pinecone)
			if err != nil {
				return nil, e.Wrap(whereami.WhereAmI(), err)
			}
			return pineconeRepo.NewIndexAdmin(client, a.cfg.Pinecone), nil
		case config.VectorBackendQdrant:
			client, err := clients.NewQdrantClient(a.cfg.Qdrant)
			if err != nil {
				return nil, e.Wrap(whereami.WhereAmI(), err)
			}
			return qdrantRepo.NewIndexAdmin(client), nil
		default:
			return nil, e.Wrap(a.cfg.Retrieval.VectorBackend, e.ErrUnknownVectorBackend)
		}
	}
}

// initCache подключает Redis. Без Redis рекомендации просто не кэшируются.
func (a *App) initCache(ctx context.Context) usecase.RecommendationCache {
	if !a.cfg.Redis.Enabled {
		a.logger.Infof("REDIS_ADDR is not set, recommendation cache disabled")
		return nil
	}

	redisClient := clients.NewRedisClient(a.cfg.Redis)

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := redisClient.Ping(pingCtx); err != nil {
		a.logger.Errorf(err, "failed to connect to redis, recommendation cache disabled")
		_ = redisClient.Close()
		return nil
	}

	a.closer.Add("redis", func(context.Context) error { return redisClient.Close() })
	return redis.NewCacheRepo(redisClient, redisConv.NewRecommendationConverterImpl(), a.cfg.Redis, a.logger)
}

// initImages подключает MinIO для подписи ссылок на изображения.
func (a *App) initImages(ctx context.Context) usecase.ImageURLResolver {
	if !a.cfg.Minio.Enabled {
		return nil
	}

	minioClient, err := clients.NewMinIOClient(a.cfg.Minio)
	if err != nil {
		a.logger.Errorf(err, "failed to initialize minio client, image references are returned as is")
		return nil
	}

	if err := clients.CheckBucket(ctx, minioClient, a.cfg.Minio.BucketName); err != nil {
		a.logger.Errorf(err, "failed to check MinIO bucket, image references are returned as is")
		return nil
	}

	imageRepo := s3Repo.NewImageRepo(minioClient, a.cfg.Minio)
	return minioInfra.NewMinioInfrastructure(imageRepo, a.logger)
}

// initEvents выбирает способ доставки событий: outbox в PostgreSQL + Kafka,
// только Kafka или никакой. Недоступная PostgreSQL не останавливает сервис.
func (a *App) initEvents(ctx context.Context) usecase.EventPublisher {
	if !a.cfg.Kafka.Enabled {
		a.logger.Infof("KAFKA_BROKERS is not set, recommendation events disabled")
		return nil
	}

	producer := kafka.NewProducer(a.logger, a.cfg.Kafka)
	a.closer.Add("kafka producer", func(context.Context) error { return producer.Close() })

	if err := producer.EnsureTopic(kafkaTopicTimeout); err != nil {
		a.logger.Warnf("failed to ensure kafka topic %s: %v", a.cfg.Kafka.Topic, err)
	}

	if !a.cfg.Db.Enabled {
		return producer
	}

	db, err := initPGDB(ctx, a.logger, a.cfg)
	if err != nil {
		a.logger.Errorf(err, "outbox database unavailable, publishing recommendation events directly to kafka")
		return producer
	}
	a.closer.AddFunc("postgres", db.Close)

	outboxRepo := pgdb.NewOutboxEventRepo(db.Pool, pgdbConv.NewOutboxEventConverterImpl())
	a.outboxWorker = kafka.NewOutboxWorker(outboxRepo, a.logger, producer, db.Dsn)

	return kafka.NewOutboxPublisher(db.Pool, outboxRepo)
}

func initPGDB(ctx context.Context, logger logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(ctx, cfg.Db)
	if err != nil {
		logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(logger); err != nil {
		logger.Errorf(err, "failed to run migrations")
		db.Close()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.Ping(); err != nil {
		logger.Errorf(err, "failed to ping database")
		db.Close()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
