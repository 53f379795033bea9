package cfg

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/DRSN-tech/recommender-backend/pkg/e"
	"github.com/DRSN-tech/recommender-backend/pkg/logger"
	"github.com/go-playground/validator/v10"
	"github.com/jimlawless/whereami"
	"github.com/joho/godotenv"
)

// Фиксированные параметры индекса и модели. Через окружение не настраиваются.
const (
	IndexName          = "furniture-recommender"
	EmbeddingModelName = "all-MiniLM-L6-v2"
	EmbeddingDimension = 384
	IndexMetric        = "cosine"
	IndexReadyDelay    = 5 * time.Second
	DefaultTopK        = 5
	MaxTopK            = 50
)

const (
	VectorBackendPinecone = "pinecone"
	VectorBackendQdrant   = "qdrant"

	EmbedderHTTP = "http"
	EmbedderGRPC = "grpc"
)

type Config struct {
	Http      *HTTPConfig
	Grpc      *GRPCConfig
	Retrieval *RetrievalCfg
	Pinecone  *PineconeCfg
	Qdrant    *QdrantCfg
	Embedder  *EmbedderCfg
	Redis     *RedisCfg
	Minio     *MinIOCfg
	Db        *PGDBCfg
	Kafka     *KafkaCfg
}

type HTTPConfig struct {
	Port           string `validate:"required,numeric"`
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	AllowedOrigins []string
}

// GRPCConfig — сервер grpc.health.v1. Выключен, если GRPC_PORT не задан.
type GRPCConfig struct {
	Enabled     bool
	Port        string
	NetworkMode string
}

// RetrievalCfg описывает подключение к векторному индексу.
type RetrievalCfg struct {
	VectorBackend   string `validate:"oneof=pinecone qdrant"`
	IndexName       string
	Dimension       int
	Metric          string
	TopK            int
	ReadyDelay      time.Duration
	InitTimeout     time.Duration `validate:"gt=0"`
	ShutdownTimeout time.Duration `validate:"gt=0"`
}

type PineconeCfg struct {
	ApiKey string
	Cloud  string `validate:"oneof=aws gcp azure"`
	Region string `validate:"required"`
}

type QdrantCfg struct {
	Port   int `validate:"gt=0"`
	Host   string
	ApiKey string
	UseTLS bool
}

// EmbedderCfg описывает внешний сервис, который превращает текст в вектор.
type EmbedderCfg struct {
	Provider   string `validate:"oneof=http grpc"`
	URL        string
	ApiKey     string
	GrpcAddr   string
	Model      string
	Dimension  int
	Timeout    time.Duration `validate:"gt=0"`
	MaxRetries int           `validate:"gte=1"`
}

type RedisCfg struct {
	Enabled      bool
	Addr         string
	Password     string
	User         string
	DB           int
	MaxRetries   int
	DialTimeout  time.Duration
	Timeout      time.Duration
	RecommendTTL time.Duration
}

type MinIOCfg struct {
	Enabled           bool
	MinioEndpoint     string
	BucketName        string
	MinioRootUser     string
	MinioRootPassword string
	MinioUseSSL       bool
	Region            string
	PresignTTL        time.Duration
}

type PGDBCfg struct {
	Enabled        bool
	Host           string
	Port           string
	User           string
	Password       string
	DBName         string
	SSLMode        string
	MigrationsPath string
}

// DSN собирает строку подключения к PostgreSQL.
func (c *PGDBCfg) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

type KafkaCfg struct {
	Enabled           bool
	Topic             string
	Brokers           []string
	NetworkMode       string
	Partitions        int
	ReplicationFactor int
}

// Load безопасно загружает конфигурацию и возвращает ошибку в случае неудачи.
func Load(log logger.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		log.Debugf(".env file not found, using environment variables only")
	}

	http, err := loadHTTPConfig(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	retrieval, err := loadRetrievalCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	qdrant, err := loadQdrantCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	embedder, err := loadEmbedderCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	redis, err := loadRedisCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	minio, err := loadMinIOCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	db, err := loadPGDBCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	kafka, err := loadKafkaCfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	cfg := &Config{
		Http:      http,
		Grpc:      loadGRPCConfig(),
		Retrieval: retrieval,
		Pinecone:  loadPineconeCfg(),
		Qdrant:    qdrant,
		Embedder:  embedder,
		Redis:     redis,
		Minio:     minio,
		Db:        db,
		Kafka:     kafka,
	}

	if err := cfg.validate(); err != nil {
		log.Errorf(err, "invalid configuration")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	v := validator.New()
	for _, s := range []any{c.Http, c.Retrieval, c.Pinecone, c.Qdrant, c.Embedder} {
		if err := v.Struct(s); err != nil {
			return err
		}
	}

	// В кэше лежат уже подписанные ссылки: они не должны истекать раньше записи
	if c.Redis.Enabled && c.Minio.Enabled && c.Redis.RecommendTTL >= c.Minio.PresignTTL {
		return e.Wrap(fmt.Sprintf("%s >= %s", c.Redis.RecommendTTL, c.Minio.PresignTTL), e.ErrCacheOutlivesPresign)
	}

	return nil
}

func loadHTTPConfig(log logger.Logger) (*HTTPConfig, error) {
	const (
		defaultPort         = "8000"
		defaultReadTimeout  = 5 * time.Second
		defaultWriteTimeout = 30 * time.Second
		defaultIdleTimeout  = 60 * time.Second
		defaultOrigins      = "http://localhost:3000,http://127.0.0.1:3000"
	)

	readTimeout, err := parseDurationEnv("HTTP_READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_READ_TIMEOUT")
		return nil, err
	}

	writeTimeout, err := parseDurationEnv("HTTP_WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_WRITE_TIMEOUT")
		return nil, err
	}

	idleTimeout, err := parseDurationEnv("KEEP_ALIVE", defaultIdleTimeout)
	if err != nil {
		log.Errorf(err, "invalid KEEP_ALIVE")
		return nil, err
	}

	return &HTTPConfig{
		Port:           getEnvOrDefault("HTTP_PORT", defaultPort),
		ReadTimeout:    readTimeout,
		WriteTimeout:   writeTimeout,
		IdleTimeout:    idleTimeout,
		AllowedOrigins: splitList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", defaultOrigins)),
	}, nil
}

func loadGRPCConfig() *GRPCConfig {
	const defaultNetworkMode = "tcp"

	port := getEnv("GRPC_PORT")

	return &GRPCConfig{
		Enabled:     port != "",
		Port:        port,
		NetworkMode: getEnvOrDefault("GRPC_NETWORK_MODE", defaultNetworkMode),
	}
}

func loadRetrievalCfg(log logger.Logger) (*RetrievalCfg, error) {
	const (
		defaultInitTimeout     = 30 * time.Second
		defaultShutdownTimeout = 10 * time.Second
	)

	initTimeout, err := parseDurationEnv("INDEX_INIT_TIMEOUT", defaultInitTimeout)
	if err != nil {
		log.Errorf(err, "invalid INDEX_INIT_TIMEOUT")
		return nil, err
	}

	shutdownTimeout, err := parseDurationEnv("SHUTDOWN_TIMEOUT", defaultShutdownTimeout)
	if err != nil {
		log.Errorf(err, "invalid SHUTDOWN_TIMEOUT")
		return nil, err
	}

	return &RetrievalCfg{
		VectorBackend:   strings.ToLower(getEnvOrDefault("VECTOR_BACKEND", VectorBackendPinecone)),
		IndexName:       IndexName,
		Dimension:       EmbeddingDimension,
		Metric:          IndexMetric,
		TopK:            DefaultTopK,
		ReadyDelay:      IndexReadyDelay,
		InitTimeout:     initTimeout,
		ShutdownTimeout: shutdownTimeout,
	}, nil
}

func loadPineconeCfg() *PineconeCfg {
	const (
		defaultCloud  = "aws"
		defaultRegion = "us-west-2"
	)

	return &PineconeCfg{
		ApiKey: getEnv("PINECONE_API_KEY"),
		Cloud:  getEnvOrDefault("PINECONE_CLOUD", defaultCloud),
		Region: getEnvOrDefault("PINECONE_REGION", defaultRegion),
	}
}

func loadQdrantCfg(log logger.Logger) (*QdrantCfg, error) {
	const (
		defaultQdrantHost     = "localhost"
		defaultQdrantGRPCPort = 6334
		defaultUseTLS         = false
	)

	port, err := parseIntEnv("QDRANT_GRPC_PORT", defaultQdrantGRPCPort)
	if err != nil {
		log.Errorf(err, "invalid QDRANT_GRPC_PORT")
		return nil, err
	}

	useTLS, err := strconv.ParseBool(getEnvOrDefault("QDRANT_USE_TLS", strconv.FormatBool(defaultUseTLS)))
	if err != nil {
		log.Errorf(err, "invalid QDRANT_USE_TLS")
		return nil, err
	}

	return &QdrantCfg{
		Host:   getEnvOrDefault("QDRANT_HOST", defaultQdrantHost),
		Port:   port,
		ApiKey: getEnv("QDRANT__SERVICE__API_KEY"),
		UseTLS: useTLS,
	}, nil
}

func loadEmbedderCfg(log logger.Logger) (*EmbedderCfg, error) {
	const (
		defaultProvider   = EmbedderHTTP
		defaultURL        = "http://localhost:8080/embed"
		defaultGrpcAddr   = "ml-service:50051"
		defaultTimeout    = 10 * time.Second
		defaultMaxRetries = 1
	)

	timeout, err := parseDurationEnv("EMBEDDING_TIMEOUT", defaultTimeout)
	if err != nil {
		log.Errorf(err, "invalid EMBEDDING_TIMEOUT")
		return nil, err
	}

	maxRetries, err := parseIntEnv("EMBEDDING_MAX_RETRIES", defaultMaxRetries)
	if err != nil {
		log.Errorf(err, "invalid EMBEDDING_MAX_RETRIES")
		return nil, err
	}

	return &EmbedderCfg{
		Provider:   strings.ToLower(getEnvOrDefault("EMBEDDING_PROVIDER", defaultProvider)),
		URL:        getEnvOrDefault("EMBEDDING_URL", defaultURL),
		ApiKey:     getEnv("EMBEDDING_API_KEY"),
		GrpcAddr:   getEnvOrDefault("ML_ADDR", defaultGrpcAddr),
		Model:      EmbeddingModelName,
		Dimension:  EmbeddingDimension,
		Timeout:    timeout,
		MaxRetries: maxRetries,
	}, nil
}

func loadRedisCfg(log logger.Logger) (*RedisCfg, error) {
	const (
		defaultDB           = 0
		defaultMaxRetries   = 3
		defaultDialTimeout  = 5 * time.Second
		defaultReadTimeout  = 3 * time.Second
		defaultWriteTimeout = 3 * time.Second
		defaultRecommendTTL = 5 * time.Minute
	)

	addr := getEnv("REDIS_ADDR")

	db, err := parseIntEnv("REDIS_DB_ID", defaultDB)
	if err != nil {
		log.Errorf(err, "invalid REDIS_DB_ID")
		return nil, err
	}

	maxRetries, err := parseIntEnv("REDIS_MAX_RETRIES", defaultMaxRetries)
	if err != nil {
		log.Errorf(err, "invalid REDIS_MAX_RETRIES")
		return nil, err
	}

	dialTimeout, err := parseDurationEnv("REDIS_DIAL_TIMEOUT", defaultDialTimeout)
	if err != nil {
		log.Errorf(err, "invalid REDIS_DIAL_TIMEOUT")
		return nil, err
	}

	readTimeout, err := parseDurationEnv("REDIS_READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		log.Errorf(err, "invalid REDIS_READ_TIMEOUT")
		return nil, err
	}

	writeTimeout, err := parseDurationEnv("REDIS_WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		log.Errorf(err, "invalid REDIS_WRITE_TIMEOUT")
		return nil, err
	}

	recommendTTL, err := parseDurationEnv("RECOMMEND_CACHE_TTL", defaultRecommendTTL)
	if err != nil {
		log.Errorf(err, "invalid RECOMMEND_CACHE_TTL")
		return nil, err
	}

	return &RedisCfg{
		Enabled:      addr != "",
		Addr:         addr,
		Password:     getEnv("REDIS_PASSWORD"),
		User:         getEnv("REDIS_USER"),
		DB:           db,
		MaxRetries:   maxRetries,
		DialTimeout:  dialTimeout,
		Timeout:      max(readTimeout, writeTimeout),
		RecommendTTL: recommendTTL,
	}, nil
}

func loadMinIOCfg(log logger.Logger) (*MinIOCfg, error) {
	const (
		defaultUseSSL     = false
		defaultRegion     = "us-east-1"
		defaultBucket     = "product-images"
		defaultPresignTTL = time.Hour
	)

	endpoint := getEnv("MINIO_ENDPOINT")

	useSSL, err := strconv.ParseBool(getEnvOrDefault("MINIO_USE_SSL", strconv.FormatBool(defaultUseSSL)))
	if err != nil {
		log.Errorf(err, "invalid MINIO_USE_SSL")
		return nil, err
	}

	presignTTL, err := parseDurationEnv("MINIO_PRESIGN_TTL", defaultPresignTTL)
	if err != nil {
		log.Errorf(err, "invalid MINIO_PRESIGN_TTL")
		return nil, err
	}

	return &MinIOCfg{
		Enabled:           endpoint != "",
		MinioEndpoint:     endpoint,
		BucketName:        getEnvOrDefault("BUCKET_NAME", defaultBucket),
		MinioRootUser:     getEnv("MINIO_ROOT_USER"),
		MinioRootPassword: getEnv("MINIO_ROOT_PASSWORD"),
		MinioUseSSL:       useSSL,
		Region:            getEnvOrDefault("MINIO_REGION", defaultRegion),
		PresignTTL:        presignTTL,
	}, nil
}

func loadPGDBCfg(log logger.Logger) (*PGDBCfg, error) {
	const (
		defaultHost           = "localhost"
		defaultPort           = "5432"
		defaultSSLMode        = "disable"
		defaultMigrationsPath = "file://db/migrations"
	)

	dbName := getEnv("POSTGRES_DB")
	if dbName == "" {
		return &PGDBCfg{Enabled: false}, nil
	}

	user := getEnv("POSTGRES_USER")
	if user == "" {
		err := fmt.Errorf("POSTGRES_USER is required")
		log.Errorf(err, "missing POSTGRES_USER")
		return nil, err
	}

	password := getEnv("POSTGRES_PASSWORD")
	if password == "" {
		err := fmt.Errorf("POSTGRES_PASSWORD is required")
		log.Errorf(err, "missing POSTGRES_PASSWORD")
		return nil, err
	}

	return &PGDBCfg{
		Enabled:        true,
		Host:           getEnvOrDefault("POSTGRES_HOST", defaultHost),
		Port:           getEnvOrDefault("POSTGRES_PORT", defaultPort),
		User:           user,
		Password:       password,
		DBName:         dbName,
		SSLMode:        getEnvOrDefault("SSL_MODE", defaultSSLMode),
		MigrationsPath: getEnvOrDefault("MIGRATIONS_PATH", defaultMigrationsPath),
	}, nil
}

func loadKafkaCfg() (*KafkaCfg, error) {
	const (
		defaultTopic             = "recommendation-events"
		defaultPartitions        = 3
		defaultReplicationFactor = 1
		defaultNetworkMode       = "tcp"
	)

	brokers := splitList(getEnv("KAFKA_BROKERS"))
	if len(brokers) == 0 {
		return &KafkaCfg{Enabled: false}, nil
	}

	partitions, err := parseIntEnv("KAFKA_PARTITIONS", defaultPartitions)
	if err != nil {
		return nil, e.Wrap("KAFKA_PARTITIONS", err)
	}

	replicationFactor, err := parseIntEnv("REPLICATION_FACTOR", defaultReplicationFactor)
	if err != nil {
		return nil, e.Wrap("REPLICATION_FACTOR", err)
	}

	return &KafkaCfg{
		Enabled:           true,
		Brokers:           brokers,
		Topic:             getEnvOrDefault("KAFKA_TOPIC", defaultTopic),
		Partitions:        partitions,
		ReplicationFactor: replicationFactor,
		NetworkMode:       getEnvOrDefault("KAFKA_NETWORK_MODE", defaultNetworkMode),
	}, nil
}

// getEnv возвращает значение переменной окружения.
// Возвращает пустую строку, если переменная не задана.
func getEnv(key string) string {
	return os.Getenv(key)
}

// getEnvOrDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

// parseDurationEnv считывает длительность или возвращает значение по умолчанию.
func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	if v := os.Getenv(key); v != "" {
		return time.ParseDuration(v)
	}

	return defaultValue, nil
}

func parseIntEnv(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}

	intValue, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue, e.Wrap(key, e.ErrIncorrectEnvVariable)
	}

	return intValue, nil
}

// splitList разбивает список через запятую, пропуская пустые элементы.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}

	return out
}
