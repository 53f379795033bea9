package e

import "fmt"

var (
	// 400 Bad Request
	ErrStatusBadRequest = fmt.Errorf("bad request")
	ErrPromptRequired   = fmt.Errorf("Prompt is required for recommendation.")
	ErrInvalidTopK      = fmt.Errorf("top_k must be between 1 and 50")
	ErrInvalidJSON      = fmt.Errorf("request body must be a JSON object")

	// 500
	ErrInternalServerError = fmt.Errorf("internal server error")

	// Внутренние ошибки сервисов поиска
	ErrServicesNotInitialized = fmt.Errorf("retrieval services not initialized")
	ErrEmptyVector            = fmt.Errorf("embedding vector is empty")
	ErrDimensionMismatch      = fmt.Errorf("embedding dimension mismatch")
	ErrIndexNotFound          = fmt.Errorf("vector index not found")
	ErrUnknownVectorBackend   = fmt.Errorf("unknown vector backend")
	ErrUnknownEmbedder        = fmt.Errorf("unknown embedding provider")
	ErrBucketNotFound         = fmt.Errorf("bucket not found")

	// Конфигурация
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect environment variable")
	ErrCacheOutlivesPresign = fmt.Errorf("RECOMMEND_CACHE_TTL must be shorter than MINIO_PRESIGN_TTL")

	// Кэш
	ErrCacheMiss = fmt.Errorf("cache miss")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
