package minio

import (
	"context"
	"net/url"
	"path"
	"strings"

	"github.com/DRSN-tech/recommender-backend/internal/usecase"
	"github.com/DRSN-tech/recommender-backend/pkg/e"
	"github.com/DRSN-tech/recommender-backend/pkg/logger"
)

// MinioInfrastructure превращает ссылки на изображения из метаданных в URL для клиента.
// Подписываются только значения, похожие на ключ объекта (путь или имя файла с расширением).
// Абсолютные ссылки и прочие значения отдаются как есть.
type MinioInfrastructure struct {
	minioRepo usecase.ImageRepository
	logger    logger.Logger
}

func NewMinioInfrastructure(minioRepo usecase.ImageRepository, logger logger.Logger) *MinioInfrastructure {
	return &MinioInfrastructure{
		minioRepo: minioRepo,
		logger:    logger,
	}
}

func (m *MinioInfrastructure) Resolve(ctx context.Context, ref string) (string, error) {
	const op = "MinioInfrastructure.Resolve"

	ref = strings.TrimSpace(ref)
	if ref == "" || isAbsoluteURL(ref) || !isObjectKey(ref) {
		return ref, nil
	}

	key := strings.TrimPrefix(ref, "/")
	signed, err := m.minioRepo.PresignGet(ctx, key)
	if err != nil {
		return "", e.Wrap(op, err)
	}

	m.logger.Debugf("presigned image %s", key)
	return signed, nil
}

func isAbsoluteURL(ref string) bool {
	u, err := url.Parse(ref)
	if err != nil {
		return false
	}

	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func isObjectKey(ref string) bool {
	return strings.Contains(strings.TrimPrefix(ref, "/"), "/") || path.Ext(ref) != ""
}
