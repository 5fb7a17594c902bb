package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"strings"

	"github.com/ESTDOM/profile_service/pkg/utils"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// DocumentStorage хранилище фото документов поверх S3-совместимого бакета.
// Ключ объекта: documents/{user_id}/{случайный токен}.{расширение} -
// токен не зависит от исходного имени файла, расширение приводится к
// нижнему регистру.
type DocumentStorage struct {
	client *minio.Client
	bucket string
	logger *zap.Logger
}

func NewDocumentStorage(client *minio.Client, bucket string, logger *zap.Logger) *DocumentStorage {
	return &DocumentStorage{
		client: client,
		bucket: bucket,
		logger: logger,
	}
}

// EnsureBucket создаёт бакет, если его ещё нет
func (d *DocumentStorage) EnsureBucket(ctx context.Context) error {
	exists, err := d.client.BucketExists(ctx, d.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		return d.client.MakeBucket(ctx, d.bucket, minio.MakeBucketOptions{})
	}
	return nil
}

// Save сохраняет фото документа и возвращает ссылку на объект
func (d *DocumentStorage) Save(ctx context.Context, userID uint, filename string, data []byte) (string, error) {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")
	ext := utils.DocumentExt(filename)

	key := fmt.Sprintf("documents/%d/%s", userID, token)
	if ext != "" {
		key += "." + ext
	}

	opts := minio.PutObjectOptions{}
	if ct := mime.TypeByExtension("." + ext); ct != "" {
		opts.ContentType = ct
	}

	_, err := d.client.PutObject(ctx, d.bucket, key, bytes.NewReader(data), int64(len(data)), opts)
	if err != nil {
		d.logger.Error("Failed to store document",
			zap.Uint("user_id", userID),
			zap.String("key", key),
			zap.Error(err),
		)
		return "", fmt.Errorf("s3 put: %w", err)
	}

	d.logger.Info("Document stored",
		zap.Uint("user_id", userID),
		zap.String("key", key),
		zap.Int("size", len(data)),
	)

	return key, nil
}

// Open отдаёт содержимое документа по ссылке для предпросмотра
func (d *DocumentStorage) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	if _, err := d.client.StatObject(ctx, d.bucket, ref, minio.StatObjectOptions{}); err != nil {
		return nil, fmt.Errorf("s3 stat: %w", err)
	}

	obj, err := d.client.GetObject(ctx, d.bucket, ref, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("s3 get: %w", err)
	}
	return obj, nil
}
