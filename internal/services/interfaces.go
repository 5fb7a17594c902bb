package services

import (
	"context"
	"io"
)

// BlobStorageInterface определяет интерфейс для хранилища документов.
// Save возвращает стабильную ссылку на объект; по ней Open отдаёт
// содержимое для предпросмотра.
type BlobStorageInterface interface {
	Save(ctx context.Context, userID uint, filename string, data []byte) (string, error)
	Open(ctx context.Context, ref string) (io.ReadCloser, error)
}
