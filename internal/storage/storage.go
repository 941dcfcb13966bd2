package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"activity_srv/internal/config"

	"github.com/sirupsen/logrus"
)

const (
	// Типы хранилищ
	StorageTypeEmbed = config.TemplatesEmbed
	StorageTypeLocal = config.TemplatesLocal
	StorageTypeS3    = config.TemplatesS3

	// Таймаут по умолчанию для одной операции
	DefaultOperationTimeout = 30 * time.Second

	// Максимальная длина ключа S3
	maxKeyLength = 1024
)

// ErrNotFound возвращается, если по ключу нет файла.
var ErrNotFound = errors.New("file not found")

// Storage интерфейс для чтения файлов шаблонов
type Storage interface {
	// Get открывает файл по ключу. Ключи всегда разделены "/".
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	// Exists проверяет существование файла
	Exists(ctx context.Context, key string) (bool, error)
	// List возвращает файлы с указанным префиксом
	List(ctx context.Context, prefix string) ([]FileInfo, error)
	// ValidateKey валидирует ключ файла
	ValidateKey(key string) error
}

// FileInfo информация о файле
type FileInfo struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// NewStorageFromConfig создает хранилище шаблонов по конфигурации и
// оборачивает его в middleware. embedded используется для типа "embed".
func NewStorageFromConfig(cfg config.Config, embedded fs.FS, logger *logrus.Logger) (Storage, error) {
	var (
		storage Storage
		err     error
	)

	switch cfg.Templates.Type {
	case StorageTypeEmbed:
		if embedded == nil {
			return nil, fmt.Errorf("встроенные шаблоны не переданы")
		}
		storage = NewFSStorage(embedded)

	case StorageTypeLocal:
		basePath, absErr := filepath.Abs(cfg.Templates.BasePath)
		if absErr != nil {
			return nil, fmt.Errorf("ошибка определения базового пути: %w", absErr)
		}
		storage, err = NewLocalStorage(LocalConfig{BasePath: basePath}, logger)
		if err != nil {
			return nil, fmt.Errorf("ошибка создания локального хранилища: %w", err)
		}

	case StorageTypeS3:
		storage, err = NewS3Storage(S3Config{
			Region:         cfg.Templates.S3.Region,
			Bucket:         cfg.Templates.S3.Bucket,
			Endpoint:       cfg.Templates.S3.Endpoint,
			AccessKey:      cfg.Templates.S3.AccessKey,
			SecretKey:      cfg.Templates.S3.SecretKey,
			ForcePathStyle: cfg.Templates.S3.Endpoint != "",
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("ошибка создания S3 хранилища: %w", err)
		}

	default:
		return nil, fmt.Errorf("неподдерживаемый тип хранилища: %s", cfg.Templates.Type)
	}

	logger.WithField("type", cfg.Templates.Type).Info("Хранилище шаблонов создано")
	return wrapWithMiddleware(storage, logger), nil
}

// wrapWithMiddleware оборачивает хранилище в middleware
func wrapWithMiddleware(storage Storage, logger *logrus.Logger) Storage {
	if logger != nil {
		storage = NewLoggingMiddleware(storage, logger)
	}
	return NewValidationMiddleware(storage)
}

// validateKey общие правила для ключей всех хранилищ
func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("ключ файла не может быть пустым")
	}
	if len(key) > maxKeyLength {
		return fmt.Errorf("ключ файла слишком длинный: %d символов (максимум %d)", len(key), maxKeyLength)
	}
	if strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return fmt.Errorf("ключ файла должен быть относительным путем с разделителем '/'")
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." {
			return fmt.Errorf("ключ файла не может содержать '..'")
		}
	}
	return nil
}
