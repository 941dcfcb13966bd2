package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
)

// LoggingMiddleware добавляет логирование к операциям хранилища
type LoggingMiddleware struct {
	storage Storage
	logger  *logrus.Logger
}

// NewLoggingMiddleware создает новый logging middleware
func NewLoggingMiddleware(storage Storage, logger *logrus.Logger) Storage {
	return &LoggingMiddleware{
		storage: storage,
		logger:  logger,
	}
}

// Get логирует операцию получения
func (m *LoggingMiddleware) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	start := time.Now()
	logger := m.logger.WithFields(logrus.Fields{
		"operation": "get",
		"key":       key,
	})

	reader, err := m.storage.Get(ctx, key)

	duration := time.Since(start)
	switch {
	case errors.Is(err, ErrNotFound):
		logger.WithField("duration", duration).Warn("Файл не найден")
	case err != nil:
		logger.WithError(err).WithField("duration", duration).Error("Ошибка получения файла")
	default:
		logger.WithField("duration", duration).Debug("Файл получен успешно")
	}

	return reader, err
}

// Exists логирует проверку существования
func (m *LoggingMiddleware) Exists(ctx context.Context, key string) (bool, error) {
	exists, err := m.storage.Exists(ctx, key)
	if err != nil {
		m.logger.WithError(err).WithField("key", key).Error("Ошибка проверки существования файла")
	}
	return exists, err
}

// List логирует получение списка
func (m *LoggingMiddleware) List(ctx context.Context, prefix string) ([]FileInfo, error) {
	start := time.Now()
	logger := m.logger.WithFields(logrus.Fields{
		"operation": "list",
		"prefix":    prefix,
	})

	files, err := m.storage.List(ctx, prefix)

	duration := time.Since(start)
	if err != nil {
		logger.WithError(err).WithField("duration", duration).Error("Ошибка получения списка файлов")
	} else {
		logger.WithFields(logrus.Fields{
			"duration": duration,
			"count":    len(files),
		}).Debug("Список файлов получен")
	}

	return files, err
}

// ValidateKey делегирует валидацию
func (m *LoggingMiddleware) ValidateKey(key string) error {
	return m.storage.ValidateKey(key)
}

// ValidationMiddleware проверяет ключи до обращения к хранилищу
type ValidationMiddleware struct {
	storage Storage
}

// NewValidationMiddleware создает новый validation middleware
func NewValidationMiddleware(storage Storage) Storage {
	return &ValidationMiddleware{storage: storage}
}

// Get валидирует ключ и получает файл
func (m *ValidationMiddleware) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := m.storage.ValidateKey(key); err != nil {
		return nil, fmt.Errorf("невалидный ключ файла: %w", err)
	}
	return m.storage.Get(ctx, key)
}

// Exists валидирует ключ и проверяет существование
func (m *ValidationMiddleware) Exists(ctx context.Context, key string) (bool, error) {
	if err := m.storage.ValidateKey(key); err != nil {
		return false, fmt.Errorf("невалидный ключ файла: %w", err)
	}
	return m.storage.Exists(ctx, key)
}

// List пропускает пустой префикс, остальные проверяет как ключи
func (m *ValidationMiddleware) List(ctx context.Context, prefix string) ([]FileInfo, error) {
	if prefix != "" {
		if err := m.storage.ValidateKey(prefix); err != nil {
			return nil, fmt.Errorf("невалидный префикс: %w", err)
		}
	}
	return m.storage.List(ctx, prefix)
}

// ValidateKey делегирует валидацию
func (m *ValidationMiddleware) ValidateKey(key string) error {
	return m.storage.ValidateKey(key)
}
