package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// LocalConfig конфигурация локального хранилища
type LocalConfig struct {
	BasePath string `json:"base_path"`
}

// LocalStorage реализация локального файлового хранилища
type LocalStorage struct {
	basePath string
	logger   *logrus.Logger
}

// NewLocalStorage создает новое локальное хранилище
func NewLocalStorage(cfg LocalConfig, logger *logrus.Logger) (*LocalStorage, error) {
	if err := validateLocalConfig(cfg); err != nil {
		return nil, fmt.Errorf("неверная конфигурация локального хранилища: %w", err)
	}

	info, err := os.Stat(cfg.BasePath)
	if err != nil {
		return nil, fmt.Errorf("базовая директория недоступна: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("базовый путь не является директорией: %s", cfg.BasePath)
	}

	return &LocalStorage{
		basePath: cfg.BasePath,
		logger:   logger,
	}, nil
}

// Get получает файл локально
func (l *LocalStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	file, err := os.Open(l.getFullPath(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, fmt.Errorf("ошибка открытия файла: %w", err)
	}
	return file, nil
}

// Exists проверяет существование файла
func (l *LocalStorage) Exists(ctx context.Context, key string) (bool, error) {
	info, err := os.Stat(l.getFullPath(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("ошибка проверки существования файла: %w", err)
	}
	return !info.IsDir(), nil
}

// List возвращает список файлов с префиксом, отсортированный по ключу
func (l *LocalStorage) List(ctx context.Context, prefix string) ([]FileInfo, error) {
	var files []FileInfo

	err := filepath.WalkDir(l.basePath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(l.basePath, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if !strings.HasPrefix(key, prefix) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		files = append(files, FileInfo{
			Key:          key,
			Size:         info.Size(),
			LastModified: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка файлов: %w", err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Key < files[j].Key })
	return files, nil
}

// ValidateKey валидирует ключ файла
func (l *LocalStorage) ValidateKey(key string) error {
	return validateKey(key)
}

// getFullPath возвращает полный путь к файлу
func (l *LocalStorage) getFullPath(key string) string {
	return filepath.Join(l.basePath, filepath.FromSlash(key))
}

// validateLocalConfig валидирует конфигурацию локального хранилища
func validateLocalConfig(cfg LocalConfig) error {
	if cfg.BasePath == "" {
		return fmt.Errorf("базовый путь не может быть пустым")
	}
	if !filepath.IsAbs(cfg.BasePath) {
		return fmt.Errorf("базовый путь должен быть абсолютным")
	}
	return nil
}
