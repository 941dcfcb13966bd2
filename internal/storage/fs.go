package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
)

// FSStorage читает шаблоны из fs.FS: встроенных в бинарник или тестовых.
type FSStorage struct {
	fsys fs.FS
}

// NewFSStorage создает хранилище поверх fsys
func NewFSStorage(fsys fs.FS) *FSStorage {
	return &FSStorage{fsys: fsys}
}

// Get открывает файл
func (s *FSStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	f, err := s.fsys.Open(key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, fmt.Errorf("ошибка открытия файла: %w", err)
	}
	return f, nil
}

// Exists проверяет существование файла
func (s *FSStorage) Exists(ctx context.Context, key string) (bool, error) {
	info, err := fs.Stat(s.fsys, key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("ошибка проверки существования файла: %w", err)
	}
	return !info.IsDir(), nil
}

// List возвращает файлы с префиксом в лексикографическом порядке
func (s *FSStorage) List(ctx context.Context, prefix string) ([]FileInfo, error) {
	var files []FileInfo
	err := fs.WalkDir(s.fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasPrefix(path, prefix) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		files = append(files, FileInfo{Key: path, Size: info.Size(), LastModified: info.ModTime()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка файлов: %w", err)
	}
	return files, nil
}

// ValidateKey валидирует ключ файла
func (s *FSStorage) ValidateKey(key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if !fs.ValidPath(key) {
		return fmt.Errorf("недопустимый путь: %s", key)
	}
	return nil
}
