package templates

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"

	"activity_srv/internal/storage"

	"github.com/sirupsen/logrus"
)

const extension = ".sql"

var (
	// ErrTemplateNotFound возвращается, если для (module, name) нет шаблона.
	ErrTemplateNotFound = errors.New("template not found")
	// ErrEmptyTemplate возвращается для пустого файла шаблона.
	ErrEmptyTemplate = errors.New("template is empty")
)

var namePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Ref идентифицирует шаблон.
type Ref struct {
	Module string `json:"module"`
	Name   string `json:"name"`
}

func (r Ref) String() string {
	return r.Module + "/" + r.Name
}

// Loader находит SQL-шаблоны по паре (module, name). Файл читается при
// каждом вызове, результат не кешируется.
type Loader struct {
	storage storage.Storage
	prefix  string
	logger  *logrus.Logger
}

// NewLoader создает загрузчик. prefix задает каталог диалекта ("postgres", "sqlite").
func NewLoader(st storage.Storage, prefix string, logger *logrus.Logger) *Loader {
	return &Loader{storage: st, prefix: prefix, logger: logger}
}

// Template возвращает текст шаблона без изменений.
func (l *Loader) Template(ctx context.Context, module, name string) (string, error) {
	if !namePattern.MatchString(module) || !namePattern.MatchString(name) {
		return "", fmt.Errorf("%w: invalid reference %q/%q", ErrTemplateNotFound, module, name)
	}

	key := l.key(module, name)
	logger := l.logger.WithField("template", key)

	rc, err := l.storage.Get(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", fmt.Errorf("%w: %s/%s", ErrTemplateNotFound, module, name)
		}
		return "", fmt.Errorf("ошибка загрузки шаблона %s/%s: %w", module, name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("ошибка чтения шаблона %s/%s: %w", module, name, err)
	}

	sql := string(data)
	if strings.TrimSpace(sql) == "" {
		return "", fmt.Errorf("%w: %s/%s", ErrEmptyTemplate, module, name)
	}

	logger.Debug("Загружен SQL-шаблон")
	return sql, nil
}

// Available перечисляет шаблоны текущего диалекта.
func (l *Loader) Available(ctx context.Context) ([]Ref, error) {
	files, err := l.storage.List(ctx, l.prefix+"/")
	if err != nil {
		return nil, err
	}

	var refs []Ref
	for _, f := range files {
		rel := strings.TrimPrefix(f.Key, l.prefix+"/")
		module, file, ok := strings.Cut(rel, "/")
		if !ok || strings.Contains(file, "/") || !strings.HasSuffix(file, extension) {
			continue
		}
		refs = append(refs, Ref{Module: module, Name: strings.TrimSuffix(file, extension)})
	}
	return refs, nil
}

func (l *Loader) key(module, name string) string {
	return path.Join(l.prefix, module, name+extension)
}
