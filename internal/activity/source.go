package activity

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// Source поставляет записи для ленты.
type Source interface {
	Fetch(ctx context.Context, params map[string]any) ([]Record, error)
}

// TemplateLoader загружает SQL-шаблон по паре (module, name).
type TemplateLoader interface {
	Template(ctx context.Context, module, name string) (string, error)
}

// QueryExecutor выполняет запрос и возвращает строки как JSON-массив.
type QueryExecutor interface {
	QueryArrayJSON(ctx context.Context, sql string, params map[string]any) ([]map[string]any, error)
}

// StubSource возвращает фиксированные записи, построенные от текущего времени.
type StubSource struct {
	build func(now time.Time, params map[string]any) []Record
	now   func() time.Time
}

// NewStubSource создает заглушку. now == nil означает time.Now.
func NewStubSource(build func(now time.Time, params map[string]any) []Record, now func() time.Time) *StubSource {
	if now == nil {
		now = time.Now
	}
	return &StubSource{build: build, now: now}
}

// Fetch строит записи заглушки.
func (s *StubSource) Fetch(ctx context.Context, params map[string]any) ([]Record, error) {
	return s.build(s.now().UTC(), params), nil
}

// QuerySource выполняет один шаблон через загрузчик и исполнитель.
type QuerySource struct {
	loader   TemplateLoader
	executor QueryExecutor
	module   string
	name     string
	logger   *logrus.Logger
}

// NewQuerySource создает источник для шаблона module/name.
func NewQuerySource(loader TemplateLoader, executor QueryExecutor, module, name string, logger *logrus.Logger) *QuerySource {
	return &QuerySource{
		loader:   loader,
		executor: executor,
		module:   module,
		name:     name,
		logger:   logger,
	}
}

// Fetch загружает шаблон и выполняет его с параметрами.
func (s *QuerySource) Fetch(ctx context.Context, params map[string]any) ([]Record, error) {
	sql, err := s.loader.Template(ctx, s.module, s.name)
	if err != nil {
		return nil, err
	}

	rows, err := s.executor.QueryArrayJSON(ctx, sql, params)
	if err != nil {
		s.logger.WithError(err).WithField("template", s.module+"/"+s.name).Error("Ошибка выполнения шаблона")
		return nil, fmt.Errorf("%s/%s: %w", s.module, s.name, err)
	}
	return rows, nil
}
