package activity

import (
	"fmt"
	"time"

	"activity_srv/internal/config"

	"github.com/sirupsen/logrus"
)

// Service объединяет обработчики лент.
type Service struct {
	Home   *HomeActivities
	Search *SearchActivities
	User   *UserActivities
}

// NewService выбирает для каждой ленты заглушку или SQL-шаблон по конфигурации.
// now == nil означает time.Now.
func NewService(
	cfg config.Activities,
	loader TemplateLoader,
	executor QueryExecutor,
	logger *logrus.Logger,
	now func() time.Time,
) (*Service, error) {
	home, err := newSource(cfg.Home, HomeStub, "activities", "home", loader, executor, logger, now)
	if err != nil {
		return nil, fmt.Errorf("home: %w", err)
	}
	search, err := newSource(cfg.Search, SearchStub, "activities", "search", loader, executor, logger, now)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	// заглушки для ленты пользователя нет: используется поисковая запись
	user, err := newSource(cfg.User, SearchStub, "users", "show", loader, executor, logger, now)
	if err != nil {
		return nil, fmt.Errorf("user: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"home":   cfg.Home,
		"search": cfg.Search,
		"user":   cfg.User,
	}).Info("Activity sources configured")

	return &Service{
		Home:   NewHomeActivities(home, logger),
		Search: NewSearchActivities(search, logger),
		User:   NewUserActivities(user, logger),
	}, nil
}

func newSource(
	kind string,
	stub func(time.Time, map[string]any) []Record,
	module, name string,
	loader TemplateLoader,
	executor QueryExecutor,
	logger *logrus.Logger,
	now func() time.Time,
) (Source, error) {
	switch kind {
	case config.SourceStub:
		return NewStubSource(stub, now), nil
	case config.SourceQuery:
		return NewQuerySource(loader, executor, module, name, logger), nil
	default:
		return nil, fmt.Errorf("unknown source %q", kind)
	}
}
